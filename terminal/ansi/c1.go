package ansi

// C1 (8-bit) controls that open or close a control sequence. Each has a
// 7-bit form: ESC followed by the character in the comment.
//
// https://vt100.net/emu/dec_ansi_parser
const (
	DCS rune = 0x90 // Device control string (ESC P)
	SOS rune = 0x98 // Start of string (ESC X)
	CSI rune = 0x9B // Control sequence introducer (ESC [)
	ST  rune = 0x9C // String terminator (ESC \)
	OSC rune = 0x9D // Operating system command (ESC ])
	PM  rune = 0x9E // Privacy message (ESC ^)
	APC rune = 0x9F // Application program command (ESC _)
)

// IsC1 reports whether c is a C1 control character.
func IsC1(c rune) bool {
	return c >= 0x80 && c <= 0x9F
}
