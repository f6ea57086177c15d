// Package ansi names the C0 and C1 control characters the stream reacts to.
package ansi

import "fmt"

// C0 (7-bit) control characters. Only the ones the stream handles, plus
// DEL, are named.
//
// https://vt100.net/docs/vt100-ug/chapter3.html#S3.2
const (
	NUL rune = 0x00 // Null (Caret: ^@)
	BEL rune = 0x07 // Bell (Caret: ^G, Char: \a)
	BS  rune = 0x08 // Backspace (Caret: ^H, Char: \b)
	HT  rune = 0x09 // Horizontal tab (Caret: ^I, Char: \t)
	LF  rune = 0x0A // Line feed (Caret: ^J, Char: \n)
	VT  rune = 0x0B // Vertical tab (Caret: ^K, Char: \v)
	FF  rune = 0x0C // Form feed (Caret: ^L, Char: \f)
	CR  rune = 0x0D // Carriage return (Caret: ^M, Char: \r)
	CAN rune = 0x18 // Cancel (Caret: ^X)
	SUB rune = 0x1A // Substitute (Caret: ^Z)
	ESC rune = 0x1B // Escape (Caret: ^[)
	DEL rune = 0x7F // Delete
)

var names = map[rune]string{
	NUL: "NUL", 0x01: "SOH", 0x02: "STX", 0x03: "ETX", 0x04: "EOT",
	0x05: "ENQ", 0x06: "ACK", BEL: "BEL", BS: "BS", HT: "HT", LF: "LF",
	VT: "VT", FF: "FF", CR: "CR", 0x0E: "SO", 0x0F: "SI", 0x10: "DLE",
	0x11: "DC1", 0x12: "DC2", 0x13: "DC3", 0x14: "DC4", 0x15: "NAK",
	0x16: "SYN", 0x17: "ETB", CAN: "CAN", 0x19: "EM", SUB: "SUB",
	ESC: "ESC", 0x1C: "FS", 0x1D: "GS", 0x1E: "RS", 0x1F: "US", DEL: "DEL",
}

// IsControl reports whether c is a C0 control character or DEL.
func IsControl(c rune) bool {
	return c < 0x20 || c == DEL
}

// Name describes c for logs, e.g. "BEL (0x07)".
func Name(c rune) string {
	if name, ok := names[c]; ok {
		return fmt.Sprintf("%s (0x%02X)", name, c)
	}
	return fmt.Sprintf("0x%02X (%q)", c, c)
}
