package clicky

import (
	"errors"
	"strconv"
	"strings"

	"github.com/luqmaan/hyperterm-clicky/logger"
	"github.com/luqmaan/hyperterm-clicky/terminal/ansi"
	"github.com/luqmaan/hyperterm-clicky/terminal/screen"
	"github.com/luqmaan/hyperterm-clicky/terminal/tabstops"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type streamState int

// The states of the vt100.net parser the stream needs. DCS, SOS, PM and APC
// payloads share one state since they are all swallowed.
const (
	stateGround streamState = iota
	stateEscape
	stateEscapeIntermediate
	stateCSI
	stateCSIIgnore
	stateOSC
	stateOSCEscape
	stateString
)

// Stream turns pty output into screen operations. It understands the
// control characters and the handful of escape sequences that matter for
// linking: printing, line movement, cursor positioning, erasing, character
// deletion and the OSC 133 prompt markers. Other sequences are parsed to
// their end and dropped, so none of their bytes reach the screen.
//
// Stream is stateful and is expected to live for the entire lifetime of the
// screen: sequences and UTF-8 characters may be split across writes.
type Stream struct {
	screen   *screen.Screen
	decoder  transform.Transformer
	tabstops *tabstops.Tabstops

	// bytes of an incomplete UTF-8 sequence from the previous write
	pending []byte

	state         streamState
	params        strings.Builder
	intermediates strings.Builder
	text          strings.Builder

	logger logger.Logger
}

func NewStream(s *screen.Screen, log logger.Logger) *Stream {
	cols, _ := s.GetSize()
	return &Stream{
		screen:   s,
		decoder:  unicode.UTF8.NewDecoder(),
		tabstops: tabstops.NewTabstops(cols, tabstops.DefaultInterval),
		logger:   logger.OrDiscard(log),
	}
}

// Next processes one chunk of output.
func (s *Stream) Next(p []byte) error {
	src := append(s.pending, p...)
	s.pending = nil

	dst := make([]byte, len(src)+len(src)/2+8)
	for len(src) > 0 {
		nDst, nSrc, err := s.decoder.Transform(dst, src, false)
		s.feed(string(dst[:nDst]))
		src = src[nSrc:]
		switch {
		case err == nil:
		case errors.Is(err, transform.ErrShortSrc):
			s.pending = append(s.pending, src...)
			src = nil
		case errors.Is(err, transform.ErrShortDst):
			dst = make([]byte, len(dst)*2)
		default:
			return err
		}
	}
	s.flush()
	return nil
}

func (s *Stream) feed(decoded string) {
	for _, c := range decoded {
		if s.state != stateGround {
			// CAN and SUB abort a sequence, ESC restarts it.
			switch c {
			case ansi.CAN, ansi.SUB:
				s.state = stateGround
				continue
			case ansi.ESC:
				if s.state == stateOSC {
					s.state = stateOSCEscape
				} else {
					s.state = stateEscape
				}
				continue
			}
		}
		if ansi.IsC1(c) {
			s.c1(c)
			continue
		}

		switch s.state {
		case stateGround:
			s.ground(c)
		case stateEscape:
			s.escape(c)
		case stateEscapeIntermediate:
			switch {
			case c >= 0x20 && c <= 0x2f:
				s.intermediates.WriteRune(c)
			case c >= 0x30 && c <= 0x7e:
				s.logger.Debug("ignoring escape sequence",
					"intermediates", s.intermediates.String(), "final", string(c))
				s.state = stateGround
			case ansi.IsControl(c):
				s.execute(c)
			}
		case stateCSI:
			switch {
			case c >= 0x40 && c <= 0x7e:
				s.csiDispatch(c, s.params.String(), s.intermediates.String())
				s.state = stateGround
			case c >= 0x30 && c <= 0x3f:
				if s.intermediates.Len() > 0 {
					s.state = stateCSIIgnore
					continue
				}
				s.params.WriteRune(c)
			case c >= 0x20 && c <= 0x2f:
				s.intermediates.WriteRune(c)
			case ansi.IsControl(c):
				s.execute(c)
			default:
				s.state = stateCSIIgnore
			}
		case stateCSIIgnore:
			switch {
			case c >= 0x40 && c <= 0x7e:
				s.state = stateGround
			case ansi.IsControl(c):
				s.execute(c)
			}
		case stateOSC:
			switch {
			case c == ansi.BEL:
				s.oscDispatch(s.params.String())
				s.state = stateGround
			case ansi.IsControl(c):
			default:
				s.params.WriteRune(c)
			}
		case stateOSCEscape:
			if c == '\\' {
				s.oscDispatch(s.params.String())
				s.state = stateGround
				continue
			}
			// Any other ESC aborts the string and starts a new sequence.
			s.state = stateEscape
			s.escape(c)
		case stateString:
			// The payload is dropped up to ST (ESC \, handled as an escape
			// sequence) or BEL.
			if c == ansi.BEL {
				s.state = stateGround
			}
		}
	}
}

func (s *Stream) ground(c rune) {
	if !ansi.IsControl(c) {
		s.text.WriteRune(c)
		return
	}
	s.execute(c)
}

// execute runs a C0 control. Controls also execute in the middle of a
// sequence without ending it.
func (s *Stream) execute(c rune) {
	s.flush()
	switch c {
	case ansi.ESC:
		s.state = stateEscape
	case ansi.CR:
		s.screen.CarriageReturn()
	case ansi.LF, ansi.VT, ansi.FF:
		s.screen.CarriageReturn()
		s.screen.LineFeed()
	case ansi.BS:
		s.screen.Backspace()
	case ansi.HT:
		s.screen.SetCursor(s.tabstops.Next(s.screen.Cursor.X), s.activeRow())
	case ansi.DEL:
	default:
		s.logger.Debug("ignoring control character", "char", ansi.Name(c))
	}
}

func (s *Stream) escape(c rune) {
	switch {
	case c == '[':
		s.enterCSI()
	case c == ']':
		s.params.Reset()
		s.state = stateOSC
	case c == 'P', c == 'X', c == '^', c == '_': // DCS, SOS, PM, APC
		s.state = stateString
	case c >= 0x20 && c <= 0x2f:
		// Charset designations and other sequences with intermediates,
		// such as ESC ( B.
		s.intermediates.Reset()
		s.intermediates.WriteRune(c)
		s.state = stateEscapeIntermediate
	case c >= 0x30 && c <= 0x7e:
		s.escDispatch(c)
		s.state = stateGround
	case ansi.IsControl(c):
		s.execute(c)
	default:
		s.state = stateGround
	}
}

// c1 handles the 8-bit forms of the sequence introducers.
func (s *Stream) c1(c rune) {
	s.flush()
	switch c {
	case ansi.CSI:
		s.enterCSI()
	case ansi.OSC:
		s.params.Reset()
		s.state = stateOSC
	case ansi.DCS, ansi.SOS, ansi.PM, ansi.APC:
		s.state = stateString
	case ansi.ST:
		if s.state == stateOSC {
			s.oscDispatch(s.params.String())
		}
		s.state = stateGround
	default:
		s.logger.Debug("ignoring control character", "char", ansi.Name(c))
		s.state = stateGround
	}
}

func (s *Stream) enterCSI() {
	s.params.Reset()
	s.intermediates.Reset()
	s.state = stateCSI
}

func (s *Stream) escDispatch(final rune) {
	switch final {
	case 'H': // HTS
		s.tabstops.Set(s.screen.Cursor.X)
	case '\\': // ST closing a dropped string
	default:
		s.logger.Debug("ignoring escape sequence", "final", string(final))
	}
}

// flush prints the text collected since the last control character.
func (s *Stream) flush() {
	if s.text.Len() == 0 {
		return
	}
	text := s.text.String()
	s.text.Reset()
	s.screen.InsertString(text)
}

func (s *Stream) csiDispatch(final rune, params, intermediates string) {
	// Private (DEC) sequences and sequences with intermediates are not
	// the standard commands below.
	if intermediates != "" || (params != "" && strings.ContainsAny(params[:1], "<=>?")) {
		s.logger.Debug("ignoring CSI sequence", "final", string(final),
			"params", params, "intermediates", intermediates)
		return
	}
	args := parseParams(params)
	arg := func(i, def int) int {
		if i < len(args) && args[i] > 0 {
			return args[i]
		}
		return def
	}

	switch final {
	case 'P': // DCH
		s.screen.DeleteChars(arg(0, 1))
	case 'C': // CUF
		s.screen.SetCursor(s.screen.Cursor.X+arg(0, 1), s.activeRow())
	case 'D': // CUB
		s.screen.SetCursor(s.screen.Cursor.X-arg(0, 1), s.activeRow())
	case 'G': // CHA
		s.screen.SetCursor(arg(0, 1)-1, s.activeRow())
	case 'H', 'f': // CUP
		s.screen.SetCursor(arg(1, 1)-1, arg(0, 1)-1)
	case 'J': // ED
		s.screen.EraseInDisplay(screen.EDMode(arg(0, 0)))
	case 'K': // EL
		s.screen.EraseInLine(screen.ELMode(arg(0, 0)))
	case 'g': // TBC
		switch arg(0, 0) {
		case 0:
			s.tabstops.Unset(s.screen.Cursor.X)
		case 3:
			s.tabstops.Reset(0)
		}
	default:
		s.logger.Debug("ignoring CSI sequence", "final", string(final), "params", params)
	}
}

func (s *Stream) oscDispatch(data string) {
	// OSC 133;B marks the end of the prompt and the start of user input.
	if data == "133;B" || strings.HasPrefix(data, "133;B;") {
		s.screen.MarkPrompt()
		return
	}
	s.logger.Debug("ignoring OSC sequence", "data", data)
}

func (s *Stream) activeRow() int {
	_, rows := s.screen.GetSize()
	return s.screen.Cursor.Y - (s.screen.Len() - rows)
}

func parseParams(params string) []int {
	if params == "" {
		return nil
	}
	fields := strings.Split(params, ";")
	args := make([]int, len(fields))
	for i, f := range fields {
		// Private markers and malformed numbers count as defaults.
		n, err := strconv.Atoi(f)
		if err == nil {
			args[i] = n
		}
	}
	return args
}
