package screen

// Erase in Display mode
type EDMode uint8

const (
	EDModeBelow      EDMode = 0
	EDModeAbove      EDMode = 1
	EDModeComplete   EDMode = 2
	EDModeScrollback EDMode = 3
)

// Erase in Line mode
type ELMode uint8

const (
	ELModeRight ELMode = 0
	ELModeLeft  ELMode = 1
	ELModeAll   ELMode = 2
)

// EraseInLine blanks part of the cursor row. Any markup on the row is
// dropped, and observers run as after any other text mutation.
func (s *Screen) EraseInLine(mode ELMode) {
	s.assertNotObserving("EraseInLine")

	// All modes clear the pending wrap state.
	x := min(s.Cursor.X, s.cols-1)
	var start, end int
	switch mode {
	case ELModeRight:
		start, end = x, s.cols
	case ELModeLeft:
		start, end = 0, x+1
	case ELModeAll:
		start, end = 0, s.cols
	default:
		s.logger.Warn("unimplemented erase line", "mode", mode)
		return
	}
	s.Cursor.X = x
	s.eraseCells(s.rows[s.Cursor.Y], start, end)
	s.notify()
}

// EraseInDisplay blanks rows of the active area relative to the cursor, or
// drops the scrollback.
func (s *Screen) EraseInDisplay(mode EDMode) {
	s.assertNotObserving("EraseInDisplay")

	top := len(s.rows) - s.size
	x := min(s.Cursor.X, s.cols-1)
	cur := s.rows[s.Cursor.Y]
	switch mode {
	case EDModeBelow:
		s.Cursor.X = x
		cur.Wrap = false
		s.eraseCells(cur, x, s.cols)
		for _, row := range s.rows[s.Cursor.Y+1:] {
			s.clearRow(row)
		}

	case EDModeAbove:
		s.Cursor.X = x
		cur.WrapContinuation = false
		s.eraseCells(cur, 0, x+1)
		for _, row := range s.rows[top:max(top, s.Cursor.Y)] {
			s.clearRow(row)
		}

	case EDModeComplete:
		for _, row := range s.rows[top:] {
			s.clearRow(row)
		}

	case EDModeScrollback:
		for len(s.rows) > s.size && s.Cursor.Y > 0 {
			s.dropRow()
			s.Cursor.Y--
		}

	default:
		s.logger.Warn("unimplemented erase display", "mode", mode)
		return
	}
	s.notify()
}

// eraseCells blanks the cells in [start, end) of row. A wide character
// crossing either edge is erased whole.
func (s *Screen) eraseCells(row *Row, start, end int) {
	end = min(end, len(row.Cells))
	if start < end {
		if start > 0 && row.Cells[start].Wide == WideSpacerTail {
			start--
		}
		if end < len(row.Cells) && row.Cells[end].Wide == WideSpacerTail {
			end++
		}
		clear(row.Cells[start:end])
	}

	// Blank cells at the end of the row were never written.
	n := len(row.Cells)
	for n > 0 && row.Cells[n-1] == (Cell{}) {
		n--
	}
	row.Cells = row.Cells[:n]
	row.Prompt = min(row.Prompt, n)

	row.sync()
	row.touch()
}

func (s *Screen) clearRow(row *Row) {
	row.Cells = nil
	row.Prompt = 0
	row.Wrap = false
	row.WrapContinuation = false
	row.sync()
	row.touch()
}
