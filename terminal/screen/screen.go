package screen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/luqmaan/hyperterm-clicky/linkify"
	"github.com/luqmaan/hyperterm-clicky/logger"
	dw "github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultMaxScrollback is the number of rows kept above the active area.
const DefaultMaxScrollback = 10000

var ErrTextMismatch = errors.New("screen: markup text does not match row text")

var (
	_ linkify.RowBuffer          = &Screen{}
	_ linkify.CursorNormalizer   = &Screen{}
	_ linkify.MutationObservable = &Screen{}
	_ linkify.AnchorSurface      = &Screen{}
)

type Options struct {
	// MaxScrollback caps the rows kept above the active area. Zero means
	// DefaultMaxScrollback.
	MaxScrollback int
	Logger        logger.Logger
}

// Screen is a row buffer for one terminal. Text is stored in cells; every
// row also owns a small HTML tree that mirrors the cells and carries link
// markup once annotated.
//
// Text insertion and character deletion notify observers after they
// complete. Observers may rewrite row markup but must not mutate the
// screen's text.
type Screen struct {
	Cursor *Cursor

	rows       []*Row
	node       *html.Node
	cols, size int

	maxScrollback int
	observers     []func()
	observing     bool

	logger logger.Logger
}

// Initialize a new screen
func NewScreen(cols, rows int, opts Options) *Screen {
	if cols < 1 || rows < 1 {
		panic(fmt.Sprintf("screen: invalid size %dx%d", cols, rows))
	}
	if opts.MaxScrollback <= 0 {
		opts.MaxScrollback = DefaultMaxScrollback
	}
	s := &Screen{
		Cursor:        &Cursor{},
		node:          &html.Node{Type: html.ElementNode, Data: screenTag},
		cols:          cols,
		size:          rows,
		maxScrollback: opts.MaxScrollback,
		logger:        logger.OrDiscard(opts.Logger),
	}
	for i := 0; i < rows; i++ {
		s.appendRow()
	}
	s.moveCursor(0, 0)
	return s
}

// Observe registers fn to run after every InsertString and DeleteChars.
func (s *Screen) Observe(fn func()) {
	s.observers = append(s.observers, fn)
}

func (s *Screen) notify() {
	s.observing = true
	defer func() { s.observing = false }()
	for _, fn := range s.observers {
		fn()
	}
}

func (s *Screen) assertNotObserving(op string) {
	if s.observing {
		panic("screen: " + op + " called from a mutation observer")
	}
}

func (s *Screen) GetSize() (cols, rows int) {
	return s.cols, s.size
}

// Len returns the number of rows, scrollback included.
func (s *Screen) Len() int {
	return len(s.rows)
}

func (s *Screen) Row(y int) *Row {
	return s.rows[y]
}

// InsertString prints text at the cursor, overwriting cells and wrapping to
// the next row when the current one is full. text must not contain control
// characters.
func (s *Screen) InsertString(text string) {
	s.assertNotObserving("InsertString")

	touched := map[*Row]struct{}{}
	for _, c := range text {
		width := dw.RuneWidth(c)
		if width == 0 {
			// no grapheme cluster support
			continue
		}
		if s.Cursor.X+width > s.cols {
			s.softWrap()
		}
		row := s.rows[s.Cursor.Y]
		s.writeCell(row, c, width)
		touched[row] = struct{}{}
	}

	for row := range touched {
		row.sync()
		row.touch()
	}
	s.notify()
}

// DeleteChars removes n cells at the cursor, shifting the rest of the row
// left.
func (s *Screen) DeleteChars(n int) {
	s.assertNotObserving("DeleteChars")
	if n <= 0 {
		return
	}

	row := s.rows[s.Cursor.Y]
	if x := s.Cursor.X; x < len(row.Cells) {
		end := min(x+n, len(row.Cells))
		row.Cells = append(row.Cells[:x], row.Cells[end:]...)
		// A wide character cut in half turns into a blank.
		if x < len(row.Cells) && row.Cells[x].Wide == WideSpacerTail {
			row.Cells[x] = Cell{}
		}
		if x > 0 && row.Cells[x-1].Wide == WideWide &&
			(x == len(row.Cells) || row.Cells[x].Wide != WideSpacerTail) {
			row.Cells[x-1] = Cell{}
		}
		if row.Prompt > x {
			row.Prompt = max(x, row.Prompt-(end-x))
		}
		row.sync()
		row.touch()
	}
	s.notify()
}

// LineFeed moves the cursor to the next row, scrolling when it is on the
// last one. The column is kept.
func (s *Screen) LineFeed() {
	s.moveCursor(s.Cursor.X, s.Cursor.Y+1)
}

// CarriageReturn moves the cursor to the first column.
func (s *Screen) CarriageReturn() {
	s.moveCursor(0, s.Cursor.Y)
}

// Backspace moves the cursor back a column (but not less than 0).
func (s *Screen) Backspace() {
	s.moveCursor(min(s.Cursor.X, s.cols)-1, s.Cursor.Y)
}

// SetCursor moves the cursor to column x of row y of the active area.
func (s *Screen) SetCursor(x, y int) {
	top := len(s.rows) - s.size
	y = max(0, min(y, s.size-1))
	s.moveCursor(x, top+y)
}

// MarkPrompt records the cells left of the cursor as the shell prompt of
// the cursor row.
func (s *Screen) MarkPrompt() {
	row := s.rows[s.Cursor.Y]
	row.Prompt = s.Cursor.X
	row.sync()
	row.touch()
	s.Cursor.Node = row.Node.LastChild
}

// Wrap to the next row; the current row overflows into it.
func (s *Screen) softWrap() {
	s.rows[s.Cursor.Y].Wrap = true
	s.moveCursor(0, s.Cursor.Y+1)
	next := s.rows[s.Cursor.Y]
	next.WrapContinuation = true
	next.touch()
}

func (s *Screen) writeCell(row *Row, c rune, width int) {
	x := s.Cursor.X
	for len(row.Cells) < x+width {
		row.Cells = append(row.Cells, Cell{})
	}
	// Overwriting half of a wide character blanks the other half.
	if row.Cells[x].Wide == WideSpacerTail && x > 0 {
		row.Cells[x-1] = Cell{}
	}
	if end := x + width; end < len(row.Cells) && row.Cells[end].Wide == WideSpacerTail {
		row.Cells[end] = Cell{}
	}

	switch width {
	case 1:
		row.Cells[x] = Cell{CP: c, Wide: WideNarrow}
	case 2:
		row.Cells[x] = Cell{CP: c, Wide: WideWide}
		row.Cells[x+1] = Cell{Wide: WideSpacerTail}
	default:
		panic("screen: unsupported character width " + strconv.Itoa(width))
	}
	s.Cursor.X += width
}

func (s *Screen) moveCursor(x, y int) {
	x = max(0, min(x, s.cols-1))
	for y >= len(s.rows) {
		s.appendRow()
		if len(s.rows) > s.size+s.maxScrollback {
			s.dropRow()
			y--
		}
	}
	s.Cursor.X = x
	s.Cursor.Y = max(0, y)
	s.Cursor.Node = s.rows[s.Cursor.Y].Node.LastChild
}

func (s *Screen) appendRow() {
	row := newRow()
	s.rows = append(s.rows, row)
	s.node.AppendChild(row.Node)
	row.touch()
}

func (s *Screen) dropRow() {
	s.node.RemoveChild(s.rows[0].Node)
	s.rows[0] = nil
	s.rows = s.rows[1:]
}

// CursorRow returns the absolute index of the cursor row.
func (s *Screen) CursorRow() int {
	return s.Cursor.Y
}

// RowSpan returns the trailing text of row index and its wrap state.
func (s *Screen) RowSpan(index int) linkify.RowSpan {
	row := s.rows[index]
	children := 0
	for c := row.Node.FirstChild; c != nil; c = c.NextSibling {
		children++
	}
	return linkify.RowSpan{
		Text:          textContent(row.Node.LastChild),
		ContinuesFrom: row.WrapContinuation,
		Fragmented:    children > 1,
	}
}

// NormalizeCursor makes sure the cursor node is an element so its content
// can hold markup.
func (s *Screen) NormalizeCursor() {
	if n := s.Cursor.Node; n != nil && n.Type == html.TextNode {
		s.Cursor.Node = wrapText(n)
	}
}

// SetRowMarkup replaces the content of the trailing child of row index.
// The text of markup must equal the current text of that child.
func (s *Screen) SetRowMarkup(index int, markup string) error {
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("screen: row %d out of range [0,%d)", index, len(s.rows))
	}
	row := s.rows[index]
	last := row.Node.LastChild

	context := newElement(atom.Span)
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("screen: parse row %d markup: %w", index, err)
	}
	var text strings.Builder
	for _, n := range nodes {
		text.WriteString(textContent(n))
	}
	if text.String() != textContent(last) {
		s.logger.Debug("rejecting row markup", "row", index, "markup", markup)
		return fmt.Errorf("screen: row %d: %w", index, ErrTextMismatch)
	}

	if last.Type == html.TextNode {
		wrapped := wrapText(last)
		if s.Cursor.Node == last {
			s.Cursor.Node = wrapped
		}
		last = wrapped
	}
	removeChildren(last)
	for _, n := range nodes {
		last.AppendChild(n)
	}
	row.touch()
	return nil
}

// RowMarkup returns the content of the trailing child of row index.
func (s *Screen) RowMarkup(index int) string {
	return innerHTML(s.rows[index].Node.LastChild)
}

// AnchorsByID returns every rendered anchor with the given data-id, top to
// bottom.
func (s *Screen) AnchorsByID(id string) []linkify.AnchorElement {
	var anchors []linkify.AnchorElement
	for _, row := range s.rows {
		walk(row.Node, func(n *html.Node) {
			if n.Type != html.ElementNode || n.DataAtom != atom.A {
				return
			}
			e := &Element{node: n, row: row}
			if e.Attr(linkify.AttrID) == id {
				anchors = append(anchors, e)
			}
		})
	}
	return anchors
}

// ElementAt returns the innermost element under column x of active row y,
// or nil when the cell holds no text.
func (s *Screen) ElementAt(x, y int) *Element {
	y += len(s.rows) - s.size
	if y < 0 || y >= len(s.rows) || x < 0 {
		return nil
	}
	row := s.rows[y]

	// Convert the column into a character offset.
	offset := -1
	for i, c := range row.Cells {
		if i > x {
			break
		}
		if c.Wide != WideSpacerTail {
			offset++
		}
	}
	if x >= len(row.Cells) || offset < 0 {
		return nil
	}

	var found *Element
	var pos int
	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.TextNode {
			l := len([]rune(n.Data))
			if offset < pos+l {
				if p := n.Parent; p != nil && p != row.Node {
					found = &Element{node: p, row: row}
				} else {
					found = &Element{node: row.Node, row: row}
				}
				return true
			}
			pos += l
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if visit(c) {
				return true
			}
		}
		return false
	}
	visit(row.Node)
	return found
}

// HTML renders the whole screen.
func (s *Screen) HTML() string {
	return renderNode(s.node)
}

// PlainString returns the text of all rows, one per line, without trailing
// empty rows.
func (s *Screen) PlainString() string {
	lines := make([]string, len(s.rows))
	for i, row := range s.rows {
		lines[i] = strings.TrimRight(row.String(), " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// DirtyRows returns the indexes of rows whose rendering changed since the
// last ClearDirty. Rows are only hashed here, not on every mutation.
func (s *Screen) DirtyRows() []int {
	var dirty []int
	for i, row := range s.rows {
		row.refresh()
		if row.dirty {
			dirty = append(dirty, i)
		}
	}
	return dirty
}

// ClearDirty takes the current rendering of every row as the baseline for
// the next DirtyRows.
func (s *Screen) ClearDirty() {
	for _, row := range s.rows {
		row.refresh()
		row.dirty = false
	}
}
