package screen

import "golang.org/x/net/html"

// The cursor position.
type Cursor struct {
	// X is the column the next character is written to. It equals the
	// screen width when the row is full and the next print has to wrap.
	X int
	// Y is the absolute row index, scrollback included.
	Y int

	// Node is the row child that receives text at the cursor. It is the
	// trailing child of the cursor row and may be a bare text node until
	// NormalizeCursor wraps it.
	Node *html.Node
}

// PendingWrap reports whether the next printed character starts a new row.
func (c *Cursor) PendingWrap(cols int) bool {
	return c.X >= cols
}
