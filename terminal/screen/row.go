package screen

import (
	"strings"

	"github.com/mitchellh/hashstructure/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Wide uint8

const (
	WideNarrow Wide = iota
	WideWide
	// The right half of a wide character. Never holds text itself.
	WideSpacerTail
)

type Cell struct {
	// Zero means empty; empty cells read as spaces when followed by text.
	CP   rune
	Wide Wide
}

type Row struct {
	Cells []Cell
	// Whether the row overflowed into the next one
	Wrap bool
	// Whether the row is a continuation of a wrapped line
	WrapContinuation bool
	// Number of leading cells written as a shell prompt. A prompt is kept
	// in its own child node, ahead of the row's text.
	Prompt int


	// The x-row element. Its last child holds the row text, and markup
	// once the row has been annotated.
	Node *html.Node

	// Fingerprint of the rendering last reported by DirtyRows.
	fingerprint uint64
	// Set on every mutation; the fingerprint is out of date.
	stale bool
	dirty bool
}

func newRow() *Row {
	r := &Row{Node: &html.Node{Type: html.ElementNode, Data: rowTag}}
	r.Node.AppendChild(&html.Node{Type: html.TextNode})
	return r
}

// text returns the prompt and the rest of the row as strings.
func (r *Row) text() (prompt, rest string) {
	p := min(r.Prompt, len(r.Cells))
	return cellsText(r.Cells[:p]), cellsText(r.Cells[p:])
}

func cellsText(cells []Cell) string {
	var b strings.Builder
	for _, c := range cells {
		switch {
		case c.Wide == WideSpacerTail:
		case c.CP == 0:
			b.WriteByte(' ')
		default:
			b.WriteRune(c.CP)
		}
	}
	return b.String()
}

// String returns the full text of the row.
func (r *Row) String() string {
	prompt, rest := r.text()
	return prompt + rest
}

// sync rebuilds the row's children from its cells. Markup in the trailing
// child is discarded; the node itself is kept so a cursor pointing at it
// stays valid.
func (r *Row) sync() {
	prompt, rest := r.text()

	last := r.Node.LastChild
	for c := r.Node.FirstChild; c != last; {
		next := c.NextSibling
		r.Node.RemoveChild(c)
		c = next
	}
	if prompt != "" {
		span := newElement(atom.Span)
		span.Attr = []html.Attribute{{Key: "class", Val: promptClass}}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: prompt})
		r.Node.InsertBefore(span, last)
	}
	setText(last, rest)
}

// touch records that the row's rendering may have changed. The fingerprint
// is recomputed lazily by refresh.
func (r *Row) touch() {
	r.stale = true
}

// refresh recomputes the fingerprint of a touched row and flags the row
// dirty when its rendering differs from the last one seen.
func (r *Row) refresh() {
	if !r.stale {
		return
	}
	r.stale = false

	state := struct {
		Markup           string
		Wrap             bool
		WrapContinuation bool
	}{renderNode(r.Node), r.Wrap, r.WrapContinuation}

	sum, err := hashstructure.Hash(state, hashstructure.FormatV2, nil)
	if err != nil {
		panic("screen: failed to hash row: " + err.Error())
	}
	if sum != r.fingerprint {
		r.fingerprint = sum
		r.dirty = true
	}
}
