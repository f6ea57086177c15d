package linkify

import (
	"slices"
	"strings"

	"github.com/luqmaan/hyperterm-clicky/logger"
)

type AnnotatorOptions struct {
	Logger logger.Logger
}

// Annotator rewrites the rows of one screen so that links in the line under
// the cursor become anchors. It is bound to a single RowBuffer for its whole
// life; match IDs grow monotonically and are never reused.
//
// An Annotator is not safe for concurrent use. It expects to be driven from
// the same goroutine that mutates the screen.
type Annotator struct {
	rows   RowBuffer
	nextID int
	logger logger.Logger
}

func NewAnnotator(rows RowBuffer, opts AnnotatorOptions) *Annotator {
	return &Annotator{
		rows:   rows,
		logger: logger.OrDiscard(opts.Logger),
	}
}

// Attach makes the annotator run after every mutation of screen.
func (a *Annotator) Attach(screen MutationObservable) {
	screen.Observe(a.Annotate)
}

// NextID returns the ID the next match will get.
func (a *Annotator) NextID() int {
	return a.nextID
}

// Annotate re-renders the logical line holding the cursor. Rows are left
// untouched when the line holds no link.
func (a *Annotator) Annotate() {
	if n, ok := a.rows.(CursorNormalizer); ok {
		n.NormalizeCursor()
	}

	indexes, texts := a.logicalLine()
	var length int
	for _, text := range texts {
		length += len(text)
	}
	if length == 0 {
		return
	}

	matches := FindMatches(strings.Join(texts, ""))
	if len(matches) == 0 {
		return
	}
	for i := range matches {
		matches[i].ID = a.nextID
		a.nextID++
	}

	for i, markup := range Render(texts, matches) {
		if err := a.rows.SetRowMarkup(indexes[i], markup); err != nil {
			a.logger.Warn("failed to write row markup",
				"row", indexes[i], "error", err)
		}
	}
	a.logger.Debug("annotated logical line",
		"rows", len(indexes), "matches", len(matches))
}

// logicalLine walks up from the cursor row through soft-wrapped rows and
// returns the rows of the line top to bottom.
func (a *Annotator) logicalLine() (indexes []int, texts []string) {
	i := a.rows.CursorRow()
	for {
		span := a.rows.RowSpan(i)
		indexes = append(indexes, i)
		texts = append(texts, span.Text)
		if span.Fragmented || !span.ContinuesFrom || i == 0 {
			break
		}
		i--
	}
	slices.Reverse(indexes)
	slices.Reverse(texts)
	return indexes, texts
}
