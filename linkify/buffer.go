package linkify

type (
	// RowSpan is the annotator's view of one physical row.
	RowSpan struct {
		// Text of the row's trailing, text-bearing child.
		Text string
		// ContinuesFrom reports that the row is a soft-wrapped
		// continuation of the row above it.
		ContinuesFrom bool
		// Fragmented reports that the row holds more than one child node
		// (e.g. a prompt followed by typed text). Logical lines never
		// extend above a fragmented row.
		Fragmented bool
	}

	// RowBuffer is the row storage of a terminal screen.
	RowBuffer interface {
		// CursorRow returns the index of the row holding the cursor.
		CursorRow() int
		// RowSpan returns the row at index.
		RowSpan(index int) RowSpan
		// SetRowMarkup replaces the content of the row's trailing child
		// with markup.
		SetRowMarkup(index int, markup string) error
	}

	// CursorNormalizer is implemented by buffers whose cursor may sit in a
	// bare text node. NormalizeCursor wraps that text in an inline element
	// and repoints the cursor at it.
	CursorNormalizer interface {
		NormalizeCursor()
	}

	// MutationObservable is implemented by screens that report text
	// insertions and character deletions. Observers run after the
	// mutation completes, synchronously, one at a time.
	MutationObservable interface {
		Observe(fn func())
	}
)
