package linkify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRows struct {
	spans      []RowSpan
	cursor     int
	markup     map[int]string
	normalized int
	err        error
}

func newTestRows(cursor int, spans ...RowSpan) *testRows {
	return &testRows{spans: spans, cursor: cursor, markup: map[int]string{}}
}

func (r *testRows) CursorRow() int            { return r.cursor }
func (r *testRows) RowSpan(index int) RowSpan { return r.spans[index] }
func (r *testRows) NormalizeCursor()          { r.normalized++ }

func (r *testRows) SetRowMarkup(index int, markup string) error {
	if r.err != nil {
		return r.err
	}
	r.markup[index] = markup
	return nil
}

type testObservable struct {
	observers []func()
}

func (o *testObservable) Observe(fn func()) {
	o.observers = append(o.observers, fn)
}

func TestAnnotator_SingleRow(t *testing.T) {
	rows := newTestRows(0, RowSpan{Text: "open https://x.io now"})
	a := NewAnnotator(rows, AnnotatorOptions{})

	a.Annotate()
	assert.Equal(t, 1, rows.normalized)
	assert.Equal(t, map[int]string{
		0: `open <a href="https://x.io" data-id="0">https://x.io</a> now`,
	}, rows.markup)
	assert.Equal(t, 1, a.NextID())
}

func TestAnnotator_WrappedLine(t *testing.T) {
	rows := newTestRows(2,
		RowSpan{Text: "$ make"},
		RowSpan{Text: "see https://exa"},
		RowSpan{Text: "mple.com/x done", ContinuesFrom: true},
	)
	a := NewAnnotator(rows, AnnotatorOptions{})
	a.Annotate()

	anchor := `<a href="https://example.com/x" data-id="0">`
	assert.Equal(t, map[int]string{
		1: "see " + anchor + "https://exa</a>",
		2: anchor + "mple.com/x</a> done",
	}, rows.markup)
}

func TestAnnotator_StopsAtFragmentedRow(t *testing.T) {
	rows := newTestRows(1,
		RowSpan{Text: "see https://exa"},
		RowSpan{Text: "mple.com", ContinuesFrom: true, Fragmented: true},
	)
	NewAnnotator(rows, AnnotatorOptions{}).Annotate()

	assert.Equal(t, map[int]string{
		1: `<a href="http://mple.com" data-id="0">mple.com</a>`,
	}, rows.markup)
}

func TestAnnotator_NoMatchLeavesRowsAlone(t *testing.T) {
	rows := newTestRows(0, RowSpan{Text: "nothing to see"})
	a := NewAnnotator(rows, AnnotatorOptions{})
	a.Annotate()
	assert.Empty(t, rows.markup)
	assert.Equal(t, 0, a.NextID())

	rows = newTestRows(0, RowSpan{})
	NewAnnotator(rows, AnnotatorOptions{}).Annotate()
	assert.Empty(t, rows.markup)
}

func TestAnnotator_IDsGrowAcrossPasses(t *testing.T) {
	rows := newTestRows(0, RowSpan{Text: "a.io b.io"})
	a := NewAnnotator(rows, AnnotatorOptions{})

	a.Annotate()
	assert.Equal(t,
		`<a href="http://a.io" data-id="0">a.io</a> <a href="http://b.io" data-id="1">b.io</a>`,
		rows.markup[0])

	a.Annotate()
	assert.Equal(t,
		`<a href="http://a.io" data-id="2">a.io</a> <a href="http://b.io" data-id="3">b.io</a>`,
		rows.markup[0])
	assert.Equal(t, 4, a.NextID())
}

func TestAnnotator_SeparateScreensHaveSeparateIDs(t *testing.T) {
	first := NewAnnotator(newTestRows(0, RowSpan{Text: "x.io"}), AnnotatorOptions{})
	second := NewAnnotator(newTestRows(0, RowSpan{Text: "x.io"}), AnnotatorOptions{})
	first.Annotate()
	first.Annotate()
	second.Annotate()
	assert.Equal(t, 2, first.NextID())
	assert.Equal(t, 1, second.NextID())
}

func TestAnnotator_WriteErrorsDoNotStopThePass(t *testing.T) {
	rows := newTestRows(0, RowSpan{Text: "x.io"})
	rows.err = errors.New("row gone")
	a := NewAnnotator(rows, AnnotatorOptions{})

	require.NotPanics(t, a.Annotate)
	assert.Equal(t, 1, a.NextID())
}

func TestAnnotator_Attach(t *testing.T) {
	rows := newTestRows(0, RowSpan{Text: "x.io"})
	screen := &testObservable{}
	NewAnnotator(rows, AnnotatorOptions{}).Attach(screen)

	require.Len(t, screen.observers, 1)
	screen.observers[0]()
	assert.Contains(t, rows.markup[0], `data-id="0"`)
}
