package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreen_EraseInLineDropsMarkup(t *testing.T) {
	s := NewScreen(20, 2, Options{})
	var mutations int
	s.Observe(func() { mutations++ })

	s.InsertString("get x.io/a")
	require.NoError(t, s.SetRowMarkup(0, `get <a href="http://x.io/a" data-id="0">x.io/a</a>`))
	require.Len(t, s.AnchorsByID("0"), 1)

	s.CarriageReturn()
	s.EraseInLine(ELModeRight)
	assert.Equal(t, 2, mutations)
	assert.Equal(t, "", s.RowMarkup(0))
	assert.Equal(t, "", s.RowSpan(0).Text)
	assert.Empty(t, s.AnchorsByID("0"))
}

func TestScreen_EraseInLineKeepsWideCharactersWhole(t *testing.T) {
	s := NewScreen(10, 2, Options{})
	s.InsertString("a世b")

	// From the right half of 世.
	s.SetCursor(2, 0)
	s.EraseInLine(ELModeRight)
	assert.Equal(t, "a", s.PlainString())

	s.CarriageReturn()
	s.EraseInLine(ELModeAll)
	s.InsertString("a世b")

	// Up to the left half of 世.
	s.SetCursor(1, 0)
	s.EraseInLine(ELModeLeft)
	assert.Equal(t, "   b", s.PlainString())
}

func TestScreen_EraseInLineTrimsPrompt(t *testing.T) {
	s := NewScreen(20, 2, Options{})
	s.InsertString("$ ")
	s.MarkPrompt()
	s.InsertString("ls")

	s.SetCursor(1, 0)
	s.EraseInLine(ELModeRight)
	assert.Equal(t, 1, s.Row(0).Prompt)
	assert.Equal(t, "$", s.PlainString())
}

func TestScreen_EraseInDisplayResetsWrap(t *testing.T) {
	s := NewScreen(5, 3, Options{})
	s.InsertString("abcdefgh")
	require.True(t, s.Row(1).WrapContinuation)

	s.SetCursor(2, 0)
	s.EraseInDisplay(EDModeBelow)
	assert.Equal(t, "ab", s.PlainString())
	assert.False(t, s.Row(0).Wrap)
	assert.False(t, s.Row(1).WrapContinuation)
	assert.False(t, s.RowSpan(1).ContinuesFrom)
}

func TestScreen_EraseFromObserverPanics(t *testing.T) {
	s := NewScreen(10, 2, Options{})
	s.Observe(func() { s.EraseInLine(ELModeAll) })
	assert.Panics(t, func() { s.InsertString("a") })
}

func TestScreen_DirtyRowsHashLazily(t *testing.T) {
	s := NewScreen(10, 2, Options{})
	s.InsertString("ab")
	s.ClearDirty()
	fingerprint := s.Row(0).fingerprint

	s.InsertString("x")
	assert.True(t, s.Row(0).stale)
	assert.Equal(t, fingerprint, s.Row(0).fingerprint)

	// Back to "ab": nothing changed since ClearDirty.
	s.Backspace()
	s.DeleteChars(1)
	assert.Empty(t, s.DirtyRows())
	assert.False(t, s.Row(0).stale)

	s.InsertString("c")
	assert.Equal(t, []int{0}, s.DirtyRows())
	assert.Equal(t, []int{0}, s.DirtyRows())
}
