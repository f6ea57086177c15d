package linkify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatches_NoLinks(t *testing.T) {
	for _, text := range []string{
		"",
		"hello world",
		"ls -la /tmp/build",
		"main.c compiled in 3s",
		"(not a trace)",
	} {
		assert.Empty(t, FindMatches(text), "text %q", text)
	}
}

func TestFindMatches_URLs(t *testing.T) {
	text := "visit example.com and https://x.io/path now"
	matches := FindMatches(text)
	require.Len(t, matches, 2)

	assert.Equal(t, Match{URL: "http://example.com", Start: 6, End: 17}, matches[0])
	assert.Equal(t, Match{URL: "https://x.io/path", Start: 22, End: 39}, matches[1])

	for _, m := range matches {
		assert.Less(t, m.Start, m.End)
		assert.LessOrEqual(t, m.End, len(text))
	}
	assert.Equal(t, "example.com", text[matches[0].Start:matches[0].End])
	assert.Equal(t, "https://x.io/path", text[matches[1].Start:matches[1].End])
}

func TestFindMatches_Email(t *testing.T) {
	matches := FindMatches("mail a@b.com")
	require.Len(t, matches, 1)
	assert.Equal(t, Match{URL: "mailto:a@b.com", Start: 5, End: 12}, matches[0])
}

func TestFindMatches_RuneOffsets(t *testing.T) {
	text := "→ café example.com"
	matches := FindMatches(text)
	require.Len(t, matches, 1)

	runes := []rune(text)
	assert.Equal(t, "example.com", string(runes[matches[0].Start:matches[0].End]))
}

func TestFindMatches_UnknownTLDIsNotALink(t *testing.T) {
	assert.Empty(t, FindMatches("edit app.js"))
	assert.Len(t, FindMatches("edit app.js at https://x.io"), 1)
}

func TestFindMatches_StackTrace(t *testing.T) {
	text := "at foo (/home/u/app.js:12:4)"
	matches := FindMatches(text)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "/home/u/app.js:12:4", m.FileName)
	assert.Equal(t, "/home/u/app.js:12:4", m.URL)
	assert.Equal(t, 8, m.Start)
	assert.Equal(t, 27, m.End)
	assert.Equal(t, m.FileName, text[m.Start:m.End])
}

func TestFindMatches_StackTraceOnlyWithoutURLs(t *testing.T) {
	matches := FindMatches("see https://x.io at foo (/home/u/app.js:12:4)")
	require.Len(t, matches, 1)
	assert.Empty(t, matches[0].FileName)
	assert.Equal(t, "https://x.io", matches[0].URL)
}

func TestFindMatches_StackTraceUsesFirstSlashAndParen(t *testing.T) {
	// The span is taken from the first '/' and ')' of the whole line.
	matches := FindMatches("see (a) at (/x/y.js:1:2)")
	require.Len(t, matches, 1)
	assert.Equal(t, "/x/y.js:1:2", matches[0].FileName)
	assert.Equal(t, 12, matches[0].Start)
	assert.Equal(t, 6, matches[0].End)
}

func TestFindMatches_SourceExtensionIsATLD(t *testing.T) {
	// .py is Paraguay, so the trace reads as a bare host with a port.
	text := "at foo (/home/u/app.py:12:4)"
	matches := FindMatches(text)
	require.Len(t, matches, 1)
	assert.Equal(t, Match{URL: "http://app.py:12", Start: 16, End: 25}, matches[0])
	assert.Equal(t, "app.py:12", text[16:25])
}

func TestFindMatches_UpperCaseScheme(t *testing.T) {
	matches := FindMatches("HTTPS://X.IO")
	require.Len(t, matches, 1)
	assert.Equal(t, Match{URL: "http://HTTPS://X.IO", Start: 0, End: 12}, matches[0])
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"example.com", "http://example.com"},
		{"//example.com", "http://example.com"},
		{"a@b.com", "mailto:a@b.com"},
		{"https://x.io", "https://x.io"},
		{"ftp://x", "ftp://x"},
		{"HTTPS://X.IO", "http://HTTPS://X.IO"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, AbsoluteURL(tt.raw))
		})
	}
}
