package linkify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_PlainRows(t *testing.T) {
	out := Render([]string{"a < b", "&c"}, nil)
	assert.Equal(t, []string{"a &lt; b", "&amp;c"}, out)
}

func TestRender_SingleRow(t *testing.T) {
	text := "<b>&</b> http://x.io/?a=1&b=2 end"
	matches := FindMatches(text)
	require.Len(t, matches, 1)
	matches[0].ID = 3

	out := Render([]string{text}, matches)
	assert.Equal(t, []string{
		`&lt;b&gt;&amp;&lt;/b&gt; ` +
			`<a href="http://x.io/?a=1&amp;b=2" data-id="3">http://x.io/?a=1&amp;b=2</a>` +
			` end`,
	}, out)
}

func TestRender_MatchAcrossRows(t *testing.T) {
	line := strings.Repeat("a", 25) + "x.io/abcde" + strings.Repeat("b", 15)
	require.Len(t, line, 50)
	texts := []string{line[:30], line[30:]}
	matches := []Match{{ID: 7, URL: "http://x.io/abcde", Start: 25, End: 35}}

	out := Render(texts, matches)
	require.Len(t, out, 2)
	assert.Equal(t,
		strings.Repeat("a", 25)+`<a href="http://x.io/abcde" data-id="7">x.io/</a>`,
		out[0])
	assert.Equal(t,
		`<a href="http://x.io/abcde" data-id="7">abcde</a>`+strings.Repeat("b", 15),
		out[1])
}

func TestRender_MatchSpanningThreeRows(t *testing.T) {
	texts := []string{"go https://ex", "ample.com/l", "ong/path ok"}
	matches := FindMatches(strings.Join(texts, ""))
	require.Len(t, matches, 1)

	out := Render(texts, matches)
	anchor := `<a href="https://example.com/long/path" data-id="0">`
	assert.Equal(t, []string{
		"go " + anchor + "https://ex</a>",
		anchor + "ample.com/l</a>",
		anchor + "ong/path</a> ok",
	}, out)
}

func TestRender_SeveralMatchesPerRow(t *testing.T) {
	texts := []string{"a.io b.io", " c.io"}
	matches := FindMatches(strings.Join(texts, ""))
	require.Len(t, matches, 3)
	for i := range matches {
		matches[i].ID = i
	}

	out := Render(texts, matches)
	assert.Equal(t, []string{
		`<a href="http://a.io" data-id="0">a.io</a> <a href="http://b.io" data-id="1">b.io</a>`,
		` <a href="http://c.io" data-id="2">c.io</a>`,
	}, out)
}

func TestRender_StackTrace(t *testing.T) {
	text := "at foo (/home/u/app.js:12:4)"
	matches := FindMatches(text)
	require.Len(t, matches, 1)

	out := Render([]string{text}, matches)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0],
		`at foo (<a href="/home/u/app.js:12:4" data-id="0" data-file-name="/home/u/app.js:12:4"`))
	assert.Contains(t, out[0], `data-language="JavaScript"`)
	assert.True(t, strings.HasSuffix(out[0], `>/home/u/app.js:12:4</a>)`))
}

func TestRender_InvertedStackTraceSpan(t *testing.T) {
	text := "see (a) at (/x/y.js:1:2)"
	out := Render([]string{text}, FindMatches(text))
	assert.Equal(t, []string{"see (a) at (/x/y.js:1:2)"}, out)
}

func TestRender_Idempotent(t *testing.T) {
	texts := []string{"see <https://exam", "ple.com/?q=1&r=2> & more"}
	matches := FindMatches(strings.Join(texts, ""))
	require.NotEmpty(t, matches)

	first := Render(texts, matches)
	second := Render(texts, matches)
	assert.Equal(t, first, second)
}

func TestRender_EscapesEverything(t *testing.T) {
	texts := []string{`x <y> & "z" https://a.io/<b>`}
	out := Render(texts, FindMatches(texts[0]))
	require.Len(t, out, 1)
	assert.NotContains(t, out[0], "<y>")
	assert.NotContains(t, out[0], "<b>")
	assert.Contains(t, out[0], "&lt;y&gt; &amp; &#34;z&#34;")
	assert.Contains(t, out[0], "https://a.io/&lt;b&gt;</a>")
}
