package linkify

import (
	"html"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Stylesheet is the default look of rendered anchors.
const Stylesheet = `
  x-screen a {
    color: #ff2e88;
    text-decoration: none;
  }

  x-screen a.hover {
    text-decoration: underline;
  }
`

// Anchor attribute names.
const (
	AttrHref     = "href"
	AttrID       = "data-id"
	AttrFileName = "data-file-name"
	AttrLanguage = "data-language"

	// HoverClass is added to every anchor of a hovered match.
	HoverClass = "hover"
)

var lineColumnRe = regexp.MustCompile(`(:\d*)*$`)

// Render builds the markup of each row of a logical line.
//
// texts holds the rows' text in order; their concatenation is the logical
// line the matches were found in. Text outside of matches is escaped, and
// a match crossing a row boundary yields one anchor per row, each holding
// only the row's share of the match.
func Render(texts []string, matches []Match) []string {
	line := []rune(strings.Join(texts, ""))
	out := make([]string, len(texts))

	var (
		b        strings.Builder
		rowStart int
		k        int
	)
	for i, text := range texts {
		rowEnd := rowStart + len([]rune(text))
		pos := rowStart
		b.Reset()

		for k < len(matches) && matches[k].Start < rowEnd {
			m := matches[k]
			start, end := max(m.Start, pos), min(m.End, rowEnd)
			if start > pos {
				b.WriteString(html.EscapeString(string(line[pos:start])))
				pos = start
			}
			if end > start {
				writeAnchor(&b, m, line[start:end])
				pos = end
			}
			if m.End > rowEnd {
				break
			}
			k++
		}
		if rowEnd > pos {
			b.WriteString(html.EscapeString(string(line[pos:rowEnd])))
		}

		out[i] = b.String()
		rowStart = rowEnd
	}
	return out
}

func writeAnchor(b *strings.Builder, m Match, text []rune) {
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(m.URL))
	b.WriteString(`" data-id="`)
	b.WriteString(strconv.Itoa(m.ID))
	b.WriteString(`"`)
	if m.FileName != "" {
		b.WriteString(` data-file-name="`)
		b.WriteString(html.EscapeString(m.FileName))
		b.WriteString(`"`)
		if lang := fileLanguage(m.FileName); lang != "" {
			b.WriteString(` data-language="`)
			b.WriteString(html.EscapeString(lang))
			b.WriteString(`"`)
		}
	}
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(string(text)))
	b.WriteString(`</a>`)
}

// fileLanguage guesses the language of a stack-trace location such as
// "/src/app.js:10:5" from its extension.
func fileLanguage(location string) string {
	name := lineColumnRe.ReplaceAllString(location, "")
	lang, _ := enry.GetLanguageByExtension(path.Base(name))
	return lang
}
