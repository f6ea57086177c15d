package linkify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"
)

// Match is a linkable span of a logical line.
//
// Start and End are character (rune) offsets into the text the match was
// found in; End is exclusive. FileName is only set for stack-trace
// matches.
type Match struct {
	ID       int
	URL      string
	Start    int
	End      int
	FileName string
}

const (
	urlScheme = `(?P<scheme>(?:[a-z]+:)?//)`
	urlAuth   = `(?:\S+(?::\S*)?@)?`
	urlIPv4   = `(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]\d|\d)(?:\.(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]\d|\d)){3}`
	urlLabel  = `(?:[a-z\x{00a1}-\x{ffff}0-9]-*)*[a-z\x{00a1}-\x{ffff}0-9]+`
	urlTLD    = `\.(?P<tld>[a-z\x{00a1}-\x{ffff}]{2,})\.?`
	urlPort   = `(?::\d{2,5})?`
	urlPath   = `(?:[/?#][^\s"]*)?`
)

var (
	urlRe = regexp.MustCompile(`(?i)` + urlScheme + `?` + urlAuth +
		`(?:localhost|` + urlIPv4 + `|` + urlLabel + `(?:\.` + urlLabel + `)*` + urlTLD + `)` +
		urlPort + urlPath)

	urlSchemeIdx = urlRe.SubexpIndex("scheme")
	urlTLDIdx    = urlRe.SubexpIndex("tld")

	stackTraceRe = regexp.MustCompile(`\((/.*:\d*:\d*)\)`)
	schemeRe     = regexp.MustCompile(`^[a-z]+://`)
	emailRe      = regexp.MustCompile(`^[^.\s@:](?:[^\s@:]*[^\s@:.])?@[^.\s@]+(?:\.[^.\s@]+)*$`)
)

// FindMatches returns the URL-shaped substrings of text in left-to-right
// order. When text holds no URL at all, a single parenthesized stack-trace
// location such as "(/src/app.js:10:5)" is looked for instead.
//
// The stack-trace span starts at the first '/' and ends at the first ')'
// of the whole text, not of the pattern occurrence. Lines with an earlier
// slash or parenthesis therefore get a misplaced (possibly empty) span.
//
// Bare host names count as URLs when their last label is a country or
// generic TLD, and several of those double as source file extensions
// (.py, .rs, .sh, .pl). A trace such as "(/home/u/app.py:12:4)" therefore
// yields the URL "http://app.py:12" and the stack-trace fallback never runs.
//
// Schemes are only recognized in lower case: "HTTPS://X.IO" is matched but
// gets an "http://" prefix like a bare host.
//
// The returned matches have no ID; the Annotator assigns them.
func FindMatches(text string) []Match {
	var matches []Match
	for pos := 0; pos < len(text); {
		loc := urlRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		start, end := loc[0], loc[1]
		if end == start {
			pos = end + 1
			continue
		}
		pos = end
		if loc[2*urlSchemeIdx] < 0 && loc[2*urlTLDIdx] >= 0 &&
			!knownTLD(text[loc[2*urlTLDIdx]:loc[2*urlTLDIdx+1]]) {
			continue
		}
		matches = append(matches, Match{
			URL:   AbsoluteURL(text[start:end]),
			Start: runeOffset(text, start),
			End:   runeOffset(text, end),
		})
	}
	if len(matches) > 0 {
		return matches
	}

	sub := stackTraceRe.FindStringSubmatch(text)
	if sub == nil {
		return nil
	}
	start := strings.Index(text, "/")
	end := strings.Index(text, ")")
	return []Match{{
		URL:      sub[1],
		FileName: sub[1],
		Start:    runeOffset(text, start),
		End:      runeOffset(text, end),
	}}
}

// AbsoluteURL turns the raw text of a match into a navigable URL.
func AbsoluteURL(raw string) string {
	switch {
	case schemeRe.MatchString(raw):
		return raw
	case strings.HasPrefix(raw, "//"):
		return "http:" + raw
	case emailRe.MatchString(raw):
		return "mailto:" + raw
	default:
		return "http://" + raw
	}
}

// Bare hosts like "app.js" only count when their last label is a real
// top level domain.
func knownTLD(tld string) bool {
	suffix, icann := publicsuffix.PublicSuffix(strings.ToLower(tld))
	return icann && suffix == strings.ToLower(tld)
}

func runeOffset(text string, byteOffset int) int {
	if byteOffset < 0 {
		return byteOffset
	}
	return utf8.RuneCountInString(text[:byteOffset])
}
