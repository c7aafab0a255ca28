// Package sanitize derives filesystem-safe name tokens from free-form
// course text. Titles arrive as arbitrary Unicode; the export filename
// has to survive zip archives and every filesystem a reader unpacks
// onto, so whitespace collapses to underscores, path separators and
// shell metacharacters are dropped, and accented letters are folded to
// their base forms.
package sanitize

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes each rune, strips the combining marks, and
// recomposes, so "Café" becomes "Cafe".
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// unsafe lists runes that are meaningful to some path parser or shell
// on at least one supported platform. They are removed, not replaced.
var unsafe = map[rune]bool{
	'/':  true,
	'\\': true,
	':':  true,
	'*':  true,
	'?':  true,
	'"':  true,
	'\'': true,
	'<':  true,
	'>':  true,
	'|':  true,
	'#':  true,
	'%':  true,
	'&':  true,
}

// Filename reduces s to a name token of at most limit runes. Runs of
// whitespace become a single underscore, path-unsafe and control
// characters vanish, and the result is truncated without an ellipsis.
// An empty or fully-unsafe input yields the empty string; callers that
// need a non-empty name supply their own fallback.
func Filename(s string, limit int) string {
	folded, _, err := transform.String(foldMarks, s)
	if err != nil {
		folded = s
	}

	out := make([]rune, 0, len(folded))
	space := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unsafe[r], unicode.IsControl(r):
			// dropped
		default:
			if space && len(out) > 0 {
				out = append(out, '_')
			}
			space = false
			out = append(out, r)
		}
	}

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return string(out)
}
