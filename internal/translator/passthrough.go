package translator

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// passthroughRatio is the largest edit distance, relative to the longer
// string, at which an answer still counts as a copy of the input.
const passthroughRatio = 0.1

// DetectPassthrough reports whether translated is effectively original when
// the two languages differ. Same-language requests never count.
func DetectPassthrough(original, translated, source, target string) bool {
	if sameLanguage(source, target) {
		return false
	}
	a, b := normalizeForCompare(original), normalizeForCompare(translated)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(dist)/float64(longest) <= passthroughRatio
}

func sameLanguage(source, target string) bool {
	source, target = strings.TrimSpace(source), strings.TrimSpace(target)
	if source == "" || strings.EqualFold(source, "auto") {
		return false
	}
	if strings.EqualFold(source, target) {
		return true
	}
	s, errS := LookupLanguage(source)
	t, errT := LookupLanguage(target)
	return errS == nil && errT == nil && s.Code == t.Code
}

func normalizeForCompare(s string) string {
	s = norm.NFC.String(strings.ToLower(s))
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return strings.Join(strings.Fields(s), " ")
}
