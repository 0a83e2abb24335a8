package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lower-cases text and strips diacritics so that "Réunion" and "reunion"
// compare equal. Punctuation is kept: parenthesized e-mail lists and
// hyphenated words like "rendez-vous" must survive folding.
func fold(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "’", "'")

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
