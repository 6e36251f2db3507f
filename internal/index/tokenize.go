package index

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text and splits it on every rune that is not a letter
// or digit. Empty tokens are dropped. No stemming, no stop-words: the corpus
// is small and domain-specific.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
