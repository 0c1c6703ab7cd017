package classify

import (
	"strings"
	"unicode"

	"signalsort/internal/domain"
)

// Normalize lowercases a signal's title and description into a single
// content string with internal whitespace collapsed. Pure; an empty or
// whitespace-only signal normalizes to "".
func Normalize(sig domain.SupportSignal) string {
	joined := strings.ToLower(sig.Title + " " + sig.Description)
	return strings.Join(strings.Fields(joined), " ")
}

// Tokenize splits content into lowercase alphanumeric tokens.
func Tokenize(s string) []string {
	s = strings.ToLower(s)
	var tokens []string
	var cur strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
		} else {
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
