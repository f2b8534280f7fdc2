package index

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// DefaultMinTermLength is the shortest token kept by Build.
const DefaultMinTermLength = 2

// Tokenize splits text into lower-case alphanumeric tokens of at least minLen
// runes. Repeated tokens are kept.
func Tokenize(text string, minLen int) []string {
	fields := strings.Fields(Normalize(text))
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Normalize lower-cases text, maps separators to spaces and removes all other
// runes that are neither letters, digits nor whitespace.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case isSeparator(r):
			b.WriteByte(' ')
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Compact returns Normalize(text) with all whitespace removed.
func Compact(text string) string {
	return strings.Join(strings.Fields(Normalize(text)), "")
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', '.', '/', ':', ',', ';', '|':
		return true
	}
	return false
}

// Levenshtein returns the edit distance between a and b counting single-rune
// insertions, deletions and substitutions.
func Levenshtein(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
