package analysis

import "strings"

// PunctuationMarks is the fixed set of marks that form their own tokens.
const PunctuationMarks = ".,:;!?—()“”‘’…"

// IsPunctuation reports whether r belongs to PunctuationMarks.
func IsPunctuation(r rune) bool {
	return strings.ContainsRune(PunctuationMarks, r)
}

// ContainsPunctuation reports whether any rune of s is a punctuation mark.
func ContainsPunctuation(s string) bool {
	return strings.ContainsAny(s, PunctuationMarks)
}

// Texts returns the comparison text of each token.
func Texts(tokens []Token) []string {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	return texts
}

// Join returns the comparison texts of tokens separated by single spaces.
func Join(tokens []Token) string {
	return strings.Join(Texts(tokens), " ")
}
