package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind distinguishes word tokens from punctuation tokens.
type Kind int

const (
	Word Kind = iota
	Punctuation
)

func (k Kind) String() string {
	if k == Punctuation {
		return "punctuation"
	}
	return "word"
}

// Token is a word or punctuation mark cut from a source text.
// Text is the lowercase comparison form. Start and End are byte offsets
// into the original-case source, so src[Start:End] is the token as typed;
// RuneStart and RuneEnd are the same span counted in code points.
type Token struct {
	Text      string
	Kind      Kind
	Start     int
	End       int
	RuneStart int
	RuneEnd   int
}

// Analyzer defines the interface for text analysis.
type Analyzer interface {
	Analyze(text string) []Token
}

// Standard splits text into maximal runs of word characters and single
// punctuation marks. Everything else is a separator.
type Standard struct{}

func NewStandard() *Standard {
	return &Standard{}
}

// Analyze tokenizes text. It keeps no state between calls.
func (a *Standard) Analyze(text string) []Token {
	var tokens []Token

	i, ri := 0, 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		if IsPunctuation(r) {
			tokens = append(tokens, Token{
				Text:      text[i : i+size],
				Kind:      Punctuation,
				Start:     i,
				End:       i + size,
				RuneStart: ri,
				RuneEnd:   ri + 1,
			})
			i += size
			ri++
			continue
		}

		if !isWordRune(r) {
			i += size
			ri++
			continue
		}

		start, runeStart := i, ri
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isWordRune(r) {
				break
			}
			i += size
			ri++
		}

		tokens = append(tokens, Token{
			Text:      strings.ToLower(text[start:i]),
			Kind:      Word,
			Start:     start,
			End:       i,
			RuneStart: runeStart,
			RuneEnd:   ri,
		})
	}

	return tokens
}

// isWordRune mirrors the \w class: letters, digits, combining marks and '_'.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}
