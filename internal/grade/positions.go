package grade

import "harshagw/dictgrade/internal/analysis"

// spanOffsets returns the code point range tokens[j1:j2] covers in their source.
// An empty span collapses to the insertion point before j1.
func spanOffsets(tokens []analysis.Token, j1, j2 int) (int, int) {
	if j1 >= j2 {
		p := insertionPoint(tokens, j1)
		return p, p
	}
	return tokens[j1].RuneStart, tokens[j2-1].RuneEnd
}

// insertionPoint is the end of the token preceding index j, or 0 when j is
// the first position.
func insertionPoint(tokens []analysis.Token, j int) int {
	if j <= 0 || len(tokens) == 0 {
		return 0
	}
	if j > len(tokens) {
		j = len(tokens)
	}
	return tokens[j-1].RuneEnd
}
