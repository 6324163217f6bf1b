package grade

import (
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"harshagw/dictgrade/internal/align"
	"harshagw/dictgrade/internal/analysis"
)

// ComputeMetrics derives the metric record of one attempt from the raw
// texts, their token sequences, the opcodes between them and the
// classified errors.
//
// WER uses the token-level edit distance rather than a positional mismatch
// count, so a single missing word does not shift every later word into
// error. Ratios are reported raw; see MetricRecord.Clamped.
func ComputeMetrics(reference, attempt string, ref, att []analysis.Token, ops []align.OpCode, errs []ErrorRecord) MetricRecord {
	var m MetricRecord

	lowerRef := strings.ToLower(reference)
	lowerAtt := strings.ToLower(attempt)
	refChars := utf8.RuneCountInString(lowerRef)
	attChars := utf8.RuneCountInString(lowerAtt)

	m.Levenshtein = matchr.Levenshtein(lowerRef, lowerAtt)

	if refChars > 0 {
		m.CER = float64(m.Levenshtein) / float64(refChars)
	}

	if longest := max(refChars, attChars); longest > 0 {
		m.Accuracy = 1 - float64(m.Levenshtein)/float64(longest)
	} else {
		m.Accuracy = 1
	}

	if len(ref) > 0 {
		m.WER = float64(tokenDistance(analysis.Texts(ref), analysis.Texts(att))) / float64(len(ref))
		m.PER = float64(mismatchedTokens(ops)) / float64(len(ref))
	}

	for _, e := range errs {
		switch e.ErrorType {
		case Spelling, Grammar:
			m.WordErrorCount++
		case Punctuation:
			m.PunctuationErrorCount++
		case Missing:
			m.MissingWordCount++
		case Extra:
			m.ExtraWordCount++
		}
	}

	return m
}

// mismatchedTokens counts the tokens covered by non-equal opcodes. Each
// opcode contributes the longer of its two sides.
func mismatchedTokens(ops []align.OpCode) int {
	n := 0
	for _, op := range ops {
		if op.Tag != align.Equal {
			n += max(op.RefLen(), op.AttemptLen())
		}
	}
	return n
}

// tokenDistance is the Levenshtein distance over whole tokens.
func tokenDistance(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
