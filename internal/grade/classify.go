package grade

import (
	"strings"
	"unicode/utf8"

	"harshagw/dictgrade/internal/align"
	"harshagw/dictgrade/internal/analysis"
	"harshagw/dictgrade/internal/morph"
)

// Classifier turns non-equal opcodes into categorized error records.
type Classifier struct {
	normalizer morph.Normalizer
}

// NewClassifier creates a classifier. A nil normalizer behaves like morph.None.
func NewClassifier(normalizer morph.Normalizer) *Classifier {
	if normalizer == nil {
		normalizer = morph.None{}
	}
	return &Classifier{normalizer: normalizer}
}

// Classify emits one record per non-equal opcode, in opcode order.
// ref and att are the token sequences ops was computed from.
func (c *Classifier) Classify(ref, att []analysis.Token, ops []align.OpCode) []ErrorRecord {
	errs := make([]ErrorRecord, 0)

	for _, op := range ops {
		refSpan := ref[op.I1:op.I2]
		attSpan := att[op.J1:op.J2]

		switch op.Tag {
		case align.Replace:
			start, end := spanOffsets(att, op.J1, op.J2)
			errs = append(errs, ErrorRecord{
				ErrorType:     c.replaceType(refSpan, attSpan),
				PositionStart: start,
				PositionEnd:   end,
				TrueVariant:   analysis.Join(refSpan),
			})

		case align.Delete:
			missing := analysis.Join(refSpan)
			errType := Missing
			if analysis.ContainsPunctuation(missing) {
				errType = Punctuation
			}
			pos := insertionPoint(att, op.J1)
			errs = append(errs, ErrorRecord{
				ErrorType:     errType,
				PositionStart: pos,
				PositionEnd:   pos,
				TrueVariant:   missing,
			})

		case align.Insert:
			errType := Extra
			if analysis.ContainsPunctuation(analysis.Join(attSpan)) {
				errType = Punctuation
			}
			start, end := spanOffsets(att, op.J1, op.J2)
			errs = append(errs, ErrorRecord{
				ErrorType:     errType,
				PositionStart: start,
				PositionEnd:   end,
			})
		}
	}

	return errs
}

// replaceType decides between punctuation, grammar and spelling for a
// replaced span.
func (c *Classifier) replaceType(refSpan, attSpan []analysis.Token) ErrorType {
	refText := analysis.Join(refSpan)
	attText := analysis.Join(attSpan)

	if analysis.ContainsPunctuation(refText) || analysis.ContainsPunctuation(attText) {
		return Punctuation
	}

	refLemma, refOK := c.canonical(refSpan)
	attLemma, attOK := c.canonical(attSpan)
	if refOK && attOK {
		if refLemma == attLemma {
			return Grammar
		}
		return Spelling
	}

	// Unknown word on either side: same length suggests a letter swap,
	// a different length suggests a wrong ending.
	if utf8.RuneCountInString(refText) == utf8.RuneCountInString(attText) {
		return Spelling
	}
	return Grammar
}

// canonical normalizes every token of span. It fails if any token is unknown.
func (c *Classifier) canonical(span []analysis.Token) (string, bool) {
	lemmas := make([]string, len(span))
	for i, tok := range span {
		lemma, ok := c.normalizer.Normalize(tok.Text)
		if !ok {
			return "", false
		}
		lemmas[i] = lemma
	}
	return strings.Join(lemmas, " "), true
}
