// Package grade compares a learner's dictation attempt with the reference
// text. It tokenizes both texts, aligns the token sequences, classifies every
// discrepancy and computes the accuracy metrics.
//
// Everything here is a pure function of its inputs. A Grader holds only
// read-only collaborators and can be shared between goroutines.
package grade

import (
	"harshagw/dictgrade/internal/align"
	"harshagw/dictgrade/internal/analysis"
	"harshagw/dictgrade/internal/morph"
)

// Grader runs the whole analysis for a reference/attempt pair.
type Grader struct {
	analyzer   analysis.Analyzer
	classifier *Classifier
}

// NewGrader creates a grader. A nil analyzer defaults to analysis.Standard,
// a nil normalizer to morph.None.
func NewGrader(analyzer analysis.Analyzer, normalizer morph.Normalizer) *Grader {
	if analyzer == nil {
		analyzer = analysis.NewStandard()
	}
	return &Grader{
		analyzer:   analyzer,
		classifier: NewClassifier(normalizer),
	}
}

// Alignment is the token-level comparison of two texts.
type Alignment struct {
	Reference []analysis.Token
	Attempt   []analysis.Token
	Ops       []align.OpCode
}

// Align tokenizes both texts and computes the opcodes between them.
func (g *Grader) Align(reference, attempt string) Alignment {
	ref := g.analyzer.Analyze(reference)
	att := g.analyzer.Analyze(attempt)
	return Alignment{
		Reference: ref,
		Attempt:   att,
		Ops:       align.Opcodes(analysis.Texts(ref), analysis.Texts(att)),
	}
}

// Analyze grades attempt against reference. Empty texts are valid input.
func (g *Grader) Analyze(reference, attempt string) Result {
	a := g.Align(reference, attempt)
	errs := g.classifier.Classify(a.Reference, a.Attempt, a.Ops)
	return Result{
		Errors:  errs,
		Metrics: ComputeMetrics(reference, attempt, a.Reference, a.Attempt, a.Ops, errs),
	}
}
