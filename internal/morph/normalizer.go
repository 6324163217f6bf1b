// Package morph maps inflected word forms to their dictionary lemma.
//
// The grading core only sees the [Normalizer] interface. [Dictionary] is the
// shipped implementation: an FST from word form to lemma id, built once and
// read-only afterwards, so a single instance can serve any number of
// concurrent graders.
package morph

import "errors"

// ErrBadDictionary is returned when a dictionary file cannot be decoded.
var ErrBadDictionary = errors.New("morph: malformed dictionary")

// Normalizer resolves a word to its canonical (lemma) form.
// ok is false when the word is unknown.
type Normalizer interface {
	Normalize(word string) (canonical string, ok bool)
}

// None never resolves anything. Classification then always falls back to
// the length heuristic.
type None struct{}

func (None) Normalize(string) (string, bool) { return "", false }

// Entry pairs a word form with its lemma.
type Entry struct {
	Form  string
	Lemma string
}
