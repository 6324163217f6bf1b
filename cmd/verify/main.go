package main

import (
	"fmt"
	"os"
	"strings"

	"harshagw/dictgrade/internal/align"
	"harshagw/dictgrade/internal/analysis"
	"harshagw/dictgrade/internal/grade"
	"harshagw/dictgrade/internal/morph"
	"harshagw/dictgrade/internal/practice"
)

// ExpectedError describes one error by its type, the attempt text it covers
// and the reference text it should have been.
type ExpectedError struct {
	Type        grade.ErrorType
	Found       string
	TrueVariant string
}

// TestCase is a reference/attempt pair with its expected errors.
type TestCase struct {
	Reference string
	Attempt   string
	Expected  []ExpectedError
	// Accuracy is checked when non-negative.
	Accuracy float64
}

type Category struct {
	Name  string
	Cases []TestCase
}

func main() {
	fmt.Println("Dictation Grading Verification")
	fmt.Println("==============================")
	fmt.Println()

	dir, err := os.MkdirTemp("", "verify-*")
	if err != nil {
		fmt.Printf("Error creating temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	// Write the dictionary to disk so the mmap path is exercised too
	b := morph.NewBuilder()
	if _, err := b.ReadFrom(strings.NewReader(dictionaryTSV)); err != nil {
		fmt.Printf("Error reading dictionary: %v\n", err)
		os.Exit(1)
	}
	dictPath, err := b.Build(dir, "verify")
	if err != nil {
		fmt.Printf("Error building dictionary: %v\n", err)
		os.Exit(1)
	}
	dict, err := morph.Open(dictPath)
	if err != nil {
		fmt.Printf("Error opening dictionary: %v\n", err)
		os.Exit(1)
	}
	defer dict.Close()

	cfg := practice.DefaultConfig(dir)
	cfg.Normalizer = dict
	p, err := practice.New(cfg)
	if err != nil {
		fmt.Printf("Error opening practice store: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	fmt.Printf("Dictionary: %d forms, %d lemmas\n", dict.Len(), dict.NumLemmas())

	passed := 0
	failed := 0

	for _, category := range getTestCategories() {
		fmt.Printf("\n%s\n", category.Name)
		fmt.Println(strings.Repeat("-", len(category.Name)))

		for _, tc := range category.Cases {
			if runTestCase(p, dict, tc) {
				passed++
			} else {
				failed++
			}
		}
	}

	fmt.Println()
	fmt.Println("========================================")
	fmt.Printf("Results: %d passed, %d failed, %d total\n", passed, failed, passed+failed)

	if failed > 0 {
		p.Close()
		dict.Close()
		os.RemoveAll(dir)
		os.Exit(1)
	}
	fmt.Println("\nAll tests passed!")
}

// runTestCase grades the pair both directly and through the store, and
// checks that the two agree.
func runTestCase(p *practice.Practice, dict *morph.Dictionary, tc TestCase) bool {
	label := fmt.Sprintf("%q -> %q", tc.Reference, tc.Attempt)
	fail := func(format string, args ...any) bool {
		fmt.Printf("  ✗ %s\n", label)
		fmt.Printf("    "+format+"\n", args...)
		return false
	}

	a := analysis.NewStandard()
	ref := analysis.Texts(a.Analyze(tc.Reference))
	att := analysis.Texts(a.Analyze(tc.Attempt))
	if err := align.Validate(align.Opcodes(ref, att), len(ref), len(att)); err != nil {
		return fail("Alignment: %v", err)
	}

	direct := grade.NewGrader(a, dict).Analyze(tc.Reference, tc.Attempt)

	task, err := p.AddTask("verify", tc.Reference)
	if err != nil {
		return fail("Error: %v", err)
	}
	attempt, err := p.Submit(task.ID, tc.Attempt)
	if err != nil {
		return fail("Error: %v", err)
	}
	if _, err := p.Analyze(attempt.ID); err != nil {
		return fail("Error: %v", err)
	}
	stored, err := p.Errors(attempt.ID)
	if err != nil {
		return fail("Error: %v", err)
	}
	metrics, _, err := p.Metrics(attempt.ID)
	if err != nil {
		return fail("Error: %v", err)
	}

	if len(stored) != len(direct.Errors) || metrics != direct.Metrics {
		return fail("Stored result differs from direct grading")
	}

	got := describe(tc.Attempt, stored)
	want := make([]string, len(tc.Expected))
	for i, e := range tc.Expected {
		want[i] = fmt.Sprintf("%s '%s' (%s)", e.Type, e.Found, e.TrueVariant)
	}
	if strings.Join(got, "; ") != strings.Join(want, "; ") {
		fmt.Printf("  ✗ %s\n", label)
		fmt.Printf("    Expected: %v\n", want)
		fmt.Printf("    Got:      %v\n", got)
		return false
	}

	if tc.Accuracy >= 0 && metrics.Accuracy != tc.Accuracy {
		return fail("Expected accuracy %.3f, got %.3f", tc.Accuracy, metrics.Accuracy)
	}

	fmt.Printf("  ✓ %s\n", label)
	return true
}

func describe(attempt string, errs []grade.ErrorRecord) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = fmt.Sprintf("%s '%s' (%s)", e.ErrorType, e.Found(attempt), e.TrueVariant)
	}
	return out
}
