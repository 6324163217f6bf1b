package grade

import (
	"testing"

	"harshagw/dictgrade/internal/align"
	"harshagw/dictgrade/internal/analysis"
	"harshagw/dictgrade/internal/morph"
)

// mapNormalizer is a fixed lookup table for classifier tests.
type mapNormalizer map[string]string

func (m mapNormalizer) Normalize(word string) (string, bool) {
	lemma, ok := m[word]
	return lemma, ok
}

func classify(n morph.Normalizer, reference, attempt string) []ErrorRecord {
	a := analysis.NewStandard()
	ref := a.Analyze(reference)
	att := a.Analyze(attempt)
	ops := align.Opcodes(analysis.Texts(ref), analysis.Texts(att))
	return NewClassifier(n).Classify(ref, att, ops)
}

func TestClassify_ReplaceRules(t *testing.T) {
	dict := mapNormalizer{
		"пишет":  "писать",
		"пишут":  "писать",
		"читает": "читать",
		"дом":    "дом",
		"дома":   "дом",
	}

	cases := []struct {
		name      string
		reference string
		attempt   string
		want      ErrorType
	}{
		{"same lemma", "он пишет письмо", "он пишут письмо", Grammar},
		{"different lemma", "он пишет письмо", "он читает письмо", Spelling},
		{"unknown same length", "он пишет письмо", "он пешет письмо", Spelling},
		{"unknown other length", "он пишет письмо", "он пишетт письмо", Grammar},
		{"punctuation swapped", "да, нет", "да; нет", Punctuation},
		{"punctuation inside replaced span", "мы дома.", "мы дом!", Punctuation},
		{"multi-token same lemmas", "дом пишет", "дома пишут", Grammar},
		{"multi-token one unknown", "дом пишет", "дама пишут", Grammar},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := classify(dict, tc.reference, tc.attempt)
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %v", errs)
			}
			if errs[0].ErrorType != tc.want {
				t.Errorf("expected %s, got %s", tc.want, errs[0].ErrorType)
			}
		})
	}
}

func TestClassify_WithoutNormalizerUsesLengthHeuristic(t *testing.T) {
	errs := classify(nil, "Дети играют во дворе.", "Дети играет во дворе.")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0].ErrorType != Spelling {
		t.Errorf("expected spelling from equal lengths, got %s", errs[0].ErrorType)
	}
}

func TestClassify_ReplaceTrueVariantIsReferenceSpan(t *testing.T) {
	errs := classify(nil, "a b c d e", "a x y e")
	if len(errs) != 1 {
		t.Fatalf("expected 1 coalesced error, got %v", errs)
	}
	if errs[0].TrueVariant != "b c d" {
		t.Errorf("expected 'b c d', got %q", errs[0].TrueVariant)
	}
	if errs[0].PositionStart != 2 || errs[0].PositionEnd != 5 {
		t.Errorf("expected span [2, 5), got [%d, %d)", errs[0].PositionStart, errs[0].PositionEnd)
	}
}

func TestClassify_DeleteAndInsertPunctuation(t *testing.T) {
	errs := classify(nil, "Да, конечно.", "Да конечно!!")
	// "," deleted; "." replaced by "! !"
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	for _, e := range errs {
		if e.ErrorType != Punctuation {
			t.Errorf("expected punctuation, got %+v", e)
		}
	}

	errs = classify(nil, "Да конечно", "Да, конечно")
	if len(errs) != 1 || errs[0].ErrorType != Punctuation {
		t.Fatalf("expected one inserted punctuation error, got %v", errs)
	}
	if errs[0].PositionStart != 2 || errs[0].PositionEnd != 3 {
		t.Errorf("expected comma span, got [%d, %d)", errs[0].PositionStart, errs[0].PositionEnd)
	}
	if errs[0].TrueVariant != "" {
		t.Errorf("expected empty true variant for insertion, got %q", errs[0].TrueVariant)
	}
}

func TestClassify_DeleteAtStart(t *testing.T) {
	errs := classify(nil, "Утром я встал", "я встал")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0].ErrorType != Missing || errs[0].PositionStart != 0 || errs[0].PositionEnd != 0 {
		t.Errorf("expected missing marker at 0, got %+v", errs[0])
	}
}

func TestClassify_NoOpcodes(t *testing.T) {
	errs := NewClassifier(nil).Classify(nil, nil, nil)
	if errs == nil || len(errs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", errs)
	}
}
