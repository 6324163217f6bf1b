package analysis

import (
	"reflect"
	"testing"
)

func TestStandard_Analyze_WordsAndPunctuation(t *testing.T) {
	tokens := NewStandard().Analyze("Мама мыла раму.")

	want := []string{"мама", "мыла", "раму", "."}
	if got := Texts(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if tokens[3].Kind != Punctuation {
		t.Errorf("expected '.' to be punctuation, got %s", tokens[3].Kind)
	}
	for _, tok := range tokens[:3] {
		if tok.Kind != Word {
			t.Errorf("expected %q to be a word, got %s", tok.Text, tok.Kind)
		}
	}
}

func TestStandard_Analyze_OffsetsIndexOriginalText(t *testing.T) {
	text := "Привет, МИР! Как дела?"
	tokens := NewStandard().Analyze(text)

	want := []string{"Привет", ",", "МИР", "!", "Как", "дела", "?"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tok := range tokens {
		if got := text[tok.Start:tok.End]; got != want[i] {
			t.Errorf("token %d: expected source %q, got %q", i, want[i], got)
		}
	}
	if tokens[2].Text != "мир" {
		t.Errorf("expected lowercase comparison text, got %q", tokens[2].Text)
	}
}

func TestStandard_Analyze_RuneOffsets(t *testing.T) {
	text := "Солнце очень светит, ярко."
	runes := []rune(text)
	tokens := NewStandard().Analyze(text)

	want := [][2]int{{0, 6}, {7, 12}, {13, 19}, {19, 20}, {21, 25}, {25, 26}}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tok := range tokens {
		if tok.RuneStart != want[i][0] || tok.RuneEnd != want[i][1] {
			t.Errorf("token %d: expected runes [%d, %d), got [%d, %d)", i, want[i][0], want[i][1], tok.RuneStart, tok.RuneEnd)
		}
		if got := string(runes[tok.RuneStart:tok.RuneEnd]); got != text[tok.Start:tok.End] {
			t.Errorf("token %d: rune span %q differs from byte span %q", i, got, text[tok.Start:tok.End])
		}
	}
}

func TestStandard_Analyze_SkipsOtherSymbols(t *testing.T) {
	tokens := NewStandard().Analyze(`a - b "c" 'd' / e`)

	want := []string{"a", "b", "c", "d", "e"}
	if got := Texts(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStandard_Analyze_EachMarkIsOwnToken(t *testing.T) {
	tokens := NewStandard().Analyze("Ну…— «да»?!")

	want := []string{"ну", "…", "—", "да", "?", "!"}
	if got := Texts(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStandard_Analyze_DigitsAndUnderscore(t *testing.T) {
	tokens := NewStandard().Analyze("Глава 12_b")

	want := []string{"глава", "12_b"}
	if got := Texts(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStandard_Analyze_Empty(t *testing.T) {
	if tokens := NewStandard().Analyze(""); len(tokens) != 0 {
		t.Errorf("expected no tokens, got %d", len(tokens))
	}
	if tokens := NewStandard().Analyze("  \n\t "); len(tokens) != 0 {
		t.Errorf("expected no tokens for whitespace, got %d", len(tokens))
	}
}

func TestStandard_Analyze_Deterministic(t *testing.T) {
	a := NewStandard()
	text := "Квантовая механика описывает поведение материи (на атомном уровне)."

	first := a.Analyze(text)
	second := a.Analyze(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical tokens on repeated calls")
	}
}

func TestContainsPunctuation(t *testing.T) {
	cases := map[string]bool{
		"слово":   false,
		"слово ,": true,
		"—":       true,
		"“":       true,
		"a-b":     false,
	}
	for in, want := range cases {
		if got := ContainsPunctuation(in); got != want {
			t.Errorf("ContainsPunctuation(%q): expected %v, got %v", in, want, got)
		}
	}
}
