package align

import (
	"reflect"
	"strings"
	"testing"
)

func words(s string) []string {
	return strings.Fields(s)
}

func TestOpcodes_Identical(t *testing.T) {
	a := words("мама мыла раму .")
	ops := Opcodes(a, a)

	want := []OpCode{{Tag: Equal, I1: 0, I2: 4, J1: 0, J2: 4}}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
}

func TestOpcodes_BothEmpty(t *testing.T) {
	if ops := Opcodes(nil, nil); len(ops) != 0 {
		t.Errorf("expected no opcodes, got %v", ops)
	}
}

func TestOpcodes_EmptyReference(t *testing.T) {
	ops := Opcodes(nil, words("лишние слова"))

	want := []OpCode{{Tag: Insert, I1: 0, I2: 0, J1: 0, J2: 2}}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
}

func TestOpcodes_EmptyAttempt(t *testing.T) {
	ops := Opcodes(words("пропущены все"), nil)

	want := []OpCode{{Tag: Delete, I1: 0, I2: 2, J1: 0, J2: 0}}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
}

func TestOpcodes_SingleReplace(t *testing.T) {
	ops := Opcodes(words("в библиотеке можно"), words("в библеотеке можно"))

	want := []OpCode{
		{Tag: Equal, I1: 0, I2: 1, J1: 0, J2: 1},
		{Tag: Replace, I1: 1, I2: 2, J1: 1, J2: 2},
		{Tag: Equal, I1: 2, I2: 3, J1: 2, J2: 3},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
}

func TestOpcodes_Delete(t *testing.T) {
	ops := Opcodes(words("я купил хлеб и молоко ."), words("я купил хлеб молоко ."))

	want := []OpCode{
		{Tag: Equal, I1: 0, I2: 3, J1: 0, J2: 3},
		{Tag: Delete, I1: 3, I2: 4, J1: 3, J2: 3},
		{Tag: Equal, I1: 4, I2: 6, J1: 3, J2: 5},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
}

func TestOpcodes_Insert(t *testing.T) {
	ops := Opcodes(words("солнце светит ярко ."), words("солнце очень светит ярко ."))

	want := []OpCode{
		{Tag: Equal, I1: 0, I2: 1, J1: 0, J2: 1},
		{Tag: Insert, I1: 1, I2: 1, J1: 1, J2: 2},
		{Tag: Equal, I1: 1, I2: 4, J1: 2, J2: 5},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
}

func TestOpcodes_AdjacentMismatchesCoalesce(t *testing.T) {
	ops := Opcodes(words("a b c d e"), words("a x y z e"))

	want := []OpCode{
		{Tag: Equal, I1: 0, I2: 1, J1: 0, J2: 1},
		{Tag: Replace, I1: 1, I2: 4, J1: 1, J2: 4},
		{Tag: Equal, I1: 4, I2: 5, J1: 4, J2: 5},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
}

func TestOpcodes_UnevenReplace(t *testing.T) {
	ops := Opcodes(words("a b e"), words("a x y z e"))

	want := []OpCode{
		{Tag: Equal, I1: 0, I2: 1, J1: 0, J2: 1},
		{Tag: Replace, I1: 1, I2: 2, J1: 1, J2: 4},
		{Tag: Equal, I1: 2, I2: 3, J1: 4, J2: 5},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
}

func TestOpcodes_PartitionInvariant(t *testing.T) {
	cases := []struct{ a, b string }{
		{"", ""},
		{"a", ""},
		{"", "a"},
		{"a b c", "c b a"},
		{"a a a b", "a b b b"},
		{"привет ! как дела ? я вернулся", "привет как дела я только вернулся"},
		{"x y z", "p q"},
		{"a b a b a b", "b a b a"},
	}
	for _, tc := range cases {
		a, b := words(tc.a), words(tc.b)
		ops := Opcodes(a, b)
		if err := Validate(ops, len(a), len(b)); err != nil {
			t.Errorf("Opcodes(%q, %q): %v", tc.a, tc.b, err)
		}
	}
}

func TestOpcodes_EqualBlocksCoverLCS(t *testing.T) {
	a := words("вчера я ходил в магазин . купил хлеб , молоко и яблоки .")
	b := words("вчера я ходил в магозин . купил хлеб и яблоки .")

	matched := 0
	for _, op := range Opcodes(a, b) {
		if op.Tag == Equal {
			matched += op.RefLen()
		}
	}
	if matched != 10 {
		t.Errorf("expected 10 matched tokens, got %d", matched)
	}
}

func TestOpcodes_Deterministic(t *testing.T) {
	a := words("a b a b c a b")
	b := words("b a c a b b a")

	first := Opcodes(a, b)
	for i := 0; i < 20; i++ {
		if got := Opcodes(a, b); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: expected %v, got %v", i, first, got)
		}
	}
}

func TestValidate_RejectsGap(t *testing.T) {
	ops := []OpCode{
		{Tag: Equal, I1: 0, I2: 1, J1: 0, J2: 1},
		{Tag: Equal, I1: 2, I2: 3, J1: 1, J2: 2},
	}
	if err := Validate(ops, 3, 2); err == nil {
		t.Error("expected error for a gap in the reference range")
	}
}

func TestValidate_RejectsShortCoverage(t *testing.T) {
	ops := []OpCode{{Tag: Equal, I1: 0, I2: 1, J1: 0, J2: 1}}
	if err := Validate(ops, 2, 1); err == nil {
		t.Error("expected error when opcodes stop before the end")
	}
}
