// Package align computes edit scripts between two token sequences.
//
// The script is derived from a longest common subsequence of the two
// sequences. Every stretch between two consecutive matches is reported as a
// single opcode, so runs of neighbouring mismatches always coalesce into one
// Replace block instead of several one-token replaces.
package align

import "fmt"

type Tag int

const (
	Equal Tag = iota
	Replace
	Delete
	Insert
)

func (t Tag) String() string {
	switch t {
	case Equal:
		return "equal"
	case Replace:
		return "replace"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// OpCode turns a[I1:I2] into b[J1:J2].
type OpCode struct {
	Tag Tag
	I1  int
	I2  int
	J1  int
	J2  int
}

func (op OpCode) String() string {
	return fmt.Sprintf("%s a[%d:%d] b[%d:%d]", op.Tag, op.I1, op.I2, op.J1, op.J2)
}

// RefLen returns the number of reference tokens the opcode covers.
func (op OpCode) RefLen() int { return op.I2 - op.I1 }

// AttemptLen returns the number of attempt tokens the opcode covers.
func (op OpCode) AttemptLen() int { return op.J2 - op.J1 }

// Opcodes returns the edit script turning a into b.
// The result is a pure function of the two slices.
func Opcodes(a, b []string) []OpCode {
	var ops []OpCode

	i, j := 0, 0
	for _, m := range matchingBlocks(a, b) {
		if gap := gapOpcode(i, m.i, j, m.j); gap != nil {
			ops = append(ops, *gap)
		}
		if m.size > 0 {
			ops = append(ops, OpCode{Tag: Equal, I1: m.i, I2: m.i + m.size, J1: m.j, J2: m.j + m.size})
		}
		i, j = m.i+m.size, m.j+m.size
	}

	return ops
}

func gapOpcode(i1, i2, j1, j2 int) *OpCode {
	switch {
	case i1 < i2 && j1 < j2:
		return &OpCode{Tag: Replace, I1: i1, I2: i2, J1: j1, J2: j2}
	case i1 < i2:
		return &OpCode{Tag: Delete, I1: i1, I2: i2, J1: j1, J2: j2}
	case j1 < j2:
		return &OpCode{Tag: Insert, I1: i1, I2: i2, J1: j1, J2: j2}
	}
	return nil
}

// block is a run of size matched tokens starting at a[i] and b[j].
type block struct {
	i, j, size int
}

// matchingBlocks walks one longest common subsequence and groups adjacent
// matches into runs. The returned slice always ends with a zero-size
// sentinel at (len(a), len(b)).
func matchingBlocks(a, b []string) []block {
	n, m := len(a), len(b)

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var blocks []block
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			if k := len(blocks) - 1; k >= 0 && blocks[k].i+blocks[k].size == i && blocks[k].j+blocks[k].size == j {
				blocks[k].size++
			} else {
				blocks = append(blocks, block{i: i, j: j, size: 1})
			}
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			i++
		default:
			j++
		}
	}

	return append(blocks, block{i: n, j: m})
}

// Validate checks that ops partition [0, n) and [0, m) in order.
func Validate(ops []OpCode, n, m int) error {
	i, j := 0, 0
	for k, op := range ops {
		if op.I1 != i || op.J1 != j {
			return fmt.Errorf("opcode %d (%s) does not continue at a[%d] b[%d]", k, op, i, j)
		}
		if op.I2 < op.I1 || op.J2 < op.J1 {
			return fmt.Errorf("opcode %d (%s) has a negative range", k, op)
		}
		switch op.Tag {
		case Equal:
			if op.RefLen() != op.AttemptLen() || op.RefLen() == 0 {
				return fmt.Errorf("opcode %d (%s) has unequal or empty sides", k, op)
			}
		case Replace:
			if op.RefLen() == 0 || op.AttemptLen() == 0 {
				return fmt.Errorf("opcode %d (%s) has an empty side", k, op)
			}
		case Delete:
			if op.RefLen() == 0 || op.AttemptLen() != 0 {
				return fmt.Errorf("opcode %d (%s) is not a pure deletion", k, op)
			}
		case Insert:
			if op.RefLen() != 0 || op.AttemptLen() == 0 {
				return fmt.Errorf("opcode %d (%s) is not a pure insertion", k, op)
			}
		}
		i, j = op.I2, op.J2
	}
	if i != n || j != m {
		return fmt.Errorf("opcodes end at a[%d] b[%d], expected a[%d] b[%d]", i, j, n, m)
	}
	return nil
}
