package morph

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Dictionary file format constants
const (
	DictMagic   = "DIC\x00"
	DictVersion = uint32(1)
)

type footer struct {
	LemmasOffset uint64 `json:"lemmas_offset"`
	FSTOffset    uint64 `json:"fst_offset"`
	NumForms     uint64 `json:"num_forms"`
	NumLemmas    uint64 `json:"num_lemmas"`
}

// EncodeLemmas encodes the lemma table as a count followed by
// length-prefixed strings.
func EncodeLemmas(lemmas []string) []byte {
	buf := make([]byte, 0, len(lemmas)*12)
	tmp := make([]byte, binary.MaxVarintLen64)

	n := binary.PutUvarint(tmp, uint64(len(lemmas)))
	buf = append(buf, tmp[:n]...)

	for _, l := range lemmas {
		n = binary.PutUvarint(tmp, uint64(len(l)))
		buf = append(buf, tmp[:n]...)
		buf = append(buf, l...)
	}

	return buf
}

// DecodeLemmas decodes a lemma table.
func DecodeLemmas(data []byte) ([]string, error) {
	r := newByteReader(data)

	count, err := r.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if count > uint64(len(data)) {
		return nil, fmt.Errorf("lemma count %d exceeds table size", count)
	}

	lemmas := make([]string, count)
	for i := range lemmas {
		size, err := r.ReadUvarint()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadBytes(size)
		if err != nil {
			return nil, err
		}
		lemmas[i] = string(b)
	}

	return lemmas, nil
}

// byteReader is a simple reader for varint decoding without allocations.
type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader {
	return &byteReader{data: data, pos: 0}
}

func (r *byteReader) ReadUvarint() (uint64, error) {
	var x uint64
	var s uint
	for {
		if r.pos >= len(r.data) {
			return 0, fmt.Errorf("unexpected EOF")
		}
		b := r.data[r.pos]
		r.pos++
		if b < 0x80 {
			return x | uint64(b)<<s, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
}

func (r *byteReader) ReadBytes(n uint64) ([]byte, error) {
	if n > uint64(len(r.data)-r.pos) {
		return nil, fmt.Errorf("unexpected EOF")
	}
	b := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// prefixSuccessor returns the lexicographically next prefix after the given one.
func prefixSuccessor(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}

	succ := bytes.Clone(prefix)

	for i := len(succ) - 1; i >= 0; i-- {
		if succ[i] < 0xff {
			succ[i]++
			return succ[:i+1]
		}
	}

	return nil
}
