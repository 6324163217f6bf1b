package morph

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/couchbase/vellum"
	"github.com/edsrzf/mmap-go"
	"github.com/golang/snappy"
)

// Dictionary is an immutable form -> lemma lookup table.
// Normalize may be called concurrently; Close must not race with it.
type Dictionary struct {
	path   string
	file   *os.File
	data   mmap.MMap
	fst    *vellum.FST
	lemmas []string
}

// Build compiles entries into an in-memory Dictionary.
func Build(entries []Entry) (*Dictionary, error) {
	b := NewBuilder()
	b.AddEntries(entries)
	return b.Dictionary()
}

// Open opens an existing dictionary file with mmap.
func Open(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	if stat.Size() < int64(len(DictMagic)+4+8+16) {
		file.Close()
		return nil, fmt.Errorf("%w: file too small: %s", ErrBadDictionary, path)
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to mmap dictionary %s: %w", path, err)
	}

	d := &Dictionary{path: path, file: file, data: data}
	if err := d.load(); err != nil {
		d.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrBadDictionary, path, err)
	}

	return d, nil
}

// load parses the mapped file: header, footer, lemma table and FST.
func (d *Dictionary) load() error {
	data := d.data

	if string(data[:len(DictMagic)]) != DictMagic {
		return fmt.Errorf("invalid magic")
	}
	if v := binary.BigEndian.Uint32(data[len(DictMagic):]); v != DictVersion {
		return fmt.Errorf("unsupported version %d", v)
	}

	size := uint64(len(data))
	footerOffset := binary.BigEndian.Uint64(data[size-16 : size-8])
	footerSize := binary.BigEndian.Uint64(data[size-8:])
	if footerOffset > size-16 || footerSize > size-16-footerOffset {
		return fmt.Errorf("footer out of range")
	}

	var ft footer
	if err := json.Unmarshal(data[footerOffset:footerOffset+footerSize], &ft); err != nil {
		return fmt.Errorf("failed to parse footer: %w", err)
	}

	// Lemma table: uint32 length + snappy block
	if footerOffset < 4 || ft.LemmasOffset > footerOffset-4 {
		return fmt.Errorf("lemma table out of range")
	}
	lemmasLen := uint64(binary.BigEndian.Uint32(data[ft.LemmasOffset:]))
	lemmasStart := ft.LemmasOffset + 4
	if lemmasLen > footerOffset-lemmasStart {
		return fmt.Errorf("lemma table out of range")
	}
	raw, err := snappy.Decode(nil, data[lemmasStart:lemmasStart+lemmasLen])
	if err != nil {
		return fmt.Errorf("failed to decompress lemma table: %w", err)
	}
	lemmas, err := DecodeLemmas(raw)
	if err != nil {
		return fmt.Errorf("failed to decode lemma table: %w", err)
	}
	if uint64(len(lemmas)) != ft.NumLemmas {
		return fmt.Errorf("expected %d lemmas, found %d", ft.NumLemmas, len(lemmas))
	}

	// FST data starts after the 8-byte size prefix
	if footerOffset < 8 || ft.FSTOffset > footerOffset-8 {
		return fmt.Errorf("fst out of range")
	}
	fstSize := binary.BigEndian.Uint64(data[ft.FSTOffset:])
	fstStart := ft.FSTOffset + 8
	if fstSize > footerOffset-fstStart {
		return fmt.Errorf("fst out of range")
	}
	fst, err := vellum.Load(data[fstStart : fstStart+fstSize])
	if err != nil {
		return fmt.Errorf("failed to load FST: %w", err)
	}

	d.fst = fst
	d.lemmas = lemmas
	return nil
}

// Normalize returns the lemma of word, if the dictionary knows it.
func (d *Dictionary) Normalize(word string) (string, bool) {
	if word == "" {
		return "", false
	}
	val, exists, err := d.fst.Get([]byte(strings.ToLower(word)))
	if err != nil || !exists || val >= uint64(len(d.lemmas)) {
		return "", false
	}
	return d.lemmas[val], true
}

// Len returns the number of word forms.
func (d *Dictionary) Len() int {
	return d.fst.Len()
}

// NumLemmas returns the number of distinct lemmas.
func (d *Dictionary) NumLemmas() int {
	return len(d.lemmas)
}

// Path returns the backing file, or "" for an in-memory dictionary.
func (d *Dictionary) Path() string { return d.path }

// PrefixForms returns up to limit entries whose form starts with prefix,
// in lexicographic order. A limit <= 0 means no limit.
func (d *Dictionary) PrefixForms(prefix string, limit int) ([]Entry, error) {
	start := []byte(strings.ToLower(prefix))
	end := prefixSuccessor(start)

	iter, err := d.fst.Iterator(start, end)
	if err == vellum.ErrIteratorDone {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}

	var entries []Entry
	for err == nil {
		key, val := iter.Current()
		if val < uint64(len(d.lemmas)) {
			entries = append(entries, Entry{Form: string(key), Lemma: d.lemmas[val]})
		}
		if limit > 0 && len(entries) >= limit {
			return entries, nil
		}
		err = iter.Next()
	}

	if err != vellum.ErrIteratorDone {
		return nil, err
	}

	return entries, nil
}

// Close releases dictionary resources.
func (d *Dictionary) Close() error {
	if d.fst != nil {
		d.fst.Close()
		d.fst = nil
	}
	if d.data != nil {
		d.data.Unmap()
		d.data = nil
	}
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}
