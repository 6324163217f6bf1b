package morph

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchbase/vellum"
	"github.com/golang/snappy"
)

// Builder accumulates form/lemma pairs before compiling them into a Dictionary.
type Builder struct {
	forms    map[string]uint64 // form -> lemma id
	lemmas   []string          // lemma by id, in first-seen order
	lemmaIDs map[string]uint64
}

// NewBuilder creates an empty dictionary builder.
func NewBuilder() *Builder {
	return &Builder{
		forms:    make(map[string]uint64),
		lemmas:   make([]string, 0),
		lemmaIDs: make(map[string]uint64),
	}
}

// Add registers form as an inflection of lemma. Both are lowercased.
// The first lemma added for a form wins; Add reports whether the pair was kept.
func (b *Builder) Add(form, lemma string) bool {
	form = strings.ToLower(strings.TrimSpace(form))
	lemma = strings.ToLower(strings.TrimSpace(lemma))
	if form == "" || lemma == "" {
		return false
	}
	if _, exists := b.forms[form]; exists {
		return false
	}

	id, ok := b.lemmaIDs[lemma]
	if !ok {
		id = uint64(len(b.lemmas))
		b.lemmas = append(b.lemmas, lemma)
		b.lemmaIDs[lemma] = id
	}
	b.forms[form] = id
	return true
}

// AddEntries adds every entry and returns how many were kept.
func (b *Builder) AddEntries(entries []Entry) int {
	kept := 0
	for _, e := range entries {
		if b.Add(e.Form, e.Lemma) {
			kept++
		}
	}
	return kept
}

// ReadFrom parses "form<TAB>lemma" lines. Blank lines and lines starting
// with '#' are skipped. A line holding a single word is its own lemma.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	var kept int64
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		form, lemma, found := strings.Cut(line, "\t")
		if !found {
			if strings.ContainsAny(line, " ") {
				return kept, fmt.Errorf("line %d: expected form<TAB>lemma", lineNo)
			}
			lemma = form
		}
		if b.Add(form, lemma) {
			kept++
		}
	}
	return kept, scanner.Err()
}

// Len returns the number of distinct forms.
func (b *Builder) Len() int {
	return len(b.forms)
}

// Dictionary compiles the builder into an in-memory Dictionary.
func (b *Builder) Dictionary() (*Dictionary, error) {
	fstData, err := b.buildFST()
	if err != nil {
		return nil, err
	}

	fst, err := vellum.Load(fstData)
	if err != nil {
		return nil, fmt.Errorf("failed to load FST: %w", err)
	}

	return &Dictionary{
		fst:    fst,
		lemmas: append([]string(nil), b.lemmas...),
	}, nil
}

// Build writes the dictionary to dir/name.dict and returns its path.
func (b *Builder) Build(dir, name string) (string, error) {
	dictPath := filepath.Join(dir, name+".dict")
	tmpPath := dictPath + ".tmp"

	fstData, err := b.buildFST()
	if err != nil {
		return "", err
	}

	file, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	// Write header
	if _, err := file.WriteString(DictMagic); err != nil {
		return "", err
	}
	if err := binary.Write(file, binary.BigEndian, DictVersion); err != nil {
		return "", err
	}
	if err := binary.Write(file, binary.BigEndian, uint64(len(b.forms))); err != nil {
		return "", err
	}

	// Write lemma table
	lemmasOffset, _ := file.Seek(0, 1)
	compressed := snappy.Encode(nil, EncodeLemmas(b.lemmas))
	if err := binary.Write(file, binary.BigEndian, uint32(len(compressed))); err != nil {
		return "", err
	}
	if _, err := file.Write(compressed); err != nil {
		return "", err
	}

	// Write FST
	fstOffset, _ := file.Seek(0, 1)
	if err := binary.Write(file, binary.BigEndian, uint64(len(fstData))); err != nil {
		return "", err
	}
	if _, err := file.Write(fstData); err != nil {
		return "", err
	}

	footerOffset, _ := file.Seek(0, 1)
	footerData, err := json.Marshal(footer{
		LemmasOffset: uint64(lemmasOffset),
		FSTOffset:    uint64(fstOffset),
		NumForms:     uint64(len(b.forms)),
		NumLemmas:    uint64(len(b.lemmas)),
	})
	if err != nil {
		return "", err
	}
	if _, err := file.Write(footerData); err != nil {
		return "", err
	}

	if err := binary.Write(file, binary.BigEndian, uint64(footerOffset)); err != nil {
		return "", err
	}
	if err := binary.Write(file, binary.BigEndian, uint64(len(footerData))); err != nil {
		return "", err
	}

	if err := file.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, dictPath); err != nil {
		return "", err
	}

	return dictPath, nil
}

// buildFST encodes forms in sorted order, the order vellum requires.
func (b *Builder) buildFST() ([]byte, error) {
	formList := make([]string, 0, len(b.forms))
	for form := range b.forms {
		formList = append(formList, form)
	}
	sort.Strings(formList)

	var fstBuf bytes.Buffer
	fstBuilder, err := vellum.New(&fstBuf, nil)
	if err != nil {
		return nil, err
	}

	for _, form := range formList {
		if err := fstBuilder.Insert([]byte(form), b.forms[form]); err != nil {
			return nil, fmt.Errorf("failed to insert %q: %w", form, err)
		}
	}
	if err := fstBuilder.Close(); err != nil {
		return nil, err
	}

	return fstBuf.Bytes(), nil
}
