// Package triedict reads the compressed prefix-trie stress source: keys are
// unaccented lower-cased word forms, values are compact binary accent blobs
// in the tagcodec format.
package triedict

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	trie "github.com/derekparker/trie/v3"
)

// maxRecordLen bounds a single key or value read from a dump file. Real
// entries are tens of bytes; anything larger means a corrupt stream.
const maxRecordLen = 1 << 16

// Trie is the in-memory source container the adapter walks.
type Trie struct {
	t *trie.Trie[[]byte]
	n int
}

// New returns an empty source trie.
func New() *Trie {
	return &Trie{t: trie.New[[]byte]()}
}

// Put inserts or replaces a key's value blob.
func (tr *Trie) Put(key string, value []byte) {
	if _, ok := tr.t.Find(key); !ok {
		tr.n++
	}
	tr.t.Add(key, value)
}

// Get returns the value blob for key.
func (tr *Trie) Get(key string) ([]byte, bool) {
	node, ok := tr.t.Find(key)
	if !ok {
		return nil, false
	}
	return node.Val(), true
}

// Len returns the number of keys.
func (tr *Trie) Len() int { return tr.n }

// Walk visits every key in ascending order. Returning an error from fn stops
// the walk and propagates the error.
func (tr *Trie) Walk(fn func(key string, value []byte) error) error {
	keys := tr.t.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		node, ok := tr.t.Find(key)
		if !ok {
			continue
		}
		if err := fn(key, node.Val()); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads a trie dump: a flat stream of records, each a uvarint key
// length, the key bytes, a uvarint value length, and the value bytes.
func LoadFile(path string) (*Trie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trie dump: %w", err)
	}
	defer f.Close()
	tr, err := Load(bufio.NewReaderSize(f, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("trie dump %s: %w", path, err)
	}
	return tr, nil
}

// Load reads the dump format from r until EOF.
func Load(r *bufio.Reader) (*Trie, error) {
	tr := New()
	for {
		key, err := readChunk(r)
		if errors.Is(err, io.EOF) {
			return tr, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		value, err := readChunk(r)
		if err != nil {
			return nil, fmt.Errorf("read value for %q: %w", key, err)
		}
		tr.Put(string(key), value)
	}
}

func readChunk(r *bufio.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n > maxRecordLen {
		return nil, fmt.Errorf("chunk length %d exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}

// Dump serializes the trie in dump format, keys ascending. It exists for
// fixture generation and round-trip tests.
func (tr *Trie) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var scratch [binary.MaxVarintLen64]byte
	writeChunk := func(b []byte) error {
		n := binary.PutUvarint(scratch[:], uint64(len(b)))
		if _, err := bw.Write(scratch[:n]); err != nil {
			return err
		}
		_, err := bw.Write(b)
		return err
	}
	err := tr.Walk(func(key string, value []byte) error {
		if err := writeChunk([]byte(key)); err != nil {
			return err
		}
		return writeChunk(value)
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
