// Package tagcodec maps the trie dictionary's single-byte morphology codes
// to logical tags and back. The table is a fixed, versioned constant of the
// source format; it must never be derived from data at run time.
package tagcodec

import (
	"fmt"
	"sort"

	"github.com/ukrlex/stressdb/internal/domain"
)

// FormatVersion identifies the tag-table revision this codec implements.
const FormatVersion = 1

const (
	// SepMorph (0xFE) delimits the accent-index prefix from the compressed
	// tag list within one record of a trie value.
	SepMorph = 0xFE
	// SepRecord (0xFF) delimits successive tag-bearing records within a
	// single trie value.
	SepRecord = 0xFF
)

// POSFeature is the pseudo-feature name carrying the universal POS tag.
const POSFeature = "upos"

// Tag is one decoded morphological assignment, e.g. {Case, Nom} or
// {upos, NOUN}.
type Tag struct {
	Name  string
	Value string
}

func (t Tag) String() string { return t.Name + "=" + t.Value }

// tagByByte is the static decompression table of the trie format.
// 0x6A is a second NOUN code kept for compatibility with existing data.
var tagByByte = map[byte]Tag{
	0x11: {"Number", "Sing"},
	0x12: {"Number", "Plur"},
	0x20: {"Case", "Nom"},
	0x21: {"Case", "Gen"},
	0x22: {"Case", "Dat"},
	0x23: {"Case", "Acc"},
	0x24: {"Case", "Ins"},
	0x25: {"Case", "Loc"},
	0x26: {"Case", "Voc"},
	0x30: {"Gender", "Neut"},
	0x31: {"Gender", "Masc"},
	0x32: {"Gender", "Fem"},
	0x41: {"VerbForm", "Inf"},
	0x42: {"VerbForm", "Conv"},
	0x50: {"Person", "0"},
	0x61: {POSFeature, "NOUN"},
	0x62: {POSFeature, "ADJ"},
	0x63: {POSFeature, "INTJ"},
	0x64: {POSFeature, "CCONJ"},
	0x65: {POSFeature, "PART"},
	0x66: {POSFeature, "PRON"},
	0x67: {POSFeature, "VERB"},
	0x68: {POSFeature, "PROPN"},
	0x69: {POSFeature, "ADV"},
	0x6A: {POSFeature, "NOUN"},
	0x6B: {POSFeature, "NUM"},
	0x6C: {POSFeature, "ADP"},
}

// byteByTag is the inverse table. Where two bytes decode to the same tag the
// lower byte is canonical, so encode(decode(x)) is stable.
var byteByTag = func() map[Tag]byte {
	inv := make(map[Tag]byte, len(tagByByte))
	for b, t := range tagByByte {
		if prev, ok := inv[t]; !ok || b < prev {
			inv[t] = b
		}
	}
	return inv
}()

// Decode expands a compressed tag byte sequence into tags, preserving no
// particular order beyond the input's. An unmapped byte fails the whole
// sequence with domain.ErrUnknownTagCode.
func Decode(compressed []byte) ([]Tag, error) {
	tags := make([]Tag, 0, len(compressed))
	for _, b := range compressed {
		tag, ok := tagByByte[b]
		if !ok {
			return nil, fmt.Errorf("tag byte 0x%02X: %w", b, domain.ErrUnknownTagCode)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Encode compresses tags into their byte codes, sorted ascending so the
// output is canonical. A tag absent from the table fails with
// domain.ErrUnmappableTag.
func Encode(tags []Tag) ([]byte, error) {
	out := make([]byte, 0, len(tags))
	for _, t := range tags {
		b, ok := byteByTag[t]
		if !ok {
			return nil, fmt.Errorf("tag %s: %w", t, domain.ErrUnmappableTag)
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
