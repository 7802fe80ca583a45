package domain

import (
	"slices"
	"sort"
)

// Source identifies which dictionary a WordForm came from.
type Source string

const (
	SourceTrie   Source = "trie"
	SourceTxt    Source = "txt"
	SourceMerged Source = "merged"
)

func (s Source) String() string { return string(s) }

func (s Source) IsValid() bool {
	switch s {
	case SourceTrie, SourceTxt, SourceMerged:
		return true
	}
	return false
}

// FeatureSet maps a feature name (Case, Number, Gender, ...) to the set of
// values observed under one stress placement. Values are kept as sorted,
// deduplicated slices even when there is a single value; co-occurring values
// represent case syncretism, not a conflict.
type FeatureSet map[string][]string

// Add inserts value into the set for name, keeping the slice sorted and
// duplicate-free.
func (fs FeatureSet) Add(name, value string) {
	values := fs[name]
	if slices.Contains(values, value) {
		return
	}
	values = append(values, value)
	sort.Strings(values)
	fs[name] = values
}

// Union merges every name/value of other into fs.
func (fs FeatureSet) Union(other FeatureSet) {
	for name, values := range other {
		for _, v := range values {
			fs.Add(name, v)
		}
	}
}

// Clone returns a deep copy of fs.
func (fs FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(fs))
	for name, values := range fs {
		out[name] = slices.Clone(values)
	}
	return out
}

// Equal reports whether fs and other hold exactly the same names and values.
func (fs FeatureSet) Equal(other FeatureSet) bool {
	if len(fs) != len(other) {
		return false
	}
	for name, values := range fs {
		if !slices.Equal(values, other[name]) {
			return false
		}
	}
	return true
}

// Names returns the feature names in sorted order.
func (fs FeatureSet) Names() []string {
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WordForm is the canonical unit after merge: one stress placement with all
// morphological data observed for it. Msgpack tags define the storage record
// layout; optional fields are omitted, not null-padded.
type WordForm struct {
	// StressVariants holds 0-based vowel indices into the unaccented form,
	// sorted ascending and duplicate-free. Never empty for a committed form.
	StressVariants []int      `msgpack:"stress"`
	POS            []string   `msgpack:"pos,omitempty"`
	Feats          FeatureSet `msgpack:"feats,omitempty"`
	Lemma          string     `msgpack:"lemma,omitempty"`
	Gloss          string     `msgpack:"gloss,omitempty"`
	Source         Source     `msgpack:"src,omitempty"`
}

// StressKey returns the canonical comparable key for the form's stress
// placement.
func StressKey(indices []int) string {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	key := make([]byte, 0, len(sorted)*2)
	for _, i := range sorted {
		key = append(key, byte(i), ',')
	}
	return string(key)
}

// SameMorphology reports whether two forms carry identical POS and feature
// data. Both sides are expected to be in canonical (sorted) order.
func (f *WordForm) SameMorphology(other *WordForm) bool {
	return slices.Equal(f.POS, other.POS) && f.Feats.Equal(other.Feats)
}

// AddPOS inserts tag into the form's POS set, keeping it sorted.
func (f *WordForm) AddPOS(tag string) {
	if slices.Contains(f.POS, tag) {
		return
	}
	f.POS = append(f.POS, tag)
	sort.Strings(f.POS)
}

// Canonicalize sorts stress indices, POS tags, and every feature value set
// so that serialization is byte-identical regardless of merge order.
func (f *WordForm) Canonicalize() {
	slices.Sort(f.StressVariants)
	f.StressVariants = slices.Compact(f.StressVariants)
	sort.Strings(f.POS)
	f.POS = slices.Compact(f.POS)
	for name, values := range f.Feats {
		sort.Strings(values)
		f.Feats[name] = slices.Compact(values)
	}
}
