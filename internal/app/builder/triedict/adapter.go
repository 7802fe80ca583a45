package triedict

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ukrlex/stressdb/internal/domain"
	"github.com/ukrlex/stressdb/internal/tagcodec"
)

// Form is one decoded trie record: a stress placement with the morphology
// enumerated for it. Bare values (no per-record tags) produce a single Form
// with empty POS and Feats.
type Form struct {
	Stress []int
	POS    []string
	Feats  domain.FeatureSet
	Gloss  string
}

// Stats counts what the adapter saw and skipped.
type Stats struct {
	Keys            int
	Records         int
	DroppedNoStress int
	DroppedBadTag   int
	BadOffsets      int
}

// Adapter walks a source trie and yields merger-ready tuples keyed by
// normalized form.
type Adapter struct {
	log *slog.Logger
	// Strict makes an undecodable tag abort the whole parse instead of
	// dropping the single record.
	Strict bool
}

// NewAdapter creates an Adapter logging through log.
func NewAdapter(log *slog.Logger) *Adapter {
	return &Adapter{log: log}
}

// Parse decodes every entry of tr. The result maps normalized keys to the
// decoded forms; forms that decode to zero stress positions are dropped and
// counted, as are records with unknown tag bytes (unless Strict).
func (a *Adapter) Parse(tr *Trie) (map[string][]Form, Stats, error) {
	out := make(map[string][]Form, tr.Len())
	var stats Stats

	err := tr.Walk(func(key string, value []byte) error {
		normalized := domain.NormalizeKey(key)
		if normalized == "" {
			return nil
		}
		stats.Keys++

		forms, err := a.decodeValue(normalized, value, &stats)
		if err != nil {
			if a.Strict {
				return fmt.Errorf("key %q: %w", normalized, err)
			}
			stats.DroppedBadTag++
			a.log.Debug("dropping undecodable trie entry",
				slog.String("key", normalized),
				slog.String("error", err.Error()),
			)
			return nil
		}
		if len(forms) > 0 {
			out[normalized] = append(out[normalized], forms...)
		}
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	a.log.Info("trie source parsed",
		slog.Int("keys", stats.Keys),
		slog.Int("records", stats.Records),
		slog.Int("dropped_no_stress", stats.DroppedNoStress),
		slog.Int("dropped_bad_tag", stats.DroppedBadTag),
	)
	return out, stats, nil
}

// decodeValue handles the two value shapes: a bare accent-byte sequence
// (every stress position shares the same, unknown morphology), or 0xFF-
// delimited records of {accents}{0xFE}{tags}.
func (a *Adapter) decodeValue(key string, value []byte, stats *Stats) ([]Form, error) {
	if bytes.IndexByte(value, tagcodec.SepRecord) < 0 {
		stats.Records++
		stress := a.accentOffsetsToVowelIndices(key, value, stats)
		if len(stress) == 0 {
			stats.DroppedNoStress++
			return nil, nil
		}
		return []Form{{Stress: stress, Feats: domain.FeatureSet{}}}, nil
	}

	var forms []Form
	for _, record := range bytes.Split(value, []byte{tagcodec.SepRecord}) {
		if len(record) == 0 {
			continue
		}
		stats.Records++

		accents, tagBytes, _ := bytes.Cut(record, []byte{tagcodec.SepMorph})
		stress := a.accentOffsetsToVowelIndices(key, accents, stats)
		if len(stress) == 0 {
			stats.DroppedNoStress++
			continue
		}

		tags, err := tagcodec.Decode(tagBytes)
		if err != nil {
			if a.Strict {
				return nil, err
			}
			stats.DroppedBadTag++
			a.log.Debug("dropping trie record with unknown tag",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			continue
		}

		form := Form{Stress: stress, Feats: domain.FeatureSet{}}
		for _, tag := range tags {
			if tag.Name == tagcodec.POSFeature {
				hasPOS := false
				for _, p := range form.POS {
					if p == tag.Value {
						hasPOS = true
						break
					}
				}
				if !hasPOS {
					form.POS = append(form.POS, tag.Value)
				}
				continue
			}
			form.Feats.Add(tag.Name, tag.Value)
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// accentOffsetsToVowelIndices converts raw accent bytes (0-based rune
// offsets into the unaccented form) to sorted, deduplicated vowel indices.
// Offsets that do not land on a vowel are counted and dropped.
func (a *Adapter) accentOffsetsToVowelIndices(key string, accents []byte, stats *Stats) []int {
	seen := make(map[int]bool, len(accents))
	var indices []int
	for _, b := range accents {
		idx := domain.VowelIndexAt(key, int(b))
		if idx < 0 {
			stats.BadOffsets++
			continue
		}
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)
	return indices
}
