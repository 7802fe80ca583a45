package builder

import (
	"log/slog"
	"sort"

	"github.com/ukrlex/stressdb/internal/app/builder/triedict"
	"github.com/ukrlex/stressdb/internal/app/builder/txtdict"
	"github.com/ukrlex/stressdb/internal/domain"
)

// Merger folds per-source tuples into canonical WordForm lists keyed by
// normalized form. Trie data is added first so its morphology seeds the
// accumulator; txt data then either enriches an existing stress placement or
// adds a new one. Adding identical data twice is a no-op (merge idempotence).
type Merger struct {
	log      *slog.Logger
	words    map[string][]*domain.WordForm
	seenTrie map[string]bool
	seenTxt  map[string]bool
	// emptyKeys counts keys whose every record was dropped upstream, leaving
	// zero surviving forms to commit.
	emptyKeys int
}

// MergeStats is the merge section of the build report.
type MergeStats struct {
	UniqueKeys     int     `json:"unique_keys"`
	WordForms      int     `json:"word_forms"`
	Heteronyms     int     `json:"heteronyms"`
	BothSources    int     `json:"keys_both_sources"`
	TrieOnly       int     `json:"keys_trie_only"`
	TxtOnly        int     `json:"keys_txt_only"`
	WithMorph      int     `json:"keys_with_morphology"`
	EmptyKeys      int     `json:"keys_dropped_empty"`
	AvgFormsPerKey float64 `json:"avg_forms_per_key"`
}

// NewMerger creates an empty accumulator.
func NewMerger(log *slog.Logger) *Merger {
	return &Merger{
		log:      log,
		words:    make(map[string][]*domain.WordForm),
		seenTrie: make(map[string]bool),
		seenTxt:  make(map[string]bool),
	}
}

// AddTrie folds trie adapter output into the accumulator. Tuples sharing a
// stress placement collapse into one provisional WordForm whose POS and
// feature sets are the union of the group.
func (m *Merger) AddTrie(data map[string][]triedict.Form) {
	for key, forms := range data {
		if len(forms) == 0 {
			m.emptyKeys++
			continue
		}
		m.seenTrie[key] = true
		for _, f := range forms {
			m.addForm(key, f.Stress, f.POS, f.Feats, f.Gloss, domain.SourceTrie)
		}
	}
	m.log.Info("trie data merged", slog.Int("unique_keys", len(m.words)))
}

// AddTxt folds txt parser output into the accumulator. A tuple whose stress
// matches an existing form enriches it (gloss attach, source promotion);
// otherwise it becomes a new stress-only form.
func (m *Merger) AddTxt(data map[string][]txtdict.Form) {
	enriched := 0
	for key, forms := range data {
		if len(forms) == 0 {
			m.emptyKeys++
			continue
		}
		m.seenTxt[key] = true
		if m.seenTrie[key] {
			enriched++
		}
		for _, f := range forms {
			m.addForm(key, f.Stress, nil, nil, f.Gloss, domain.SourceTxt)
		}
	}
	m.log.Info("txt data merged",
		slog.Int("unique_keys", len(m.words)),
		slog.Int("keys_enriched", enriched),
	)
}

// addForm merges one tuple into the key's form list. Identical stress
// placements merge: POS and feature sets union, the gloss attaches when the
// existing form has none, and the source becomes "merged" when the two sides
// disagree. A new stress placement appends a new form.
func (m *Merger) addForm(key string, stress []int, pos []string, feats domain.FeatureSet, gloss string, src domain.Source) {
	stressKey := domain.StressKey(stress)
	for _, existing := range m.words[key] {
		if domain.StressKey(existing.StressVariants) != stressKey {
			continue
		}
		for _, p := range pos {
			existing.AddPOS(p)
		}
		if len(feats) > 0 {
			existing.Feats.Union(feats)
		}
		if existing.Gloss == "" {
			existing.Gloss = gloss
		}
		if existing.Source != src {
			existing.Source = domain.SourceMerged
		}
		return
	}

	form := &domain.WordForm{
		StressVariants: append([]int(nil), stress...),
		POS:            append([]string(nil), pos...),
		Feats:          domain.FeatureSet{},
		Gloss:          gloss,
		Source:         src,
	}
	if len(feats) > 0 {
		form.Feats.Union(feats)
	}
	form.Canonicalize()
	m.words[key] = append(m.words[key], form)
}

// Entries returns the committed dictionary in ascending key order, with each
// entry's forms in canonical order and its variant type derived. Keys with
// zero surviving forms are omitted and counted.
func (m *Merger) Entries() []domain.DictionaryEntry {
	keys := make([]string, 0, len(m.words))
	for key, forms := range m.words {
		if len(forms) == 0 {
			m.emptyKeys++
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]domain.DictionaryEntry, 0, len(keys))
	for _, key := range keys {
		forms := m.words[key]
		sorted := make([]domain.WordForm, len(forms))
		for i, f := range forms {
			f.Canonicalize()
			sorted[i] = *f
		}
		sort.Slice(sorted, func(i, j int) bool {
			return domain.StressKey(sorted[i].StressVariants) < domain.StressKey(sorted[j].StressVariants)
		})
		entry := domain.DictionaryEntry{Key: key, Forms: sorted}
		entry.Recompute()
		entries = append(entries, entry)
	}
	return entries
}

// Stats derives the merge section of the build report from the accumulator.
func (m *Merger) Stats() MergeStats {
	stats := MergeStats{
		UniqueKeys: len(m.words),
		EmptyKeys:  m.emptyKeys,
	}
	for key, forms := range m.words {
		stats.WordForms += len(forms)

		distinct := make(map[string]bool, len(forms))
		withMorph := false
		for _, f := range forms {
			distinct[domain.StressKey(f.StressVariants)] = true
			if len(f.POS) > 0 || len(f.Feats) > 0 {
				withMorph = true
			}
		}
		if len(distinct) > 1 {
			stats.Heteronyms++
		}
		if withMorph {
			stats.WithMorph++
		}

		switch {
		case m.seenTrie[key] && m.seenTxt[key]:
			stats.BothSources++
		case m.seenTrie[key]:
			stats.TrieOnly++
		default:
			stats.TxtOnly++
		}
	}
	if stats.UniqueKeys > 0 {
		stats.AvgFormsPerKey = float64(stats.WordForms) / float64(stats.UniqueKeys)
	}
	return stats
}
