package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ukrlex/stressdb/internal/app/builder/triedict"
	"github.com/ukrlex/stressdb/internal/app/builder/txtdict"
	"github.com/ukrlex/stressdb/internal/config"
	"github.com/ukrlex/stressdb/internal/domain"
)

// EntryExporter is the storage engine's bulk-load contract: entries arrive
// validated and in ascending key order, exactly once per build.
type EntryExporter interface {
	Export(ctx context.Context, entries []domain.DictionaryEntry) error
}

// BuildStats is the end-of-run report. Non-fatal conditions aggregate here
// rather than surfacing individually; on a fatal error the stats accumulated
// so far are preserved for diagnosis.
type BuildStats struct {
	BuildID            string         `json:"build_id"`
	StartedAt          time.Time      `json:"started_at"`
	Duration           time.Duration  `json:"duration_ns"`
	Trie               triedict.Stats `json:"-"`
	Txt                txtdict.Stats  `json:"-"`
	TrieKeys           int            `json:"trie_keys"`
	TrieDropped        int            `json:"trie_records_dropped"`
	TxtLines           int            `json:"txt_lines"`
	TxtMalformed       int            `json:"txt_lines_malformed"`
	Merge              MergeStats     `json:"merge"`
	ValidationWarnings int            `json:"validation_warnings"`
	KeysAborted        int            `json:"keys_aborted_strict"`
	EntriesExported    int            `json:"entries_exported"`
	DryRun             bool           `json:"dry_run"`
}

// Pipeline is the single-pass batch job: the two source adapters run in
// parallel (they share no mutable state), then merge, validation, and the
// bulk load run single-threaded as the sorted-append contract requires.
type Pipeline struct {
	log      *slog.Logger
	cfg      config.BuildConfig
	exporter EntryExporter
	stats    BuildStats
}

// NewPipeline wires a pipeline to its exporter.
func NewPipeline(log *slog.Logger, cfg config.BuildConfig, exporter EntryExporter) *Pipeline {
	return &Pipeline{log: log, cfg: cfg, exporter: exporter}
}

// Stats returns the report; valid after Run returns, including on failure.
func (p *Pipeline) Stats() BuildStats { return p.stats }

// Run executes the full build. Fatal conditions (storage capacity, key
// order, strict parse failure) halt the pipeline; per-record defects are
// only counted.
func (p *Pipeline) Run(ctx context.Context) error {
	p.stats.BuildID = uuid.NewString()
	p.stats.StartedAt = time.Now()
	p.stats.DryRun = p.cfg.DryRun
	defer func() { p.stats.Duration = time.Since(p.stats.StartedAt) }()

	p.log.Info("build started",
		slog.String("build_id", p.stats.BuildID),
		slog.String("trie", p.cfg.TriePath),
		slog.String("txt", p.cfg.TxtPath),
		slog.Bool("strict", p.cfg.Strict),
	)

	var (
		trieData map[string][]triedict.Form
		txtData  map[string][]txtdict.Form
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if p.cfg.TriePath == "" {
			return nil
		}
		trie, err := triedict.LoadFile(p.cfg.TriePath)
		if err != nil {
			return fmt.Errorf("trie source: %w", err)
		}
		if err := gctx.Err(); err != nil {
			return err
		}
		adapter := triedict.NewAdapter(p.log)
		adapter.Strict = p.cfg.Strict
		trieData, p.stats.Trie, err = adapter.Parse(trie)
		if err != nil {
			return fmt.Errorf("trie source: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if p.cfg.TxtPath == "" {
			return nil
		}
		var err error
		txtData, p.stats.Txt, err = txtdict.NewParser(p.log).ParseFile(p.cfg.TxtPath)
		if err != nil {
			return fmt.Errorf("txt source: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	p.stats.TrieKeys = p.stats.Trie.Keys
	p.stats.TrieDropped = p.stats.Trie.DroppedNoStress + p.stats.Trie.DroppedBadTag
	p.stats.TxtLines = p.stats.Txt.Lines
	p.stats.TxtMalformed = p.stats.Txt.Malformed

	// Trie first so morphology seeds the accumulator.
	merger := NewMerger(p.log)
	merger.AddTrie(trieData)
	merger.AddTxt(txtData)
	entries := merger.Entries()
	p.stats.Merge = merger.Stats()

	validator := NewValidator(p.log, p.cfg.Strict)
	validated := entries[:0]
	for i := range entries {
		warnings, err := validator.Validate(&entries[i])
		p.stats.ValidationWarnings += len(warnings)
		if err != nil {
			p.stats.KeysAborted++
			p.log.Warn("key aborted by strict validation",
				slog.String("key", entries[i].Key),
				slog.String("error", err.Error()),
			)
			continue
		}
		validated = append(validated, entries[i])
	}

	if p.cfg.DryRun {
		p.log.Info("dry run: skipping export", slog.Int("entries", len(validated)))
		return nil
	}

	if err := p.exporter.Export(ctx, validated); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	p.stats.EntriesExported = len(validated)

	p.log.Info("build completed",
		slog.String("build_id", p.stats.BuildID),
		slog.Int("entries", len(validated)),
		slog.Int("heteronyms", p.stats.Merge.Heteronyms),
		slog.Duration("duration", time.Since(p.stats.StartedAt)),
	)
	return nil
}
