// Package boltdb is the storage engine: a memory-mapped, sorted key-value
// container holding the built dictionary. The exporter bulk-loads one
// immutable database per build; the store serves concurrent read-only
// lookups and prefix scans against it.
package boltdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/ukrlex/stressdb/internal/config"
	"github.com/ukrlex/stressdb/internal/domain"
)

var (
	bucketEntries = []byte("entries")
	bucketMeta    = []byte("meta")
)

// Meta keys written next to the entries.
const (
	metaFormatVersion = "format_version"
	metaEntryCount    = "entry_count"
	metaBuiltAt       = "built_at"
)

// formatVersion identifies the value-record schema.
const formatVersion = "1"

// EncodeEntry serializes an entry to its compact storage record: variant
// type tag plus the count-prefixed form list, absent optional fields
// omitted. The key is stored separately as the container key.
func EncodeEntry(entry *domain.DictionaryEntry) ([]byte, error) {
	value, err := msgpack.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode entry %q: %w", entry.Key, err)
	}
	return value, nil
}

// DecodeEntry deserializes a storage record produced by EncodeEntry.
func DecodeEntry(key string, value []byte) (*domain.DictionaryEntry, error) {
	var entry domain.DictionaryEntry
	if err := msgpack.Unmarshal(value, &entry); err != nil {
		return nil, fmt.Errorf("decode entry %q: %w", key, err)
	}
	entry.Key = key
	return &entry, nil
}

// Exporter bulk-loads validated entries into a fresh database file and swaps
// it over the live path atomically, so readers of the old file keep their
// consistent snapshot until they reopen.
type Exporter struct {
	log *slog.Logger
	cfg config.StoreConfig
}

// NewExporter creates an Exporter writing to cfg.Path.
func NewExporter(log *slog.Logger, cfg config.StoreConfig) *Exporter {
	return &Exporter{log: log, cfg: cfg}
}

// Export writes entries, which MUST be in ascending byte order of key, into
// a new database. Order violations return domain.ErrKeyOrder and abort the
// build: the sorted-append contract is a programming invariant, not a
// runtime condition. The map is pre-sized from a sample so the load cannot
// abort on an out-of-space mid-write.
func (e *Exporter) Export(ctx context.Context, entries []domain.DictionaryEntry) error {
	mapSize, estimated := e.estimateMapSize(entries)
	e.log.Info("sizing store map",
		slog.Int("entries", len(entries)),
		slog.Int64("estimated_bytes", estimated),
		slog.Int64("map_bytes", int64(mapSize)),
	)

	tmpPath := fmt.Sprintf("%s.build-%s", e.cfg.Path, uuid.NewString())
	db, err := bolt.Open(tmpPath, 0o600, &bolt.Options{
		InitialMmapSize: mapSize,
		NoFreelistSync:  true,
	})
	if err != nil {
		return fmt.Errorf("create store %s: %w", tmpPath, err)
	}

	loadErr := db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketEntries)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		// Keys arrive sorted; full pages make the append-only fast path.
		b.FillPercent = 1.0

		var prev []byte
		for i := range entries {
			if i%8192 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			key := []byte(entries[i].Key)
			if prev != nil && bytes.Compare(key, prev) <= 0 {
				return fmt.Errorf("key %q after %q: %w", key, prev, domain.ErrKeyOrder)
			}
			value, err := EncodeEntry(&entries[i])
			if err != nil {
				return err
			}
			if err := b.Put(key, value); err != nil {
				return putError(key, err)
			}
			prev = key
		}

		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("create meta bucket: %w", err)
		}
		if err := meta.Put([]byte(metaFormatVersion), []byte(formatVersion)); err != nil {
			return err
		}
		if err := meta.Put([]byte(metaEntryCount), []byte(fmt.Sprintf("%d", len(entries)))); err != nil {
			return err
		}
		return meta.Put([]byte(metaBuiltAt), []byte(time.Now().UTC().Format(time.RFC3339)))
	})

	closeErr := db.Close()
	if loadErr == nil {
		loadErr = closeErr
	}
	if loadErr != nil {
		os.Remove(tmpPath)
		return loadErr
	}

	// Atomic swap; a reader holding the old file keeps its snapshot.
	if err := os.Rename(tmpPath, e.cfg.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("swap store into place: %w", err)
	}
	e.log.Info("store written",
		slog.String("path", e.cfg.Path),
		slog.Int("entries", len(entries)),
	)
	return nil
}

// putError classifies a bulk-load put failure. Validation errors (oversized
// or empty keys and values) pass through as-is; anything else during a
// pre-sized sequential load means the map ran out of space.
func putError(key []byte, err error) error {
	switch {
	case errors.Is(err, bolt.ErrKeyRequired),
		errors.Is(err, bolt.ErrKeyTooLarge),
		errors.Is(err, bolt.ErrValueTooLarge),
		errors.Is(err, bolt.ErrIncompatibleValue):
		return fmt.Errorf("put %q: %w", key, err)
	}
	return fmt.Errorf("put %q: %v: %w", key, err, domain.ErrStorageCapacity)
}

// estimateMapSize samples up to cfg.SampleSize entries, measures the mean
// serialized size, and extrapolates: total × overhead-factor (B-tree pages)
// × safety-factor (estimation error). Returns the map size and the raw data
// estimate.
func (e *Exporter) estimateMapSize(entries []domain.DictionaryEntry) (int, int64) {
	const fallback = 32 << 20

	sample := e.cfg.SampleSize
	if sample <= 0 {
		sample = 1000
	}
	if sample > len(entries) {
		sample = len(entries)
	}
	if sample == 0 {
		return fallback, 0
	}

	var sampled int64
	for i := 0; i < sample; i++ {
		value, err := EncodeEntry(&entries[i])
		if err != nil {
			continue
		}
		sampled += int64(len(entries[i].Key) + len(value))
	}

	mean := float64(sampled) / float64(sample)
	estimated := int64(mean * float64(len(entries)))

	overhead := e.cfg.OverheadFactor
	if overhead <= 0 {
		overhead = 1.3
	}
	safety := e.cfg.SafetyFactor
	if safety <= 0 {
		safety = 1.2
	}

	size := int(float64(estimated) * overhead * safety)
	if size < fallback {
		size = fallback
	}
	return size, estimated
}
