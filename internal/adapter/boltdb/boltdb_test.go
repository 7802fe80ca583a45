package boltdb

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/ukrlex/stressdb/internal/config"
	"github.com/ukrlex/stressdb/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEntries() []domain.DictionaryEntry {
	return []domain.DictionaryEntry{
		{
			Key:         "атлас",
			VariantType: domain.VariantGrammaticalHomonym,
			Forms: []domain.WordForm{
				{StressVariants: []int{0}, POS: []string{"NOUN"}, Feats: domain.FeatureSet{}, Gloss: "збірка карт", Source: domain.SourceTxt},
				{StressVariants: []int{1}, POS: []string{"NOUN"}, Feats: domain.FeatureSet{}, Gloss: "тканина", Source: domain.SourceTxt},
			},
		},
		{
			Key:         "аул",
			VariantType: domain.VariantSingle,
			Forms: []domain.WordForm{
				{StressVariants: []int{1}, Feats: domain.FeatureSet{}, Source: domain.SourceTrie},
			},
		},
		{
			Key:         "замок",
			VariantType: domain.VariantGrammaticalHomonym,
			Forms: []domain.WordForm{
				{StressVariants: []int{0}, POS: []string{"NOUN"}, Feats: domain.FeatureSet{}, Gloss: "фортеця", Source: domain.SourceMerged},
				{StressVariants: []int{1}, POS: []string{"NOUN"}, Feats: domain.FeatureSet{}, Gloss: "пристрій", Source: domain.SourceMerged},
			},
		},
		{
			Key:         "сіль",
			VariantType: domain.VariantSingle,
			Forms: []domain.WordForm{
				{
					StressVariants: []int{0},
					POS:            []string{"NOUN"},
					Feats:          domain.FeatureSet{"Case": {"Nom"}, "Gender": {"Fem"}, "Number": {"Sing"}},
					Source:         domain.SourceTrie,
				},
			},
		},
	}
}

func storeConfig(t *testing.T) config.StoreConfig {
	t.Helper()
	return config.StoreConfig{
		Path:           filepath.Join(t.TempDir(), "stress.db"),
		SampleSize:     1000,
		OverheadFactor: 1.3,
		SafetyFactor:   1.2,
	}
}

func exportAndOpen(t *testing.T, cfg config.StoreConfig, entries []domain.DictionaryEntry) *Store {
	t.Helper()
	err := NewExporter(testLogger(), cfg).Export(context.Background(), entries)
	require.NoError(t, err)

	store, err := Open(cfg.Path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestExportLookupRoundTrip(t *testing.T) {
	entries := testEntries()
	store := exportAndOpen(t, storeConfig(t), entries)

	for _, want := range entries {
		got, err := store.Lookup(want.Key)
		require.NoError(t, err, want.Key)
		assert.Equal(t, want.Key, got.Key)
		assert.Equal(t, want.VariantType, got.VariantType)
		require.Len(t, got.Forms, len(want.Forms), want.Key)
		for i := range want.Forms {
			assert.Equal(t, want.Forms[i].StressVariants, got.Forms[i].StressVariants)
			assert.Equal(t, want.Forms[i].POS, got.Forms[i].POS)
			assert.Equal(t, want.Forms[i].Gloss, got.Forms[i].Gloss)
			assert.Equal(t, want.Forms[i].Source, got.Forms[i].Source)
			if len(want.Forms[i].Feats) > 0 {
				assert.Equal(t, want.Forms[i].Feats, got.Forms[i].Feats)
			}
		}
	}

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, len(entries), n)
}

func TestLookupMiss(t *testing.T) {
	store := exportAndOpen(t, storeConfig(t), testEntries())

	_, err := store.Lookup("немає")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPrefixScan(t *testing.T) {
	store := exportAndOpen(t, storeConfig(t), testEntries())

	got, err := store.PrefixScan("а", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "атлас", got[0].Key)
	assert.Equal(t, "аул", got[1].Key)

	limited, err := store.PrefixScan("а", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "атлас", limited[0].Key)

	none, err := store.PrefixScan("я", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExportKeyOrderViolation(t *testing.T) {
	cfg := storeConfig(t)
	entries := testEntries()
	entries[0], entries[2] = entries[2], entries[0]

	err := NewExporter(testLogger(), cfg).Export(context.Background(), entries)
	require.ErrorIs(t, err, domain.ErrKeyOrder)

	// The failed build must not leave a database behind.
	_, statErr := os.Stat(cfg.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportDuplicateKey(t *testing.T) {
	cfg := storeConfig(t)
	entries := testEntries()
	entries[1].Key = entries[0].Key

	err := NewExporter(testLogger(), cfg).Export(context.Background(), entries)
	require.ErrorIs(t, err, domain.ErrKeyOrder)
}

func TestExportOversizedKey(t *testing.T) {
	cfg := storeConfig(t)
	entries := []domain.DictionaryEntry{
		{
			Key:         strings.Repeat("к", bolt.MaxKeySize),
			VariantType: domain.VariantSingle,
			Forms:       []domain.WordForm{{StressVariants: []int{0}, Feats: domain.FeatureSet{}}},
		},
	}

	err := NewExporter(testLogger(), cfg).Export(context.Background(), entries)
	require.ErrorIs(t, err, bolt.ErrKeyTooLarge)
	// A validation failure is not map exhaustion.
	require.NotErrorIs(t, err, domain.ErrStorageCapacity)
}

func TestExportCancelled(t *testing.T) {
	cfg := storeConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewExporter(testLogger(), cfg).Export(ctx, testEntries())
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
}

func TestRebuildSwapKeepsReaderSnapshot(t *testing.T) {
	cfg := storeConfig(t)
	v1 := testEntries()
	exporter := NewExporter(testLogger(), cfg)
	require.NoError(t, exporter.Export(context.Background(), v1))

	reader, err := Open(cfg.Path)
	require.NoError(t, err)
	defer reader.Close()

	v2 := []domain.DictionaryEntry{
		{
			Key:         "новий",
			VariantType: domain.VariantSingle,
			Forms:       []domain.WordForm{{StressVariants: []int{1}, Feats: domain.FeatureSet{}}},
		},
	}
	require.NoError(t, exporter.Export(context.Background(), v2))

	// The open reader still serves its pre-swap snapshot.
	_, err = reader.Lookup("замок")
	assert.NoError(t, err)

	fresh, err := Open(cfg.Path)
	require.NoError(t, err)
	defer fresh.Close()

	_, err = fresh.Lookup("замок")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = fresh.Lookup("новий")
	assert.NoError(t, err)
}

func TestEncodeDecodeEntry(t *testing.T) {
	want := testEntries()[0]

	value, err := EncodeEntry(&want)
	require.NoError(t, err)

	got, err := DecodeEntry(want.Key, value)
	require.NoError(t, err)
	assert.Equal(t, want.Key, got.Key)
	assert.Equal(t, want.VariantType, got.VariantType)
	assert.Equal(t, len(want.Forms), len(got.Forms))
}
