package boltdb

import (
	"bytes"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/ukrlex/stressdb/internal/domain"
)

// Store is a read-only view of a built dictionary. Any number of Stores may
// read one file concurrently, from any number of processes; nothing ever
// writes to an opened store. A Store opened before an atomic rebuild swap
// keeps serving its snapshot until reopened.
type Store struct {
	db   *bolt.DB
	path string
}

// Open opens the database at path in read-only mode.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o400, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if err := checkFormat(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

func checkFormat(db *bolt.DB) error {
	return db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketEntries) == nil {
			return fmt.Errorf("missing entries bucket")
		}
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return fmt.Errorf("missing meta bucket")
		}
		if v := meta.Get([]byte(metaFormatVersion)); string(v) != formatVersion {
			return fmt.Errorf("format version %q, want %q", v, formatVersion)
		}
		return nil
	})
}

// Path returns the file the store was opened from.
func (s *Store) Path() string { return s.path }

// Close releases the memory map.
func (s *Store) Close() error { return s.db.Close() }

// Lookup fetches the entry for key, which must already be normalized.
// A miss returns domain.ErrNotFound; callers treat it as a normal outcome,
// not a failure. The record is decoded directly from the memory-mapped
// bytes inside the read transaction, with no intermediate copy.
func (s *Store) Lookup(key string) (*domain.DictionaryEntry, error) {
	var entry *domain.DictionaryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketEntries).Get([]byte(key))
		if value == nil {
			return fmt.Errorf("key %q: %w", key, domain.ErrNotFound)
		}
		var err error
		entry, err = DecodeEntry(key, value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PrefixScan returns entries in ascending key order, starting at the first
// key >= prefix and stopping at the first key without the prefix or after
// limit results, whichever comes first. limit <= 0 means no limit.
func (s *Store) PrefixScan(prefix string, limit int) ([]domain.DictionaryEntry, error) {
	var entries []domain.DictionaryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketEntries).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			entry, err := DecodeEntry(string(k), v)
			if err != nil {
				return err
			}
			entries = append(entries, *entry)
			if limit > 0 && len(entries) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketEntries).Stats().KeyN
		return nil
	})
	return n, err
}
