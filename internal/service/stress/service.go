package stress

import (
	"log/slog"

	"github.com/ukrlex/stressdb/internal/domain"
)

// ReadStore is the full read surface of the storage engine.
type ReadStore interface {
	Lookuper
	PrefixScan(prefix string, limit int) ([]domain.DictionaryEntry, error)
}

// Service is the user-facing query surface: it normalizes raw words the
// same way the build pipeline normalizes keys, then reads the store.
type Service struct {
	log   *slog.Logger
	store ReadStore
}

// NewService wraps a read-only store.
func NewService(log *slog.Logger, store ReadStore) *Service {
	return &Service{log: log, store: store}
}

// Lookup fetches the dictionary entry for a raw word. A miss returns
// domain.ErrNotFound.
func (s *Service) Lookup(word string) (*domain.DictionaryEntry, error) {
	return s.store.Lookup(domain.NormalizeKey(word))
}

// Prefix lists up to limit entries whose keys start with prefix, in
// ascending key order. The prefix is normalized first.
func (s *Service) Prefix(prefix string, limit int) ([]domain.DictionaryEntry, error) {
	return s.store.PrefixScan(domain.NormalizeKey(prefix), limit)
}
