package builder

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/ukrlex/stressdb/internal/domain"
)

// Warning records one invalid morphology value that non-strict validation
// kept.
type Warning struct {
	Key     string `json:"key"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator checks POS and feature values against the closed UD-like
// vocabulary and canonicalizes ordering so serialization is deterministic.
//
// Strictness is an explicit parameter of the value, not ambient state, so
// the same data can be validated under both modes for diagnostics.
type Validator struct {
	log *slog.Logger
	// Strict aborts the offending key on the first invalid value instead of
	// recording a warning and keeping it.
	Strict bool
}

// NewValidator creates a Validator logging through log.
func NewValidator(log *slog.Logger, strict bool) *Validator {
	return &Validator{log: log, Strict: strict}
}

// Validate checks every form of entry in place, returning the warnings it
// recorded. In strict mode the first invalid value returns a
// ValidationError (wrapping ErrInvalidMorphology) and the entry must be
// discarded by the caller; only that key is aborted, never the run.
func (v *Validator) Validate(entry *domain.DictionaryEntry) ([]Warning, error) {
	var warnings []Warning

	flag := func(field, format string, args ...any) error {
		msg := fmt.Sprintf(format, args...)
		if v.Strict {
			return domain.NewValidationError(entry.Key, field, msg)
		}
		warnings = append(warnings, Warning{Key: entry.Key, Field: field, Message: msg})
		return nil
	}

	for i := range entry.Forms {
		form := &entry.Forms[i]
		if len(form.StressVariants) == 0 {
			// Zero decodable accent positions never reach a committed
			// entry; treat a leak as a hard defect of the key.
			return warnings, domain.NewValidationError(entry.Key, "stress", "no stress positions")
		}
		for _, pos := range form.POS {
			if !domain.ValidPOS(pos) {
				if err := flag("pos", "unknown POS %q", pos); err != nil {
					return warnings, err
				}
			}
		}
		for _, name := range form.Feats.Names() {
			if !domain.KnownFeature(name) {
				if err := flag(name, "unknown feature %q", name); err != nil {
					return warnings, err
				}
				continue
			}
			for _, value := range form.Feats[name] {
				if !domain.ValidFeatureValue(name, value) {
					if err := flag(name, "invalid value %q for %s", value, name); err != nil {
						return warnings, err
					}
				}
			}
		}
		form.Canonicalize()
	}

	// Canonical form order: by stress placement.
	sort.Slice(entry.Forms, func(i, j int) bool {
		return domain.StressKey(entry.Forms[i].StressVariants) < domain.StressKey(entry.Forms[j].StressVariants)
	})

	if len(warnings) > 0 {
		v.log.Debug("validation warnings",
			slog.String("key", entry.Key),
			slog.Int("count", len(warnings)),
		)
	}
	return warnings, nil
}
