// Package stress resolves word stress at query time: ambiguity
// classification comes from the stored entry, the disambiguation strategy
// from the caller's morphological or textual context, and out-of-dictionary
// words fall through to an external prediction interface.
package stress

import (
	"context"

	"github.com/ukrlex/stressdb/internal/domain"
)

// Token is the per-call input: a surface form plus whatever context the
// caller's annotation pipeline produced for it. All context is optional.
type Token struct {
	Text string `json:"text"`
	// POS is the annotator's part-of-speech tag, e.g. "NOUN".
	POS string `json:"pos,omitempty"`
	// Feats holds single-valued context features, e.g. Case=Nom.
	Feats map[string]string `json:"feats,omitempty"`
	// Context is free text around the token, used to pick between glossed
	// grammatical homonyms.
	Context string `json:"context,omitempty"`
}

// Confidence labels how the primary answer was chosen.
type Confidence string

const (
	// ConfidenceExact: unambiguous entry or a high-scoring context match.
	ConfidenceExact Confidence = "exact"
	// ConfidencePartial: context matched, but not decisively.
	ConfidencePartial Confidence = "partial"
	// ConfidenceFallback: no usable context; candidates are reported
	// without a single winner, or the first canonical variant leads.
	ConfidenceFallback Confidence = "fallback"
	// ConfidenceNone: no stress known for the form.
	ConfidenceNone Confidence = "none"
)

// Origin says where the answer came from.
type Origin string

const (
	// OriginRule: synthesized without a lookup (zero- or one-vowel form).
	OriginRule Origin = "rule"
	// OriginDictionary: read from the built store.
	OriginDictionary Origin = "dictionary"
	// OriginModel: supplied by the external prediction interface on a
	// dictionary miss; inherently lower confidence.
	OriginModel Origin = "model"
)

// Candidate is one stress placement offered to the caller.
type Candidate struct {
	Stress  []int   `json:"stress"`
	Pattern string  `json:"pattern"`
	Gloss   string  `json:"gloss,omitempty"`
	Score   float64 `json:"score"`
}

// Resolution is the per-token answer. Stress is nil when no single winner
// exists; Alternatives then carries every candidate.
type Resolution struct {
	Word         string             `json:"word"`
	Key          string             `json:"key"`
	Stress       []int              `json:"stress,omitempty"`
	Pattern      string             `json:"pattern,omitempty"`
	VariantType  domain.VariantType `json:"variant_type,omitempty"`
	Confidence   Confidence         `json:"confidence"`
	Origin       Origin             `json:"origin"`
	Score        float64            `json:"score"`
	Alternatives []Candidate        `json:"alternatives,omitempty"`
}

// Prediction is one ranked candidate from the external predictor.
type Prediction struct {
	Stress []int
	Score  float64
}

// Predictor is the external stress-prediction interface, called only on a
// dictionary miss. Implementations live outside this module; the call must
// honor ctx cancellation since it may be slow.
type Predictor interface {
	Predict(ctx context.Context, form, pos string, feats map[string]string, syllables []int) ([]Prediction, error)
}

// Lookuper is the slice of the storage engine the resolver reads. The store
// is immutable at query time; the resolver never writes.
type Lookuper interface {
	Lookup(key string) (*domain.DictionaryEntry, error)
}
