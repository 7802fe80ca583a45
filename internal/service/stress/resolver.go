package stress

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ukrlex/stressdb/internal/domain"
)

// Match scoring weights: POS and morphological features carry equal
// weight; the remainder is reserved for context signals beyond morphology.
const (
	posWeight   = 0.4
	featsWeight = 0.4

	exactThreshold   = 0.8
	partialThreshold = 0.5
)

// Resolver picks a stress placement for a token. It is state-free per call:
// a pure function of the entry, the context, and the predictor's answer.
type Resolver struct {
	log            *slog.Logger
	store          Lookuper
	predictor      Predictor // nil when no predictor is wired
	predictTimeout time.Duration
}

// NewResolver creates a Resolver over store. predictor may be nil; a
// dictionary miss then resolves to "none".
func NewResolver(log *slog.Logger, store Lookuper, predictor Predictor, predictTimeout time.Duration) *Resolver {
	return &Resolver{log: log, store: store, predictor: predictor, predictTimeout: predictTimeout}
}

// Resolve classifies the token's ambiguity and applies the matching
// strategy. It never returns an error for an unknown word; the Confidence
// field says how good the answer is.
func (r *Resolver) Resolve(ctx context.Context, token Token) Resolution {
	key := domain.NormalizeKey(token.Text)
	res := Resolution{Word: token.Text, Key: key}

	// Single-syllable words are never ambiguous: synthesize the stress and
	// skip the store entirely. Vowel-less forms (abbreviations,
	// punctuation-like tokens) carry no stress at all.
	vowels := domain.VowelCount(key)
	switch vowels {
	case 0:
		res.Confidence = ConfidenceNone
		res.Origin = OriginRule
		return res
	case 1:
		res.Stress = []int{0}
		res.Pattern = domain.StressedForm(key, res.Stress)
		res.Confidence = ConfidenceExact
		res.Origin = OriginRule
		res.Score = 1.0
		return res
	}

	entry, err := r.store.Lookup(key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return r.predict(ctx, token, key)
		}
		r.log.Error("store lookup failed", slog.String("key", key), slog.String("error", err.Error()))
		res.Confidence = ConfidenceNone
		res.Origin = OriginDictionary
		return res
	}

	res.VariantType = entry.VariantType
	res.Origin = OriginDictionary

	switch entry.VariantType {
	case domain.VariantSingle:
		form := &entry.Forms[0]
		r.fill(&res, form.StressVariants, ConfidenceExact, 1.0)
	case domain.VariantMorphological:
		r.resolveMorphological(&res, token, entry)
	case domain.VariantGrammaticalHomonym:
		r.resolveHomonym(&res, token, entry)
	case domain.VariantFree:
		// First canonical stress is the primary answer; the rest are
		// accepted alternatives, never an error.
		r.fill(&res, entry.Forms[0].StressVariants, ConfidenceExact, 1.0)
		for i := 1; i < len(entry.Forms); i++ {
			res.Alternatives = append(res.Alternatives, r.candidate(res.Key, &entry.Forms[i], 1.0))
		}
	default:
		r.allCandidates(&res, entry, ConfidenceFallback)
	}
	return res
}

// resolveMorphological scores every form by the count of context fields it
// matches. A decisive best scorer wins; no context or a tie reports all
// candidates with no single winner.
func (r *Resolver) resolveMorphological(res *Resolution, token Token, entry *domain.DictionaryEntry) {
	if token.POS == "" && len(token.Feats) == 0 {
		r.allCandidates(res, entry, ConfidenceFallback)
		return
	}

	bestIdx, tie := -1, false
	bestScore := -1.0
	for i := range entry.Forms {
		score := morphScore(token, &entry.Forms[i])
		switch {
		case score > bestScore:
			bestScore, bestIdx, tie = score, i, false
		case score == bestScore:
			tie = true
		}
	}
	if tie || bestIdx < 0 {
		r.allCandidates(res, entry, ConfidenceFallback)
		return
	}

	conf := ConfidenceFallback
	switch {
	case bestScore >= exactThreshold:
		conf = ConfidenceExact
	case bestScore >= partialThreshold:
		conf = ConfidencePartial
	}
	r.fill(res, entry.Forms[bestIdx].StressVariants, conf, bestScore)
}

// resolveHomonym disambiguates glossed homonyms by lexical overlap between
// each form's gloss and the caller's context text. Without context the
// caller gets every candidate with its gloss and chooses downstream.
func (r *Resolver) resolveHomonym(res *Resolution, token Token, entry *domain.DictionaryEntry) {
	if strings.TrimSpace(token.Context) == "" {
		r.allCandidates(res, entry, ConfidenceFallback)
		return
	}

	ctxTokens := overlapTokens(token.Context)
	bestIdx, tie := -1, false
	bestScore := 0.0
	for i := range entry.Forms {
		score := glossOverlap(ctxTokens, entry.Forms[i].Gloss)
		switch {
		case score > bestScore:
			bestScore, bestIdx, tie = score, i, false
		case score == bestScore && score > 0:
			tie = true
		}
	}
	if bestIdx < 0 || tie {
		r.allCandidates(res, entry, ConfidenceFallback)
		return
	}

	conf := ConfidencePartial
	if bestScore >= exactThreshold {
		conf = ConfidenceExact
	}
	r.fill(res, entry.Forms[bestIdx].StressVariants, conf, bestScore)
	res.Alternatives = nil
	for i := range entry.Forms {
		if i != bestIdx {
			res.Alternatives = append(res.Alternatives, r.candidate(res.Key, &entry.Forms[i], glossOverlap(ctxTokens, entry.Forms[i].Gloss)))
		}
	}
}

// predict delegates to the external prediction interface under a bounded
// budget. A missing, failing, or slow predictor yields "no stress known",
// never a hang.
func (r *Resolver) predict(ctx context.Context, token Token, key string) Resolution {
	res := Resolution{Word: token.Text, Key: key, Origin: OriginModel, Confidence: ConfidenceNone}
	if r.predictor == nil {
		return res
	}

	if r.predictTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.predictTimeout)
		defer cancel()
	}

	predictions, err := r.predictor.Predict(ctx, key, token.POS, token.Feats, domain.VowelOffsets(key))
	if err != nil || len(predictions) == 0 {
		if err != nil {
			r.log.Warn("stress prediction failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return res
	}

	top := predictions[0]
	res.Stress = top.Stress
	res.Pattern = domain.StressedForm(key, top.Stress)
	res.Score = top.Score
	res.Confidence = ConfidenceFallback
	for _, p := range predictions[1:] {
		res.Alternatives = append(res.Alternatives, Candidate{
			Stress:  p.Stress,
			Pattern: domain.StressedForm(key, p.Stress),
			Score:   p.Score,
		})
	}
	return res
}

func (r *Resolver) fill(res *Resolution, stress []int, conf Confidence, score float64) {
	res.Stress = stress
	res.Pattern = domain.StressedForm(res.Key, stress)
	res.Confidence = conf
	res.Score = score
}

func (r *Resolver) candidate(key string, form *domain.WordForm, score float64) Candidate {
	return Candidate{
		Stress:  form.StressVariants,
		Pattern: domain.StressedForm(key, form.StressVariants),
		Gloss:   form.Gloss,
		Score:   score,
	}
}

// allCandidates reports every stress placement with no single winner.
func (r *Resolver) allCandidates(res *Resolution, entry *domain.DictionaryEntry, conf Confidence) {
	res.Stress = nil
	res.Pattern = ""
	res.Confidence = conf
	res.Score = 0
	res.Alternatives = res.Alternatives[:0]
	for i := range entry.Forms {
		res.Alternatives = append(res.Alternatives, r.candidate(res.Key, &entry.Forms[i], 0))
	}
}

// morphScore measures how well a form's morphology matches the token
// context: POS membership is worth posWeight, and the matched share of the
// token's features is worth featsWeight.
func morphScore(token Token, form *domain.WordForm) float64 {
	score := 0.0

	if token.POS != "" {
		for _, pos := range form.POS {
			if strings.EqualFold(token.POS, pos) {
				score += posWeight
				break
			}
		}
	}

	if len(token.Feats) > 0 {
		matched := 0
		for name, want := range token.Feats {
			for _, have := range form.Feats[name] {
				if have == want {
					matched++
					break
				}
			}
		}
		score += featsWeight * float64(matched) / float64(len(token.Feats))
	}
	return score
}

// overlapTokens lowercases and splits text into a token set for gloss
// comparison.
func overlapTokens(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?()«»\"'")
		if w != "" {
			set[w] = true
		}
	}
	return set
}

// glossOverlap is the share of gloss tokens present in the context set.
func glossOverlap(ctxTokens map[string]bool, gloss string) float64 {
	if gloss == "" || len(ctxTokens) == 0 {
		return 0
	}
	glossTokens := overlapTokens(gloss)
	if len(glossTokens) == 0 {
		return 0
	}
	matched := 0
	for w := range glossTokens {
		if ctxTokens[w] {
			matched++
		}
	}
	return float64(matched) / float64(len(glossTokens))
}
