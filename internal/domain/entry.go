package domain

// VariantType classifies the ambiguity of a dictionary entry. It is a
// derived, recomputable projection of the entry's forms, not authoritative
// state: DeriveVariantType over the stored forms always reproduces it.
type VariantType string

const (
	// VariantSingle: exactly one distinct stress placement.
	VariantSingle VariantType = "single"
	// VariantMorphological: stress differs between forms that also differ
	// in POS or features, so morphology disambiguates.
	VariantMorphological VariantType = "morphological_variant"
	// VariantGrammaticalHomonym: forms share identical morphology but
	// differ in stress and sense; only gloss or wider context can pick one.
	VariantGrammaticalHomonym VariantType = "grammatical_homonym"
	// VariantFree: multiple accepted stresses for the same sense and
	// morphology (dialectal or otherwise optional).
	VariantFree VariantType = "free_variant"
)

func (v VariantType) String() string { return string(v) }

func (v VariantType) IsValid() bool {
	switch v {
	case VariantSingle, VariantMorphological, VariantGrammaticalHomonym, VariantFree:
		return true
	}
	return false
}

// DictionaryEntry is one stored record: a normalized key with every distinct
// WordForm observed for it. Forms are distinct by stress placement; two forms
// never share an identical StressVariants value.
type DictionaryEntry struct {
	Key         string      `msgpack:"-"`
	VariantType VariantType `msgpack:"vt"`
	Forms       []WordForm  `msgpack:"forms"`
}

// DeriveVariantType recomputes the classification from forms.
//
// A pair of forms with identical morphology, different stress, and differing
// glosses is a grammatical homonym. The same pair with identical or absent
// glosses classifies as free_variant. This is a heuristic: a true homonym
// whose glosses are missing in every source is indistinguishable from a
// free variant here.
func DeriveVariantType(forms []WordForm) VariantType {
	distinct := make(map[string]bool, len(forms))
	for i := range forms {
		distinct[StressKey(forms[i].StressVariants)] = true
	}
	if len(distinct) <= 1 {
		return VariantSingle
	}

	sameMorphPair := false
	for i := range forms {
		for j := i + 1; j < len(forms); j++ {
			if StressKey(forms[i].StressVariants) == StressKey(forms[j].StressVariants) {
				continue
			}
			if !forms[i].SameMorphology(&forms[j]) {
				continue
			}
			// Morphology cannot tell these apart.
			if forms[i].Gloss != forms[j].Gloss {
				return VariantGrammaticalHomonym
			}
			sameMorphPair = true
		}
	}
	if sameMorphPair {
		return VariantFree
	}
	return VariantMorphological
}

// Recompute refreshes the cached VariantType after the form list changed.
func (e *DictionaryEntry) Recompute() {
	e.VariantType = DeriveVariantType(e.Forms)
}
