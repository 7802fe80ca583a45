package domain

// Universal-Dependencies-like closed vocabulary used by the feature
// validator. The sets are static: they ship as constants of this package and
// are never computed from data.

// POSTags is the closed set of part-of-speech values.
var POSTags = map[string]bool{
	"ADJ": true, "ADP": true, "ADV": true, "AUX": true, "CCONJ": true,
	"DET": true, "INTJ": true, "NOUN": true, "NUM": true, "PART": true,
	"PRON": true, "PROPN": true, "PUNCT": true, "SCONJ": true, "SYM": true,
	"VERB": true, "X": true,
}

// FeatureValues is the closed per-feature value vocabulary.
var FeatureValues = map[string]map[string]bool{
	"Case": {
		"Nom": true, "Gen": true, "Dat": true, "Acc": true,
		"Ins": true, "Loc": true, "Voc": true,
	},
	"Number": {
		"Sing": true, "Plur": true, "Ptan": true,
	},
	"Gender": {
		"Masc": true, "Fem": true, "Neut": true,
	},
	"VerbForm": {
		"Fin": true, "Inf": true, "Conv": true, "Part": true,
	},
	"Person": {
		"0": true, "1": true, "2": true, "3": true,
	},
	"Animacy": {
		"Anim": true, "Inan": true,
	},
	"Aspect": {
		"Imp": true, "Perf": true,
	},
	"Tense": {
		"Past": true, "Pres": true, "Fut": true,
	},
	"Mood": {
		"Ind": true, "Imp": true, "Cnd": true,
	},
	"Degree": {
		"Pos": true, "Cmp": true, "Sup": true, "Abs": true,
	},
}

// ValidPOS reports whether tag is a known part-of-speech value.
func ValidPOS(tag string) bool { return POSTags[tag] }

// KnownFeature reports whether name is a feature the vocabulary covers.
func KnownFeature(name string) bool {
	_, ok := FeatureValues[name]
	return ok
}

// ValidFeatureValue reports whether value is in the closed set for name.
// Unknown feature names validate nothing and return false.
func ValidFeatureValue(name, value string) bool {
	values, ok := FeatureValues[name]
	return ok && values[value]
}
