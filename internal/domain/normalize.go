package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Apostrophe is the single canonical apostrophe for Ukrainian text:
// U+02BC MODIFIER LETTER APOSTROPHE. Any look-alike punctuation apostrophe
// occurring in input is rewritten to it before a word is used as a key or
// compared.
const Apostrophe = 'ʼ'

// apostropheVariants maps common look-alikes to the canonical apostrophe:
// U+2019 right single quotation mark, U+0027 ASCII apostrophe,
// U+02BB turned comma, U+0060 grave accent, U+00B4 acute accent.
var apostropheVariants = string([]rune{'’', '\'', 'ʻ', '`', '´'})

// AccentCombining is the combining acute accent U+0301, placed immediately
// after the stressed vowel in accented text.
const AccentCombining = '́'

// AccentSpacing is the legacy spacing acute U+00B4, accepted on input as an
// equivalent stress mark. It doubles as an apostrophe look-alike, so it is
// stripped as an accent first and treated as an apostrophe only when it
// survives that pass.
const AccentSpacing = '´'

// vowels is the Ukrainian vowel alphabet (lower case).
const vowels = "аеєиіїоуюя"

// NormalizeApostrophe rewrites every apostrophe look-alike in text to U+02BC.
func NormalizeApostrophe(text string) string {
	if !strings.ContainsAny(text, apostropheVariants) {
		return text
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(apostropheVariants, r) {
			return Apostrophe
		}
		return r
	}, text)
}

// NormalizeKey prepares a word for use as a dictionary key:
//   - Unicode NFC composition (precomposed й/ї arrive intact; the combining
//     acute has no precomposed Cyrillic form and stays separate)
//   - strip stress marks
//   - canonicalize apostrophes to U+02BC
//   - lower-case
func NormalizeKey(word string) string {
	word = norm.NFC.String(strings.TrimSpace(word))
	word = strings.Map(func(r rune) rune {
		if r == AccentCombining || r == AccentSpacing {
			return -1
		}
		return r
	}, word)
	word = NormalizeApostrophe(word)
	return strings.ToLower(word)
}

// IsVowel reports whether r is a Ukrainian vowel (either case).
func IsVowel(r rune) bool {
	return strings.ContainsRune(vowels, toLowerRune(r))
}

func toLowerRune(r rune) rune {
	return []rune(strings.ToLower(string(r)))[0]
}

// VowelCount returns the number of vowels in word.
func VowelCount(word string) int {
	n := 0
	for _, r := range word {
		if IsVowel(r) {
			n++
		}
	}
	return n
}

// VowelOffsets returns the rune offsets of every vowel in word, in order.
func VowelOffsets(word string) []int {
	var offsets []int
	for i, r := range []rune(word) {
		if IsVowel(r) {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// VowelIndexAt converts a 0-based rune offset into word to the index of that
// vowel among the word's vowels. Returns -1 if the offset is out of range or
// does not land on a vowel.
func VowelIndexAt(word string, offset int) int {
	runes := []rune(word)
	if offset < 0 || offset >= len(runes) || !IsVowel(runes[offset]) {
		return -1
	}
	idx := 0
	for _, r := range runes[:offset] {
		if IsVowel(r) {
			idx++
		}
	}
	return idx
}

// StressedForm renders word with a combining acute accent after each vowel
// named in indices (0-based vowel indices). Indices out of range are ignored.
func StressedForm(word string, indices []int) string {
	if len(indices) == 0 {
		return word
	}
	marked := make(map[int]bool, len(indices))
	for _, i := range indices {
		marked[i] = true
	}
	var b strings.Builder
	b.Grow(len(word) + 2*len(indices))
	vowel := 0
	for _, r := range word {
		b.WriteRune(r)
		if IsVowel(r) {
			if marked[vowel] {
				b.WriteRune(AccentCombining)
			}
			vowel++
		}
	}
	return b.String()
}
