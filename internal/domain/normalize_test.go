package domain

import (
	"slices"
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		word string
		want string
	}{
		{
			name: "already normalized",
			word: "замок",
			want: "замок",
		},
		{
			name: "upper case",
			word: "Замок",
			want: "замок",
		},
		{
			name: "combining accent stripped",
			word: "за́мок",
			want: "замок",
		},
		{
			name: "spacing acute stripped",
			word: "за´мок",
			want: "замок",
		},
		{
			name: "ascii apostrophe canonicalized",
			word: "п'ять",
			want: "пʼять",
		},
		{
			name: "right single quote canonicalized",
			word: "п’ять",
			want: "пʼять",
		},
		{
			name: "turned comma canonicalized",
			word: "пʻять",
			want: "пʼять",
		},
		{
			name: "grave canonicalized",
			word: "п`ять",
			want: "пʼять",
		},
		{
			name: "canonical apostrophe untouched",
			word: "пʼять",
			want: "пʼять",
		},
		{
			name: "surrounding whitespace trimmed",
			word: "  слово \n",
			want: "слово",
		},
		{
			name: "accent and case together",
			word: "А́тлас",
			want: "атлас",
		},
		{
			name: "empty",
			word: "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.word); got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestVowelCount(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"замок", 2},
		{"дім", 1},
		{"б", 0},
		{"Україна", 4},
		{"", 0},
	}
	for _, tt := range tests {
		if got := VowelCount(tt.word); got != tt.want {
			t.Errorf("VowelCount(%q) = %d, want %d", tt.word, got, tt.want)
		}
	}
}

func TestVowelOffsets(t *testing.T) {
	tests := []struct {
		word string
		want []int
	}{
		{"замок", []int{1, 3}},
		{"атлас", []int{0, 3}},
		{"крт", nil},
	}
	for _, tt := range tests {
		if got := VowelOffsets(tt.word); !slices.Equal(got, tt.want) {
			t.Errorf("VowelOffsets(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestVowelIndexAt(t *testing.T) {
	tests := []struct {
		name   string
		word   string
		offset int
		want   int
	}{
		{"first vowel", "замок", 1, 0},
		{"second vowel", "замок", 3, 1},
		{"consonant offset", "замок", 0, -1},
		{"offset past end", "замок", 10, -1},
		{"negative offset", "замок", -1, -1},
		{"vowel at zero", "атлас", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VowelIndexAt(tt.word, tt.offset); got != tt.want {
				t.Errorf("VowelIndexAt(%q, %d) = %d, want %d", tt.word, tt.offset, got, tt.want)
			}
		})
	}
}

func TestStressedForm(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		indices []int
		want    string
	}{
		{"first vowel", "замок", []int{0}, "за́мок"},
		{"second vowel", "замок", []int{1}, "замо́к"},
		{"both vowels", "замок", []int{0, 1}, "за́мо́к"},
		{"no indices", "замок", nil, "замок"},
		{"out of range ignored", "дім", []int{5}, "дім"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StressedForm(tt.word, tt.indices); got != tt.want {
				t.Errorf("StressedForm(%q, %v) = %q, want %q", tt.word, tt.indices, got, tt.want)
			}
		})
	}
}

func TestNormalizeKeyRoundTripWithStressedForm(t *testing.T) {
	accented := StressedForm("замок", []int{1})
	if got := NormalizeKey(accented); got != "замок" {
		t.Errorf("NormalizeKey(StressedForm(...)) = %q, want %q", got, "замок")
	}
}
