package tagcodec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ukrlex/stressdb/internal/domain"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []Tag
	}{
		{
			name:  "noun nominative singular",
			input: []byte{0x61, 0x20, 0x11},
			want: []Tag{
				{POSFeature, "NOUN"},
				{"Case", "Nom"},
				{"Number", "Sing"},
			},
		},
		{
			name:  "alternate noun code",
			input: []byte{0x6A},
			want:  []Tag{{POSFeature, "NOUN"}},
		},
		{
			name:  "empty",
			input: nil,
			want:  []Tag{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Decode() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Decode()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeUnknownByte(t *testing.T) {
	_, err := Decode([]byte{0x61, 0x05})
	if !errors.Is(err, domain.ErrUnknownTagCode) {
		t.Fatalf("Decode() error = %v, want ErrUnknownTagCode", err)
	}
}

func TestEncodeCanonicalOrder(t *testing.T) {
	tags := []Tag{
		{"Number", "Sing"},
		{POSFeature, "NOUN"},
		{"Case", "Nom"},
	}
	got, err := Encode(tags)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := []byte{0x11, 0x20, 0x61}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode() = %x, want %x", got, want)
	}
}

func TestEncodeUnmappableTag(t *testing.T) {
	_, err := Encode([]Tag{{"Case", "Abl"}})
	if !errors.Is(err, domain.ErrUnmappableTag) {
		t.Fatalf("Encode() error = %v, want ErrUnmappableTag", err)
	}
}

// The alternate NOUN byte must re-encode to the canonical code so that
// decode→encode is stable.
func TestRoundTripStable(t *testing.T) {
	for b := range tagByByte {
		tags, err := Decode([]byte{b})
		if err != nil {
			t.Fatalf("Decode(0x%02X) error: %v", b, err)
		}
		once, err := Encode(tags)
		if err != nil {
			t.Fatalf("Encode after Decode(0x%02X) error: %v", b, err)
		}
		tags2, err := Decode(once)
		if err != nil {
			t.Fatalf("second Decode(0x%02X) error: %v", b, err)
		}
		twice, err := Encode(tags2)
		if err != nil {
			t.Fatalf("second Encode(0x%02X) error: %v", b, err)
		}
		if !bytes.Equal(once, twice) {
			t.Errorf("byte 0x%02X: encode not stable: %x vs %x", b, once, twice)
		}
	}
}

func TestAlternateNounByteCanonicalizes(t *testing.T) {
	tags, err := Decode([]byte{0x6A})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Encode(tags)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x61}) {
		t.Fatalf("Encode(Decode(0x6A)) = %x, want 61", got)
	}
}
