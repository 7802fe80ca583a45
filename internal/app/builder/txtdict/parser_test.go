package txtdict

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantKey    string
		wantStress []int
		wantGloss  string
		wantErr    bool
	}{
		{
			name:       "combining acute",
			line:       "замо́к",
			wantKey:    "замок",
			wantStress: []int{1},
		},
		{
			name:       "spacing acute",
			line:       "за´мок",
			wantKey:    "замок",
			wantStress: []int{0},
		},
		{
			name:       "gloss after tab",
			line:       "атла́с\tблискуча тканина",
			wantKey:    "атлас",
			wantStress: []int{1},
			wantGloss:  "блискуча тканина",
		},
		{
			name:       "upper case normalized",
			line:       "За́мок",
			wantKey:    "замок",
			wantStress: []int{0},
		},
		{
			name:       "single vowel auto stress",
			line:       "дім",
			wantKey:    "дім",
			wantStress: []int{0},
		},
		{
			name:       "double stress line",
			line:       "по́ми́лка",
			wantKey:    "помилка",
			wantStress: []int{0, 1},
		},
		{
			name:    "multi vowel without mark",
			line:    "замок",
			wantErr: true,
		},
		{
			name:    "mark at line start",
			line:    "́замок",
			wantErr: true,
		},
		{
			name:    "mark after consonant",
			line:    "зам́ок",
			wantErr: true,
		},
		{
			name:    "tab only gloss no word",
			line:    "\tтканина",
			wantErr: true,
		},
	}

	p := NewParser(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stats Stats
			key, form, err := p.parseLine(tt.line, &stats)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseLine(%q) succeeded, want error", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLine(%q) error: %v", tt.line, err)
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
			if !slices.Equal(form.Stress, tt.wantStress) {
				t.Errorf("stress = %v, want %v", form.Stress, tt.wantStress)
			}
			if form.Gloss != tt.wantGloss {
				t.Errorf("gloss = %q, want %q", form.Gloss, tt.wantGloss)
			}
		})
	}
}

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"# comment line",
		"",
		"за́мок\tфортеця",
		"замо́к\tпристрій",
		"помилка", // malformed: no mark, two candidates
		"дім",
	}, "\n")

	p := NewParser(testLogger())
	data, stats, err := p.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if len(data["замок"]) != 2 {
		t.Errorf("замок forms = %v, want two", data["замок"])
	}
	if got := data["дім"]; len(got) != 1 || !slices.Equal(got[0].Stress, []int{0}) {
		t.Errorf("дім forms = %v, want auto-stressed single form", got)
	}
	if _, ok := data["помилка"]; ok {
		t.Error("malformed line produced a form")
	}

	if stats.Lines != 6 {
		t.Errorf("Lines = %d, want 6", stats.Lines)
	}
	if stats.Comments != 1 {
		t.Errorf("Comments = %d, want 1", stats.Comments)
	}
	if stats.Parsed != 3 {
		t.Errorf("Parsed = %d, want 3", stats.Parsed)
	}
	if stats.Malformed != 1 {
		t.Errorf("Malformed = %d, want 1", stats.Malformed)
	}
	if stats.AutoStressed != 1 {
		t.Errorf("AutoStressed = %d, want 1", stats.AutoStressed)
	}
}

func TestParseFile(t *testing.T) {
	p := NewParser(testLogger())
	data, stats, err := p.ParseFile(testdataPath(t, "sample.txt"))
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}

	if stats.Malformed != 0 {
		t.Fatalf("Malformed = %d, want 0", stats.Malformed)
	}

	atlas := data["атлас"]
	if len(atlas) != 2 {
		t.Fatalf("атлас forms = %v, want two", atlas)
	}
	glosses := map[string]bool{}
	for _, f := range atlas {
		glosses[f.Gloss] = true
	}
	if !glosses["збірка географічних карт"] || !glosses["блискуча тканина"] {
		t.Errorf("атлас glosses = %v", atlas)
	}

	if len(data["замок"]) != 2 {
		t.Errorf("замок forms = %v, want two", data["замок"])
	}
	if len(data["помилка"]) != 2 {
		t.Errorf("помилка forms = %v, want two", data["помилка"])
	}
	if len(data["дім"]) != 1 {
		t.Errorf("дім forms = %v, want one", data["дім"])
	}
}

func TestParseFileMissing(t *testing.T) {
	p := NewParser(testLogger())
	if _, _, err := p.ParseFile(testdataPath(t, "no-such-file.txt")); err == nil {
		t.Fatal("ParseFile on a missing file succeeded")
	}
}
