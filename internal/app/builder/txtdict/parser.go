// Package txtdict parses the line-oriented stress dictionary: one word per
// line with a combining acute accent after the stressed vowel and an
// optional tab-separated gloss.
package txtdict

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ukrlex/stressdb/internal/domain"
)

// Form is one parsed line: a stress placement with its optional gloss.
type Form struct {
	Stress []int
	Gloss  string
}

// Stats counts parser outcomes for the build report.
type Stats struct {
	Lines     int
	Parsed    int
	Malformed int
	Comments  int
	// AutoStressed counts single-vowel words that carried no accent mark
	// and received an automatic stress on their only vowel.
	AutoStressed int
}

// Parser reads the text dictionary format.
type Parser struct {
	log *slog.Logger
}

// NewParser creates a Parser logging through log.
func NewParser(log *slog.Logger) *Parser {
	return &Parser{log: log}
}

// ParseFile parses the dictionary at path, grouping forms by normalized key.
func (p *Parser) ParseFile(path string) (map[string][]Form, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open txt dictionary: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads lines from r until EOF. Malformed lines are counted and
// skipped, never fatal.
func (p *Parser) Parse(r io.Reader) (map[string][]Form, Stats, error) {
	out := make(map[string][]Form)
	var stats Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		stats.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			stats.Comments++
			continue
		}

		key, form, err := p.parseLine(line, &stats)
		if err != nil {
			stats.Malformed++
			p.log.Debug("rejecting malformed dictionary line",
				slog.Int("line", stats.Lines),
				slog.String("error", err.Error()),
			)
			continue
		}
		stats.Parsed++
		out[key] = append(out[key], form)
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("scan txt dictionary: %w", err)
	}

	p.log.Info("txt source parsed",
		slog.Int("lines", stats.Lines),
		slog.Int("parsed", stats.Parsed),
		slog.Int("malformed", stats.Malformed),
		slog.Int("unique_keys", len(out)),
	)
	return out, stats, nil
}

// parseLine splits the optional gloss off, extracts stress indices from the
// accent marks, and normalizes the key.
func (p *Parser) parseLine(line string, stats *Stats) (string, Form, error) {
	word, gloss, _ := strings.Cut(line, "\t")
	word = strings.TrimSpace(word)
	gloss = strings.TrimSpace(gloss)
	if word == "" {
		return "", Form{}, fmt.Errorf("empty word: %w", domain.ErrMalformedRecord)
	}

	stress, err := extractStress(word)
	if err != nil {
		return "", Form{}, err
	}

	key := domain.NormalizeKey(word)
	if key == "" {
		return "", Form{}, fmt.Errorf("empty key: %w", domain.ErrMalformedRecord)
	}

	// A single-vowel word needs no mark: its stress is its only vowel.
	if len(stress) == 0 {
		if offsets := domain.VowelOffsets(key); len(offsets) == 1 {
			stress = []int{0}
			stats.AutoStressed++
		} else {
			return "", Form{}, fmt.Errorf("no accent mark in %q: %w", key, domain.ErrMalformedRecord)
		}
	}

	return key, Form{Stress: stress, Gloss: gloss}, nil
}

// extractStress scans the accented word for stress marks and converts each
// to a 0-based vowel index into the unaccented form. A mark at position 0 or
// after a non-vowel rejects the line.
func extractStress(word string) ([]int, error) {
	// NFC keeps й/ї composed while the combining acute, which has no
	// precomposed Cyrillic form, stays a separate rune.
	runes := []rune(norm.NFC.String(word))

	var indices []int
	vowel := 0
	for i, r := range runes {
		if r == domain.AccentCombining || r == domain.AccentSpacing {
			if i == 0 {
				return nil, fmt.Errorf("accent mark at start of line: %w", domain.ErrMalformedRecord)
			}
			if !domain.IsVowel(runes[i-1]) {
				return nil, fmt.Errorf("accent mark after non-vowel %q: %w", runes[i-1], domain.ErrMalformedRecord)
			}
			// The mark follows the vowel just counted.
			indices = append(indices, vowel-1)
			continue
		}
		if domain.IsVowel(r) {
			vowel++
		}
	}
	return indices, nil
}
