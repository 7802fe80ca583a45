// Command lookup queries a built stress database. By default it prints the
// dictionary entry for each word argument; with --resolve it runs the full
// stress resolution pipeline instead, and with --prefix it lists entries
// whose keys start with the given prefix.
//
// Flags:
//
//	--config   path to YAML config file (optional, env vars still apply)
//	--db       path to the database file (overrides config)
//	--resolve  resolve stress instead of printing raw entries
//	--pos      part-of-speech hint for --resolve (e.g. NOUN)
//	--feats    morphology hint for --resolve, as Name=Value pairs
//	           separated by commas (e.g. Case=Nom,Number=Plur)
//	--context  surrounding sentence for --resolve gloss matching
//	--prefix   list entries with this key prefix instead of exact lookup
//	--limit    maximum entries returned by --prefix (default 20)
//
// Results are printed to stdout as JSON, one document per query.
// Exit codes: 0 = success, 1 = error or no result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/ukrlex/stressdb/internal/adapter/boltdb"
	"github.com/ukrlex/stressdb/internal/app"
	"github.com/ukrlex/stressdb/internal/config"
	"github.com/ukrlex/stressdb/internal/service/stress"
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	dbFlag := flag.String("db", "", "path to the database file")
	resolveFlag := flag.Bool("resolve", false, "resolve stress instead of printing raw entries")
	posFlag := flag.String("pos", "", "part-of-speech hint for --resolve")
	featsFlag := flag.String("feats", "", "morphology hint for --resolve (Name=Value,...)")
	contextFlag := flag.String("context", "", "surrounding sentence for --resolve")
	prefixFlag := flag.String("prefix", "", "list entries with this key prefix")
	limitFlag := flag.Int("limit", 20, "maximum entries returned by --prefix")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dbFlag != "" {
		cfg.Store.Path = *dbFlag
	}

	logger := app.NewLogger(cfg.Log)

	store, err := boltdb.Open(cfg.Store.Path)
	if err != nil {
		logger.Error("open database", slog.String("path", cfg.Store.Path), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *prefixFlag != "" {
		svc := stress.NewService(logger, store)
		entries, err := svc.Prefix(*prefixFlag, *limitFlag)
		if err != nil {
			logger.Error("prefix scan", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := enc.Encode(entries); err != nil {
			logger.Error("encode result", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	words := flag.Args()
	if len(words) == 0 {
		log.Fatal("no words given; pass words as arguments or use --prefix")
	}

	if *resolveFlag {
		feats, err := parseFeats(*featsFlag)
		if err != nil {
			log.Fatalf("parse --feats: %v", err)
		}
		resolver := stress.NewResolver(logger, store, nil, cfg.Resolve.PredictTimeout)
		ctx := context.Background()
		for _, word := range words {
			res := resolver.Resolve(ctx, stress.Token{
				Text:    word,
				POS:     *posFlag,
				Feats:   feats,
				Context: *contextFlag,
			})
			if err := enc.Encode(res); err != nil {
				logger.Error("encode result", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
		return
	}

	svc := stress.NewService(logger, store)
	failed := false
	for _, word := range words {
		entry, err := svc.Lookup(word)
		if err != nil {
			logger.Warn("lookup", slog.String("word", word), slog.String("error", err.Error()))
			failed = true
			continue
		}
		if err := enc.Encode(entry); err != nil {
			logger.Error("encode result", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	if failed {
		os.Exit(1)
	}
}

// parseFeats turns "Case=Nom,Number=Plur" into a feature map.
func parseFeats(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	feats := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("malformed Name=Value pair %q", pair)
		}
		feats[name] = value
	}
	return feats, nil
}
