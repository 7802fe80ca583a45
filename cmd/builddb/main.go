// Command builddb compiles the stress dictionary from its source datasets
// (the tagged trie dump and the plain-text accent list) into a single
// memory-mapped database file. It is intended to be run offline, not as
// part of a serving process.
//
// Flags:
//
//	--config   path to YAML config file (optional, env vars still apply)
//	--trie     path to the trie dump (overrides config)
//	--txt      path to the text dictionary (overrides config)
//	--out      path of the database file to produce (overrides config)
//	--strict   abort on the first malformed source record
//	--dry-run  run the full pipeline without writing the database
//
// On success the build report is printed to stdout as JSON.
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ukrlex/stressdb/internal/adapter/boltdb"
	"github.com/ukrlex/stressdb/internal/app"
	"github.com/ukrlex/stressdb/internal/app/builder"
	"github.com/ukrlex/stressdb/internal/config"
)

// Compile-time interface assertion.
var _ builder.EntryExporter = (*boltdb.Exporter)(nil)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	trieFlag := flag.String("trie", "", "path to the trie dump")
	txtFlag := flag.String("txt", "", "path to the text dictionary")
	outFlag := flag.String("out", "", "path of the database file to produce")
	strictFlag := flag.Bool("strict", false, "abort on the first malformed source record")
	dryRunFlag := flag.Bool("dry-run", false, "run the pipeline without writing the database")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// CLI flags override config.
	if *trieFlag != "" {
		cfg.Build.TriePath = *trieFlag
	}
	if *txtFlag != "" {
		cfg.Build.TxtPath = *txtFlag
	}
	if *outFlag != "" {
		cfg.Store.Path = *outFlag
	}
	if *strictFlag {
		cfg.Build.Strict = true
	}
	if *dryRunFlag {
		cfg.Build.DryRun = true
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("builddb starting", slog.String("version", app.BuildVersion()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	exporter := boltdb.NewExporter(logger, cfg.Store)
	pipeline := builder.NewPipeline(logger, cfg.Build, exporter)

	runErr := pipeline.Run(ctx)
	if runErr != nil {
		logger.Error("build failed", slog.String("error", runErr.Error()))
	}

	// The report is valid on failure too: it carries the stats accumulated
	// up to the fatal error.
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pipeline.Stats()); err != nil {
		logger.Error("encode build report", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
