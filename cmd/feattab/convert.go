package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/feattab/feattab/internal/embl"
	"github.com/feattab/feattab/internal/store"
)

func runConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)

	var (
		outputPath string
		seqID      string
		clear      bool
	)

	fs.StringVar(&outputPath, "output", "", "Output DuckDB file path (required)")
	fs.StringVar(&outputPath, "o", "", "Output DuckDB file path (shorthand)")
	fs.StringVar(&seqID, "seq-id", "unknown", "Sequence identifier to store the features under")
	fs.BoolVar(&clear, "clear", false, "Clear existing features before loading")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Load a feature table into a DuckDB database.

Features are stored with their outermost bounds and original location
text, so regions and keys can be queried without re-parsing the flat
file. Loading into an existing database appends.

Usage:
  feattab convert [options] <table-file>

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  feattab convert --seq-id U00096 -o features.duckdb features.embl
  feattab convert --seq-id U00097 -o features.duckdb more.embl.gz
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: table file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if outputPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --output is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	// Ensure output has a database extension
	if filepath.Ext(outputPath) != ".duckdb" && filepath.Ext(outputPath) != ".db" {
		outputPath = outputPath + ".duckdb"
	}

	reader, err := embl.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer reader.Close()

	logger, _ := zap.NewDevelopment()
	reader.SetLogger(logger)

	features, err := embl.ReadAll(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	if dropped := reader.Dropped(); dropped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d malformed features skipped\n", dropped)
	}
	if len(features) == 0 {
		fmt.Fprintf(os.Stderr, "Warning: no features parsed\n")
		return ExitSuccess
	}

	rows := make([]store.FeatureRow, 0, len(features))
	for _, f := range features {
		rows = append(rows, store.RowFromFeature(seqID, f))
	}

	db, err := store.Open(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return ExitError
	}
	defer db.Close()

	if clear {
		if err := db.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing database: %v\n", err)
			return ExitError
		}
	}

	if err := db.WriteFeatures(rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing features: %v\n", err)
		return ExitError
	}

	total, err := db.Count()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error verifying count: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Loaded %d features (%d total in %s)\n",
		len(rows), total, outputPath)

	return ExitSuccess
}
