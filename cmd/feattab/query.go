package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/feattab/feattab/internal/store"
)

func runQuery(args []string) int {
	fs := flag.NewFlagSet("query", flag.ExitOnError)

	var (
		dbPath    string
		seqID     string
		region    string
		key       string
		qualifier string
	)

	fs.StringVar(&dbPath, "d", "", "DuckDB database file (required)")
	fs.StringVar(&dbPath, "database", "", "DuckDB database file (required)")
	fs.StringVar(&seqID, "seq-id", "", "Restrict to one sequence")
	fs.StringVar(&region, "region", "", "Region to query, as start-end (1-based inclusive)")
	fs.StringVar(&key, "key", "", "Feature key to query")
	fs.StringVar(&qualifier, "qualifier", "", "Qualifier to query, as name=value")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Query a DuckDB feature database.

Exactly one of --region, --key, or --qualifier selects the features.
Region queries use the outermost feature bounds, so spliced features
overlapping the window through any part report as hits. Results are
tab-delimited.

Usage:
  feattab query [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  feattab query -d features.duckdb --seq-id U00096 --region 1200-1800
  feattab query -d features.duckdb --key CDS
  feattab query -d features.duckdb --qualifier gene=thrA
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --database is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	var selectors int
	for _, s := range []string{region, key, qualifier} {
		if s != "" {
			selectors++
		}
	}
	if selectors != 1 {
		fmt.Fprintf(os.Stderr, "Error: exactly one of --region, --key, --qualifier is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	db, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return ExitError
	}
	defer db.Close()

	var rows []store.FeatureRow
	switch {
	case region != "":
		if seqID == "" {
			fmt.Fprintf(os.Stderr, "Error: --region requires --seq-id\n")
			return ExitUsage
		}
		start, end, err := parseRegion(region)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitUsage
		}
		rows, err = db.QueryRegion(seqID, start, end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	case key != "":
		rows, err = db.QueryByKey(seqID, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	default:
		name, value, ok := strings.Cut(qualifier, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: --qualifier must be name=value\n")
			return ExitUsage
		}
		rows, err = db.QueryByQualifier(name, value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}

	fmt.Println("#Sequence\tKey\tStart\tEnd\tStrand\tLocation\tQualifiers")
	for _, r := range rows {
		quals := r.Qualifiers
		if quals == "" {
			quals = "-"
		}
		fmt.Printf("%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.SeqID, r.Key, r.Start, r.End, r.Strand, r.Location, quals)
	}
	fmt.Fprintf(os.Stderr, "%d features\n", len(rows))

	return ExitSuccess
}

// parseRegion parses "start-end" or "start..end" into 1-based bounds.
func parseRegion(s string) (start, end int64, err error) {
	var a, b string
	var ok bool
	if a, b, ok = strings.Cut(s, ".."); !ok {
		a, b, ok = strings.Cut(s, "-")
	}
	if !ok {
		return 0, 0, fmt.Errorf("region %q: want start-end", s)
	}
	if start, err = strconv.ParseInt(a, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("region %q: %w", s, err)
	}
	if end, err = strconv.ParseInt(b, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("region %q: %w", s, err)
	}
	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("region %q: want 1-based start <= end", s)
	}
	return start, end, nil
}
