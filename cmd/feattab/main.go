// Package main provides the feattab command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("feattab version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "parse":
		return runParse(args[1:])
	case "extract":
		return runExtract(args[1:])
	case "translate":
		return runTranslate(args[1:])
	case "convert":
		return runConvert(args[1:])
	case "query":
		return runQuery(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `feattab - EMBL feature table toolkit

Usage:
  feattab [options] <command> [arguments]

Commands:
  parse       Parse a feature table and re-emit it in another format
  extract     Extract a subsequence window, trimming features to fit
  translate   Splice and translate coding features
  convert     Load a feature table into a DuckDB database
  query       Query a DuckDB feature database
  config      Manage feattab configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Re-emit a feature table as tab-delimited records
  feattab parse -f tab features.embl

  # Extract positions 1200-1800 with features trimmed to the window
  feattab extract --fasta genome.fa --from 1200 --to 1800 features.embl

  # Translate every CDS
  feattab translate --fasta genome.fa features.embl

  # Load into DuckDB and query a region
  feattab convert --seq-id U00096 -o features.duckdb features.embl
  feattab query -d features.duckdb --region 1200-1800

For more information on a command, use:
  feattab <command> --help
`)
}
