package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/feattab/feattab/internal/embl"
	"github.com/feattab/feattab/internal/feature"
	"github.com/feattab/feattab/internal/output"
)

// featureWriter is the interface shared by the output formatters.
type featureWriter interface {
	Write(f *feature.Feature) error
}

func runParse(args []string) int {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)

	var (
		outputFormat string
		outputFile   string
		seqID        string
	)

	fs.StringVar(&outputFormat, "f", "tab", "Output format: tab, gff, ft")
	fs.StringVar(&outputFormat, "output-format", "tab", "Output format: tab, gff, ft")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.StringVar(&seqID, "seq-id", "unknown", "Sequence identifier for tab and gff output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Parse a feature table and re-emit it in another format.

Malformed features are logged to stderr and skipped; parsing continues
with the next feature.

Usage:
  feattab parse [options] <table-file>

Arguments:
  <table-file>  EMBL or GenBank style feature table, plain or gzipped
                (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  feattab parse features.embl
  feattab parse -f gff --seq-id U00096 features.embl.gz
  cat features.embl | feattab parse -f ft -
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

	reader, err := embl.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}
	defer reader.Close()

	logger, _ := zap.NewDevelopment()
	reader.SetLogger(logger)

	out, cleanup, err := openOutput(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer cleanup()

	writer, flush, err := newFeatureWriter(outputFormat, out, seqID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	var count int
	for {
		f, err := reader.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		if f == nil {
			break
		}
		if err := writer.Write(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing feature: %v\n", err)
			return ExitError
		}
		count++
	}

	if err := flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Parsed %d features", count)
	if dropped := reader.Dropped(); dropped > 0 {
		fmt.Fprintf(os.Stderr, " (%d malformed features skipped)", dropped)
	}
	fmt.Fprintln(os.Stderr)

	return ExitSuccess
}

// openOutput opens the output file, defaulting to stdout.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// newFeatureWriter builds the formatter for the named output format,
// returning the writer and its flush function.
func newFeatureWriter(format string, out io.Writer, seqID string) (featureWriter, func() error, error) {
	switch format {
	case "tab":
		tw := output.NewTabWriter(out, seqID)
		if err := tw.WriteHeader(); err != nil {
			return nil, nil, fmt.Errorf("write header: %w", err)
		}
		return tw, tw.Flush, nil
	case "gff":
		gw := output.NewGFFWriter(out, seqID)
		return gw, gw.Close, nil
	case "ft":
		fw := output.NewFTWriter(out)
		return fw, fw.Flush, nil
	default:
		return nil, nil, fmt.Errorf("unknown output format %q", format)
	}
}
