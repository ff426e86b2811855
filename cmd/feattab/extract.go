package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/feattab/feattab/internal/embl"
	"github.com/feattab/feattab/internal/output"
	"github.com/feattab/feattab/internal/seq"
)

func runExtract(args []string) int {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)

	var (
		fastaPath  string
		from, to   int
		revcomp    bool
		outputFile string
	)

	fs.StringVar(&fastaPath, "fasta", "", "FASTA file holding the sequence residues (required)")
	fs.IntVar(&from, "from", 0, "Window start, 1-based inclusive (required)")
	fs.IntVar(&to, "to", 0, "Window end, 1-based inclusive (required)")
	fs.BoolVar(&revcomp, "revcomp", false, "Reverse-complement the extracted window")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Extract a subsequence window with its features.

Features are trimmed to the window and shifted into its coordinate
system; clipped feature ends are marked with open-ended location
markers. The result is written as a feature table followed by the
extracted residues in FASTA format.

Usage:
  feattab extract [options] <table-file>

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  feattab extract --fasta genome.fa --from 1200 --to 1800 features.embl
  feattab extract --fasta genome.fa --from 1 --to 500 --revcomp features.embl
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
	if fastaPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --fasta is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if from < 1 || to < from {
		fmt.Fprintf(os.Stderr, "Error: --from and --to must describe a 1-based window\n\n")
		fs.Usage()
		return ExitUsage
	}

	s, err := loadSequence(fastaPath, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	sub, err := s.Subsequence(from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	if revcomp {
		sub, err = sub.ReverseComplement()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}

	out, cleanup, err := openOutput(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer cleanup()

	fw := output.NewFTWriter(out)
	for _, f := range sub.Features() {
		if err := fw.Write(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing feature: %v\n", err)
			return ExitError
		}
	}
	if err := fw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
		return ExitError
	}

	if err := writeFasta(out, sub.ID(), sub.Residues()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing sequence: %v\n", err)
		return ExitError
	}

	return ExitSuccess
}

// loadSequence reads the FASTA residues and attaches every well-formed
// feature from the table. Features the sequence rejects are reported and
// skipped.
func loadSequence(fastaPath, tablePath string) (*seq.Sequence, error) {
	s, err := readFasta(fastaPath)
	if err != nil {
		return nil, err
	}

	logger, _ := zap.NewDevelopment()
	s.SetLogger(logger)

	reader, err := embl.Open(tablePath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	reader.SetLogger(logger)

	features, err := embl.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	for _, f := range features {
		if err := s.Attach(f); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return s, nil
}
