package main

import (
	"flag"
	"fmt"
	"os"
)

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ExitOnError)

	var (
		fastaPath  string
		key        string
		outputFile string
	)

	fs.StringVar(&fastaPath, "fasta", "", "FASTA file holding the sequence residues (required)")
	fs.StringVar(&key, "key", "CDS", "Feature key to translate")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Splice and translate coding features.

Each matching feature is spliced in transcription order, reverse
strand ranges are complemented, and the result is translated honoring
the codon_start qualifier. Proteins are written in FASTA format.

Usage:
  feattab translate [options] <table-file>

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  feattab translate --fasta genome.fa features.embl
  feattab translate --fasta genome.fa --key mat_peptide features.embl
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

	s, err := loadSequence(fastaPath, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	out, cleanup, err := openOutput(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer cleanup()

	var count int
	for _, f := range s.Features() {
		if f.Key() != key {
			continue
		}
		count++

		protein, err := f.Translate(0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot translate %s at %d..%d: %v\n",
				f.Key(), f.Start(), f.End(), err)
			continue
		}

		id := fmt.Sprintf("%s_%s_%d", s.ID(), key, count)
		if genes := f.QualifierValues("gene"); len(genes) > 0 {
			id = genes[0]
		} else if products := f.QualifierValues("product"); len(products) > 0 {
			id = products[0]
		}

		if err := writeFasta(out, id, protein); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing protein: %v\n", err)
			return ExitError
		}
	}

	if count == 0 {
		fmt.Fprintf(os.Stderr, "Warning: no %s features found\n", key)
	}

	return ExitSuccess
}
