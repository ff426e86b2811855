package main

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/feattab/feattab/internal/seq"
)

// readFasta reads the first record of a FASTA file into a Sequence.
func readFasta(path string) (*seq.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fasta: %w", err)
	}
	defer f.Close()

	r := fasta.NewReader(f, linear.NewSeq("", nil, alphabet.DNAgapped))
	rec, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("fasta %s: no records", path)
		}
		return nil, fmt.Errorf("read fasta: %w", err)
	}

	ls := rec.(*linear.Seq)
	return seq.New(seq.Config{
		ID:       ls.Name(),
		Residues: alphabet.Letters(ls.Seq).String(),
		Type:     seq.DNA,
	}), nil
}

// writeFasta writes one FASTA record with 60-column residue lines.
func writeFasta(w io.Writer, id, residues string) error {
	if _, err := fmt.Fprintf(w, ">%s\n", id); err != nil {
		return err
	}
	for len(residues) > 0 {
		n := 60
		if len(residues) < n {
			n = len(residues)
		}
		if _, err := fmt.Fprintln(w, residues[:n]); err != nil {
			return err
		}
		residues = residues[n:]
	}
	return nil
}
