package output

import (
	"io"

	"github.com/biogo/biogo/io/featio/gff"
	biogoseq "github.com/biogo/biogo/seq"

	"github.com/feattab/feattab/internal/feature"
)

// GFFWriter exports features as GFF records, one record per range so that
// spliced features come out as separate exon-like lines sharing the
// feature's key and gene attribute.
type GFFWriter struct {
	w       *gff.Writer
	seqName string
	source  string
}

// NewGFFWriter creates a GFF writer for features of the named sequence.
func NewGFFWriter(w io.Writer, seqName string) *GFFWriter {
	return &GFFWriter{
		w:       gff.NewWriter(w, 60, true),
		seqName: seqName,
		source:  "feattab",
	}
}

// Write writes one GFF record per range of f.
func (gw *GFFWriter) Write(f *feature.Feature) error {
	var attrs gff.Attributes
	if genes := f.QualifierValues("gene"); len(genes) > 0 {
		attrs = gff.Attributes{{Tag: "gene", Value: genes[0]}}
	}

	for _, r := range f.Ranges() {
		rec := &gff.Feature{
			SeqName:        gw.seqName,
			Source:         gw.source,
			Feature:        f.Key(),
			FeatStart:      r.OuterStart() - 1, // biogo features are 0-based
			FeatEnd:        r.OuterEnd(),
			FeatStrand:     biogoseq.Strand(r.Strand()),
			FeatFrame:      gff.NoFrame,
			FeatAttributes: attrs,
		}
		if _, err := gw.w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered records. The underlying gff.Writer writes
// directly to its io.Writer without buffering, so there is nothing to
// flush and it provides no Close method.
func (gw *GFFWriter) Close() error {
	return nil
}
