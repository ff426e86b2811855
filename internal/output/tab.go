// Package output provides feature export formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/feattab/feattab/internal/embl"
	"github.com/feattab/feattab/internal/feature"
)

// TabWriter writes features in tab-delimited format, one line per feature.
type TabWriter struct {
	w       *bufio.Writer
	seqID   string
	columns []string
}

// NewTabWriter creates a new tab-delimited writer for features of the
// named sequence.
func NewTabWriter(w io.Writer, seqID string) *TabWriter {
	return &TabWriter{
		w:     bufio.NewWriter(w),
		seqID: seqID,
		columns: []string{
			"#Sequence",
			"Key",
			"Location",
			"Start",
			"End",
			"Strand",
			"Qualifiers",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single feature.
func (tw *TabWriter) Write(f *feature.Feature) error {
	quals := make([]string, 0, len(f.QualifierNames()))
	for _, name := range f.QualifierNames() {
		vals := f.QualifierValues(name)
		if len(vals) == 0 {
			quals = append(quals, name)
			continue
		}
		for _, v := range vals {
			quals = append(quals, fmt.Sprintf("%s=%s", name, v))
		}
	}
	qualCol := "-"
	if len(quals) > 0 {
		qualCol = strings.Join(quals, ";")
	}

	_, err := fmt.Fprintf(tw.w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
		tw.seqID,
		f.Key(),
		embl.FormatLocation(f.Ranges()),
		f.Start(),
		f.End(),
		f.Strand(),
		qualCol,
	)
	return err
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
