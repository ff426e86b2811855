package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/feattab/feattab/internal/embl"
	"github.com/feattab/feattab/internal/feature"
)

// Feature-table layout: "FT   key             location", qualifiers on
// continuation lines, text wrapped at the standard 80-column record width.
const (
	ftKeyColumn   = 5  // key starts after "FT   "
	ftValueColumn = 21 // location/qualifier text starts here
	ftLineWidth   = 80
)

// FTWriter serializes features back into an EMBL feature table.
type FTWriter struct {
	w *bufio.Writer
}

// NewFTWriter creates a feature-table writer.
func NewFTWriter(w io.Writer) *FTWriter {
	return &FTWriter{w: bufio.NewWriter(w)}
}

// Write writes one feature: its key line with the serialized location,
// then one line per qualifier value.
func (fw *FTWriter) Write(f *feature.Feature) error {
	loc := embl.FormatLocation(f.Ranges())
	if err := fw.writeWrapped(f.Key(), loc, ","); err != nil {
		return err
	}

	for _, name := range f.QualifierNames() {
		vals := f.QualifierValues(name)
		if len(vals) == 0 {
			if err := fw.writeWrapped("", "/"+name, " "); err != nil {
				return err
			}
			continue
		}
		for _, v := range vals {
			text := fmt.Sprintf("/%s=%q", name, v)
			if embl.IsUnquoted(name) {
				text = fmt.Sprintf("/%s=%s", name, v)
			}
			if err := fw.writeWrapped("", text, " "); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeWrapped writes one logical line, folding at breakAt characters when
// the text exceeds the record width. A token with no break point inside the
// width is emitted whole on an over-long line: the reader rejoins
// continuation lines with a single space, so folding mid-token would change
// the value on round-trip.
func (fw *FTWriter) writeWrapped(key, text, breakAt string) error {
	width := ftLineWidth - ftValueColumn
	first := true
	for len(text) > 0 {
		chunk := text
		if len(chunk) > width {
			cut := strings.LastIndex(chunk[:width], breakAt)
			if cut <= 0 {
				if next := strings.Index(chunk[width:], breakAt); next >= 0 {
					cut = width + next
				} else {
					cut = len(chunk) - 1
				}
			}
			chunk = chunk[:cut+1]
		}
		text = strings.TrimPrefix(text[len(chunk):], " ")

		var prefix string
		if first {
			prefix = fmt.Sprintf("FT   %-*s", ftValueColumn-ftKeyColumn, key)
			first = false
		} else {
			prefix = "FT   " + strings.Repeat(" ", ftValueColumn-ftKeyColumn)
		}
		if _, err := fmt.Fprintf(fw.w, "%s%s\n", prefix, strings.TrimRight(chunk, " ")); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (fw *FTWriter) Flush() error {
	return fw.w.Flush()
}
