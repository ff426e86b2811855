package embl

import (
	"strings"

	"github.com/feattab/feattab/internal/scan"
)

// Qualifier is one parsed /name=value entry. Bare marks a value-less flag
// qualifier such as /pseudo, which is present but carries no text.
type Qualifier struct {
	Name  string
	Value string
	Bare  bool
}

// unquotedQualifiers are stored verbatim, without quote stripping: their
// values are numeric or enumerated, never free text.
var unquotedQualifiers = map[string]bool{
	"citation":         true,
	"codon_start":      true,
	"compare":          true,
	"direction":        true,
	"estimated_length": true,
	"mod_base":         true,
	"number":           true,
	"transl_table":     true,
}

// IsUnquoted reports whether a qualifier's values are written without
// surrounding quotes.
func IsUnquoted(name string) bool {
	return unquotedQualifiers[name]
}

// ParseQualifiers parses the qualifier block of one feature into ordered
// (name, value) entries. The block is expected with continuation lines
// already re-joined (a single space inside quoted values) by the reader.
//
// A slash ends the previous qualifier and starts the next; an equals sign
// separates name from value; quoted values lose their surrounding quotes
// but keep embedded whitespace verbatim. Repeated names are kept as
// separate entries in order.
func ParseQualifiers(block string) []Qualifier {
	var (
		quals   []Qualifier
		name    strings.Builder
		value   strings.Builder
		inValue bool
		open    bool
	)

	flush := func() {
		if !open {
			return
		}
		n := strings.TrimSpace(name.String())
		if n == "" {
			open = false
			name.Reset()
			value.Reset()
			inValue = false
			return
		}
		if !inValue {
			quals = append(quals, Qualifier{Name: n, Bare: true})
		} else {
			quals = append(quals, Qualifier{Name: n, Value: strings.TrimRight(value.String(), " \t")})
		}
		open = false
		name.Reset()
		value.Reset()
		inValue = false
	}

	s := scan.New(block)
	for {
		tok, ok := s.Next()
		if !ok {
			break
		}

		switch {
		case tok.Cat == scan.Slash:
			// Inside an unquoted value a slash still starts the next
			// qualifier; values that need literal slashes are quoted, and
			// quoted text arrives as a single token.
			flush()
			open = true
		case !open:
			// Leading text before the first slash: ignore.
		case tok.Cat == scan.Equals && !inValue:
			inValue = true
		case !inValue:
			name.WriteString(tok.Text)
		case tok.Cat == scan.QuotedString:
			text := strings.Trim(tok.Text, `"`)
			if unquotedQualifiers[strings.TrimSpace(name.String())] {
				text = tok.Text
			}
			value.WriteString(text)
		case tok.Cat == scan.Newline:
			value.WriteString(" ")
		default:
			value.WriteString(tok.Text)
		}
	}
	flush()

	return quals
}
