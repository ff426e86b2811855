// Package scan provides the tokenizer for EMBL feature-table text.
package scan

// Category identifies the kind of a scanned token.
type Category uint8

const (
	// Other is the catch-all category: any single character no other rule
	// matched. Parsers use it to detect malformed input explicitly instead
	// of stalling on an unrecognized byte.
	Other Category = iota
	QuotedString          // "..." possibly spanning joined lines
	Colon                 // :
	Fuzzy                 // (12.34) parenthesized fuzzy position
	Join                  // join( or order(
	Complement            // complement(
	Position              // bare position, optionally <- or >-marked
	Separator             // .. or ^ or .
	LeftParen             // (
	RightParen            // )
	Comma                 // ,
	Slash                 // /
	Equals                // =
	Text                  // free text run
	Newline               // \n
)

var categoryNames = map[Category]string{
	Other:        "OTHER",
	QuotedString: "QUOTED",
	Colon:        "COLON",
	Fuzzy:        "FUZZY",
	Join:         "JOIN",
	Complement:   "COMP",
	Position:     "POS",
	Separator:    "SEP",
	LeftParen:    "LEFTP",
	RightParen:   "RIGHTP",
	Comma:        "COMMA",
	Slash:        "SLASH",
	Equals:       "EQUALS",
	Text:         "TEXT",
	Newline:      "NEWLINE",
}

// String returns the conventional short name of the category.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is one scanned fragment of input: its category and the exact text
// matched. Tokens carry no further state and are never mutated.
type Token struct {
	Cat  Category
	Text string
}
