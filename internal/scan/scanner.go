package scan

import "regexp"

// Rule pairs a token category with the pattern that recognizes it. Patterns
// are matched at the current cursor position only.
type Rule struct {
	Cat Category
	re  *regexp.Regexp
}

// NewRule compiles pattern into a rule for cat. The pattern is anchored at
// the cursor; callers should not include a leading ^.
func NewRule(cat Category, pattern string) Rule {
	return Rule{Cat: cat, re: regexp.MustCompile(`^(?:` + pattern + `)`)}
}

// featureTableRules is the rule set for the EMBL feature-table grammar.
// Order matters: rules are tried first to last and the first match wins, so
// the specific multi-character patterns must precede the single-character
// and catch-all rules. In particular Fuzzy before LeftParen, Join/Complement
// before Text, and `..` before `.` inside the Separator alternation.
var featureTableRules = []Rule{
	NewRule(QuotedString, `"[^"]*"`),
	NewRule(Colon, `:`),
	NewRule(Fuzzy, `\(\d+\.\d+\)`),
	NewRule(Join, `(?:join|order)\(`),
	NewRule(Complement, `complement\(`),
	NewRule(Position, `[<>]?\d+>?`),
	NewRule(Separator, `\.\.|\^|\.`),
	NewRule(LeftParen, `\(`),
	NewRule(RightParen, `\)`),
	NewRule(Comma, `,`),
	NewRule(Slash, `/`),
	NewRule(Equals, `=`),
	NewRule(Text, `[A-Za-z0-9_'*\- ]+`),
	NewRule(Newline, `\n`),
	NewRule(Other, `.|\s`),
}

// Scanner produces tokens from a single in-memory string, on demand. It is
// not safe for concurrent use; each parsed fragment gets its own Scanner.
type Scanner struct {
	rules []Rule
	input string
	pos   int
}

// New returns a scanner over input using the feature-table rule set.
func New(input string) *Scanner {
	return &Scanner{rules: featureTableRules, input: input}
}

// NewWithRules returns a scanner using a caller-supplied rule set, tried in
// the given order.
func NewWithRules(input string, rules []Rule) *Scanner {
	return &Scanner{rules: rules, input: input}
}

// Next returns the next token and true, or a zero token and false at end of
// input. Every character of the input is covered by some token: the final
// catch-all rule matches any single character as Other.
func (s *Scanner) Next() (Token, bool) {
	if s.pos >= len(s.input) {
		return Token{}, false
	}
	rest := s.input[s.pos:]
	for _, r := range s.rules {
		loc := r.re.FindStringIndex(rest)
		if loc == nil {
			continue
		}
		tok := Token{Cat: r.Cat, Text: rest[:loc[1]]}
		s.pos += loc[1]
		return tok, true
	}
	// Unreachable with the stock rule set, whose last rule matches any
	// character. Advance one byte so a degenerate rule set cannot loop.
	tok := Token{Cat: Other, Text: rest[:1]}
	s.pos++
	return tok, true
}

// All drains the scanner and returns every remaining token.
func (s *Scanner) All() []Token {
	var toks []Token
	for {
		tok, ok := s.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}
