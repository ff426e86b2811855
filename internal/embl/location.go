// Package embl parses EMBL-style feature tables: the location grammar, the
// qualifier block grammar, and the line-oriented reader that feeds them.
package embl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/feattab/feattab/internal/feature"
	"github.com/feattab/feattab/internal/scan"
)

// instruction is one open join(/order(/complement( frame on the parser
// stack. openIndex is the length of the result list when the frame opened;
// a closing complement( flips the strand of everything built since then,
// which is how complement(join(...)) covers its whole interior.
type instruction struct {
	complement bool
	openIndex  int
}

// ParseLocation parses one location string (already joined across any
// continuation lines) into an ordered range list.
//
// Any unrecognized token or unbalanced nesting rejects the whole location:
// the caller drops the feature rather than keep a partial coordinate list.
func ParseLocation(loc string) ([]*feature.Range, error) {
	var (
		stack  []instruction
		result []*feature.Range
		accum  []scan.Token
	)

	flush := func() error {
		if len(accum) == 0 {
			return nil
		}
		r, err := buildRange(accum)
		if err != nil {
			return err
		}
		result = append(result, r)
		accum = accum[:0]
		return nil
	}

	s := scan.New(strings.TrimSpace(loc))
	for {
		tok, ok := s.Next()
		if !ok {
			break
		}

		switch tok.Cat {
		case scan.Join:
			stack = append(stack, instruction{openIndex: len(result)})
		case scan.Complement:
			stack = append(stack, instruction{complement: true, openIndex: len(result)})
		case scan.Position, scan.Separator, scan.Fuzzy:
			accum = append(accum, tok)
		case scan.Comma:
			if err := flush(); err != nil {
				return nil, err
			}
		case scan.RightParen:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced parenthesis in location %q", loc)
			}
			if err := flush(); err != nil {
				return nil, err
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if frame.complement {
				for _, r := range result[frame.openIndex:] {
					r.SetStrand(feature.StrandReverse)
				}
			}
		default:
			return nil, fmt.Errorf("unexpected %s token %q in location %q", tok.Cat, tok.Text, loc)
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("unbalanced parenthesis in location %q", loc)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty location %q", loc)
	}
	return result, nil
}

// compoundRe matches the parenthesized compound fuzzy position (a.b), and
// its bare a.b interior.
var compoundRe = regexp.MustCompile(`^\(?(\d+)\.(\d+)\)?$`)

// buildRange assembles one Range from the accumulated tokens of a single
// location component: [pos], [pos sep pos].
func buildRange(toks []scan.Token) (*feature.Range, error) {
	var startTok, endTok, sep string

	switch len(toks) {
	case 1:
		if toks[0].Cat == scan.Fuzzy {
			// A lone (a.b): a position known only to lie between a and b.
			m := compoundRe.FindStringSubmatch(toks[0].Text)
			fs, _ := strconv.Atoi(m[1])
			fe, _ := strconv.Atoi(m[2])
			return feature.NewRange(feature.RangeConfig{
				FuzzyStart: fs,
				FuzzyEnd:   fe,
				Strand:     feature.StrandForward,
			})
		}
		// Single position: the start text is copied into the end before
		// marker stripping, so a stray < or > must be removed from both
		// copies rather than leak into the other field.
		startTok, endTok = toks[0].Text, toks[0].Text
	case 3:
		if toks[1].Cat != scan.Separator {
			return nil, fmt.Errorf("malformed location component %q", componentText(toks))
		}
		startTok, sep, endTok = toks[0].Text, toks[1].Text, toks[2].Text
	default:
		return nil, fmt.Errorf("malformed location component %q", componentText(toks))
	}

	startTok, no5, _ := stripMarkers(startTok)
	endTok, _, no3 := stripMarkers(endTok)

	cfg := feature.RangeConfig{
		No5Prime: no5,
		No3Prime: no3,
		Strand:   feature.StrandForward,
	}

	switch sep {
	case "^":
		cfg.NoWidth = true
	case ".":
		// A bare a.b pair: both bounds fuzzy, no fixed coordinates.
		fs, err1 := strconv.Atoi(startTok)
		fe, err2 := strconv.Atoi(endTok)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("malformed fuzzy pair %q", componentText(toks))
		}
		cfg.FuzzyStart, cfg.FuzzyEnd = fs, fe
		return feature.NewRange(cfg)
	}

	var err error
	cfg.Start, cfg.FuzzyStart, err = splitPosition(startTok, true)
	if err != nil {
		return nil, err
	}
	cfg.End, cfg.FuzzyEnd, err = splitPosition(endTok, false)
	if err != nil {
		return nil, err
	}
	return feature.NewRange(cfg)
}

// stripMarkers removes open-ended markers from a position token, reporting
// which were present. The > marker is accepted both as the standard prefix
// (1..>2100) and as a trailing suffix (2100>), which some producers emit.
func stripMarkers(text string) (clean string, lt, gt bool) {
	if strings.HasPrefix(text, "<") {
		lt = true
		text = text[1:]
	}
	if strings.HasPrefix(text, ">") {
		gt = true
		text = text[1:]
	}
	if strings.HasSuffix(text, ">") {
		gt = true
		text = text[:len(text)-1]
	}
	return text, lt, gt
}

// splitPosition resolves one position token into its fixed and fuzzy
// values. A compound (a.b) reads asymmetrically: at the start of a range
// the second number is the fixed coordinate and the first the outward fuzzy
// bound; at the end the roles reverse.
func splitPosition(text string, isStart bool) (fixed, fuzzy int, err error) {
	if m := compoundRe.FindStringSubmatch(text); m != nil {
		a, err1 := strconv.Atoi(m[1])
		b, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			return 0, 0, fmt.Errorf("malformed fuzzy position %q", text)
		}
		if isStart {
			return b, a, nil
		}
		return a, b, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed position %q", text)
	}
	return v, 0, nil
}

func componentText(toks []scan.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String()
}
