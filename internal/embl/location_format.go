package embl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/feattab/feattab/internal/feature"
)

// FormatLocation renders a range list back into the location grammar. The
// output is an equivalent location, not necessarily the original text: an
// order(...) parses to the same range list as a join(...) and is emitted as
// join, and a complement over every range is hoisted to a single outer
// complement(...) wrapper.
func FormatLocation(ranges []*feature.Range) string {
	if len(ranges) == 0 {
		return ""
	}

	allReverse := true
	for _, r := range ranges {
		if r.Strand() != feature.StrandReverse {
			allReverse = false
			break
		}
	}

	comps := make([]string, len(ranges))
	for i, r := range ranges {
		c := formatComponent(r)
		if !allReverse && r.Strand() == feature.StrandReverse {
			c = "complement(" + c + ")"
		}
		comps[i] = c
	}

	loc := comps[0]
	if len(comps) > 1 {
		loc = "join(" + strings.Join(comps, ",") + ")"
	}
	if allReverse {
		loc = "complement(" + loc + ")"
	}
	return loc
}

// formatComponent renders one range as a single location component.
func formatComponent(r *feature.Range) string {
	// Pure fuzzy pair: a.b with no fixed coordinates.
	if r.Start() == 0 && r.End() == 0 {
		return fmt.Sprintf("%d.%d", r.FuzzyStart(), r.FuzzyEnd())
	}

	start := formatPosition(r.Start(), r.FuzzyStart(), true)
	if r.No5Prime() {
		start = "<" + start
	}

	// Single exact position renders without a separator.
	if r.Start() == r.End() && r.FuzzyStart() == 0 && r.FuzzyEnd() == 0 && !r.NoWidth() {
		if r.No3Prime() {
			return start + ">"
		}
		return start
	}

	end := formatPosition(r.End(), r.FuzzyEnd(), false)
	if r.No3Prime() {
		end = ">" + end
	}

	sep := ".."
	if r.NoWidth() {
		sep = "^"
	}
	return start + sep + end
}

// formatPosition renders one boundary, using the compound (a.b) form when
// both a fixed and a fuzzy value are known. The start compound leads with
// its fuzzy bound, the end compound trails with it, mirroring how the
// parser splits them.
func formatPosition(fixed, fuzzy int, isStart bool) string {
	switch {
	case fuzzy == 0:
		return strconv.Itoa(fixed)
	case fixed == 0:
		return strconv.Itoa(fuzzy)
	case isStart:
		return fmt.Sprintf("(%d.%d)", fuzzy, fixed)
	default:
		return fmt.Sprintf("(%d.%d)", fixed, fuzzy)
	}
}
