// Package feature models sequence annotations: coordinate ranges with
// fuzzy and open-ended boundaries, the features that own them, and the
// coordinate transforms (reverse complement, window trimming, splicing)
// that act on them. All coordinates are 1-based and inclusive.
package feature

import (
	"errors"
	"fmt"
)

// Strand is the orientation of a range on its molecule.
type Strand int8

const (
	StrandReverse Strand = -1
	StrandNone    Strand = 0 // unset or ambiguous
	StrandForward Strand = 1
)

// String renders the strand in GFF notation.
func (s Strand) String() string {
	switch s {
	case StrandForward:
		return "+"
	case StrandReverse:
		return "-"
	default:
		return "."
	}
}

// ErrEmptyRange is returned when a range carries no positional information
// at all: every fixed and fuzzy coordinate is zero.
var ErrEmptyRange = errors.New("range has no coordinates")

// RangeConfig carries the named fields for constructing a Range. A zero
// coordinate means "not fixed": for Start/End, only the fuzzy counterpart
// is known; for FuzzyStart/FuzzyEnd, the boundary is exact.
type RangeConfig struct {
	Start      int
	End        int
	FuzzyStart int
	FuzzyEnd   int
	No5Prime   bool // continues past the 5' edge of the molecule
	No3Prime   bool // continues past the 3' edge of the molecule
	NoWidth    bool // sits between two adjacent bases
	Strand     Strand
}

// Range is one contiguous span of 1-based inclusive coordinates. Fuzzy
// bounds, when set, give the outermost coordinate the true boundary may
// reach. Invariants are checked at construction and re-checked by every
// transform that rewrites coordinates.
type Range struct {
	start      int
	end        int
	fuzzyStart int
	fuzzyEnd   int
	no5Prime   bool
	no3Prime   bool
	noWidth    bool
	strand     Strand
}

// NewRange validates cfg and builds a Range from it.
//
// A fixed start greater than the fixed end is swapped rather than rejected
// when no fuzzy bound is set. Feature tables produced by several external
// annotation pipelines carry reversed coordinate pairs, and callers expect
// those to load.
func NewRange(cfg RangeConfig) (*Range, error) {
	r := &Range{
		start:      cfg.Start,
		end:        cfg.End,
		fuzzyStart: cfg.FuzzyStart,
		fuzzyEnd:   cfg.FuzzyEnd,
		no5Prime:   cfg.No5Prime,
		no3Prime:   cfg.No3Prime,
		noWidth:    cfg.NoWidth,
		strand:     cfg.Strand,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRange is NewRange for statically known-good configurations; it panics
// on validation failure. Test helper and literal-table convenience.
func MustRange(cfg RangeConfig) *Range {
	r, err := NewRange(cfg)
	if err != nil {
		panic(err)
	}
	return r
}

// validate enforces the coordinate invariants, normalizing the one
// tolerated irregularity (reversed fixed coordinates with no fuzzy bounds).
func (r *Range) validate() error {
	if r.start < 0 || r.end < 0 || r.fuzzyStart < 0 || r.fuzzyEnd < 0 {
		return fmt.Errorf("negative coordinate in range %s", r.debugString())
	}
	if r.start == 0 && r.end == 0 && r.fuzzyStart == 0 && r.fuzzyEnd == 0 {
		return ErrEmptyRange
	}
	if r.start != 0 && r.end != 0 && r.start > r.end {
		if r.fuzzyStart != 0 || r.fuzzyEnd != 0 {
			return fmt.Errorf("start %d after end %d in range %s", r.start, r.end, r.debugString())
		}
		r.start, r.end = r.end, r.start
	}
	if r.fuzzyStart != 0 && r.start != 0 && r.fuzzyStart >= r.start {
		return fmt.Errorf("fuzzy start %d not before start %d", r.fuzzyStart, r.start)
	}
	if r.fuzzyStart != 0 && r.fuzzyEnd != 0 && r.fuzzyStart >= r.fuzzyEnd {
		return fmt.Errorf("fuzzy start %d not before fuzzy end %d", r.fuzzyStart, r.fuzzyEnd)
	}
	if r.fuzzyEnd != 0 && r.end != 0 && r.end >= r.fuzzyEnd {
		return fmt.Errorf("end %d not before fuzzy end %d", r.end, r.fuzzyEnd)
	}
	return nil
}

// Start returns the fixed start coordinate, 0 when only a fuzzy start is known.
func (r *Range) Start() int { return r.start }

// End returns the fixed end coordinate, 0 when only a fuzzy end is known.
func (r *Range) End() int { return r.end }

// FuzzyStart returns the outermost possible start, 0 when the start is exact.
func (r *Range) FuzzyStart() int { return r.fuzzyStart }

// FuzzyEnd returns the outermost possible end, 0 when the end is exact.
func (r *Range) FuzzyEnd() int { return r.fuzzyEnd }

// No5Prime reports whether the range continues past the molecule's 5' edge.
func (r *Range) No5Prime() bool { return r.no5Prime }

// No3Prime reports whether the range continues past the molecule's 3' edge.
func (r *Range) No3Prime() bool { return r.no3Prime }

// NoWidth reports whether the range is a zero-width inter-base site.
func (r *Range) NoWidth() bool { return r.noWidth }

// Strand returns the range's orientation.
func (r *Range) Strand() Strand { return r.strand }

// SetStrand assigns the orientation. Used by the location parser when a
// closing complement() retroactively flips its interior.
func (r *Range) SetStrand(s Strand) { r.strand = s }

// OuterStart returns the outermost known start: the fuzzy bound when
// present, the fixed one otherwise.
func (r *Range) OuterStart() int {
	if r.fuzzyStart != 0 {
		return r.fuzzyStart
	}
	return r.start
}

// OuterEnd returns the outermost known end: the fuzzy bound when present,
// the fixed one otherwise.
func (r *Range) OuterEnd() int {
	if r.fuzzyEnd != 0 {
		return r.fuzzyEnd
	}
	return r.end
}

// Width returns the number of bases the range spans at its outer bounds.
// Zero-width sites report 0.
func (r *Range) Width() int {
	if r.noWidth {
		return 0
	}
	return r.OuterEnd() - r.OuterStart() + 1
}

// Overlaps reports whether r and o share at least one position, comparing
// outer bounds. The relation is symmetric.
func (r *Range) Overlaps(o *Range) bool {
	rs, re := r.OuterStart(), r.OuterEnd()
	os, oe := o.OuterStart(), o.OuterEnd()
	if os >= rs && os <= re {
		return true
	}
	if oe >= rs && oe <= re {
		return true
	}
	// o straddles r entirely.
	return os <= rs && oe >= re
}

// Contains reports whether o lies entirely within r, comparing outer bounds.
func (r *Range) Contains(o *Range) bool {
	return o.OuterStart() >= r.OuterStart() && o.OuterEnd() <= r.OuterEnd()
}

// Clone returns a value-independent copy of the range.
func (r *Range) Clone() *Range {
	c := *r
	return &c
}

func (r *Range) debugString() string {
	return fmt.Sprintf("[start=%d end=%d fuzzyStart=%d fuzzyEnd=%d]",
		r.start, r.end, r.fuzzyStart, r.fuzzyEnd)
}
