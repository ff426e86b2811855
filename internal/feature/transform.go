package feature

import (
	"fmt"
	"strconv"

	"github.com/feattab/feattab/internal/dna"
)

// ReverseComplement rewrites the feature's coordinates for the reverse
// complement of a sequence of the given length: each range is mirrored
// (new start = length − end + 1, new end = length − start + 1), fuzzy
// bounds are mirrored into each other's role, and the strand flips.
//
// The truncation flags describe which edge of the molecule cut the feature
// off, not which strand end, so they pass through unchanged; the same holds
// for the zero-width flag. Ranges are re-sorted afterwards because
// mirroring inverts their order.
//
// A range with no strand cannot be mirrored meaningfully, so a single
// StrandNone range fails the whole operation before anything is rewritten.
func (f *Feature) ReverseComplement(length int) error {
	for _, r := range f.ranges {
		if r.Strand() == StrandNone {
			return fmt.Errorf("feature %q: cannot reverse-complement a range with ambiguous strand", f.key)
		}
	}

	mirrored := make([]*Range, len(f.ranges))
	for i, r := range f.ranges {
		m := &Range{
			no5Prime: r.no5Prime,
			no3Prime: r.no3Prime,
			noWidth:  r.noWidth,
			strand:   -r.strand,
		}
		if r.end != 0 {
			m.start = length - r.end + 1
		}
		if r.start != 0 {
			m.end = length - r.start + 1
		}
		if r.fuzzyEnd != 0 {
			m.fuzzyStart = length - r.fuzzyEnd + 1
		}
		if r.fuzzyStart != 0 {
			m.fuzzyEnd = length - r.fuzzyStart + 1
		}
		m.repairFuzzyOrder()
		if err := m.validate(); err != nil {
			return fmt.Errorf("feature %q: reverse complement produced invalid range: %w", f.key, err)
		}
		mirrored[i] = m
	}

	f.ranges = mirrored
	f.sortRanges()
	return nil
}

// repairFuzzyOrder restores the fuzzy-before-fixed ordering after
// mirroring. If a mirrored fuzzy bound landed on the wrong side of its
// fixed counterpart, the two values trade roles.
func (r *Range) repairFuzzyOrder() {
	if r.fuzzyStart != 0 && r.start != 0 && r.fuzzyStart > r.start {
		r.fuzzyStart, r.start = r.start, r.fuzzyStart
	}
	if r.fuzzyEnd != 0 && r.end != 0 && r.fuzzyEnd < r.end {
		r.fuzzyEnd, r.end = r.end, r.fuzzyEnd
	}
}

// Trim produces a copy of the feature expressed in the coordinate system of
// the subsequence window [start, end] (1-based, inclusive). Ranges outside
// the window are dropped; ranges straddling a window edge are clipped, with
// the strand-appropriate truncation flag recorded. Returns nil when no
// range survives. The copy is detached; the caller attaches it to the new
// subsequence.
func (f *Feature) Trim(start, end int) *Feature {
	if f.End() < start || f.Start() > end {
		return nil
	}

	c := f.Clone()
	c.Unbind()

	var kept []*Range
	for _, r := range c.ranges {
		if r.OuterEnd() < start || r.OuterStart() > end {
			continue
		}
		clipRange(r, start, end)
		offsetRange(r, -(start - 1))
		if err := r.validate(); err != nil {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return nil
	}
	c.ranges = kept
	c.sortRanges()
	return c
}

// clipRange pulls coordinates outside [start, end] back to the window edge.
// A 1-bp exact range has nothing to clip: with no fuzzy bounds it survived
// the drop test, so it lies inside the window already.
func clipRange(r *Range, start, end int) {
	if r.start != 0 && r.start == r.end && r.fuzzyStart == 0 && r.fuzzyEnd == 0 {
		return
	}
	if r.start != 0 && r.start < start {
		r.start = start
		r.setTruncated(left)
	}
	if r.fuzzyStart != 0 && r.fuzzyStart < start {
		// The fuzzy bound cannot coincide with the fixed bound, so a fuzzy
		// start clipped to the window edge is simply discarded.
		if r.start != 0 {
			r.fuzzyStart = 0
		} else {
			r.fuzzyStart = start
		}
		r.setTruncated(left)
	}
	if r.end != 0 && r.end > end {
		r.end = end
		r.setTruncated(right)
	}
	if r.fuzzyEnd != 0 && r.fuzzyEnd > end {
		if r.end != 0 {
			r.fuzzyEnd = 0
		} else {
			r.fuzzyEnd = end
		}
		r.setTruncated(right)
	}
	// A fixed bound can sit on the far side of the opposite window edge
	// when only a fuzzy bound reaches into the window; pull it to that edge
	// so the fixed pair cannot invert.
	if r.end != 0 && r.end < start {
		r.end = start
		r.setTruncated(left)
	}
	if r.start != 0 && r.start > end {
		r.start = end
		r.setTruncated(right)
	}
	// A degenerate fixed pair with a surviving fuzzy bound carries no
	// information; clear it.
	if r.start != 0 && r.start == r.end && (r.fuzzyStart != 0 || r.fuzzyEnd != 0) {
		if r.fuzzyStart >= r.start || (r.fuzzyEnd != 0 && r.fuzzyEnd <= r.end) {
			r.start, r.end = 0, 0
		}
	}
}

type clipSide uint8

const (
	left clipSide = iota
	right
)

// setTruncated records the truncation flag for a clip on the given lexical
// side. Which physical end that is depends on strand: a left clip cuts the
// 5' end of a forward-strand range but the 3' end of a reverse-strand one.
func (r *Range) setTruncated(side clipSide) {
	fivePrime := (side == left) == (r.strand != StrandReverse)
	if fivePrime {
		r.no5Prime = true
	} else {
		r.no3Prime = true
	}
}

// offsetRange shifts every nonzero coordinate by delta.
func offsetRange(r *Range, delta int) {
	if r.start != 0 {
		r.start += delta
	}
	if r.end != 0 {
		r.end += delta
	}
	if r.fuzzyStart != 0 {
		r.fuzzyStart += delta
	}
	if r.fuzzyEnd != 0 {
		r.fuzzyEnd += delta
	}
}

// CodingSequence splices the feature's ranges into one contiguous coding
// string: ranges are walked in transcription order (left to right on the
// forward strand, right to left on the reverse), each extracted substring
// reverse-complemented individually when its range is on the reverse
// strand. The feature must be attached to a non-virtual sequence.
func (f *Feature) CodingSequence() (string, error) {
	if f.seq == nil {
		return "", fmt.Errorf("feature %q is not attached to a sequence", f.key)
	}
	if f.seq.Virtual() {
		return "", fmt.Errorf("feature %q: sequence has no residues", f.key)
	}
	residues := f.seq.Residues()

	ordered := make([]*Range, len(f.ranges))
	copy(ordered, f.ranges)
	if f.Strand() == StrandReverse {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	var spliced string
	for _, r := range ordered {
		lo, hi := r.OuterStart(), r.OuterEnd()
		if lo < 1 || hi > len(residues) || lo > hi {
			return "", fmt.Errorf("feature %q: range %d..%d outside residues of length %d",
				f.key, lo, hi, len(residues))
		}
		part := residues[lo-1 : hi]
		if r.Strand() == StrandReverse {
			part = dna.ReverseComplement(part)
		}
		spliced += part
	}
	return spliced, nil
}

// Translate splices the feature and translates the result. The caller's
// frame (0, 1, or 2) is overridden by a codon_start qualifier when present
// (codon_start is 1-based, so codon_start=2 means frame 1). The first codon
// is treated as an initiator unless the feature is 5'-partial.
func (f *Feature) Translate(frame int) (string, error) {
	cds, err := f.CodingSequence()
	if err != nil {
		return "", err
	}
	if vals := f.QualifierValues("codon_start"); len(vals) > 0 {
		cs, err := strconv.Atoi(vals[0])
		if err != nil || cs < 1 || cs > 3 {
			return "", fmt.Errorf("feature %q: invalid codon_start %q", f.key, vals[0])
		}
		frame = cs - 1
	}
	return dna.Translate(cds, frame, frame == 0 && !f.fivePrimePartial()), nil
}

// fivePrimePartial reports whether the feature's translational start is cut
// off. The flags are molecule-relative, so on the reverse strand the 5' end
// of the product corresponds to the 3' truncation flag of the rightmost
// range.
func (f *Feature) fivePrimePartial() bool {
	if len(f.ranges) == 0 {
		return false
	}
	if f.Strand() == StrandReverse {
		return f.ranges[len(f.ranges)-1].No3Prime()
	}
	return f.ranges[0].No5Prime()
}
