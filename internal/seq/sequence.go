// Package seq provides the sequence container features attach to: raw
// residues, molecule type, and the whole-sequence operations (reverse
// complement, subsequence extraction) that carry attached features along.
package seq

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/feattab/feattab/internal/dna"
	"github.com/feattab/feattab/internal/feature"
)

// MolType is the molecule type of a sequence.
type MolType string

const (
	DNA     MolType = "dna"
	RNA     MolType = "rna"
	Protein MolType = "protein"
	// Virtual sequences have a name but no residues; attached features
	// are not bounds-checked against them.
	Virtual MolType = "virtual"
)

// Config carries the named fields for constructing a Sequence.
type Config struct {
	ID       string
	Residues string
	Type     MolType // defaults to DNA with residues, Virtual without
}

// Sequence is a residue string with an ordered feature list. It implements
// feature.Sequence, so attached features can reach back to the residues
// without owning them.
type Sequence struct {
	id       string
	residues string
	molType  MolType
	features []*feature.Feature
	logger   *zap.Logger
}

// New builds a sequence from cfg.
func New(cfg Config) *Sequence {
	t := cfg.Type
	if t == "" {
		if cfg.Residues == "" {
			t = Virtual
		} else {
			t = DNA
		}
	}
	return &Sequence{
		id:       cfg.ID,
		residues: cfg.Residues,
		molType:  t,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for per-feature diagnostics during
// whole-sequence transforms.
func (s *Sequence) SetLogger(l *zap.Logger) {
	s.logger = l
}

// ID returns the sequence identifier.
func (s *Sequence) ID() string { return s.id }

// Residues returns the raw residue string, empty for virtual sequences.
func (s *Sequence) Residues() string { return s.residues }

// Length returns the number of residues.
func (s *Sequence) Length() int { return len(s.residues) }

// Type returns the molecule type.
func (s *Sequence) Type() MolType { return s.molType }

// Virtual reports whether the sequence carries no residues.
func (s *Sequence) Virtual() bool { return s.molType == Virtual }

// Features returns the attached features, sorted by start.
func (s *Sequence) Features() []*feature.Feature { return s.features }

// Attach validates every range of f against the sequence and, on success,
// adds f to the feature list and binds the back-reference. A feature with
// any out-of-bounds range is rejected whole; the sequence is unchanged.
func (s *Sequence) Attach(f *feature.Feature) error {
	if err := f.Validate(s); err != nil {
		return fmt.Errorf("attach to %q: %w", s.id, err)
	}
	f.Bind(s)
	s.features = append(s.features, f)
	sort.SliceStable(s.features, func(i, j int) bool {
		return s.features[i].Start() < s.features[j].Start()
	})
	return nil
}

// Detach removes f from the feature list and clears its back-reference.
func (s *Sequence) Detach(f *feature.Feature) {
	for i, g := range s.features {
		if g == f {
			s.features = append(s.features[:i], s.features[i+1:]...)
			f.Unbind()
			return
		}
	}
}

// ReverseComplement returns a new sequence holding the reverse complement
// of the residues, with every attached feature's coordinates mirrored.
// Features that cannot be mirrored (ambiguous strand) are reported through
// the logger and left off the result; the receiver is never modified.
func (s *Sequence) ReverseComplement() (*Sequence, error) {
	if s.Virtual() {
		return nil, fmt.Errorf("reverse complement of %q: sequence has no residues", s.id)
	}
	if s.molType == Protein {
		return nil, fmt.Errorf("reverse complement of %q: not a nucleotide sequence", s.id)
	}

	rc := New(Config{
		ID:       s.id,
		Residues: dna.ReverseComplement(s.residues),
		Type:     s.molType,
	})
	rc.logger = s.logger

	for _, f := range s.features {
		c := f.Clone()
		if err := c.ReverseComplement(s.Length()); err != nil {
			s.logger.Warn("feature not carried through reverse complement",
				zap.String("sequence", s.id),
				zap.String("key", f.Key()),
				zap.Error(err))
			continue
		}
		if err := rc.Attach(c); err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// Subsequence returns a new sequence covering the 1-based inclusive window
// [start, end]. Attached features are trimmed into the window's coordinate
// system; features that fall entirely outside are dropped silently, as are
// ranges clipped away completely.
func (s *Sequence) Subsequence(start, end int) (*Sequence, error) {
	if s.Virtual() {
		return nil, fmt.Errorf("subsequence of %q: sequence has no residues", s.id)
	}
	if start < 1 || end > s.Length() || start > end {
		return nil, fmt.Errorf("subsequence window %d..%d outside %q (length %d)",
			start, end, s.id, s.Length())
	}

	sub := New(Config{
		ID:       fmt.Sprintf("%s:%d..%d", s.id, start, end),
		Residues: s.residues[start-1 : end],
		Type:     s.molType,
	})
	sub.logger = s.logger

	for _, f := range s.features {
		t := f.Trim(start, end)
		if t == nil {
			continue
		}
		if err := sub.Attach(t); err != nil {
			return nil, err
		}
	}
	return sub, nil
}
