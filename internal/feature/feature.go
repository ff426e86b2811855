package feature

import (
	"fmt"
	"sort"
)

// Sequence is the view a Feature keeps of its parent sequence. The feature
// does not own the sequence; implementations live elsewhere (internal/seq).
type Sequence interface {
	// Residues returns the raw residue string, empty for virtual sequences.
	Residues() string
	// Length returns the sequence length, 0 for virtual sequences.
	Length() int
	// Virtual reports whether the sequence has no length (no bound checks
	// apply to attached features).
	Virtual() bool
}

// Config carries the named fields for constructing a Feature. Either Ranges
// or the Start/End/Strand convenience form may be used; the latter builds a
// single Range implicitly.
type Config struct {
	Key    string
	Ranges []*Range
	Start  int
	End    int
	Strand Strand
}

// Feature is one annotation on a sequence: a key naming its type, one or
// more owned ranges kept sorted by start, and a qualifier multimap.
type Feature struct {
	key        string
	ranges     []*Range
	qualNames  []string            // insertion order of qualifier names
	qualifiers map[string][]string // name -> ordered values; nil value slice means bare flag
	seq        Sequence            // non-owning; nil while detached
}

// New builds a Feature from cfg. With no explicit Ranges, a Start/End pair
// builds one range; a Feature may also start empty and gain ranges later,
// but it cannot be attached to a sequence until it has at least one.
func New(cfg Config) (*Feature, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("feature requires a key")
	}
	f := &Feature{
		key:        cfg.Key,
		qualifiers: make(map[string][]string),
	}
	if len(cfg.Ranges) > 0 {
		if cfg.Start != 0 || cfg.End != 0 {
			return nil, fmt.Errorf("feature %q: ranges and start/end are mutually exclusive", cfg.Key)
		}
		for _, r := range cfg.Ranges {
			f.ranges = append(f.ranges, r)
		}
		f.sortRanges()
	} else if cfg.Start != 0 || cfg.End != 0 {
		r, err := NewRange(RangeConfig{Start: cfg.Start, End: cfg.End, Strand: cfg.Strand})
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", cfg.Key, err)
		}
		f.ranges = []*Range{r}
	}
	return f, nil
}

// Key returns the feature type, e.g. "CDS" or "gene".
func (f *Feature) Key() string { return f.key }

// Ranges returns the feature's ranges, sorted ascending by start. The slice
// is the feature's own; callers must not modify it.
func (f *Feature) Ranges() []*Range { return f.ranges }

// AddRange appends a range, keeping the list sorted by start.
func (f *Feature) AddRange(r *Range) {
	f.ranges = append(f.ranges, r)
	f.sortRanges()
}

func (f *Feature) sortRanges() {
	sort.SliceStable(f.ranges, func(i, j int) bool {
		return f.ranges[i].OuterStart() < f.ranges[j].OuterStart()
	})
}

// Start returns the outermost start of the first range, 0 for a feature
// with no ranges.
func (f *Feature) Start() int {
	if len(f.ranges) == 0 {
		return 0
	}
	return f.ranges[0].OuterStart()
}

// End returns the outermost end of the last range, 0 for a feature with no
// ranges.
func (f *Feature) End() int {
	if len(f.ranges) == 0 {
		return 0
	}
	return f.ranges[len(f.ranges)-1].OuterEnd()
}

// Strand returns the strand shared by every range, or StrandNone when the
// ranges disagree (an ambiguous feature) or there are none.
func (f *Feature) Strand() Strand {
	if len(f.ranges) == 0 {
		return StrandNone
	}
	s := f.ranges[0].Strand()
	for _, r := range f.ranges[1:] {
		if r.Strand() != s {
			return StrandNone
		}
	}
	return s
}

// AddQualifier appends values under name, creating the qualifier if needed.
// Called with no values it records a bare flag (presence without a value),
// e.g. /pseudo.
func (f *Feature) AddQualifier(name string, values ...string) {
	if _, ok := f.qualifiers[name]; !ok {
		f.qualNames = append(f.qualNames, name)
		f.qualifiers[name] = nil
	}
	f.qualifiers[name] = append(f.qualifiers[name], values...)
}

// QualifierValues returns the ordered values stored under name. A bare flag
// qualifier yields an empty slice; an absent qualifier yields nil.
func (f *Feature) QualifierValues(name string) []string {
	v, ok := f.qualifiers[name]
	if !ok {
		return nil
	}
	if v == nil {
		return []string{}
	}
	return v
}

// QualifierExists reports whether name is present, with or without values.
func (f *Feature) QualifierExists(name string) bool {
	_, ok := f.qualifiers[name]
	return ok
}

// QualifierNames returns qualifier names in insertion order.
func (f *Feature) QualifierNames() []string { return f.qualNames }

// Seq returns the parent sequence, nil while detached.
func (f *Feature) Seq() Sequence { return f.seq }

// Bind records the parent sequence back-reference. The sequence container
// calls this from Attach after validating the feature's ranges.
func (f *Feature) Bind(s Sequence) { f.seq = s }

// Unbind clears the back-reference.
func (f *Feature) Unbind() { f.seq = nil }

// Validate checks every range against the sequence length. Virtual (length
// zero) sequences impose no bounds.
func (f *Feature) Validate(s Sequence) error {
	if len(f.ranges) == 0 {
		return fmt.Errorf("feature %q has no ranges", f.key)
	}
	if s.Virtual() {
		return nil
	}
	length := s.Length()
	for _, r := range f.ranges {
		if r.OuterEnd() > length || r.OuterStart() > length {
			return fmt.Errorf("feature %q range %d..%d exceeds sequence length %d",
				f.key, r.OuterStart(), r.OuterEnd(), length)
		}
	}
	return nil
}

// Clone returns a deep copy of the feature: its ranges and qualifier map
// are value-independent, while the sequence back-reference is shared so the
// clone still sees the same residues.
func (f *Feature) Clone() *Feature {
	c := &Feature{
		key:        f.key,
		qualifiers: make(map[string][]string, len(f.qualifiers)),
		seq:        f.seq,
	}
	c.ranges = make([]*Range, len(f.ranges))
	for i, r := range f.ranges {
		c.ranges[i] = r.Clone()
	}
	c.qualNames = append([]string(nil), f.qualNames...)
	for name, vals := range f.qualifiers {
		if vals == nil {
			c.qualifiers[name] = nil
			continue
		}
		c.qualifiers[name] = append([]string(nil), vals...)
	}
	return c
}

// Overlaps reports whether any of f's ranges overlaps the window
// [start, end].
func (f *Feature) Overlaps(start, end int) bool {
	w := &Range{start: start, end: end}
	for _, r := range f.ranges {
		if r.Overlaps(w) {
			return true
		}
	}
	return false
}
