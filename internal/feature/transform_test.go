package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseComplement_MirrorsCoordinates(t *testing.T) {
	f, err := New(Config{Key: "CDS", Start: 10, End: 30, Strand: StrandForward})
	require.NoError(t, err)

	require.NoError(t, f.ReverseComplement(100))

	r := f.Ranges()[0]
	assert.Equal(t, 71, r.Start()) // 100-30+1
	assert.Equal(t, 91, r.End())   // 100-10+1
	assert.Equal(t, StrandReverse, r.Strand())
}

func TestReverseComplement_Involution(t *testing.T) {
	const length = 2100
	f, err := New(Config{Key: "CDS", Ranges: []*Range{
		MustRange(RangeConfig{Start: 1, End: 38, Strand: StrandForward}),
		MustRange(RangeConfig{Start: 1260, End: 1300, FuzzyStart: 1250, Strand: StrandForward}),
		MustRange(RangeConfig{Start: 1320, End: 1340, FuzzyEnd: 1349, Strand: StrandForward,
			No5Prime: true}),
	}})
	require.NoError(t, err)

	orig := make([]*Range, len(f.Ranges()))
	for i, r := range f.Ranges() {
		orig[i] = r.Clone()
	}

	require.NoError(t, f.ReverseComplement(length))
	require.NoError(t, f.ReverseComplement(length))

	require.Len(t, f.Ranges(), len(orig))
	for i, r := range f.Ranges() {
		assert.Equal(t, orig[i].Start(), r.Start(), "range %d start", i)
		assert.Equal(t, orig[i].End(), r.End(), "range %d end", i)
		assert.Equal(t, orig[i].FuzzyStart(), r.FuzzyStart(), "range %d fuzzy start", i)
		assert.Equal(t, orig[i].FuzzyEnd(), r.FuzzyEnd(), "range %d fuzzy end", i)
		assert.Equal(t, orig[i].Strand(), r.Strand(), "range %d strand", i)
		assert.Equal(t, orig[i].No5Prime(), r.No5Prime(), "range %d no5prime", i)
	}
}

func TestReverseComplement_MirrorsFuzzyIntoOppositeRole(t *testing.T) {
	// (10.20)..30 on a 100-mer: the fuzzy start, which reaches outward to
	// the left, must become a fuzzy end reaching outward to the right.
	f, err := New(Config{Key: "CDS", Ranges: []*Range{
		MustRange(RangeConfig{Start: 20, End: 30, FuzzyStart: 10, Strand: StrandForward}),
	}})
	require.NoError(t, err)

	require.NoError(t, f.ReverseComplement(100))

	r := f.Ranges()[0]
	assert.Equal(t, 71, r.Start())
	assert.Equal(t, 81, r.End())
	assert.Equal(t, 0, r.FuzzyStart())
	assert.Equal(t, 91, r.FuzzyEnd())
}

func TestReverseComplement_ReordersRanges(t *testing.T) {
	f, err := New(Config{Key: "CDS", Ranges: []*Range{
		MustRange(RangeConfig{Start: 1, End: 38, Strand: StrandForward}),
		MustRange(RangeConfig{Start: 1200, End: 1349, Strand: StrandForward}),
	}})
	require.NoError(t, err)

	require.NoError(t, f.ReverseComplement(2100))

	// The mirrored second range now comes first.
	assert.Equal(t, 752, f.Ranges()[0].Start())  // 2100-1349+1
	assert.Equal(t, 2063, f.Ranges()[1].Start()) // 2100-38+1
}

func TestReverseComplement_AmbiguousStrandFails(t *testing.T) {
	f, err := New(Config{Key: "misc_feature", Ranges: []*Range{
		MustRange(RangeConfig{Start: 1, End: 10, Strand: StrandForward}),
		MustRange(RangeConfig{Start: 20, End: 30}),
	}})
	require.NoError(t, err)

	assert.Error(t, f.ReverseComplement(100))

	// Nothing was rewritten.
	assert.Equal(t, 1, f.Ranges()[0].Start())
	assert.Equal(t, StrandForward, f.Ranges()[0].Strand())
}

func TestReverseComplement_TruncationFlagsPassThrough(t *testing.T) {
	f, err := New(Config{Key: "CDS", Ranges: []*Range{
		MustRange(RangeConfig{Start: 1910, End: 2100, Strand: StrandForward, No3Prime: true}),
	}})
	require.NoError(t, err)

	require.NoError(t, f.ReverseComplement(2100))

	r := f.Ranges()[0]
	assert.True(t, r.No3Prime(), "truncation flags are molecule-relative")
	assert.False(t, r.No5Prime())
}

func TestTrim_DropsFeaturesOutsideWindow(t *testing.T) {
	f, err := New(Config{Key: "gene", Start: 100, End: 200, Strand: StrandForward})
	require.NoError(t, err)

	assert.Nil(t, f.Trim(300, 400))
	assert.Nil(t, f.Trim(1, 50))
}

func TestTrim_ContainedRangeOffsetsOnly(t *testing.T) {
	f, err := New(Config{Key: "gene", Start: 10, End: 20, Strand: StrandForward})
	require.NoError(t, err)

	got := f.Trim(4, 26)
	require.NotNil(t, got)

	r := got.Ranges()[0]
	assert.Equal(t, 7, r.Start()) // 10 - (4-1)
	assert.Equal(t, 17, r.End())
	assert.False(t, r.No5Prime())
	assert.False(t, r.No3Prime())
}

func TestTrim_ClipsAndFlagsForwardStrand(t *testing.T) {
	f, err := New(Config{Key: "gene", Start: 1, End: 50, Strand: StrandForward})
	require.NoError(t, err)

	got := f.Trim(10, 30)
	require.NotNil(t, got)

	r := got.Ranges()[0]
	assert.Equal(t, 1, r.Start())
	assert.Equal(t, 21, r.End())
	assert.True(t, r.No5Prime(), "left clip on forward strand cuts the 5' end")
	assert.True(t, r.No3Prime(), "right clip on forward strand cuts the 3' end")
}

func TestTrim_ClipsAndFlagsReverseStrand(t *testing.T) {
	f, err := New(Config{Key: "gene", Start: 1, End: 50, Strand: StrandReverse})
	require.NoError(t, err)

	got := f.Trim(10, 30)
	require.NotNil(t, got)

	r := got.Ranges()[0]
	assert.True(t, r.No3Prime(), "left clip on reverse strand cuts the 3' end")
	assert.True(t, r.No5Prime(), "right clip on reverse strand cuts the 5' end")
}

func TestTrim_DropsOutsideRangesKeepsInside(t *testing.T) {
	f, err := New(Config{Key: "CDS", Ranges: []*Range{
		MustRange(RangeConfig{Start: 1, End: 38, Strand: StrandForward}),
		MustRange(RangeConfig{Start: 1200, End: 1349, Strand: StrandForward}),
	}})
	require.NoError(t, err)

	got := f.Trim(1000, 1400)
	require.NotNil(t, got)
	require.Len(t, got.Ranges(), 1)
	assert.Equal(t, 201, got.Ranges()[0].Start()) // 1200 - 999
	assert.Equal(t, 350, got.Ranges()[0].End())
}

func TestTrim_SingleBaseRangeNeverClipped(t *testing.T) {
	f, err := New(Config{Key: "variation", Start: 15, End: 15, Strand: StrandForward})
	require.NoError(t, err)

	got := f.Trim(10, 20)
	require.NotNil(t, got)

	r := got.Ranges()[0]
	assert.Equal(t, 6, r.Start())
	assert.Equal(t, 6, r.End())
	assert.False(t, r.No5Prime())
	assert.False(t, r.No3Prime())
}

func TestTrim_FixedPairLeftOfWindowWithFuzzyEndInside(t *testing.T) {
	// Only the fuzzy end reaches into the window; both fixed coordinates
	// must be pulled to the left edge instead of going negative.
	f, err := New(Config{Key: "gene", Ranges: []*Range{
		MustRange(RangeConfig{Start: 10, End: 20, FuzzyEnd: 40, Strand: StrandForward}),
	}})
	require.NoError(t, err)

	got := f.Trim(30, 50)
	require.NotNil(t, got)
	require.Len(t, got.Ranges(), 1)

	r := got.Ranges()[0]
	assert.Equal(t, 1, r.Start())
	assert.Equal(t, 1, r.End())
	assert.Equal(t, 0, r.FuzzyStart())
	assert.Equal(t, 11, r.FuzzyEnd())
	assert.True(t, r.No5Prime())
	assert.LessOrEqual(t, r.Start(), r.End())
	assert.GreaterOrEqual(t, r.End(), 0)
}

func TestTrim_FixedPairRightOfWindowWithFuzzyStartInside(t *testing.T) {
	f, err := New(Config{Key: "gene", Ranges: []*Range{
		MustRange(RangeConfig{Start: 30, End: 40, FuzzyStart: 10, Strand: StrandForward}),
	}})
	require.NoError(t, err)

	got := f.Trim(1, 20)
	require.NotNil(t, got)
	require.Len(t, got.Ranges(), 1)

	r := got.Ranges()[0]
	assert.Equal(t, 20, r.Start())
	assert.Equal(t, 20, r.End())
	assert.Equal(t, 10, r.FuzzyStart())
	assert.Equal(t, 0, r.FuzzyEnd())
	assert.True(t, r.No3Prime())
}

func TestTrim_SingleBaseWithFuzzyEndStillClips(t *testing.T) {
	// The 1-bp shortcut only applies to exact ranges; with a fuzzy bound
	// the fixed position can lie outside the window.
	f, err := New(Config{Key: "variation", Ranges: []*Range{
		MustRange(RangeConfig{Start: 20, End: 20, FuzzyEnd: 40, Strand: StrandForward}),
	}})
	require.NoError(t, err)

	got := f.Trim(30, 50)
	require.NotNil(t, got)

	r := got.Ranges()[0]
	assert.Equal(t, 1, r.Start())
	assert.Equal(t, 1, r.End())
	assert.Equal(t, 11, r.FuzzyEnd())
	assert.True(t, r.No5Prime())
}

func TestTrim_DegenerateFixedPairClearedWhenFuzzySurvives(t *testing.T) {
	// Clipping collapses the fixed pair onto the window edge while the
	// fuzzy end lands exactly there too; the contradictory fixed pair is
	// cleared and only the fuzzy bound survives.
	f, err := New(Config{Key: "gene", Ranges: []*Range{
		MustRange(RangeConfig{Start: 10, End: 20, FuzzyEnd: 35, Strand: StrandForward}),
	}})
	require.NoError(t, err)

	got := f.Trim(35, 50)
	require.NotNil(t, got)
	require.Len(t, got.Ranges(), 1)

	r := got.Ranges()[0]
	assert.Equal(t, 0, r.Start())
	assert.Equal(t, 0, r.End())
	assert.Equal(t, 1, r.FuzzyEnd())
	assert.True(t, r.No5Prime())
}

func TestTrim_ReturnsDetachedCopy(t *testing.T) {
	s := &stubSeq{residues: "ACGTACGTACGTACGTACGT"}
	f, err := New(Config{Key: "gene", Start: 5, End: 15, Strand: StrandForward})
	require.NoError(t, err)
	f.AddQualifier("gene", "lacZ")
	f.Bind(s)

	got := f.Trim(1, 20)
	require.NotNil(t, got)
	assert.Nil(t, got.Seq())
	assert.Equal(t, []string{"lacZ"}, got.QualifierValues("gene"))

	// Original untouched.
	assert.Equal(t, 5, f.Ranges()[0].Start())
}

func TestCodingSequence_ForwardSplice(t *testing.T) {
	//                 1234567890123456789
	s := &stubSeq{residues: "ATGAAACCCGGGTTTTAGC"}
	f, err := New(Config{Key: "CDS", Ranges: []*Range{
		MustRange(RangeConfig{Start: 1, End: 6, Strand: StrandForward}),
		MustRange(RangeConfig{Start: 13, End: 18, Strand: StrandForward}),
	}})
	require.NoError(t, err)
	f.Bind(s)

	cds, err := f.CodingSequence()
	require.NoError(t, err)
	assert.Equal(t, "ATGAAATTTTAG", cds)
}

func TestCodingSequence_ReverseSpliceWalksRightToLeft(t *testing.T) {
	// Reverse-strand CDS: exons are concatenated rightmost first, each
	// reverse-complemented.
	s := &stubSeq{residues: "CTAAAACATGGGGGGGGGGG"}
	f, err := New(Config{Key: "CDS", Ranges: []*Range{
		MustRange(RangeConfig{Start: 1, End: 3, Strand: StrandReverse}),
		MustRange(RangeConfig{Start: 4, End: 9, Strand: StrandReverse}),
	}})
	require.NoError(t, err)
	f.Bind(s)

	cds, err := f.CodingSequence()
	require.NoError(t, err)
	assert.Equal(t, "ATGTTTTAG", cds)
}

func TestCodingSequence_DetachedFails(t *testing.T) {
	f, err := New(Config{Key: "CDS", Start: 1, End: 6, Strand: StrandForward})
	require.NoError(t, err)

	_, err = f.CodingSequence()
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	s := &stubSeq{residues: "ATGGCATAA"}
	f, err := New(Config{Key: "CDS", Start: 1, End: 9, Strand: StrandForward})
	require.NoError(t, err)
	f.Bind(s)

	prot, err := f.Translate(0)
	require.NoError(t, err)
	assert.Equal(t, "MA*", prot)
}

func TestTranslate_CodonStartOverridesFrame(t *testing.T) {
	s := &stubSeq{residues: "GATGGCATAA"}
	f, err := New(Config{Key: "CDS", Start: 1, End: 10, Strand: StrandForward})
	require.NoError(t, err)
	f.Bind(s)
	f.AddQualifier("codon_start", "2")

	// Caller frame 0 is overridden by codon_start=2 (frame 1).
	prot, err := f.Translate(0)
	require.NoError(t, err)
	assert.Equal(t, "MA*", prot)
}

func TestTranslate_InvalidCodonStart(t *testing.T) {
	s := &stubSeq{residues: "ATGGCATAA"}
	f, err := New(Config{Key: "CDS", Start: 1, End: 9, Strand: StrandForward})
	require.NoError(t, err)
	f.Bind(s)
	f.AddQualifier("codon_start", "7")

	_, err = f.Translate(0)
	assert.Error(t, err)
}
