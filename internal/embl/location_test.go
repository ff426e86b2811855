package embl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feattab/feattab/internal/feature"
)

func TestParseLocation_SimpleRange(t *testing.T) {
	ranges, err := ParseLocation("1..38")
	require.NoError(t, err)
	require.Len(t, ranges, 1)

	r := ranges[0]
	assert.Equal(t, 1, r.Start())
	assert.Equal(t, 38, r.End())
	assert.Equal(t, feature.StrandForward, r.Strand())
}

func TestParseLocation_SinglePosition(t *testing.T) {
	ranges, err := ParseLocation("42")
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, 42, ranges[0].Start())
	assert.Equal(t, 42, ranges[0].End())
}

func TestParseLocation_JoinWithComplement(t *testing.T) {
	ranges, err := ParseLocation("join(1..38,complement(1200..1349))")
	require.NoError(t, err)
	require.Len(t, ranges, 2)

	assert.Equal(t, 1, ranges[0].Start())
	assert.Equal(t, 38, ranges[0].End())
	assert.Equal(t, feature.StrandForward, ranges[0].Strand())

	assert.Equal(t, 1200, ranges[1].Start())
	assert.Equal(t, 1349, ranges[1].End())
	assert.Equal(t, feature.StrandReverse, ranges[1].Strand())
}

func TestParseLocation_ComplementOfJoinFlipsEverything(t *testing.T) {
	ranges, err := ParseLocation("complement(join(1..38,100..200))")
	require.NoError(t, err)
	require.Len(t, ranges, 2)

	for i, r := range ranges {
		assert.Equal(t, feature.StrandReverse, r.Strand(), "range %d", i)
	}
}

func TestParseLocation_ComplementScopeIsBounded(t *testing.T) {
	// Only the ranges inside the complement frame flip; the one parsed
	// before it keeps its strand.
	ranges, err := ParseLocation("join(1..38,complement(join(100..200,300..400)),500..600)")
	require.NoError(t, err)
	require.Len(t, ranges, 4)

	assert.Equal(t, feature.StrandForward, ranges[0].Strand())
	assert.Equal(t, feature.StrandReverse, ranges[1].Strand())
	assert.Equal(t, feature.StrandReverse, ranges[2].Strand())
	assert.Equal(t, feature.StrandForward, ranges[3].Strand())
}

func TestParseLocation_Order(t *testing.T) {
	ranges, err := ParseLocation("order(1..10,20..30)")
	require.NoError(t, err)
	assert.Len(t, ranges, 2)
}

func TestParseLocation_OpenEndedMarkers(t *testing.T) {
	ranges, err := ParseLocation("<1..38")
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.True(t, ranges[0].No5Prime())
	assert.False(t, ranges[0].No3Prime())

	ranges, err = ParseLocation("1910..>2100")
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.False(t, ranges[0].No5Prime())
	assert.True(t, ranges[0].No3Prime())
}

func TestParseLocation_SinglePositionMarkerDoesNotLeak(t *testing.T) {
	// "<5" copies the start into the end before stripping; both copies
	// must come out clean.
	ranges, err := ParseLocation("<5")
	require.NoError(t, err)
	require.Len(t, ranges, 1)

	r := ranges[0]
	assert.Equal(t, 5, r.Start())
	assert.Equal(t, 5, r.End())
	assert.True(t, r.No5Prime())
	assert.False(t, r.No3Prime())
}

func TestParseLocation_ZeroWidthSite(t *testing.T) {
	ranges, err := ParseLocation("20^21")
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.True(t, ranges[0].NoWidth())
	assert.Equal(t, 20, ranges[0].Start())
	assert.Equal(t, 21, ranges[0].End())
}

func TestParseLocation_FuzzyPair(t *testing.T) {
	ranges, err := ParseLocation("12.34")
	require.NoError(t, err)
	require.Len(t, ranges, 1)

	r := ranges[0]
	assert.Equal(t, 0, r.Start())
	assert.Equal(t, 0, r.End())
	assert.Equal(t, 12, r.FuzzyStart())
	assert.Equal(t, 34, r.FuzzyEnd())
}

func TestParseLocation_CompoundFuzzyStart(t *testing.T) {
	// At the start position the compound's second number is the fixed
	// coordinate, the first the outward fuzzy bound.
	ranges, err := ParseLocation("(1260.1275)..1349")
	require.NoError(t, err)
	require.Len(t, ranges, 1)

	r := ranges[0]
	assert.Equal(t, 1275, r.Start())
	assert.Equal(t, 1260, r.FuzzyStart())
	assert.Equal(t, 1349, r.End())
	assert.Equal(t, 0, r.FuzzyEnd())
}

func TestParseLocation_CompoundFuzzyEnd(t *testing.T) {
	// At the end position the roles reverse: first number fixed, second
	// fuzzy.
	ranges, err := ParseLocation("1800..(1815.1820)")
	require.NoError(t, err)
	require.Len(t, ranges, 1)

	r := ranges[0]
	assert.Equal(t, 1800, r.Start())
	assert.Equal(t, 1815, r.End())
	assert.Equal(t, 1820, r.FuzzyEnd())
	assert.Equal(t, 0, r.FuzzyStart())
}

func TestParseLocation_Malformed(t *testing.T) {
	tests := []struct {
		name string
		loc  string
	}{
		{"unbalanced open", "join(1..38"},
		{"unbalanced close", "1..38)"},
		{"free text", "abc..def"},
		{"remote reference", "J00194.1:1..150"},
		{"stray character", "1..%15"},
		{"empty", ""},
		{"dangling separator", "1.."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges, err := ParseLocation(tt.loc)
			assert.Error(t, err)
			assert.Empty(t, ranges, "a malformed location yields no partial ranges")
		})
	}
}

func TestFormatLocation_RoundTrip(t *testing.T) {
	locations := []string{
		"1..38",
		"join(1..38,complement(1200..1349))",
		"complement(join(1..38,100..200))",
		"<1..38",
		"1910..>2100",
		"20^21",
		"12.34",
		"(1260.1275)..1349",
		"1800..(1815.1820)",
		"42",
		"join(1..10,20..30,40..50)",
	}

	for _, loc := range locations {
		t.Run(loc, func(t *testing.T) {
			first, err := ParseLocation(loc)
			require.NoError(t, err)

			out := FormatLocation(first)
			second, err := ParseLocation(out)
			require.NoError(t, err, "serialized form %q must re-parse", out)

			require.Len(t, second, len(first))
			for i := range first {
				assert.Equal(t, first[i].Start(), second[i].Start(), "start of range %d", i)
				assert.Equal(t, first[i].End(), second[i].End(), "end of range %d", i)
				assert.Equal(t, first[i].FuzzyStart(), second[i].FuzzyStart(), "fuzzy start of range %d", i)
				assert.Equal(t, first[i].FuzzyEnd(), second[i].FuzzyEnd(), "fuzzy end of range %d", i)
				assert.Equal(t, first[i].Strand(), second[i].Strand(), "strand of range %d", i)
				assert.Equal(t, first[i].No5Prime(), second[i].No5Prime(), "no5prime of range %d", i)
				assert.Equal(t, first[i].No3Prime(), second[i].No3Prime(), "no3prime of range %d", i)
				assert.Equal(t, first[i].NoWidth(), second[i].NoWidth(), "nowidth of range %d", i)
			}
		})
	}
}

func TestFormatLocation_EquivalentNesting(t *testing.T) {
	ranges, err := ParseLocation("join(1..38,complement(1200..1349))")
	require.NoError(t, err)
	assert.Equal(t, "join(1..38,complement(1200..1349))", FormatLocation(ranges))

	ranges, err = ParseLocation("complement(join(1..38,100..200))")
	require.NoError(t, err)
	assert.Equal(t, "complement(join(1..38,100..200))", FormatLocation(ranges))
}
