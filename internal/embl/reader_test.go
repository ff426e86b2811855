package embl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feattab/feattab/internal/feature"
)

const sampleTable = `FH   Key             Location/Qualifiers
FH
FT   source          1..2100
FT                   /organism="synthetic construct"
FT                   /mol_type="genomic DNA"
FT   gene            <1..38
FT                   /gene="thrA"
FT   misc_feature    20^39
FT                   /note="zero-width insertion site"
FT   CDS             join(1..38,complement(1200..1349))
FT                   /gene="thrA"
FT                   /codon_start=1
FT                   /product="aspartokinase I / homoserine dehydrogenase I,
FT                   truncated"
FT   gene            500..600
FT   CDS             (1260.1275)..1349
FT                   /note="fuzzy start"
FT   gene            1400..1500
FT   gene            1760..(1770.1780)
FT                   /note="fuzzy end inside compound"
FT   gene            (1800.1810)..1820
FT                   /note="fuzzy start inside compound"
FT   CDS             1910..>2100
FT                   /note="runs off the end"
XX
SQ   Sequence 2100 BP;
`

func TestReader_ParsesWholeTable(t *testing.T) {
	p := NewReader(strings.NewReader(sampleTable))
	features, err := ReadAll(p)
	require.NoError(t, err)
	require.Len(t, features, 10)
	assert.Zero(t, p.Dropped())

	tests := []struct {
		idx   int
		key   string
		start int
		end   int
	}{
		{0, "source", 1, 2100},
		{1, "gene", 1, 38},
		{2, "misc_feature", 20, 39},
		{3, "CDS", 1, 1349},
		{4, "gene", 500, 600},
		{5, "CDS", 1260, 1349},
		{6, "gene", 1400, 1500},
		{7, "gene", 1760, 1780},
		{8, "gene", 1800, 1820},
		{9, "CDS", 1910, 2100},
	}

	for _, tt := range tests {
		f := features[tt.idx]
		assert.Equal(t, tt.key, f.Key(), "feature %d key", tt.idx)
		assert.Equal(t, tt.start, f.Start(), "feature %d start", tt.idx)
		assert.Equal(t, tt.end, f.End(), "feature %d end", tt.idx)
	}
}

func TestReader_SplicedCDSDetails(t *testing.T) {
	p := NewReader(strings.NewReader(sampleTable))
	features, err := ReadAll(p)
	require.NoError(t, err)

	cds := features[3]
	require.Len(t, cds.Ranges(), 2)
	assert.Equal(t, feature.StrandForward, cds.Ranges()[0].Strand())
	assert.Equal(t, feature.StrandReverse, cds.Ranges()[1].Strand())
	assert.Equal(t, feature.StrandNone, cds.Strand(), "mixed strands surface as ambiguous")
}

func TestReader_WrappedQuotedValueJoinedWithSingleSpace(t *testing.T) {
	p := NewReader(strings.NewReader(sampleTable))
	features, err := ReadAll(p)
	require.NoError(t, err)

	cds := features[3]
	vals := cds.QualifierValues("product")
	require.Len(t, vals, 1)
	assert.Equal(t, "aspartokinase I / homoserine dehydrogenase I, truncated", vals[0])
}

func TestReader_TruncatedFeatureFlags(t *testing.T) {
	p := NewReader(strings.NewReader(sampleTable))
	features, err := ReadAll(p)
	require.NoError(t, err)

	assert.True(t, features[1].Ranges()[0].No5Prime())
	assert.True(t, features[9].Ranges()[0].No3Prime())
	assert.True(t, features[2].Ranges()[0].NoWidth())
}

func TestReader_DropsMalformedLocationAndContinues(t *testing.T) {
	table := strings.Join([]string{
		"FT   gene            1..38",
		"FT   CDS             join(100..200",
		`FT                   /note="never closed"`,
		"FT   gene            500..600",
		"",
	}, "\n")

	p := NewReader(strings.NewReader(table))
	features, err := ReadAll(p)
	require.NoError(t, err)

	require.Len(t, features, 2)
	assert.Equal(t, 1, features[0].Start())
	assert.Equal(t, 500, features[1].Start())
	assert.Equal(t, 1, p.Dropped())
}

func TestReader_ManyConsecutiveMalformedFeatures(t *testing.T) {
	// A long run of malformed features is skipped iteratively, not by
	// recursing once per dropped feature.
	var b strings.Builder
	for i := 0; i < 5000; i++ {
		b.WriteString("FT   CDS             join(100..200\n")
	}
	b.WriteString("FT   gene            500..600\n")

	p := NewReader(strings.NewReader(b.String()))
	features, err := ReadAll(p)
	require.NoError(t, err)

	require.Len(t, features, 1)
	assert.Equal(t, 500, features[0].Start())
	assert.Equal(t, 5000, p.Dropped())
}

func TestReader_GenBankStyleTable(t *testing.T) {
	table := strings.Join([]string{
		"FEATURES             Location/Qualifiers",
		"     source          1..48",
		`                     /organism="synthetic construct"`,
		"     CDS             join(4..15,20..26)",
		`                     /gene="tiny"`,
		"ORIGIN",
		"        1 acgtacgtac",
	}, "\n")

	p := NewReader(strings.NewReader(table))
	features, err := ReadAll(p)
	require.NoError(t, err)

	require.Len(t, features, 2)
	assert.Equal(t, "source", features[0].Key())
	assert.Equal(t, "CDS", features[1].Key())
	require.Len(t, features[1].Ranges(), 2)
	assert.Equal(t, []string{"tiny"}, features[1].QualifierValues("gene"))
}

func TestReader_WrappedLocationConcatenates(t *testing.T) {
	table := strings.Join([]string{
		"FT   CDS             join(1..38,100..200,",
		"FT                   300..400)",
		`FT                   /gene="w"`,
		"",
	}, "\n")

	p := NewReader(strings.NewReader(table))
	features, err := ReadAll(p)
	require.NoError(t, err)

	require.Len(t, features, 1)
	assert.Len(t, features[0].Ranges(), 3)
}

func TestReader_UnterminatedQuoteIsError(t *testing.T) {
	table := strings.Join([]string{
		"FT   gene            1..38",
		`FT                   /note="never closed`,
		"",
	}, "\n")

	p := NewReader(strings.NewReader(table))
	_, err := p.Next()
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "unterminated")
}

func TestReader_EmptyInput(t *testing.T) {
	p := NewReader(strings.NewReader(""))
	f, err := p.Next()
	require.NoError(t, err)
	assert.Nil(t, f)
}
