package genome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	g, err := Parse("0110")
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 2, g.Ones())
	assert.Equal(t, "0110", g.String())

	_, err = Parse("01x0")
	require.ErrorIs(t, err, ErrInvalidGene)

	_, err = FromBits(0, 1, 2)
	require.ErrorIs(t, err, ErrInvalidGene)
}

func TestCloneOwnsBuffer(t *testing.T) {
	g := MustParse("0000")
	c := g.Clone()
	c.Flip(0)
	assert.Equal(t, "0000", g.String())
	assert.Equal(t, "1000", c.String())

	s := g.Slice(1, 3)
	s.Set(0, 1)
	assert.Equal(t, "0000", g.String())
}

func TestHamming(t *testing.T) {
	d, err := Hamming(MustParse("1100"), MustParse("1010"))
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	_, err = Hamming(MustParse("1"), MustParse("10"))
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestMatchFraction(t *testing.T) {
	g := MustParse("00110")
	assert.InDelta(t, 1.0, g.MatchFraction(MustParse("11"), 2), 1e-12)
	assert.InDelta(t, 0.5, g.MatchFraction(MustParse("11"), 1), 1e-12)
}

func TestNewPopulationRejectsMixedLengths(t *testing.T) {
	_, err := NewPopulation([]Genome{MustParse("01"), MustParse("011")})
	require.ErrorIs(t, err, ErrLengthMismatch)

	pop, err := NewPopulation([]Genome{MustParse("01"), MustParse("10")})
	require.NoError(t, err)
	assert.Equal(t, 2, pop.Len())
	assert.Equal(t, 2, pop.GenomeLength())
	assert.True(t, pop.Contains(MustParse("10")))

	cloned := pop.Clone()
	cloned.At(0).Flip(0)
	assert.Equal(t, "01", pop.At(0).String())
}

func TestDecodeSplitsQuarters(t *testing.T) {
	regions := Decode(MustParse("11000011"))
	assert.Equal(t, "11", regions[RegionCoding].String())
	assert.Equal(t, "00", regions[RegionRegulatory].String())
	assert.Equal(t, "00", regions[RegionIntronic].String())
	assert.Equal(t, "11", regions[RegionStructural].String())

	uneven := Decode(MustParse("1010101"))
	assert.Equal(t, 1, uneven[RegionCoding].Len())
	assert.Equal(t, 4, uneven[RegionStructural].Len())
}

func TestParseRegionSuggestsClosestName(t *testing.T) {
	r, err := ParseRegion(" Coding ")
	require.NoError(t, err)
	assert.Equal(t, RegionCoding, r)

	_, err = ParseRegion("intrones")
	require.ErrorIs(t, err, ErrUnknownRegion)
	assert.Contains(t, err.Error(), `"introns"`)
}

func TestNewReferenceData(t *testing.T) {
	ref, err := NewReferenceData(map[string][]uint8{
		"coding":     {0, 0, 1},
		"regulatory": {1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ref.Len())
	assert.Equal(t, 2, ref.TotalOnes())
	seq, ok := ref.Lookup(RegionCoding)
	require.True(t, ok)
	assert.Equal(t, "001", seq.String())
	_, ok = ref.Lookup(RegionStructural)
	assert.False(t, ok)

	_, err = NewReferenceData(map[string][]uint8{"codign": {1}})
	require.ErrorIs(t, err, ErrUnknownRegion)
}

func TestNewPatternSet(t *testing.T) {
	set, err := NewPatternSet(
		KnownPattern{Name: "b", Sequence: MustParse("101")},
		KnownPattern{Name: "a", Sequence: MustParse("11111")},
	)
	require.NoError(t, err)
	assert.Equal(t, "a", set.At(0).Name)
	assert.Equal(t, 5, set.MaxLen())
	_, ok := set.Get("b")
	assert.True(t, ok)

	_, err = NewPatternSet(KnownPattern{Name: "a", Sequence: MustParse("1")}, KnownPattern{Name: "a", Sequence: MustParse("0")})
	require.Error(t, err)
	_, err = NewPatternSet(KnownPattern{Name: "empty"})
	require.Error(t, err)
}
