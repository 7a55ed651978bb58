package fitness

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genomevo/internal/genome"
)

func mustReference(t *testing.T, raw map[string][]uint8) genome.ReferenceData {
	t.Helper()
	ref, err := genome.NewReferenceData(raw)
	require.NoError(t, err)
	return ref
}

func mustPatterns(t *testing.T, seqs map[string]string) genome.PatternSet {
	t.Helper()
	patterns := make([]genome.KnownPattern, 0, len(seqs))
	for name, seq := range seqs {
		patterns = append(patterns, genome.KnownPattern{Name: name, Sequence: genome.MustParse(seq)})
	}
	set, err := genome.NewPatternSet(patterns...)
	require.NoError(t, err)
	return set
}

func TestEvaluateClampsNegativeScoreToZero(t *testing.T) {
	score := Evaluate(genome.MustParse("00000000"), genome.ReferenceData{}, genome.PatternSet{})
	assert.Equal(t, 0.0, score)
}

func TestEvaluatePenaltyAndEntropy(t *testing.T) {
	score := Evaluate(genome.MustParse("10100000"), genome.ReferenceData{}, genome.PatternSet{})
	want := 3*BinaryEntropy(0.25) - 2*math.Abs(0.25-0.3)
	assert.InDelta(t, want, score, 1e-9)
}

func TestEvaluatePatternBonus(t *testing.T) {
	patterns := mustPatterns(t, map[string]string{"all_ones": "11111111"})
	score := Evaluate(genome.MustParse("11111111"), genome.ReferenceData{}, patterns)
	assert.InDelta(t, 20.0-2*0.7, score, 1e-9)
}

func TestBestPatternMatchSlidesWindow(t *testing.T) {
	patterns := mustPatterns(t, map[string]string{"motif": "101", "other": "000"})
	assert.InDelta(t, 1.0, BestPatternMatch(genome.MustParse("11110111"), patterns), 1e-12)
	assert.InDelta(t, 2.0/3.0, BestPatternMatch(genome.MustParse("11111111"), patterns), 1e-12)

	long := mustPatterns(t, map[string]string{"long": "1111111111"})
	assert.Equal(t, 0.0, BestPatternMatch(genome.MustParse("1111"), long))
}

func TestRegionCorrelationTerm(t *testing.T) {
	g := genome.MustParse("10000000")
	scorer := NewGenomicScorer(mustReference(t, map[string][]uint8{"coding": {0, 1, 1}}), genome.PatternSet{})
	b := scorer.Breakdown(g)
	assert.InDelta(t, 15.0, b.Correlation[genome.RegionCoding], 1e-9)

	base := NewGenomicScorer(genome.ReferenceData{}, genome.PatternSet{}).Score(g)
	assert.InDelta(t, base+15.0, b.Total, 1e-9)
}

func TestRegionCorrelationSkipsShortAndConstantReferences(t *testing.T) {
	g := genome.MustParse("10000000")
	base := Evaluate(g, genome.ReferenceData{}, genome.PatternSet{})

	short := mustReference(t, map[string][]uint8{"coding": {1}})
	assert.InDelta(t, base, Evaluate(g, short, genome.PatternSet{}), 1e-12)

	constant := mustReference(t, map[string][]uint8{"coding": {0, 0}, "regulatory": {1, 1}})
	score := Evaluate(g, constant, genome.PatternSet{})
	assert.False(t, math.IsNaN(score))
	assert.InDelta(t, base, score, 1e-12)
}

func TestEvaluateNeverNegativeOnRandomGenomes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ref := mustReference(t, map[string][]uint8{
		"coding":              {0, 0, 0, 0, 0},
		"regulatory":          {1, 0, 1, 0, 1},
		"introns":             {1, 1, 1},
		"structural_variants": {0, 1, 0, 1, 1, 0, 0},
	})
	patterns := mustPatterns(t, map[string]string{"p": "1011", "q": "0000000"})
	for i := 0; i < 200; i++ {
		length := 1 + rng.Intn(24)
		bits := make([]uint8, length)
		for j := range bits {
			bits[j] = uint8(rng.Intn(2))
		}
		g, err := genome.FromBits(bits...)
		require.NoError(t, err)
		score := Evaluate(g, ref, patterns)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.False(t, math.IsNaN(score))
	}
}

func TestPearsonCorrelation(t *testing.T) {
	r, ok := PearsonCorrelation([]float64{1, 0, 1, 0}, []float64{0, 1, 0, 1})
	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-12)

	_, ok = PearsonCorrelation([]float64{1, 1}, []float64{0, 1})
	assert.False(t, ok)
	_, ok = PearsonCorrelation([]float64{1}, []float64{0})
	assert.False(t, ok)
}

func TestBinaryEntropy(t *testing.T) {
	assert.Equal(t, 0.0, BinaryEntropy(0))
	assert.Equal(t, 0.0, BinaryEntropy(1))
	assert.InDelta(t, 1.0, BinaryEntropy(0.5), 1e-12)
}
