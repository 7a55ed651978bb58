package fitness

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"genomevo/internal/genome"
)

// Scorer assigns a non-negative fitness to a genome. Implementations must be
// pure so that evaluation can run on any number of workers.
type Scorer interface {
	Score(g genome.Genome) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(g genome.Genome) float64

func (f ScorerFunc) Score(g genome.Genome) float64 {
	return f(g)
}

type Weights struct {
	Region          [len(genome.Regions)]float64
	Pattern         float64
	Complexity      float64
	IdealActivation float64
	Entropy         float64
}

func DefaultWeights() Weights {
	return Weights{
		Region: [len(genome.Regions)]float64{
			genome.RegionCoding:     15.0,
			genome.RegionRegulatory: 10.0,
			genome.RegionIntronic:   5.0,
			genome.RegionStructural: 5.0,
		},
		Pattern:         20.0,
		Complexity:      2.0,
		IdealActivation: 0.3,
		Entropy:         3.0,
	}
}

// GenomicScorer scores genomes against reference regions and known patterns.
type GenomicScorer struct {
	Reference genome.ReferenceData
	Patterns  genome.PatternSet
	Weights   Weights
}

func NewGenomicScorer(ref genome.ReferenceData, patterns genome.PatternSet) GenomicScorer {
	return GenomicScorer{Reference: ref, Patterns: patterns, Weights: DefaultWeights()}
}

func (s GenomicScorer) Score(g genome.Genome) float64 {
	return s.Breakdown(g).Total
}

// Breakdown is the per-term decomposition of a fitness score.
type Breakdown struct {
	Correlation [len(genome.Regions)]float64
	Pattern     float64
	Penalty     float64
	Entropy     float64
	Total       float64
}

func (s GenomicScorer) Breakdown(g genome.Genome) Breakdown {
	var b Breakdown
	if g.Len() == 0 {
		return b
	}
	w := s.Weights

	regions := genome.Decode(g)
	for _, r := range genome.Regions {
		segment := regions[r]
		ref, ok := s.Reference.Lookup(r)
		if !ok || segment.Len() == 0 || ref.Len() < segment.Len() {
			continue
		}
		corr, defined := PearsonCorrelation(segment.Float64s(), ref.Slice(0, segment.Len()).Float64s())
		if !defined {
			continue
		}
		b.Correlation[r] = w.Region[r] * math.Abs(corr)
	}

	b.Pattern = w.Pattern * BestPatternMatch(g, s.Patterns)

	activation := float64(g.Ones()) / float64(g.Len())
	b.Penalty = w.Complexity * math.Abs(activation-w.IdealActivation)
	b.Entropy = w.Entropy * BinaryEntropy(activation)

	total := b.Pattern - b.Penalty + b.Entropy
	for _, c := range b.Correlation {
		total += c
	}
	b.Total = math.Max(0, total)
	return b
}

// Evaluate scores g with the default weights.
func Evaluate(g genome.Genome, ref genome.ReferenceData, patterns genome.PatternSet) float64 {
	return NewGenomicScorer(ref, patterns).Score(g)
}

// BestPatternMatch is the highest fraction of matching positions over every
// pattern and every contiguous alignment of it inside g.
func BestPatternMatch(g genome.Genome, patterns genome.PatternSet) float64 {
	best := 0.0
	for i := 0; i < patterns.Len(); i++ {
		seq := patterns.At(i).Sequence
		for offset := 0; offset+seq.Len() <= g.Len(); offset++ {
			if m := g.MatchFraction(seq, offset); m > best {
				best = m
			}
		}
	}
	return best
}

// PearsonCorrelation reports false when the coefficient is undefined: fewer
// than two samples, mismatched lengths or a constant input.
func PearsonCorrelation(x, y []float64) (float64, bool) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, false
	}
	if constant(x) || constant(y) {
		return 0, false
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// BinaryEntropy is -p log2 p - (1-p) log2 (1-p) with 0 log 0 = 0.
func BinaryEntropy(p float64) float64 {
	h := 0.0
	for _, q := range [2]float64{p, 1 - p} {
		if q > 0 {
			h -= q * math.Log2(q)
		}
	}
	return h
}
