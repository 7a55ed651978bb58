package evo

import (
	"fmt"
	"math/rand"

	"genomevo/internal/genome"
)

// RandomGenome draws every gene uniformly from {0, 1}.
func RandomGenome(rng *rand.Rand, length int) genome.Genome {
	g := genome.New(length)
	for i := 0; i < length; i++ {
		g.Set(i, uint8(rng.Intn(2)))
	}
	return g
}

// UniformCrossover builds two children gene by gene: a fair coin decides
// whether child a inherits from parent a or parent b, and child b takes the
// other parent's gene.
func UniformCrossover(rng *rand.Rand, a, b genome.Genome) (genome.Genome, genome.Genome, error) {
	if a.Len() != b.Len() {
		return genome.Genome{}, genome.Genome{}, fmt.Errorf("%w: parents have lengths %d and %d", genome.ErrLengthMismatch, a.Len(), b.Len())
	}
	childA := genome.New(a.Len())
	childB := genome.New(a.Len())
	for i := 0; i < a.Len(); i++ {
		if rng.Float64() < 0.5 {
			childA.Set(i, a.Gene(i))
			childB.Set(i, b.Gene(i))
		} else {
			childA.Set(i, b.Gene(i))
			childB.Set(i, a.Gene(i))
		}
	}
	return childA, childB, nil
}

// Mutate flips each gene of g with probability rate, in place, and returns g.
// Callers that need the original must Clone first.
func Mutate(rng *rand.Rand, g genome.Genome, rate float64) genome.Genome {
	if rate <= 0 {
		return g
	}
	for i := 0; i < g.Len(); i++ {
		if rate >= 1 || rng.Float64() < rate {
			g.Flip(i)
		}
	}
	return g
}
