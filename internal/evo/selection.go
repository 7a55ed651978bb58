package evo

import (
	"fmt"
	"math/rand"

	"genomevo/internal/genome"
)

// Selector chooses a parent from a scored population.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, population genome.Population, fitness []float64) (genome.Genome, error)
}

// TournamentSelector samples Size distinct members and returns a copy of the
// fittest. Ties go to the first drawn.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, population genome.Population, fitness []float64) (genome.Genome, error) {
	if rng == nil {
		return genome.Genome{}, fmt.Errorf("random source is required")
	}
	n := population.Len()
	if n == 0 {
		return genome.Genome{}, fmt.Errorf("cannot select from an empty population")
	}
	if len(fitness) != n {
		return genome.Genome{}, fmt.Errorf("%w: %d fitness values for %d members", genome.ErrLengthMismatch, len(fitness), n)
	}

	size := s.Size
	if size <= 0 {
		size = DefaultTournamentSize
	}
	if size > n {
		size = n
	}

	// Partial Fisher-Yates: the first size entries are a uniform draw without
	// replacement.
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < size; i++ {
		j := i + rng.Intn(n-i)
		indices[i], indices[j] = indices[j], indices[i]
	}

	winner := indices[0]
	for _, idx := range indices[1:size] {
		if fitness[idx] > fitness[winner] {
			winner = idx
		}
	}
	return population.At(winner).Clone(), nil
}
