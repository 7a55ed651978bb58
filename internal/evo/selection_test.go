package evo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genomevo/internal/genome"
)

func mustPopulation(t *testing.T, members ...string) genome.Population {
	t.Helper()
	genomes := make([]genome.Genome, len(members))
	for i, m := range members {
		genomes[i] = genome.MustParse(m)
	}
	pop, err := genome.NewPopulation(genomes)
	require.NoError(t, err)
	return pop
}

func TestTournamentSelectorFullTournamentPicksBest(t *testing.T) {
	pop := mustPopulation(t, "000", "011", "111", "001")
	scores := []float64{0.1, 0.5, 0.9, 0.2}
	selector := TournamentSelector{Size: 4}
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 20; i++ {
		parent, err := selector.PickParent(rng, pop, scores)
		require.NoError(t, err)
		assert.Equal(t, "111", parent.String())
	}
}

func TestTournamentSelectorTiesGoToFirstDrawn(t *testing.T) {
	pop := mustPopulation(t, "01", "10")
	scores := []float64{1, 1}
	selector := TournamentSelector{Size: 2}

	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		replay := rand.New(rand.NewSource(seed))
		parent, err := selector.PickParent(rng, pop, scores)
		require.NoError(t, err)

		first := replay.Intn(2)
		assert.Equal(t, pop.At(first).String(), parent.String())
	}
}

func TestTournamentSelectorReturnsCopy(t *testing.T) {
	pop := mustPopulation(t, "0000")
	parent, err := TournamentSelector{Size: 3}.PickParent(rand.New(rand.NewSource(1)), pop, []float64{1})
	require.NoError(t, err)
	parent.Flip(0)
	assert.Equal(t, "0000", pop.At(0).String())
}

func TestTournamentSelectorDrawsDistinctMembers(t *testing.T) {
	// With size 2 of 2 both members always compete, so the fitter one wins.
	pop := mustPopulation(t, "0", "1")
	scores := []float64{0, 5}
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 50; i++ {
		parent, err := TournamentSelector{Size: 2}.PickParent(rng, pop, scores)
		require.NoError(t, err)
		assert.Equal(t, "1", parent.String())
	}
}

func TestTournamentSelectorErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := TournamentSelector{}.PickParent(rng, genome.Population{}, nil)
	require.Error(t, err)

	pop := mustPopulation(t, "0", "1")
	_, err = TournamentSelector{}.PickParent(rng, pop, []float64{1})
	require.ErrorIs(t, err, genome.ErrLengthMismatch)

	_, err = TournamentSelector{}.PickParent(nil, pop, []float64{1, 2})
	require.Error(t, err)
}
