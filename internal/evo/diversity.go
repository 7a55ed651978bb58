package evo

import "genomevo/internal/genome"

// PopulationDiversity is the mean normalized Hamming distance over every pair
// among the first sample members. It is 0 when fewer than two members are
// sampled.
func PopulationDiversity(population genome.Population, sample int) float64 {
	n := population.Len()
	if sample < n {
		n = sample
	}
	length := population.GenomeLength()
	if n < 2 || length == 0 {
		return 0
	}

	total := 0.0
	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// NewPopulation guarantees equal lengths.
			d, _ := genome.Hamming(population.At(i), population.At(j))
			total += float64(d) / float64(length)
			pairs++
		}
	}
	return total / float64(pairs)
}
