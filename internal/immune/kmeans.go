package immune

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	kmeansMaxIterations = 300
	kmeansTolerance     = 1e-4
)

type clustering struct {
	centers [][]float64
	labels  []int
	inertia float64
}

// kmeans runs restarts rounds of Lloyd's algorithm seeded with k-means++ and
// keeps the lowest-inertia clustering.
func kmeans(rng *rand.Rand, points [][]float64, k, restarts int) (clustering, error) {
	if k < 1 || k > len(points) {
		return clustering{}, fmt.Errorf("cannot form %d clusters from %d points", k, len(points))
	}
	if restarts < 1 {
		restarts = 1
	}

	best := clustering{inertia: math.Inf(1)}
	for r := 0; r < restarts; r++ {
		c := lloyd(points, seedCenters(rng, points, k))
		if c.inertia < best.inertia {
			best = c
		}
	}
	return best, nil
}

// seedCenters picks k initial centers, each drawn with probability
// proportional to its squared distance from the nearest chosen center.
func seedCenters(rng *rand.Rand, points [][]float64, k int) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clonePoint(points[rng.Intn(len(points))]))

	nearest := make([]float64, len(points))
	for i, p := range points {
		d := floats.Distance(p, centers[0], 2)
		nearest[i] = d * d
	}
	for len(centers) < k {
		total := floats.Sum(nearest)
		idx := rng.Intn(len(points))
		if total > 0 {
			target := rng.Float64() * total
			for i, w := range nearest {
				target -= w
				if target < 0 {
					idx = i
					break
				}
			}
		}
		center := clonePoint(points[idx])
		centers = append(centers, center)
		for i, p := range points {
			d := floats.Distance(p, center, 2)
			if d*d < nearest[i] {
				nearest[i] = d * d
			}
		}
	}
	return centers
}

func lloyd(points [][]float64, centers [][]float64) clustering {
	k := len(centers)
	dim := len(points[0])
	labels := make([]int, len(points))
	dists := make([]float64, k)

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		for i, p := range points {
			for j, c := range centers {
				dists[j] = floats.Distance(p, c, 2)
			}
			labels[i] = floats.MinIdx(dists)
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for j := range sums {
			sums[j] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}

		shift := 0.0
		for j := range centers {
			// An empty cluster keeps its previous center.
			if counts[j] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[j]), sums[j])
			shift = math.Max(shift, floats.Distance(centers[j], sums[j], 2))
			centers[j] = sums[j]
		}
		if shift <= kmeansTolerance {
			break
		}
	}

	inertia := 0.0
	for i, p := range points {
		for j, c := range centers {
			dists[j] = floats.Distance(p, c, 2)
		}
		labels[i] = floats.MinIdx(dists)
		inertia += dists[labels[i]] * dists[labels[i]]
	}
	return clustering{centers: centers, labels: labels, inertia: inertia}
}

// silhouette is the mean silhouette coefficient of a labelled point set.
// Members of singleton clusters score 0.
func silhouette(points [][]float64, labels []int, k int) (float64, error) {
	if k < 2 || k > len(points)-1 {
		return 0, fmt.Errorf("silhouette needs 2 <= clusters <= %d, got %d", len(points)-1, k)
	}
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	total := 0.0
	sums := make([]float64, k)
	for i, p := range points {
		for j := range sums {
			sums[j] = 0
		}
		for j, q := range points {
			if i != j {
				sums[labels[j]] += floats.Distance(p, q, 2)
			}
		}
		own := labels[i]
		if sizes[own] <= 1 {
			continue
		}
		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c != own && sizes[c] > 0 {
				b = math.Min(b, sums[c]/float64(sizes[c]))
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(len(points)), nil
}

func clonePoint(p []float64) []float64 {
	return append([]float64(nil), p...)
}
