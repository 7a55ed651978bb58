package dataset

import (
	"fmt"
	"math/rand"
	"time"

	"genomevo/internal/genome"
)

const DefaultSampleSize = 10000

// RegionProfile describes how one region of a synthetic sample is drawn:
// its share of the sample in per-mille and the per-base mutation probability.
type RegionProfile struct {
	Region              genome.Region
	SharePerMille       int
	MutationProbability float64
}

// DefaultProfiles mirror typical genome composition: coding exons are rare
// and conserved, introns are large and mutate more often.
var DefaultProfiles = []RegionProfile{
	{Region: genome.RegionCoding, SharePerMille: 15, MutationProbability: 0.0005},
	{Region: genome.RegionRegulatory, SharePerMille: 50, MutationProbability: 0.003},
	{Region: genome.RegionIntronic, SharePerMille: 250, MutationProbability: 0.01},
	{Region: genome.RegionStructural, SharePerMille: 20, MutationProbability: 0.005},
}

type Metadata struct {
	TotalBases      int     `json:"total_bases"`
	TotalMutations  int     `json:"total_mutations"`
	MutationDensity float64 `json:"mutation_density"`
	GeneratedAtUTC  string  `json:"generated_at_utc"`
}

type Sample struct {
	Reference genome.ReferenceData
	Metadata  Metadata
}

type Generator struct {
	SampleSize int
	Profiles   []RegionProfile
	Now        func() time.Time

	rng *rand.Rand
}

func NewGenerator(sampleSize int, rng *rand.Rand) *Generator {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Generator{
		SampleSize: sampleSize,
		Profiles:   DefaultProfiles,
		Now:        time.Now,
		rng:        rng,
	}
}

// GenerateReference draws one synthetic mutation map per region profile.
func (g *Generator) GenerateReference() (Sample, error) {
	if g.rng == nil {
		return Sample{}, fmt.Errorf("random source is required")
	}
	regions := make(map[genome.Region]genome.Genome, len(g.Profiles))
	mutations := 0
	for _, profile := range g.Profiles {
		if profile.MutationProbability < 0 || profile.MutationProbability > 1 {
			return Sample{}, fmt.Errorf("region %s: mutation probability %v outside [0, 1]", profile.Region, profile.MutationProbability)
		}
		if _, dup := regions[profile.Region]; dup {
			return Sample{}, fmt.Errorf("duplicate profile for region %s", profile.Region)
		}
		size := g.SampleSize * profile.SharePerMille / 1000
		seq := genome.New(size)
		for i := 0; i < size; i++ {
			if g.rng.Float64() < profile.MutationProbability {
				seq.Set(i, 1)
			}
		}
		mutations += seq.Ones()
		regions[profile.Region] = seq
	}

	return Sample{
		Reference: genome.ReferenceFromRegions(regions),
		Metadata: Metadata{
			TotalBases:      g.SampleSize,
			TotalMutations:  mutations,
			MutationDensity: float64(mutations) / float64(g.SampleSize),
			GeneratedAtUTC:  g.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
