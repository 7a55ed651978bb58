package evo

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

const (
	DefaultGenomeLength    = 40
	DefaultTournamentSize  = 3
	DefaultCrossoverRate   = 0.8
	DefaultEliteFraction   = 0.1
	DefaultDiversitySample = 50
)

// Config holds the engine parameters. Zero values for the optional fields are
// replaced with defaults by WithDefaults.
type Config struct {
	PopulationSize  int     `toml:"population_size" yaml:"population_size" json:"population_size"`
	Generations     int     `toml:"generations" yaml:"generations" json:"generations"`
	MutationRate    float64 `toml:"mutation_rate" yaml:"mutation_rate" json:"mutation_rate"`
	GenomeLength    int     `toml:"genome_length" yaml:"genome_length" json:"genome_length"`
	TournamentSize  int     `toml:"tournament_size" yaml:"tournament_size" json:"tournament_size"`
	CrossoverRate   float64 `toml:"crossover_rate" yaml:"crossover_rate" json:"crossover_rate"`
	EliteFraction   float64 `toml:"elite_fraction" yaml:"elite_fraction" json:"elite_fraction"`
	DiversitySample int     `toml:"diversity_sample" yaml:"diversity_sample" json:"diversity_sample"`
	Workers         int     `toml:"workers" yaml:"workers" json:"workers"`
	Seed            int64   `toml:"seed" yaml:"seed" json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		PopulationSize: 80,
		Generations:    50,
		MutationRate:   0.02,
		Seed:           42,
	}.WithDefaults()
}

// WithDefaults fills optional fields left at zero. A zero crossover rate is
// requested with NoCrossover.
func (c Config) WithDefaults() Config {
	if c.GenomeLength == 0 {
		c.GenomeLength = DefaultGenomeLength
	}
	if c.TournamentSize == 0 {
		c.TournamentSize = DefaultTournamentSize
	}
	if c.CrossoverRate == 0 {
		c.CrossoverRate = DefaultCrossoverRate
	}
	if c.EliteFraction == 0 {
		c.EliteFraction = DefaultEliteFraction
	}
	if c.DiversitySample == 0 {
		c.DiversitySample = DefaultDiversitySample
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}

// NoCrossover disables recombination when set as CrossoverRate.
const NoCrossover = -1.0

func (c Config) crossoverProbability() float64 {
	if c.CrossoverRate == NoCrossover {
		return 0
	}
	return c.CrossoverRate
}

func (c Config) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population size must be > 0, got %d", ErrInvalidConfiguration, c.PopulationSize)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("%w: generations must be > 0, got %d", ErrInvalidConfiguration, c.Generations)
	}
	if math.IsNaN(c.MutationRate) || c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate must be in [0, 1], got %v", ErrInvalidConfiguration, c.MutationRate)
	}
	if c.GenomeLength <= 0 {
		return fmt.Errorf("%w: genome length must be > 0, got %d", ErrInvalidConfiguration, c.GenomeLength)
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("%w: tournament size must be >= 1, got %d", ErrInvalidConfiguration, c.TournamentSize)
	}
	if c.CrossoverRate != NoCrossover && (math.IsNaN(c.CrossoverRate) || c.CrossoverRate < 0 || c.CrossoverRate > 1) {
		return fmt.Errorf("%w: crossover rate must be in [0, 1], got %v", ErrInvalidConfiguration, c.CrossoverRate)
	}
	if math.IsNaN(c.EliteFraction) || c.EliteFraction <= 0 || c.EliteFraction > 1 {
		return fmt.Errorf("%w: elite fraction must be in (0, 1], got %v", ErrInvalidConfiguration, c.EliteFraction)
	}
	if c.DiversitySample < 2 {
		return fmt.Errorf("%w: diversity sample must be >= 2, got %d", ErrInvalidConfiguration, c.DiversitySample)
	}
	return nil
}

// EliteCount is ceil(EliteFraction * PopulationSize), never above the
// population size.
func (c Config) EliteCount() int {
	// 0.1*70 is 7.000000000000001 in float64.
	n := int(math.Ceil(c.EliteFraction*float64(c.PopulationSize) - 1e-9))
	if n < 1 {
		n = 1
	}
	if n > c.PopulationSize {
		n = c.PopulationSize
	}
	return n
}
