package evo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"genomevo/internal/fitness"
	"genomevo/internal/genome"
)

const progressInterval = 10

type GenerationStats struct {
	Generation      int           `json:"generation"`
	BestFitness     float64       `json:"best_fitness"`
	MeanFitness     float64       `json:"mean_fitness"`
	MinFitness      float64       `json:"min_fitness"`
	Diversity       float64       `json:"diversity"`
	BestEverFitness float64       `json:"best_ever_fitness"`
	Elapsed         time.Duration `json:"elapsed"`
	// AllocatedBytes is the heap allocated while the generation ran;
	// HeapInuseBytes is sampled when it finished.
	AllocatedBytes uint64 `json:"allocated_bytes"`
	HeapInuseBytes uint64 `json:"heap_inuse_bytes"`
}

type RunResult struct {
	Best        genome.Genome
	BestFitness float64
	// BestHistory holds the best-ever fitness after each generation and is
	// non-decreasing. Per-generation bests live in Generations.
	BestHistory      []float64
	MeanHistory      []float64
	DiversityHistory []float64
	Generations      []GenerationStats
	FinalPopulation  genome.Population
}

type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers a callback invoked synchronously after every
// generation.
func WithObserver(observer func(GenerationStats)) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

func WithSelector(selector Selector) Option {
	return func(e *Engine) {
		if selector != nil {
			e.selector = selector
		}
	}
}

// Engine runs a generational evolutionary search over fixed-length genomes.
// All randomness comes from the rng handed to NewEngine, so two engines with
// equal configuration and equally seeded sources produce identical runs.
type Engine struct {
	cfg      Config
	rng      *rand.Rand
	selector Selector
	logger   *zap.Logger
	observer func(GenerationStats)
}

// NewEngine validates cfg after applying defaults. A nil rng is replaced by a
// source seeded with cfg.Seed.
func NewEngine(cfg Config, rng *rand.Rand, opts ...Option) (*Engine, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	e := &Engine{
		cfg:      cfg,
		rng:      rng,
		selector: TournamentSelector{Size: cfg.TournamentSize},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) InitializePopulation(genomeLength int) (genome.Population, error) {
	if genomeLength <= 0 {
		return genome.Population{}, fmt.Errorf("%w: genome length must be > 0, got %d", ErrInvalidConfiguration, genomeLength)
	}
	members := make([]genome.Genome, e.cfg.PopulationSize)
	for i := range members {
		members[i] = RandomGenome(e.rng, genomeLength)
	}
	return genome.NewPopulation(members)
}

func (e *Engine) TournamentSelect(population genome.Population, fitness []float64) (genome.Genome, error) {
	return e.selector.PickParent(e.rng, population, fitness)
}

func (e *Engine) UniformCrossover(a, b genome.Genome) (genome.Genome, genome.Genome, error) {
	return UniformCrossover(e.rng, a, b)
}

// Mutate flips genes of g in place at the configured mutation rate.
func (e *Engine) Mutate(g genome.Genome) genome.Genome {
	return Mutate(e.rng, g, e.cfg.MutationRate)
}

// Run evolves a fresh population against the genomic scorer built from ref
// and patterns.
func (e *Engine) Run(ctx context.Context, ref genome.ReferenceData, patterns genome.PatternSet) (RunResult, error) {
	if longest := patterns.MaxLen(); longest > e.cfg.GenomeLength {
		return RunResult{}, fmt.Errorf("%w: pattern length %d exceeds genome length %d", ErrInvalidConfiguration, longest, e.cfg.GenomeLength)
	}
	return e.RunScorer(ctx, fitness.NewGenomicScorer(ref, patterns))
}

// RunScorer evolves a fresh population for exactly cfg.Generations
// generations. Cancellation is checked between generations.
func (e *Engine) RunScorer(ctx context.Context, scorer fitness.Scorer) (RunResult, error) {
	if scorer == nil {
		return RunResult{}, fmt.Errorf("scorer is required")
	}
	population, err := e.InitializePopulation(e.cfg.GenomeLength)
	if err != nil {
		return RunResult{}, err
	}
	e.logger.Info("evolution started",
		zap.Int("population_size", e.cfg.PopulationSize),
		zap.Int("generations", e.cfg.Generations),
		zap.Float64("mutation_rate", e.cfg.MutationRate),
		zap.Int("genome_length", e.cfg.GenomeLength),
	)

	result := RunResult{
		BestFitness:      math.Inf(-1),
		BestHistory:      make([]float64, 0, e.cfg.Generations),
		MeanHistory:      make([]float64, 0, e.cfg.Generations),
		DiversityHistory: make([]float64, 0, e.cfg.Generations),
		Generations:      make([]GenerationStats, 0, e.cfg.Generations),
	}

	for gen := 0; gen < e.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		started := time.Now()
		var before runtime.MemStats
		runtime.ReadMemStats(&before)

		scores, err := e.evaluatePopulation(ctx, population, scorer)
		if err != nil {
			return RunResult{}, err
		}
		ranked := rankDescending(scores)

		stats := summarizeGeneration(scores, ranked, gen)
		stats.Diversity = PopulationDiversity(population, e.cfg.DiversitySample)

		if stats.BestFitness > result.BestFitness {
			result.BestFitness = stats.BestFitness
			result.Best = population.At(ranked[0]).Clone()
		}
		stats.BestEverFitness = result.BestFitness

		next, err := e.nextGeneration(population, scores, ranked)
		if err != nil {
			return RunResult{}, err
		}
		population = next
		stats.Elapsed = time.Since(started)
		var after runtime.MemStats
		runtime.ReadMemStats(&after)
		stats.AllocatedBytes = after.TotalAlloc - before.TotalAlloc
		stats.HeapInuseBytes = after.HeapInuse

		result.BestHistory = append(result.BestHistory, stats.BestEverFitness)
		result.MeanHistory = append(result.MeanHistory, stats.MeanFitness)
		result.DiversityHistory = append(result.DiversityHistory, stats.Diversity)
		result.Generations = append(result.Generations, stats)
		e.report(stats)
	}

	result.FinalPopulation = population
	e.logger.Info("evolution completed",
		zap.Float64("best_fitness", result.BestFitness),
		zap.String("best_genome", result.Best.String()),
	)
	return result, nil
}

func (e *Engine) report(stats GenerationStats) {
	if stats.Generation%progressInterval == 0 || stats.Generation == e.cfg.Generations-1 {
		e.logger.Info("generation",
			zap.Int("generation", stats.Generation),
			zap.Float64("best_fitness", stats.BestFitness),
			zap.Float64("mean_fitness", stats.MeanFitness),
			zap.Float64("diversity", stats.Diversity),
			zap.Duration("elapsed", stats.Elapsed),
		)
	}
	if e.observer != nil {
		e.observer(stats)
	}
}

func summarizeGeneration(scores []float64, ranked []int, generation int) GenerationStats {
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return GenerationStats{
		Generation:  generation,
		BestFitness: scores[ranked[0]],
		MeanFitness: total / float64(len(scores)),
		MinFitness:  scores[ranked[len(ranked)-1]],
	}
}

// rankDescending returns member indices ordered by fitness, best first; equal
// scores keep population order.
func rankDescending(scores []float64) []int {
	ranked := make([]int, len(scores))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	return ranked
}

// evaluatePopulation scores every member. Scoring is pure, so fanning out to
// workers does not touch the random stream and the result is order-stable.
func (e *Engine) evaluatePopulation(ctx context.Context, population genome.Population, scorer fitness.Scorer) ([]float64, error) {
	scores := make([]float64, population.Len())

	workerCount := e.cfg.Workers
	if workerCount > population.Len() {
		workerCount = population.Len()
	}
	if workerCount <= 1 {
		for i := range scores {
			scores[i] = scorer.Score(population.At(i))
		}
		return scores, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				scores[idx] = scorer.Score(population.At(idx))
			}
		}()
	}

	var err error
	for i := range scores {
		if err = ctx.Err(); err != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return scores, nil
}

func (e *Engine) nextGeneration(population genome.Population, scores []float64, ranked []int) (genome.Population, error) {
	size := e.cfg.PopulationSize
	next := make([]genome.Genome, 0, size+1)

	for _, idx := range ranked[:e.cfg.EliteCount()] {
		next = append(next, population.At(idx).Clone())
	}

	crossoverRate := e.cfg.crossoverProbability()
	for len(next) < size {
		parentA, err := e.TournamentSelect(population, scores)
		if err != nil {
			return genome.Population{}, err
		}
		parentB, err := e.TournamentSelect(population, scores)
		if err != nil {
			return genome.Population{}, err
		}

		childA, childB := parentA, parentB
		if e.rng.Float64() < crossoverRate {
			childA, childB, err = e.UniformCrossover(parentA, parentB)
			if err != nil {
				return genome.Population{}, err
			}
		}
		next = append(next, e.Mutate(childA), e.Mutate(childB))
	}

	return genome.NewPopulation(next[:size])
}
