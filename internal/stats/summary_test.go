package stats

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genomevo/internal/evo"
	"genomevo/internal/genome"
	"genomevo/internal/storage"
)

func fixtureResult() evo.RunResult {
	return evo.RunResult{
		Best:             genome.MustParse("1100"),
		BestFitness:      8,
		BestHistory:      []float64{4, 6, 8, 8},
		MeanHistory:      []float64{1, 2, 3, 4},
		DiversityHistory: []float64{0.6, 0.45, 0.35, 0.2},
		Generations: []evo.GenerationStats{
			{Generation: 0, BestFitness: 4, MeanFitness: 1, Elapsed: 1500 * time.Microsecond, AllocatedBytes: 400, HeapInuseBytes: 1 << 30},
			{Generation: 1, BestFitness: 6, MeanFitness: 2, Elapsed: 500 * time.Microsecond, AllocatedBytes: 200, HeapInuseBytes: 1 << 30},
			{Generation: 2, BestFitness: 8, MeanFitness: 3, AllocatedBytes: 100, HeapInuseBytes: 1 << 31},
			{Generation: 3, BestFitness: 8, MeanFitness: 4, BestEverFitness: 8, AllocatedBytes: 100, HeapInuseBytes: 1 << 31},
		},
	}
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize("run-1", fixtureResult())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Generations)
	assert.Equal(t, 4.0, summary.InitialBest)
	assert.Equal(t, 8.0, summary.FinalBest)
	assert.Equal(t, 4.0, summary.Improvement)
	assert.InDelta(t, 100.0, summary.ImprovementPercent, 1e-9)
	assert.InDelta(t, 6.5, summary.BestMean, 1e-12)
	assert.InDelta(t, 1.9148542155126762, summary.BestStd, 1e-9)
	assert.InDelta(t, 2.5, summary.MeanOfMeans, 1e-12)
	assert.Equal(t, 0.2, summary.FinalDiversity)
	assert.Equal(t, 2, summary.DiversityInBand)
	assert.Equal(t, 2, summary.ConvergenceGeneration)
	assert.Equal(t, "1100", summary.BestGenome)
	assert.Equal(t, 2*time.Millisecond, summary.TotalElapsed)
	assert.InDelta(t, 200.0, summary.MeanAllocatedBytes, 1e-12)
	assert.InDelta(t, 1.5*(1<<30), summary.MeanHeapInuseBytes, 1e-3)
}

func TestSummarizeRejectsEmptyOrRaggedHistory(t *testing.T) {
	_, err := Summarize("empty", evo.RunResult{})
	require.Error(t, err)

	ragged := fixtureResult()
	ragged.MeanHistory = ragged.MeanHistory[:2]
	_, err = Summarize("ragged", ragged)
	require.Error(t, err)
}

func TestSummarizeZeroInitialBest(t *testing.T) {
	result := fixtureResult()
	result.BestHistory = []float64{0, 0, 1, 2}
	summary, err := Summarize("zero", result)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.ImprovementPercent)
	assert.Equal(t, 3, summary.ConvergenceGeneration)
}

func TestToRecord(t *testing.T) {
	cfg := evo.Config{PopulationSize: 20, Generations: 4, MutationRate: 0.05, Seed: 9}.WithDefaults()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	record, err := ToRecord("run-1", cfg, fixtureResult(), created)
	require.NoError(t, err)

	assert.Equal(t, storage.CurrentSchemaVersion, record.SchemaVersion)
	assert.Equal(t, storage.CurrentCodecVersion, record.CodecVersion)
	assert.Equal(t, "2025-06-01T11:00:00Z", record.CreatedAtUTC)
	assert.Equal(t, 20, record.Config.PopulationSize)
	assert.Equal(t, 0.05, record.Config.MutationRate)
	assert.Equal(t, evo.DefaultCrossoverRate, record.Config.CrossoverRate)
	assert.Equal(t, int64(9), record.Config.Seed)
	assert.Equal(t, "1100", record.BestGenome)
	assert.Equal(t, 4, record.GenomeLength)
	require.Len(t, record.Generations, 4)
	assert.Equal(t, int64(1500), record.Generations[0].ElapsedMicros)
	assert.Equal(t, 8.0, record.Generations[3].BestEverFitness)
	assert.Equal(t, uint64(400), record.Generations[0].AllocatedBytes)
	assert.Equal(t, uint64(1<<31), record.Generations[3].HeapInuseBytes)

	_, err = ToRecord("", cfg, fixtureResult(), created)
	require.Error(t, err)
}

func TestToRecordFromEngineRun(t *testing.T) {
	ref, err := genome.NewReferenceData(map[string][]uint8{"coding": {1, 0, 1, 0}})
	require.NoError(t, err)
	cfg := evo.Config{PopulationSize: 10, Generations: 3, MutationRate: 0.05, GenomeLength: 16}
	engine, err := evo.NewEngine(cfg, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	result, err := engine.Run(context.Background(), ref, genome.PatternSet{})
	require.NoError(t, err)

	id := NewRunID()
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	record, err := ToRecord(id, engine.Config(), result, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 16, record.GenomeLength)
	assert.Len(t, record.Generations, 3)
	assert.Equal(t, result.BestFitness, record.BestFitness)
}
