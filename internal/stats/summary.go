package stats

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gonum.org/v1/gonum/stat"

	"genomevo/internal/evo"
	"genomevo/internal/model"
	"genomevo/internal/storage"
)

// Healthy diversity band used when counting generations that kept the
// population exploring without collapsing.
const (
	DiversityBandLow  = 0.3
	DiversityBandHigh = 0.5
)

type RunSummary struct {
	RunID                 string        `json:"run_id"`
	Generations           int           `json:"generations"`
	InitialBest           float64       `json:"initial_best"`
	FinalBest             float64       `json:"final_best"`
	Improvement           float64       `json:"improvement"`
	ImprovementPercent    float64       `json:"improvement_percent"`
	BestMean              float64       `json:"best_mean"`
	BestStd               float64       `json:"best_std"`
	MeanOfMeans           float64       `json:"mean_of_means"`
	FinalDiversity        float64       `json:"final_diversity"`
	DiversityInBand       int           `json:"diversity_in_band"`
	ConvergenceGeneration int           `json:"convergence_generation"`
	BestGenome            string        `json:"best_genome"`
	TotalElapsed          time.Duration `json:"total_elapsed"`
	MeanAllocatedBytes    float64       `json:"mean_allocated_bytes"`
	MeanHeapInuseBytes    float64       `json:"mean_heap_inuse_bytes"`
}

// Summarize reduces a finished run to its headline numbers. The convergence
// generation is the first generation whose best matched the final best.
// Timing and memory figures come from result.Generations when present.
func Summarize(runID string, result evo.RunResult) (RunSummary, error) {
	history := result.BestHistory
	if len(history) == 0 {
		return RunSummary{}, fmt.Errorf("run %s has no generations", runID)
	}
	if len(result.MeanHistory) != len(history) || len(result.DiversityHistory) != len(history) {
		return RunSummary{}, fmt.Errorf("run %s: history lengths differ", runID)
	}

	initial, final := history[0], history[len(history)-1]
	summary := RunSummary{
		RunID:          runID,
		Generations:    len(history),
		InitialBest:    initial,
		FinalBest:      final,
		Improvement:    final - initial,
		BestMean:       stat.Mean(history, nil),
		MeanOfMeans:    stat.Mean(result.MeanHistory, nil),
		FinalDiversity: result.DiversityHistory[len(history)-1],
		BestGenome:     result.Best.String(),
	}
	if initial > 0 {
		summary.ImprovementPercent = (final/initial - 1) * 100
	}
	if len(history) > 1 {
		summary.BestStd = stat.StdDev(history, nil)
	}
	for _, d := range result.DiversityHistory {
		if d >= DiversityBandLow && d <= DiversityBandHigh {
			summary.DiversityInBand++
		}
	}
	for gen, best := range history {
		if best >= final {
			summary.ConvergenceGeneration = gen
			break
		}
	}
	if n := len(result.Generations); n > 0 {
		allocated := make([]float64, n)
		inuse := make([]float64, n)
		for i, gen := range result.Generations {
			summary.TotalElapsed += gen.Elapsed
			allocated[i] = float64(gen.AllocatedBytes)
			inuse[i] = float64(gen.HeapInuseBytes)
		}
		summary.MeanAllocatedBytes = stat.Mean(allocated, nil)
		summary.MeanHeapInuseBytes = stat.Mean(inuse, nil)
	}
	return summary, nil
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// ToRecord builds the persisted form of a run.
func ToRecord(runID string, cfg evo.Config, result evo.RunResult, createdAt time.Time) (model.RunRecord, error) {
	if runID == "" {
		return model.RunRecord{}, fmt.Errorf("run id is required")
	}
	record := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:           runID,
		CreatedAtUTC: createdAt.UTC().Format(time.RFC3339Nano),
		BestFitness:  result.BestFitness,
		BestGenome:   result.Best.String(),
		GenomeLength: result.Best.Len(),
		Generations:  make([]model.GenerationStats, 0, len(result.Generations)),
	}
	if err := copier.Copy(&record.Config, &cfg); err != nil {
		return model.RunRecord{}, fmt.Errorf("copy run config: %w", err)
	}
	for _, gen := range result.Generations {
		var persisted model.GenerationStats
		if err := copier.Copy(&persisted, &gen); err != nil {
			return model.RunRecord{}, fmt.Errorf("copy generation %d: %w", gen.Generation, err)
		}
		persisted.ElapsedMicros = gen.Elapsed.Microseconds()
		record.Generations = append(record.Generations, persisted)
	}
	return record, nil
}
