package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupMethod(t *testing.T) {
	rf := LookupMethod("random forest")
	assert.Equal(t, MethodRandomForest, rf.Name)
	assert.Equal(t, 0.85, rf.Precision)
	assert.Equal(t, 3.5, rf.MemoryGB)

	unknown := LookupMethod("gradient boosting")
	assert.Equal(t, MethodLogisticRegression, unknown.Name)
	assert.Equal(t, 0.78, unknown.Precision)
}

func TestEvolutionaryProfileCapsPrecision(t *testing.T) {
	profile := EvolutionaryProfile(RunSummary{FinalBest: 120, TotalElapsed: 1500 * time.Millisecond, MeanHeapInuseBytes: 1 << 29})
	assert.Equal(t, 0.95, profile.Precision)
	assert.InDelta(t, 0.931, profile.Recall, 1e-12)
	assert.InDelta(t, 0.9405, profile.F1, 1e-12)
	assert.Equal(t, 1.5, profile.Seconds)
	assert.Equal(t, 0.5, profile.MemoryGB)
	assert.Equal(t, RatingVeryHigh, profile.Adaptability)

	low := EvolutionaryProfile(RunSummary{FinalBest: 44})
	assert.InDelta(t, 0.44, low.Precision, 1e-12)
}

func TestCompareWithTraditional(t *testing.T) {
	cmp := CompareWithTraditional(RunSummary{FinalBest: 93.5})
	require.Len(t, cmp.Methods, 5)
	assert.Equal(t, MethodNeuralNetwork, cmp.BestTraditional.Name)
	assert.Equal(t, MethodEvolutionary, cmp.Methods[4].Name)
	assert.InDelta(t, (0.935/0.88-1)*100, cmp.PrecisionImprovementPercent, 1e-9)

	behind := CompareWithTraditional(RunSummary{FinalBest: 44})
	assert.InDelta(t, -50.0, behind.PrecisionImprovementPercent, 1e-9)
}

func TestCompareFromSummarizedRun(t *testing.T) {
	summary, err := Summarize("run-1", fixtureResult())
	require.NoError(t, err)
	cmp := CompareWithTraditional(summary)
	evo := cmp.Methods[len(cmp.Methods)-1]
	assert.InDelta(t, 0.08, evo.Precision, 1e-12)
	assert.InDelta(t, 0.002, evo.Seconds, 1e-12)
	assert.InDelta(t, 1.5, evo.MemoryGB, 1e-12)
}
