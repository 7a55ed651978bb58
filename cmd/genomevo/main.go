package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"genomevo/internal/config"
	"genomevo/internal/logging"
	"genomevo/internal/storage"
	genomeapi "genomevo/pkg/genomevo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	out, err := execute(ctx, cfg, logger)
	if err != nil {
		return err
	}
	summary := out.run
	logger.Info("run summary",
		zap.String("run_id", summary.RunID),
		zap.Int("generations", summary.Generations),
		zap.Float64("initial_best", summary.InitialBest),
		zap.Float64("final_best", summary.FinalBest),
		zap.Float64("improvement_percent", summary.ImprovementPercent),
		zap.Float64("best_std", summary.BestStd),
		zap.Float64("final_diversity", summary.FinalDiversity),
		zap.Int("diversity_in_band", summary.DiversityInBand),
		zap.Int("convergence_generation", summary.ConvergenceGeneration),
		zap.String("best_genome", summary.BestGenome),
		zap.Duration("total_elapsed", summary.TotalElapsed),
		zap.Float64("mean_allocated_bytes", summary.MeanAllocatedBytes),
	)
	for _, m := range summary.Comparison.Methods {
		logger.Info("method comparison",
			zap.String("method", m.Name),
			zap.Float64("precision", m.Precision),
			zap.Float64("seconds", m.Seconds),
			zap.Float64("memory_gb", m.MemoryGB),
		)
	}
	logger.Info("precision versus best traditional method",
		zap.String("method", summary.Comparison.BestTraditional.Name),
		zap.Float64("improvement_percent", summary.Comparison.PrecisionImprovementPercent),
	)

	if out.anomalies != nil && out.anomalies.HasReport {
		rep := out.anomalies.Report
		logger.Info("anomaly report",
			zap.Int("total", rep.TotalAnomalies),
			zap.Int("critical", rep.CriticalAnomalies),
			zap.Float64("critical_rate_percent", rep.CriticalRatePercent),
			zap.String("trend", string(rep.Trend)),
			zap.Float64("estimated_savings_usd", rep.EstimatedSavingsUSD),
			zap.Float64("silhouette", rep.Silhouette),
		)
	}
	return nil
}

type outcome struct {
	run       genomeapi.RunSummary
	anomalies *genomeapi.AnomalyResult
}

func execute(ctx context.Context, cfg config.Config, logger *zap.Logger) (outcome, error) {
	client, err := genomeapi.New(ctx, genomeapi.Options{
		StoreKind: cfg.Store.Kind,
		DBPath:    cfg.Store.Path,
		Logger:    logger,
	})
	if err != nil {
		return outcome{}, err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("close store", zap.String("kind", storeKind(cfg)), zap.Error(err))
		}
	}()

	var out outcome
	out.run, err = client.Run(ctx, genomeapi.RunRequest{
		Config:      cfg.Evolution,
		SampleSize:  cfg.Dataset.SampleSize,
		DatasetSeed: cfg.Dataset.Seed,
	})
	if err != nil {
		return outcome{}, err
	}
	if !cfg.Anomaly.Enabled {
		return out, nil
	}

	anomalies, err := client.DetectAnomalies(ctx, genomeapi.AnomalyRequest{
		Detector: cfg.Anomaly.Detector,
		PerCrop:  cfg.Anomaly.PerCrop,
	})
	if err != nil {
		return outcome{}, err
	}
	out.anomalies = &anomalies
	return out, nil
}

func storeKind(cfg config.Config) string {
	if cfg.Store.Kind == "" {
		return storage.KindMemory
	}
	return cfg.Store.Kind
}
