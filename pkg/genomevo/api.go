package genomevo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"genomevo/internal/dataset"
	"genomevo/internal/evo"
	"genomevo/internal/genome"
	"genomevo/internal/immune"
	"genomevo/internal/model"
	"genomevo/internal/stats"
	"genomevo/internal/storage"
)

const defaultRunsLimit = 20

type Options struct {
	StoreKind string
	DBPath    string
	Logger    *zap.Logger
	Now       func() time.Time
}

type Client struct {
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time
}

// RunRequest describes one evolution run. A zero Config runs with
// evo.DefaultConfig. A nil Reference is replaced by a synthetic sample drawn
// with DatasetSeed (or Config.Seed when zero); nil Patterns selects the
// clinical catalog.
type RunRequest struct {
	Config      evo.Config
	Reference   *genome.ReferenceData
	Patterns    *genome.PatternSet
	SampleSize  int
	DatasetSeed int64
	Observer    func(evo.GenerationStats)
}

type RunSummary struct {
	stats.RunSummary
	Result     evo.RunResult
	Dataset    *dataset.Metadata
	Comparison stats.Comparison
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID            string
	CreatedAtUTC     string
	Seed             int64
	Population       int
	Generations      int
	GenomeLength     int
	FinalBestFitness float64
	BestGenome       string
}

type HistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

// New opens and initializes the configured store.
func New(ctx context.Context, opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store, err := storage.NewStore(opts.StoreKind, opts.DBPath, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		_ = storage.CloseIfSupported(store)
		return nil, fmt.Errorf("init %s store: %w", opts.StoreKind, err)
	}

	return &Client{store: store, logger: logger, now: now}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Run evolves a population, summarizes the outcome and persists it.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	cfg := req.Config
	if cfg == (evo.Config{}) {
		cfg = evo.DefaultConfig()
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return RunSummary{}, err
	}

	var summary RunSummary
	var ref genome.ReferenceData
	if req.Reference != nil {
		ref = *req.Reference
	} else {
		seed := req.DatasetSeed
		if seed == 0 {
			seed = cfg.Seed
		}
		gen := dataset.NewGenerator(req.SampleSize, rand.New(rand.NewSource(seed)))
		gen.Now = c.now
		sample, err := gen.GenerateReference()
		if err != nil {
			return RunSummary{}, fmt.Errorf("generate reference: %w", err)
		}
		ref = sample.Reference
		summary.Dataset = &sample.Metadata
		c.logger.Info("synthetic reference generated",
			zap.Int("total_bases", sample.Metadata.TotalBases),
			zap.Int("total_mutations", sample.Metadata.TotalMutations),
			zap.Float64("mutation_density", sample.Metadata.MutationDensity),
		)
	}
	patterns := dataset.ClinicalPatterns()
	if req.Patterns != nil {
		patterns = *req.Patterns
	}

	runID := stats.NewRunID()
	opts := []evo.Option{evo.WithLogger(c.logger.With(zap.String("run_id", runID)))}
	if req.Observer != nil {
		opts = append(opts, evo.WithObserver(req.Observer))
	}
	engine, err := evo.NewEngine(cfg, rand.New(rand.NewSource(cfg.Seed)), opts...)
	if err != nil {
		return RunSummary{}, err
	}
	result, err := engine.Run(ctx, ref, patterns)
	if err != nil {
		return RunSummary{}, err
	}

	headline, err := stats.Summarize(runID, result)
	if err != nil {
		return RunSummary{}, err
	}
	record, err := stats.ToRecord(runID, engine.Config(), result, c.now())
	if err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveRun(ctx, record); err != nil {
		return RunSummary{}, fmt.Errorf("save run %s: %w", runID, err)
	}

	summary.RunSummary = headline
	summary.Result = result
	summary.Comparison = stats.CompareWithTraditional(headline)
	return summary, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = defaultRunsLimit
	}

	runs, err := c.store.ListRuns(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]RunItem, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunItem{
			RunID:            r.ID,
			CreatedAtUTC:     r.CreatedAtUTC,
			Seed:             r.Config.Seed,
			Population:       r.Config.PopulationSize,
			Generations:      r.Config.Generations,
			GenomeLength:     r.GenomeLength,
			FinalBestFitness: r.BestFitness,
			BestGenome:       r.BestGenome,
		})
	}
	return out, nil
}

// History returns the per-generation statistics of one stored run.
func (c *Client) History(ctx context.Context, req HistoryRequest) ([]model.GenerationStats, error) {
	if req.RunID != "" && req.Latest {
		return nil, errors.New("use either run id or latest")
	}
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}

	runID := req.RunID
	if req.Latest {
		runs, err := c.store.ListRuns(ctx, 1)
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return nil, errors.New("no runs available")
		}
		runID = runs[0].ID
	}
	if runID == "" {
		return nil, errors.New("history requires run id or latest")
	}

	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	history := run.Generations
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return append([]model.GenerationStats(nil), history...), nil
}

func (c *Client) DeleteRun(ctx context.Context, runID string) error {
	if runID == "" {
		return errors.New("run id is required")
	}
	return c.store.DeleteRun(ctx, runID)
}

const defaultReadingsPerCrop = 300

// AnomalyRequest describes one crop-monitoring pass. A zero Detector uses
// immune.DefaultConfig. Nil Normal readings are simulated from the default
// crop profiles with the detector seed; nil Readings screens the cataloged
// field incidents.
type AnomalyRequest struct {
	Detector immune.Config
	Normal   []immune.Reading
	PerCrop  int
	Readings []immune.LabelledReading
}

type AnomalyFinding struct {
	immune.LabelledReading
	Detection      immune.Detection
	Classification *immune.Classification
}

type AnomalyResult struct {
	Findings   []AnomalyFinding
	Report     immune.Report
	HasReport  bool
	Silhouette float64
	Pathogens  map[immune.Kind]int
}

// DetectAnomalies trains a detector on normal readings, screens every
// reading and classifies the anomalous ones.
func (c *Client) DetectAnomalies(ctx context.Context, req AnomalyRequest) (AnomalyResult, error) {
	cfg := req.Detector
	if cfg == (immune.Config{}) {
		cfg = immune.DefaultConfig()
	}
	system, err := immune.New(cfg, immune.WithLogger(c.logger), immune.WithClock(c.now))
	if err != nil {
		return AnomalyResult{}, err
	}

	normal := req.Normal
	if normal == nil {
		perCrop := req.PerCrop
		if perCrop <= 0 {
			perCrop = defaultReadingsPerCrop
		}
		rng := rand.New(rand.NewSource(system.Config().Seed))
		normal = immune.Readings(immune.SimulateCropReadings(rng, immune.DefaultCropProfiles(), perCrop))
	}
	if err := system.Train(normal); err != nil {
		return AnomalyResult{}, fmt.Errorf("train detector: %w", err)
	}

	readings := req.Readings
	if readings == nil {
		readings = immune.CatalogedAnomalies()
	}
	out := AnomalyResult{Findings: make([]AnomalyFinding, 0, len(readings))}
	for _, r := range readings {
		if err := ctx.Err(); err != nil {
			return AnomalyResult{}, err
		}
		det, err := system.Detect(r.Reading, r.Crop)
		if err != nil {
			return AnomalyResult{}, err
		}
		finding := AnomalyFinding{LabelledReading: r, Detection: det}
		if det.Anomaly {
			class := system.Classify(r.Reading)
			finding.Classification = &class
			c.logger.Info("crop anomaly",
				zap.String("crop", r.Crop),
				zap.String("kind", string(class.Kind)),
				zap.String("severity", string(class.Severity)),
				zap.Stringer("level", det.Level),
				zap.Float64("confidence", class.Confidence),
			)
		}
		out.Findings = append(out.Findings, finding)
	}

	out.Report, out.HasReport = system.Report()
	out.Silhouette = system.Silhouette()
	out.Pathogens = system.KnownPathogens()
	return out, nil
}
