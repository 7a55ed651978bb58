// Package immune implements a negative-selection anomaly detector for crop
// sensor readings. Memory cells are k-means centers learned from normal
// readings in standardized space; a reading whose distance to every cell
// exceeds the activation threshold is an anomaly.
package immune

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultDetectors      = 50
	DefaultAffinityRadius = 0.5
	DefaultThreshold      = 0.7
	DefaultRestarts       = 10
	DefaultSeed           = 42

	MinThreshold = 0.3
	MaxThreshold = 1.2
)

var (
	ErrNotTrained       = errors.New("immune system has not been trained")
	ErrInvalidConfig    = errors.New("invalid immune configuration")
	ErrInsufficientData = errors.New("insufficient training data")
)

// Reading is one sensor observation.
type Reading struct {
	Humidity    float64 `json:"humidity"`
	Temperature float64 `json:"temperature"`
	Nutrients   float64 `json:"nutrients"`
	Growth      float64 `json:"growth"`
}

func (r Reading) Vector() []float64 {
	return []float64{r.Humidity, r.Temperature, r.Nutrients, r.Growth}
}

type Config struct {
	Detectors      int     `toml:"detectors" yaml:"detectors" json:"detectors"`
	AffinityRadius float64 `toml:"affinity_radius" yaml:"affinity_radius" json:"affinity_radius"`
	Threshold      float64 `toml:"threshold" yaml:"threshold" json:"threshold"`
	Restarts       int     `toml:"restarts" yaml:"restarts" json:"restarts"`
	Seed           int64   `toml:"seed" yaml:"seed" json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Detectors:      DefaultDetectors,
		AffinityRadius: DefaultAffinityRadius,
		Threshold:      DefaultThreshold,
		Restarts:       DefaultRestarts,
		Seed:           DefaultSeed,
	}
}

// WithDefaults fills zero-valued fields. Seed 0 is kept.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.Detectors == 0 {
		c.Detectors = def.Detectors
	}
	if c.AffinityRadius == 0 {
		c.AffinityRadius = def.AffinityRadius
	}
	if c.Threshold == 0 {
		c.Threshold = def.Threshold
	}
	if c.Restarts == 0 {
		c.Restarts = def.Restarts
	}
	return c
}

func (c Config) Validate() error {
	switch {
	case c.Detectors < 2:
		return fmt.Errorf("%w: detectors must be >= 2, got %d", ErrInvalidConfig, c.Detectors)
	case c.AffinityRadius <= 0:
		return fmt.Errorf("%w: affinity radius must be > 0, got %f", ErrInvalidConfig, c.AffinityRadius)
	case c.Threshold < MinThreshold || c.Threshold > MaxThreshold:
		return fmt.Errorf("%w: threshold must be in [%g,%g], got %f", ErrInvalidConfig, MinThreshold, MaxThreshold, c.Threshold)
	case c.Restarts < 1:
		return fmt.Errorf("%w: restarts must be >= 1, got %d", ErrInvalidConfig, c.Restarts)
	}
	return nil
}

// Detection is the outcome of screening one reading.
type Detection struct {
	Anomaly   bool       `json:"anomaly"`
	Distance  float64    `json:"distance"`
	Level     AlertLevel `json:"level"`
	Detector  int        `json:"detector"`
	Threshold float64    `json:"threshold"`
}

// Anomaly is a history entry recorded for every anomalous detection.
type Anomaly struct {
	At       time.Time  `json:"at"`
	Crop     string     `json:"crop"`
	Reading  Reading    `json:"reading"`
	Distance float64    `json:"distance"`
	Level    AlertLevel `json:"level"`
	Detector int        `json:"detector"`
}

type Option func(*System)

func WithLogger(logger *zap.Logger) Option {
	return func(s *System) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *System) {
		if now != nil {
			s.now = now
		}
	}
}

// System is safe for concurrent use. Detect mutates the threshold and the
// anomaly history.
type System struct {
	mu     sync.RWMutex
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	mean       []float64
	scale      []float64
	detectors  [][]float64
	silhouette float64
	threshold  float64
	history    []Anomaly
	pathogens  map[Kind]*pathogen
}

func New(cfg Config, opts ...Option) (*System, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &System{
		cfg:       cfg,
		logger:    zap.NewNop(),
		now:       time.Now,
		threshold: cfg.Threshold,
		pathogens: make(map[Kind]*pathogen),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *System) Config() Config {
	return s.cfg
}

// Train standardizes the normal readings and learns the memory cells.
// Training again replaces the detectors but keeps history and threshold.
func (s *System) Train(normal []Reading) error {
	if len(normal) <= s.cfg.Detectors {
		return fmt.Errorf("%w: need more than %d readings, got %d", ErrInsufficientData, s.cfg.Detectors, len(normal))
	}

	mean, scale := fitScaler(normal)
	points := make([][]float64, len(normal))
	for i, r := range normal {
		points[i] = standardize(r.Vector(), mean, scale)
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	clusters, err := kmeans(rng, points, s.cfg.Detectors, s.cfg.Restarts)
	if err != nil {
		return err
	}
	score, err := silhouette(points, clusters.labels, s.cfg.Detectors)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.mean, s.scale = mean, scale
	s.detectors = clusters.centers
	s.silhouette = score
	s.mu.Unlock()

	s.logger.Info("immune system trained",
		zap.Int("readings", len(normal)),
		zap.Int("detectors", len(clusters.centers)),
		zap.Float64("silhouette", score),
	)
	return nil
}

func (s *System) Trained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detectors != nil
}

func (s *System) Silhouette() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.silhouette
}

func (s *System) Threshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.threshold
}

// Detect screens one reading. Anomalies are appended to the history and
// adapt the activation threshold.
func (s *System) Detect(reading Reading, crop string) (Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detectors == nil {
		return Detection{}, ErrNotTrained
	}

	point := standardize(reading.Vector(), s.mean, s.scale)
	distances := make([]float64, len(s.detectors))
	for i, d := range s.detectors {
		distances[i] = floats.Distance(point, d, 2)
	}
	nearest := floats.MinIdx(distances)
	det := Detection{
		Distance:  distances[nearest],
		Level:     LevelFor(distances[nearest]),
		Detector:  nearest,
		Threshold: s.threshold,
	}
	det.Anomaly = det.Distance > s.threshold
	if !det.Anomaly {
		return det, nil
	}

	s.history = append(s.history, Anomaly{
		At:       s.now(),
		Crop:     crop,
		Reading:  reading,
		Distance: det.Distance,
		Level:    det.Level,
		Detector: nearest,
	})
	s.threshold = adaptThreshold(s.threshold, det.Distance)
	s.logger.Debug("anomaly detected",
		zap.String("crop", crop),
		zap.Float64("distance", det.Distance),
		zap.Stringer("level", det.Level),
		zap.Float64("threshold", s.threshold),
	)
	return det, nil
}

func (s *System) History() []Anomaly {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Anomaly(nil), s.history...)
}

// adaptThreshold tightens after far outliers and relaxes after near misses.
func adaptThreshold(threshold, distance float64) float64 {
	switch {
	case distance > 1.5:
		threshold *= 0.95
	case distance < 0.8:
		threshold *= 1.02
	}
	if threshold < MinThreshold {
		return MinThreshold
	}
	if threshold > MaxThreshold {
		return MaxThreshold
	}
	return threshold
}

// fitScaler returns per-feature population mean and standard deviation. A
// constant feature gets scale 1.
func fitScaler(readings []Reading) ([]float64, []float64) {
	dim := len(readings[0].Vector())
	mean := make([]float64, dim)
	scale := make([]float64, dim)
	column := make([]float64, len(readings))
	for j := 0; j < dim; j++ {
		for i, r := range readings {
			column[i] = r.Vector()[j]
		}
		mean[j], scale[j] = stat.PopMeanStdDev(column, nil)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}
	return mean, scale
}

func standardize(v, mean, scale []float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = (v[i] - mean[i]) / scale[i]
	}
	return out
}
