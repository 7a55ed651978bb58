package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunConfig is the persisted copy of the evolution parameters a run used.
type RunConfig struct {
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	MutationRate   float64 `json:"mutation_rate"`
	CrossoverRate  float64 `json:"crossover_rate"`
	EliteFraction  float64 `json:"elite_fraction"`
	TournamentSize int     `json:"tournament_size"`
	GenomeLength   int     `json:"genome_length"`
	Seed           int64   `json:"seed"`
	Workers        int     `json:"workers"`
}

type GenerationStats struct {
	Generation      int     `json:"generation"`
	BestFitness     float64 `json:"best_fitness"`
	MeanFitness     float64 `json:"mean_fitness"`
	MinFitness      float64 `json:"min_fitness"`
	Diversity       float64 `json:"diversity"`
	BestEverFitness float64 `json:"best_ever_fitness"`
	ElapsedMicros   int64   `json:"elapsed_micros"`
	AllocatedBytes  uint64  `json:"allocated_bytes"`
	HeapInuseBytes  uint64  `json:"heap_inuse_bytes"`
}

type RunRecord struct {
	VersionedRecord
	ID           string            `json:"id"`
	CreatedAtUTC string            `json:"created_at_utc"`
	Config       RunConfig         `json:"config"`
	Generations  []GenerationStats `json:"generations"`
	BestFitness  float64           `json:"best_fitness"`
	BestGenome   string            `json:"best_genome"`
	GenomeLength int               `json:"genome_length"`
}
