package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"genomevo/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(run model.RunRecord) ([]byte, error) {
	if err := checkVersion(run.VersionedRecord); err != nil {
		return nil, fmt.Errorf("encode run %s: %w", run.ID, err)
	}
	return json.Marshal(run)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

func cloneRun(run model.RunRecord) model.RunRecord {
	run.Generations = append([]model.GenerationStats(nil), run.Generations...)
	return run
}

var (
	minNanosTime = time.Unix(0, math.MinInt64)
	maxNanosTime = time.Unix(0, math.MaxInt64)
)

// createdAtNanos is the sort key every backend orders by. Times outside the
// int64 nanosecond range are clamped; ok is false when the timestamp does
// not parse.
func createdAtNanos(run model.RunRecord) (nanos int64, ok bool) {
	ts, err := time.Parse(time.RFC3339Nano, run.CreatedAtUTC)
	if err != nil {
		return 0, false
	}
	switch {
	case ts.Before(minNanosTime):
		return math.MinInt64, true
	case ts.After(maxNanosTime):
		return math.MaxInt64, true
	}
	return ts.UnixNano(), true
}

// sortNewestFirst orders runs by creation time, newest first, then by id.
// Unparseable timestamps sort after every parseable one, pre-1970 included.
func sortNewestFirst(runs []model.RunRecord) {
	sort.SliceStable(runs, func(i, j int) bool {
		ni, oki := createdAtNanos(runs[i])
		nj, okj := createdAtNanos(runs[j])
		if oki != okj {
			return oki
		}
		if ni != nj {
			return ni > nj
		}
		return runs[i].ID < runs[j].ID
	})
}

func applyLimit(runs []model.RunRecord, limit int) []model.RunRecord {
	if limit > 0 && len(runs) > limit {
		return runs[:limit]
	}
	return runs
}
