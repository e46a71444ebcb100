package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"neurosym/domain/core"
	"neurosym/domain/experiment"
	"neurosym/internal"
	"neurosym/ports"
)

// recordKey is where a finalized record lands in storage, partitioned by run
func recordKey(runID core.RunID) string {
	return fmt.Sprintf("runs/%s/record.json", runID)
}

// Tracker owns the experiment records. Runs are isolated: every log call
// names its run, records are mutable only between StartRun and EndRun, and
// re-logging an identical key-value pair is a no-op so retries are safe.
// Conflicting values for an already-logged key fail with
// core.ErrMetricConflict instead of silently overwriting.
type Tracker struct {
	storage ports.Storage
	logger  *internal.Logger

	mu   sync.RWMutex
	open map[core.RunID]*experiment.Record
}

// NewTracker creates a tracker persisting through the given storage
func NewTracker(storage ports.Storage) *Tracker {
	return &Tracker{
		storage: storage,
		logger:  internal.DefaultLogger,
		open:    make(map[core.RunID]*experiment.Record),
	}
}

// StartRun opens a record for the run. Starting an already-open run fails;
// each run id is tracked at most once.
func (t *Tracker) StartRun(ctx context.Context, runID core.RunID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.open[runID]; exists {
		return fmt.Errorf("run %s is already open", runID)
	}
	t.open[runID] = experiment.NewRecord(runID)
	t.logger.Info("started run %s", runID)
	return nil
}

// LogParam records one configuration parameter. Identical re-logs are
// no-ops; a different value for a logged key is a conflict.
func (t *Tracker) LogParam(runID core.RunID, key string, value interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, err := t.openRecord(runID)
	if err != nil {
		return err
	}
	if existing, ok := record.Params[key]; ok {
		if fmt.Sprintf("%v", existing) == fmt.Sprintf("%v", value) {
			return nil
		}
		return core.NewMetricConflictError(key, existing, value)
	}
	record.Params[key] = value
	return nil
}

// LogParams records a parameter map, failing on the first conflict
func (t *Tracker) LogParams(runID core.RunID, params map[string]interface{}) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := t.LogParam(runID, k, params[k]); err != nil {
			return err
		}
	}
	return nil
}

// LogMetric records one scalar metric with the same retry semantics as
// LogParam.
func (t *Tracker) LogMetric(runID core.RunID, key string, value float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, err := t.openRecord(runID)
	if err != nil {
		return err
	}
	if existing, ok := record.Metrics[key]; ok {
		if existing == value {
			return nil
		}
		return core.NewMetricConflictError(key, existing, value)
	}
	record.Metrics[key] = value
	return nil
}

// LogMetrics records a metric map, failing on the first conflict
func (t *Tracker) LogMetrics(runID core.RunID, metrics map[string]float64) error {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := t.LogMetric(runID, k, metrics[k]); err != nil {
			return err
		}
	}
	return nil
}

// LogArtifact records an artifact reference. Re-logging the same storage key
// and kind is a no-op.
func (t *Tracker) LogArtifact(runID core.RunID, artifact core.Artifact) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, err := t.openRecord(runID)
	if err != nil {
		return err
	}
	for _, existing := range record.Artifacts {
		if existing.Kind == artifact.Kind && existing.Key == artifact.Key {
			return nil
		}
	}
	record.Artifacts = append(record.Artifacts, artifact)
	return nil
}

// LogError records a contained or fatal error on the run
func (t *Tracker) LogError(runID core.RunID, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, openErr := t.openRecord(runID)
	if openErr != nil {
		t.logger.Warn("cannot record error on run %s: %v", runID, openErr)
		return
	}
	record.Errors = append(record.Errors, err.Error())
}

// LogWarning records a non-fatal warning on the run
func (t *Tracker) LogWarning(runID core.RunID, warning string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, openErr := t.openRecord(runID)
	if openErr != nil {
		t.logger.Warn("cannot record warning on run %s: %v", runID, openErr)
		return
	}
	record.Warnings = append(record.Warnings, warning)
}

// EndRun freezes the record with its terminal status and persists it. The
// run keeps its record whether it succeeded or failed; failed runs are
// discoverable from the record's errors.
func (t *Tracker) EndRun(ctx context.Context, runID core.RunID, status experiment.RunStatus) (*experiment.Record, error) {
	t.mu.Lock()
	record, err := t.openRecord(runID)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	record.Finalize(status)
	delete(t.open, runID)
	t.mu.Unlock()

	// The finalized record is returned even when persistence fails so the
	// caller still has the run's outcome in hand.
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return record, fmt.Errorf("marshal record for run %s: %w", runID, err)
	}
	if err := t.storage.Put(ctx, recordKey(runID), data); err != nil {
		return record, fmt.Errorf("persist record for run %s: %w", runID, err)
	}

	t.logger.Info("ended run %s with status %s", runID, status)
	return record, nil
}

// GetRecord loads a persisted record
func (t *Tracker) GetRecord(ctx context.Context, runID core.RunID) (*experiment.Record, error) {
	data, err := t.storage.Get(ctx, recordKey(runID))
	if err != nil {
		return nil, err
	}
	var record experiment.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal record for run %s: %w", runID, err)
	}
	return &record, nil
}

// ListRecords loads every persisted record, ordered by storage key
func (t *Tracker) ListRecords(ctx context.Context) ([]*experiment.Record, error) {
	keys, err := t.storage.List(ctx, "runs/")
	if err != nil {
		return nil, err
	}

	records := make([]*experiment.Record, 0, len(keys))
	for _, key := range keys {
		data, err := t.storage.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		var record experiment.Record
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("unmarshal record at %s: %w", key, err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// CompareRuns returns the named runs' records with their metrics, in the
// requested order. Unknown runs fail with core.ErrNotFound.
func (t *Tracker) CompareRuns(ctx context.Context, runIDs []core.RunID) ([]*experiment.Record, error) {
	records := make([]*experiment.Record, 0, len(runIDs))
	for _, id := range runIDs {
		record, err := t.GetRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// BestRun returns the persisted record with the extremal value of the named
// metric. Runs missing the metric are skipped; no run carrying it is an
// error.
func (t *Tracker) BestRun(ctx context.Context, metric string, maximize bool) (*experiment.Record, error) {
	records, err := t.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	var best *experiment.Record
	var bestValue float64
	for _, record := range records {
		value, ok := record.Metrics[metric]
		if !ok {
			continue
		}
		if best == nil || (maximize && value > bestValue) || (!maximize && value < bestValue) {
			best = record
			bestValue = value
		}
	}
	if best == nil {
		return nil, core.NewNotFoundError("run with metric", metric)
	}
	return best, nil
}

// openRecord returns the open record for a run; callers hold t.mu
func (t *Tracker) openRecord(runID core.RunID) (*experiment.Record, error) {
	record, ok := t.open[runID]
	if !ok {
		return nil, fmt.Errorf("%w: run %s is not open", core.ErrRunFinalized, runID)
	}
	return record, nil
}
