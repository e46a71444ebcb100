package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/semaphore"
	"gopkg.in/yaml.v3"

	"neurosym/adapters/excel"
	"neurosym/adapters/report"
	"neurosym/domain/core"
	"neurosym/domain/experiment"
	"neurosym/internal"
	"neurosym/ports"
)

// trainFraction is the train share of each resolved dataset
const trainFraction = 0.8

// Manager orchestrates experiment batches. Each run is isolated: it gets
// its own model, its own knowledge base clone, and its own record. A run
// failing for any reason ends with status failed and the batch moves on to
// the next run.
type Manager struct {
	builder  *Builder
	tracker  *Tracker
	storage  ports.Storage
	data     ports.DataProvider
	renderer *report.Renderer
	sheets   *excel.ComparisonWriter
	logger   *internal.Logger

	// parallelism bounds concurrent runs when the batch does not set its own
	parallelism int
}

// NewManager creates a batch manager
func NewManager(builder *Builder, tracker *Tracker, storage ports.Storage, data ports.DataProvider, parallelism int) *Manager {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Manager{
		builder:     builder,
		tracker:     tracker,
		storage:     storage,
		data:        data,
		renderer:    report.NewRenderer(),
		sheets:      excel.NewComparisonWriter(),
		logger:      internal.DefaultLogger,
		parallelism: parallelism,
	}
}

// RunBatch executes every run of the batch and writes the batch-level
// reports. The returned records follow the batch's run order regardless of
// execution interleaving.
func (m *Manager) RunBatch(ctx context.Context, batch experiment.BatchConfig) ([]*experiment.Record, error) {
	if len(batch.Runs) == 0 {
		return nil, core.NewRunConfigurationError("runs", "batch is empty")
	}
	seen := make(map[core.RunID]bool, len(batch.Runs))
	for _, run := range batch.Runs {
		if seen[run.RunID] {
			return nil, core.NewRunConfigurationError("run_id",
				fmt.Sprintf("duplicate run id %s in batch", run.RunID))
		}
		seen[run.RunID] = true
	}

	parallelism := batch.Parallelism
	if parallelism < 1 {
		parallelism = m.parallelism
	}
	m.logger.Info("starting batch %q: %d run(s), parallelism %d",
		batch.Name, len(batch.Runs), parallelism)

	records := make([]*experiment.Record, len(batch.Runs))
	sem := semaphore.NewWeighted(int64(parallelism))
	for i, run := range batch.Runs {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		go func(i int, run experiment.RunConfig) {
			defer sem.Release(1)
			records[i] = m.runOne(ctx, run)
		}(i, run)
	}
	// Draining the semaphore waits for every in-flight run
	if err := sem.Acquire(ctx, int64(parallelism)); err != nil {
		return nil, err
	}
	sem.Release(int64(parallelism))

	if err := m.writeBatchReports(ctx, batch.Name, records); err != nil {
		m.logger.Warn("batch %q report generation failed: %v", batch.Name, err)
	}
	return records, nil
}

// runOne executes a single run end to end. It never returns an error: any
// failure is recorded on the run's record and surfaces as status failed.
func (m *Manager) runOne(ctx context.Context, cfg experiment.RunConfig) *experiment.Record {
	if err := m.tracker.StartRun(ctx, cfg.RunID); err != nil {
		m.logger.Error("cannot start run %s: %v", cfg.RunID, err)
		record := experiment.NewRecord(cfg.RunID)
		record.Errors = append(record.Errors, err.Error())
		record.Finalize(experiment.StatusFailed)
		return record
	}

	if err := m.execute(ctx, cfg); err != nil {
		m.logger.Error("run %s failed: %v", cfg.RunID, err)
		m.tracker.LogError(cfg.RunID, err)
		record, endErr := m.tracker.EndRun(ctx, cfg.RunID, experiment.StatusFailed)
		if endErr != nil {
			m.logger.Error("cannot finalize failed run %s: %v", cfg.RunID, endErr)
		}
		return record
	}

	record, err := m.tracker.EndRun(ctx, cfg.RunID, experiment.StatusSuccess)
	if err != nil {
		m.logger.Error("cannot finalize run %s: %v", cfg.RunID, err)
	}
	return record
}

// execute is the run body: validate, build, train, evaluate, explain, and
// log everything on the run's record.
func (m *Manager) execute(ctx context.Context, cfg experiment.RunConfig) error {
	// Configuration problems fail here, before any data or training work
	if err := cfg.Validate(); err != nil {
		return err
	}

	params := cfg.ModelConfig.Snapshot()
	params["data_reference"] = cfg.DataRef
	if cfg.DataVersion != "" {
		params["data_version"] = cfg.DataVersion
	}
	if err := m.tracker.LogParams(cfg.RunID, params); err != nil {
		return err
	}

	data, err := m.data.Resolve(ctx, cfg.DataRef)
	if err != nil {
		// A reference no provider can resolve is a configuration fault;
		// classify it as such even when the provider reports a plain error
		if !core.IsRunConfigurationError(err) {
			err = core.NewRunConfigurationError("data_reference", err.Error())
		}
		return fmt.Errorf("resolve data %q: %w", cfg.DataRef, err)
	}
	train, test := data.Split(trainFraction)

	model, err := m.builder.BuildModel(cfg.ModelConfig)
	if err != nil {
		return err
	}
	if err := model.Fit(ctx, train); err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	evaluation, err := model.Evaluate(ctx, test)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	for _, warning := range evaluation.Warnings {
		m.tracker.LogWarning(cfg.RunID, fmt.Sprintf("%s: %s", warning.Metric, warning.Reason))
	}
	if err := m.tracker.LogMetrics(cfg.RunID, evaluation.Flatten(cfg.MetricsToCompute)); err != nil {
		return err
	}
	if err := m.storeEvaluation(ctx, cfg.RunID, evaluation); err != nil {
		return err
	}
	if err := m.storeWeights(ctx, cfg.RunID, model); err != nil {
		return err
	}

	// A sample explanation per run keeps the prediction inspectable later
	explainer := NewFusionExplainer(model, m.storage)
	exp, err := explainer.ExplainInstance(ctx, test.Features[0])
	if err != nil {
		m.tracker.LogWarning(cfg.RunID, fmt.Sprintf("sample explanation failed: %v", err))
		return nil
	}
	artifact, err := explainer.VisualizeExplanation(ctx, exp)
	if err != nil {
		m.tracker.LogWarning(cfg.RunID, fmt.Sprintf("explanation rendering failed: %v", err))
		return nil
	}
	return m.tracker.LogArtifact(cfg.RunID, *artifact)
}

// storeEvaluation persists the evaluation report and logs its reference
func (m *Manager) storeEvaluation(ctx context.Context, runID core.RunID, evaluation *experiment.EvaluationReport) error {
	data, err := json.MarshalIndent(evaluation, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal evaluation report: %w", err)
	}
	key := fmt.Sprintf("runs/%s/evaluation.json", runID)
	if err := m.storage.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store evaluation report: %w", err)
	}
	return m.tracker.LogArtifact(runID, core.NewArtifact(core.ArtifactEvaluationReport, key))
}

// storeWeights persists the trained parameter state when the model exposes
// one.
func (m *Manager) storeWeights(ctx context.Context, runID core.RunID, model ports.Model) error {
	marshaler, ok := model.(interface{ MarshalWeights() ([]byte, error) })
	if !ok {
		return nil
	}
	data, err := marshaler.MarshalWeights()
	if err != nil {
		return fmt.Errorf("marshal model weights: %w", err)
	}
	key := fmt.Sprintf("runs/%s/weights.json", runID)
	if err := m.storage.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store model weights: %w", err)
	}
	return m.tracker.LogArtifact(runID, core.NewArtifact(core.ArtifactModelWeights, key))
}

// writeBatchReports renders the markdown, HTML, and spreadsheet views of
// the finished batch.
func (m *Manager) writeBatchReports(ctx context.Context, name string, records []*experiment.Record) error {
	if name == "" {
		name = "batch"
	}

	md := m.renderer.BatchSummary(name, records)
	mdKey := fmt.Sprintf("batches/%s/report.md", name)
	if err := m.storage.Put(ctx, mdKey, []byte(md)); err != nil {
		return err
	}
	htmlKey := fmt.Sprintf("batches/%s/report.html", name)
	if err := m.storage.Put(ctx, htmlKey, m.renderer.ToHTML(md)); err != nil {
		return err
	}

	sheet, err := m.sheets.Write(records)
	if err != nil {
		return fmt.Errorf("render comparison sheet: %w", err)
	}
	sheetKey := fmt.Sprintf("batches/%s/comparison.xlsx", name)
	if err := m.storage.Put(ctx, sheetKey, sheet); err != nil {
		return err
	}

	m.logger.Info("batch %q reports written under batches/%s/", name, name)
	return nil
}

// LoadBatchConfig reads a batch description from a YAML or JSON file
func LoadBatchConfig(path string) (experiment.BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return experiment.BatchConfig{}, fmt.Errorf("load batch config: %w", err)
	}

	var batch experiment.BatchConfig
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &batch)
	} else {
		err = yaml.Unmarshal(data, &batch)
	}
	if err != nil {
		return experiment.BatchConfig{}, fmt.Errorf("parse batch config %s: %w", path, err)
	}
	return batch, nil
}
