package experiment

import (
	"neurosym/domain/core"
)

// RunStatus is the terminal state of a run
type RunStatus string

const (
	StatusRunning RunStatus = "running"
	StatusSuccess RunStatus = "success"
	StatusFailed  RunStatus = "failed"
)

// Record is the configuration snapshot, metrics, and artifact references of
// one run. It is created at run start, mutated only by the tracker while
// the run is open, and frozen at run end. Mutation goes through the
// tracker's locking; the struct itself carries no synchronization.
type Record struct {
	RunID       core.RunID             `json:"run_id"`
	Status      RunStatus              `json:"status"`
	Fingerprint core.Hash              `json:"fingerprint"`
	Params      map[string]interface{} `json:"params"`
	Metrics     map[string]float64     `json:"metrics"`
	Artifacts   []core.Artifact        `json:"artifacts"`
	// Errors holds every fatal or contained error recorded for the run so
	// failure is discoverable from the record alone.
	Errors     []string       `json:"errors,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
	StartedAt  core.Timestamp `json:"started_at"`
	FinishedAt core.Timestamp `json:"finished_at,omitempty"`

	finalized bool
}

// NewRecord opens a record for a run
func NewRecord(runID core.RunID) *Record {
	return &Record{
		RunID:     runID,
		Status:    StatusRunning,
		Params:    make(map[string]interface{}),
		Metrics:   make(map[string]float64),
		StartedAt: core.Now(),
	}
}

// Finalized reports whether the record has been frozen
func (r *Record) Finalized() bool {
	return r.finalized
}

// Finalize freezes the record with its terminal status
func (r *Record) Finalize(status RunStatus) {
	if r.finalized {
		return
	}
	r.Status = status
	r.FinishedAt = core.Now()
	r.Fingerprint = core.ConfigFingerprint(r.Params)
	r.finalized = true
}
