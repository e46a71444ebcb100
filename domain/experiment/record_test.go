package experiment

import (
	"testing"
)

// TestRecord_FinalizeFreezes verifies a finalized record keeps its first
// terminal status.
func TestRecord_FinalizeFreezes(t *testing.T) {
	record := NewRecord("run-1")
	if record.Status != StatusRunning {
		t.Fatalf("New record status = %s, expected running", record.Status)
	}
	if record.Finalized() {
		t.Fatal("New record reports finalized")
	}

	record.Params["seed"] = int64(42)
	record.Finalize(StatusFailed)

	if !record.Finalized() {
		t.Error("Record not finalized after Finalize")
	}
	if record.Status != StatusFailed {
		t.Errorf("Status = %s, expected failed", record.Status)
	}
	if record.Fingerprint.IsEmpty() {
		t.Error("Finalize did not compute the configuration fingerprint")
	}
	if record.FinishedAt.IsZero() {
		t.Error("Finalize did not stamp the finish time")
	}

	// Second Finalize is a no-op
	first := record.Status
	record.Finalize(StatusSuccess)
	if record.Status != first {
		t.Errorf("Second Finalize changed status to %s", record.Status)
	}
}

// TestEvaluationReport_Flatten verifies metric filtering by requested names
func TestEvaluationReport_Flatten(t *testing.T) {
	report := &EvaluationReport{
		Classification: ClassificationMetrics{Accuracy: 0.9, Precision: 0.8, Recall: 0.7, F1: 0.75},
		Robustness:     0.85,
		Explainability: 0.6,
	}

	all := report.Flatten(nil)
	if len(all) != 6 {
		t.Fatalf("Unfiltered flatten has %d metrics, expected 6", len(all))
	}

	some := report.Flatten([]string{"accuracy", "robustness_score", "unknown_metric"})
	if len(some) != 2 {
		t.Fatalf("Filtered flatten has %d metrics, expected 2", len(some))
	}
	if some["accuracy"] != 0.9 || some["robustness_score"] != 0.85 {
		t.Errorf("Filtered values wrong: %v", some)
	}
}
