package core

// Artifact references an output of a run stored through the storage
// collaborator. The payload itself lives behind the storage key; the
// reference is what the tracker records.
type Artifact struct {
	ID        ArtifactID   `json:"id"`
	Kind      ArtifactKind `json:"kind"`
	Key       string       `json:"key"` // storage key the payload was written under
	CreatedAt Timestamp    `json:"created_at"`
}

// NewArtifact creates an artifact reference for a payload stored under key
func NewArtifact(kind ArtifactKind, key string) Artifact {
	return Artifact{
		ID:        ArtifactID(NewID()),
		Kind:      kind,
		Key:       key,
		CreatedAt: Now(),
	}
}

// ArtifactKind defines types of artifacts
type ArtifactKind string

const (
	ArtifactModelWeights     ArtifactKind = "model_weights"
	ArtifactExplanation      ArtifactKind = "explanation"
	ArtifactEvaluationReport ArtifactKind = "evaluation_report"
	ArtifactExperimentRecord ArtifactKind = "experiment_record"
	ArtifactBatchReport      ArtifactKind = "batch_report"
	ArtifactComparisonSheet  ArtifactKind = "comparison_sheet"
)
