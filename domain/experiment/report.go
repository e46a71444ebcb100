package experiment

// ClassificationMetrics are the label-comparison metrics of one evaluation
type ClassificationMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// MetricWarning records one evaluation dimension that failed without
// blocking the others.
type MetricWarning struct {
	Metric string `json:"metric"`
	Reason string `json:"reason"`
}

// EvaluationReport aggregates metrics over a dataset. Produced once per
// Evaluate call, never mutated afterwards.
type EvaluationReport struct {
	Classification ClassificationMetrics `json:"classification"`
	// Robustness is prediction consistency under the configured
	// perturbation; -1 when the dimension failed (see Warnings).
	Robustness float64 `json:"robustness"`
	// Explainability is the fraction of instances whose reasoning trace
	// contains at least one firing rule.
	Explainability float64         `json:"explainability"`
	Instances      int             `json:"instances"`
	Warnings       []MetricWarning `json:"warnings,omitempty"`
}

// Flatten returns the report as a metric map, restricted to the requested
// metric names. An empty request keeps everything.
func (r *EvaluationReport) Flatten(requested []string) map[string]float64 {
	all := map[string]float64{
		"accuracy":             r.Classification.Accuracy,
		"precision":            r.Classification.Precision,
		"recall":               r.Classification.Recall,
		"f1":                   r.Classification.F1,
		"robustness_score":     r.Robustness,
		"explainability_score": r.Explainability,
	}
	if len(requested) == 0 {
		return all
	}
	out := make(map[string]float64, len(requested))
	for _, name := range requested {
		if v, ok := all[name]; ok {
			out[name] = v
		}
	}
	return out
}
