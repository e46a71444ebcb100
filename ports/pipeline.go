package ports

// Pipeline is a fittable data transformation step. Transform is idempotent
// given identical input and identical fitted state.
type Pipeline interface {
	// Fit learns transformation parameters from data and returns the
	// pipeline for chaining.
	Fit(data [][]float64) (Pipeline, error)

	// Transform applies the fitted transformation
	Transform(data [][]float64) ([][]float64, error)

	// FitTransform fits and transforms in one pass
	FitTransform(data [][]float64) ([][]float64, error)

	// Params returns the fitted parameters
	Params() map[string]float64

	// SetParams overrides parameters and returns the pipeline for chaining
	SetParams(params map[string]float64) Pipeline
}
