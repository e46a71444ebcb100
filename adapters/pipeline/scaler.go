package pipeline

import (
	"fmt"
	"strconv"

	"github.com/montanaflynn/stats"

	"neurosym/ports"
)

// StandardScaler centers each feature on its mean and scales to unit
// variance. Transform is idempotent for identical input and identical
// fitted state; Fit is the only mutator.
type StandardScaler struct {
	means  []float64
	stds   []float64
	fitted bool
}

// NewStandardScaler creates an unfitted scaler
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit learns per-feature means and standard deviations
func (s *StandardScaler) Fit(data [][]float64) (ports.Pipeline, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot fit scaler on empty data")
	}
	width := len(data[0])
	s.means = make([]float64, width)
	s.stds = make([]float64, width)

	column := make([]float64, len(data))
	for j := 0; j < width; j++ {
		for i, row := range data {
			if len(row) != width {
				return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), width)
			}
			column[i] = row[j]
		}
		mean, err := stats.Mean(column)
		if err != nil {
			return nil, fmt.Errorf("fit scaler feature %d: %w", j, err)
		}
		std, err := stats.StandardDeviation(column)
		if err != nil {
			return nil, fmt.Errorf("fit scaler feature %d: %w", j, err)
		}
		s.means[j] = mean
		s.stds[j] = std
	}
	s.fitted = true
	return s, nil
}

// Transform applies the fitted scaling. Zero-variance features pass
// through centered only.
func (s *StandardScaler) Transform(data [][]float64) ([][]float64, error) {
	if !s.fitted {
		return nil, fmt.Errorf("scaler is not fitted")
	}
	out := make([][]float64, len(data))
	for i, row := range data {
		if len(row) != len(s.means) {
			return nil, fmt.Errorf("row %d has %d features, scaler fitted on %d",
				i, len(row), len(s.means))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = v - s.means[j]
			if s.stds[j] > 0 {
				scaled[j] /= s.stds[j]
			}
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler and transforms the data in one pass
func (s *StandardScaler) FitTransform(data [][]float64) ([][]float64, error) {
	if _, err := s.Fit(data); err != nil {
		return nil, err
	}
	return s.Transform(data)
}

// Params returns the fitted parameters keyed by feature index
func (s *StandardScaler) Params() map[string]float64 {
	params := make(map[string]float64, 2*len(s.means))
	for j := range s.means {
		params["mean_"+strconv.Itoa(j)] = s.means[j]
		params["std_"+strconv.Itoa(j)] = s.stds[j]
	}
	return params
}

// SetParams overrides fitted parameters. Indices absent from params keep
// their current values.
func (s *StandardScaler) SetParams(params map[string]float64) ports.Pipeline {
	for j := range s.means {
		if v, ok := params["mean_"+strconv.Itoa(j)]; ok {
			s.means[j] = v
		}
		if v, ok := params["std_"+strconv.Itoa(j)]; ok {
			s.stds[j] = v
		}
	}
	return s
}

var _ ports.Pipeline = (*StandardScaler)(nil)
