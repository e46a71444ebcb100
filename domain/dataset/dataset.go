package dataset

import (
	"fmt"
)

// Dataset holds a feature matrix with integer class labels over a fixed,
// ordered label space. Labels index into Classes.
type Dataset struct {
	Features [][]float64 `json:"features"`
	Labels   []int       `json:"labels"`
	Classes  []string    `json:"classes"`
}

// New creates a dataset and validates its shape
func New(features [][]float64, labels []int, classes []string) (*Dataset, error) {
	ds := &Dataset{Features: features, Labels: labels, Classes: classes}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks structural invariants: matching lengths, rectangular
// feature matrix, labels within the label space.
func (d *Dataset) Validate() error {
	if len(d.Classes) == 0 {
		return fmt.Errorf("dataset has no classes")
	}
	if len(d.Features) != len(d.Labels) {
		return fmt.Errorf("feature count %d does not match label count %d",
			len(d.Features), len(d.Labels))
	}
	if len(d.Features) == 0 {
		return fmt.Errorf("dataset is empty")
	}
	width := len(d.Features[0])
	for i, row := range d.Features {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, expected %d", i, len(row), width)
		}
	}
	for i, label := range d.Labels {
		if label < 0 || label >= len(d.Classes) {
			return fmt.Errorf("label %d at row %d outside class space of size %d",
				label, i, len(d.Classes))
		}
	}
	return nil
}

// Len returns the number of instances
func (d *Dataset) Len() int {
	return len(d.Features)
}

// Width returns the number of features per instance
func (d *Dataset) Width() int {
	if len(d.Features) == 0 {
		return 0
	}
	return len(d.Features[0])
}

// NumClasses returns the size of the label space
func (d *Dataset) NumClasses() int {
	return len(d.Classes)
}

// Split partitions the dataset deterministically into train and test sets.
// trainFraction is clamped to (0, 1); ordering is preserved so identical
// inputs always yield identical splits.
func (d *Dataset) Split(trainFraction float64) (*Dataset, *Dataset) {
	if trainFraction <= 0 {
		trainFraction = 0.5
	}
	if trainFraction >= 1 {
		trainFraction = 0.5
	}
	cut := int(float64(d.Len()) * trainFraction)
	if cut < 1 {
		cut = 1
	}
	if cut >= d.Len() {
		cut = d.Len() - 1
	}

	train := &Dataset{
		Features: d.Features[:cut],
		Labels:   d.Labels[:cut],
		Classes:  d.Classes,
	}
	test := &Dataset{
		Features: d.Features[cut:],
		Labels:   d.Labels[cut:],
		Classes:  d.Classes,
	}
	return train, test
}

// Subset returns the first n instances, or the whole dataset if n exceeds
// its length.
func (d *Dataset) Subset(n int) *Dataset {
	if n <= 0 || n >= d.Len() {
		return d
	}
	return &Dataset{
		Features: d.Features[:n],
		Labels:   d.Labels[:n],
		Classes:  d.Classes,
	}
}
