package ports

import (
	"context"

	"neurosym/domain/dataset"
)

// DataProvider resolves a run configuration's data reference to a dataset.
// Datasets are produced outside the core; the provider is how they are
// handed in.
type DataProvider interface {
	Resolve(ctx context.Context, ref string) (*dataset.Dataset, error)
}
