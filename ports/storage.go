package ports

import (
	"context"
)

// Storage is the injected write collaborator for records, reports, and
// artifacts. The core never assumes a specific backing store; file system,
// object store, and database adapters all satisfy this contract.
type Storage interface {
	// Put writes value under key, overwriting any previous value
	Put(ctx context.Context, key string, value []byte) error

	// Get reads the value stored under key, or core.ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the stored keys with the given prefix
	List(ctx context.Context, prefix string) ([]string, error)
}
