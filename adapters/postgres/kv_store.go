package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"neurosym/domain/core"
	apperrors "neurosym/internal/errors"
	"neurosym/ports"
)

// KVStore implements the storage collaborator on a single PostgreSQL
// key-value table. Deployments already running the Postgres stack can point
// the tracker at it; the core still only sees ports.Storage.
type KVStore struct {
	db *sqlx.DB
}

// Open connects to the database and ensures the backing table exists
func Open(databaseURL string) (*KVStore, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "connect to postgres")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS experiment_blobs (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "ensure experiment_blobs table")
	}
	return &KVStore{db: db}, nil
}

// NewKVStore wraps an existing connection
func NewKVStore(db *sqlx.DB) *KVStore {
	return &KVStore{db: db}
}

// Put writes value under key, overwriting any previous value
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO experiment_blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return apperrors.Wrapf(err, "put key %s", key)
	}
	return nil
}

// Get reads the value stored under key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `
		SELECT value FROM experiment_blobs WHERE key = $1
	`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("key", key)
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "get key %s", key)
	}
	return value, nil
}

// List returns the stored keys with the given prefix, sorted
func (s *KVStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.SelectContext(ctx, &keys, `
		SELECT key FROM experiment_blobs WHERE key LIKE $1 || '%' ORDER BY key
	`, prefix)
	if err != nil {
		return nil, apperrors.Wrapf(err, "list keys with prefix %s", prefix)
	}
	return keys, nil
}

// Close releases the underlying connection pool
func (s *KVStore) Close() error {
	return s.db.Close()
}

var _ ports.Storage = (*KVStore)(nil)
