package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"neurosym/domain/core"
	"neurosym/internal/errors"
	"neurosym/ports"
)

// FileStore writes each key as one file under a root directory. Keys may
// contain slashes, which become subdirectories. Writes go through a
// temporary file and an atomic rename so concurrent readers never observe
// a partial value.
type FileStore struct {
	root string
}

// NewFileStore creates a file-backed store rooted at dir
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create storage root %s", dir)
	}
	return &FileStore{root: dir}, nil
}

// Put writes value under key, overwriting any previous value
func (f *FileStore) Put(_ context.Context, key string, value []byte) error {
	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for key %s", key)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return errors.Wrapf(err, "stage write for key %s", key)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write key %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "close staged write for key %s", key)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "commit key %s", key)
	}
	return nil
}

// Get reads the value stored under key
func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, core.NewNotFoundError("key", key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read key %s", key)
	}
	return data, nil
}

// List returns the stored keys with the given prefix, sorted
func (f *FileStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.Walk(f.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list keys with prefix %s", prefix)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.root, filepath.FromSlash(key))
}

var _ ports.Storage = (*FileStore)(nil)
