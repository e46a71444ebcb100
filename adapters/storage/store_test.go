package storage

import (
	"context"
	"testing"

	"neurosym/domain/core"
	"neurosym/ports"
)

// storeUnderTest runs the contract checks shared by both backends
func storeUnderTest(t *testing.T, store ports.Storage) {
	t.Helper()
	ctx := context.Background()

	if err := store.Put(ctx, "runs/a/record.json", []byte("first")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "runs/b/record.json", []byte("second")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "batches/x/report.md", []byte("report")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, err := store.Get(ctx, "runs/a/record.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != "first" {
		t.Errorf("Get = %q, expected %q", value, "first")
	}

	// Overwrite
	if err := store.Put(ctx, "runs/a/record.json", []byte("updated")); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	value, err = store.Get(ctx, "runs/a/record.json")
	if err != nil {
		t.Fatalf("Get after overwrite failed: %v", err)
	}
	if string(value) != "updated" {
		t.Errorf("Get after overwrite = %q", value)
	}

	// Missing key
	if _, err := store.Get(ctx, "runs/missing"); !core.IsNotFoundError(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}

	// Prefix listing, sorted
	keys, err := store.List(ctx, "runs/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "runs/a/record.json" || keys[1] != "runs/b/record.json" {
		t.Errorf("List = %v", keys)
	}
}

// TestMemStore_Contract exercises the storage contract in memory
func TestMemStore_Contract(t *testing.T) {
	storeUnderTest(t, NewMemStore())
}

// TestFileStore_Contract exercises the storage contract on disk
func TestFileStore_Contract(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	storeUnderTest(t, store)
}

// TestMemStore_DefensiveCopies verifies callers cannot mutate stored values
// through the slices they hold.
func TestMemStore_DefensiveCopies(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	original := []byte("payload")
	if err := store.Put(ctx, "k", original); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	original[0] = 'X'

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Stored value mutated through caller slice: %q", got)
	}

	got[0] = 'Y'
	again, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(again) != "payload" {
		t.Errorf("Stored value mutated through returned slice: %q", again)
	}
}
