package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckpointStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "checkpoint.json")
	store := NewCheckpointStore(path, true)
	ctx := context.Background()

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty checkpoint, got ok=%v err=%v", ok, err)
	}
	if err := store.Save(ctx, 12_345); err != nil {
		t.Fatalf("save: %v", err)
	}
	height, ok, err := store.Load(ctx)
	if err != nil || !ok || height != 12_345 {
		t.Fatalf("load mismatch: height=%d ok=%v err=%v", height, ok, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file should be renamed away, stat err=%v", err)
	}
}

func TestCheckpointStoreDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, false)

	if err := store.Save(context.Background(), 1); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("disabled store must not write, stat err=%v", err)
	}
}

func TestCheckpointStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := NewCheckpointStore(path, true).Load(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDBStateStoreNil(t *testing.T) {
	var store *DBStateStore
	if _, ok, err := store.Load(context.Background()); ok || err != nil {
		t.Fatalf("nil store should load nothing")
	}
	if err := store.Save(context.Background(), 1); err != nil {
		t.Fatalf("nil store save: %v", err)
	}
}
