package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorePutWritesFileAndCleansUpPart(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	if err := store.Put(context.Background(), "chunks/oeuf-1.parquet", []byte("payload")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "chunks/oeuf-1.parquet"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("got %q, want %q", data, "payload")
	}
	if _, err := os.Stat(filepath.Join(dir, "chunks/oeuf-1.parquet.part")); !os.IsNotExist(err) {
		t.Errorf("expected the .part file to be gone after rename, stat err = %v", err)
	}
}

func TestLocalStorePutRespectsCanceledContext(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Put(ctx, "x.parquet", []byte("payload")); err == nil {
		t.Fatalf("expected an error from a canceled context")
	}
}
