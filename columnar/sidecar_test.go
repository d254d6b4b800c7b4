package columnar

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{objects: make(map[string][]byte)} }

func (s *fakeStore) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func TestWriteChunkWritesBothParquetAndSidecar(t *testing.T) {
	store := newFakeStore()
	side := Sidecar{MinTimestampUnixSeconds: 100, MaxTimestampUnixSeconds: 200, RowsWritten: 3}

	parquetKey, err := WriteChunk(context.Background(), store, time.Unix(1700000000, 0), []byte("parquet-bytes"), side)
	if err != nil {
		t.Fatalf("WriteChunk() error = %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if string(store.objects[parquetKey]) != "parquet-bytes" {
		t.Errorf("parquet payload mismatch")
	}

	metaKey := parquetKey + ".meta.json"
	metaBytes, ok := store.objects[metaKey]
	if !ok {
		t.Fatalf("expected a sidecar at %s", metaKey)
	}
	var decoded Sidecar
	if err := json.Unmarshal(metaBytes, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded != side {
		t.Errorf("got %+v, want %+v", decoded, side)
	}
}
