package kv6

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rbroekhoff/oeuf/kv1"
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

func (s *fakeStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ks []string
	for k := range s.objects {
		ks = append(ks, k)
	}
	return ks
}

func newTestRecord(journeyNumber uint32, ts int64) Record {
	r := Record{
		Type:                 Init,
		DataOwnerCode:        "CXX",
		LinePlanningNumber:   "1",
		OperatingDay:         "2026-03-05",
		JourneyNumber:        journeyNumber,
		TimestampUnixSeconds: ts,
		Source:               "VEHICLE",
	}
	r.Presence = RequiredMask(Init)
	return r
}

func TestChunkWriterFlushesAtMaxRows(t *testing.T) {
	store := newFakeStore()
	zone, _ := kv1.NewZone()
	w := NewChunkWriter(store, zone, nil, 2, time.Hour)

	if err := w.AddEnvelope(context.Background(), []Record{newTestRecord(1, 100), newTestRecord(2, 200)}); err != nil {
		t.Fatalf("AddEnvelope returned error: %v", err)
	}

	hasParquet := false
	for _, k := range store.keys() {
		if strings.HasSuffix(k, ".parquet") {
			hasParquet = true
		}
	}
	if !hasParquet {
		t.Fatalf("expected a chunk to have been flushed at the row threshold, got keys %v", store.keys())
	}
}

func TestChunkWriterDoesNotFlushBelowThreshold(t *testing.T) {
	store := newFakeStore()
	zone, _ := kv1.NewZone()
	w := NewChunkWriter(store, zone, nil, 10, time.Hour)

	if err := w.AddEnvelope(context.Background(), []Record{newTestRecord(1, 100)}); err != nil {
		t.Fatalf("AddEnvelope returned error: %v", err)
	}
	if len(store.keys()) != 0 {
		t.Fatalf("expected no flush before the row threshold, got keys %v", store.keys())
	}
}

func TestChunkWriterFlushWritesSidecar(t *testing.T) {
	store := newFakeStore()
	zone, _ := kv1.NewZone()
	w := NewChunkWriter(store, zone, nil, 100, time.Hour)

	if err := w.AddEnvelope(context.Background(), []Record{newTestRecord(1, 100)}); err != nil {
		t.Fatalf("AddEnvelope returned error: %v", err)
	}
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}

	hasMeta := false
	for _, k := range store.keys() {
		if strings.HasSuffix(k, ".meta.json") {
			hasMeta = true
		}
	}
	if !hasMeta {
		t.Fatalf("expected a .meta.json sidecar, got keys %v", store.keys())
	}
}
