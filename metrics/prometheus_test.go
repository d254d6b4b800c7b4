package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPrometheusSinkExposesCountersOnMetricsEndpoint(t *testing.T) {
	sink := NewPrometheusSink()
	sink.CounterInc("kv6_records_ingested_total", map[string]string{"type": "DELAY"})
	sink.CounterInc("kv6_records_ingested_total", map[string]string{"type": "DELAY"})
	sink.HistogramObserve("kv6_chunk_rows", 250, nil)

	server := NewServer(sink)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "kv6_records_ingested_total") {
		t.Errorf("expected the counter to appear in the exposition, got:\n%s", body)
	}
	if !strings.Contains(body, "kv6_chunk_rows") {
		t.Errorf("expected the histogram to appear in the exposition, got:\n%s", body)
	}
}

func TestPrometheusSinkHealthz(t *testing.T) {
	server := NewServer(NewPrometheusSink())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
}
