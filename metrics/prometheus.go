package metrics

import (
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusSink is the concrete metrics binding used by both ingest
// binaries. Counter/histogram vectors are created lazily, keyed by name,
// the first time that name is observed — the label schema for a name is
// fixed by whichever call site uses it first.
type PrometheusSink struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

func NewPrometheusSink() *PrometheusSink {
	return &PrometheusSink{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (s *PrometheusSink) CounterInc(name string, labels map[string]string) {
	s.mu.Lock()
	c, ok := s.counters[name]
	if !ok {
		c = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name}, labelNames(labels))
		s.registry.MustRegister(c)
		s.counters[name] = c
	}
	s.mu.Unlock()
	c.With(labels).Inc()
}

func (s *PrometheusSink) HistogramObserve(name string, value float64, labels map[string]string) {
	s.mu.Lock()
	h, ok := s.histograms[name]
	if !ok {
		h = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name}, labelNames(labels))
		s.registry.MustRegister(h)
		s.histograms[name] = h
	}
	s.mu.Unlock()
	h.With(labels).Observe(value)
}

// NewServer builds the exposition HTTP server: /metrics for Prometheus
// scraping, /healthz for a liveness probe. Listening is the caller's
// responsibility (§5: run under the same cancellation context as the
// ingest pipeline).
func NewServer(sink *PrometheusSink) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(sink.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}
