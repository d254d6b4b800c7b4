package kv6

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rbroekhoff/oeuf/columnar"
	"github.com/rbroekhoff/oeuf/kv1"
	"github.com/rbroekhoff/oeuf/metrics"
	"github.com/rbroekhoff/oeuf/storage"
)

// ChunkWriter buffers Records across envelopes and flushes them to the
// columnar store once per chunk boundary: as soon as MaxRows rows have
// accumulated, even in the middle of an envelope, so no chunk holds more
// than MaxRows rows; or when FlushInterval has elapsed since the last
// flush, checked only at an envelope boundary (§4.6).
type ChunkWriter struct {
	store         storage.Store
	zone          *kv1.Zone
	sink          metrics.Sink
	maxRows       int
	flushInterval time.Duration

	mu        sync.Mutex
	rows      []columnar.Row
	minTS     int64
	maxTS     int64
	lastFlush time.Time
}

const (
	DefaultMaxChunkRows    = 10000
	DefaultFlushInterval   = 5 * time.Minute
)

func NewChunkWriter(store storage.Store, zone *kv1.Zone, sink metrics.Sink, maxRows int, flushInterval time.Duration) *ChunkWriter {
	if maxRows <= 0 {
		maxRows = DefaultMaxChunkRows
	}
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	if sink == nil {
		sink = metrics.NoopSink{}
	}
	return &ChunkWriter{
		store:         store,
		zone:          zone,
		sink:          sink,
		maxRows:       maxRows,
		flushInterval: flushInterval,
		lastFlush:     time.Now(),
	}
}

// AddEnvelope appends every record from one decoded VV_TM_PUSH envelope,
// flushing each time the buffer reaches MaxRows, then flushes the rest if
// FlushInterval has elapsed since the last flush.
func (w *ChunkWriter) AddEnvelope(ctx context.Context, records []Record) error {
	for _, r := range records {
		w.mu.Lock()
		w.appendLocked(r)
		full := len(w.rows) >= w.maxRows
		w.mu.Unlock()
		if full {
			if err := w.Flush(ctx); err != nil {
				return err
			}
		}
	}
	w.mu.Lock()
	shouldFlush := len(w.rows) > 0 && time.Since(w.lastFlush) >= w.flushInterval
	w.mu.Unlock()

	if shouldFlush {
		return w.Flush(ctx)
	}
	return nil
}

func (w *ChunkWriter) appendLocked(r Record) {
	row := toColumnarRow(r)
	w.rows = append(w.rows, row)
	if w.minTS == 0 || r.TimestampUnixSeconds < w.minTS {
		w.minTS = r.TimestampUnixSeconds
	}
	if r.TimestampUnixSeconds > w.maxTS {
		w.maxTS = r.TimestampUnixSeconds
	}
	w.sink.CounterInc(MetricRecordsIngestedTotal, map[string]string{"type": string(r.Type)})
}

// Flush writes the current buffer as one chunk (Parquet + sidecar) and
// resets the accumulator, regardless of whether it was called because a
// boundary was crossed or because the caller wants a final partial flush
// at shutdown.
func (w *ChunkWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	rows := w.rows
	minTS, maxTS := w.minTS, w.maxTS
	w.rows = nil
	w.minTS, w.maxTS = 0, 0
	w.lastFlush = time.Now()
	w.mu.Unlock()

	if len(rows) == 0 {
		return nil
	}

	rec := columnar.Build(rows)
	defer rec.Release()

	data, err := columnar.WriteParquet(rec)
	if err != nil {
		return fmt.Errorf("kv6: encoding chunk: %w", err)
	}

	side := columnar.Sidecar{
		MinTimestampUnixSeconds: minTS,
		MaxTimestampUnixSeconds: maxTS,
		RowsWritten:             len(rows),
	}
	key, err := columnar.WriteChunk(ctx, w.store, time.Now(), data, side)
	if err != nil {
		return fmt.Errorf("kv6: writing chunk: %w", err)
	}

	w.sink.CounterInc(MetricChunksWrittenTotal, nil)
	w.sink.HistogramObserve(MetricChunkRows, float64(len(rows)), nil)
	_ = key
	return nil
}

func toColumnarRow(r Record) columnar.Row {
	row := columnar.Row{
		Type:                  string(r.Type),
		DataOwnerCode:         r.DataOwnerCode,
		LinePlanningNumber:    r.LinePlanningNumber,
		OperatingDayEpochDays: epochDay(r.OperatingDay),
		JourneyNumber:         r.JourneyNumber,
		ReinforcementNumber:   r.ReinforcementNumber,
		TimestampUnixSeconds:  r.TimestampUnixSeconds,
		Source:                r.Source,
	}
	if r.Has(FieldPunctuality) {
		v := r.Punctuality
		row.Punctuality = &v
	}
	if r.Has(FieldUserStopCode) {
		v := r.UserStopCode
		row.UserStopCode = &v
	}
	if r.Has(FieldPassageSequenceNumber) {
		v := r.PassageSequenceNumber
		row.PassageSequenceNumber = &v
	}
	if r.Has(FieldVehicleNumber) {
		v := r.VehicleNumber
		row.VehicleNumber = &v
	}
	if r.Has(FieldBlockCode) {
		v := r.BlockCode
		row.BlockCode = &v
	}
	if r.Has(FieldWheelchairAccessible) {
		v := r.WheelchairAccessible
		row.WheelchairAccessible = &v
	}
	if r.Has(FieldNumberOfCoaches) {
		v := r.NumberOfCoaches
		row.NumberOfCoaches = &v
	}
	if r.Has(FieldRDY) {
		v := r.Position.Y
		row.RDY = &v
	}
	if r.Has(FieldRDX) {
		v := r.Position.X
		row.RDX = &v
	}
	if r.Has(FieldDistanceSinceLastUserStop) {
		v := r.DistanceSinceLastUserStop
		row.DistanceSinceLastUserStop = &v
	}
	return row
}

func epochDay(dateStr string) int32 {
	if dateStr == "" {
		return 0
	}
	d, err := kv1.ParseYYYYMMDD(dateStr)
	if err != nil {
		return 0
	}
	days := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return int32(days)
}
