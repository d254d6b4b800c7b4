package kv6

// Metric names emitted by this package's components. Centralized here so
// the exposition endpoint's metric catalogue has one place to look.
const (
	MetricRecordsIngestedTotal = "kv6_records_ingested_total"
	MetricChunksWrittenTotal   = "kv6_chunks_written_total"
	MetricChunkRows            = "kv6_chunk_rows"
	MetricValidationErrorsTotal = "kv6_validation_errors_total"
)
