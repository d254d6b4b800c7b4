package kv1

const (
	MetricFilesOKTotal       = "kv1_files_ok_total"
	MetricFilesWarningTotal  = "kv1_files_warning_total"
	MetricFilesErrorTotal    = "kv1_files_error_total"
	MetricRecordsParsedTotal = "kv1_records_parsed_total"
	MetricParseDurationSecs  = "kv1_parse_duration_seconds"
)
