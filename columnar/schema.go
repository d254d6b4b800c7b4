// Package columnar writes KV6 position records to Parquet using Arrow's
// columnar in-memory representation, with a JSON sidecar carrying the
// chunk's summary metadata. It is the shared output contract between the
// KV6 ingest pipeline and the KV1-augmentation join (§3.4, §4.7-4.8).
package columnar

import "github.com/apache/arrow-go/v18/arrow"

// BaseSchema is the 18-column layout every KV6 chunk is written with.
var BaseSchema = arrow.NewSchema([]arrow.Field{
	{Name: "type", Type: arrow.BinaryTypes.String},
	{Name: "data_owner_code", Type: arrow.BinaryTypes.String},
	{Name: "line_planning_number", Type: arrow.BinaryTypes.String},
	{Name: "operating_day", Type: arrow.FixedWidthTypes.Date32},
	{Name: "journey_number", Type: arrow.PrimitiveTypes.Uint32},
	{Name: "reinforcement_number", Type: arrow.PrimitiveTypes.Uint8},
	{Name: "timestamp", Type: arrow.FixedWidthTypes.Timestamp_s},
	{Name: "source", Type: arrow.BinaryTypes.String},
	{Name: "punctuality", Type: arrow.PrimitiveTypes.Int16, Nullable: true},
	{Name: "user_stop_code", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "passage_sequence_number", Type: arrow.PrimitiveTypes.Uint16, Nullable: true},
	{Name: "vehicle_number", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
	{Name: "block_code", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
	{Name: "wheelchair_accessible", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "number_of_coaches", Type: arrow.PrimitiveTypes.Uint8, Nullable: true},
	{Name: "rd_y", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	{Name: "rd_x", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	{Name: "distance_since_last_user_stop", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
}, nil)

// AugmentedSchema is BaseSchema plus the 4 columns the KV1-join adds:
// distance since the start of the journey (resolved via the KV1 distance
// map) and the 3 Amsterdam-local calendar components of the timestamp
// column (§4.7, §9.2, §10).
var AugmentedSchema = arrow.NewSchema(append(append([]arrow.Field{}, BaseSchema.Fields()...),
	arrow.Field{Name: "distance_since_start_of_journey", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
	arrow.Field{Name: "timestamp_iso_day_of_week", Type: arrow.PrimitiveTypes.Int64},
	arrow.Field{Name: "timestamp_date", Type: arrow.FixedWidthTypes.Date32},
	arrow.Field{Name: "timestamp_local_time", Type: arrow.FixedWidthTypes.Time32s},
), nil)
