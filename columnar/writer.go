package columnar

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// Row is one columnar output row in base-schema field order. Nullable
// fields are expressed as pointers; a nil pointer writes a Parquet null,
// matching the optional KV6 fields a record's presence mask cleared.
type Row struct {
	Type                      string
	DataOwnerCode             string
	LinePlanningNumber        string
	OperatingDayEpochDays     int32
	JourneyNumber             uint32
	ReinforcementNumber       uint8
	TimestampUnixSeconds      int64
	Source                    string
	Punctuality               *int16
	UserStopCode              *string
	PassageSequenceNumber     *uint16
	VehicleNumber             *uint32
	BlockCode                 *uint32
	WheelchairAccessible      *string
	NumberOfCoaches           *uint8
	RDY                       *int32
	RDX                       *int32
	DistanceSinceLastUserStop *uint32
}

// Build appends all rows onto a fresh RecordBuilder over BaseSchema and
// returns the finished Arrow record. Callers needing the augmented schema
// build a base record first and pass it through augment.Apply, which adds
// the 4 extra columns (§9.2 domain stack, §10).
func Build(rows []Row) arrow.Record {
	pool := memory.NewGoAllocator()
	b := array.NewRecordBuilder(pool, BaseSchema)
	defer b.Release()

	for _, r := range rows {
		b.Field(0).(*array.StringBuilder).Append(r.Type)
		b.Field(1).(*array.StringBuilder).Append(r.DataOwnerCode)
		b.Field(2).(*array.StringBuilder).Append(r.LinePlanningNumber)
		b.Field(3).(*array.Date32Builder).Append(arrow.Date32(r.OperatingDayEpochDays))
		b.Field(4).(*array.Uint32Builder).Append(r.JourneyNumber)
		b.Field(5).(*array.Uint8Builder).Append(r.ReinforcementNumber)
		b.Field(6).(*array.TimestampBuilder).Append(arrow.Timestamp(r.TimestampUnixSeconds))
		b.Field(7).(*array.StringBuilder).Append(r.Source)

		appendOptInt16(b.Field(8).(*array.Int16Builder), r.Punctuality)
		appendOptString(b.Field(9).(*array.StringBuilder), r.UserStopCode)
		appendOptUint16(b.Field(10).(*array.Uint16Builder), r.PassageSequenceNumber)
		appendOptUint32(b.Field(11).(*array.Uint32Builder), r.VehicleNumber)
		appendOptUint32(b.Field(12).(*array.Uint32Builder), r.BlockCode)
		appendOptString(b.Field(13).(*array.StringBuilder), r.WheelchairAccessible)
		appendOptUint8(b.Field(14).(*array.Uint8Builder), r.NumberOfCoaches)
		appendOptInt32(b.Field(15).(*array.Int32Builder), r.RDY)
		appendOptInt32(b.Field(16).(*array.Int32Builder), r.RDX)
		appendOptUint32(b.Field(17).(*array.Uint32Builder), r.DistanceSinceLastUserStop)
	}

	return b.NewRecord()
}

func appendOptInt16(b *array.Int16Builder, v *int16) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(*v)
}

func appendOptInt32(b *array.Int32Builder, v *int32) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(*v)
}

func appendOptUint8(b *array.Uint8Builder, v *uint8) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(*v)
}

func appendOptUint16(b *array.Uint16Builder, v *uint16) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(*v)
}

func appendOptUint32(b *array.Uint32Builder, v *uint32) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(*v)
}

func appendOptString(b *array.StringBuilder, v *string) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(*v)
}

// WriteParquet serializes rec (built against either BaseSchema or
// AugmentedSchema) to a Parquet buffer: Zstd compression, data page
// format v2, and row groups of at most maxRowGroupLength rows.
func WriteParquet(rec arrow.Record) ([]byte, error) {
	const maxRowGroupLength = 10000
	var buf bytes.Buffer
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Zstd),
		parquet.WithDataPageVersion(parquet.DataPageV2),
		parquet.WithMaxRowGroupLength(maxRowGroupLength),
	)
	arrowProps := pqarrow.DefaultWriterProps()

	fw, err := pqarrow.NewFileWriter(rec.Schema(), &buf, props, arrowProps)
	if err != nil {
		return nil, fmt.Errorf("columnar: creating parquet writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return nil, fmt.Errorf("columnar: writing record batch: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("columnar: closing parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
