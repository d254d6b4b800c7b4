package augment

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/rbroekhoff/oeuf/columnar"
	"github.com/rbroekhoff/oeuf/kv1"
)

func dateToTime(d kv1.Date) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Apply reads the base-schema columns of rec row by row and returns a new
// record built against columnar.AugmentedSchema: the original 18 columns
// plus distance_since_start_of_journey, timestamp_iso_day_of_week,
// timestamp_date and timestamp_local_time. Nothing in rec is mutated;
// Arrow records are immutable once built.
func Apply(rec arrow.Record, dm DistanceMap, zone *kv1.Zone) (arrow.Record, error) {
	dataOwner, ok := rec.Column(1).(*array.String)
	if !ok {
		return nil, fmt.Errorf("augment: column 1 is not a string array")
	}
	linePlanning, ok := rec.Column(2).(*array.String)
	if !ok {
		return nil, fmt.Errorf("augment: column 2 is not a string array")
	}
	journeyNumber, ok := rec.Column(4).(*array.Uint32)
	if !ok {
		return nil, fmt.Errorf("augment: column 4 is not a uint32 array")
	}
	timestampCol, ok := rec.Column(6).(*array.Timestamp)
	if !ok {
		return nil, fmt.Errorf("augment: column 6 is not a timestamp array")
	}
	userStopCode, ok := rec.Column(9).(*array.String)
	if !ok {
		return nil, fmt.Errorf("augment: column 9 is not a string array")
	}
	distanceSinceLastStop, ok := rec.Column(17).(*array.Uint32)
	if !ok {
		return nil, fmt.Errorf("augment: column 17 is not a uint32 array")
	}

	pool := memory.NewGoAllocator()
	distanceBuilder := array.NewUint32Builder(pool)
	dowBuilder := array.NewInt64Builder(pool)
	dateBuilder := array.NewDate32Builder(pool)
	localTimeBuilder := array.NewTime32Builder(pool, arrow.FixedWidthTypes.Time32s.(*arrow.Time32Type))
	defer distanceBuilder.Release()
	defer dowBuilder.Release()
	defer dateBuilder.Release()
	defer localTimeBuilder.Release()

	n := int(rec.NumRows())
	for i := 0; i < n; i++ {
		key := DistanceKey{
			BasicJourneyKey: BasicJourneyKey{
				DataOwnerCode:      dataOwner.Value(i),
				LinePlanningNumber: linePlanning.Value(i),
				JourneyNumber:      journeyNumber.Value(i),
			},
		}
		if userStopCode.IsValid(i) {
			key.UserStopCode = userStopCode.Value(i)
		}
		if startDist, found := dm[key]; found && distanceSinceLastStop.IsValid(i) {
			distanceBuilder.Append(distanceSinceLastStop.Value(i) + startDist)
		} else {
			distanceBuilder.AppendNull()
		}

		unixSeconds := int64(timestampCol.Value(i))
		dow, date, secondsSinceMidnight := kv1.LocalCalendar(unixSeconds, zone)
		dowBuilder.Append(dow)
		dateBuilder.Append(arrow.Date32FromTime(dateToTime(date)))
		localTimeBuilder.Append(arrow.Time32(secondsSinceMidnight))
	}

	cols := append(append([]arrow.Array{}, columnsOf(rec)...),
		distanceBuilder.NewArray(), dowBuilder.NewArray(), dateBuilder.NewArray(), localTimeBuilder.NewArray())

	return array.NewRecord(columnar.AugmentedSchema, cols, rec.NumRows()), nil
}

func columnsOf(rec arrow.Record) []arrow.Array {
	cols := make([]arrow.Array, rec.NumCols())
	for i := range cols {
		cols[i] = rec.Column(i)
	}
	return cols
}
