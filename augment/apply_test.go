package augment

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/rbroekhoff/oeuf/columnar"
	"github.com/rbroekhoff/oeuf/kv1"
)

func TestApplyResolvesDistanceAndLocalCalendar(t *testing.T) {
	zone, err := kv1.NewZone()
	if err != nil {
		t.Fatalf("kv1.NewZone() error = %v", err)
	}

	userStop := "1001"
	dist := uint32(50)
	ts, err := kv1.ParseDateTime("2026-03-05T10:00:00", zone)
	if err != nil {
		t.Fatalf("ParseDateTime() error = %v", err)
	}

	base := columnar.Build([]columnar.Row{{
		Type:                      "ONROUTE",
		DataOwnerCode:             "CXX",
		LinePlanningNumber:        "1",
		OperatingDayEpochDays:     0,
		JourneyNumber:             42,
		ReinforcementNumber:       0,
		TimestampUnixSeconds:      ts,
		Source:                    "VEHICLE",
		UserStopCode:              &userStop,
		DistanceSinceLastUserStop: &dist,
	}})
	defer base.Release()

	dm := DistanceMap{
		DistanceKey{BasicJourneyKey{"CXX", "1", 42}, "1001"}: 500,
	}

	augmented, err := Apply(base, dm, zone)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	defer augmented.Release()

	if augmented.NumCols() != int64(len(columnar.AugmentedSchema.Fields())) {
		t.Fatalf("got %d columns, want %d", augmented.NumCols(), len(columnar.AugmentedSchema.Fields()))
	}
	if augmented.NumRows() != 1 {
		t.Fatalf("got %d rows, want 1", augmented.NumRows())
	}
	// 500 from the distance map plus 50 since the last stop.
	if got := augmented.Column(18).(*array.Uint32).Value(0); got != 550 {
		t.Errorf("distance_since_start_of_journey = %d, want 550", got)
	}
	// 2026-03-05 is a Thursday: ISO weekday 4, epoch day 20517; 10:00 local.
	if got := augmented.Column(19).(*array.Int64).Value(0); got != 4 {
		t.Errorf("timestamp_iso_day_of_week = %d, want 4", got)
	}
	if got := augmented.Column(20).(*array.Date32).Value(0); got != arrow.Date32(20517) {
		t.Errorf("timestamp_date = %d, want 20517", got)
	}
	if got := augmented.Column(21).(*array.Time32).Value(0); got != arrow.Time32(36000) {
		t.Errorf("timestamp_local_time = %d, want 36000", got)
	}
}

func TestApplyLeavesDistanceNullWhenUnresolved(t *testing.T) {
	zone, err := kv1.NewZone()
	if err != nil {
		t.Fatalf("kv1.NewZone() error = %v", err)
	}
	ts, err := kv1.ParseDateTime("2026-03-05T10:00:00", zone)
	if err != nil {
		t.Fatalf("ParseDateTime() error = %v", err)
	}

	base := columnar.Build([]columnar.Row{{
		Type:                  "INIT",
		DataOwnerCode:         "CXX",
		LinePlanningNumber:    "1",
		OperatingDayEpochDays: 0,
		JourneyNumber:         42,
		TimestampUnixSeconds:  ts,
		Source:                "VEHICLE",
	}})
	defer base.Release()

	augmented, err := Apply(base, DistanceMap{}, zone)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	defer augmented.Release()

	if augmented.NumRows() != 1 {
		t.Fatalf("got %d rows, want 1", augmented.NumRows())
	}
	if augmented.Column(18).IsValid(0) {
		t.Errorf("distance_since_start_of_journey is set, want null for an unresolved journey")
	}
}
