package kv1query

import (
	"testing"

	"github.com/rbroekhoff/oeuf/kv1"
)

func buildJourneyFixture() *kv1.Records {
	r := &kv1.Records{}
	r.PublicJourneys = append(r.PublicJourneys, kv1.PublicJourney{
		Key: kv1.PublicJourneyKey{DataOwnerCode: "CXX", LinePlanningNumber: "1", JourneyNumber: 42},
	})
	r.PublicJourneyPassingTimes = append(r.PublicJourneyPassingTimes,
		kv1.PublicJourneyPassingTimes{
			Key:          kv1.PublicJourneyPassingTimesKey{DataOwnerCode: "CXX", LinePlanningNumber: "1", JourneyNumber: 42, StopOrder: 2},
			UserStopCode: "1001",
		},
		kv1.PublicJourneyPassingTimes{
			Key:          kv1.PublicJourneyPassingTimesKey{DataOwnerCode: "CXX", LinePlanningNumber: "1", JourneyNumber: 42, StopOrder: 1},
			UserStopCode: "1000",
		},
	)
	return r
}

func TestJourneyScheduleOrdersByStopOrder(t *testing.T) {
	r := buildJourneyFixture()
	stops, err := JourneySchedule(r, JourneyKey{DataOwnerCode: "CXX", LinePlanningNumber: "1", JourneyNumber: 42})
	if err != nil {
		t.Fatalf("JourneySchedule() error = %v", err)
	}
	if len(stops) != 2 {
		t.Fatalf("got %d stops, want 2", len(stops))
	}
	if stops[0].UserStopCode != "1000" || stops[1].UserStopCode != "1001" {
		t.Errorf("unexpected stop order: %+v", stops)
	}
}

func TestJourneyScheduleUnknownJourneyIsError(t *testing.T) {
	r := buildJourneyFixture()
	if _, err := JourneySchedule(r, JourneyKey{DataOwnerCode: "CXX", LinePlanningNumber: "1", JourneyNumber: 999}); err == nil {
		t.Fatalf("expected an error for an unknown journey")
	}
}

func TestLineJourneyPatternsFiltersByLine(t *testing.T) {
	r := &kv1.Records{}
	r.JourneyPatterns = append(r.JourneyPatterns,
		kv1.JourneyPattern{Key: kv1.JourneyPatternKey{DataOwnerCode: "CXX", LinePlanningNumber: "1", JourneyPatternCode: "P1"}},
		kv1.JourneyPattern{Key: kv1.JourneyPatternKey{DataOwnerCode: "CXX", LinePlanningNumber: "2", JourneyPatternCode: "P2"}},
	)
	got := LineJourneyPatterns(r, "CXX", "1")
	if len(got) != 1 || got[0].Key.JourneyPatternCode != "P1" {
		t.Errorf("unexpected patterns: %+v", got)
	}
}
