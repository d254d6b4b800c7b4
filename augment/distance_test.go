package augment

import (
	"testing"

	"github.com/rbroekhoff/oeuf/kv1"
)

func buildTestRecords() *kv1.Records {
	r := &kv1.Records{}
	r.Links = append(r.Links, kv1.Link{
		Key: kv1.LinkKey{
			DataOwnerCode:     "CXX",
			UserStopCodeBegin: "1000",
			UserStopCodeEnd:   "1001",
		},
		Distance: 500,
	})
	r.Links = append(r.Links, kv1.Link{
		Key: kv1.LinkKey{
			DataOwnerCode:     "CXX",
			UserStopCodeBegin: "1001",
			UserStopCodeEnd:   "1002",
		},
		Distance: 300,
	})
	r.JourneyPatternTimingLinks = append(r.JourneyPatternTimingLinks, kv1.JourneyPatternTimingLink{
		Key: kv1.JourneyPatternTimingLinkKey{
			LinePlanningNumber: "1",
			JourneyPatternCode: "P1",
			TimingLinkOrder:    1,
		},
		UserStopCodeBegin: "1000",
		UserStopCodeEnd:   "1001",
	})
	r.JourneyPatternTimingLinks = append(r.JourneyPatternTimingLinks, kv1.JourneyPatternTimingLink{
		Key: kv1.JourneyPatternTimingLinkKey{
			LinePlanningNumber: "1",
			JourneyPatternCode: "P1",
			TimingLinkOrder:    2,
		},
		UserStopCodeBegin: "1001",
		UserStopCodeEnd:   "1002",
	})
	r.PublicJourneys = append(r.PublicJourneys, kv1.PublicJourney{
		Key: kv1.PublicJourneyKey{
			DataOwnerCode:      "CXX",
			LinePlanningNumber: "1",
			JourneyNumber:      42,
		},
		JourneyPatternCode: "P1",
	})
	return r
}

func TestBuildDistanceMapAccumulatesAlongJourney(t *testing.T) {
	dm := BuildDistanceMap(buildTestRecords())
	bjk := BasicJourneyKey{DataOwnerCode: "CXX", LinePlanningNumber: "1", JourneyNumber: 42}

	cases := []struct {
		stop string
		want uint32
	}{
		{"1000", 0},
		{"1001", 500},
		{"1002", 800},
	}
	for _, c := range cases {
		got, ok := dm[DistanceKey{bjk, c.stop}]
		if !ok {
			t.Fatalf("stop %s: not found in distance map", c.stop)
		}
		if got != c.want {
			t.Errorf("stop %s: got %d, want %d", c.stop, got, c.want)
		}
	}
}

func TestBuildDistanceMapSkipsJourneysWithUnknownPattern(t *testing.T) {
	r := buildTestRecords()
	r.PublicJourneys = append(r.PublicJourneys, kv1.PublicJourney{
		Key: kv1.PublicJourneyKey{
			DataOwnerCode:      "CXX",
			LinePlanningNumber: "1",
			JourneyNumber:      99,
		},
		JourneyPatternCode: "MISSING",
	})
	dm := BuildDistanceMap(r)
	bjk := BasicJourneyKey{DataOwnerCode: "CXX", LinePlanningNumber: "1", JourneyNumber: 99}
	if _, ok := dm[DistanceKey{bjk, "1000"}]; ok {
		t.Fatalf("expected no distance entries for a journey referencing an unknown pattern")
	}
}
