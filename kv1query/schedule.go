// Package kv1query offers small read-only traversals over an already
// linked set of timetable records: resolving one journey's ordered stop
// schedule, and listing a line's journey patterns. Nothing here performs a
// second indexing pass — every lookup walks the record slices the parser,
// index and linker already built.
package kv1query

import (
	"fmt"
	"sort"

	"github.com/rbroekhoff/oeuf/augment"
	"github.com/rbroekhoff/oeuf/kv1"
)

// JourneyKey identifies one scheduled journey for the purpose of resolving
// its stop-passing schedule.
type JourneyKey struct {
	DataOwnerCode      string
	LinePlanningNumber string
	JourneyNumber      int
}

// PassingStop is one stop along a journey's resolved schedule, in visiting
// order.
type PassingStop struct {
	StopOrder                   int
	UserStopCode                string
	TargetArrivalTime            *kv1.TimeOfDay
	TargetDepartureTime          *kv1.TimeOfDay
	DistanceSinceStartOfJourney *uint32
}

// JourneySchedule resolves the ordered stop-passing schedule of the public
// journey named by key: every PublicJourneyPassingTimes row sharing its
// (data owner, line, journey number), sorted by stop order, with each
// stop's cumulative distance from the start of the journey attached via
// the same distance map the KV6 augmentation join uses.
func JourneySchedule(r *kv1.Records, key JourneyKey) ([]PassingStop, error) {
	var pj *kv1.PublicJourney
	for i := range r.PublicJourneys {
		if r.PublicJourneys[i].Key.DataOwnerCode == key.DataOwnerCode &&
			r.PublicJourneys[i].Key.LinePlanningNumber == key.LinePlanningNumber &&
			r.PublicJourneys[i].Key.JourneyNumber == key.JourneyNumber {
			pj = &r.PublicJourneys[i]
			break
		}
	}
	if pj == nil {
		return nil, fmt.Errorf("kv1query: no public journey %+v", key)
	}

	var stops []PassingStop
	for _, pp := range r.PublicJourneyPassingTimes {
		if pp.Key.DataOwnerCode == key.DataOwnerCode &&
			pp.Key.LinePlanningNumber == key.LinePlanningNumber &&
			pp.Key.JourneyNumber == key.JourneyNumber {
			stops = append(stops, PassingStop{
				StopOrder:           pp.Key.StopOrder,
				UserStopCode:        pp.UserStopCode,
				TargetArrivalTime:   pp.TargetArrivalTime,
				TargetDepartureTime: pp.TargetDepartureTime,
			})
		}
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].StopOrder < stops[j].StopOrder })

	dm := augment.BuildDistanceMap(r)
	bjk := augment.BasicJourneyKey{
		DataOwnerCode:      key.DataOwnerCode,
		LinePlanningNumber: key.LinePlanningNumber,
		JourneyNumber:      uint32(key.JourneyNumber),
	}
	for i := range stops {
		if dist, ok := dm[augment.DistanceKey{BasicJourneyKey: bjk, UserStopCode: stops[i].UserStopCode}]; ok {
			d := dist
			stops[i].DistanceSinceStartOfJourney = &d
		}
	}
	return stops, nil
}
