// Package augment implements the KV1-to-KV6 join: resolving, for every
// KV6 position row, how far along its journey the vehicle has traveled
// (using distances derived from the KV1 timetable), and attaching the
// Amsterdam-local calendar components of the row's timestamp.
package augment

import (
	"sort"

	"github.com/rbroekhoff/oeuf/kv1"
)

// BasicJourneyKey identifies one scheduled journey, independent of which
// calendar day it actually ran.
type BasicJourneyKey struct {
	DataOwnerCode      string
	LinePlanningNumber string
	JourneyNumber      uint32
}

// DistanceKey identifies one stop along one journey.
type DistanceKey struct {
	BasicJourneyKey
	UserStopCode string
}

// DistanceMap gives the cumulative distance from the start of a journey to
// each of its stops, in the same units as KV1's Link.Distance.
type DistanceMap map[DistanceKey]uint32

// BuildDistanceMap walks every PublicJourney's journey pattern in timing-
// link order, accumulating link distances, to produce the distance to each
// stop from the start of that journey.
func BuildDistanceMap(r *kv1.Records) DistanceMap {
	dm := make(DistanceMap)

	type patternKey struct {
		linePlanningNumber string
		journeyPatternCode string
	}
	linksByPattern := make(map[patternKey][]kv1.JourneyPatternTimingLink)
	for _, l := range r.JourneyPatternTimingLinks {
		k := patternKey{l.Key.LinePlanningNumber, l.Key.JourneyPatternCode}
		linksByPattern[k] = append(linksByPattern[k], l)
	}
	for k := range linksByPattern {
		links := linksByPattern[k]
		sort.Slice(links, func(i, j int) bool { return links[i].Key.TimingLinkOrder < links[j].Key.TimingLinkOrder })
		linksByPattern[k] = links
	}

	type linkEndsKey struct {
		dataOwnerCode string
		begin, end    string
	}
	linkDistance := make(map[linkEndsKey]float64)
	for _, l := range r.Links {
		k := linkEndsKey{l.Key.DataOwnerCode, l.Key.UserStopCodeBegin, l.Key.UserStopCodeEnd}
		if _, exists := linkDistance[k]; !exists {
			linkDistance[k] = l.Distance
		}
	}

	for _, pj := range r.PublicJourneys {
		bjk := BasicJourneyKey{
			DataOwnerCode:      pj.Key.DataOwnerCode,
			LinePlanningNumber: pj.Key.LinePlanningNumber,
			JourneyNumber:      uint32(pj.Key.JourneyNumber),
		}
		links := linksByPattern[patternKey{pj.Key.LinePlanningNumber, pj.JourneyPatternCode}]
		if len(links) == 0 {
			continue
		}
		var cumulative float64
		dm[DistanceKey{bjk, links[0].UserStopCodeBegin}] = 0
		for _, l := range links {
			cumulative += linkDistance[linkEndsKey{pj.Key.DataOwnerCode, l.UserStopCodeBegin, l.UserStopCodeEnd}]
			dm[DistanceKey{bjk, l.UserStopCodeEnd}] = uint32(cumulative)
		}
	}

	return dm
}
