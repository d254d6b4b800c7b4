package kv1query

import "github.com/rbroekhoff/oeuf/kv1"

// LineJourneyPatterns returns every journey pattern belonging to the named
// line, in the order they appear in the parsed file.
func LineJourneyPatterns(r *kv1.Records, dataOwnerCode, linePlanningNumber string) []kv1.JourneyPattern {
	var out []kv1.JourneyPattern
	for _, jopa := range r.JourneyPatterns {
		if jopa.Key.DataOwnerCode == dataOwnerCode && jopa.Key.LinePlanningNumber == linePlanningNumber {
			out = append(out, jopa)
		}
	}
	return out
}
