package kv1

// Index holds a hashed composite-key lookup per record type, built once
// from a parsed Records table. NoticeAssignment carries no key and is
// deliberately excluded — the size invariant (§8, property 3) is
// Index.Size() + len(Records.NoticeAssignments) == Records.Total().
type Index struct {
	OrganizationalUnits        map[OrganizationalUnitKey]int
	HigherOrganizationalUnits  map[HigherOrganizationalUnitKey]int
	UserStopPoints             map[UserStopPointKey]int
	UserStopAreas              map[UserStopAreaKey]int
	TimingLinks                map[TimingLinkKey]int
	Links                      map[LinkKey]int
	Lines                      map[LineKey]int
	Destinations               map[DestinationKey]int
	JourneyPatterns            map[JourneyPatternKey]int
	ConcessionFinancerRelations map[ConcessionFinancerRelationKey]int
	ConcessionAreas            map[ConcessionAreaKey]int
	Financers                  map[FinancerKey]int
	JourneyPatternTimingLinks  map[JourneyPatternTimingLinkKey]int
	Points                     map[PointKey]int
	PointOnLinks               map[PointOnLinkKey]int
	Icons                      map[IconKey]int
	Notices                    map[NoticeKey]int
	TimeDemandGroups           map[TimeDemandGroupKey]int
	TimeDemandGroupRunTimes    map[TimeDemandGroupRunTimeKey]int
	PeriodGroups               map[PeriodGroupKey]int
	SpecificDays               map[SpecificDayKey]int
	TimetableVersions          map[TimetableVersionKey]int
	PublicJourneys             map[PublicJourneyKey]int
	PeriodGroupValidities      map[PeriodGroupValidityKey]int
	ExceptionalOperatingDays   map[ExceptionalOperatingDayKey]int
	ScheduleVersions           map[ScheduleVersionKey]int
	PublicJourneyPassingTimes  map[PublicJourneyPassingTimesKey]int
	OperatingDays              map[OperatingDayKey]int

	// DuplicateKeys counts, per record type name, how many rows were
	// overwritten by a later row sharing the same composite key
	// (last-write-wins; see DESIGN.md open question 3).
	DuplicateKeys map[string]int
}

func buildIndex[K comparable](m map[K]int, dup *int, key K, i int) {
	if _, exists := m[key]; exists {
		*dup++
	}
	m[key] = i
}

// BuildIndex constructs the full composite-key index over r. On a duplicate
// key within a type, the later row wins and DuplicateKeys[typeName] is
// incremented — duplicates are surfaced, never silently absorbed.
func BuildIndex(r *Records) *Index {
	idx := &Index{
		OrganizationalUnits:         make(map[OrganizationalUnitKey]int, len(r.OrganizationalUnits)),
		HigherOrganizationalUnits:   make(map[HigherOrganizationalUnitKey]int, len(r.HigherOrganizationalUnits)),
		UserStopPoints:              make(map[UserStopPointKey]int, len(r.UserStopPoints)),
		UserStopAreas:               make(map[UserStopAreaKey]int, len(r.UserStopAreas)),
		TimingLinks:                 make(map[TimingLinkKey]int, len(r.TimingLinks)),
		Links:                       make(map[LinkKey]int, len(r.Links)),
		Lines:                       make(map[LineKey]int, len(r.Lines)),
		Destinations:                make(map[DestinationKey]int, len(r.Destinations)),
		JourneyPatterns:             make(map[JourneyPatternKey]int, len(r.JourneyPatterns)),
		ConcessionFinancerRelations: make(map[ConcessionFinancerRelationKey]int, len(r.ConcessionFinancerRelations)),
		ConcessionAreas:             make(map[ConcessionAreaKey]int, len(r.ConcessionAreas)),
		Financers:                   make(map[FinancerKey]int, len(r.Financers)),
		JourneyPatternTimingLinks:   make(map[JourneyPatternTimingLinkKey]int, len(r.JourneyPatternTimingLinks)),
		Points:                      make(map[PointKey]int, len(r.Points)),
		PointOnLinks:                make(map[PointOnLinkKey]int, len(r.PointOnLinks)),
		Icons:                       make(map[IconKey]int, len(r.Icons)),
		Notices:                     make(map[NoticeKey]int, len(r.Notices)),
		TimeDemandGroups:            make(map[TimeDemandGroupKey]int, len(r.TimeDemandGroups)),
		TimeDemandGroupRunTimes:     make(map[TimeDemandGroupRunTimeKey]int, len(r.TimeDemandGroupRunTimes)),
		PeriodGroups:                make(map[PeriodGroupKey]int, len(r.PeriodGroups)),
		SpecificDays:                make(map[SpecificDayKey]int, len(r.SpecificDays)),
		TimetableVersions:           make(map[TimetableVersionKey]int, len(r.TimetableVersions)),
		PublicJourneys:              make(map[PublicJourneyKey]int, len(r.PublicJourneys)),
		PeriodGroupValidities:       make(map[PeriodGroupValidityKey]int, len(r.PeriodGroupValidities)),
		ExceptionalOperatingDays:    make(map[ExceptionalOperatingDayKey]int, len(r.ExceptionalOperatingDays)),
		ScheduleVersions:            make(map[ScheduleVersionKey]int, len(r.ScheduleVersions)),
		PublicJourneyPassingTimes:   make(map[PublicJourneyPassingTimesKey]int, len(r.PublicJourneyPassingTimes)),
		OperatingDays:               make(map[OperatingDayKey]int, len(r.OperatingDays)),
		DuplicateKeys:               make(map[string]int),
	}

	var d int

	d = 0
	for i, v := range r.OrganizationalUnits {
		buildIndex(idx.OrganizationalUnits, &d, v.Key, i)
	}
	idx.DuplicateKeys["OrganizationalUnit"] = d

	d = 0
	for i, v := range r.HigherOrganizationalUnits {
		buildIndex(idx.HigherOrganizationalUnits, &d, v.Key, i)
	}
	idx.DuplicateKeys["HigherOrganizationalUnit"] = d

	d = 0
	for i, v := range r.UserStopPoints {
		buildIndex(idx.UserStopPoints, &d, v.Key, i)
	}
	idx.DuplicateKeys["UserStopPoint"] = d

	d = 0
	for i, v := range r.UserStopAreas {
		buildIndex(idx.UserStopAreas, &d, v.Key, i)
	}
	idx.DuplicateKeys["UserStopArea"] = d

	d = 0
	for i, v := range r.TimingLinks {
		buildIndex(idx.TimingLinks, &d, v.Key, i)
	}
	idx.DuplicateKeys["TimingLink"] = d

	d = 0
	for i, v := range r.Links {
		buildIndex(idx.Links, &d, v.Key, i)
	}
	idx.DuplicateKeys["Link"] = d

	d = 0
	for i, v := range r.Lines {
		buildIndex(idx.Lines, &d, v.Key, i)
	}
	idx.DuplicateKeys["Line"] = d

	d = 0
	for i, v := range r.Destinations {
		buildIndex(idx.Destinations, &d, v.Key, i)
	}
	idx.DuplicateKeys["Destination"] = d

	d = 0
	for i, v := range r.JourneyPatterns {
		buildIndex(idx.JourneyPatterns, &d, v.Key, i)
	}
	idx.DuplicateKeys["JourneyPattern"] = d

	d = 0
	for i, v := range r.ConcessionFinancerRelations {
		buildIndex(idx.ConcessionFinancerRelations, &d, v.Key, i)
	}
	idx.DuplicateKeys["ConcessionFinancerRelation"] = d

	d = 0
	for i, v := range r.ConcessionAreas {
		buildIndex(idx.ConcessionAreas, &d, v.Key, i)
	}
	idx.DuplicateKeys["ConcessionArea"] = d

	d = 0
	for i, v := range r.Financers {
		buildIndex(idx.Financers, &d, v.Key, i)
	}
	idx.DuplicateKeys["Financer"] = d

	d = 0
	for i, v := range r.JourneyPatternTimingLinks {
		buildIndex(idx.JourneyPatternTimingLinks, &d, v.Key, i)
	}
	idx.DuplicateKeys["JourneyPatternTimingLink"] = d

	d = 0
	for i, v := range r.Points {
		buildIndex(idx.Points, &d, v.Key, i)
	}
	idx.DuplicateKeys["Point"] = d

	d = 0
	for i, v := range r.PointOnLinks {
		buildIndex(idx.PointOnLinks, &d, v.Key, i)
	}
	idx.DuplicateKeys["PointOnLink"] = d

	d = 0
	for i, v := range r.Icons {
		buildIndex(idx.Icons, &d, v.Key, i)
	}
	idx.DuplicateKeys["Icon"] = d

	d = 0
	for i, v := range r.Notices {
		buildIndex(idx.Notices, &d, v.Key, i)
	}
	idx.DuplicateKeys["Notice"] = d

	d = 0
	for i, v := range r.TimeDemandGroups {
		buildIndex(idx.TimeDemandGroups, &d, v.Key, i)
	}
	idx.DuplicateKeys["TimeDemandGroup"] = d

	d = 0
	for i, v := range r.TimeDemandGroupRunTimes {
		buildIndex(idx.TimeDemandGroupRunTimes, &d, v.Key, i)
	}
	idx.DuplicateKeys["TimeDemandGroupRunTime"] = d

	d = 0
	for i, v := range r.PeriodGroups {
		buildIndex(idx.PeriodGroups, &d, v.Key, i)
	}
	idx.DuplicateKeys["PeriodGroup"] = d

	d = 0
	for i, v := range r.SpecificDays {
		buildIndex(idx.SpecificDays, &d, v.Key, i)
	}
	idx.DuplicateKeys["SpecificDay"] = d

	d = 0
	for i, v := range r.TimetableVersions {
		buildIndex(idx.TimetableVersions, &d, v.Key, i)
	}
	idx.DuplicateKeys["TimetableVersion"] = d

	d = 0
	for i, v := range r.PublicJourneys {
		buildIndex(idx.PublicJourneys, &d, v.Key, i)
	}
	idx.DuplicateKeys["PublicJourney"] = d

	d = 0
	for i, v := range r.PeriodGroupValidities {
		buildIndex(idx.PeriodGroupValidities, &d, v.Key, i)
	}
	idx.DuplicateKeys["PeriodGroupValidity"] = d

	d = 0
	for i, v := range r.ExceptionalOperatingDays {
		buildIndex(idx.ExceptionalOperatingDays, &d, v.Key, i)
	}
	idx.DuplicateKeys["ExceptionalOperatingDay"] = d

	d = 0
	for i, v := range r.ScheduleVersions {
		buildIndex(idx.ScheduleVersions, &d, v.Key, i)
	}
	idx.DuplicateKeys["ScheduleVersion"] = d

	d = 0
	for i, v := range r.PublicJourneyPassingTimes {
		buildIndex(idx.PublicJourneyPassingTimes, &d, v.Key, i)
	}
	idx.DuplicateKeys["PublicJourneyPassingTimes"] = d

	d = 0
	for i, v := range r.OperatingDays {
		buildIndex(idx.OperatingDays, &d, v.Key, i)
	}
	idx.DuplicateKeys["OperatingDay"] = d

	return idx
}

// Size is the total number of entries across all 28 keyed record-type
// indexes (NoticeAssignment excluded — see the package doc comment above).
func (idx *Index) Size() int {
	return len(idx.OrganizationalUnits) + len(idx.HigherOrganizationalUnits) + len(idx.UserStopPoints) +
		len(idx.UserStopAreas) + len(idx.TimingLinks) + len(idx.Links) + len(idx.Lines) + len(idx.Destinations) +
		len(idx.JourneyPatterns) + len(idx.ConcessionFinancerRelations) + len(idx.ConcessionAreas) +
		len(idx.Financers) + len(idx.JourneyPatternTimingLinks) + len(idx.Points) + len(idx.PointOnLinks) +
		len(idx.Icons) + len(idx.Notices) + len(idx.TimeDemandGroups) + len(idx.TimeDemandGroupRunTimes) +
		len(idx.PeriodGroups) + len(idx.SpecificDays) + len(idx.TimetableVersions) + len(idx.PublicJourneys) +
		len(idx.PeriodGroupValidities) + len(idx.ExceptionalOperatingDays) + len(idx.ScheduleVersions) +
		len(idx.PublicJourneyPassingTimes) + len(idx.OperatingDays)
}
