package kv1

import "golang.org/x/sync/errgroup"

// resolve looks up key in m and returns a freshly boxed copy of its index,
// or nil when unresolved. Never returns a pointer into map-internal
// storage — Ref values must remain valid after the index is discarded.
func resolve[K comparable](m map[K]int, key K) Ref {
	if i, ok := m[key]; ok {
		v := i
		return &v
	}
	return nil
}

// LinkRecords populates every ResolvedXxx field across all 29 record
// tables by deriving each foreign-key tuple from the owning record's own
// key and attributes and looking it up in idx. An optional FK field is
// only looked up when its source attribute is non-empty — an empty string
// is never looked up, it always resolves to nil. Each record type's pass
// is independent of every other type's (all of them only read idx, which
// is fully built before LinkRecords is called), so they run concurrently.
func LinkRecords(r *Records, idx *Index) error {
	var g errgroup.Group

	g.Go(func() error {
		for i := range r.HigherOrganizationalUnits {
			v := &r.HigherOrganizationalUnits[i]
			v.ResolvedParent = resolve(idx.OrganizationalUnits, OrganizationalUnitKey{v.Key.DataOwnerCode, v.Key.OrganizationalUnitCodeParent})
			v.ResolvedChild = resolve(idx.OrganizationalUnits, OrganizationalUnitKey{v.Key.DataOwnerCode, v.Key.OrganizationalUnitCodeChild})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.UserStopPoints {
			v := &r.UserStopPoints[i]
			if v.UserStopAreaCode != "" {
				v.ResolvedUserStopArea = resolve(idx.UserStopAreas, UserStopAreaKey{v.Key.DataOwnerCode, v.UserStopAreaCode})
			}
			v.ResolvedPoint = resolve(idx.Points, PointKey{v.Key.DataOwnerCode, v.Key.UserStopCode})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.TimingLinks {
			v := &r.TimingLinks[i]
			v.ResolvedUserStopBegin = resolve(idx.UserStopPoints, UserStopPointKey{v.Key.DataOwnerCode, v.Key.UserStopCodeBegin})
			v.ResolvedUserStopEnd = resolve(idx.UserStopPoints, UserStopPointKey{v.Key.DataOwnerCode, v.Key.UserStopCodeEnd})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.Links {
			v := &r.Links[i]
			v.ResolvedUserStopBegin = resolve(idx.UserStopPoints, UserStopPointKey{v.Key.DataOwnerCode, v.Key.UserStopCodeBegin})
			v.ResolvedUserStopEnd = resolve(idx.UserStopPoints, UserStopPointKey{v.Key.DataOwnerCode, v.Key.UserStopCodeEnd})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.Lines {
			v := &r.Lines[i]
			if v.LineIcon != nil {
				v.ResolvedLineIcon = resolve(idx.Icons, IconKey{v.Key.DataOwnerCode, *v.LineIcon})
			}
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.JourneyPatterns {
			v := &r.JourneyPatterns[i]
			v.ResolvedLine = resolve(idx.Lines, LineKey{v.Key.DataOwnerCode, v.Key.LinePlanningNumber})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.ConcessionFinancerRelations {
			v := &r.ConcessionFinancerRelations[i]
			v.ResolvedConcessionArea = resolve(idx.ConcessionAreas, ConcessionAreaKey{v.Key.DataOwnerCode, v.ConcessionAreaCode})
			if v.FinancerCode != "" {
				v.ResolvedFinancer = resolve(idx.Financers, FinancerKey{v.Key.DataOwnerCode, v.FinancerCode})
			}
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.JourneyPatternTimingLinks {
			v := &r.JourneyPatternTimingLinks[i]
			dataOwner := v.Key.DataOwnerCode
			v.ResolvedLine = resolve(idx.Lines, LineKey{dataOwner, v.Key.LinePlanningNumber})
			v.ResolvedJourneyPattern = resolve(idx.JourneyPatterns, JourneyPatternKey{dataOwner, v.Key.LinePlanningNumber, v.Key.JourneyPatternCode})
			v.ResolvedUserStopBegin = resolve(idx.UserStopPoints, UserStopPointKey{dataOwner, v.UserStopCodeBegin})
			v.ResolvedUserStopEnd = resolve(idx.UserStopPoints, UserStopPointKey{dataOwner, v.UserStopCodeEnd})
			if v.ConFinRelCode != "" {
				v.ResolvedConFinRel = resolve(idx.ConcessionFinancerRelations, ConcessionFinancerRelationKey{dataOwner, v.ConFinRelCode})
			}
			if v.DestCode != "" {
				v.ResolvedDest = resolve(idx.Destinations, DestinationKey{dataOwner, v.DestCode})
			}
			if v.LineDestIcon != nil {
				v.ResolvedLineDestIcon = resolve(idx.Icons, IconKey{dataOwner, *v.LineDestIcon})
			}
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.PointOnLinks {
			v := &r.PointOnLinks[i]
			v.ResolvedUserStopBegin = resolve(idx.UserStopPoints, UserStopPointKey{v.Key.DataOwnerCode, v.Key.UserStopCodeBegin})
			v.ResolvedUserStopEnd = resolve(idx.UserStopPoints, UserStopPointKey{v.Key.DataOwnerCode, v.Key.UserStopCodeEnd})
			v.ResolvedPoint = resolve(idx.Points, PointKey{v.Key.PointDataOwnerCode, v.Key.PointCode})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.TimeDemandGroups {
			v := &r.TimeDemandGroups[i]
			v.ResolvedLine = resolve(idx.Lines, LineKey{v.Key.DataOwnerCode, v.Key.LinePlanningNumber})
			v.ResolvedJourneyPattern = resolve(idx.JourneyPatterns, JourneyPatternKey{v.Key.DataOwnerCode, v.Key.LinePlanningNumber, v.Key.JourneyPatternCode})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.TimeDemandGroupRunTimes {
			v := &r.TimeDemandGroupRunTimes[i]
			dataOwner := v.Key.DataOwnerCode
			v.ResolvedLine = resolve(idx.Lines, LineKey{dataOwner, v.Key.LinePlanningNumber})
			v.ResolvedUserStopBegin = resolve(idx.UserStopPoints, UserStopPointKey{dataOwner, v.UserStopCodeBegin})
			v.ResolvedUserStopEnd = resolve(idx.UserStopPoints, UserStopPointKey{dataOwner, v.UserStopCodeEnd})
			v.ResolvedJourneyPattern = resolve(idx.JourneyPatterns, JourneyPatternKey{dataOwner, v.Key.LinePlanningNumber, v.Key.JourneyPatternCode})
			v.ResolvedTimeDemandGroup = resolve(idx.TimeDemandGroups, TimeDemandGroupKey{dataOwner, v.Key.LinePlanningNumber, v.Key.JourneyPatternCode, v.Key.TimeDemandGroupCode})
			v.ResolvedJourneyPatternTimingLink = resolve(idx.JourneyPatternTimingLinks, JourneyPatternTimingLinkKey{dataOwner, v.Key.LinePlanningNumber, v.Key.JourneyPatternCode, v.Key.TimingLinkOrder})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.TimetableVersions {
			v := &r.TimetableVersions[i]
			v.ResolvedOrganizationalUnit = resolve(idx.OrganizationalUnits, OrganizationalUnitKey{v.Key.DataOwnerCode, v.Key.OrganizationalUnitCode})
			v.ResolvedPeriodGroup = resolve(idx.PeriodGroups, PeriodGroupKey{v.Key.DataOwnerCode, v.Key.PeriodGroupCode})
			v.ResolvedSpecificDay = resolve(idx.SpecificDays, SpecificDayKey{v.Key.DataOwnerCode, v.Key.SpecificDayCode})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.PublicJourneys {
			v := &r.PublicJourneys[i]
			dataOwner := v.Key.DataOwnerCode
			v.ResolvedTimetableVersion = resolve(idx.TimetableVersions, TimetableVersionKey{dataOwner, v.Key.OrganizationalUnitCode, v.Key.TimetableVersionCode, v.Key.PeriodGroupCode, v.Key.SpecificDayCode})
			v.ResolvedOrganizationalUnit = resolve(idx.OrganizationalUnits, OrganizationalUnitKey{dataOwner, v.Key.OrganizationalUnitCode})
			v.ResolvedPeriodGroup = resolve(idx.PeriodGroups, PeriodGroupKey{dataOwner, v.Key.PeriodGroupCode})
			v.ResolvedSpecificDay = resolve(idx.SpecificDays, SpecificDayKey{dataOwner, v.Key.SpecificDayCode})
			v.ResolvedLine = resolve(idx.Lines, LineKey{dataOwner, v.Key.LinePlanningNumber})
			v.ResolvedTimeDemandGroup = resolve(idx.TimeDemandGroups, TimeDemandGroupKey{dataOwner, v.Key.LinePlanningNumber, v.JourneyPatternCode, v.TimeDemandGroupCode})
			v.ResolvedJourneyPattern = resolve(idx.JourneyPatterns, JourneyPatternKey{dataOwner, v.Key.LinePlanningNumber, v.JourneyPatternCode})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.PeriodGroupValidities {
			v := &r.PeriodGroupValidities[i]
			v.ResolvedOrganizationalUnit = resolve(idx.OrganizationalUnits, OrganizationalUnitKey{v.Key.DataOwnerCode, v.Key.OrganizationalUnitCode})
			v.ResolvedPeriodGroup = resolve(idx.PeriodGroups, PeriodGroupKey{v.Key.DataOwnerCode, v.Key.PeriodGroupCode})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.ExceptionalOperatingDays {
			v := &r.ExceptionalOperatingDays[i]
			v.ResolvedOrganizationalUnit = resolve(idx.OrganizationalUnits, OrganizationalUnitKey{v.Key.DataOwnerCode, v.Key.OrganizationalUnitCode})
			if v.SpecificDayCode != "" {
				v.ResolvedSpecificDay = resolve(idx.SpecificDays, SpecificDayKey{v.Key.DataOwnerCode, v.SpecificDayCode})
			}
			if v.PeriodGroupCode != "" {
				v.ResolvedPeriodGroup = resolve(idx.PeriodGroups, PeriodGroupKey{v.Key.DataOwnerCode, v.PeriodGroupCode})
			}
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.ScheduleVersions {
			v := &r.ScheduleVersions[i]
			v.ResolvedOrganizationalUnit = resolve(idx.OrganizationalUnits, OrganizationalUnitKey{v.Key.DataOwnerCode, v.Key.OrganizationalUnitCode})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.PublicJourneyPassingTimes {
			v := &r.PublicJourneyPassingTimes[i]
			dataOwner := v.Key.DataOwnerCode
			v.ResolvedOrganizationalUnit = resolve(idx.OrganizationalUnits, OrganizationalUnitKey{dataOwner, v.Key.OrganizationalUnitCode})
			v.ResolvedScheduleVersion = resolve(idx.ScheduleVersions, ScheduleVersionKey{dataOwner, v.Key.OrganizationalUnitCode, v.Key.ScheduleCode, v.Key.ScheduleTypeCode})
			v.ResolvedLine = resolve(idx.Lines, LineKey{dataOwner, v.Key.LinePlanningNumber})
			v.ResolvedJourneyPattern = resolve(idx.JourneyPatterns, JourneyPatternKey{dataOwner, v.Key.LinePlanningNumber, v.JourneyPatternCode})
			v.ResolvedUserStop = resolve(idx.UserStopPoints, UserStopPointKey{dataOwner, v.UserStopCode})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.OperatingDays {
			v := &r.OperatingDays[i]
			v.ResolvedOrganizationalUnit = resolve(idx.OrganizationalUnits, OrganizationalUnitKey{v.Key.DataOwnerCode, v.Key.OrganizationalUnitCode})
			v.ResolvedScheduleVersion = resolve(idx.ScheduleVersions, ScheduleVersionKey{v.Key.DataOwnerCode, v.Key.OrganizationalUnitCode, v.Key.ScheduleCode, v.Key.ScheduleTypeCode})
		}
		return nil
	})

	g.Go(func() error {
		for i := range r.NoticeAssignments {
			v := &r.NoticeAssignments[i]
			v.ResolvedNotice = resolve(idx.Notices, NoticeKey{v.DataOwnerCode, v.NoticeCode})
		}
		return nil
	})

	return g.Wait()
}
