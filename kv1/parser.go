package kv1

import (
	"fmt"
)

// ParseResult is the outcome of parsing one KV1 file: the populated record
// tables, folded record-level errors, structural warnings (unknown record
// types — row skipped, not fatal) and file-global errors (bad header,
// invalid UTF-8).
type ParseResult struct {
	Records      Records
	GlobalErrors []string
	Warnings     []string
}

// cursor date/time helpers, layered on top of validate.go's cell primitives.

func (c *cursor) eatDate(field string, mandatory bool) Date {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() {
		return Date{}
	}
	if cell == "" {
		if mandatory {
			c.recordErrors = append(c.recordErrors, field+" is mandatory")
		}
		return Date{}
	}
	d, err := ParseYYYYMMDD(cell)
	if err != nil {
		c.recordErrors = append(c.recordErrors, field+": "+err.Error())
		return Date{}
	}
	return d
}

func (c *cursor) eatOptionalDate(field string) *Date {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() || cell == "" {
		return nil
	}
	d, err := ParseYYYYMMDD(cell)
	if err != nil {
		c.recordErrors = append(c.recordErrors, field+": "+err.Error())
		return nil
	}
	return &d
}

func (c *cursor) eatTime(field string, mandatory bool) TimeOfDay {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() {
		return TimeOfDay{}
	}
	if cell == "" {
		if mandatory {
			c.recordErrors = append(c.recordErrors, field+" is mandatory")
		}
		return TimeOfDay{}
	}
	t, err := ParseHHMMSS(cell)
	if err != nil {
		c.recordErrors = append(c.recordErrors, field+": "+err.Error())
		return TimeOfDay{}
	}
	return t
}

func (c *cursor) eatOptionalTime(field string) *TimeOfDay {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() || cell == "" {
		return nil
	}
	t, err := ParseHHMMSS(cell)
	if err != nil {
		c.recordErrors = append(c.recordErrors, field+": "+err.Error())
		return nil
	}
	return &t
}

func (c *cursor) eatDateTime(field string, mandatory bool, zone *Zone) int64 {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() {
		return 0
	}
	if cell == "" {
		if mandatory {
			c.recordErrors = append(c.recordErrors, field+" is mandatory")
		}
		return 0
	}
	v, err := ParseDateTime(cell, zone)
	if err != nil {
		c.recordErrors = append(c.recordErrors, field+": "+err.Error())
		return 0
	}
	return v
}

// --- per-record-type parsers. Each consumes the row's cells (the leading
// record-type cell already stripped by the dispatch loop) in field order
// and returns a populated value; ResolvedXxx fields are left zero and
// populated later by LinkRecords. ---

func parseOrganizationalUnit(c *cursor) OrganizationalUnit {
	var v OrganizationalUnit
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.OrganizationalUnitCode = c.eatString("organizational_unit_code", true, 10)
	v.Name = c.eatString("organizational_unit_name", true, 50)
	v.OrganizationalUnitType = c.eatString("organizational_unit_type", true, 10)
	v.Description = c.eatString("description", false, 255)
	return v
}

func parseHigherOrganizationalUnit(c *cursor) HigherOrganizationalUnit {
	var v HigherOrganizationalUnit
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.OrganizationalUnitCodeParent = c.eatString("organizational_unit_code_parent", true, 10)
	v.Key.OrganizationalUnitCodeChild = c.eatString("organizational_unit_code_child", true, 10)
	v.Key.ValidFrom = c.eatDate("data_owner_validfrom", true)
	return v
}

func parseUserStopPoint(c *cursor) UserStopPoint {
	var v UserStopPoint
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.UserStopCode = c.eatString("user_stop_code", true, 10)
	v.TimingPointCode = c.eatString("timing_point_code", false, 10)
	v.GetIn = c.eatBoolean("get_in", true)
	v.GetOut = c.eatBoolean("get_out", true)
	c.eatDeprecated()
	v.Name = c.eatString("user_stop_name", true, 50)
	v.Town = c.eatString("user_stop_town", true, 50)
	v.UserStopAreaCode = c.eatString("user_stop_area_code", false, 10)
	v.StopSideCode = c.eatString("stop_side_code", true, 10)
	c.eatDeprecated()
	c.eatDeprecated()
	v.MinimalStopTimeS = c.eatNumber("minimal_stop_time", true, 5)
	v.StopSideLength = c.eatNumber("stop_side_length", false, 3)
	v.Description = c.eatString("description", false, 255)
	v.UserStopType = c.eatString("user_stop_type", true, 10)
	v.QuayCode = c.eatString("quay_code", false, 30)
	return v
}

func parseUserStopArea(c *cursor) UserStopArea {
	var v UserStopArea
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.UserStopAreaCode = c.eatString("user_stop_area_code", true, 10)
	v.Name = c.eatString("user_stop_area_name", true, 50)
	v.Town = c.eatString("user_stop_area_town", true, 50)
	c.eatDeprecated()
	c.eatDeprecated()
	v.Description = c.eatString("description", false, 255)
	return v
}

func parseTimingLink(c *cursor) TimingLink {
	var v TimingLink
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.UserStopCodeBegin = c.eatString("user_stop_code_begin", true, 10)
	v.Key.UserStopCodeEnd = c.eatString("user_stop_code_end", true, 10)
	v.MinimalDriveTimeS = c.eatNumber("minimal_drive_time", false, 5)
	v.Description = c.eatString("description", false, 255)
	return v
}

func parseLink(c *cursor) Link {
	var v Link
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.UserStopCodeBegin = c.eatString("user_stop_code_begin", true, 10)
	v.Key.UserStopCodeEnd = c.eatString("user_stop_code_end", true, 10)
	c.eatDeprecated()
	v.Distance = c.eatNumber("distance", true, 6)
	v.Description = c.eatString("description", false, 255)
	v.Key.TransportType = c.eatString("transport_type", true, 5)
	return v
}

func parseLine(c *cursor) Line {
	var v Line
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.LinePlanningNumber = c.eatString("line_planning_number", true, 10)
	v.LinePublicNumber = c.eatString("line_public_number", true, 4)
	v.LineName = c.eatString("line_name", true, 50)
	v.LineVeTagNumber = c.eatInt("line_ve_tag_number", true, 3, 0, 0)
	v.Description = c.eatString("description", false, 255)
	v.TransportType = c.eatString("transport_type", true, 5)
	v.LineIcon = c.eatOptionalInt("line_icon", 4)
	v.LineColor = c.eatRgbColor("line_color", false)
	v.LineTextColor = c.eatRgbColor("line_text_color", false)
	return v
}

func parseDestination(c *cursor) Destination {
	var v Destination
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.DestCode = c.eatString("dest_code", true, 10)
	v.DestNameFull = c.eatString("dest_name_full", true, 50)
	v.DestNameMain = c.eatString("dest_name_main", true, 24)
	v.DestNameDetail = c.eatString("dest_name_detail", false, 24)
	v.RelevantDestNameDetail = c.eatBoolean("relevant_dest_name_detail", true)
	v.DestNameMain21 = c.eatString("dest_name_main_21", true, 21)
	v.DestNameDetail21 = c.eatString("dest_name_detail_21", false, 21)
	v.DestNameMain19 = c.eatString("dest_name_main_19", true, 19)
	v.DestNameDetail19 = c.eatString("dest_name_detail_19", false, 19)
	v.DestNameMain16 = c.eatString("dest_name_main_16", true, 16)
	v.DestNameDetail16 = c.eatString("dest_name_detail_16", false, 16)
	v.DestIcon = c.eatOptionalInt("dest_icon", 4)
	v.DestColor = c.eatRgbColor("dest_color", false)
	v.DestTextColor = c.eatRgbColor("dest_text_color", false)
	return v
}

func parseJourneyPattern(c *cursor) JourneyPattern {
	var v JourneyPattern
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.LinePlanningNumber = c.eatString("line_planning_number", true, 10)
	v.Key.JourneyPatternCode = c.eatString("journey_pattern_code", true, 10)
	v.JourneyPatternType = c.eatString("journey_pattern_type", true, 10)
	v.Direction = c.eatString("direction", true, 1)
	v.Description = c.eatString("description", false, 255)
	return v
}

func parseConcessionFinancerRelation(c *cursor) ConcessionFinancerRelation {
	var v ConcessionFinancerRelation
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.ConFinRelCode = c.eatString("confinrel_code", true, 10)
	v.ConcessionAreaCode = c.eatString("concession_area_code", true, 10)
	v.FinancerCode = c.eatString("financer_code", false, 10)
	return v
}

func parseConcessionArea(c *cursor) ConcessionArea {
	var v ConcessionArea
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.ConcessionAreaCode = c.eatString("concession_area_code", true, 10)
	v.Description = c.eatString("description", true, 255)
	return v
}

func parseFinancer(c *cursor) Financer {
	var v Financer
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.FinancerCode = c.eatString("financer_code", true, 10)
	v.Description = c.eatString("description", true, 255)
	return v
}

func parseJourneyPatternTimingLink(c *cursor) JourneyPatternTimingLink {
	var v JourneyPatternTimingLink
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.LinePlanningNumber = c.eatString("line_planning_number", true, 10)
	v.Key.JourneyPatternCode = c.eatString("journey_pattern_code", true, 10)
	v.Key.TimingLinkOrder = c.eatInt("timing_link_order", true, 3, 0, 10000)
	v.UserStopCodeBegin = c.eatString("user_stop_code_begin", true, 10)
	v.UserStopCodeEnd = c.eatString("user_stop_code_end", true, 10)
	v.ConFinRelCode = c.eatString("confinrel_code", true, 10)
	v.DestCode = c.eatString("dest_code", true, 10)
	c.eatDeprecated()
	v.IsTimingStop = c.eatBoolean("is_timing_stop", true)
	v.DisplayPublicLine = c.eatString("display_public_line", false, 4)
	v.ProductFormulaType = c.eatOptionalInt("product_formula_type", 4)
	v.GetIn = c.eatBoolean("get_in", true)
	v.GetOut = c.eatBoolean("get_out", true)
	v.ShowFlexibleTrip = c.eatString("show_flexible_trip", false, 8)
	v.LineDestIcon = c.eatOptionalInt("line_dest_icon", 4)
	v.LineDestColor = c.eatRgbColor("line_dest_color", false)
	v.LineDestTextColor = c.eatRgbColor("line_dest_text_color", false)
	return v
}

func parsePoint(c *cursor) Point {
	var v Point
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.PointCode = c.eatString("point_code", true, 10)
	c.eatDeprecated()
	v.PointType = c.eatString("point_type", true, 10)
	v.CoordinateSystemType = c.eatString("coordinate_system_type", true, 10)
	v.LocationXEw = c.eatRdCoord("location_x_ew", true, 4)
	v.LocationYNs = c.eatRdCoord("location_y_ns", true, 6)
	v.LocationZ = c.eatOptionalNumber("location_z", 0)
	v.Description = c.eatString("description", false, 255)
	return v
}

func parsePointOnLink(c *cursor) PointOnLink {
	var v PointOnLink
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.UserStopCodeBegin = c.eatString("user_stop_code_begin", true, 10)
	v.Key.UserStopCodeEnd = c.eatString("user_stop_code_end", true, 10)
	c.eatDeprecated()
	v.Key.PointDataOwnerCode = c.eatString("point_data_owner_code", true, 10)
	v.Key.PointCode = c.eatString("point_code", true, 10)
	v.DistanceSinceStartOfLink = c.eatNumber("distance_since_start_of_link", true, 5)
	v.SegmentSpeedMps = c.eatOptionalNumber("segment_speed", 4)
	v.LocalPointSpeedMps = c.eatOptionalNumber("local_point_speed", 4)
	v.Description = c.eatString("description", false, 255)
	v.Key.TransportType = c.eatString("transport_type", true, 5)
	return v
}

func parseIcon(c *cursor) Icon {
	var v Icon
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.IconNumber = c.eatInt("icon_number", true, 4, 0, 0)
	v.IconURI = c.eatString("icon_uri", true, 1024)
	return v
}

func parseNotice(c *cursor) Notice {
	var v Notice
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.NoticeCode = c.eatString("notice_code", true, 20)
	v.NoticeContent = c.eatString("notice_content", true, 1024)
	return v
}

func parseNoticeAssignment(c *cursor) NoticeAssignment {
	var v NoticeAssignment
	v.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.NoticeCode = c.eatString("notice_code", true, 20)
	v.AssignedObject = c.eatString("assigned_object", true, 8)
	v.TimetableVersionCode = c.eatString("timetable_version_code", false, 10)
	v.OrganizationalUnitCode = c.eatString("organizational_unit_code", false, 10)
	v.ScheduleCode = c.eatString("schedule_code", false, 10)
	v.ScheduleTypeCode = c.eatString("schedule_type_code", false, 10)
	v.PeriodGroupCode = c.eatString("period_group_code", false, 10)
	v.SpecificDayCode = c.eatString("specific_day_code", false, 10)
	v.DayType = c.eatString("day_type", false, 7)
	v.LinePlanningNumber = c.eatString("line_planning_number", true, 10)
	v.JourneyNumber = c.eatOptionalInt("journey_number", 6)
	v.StopOrder = c.eatOptionalInt("stop_order", 4)
	v.JourneyPatternCode = c.eatString("journey_pattern_code", false, 10)
	v.TimingLinkOrder = c.eatOptionalInt("timing_link_order", 3)
	v.UserStopCode = c.eatString("user_stop_code", false, 10)
	return v
}

func parseTimeDemandGroup(c *cursor) TimeDemandGroup {
	var v TimeDemandGroup
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.LinePlanningNumber = c.eatString("line_planning_number", true, 10)
	v.Key.JourneyPatternCode = c.eatString("journey_pattern_code", true, 10)
	v.Key.TimeDemandGroupCode = c.eatString("time_demand_group_code", true, 10)
	return v
}

func parseTimeDemandGroupRunTime(c *cursor) TimeDemandGroupRunTime {
	var v TimeDemandGroupRunTime
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.LinePlanningNumber = c.eatString("line_planning_number", true, 10)
	v.Key.JourneyPatternCode = c.eatString("journey_pattern_code", true, 10)
	v.Key.TimeDemandGroupCode = c.eatString("time_demand_group_code", true, 10)
	v.Key.TimingLinkOrder = c.eatInt("timing_link_order", true, 3, 0, 10000)
	v.UserStopCodeBegin = c.eatString("user_stop_code_begin", true, 10)
	v.UserStopCodeEnd = c.eatString("user_stop_code_end", true, 10)
	v.TotalDriveTimeS = c.eatNumber("total_drive_time", true, 5)
	v.DriveTimeS = c.eatNumber("drive_time", true, 5)
	v.ExpectedDelayS = c.eatOptionalNumber("expected_delay", 5)
	v.LayoverTime = c.eatOptionalNumber("layover_time", 5)
	v.StopWaitTime = c.eatNumber("stop_wait_time", true, 5)
	v.MinimumStopTime = c.eatOptionalNumber("minimum_stop_time", 5)
	return v
}

func parsePeriodGroup(c *cursor) PeriodGroup {
	var v PeriodGroup
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.PeriodGroupCode = c.eatString("period_group_code", true, 10)
	v.Description = c.eatString("description", false, 255)
	return v
}

func parseSpecificDay(c *cursor) SpecificDay {
	var v SpecificDay
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.SpecificDayCode = c.eatString("specific_day_code", true, 10)
	v.Name = c.eatString("specific_day_name", true, 50)
	v.Description = c.eatString("description", false, 255)
	return v
}

func parseTimetableVersion(c *cursor) TimetableVersion {
	var v TimetableVersion
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.OrganizationalUnitCode = c.eatString("organizational_unit_code", true, 10)
	v.Key.TimetableVersionCode = c.eatString("timetable_version_code", true, 10)
	v.Key.PeriodGroupCode = c.eatString("period_group_code", true, 10)
	v.Key.SpecificDayCode = c.eatString("specific_day_code", true, 10)
	v.ValidFrom = c.eatDate("timetable_version_validfrom", true)
	v.TimetableVersionType = c.eatString("timetable_version_type", true, 10)
	v.ValidThru = c.eatOptionalDate("timetable_version_validthru")
	v.Description = c.eatString("description", false, 255)
	return v
}

func parsePublicJourney(c *cursor) PublicJourney {
	var v PublicJourney
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.TimetableVersionCode = c.eatString("timetable_version_code", true, 10)
	v.Key.OrganizationalUnitCode = c.eatString("organizational_unit_code", true, 10)
	v.Key.PeriodGroupCode = c.eatString("period_group_code", true, 10)
	v.Key.SpecificDayCode = c.eatString("specific_day_code", true, 10)
	v.Key.DayType = c.eatString("day_type", true, 7)
	v.Key.LinePlanningNumber = c.eatString("line_planning_number", true, 10)
	v.Key.JourneyNumber = c.eatInt("journey_number", true, 6, 0, 1000000)
	v.TimeDemandGroupCode = c.eatString("time_demand_group_code", true, 10)
	v.JourneyPatternCode = c.eatString("journey_pattern_code", true, 10)
	v.DepartureTime = c.eatTime("departure_time", true)
	v.WheelchairAccessible = c.eatString("wheelchair_accessible", true, 13)
	v.DataOwnerIsOperator = c.eatBoolean("data_owner_is_operator", true)
	v.PlannedMonitored = c.eatBoolean("planned_monitored", true)
	v.ProductFormulaType = c.eatOptionalInt("product_formula_type", 4)
	v.ShowFlexibleTrip = c.eatString("show_flexible_trip", false, 8)
	return v
}

func parsePeriodGroupValidity(c *cursor) PeriodGroupValidity {
	var v PeriodGroupValidity
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.OrganizationalUnitCode = c.eatString("organizational_unit_code", true, 10)
	v.Key.PeriodGroupCode = c.eatString("period_group_code", true, 10)
	v.Key.ValidFrom = c.eatDate("valid_from", true)
	v.ValidThru = c.eatDate("valid_thru", true)
	return v
}

func parseExceptionalOperatingDay(c *cursor, zone *Zone) ExceptionalOperatingDay {
	var v ExceptionalOperatingDay
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.OrganizationalUnitCode = c.eatString("organizational_unit_code", true, 10)
	v.Key.ValidDate = c.eatDateTime("valid_date", true, zone)
	v.DayTypeAsOn = c.eatString("day_type_as_on", true, 7)
	v.SpecificDayCode = c.eatString("specific_day_code", true, 10)
	v.PeriodGroupCode = c.eatString("period_group_code", false, 10)
	v.Description = c.eatString("description", false, 255)
	return v
}

func parseScheduleVersion(c *cursor) ScheduleVersion {
	var v ScheduleVersion
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.OrganizationalUnitCode = c.eatString("organizational_unit_code", true, 10)
	v.Key.ScheduleCode = c.eatString("schedule_code", true, 10)
	v.Key.ScheduleTypeCode = c.eatString("schedule_type_code", true, 10)
	v.ValidFrom = c.eatDate("valid_from", true)
	v.ValidThru = c.eatOptionalDate("valid_thru")
	v.Description = c.eatString("description", false, 255)
	return v
}

func parsePublicJourneyPassingTimes(c *cursor) PublicJourneyPassingTimes {
	var v PublicJourneyPassingTimes
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.OrganizationalUnitCode = c.eatString("organizational_unit_code", true, 10)
	v.Key.ScheduleCode = c.eatString("schedule_code", true, 10)
	v.Key.ScheduleTypeCode = c.eatString("schedule_type_code", true, 10)
	v.Key.LinePlanningNumber = c.eatString("line_planning_number", true, 10)
	v.Key.JourneyNumber = c.eatInt("journey_number", true, 6, 0, 1000000)
	v.Key.StopOrder = c.eatInt("stop_order", true, 4, 0, 10000)
	v.JourneyPatternCode = c.eatString("journey_pattern_code", true, 10)
	v.UserStopCode = c.eatString("user_stop_code", true, 10)
	v.TargetArrivalTime = c.eatOptionalTime("target_arrival_time")
	v.TargetDepartureTime = c.eatOptionalTime("target_departure_time")
	v.WheelchairAccessible = c.eatString("wheelchair_accessible", true, 13)
	v.DataOwnerIsOperator = c.eatBoolean("data_owner_is_operator", true)
	v.PlannedMonitored = c.eatBoolean("planned_monitored", true)
	v.ProductFormulaType = c.eatOptionalInt("product_formula_type", 4)
	v.ShowFlexibleTrip = c.eatString("show_flexible_trip", false, 8)
	return v
}

func parseOperatingDay(c *cursor) OperatingDay {
	var v OperatingDay
	v.Key.DataOwnerCode = c.eatString("data_owner_code", true, 10)
	v.Key.OrganizationalUnitCode = c.eatString("organizational_unit_code", true, 10)
	v.Key.ScheduleCode = c.eatString("schedule_code", true, 10)
	v.Key.ScheduleTypeCode = c.eatString("schedule_type_code", true, 10)
	v.Key.ValidDate = c.eatDate("valid_date", true)
	v.Description = c.eatString("description", false, 255)
	return v
}

// kv1RecordParser parses one already-header-validated row (the cursor's
// remaining cells are exactly that record type's fields, in order) and
// folds the result into res.
type kv1RecordParser func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string)

// recordParsers maps each record-type header string to the function that
// parses its row and appends the result into the right Records slice.
// Mirrors kv1_parser.cpp's type_parsers table, keyed the same way.
var recordParsers = map[string]kv1RecordParser{
	"ORUN": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseOrganizationalUnit(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.OrganizationalUnits = append(res.Records.OrganizationalUnits, v)
		}
	},
	"ORUNORUN": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseHigherOrganizationalUnit(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.HigherOrganizationalUnits = append(res.Records.HigherOrganizationalUnits, v)
		}
	},
	"USRSTOP": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseUserStopPoint(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.UserStopPoints = append(res.Records.UserStopPoints, v)
		}
	},
	"USRSTAR": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseUserStopArea(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.UserStopAreas = append(res.Records.UserStopAreas, v)
		}
	},
	"TILI": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseTimingLink(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.TimingLinks = append(res.Records.TimingLinks, v)
		}
	},
	"LINK": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseLink(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.Links = append(res.Records.Links, v)
		}
	},
	"LINE": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseLine(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.Lines = append(res.Records.Lines, v)
		}
	},
	"DEST": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseDestination(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.Destinations = append(res.Records.Destinations, v)
		}
	},
	"JOPA": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseJourneyPattern(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.JourneyPatterns = append(res.Records.JourneyPatterns, v)
		}
	},
	"CONFINREL": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseConcessionFinancerRelation(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.ConcessionFinancerRelations = append(res.Records.ConcessionFinancerRelations, v)
		}
	},
	"CONAREA": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseConcessionArea(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.ConcessionAreas = append(res.Records.ConcessionAreas, v)
		}
	},
	"FINANCER": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseFinancer(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.Financers = append(res.Records.Financers, v)
		}
	},
	"JOPATILI": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseJourneyPatternTimingLink(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.JourneyPatternTimingLinks = append(res.Records.JourneyPatternTimingLinks, v)
		}
	},
	"POINT": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parsePoint(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.Points = append(res.Records.Points, v)
		}
	},
	"POOL": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parsePointOnLink(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.PointOnLinks = append(res.Records.PointOnLinks, v)
		}
	},
	"ICON": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseIcon(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.Icons = append(res.Records.Icons, v)
		}
	},
	"NOTICE": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseNotice(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.Notices = append(res.Records.Notices, v)
		}
	},
	"NTCASSGNM": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseNoticeAssignment(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.NoticeAssignments = append(res.Records.NoticeAssignments, v)
		}
	},
	"TIMDEMGRP": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseTimeDemandGroup(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.TimeDemandGroups = append(res.Records.TimeDemandGroups, v)
		}
	},
	"TIMDEMRNT": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseTimeDemandGroupRunTime(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.TimeDemandGroupRunTimes = append(res.Records.TimeDemandGroupRunTimes, v)
		}
	},
	"PEGR": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parsePeriodGroup(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.PeriodGroups = append(res.Records.PeriodGroups, v)
		}
	},
	"SPECDAY": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseSpecificDay(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.SpecificDays = append(res.Records.SpecificDays, v)
		}
	},
	"TIVE": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseTimetableVersion(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.TimetableVersions = append(res.Records.TimetableVersions, v)
		}
	},
	"PUJO": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parsePublicJourney(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.PublicJourneys = append(res.Records.PublicJourneys, v)
		}
	},
	"PEGRVAL": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parsePeriodGroupValidity(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.PeriodGroupValidities = append(res.Records.PeriodGroupValidities, v)
		}
	},
	"EXCOPDAY": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseExceptionalOperatingDay(cur, zone)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.ExceptionalOperatingDays = append(res.Records.ExceptionalOperatingDays, v)
		}
	},
	"SCHEDVERS": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseScheduleVersion(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.ScheduleVersions = append(res.Records.ScheduleVersions, v)
		}
	},
	"PUJOPASS": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parsePublicJourneyPassingTimes(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.PublicJourneyPassingTimes = append(res.Records.PublicJourneyPassingTimes, v)
		}
	},
	"OPERDAY": func(cur *cursor, zone *Zone, res *ParseResult, rowIdx int, typeCode string) {
		v := parseOperatingDay(cur)
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
		} else {
			res.Records.OperatingDays = append(res.Records.OperatingDays, v)
		}
	},
}

// ParseFile lexes and parses one KV1 file end to end. It mirrors the
// original's row-boundary error taxonomy: lexical errors abandon the row
// immediately (they never reach a record parser); record errors are
// collected per row and, once a row finishes, folded into GlobalErrors
// rather than kept per type; unknown record-type codes produce a warning
// and the row is skipped without being parsed at all.
//
// The optional leading "[...]" line (see Lex) is skipped to end-of-line and
// carries no semantic content — unlike the per-row VERSION/IMPLEXPL cells
// below, it is never validated.
func ParseFile(data []byte, zone *Zone) (*ParseResult, error) {
	lexed := Lex(data)
	res := &ParseResult{}
	res.GlobalErrors = append(res.GlobalErrors, lexed.Errors...)

	rows := Rows(lexed.Tokens)
	for rowIdx, row := range rows {
		if len(row) == 0 {
			continue
		}
		cur := newCursor(row, &res.GlobalErrors)
		typeCode := cur.eatString("record_type", true, 10)
		version := cur.eatString("version_number", true, 2)
		implicitExplicit := cur.eatString("implicit_explicit", true, 1)
		if !cur.hasErrors() {
			if version != "1" {
				cur.recordErrors = append(cur.recordErrors, "version_number should be 1")
			}
			if implicitExplicit != "I" {
				cur.recordErrors = append(cur.recordErrors, "implicit_explicit should be 'I'")
			}
		}
		if cur.hasErrors() {
			foldRowErrors(res, rowIdx, typeCode, cur.recordErrors)
			continue
		}

		fn, ok := recordParsers[typeCode]
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: unknown record type %q, row skipped", rowIdx+1, typeCode))
			continue
		}
		fn(cur, zone, res, rowIdx, typeCode)
	}

	return res, nil
}

func foldRowErrors(res *ParseResult, rowIdx int, typeCode string, errs []string) {
	for _, e := range errs {
		res.GlobalErrors = append(res.GlobalErrors, fmt.Sprintf("row %d (%s): %s", rowIdx+1, typeCode, e))
	}
}
