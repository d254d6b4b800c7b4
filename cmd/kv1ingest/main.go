// Command kv1ingest parses one or more KV1 "Dienstregeling" timetable
// files, builds the cross-record index, links foreign-key references, and
// optionally exports the result as a GeoJSON stop map or a single
// journey's resolved schedule.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/rbroekhoff/oeuf/config"
	"github.com/rbroekhoff/oeuf/geoexport"
	"github.com/rbroekhoff/oeuf/internal"
	"github.com/rbroekhoff/oeuf/kv1"
	"github.com/rbroekhoff/oeuf/kv1query"
	"github.com/rbroekhoff/oeuf/metrics"
)

func main() {
	inputPaths := pflag.StringArray("input", nil, "KV1 file to parse (repeatable; overrides config)")
	geojsonOut := pflag.String("geojson-out", "", "write a GeoJSON FeatureCollection of this data owner's stops to this path")
	dataOwnerCode := pflag.String("data-owner", "", "data owner code to scope -geojson-out / -schedule-for to")
	scheduleFor := pflag.String("schedule-for", "", "line/journey, e.g. 1/123, to print the resolved stop schedule of")
	pflag.Parse()

	internal.InitLogging()
	if err := config.Load(); err != nil {
		internal.Errorf("loading configuration: %v", err)
		os.Exit(1)
	}
	paths := config.Config.KV1.InputPaths
	if len(*inputPaths) > 0 {
		paths = *inputPaths
	}
	if len(paths) == 0 {
		internal.Errorf("no input files configured; set kv1.inputPaths or pass -input")
		os.Exit(1)
	}

	zone, err := kv1.NewZone()
	if err != nil {
		internal.Errorf("loading time zone: %v", err)
		os.Exit(1)
	}

	sink := metrics.NewPrometheusSink()
	if config.Config.Metrics.Addr != "" {
		go func() {
			server := &http.Server{Addr: config.Config.Metrics.Addr, Handler: metrics.NewServer(sink)}
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				internal.Errorf("metrics server: %v", err)
			}
		}()
	}

	var records kv1.Records
	for _, path := range paths {
		if err := ingestFile(path, zone, sink, &records); err != nil {
			internal.Errorf("%s: %v", path, err)
			os.Exit(1)
		}
	}

	idx := kv1.BuildIndex(&records)
	if err := kv1.LinkRecords(&records, idx); err != nil {
		internal.Errorf("linking records: %v", err)
		os.Exit(1)
	}
	internal.Infof("parsed %d records across %d files (index size %d)", records.Total(), len(paths), idx.Size())

	if *geojsonOut != "" {
		if err := writeGeoJSON(&records, *dataOwnerCode, *geojsonOut); err != nil {
			internal.Errorf("writing geojson: %v", err)
			os.Exit(1)
		}
	}
	if *scheduleFor != "" {
		if err := printSchedule(&records, *dataOwnerCode, *scheduleFor); err != nil {
			internal.Errorf("printing schedule: %v", err)
			os.Exit(1)
		}
	}
}

func ingestFile(path string, zone *kv1.Zone, sink metrics.Sink, out *kv1.Records) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	res, err := kv1.ParseFile(data, zone)
	if err != nil {
		sink.CounterInc(kv1.MetricFilesErrorTotal, nil)
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, e := range res.GlobalErrors {
		internal.Warnf("%s: %s", path, e)
	}
	for _, w := range res.Warnings {
		internal.Warnf("%s: %s", path, w)
	}
	switch {
	case len(res.GlobalErrors) > 0:
		sink.CounterInc(kv1.MetricFilesErrorTotal, nil)
	case len(res.Warnings) > 0:
		sink.CounterInc(kv1.MetricFilesWarningTotal, nil)
	default:
		sink.CounterInc(kv1.MetricFilesOKTotal, nil)
	}
	for i := 0; i < res.Records.Total(); i++ {
		sink.CounterInc(kv1.MetricRecordsParsedTotal, nil)
	}
	mergeRecords(out, res.Records)
	return nil
}

// mergeRecords appends one file's parsed records onto the running total so
// that several KV1 files (as e.g. a data owner ships for different table
// groups) can be indexed and linked together.
func mergeRecords(out *kv1.Records, in kv1.Records) {
	out.OrganizationalUnits = append(out.OrganizationalUnits, in.OrganizationalUnits...)
	out.HigherOrganizationalUnits = append(out.HigherOrganizationalUnits, in.HigherOrganizationalUnits...)
	out.UserStopPoints = append(out.UserStopPoints, in.UserStopPoints...)
	out.UserStopAreas = append(out.UserStopAreas, in.UserStopAreas...)
	out.TimingLinks = append(out.TimingLinks, in.TimingLinks...)
	out.Links = append(out.Links, in.Links...)
	out.Lines = append(out.Lines, in.Lines...)
	out.Destinations = append(out.Destinations, in.Destinations...)
	out.JourneyPatterns = append(out.JourneyPatterns, in.JourneyPatterns...)
	out.ConcessionFinancerRelations = append(out.ConcessionFinancerRelations, in.ConcessionFinancerRelations...)
	out.ConcessionAreas = append(out.ConcessionAreas, in.ConcessionAreas...)
	out.Financers = append(out.Financers, in.Financers...)
	out.JourneyPatternTimingLinks = append(out.JourneyPatternTimingLinks, in.JourneyPatternTimingLinks...)
	out.Points = append(out.Points, in.Points...)
	out.PointOnLinks = append(out.PointOnLinks, in.PointOnLinks...)
	out.Icons = append(out.Icons, in.Icons...)
	out.Notices = append(out.Notices, in.Notices...)
	out.NoticeAssignments = append(out.NoticeAssignments, in.NoticeAssignments...)
	out.TimeDemandGroups = append(out.TimeDemandGroups, in.TimeDemandGroups...)
	out.TimeDemandGroupRunTimes = append(out.TimeDemandGroupRunTimes, in.TimeDemandGroupRunTimes...)
	out.PeriodGroups = append(out.PeriodGroups, in.PeriodGroups...)
	out.SpecificDays = append(out.SpecificDays, in.SpecificDays...)
	out.TimetableVersions = append(out.TimetableVersions, in.TimetableVersions...)
	out.PublicJourneys = append(out.PublicJourneys, in.PublicJourneys...)
	out.PeriodGroupValidities = append(out.PeriodGroupValidities, in.PeriodGroupValidities...)
	out.ExceptionalOperatingDays = append(out.ExceptionalOperatingDays, in.ExceptionalOperatingDays...)
	out.ScheduleVersions = append(out.ScheduleVersions, in.ScheduleVersions...)
	out.PublicJourneyPassingTimes = append(out.PublicJourneyPassingTimes, in.PublicJourneyPassingTimes...)
	out.OperatingDays = append(out.OperatingDays, in.OperatingDays...)
}

func writeGeoJSON(records *kv1.Records, dataOwnerCode, path string) error {
	fc, err := geoexport.StopsFeatureCollection(records, dataOwnerCode)
	if err != nil {
		return err
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshaling feature collection: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func printSchedule(records *kv1.Records, dataOwnerCode, lineSlashJourney string) error {
	var lineNumber string
	var journeyNumber int
	if n, err := fmt.Sscanf(lineSlashJourney, "%[^/]/%d", &lineNumber, &journeyNumber); err != nil || n != 2 {
		return fmt.Errorf("expected LINE/JOURNEY, got %q", lineSlashJourney)
	}
	stops, err := kv1query.JourneySchedule(records, kv1query.JourneyKey{
		DataOwnerCode:      dataOwnerCode,
		LinePlanningNumber: lineNumber,
		JourneyNumber:      journeyNumber,
	})
	if err != nil {
		return err
	}
	for _, s := range stops {
		dist := "?"
		if s.DistanceSinceStartOfJourney != nil {
			dist = strconv.FormatUint(uint64(*s.DistanceSinceStartOfJourney), 10)
		}
		fmt.Printf("%d\t%s\t%sm\n", s.StopOrder, s.UserStopCode, dist)
	}
	return nil
}
