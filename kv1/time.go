package kv1

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Zone wraps the single Europe/Amsterdam location object used across every
// KV1 date/time conversion. Acquired once by NewZone and passed explicitly
// to every conversion routine — never relied upon as process-wide mutable
// locale state (§9 design note).
type Zone struct {
	loc *time.Location
}

func NewZone() (*Zone, error) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		return nil, fmt.Errorf("kv1: loading Europe/Amsterdam zone: %w", err)
	}
	return &Zone{loc: loc}, nil
}

func (z *Zone) Location() *time.Location { return z.loc }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func digits(s string, n int) (int, bool) {
	if len(s) < n {
		return 0, false
	}
	for i := 0; i < n; i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s[:n])
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseYYYYMMDD parses a strict YYYY-MM-DD date. Per §4.2, calendar
// validation goes no further than month ∈ 1..12, day ∈ 1..31 — it does not
// reject e.g. February 30.
func ParseYYYYMMDD(src string) (Date, error) {
	if len(src) != 10 || src[4] != '-' || src[7] != '-' {
		return Date{}, fmt.Errorf("expected YYYY-MM-DD, got %q", src)
	}
	year, ok := digits(src[0:4], 4)
	if !ok {
		return Date{}, fmt.Errorf("invalid year in %q", src)
	}
	month, ok := digits(src[5:7], 2)
	if !ok || month < 1 || month > 12 {
		return Date{}, fmt.Errorf("invalid month in %q", src)
	}
	day, ok := digits(src[8:10], 2)
	if !ok || day < 1 || day > 31 {
		return Date{}, fmt.Errorf("invalid day in %q", src)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseHHMMSS parses a strict HH:MM:SS time. Hour ranges 0..32 (KV1's
// next-day continuation convention); minute and second range 0..59.
func ParseHHMMSS(src string) (TimeOfDay, error) {
	if len(src) != 8 || src[2] != ':' || src[5] != ':' {
		return TimeOfDay{}, fmt.Errorf("expected HH:MM:SS, got %q", src)
	}
	hour, ok := digits(src[0:2], 2)
	if !ok || hour > 32 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", src)
	}
	minute, ok := digits(src[3:5], 2)
	if !ok || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", src)
	}
	second, ok := digits(src[6:8], 2)
	if !ok || second > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid second in %q", src)
	}
	return TimeOfDay{Hour: hour, Minute: minute, Second: second}, nil
}

// ParseDateTime parses "YYYY[-]MM[-]DDThh:mm:ss" (separator may be 'T' or a
// space) with an optional trailing zone designator ('Z' or '±HH:MM').
// Absent a designator, the value is interpreted as local wall time in zone
// and resolved through it (with correct DST handling); present, the offset
// is applied directly against UTC. Returns the instant as Unix seconds.
func ParseDateTime(src string, zone *Zone) (int64, error) {
	s := src
	year, ok := digits(s, 4)
	if !ok {
		return 0, fmt.Errorf("invalid year in %q", src)
	}
	s = s[4:]
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	month, ok := digits(s, 2)
	if !ok || month < 1 || month > 12 {
		return 0, fmt.Errorf("invalid month in %q", src)
	}
	s = s[2:]
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	day, ok := digits(s, 2)
	if !ok || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day in %q", src)
	}
	s = s[2:]
	if len(s) == 0 || (s[0] != 'T' && s[0] != ' ') {
		return 0, fmt.Errorf("expected 'T' or ' ' separator in %q", src)
	}
	s = s[1:]

	hour, ok := digits(s, 2)
	if !ok || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", src)
	}
	s = s[2:]
	if len(s) > 0 && s[0] == ':' {
		s = s[1:]
	}
	minute, ok := digits(s, 2)
	if !ok || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", src)
	}
	s = s[2:]
	if len(s) > 0 && s[0] == ':' {
		s = s[1:]
	}
	second, ok := digits(s, 2)
	if !ok || second > 59 {
		return 0, fmt.Errorf("invalid second in %q", src)
	}
	s = s[2:]

	switch {
	case s == "" || s == "Z":
		local := time.Date(year, time.Month(month), day, hour, minute, second, 0, zone.Location())
		if s == "Z" {
			return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC).Unix(), nil
		}
		return local.Unix(), nil
	case len(s) == 6 && (s[0] == '+' || s[0] == '-'):
		sign := int64(1)
		if s[0] == '-' {
			sign = -1
		}
		offH, ok1 := digits(s[1:3], 2)
		offM, ok2 := digits(s[4:6], 2)
		if !ok1 || !ok2 || s[3] != ':' {
			return 0, fmt.Errorf("invalid zone designator in %q", src)
		}
		offsetSecs := sign * int64(offH*3600+offM*60)
		base := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC).Unix()
		return base - offsetSecs, nil
	default:
		return 0, fmt.Errorf("invalid zone designator %q in %q", s, src)
	}
}

// formatOffset renders a ±HH:MM zone designator, used only by tests
// exercising the round-trip invariant of §8.8.
func formatOffset(totalSeconds int) string {
	sign := "+"
	if totalSeconds < 0 {
		sign = "-"
		totalSeconds = -totalSeconds
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	return fmt.Sprintf("%s%02d:%02d", sign, h, m)
}

var _ = strings.TrimSpace // keep strings imported for future format helpers

// LocalCalendar derives the Amsterdam-local calendar components of a UTC
// instant: ISO weekday (1=Monday..7=Sunday), local calendar date, and
// seconds since local midnight. Used by both the KV6 augmentation join and
// anything else that needs "what day/time was it locally" from a stored
// UTC timestamp — it is always derived from the timestamp column, never
// re-parsed from the original text.
func LocalCalendar(unixSeconds int64, zone *Zone) (dayOfWeek int64, date Date, secondsSinceMidnight int32) {
	t := time.Unix(unixSeconds, 0).In(zone.Location())
	wd := int64(t.Weekday())
	if wd == 0 {
		wd = 7 // time.Sunday == 0; ISO encodes Sunday as 7
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, zone.Location())
	return wd, Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, int32(t.Sub(midnight).Seconds())
}
