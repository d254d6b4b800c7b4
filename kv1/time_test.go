package kv1

import "testing"

func TestParseYYYYMMDD(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{"ordinary date", "2026-03-05", Date{2026, 3, 5}, false},
		{"missing dashes", "20260305", Date{}, true},
		{"month out of range", "2026-13-05", Date{}, true},
		{"day out of range", "2026-03-32", Date{}, true},
		{"non-numeric", "2026-0x-05", Date{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseYYYYMMDD(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseYYYYMMDD(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Errorf("ParseYYYYMMDD(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseHHMMSS(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"ordinary time", "08:15:00", TimeOfDay{8, 15, 0}, false},
		{"next-day continuation", "25:05:00", TimeOfDay{25, 5, 0}, false},
		{"hour too large", "33:00:00", TimeOfDay{}, true},
		{"minute too large", "08:60:00", TimeOfDay{}, true},
		{"malformed", "8:15:00", TimeOfDay{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseHHMMSS(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseHHMMSS(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Errorf("ParseHHMMSS(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseDateTimeZoneHandling(t *testing.T) {
	zone, err := NewZone()
	if err != nil {
		t.Fatalf("NewZone() error = %v", err)
	}

	utcSecs, err := ParseDateTime("2026-03-05T10:00:00Z", zone)
	if err != nil {
		t.Fatalf("ParseDateTime with Z suffix: %v", err)
	}

	offsetSecs, err := ParseDateTime("2026-03-05T11:00:00+01:00", zone)
	if err != nil {
		t.Fatalf("ParseDateTime with offset suffix: %v", err)
	}
	if utcSecs != offsetSecs {
		t.Errorf("Z and +01:00 forms of the same instant disagree: %d != %d", utcSecs, offsetSecs)
	}

	// Without a zone designator, the value is taken as Amsterdam local time.
	// 2026-03-05 is winter (CET, UTC+1), so 11:00 local equals 10:00 UTC.
	localSecs, err := ParseDateTime("2026-03-05T11:00:00", zone)
	if err != nil {
		t.Fatalf("ParseDateTime without zone designator: %v", err)
	}
	if localSecs != utcSecs {
		t.Errorf("unzoned local time resolved to %d, want %d", localSecs, utcSecs)
	}
}

func TestFormatOffsetRoundTrip(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{3600, "+01:00"},
		{-3600, "-01:00"},
		{0, "+00:00"},
		{5400, "+01:30"},
	}
	zone, err := NewZone()
	if err != nil {
		t.Fatalf("NewZone: %v", err)
	}
	utcSecs, err := ParseDateTime("2026-03-05T10:00:00Z", zone)
	if err != nil {
		t.Fatalf("ParseDateTime with Z designator: %v", err)
	}
	for _, tc := range tests {
		got := formatOffset(tc.seconds)
		if got != tc.want {
			t.Errorf("formatOffset(%d) = %q, want %q", tc.seconds, got, tc.want)
			continue
		}
		back, err := ParseDateTime("2026-03-05T10:00:00"+got, zone)
		if err != nil {
			t.Errorf("ParseDateTime with offset %q: %v", got, err)
			continue
		}
		if want := utcSecs - int64(tc.seconds); back != want {
			t.Errorf("offset %q parsed back to %d, want %d", got, back, want)
		}
	}
}
