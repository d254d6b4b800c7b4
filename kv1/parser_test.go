package kv1

import (
	"strings"
	"testing"
)

func TestParseFileBasicRecord(t *testing.T) {
	zone, _ := NewZone()
	src := "[I|1]\r\nORUN|1|I|TST|OU1|Unit One|TYPE|A description\r\n"
	res, err := ParseFile([]byte(src), zone)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(res.GlobalErrors) != 0 {
		t.Fatalf("unexpected global errors: %v", res.GlobalErrors)
	}
	if len(res.Records.OrganizationalUnits) != 1 {
		t.Fatalf("got %d organizational units, want 1", len(res.Records.OrganizationalUnits))
	}
	got := res.Records.OrganizationalUnits[0]
	if got.Key.DataOwnerCode != "TST" || got.Key.OrganizationalUnitCode != "OU1" || got.Name != "Unit One" {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestParseFileRecordErrorAbandonsRowButFolds(t *testing.T) {
	zone, _ := NewZone()
	// data_owner_code is mandatory; leaving it empty should abandon this
	// row and fold the failure into GlobalErrors rather than keep a
	// partially built record.
	src := "ORUN|1|I||OU1|Unit One|TYPE|desc\r\n"
	res, err := ParseFile([]byte(src), zone)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(res.Records.OrganizationalUnits) != 0 {
		t.Fatalf("expected the malformed row to be abandoned, got %d records", len(res.Records.OrganizationalUnits))
	}
	if len(res.GlobalErrors) == 0 {
		t.Fatalf("expected the record error to be folded into GlobalErrors")
	}
}

func TestParseFileUnknownRecordTypeIsWarningNotError(t *testing.T) {
	zone, _ := NewZone()
	src := "BOGUSTYPE|1|I|a|b|c\r\nORUN|1|I|TST|OU1|Unit One|TYPE|desc\r\n"
	res, err := ParseFile([]byte(src), zone)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(res.Warnings))
	}
	if !strings.Contains(res.Warnings[0], "BOGUSTYPE") {
		t.Errorf("warning %q does not mention the unknown type", res.Warnings[0])
	}
	if len(res.Records.OrganizationalUnits) != 1 {
		t.Fatalf("the following valid row should still have parsed")
	}
}

func TestParseFileInvalidUTF8IsGlobalNotRecordError(t *testing.T) {
	zone, _ := NewZone()
	invalid := string([]byte{0xff, 0xfe})
	src := "ORUN|1|I|TST|OU1|" + invalid + "|TYPE|desc\r\n"
	res, err := ParseFile([]byte(src), zone)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	found := false
	for _, e := range res.GlobalErrors {
		if strings.Contains(e, "UTF-8") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a global UTF-8 error, got: %v", res.GlobalErrors)
	}
}

func TestParseFileHeaderValidation(t *testing.T) {
	zone, _ := NewZone()
	// version_number must be "1" and implicit_explicit must be "I"; both
	// cells belong to the row itself, not the optional "[...]" line (which
	// is skipped unconditionally and never validated — see the next case).
	src := "ORUN|2|E|TST|OU1|Unit One|TYPE|desc\r\n"
	res, err := ParseFile([]byte(src), zone)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(res.GlobalErrors) != 2 {
		t.Fatalf("expected 2 header validation errors, got %v", res.GlobalErrors)
	}
	if len(res.Records.OrganizationalUnits) != 0 {
		t.Fatalf("expected the malformed row to be abandoned, got %d records", len(res.Records.OrganizationalUnits))
	}
}

func TestParseFileOptionalBracketHeaderIsSkippedNotValidated(t *testing.T) {
	zone, _ := NewZone()
	// The bracket line is free-form and carries no semantic content: even
	// a string that would fail header validation if it were a row must be
	// skipped without producing any error.
	src := "[bogus, not I|1]\r\nORUN|1|I|TST|OU1|Unit One|TYPE|desc\r\n"
	res, err := ParseFile([]byte(src), zone)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(res.GlobalErrors) != 0 {
		t.Fatalf("unexpected global errors: %v", res.GlobalErrors)
	}
	if len(res.Records.OrganizationalUnits) != 1 {
		t.Fatalf("got %d organizational units, want 1", len(res.Records.OrganizationalUnits))
	}
}
