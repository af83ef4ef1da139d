package model

import (
	"errors"
	"testing"
)

func TestRecordValuesRoundTrip(t *testing.T) {
	rec := Record{
		Date:       "2024-03-01",
		RollNumber: "1",
		Name:       "Alice",
		Subject:    "Math",
		Class:      "CSE",
		Section:    "A",
		ClassType:  Theory,
		Status:     Present,
	}
	values := rec.Values()
	if len(values) != len(Columns) {
		t.Fatalf("expected %d values, got %d", len(Columns), len(values))
	}
	if got := RecordFromValues(values); got != rec {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestRecordFromShortRow(t *testing.T) {
	rec := RecordFromValues([]string{"2024-03-01", "7"})
	if rec.RollNumber != "7" || rec.Name != "" || rec.Status != "" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestParsedDate(t *testing.T) {
	if _, ok := (Record{Date: "2024-02-30"}).ParsedDate(); ok {
		t.Fatalf("expected invalid date to fail")
	}
	d, ok := (Record{Date: "2024-03-09"}).ParsedDate()
	if !ok || d.Year() != 2024 || d.Month() != 3 || d.Day() != 9 {
		t.Fatalf("unexpected parse: %v %v", d, ok)
	}
}

func TestParseEnums(t *testing.T) {
	if ct, ok := ParseClassType(" practical "); !ok || ct != Practical {
		t.Fatalf("expected Practical, got %q %v", ct, ok)
	}
	if _, ok := ParseClassType("Lab"); ok {
		t.Fatalf("expected Lab to be rejected")
	}
	if st, ok := ParseStatus("ABSENT"); !ok || st != Absent {
		t.Fatalf("expected Absent, got %q %v", st, ok)
	}
	if Status("Late").Valid() {
		t.Fatalf("expected Late to be invalid")
	}
}

func TestValidationErrorIs(t *testing.T) {
	var err error = &ValidationError{Fields: []string{"Name"}}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation")
	}
	if errors.Is(err, ErrNoData) {
		t.Fatalf("unexpected ErrNoData match")
	}
}
