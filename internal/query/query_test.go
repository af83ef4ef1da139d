package query

import (
	"errors"
	"testing"

	"github.com/verte-zerg/rollbook/internal/model"
)

func fixture() []model.Record {
	return []model.Record{
		{Date: "2024-03-01", RollNumber: "1", Name: "Alice", Subject: "Math", Class: "CSE", Section: "A", ClassType: model.Theory, Status: model.Present},
		{Date: "2024-03-02", RollNumber: "1", Name: "Alice", Subject: "Math", Class: "CSE", Section: "A", ClassType: model.Theory, Status: model.Absent},
		{Date: "2024-04-10", RollNumber: "2", Name: "Bob", Subject: "Physics", Class: "ECE", Section: "B", ClassType: model.Practical, Status: model.Present},
		{Date: "2023-03-15", RollNumber: "R3", Name: "Cara", Subject: "math", Class: "CSE", Section: "B", ClassType: model.Practical, Status: model.Absent},
		{Date: "not-a-date", RollNumber: "1", Name: "Alice", Subject: "Math", Class: "CSE", Section: "A", ClassType: model.Theory, Status: model.Present},
	}
}

func TestFilterByYearAndMonth(t *testing.T) {
	got, err := Filter(fixture(), Criteria{Year: "2024", Month: "3", Class: All, Section: All, ClassType: All})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows in March 2024, got %d", len(got))
	}
	for _, rec := range got {
		d, _ := rec.ParsedDate()
		if d.Year() != 2024 || d.Month() != 3 {
			t.Fatalf("unexpected row %+v", rec)
		}
	}
}

func TestFilterNoRestrictionDropsBadDates(t *testing.T) {
	got, err := Filter(fixture(), Criteria{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 rows with parseable dates, got %d", len(got))
	}
	if got[0].Date != "2024-03-01" || got[3].Date != "2023-03-15" {
		t.Fatalf("expected original order, got %+v", got)
	}
}

func TestFilterCategorical(t *testing.T) {
	cases := []struct {
		name     string
		criteria Criteria
		want     int
	}{
		{name: "class", criteria: Criteria{Class: "CSE", Section: All, ClassType: All}, want: 3},
		{name: "section", criteria: Criteria{Class: All, Section: "B", ClassType: All}, want: 2},
		{name: "class type", criteria: Criteria{ClassType: "Practical"}, want: 2},
		{name: "conjunctive", criteria: Criteria{Year: "2023", Class: "CSE", Section: "B", ClassType: "Practical"}, want: 1},
		{name: "case sensitive", criteria: Criteria{Class: "cse"}, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Filter(fixture(), tc.criteria)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("expected %d rows, got %d", tc.want, len(got))
			}
		})
	}
}

func TestFilterRejectsBadDateCriteria(t *testing.T) {
	for _, c := range []Criteria{{Year: "20x4"}, {Month: "13"}, {Month: "0"}} {
		if _, err := Filter(fixture(), c); !errors.Is(err, model.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", c, err)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got := (Criteria{Year: "2024"}).Describe(); got != "Year=2024, Month=All" {
		t.Fatalf("unexpected description: %q", got)
	}
}

func TestSearchByRollNumber(t *testing.T) {
	got, err := Search(fixture()[:2], ByRollNumber, " 1 ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
}

func TestSearchIsCaseInsensitiveOverWholeTable(t *testing.T) {
	got, err := Search(fixture(), BySubject, "MATH")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 matches including unparseable dates, got %d", len(got))
	}
	got, err = Search(fixture(), ByRollNumber, "r3")
	if err != nil || len(got) != 1 {
		t.Fatalf("expected one match for r3, got %d (%v)", len(got), err)
	}
}

func TestSearchNoMatches(t *testing.T) {
	got, err := Search(fixture()[:2], BySubject, "Physics")
	if !errors.Is(err, model.ErrNoMatches) {
		t.Fatalf("expected ErrNoMatches, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestSearchValidation(t *testing.T) {
	if _, err := Search(fixture(), ByRollNumber, "  "); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error for empty query, got %v", err)
	}
	if _, err := Search(fixture(), SearchField("Name"), "Alice"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error for bad field, got %v", err)
	}
}

func TestParseSearchField(t *testing.T) {
	if f, ok := ParseSearchField("Roll Number"); !ok || f != ByRollNumber {
		t.Fatalf("unexpected field %q %v", f, ok)
	}
	if f, ok := ParseSearchField("SUBJECT"); !ok || f != BySubject {
		t.Fatalf("unexpected field %q %v", f, ok)
	}
	if _, ok := ParseSearchField("name"); ok {
		t.Fatalf("expected name to be rejected")
	}
}
