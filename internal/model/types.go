// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// DateLayout is the on-disk date format.
const DateLayout = "2006-01-02"

// Columns is the fixed persisted schema, in order.
var Columns = []string{"Date", "Roll Number", "Name", "Subject", "Class", "Section", "Class Type", "Status"}

// SummaryColumns are the headers of a rendered or exported summary.
var SummaryColumns = []string{"Roll Number", "Name", "Subject", "Total Lectures", "Present", "Attendance %"}

// ClassType is the lecture sub-category.
type ClassType string

const (
	Theory    ClassType = "Theory"
	Practical ClassType = "Practical"
)

// ClassTypes lists the allowed class types.
var ClassTypes = []ClassType{Theory, Practical}

// Valid reports whether t is one of the allowed class types.
func (t ClassType) Valid() bool {
	return t == Theory || t == Practical
}

// ParseClassType matches a class type case-insensitively.
func ParseClassType(s string) (ClassType, bool) {
	for _, t := range ClassTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

// Status is the attendance outcome.
type Status string

const (
	Present Status = "Present"
	Absent  Status = "Absent"
)

// Statuses lists the allowed statuses.
var Statuses = []Status{Present, Absent}

// Valid reports whether s is one of the allowed statuses.
func (s Status) Valid() bool {
	return s == Present || s == Absent
}

// ParseStatus matches a status case-insensitively.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Record is one attendance entry for one student, subject and date.
// Fields hold whatever the persisted table holds; validity is checked
// where records enter the system.
type Record struct {
	Date       string
	RollNumber string
	Name       string
	Subject    string
	Class      string
	Section    string
	ClassType  ClassType
	Status     Status
}

// ParsedDate parses the date field.
func (r Record) ParsedDate() (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Values returns the record as a row in Columns order.
func (r Record) Values() []string {
	return []string{
		r.Date,
		r.RollNumber,
		r.Name,
		r.Subject,
		r.Class,
		r.Section,
		string(r.ClassType),
		string(r.Status),
	}
}

// RecordFromValues builds a record from a row in Columns order.
// Missing trailing values are left empty.
func RecordFromValues(values []string) Record {
	get := func(i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}
	return Record{
		Date:       get(0),
		RollNumber: get(1),
		Name:       get(2),
		Subject:    get(3),
		Class:      get(4),
		Section:    get(5),
		ClassType:  ClassType(get(6)),
		Status:     Status(get(7)),
	}
}

// ReportRow summarizes attendance for one (roll, name, subject) triple.
type ReportRow struct {
	RollNumber        string
	Name              string
	Subject           string
	TotalLectures     int
	Present           int
	AttendancePercent float64
}
