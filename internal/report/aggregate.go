package report

import (
	"math"
	"sort"

	"github.com/verte-zerg/rollbook/internal/model"
)

type groupKey struct {
	roll    string
	name    string
	subject string
}

// Aggregate groups records by exact (roll number, name, subject) and counts
// lectures and presences. Rows are sorted by roll number, subject, name.
func Aggregate(records []model.Record) []model.ReportRow {
	groups := map[groupKey]*model.ReportRow{}
	for _, rec := range records {
		key := groupKey{roll: rec.RollNumber, name: rec.Name, subject: rec.Subject}
		row, ok := groups[key]
		if !ok {
			row = &model.ReportRow{RollNumber: rec.RollNumber, Name: rec.Name, Subject: rec.Subject}
			groups[key] = row
		}
		row.TotalLectures++
		if rec.Status == model.Present {
			row.Present++
		}
	}

	rows := make([]model.ReportRow, 0, len(groups))
	for _, row := range groups {
		row.AttendancePercent = Percent(row.Present, row.TotalLectures)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RollNumber != rows[j].RollNumber {
			return rows[i].RollNumber < rows[j].RollNumber
		}
		if rows[i].Subject != rows[j].Subject {
			return rows[i].Subject < rows[j].Subject
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// Percent returns present/total as a percentage rounded to two decimals,
// halves to even.
func Percent(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(present) / float64(total) * 100
	return math.RoundToEven(pct*100) / 100
}
