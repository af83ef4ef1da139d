// Package query filters and searches attendance records.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/rollbook/internal/model"
)

// All is the wildcard value for categorical report filters.
const All = "All"

// Criteria constrains a report. Empty Year/Month mean no restriction;
// categorical fields accept All or "" for no restriction.
type Criteria struct {
	Year      string
	Month     string
	Class     string
	Section   string
	ClassType string
}

type compiled struct {
	year      int
	month     int
	class     string
	section   string
	classType string
}

func (c Criteria) compile() (compiled, error) {
	var out compiled
	if y := strings.TrimSpace(c.Year); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year <= 0 {
			return compiled{}, &model.ValidationError{Fields: []string{"Year"}, Reason: fmt.Sprintf("invalid year %q (expected YYYY)", c.Year)}
		}
		out.year = year
	}
	if m := strings.TrimSpace(c.Month); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil || month < 1 || month > 12 {
			return compiled{}, &model.ValidationError{Fields: []string{"Month"}, Reason: fmt.Sprintf("invalid month %q (expected 1-12)", c.Month)}
		}
		out.month = month
	}
	out.class = categorical(c.Class)
	out.section = categorical(c.Section)
	out.classType = categorical(c.ClassType)
	return out, nil
}

func categorical(v string) string {
	if v == All {
		return ""
	}
	return v
}

// Validate reports whether the year and month are well formed.
func (c Criteria) Validate() error {
	_, err := c.compile()
	return err
}

// Describe renders the date constraints for a report header.
func (c Criteria) Describe() string {
	year := strings.TrimSpace(c.Year)
	if year == "" {
		year = All
	}
	month := strings.TrimSpace(c.Month)
	if month == "" {
		month = All
	}
	return fmt.Sprintf("Year=%s, Month=%s", year, month)
}

// Filter drops records with unparseable dates and returns those matching
// every constraint, in their original order.
func Filter(records []model.Record, c Criteria) ([]model.Record, error) {
	cc, err := c.compile()
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		date, ok := rec.ParsedDate()
		if !ok {
			continue
		}
		if cc.year != 0 && date.Year() != cc.year {
			continue
		}
		if cc.month != 0 && int(date.Month()) != cc.month {
			continue
		}
		if cc.class != "" && rec.Class != cc.class {
			continue
		}
		if cc.section != "" && rec.Section != cc.section {
			continue
		}
		if cc.classType != "" && string(rec.ClassType) != cc.classType {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
