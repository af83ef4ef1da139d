package query

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/rollbook/internal/model"
)

// SearchField selects the column a search matches against.
type SearchField string

const (
	ByRollNumber SearchField = "Roll Number"
	BySubject    SearchField = "Subject"
)

// SearchFields lists the searchable columns.
var SearchFields = []SearchField{ByRollNumber, BySubject}

// ParseSearchField accepts "roll", "roll number" or "subject".
func ParseSearchField(s string) (SearchField, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "roll", "roll number", "roll-number", "rollnumber":
		return ByRollNumber, true
	case "subject":
		return BySubject, true
	}
	return "", false
}

// Search returns records whose field equals q, ignoring case. It searches
// the whole table and returns model.ErrNoMatches when nothing matches.
func Search(records []model.Record, field SearchField, q string) ([]model.Record, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, &model.ValidationError{Fields: []string{"Query"}, Reason: "please enter a value to search"}
	}
	var get func(model.Record) string
	switch field {
	case ByRollNumber:
		get = func(r model.Record) string { return r.RollNumber }
	case BySubject:
		get = func(r model.Record) string { return r.Subject }
	default:
		return nil, &model.ValidationError{Fields: []string{"Search By"}, Reason: fmt.Sprintf("invalid search type %q", field)}
	}

	var out []model.Record
	for _, rec := range records {
		if strings.EqualFold(get(rec), q) {
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		return nil, model.ErrNoMatches
	}
	return out, nil
}
