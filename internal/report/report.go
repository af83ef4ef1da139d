// Package report aggregates attendance into per-student summaries.
package report

import (
	"context"
	"fmt"

	"github.com/verte-zerg/rollbook/internal/model"
	"github.com/verte-zerg/rollbook/internal/query"
	"github.com/verte-zerg/rollbook/internal/store"
)

var (
	errEmptyStore    = fmt.Errorf("%w: no attendance records found", model.ErrNoData)
	errEmptySelected = fmt.Errorf("%w: no records found for selected filters", model.ErrNoData)
)

// Report contains the filtered records and their summary.
type Report struct {
	Criteria query.Criteria
	Records  []model.Record
	Rows     []model.ReportRow
}

// Title renders the report heading.
func (r Report) Title() string {
	return "Session Report: " + r.Criteria.Describe()
}

// Build loads the store, filters it and aggregates the result.
func Build(ctx context.Context, st store.Store, c query.Criteria) (Report, error) {
	if err := c.Validate(); err != nil {
		return Report{}, err
	}
	records, err := st.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	if len(records) == 0 {
		return Report{}, errEmptyStore
	}
	filtered, err := query.Filter(records, c)
	if err != nil {
		return Report{}, err
	}
	if len(filtered) == 0 {
		return Report{}, errEmptySelected
	}
	return Report{
		Criteria: c,
		Records:  filtered,
		Rows:     Aggregate(filtered),
	}, nil
}
