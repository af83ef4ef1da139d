package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/rollbook/internal/model"
)

// Sheet names of an exported report.
const (
	RawSheet     = "Raw Attendance"
	SummarySheet = "Attendance Summary"
)

// Export writes the report as a two-sheet xlsx workbook at path.
func Export(path string, r Report) error {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of the in-memory workbook.
			_ = cerr
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), RawSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	if err := writeSheet(f, RawSheet, model.Columns, rawCells(r.Records)); err != nil {
		return err
	}
	if err := writeSheet(f, SummarySheet, model.SummaryColumns, summaryCells(r.Rows)); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "report-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp report: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if err := f.Write(tmpFile); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func rawCells(records []model.Record) [][]any {
	out := make([][]any, 0, len(records))
	for _, rec := range records {
		values := rec.Values()
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = v
		}
		out = append(out, row)
	}
	return out
}

func summaryCells(rows []model.ReportRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{
			r.RollNumber,
			r.Name,
			r.Subject,
			r.TotalLectures,
			r.Present,
			r.AttendancePercent,
		})
	}
	return out
}
