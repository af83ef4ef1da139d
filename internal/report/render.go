package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/rollbook/internal/model"
)

var (
	presentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	absentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	headStyle    = lipgloss.NewStyle().Bold(true)
)

// StatusStyle returns the colour used for a status cell.
func StatusStyle(s model.Status) lipgloss.Style {
	if s == model.Present {
		return presentStyle
	}
	return absentStyle
}

// SummaryRows formats report rows as table cells in model.SummaryColumns order.
func SummaryRows(rows []model.ReportRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.RollNumber,
			r.Name,
			r.Subject,
			fmt.Sprintf("%d", r.TotalLectures),
			fmt.Sprintf("%d", r.Present),
			fmt.Sprintf("%.2f", r.AttendancePercent),
		})
	}
	return out
}

// RecordRows formats records as table cells in model.Columns order.
func RecordRows(records []model.Record) [][]string {
	out := make([][]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Values())
	}
	return out
}

// RenderSummary prints the report title and the summary table.
func RenderSummary(w io.Writer, r Report) error {
	useColor := shouldUseColor(w)
	if _, err := fmt.Fprintln(w, r.Title()); err != nil {
		return err
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true}
	lines := formatStyledTable(model.SummaryColumns, SummaryRows(r.Rows), rightAlign, func(row, _ int, cell string) string {
		if useColor && row < 0 {
			return headStyle.Render(cell)
		}
		return cell
	})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderRecords prints records with the status column coloured when w is a
// terminal.
func RenderRecords(w io.Writer, records []model.Record) error {
	useColor := shouldUseColor(w)
	statusCol := len(model.Columns) - 1
	lines := formatStyledTable(model.Columns, RecordRows(records), nil, func(row, col int, cell string) string {
		if !useColor {
			return cell
		}
		if row < 0 {
			return headStyle.Render(cell)
		}
		if col == statusCol {
			return StatusStyle(records[row].Status).Render(cell)
		}
		return cell
	})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
