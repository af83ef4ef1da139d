package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/rollbook/internal/model"
	"github.com/verte-zerg/rollbook/internal/query"
	"github.com/verte-zerg/rollbook/internal/recorder"
	"github.com/verte-zerg/rollbook/internal/report"
)

// Mark form field order.
const (
	markDate = iota
	markRoll
	markName
	markSubject
	markClassType
	markClass
	markSection
	markStatus
)

// Report form field order.
const (
	reportYear = iota
	reportMonth
	reportClass
	reportSection
	reportClassType
)

func (m *Model) initMarkInputs() {
	m.markInputs = []textinput.Model{
		newInput("Date (YYYY-MM-DD): "),
		newInput("Roll Number: "),
		newInput("Name: "),
		newInput("Subject: "),
		newInput("Class Type: "),
		newInput("Class: "),
		newInput("Section: "),
		newInput("Status: "),
	}
	withSuggestions(&m.markInputs[markClassType], enumStrings(model.ClassTypes))
	withSuggestions(&m.markInputs[markClass], m.opts.Classes)
	withSuggestions(&m.markInputs[markSection], m.opts.Sections)
	withSuggestions(&m.markInputs[markStatus], enumStrings(model.Statuses))
	m.clearMarkFields()
}

func (m *Model) initReportInputs() {
	m.reportInputs = []textinput.Model{
		newInput("Year (YYYY): "),
		newInput("Month (MM, optional): "),
		newInput("Class: "),
		newInput("Section: "),
		newInput("Class Type: "),
	}
	withSuggestions(&m.reportInputs[reportClass], append([]string{query.All}, m.opts.Classes...))
	withSuggestions(&m.reportInputs[reportSection], append([]string{query.All}, m.opts.Sections...))
	withSuggestions(&m.reportInputs[reportClassType], append([]string{query.All}, enumStrings(model.ClassTypes)...))
	for _, idx := range []int{reportClass, reportSection, reportClassType} {
		m.reportInputs[idx].SetValue(query.All)
	}
}

func withSuggestions(input *textinput.Model, values []string) {
	if len(values) == 0 {
		return
	}
	input.ShowSuggestions = true
	input.SetSuggestions(values)
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// clearMarkFields restores the form defaults; the date keeps today.
func (m *Model) clearMarkFields() {
	for i := range m.markInputs {
		m.markInputs[i].SetValue("")
	}
	m.markInputs[markDate].SetValue(m.opts.Now().Format(model.DateLayout))
	m.markInputs[markClassType].SetValue(string(model.Theory))
	m.markInputs[markStatus].SetValue(string(model.Present))
}

func (m *Model) updateMark(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m, setFocus(m.markInputs, &m.markIndex, m.markIndex+1)
	case "shift+tab", "up":
		return m, setFocus(m.markInputs, &m.markIndex, m.markIndex-1)
	case "ctrl+r":
		m.clearMarkFields()
		m.setStatus("", false)
		return m, setFocus(m.markInputs, &m.markIndex, markRoll)
	case "enter":
		m.submitMark()
		return m, nil
	}
	var cmd tea.Cmd
	m.markInputs[m.markIndex], cmd = m.markInputs[m.markIndex].Update(msg)
	return m, cmd
}

func (m *Model) markRequest() recorder.MarkRequest {
	value := func(i int) string {
		return strings.TrimSpace(m.markInputs[i].Value())
	}
	req := recorder.MarkRequest{
		RollNumber: value(markRoll),
		Name:       value(markName),
		Subject:    value(markSubject),
		Class:      value(markClass),
		Section:    value(markSection),
		ClassType:  model.ClassType(value(markClassType)),
		Status:     model.Status(value(markStatus)),
	}
	if date, err := time.ParseInLocation(model.DateLayout, value(markDate), time.Local); err == nil {
		req.Date = date
	}
	if ct, ok := model.ParseClassType(value(markClassType)); ok {
		req.ClassType = ct
	}
	if st, ok := model.ParseStatus(value(markStatus)); ok {
		req.Status = st
	}
	return req
}

func (m *Model) submitMark() {
	conf, err := recorder.Mark(context.Background(), m.store, m.markRequest())
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(conf.String(), false)
	date := m.markInputs[markDate].Value()
	m.clearMarkFields()
	m.markInputs[markDate].SetValue(date)
	setFocus(m.markInputs, &m.markIndex, markRoll)
}

func (m *Model) renderMark() string {
	lines := []string{titleStyle.Render("Mark Attendance")}
	for _, input := range m.markInputs {
		lines = append(lines, input.View())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) loadRecords() {
	records, err := m.store.Load(context.Background())
	if err != nil {
		m.setError(err)
		return
	}
	m.records = records
	setTableData(&m.recordsTable, model.Columns, statusRows(records))
}

var statusColumn = slices.Index(model.Columns, "Status")

// statusRows formats records as table cells with the status coloured.
func statusRows(records []model.Record) [][]string {
	rows := report.RecordRows(records)
	for i, rec := range records {
		rows[i][statusColumn] = report.StatusStyle(rec.Status).Render(string(rec.Status))
	}
	return rows
}

func (m *Model) criteria() query.Criteria {
	value := func(i int) string {
		return strings.TrimSpace(m.reportInputs[i].Value())
	}
	return query.Criteria{
		Year:      value(reportYear),
		Month:     value(reportMonth),
		Class:     value(reportClass),
		Section:   value(reportSection),
		ClassType: value(reportClassType),
	}
}

func (m *Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m, setFocus(m.reportInputs, &m.reportIndex, m.reportIndex+1)
	case "shift+tab":
		return m, setFocus(m.reportInputs, &m.reportIndex, m.reportIndex-1)
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.reportTable, cmd = m.reportTable.Update(msg)
		return m, cmd
	case "enter":
		m.generateReport()
		return m, nil
	case "ctrl+e":
		m.exportReport()
		return m, nil
	}
	var cmd tea.Cmd
	m.reportInputs[m.reportIndex], cmd = m.reportInputs[m.reportIndex].Update(msg)
	return m, cmd
}

func (m *Model) generateReport() {
	rep, err := report.Build(context.Background(), m.store, m.criteria())
	if err != nil {
		m.report = nil
		m.reportTable.SetRows(nil)
		m.setError(err)
		return
	}
	m.report = &rep
	setTableData(&m.reportTable, model.SummaryColumns, report.SummaryRows(rep.Rows))
	m.setStatus(fmt.Sprintf("%d students summarized from %d records.", len(rep.Rows), len(rep.Records)), false)
}

func (m *Model) exportReport() {
	if m.report == nil {
		m.setStatus("Generate a report before exporting.", true)
		return
	}
	if err := report.Export(m.opts.ExportPath, *m.report); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Report saved successfully at: %s", m.opts.ExportPath), false)
}

func (m *Model) renderReport() string {
	lines := []string{titleStyle.Render("Generate Report")}
	for _, input := range m.reportInputs {
		lines = append(lines, input.View())
	}
	if m.report == nil {
		return strings.Join(lines, "\n")
	}
	lines = append(lines, headerStyle.Render(m.report.Title()), m.reportTable.View())
	return strings.Join(lines, "\n")
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t":
		i := slices.Index(query.SearchFields, m.searchField)
		m.searchField = query.SearchFields[(i+1)%len(query.SearchFields)]
		return m, nil
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.searchTable, cmd = m.searchTable.Update(msg)
		return m, cmd
	case "enter":
		m.runSearch()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) runSearch() {
	m.searchResult = nil
	m.searchTable.SetRows(nil)
	records, err := m.store.Load(context.Background())
	if err != nil {
		m.setError(err)
		return
	}
	matches, err := query.Search(records, m.searchField, m.searchInput.Value())
	if err != nil {
		m.setError(err)
		return
	}
	m.searchResult = matches
	setTableData(&m.searchTable, model.Columns, statusRows(matches))
	m.setStatus(fmt.Sprintf("%d matching records.", len(matches)), false)
}

func (m *Model) renderSearch() string {
	lines := []string{
		titleStyle.Render("Search Attendance"),
		fmt.Sprintf("Search By: %s", m.searchField),
		m.searchInput.View(),
	}
	if len(m.searchResult) > 0 {
		lines = append(lines, m.searchTable.View())
	}
	return strings.Join(lines, "\n")
}

// setError maps an operation error to a single status line.
func (m *Model) setError(err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		m.setStatus("Input error: "+err.Error(), true)
	case errors.Is(err, model.ErrNoMatches):
		m.setStatus("No matching records found.", true)
	case errors.Is(err, model.ErrNoData):
		m.setStatus("No data: "+strings.TrimPrefix(err.Error(), model.ErrNoData.Error()+": "), true)
	default:
		m.setStatus("Error: "+err.Error(), true)
	}
}
