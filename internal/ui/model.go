// Package ui provides the Bubble Tea attendance interface.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/rollbook/internal/model"
	"github.com/verte-zerg/rollbook/internal/query"
	"github.com/verte-zerg/rollbook/internal/report"
	"github.com/verte-zerg/rollbook/internal/store"
)

const (
	tabMark = iota
	tabRecords
	tabReport
	tabSearch
)

const maxColumnWidth = 24

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Options configures the interface.
type Options struct {
	Classes    []string
	Sections   []string
	ExportPath string
	Now        func() time.Time
}

// Model implements the Bubble Tea attendance UI.
type Model struct {
	store store.Store
	opts  Options

	tabs      []string
	activeTab int

	width  int
	height int

	markInputs []textinput.Model
	markIndex  int

	records      []model.Record
	recordsTable table.Model

	reportInputs []textinput.Model
	reportIndex  int
	report       *report.Report
	reportTable  table.Model

	searchField  query.SearchField
	searchInput  textinput.Model
	searchTable  table.Model
	searchResult []model.Record

	confirmReset bool

	status    string
	statusErr bool
}

// NewModel constructs the attendance UI model.
func NewModel(st store.Store, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := &Model{
		store:       st,
		opts:        opts,
		tabs:        []string{"Mark", "Records", "Report", "Search"},
		searchField: query.SearchFields[0],
	}
	m.initMarkInputs()
	m.initReportInputs()
	m.searchInput = newInput("Query: ")
	m.recordsTable = newTable(model.Columns, nil, 1)
	m.reportTable = newTable(model.SummaryColumns, nil, 1)
	m.searchTable = newTable(model.Columns, nil, 1)
	m.focusActive()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirmReset {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "esc":
			return m, tea.Quit
		case "ctrl+right":
			return m, m.moveTab(1)
		case "ctrl+left":
			return m, m.moveTab(-1)
		case "ctrl+n":
			m.confirmReset = true
			return m, nil
		}
		switch m.activeTab {
		case tabMark:
			return m.updateMark(msg)
		case tabRecords:
			var cmd tea.Cmd
			m.recordsTable, cmd = m.recordsTable.Update(msg)
			return m, cmd
		case tabReport:
			return m.updateReport(msg)
		case tabSearch:
			return m.updateSearch(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirmReset {
		return fitLines(m.renderConfirm(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	if headerHeight < 1 {
		headerHeight = 1
	}
	footerHeight = 2
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.recordsTable.SetWidth(m.width)
	m.recordsTable.SetHeight(maxInt(1, bodyHeight-1))
	m.reportTable.SetWidth(m.width)
	m.reportTable.SetHeight(maxInt(1, bodyHeight-len(m.reportInputs)-3))
	m.searchTable.SetWidth(m.width)
	m.searchTable.SetHeight(maxInt(1, bodyHeight-4))
	for _, inputs := range [][]textinput.Model{m.markInputs, m.reportInputs} {
		for i := range inputs {
			inputs[i].Width = maxInt(10, m.width-lipgloss.Width(inputs[i].Prompt)-2)
		}
	}
	m.searchInput.Width = maxInt(10, m.width-lipgloss.Width(m.searchInput.Prompt)-2)
}

func (m *Model) moveTab(delta int) tea.Cmd {
	count := len(m.tabs)
	if count == 0 {
		return nil
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabRecords {
		m.loadRecords()
	}
	return m.focusActive()
}

func (m *Model) focusActive() tea.Cmd {
	m.recordsTable.Blur()
	m.reportTable.Blur()
	m.searchTable.Blur()
	blurAll(m.markInputs)
	blurAll(m.reportInputs)
	m.searchInput.Blur()
	switch m.activeTab {
	case tabMark:
		return setFocus(m.markInputs, &m.markIndex, m.markIndex)
	case tabRecords:
		m.recordsTable.Focus()
	case tabReport:
		m.reportTable.Focus()
		return setFocus(m.reportInputs, &m.reportIndex, m.reportIndex)
	case tabSearch:
		m.searchTable.Focus()
		return m.searchInput.Focus()
	}
	return nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmReset = false
	if msg.String() != "y" && msg.String() != "Y" {
		m.setStatus("New session cancelled.", false)
		return m, nil
	}
	if err := m.store.Reset(context.Background()); err != nil {
		m.setError(err)
		return m, nil
	}
	m.records = nil
	m.report = nil
	m.searchResult = nil
	m.recordsTable.SetRows(nil)
	m.reportTable.SetRows(nil)
	m.searchTable.SetRows(nil)
	m.setStatus("Fresh attendance session started.", false)
	return m, nil
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHelp() string {
	help := "Tabs: ctrl+left/right  New session: ctrl+n  Quit: esc"
	switch m.activeTab {
	case tabMark:
		help = "Fields: tab/shift+tab  Accept suggestion: right  Submit: enter  Clear: ctrl+r  " + help
	case tabRecords:
		help = "Scroll: up/down/pgup/pgdn  " + help
	case tabReport:
		help = "Fields: tab/shift+tab  Generate: enter  Export: ctrl+e  " + help
	case tabSearch:
		help = "Search by: ctrl+t  Search: enter  " + help
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	line := m.renderHelp()
	if m.status == "" {
		return line
	}
	if m.statusErr {
		return line + "\n" + errorStyle.Render(m.status)
	}
	return line + "\n" + successStyle.Render(m.status)
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabMark:
		return m.renderMark()
	case tabRecords:
		if len(m.records) == 0 {
			return "Attendance file is empty."
		}
		return m.recordsTable.View()
	case tabReport:
		return m.renderReport()
	case tabSearch:
		return m.renderSearch()
	}
	return ""
}

func (m *Model) renderConfirm() string {
	body := []string{
		titleStyle.Render("New Session"),
		"This will delete all previous records. Continue?",
		headerStyle.Render("y: confirm  any other key: cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("right"))
	return input
}

func newTable(headers []string, rows [][]string, height int) table.Model {
	t := table.New(
		table.WithColumns(tableColumns(headers, rows)),
		table.WithRows(toTableRows(rows)),
		table.WithHeight(maxInt(1, height)),
	)
	t.SetStyles(tableStyles())
	return t
}

func setTableData(t *table.Model, headers []string, rows [][]string) {
	t.SetColumns(tableColumns(headers, rows))
	t.SetRows(toTableRows(rows))
	t.GotoTop()
}

func tableColumns(headers []string, rows [][]string) []table.Column {
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		width := lipgloss.Width(h)
		for _, row := range rows {
			if i < len(row) {
				width = maxInt(width, lipgloss.Width(row[i]))
			}
		}
		cols[i] = table.Column{Title: h, Width: minInt(width, maxColumnWidth)}
	}
	return cols
}

func toTableRows(rows [][]string) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, table.Row(row))
	}
	return out
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func setFocus(inputs []textinput.Model, index *int, idx int) tea.Cmd {
	count := len(inputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	*index = idx
	var cmd tea.Cmd
	for i := range inputs {
		if i == idx {
			cmd = inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
	return cmd
}

func blurAll(inputs []textinput.Model) {
	for i := range inputs {
		inputs[i].Blur()
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 70))
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
