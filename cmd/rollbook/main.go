// Package main provides the CLI entrypoint for rollbook.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/rollbook/internal/config"
	"github.com/verte-zerg/rollbook/internal/model"
	"github.com/verte-zerg/rollbook/internal/query"
	"github.com/verte-zerg/rollbook/internal/recorder"
	"github.com/verte-zerg/rollbook/internal/report"
	"github.com/verte-zerg/rollbook/internal/store"
	"github.com/verte-zerg/rollbook/internal/ui"
)

const defaultExportPath = "Attendance_Report.xlsx"

var (
	defaultClasses  = []string{"CSE", "ECE", "MECH", "IT"}
	defaultSections = []string{"A", "B", "C"}
)

var (
	dataPath   string
	dataDriver string

	markDate    string
	markRoll    string
	markName    string
	markSubject string
	markClass   string
	markSection string
	markType    string
	markStatus  string

	reportYear    string
	reportMonth   string
	reportClass   string
	reportSection string
	reportType    string
	reportExport  bool
	reportOutput  string

	searchBy string

	resetYes bool
)

// settings is the resolved configuration after flags and the config file.
type settings struct {
	driver     string
	path       string
	classes    []string
	sections   []string
	exportPath string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rollbook",
		Short:         "Student attendance register",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runUICmd,
	}

	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "attendance file path")
	rootCmd.PersistentFlags().StringVar(&dataDriver, "driver", store.DriverCSV, "storage driver (csv or sqlite)")

	rootCmd.AddCommand(newMarkCmd())
	rootCmd.AddCommand(newRecordsCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "driver", &dataDriver, fileCfg.Storage.Driver)
	applyStringConfig(cmd, "data", &dataPath, fileCfg.Storage.Path)

	s := settings{
		driver:     strings.ToLower(strings.TrimSpace(dataDriver)),
		path:       dataPath,
		classes:    defaultClasses,
		sections:   defaultSections,
		exportPath: defaultExportPath,
	}
	if s.path == "" {
		s.path = config.DefaultDataPath(s.driver)
	}
	if len(fileCfg.Form.Classes) > 0 {
		s.classes = fileCfg.Form.Classes
	}
	if len(fileCfg.Form.Sections) > 0 {
		s.sections = fileCfg.Form.Sections
	}
	if fileCfg.Report.ExportPath != nil && *fileCfg.Report.ExportPath != "" {
		s.exportPath = *fileCfg.Report.ExportPath
	}
	return s, nil
}

func openStore(cmd *cobra.Command) (store.Store, settings, error) {
	s, err := resolveSettings(cmd)
	if err != nil {
		return nil, settings{}, err
	}
	st, err := store.Open(s.driver, s.path, store.WithLogger(logErrf))
	if err != nil {
		return nil, settings{}, fmt.Errorf("failed to open attendance store: %w", err)
	}
	return st, s, nil
}

func closeStore(st store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close attendance store: %v\n", cerr)
	}
}

func runUICmd(cmd *cobra.Command, _ []string) error {
	st, s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	m := ui.NewModel(st, ui.Options{
		Classes:    s.classes,
		Sections:   s.sections,
		ExportPath: s.exportPath,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newMarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark attendance for one student",
		Args:  cobra.NoArgs,
		RunE:  runMarkCmd,
	}
	cmd.Flags().StringVar(&markDate, "date", "", "lecture date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&markRoll, "roll", "", "roll number")
	cmd.Flags().StringVar(&markName, "name", "", "student name")
	cmd.Flags().StringVar(&markSubject, "subject", "", "subject")
	cmd.Flags().StringVar(&markClass, "class", "", "class")
	cmd.Flags().StringVar(&markSection, "section", "", "section")
	cmd.Flags().StringVar(&markType, "type", string(model.Theory), "class type (Theory or Practical)")
	cmd.Flags().StringVar(&markStatus, "status", string(model.Present), "status (Present or Absent)")
	return cmd
}

func runMarkCmd(cmd *cobra.Command, _ []string) error {
	req, err := buildMarkRequest(time.Now())
	if err != nil {
		return err
	}
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	conf, err := recorder.Mark(context.Background(), st, req)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), conf.String()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func buildMarkRequest(now time.Time) (recorder.MarkRequest, error) {
	date := now
	if strings.TrimSpace(markDate) != "" {
		parsed, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(markDate), time.Local)
		if err != nil {
			return recorder.MarkRequest{}, fmt.Errorf("invalid --date value: %w", err)
		}
		date = parsed
	}
	req := recorder.MarkRequest{
		Date:       date,
		RollNumber: markRoll,
		Name:       markName,
		Subject:    markSubject,
		Class:      markClass,
		Section:    markSection,
		ClassType:  model.ClassType(markType),
		Status:     model.Status(markStatus),
	}
	if ct, ok := model.ParseClassType(markType); ok {
		req.ClassType = ct
	}
	if st, ok := model.ParseStatus(markStatus); ok {
		req.Status = st
	}
	return req, nil
}

func newRecordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "Show all attendance records",
		Args:  cobra.NoArgs,
		RunE:  runRecordsCmd,
	}
}

func runRecordsCmd(cmd *cobra.Command, _ []string) error {
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	records, err := st.Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load attendance: %w", err)
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Attendance file is empty.")
		return err
	}
	return report.RenderRecords(cmd.OutOrStdout(), records)
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize attendance per student and subject",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportYear, "year", "", "year filter (YYYY)")
	cmd.Flags().StringVar(&reportMonth, "month", "", "month filter (1-12)")
	cmd.Flags().StringVar(&reportClass, "class", query.All, "class filter")
	cmd.Flags().StringVar(&reportSection, "section", query.All, "section filter")
	cmd.Flags().StringVar(&reportType, "type", query.All, "class type filter")
	cmd.Flags().BoolVar(&reportExport, "export", false, "also save the report as an xlsx workbook")
	cmd.Flags().StringVar(&reportOutput, "output", "", "xlsx path for --export (default from config)")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	st, s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	criteria := query.Criteria{
		Year:      reportYear,
		Month:     reportMonth,
		Class:     reportClass,
		Section:   reportSection,
		ClassType: reportType,
	}
	rep, err := report.Build(context.Background(), st, criteria)
	if err != nil {
		return err
	}
	if err := report.RenderSummary(cmd.OutOrStdout(), rep); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !reportExport {
		return nil
	}
	out := reportOutput
	if out == "" {
		out = s.exportPath
	}
	if err := report.Export(out, rep); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	logErrf("Report saved successfully at: %s\n", out)
	return nil
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find records by roll number or subject",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearchCmd,
	}
	cmd.Flags().StringVar(&searchBy, "by", "roll", "field to search (roll or subject)")
	return cmd
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	field, ok := query.ParseSearchField(searchBy)
	if !ok {
		return fmt.Errorf("invalid --by value %q (use roll or subject)", searchBy)
	}
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	records, err := st.Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load attendance: %w", err)
	}
	matches, err := query.Search(records, field, args[0])
	if err != nil {
		return err
	}
	return report.RenderRecords(cmd.OutOrStdout(), matches)
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new-session",
		Short: "Start a new session, deleting all records",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "This will delete all previous records. Continue? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "New session cancelled.")
			return err
		}
	}

	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.Reset(context.Background()); err != nil {
		return fmt.Errorf("failed to reset attendance: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Fresh attendance session started.")
	return err
}

var errNotInteractive = errors.New("refusing to delete records without confirmation; rerun with --yes")

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false, errNotInteractive
	}
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# rollbook configuration
# Uncomment a value to enable it. CLI flags override config values.

[storage]
# path = %q    # Attendance file
# driver = "csv"      # csv or sqlite

[form]
# classes = %s
# sections = %s

[report]
# export-path = %q
`,
		config.DefaultDataPath(store.DriverCSV),
		tomlList(defaultClasses),
		tomlList(defaultSections),
		defaultExportPath,
	)
}

func tomlList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
