package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/rollbook/internal/model"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return filepath.Join(dir, "attendance.csv")
}

func markStudent(t *testing.T, data, date, status string) {
	t.Helper()
	out, err := runCLI(t, "", "mark", "--data", data,
		"--date", date, "--roll", "1", "--name", "Alice", "--subject", "Math",
		"--class", "CSE", "--section", "A", "--status", status)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !strings.Contains(out, "Attendance marked for Alice (1) [Theory] in Math") {
		t.Fatalf("unexpected mark output: %q", out)
	}
}

func TestRecordsEmpty(t *testing.T) {
	data := setupCLI(t)
	out, err := runCLI(t, "", "records", "--data", data)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if strings.TrimSpace(out) != "Attendance file is empty." {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestMarkThenRecords(t *testing.T) {
	data := setupCLI(t)
	markStudent(t, data, "2024-03-01", "present")

	out, err := runCLI(t, "", "records", "--data", data)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if !strings.Contains(out, "Roll Number") || !strings.Contains(out, "2024-03-01") || !strings.Contains(out, "Present") {
		t.Fatalf("unexpected records output: %q", out)
	}
}

func TestMarkMissingFields(t *testing.T) {
	data := setupCLI(t)
	_, err := runCLI(t, "", "mark", "--data", data, "--roll", "1", "--subject", "Math")
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	out, err := runCLI(t, "", "records", "--data", data)
	if err != nil || strings.TrimSpace(out) != "Attendance file is empty." {
		t.Fatalf("rejected mark must not be stored: %q (%v)", out, err)
	}
}

func TestMarkRejectsBadDate(t *testing.T) {
	data := setupCLI(t)
	if _, err := runCLI(t, "", "mark", "--data", data, "--date", "01/03/2024"); err == nil {
		t.Fatalf("expected date error")
	}
}

func TestBuildMarkRequestDefaultsToToday(t *testing.T) {
	newRootCmd()
	now := time.Date(2024, time.May, 2, 10, 0, 0, 0, time.Local)
	req, err := buildMarkRequest(now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !req.Date.Equal(now) || req.ClassType != model.Theory || req.Status != model.Present {
		t.Fatalf("unexpected defaults: %+v", req)
	}
}

func TestReportAndExport(t *testing.T) {
	data := setupCLI(t)
	markStudent(t, data, "2024-03-01", "Present")
	markStudent(t, data, "2024-03-02", "Absent")

	xlsx := filepath.Join(t.TempDir(), "report.xlsx")
	out, err := runCLI(t, "", "report", "--data", data, "--year", "2024", "--export", "--output", xlsx)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "Session Report: Year=2024, Month=All") || !strings.Contains(out, "50.00") {
		t.Fatalf("unexpected report output: %q", out)
	}
	if _, err := os.Stat(xlsx); err != nil {
		t.Fatalf("expected exported workbook: %v", err)
	}

	_, err = runCLI(t, "", "report", "--data", data, "--year", "2020")
	if !errors.Is(err, model.ErrNoData) {
		t.Fatalf("expected no data error, got %v", err)
	}
	_, err = runCLI(t, "", "report", "--data", data, "--month", "13")
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	data := setupCLI(t)
	markStudent(t, data, "2024-03-01", "Present")

	out, err := runCLI(t, "", "search", "--data", data, "--by", "subject", "  math ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Alice") {
		t.Fatalf("unexpected search output: %q", out)
	}

	_, err = runCLI(t, "", "search", "--data", data, "2")
	if !errors.Is(err, model.ErrNoMatches) {
		t.Fatalf("expected no matches, got %v", err)
	}
	if _, err := runCLI(t, "", "search", "--data", data, "--by", "name", "Alice"); err == nil {
		t.Fatalf("expected invalid field error")
	}
}

func TestNewSession(t *testing.T) {
	data := setupCLI(t)
	markStudent(t, data, "2024-03-01", "Present")

	out, err := runCLI(t, "n\n", "new-session", "--data", data)
	if err != nil {
		t.Fatalf("new-session: %v", err)
	}
	if !strings.Contains(out, "New session cancelled.") {
		t.Fatalf("unexpected output: %q", out)
	}
	out, _ = runCLI(t, "", "records", "--data", data)
	if strings.Contains(out, "Attendance file is empty.") {
		t.Fatalf("cancel must keep records")
	}

	out, err = runCLI(t, "", "new-session", "--data", data, "--yes")
	if err != nil {
		t.Fatalf("new-session --yes: %v", err)
	}
	if !strings.Contains(out, "Fresh attendance session started.") {
		t.Fatalf("unexpected output: %q", out)
	}
	content, err := os.ReadFile(data)
	if err != nil {
		t.Fatalf("read data: %v", err)
	}
	if strings.TrimSpace(string(content)) != strings.Join(model.Columns, ",") {
		t.Fatalf("expected header only, got %q", content)
	}
}

func TestConfigStoragePath(t *testing.T) {
	setupCLI(t)
	data := filepath.Join(t.TempDir(), "from-config.csv")
	cfgPath := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "rollbook", "config.toml")
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfgPath, []byte("[storage]\npath = \""+filepath.ToSlash(data)+"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := runCLI(t, "", "records"); err != nil {
		t.Fatalf("records: %v", err)
	}
	if _, err := os.Stat(data); err != nil {
		t.Fatalf("expected store at configured path: %v", err)
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	setupCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("write default config: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(content), `# classes = ["CSE", "ECE", "MECH", "IT"]`) {
		t.Fatalf("unexpected template: %s", content)
	}
}
