package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if cfg.Storage.Path != nil || len(cfg.Form.Classes) != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
path = "/tmp/att.csv"
driver = "sqlite"

[form]
classes = ["CSE", "IT"]
sections = ["A"]

[report]
export-path = "out.xlsx"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Path == nil || *cfg.Storage.Path != "/tmp/att.csv" {
		t.Fatalf("unexpected storage path: %v", cfg.Storage.Path)
	}
	if cfg.Storage.Driver == nil || *cfg.Storage.Driver != "sqlite" {
		t.Fatalf("unexpected driver: %v", cfg.Storage.Driver)
	}
	if len(cfg.Form.Classes) != 2 || cfg.Form.Sections[0] != "A" {
		t.Fatalf("unexpected form config: %+v", cfg.Form)
	}
	if cfg.Report.ExportPath == nil || *cfg.Report.ExportPath != "out.xlsx" {
		t.Fatalf("unexpected export path: %v", cfg.Report.ExportPath)
	}
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage\npath = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CONFIG_HOME", "/conf")
	if got := DefaultDataPath("csv"); got != filepath.Join("/data", "rollbook", "attendance.csv") {
		t.Fatalf("unexpected data path: %s", got)
	}
	if got := DefaultDataPath("sqlite"); got != filepath.Join("/data", "rollbook", "attendance.db") {
		t.Fatalf("unexpected sqlite path: %s", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join("/conf", "rollbook", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
}
