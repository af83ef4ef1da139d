// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Storage StorageConfig `toml:"storage"`
	Form    FormConfig    `toml:"form"`
	Report  ReportConfig  `toml:"report"`
}

// StorageConfig selects where and how records are persisted.
type StorageConfig struct {
	Path   *string `toml:"path"`
	Driver *string `toml:"driver"`
}

// FormConfig holds the suggestion lists offered by the entry form.
type FormConfig struct {
	Classes  []string `toml:"classes"`
	Sections []string `toml:"sections"`
}

// ReportConfig maps report-related settings.
type ReportConfig struct {
	ExportPath *string `toml:"export-path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
