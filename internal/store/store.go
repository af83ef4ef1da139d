// Package store persists attendance records.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/verte-zerg/rollbook/internal/model"
)

// Supported storage drivers.
const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

// Store holds the attendance table for one session.
type Store interface {
	// Load returns every record in insertion order.
	Load(ctx context.Context) ([]model.Record, error)
	// Append adds a record at the end and persists the table.
	Append(ctx context.Context, rec model.Record) error
	// Reset discards every record.
	Reset(ctx context.Context) error
	Close() error
}

// Logf receives recovery notices.
type Logf func(format string, args ...any)

type options struct {
	logf Logf
}

// Option configures Open.
type Option func(*options)

// WithLogger routes recovery notices (e.g. an unreadable file) to logf.
func WithLogger(logf Logf) Option {
	return func(o *options) {
		if logf != nil {
			o.logf = logf
		}
	}
}

// Open opens the store for the given driver, creating it when absent.
func Open(driver, path string, opts ...Option) (Store, error) {
	o := options{logf: func(string, ...any) {}}
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is empty")
	}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverCSV:
		return OpenCSV(path, o.logf)
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q (use %s or %s)", driver, DriverCSV, DriverSQLite)
	}
}
