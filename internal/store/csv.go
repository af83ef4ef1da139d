package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/verte-zerg/rollbook/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVStore keeps the table in a comma-separated file with a header row.
// Every write rewrites the whole file through a temp file and a rename.
type CSVStore struct {
	path string
	logf Logf
}

type fingerprint struct {
	exists  bool
	size    int64
	modTime time.Time
}

func (f fingerprint) equal(other fingerprint) bool {
	return f.exists == other.exists && f.size == other.size && f.modTime.Equal(other.modTime)
}

// OpenCSV prepares a CSV store at path. The file is created on first Load.
func OpenCSV(path string, logf Logf) (*CSVStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &CSVStore{path: path, logf: logf}, nil
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Close implements Store. The CSV store holds no open handles.
func (s *CSVStore) Close() error {
	return nil
}

// Load reads the table. A missing file is created with the header only;
// an unreadable file is replaced by an empty table.
func (s *CSVStore) Load(ctx context.Context) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, _, err := s.read()
	return records, err
}

// Append re-reads the table, appends rec and persists the result. It fails
// with model.ErrConflict when the file changes while being rewritten.
func (s *CSVStore) Append(ctx context.Context, rec model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records, fp, err := s.read()
	if err != nil {
		return err
	}
	records = append(records, rec)
	return s.write(records, &fp)
}

// Reset persists an empty table with the header only.
func (s *CSVStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(nil, nil)
}

func (s *CSVStore) read() ([]model.Record, fingerprint, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fingerprint{}, fmt.Errorf("failed to read attendance file: %w", err)
		}
		if err := s.write(nil, nil); err != nil {
			return nil, fingerprint{}, err
		}
		fp, err := s.stat()
		return nil, fp, err
	}
	fp, err := s.stat()
	if err != nil {
		return nil, fingerprint{}, err
	}

	records, canonical, perr := decodeTable(data)
	if perr != nil {
		s.logf("%v; starting from an empty table\n", &model.ParseError{Path: s.path, Err: perr})
		records = nil
		canonical = false
	}
	if !canonical {
		if err := s.write(records, &fp); err != nil {
			return nil, fingerprint{}, err
		}
		if fp, err = s.stat(); err != nil {
			return nil, fingerprint{}, err
		}
	}
	return records, fp, nil
}

func (s *CSVStore) stat() (fingerprint, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fingerprint{}, nil
		}
		return fingerprint{}, fmt.Errorf("failed to stat attendance file: %w", err)
	}
	return fingerprint{exists: true, size: info.Size(), modTime: info.ModTime()}, nil
}

// write replaces the file with records. When expect is set the file must
// still match it right before the rename.
func (s *CSVStore) write(records []model.Record, expect *fingerprint) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "attendance-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := encodeTable(tmpFile, records); err != nil {
		return fmt.Errorf("failed to write attendance file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync attendance file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close attendance file: %w", err)
	}
	if expect != nil {
		current, err := s.stat()
		if err != nil {
			return err
		}
		if !current.equal(*expect) {
			return model.ErrConflict
		}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace attendance file: %w", err)
	}
	return nil
}

func encodeTable(f *os.File, records []model.Record) error {
	w := csv.NewWriter(f)
	if err := w.Write(model.Columns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(rec.Values()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// decodeTable parses a CSV table and normalizes it to model.Columns: columns
// are matched by header name, unknown ones dropped and missing ones filled
// with "". canonical is false when the header differs from model.Columns.
func decodeTable(data []byte) (records []model.Record, canonical bool, err error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, errors.New("file has no header row")
	}

	header := rows[0]
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := positions[name]; !ok {
			positions[name] = i
		}
	}

	records = make([]model.Record, 0, len(rows)-1)
	for line, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, false, fmt.Errorf("row %d has %d fields, header has %d", line+2, len(row), len(header))
		}
		values := make([]string, len(model.Columns))
		for i, col := range model.Columns {
			if idx, ok := positions[col]; ok && idx < len(row) {
				values[i] = row[idx]
			}
		}
		records = append(records, model.RecordFromValues(values))
	}
	return records, slices.Equal(header, model.Columns), nil
}
