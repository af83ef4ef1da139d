package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/verte-zerg/rollbook/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps the table in a SQLite database. The autoincrement id
// preserves insertion order.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attendance (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			roll_number TEXT NOT NULL,
			name TEXT NOT NULL,
			subject TEXT NOT NULL,
			class_name TEXT NOT NULL,
			section TEXT NOT NULL,
			class_type TEXT NOT NULL,
			status TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date);`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_roll_number ON attendance(roll_number);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load returns every record ordered by insertion.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, roll_number, name, subject, class_name, section, class_type, status
		 FROM attendance
		 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		var classType, status string
		if err := rows.Scan(&rec.Date, &rec.RollNumber, &rec.Name, &rec.Subject, &rec.Class, &rec.Section, &classType, &status); err != nil {
			return nil, err
		}
		rec.ClassType = model.ClassType(classType)
		rec.Status = model.Status(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Append inserts a record.
func (s *SQLiteStore) Append(ctx context.Context, rec model.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (date, roll_number, name, subject, class_name, section, class_type, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Date,
		rec.RollNumber,
		rec.Name,
		rec.Subject,
		rec.Class,
		rec.Section,
		string(rec.ClassType),
		string(rec.Status),
	)
	return err
}

// Reset deletes every record.
func (s *SQLiteStore) Reset(ctx context.Context) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM attendance`); err != nil {
		return err
	}
	return tx.Commit()
}
