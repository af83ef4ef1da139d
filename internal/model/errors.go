package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation indicates a missing or invalid input field.
	ErrValidation = errors.New("validation error")
	// ErrNoData indicates an empty store or an empty filtered view.
	ErrNoData = errors.New("no data")
	// ErrNoMatches indicates a search with zero results.
	ErrNoMatches = errors.New("no matching records found")
	// ErrConflict indicates the persisted file changed between read and write.
	ErrConflict = errors.New("attendance file was modified externally")
)

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if len(e.Fields) == 0 {
		return "please fill all fields"
	}
	return fmt.Sprintf("please fill all fields (missing or invalid: %s)", strings.Join(e.Fields, ", "))
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ParseError describes a persisted file that could not be read as a table.
// It is recovered by treating the file as empty.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unreadable attendance file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
