// Package recorder validates and appends attendance entries.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/rollbook/internal/model"
	"github.com/verte-zerg/rollbook/internal/store"
)

// MarkRequest carries one attendance entry from the front end.
type MarkRequest struct {
	Date       time.Time       `validate:"required" column:"Date"`
	RollNumber string          `validate:"required,singleline" column:"Roll Number"`
	Name       string          `validate:"required,singleline" column:"Name"`
	Subject    string          `validate:"required,singleline" column:"Subject"`
	Class      string          `validate:"required,singleline" column:"Class"`
	Section    string          `validate:"required,singleline" column:"Section"`
	ClassType  model.ClassType `validate:"required,oneof=Theory Practical" column:"Class Type"`
	Status     model.Status    `validate:"required,oneof=Present Absent" column:"Status"`
}

// Confirmation is returned after a successful mark for display.
type Confirmation struct {
	Name       string
	RollNumber string
	ClassType  model.ClassType
	Subject    string
}

func (c Confirmation) String() string {
	return fmt.Sprintf("Attendance marked for %s (%s) [%s] in %s", c.Name, c.RollNumber, c.ClassType, c.Subject)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("column")
	})
	if err := v.RegisterValidation("singleline", singleLine); err != nil {
		panic(err)
	}
	return v
}

// singleLine rejects control characters; a stored CRLF would not read back
// unchanged.
func singleLine(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsControl)
}

// Validate trims text fields and checks every field is present, single-line
// and allowed.
func Validate(req MarkRequest) (MarkRequest, error) {
	req.RollNumber = strings.TrimSpace(req.RollNumber)
	req.Name = strings.TrimSpace(req.Name)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Class = strings.TrimSpace(req.Class)
	req.Section = strings.TrimSpace(req.Section)

	err := validate.Struct(req)
	if err == nil {
		return req, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return req, err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return req, &model.ValidationError{Fields: fields}
}

// Record converts a validated request into a stored record.
func (req MarkRequest) Record() model.Record {
	return model.Record{
		Date:       req.Date.Format(model.DateLayout),
		RollNumber: req.RollNumber,
		Name:       req.Name,
		Subject:    req.Subject,
		Class:      req.Class,
		Section:    req.Section,
		ClassType:  req.ClassType,
		Status:     req.Status,
	}
}

// Mark validates req and appends it to st.
func Mark(ctx context.Context, st store.Store, req MarkRequest) (Confirmation, error) {
	req, err := Validate(req)
	if err != nil {
		return Confirmation{}, err
	}
	if err := st.Append(ctx, req.Record()); err != nil {
		return Confirmation{}, fmt.Errorf("failed to save attendance: %w", err)
	}
	return Confirmation{
		Name:       req.Name,
		RollNumber: req.RollNumber,
		ClassType:  req.ClassType,
		Subject:    req.Subject,
	}, nil
}
