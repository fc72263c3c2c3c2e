package service

import (
	"context"
	"strings"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
)

// EnrollmentForm validates and normalises one enrollment form submission.
type EnrollmentForm struct {
	mode      FormMode[models.Enrollment]
	validator *FormValidator
}

// NewEnrollmentForm opens an enrollment form in the given mode.
func NewEnrollmentForm(mode FormMode[models.Enrollment], validator *FormValidator) *EnrollmentForm {
	if validator == nil {
		validator = NewFormValidator(nil)
	}
	return &EnrollmentForm{mode: mode, validator: validator}
}

// Mode returns the form mode.
func (f *EnrollmentForm) Mode() FormMode[models.Enrollment] {
	return f.mode
}

// Initial returns the field values the form opens with.
func (f *EnrollmentForm) Initial() dto.EnrollmentInput {
	existing, ok := f.mode.Existing()
	if !ok {
		return dto.EnrollmentInput{}
	}
	input := dto.EnrollmentInput{
		ClassroomID:      existing.ClassroomID,
		StudentID:        existing.StudentID,
		EnrollmentYear:   existing.EnrollmentYear,
		EnrollmentPeriod: existing.EnrollmentPeriod,
	}
	if day, ok := models.ParseDate(existing.EnrollmentDate); ok {
		input.EnrollmentDate = day.Format(models.DateLayout)
	}
	return input
}

// SetEnrollmentDate writes the date and the year and period derived from it.
// Clearing the date clears both. An unparseable date leaves them empty.
func SetEnrollmentDate(input dto.EnrollmentInput, raw string) dto.EnrollmentInput {
	input.EnrollmentDate = strings.TrimSpace(raw)
	input.EnrollmentYear = ""
	input.EnrollmentPeriod = ""
	if day, ok := models.ParseDate(input.EnrollmentDate); ok {
		input.EnrollmentYear = models.YearOf(day)
		input.EnrollmentPeriod = models.PeriodOf(day)
	}
	return input
}

// Normalize derives year and period from the date, validates and builds the payload.
func (f *EnrollmentForm) Normalize(input dto.EnrollmentInput) (models.Enrollment, error) {
	input.ClassroomID = strings.TrimSpace(input.ClassroomID)
	input.StudentID = strings.TrimSpace(input.StudentID)
	input = SetEnrollmentDate(input, input.EnrollmentDate)

	if err := f.validator.Struct(input); err != nil {
		return models.Enrollment{}, err
	}

	enrollment := models.Enrollment{
		ClassroomID:      input.ClassroomID,
		StudentID:        input.StudentID,
		EnrollmentDate:   input.EnrollmentDate,
		EnrollmentYear:   input.EnrollmentYear,
		EnrollmentPeriod: input.EnrollmentPeriod,
		Status:           models.StatusActive,
	}
	if existing, ok := f.mode.Existing(); ok {
		enrollment.ID = existing.ID
		if existing.Status.Valid() {
			enrollment.Status = existing.Status
		}
	}
	return enrollment, nil
}

// Submit normalises input and invokes onSubmit exactly once when it is valid.
func (f *EnrollmentForm) Submit(ctx context.Context, input dto.EnrollmentInput, onSubmit func(context.Context, models.Enrollment) (*models.Enrollment, error)) (*models.Enrollment, error) {
	payload, err := f.Normalize(input)
	if err != nil {
		return nil, err
	}
	return onSubmit(ctx, payload)
}
