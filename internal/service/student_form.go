package service

import (
	"context"
	"strings"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
)

// StudentForm validates and normalises one student form submission.
type StudentForm struct {
	mode      FormMode[models.Student]
	validator *FormValidator
}

// NewStudentForm opens a student form in the given mode.
func NewStudentForm(mode FormMode[models.Student], validator *FormValidator) *StudentForm {
	if validator == nil {
		validator = NewFormValidator(nil)
	}
	return &StudentForm{mode: mode, validator: validator}
}

// Mode returns the form mode.
func (f *StudentForm) Mode() FormMode[models.Student] {
	return f.mode
}

// Initial returns the field values the form opens with. Create mode starts empty.
func (f *StudentForm) Initial() dto.StudentInput {
	existing, ok := f.mode.Existing()
	if !ok {
		return dto.StudentInput{}
	}
	input := dto.StudentInput{
		InstitutionID:  existing.InstitutionID,
		DocumentType:   string(existing.DocumentType),
		DocumentNumber: existing.DocumentNumber,
		FirstName:      existing.FirstName,
		LastName:       existing.LastName,
		Gender:         string(existing.Gender),
		Address:        existing.Address,
		Phone:          existing.Phone,
		Email:          existing.Email,
	}
	if day, ok := existing.BirthDay(); ok {
		input.BirthDate = day.Format(models.DateLayout)
	}
	return input
}

// Normalize validates input and builds the payload sent to the backend.
func (f *StudentForm) Normalize(input dto.StudentInput) (models.Student, error) {
	input = trimStudentInput(input)
	if err := f.validator.Struct(input); err != nil {
		return models.Student{}, err
	}

	birth, _ := models.ParseDate(input.BirthDate)
	student := models.Student{
		InstitutionID:  input.InstitutionID,
		DocumentType:   models.DocumentType(input.DocumentType),
		DocumentNumber: input.DocumentNumber,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Gender:         models.Gender(input.Gender),
		BirthDate:      birth.Format(models.DateLayout),
		Address:        input.Address,
		Phone:          input.Phone,
		Email:          input.Email,
		NameQR:         models.NameQR(input.FirstName, input.LastName, input.DocumentNumber),
		Status:         models.StatusActive,
	}
	if existing, ok := f.mode.Existing(); ok {
		student.ID = existing.ID
		if existing.Status.Valid() {
			student.Status = existing.Status
		}
	}
	return student, nil
}

// Submit normalises input and invokes onSubmit exactly once when it is valid.
// Validation failures never reach onSubmit.
func (f *StudentForm) Submit(ctx context.Context, input dto.StudentInput, onSubmit func(context.Context, models.Student) (*models.Student, error)) (*models.Student, error) {
	payload, err := f.Normalize(input)
	if err != nil {
		return nil, err
	}
	return onSubmit(ctx, payload)
}

func trimStudentInput(in dto.StudentInput) dto.StudentInput {
	return dto.StudentInput{
		InstitutionID:  strings.TrimSpace(in.InstitutionID),
		DocumentType:   strings.ToUpper(strings.TrimSpace(in.DocumentType)),
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		FirstName:      collapseSpaces(in.FirstName),
		LastName:       collapseSpaces(in.LastName),
		Gender:         strings.ToUpper(strings.TrimSpace(in.Gender)),
		BirthDate:      strings.TrimSpace(in.BirthDate),
		Address:        strings.TrimSpace(in.Address),
		Phone:          strings.TrimSpace(in.Phone),
		Email:          strings.TrimSpace(in.Email),
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
