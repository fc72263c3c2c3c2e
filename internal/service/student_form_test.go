package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
)

func TestStudentFormCreateNormalizesPayload(t *testing.T) {
	form := NewStudentForm(CreateMode[models.Student](), NewFormValidator(clock))

	var calls []models.Student
	saved, err := form.Submit(context.Background(), validStudentInput(), func(_ context.Context, payload models.Student) (*models.Student, error) {
		calls = append(calls, payload)
		payload.ID = "42"
		return &payload, nil
	})
	require.NoError(t, err)
	require.Len(t, calls, 1)

	payload := calls[0]
	assert.Equal(t, models.StatusActive, payload.Status)
	assert.Equal(t, "Ana_Li_12345678", payload.NameQR)
	assert.Equal(t, "2004-06-15", payload.BirthDate)
	assert.Equal(t, models.DocumentDNI, payload.DocumentType)
	assert.True(t, payload.ID.IsZero())
	assert.Empty(t, payload.CreatedAt)
	assert.Equal(t, models.ID("42"), saved.ID)
}

func TestStudentFormTrimsInput(t *testing.T) {
	form := NewStudentForm(CreateMode[models.Student](), NewFormValidator(clock))
	input := validStudentInput()
	input.FirstName = "  Ana   María "
	input.DocumentType = "dni"

	payload, err := form.Normalize(input)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", payload.FirstName)
	assert.Equal(t, "Ana María_Li_12345678", payload.NameQR)
}

func TestStudentFormValidationBlocksSubmit(t *testing.T) {
	form := NewStudentForm(CreateMode[models.Student](), NewFormValidator(clock))
	input := validStudentInput()
	input.Phone = "123"

	called := false
	_, err := form.Submit(context.Background(), input, func(context.Context, models.Student) (*models.Student, error) {
		called = true
		return nil, nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, FieldErrors(err), "phone")
}

func TestStudentFormEditModePreservesStatus(t *testing.T) {
	existing := models.Student{
		ID:             "7",
		InstitutionID:  "1",
		DocumentType:   models.DocumentCE,
		DocumentNumber: "123456789",
		FirstName:      "Luis",
		LastName:       "Rojas",
		Gender:         models.GenderMale,
		BirthDate:      "2001-02-03T00:00:00Z",
		Address:        "Av 2",
		Phone:          "912345678",
		Email:          "l@r.pe",
		Status:         models.StatusInactive,
		CreatedAt:      "2023-01-01T10:00:00Z",
	}
	form := NewStudentForm(EditMode(existing), NewFormValidator(clock))
	require.True(t, form.Mode().IsEdit())

	initial := form.Initial()
	assert.Equal(t, "2001-02-03", initial.BirthDate)
	assert.Equal(t, "CE", initial.DocumentType)

	payload, err := form.Normalize(initial)
	require.NoError(t, err)
	assert.Equal(t, models.ID("7"), payload.ID)
	assert.Equal(t, models.StatusInactive, payload.Status)
	assert.Equal(t, "Luis_Rojas_123456789", payload.NameQR)
	assert.Empty(t, payload.CreatedAt)
}

func TestStudentFormCreateModeStartsEmpty(t *testing.T) {
	form := NewStudentForm(CreateMode[models.Student](), nil)
	assert.False(t, form.Mode().IsEdit())
	assert.Equal(t, dto.StudentInput{}, form.Initial())
}
