package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/sma-console/internal/models"
	"github.com/noah-isme/sma-console/pkg/apiclient"
)

// Backend issues one request against the school REST API.
type Backend interface {
	Do(ctx context.Context, req apiclient.Request, out interface{}) error
}

// StudentRepository maps student operations 1:1 onto backend endpoints.
type StudentRepository struct {
	api Backend
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(api Backend) *StudentRepository {
	return &StudentRepository{api: api}
}

// List fetches every student.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	return r.list(ctx, "/students")
}

// FindByID fetches one student. A null body yields (nil, nil).
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student *models.Student
	if err := r.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Route: "/students/:id", Params: []string{id}}, &student); err != nil {
		return nil, err
	}
	return student, nil
}

// Create posts a new student and returns the stored record.
func (r *StudentRepository) Create(ctx context.Context, student models.Student) (*models.Student, error) {
	var created models.Student
	if err := r.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Route: "/students", Body: student}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the full student record.
func (r *StudentRepository) Update(ctx context.Context, id string, student models.Student) (*models.Student, error) {
	var updated models.Student
	if err := r.api.Do(ctx, apiclient.Request{Method: http.MethodPut, Route: "/students/:id", Params: []string{id}, Body: student}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete soft-deletes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	return r.api.Do(ctx, apiclient.Request{Method: http.MethodDelete, Route: "/students/:id", Params: []string{id}}, nil)
}

// Restore reactivates a soft-deleted student.
func (r *StudentRepository) Restore(ctx context.Context, id string) error {
	return r.api.Do(ctx, apiclient.Request{Method: http.MethodPut, Route: "/students/:id/restore", Params: []string{id}}, nil)
}

// ListByInstitution fetches students of an institution.
func (r *StudentRepository) ListByInstitution(ctx context.Context, institutionID string) ([]models.Student, error) {
	return r.list(ctx, "/students/institution/:id", institutionID)
}

// ListByStatus fetches students with the given status.
func (r *StudentRepository) ListByStatus(ctx context.Context, status string) ([]models.Student, error) {
	return r.list(ctx, "/students/status/:status", status)
}

// ListByGender fetches students with the given gender.
func (r *StudentRepository) ListByGender(ctx context.Context, gender string) ([]models.Student, error) {
	return r.list(ctx, "/students/gender/:gender", gender)
}

func (r *StudentRepository) list(ctx context.Context, route string, params ...string) ([]models.Student, error) {
	var students []models.Student
	if err := r.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Route: route, Params: params}, &students); err != nil {
		return nil, err
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}
