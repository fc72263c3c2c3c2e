package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/sma-console/internal/models"
	"github.com/noah-isme/sma-console/pkg/apiclient"
)

// EnrollmentRepository maps classroom-student operations onto backend endpoints.
type EnrollmentRepository struct {
	api Backend
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(api Backend) *EnrollmentRepository {
	return &EnrollmentRepository{api: api}
}

// List fetches every enrollment.
func (r *EnrollmentRepository) List(ctx context.Context) ([]models.Enrollment, error) {
	return r.list(ctx, "/classroom-students")
}

// FindByID fetches one enrollment. A null body yields (nil, nil).
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var enrollment *models.Enrollment
	if err := r.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Route: "/classroom-students/:id", Params: []string{id}}, &enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Create posts a new enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment models.Enrollment) (*models.Enrollment, error) {
	var created models.Enrollment
	if err := r.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Route: "/classroom-students", Body: enrollment}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the full enrollment record.
func (r *EnrollmentRepository) Update(ctx context.Context, id string, enrollment models.Enrollment) (*models.Enrollment, error) {
	var updated models.Enrollment
	if err := r.api.Do(ctx, apiclient.Request{Method: http.MethodPut, Route: "/classroom-students/:id", Params: []string{id}, Body: enrollment}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete soft-deletes an enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	return r.api.Do(ctx, apiclient.Request{Method: http.MethodDelete, Route: "/classroom-students/:id", Params: []string{id}}, nil)
}

// Restore reactivates a soft-deleted enrollment.
func (r *EnrollmentRepository) Restore(ctx context.Context, id string) error {
	return r.api.Do(ctx, apiclient.Request{Method: http.MethodPut, Route: "/classroom-students/:id/restore", Params: []string{id}}, nil)
}

// ListByStudent lists the enrollments of one student.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return r.list(ctx, "/classroom-students/student/:id", studentID)
}

// ListByClassroom lists the enrollments of one classroom.
func (r *EnrollmentRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.Enrollment, error) {
	return r.list(ctx, "/classroom-students/classroom/:id", classroomID)
}

// ListByStatus lists enrollments with status A or I.
func (r *EnrollmentRepository) ListByStatus(ctx context.Context, status string) ([]models.Enrollment, error) {
	return r.list(ctx, "/classroom-students/status/:status", status)
}

// ListByYear lists enrollments of one academic year.
func (r *EnrollmentRepository) ListByYear(ctx context.Context, year string) ([]models.Enrollment, error) {
	return r.list(ctx, "/classroom-students/year/:year", year)
}

// ListByPeriod lists enrollments of one half-year period such as "2024-1".
func (r *EnrollmentRepository) ListByPeriod(ctx context.Context, period string) ([]models.Enrollment, error) {
	return r.list(ctx, "/classroom-students/period/:period", period)
}

// ListByStudentAndStatus applies the compound student + status filter.
func (r *EnrollmentRepository) ListByStudentAndStatus(ctx context.Context, studentID, status string) ([]models.Enrollment, error) {
	return r.list(ctx, "/classroom-students/student/:id/status/:status", studentID, status)
}

// ListByClassroomAndStatus applies the compound classroom + status filter.
func (r *EnrollmentRepository) ListByClassroomAndStatus(ctx context.Context, classroomID, status string) ([]models.Enrollment, error) {
	return r.list(ctx, "/classroom-students/classroom/:id/status/:status", classroomID, status)
}

func (r *EnrollmentRepository) list(ctx context.Context, route string, params ...string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Route: route, Params: params}, &enrollments); err != nil {
		return nil, err
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	return enrollments, nil
}
