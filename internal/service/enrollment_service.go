package service

import (
	"context"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
	"github.com/noah-isme/sma-console/pkg/apiclient"
	appErrors "github.com/noah-isme/sma-console/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context) ([]models.Enrollment, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment models.Enrollment) (*models.Enrollment, error)
	Update(ctx context.Context, id string, enrollment models.Enrollment) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Enrollment, error)
	ListByStatus(ctx context.Context, status string) ([]models.Enrollment, error)
	ListByYear(ctx context.Context, year string) ([]models.Enrollment, error)
	ListByPeriod(ctx context.Context, period string) ([]models.Enrollment, error)
	ListByStudentAndStatus(ctx context.Context, studentID, status string) ([]models.Enrollment, error)
	ListByClassroomAndStatus(ctx context.Context, classroomID, status string) ([]models.Enrollment, error)
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// StudentLookup is the outcome of resolving one student id.
type StudentLookup struct {
	Student *models.Student
	Err     error
}

// ResolveEnrollmentQuery picks the backend lookup for filter. The first matching
// rule wins: id, student+status, classroom+status, student, classroom, status,
// year, period, else all.
func ResolveEnrollmentQuery(filter models.EnrollmentFilter) models.EnrollmentQueryKind {
	switch {
	case filter.ID != "":
		return models.EnrollmentQueryByID
	case filter.StudentID != "" && filter.Status != "":
		return models.EnrollmentQueryStudentStatus
	case filter.ClassroomID != "" && filter.Status != "":
		return models.EnrollmentQueryClassroomStatus
	case filter.StudentID != "":
		return models.EnrollmentQueryStudent
	case filter.ClassroomID != "":
		return models.EnrollmentQueryClassroom
	case filter.Status != "":
		return models.EnrollmentQueryStatus
	case filter.Year != "":
		return models.EnrollmentQueryYear
	case filter.Period != "":
		return models.EnrollmentQueryPeriod
	default:
		return models.EnrollmentQueryAll
	}
}

// EnrollmentService orchestrates the enrollment pages.
type EnrollmentService struct {
	repo        enrollmentRepository
	students    studentFinder
	validator   *FormValidator
	metrics     *MetricsService
	concurrency int
	now         func() time.Time
	logger      *zap.Logger
}

// EnrollmentServiceOption customises the enrollment service.
type EnrollmentServiceOption func(*EnrollmentService)

// WithEnrichmentConcurrency bounds parallel student lookups.
func WithEnrichmentConcurrency(n int) EnrollmentServiceOption {
	return func(s *EnrollmentService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithEnrollmentMetrics records lookup failures.
func WithEnrollmentMetrics(metrics *MetricsService) EnrollmentServiceOption {
	return func(s *EnrollmentService) { s.metrics = metrics }
}

// WithEnrollmentClock overrides the clock used for year choices.
func WithEnrollmentClock(now func() time.Time) EnrollmentServiceOption {
	return func(s *EnrollmentService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, students studentFinder, validator *FormValidator, logger *zap.Logger, opts ...EnrollmentServiceOption) *EnrollmentService {
	if validator == nil {
		validator = NewFormValidator(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &EnrollmentService{
		repo:        repo,
		students:    students,
		validator:   validator,
		concurrency: 4,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// List fetches enrollments through the endpoint chosen by ResolveEnrollmentQuery.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	switch ResolveEnrollmentQuery(filter) {
	case models.EnrollmentQueryByID:
		enrollment, err := s.repo.FindByID(ctx, filter.ID)
		if err != nil {
			return nil, err
		}
		if enrollment == nil {
			return []models.Enrollment{}, nil
		}
		return []models.Enrollment{*enrollment}, nil
	case models.EnrollmentQueryStudentStatus:
		return s.repo.ListByStudentAndStatus(ctx, filter.StudentID, filter.Status)
	case models.EnrollmentQueryClassroomStatus:
		return s.repo.ListByClassroomAndStatus(ctx, filter.ClassroomID, filter.Status)
	case models.EnrollmentQueryStudent:
		return s.repo.ListByStudent(ctx, filter.StudentID)
	case models.EnrollmentQueryClassroom:
		return s.repo.ListByClassroom(ctx, filter.ClassroomID)
	case models.EnrollmentQueryStatus:
		return s.repo.ListByStatus(ctx, filter.Status)
	case models.EnrollmentQueryYear:
		return s.repo.ListByYear(ctx, filter.Year)
	case models.EnrollmentQueryPeriod:
		return s.repo.ListByPeriod(ctx, filter.Period)
	default:
		return s.repo.List(ctx)
	}
}

// Get returns one enrollment or a not found error.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Matrícula no encontrada")
	}
	return enrollment, nil
}

// Form opens an enrollment form in mode.
func (s *EnrollmentService) Form(mode FormMode[models.Enrollment]) *EnrollmentForm {
	return NewEnrollmentForm(mode, s.validator)
}

// Save submits the form. A 409 on create means the student already holds an
// active enrollment and is reported with a dedicated message.
func (s *EnrollmentService) Save(ctx context.Context, mode FormMode[models.Enrollment], input dto.EnrollmentInput) (*models.Enrollment, error) {
	existing, isEdit := mode.Existing()
	saved, err := s.Form(mode).Submit(ctx, input, func(ctx context.Context, payload models.Enrollment) (*models.Enrollment, error) {
		if isEdit {
			return s.repo.Update(ctx, existing.ID.String(), payload)
		}
		created, err := s.repo.Create(ctx, payload)
		if status, ok := apiclient.StatusCode(err); ok && status == http.StatusConflict {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, ActiveEnrollmentConflictMessage)
		}
		return created, err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("enrollment saved", zap.String("id", saved.ID.String()), zap.Bool("edit", isEdit))
	return saved, nil
}

// Delete soft-deletes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("enrollment deleted", zap.String("id", id))
	return nil
}

// Restore reactivates an enrollment.
func (s *EnrollmentService) Restore(ctx context.Context, id string) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	s.logger.Info("enrollment restored", zap.String("id", id))
	return nil
}

// ResolveStudents looks up every distinct student id of enrollments concurrently.
// Each id maps to its student or its failure; one failed lookup never cancels
// the others.
func (s *EnrollmentService) ResolveStudents(ctx context.Context, enrollments []models.Enrollment) map[string]StudentLookup {
	ids := distinctStudentIDs(enrollments)
	results := make([]StudentLookup, len(ids))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			student, err := s.students.FindByID(ctx, id)
			if err == nil && student == nil {
				err = appErrors.Clone(appErrors.ErrNotFound, "Estudiante no encontrado")
			}
			results[i] = StudentLookup{Student: student, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	lookups := make(map[string]StudentLookup, len(ids))
	for i, id := range ids {
		if results[i].Err != nil {
			s.metrics.IncEnrichmentFailure()
			s.logger.Warn("student lookup failed", zap.String("student_id", id), zap.Error(results[i].Err))
		}
		lookups[id] = results[i]
	}
	return lookups
}

// YearChoices lists the current year and the four before it.
func (s *EnrollmentService) YearChoices() []string {
	year := s.now().Year()
	years := make([]string, 0, 5)
	for y := year; y > year-5; y-- {
		years = append(years, models.YearOf(time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)))
	}
	return years
}

// PeriodChoices lists both half-year periods of every year choice.
func (s *EnrollmentService) PeriodChoices() []string {
	years := s.YearChoices()
	periods := make([]string, 0, len(years)*2)
	for _, y := range years {
		periods = append(periods, y+"-1", y+"-2")
	}
	return periods
}

func distinctStudentIDs(enrollments []models.Enrollment) []string {
	seen := make(map[string]struct{}, len(enrollments))
	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		if e.StudentID == "" {
			continue
		}
		if _, ok := seen[e.StudentID]; ok {
			continue
		}
		seen[e.StudentID] = struct{}{}
		ids = append(ids, e.StudentID)
	}
	sort.Strings(ids)
	return ids
}
