package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
	"github.com/noah-isme/sma-console/internal/service"
	"github.com/noah-isme/sma-console/internal/view"
	appErrors "github.com/noah-isme/sma-console/pkg/errors"
	"github.com/noah-isme/sma-console/pkg/middleware/clientid"
)

const testBaseURL = "http://backend.test/api/v1"

type fakeStudentService struct {
	students   []models.Student
	listErr    error
	listCalls  int
	lastFilter models.StudentFilter
	draft      dto.StudentInput
	drafts     bool
	drafted    *dto.StudentInput
	saveErr    error
	saved      []dto.StudentInput
	savedEdit  bool
	mutateErr  error
	deleted    []string
	restored   []string
}

func (f *fakeStudentService) List(_ context.Context, filter models.StudentFilter) ([]models.Student, error) {
	f.listCalls++
	f.lastFilter = filter
	return f.students, f.listErr
}

func (f *fakeStudentService) Get(_ context.Context, id string) (*models.Student, error) {
	for i := range f.students {
		if f.students[i].ID.String() == id {
			return &f.students[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "Estudiante no encontrado")
}

func (f *fakeStudentService) InitialInput(_ context.Context, mode service.FormMode[models.Student]) dto.StudentInput {
	if mode.IsEdit() {
		return service.NewStudentForm(mode, nil).Initial()
	}
	return f.draft
}

func (f *fakeStudentService) Save(_ context.Context, mode service.FormMode[models.Student], input dto.StudentInput) (*models.Student, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, input)
	f.savedEdit = mode.IsEdit()
	return &models.Student{ID: "new"}, nil
}

func (f *fakeStudentService) SaveDraft(_ context.Context, input dto.StudentInput) error {
	f.drafted = &input
	return nil
}

func (f *fakeStudentService) DraftsEnabled() bool { return f.drafts }

func (f *fakeStudentService) Delete(_ context.Context, id string) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStudentService) Restore(_ context.Context, id string) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.restored = append(f.restored, id)
	return nil
}

type fakeEnrollmentService struct {
	enrollments []models.Enrollment
	listErr     error
	listCalls   int
	lastFilter  models.EnrollmentFilter
	lookups     map[string]service.StudentLookup
	resolved    [][]models.Enrollment
	saveErr     error
	saved       []dto.EnrollmentInput
	mutateErr   error
	deleted     []string
}

func (f *fakeEnrollmentService) List(_ context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	f.listCalls++
	f.lastFilter = filter
	return f.enrollments, f.listErr
}

func (f *fakeEnrollmentService) Get(_ context.Context, id string) (*models.Enrollment, error) {
	for i := range f.enrollments {
		if f.enrollments[i].ID.String() == id {
			return &f.enrollments[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "Matrícula no encontrada")
}

func (f *fakeEnrollmentService) Form(mode service.FormMode[models.Enrollment]) *service.EnrollmentForm {
	return service.NewEnrollmentForm(mode, nil)
}

func (f *fakeEnrollmentService) Save(_ context.Context, _ service.FormMode[models.Enrollment], input dto.EnrollmentInput) (*models.Enrollment, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, input)
	return &models.Enrollment{ID: "new"}, nil
}

func (f *fakeEnrollmentService) Delete(_ context.Context, id string) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeEnrollmentService) Restore(_ context.Context, _ string) error {
	return f.mutateErr
}

func (f *fakeEnrollmentService) ResolveStudents(_ context.Context, enrollments []models.Enrollment) map[string]service.StudentLookup {
	f.resolved = append(f.resolved, enrollments)
	return f.lookups
}

func (f *fakeEnrollmentService) YearChoices() []string { return []string{"2024", "2023"} }

func (f *fakeEnrollmentService) PeriodChoices() []string {
	return []string{"2024-1", "2024-2", "2023-1", "2023-2"}
}

type fakeDashboardService struct {
	summary   *dto.DashboardSummary
	file      *dto.ExportFile
	err       error
	lastQuery dto.ExportFilter
}

func (f *fakeDashboardService) Summary(context.Context) (*dto.DashboardSummary, error) {
	return f.summary, f.err
}

func (f *fakeDashboardService) Export(_ context.Context, filter dto.ExportFilter) (*dto.ExportFile, error) {
	f.lastQuery = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.file, nil
}

type testServices struct {
	students    studentService
	enrollments *fakeEnrollmentService
	dashboard   dashboardService
}

func newTestRouter(t *testing.T, svc testServices) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if svc.students == nil {
		svc.students = &fakeStudentService{}
	}
	if svc.enrollments == nil {
		svc.enrollments = &fakeEnrollmentService{}
	}
	if svc.dashboard == nil {
		svc.dashboard = &fakeDashboardService{}
	}

	tmpl, err := view.Templates()
	require.NoError(t, err)

	opts := PageOptions{BaseURL: testBaseURL, PageSize: 10}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(clientid.Middleware(false))
	RegisterRoutes(r, r.Group("/api"), Handlers{
		Students:    NewStudentHandler(svc.students, opts),
		Enrollments: NewEnrollmentHandler(svc.enrollments, opts),
		Dashboard:   NewDashboardHandler(svc.dashboard, opts),
		Metrics:     NewMetricsHandler(service.NewMetricsService(), nil),
	})
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(r http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(rec, req)
	return rec
}

func student(id, first, last string, status models.Status) models.Student {
	return models.Student{
		ID:             models.ID(id),
		InstitutionID:  "1",
		DocumentType:   models.DocumentDNI,
		DocumentNumber: "4567890" + id[len(id)-1:],
		FirstName:      first,
		LastName:       last,
		Gender:         models.GenderFemale,
		BirthDate:      "2010-03-14",
		Status:         status,
	}
}
