package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
	"github.com/noah-isme/sma-console/internal/service"
)

type enrollmentService interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
	Get(ctx context.Context, id string) (*models.Enrollment, error)
	Form(mode service.FormMode[models.Enrollment]) *service.EnrollmentForm
	Save(ctx context.Context, mode service.FormMode[models.Enrollment], input dto.EnrollmentInput) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	ResolveStudents(ctx context.Context, enrollments []models.Enrollment) map[string]service.StudentLookup
	YearChoices() []string
	PeriodChoices() []string
}

const enrollmentsPath = "/enrollments"

// EnrollmentHandler serves the enrollment pages.
type EnrollmentHandler struct {
	enrollments enrollmentService
	opts        PageOptions
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService, opts PageOptions) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, opts: opts}
}

// List renders the enrollment table. Student names are resolved for the
// visible page only.
func (h *EnrollmentHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, service.Notice(c.Query("notice")))
}

func (h *EnrollmentHandler) renderList(c *gin.Context, status int, feedback *dto.Feedback) {
	var panel dto.EnrollmentFilterPanel
	var view dto.EnrollmentViewFilter
	_ = c.ShouldBindQuery(&panel)
	_ = c.ShouldBindQuery(&view)

	ctx := c.Request.Context()
	filter := panel.Filter()
	enrollments, err := h.enrollments.List(ctx, filter)
	if err != nil {
		fallback := service.MsgEnrollmentLoadFailed
		if service.ResolveEnrollmentQuery(filter) != models.EnrollmentQueryAll {
			fallback = service.MsgEnrollmentFilterFailed
		}
		feedback = service.LoadFailure(err, fallback, h.opts.BaseURL)
		status = failureStatus(err)
		enrollments = nil
	}

	visible := service.FilterEnrollments(enrollments, view.View())
	page, size := pageParams(c, h.opts.pageSize())
	pagination := service.Paginate(len(visible), page, size)
	current := visible[pagination.Offset:pagination.End]

	renderPage(c, status, "enrollments.html", "Matrículas", navEnrollments, dto.EnrollmentListPage{
		Panel:      panel,
		View:       view,
		Rows:       service.EnrollmentRows(current, h.enrollments.ResolveStudents(ctx, current)),
		Pagination: navigation(c, enrollmentsPath, pagination),
		Total:      len(visible),
		Years:      h.enrollments.YearChoices(),
		Periods:    h.enrollments.PeriodChoices(),
		Feedback:   feedback,
	}, feedback)
}

// Show renders one enrollment with its student.
func (h *EnrollmentHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	enrollment, err := h.enrollments.Get(ctx, c.Param("id"))
	if err != nil {
		renderError(c, navEnrollments, enrollmentsPath, err, service.MsgEnrollmentLoadFailed)
		return
	}
	records := []models.Enrollment{*enrollment}
	rows := service.EnrollmentRows(records, h.enrollments.ResolveStudents(ctx, records))
	renderPage(c, http.StatusOK, "enrollment_detail.html", "Matrícula", navEnrollments, rows[0], nil)
}

// New renders an empty create form.
func (h *EnrollmentHandler) New(c *gin.Context) {
	mode := service.CreateMode[models.Enrollment]()
	h.renderForm(c, http.StatusOK, mode, h.enrollments.Form(mode).Initial(), nil, nil)
}

// Create submits the create form. A student with an active enrollment keeps
// the form open with the conflict message.
func (h *EnrollmentHandler) Create(c *gin.Context) {
	h.submit(c, service.CreateMode[models.Enrollment](), service.MsgEnrollmentCreateFailed)
}

// Edit renders the edit form pre-populated from the stored record.
func (h *EnrollmentHandler) Edit(c *gin.Context) {
	enrollment, err := h.enrollments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, navEnrollments, enrollmentsPath, err, service.MsgEnrollmentLoadFailed)
		return
	}
	mode := service.EditMode(*enrollment)
	h.renderForm(c, http.StatusOK, mode, h.enrollments.Form(mode).Initial(), nil, nil)
}

// Update submits the edit form.
func (h *EnrollmentHandler) Update(c *gin.Context) {
	enrollment, err := h.enrollments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, navEnrollments, enrollmentsPath, err, service.MsgEnrollmentLoadFailed)
		return
	}
	h.submit(c, service.EditMode(*enrollment), service.MsgEnrollmentUpdateFailed)
}

func (h *EnrollmentHandler) submit(c *gin.Context, mode service.FormMode[models.Enrollment], fallback string) {
	var input dto.EnrollmentInput
	_ = c.ShouldBind(&input)
	input = service.SetEnrollmentDate(input, input.EnrollmentDate)

	if _, err := h.enrollments.Save(c.Request.Context(), mode, input); err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			h.renderForm(c, http.StatusUnprocessableEntity, mode, input, validationErr.Fields, nil)
			return
		}
		h.renderForm(c, failureStatus(err), mode, input, nil, service.Failure(err, fallback))
		return
	}
	redirectWithNotice(c, enrollmentsPath, service.NoticeEnrollmentSaved)
}

// ConfirmDelete asks before deactivating an enrollment.
func (h *EnrollmentHandler) ConfirmDelete(c *gin.Context) {
	h.confirm(c, "Eliminar matrícula", "¿Está seguro de eliminar la matrícula %s?", "delete")
}

// Delete soft-deletes an enrollment and returns to the list.
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	if err := h.enrollments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderList(c, failureStatus(err), service.Failure(err, service.MsgEnrollmentDeleteFailed))
		return
	}
	redirectWithNotice(c, enrollmentsPath, service.NoticeEnrollmentDeleted)
}

// ConfirmRestore asks before reactivating an enrollment.
func (h *EnrollmentHandler) ConfirmRestore(c *gin.Context) {
	h.confirm(c, "Restaurar matrícula", "¿Desea restaurar la matrícula %s?", "restore")
}

// Restore reactivates an enrollment and returns to the list.
func (h *EnrollmentHandler) Restore(c *gin.Context) {
	if err := h.enrollments.Restore(c.Request.Context(), c.Param("id")); err != nil {
		h.renderList(c, failureStatus(err), service.Failure(err, service.MsgEnrollmentRestoreFailed))
		return
	}
	redirectWithNotice(c, enrollmentsPath, service.NoticeEnrollmentRestored)
}

func (h *EnrollmentHandler) confirm(c *gin.Context, title, message, action string) {
	enrollment, err := h.enrollments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, navEnrollments, enrollmentsPath, err, service.MsgEnrollmentLoadFailed)
		return
	}
	renderPage(c, http.StatusOK, "confirm.html", title, navEnrollments, dto.ConfirmPage{
		Title:   title,
		Message: fmt.Sprintf(message, enrollment.ID),
		Action:  fmt.Sprintf("%s/%s/%s", enrollmentsPath, enrollment.ID, action),
		Cancel:  enrollmentsPath,
	}, nil)
}

func (h *EnrollmentHandler) renderForm(c *gin.Context, status int, mode service.FormMode[models.Enrollment], input dto.EnrollmentInput, fieldErrors map[string]string, feedback *dto.Feedback) {
	page := dto.FormPage{
		Title:    "Nueva matrícula",
		Action:   enrollmentsPath,
		Input:    input,
		Errors:   fieldErrors,
		Feedback: feedback,
		Options: dto.FormOptions{
			Years:   h.enrollments.YearChoices(),
			Periods: h.enrollments.PeriodChoices(),
		},
	}
	if existing, ok := mode.Existing(); ok {
		page.Title = "Editar matrícula"
		page.Action = enrollmentsPath + "/" + existing.ID.String()
		page.Edit = true
	}
	renderPage(c, status, "enrollment_form.html", page.Title, navEnrollments, page, feedback)
}
