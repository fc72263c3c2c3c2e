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

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	InitialInput(ctx context.Context, mode service.FormMode[models.Student]) dto.StudentInput
	Save(ctx context.Context, mode service.FormMode[models.Student], input dto.StudentInput) (*models.Student, error)
	SaveDraft(ctx context.Context, input dto.StudentInput) error
	DraftsEnabled() bool
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

const studentsPath = "/students"

// StudentHandler serves the student pages.
type StudentHandler struct {
	students studentService
	opts     PageOptions
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, opts PageOptions) *StudentHandler {
	return &StudentHandler{students: students, opts: opts}
}

// List renders the student table. The filter panel picks the backend query,
// the view filters and pagination apply to the fetched list.
func (h *StudentHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, service.Notice(c.Query("notice")))
}

func (h *StudentHandler) renderList(c *gin.Context, status int, feedback *dto.Feedback) {
	var panel dto.StudentFilterPanel
	var view dto.StudentViewFilter
	_ = c.ShouldBindQuery(&panel)
	_ = c.ShouldBindQuery(&view)

	filter := panel.Filter()
	students, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		fallback := service.MsgStudentLoadFailed
		if service.ResolveStudentQuery(filter) != models.StudentQueryAll {
			fallback = service.MsgStudentFilterFailed
		}
		feedback = service.LoadFailure(err, fallback, h.opts.BaseURL)
		status = failureStatus(err)
		students = nil
	}

	visible := service.FilterStudents(students, view.View())
	page, size := pageParams(c, h.opts.pageSize())
	pagination := service.Paginate(len(visible), page, size)

	renderPage(c, status, "students.html", "Estudiantes", navStudents, dto.StudentListPage{
		Panel:      panel,
		View:       view,
		Rows:       service.StudentRows(visible[pagination.Offset:pagination.End]),
		Pagination: navigation(c, studentsPath, pagination),
		Total:      len(visible),
		Feedback:   feedback,
	}, feedback)
}

// Show renders one student.
func (h *StudentHandler) Show(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, navStudents, studentsPath, err, service.MsgStudentLoadFailed)
		return
	}
	renderPage(c, http.StatusOK, "student_detail.html", student.FullName(), navStudents, student, nil, gin.H{
		"BirthDate": models.FormatDisplayDate(student.BirthDate, "No disponible"),
		"CreatedAt": models.FormatDisplayDate(student.CreatedAt, "No disponible"),
	})
}

// New renders an empty create form, restored from the draft when one exists.
func (h *StudentHandler) New(c *gin.Context) {
	mode := service.CreateMode[models.Student]()
	input := h.students.InitialInput(c.Request.Context(), mode)
	h.renderForm(c, http.StatusOK, mode, input, nil, service.Notice(c.Query("notice")))
}

// Create submits the create form. The draft action stores the input instead.
func (h *StudentHandler) Create(c *gin.Context) {
	mode := service.CreateMode[models.Student]()
	var input dto.StudentInput
	_ = c.ShouldBind(&input)

	if c.PostForm("action") == "draft" && h.students.DraftsEnabled() {
		if err := h.students.SaveDraft(c.Request.Context(), input); err != nil {
			h.renderForm(c, failureStatus(err), mode, input, nil, service.Failure(err, service.MsgGeneric))
			return
		}
		redirectWithNotice(c, studentsPath+"/new", service.NoticeDraftSaved)
		return
	}

	if _, err := h.students.Save(c.Request.Context(), mode, input); err != nil {
		h.renderFailure(c, mode, input, err, service.MsgStudentCreateFailed)
		return
	}
	redirectWithNotice(c, studentsPath, service.NoticeStudentSaved)
}

// Edit renders the edit form pre-populated from the stored record.
func (h *StudentHandler) Edit(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, navStudents, studentsPath, err, service.MsgStudentLoadFailed)
		return
	}
	mode := service.EditMode(*student)
	h.renderForm(c, http.StatusOK, mode, h.students.InitialInput(c.Request.Context(), mode), nil, nil)
}

// Update submits the edit form.
func (h *StudentHandler) Update(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, navStudents, studentsPath, err, service.MsgStudentLoadFailed)
		return
	}
	mode := service.EditMode(*student)
	var input dto.StudentInput
	_ = c.ShouldBind(&input)

	if _, err := h.students.Save(c.Request.Context(), mode, input); err != nil {
		h.renderFailure(c, mode, input, err, service.MsgStudentUpdateFailed)
		return
	}
	redirectWithNotice(c, studentsPath, service.NoticeStudentSaved)
}

// ConfirmDelete asks before deactivating a student.
func (h *StudentHandler) ConfirmDelete(c *gin.Context) {
	h.confirm(c, "Eliminar estudiante", "¿Está seguro de eliminar a %s?", "delete")
}

// Delete soft-deletes a student and returns to the list.
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderList(c, failureStatus(err), service.Failure(err, service.MsgStudentDeleteFailed))
		return
	}
	redirectWithNotice(c, studentsPath, service.NoticeStudentDeleted)
}

// ConfirmRestore asks before reactivating a student.
func (h *StudentHandler) ConfirmRestore(c *gin.Context) {
	h.confirm(c, "Restaurar estudiante", "¿Desea restaurar a %s?", "restore")
}

// Restore reactivates a student and returns to the list.
func (h *StudentHandler) Restore(c *gin.Context) {
	if err := h.students.Restore(c.Request.Context(), c.Param("id")); err != nil {
		h.renderList(c, failureStatus(err), service.Failure(err, service.MsgStudentRestoreFailed))
		return
	}
	redirectWithNotice(c, studentsPath, service.NoticeStudentRestored)
}

func (h *StudentHandler) confirm(c *gin.Context, title, message, action string) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, navStudents, studentsPath, err, service.MsgStudentLoadFailed)
		return
	}
	renderPage(c, http.StatusOK, "confirm.html", title, navStudents, dto.ConfirmPage{
		Title:   title,
		Message: fmt.Sprintf(message, student.FullName()),
		Action:  fmt.Sprintf("%s/%s/%s", studentsPath, student.ID, action),
		Cancel:  studentsPath,
	}, nil)
}

// renderFailure keeps the form open: validation failures mark the fields,
// anything else is reported as a message.
func (h *StudentHandler) renderFailure(c *gin.Context, mode service.FormMode[models.Student], input dto.StudentInput, err error, fallback string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		h.renderForm(c, http.StatusUnprocessableEntity, mode, input, validationErr.Fields, nil)
		return
	}
	h.renderForm(c, failureStatus(err), mode, input, nil, service.Failure(err, fallback))
}

func (h *StudentHandler) renderForm(c *gin.Context, status int, mode service.FormMode[models.Student], input dto.StudentInput, fieldErrors map[string]string, feedback *dto.Feedback) {
	page := dto.FormPage{
		Title:    "Nuevo estudiante",
		Action:   studentsPath,
		Input:    input,
		Errors:   fieldErrors,
		Feedback: feedback,
		Drafts:   h.students.DraftsEnabled(),
		Options:  dto.FormOptions{DocumentTypes: documentTypes()},
	}
	if existing, ok := mode.Existing(); ok {
		page.Title = "Editar estudiante"
		page.Action = studentsPath + "/" + existing.ID.String()
		page.Edit = true
		page.Drafts = false
	}
	renderPage(c, status, "student_form.html", page.Title, navStudents, page, feedback)
}

func documentTypes() []string {
	types := make([]string, 0, len(models.DocumentTypes))
	for _, t := range models.DocumentTypes {
		types = append(types, string(t))
	}
	return types
}
