package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
	"github.com/noah-isme/sma-console/internal/service"
	"github.com/noah-isme/sma-console/pkg/apiclient"
)

func validStudentForm() url.Values {
	return url.Values{
		"institutionId":  {"1"},
		"documentType":   {"DNI"},
		"documentNumber": {"45678901"},
		"firstName":      {"Ana"},
		"lastName":       {"Li"},
		"gender":         {"F"},
		"birthDate":      {"2010-03-14"},
		"address":        {"Av. Sol 123"},
		"phone":          {"987654321"},
		"email":          {"ana@colegio.pe"},
	}
}

func TestStudentListDispatchesPanelFilter(t *testing.T) {
	svc := &fakeStudentService{}
	r := newTestRouter(t, testServices{students: svc})

	rec := get(r, "/students?status=I&gender=F&q=ana")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StudentFilter{Status: "I", Gender: "F"}, svc.lastFilter)
	assert.Equal(t, 1, svc.listCalls)
}

func TestStudentListAppliesSearchAndPagination(t *testing.T) {
	students := []models.Student{student("1", "Ana", "Li", models.StatusActive)}
	for i := 2; i <= 25; i++ {
		students = append(students, student(fmt.Sprint(i), "Luis", "Quispe", models.StatusActive))
	}
	r := newTestRouter(t, testServices{students: &fakeStudentService{students: students}})

	rec := get(r, "/students?q=ANA")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana Li")
	assert.NotContains(t, rec.Body.String(), "Luis Quispe")
	assert.Contains(t, rec.Body.String(), "Total: 1")

	rec = get(r, "/students?page=9&size=10")
	body := rec.Body.String()
	assert.Contains(t, body, "Página 3 de 3")
	assert.Contains(t, body, "page=2&amp;size=10")
	assert.Contains(t, body, "Total: 25")
}

func TestStudentListShowsNotice(t *testing.T) {
	r := newTestRouter(t, testServices{})

	rec := get(r, "/students?notice="+service.NoticeStudentDeleted)

	assert.Contains(t, rec.Body.String(), "Estudiante eliminado correctamente")
}

func TestStudentListBackendDown(t *testing.T) {
	svc := &fakeStudentService{listErr: &apiclient.TransportError{Method: http.MethodGet, Path: "/students", Err: fmt.Errorf("connection refused")}}
	r := newTestRouter(t, testServices{students: svc})

	rec := get(r, "/students")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error al cargar los estudiantes. Asegúrate de que el backend esté corriendo en "+testBaseURL)
	assert.Contains(t, rec.Body.String(), "No hay estudiantes.")
}

func TestStudentCreateRedirectsWithNotice(t *testing.T) {
	svc := &fakeStudentService{}
	r := newTestRouter(t, testServices{students: svc})

	rec := postForm(r, "/students", validStudentForm())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/students?notice=student_saved", rec.Header().Get("Location"))
	require.Len(t, svc.saved, 1)
	assert.Equal(t, "Ana", svc.saved[0].FirstName)
	assert.False(t, svc.savedEdit)
	assert.Zero(t, svc.listCalls)
}

func TestStudentCreateValidationKeepsForm(t *testing.T) {
	svc := &fakeStudentService{saveErr: &service.ValidationError{Fields: map[string]string{"firstName": "Nombres solo puede contener letras"}}}
	r := newTestRouter(t, testServices{students: svc})

	form := validStudentForm()
	form.Set("firstName", "Ana3")
	rec := postForm(r, "/students", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nombres solo puede contener letras")
	assert.Contains(t, rec.Body.String(), `value="Ana3"`)
	assert.Zero(t, svc.listCalls)
}

func TestStudentCreateBackendErrorShowsMessage(t *testing.T) {
	svc := &fakeStudentService{saveErr: &apiclient.Error{Status: http.StatusBadRequest, Message: "Documento duplicado"}}
	r := newTestRouter(t, testServices{students: svc})

	rec := postForm(r, "/students", validStudentForm())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Documento duplicado")
}

func TestStudentDraftSaveAndRestore(t *testing.T) {
	svc := &fakeStudentService{drafts: true}
	r := newTestRouter(t, testServices{students: svc})

	form := url.Values{"firstName": {"Ana"}, "action": {"draft"}}
	rec := postForm(r, "/students", form)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/students/new?notice=draft_saved", rec.Header().Get("Location"))
	require.NotNil(t, svc.drafted)
	assert.Equal(t, "Ana", svc.drafted.FirstName)
	assert.Empty(t, svc.saved)

	svc.draft = *svc.drafted
	rec = get(r, "/students/new?notice=draft_saved")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Ana"`)
	assert.Contains(t, rec.Body.String(), "Borrador guardado")
	assert.Contains(t, rec.Body.String(), "Guardar borrador")
}

func TestStudentDraftActionIgnoredWhenDisabled(t *testing.T) {
	svc := &fakeStudentService{}
	r := newTestRouter(t, testServices{students: svc})

	form := validStudentForm()
	form.Set("action", "draft")
	rec := postForm(r, "/students", form)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, svc.drafted)
	assert.Len(t, svc.saved, 1)
}

func TestStudentEditPrepopulates(t *testing.T) {
	svc := &fakeStudentService{students: []models.Student{student("7", "Ana", "Li", models.StatusActive)}}
	r := newTestRouter(t, testServices{students: svc})

	rec := get(r, "/students/7/edit")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Editar estudiante")
	assert.Contains(t, body, `action="/students/7"`)
	assert.Contains(t, body, `value="2010-03-14"`)
	assert.NotContains(t, body, "Guardar borrador")
}

func TestStudentUpdateUsesEditMode(t *testing.T) {
	svc := &fakeStudentService{students: []models.Student{student("7", "Ana", "Li", models.StatusInactive)}}
	r := newTestRouter(t, testServices{students: svc})

	rec := postForm(r, "/students/7", validStudentForm())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, svc.savedEdit)
}

func TestStudentEditUnknownIDRendersError(t *testing.T) {
	r := newTestRouter(t, testServices{})

	rec := get(r, "/students/404/edit")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Estudiante no encontrado")
}

func TestStudentDeleteFlow(t *testing.T) {
	svc := &fakeStudentService{students: []models.Student{student("7", "Ana", "Li", models.StatusActive)}}
	r := newTestRouter(t, testServices{students: svc})

	rec := get(r, "/students/7/delete")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "¿Está seguro de eliminar a Ana Li?")
	assert.Contains(t, rec.Body.String(), `action="/students/7/delete"`)
	assert.Empty(t, svc.deleted)

	rec = postForm(r, "/students/7/delete", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/students?notice=student_deleted", rec.Header().Get("Location"))
	assert.Equal(t, []string{"7"}, svc.deleted)
}

func TestStudentDeleteFailureRendersList(t *testing.T) {
	svc := &fakeStudentService{
		students:  []models.Student{student("7", "Ana", "Li", models.StatusActive)},
		mutateErr: &apiclient.Error{Status: http.StatusInternalServerError},
	}
	r := newTestRouter(t, testServices{students: svc})

	rec := postForm(r, "/students/7/delete", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), service.MsgStudentDeleteFailed)
	assert.Contains(t, rec.Body.String(), "Ana Li")
}

func TestStudentRestoreRedirects(t *testing.T) {
	svc := &fakeStudentService{students: []models.Student{student("7", "Ana", "Li", models.StatusInactive)}}
	r := newTestRouter(t, testServices{students: svc})

	rec := postForm(r, "/students/7/restore", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/students?notice=student_restored", rec.Header().Get("Location"))
	assert.Equal(t, []string{"7"}, svc.restored)
}

func TestStudentShowRendersDetail(t *testing.T) {
	s := student("7", "Ana", "Li", models.StatusActive)
	s.CreatedAt = "2024-01-05T10:00:00Z"
	r := newTestRouter(t, testServices{students: &fakeStudentService{students: []models.Student{s}}})

	rec := get(r, "/students/7")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "DNI: 45678907")
	assert.Contains(t, body, "14/03/2010")
	assert.Contains(t, body, "05/01/2024")
}

func TestStudentNewStartsEmptyWithoutDraft(t *testing.T) {
	r := newTestRouter(t, testServices{students: &fakeStudentService{draft: dto.StudentInput{}}})

	rec := get(r, "/students/new")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nuevo estudiante")
	assert.Contains(t, rec.Body.String(), `name="firstName" value=""`)
}
