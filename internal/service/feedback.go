package service

import (
	"errors"
	"fmt"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/pkg/apiclient"
	appErrors "github.com/noah-isme/sma-console/pkg/errors"
)

// ActiveEnrollmentConflictMessage is shown when the backend rejects an enrollment
// because the student already has an active one.
const ActiveEnrollmentConflictMessage = "El estudiante ya tiene una matrícula activa en este periodo."

// Notice codes carried on redirects after a successful mutation.
const (
	NoticeStudentSaved       = "student_saved"
	NoticeStudentDeleted     = "student_deleted"
	NoticeStudentRestored    = "student_restored"
	NoticeEnrollmentSaved    = "enrollment_saved"
	NoticeEnrollmentDeleted  = "enrollment_deleted"
	NoticeEnrollmentRestored = "enrollment_restored"
	NoticeDraftSaved         = "draft_saved"
)

var notices = map[string]string{
	NoticeStudentSaved:       "Estudiante guardado correctamente",
	NoticeStudentDeleted:     "Estudiante eliminado correctamente",
	NoticeStudentRestored:    "Estudiante restaurado correctamente",
	NoticeEnrollmentSaved:    "Matrícula guardada correctamente",
	NoticeEnrollmentDeleted:  "Matrícula eliminada correctamente",
	NoticeEnrollmentRestored: "Matrícula restaurada correctamente",
	NoticeDraftSaved:         "Borrador guardado",
}

// Failure messages used when the backend gives no message of its own.
const (
	MsgStudentLoadFailed       = "Error al cargar los estudiantes"
	MsgStudentFilterFailed     = "Error al filtrar estudiantes."
	MsgStudentCreateFailed     = "Error al crear el estudiante."
	MsgStudentUpdateFailed     = "Error al actualizar el estudiante."
	MsgStudentDeleteFailed     = "Error al eliminar el estudiante."
	MsgStudentRestoreFailed    = "Error al restaurar el estudiante"
	MsgEnrollmentLoadFailed    = "Error al cargar las matrículas"
	MsgEnrollmentFilterFailed  = "Error al filtrar matrículas."
	MsgEnrollmentCreateFailed  = "Error al crear la matrícula."
	MsgEnrollmentUpdateFailed  = "Error al actualizar la matrícula."
	MsgEnrollmentDeleteFailed  = "Error al eliminar la matrícula."
	MsgEnrollmentRestoreFailed = "Error al restaurar la matrícula"
	MsgGeneric                 = "Error en la petición"
)

// Notice resolves a notice code into a success feedback. Unknown codes yield nil.
func Notice(code string) *dto.Feedback {
	msg, ok := notices[code]
	if !ok {
		return nil
	}
	return &dto.Feedback{Kind: dto.FeedbackSuccess, Message: msg}
}

// Failure builds an error feedback for err.
func Failure(err error, fallback string) *dto.Feedback {
	return &dto.Feedback{Kind: dto.FeedbackError, Message: UserMessage(err, fallback)}
}

// UserMessage translates err into text for the user: typed console errors keep
// their message, backend responses use their body message, anything else gets
// fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if fallback == "" {
		fallback = MsgGeneric
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if msg := apiclient.Message(err); msg != "" {
		return msg
	}
	return fallback
}

// LoadFailure is shown when the initial list fetch fails without a response,
// typically because the backend is down.
func LoadFailure(err error, fallback, baseURL string) *dto.Feedback {
	var transport *apiclient.TransportError
	if errors.As(err, &transport) {
		return &dto.Feedback{
			Kind:    dto.FeedbackError,
			Message: fmt.Sprintf("%s. Asegúrate de que el backend esté corriendo en %s.", fallback, baseURL),
		}
	}
	return Failure(err, fallback)
}

// backendError maps a failed backend call onto a console error: an
// unreachable backend is BACKEND_UNAVAILABLE, an error response is
// BACKEND_ERROR carrying the body message or fallback.
func backendError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var transport *apiclient.TransportError
	if errors.As(err, &transport) {
		return appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, fallback)
	}
	if _, ok := apiclient.StatusCode(err); ok {
		msg := apiclient.Message(err)
		if msg == "" {
			msg = fallback
		}
		return appErrors.Wrap(err, appErrors.ErrBackend.Code, appErrors.ErrBackend.Status, msg)
	}
	return err
}
