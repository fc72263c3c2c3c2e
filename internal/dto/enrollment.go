package dto

import (
	"strings"

	"github.com/noah-isme/sma-console/internal/models"
)

// EnrollmentFilterPanel is bound from the filter panel query string.
type EnrollmentFilterPanel struct {
	ID          string `form:"id"`
	StudentID   string `form:"student"`
	ClassroomID string `form:"classroom"`
	Status      string `form:"status"`
	Year        string `form:"year"`
	Period      string `form:"period"`
}

// Filter returns the trimmed filter criteria.
func (p EnrollmentFilterPanel) Filter() models.EnrollmentFilter {
	return models.EnrollmentFilter{
		ID:          strings.TrimSpace(p.ID),
		StudentID:   strings.TrimSpace(p.StudentID),
		ClassroomID: strings.TrimSpace(p.ClassroomID),
		Status:      strings.TrimSpace(p.Status),
		Year:        strings.TrimSpace(p.Year),
		Period:      strings.TrimSpace(p.Period),
	}
}

// EnrollmentViewFilter narrows the fetched list without a new backend call.
type EnrollmentViewFilter struct {
	Status string `form:"vstatus"`
	Year   string `form:"vyear"`
	Period string `form:"vperiod"`
}

// View returns the trimmed view criteria.
func (f EnrollmentViewFilter) View() models.EnrollmentView {
	return models.EnrollmentView{
		Status: strings.TrimSpace(f.Status),
		Year:   strings.TrimSpace(f.Year),
		Period: strings.TrimSpace(f.Period),
	}
}

// EnrollmentInput carries the raw enrollment form fields. Year and period are
// derived from the enrollment date before validation.
type EnrollmentInput struct {
	ClassroomID      string `form:"classroomId" json:"classroomId" label:"Aula" validate:"required,number"`
	StudentID        string `form:"studentId" json:"studentId" label:"Estudiante" validate:"required,studentref"`
	EnrollmentDate   string `form:"enrollmentDate" json:"enrollmentDate" label:"Fecha de matrícula" validate:"required,isodate,notfuture"`
	EnrollmentYear   string `form:"enrollmentYear" json:"enrollmentYear" label:"Año" validate:"omitempty,year"`
	EnrollmentPeriod string `form:"enrollmentPeriod" json:"enrollmentPeriod" label:"Periodo" validate:"omitempty,period"`
}

// EnrollmentRow is one rendered enrollment table row.
type EnrollmentRow struct {
	ID              string
	ClassroomID     string
	StudentID       string
	StudentName     string
	StudentDocument string
	StudentFound    bool
	EnrollmentDate  string
	Year            string
	Period          string
	Status          string
	StatusLabel     string
	Active          bool
}

// EnrollmentListPage is the view model of the enrollments page.
type EnrollmentListPage struct {
	Panel      EnrollmentFilterPanel
	View       EnrollmentViewFilter
	Rows       []EnrollmentRow
	Pagination PageNav
	Total      int
	Years      []string
	Periods    []string
	Feedback   *Feedback
}
