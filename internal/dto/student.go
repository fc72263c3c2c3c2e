package dto

import (
	"strings"

	"github.com/noah-isme/sma-console/internal/models"
)

// StudentFilterPanel is bound from the filter panel query string.
type StudentFilterPanel struct {
	ID            string `form:"id"`
	InstitutionID string `form:"institution"`
	Status        string `form:"status"`
	Gender        string `form:"gender"`
}

// Filter returns the trimmed filter criteria.
func (p StudentFilterPanel) Filter() models.StudentFilter {
	return models.StudentFilter{
		ID:            strings.TrimSpace(p.ID),
		InstitutionID: strings.TrimSpace(p.InstitutionID),
		Status:        strings.TrimSpace(p.Status),
		Gender:        strings.TrimSpace(p.Gender),
	}
}

// StudentViewFilter narrows the fetched list without a new backend call.
type StudentViewFilter struct {
	Search        string `form:"q"`
	Status        string `form:"vstatus"`
	Gender        string `form:"vgender"`
	InstitutionID string `form:"vinstitution"`
}

// View returns the trimmed view criteria.
func (f StudentViewFilter) View() models.StudentView {
	return models.StudentView{
		Search:        strings.TrimSpace(f.Search),
		Status:        strings.TrimSpace(f.Status),
		Gender:        strings.TrimSpace(f.Gender),
		InstitutionID: strings.TrimSpace(f.InstitutionID),
	}
}

// StudentInput carries the raw student form fields.
type StudentInput struct {
	InstitutionID  string `form:"institutionId" json:"institutionId" label:"Institución" validate:"required"`
	DocumentType   string `form:"documentType" json:"documentType" label:"Tipo de documento" validate:"required,oneof=DNI CE PASAPORTE"`
	DocumentNumber string `form:"documentNumber" json:"documentNumber" label:"Número de documento" validate:"required"`
	FirstName      string `form:"firstName" json:"firstName" label:"Nombres" validate:"required,min=2,personname"`
	LastName       string `form:"lastName" json:"lastName" label:"Apellidos" validate:"required,min=2,personname"`
	Gender         string `form:"gender" json:"gender" label:"Género" validate:"required,oneof=M F"`
	BirthDate      string `form:"birthDate" json:"birthDate" label:"Fecha de nacimiento" validate:"required,isodate,notfuture,maxage=120"`
	Address        string `form:"address" json:"address" label:"Dirección" validate:"required"`
	Phone          string `form:"phone" json:"phone" label:"Teléfono" validate:"required,phone"`
	Email          string `form:"email" json:"email" label:"Correo electrónico" validate:"required,basicemail"`
}

// StudentRow is one rendered student table row.
type StudentRow struct {
	ID            string
	FullName      string
	Document      string
	InstitutionID string
	Gender        string
	Status        string
	StatusLabel   string
	Email         string
	Phone         string
	BirthDate     string
	CreatedAt     string
	Active        bool
}

// StudentListPage is the view model of the students page.
type StudentListPage struct {
	Panel      StudentFilterPanel
	View       StudentViewFilter
	Rows       []StudentRow
	Pagination PageNav
	Total      int
	Feedback   *Feedback
}
