package models

// Status is the soft-delete flag shared by students and enrollments.
type Status string

const (
	StatusActive   Status = "A"
	StatusInactive Status = "I"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Label returns the console label for the status.
func (s Status) Label() string {
	if s == StatusActive {
		return "Activo"
	}
	return "Inactivo"
}

// Gender of a student.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Label returns the console label for the gender.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Masculino"
	case GenderFemale:
		return "Femenino"
	default:
		return "No especificado"
	}
}

// DocumentType identifies the kind of identity document of a student.
type DocumentType string

const (
	DocumentDNI      DocumentType = "DNI"
	DocumentCE       DocumentType = "CE"
	DocumentPassport DocumentType = "PASAPORTE"
)

// DocumentTypes lists the selectable document types in display order.
var DocumentTypes = []DocumentType{DocumentDNI, DocumentCE, DocumentPassport}

// Valid reports whether d is one of the known document types.
func (d DocumentType) Valid() bool {
	switch d {
	case DocumentDNI, DocumentCE, DocumentPassport:
		return true
	}
	return false
}
