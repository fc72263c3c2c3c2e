package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates exchanged with the backend.
const DateLayout = "2006-01-02"

// Student is a learner record as exchanged with the backend.
type Student struct {
	ID             ID           `json:"id,omitempty"`
	InstitutionID  string       `json:"institutionId"`
	DocumentType   DocumentType `json:"documentType"`
	DocumentNumber string       `json:"documentNumber"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Gender         Gender       `json:"gender"`
	BirthDate      string       `json:"birthDate,omitempty"`
	Address        string       `json:"address"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email"`
	NameQR         string       `json:"nameQr"`
	Status         Status       `json:"status"`
	CreatedAt      string       `json:"createdAt,omitempty"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// DocumentLabel renders "DNI: 12345678".
func (s Student) DocumentLabel() string {
	if s.DocumentType == "" {
		return s.DocumentNumber
	}
	return fmt.Sprintf("%s: %s", s.DocumentType, s.DocumentNumber)
}

// BirthDay parses the birth date; ok is false when absent or malformed.
func (s Student) BirthDay() (time.Time, bool) {
	return ParseDate(s.BirthDate)
}

// CreatedDay parses the creation timestamp down to its calendar day.
func (s Student) CreatedDay() (time.Time, bool) {
	return ParseDate(s.CreatedAt)
}

// NameQR composes the derived display/QR label.
func NameQR(firstName, lastName, documentNumber string) string {
	return fmt.Sprintf("%s_%s_%s", firstName, lastName, documentNumber)
}

// ParseDate accepts YYYY-MM-DD and RFC3339-style timestamps and returns the calendar
// day at UTC midnight.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if len(raw) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, raw[:len(DateLayout)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDisplayDate renders a wire date as DD/MM/YYYY, or fallback when absent.
func FormatDisplayDate(raw, fallback string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return fallback
	}
	return t.Format("02/01/2006")
}

// AgeAt returns completed years between birth and now.
func AgeAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
