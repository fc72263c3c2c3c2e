package models

import (
	"fmt"
	"time"
)

// Enrollment registers a student in a classroom.
type Enrollment struct {
	ID               ID     `json:"id,omitempty"`
	ClassroomID      string `json:"classroomId"`
	StudentID        string `json:"studentId"`
	EnrollmentDate   string `json:"enrollmentDate"`
	EnrollmentYear   string `json:"enrollmentYear"`
	EnrollmentPeriod string `json:"enrollmentPeriod"`
	Status           Status `json:"status"`
}

// PeriodOf returns the half-year label for t: "YYYY-1" for January..June,
// "YYYY-2" for July..December.
func PeriodOf(t time.Time) string {
	half := 1
	if t.Month() > time.June {
		half = 2
	}
	return fmt.Sprintf("%d-%d", t.Year(), half)
}

// YearOf returns the 4-digit enrollment year for t.
func YearOf(t time.Time) string {
	return fmt.Sprintf("%04d", t.Year())
}
