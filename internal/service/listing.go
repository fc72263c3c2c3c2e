package service

import (
	"strings"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
)

// DefaultPageSize is used when no valid page size is requested.
const DefaultPageSize = 10

// PageSizes are the selectable list page sizes.
var PageSizes = []int{10, 20, 50, 100}

const unavailable = "No disponible"

// FilterStudents keeps the students matching every non-empty view criterion.
func FilterStudents(students []models.Student, view models.StudentView) []models.Student {
	search := strings.ToLower(view.Search)
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if view.Status != "" && string(s.Status) != view.Status {
			continue
		}
		if view.Gender != "" && string(s.Gender) != view.Gender {
			continue
		}
		if view.InstitutionID != "" && s.InstitutionID != view.InstitutionID {
			continue
		}
		if search != "" && !matchesSearch(s, search) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesSearch(s models.Student, needle string) bool {
	name := strings.ToLower(s.FirstName + " " + s.LastName)
	document := strings.ToLower(string(s.DocumentType) + " " + s.DocumentNumber)
	return strings.Contains(name, needle) || strings.Contains(document, needle)
}

// FilterEnrollments keeps the enrollments matching every non-empty view criterion.
func FilterEnrollments(enrollments []models.Enrollment, view models.EnrollmentView) []models.Enrollment {
	out := make([]models.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if view.Status != "" && string(e.Status) != view.Status {
			continue
		}
		if view.Year != "" && e.EnrollmentYear != view.Year {
			continue
		}
		if view.Period != "" && e.EnrollmentPeriod != view.Period {
			continue
		}
		out = append(out, e)
	}
	return out
}

// NormalizePageSize returns size when it is selectable, else the default.
func NormalizePageSize(size int) int {
	for _, allowed := range PageSizes {
		if size == allowed {
			return size
		}
	}
	return DefaultPageSize
}

// Paginate computes the slice bounds of page over total items. Pages are 1-based
// and clamp into [1, last page].
func Paginate(total, page, size int) models.Pagination {
	size = NormalizePageSize(size)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	offset := (page - 1) * size
	end := offset + size
	if end > total {
		end = total
	}
	return models.Pagination{Page: page, PageSize: size, TotalCount: total, TotalPages: pages, Offset: offset, End: end}
}

// PageNav converts pagination into template navigation state.
func PageNav(p models.Pagination) dto.PageNav {
	return dto.PageNav{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Sizes:      PageSizes,
		HasPrev:    p.Page > 1,
		HasNext:    p.Page < p.TotalPages,
		PrevPage:   p.Page - 1,
		NextPage:   p.Page + 1,
	}
}

// StudentRows renders table rows.
func StudentRows(students []models.Student) []dto.StudentRow {
	rows := make([]dto.StudentRow, 0, len(students))
	for _, s := range students {
		rows = append(rows, dto.StudentRow{
			ID:            s.ID.String(),
			FullName:      s.FullName(),
			Document:      s.DocumentLabel(),
			InstitutionID: s.InstitutionID,
			Gender:        s.Gender.Label(),
			Status:        string(s.Status),
			StatusLabel:   s.Status.Label(),
			Email:         s.Email,
			Phone:         s.Phone,
			BirthDate:     models.FormatDisplayDate(s.BirthDate, unavailable),
			CreatedAt:     models.FormatDisplayDate(s.CreatedAt, unavailable),
			Active:        s.Status == models.StatusActive,
		})
	}
	return rows
}

// EnrollmentRows renders table rows using resolved student lookups. A missing or
// failed lookup renders the unavailable fallback for that row only.
func EnrollmentRows(enrollments []models.Enrollment, students map[string]StudentLookup) []dto.EnrollmentRow {
	rows := make([]dto.EnrollmentRow, 0, len(enrollments))
	for _, e := range enrollments {
		row := dto.EnrollmentRow{
			ID:              e.ID.String(),
			ClassroomID:     e.ClassroomID,
			StudentID:       e.StudentID,
			StudentName:     unavailable,
			StudentDocument: unavailable,
			EnrollmentDate:  models.FormatDisplayDate(e.EnrollmentDate, unavailable),
			Year:            e.EnrollmentYear,
			Period:          e.EnrollmentPeriod,
			Status:          string(e.Status),
			StatusLabel:     e.Status.Label(),
			Active:          e.Status == models.StatusActive,
		}
		if lookup, ok := students[e.StudentID]; ok && lookup.Err == nil && lookup.Student != nil {
			row.StudentFound = true
			row.StudentName = lookup.Student.FullName()
			row.StudentDocument = lookup.Student.DocumentLabel()
		}
		rows = append(rows, row)
	}
	return rows
}
