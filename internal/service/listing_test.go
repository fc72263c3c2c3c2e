package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-console/internal/models"
)

func sampleStudents() []models.Student {
	return []models.Student{
		{ID: "1", FirstName: "Ana", LastName: "Li", DocumentType: models.DocumentDNI, DocumentNumber: "12345678", Gender: models.GenderFemale, Status: models.StatusActive, InstitutionID: "10"},
		{ID: "2", FirstName: "Luis", LastName: "Rojas", DocumentType: models.DocumentCE, DocumentNumber: "998877665", Gender: models.GenderMale, Status: models.StatusInactive, InstitutionID: "10"},
		{ID: "3", FirstName: "Ángela", LastName: "Núñez", DocumentType: models.DocumentPassport, DocumentNumber: "55512345", Gender: models.GenderFemale, Status: models.StatusActive, InstitutionID: "20"},
	}
}

func ids(students []models.Student) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.ID.String())
	}
	return out
}

func TestFilterStudentsEmptyViewMatchesAll(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, ids(FilterStudents(sampleStudents(), models.StudentView{})))
}

func TestFilterStudentsCombinesWithAnd(t *testing.T) {
	got := FilterStudents(sampleStudents(), models.StudentView{Status: "A", Gender: "F", InstitutionID: "10"})
	assert.Equal(t, []string{"1"}, ids(got))

	got = FilterStudents(sampleStudents(), models.StudentView{Status: "I", Gender: "F"})
	assert.Empty(t, got)
}

func TestFilterStudentsSearch(t *testing.T) {
	cases := map[string][]string{
		"ana li":    {"1"},
		"ROJAS":     {"2"},
		"ce 9988":   {"2"},
		"dni":       {"1"},
		"ángela n":  {"3"},
		"pasaporte": {"3"},
		"zzz":       {},
	}
	for q, want := range cases {
		assert.Equal(t, want, ids(FilterStudents(sampleStudents(), models.StudentView{Search: q})), q)
	}
}

func TestFilterEnrollments(t *testing.T) {
	enrollments := []models.Enrollment{
		{ID: "1", EnrollmentYear: "2024", EnrollmentPeriod: "2024-1", Status: models.StatusActive},
		{ID: "2", EnrollmentYear: "2024", EnrollmentPeriod: "2024-2", Status: models.StatusInactive},
		{ID: "3", EnrollmentYear: "2023", EnrollmentPeriod: "2023-2", Status: models.StatusActive},
	}
	assert.Len(t, FilterEnrollments(enrollments, models.EnrollmentView{}), 3)
	assert.Len(t, FilterEnrollments(enrollments, models.EnrollmentView{Year: "2024"}), 2)
	got := FilterEnrollments(enrollments, models.EnrollmentView{Year: "2024", Status: "A"})
	assert.Len(t, got, 1)
	assert.Equal(t, models.ID("1"), got[0].ID)
	assert.Empty(t, FilterEnrollments(enrollments, models.EnrollmentView{Period: "2023-1"}))
}

func TestPaginate(t *testing.T) {
	p := Paginate(25, 1, 10)
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 10, TotalCount: 25, TotalPages: 3, Offset: 0, End: 10}, p)

	p = Paginate(25, 3, 10)
	assert.Equal(t, 20, p.Offset)
	assert.Equal(t, 25, p.End)

	p = Paginate(25, 9, 10)
	assert.Equal(t, 3, p.Page)

	p = Paginate(0, 2, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, p.End)

	p = Paginate(25, 1, 7)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = Paginate(120, 2, 50)
	assert.Equal(t, 50, p.Offset)
	assert.Equal(t, 100, p.End)
}

func TestPageNav(t *testing.T) {
	nav := PageNav(Paginate(25, 2, 10))
	assert.True(t, nav.HasPrev)
	assert.True(t, nav.HasNext)
	assert.Equal(t, 1, nav.PrevPage)
	assert.Equal(t, 3, nav.NextPage)
	assert.Equal(t, PageSizes, nav.Sizes)
}

func TestStudentRows(t *testing.T) {
	students := sampleStudents()
	students[0].BirthDate = "2004-06-15"
	students[0].CreatedAt = "2024-01-02T08:00:00Z"
	rows := StudentRows(students)

	assert.Equal(t, "Ana Li", rows[0].FullName)
	assert.Equal(t, "DNI: 12345678", rows[0].Document)
	assert.Equal(t, "Femenino", rows[0].Gender)
	assert.Equal(t, "15/06/2004", rows[0].BirthDate)
	assert.Equal(t, "02/01/2024", rows[0].CreatedAt)
	assert.True(t, rows[0].Active)
	assert.Equal(t, "Inactivo", rows[1].StatusLabel)
	assert.False(t, rows[1].Active)
	assert.Equal(t, "No disponible", rows[1].BirthDate)
}
