package models

// StudentQueryKind names the backend lookup chosen for a student filter.
type StudentQueryKind string

const (
	StudentQueryAll         StudentQueryKind = "all"
	StudentQueryByID        StudentQueryKind = "id"
	StudentQueryInstitution StudentQueryKind = "institution"
	StudentQueryStatus      StudentQueryKind = "status"
	StudentQueryGender      StudentQueryKind = "gender"
)

// EnrollmentQueryKind names the backend lookup chosen for an enrollment filter.
type EnrollmentQueryKind string

const (
	EnrollmentQueryAll             EnrollmentQueryKind = "all"
	EnrollmentQueryByID            EnrollmentQueryKind = "id"
	EnrollmentQueryStudentStatus   EnrollmentQueryKind = "student_status"
	EnrollmentQueryClassroomStatus EnrollmentQueryKind = "classroom_status"
	EnrollmentQueryStudent         EnrollmentQueryKind = "student"
	EnrollmentQueryClassroom       EnrollmentQueryKind = "classroom"
	EnrollmentQueryStatus          EnrollmentQueryKind = "status"
	EnrollmentQueryYear            EnrollmentQueryKind = "year"
	EnrollmentQueryPeriod          EnrollmentQueryKind = "period"
)

// StudentFilter carries filter panel criteria. Empty fields are unset.
type StudentFilter struct {
	ID            string
	InstitutionID string
	Status        string
	Gender        string
}

// EnrollmentFilter carries filter panel criteria. Empty fields are unset.
type EnrollmentFilter struct {
	ID          string
	StudentID   string
	ClassroomID string
	Status      string
	Year        string
	Period      string
}

// StudentView narrows an already fetched student list.
type StudentView struct {
	Search        string
	Status        string
	Gender        string
	InstitutionID string
}

// EnrollmentView narrows an already fetched enrollment list.
type EnrollmentView struct {
	Status string
	Year   string
	Period string
}

// Pagination describes a client-side page over a fetched list.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
	Offset     int `json:"-"`
	End        int `json:"-"`
}
