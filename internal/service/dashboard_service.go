package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
	appErrors "github.com/noah-isme/sma-console/pkg/errors"
	"github.com/noah-isme/sma-console/pkg/export"
)

// Export column headers.
var exportHeaders = []string{"Nombre", "Documento", "Email", "Género", "Estado", "Fecha de Nacimiento", "Edad"}

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

// DashboardService derives statistics from the student collection.
type DashboardService struct {
	students studentLister
	now      func() time.Time
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService. A nil clock uses time.Now.
func NewDashboardService(students studentLister, now func() time.Time, logger *zap.Logger) *DashboardService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{students: students, now: now, logger: logger}
}

// Summary fetches every student and aggregates them.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, backendError(err, MsgStudentLoadFailed)
	}
	summary := Summarize(students, s.now())
	return &summary, nil
}

// Export renders the students matching filter in the requested format.
func (s *DashboardService) Export(ctx context.Context, filter dto.ExportFilter) (*dto.ExportFile, error) {
	format, err := export.ParseFormat(filter.Format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "formato de exportación no soportado")
	}
	selection, err := parseExportSelection(filter)
	if err != nil {
		return nil, err
	}
	renderer, err := export.NewRenderer(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "formato de exportación no soportado")
	}

	students, err := s.students.List(ctx)
	if err != nil {
		return nil, backendError(err, MsgStudentLoadFailed)
	}
	now := s.now()
	dataset := ExportDataset(SelectForExport(students, selection), now)
	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo generar el archivo")
	}
	s.logger.Info("students exported", zap.String("format", string(format)), zap.Int("rows", len(dataset.Rows)))
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("estudiantes_%s.%s", now.Format(models.DateLayout), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

// Summarize computes counts, average age, age buckets and chart series.
func Summarize(students []models.Student, now time.Time) dto.DashboardSummary {
	summary := dto.DashboardSummary{Total: len(students)}
	buckets := [4]int{}
	ageSum, withAge := 0, 0
	for _, st := range students {
		if st.Status == models.StatusActive {
			summary.Active++
		}
		switch st.Gender {
		case models.GenderMale:
			summary.Male++
		case models.GenderFemale:
			summary.Female++
		}
		birth, ok := st.BirthDay()
		if !ok {
			continue
		}
		age := models.AgeAt(birth, now)
		ageSum += age
		withAge++
		buckets[ageBucket(age)]++
	}
	summary.Inactive = summary.Total - summary.Active
	if withAge > 0 {
		summary.AverageAge = int(math.Floor(float64(ageSum)/float64(withAge) + 0.5))
	}
	summary.AgeBuckets = []dto.ChartPoint{
		{Label: "< 18", Value: buckets[0]},
		{Label: "18-25", Value: buckets[1]},
		{Label: "26-35", Value: buckets[2]},
		{Label: "> 35", Value: buckets[3]},
	}
	summary.ByGender = []dto.ChartPoint{
		{Label: models.GenderMale.Label(), Value: summary.Male},
		{Label: models.GenderFemale.Label(), Value: summary.Female},
	}
	summary.ByStatus = []dto.ChartPoint{
		{Label: "Activos", Value: summary.Active},
		{Label: "Inactivos", Value: summary.Inactive},
	}
	return summary
}

func ageBucket(age int) int {
	switch {
	case age < 18:
		return 0
	case age <= 25:
		return 1
	case age <= 35:
		return 2
	default:
		return 3
	}
}

// ExportSelection is a parsed export filter. Zero times are open bounds.
type ExportSelection struct {
	From   time.Time
	To     time.Time
	Status models.Status
}

func parseExportSelection(filter dto.ExportFilter) (ExportSelection, error) {
	var sel ExportSelection
	for _, bound := range []struct {
		raw  string
		dest *time.Time
	}{{filter.From, &sel.From}, {filter.To, &sel.To}} {
		raw := strings.TrimSpace(bound.raw)
		if raw == "" {
			continue
		}
		day, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return sel, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "rango de fechas inválido")
		}
		*bound.dest = day
	}
	if !sel.From.IsZero() && !sel.To.IsZero() && sel.From.After(sel.To) {
		sel.From, sel.To = sel.To, sel.From
	}
	switch status := strings.ToUpper(strings.TrimSpace(filter.Status)); status {
	case "", "ALL":
	case string(models.StatusActive), string(models.StatusInactive):
		sel.Status = models.Status(status)
	default:
		return sel, appErrors.Clone(appErrors.ErrBadRequest, "estado de exportación inválido")
	}
	return sel, nil
}

// SelectForExport keeps students created within the inclusive day range and
// matching the status. Students without a creation date fail any range.
func SelectForExport(students []models.Student, sel ExportSelection) []models.Student {
	out := make([]models.Student, 0, len(students))
	for _, st := range students {
		if sel.Status != "" && st.Status != sel.Status {
			continue
		}
		if !sel.From.IsZero() || !sel.To.IsZero() {
			created, ok := st.CreatedDay()
			if !ok {
				continue
			}
			if !sel.From.IsZero() && created.Before(sel.From) {
				continue
			}
			if !sel.To.IsZero() && created.After(sel.To) {
				continue
			}
		}
		out = append(out, st)
	}
	return out
}

// ExportDataset flattens students into labelled export rows.
func ExportDataset(students []models.Student, now time.Time) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		age := unavailable
		if birth, ok := st.BirthDay(); ok {
			age = strconv.Itoa(models.AgeAt(birth, now))
		}
		gender := "Femenino"
		if st.Gender == models.GenderMale {
			gender = "Masculino"
		}
		rows = append(rows, map[string]string{
			"Nombre":              st.FullName(),
			"Documento":           st.DocumentNumber,
			"Email":               st.Email,
			"Género":              gender,
			"Estado":              st.Status.Label(),
			"Fecha de Nacimiento": models.FormatDisplayDate(st.BirthDate, unavailable),
			"Edad":                age,
		})
	}
	return export.Dataset{
		Title:   "Estudiantes",
		Sheet:   "Estudiantes",
		Headers: exportHeaders,
		Rows:    rows,
	}
}
