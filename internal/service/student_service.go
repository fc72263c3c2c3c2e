package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
	appErrors "github.com/noah-isme/sma-console/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student models.Student) (*models.Student, error)
	Update(ctx context.Context, id string, student models.Student) (*models.Student, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	ListByInstitution(ctx context.Context, institutionID string) ([]models.Student, error)
	ListByStatus(ctx context.Context, status string) ([]models.Student, error)
	ListByGender(ctx context.Context, gender string) ([]models.Student, error)
}

// ResolveStudentQuery picks the backend lookup for filter. The first set
// criterion wins: id, institution, status, gender, else all.
func ResolveStudentQuery(filter models.StudentFilter) models.StudentQueryKind {
	switch {
	case filter.ID != "":
		return models.StudentQueryByID
	case filter.InstitutionID != "":
		return models.StudentQueryInstitution
	case filter.Status != "":
		return models.StudentQueryStatus
	case filter.Gender != "":
		return models.StudentQueryGender
	default:
		return models.StudentQueryAll
	}
}

// StudentService orchestrates the student pages.
type StudentService struct {
	repo      studentRepository
	validator *FormValidator
	drafts    *DraftService
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validator *FormValidator, drafts *DraftService, logger *zap.Logger) *StudentService {
	if validator == nil {
		validator = NewFormValidator(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validator, drafts: drafts, logger: logger}
}

// List fetches students through the endpoint chosen by ResolveStudentQuery.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	switch ResolveStudentQuery(filter) {
	case models.StudentQueryByID:
		student, err := s.repo.FindByID(ctx, filter.ID)
		if err != nil {
			return nil, err
		}
		if student == nil {
			return []models.Student{}, nil
		}
		return []models.Student{*student}, nil
	case models.StudentQueryInstitution:
		return s.repo.ListByInstitution(ctx, filter.InstitutionID)
	case models.StudentQueryStatus:
		return s.repo.ListByStatus(ctx, filter.Status)
	case models.StudentQueryGender:
		return s.repo.ListByGender(ctx, filter.Gender)
	default:
		return s.repo.List(ctx)
	}
}

// Get returns one student or a not found error.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Estudiante no encontrado")
	}
	return student, nil
}

// Form opens a student form in mode.
func (s *StudentService) Form(mode FormMode[models.Student]) *StudentForm {
	return NewStudentForm(mode, s.validator)
}

// InitialInput returns the values a form opens with. Create mode restores a saved draft.
func (s *StudentService) InitialInput(ctx context.Context, mode FormMode[models.Student]) dto.StudentInput {
	if mode.IsEdit() {
		return s.Form(mode).Initial()
	}
	var draft dto.StudentInput
	if ok, err := s.drafts.Load(ctx, &draft); err != nil || !ok {
		return dto.StudentInput{}
	}
	return draft
}

// Save submits the form: create mode posts a new student and clears the draft,
// edit mode replaces the existing record.
func (s *StudentService) Save(ctx context.Context, mode FormMode[models.Student], input dto.StudentInput) (*models.Student, error) {
	form := s.Form(mode)
	existing, isEdit := mode.Existing()
	saved, err := form.Submit(ctx, input, func(ctx context.Context, payload models.Student) (*models.Student, error) {
		if isEdit {
			return s.repo.Update(ctx, existing.ID.String(), payload)
		}
		return s.repo.Create(ctx, payload)
	})
	if err != nil {
		return nil, err
	}
	if !isEdit {
		_ = s.drafts.Clear(ctx)
	}
	s.logger.Info("student saved", zap.String("id", saved.ID.String()), zap.Bool("edit", isEdit))
	return saved, nil
}

// SaveDraft stores the raw create form input.
func (s *StudentService) SaveDraft(ctx context.Context, input dto.StudentInput) error {
	return s.drafts.Save(ctx, input)
}

// DraftsEnabled reports whether the create form offers drafts.
func (s *StudentService) DraftsEnabled() bool {
	return s.drafts.Enabled()
}

// Delete soft-deletes a student.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("student deleted", zap.String("id", id))
	return nil
}

// Restore reactivates a student.
func (s *StudentService) Restore(ctx context.Context, id string) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	s.logger.Info("student restored", zap.String("id", id))
	return nil
}

// Lookup fetches one student for display enrichment.
func (s *StudentService) Lookup(ctx context.Context, id string) (*models.Student, error) {
	return s.Get(ctx, id)
}
