package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/planner"
	"alcyxob/golf-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound     = errors.New("session template not found")
	ErrTemplateAccessDenied = errors.New("access denied to modify or delete this session template")
	ErrValidationFailed     = errors.New("session template validation failed")
)

var (
	learningPhasePattern = regexp.MustCompile(`^L[1-5]$`)
	settingPattern       = regexp.MustCompile(`^S([1-9]|10)$`)
	clubSpeedPattern     = regexp.MustCompile(`^CS(20|40|70|90|110|120)$`)
)

// SessionTemplateInput holds the editable fields of a template.
type SessionTemplateInput struct {
	Name          string
	Description   string
	SessionType   string
	Duration      int
	Periods       []domain.Period
	LearningPhase string
	Setting       string
	ClubSpeed     string
	Intensity     *int
	IsActive      bool
}

func (in SessionTemplateInput) validate() error {
	fail := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
	}
	if strings.TrimSpace(in.Name) == "" {
		return fail("name is required")
	}
	if strings.TrimSpace(in.SessionType) == "" {
		return fail("session type is required")
	}
	if in.Duration < planner.MinSessionMinutes || in.Duration > planner.MaxSessionMinutes+planner.DurationTolerance {
		return fail("duration must be between %d and %d minutes", planner.MinSessionMinutes, planner.MaxSessionMinutes+planner.DurationTolerance)
	}
	if len(in.Periods) == 0 {
		return fail("at least one period is required")
	}
	for _, p := range in.Periods {
		switch p {
		case domain.PeriodEstablishment, domain.PeriodGeneral, domain.PeriodSpecific, domain.PeriodTournament:
		default:
			return fail("unknown period %q", p)
		}
	}
	if !learningPhasePattern.MatchString(in.LearningPhase) {
		return fail("learning phase must be L1..L5")
	}
	if !settingPattern.MatchString(in.Setting) {
		return fail("setting must be S1..S10")
	}
	if !clubSpeedPattern.MatchString(in.ClubSpeed) {
		return fail("unknown club speed level %q", in.ClubSpeed)
	}
	if in.Intensity != nil && (*in.Intensity < 1 || *in.Intensity > 10) {
		return fail("intensity must be between 1 and 10")
	}
	return nil
}

func (in SessionTemplateInput) apply(tpl *domain.SessionTemplate) {
	tpl.Name = strings.TrimSpace(in.Name)
	tpl.Description = in.Description
	tpl.SessionType = in.SessionType
	tpl.Duration = in.Duration
	tpl.Periods = append([]domain.Period(nil), in.Periods...)
	tpl.LearningPhase = in.LearningPhase
	tpl.Setting = in.Setting
	tpl.ClubSpeed = in.ClubSpeed
	tpl.Intensity = in.Intensity
	tpl.IsActive = in.IsActive
}

// SessionTemplateService manages the session library of a coach's academy.
// Templates are shared by all coaches of the tenant.
type SessionTemplateService interface {
	CreateTemplate(ctx context.Context, coach Actor, in SessionTemplateInput) (*domain.SessionTemplate, error)
	GetTemplate(ctx context.Context, actor Actor, id primitive.ObjectID) (*domain.SessionTemplate, error)
	ListTemplates(ctx context.Context, actor Actor) ([]domain.SessionTemplate, error)
	UpdateTemplate(ctx context.Context, coach Actor, id primitive.ObjectID, in SessionTemplateInput) (*domain.SessionTemplate, error)
	DeleteTemplate(ctx context.Context, coach Actor, id primitive.ObjectID) error
}

type sessionTemplateService struct {
	templateRepo repository.SessionTemplateRepository
}

func NewSessionTemplateService(templateRepo repository.SessionTemplateRepository) SessionTemplateService {
	return &sessionTemplateService{templateRepo: templateRepo}
}

func (s *sessionTemplateService) CreateTemplate(ctx context.Context, coach Actor, in SessionTemplateInput) (*domain.SessionTemplate, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if coach.TenantID == primitive.NilObjectID {
		return nil, errors.New("tenant ID is required to create a session template")
	}

	tpl := &domain.SessionTemplate{TenantID: coach.TenantID, CreatedBy: coach.UserID}
	in.apply(tpl)

	id, err := s.templateRepo.Create(ctx, tpl)
	if err != nil {
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, id)
}

// GetTemplate hides templates of other tenants behind ErrTemplateNotFound.
func (s *sessionTemplateService) GetTemplate(ctx context.Context, actor Actor, id primitive.ObjectID) (*domain.SessionTemplate, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if tpl.TenantID != actor.TenantID {
		return nil, ErrTemplateNotFound
	}
	return tpl, nil
}

func (s *sessionTemplateService) ListTemplates(ctx context.Context, actor Actor) ([]domain.SessionTemplate, error) {
	if actor.TenantID == primitive.NilObjectID {
		return nil, errors.New("tenant ID cannot be nil")
	}
	return s.templateRepo.GetByTenantID(ctx, actor.TenantID)
}

func (s *sessionTemplateService) UpdateTemplate(ctx context.Context, coach Actor, id primitive.ObjectID, in SessionTemplateInput) (*domain.SessionTemplate, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if existing.TenantID != coach.TenantID {
		return nil, ErrTemplateAccessDenied
	}

	in.apply(existing)
	if err := s.templateRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteTemplate removes a template. Assignments already generated keep their
// copy of the session fields.
func (s *sessionTemplateService) DeleteTemplate(ctx context.Context, coach Actor, id primitive.ObjectID) error {
	err := s.templateRepo.Delete(ctx, id, coach.TenantID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTemplateNotFound
	}
	return err
}
