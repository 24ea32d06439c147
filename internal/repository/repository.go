package repository

import (
	"alcyxob/golf-coach/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrUpdateFailed  = RepositoryError("update failed")
	ErrDeleteFailed  = RepositoryError("delete failed")
	ErrDuplicate     = RepositoryError("duplicate key")
	ErrActivePlanSet = RepositoryError("player already has an active plan")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs fn inside a unit of work. Every repository call made with
// the ctx passed to fn joins the transaction; an error from fn rolls it back.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CandidateFilter narrows the session templates considered for one day.
// Empty slices and strings leave that dimension unfiltered.
type CandidateFilter struct {
	TenantID       primitive.ObjectID
	Periods        []domain.Period
	LearningPhases []string
	Settings       []string
	ClubSpeed      string
	MinDuration    int
	MaxDuration    int
	ExcludeIDs     []primitive.ObjectID
	Limit          int
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetPlayersByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetCoachForPlayer(ctx context.Context, playerID, coachID primitive.ObjectID) error
}

// PlayerRepository stores the measured baseline and breaking points of players.
type PlayerRepository interface {
	GetBaseline(ctx context.Context, playerID primitive.ObjectID) (*domain.PlayerBaseline, error)
	UpsertBaseline(ctx context.Context, baseline *domain.PlayerBaseline) error
	ActiveBreakingPointIDs(ctx context.Context, playerID primitive.ObjectID) ([]primitive.ObjectID, error)
	CreateBreakingPoint(ctx context.Context, bp *domain.BreakingPoint) (primitive.ObjectID, error)
}

// SessionTemplateRepository manages a tenant's session library.
type SessionTemplateRepository interface {
	Create(ctx context.Context, tpl *domain.SessionTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionTemplate, error)
	GetByTenantID(ctx context.Context, tenantID primitive.ObjectID) ([]domain.SessionTemplate, error)
	Update(ctx context.Context, tpl *domain.SessionTemplate) error
	Delete(ctx context.Context, id, tenantID primitive.ObjectID) error // tenant must own the template
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]domain.SessionCandidate, error)
}

// DailyAssignmentRepository stores the day-by-day calendar of a plan.
type DailyAssignmentRepository interface {
	CreateMany(ctx context.Context, assignments []domain.DailyAssignment) (int, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DailyAssignment, error)
	GetByPlanAndDate(ctx context.Context, planID primitive.ObjectID, date time.Time) (*domain.DailyAssignment, error)
	GetByPlanAndRange(ctx context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error)
	RecentTemplateIDs(ctx context.Context, playerID primitive.ObjectID, since time.Time) ([]primitive.ObjectID, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AssignmentStatus, notes string) error
	Update(ctx context.Context, assignment *domain.DailyAssignment) error
}

// AnnualPlanRepository defines the interface for interacting with annual plan data.
type AnnualPlanRepository interface {
	Create(ctx context.Context, plan *domain.AnnualPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AnnualPlan, error)
	GetByPlayerID(ctx context.Context, playerID primitive.ObjectID) ([]domain.AnnualPlan, error)
	GetActiveForPlayer(ctx context.Context, playerID primitive.ObjectID) (*domain.AnnualPlan, error)
	ArchiveActiveForPlayer(ctx context.Context, playerID primitive.ObjectID) (int64, error)
	LinkIntake(ctx context.Context, planID, intakeID primitive.ObjectID) error
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PeriodizationRepository stores the 52 week descriptors of a plan.
type PeriodizationRepository interface {
	CreateMany(ctx context.Context, weeks []domain.Periodization) error
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Periodization, error)
}

// TournamentRepository stores the scheduled tournaments of a plan.
type TournamentRepository interface {
	CreateMany(ctx context.Context, tournaments []domain.ScheduledTournament) error
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.ScheduledTournament, error)
}

// ExportRepository defines the interface for interacting with export metadata.
type ExportRepository interface {
	Create(ctx context.Context, export *domain.PlanExport) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanExport, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanExport, error)
}
