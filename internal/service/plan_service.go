package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/planner"
	"alcyxob/golf-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidPlanInput   = errors.New("invalid plan generation input")
	ErrAssignmentNotFound = errors.New("daily assignment not found")
	ErrInvalidWeek        = errors.New("week number must be between 1 and 52")
	ErrInvalidDateRange   = errors.New("calendar range start must not be after its end")
)

// GeneratePlanInput is everything needed to build an annual plan.
// Optional baseline values fall back to the stored baseline, then to defaults.
type GeneratePlanInput struct {
	PlayerID          primitive.ObjectID
	StartDate         time.Time
	BaselineAverage   *float64
	Handicap          *float64
	DriverSpeed       *float64
	PlanName          string
	WeeklyHoursTarget *int
	Tournaments       []domain.TournamentInput
	PreferredDays     []int // 0=Sunday..6=Saturday
	ExcludedDates     []time.Time
	IntakeID          *primitive.ObjectID
}

type PeriodizationSummary struct {
	Weeks     int `json:"weeks"`
	FirstWeek int `json:"firstWeek"`
	LastWeek  int `json:"lastWeek"`
}

type AssignmentSummary struct {
	Created int            `json:"created"`
	Skipped int            `json:"skipped"`
	From    time.Time      `json:"from"`
	To      time.Time      `json:"to"`
	ByType  map[string]int `json:"byType"`
}

type TournamentSummary struct {
	Scheduled int                          `json:"scheduled"`
	Items     []domain.ScheduledTournament `json:"items"`
}

// GenerationResult summarizes a generated plan.
type GenerationResult struct {
	Plan                 *domain.AnnualPlan   `json:"plan"`
	Periodization        PeriodizationSummary `json:"periodization"`
	DailyAssignments     AssignmentSummary    `json:"dailyAssignments"`
	Tournaments          TournamentSummary    `json:"tournaments"`
	BreakingPointsLinked int                  `json:"breakingPointsLinked"`
	ArchivedPlans        int64                `json:"archivedPlans"`
}

// PlanDetails is a plan header with its weeks and tournaments.
type PlanDetails struct {
	Plan        *domain.AnnualPlan           `json:"plan"`
	Weeks       []domain.Periodization       `json:"weeks"`
	Tournaments []domain.ScheduledTournament `json:"tournaments"`
}

type PlanService interface {
	GeneratePlan(ctx context.Context, actor Actor, in GeneratePlanInput) (*GenerationResult, error)
	GetPlan(ctx context.Context, actor Actor, planID primitive.ObjectID) (*PlanDetails, error)
	GetActivePlan(ctx context.Context, actor Actor, playerID primitive.ObjectID) (*PlanDetails, error)
	ListPlans(ctx context.Context, actor Actor, playerID primitive.ObjectID) ([]domain.AnnualPlan, error)
	GetCalendar(ctx context.Context, actor Actor, planID primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error)
	GetWeek(ctx context.Context, actor Actor, planID primitive.ObjectID, week int) ([]domain.DailyAssignment, error)
	GetDay(ctx context.Context, actor Actor, planID primitive.ObjectID, date time.Time) (*domain.DailyAssignment, error)
	CompleteExpiredPlans(ctx context.Context) (int64, error)
}

// PlanRepositories groups the stores the plan service writes to.
type PlanRepositories struct {
	Users       repository.UserRepository
	Players     repository.PlayerRepository
	Plans       repository.AnnualPlanRepository
	Weeks       repository.PeriodizationRepository
	Tournaments repository.TournamentRepository
	Assignments repository.DailyAssignmentRepository
}

// PlanDefaults apply when a player has no recorded baseline.
type PlanDefaults struct {
	ScoringAverage float64
	ClubSpeed      string
}

type planService struct {
	repos     PlanRepositories
	tx        repository.Transactor
	catalog   *planner.Catalog
	generator *planner.Generator
	defaults  PlanDefaults
	access    access
	now       func() time.Time
}

// NewPlanService creates the plan service. Zero defaults use the planner's.
func NewPlanService(repos PlanRepositories, tx repository.Transactor, catalog *planner.Catalog, generator *planner.Generator, defaults PlanDefaults) PlanService {
	if defaults.ScoringAverage <= 0 {
		defaults.ScoringAverage = planner.DefaultScoringAverage
	}
	if defaults.ClubSpeed == "" {
		defaults.ClubSpeed = planner.DefaultClubSpeed
	}
	return &planService{
		repos:     repos,
		tx:        tx,
		catalog:   catalog,
		generator: generator,
		defaults:  defaults,
		access:    access{users: repos.Users, plans: repos.Plans},
		now:       time.Now,
	}
}

func validatePlanInput(in GeneratePlanInput) error {
	if in.PlayerID == primitive.NilObjectID {
		return fmt.Errorf("%w: player ID is required", ErrInvalidPlanInput)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: %v", ErrInvalidPlanInput, planner.ErrInvalidStartDate)
	}
	if err := planner.ValidatePreferredDays(in.PreferredDays); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlanInput, err)
	}
	if in.BaselineAverage != nil && (*in.BaselineAverage <= 0 || math.IsNaN(*in.BaselineAverage)) {
		return fmt.Errorf("%w: baseline average must be positive", ErrInvalidPlanInput)
	}
	if in.WeeklyHoursTarget != nil && *in.WeeklyHoursTarget <= 0 {
		return fmt.Errorf("%w: weekly hours target must be positive", ErrInvalidPlanInput)
	}
	for i, t := range in.Tournaments {
		if strings.TrimSpace(t.Name) == "" || t.StartDate.IsZero() {
			return fmt.Errorf("%w: tournament %d needs a name and a start date", ErrInvalidPlanInput, i+1)
		}
		if !t.EndDate.IsZero() && t.EndDate.Before(t.StartDate) {
			return fmt.Errorf("%w: tournament %q ends before it starts", ErrInvalidPlanInput, t.Name)
		}
	}
	return nil
}

// GeneratePlan builds and stores a complete annual plan for a player. The
// player's previous active plan is archived in the same transaction, so a
// failure leaves the previous plan in place.
func (s *planService) GeneratePlan(ctx context.Context, actor Actor, in GeneratePlanInput) (*GenerationResult, error) {
	if err := validatePlanInput(in); err != nil {
		return nil, err
	}
	player, err := s.access.player(ctx, actor, in.PlayerID)
	if err != nil {
		return nil, err
	}

	baseline, err := s.resolveBaseline(ctx, in)
	if err != nil {
		return nil, err
	}
	clubSpeed := planner.ClubSpeedLevel(baseline.DriverSpeed, s.defaults.ClubSpeed)

	start := planner.DateOf(in.StartDate)
	tpl := s.catalog.TemplateForScore(baseline.ScoringAverage)
	tournaments := planner.ScheduleTournaments(start, in.Tournaments)
	weeks, err := planner.BuildStructure(start, tpl, tournaments)
	if err != nil {
		return nil, err
	}

	breakingPoints, err := s.repos.Players.ActiveBreakingPointIDs(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("loading breaking points: %w", err)
	}

	hoursTarget := tpl.MidpointHours()
	if in.WeeklyHoursTarget != nil {
		hoursTarget = *in.WeeklyHoursTarget
	}
	name := strings.TrimSpace(in.PlanName)
	if name == "" {
		name = strconv.FormatFloat(baseline.ScoringAverage, 'f', -1, 64) + " avg - 12-month plan"
	}
	now := s.now().UTC()
	plan := &domain.AnnualPlan{
		PlayerID:             player.ID,
		TenantID:             player.TenantID,
		PlanName:             name,
		StartDate:            start,
		EndDate:              start.AddDate(0, 0, planner.DaysPerPlan-1),
		Status:               domain.PlanStatusActive,
		BaselineAverageScore: baseline.ScoringAverage,
		BaselineHandicap:     baseline.Handicap,
		BaselineDriverSpeed:  baseline.DriverSpeed,
		PlayerCategory:       string(tpl.Tier),
		ClubSpeedLevel:       clubSpeed,
		BasePeriodWeeks:      tpl.BaseWeeks,
		SpecializationWeeks:  tpl.SpecializationWeeks,
		TournamentWeeks:      tpl.TournamentWeeks,
		RecoveryWeeks:        tpl.RecoveryWeeks,
		WeeklyHoursTarget:    hoursTarget,
		IntensityProfile:     tpl.IntensityProfile(),
		GeneratedAt:          now,
	}

	var (
		archived int64
		daily    *planner.DailyResult
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if archived, err = s.repos.Plans.ArchiveActiveForPlayer(ctx, player.ID); err != nil {
			return fmt.Errorf("archiving previous plan: %w", err)
		}
		planID, err := s.repos.Plans.Create(ctx, plan)
		if err != nil {
			return fmt.Errorf("creating plan: %w", err)
		}
		plan.ID = planID

		for i := range weeks {
			weeks[i].AnnualPlanID = planID
			weeks[i].PlayerID = player.ID
		}
		if err := s.repos.Weeks.CreateMany(ctx, weeks); err != nil {
			return fmt.Errorf("storing periodization: %w", err)
		}
		if len(tournaments) > 0 {
			for i := range tournaments {
				tournaments[i].AnnualPlanID = planID
			}
			if err := s.repos.Tournaments.CreateMany(ctx, tournaments); err != nil {
				return fmt.Errorf("storing tournaments: %w", err)
			}
		}

		daily, err = s.generator.Generate(ctx, planner.PlanRef{
			AnnualPlanID:     planID,
			PlayerID:         player.ID,
			TenantID:         player.TenantID,
			StartDate:        start,
			ClubSpeedLevel:   clubSpeed,
			BreakingPointIDs: breakingPoints,
		}, weeks, in.ExcludedDates, in.PreferredDays)
		if err != nil {
			return fmt.Errorf("generating daily assignments: %w", err)
		}
		if _, err := s.repos.Assignments.CreateMany(ctx, daily.Assignments); err != nil {
			return fmt.Errorf("storing daily assignments: %w", err)
		}

		if in.IntakeID != nil {
			if err := s.repos.Plans.LinkIntake(ctx, planID, *in.IntakeID); err != nil {
				return fmt.Errorf("linking intake: %w", err)
			}
			plan.SourceIntakeID = in.IntakeID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("INFO: generated plan %s for player %s: tier %s, %d weeks, %d days (%d skipped), %d tournaments",
		plan.ID.Hex(), player.ID.Hex(), tpl.Tier, len(weeks), daily.Created, daily.Skipped, len(tournaments))

	return &GenerationResult{
		Plan: plan,
		Periodization: PeriodizationSummary{
			Weeks:     len(weeks),
			FirstWeek: weeks[0].WeekNumber,
			LastWeek:  weeks[len(weeks)-1].WeekNumber,
		},
		DailyAssignments: AssignmentSummary{
			Created: daily.Created,
			Skipped: daily.Skipped,
			From:    daily.From,
			To:      daily.To,
			ByType:  daily.ByType,
		},
		Tournaments:          TournamentSummary{Scheduled: len(tournaments), Items: tournaments},
		BreakingPointsLinked: len(breakingPoints),
		ArchivedPlans:        archived,
	}, nil
}

// resolveBaseline merges explicit input over the stored baseline over defaults.
func (s *planService) resolveBaseline(ctx context.Context, in GeneratePlanInput) (domain.PlayerBaseline, error) {
	b := domain.PlayerBaseline{PlayerID: in.PlayerID, ScoringAverage: s.defaults.ScoringAverage}

	stored, err := s.repos.Players.GetBaseline(ctx, in.PlayerID)
	switch {
	case err == nil:
		if stored.ScoringAverage > 0 {
			b.ScoringAverage = stored.ScoringAverage
		}
		b.Handicap = stored.Handicap
		b.DriverSpeed = stored.DriverSpeed
	case errors.Is(err, repository.ErrNotFound):
		if in.BaselineAverage == nil {
			log.Printf("WARN: no baseline for player %s, using scoring average %.1f", in.PlayerID.Hex(), b.ScoringAverage)
		}
	default:
		return b, fmt.Errorf("loading baseline: %w", err)
	}

	if in.BaselineAverage != nil {
		b.ScoringAverage = *in.BaselineAverage
	}
	if in.Handicap != nil {
		b.Handicap = in.Handicap
	}
	if in.DriverSpeed != nil {
		b.DriverSpeed = in.DriverSpeed
	}
	return b, nil
}

func (s *planService) details(ctx context.Context, plan *domain.AnnualPlan) (*PlanDetails, error) {
	weeks, err := s.repos.Weeks.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	tournaments, err := s.repos.Tournaments.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	return &PlanDetails{Plan: plan, Weeks: weeks, Tournaments: tournaments}, nil
}

func (s *planService) GetPlan(ctx context.Context, actor Actor, planID primitive.ObjectID) (*PlanDetails, error) {
	plan, err := s.access.plan(ctx, actor, planID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, plan)
}

func (s *planService) GetActivePlan(ctx context.Context, actor Actor, playerID primitive.ObjectID) (*PlanDetails, error) {
	if _, err := s.access.player(ctx, actor, playerID); err != nil {
		return nil, err
	}
	plan, err := s.repos.Plans.GetActiveForPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return s.details(ctx, plan)
}

func (s *planService) ListPlans(ctx context.Context, actor Actor, playerID primitive.ObjectID) ([]domain.AnnualPlan, error) {
	if _, err := s.access.player(ctx, actor, playerID); err != nil {
		return nil, err
	}
	return s.repos.Plans.GetByPlayerID(ctx, playerID)
}

// GetCalendar returns the assignments dated within [from, to].
func (s *planService) GetCalendar(ctx context.Context, actor Actor, planID primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error) {
	from, to = planner.DateOf(from), planner.DateOf(to)
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}
	if _, err := s.access.plan(ctx, actor, planID); err != nil {
		return nil, err
	}
	return s.repos.Assignments.GetByPlanAndRange(ctx, planID, from, to)
}

// GetWeek returns the assignments of one plan week. Week 52 includes the
// plan's final day.
func (s *planService) GetWeek(ctx context.Context, actor Actor, planID primitive.ObjectID, week int) ([]domain.DailyAssignment, error) {
	if week < 1 || week > planner.WeeksPerPlan {
		return nil, ErrInvalidWeek
	}
	plan, err := s.access.plan(ctx, actor, planID)
	if err != nil {
		return nil, err
	}
	from := planner.DateOf(plan.StartDate).AddDate(0, 0, 7*(week-1))
	to := from.AddDate(0, 0, 6)
	if week == planner.WeeksPerPlan {
		to = planner.DateOf(plan.EndDate)
	}
	return s.repos.Assignments.GetByPlanAndRange(ctx, planID, from, to)
}

func (s *planService) GetDay(ctx context.Context, actor Actor, planID primitive.ObjectID, date time.Time) (*domain.DailyAssignment, error) {
	if _, err := s.access.plan(ctx, actor, planID); err != nil {
		return nil, err
	}
	a, err := s.repos.Assignments.GetByPlanAndDate(ctx, planID, planner.DateOf(date))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// CompleteExpiredPlans marks active plans whose end date has passed as completed.
func (s *planService) CompleteExpiredPlans(ctx context.Context) (int64, error) {
	return s.repos.Plans.CompleteExpired(ctx, planner.DateOf(s.now()))
}
