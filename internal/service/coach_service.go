package service

import (
	"context"
	"errors"
	"math"
	"time"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlayerNotRole         = errors.New("user found but is not a player")
	ErrPlayerAlreadyAssigned = errors.New("player is already assigned to a coach")
	ErrPlayerOtherTenant     = errors.New("player belongs to another academy")
	ErrInvalidBaseline       = errors.New("scoring average must be a positive number")
	ErrMissingDescription    = errors.New("breaking point description is required")
)

// BaselineInput is a new measurement of a player's level.
type BaselineInput struct {
	ScoringAverage float64
	Handicap       *float64
	DriverSpeed    *float64 // mph
}

// CoachService manages the players of a coach and the inputs plan generation
// reads for them.
type CoachService interface {
	AddPlayerByEmail(ctx context.Context, coach Actor, playerEmail string) (*domain.User, error)
	GetManagedPlayers(ctx context.Context, coach Actor) ([]domain.User, error)
	UpdateBaseline(ctx context.Context, actor Actor, playerID primitive.ObjectID, in BaselineInput) (*domain.PlayerBaseline, error)
	AddBreakingPoint(ctx context.Context, actor Actor, playerID primitive.ObjectID, description, testDomainCode string) (*domain.BreakingPoint, error)
}

type coachService struct {
	userRepo   repository.UserRepository
	playerRepo repository.PlayerRepository
	access     access
}

func NewCoachService(userRepo repository.UserRepository, playerRepo repository.PlayerRepository, planRepo repository.AnnualPlanRepository) CoachService {
	return &coachService{
		userRepo:   userRepo,
		playerRepo: playerRepo,
		access:     access{users: userRepo, plans: planRepo},
	}
}

// AddPlayerByEmail finds a player of the coach's tenant and assigns them to the coach.
func (s *coachService) AddPlayerByEmail(ctx context.Context, coach Actor, playerEmail string) (*domain.User, error) {
	if coach.UserID == primitive.NilObjectID || playerEmail == "" {
		return nil, errors.New("coach ID and player email are required")
	}

	player, err := s.userRepo.GetByEmail(ctx, playerEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if !player.IsPlayer() {
		return nil, ErrPlayerNotRole
	}
	if player.TenantID != coach.TenantID {
		return nil, ErrPlayerOtherTenant
	}

	if player.CoachID != nil && *player.CoachID != primitive.NilObjectID {
		if *player.CoachID == coach.UserID {
			return player, nil
		}
		return nil, ErrPlayerAlreadyAssigned
	}

	if err := s.userRepo.SetCoachForPlayer(ctx, player.ID, coach.UserID); err != nil {
		return nil, err
	}
	player.CoachID = &coach.UserID
	return player, nil
}

func (s *coachService) GetManagedPlayers(ctx context.Context, coach Actor) ([]domain.User, error) {
	if coach.UserID == primitive.NilObjectID {
		return nil, errors.New("coach ID cannot be nil")
	}
	return s.userRepo.GetPlayersByCoachID(ctx, coach.UserID)
}

// UpdateBaseline stores the latest baseline. The next generated plan picks it up.
func (s *coachService) UpdateBaseline(ctx context.Context, actor Actor, playerID primitive.ObjectID, in BaselineInput) (*domain.PlayerBaseline, error) {
	if in.ScoringAverage <= 0 || math.IsNaN(in.ScoringAverage) || math.IsInf(in.ScoringAverage, 0) {
		return nil, ErrInvalidBaseline
	}
	if _, err := s.access.player(ctx, actor, playerID); err != nil {
		return nil, err
	}

	baseline := &domain.PlayerBaseline{
		PlayerID:       playerID,
		ScoringAverage: in.ScoringAverage,
		Handicap:       in.Handicap,
		DriverSpeed:    in.DriverSpeed,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := s.playerRepo.UpsertBaseline(ctx, baseline); err != nil {
		return nil, err
	}
	return baseline, nil
}

func (s *coachService) AddBreakingPoint(ctx context.Context, actor Actor, playerID primitive.ObjectID, description, testDomainCode string) (*domain.BreakingPoint, error) {
	if description == "" {
		return nil, ErrMissingDescription
	}
	if _, err := s.access.player(ctx, actor, playerID); err != nil {
		return nil, err
	}

	bp := &domain.BreakingPoint{
		PlayerID:       playerID,
		Description:    description,
		TestDomainCode: testDomainCode,
		Status:         domain.BreakingPointIdentified,
		CreatedAt:      time.Now().UTC(),
	}
	id, err := s.playerRepo.CreateBreakingPoint(ctx, bp)
	if err != nil {
		return nil, err
	}
	bp.ID = id
	return bp, nil
}
