package service

import (
	"context"
	"errors"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerNotManaged = errors.New("player is not managed by this coach")
	ErrPlanNotFound     = errors.New("annual plan not found")
	ErrPlanAccessDenied = errors.New("access denied to this annual plan")
)

// Actor is the authenticated user a service call is made for.
type Actor struct {
	UserID   primitive.ObjectID
	Role     domain.Role
	TenantID primitive.ObjectID
}

// access resolves which players and plans an actor may see.
// Players see their own data; coaches see the players assigned to them.
type access struct {
	users repository.UserRepository
	plans repository.AnnualPlanRepository
}

func (a access) player(ctx context.Context, actor Actor, playerID primitive.ObjectID) (*domain.User, error) {
	if playerID == primitive.NilObjectID {
		return nil, ErrPlayerNotFound
	}
	player, err := a.users.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if !player.IsPlayer() {
		return nil, ErrPlayerNotFound
	}

	switch actor.Role {
	case domain.RolePlayer:
		if actor.UserID != player.ID {
			return nil, ErrPlanAccessDenied
		}
	case domain.RoleCoach:
		if player.CoachID == nil || *player.CoachID != actor.UserID {
			return nil, ErrPlayerNotManaged
		}
	default:
		return nil, ErrPlanAccessDenied
	}
	return player, nil
}

func (a access) plan(ctx context.Context, actor Actor, planID primitive.ObjectID) (*domain.AnnualPlan, error) {
	plan, err := a.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if _, err := a.player(ctx, actor, plan.PlayerID); err != nil {
		if errors.Is(err, ErrPlayerNotManaged) || errors.Is(err, ErrPlayerNotFound) {
			return nil, ErrPlanAccessDenied
		}
		return nil, err
	}
	return plan, nil
}
