package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/planner"
	"alcyxob/golf-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidStatus     = errors.New("invalid assignment status")
	ErrInvalidTransition = errors.New("assignment status cannot change that way")
	ErrSwapNotAllowed    = errors.New("only two different planned days of the same plan can be swapped")
)

// allowedTransitions lists the statuses reachable from each status.
// Completed and skipped are final.
var allowedTransitions = map[domain.AssignmentStatus][]domain.AssignmentStatus{
	domain.StatusPlanned:    {domain.StatusInProgress, domain.StatusCompleted, domain.StatusSkipped},
	domain.StatusInProgress: {domain.StatusCompleted, domain.StatusSkipped},
}

func canTransition(from, to domain.AssignmentStatus) bool {
	if from == to {
		return true
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AdjustmentService applies manual changes to a generated calendar.
type AdjustmentService interface {
	UpdateAssignmentStatus(ctx context.Context, actor Actor, assignmentID primitive.ObjectID, status domain.AssignmentStatus, notes string) (*domain.DailyAssignment, error)
	SwapSessions(ctx context.Context, actor Actor, planID primitive.ObjectID, first, second time.Time) ([]domain.DailyAssignment, error)
}

type adjustmentService struct {
	assignments repository.DailyAssignmentRepository
	tx          repository.Transactor
	access      access
}

func NewAdjustmentService(users repository.UserRepository, plans repository.AnnualPlanRepository, assignments repository.DailyAssignmentRepository, tx repository.Transactor) AdjustmentService {
	return &adjustmentService{
		assignments: assignments,
		tx:          tx,
		access:      access{users: users, plans: plans},
	}
}

// UpdateAssignmentStatus records progress on a day. Keeping the current
// status is allowed so notes can be edited.
func (s *adjustmentService) UpdateAssignmentStatus(ctx context.Context, actor Actor, assignmentID primitive.ObjectID, status domain.AssignmentStatus, notes string) (*domain.DailyAssignment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if _, err := s.access.plan(ctx, actor, a.AnnualPlanID); err != nil {
		return nil, err
	}
	if !canTransition(a.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, a.Status, status)
	}

	if err := s.assignments.UpdateStatus(ctx, a.ID, status, notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	a.Status = status
	if notes != "" {
		a.Notes = notes
	}
	a.UpdatedAt = time.Now().UTC()
	return a, nil
}

// SwapSessions exchanges the sessions of two planned days. Dates, weeks and
// periods stay with their day.
func (s *adjustmentService) SwapSessions(ctx context.Context, actor Actor, planID primitive.ObjectID, first, second time.Time) ([]domain.DailyAssignment, error) {
	first, second = planner.DateOf(first), planner.DateOf(second)
	if first.Equal(second) {
		return nil, ErrSwapNotAllowed
	}
	if _, err := s.access.plan(ctx, actor, planID); err != nil {
		return nil, err
	}

	var a, b *domain.DailyAssignment
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if a, err = s.dayOf(ctx, planID, first); err != nil {
			return err
		}
		if b, err = s.dayOf(ctx, planID, second); err != nil {
			return err
		}
		if a.Status != domain.StatusPlanned || b.Status != domain.StatusPlanned {
			return ErrSwapNotAllowed
		}

		swapSession(a, b)
		if err := s.assignments.Update(ctx, a); err != nil {
			return fmt.Errorf("updating %s: %w", first.Format("2006-01-02"), err)
		}
		if err := s.assignments.Update(ctx, b); err != nil {
			return fmt.Errorf("updating %s: %w", second.Format("2006-01-02"), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return []domain.DailyAssignment{*a, *b}, nil
}

func (s *adjustmentService) dayOf(ctx context.Context, planID primitive.ObjectID, date time.Time) (*domain.DailyAssignment, error) {
	a, err := s.assignments.GetByPlanAndDate(ctx, planID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, date.Format("2006-01-02"))
		}
		return nil, err
	}
	return a, nil
}

func swapSession(a, b *domain.DailyAssignment) {
	a.SessionTemplateID, b.SessionTemplateID = b.SessionTemplateID, a.SessionTemplateID
	a.SessionType, b.SessionType = b.SessionType, a.SessionType
	a.EstimatedDuration, b.EstimatedDuration = b.EstimatedDuration, a.EstimatedDuration
	a.LearningPhase, b.LearningPhase = b.LearningPhase, a.LearningPhase
	a.Setting, b.Setting = b.Setting, a.Setting
	a.Priority, b.Priority = b.Priority, a.Priority
	a.IsRestDay, b.IsRestDay = b.IsRestDay, a.IsRestDay
}
