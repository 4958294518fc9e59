package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finman/internal/errors"
	"finman/internal/model"
	"finman/internal/repository"
)

// GoalInput carries the writable goal fields.
type GoalInput struct {
	Name         string
	TargetAmount string
	SavedAmount  string
	TargetDate   time.Time
}

// GoalService handles savings goal operations.
type GoalService interface {
	Create(ctx context.Context, userID uuid.UUID, input GoalInput) (*model.Goal, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Goal, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Goal, error)
	Update(ctx context.Context, userID, id uuid.UUID, input GoalInput) (*model.Goal, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type goalService struct {
	repo repository.GoalRepository
}

// NewGoalService creates a new goal service.
func NewGoalService(repo repository.GoalRepository) GoalService {
	return &goalService{repo: repo}
}

func (s *goalService) Create(ctx context.Context, userID uuid.UUID, input GoalInput) (*model.Goal, error) {
	target, err := parseAmount(input.TargetAmount)
	if err != nil || !target.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}
	saved := decimal.Zero
	if input.SavedAmount != "" {
		if saved, err = parseAmount(input.SavedAmount); err != nil {
			return nil, err
		}
	}
	if !input.TargetDate.After(time.Now()) {
		return nil, errors.ErrPastDate
	}

	goal := &model.Goal{
		UserID:       userID,
		Name:         input.Name,
		TargetAmount: target,
		SavedAmount:  saved,
		TargetDate:   input.TargetDate,
		Completed:    saved.GreaterThanOrEqual(target),
	}
	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return goal, nil
}

func (s *goalService) List(ctx context.Context, userID uuid.UUID) ([]model.Goal, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *goalService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Goal, error) {
	goal, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (s *goalService) Update(ctx context.Context, userID, id uuid.UUID, input GoalInput) (*model.Goal, error) {
	goal, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		goal.Name = input.Name
	}
	if input.TargetAmount != "" {
		target, err := parseAmount(input.TargetAmount)
		if err != nil || !target.IsPositive() {
			return nil, errors.ErrInvalidAmount
		}
		goal.TargetAmount = target
	}
	if input.SavedAmount != "" {
		saved, err := parseAmount(input.SavedAmount)
		if err != nil {
			return nil, err
		}
		goal.SavedAmount = saved
	}
	if !input.TargetDate.IsZero() {
		if !input.TargetDate.After(time.Now()) {
			return nil, errors.ErrPastDate
		}
		goal.TargetDate = input.TargetDate
	}
	goal.Completed = goal.SavedAmount.GreaterThanOrEqual(goal.TargetAmount)

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return goal, nil
}

func (s *goalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrNotFound
		}
		return err
	}
	return nil
}
