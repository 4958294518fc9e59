package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"finman/internal/errors"
	"finman/internal/model"
	"finman/internal/repository"
)

// SectionInput is one plan section in submission order.
type SectionInput struct {
	Title   string
	Content string
}

// PlanService handles multi-section financial plans.
type PlanService interface {
	Create(ctx context.Context, userID uuid.UUID, title string, sections []SectionInput) (*model.Plan, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Plan, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Plan, error)
	Update(ctx context.Context, userID, id uuid.UUID, title string, sections []SectionInput) (*model.Plan, error)
	Complete(ctx context.Context, userID, id uuid.UUID) (*model.Plan, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type planService struct {
	repo repository.PlanRepository
}

// NewPlanService creates a new plan service.
func NewPlanService(repo repository.PlanRepository) PlanService {
	return &planService{repo: repo}
}

func buildSections(inputs []SectionInput) []model.PlanSection {
	sections := make([]model.PlanSection, len(inputs))
	for i, in := range inputs {
		sections[i] = model.PlanSection{
			Position: i,
			Title:    in.Title,
			Content:  in.Content,
		}
	}
	return sections
}

func (s *planService) Create(ctx context.Context, userID uuid.UUID, title string, sections []SectionInput) (*model.Plan, error) {
	plan := &model.Plan{
		UserID:   userID,
		Title:    title,
		Sections: buildSections(sections),
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return plan, nil
}

func (s *planService) List(ctx context.Context, userID uuid.UUID) ([]model.Plan, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *planService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Plan, error) {
	plan, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) Update(ctx context.Context, userID, id uuid.UUID, title string, sections []SectionInput) (*model.Plan, error) {
	plan, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		plan.Title = title
	}
	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	if sections != nil {
		if err := s.repo.ReplaceSections(ctx, plan, buildSections(sections)); err != nil {
			return nil, fmt.Errorf("replace sections: %w", err)
		}
	}
	return plan, nil
}

func (s *planService) Complete(ctx context.Context, userID, id uuid.UUID) (*model.Plan, error) {
	plan, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	plan.Completed = true
	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("complete plan: %w", err)
	}
	return plan, nil
}

func (s *planService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrNotFound
		}
		return err
	}
	return nil
}
