package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"finman/internal/model"
)

// PlanRepository defines plan persistence operations. Sections are loaded with
// their plan and replaced wholesale on update.
type PlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error
	Update(ctx context.Context, plan *model.Plan) error
	ReplaceSections(ctx context.Context, plan *model.Plan, sections []model.PlanSection) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Plan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Plan, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository.
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepository) Update(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Omit("Sections").Save(plan).Error
}

// ReplaceSections deletes the plan's sections and inserts the given set within
// one transaction.
func (r *planRepository) ReplaceSections(ctx context.Context, plan *model.Plan, sections []model.PlanSection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&model.PlanSection{}).Error; err != nil {
			return err
		}
		for i := range sections {
			sections[i].PlanID = plan.ID
			sections[i].Position = i
		}
		if len(sections) > 0 {
			if err := tx.Create(&sections).Error; err != nil {
				return err
			}
		}
		plan.Sections = sections
		return nil
	})
}

func (r *planRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *planRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Plan{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("plan_id = ?", id).Delete(&model.PlanSection{}).Error
	})
}
