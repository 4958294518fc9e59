package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan is a multi-section financial plan. Sections are ordered by Position
// and always loaded with the plan.
type Plan struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:char(36);not null;index"`
	Title     string         `json:"title" gorm:"size:255;not null"`
	Completed bool           `json:"isCompleted" gorm:"default:false"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Sections []PlanSection `json:"sections" gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
	User     User          `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlanSection is one ordered section of a plan (budget, savings, insurance...).
type PlanSection struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	PlanID    uuid.UUID `json:"planId" gorm:"type:char(36);not null;index"`
	Position  int       `json:"position" gorm:"not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (s *PlanSection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
