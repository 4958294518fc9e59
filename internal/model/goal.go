package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Goal represents a savings goal with a target amount and date.
type Goal struct {
	ID           uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID       uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index"`
	Name         string          `json:"name" gorm:"size:255;not null"`
	TargetAmount decimal.Decimal `json:"targetAmount" gorm:"type:decimal(20,2);not null"`
	SavedAmount  decimal.Decimal `json:"savedAmount" gorm:"type:decimal(20,2);not null;default:0"`
	TargetDate   time.Time       `json:"targetDate" gorm:"not null"`
	Completed    bool            `json:"isCompleted" gorm:"default:false;index"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
