package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is a generated income/expense summary over a period. Summary holds
// the serialized ReportSummary so past reports stay readable even after the
// underlying ledger changes.
type Report struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:char(36);not null;index"`
	From      time.Time      `json:"from" gorm:"not null"`
	To        time.Time      `json:"to" gorm:"not null"`
	Summary   string         `json:"-" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
