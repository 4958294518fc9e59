package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType classifies persisted notifications.
type NotificationType string

const (
	NotificationWelcome NotificationType = "welcome"
	NotificationGoal    NotificationType = "goal"
	NotificationSystem  NotificationType = "system"
)

// Notification is a persisted per-user message shown in the app.
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID        `json:"userId" gorm:"type:char(36);not null;index"`
	Type      NotificationType `json:"type" gorm:"type:varchar(20);not null"`
	Message   string           `json:"message" gorm:"type:text;not null"`
	Read      bool             `json:"isRead" gorm:"column:is_read;default:false;index"`
	CreatedAt time.Time        `json:"createdAt"`
	DeletedAt gorm.DeletedAt   `json:"-" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
