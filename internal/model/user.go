package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents a registered identity. Each record co-locates credentials,
// the outstanding OTP challenge (if any), login history and the financial
// profile fields used by the planning subsystem.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON

	// OTP challenge. Hash and expiry are always written and cleared together;
	// plaintext codes are never stored.
	OTPHash      string     `json:"-" gorm:"size:64"`
	OTPExpiresAt *time.Time `json:"-"`
	OTPVerified  bool       `json:"-" gorm:"default:false"`

	LastLoginAt     *time.Time `json:"lastLoginAt"`
	PreviousLoginAt *time.Time `json:"previousLoginAt"`
	LastLogoutAt    *time.Time `json:"lastLogoutAt"`

	// Financial profile, edited via PUT /profile.
	DateOfBirth   *time.Time      `json:"dateOfBirth,omitempty"`
	MaritalStatus string          `json:"maritalStatus,omitempty" gorm:"size:50"`
	Dependents    int             `json:"dependents,omitempty" gorm:"default:0"`
	Occupation    string          `json:"occupation,omitempty" gorm:"size:255"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome,omitempty" gorm:"type:decimal(20,2);default:0"`
	RiskAppetite  string          `json:"riskAppetite,omitempty" gorm:"size:50"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasChallenge reports whether an OTP challenge is outstanding.
func (u *User) HasChallenge() bool {
	return u.OTPHash != "" && u.OTPExpiresAt != nil
}
