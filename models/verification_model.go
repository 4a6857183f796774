package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhoneVerification stores one row per code send. Only the bcrypt hash of
// the code is persisted.
type PhoneVerification struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"not null;index"`
	PhoneNumber string    `gorm:"size:20;not null"`
	CodeHash    string    `gorm:"size:255;not null"`
	ExpiresAt   time.Time `gorm:"not null"`
	Attempts    int       `gorm:"not null;default:0"`
	Confirmed   bool      `gorm:"not null;default:false"`

	CreatedAt time.Time
}

func (v *PhoneVerification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
