package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReferralStatusPending  = "pending"
	ReferralStatusCredited = "credited"
)

type Referral struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	ReferrerID     uuid.UUID `gorm:"not null"`
	ReferredUserID uuid.UUID `gorm:"not null;unique"`
	Status         string    `gorm:"size:20;not null;default:'pending'"`
	RewardAmount   int       `gorm:"not null;default:0"`

	VerifiedAt *time.Time
	CreditedAt *time.Time

	Referrer     User `gorm:"foreignkey:ReferrerID"`
	ReferredUser User `gorm:"foreignkey:ReferredUserID"`

	CreatedAt time.Time
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
