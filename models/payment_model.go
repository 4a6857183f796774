package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment records one credit-pack purchase. ProviderSessionID is unique so
// a replayed webhook resolves to the same row and the status guard makes
// the grant idempotent.
type Payment struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID            uuid.UUID `gorm:"not null;index"`
	Credits           int       `gorm:"not null"`
	Amount            float64   `gorm:"type:numeric(10,2);not null"`
	Currency          string    `gorm:"size:3"`
	Provider          string    `gorm:"size:50;not null"`
	ProviderSessionID *string   `gorm:"size:255;unique"`
	Status            string    `gorm:"size:20;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
