package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderStatusPending = "pending"
	ReminderStatusSent    = "sent"
	ReminderStatusFailed  = "failed"
)

// ReminderJob is a delayed SMS enqueued by the engine and consumed by the
// cron dispatcher.
type ReminderJob struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"not null"`
	PhoneNumber string    `gorm:"size:20;not null"`
	Message     string    `gorm:"type:text;not null"`
	SendAt      time.Time `gorm:"not null;index"`
	Status      string    `gorm:"size:20;not null;default:'pending'"`
	SentAt      *time.Time

	CreatedAt time.Time
}

func (r *ReminderJob) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
