package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchRecord backs the recheck window. One row per (user, address);
// SearchedAt is refreshed when the same address is rechecked.
type SearchRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID `gorm:"not null;index:idx_user_address,unique"`
	Address    string    `gorm:"size:500;not null;index:idx_user_address,unique"`
	SearchedAt time.Time `gorm:"not null"`
}

func (s *SearchRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
