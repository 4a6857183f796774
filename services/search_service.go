package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/models"
	"gorm.io/gorm"
)

type SearchResult struct {
	Recheck  bool
	Charged  bool
	Balances *Balances
}

// PerformSearch runs the full consumption path for one address search:
// recheck guard, then calculator, then ledger. Address matching is exact
// string after caller-side normalization.
//
// skipConsumption bypasses the calculator unconditionally. It is distinct
// from a recheck: it never moves the ledger and never writes a
// SearchRecord, so it cannot seed a future free recheck.
func PerformSearch(cfg EngineConfig, userID uuid.UUID, address string, skipConsumption bool, now time.Time) (*SearchResult, error) {
	var record models.SearchRecord
	err := database.DB.
		Where("user_id = ? AND address = ? AND searched_at > ?", userID, address, now.Add(-cfg.RecheckWindow)).
		First(&record).Error
	if err == nil {
		// Free recheck: refresh the timestamp, no consumption.
		if err := database.DB.Model(&record).Update("searched_at", now).Error; err != nil {
			log.Printf("🔥 Failed to refresh search record %s: %v", record.ID, err)
		}
		balances, err := ReadBalances(userID)
		if err != nil {
			return nil, err
		}
		return &SearchResult{Recheck: true, Balances: balances}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if skipConsumption {
		balances, err := ReadBalances(userID)
		if err != nil {
			return nil, err
		}
		return &SearchResult{Balances: balances}, nil
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	decision := NextConsumption(cfg, SnapshotOf(&user), now)
	balances, err := ApplyConsumption(userID, decision)
	if err != nil {
		return nil, err
	}

	// History write is best-effort relative to the ledger write: a failure
	// here is logged, never rolled back into the consumption.
	if err := recordSearch(userID, address, now); err != nil {
		log.Printf("🔥 Failed to record search history for user %s: %v", userID, err)
	}

	return &SearchResult{Charged: true, Balances: balances}, nil
}

func recordSearch(userID uuid.UUID, address string, now time.Time) error {
	// An expired record for the same address may still exist; refresh it
	// instead of violating the (user, address) unique index.
	res := database.DB.Model(&models.SearchRecord{}).
		Where("user_id = ? AND address = ?", userID, address).
		Update("searched_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	record := models.SearchRecord{UserID: userID, Address: address, SearchedAt: now}
	return database.DB.Create(&record).Error
}
