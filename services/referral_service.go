package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/models"
	"gorm.io/gorm"
)

// LinkReferral attaches a pending referral to a newly signed-up user. All
// preconditions are checked here; the caller decides whether a violation
// is soft (signup keeps going) or surfaced (explicit link endpoint).
func LinkReferral(cfg EngineConfig, code string, newUserID uuid.UUID) error {
	var referrer models.User
	if err := database.DB.Where("referral_code = ?", code).First(&referrer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReferralCodeNotFound
		}
		return err
	}

	if referrer.ID == newUserID {
		return ErrSelfReferral
	}
	if referrer.ReferralCount >= cfg.ReferralCap {
		return ErrReferralCapReached
	}

	var existing models.Referral
	err := database.DB.Where("referred_user_id = ?", newUserID).First(&existing).Error
	if err == nil {
		return ErrAlreadyReferred
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	referral := models.Referral{
		ReferrerID:     referrer.ID,
		ReferredUserID: newUserID,
		Status:         models.ReferralStatusPending,
	}
	if err := database.DB.Create(&referral).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyReferred
		}
		return err
	}
	return nil
}

// CompleteReferralIfVerified fires when the referred user's phone becomes
// verified. The transition is gated on status = pending, so a repeated
// trigger finds no pending row and exits without double-crediting. Absence
// of a referral is a no-op, not an error.
func CompleteReferralIfVerified(cfg EngineConfig, referredUserID uuid.UUID) {
	var referral models.Referral
	var referrer, referred models.User
	milestone := 0
	credited := false

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("referred_user_id = ? AND status = ?", referredUserID, models.ReferralStatusPending).
			First(&referral).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.First(&referrer, "id = ?", referral.ReferrerID).Error; err != nil {
			return err
		}
		if err := tx.First(&referred, "id = ?", referral.ReferredUserID).Error; err != nil {
			return err
		}

		reward := cfg.ReferralRewardCredits
		newCount := referrer.ReferralCount + 1

		err = tx.Model(&models.User{}).Where("id = ?", referrer.ID).Updates(map[string]interface{}{
			"credit_balance":          referrer.CreditBalance + reward,
			"referral_credits_earned": referrer.ReferralCreditsEarned + reward,
			"referral_count":          newCount,
		}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.User{}).Where("id = ?", referred.ID).
			Update("credit_balance", referred.CreditBalance+reward).Error
		if err != nil {
			return err
		}

		now := time.Now()
		err = tx.Model(&referral).Updates(map[string]interface{}{
			"status":        models.ReferralStatusCredited,
			"reward_amount": reward,
			"verified_at":   now,
			"credited_at":   now,
		}).Error
		if err != nil {
			return err
		}

		// Milestones are derived from the new count, never persisted.
		if cfg.IsMilestone(newCount) {
			milestone = newCount
		}
		credited = true
		return nil
	})

	if err != nil {
		log.Printf("🔥 Error completing referral for user %s: %v", referredUserID, err)
		return
	}
	if !credited {
		return
	}

	log.Printf("✅ Referral %s credited: %d credits each for %s and %s", referral.ID, cfg.ReferralRewardCredits, referrer.ID, referred.ID)
	NotifyReferralReward(cfg, &referrer, &referred, cfg.ReferralRewardCredits, milestone)
}
