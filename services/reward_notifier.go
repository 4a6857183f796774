package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/models"
)

type rewardPayload struct {
	RewardCredits int       `json:"reward_credits"`
	CounterpartID uuid.UUID `json:"counterpart_id"`
}

// NotifyReferralReward creates one notification per party and, when the
// referrer has a phone on file, schedules a delayed reminder SMS. All of
// it is best-effort UX: the ledger mutation is authoritative and failures
// here are logged, never propagated.
func NotifyReferralReward(cfg EngineConfig, referrer, referred *models.User, reward int, milestone int) {
	createNotification(models.Notification{
		UserID:  referrer.ID,
		Type:    models.NotificationTypeReferralReward,
		Title:   "You've Earned Referral Credits!",
		Message: fmt.Sprintf("Someone you invited verified their number. %d search credits have been added to your account.", reward),
		Data:    encodePayload(rewardPayload{RewardCredits: reward, CounterpartID: referred.ID}),
	})

	createNotification(models.Notification{
		UserID:  referred.ID,
		Type:    models.NotificationTypeReferralReward,
		Title:   "Welcome Bonus Unlocked!",
		Message: fmt.Sprintf("Your number is verified. %d bonus search credits have been added to your account.", reward),
		Data:    encodePayload(rewardPayload{RewardCredits: reward, CounterpartID: referrer.ID}),
	})

	if milestone > 0 {
		createNotification(models.Notification{
			UserID:  referrer.ID,
			Type:    models.NotificationTypeReferralMilestone,
			Title:   fmt.Sprintf("%d Referrals - Thank You!", milestone),
			Message: fmt.Sprintf("You've now referred %d verified users to PlotCheck. Keep sharing your code!", milestone),
		})
	}

	if referrer.PhoneNumber != nil && *referrer.PhoneNumber != "" {
		job := models.ReminderJob{
			UserID:      referrer.ID,
			PhoneNumber: *referrer.PhoneNumber,
			Message:     fmt.Sprintf("PlotCheck: you earned %d credits from a referral. Share your code %s to earn more.", reward, codeOf(referrer)),
			SendAt:      time.Now().Add(cfg.ReminderDelay),
			Status:      models.ReminderStatusPending,
		}
		if err := database.DB.Create(&job).Error; err != nil {
			log.Printf("🔥 Failed to schedule referral reminder for user %s: %v", referrer.ID, err)
		}
	}
}

func createNotification(n models.Notification) {
	if err := database.DB.Create(&n).Error; err != nil {
		log.Printf("🔥 Failed to create %s notification for user %s: %v", n.Type, n.UserID, err)
	}
}

func encodePayload(p rewardPayload) string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}

func codeOf(u *models.User) string {
	if u.ReferralCode == nil {
		return ""
	}
	return *u.ReferralCode
}
