package jobs

import (
	"log"
	"time"

	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/models"
	"github.com/mwangikaris/plotcheck/notifications"
)

// DispatchDueReminders sends every pending ReminderJob whose send time has
// passed. The engine only enqueues jobs; this is the delivery side.
func DispatchDueReminders() {
	now := time.Now()

	var due []models.ReminderJob
	err := database.DB.
		Where("status = ? AND send_at <= ?", models.ReminderStatusPending, now).
		Limit(100).
		Find(&due).Error
	if err != nil {
		log.Printf("Error loading due reminders: %v", err)
		return
	}

	if len(due) == 0 {
		return
	}

	for _, job := range due {
		log.Printf("Dispatching reminder %s to %s", job.ID, job.PhoneNumber)

		notifications.SendSMS(job.PhoneNumber, job.Message)

		sentAt := time.Now()
		err := database.DB.Model(&models.ReminderJob{}).Where("id = ?", job.ID).
			Updates(map[string]interface{}{
				"status":  models.ReminderStatusSent,
				"sent_at": sentAt,
			}).Error
		if err != nil {
			log.Printf("🔥 Failed to mark reminder %s as sent: %v", job.ID, err)
		}
	}
}
