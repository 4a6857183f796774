package jobs

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.ReminderJob{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db
}

func TestDispatchDueReminders(t *testing.T) {
	setupTestDB(t)

	due := models.ReminderJob{
		UserID:      uuid.New(),
		PhoneNumber: "+254733000001",
		Message:     "PlotCheck: you earned 5 credits from a referral.",
		SendAt:      time.Now().Add(-time.Minute),
		Status:      models.ReminderStatusPending,
	}
	future := models.ReminderJob{
		UserID:      uuid.New(),
		PhoneNumber: "+254733000002",
		Message:     "PlotCheck: keep sharing your code.",
		SendAt:      time.Now().Add(time.Hour),
		Status:      models.ReminderStatusPending,
	}
	if err := database.DB.Create(&due).Error; err != nil {
		t.Fatalf("create due job: %v", err)
	}
	if err := database.DB.Create(&future).Error; err != nil {
		t.Fatalf("create future job: %v", err)
	}

	DispatchDueReminders()

	var fresh models.ReminderJob
	if err := database.DB.First(&fresh, "id = ?", due.ID).Error; err != nil {
		t.Fatalf("reload due job: %v", err)
	}
	if fresh.Status != models.ReminderStatusSent || fresh.SentAt == nil {
		t.Errorf("due job = %+v, want sent with sent_at", fresh)
	}

	var freshFuture models.ReminderJob
	if err := database.DB.First(&freshFuture, "id = ?", future.ID).Error; err != nil {
		t.Fatalf("reload future job: %v", err)
	}
	if freshFuture.Status != models.ReminderStatusPending {
		t.Errorf("future job status = %q, want pending", freshFuture.Status)
	}
}
