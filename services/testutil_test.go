package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.SearchRecord{},
		&models.Referral{},
		&models.Notification{},
		&models.ReminderJob{},
		&models.PhoneVerification{},
		&models.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database.DB = db
	return db
}

func createTestUser(t *testing.T, plan string, mutate func(*models.User)) *models.User {
	t.Helper()

	code := strings.ToUpper(uuid.NewString()[:8])
	user := models.User{
		FullName:     "Test User",
		Email:        uuid.NewString() + "@example.com",
		Password:     "hashed",
		Plan:         plan,
		ReferralCode: &code,
	}
	if mutate != nil {
		mutate(&user)
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

func reloadUser(t *testing.T, id uuid.UUID) *models.User {
	t.Helper()

	var user models.User
	if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload user %s: %v", id, err)
	}
	return &user
}
