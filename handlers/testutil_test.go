package handlers

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/middleware"
	"github.com/mwangikaris/plotcheck/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", testJWTSecret)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) {
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
}

func setupTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		StrictRouting: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	// Mirrors routes.AuthRoutes, routes.SearchRoutes, routes.ReferralRoutes,
	// and routes.NotificationRoutes; registered inline because importing the
	// routes package from an in-package handlers test is an import cycle.
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", RegisterUser)
	auth.Post("/login", LoginUser)

	api.Post("/searches", middleware.Protected(), PerformSearch)
	api.Get("/balances", middleware.Protected(), GetBalances)

	referrals := api.Group("/referrals", middleware.Protected())
	referrals.Post("/link", LinkReferral)
	referrals.Get("/me", GetMyReferrals)

	verify := api.Group("/verify", middleware.Protected())
	verify.Post("/request", RequestPhoneCode)
	verify.Post("/confirm", ConfirmPhoneCode)

	api.Get("/notifications", middleware.Protected(), GetNotifications)
	api.Patch("/notifications/:id/read", middleware.Protected(), MarkNotificationRead)

	return app
}

func createTestUser(t *testing.T, plan string, mutate func(*models.User)) *models.User {
	t.Helper()

	code := strings.ToUpper(uuid.NewString()[:8])
	user := models.User{
		FullName:     "Test User",
		Email:        uuid.NewString() + "@example.com",
		Password:     "hashed",
		Role:         "user",
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

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}
