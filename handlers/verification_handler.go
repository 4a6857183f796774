package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/middleware"
	"github.com/mwangikaris/plotcheck/models"
	"github.com/mwangikaris/plotcheck/notifications"
	"github.com/mwangikaris/plotcheck/services"
	"github.com/mwangikaris/plotcheck/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	verificationTTL         = 10 * time.Minute
	verificationMaxAttempts = 5
)

type RequestCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

type ConfirmCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

// RequestPhoneCode sends a one-time code. Only the bcrypt hash is stored.
func RequestPhoneCode(c *fiber.Ctx) error {
	callerID, err := middleware.AuthenticatedUserID(c)
	if err != nil {
		return err
	}

	var req RequestCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate code"})
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate code"})
	}

	verification := models.PhoneVerification{
		UserID:      callerID,
		PhoneNumber: req.PhoneNumber,
		CodeHash:    string(codeHash),
		ExpiresAt:   time.Now().Add(verificationTTL),
	}
	if err := database.DB.Create(&verification).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store verification"})
	}

	go notifications.SendSMS(req.PhoneNumber, fmt.Sprintf("Your PlotCheck verification code is %s. It expires in 10 minutes.", code))

	return c.JSON(fiber.Map{"message": "Verification code sent."})
}

// ConfirmPhoneCode verifies the code, marks the phone verified and runs
// the referral transition before returning.
func ConfirmPhoneCode(c *fiber.Ctx) error {
	callerID, err := middleware.AuthenticatedUserID(c)
	if err != nil {
		return err
	}

	var req ConfirmCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var verification models.PhoneVerification
	err = database.DB.
		Where("user_id = ? AND phone_number = ? AND confirmed = ?", callerID, req.PhoneNumber, false).
		Order("created_at DESC").
		First(&verification).Error
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No pending verification for this number"})
	}

	if time.Now().After(verification.ExpiresAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Verification code has expired"})
	}
	if verification.Attempts >= verificationMaxAttempts {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Too many attempts, request a new code"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(verification.CodeHash), []byte(req.Code)); err != nil {
		if err := database.DB.Model(&verification).Update("attempts", verification.Attempts+1).Error; err != nil {
			log.Printf("🔥 Failed to record verification attempt for user %s: %v", callerID, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid verification code"})
	}

	if err := database.DB.Model(&verification).Update("confirmed", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to confirm verification"})
	}

	err = database.DB.Model(&models.User{}).Where("id = ?", callerID).Updates(map[string]interface{}{
		"phone_number":   req.PhoneNumber,
		"phone_verified": true,
	}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update account"})
	}

	// The referral transition must run before the response goes out. It
	// is idempotent, so a retried confirmation cannot double-credit.
	services.CompleteReferralIfVerified(engineConfig, callerID)

	return c.JSON(fiber.Map{"message": "Phone number verified."})
}
