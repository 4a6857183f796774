package handlers

import (
	"errors"

	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/middleware"
	"github.com/mwangikaris/plotcheck/models"
	"github.com/mwangikaris/plotcheck/services"
	"github.com/gofiber/fiber/v2"
)

type LinkReferralRequest struct {
	ReferralCode string `json:"referral_code" validate:"required,len=8,alphanum"`
}

// LinkReferral is the strict after-signup link endpoint. Unlike the soft
// path inside registration, precondition failures surface here.
func LinkReferral(c *fiber.Ctx) error {
	callerID, err := middleware.AuthenticatedUserID(c)
	if err != nil {
		return err
	}

	var req LinkReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err = services.LinkReferral(engineConfig, req.ReferralCode, callerID)
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Referral linked."})
	case errors.Is(err, services.ErrReferralCodeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Referral code not found"})
	case errors.Is(err, services.ErrSelfReferral),
		errors.Is(err, services.ErrAlreadyReferred),
		errors.Is(err, services.ErrReferralCapReached):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to link referral"})
	}
}

// GetMyReferrals returns the caller's code and referral standing.
func GetMyReferrals(c *fiber.Ctx) error {
	callerID, err := middleware.AuthenticatedUserID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", callerID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load account"})
	}

	var pending int64
	err = database.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND status = ?", callerID, models.ReferralStatusPending).
		Count(&pending).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load referrals"})
	}

	return c.JSON(fiber.Map{
		"referral_code":           user.ReferralCode,
		"referral_count":          user.ReferralCount,
		"referral_credits_earned": user.ReferralCreditsEarned,
		"pending_referrals":       pending,
		"reward_per_referral":     engineConfig.ReferralRewardCredits,
	})
}
