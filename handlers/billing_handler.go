package handlers

import (
	"errors"
	"log"

	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/middleware"
	"github.com/mwangikaris/plotcheck/models"
	"github.com/mwangikaris/plotcheck/payments"
	"github.com/mwangikaris/plotcheck/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	Credits int `json:"credits" validate:"required,gt=0"`
}

// CreateCheckout opens a Stripe checkout session for a credit pack and
// records the pending payment.
func CreateCheckout(c *fiber.Ctx) error {
	callerID, err := middleware.AuthenticatedUserID(c)
	if err != nil {
		return err
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pack, ok := payments.PackForCredits(req.Credits)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown credit pack"})
	}

	if payments.Stripe == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Billing is not configured"})
	}

	url, sessionID, err := payments.Stripe.CreateCheckoutSession(callerID, pack)
	if err != nil {
		log.Printf("🔥 Failed to create checkout session for user %s: %v", callerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create checkout session"})
	}

	payment := models.Payment{
		UserID:            callerID,
		Credits:           pack.Credits,
		Amount:            float64(pack.AmountKES),
		Currency:          "KES",
		Provider:          "stripe",
		ProviderSessionID: &sessionID,
		Status:            models.PaymentStatusPending,
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	return c.JSON(fiber.Map{"checkout_url": url})
}

// HandleStripeWebhook grants purchased credits on a completed checkout.
// The grant bypasses the entitlement calculator; replays resolve to the
// same payment row and the status guard keeps them no-ops.
func HandleStripeWebhook(c *fiber.Ctx) error {
	if payments.Stripe == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Billing is not configured"})
	}

	sessionID, completed, err := payments.Stripe.ParseWebhookEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook payload"})
	}
	if !completed {
		return c.SendStatus(fiber.StatusOK)
	}

	if _, err := settleCheckoutPayment(sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
		}
		log.Printf("🔥 Failed to settle checkout session %s: %v", sessionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to grant credits"})
	}
	return c.SendStatus(fiber.StatusOK)
}

// settleCheckoutPayment flips the payment to succeeded and grants its
// credits in one transaction: a failed grant rolls the status back so the
// provider's retry can reprocess instead of hitting the replay guard.
func settleCheckoutPayment(sessionID string) (bool, error) {
	replay := false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("provider_session_id = ?", sessionID).First(&payment).Error; err != nil {
			return err
		}

		if payment.Status == models.PaymentStatusSucceeded {
			log.Printf("Webhook replay for payment %s, already granted.", payment.ID)
			replay = true
			return nil
		}

		if err := tx.Model(&payment).Update("status", models.PaymentStatusSucceeded).Error; err != nil {
			return err
		}

		if _, err := services.GrantCreditsTx(tx, payment.UserID, payment.Credits); err != nil {
			return err
		}

		log.Printf("✅ Granted %d credits to user %s for payment %s", payment.Credits, payment.UserID, payment.ID)
		return nil
	})
	return replay, err
}

type GrantCreditsRequest struct {
	Credits int `json:"credits" validate:"required,gt=0"`
}

type SetPlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=trial subscription unlimited"`
}

// AdminGrantCredits is the manual grant path. Same ledger entry point as
// the webhook, same calculator bypass.
func AdminGrantCredits(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var req GrantCreditsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	balances, err := services.GrantCredits(userID, req.Credits)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to grant credits"})
	}
	return c.JSON(balances)
}

func AdminSetPlan(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var req SetPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	balances, err := services.SetPlan(userID, req.Plan)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update plan"})
	}
	return c.JSON(balances)
}
