package handlers

import (
	"errors"
	"time"

	"github.com/mwangikaris/plotcheck/middleware"
	"github.com/mwangikaris/plotcheck/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SearchRequest struct {
	// UserID is optional; when present it must match the JWT identity.
	UserID          *string `json:"user_id,omitempty"`
	Address         string  `json:"address" validate:"required,min=3,max=500"`
	SkipConsumption bool    `json:"skip_consumption"`
}

type SearchResponse struct {
	Recheck  bool               `json:"recheck"`
	Charged  bool               `json:"charged"`
	Balances *services.Balances `json:"balances"`
}

// PerformSearch is the search-intake endpoint: recheck guard, entitlement
// calculator, ledger write, in that order.
func PerformSearch(c *fiber.Ctx) error {
	callerID, err := middleware.AuthenticatedUserID(c)
	if err != nil {
		return err
	}

	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.UserID != nil {
		stated, err := uuid.Parse(*req.UserID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
		}
		if stated != callerID {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Cannot search on behalf of another user"})
		}
	}

	result, err := services.PerformSearch(engineConfig, callerID, req.Address, req.SkipConsumption, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrNoEntitlement) {
			// Expected outcome, not a system error.
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No search entitlement remaining"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process search"})
	}

	return c.JSON(SearchResponse{
		Recheck:  result.Recheck,
		Charged:  result.Charged,
		Balances: result.Balances,
	})
}

// GetBalances returns the caller's current entitlement balances.
func GetBalances(c *fiber.Ctx) error {
	callerID, err := middleware.AuthenticatedUserID(c)
	if err != nil {
		return err
	}

	balances, err := services.ReadBalances(callerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read balances"})
	}
	return c.JSON(balances)
}
