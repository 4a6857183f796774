package routes

import (
	"github.com/mwangikaris/plotcheck/handlers"
	"github.com/mwangikaris/plotcheck/middleware"
	"github.com/gofiber/fiber/v2"
)

func BillingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	billing := api.Group("/billing")
	billing.Post("/checkout", middleware.Protected(), handlers.CreateCheckout)
	// Authenticated by Stripe signature, not by JWT.
	billing.Post("/webhook", handlers.HandleStripeWebhook)

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Post("/users/:id/credits", handlers.AdminGrantCredits)
	admin.Post("/users/:id/plan", handlers.AdminSetPlan)
}
