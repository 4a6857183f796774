package routes

import (
	"github.com/mwangikaris/plotcheck/handlers"
	"github.com/mwangikaris/plotcheck/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReferralRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	referrals := api.Group("/referrals", middleware.Protected())
	referrals.Post("/link", handlers.LinkReferral)
	referrals.Get("/me", handlers.GetMyReferrals)

	verify := api.Group("/verify", middleware.Protected())
	verify.Post("/request", handlers.RequestPhoneCode)
	verify.Post("/confirm", handlers.ConfirmPhoneCode)
}
