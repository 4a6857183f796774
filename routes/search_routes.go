package routes

import (
	"github.com/mwangikaris/plotcheck/handlers"
	"github.com/mwangikaris/plotcheck/middleware"
	"github.com/gofiber/fiber/v2"
)

func SearchRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/searches", middleware.Protected(), handlers.PerformSearch)
	api.Get("/balances", middleware.Protected(), handlers.GetBalances)
}
