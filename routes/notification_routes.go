package routes

import (
	"github.com/mwangikaris/plotcheck/handlers"
	"github.com/mwangikaris/plotcheck/middleware"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/notifications", middleware.Protected(), handlers.GetNotifications)
	api.Patch("/notifications/:id/read", middleware.Protected(), handlers.MarkNotificationRead)
}
