package handlers

import (
	"github.com/mwangikaris/plotcheck/database"
	"github.com/mwangikaris/plotcheck/middleware"
	"github.com/mwangikaris/plotcheck/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetNotifications is the polling surface for reward and milestone rows.
func GetNotifications(c *fiber.Ctx) error {
	callerID, err := middleware.AuthenticatedUserID(c)
	if err != nil {
		return err
	}

	var list []models.Notification
	err = database.DB.
		Where("user_id = ?", callerID).
		Order("created_at DESC").
		Limit(50).
		Find(&list).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load notifications"})
	}

	return c.JSON(fiber.Map{"notifications": list})
}

func MarkNotificationRead(c *fiber.Ctx) error {
	callerID, err := middleware.AuthenticatedUserID(c)
	if err != nil {
		return err
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	res := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, callerID).
		Update("read", true)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notification"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read."})
}
