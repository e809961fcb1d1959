package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/go-pet-project/storefront/internal/transport/http/middleware"
)

type NotificationHandler struct {
	inbox Inbox
}

func NewNotificationHandler(inbox Inbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

func (h *NotificationHandler) Drain(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"notifications": h.inbox.Drain(middleware.SessionID(c)),
	})
}

func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
