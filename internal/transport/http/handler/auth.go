package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/utils"
	"go.uber.org/zap"
)

const devTokenTTL = time.Hour

type TokenInput struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role" validate:"required,oneof=farmer buyer"`
}

// AuthHandler issues signed role tokens for local development. It is not
// registered in prod.
type AuthHandler struct {
	secret string
	logger *zap.Logger
}

func NewAuthHandler(secret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{secret: secret, logger: logger}
}

func (h *AuthHandler) Token(c *fiber.Ctx) error {
	input := new(TokenInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := utils.NewValidator().Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.FormatValidationError(err)})
	}

	token, err := utils.GenerateToken(h.secret, input.UserID, input.Role, devTokenTTL)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token": token,
		"role":         input.Role,
		"is_farmer":    input.Role == domain.RoleFarmer,
	})
}
