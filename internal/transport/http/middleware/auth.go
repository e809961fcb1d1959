package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/utils"
)

// NewAuthMiddleware resolves the caller's role from an optional bearer
// token. Anonymous callers are buyers; a malformed or invalid token is
// rejected.
func NewAuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localRole, domain.RoleBuyer)

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: Invalid header format"})
		}

		claims, err := utils.ValidateToken(secret, parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: Invalid token"})
		}

		c.Locals(localUser, claims.UserID)
		c.Locals(localRole, claims.Role)
		return c.Next()
	}
}

func Role(c *fiber.Ctx) string {
	role, ok := c.Locals(localRole).(string)
	if !ok || role == "" {
		return domain.RoleBuyer
	}
	return role
}
