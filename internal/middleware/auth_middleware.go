package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-storefront-ws/internal/service"
)

// SessionCookie carries the token for browser clients that do not send an Authorization header.
const SessionCookie = "session"

// RequireAuth validates the session token and sets the actor in context
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error(), "error_code": "unauthenticated"})
		}

		actor, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired session", "error_code": "unauthenticated"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not verify session", "error_code": "unexpected"})
		}

		c.Locals("actor", actor)
		c.Locals("user_id", actor.ID.String())
		c.Locals("user_email", actor.Email)
		c.Locals("user_name", actor.Name)
		c.Locals("is_admin", actor.IsAdmin)

		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("is_admin").(bool); ok && isAdmin {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: administrators only", "error_code": "forbidden"})
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if cookie := c.Cookies(SessionCookie); cookie != "" {
			return cookie, nil
		}
		return "", errors.New("Missing authorization token")
	}

	// "Bearer <token>"
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("Invalid authorization format. Use: Bearer <token>")
	}
	return parts[1], nil
}
