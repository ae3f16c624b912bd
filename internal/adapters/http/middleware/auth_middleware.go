package middleware

import (
	"errors"

	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie carrying the opaque session token
const SessionCookieName = "session_token"

// RequireAuth creates authentication middleware backed by the session store
func RequireAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			return response.Unauthorized(c, "Session required")
		}

		user, err := authService.ValidateSession(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, services.ErrSessionExpired) {
				clearSessionCookie(c)
				return response.Unauthorized(c, "Session expired")
			}
			clearSessionCookie(c)
			return response.Unauthorized(c, "Invalid session")
		}

		c.Locals("userID", user.ID)
		c.Locals("username", user.Username)
		c.Locals("role", user.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware("admin")
}

// OptionalAuth doesn't require auth but sets user info if a valid session exists
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token != "" {
			user, err := authService.ValidateSession(c.UserContext(), token)
			if err == nil {
				c.Locals("userID", user.ID)
				c.Locals("username", user.Username)
				c.Locals("role", user.Role)
			}
		}

		return c.Next()
	}
}

func clearSessionCookie(c *fiber.Ctx) {
	c.ClearCookie(SessionCookieName)
}
