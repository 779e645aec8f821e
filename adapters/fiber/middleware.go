package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/nakeddeadlines/deadline"
)

// requireAuth validates the bearer token and stores the resolved
// session data in the context for downstream handlers.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   deadline.ErrMissingAuthHeader.Error(),
		})
	}

	data, err := a.handler.GetSession(c.Context(), token)
	if err != nil {
		return handleError(c, err)
	}

	c.Locals("sessionData", data)

	return c.Next()
}

// extractToken extracts the authentication token from the request.
// Checks Authorization header (Bearer token) first, then falls back to cookie.
func extractToken(c fiber.Ctx) string {
	// Try Bearer token first
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	// Fall back to cookie
	return c.Cookies("session_token")
}
