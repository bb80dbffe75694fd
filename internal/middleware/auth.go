// Package middleware provides authentication, logging, metrics and tracing middleware.
package middleware

import (
	"context"
	"strings"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired.
const (
	LocalUserID = "userID"
	LocalUser   = "user"
)

// TokenAuthenticator resolves a bearer token to an active user.
type TokenAuthenticator interface {
	UserFromAccessToken(ctx context.Context, token string) (*models.User, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(auth TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication credentials were not provided."))
		}

		token, ok := BearerToken(header)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		user, err := auth.UserFromAccessToken(c.UserContext(), token)
		if err != nil {
			if models.HasCode(err, models.CodeUnauthorized) {
				return models.RespondWithError(c, fiber.StatusUnauthorized, err)
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUser, user)
		c.SetUserContext(WithUserID(c.UserContext(), user.ID))

		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, if any.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(LocalUser).(*models.User)
	return user, ok && user != nil
}
