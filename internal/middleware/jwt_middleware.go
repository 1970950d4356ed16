package middleware

import (
	"strings"

	"tokopos/internal/apperror"
	"tokopos/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const principalKey = "principal"

// TokenValidator resolves a bearer token to the caller it was issued for.
type TokenValidator interface {
	ValidateToken(token string) (models.Principal, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required", nil)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'", nil)
		}

		principal, err := validator.ValidateToken(parts[1])
		if err != nil {
			log.Debug("jwt_validation_failed", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c, "Invalid or expired token", err)
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// PrincipalFrom returns the caller stored by AuthRequired.
func PrincipalFrom(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals(principalKey).(models.Principal)
	return p, ok
}

func unauthorized(c *fiber.Ctx, message string, err error) error {
	body := fiber.Map{
		"message": message,
		"kind":    apperror.KindUnauthorized,
	}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusUnauthorized).JSON(body)
}
