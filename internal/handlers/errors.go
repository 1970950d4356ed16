package handlers

import (
	"tokopos/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError writes err as {message, error, kind[, fields]} with the status
// its kind maps to. Causes of internal errors are logged, not returned.
func respondError(c *fiber.Ctx, log *zap.Logger, message string, err error) error {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)

	body := fiber.Map{
		"message": message,
		"kind":    kind,
	}
	if kind == apperror.KindInternal {
		log.Error("request_failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		body["error"] = "internal server error"
		return c.Status(status).JSON(body)
	}

	body["error"] = err.Error()
	if appErr, ok := apperror.As(err); ok && len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	return c.Status(status).JSON(body)
}

func badRequestBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
		"kind":    apperror.KindValidation,
	})
}
