package serverutils

import (
	"errors"

	"vidnotes-be/internal/pkg/apperror"
	"vidnotes-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			code := appErr.StatusCode()
			if code >= fiber.StatusInternalServerError {
				log.Error("HTTP", appErr.Message, map[string]interface{}{
					"error":  err,
					"path":   ctx.Path(),
					"method": ctx.Method(),
				})
			}
			return ctx.Status(code).JSON(ErrorResponse(code, appErr.Message))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"error":  err,
			"path":   ctx.Path(),
			"method": ctx.Method(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}

// ParseBody wraps BodyParser so malformed JSON is reported as a validation error.
func ParseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.Validation("invalid request body")
	}
	return nil
}
