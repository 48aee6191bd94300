package serverutils

import (
	"strings"

	"vidnotes-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userIdLocal = "user_id"

// NewJwtMiddleware verifies the Bearer token and stores its user_id claim in ctx.Locals.
func NewJwtMiddleware(signer *TokenSigner) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		userId, err := signer.Parse(authHeader[7:])
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals(userIdLocal, userId.String())
		return ctx.Next()
	}
}

// CurrentUserId reads the id stored by the JWT middleware.
func CurrentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals(userIdLocal).(string)
	if !ok || raw == "" {
		return uuid.Nil, apperror.Unauthorized("authentication required")
	}
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("invalid session")
	}
	return userId, nil
}

func extractUserId(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	return uuid.Parse(raw)
}
