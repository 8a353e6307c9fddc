package serverutils

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// IsQuotaError reports whether an upstream provider error looks like an
// exhausted quota or rate limit. Providers rarely agree on error types,
// so this matches on the message text.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "status 429")
}

// ErrorHandlerMiddleware converts errors returned by handlers into the
// standard JSON envelope with an appropriate status code.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		if IsQuotaError(err) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(
				ErrorResponse("API quota exceeded. Please try again later."),
			)
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
	}
}
