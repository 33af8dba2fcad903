package serverutils

import (
	"errors"

	"ai-career-counselor-be/pkg/quota"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping the controllers into
// the uniform envelope. Unknown errors become a retryable 500 without
// leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Code).JSON(ErrorResponse(appErr.Code, appErr.Message))
		}

		var quotaErr *quota.ExceededError
		if errors.As(err, &quotaErr) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(
				ErrorResponseWithData(fiber.StatusTooManyRequests, quotaErr.Error(), quotaErr),
			)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse(fiber.StatusInternalServerError, "Request failed, please retry"),
		)
	}
}
