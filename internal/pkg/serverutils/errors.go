package serverutils

import "github.com/gofiber/fiber/v2"

// AppError is an error with a fixed HTTP status. Services return these
// for conditions the caller must distinguish; everything else is
// treated as a retryable internal failure.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}
