package models

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
)

// AppError is a service-level error carrying a machine-readable code that
// handlers map to an HTTP status.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusFor maps an error to an HTTP status code. Non-AppError values map
// to 500.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	case "NOT_FOUND":
		return fiber.StatusNotFound
	case "CONFLICT":
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standard error envelope for err, deriving the
// status from the error code. Outside production the underlying error
// replaces the code in the "error" field so the storage failure is visible
// during development; production responses never leak it.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	body := fiber.Map{"success": false}

	var appErr *AppError
	if errors.As(err, &appErr) {
		body["message"] = appErr.Message
		body["error"] = appErr.Code
		if appErr.Err != nil && os.Getenv("APP_ENV") != "production" {
			body["error"] = appErr.Err.Error()
		}
	} else {
		body["message"] = err.Error()
	}

	return c.Status(status).JSON(body)
}

// RespondServiceError is RespondWithError with the status derived from the
// error itself.
func RespondServiceError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, StatusFor(err), err)
}
