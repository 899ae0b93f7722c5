package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-advisor/internal/repositories"
	"alfredoptarigan/resume-advisor/internal/services"
)

// errorStatus maps pipeline errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnsupportedFileType),
		errors.Is(err, services.ErrEmptyDocument):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNoTextContent):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrMalformedAnalysis),
		errors.Is(err, services.ErrMissingField),
		errors.Is(err, services.ErrInvalidValue):
		return fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
		"code":  status,
	})
}
