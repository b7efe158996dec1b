package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/anybank/anybank-backend/internal/domain"
)

// mapError converts domain errors to HTTP status responses
func mapError(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrInvalidAccount),
		errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrPositionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrBelowMinimumInvestment),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientPosition):
		status = fiber.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

func unprocessable(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error": err.Error(),
	})
}
