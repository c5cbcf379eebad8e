package handlers

import (
	"errors"
	"fmt"

	"bitstore/internal/repositories"
	"bitstore/internal/services"
	"bitstore/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errorResponse maps service and repository errors onto HTTP responses.
// Validation failures carry their field map; everything unexpected is a
// plain 500 without internal detail.
func errorResponse(c *fiber.Ctx, err error) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verrs.Map(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid username or password.",
		})
	case errors.Is(err, services.ErrMalformedToken), errors.Is(err, services.ErrTokenRevoked):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid refresh token",
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not have permission to perform this action",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

// requestErrors flattens validator tag failures into a field -> message
// map for the response body.
func requestErrors(err error) map[string]string {
	messages := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return messages
}

// badRequest is the uniform response for unparseable or malformed bodies.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}
