package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// RespondWithMessage sends a JSON success response without a payload.
func RespondWithMessage(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "success",
		"message": message,
	})
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// FormatValidationErrors formats validation errors from validator/v10.
func FormatValidationErrors(err error) []string {
	var errors []string
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		if err != nil {
			errors = append(errors, err.Error())
		}
		return errors
	}
	for _, err := range verrs {
		element := fmt.Sprintf("Field '%s' failed on the '%s' tag", err.Field(), err.Tag())
		if err.Param() != "" {
			element = fmt.Sprintf("%s (value: %s)", element, err.Param())
		}
		errors = append(errors, element)
	}
	return errors
}

// JoinValidationErrors renders validation errors as a single message.
func JoinValidationErrors(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}
