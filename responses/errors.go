package responses

import (
	"errors"

	"github.com/aryanwebd35/food-factory/payments"
	"github.com/aryanwebd35/food-factory/repositories"
	"github.com/aryanwebd35/food-factory/services"
	"github.com/gofiber/fiber/v2"
)

var statusByErr = []struct {
	err    error
	status int
}{
	{services.ErrEmptyCart, fiber.StatusBadRequest},
	{services.ErrInvalidQuantity, fiber.StatusBadRequest},
	{services.ErrInvalidAddress, fiber.StatusBadRequest},
	{services.ErrAmountMismatch, fiber.StatusBadRequest},
	{services.ErrInvalidStatus, fiber.StatusBadRequest},
	{services.ErrInvalidFood, fiber.StatusBadRequest},
	{services.ErrInvalidEmail, fiber.StatusBadRequest},
	{services.ErrWeakPassword, fiber.StatusBadRequest},
	{services.ErrInvalidSignature, fiber.StatusBadRequest},
	{repositories.ErrInvalidID, fiber.StatusBadRequest},
	{services.ErrItemNotFound, fiber.StatusNotFound},
	{services.ErrOrderNotFound, fiber.StatusNotFound},
	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrInvalidTransition, fiber.StatusConflict},
	{services.ErrOrderAlreadyPaid, fiber.StatusConflict},
	{services.ErrUserExists, fiber.StatusConflict},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},
	{payments.ErrGatewayTimeout, fiber.StatusGatewayTimeout},
	{payments.ErrGatewayUnavailable, fiber.StatusBadGateway},
}

// StatusFor maps a service error to the HTTP status it is reported with.
func StatusFor(err error) int {
	for _, e := range statusByErr {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return fiber.StatusInternalServerError
}

// Error writes err in the uniform envelope. Internal errors get a generic
// message so store details never reach the client.
func Error(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	message := "Error"
	if status != fiber.StatusInternalServerError {
		message = err.Error()
	}
	return c.Status(status).JSON(Fail(message))
}
