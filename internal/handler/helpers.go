package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/service"
)

// getActor returns the caller set by RequireAuth, nil on public routes.
func getActor(c *fiber.Ctx) *service.Actor {
	actor, _ := c.Locals("actor").(*service.Actor)
	return actor
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, service.NewValidationError("invalid "+name, name)
	}
	return id, nil
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON", "error_code": "validation_error"})
}

// respondError maps service errors onto status codes and the error payload.
func respondError(c *fiber.Ctx, log logrus.FieldLogger, err error) error {
	body := fiber.Map{"error": err.Error()}
	status := fiber.StatusInternalServerError

	var (
		verr     *service.ValidationError
		stockErr *service.InsufficientStockError
		payErr   *service.PaymentError
	)

	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		status, body["error_code"] = fiber.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrWrongPassword):
		status, body["error_code"] = fiber.StatusBadRequest, "validation_error"
		if errors.As(err, &verr) && len(verr.Fields) > 0 {
			body["fields"] = verr.Fields
		}
	case errors.Is(err, service.ErrUnsupportedRegion):
		status, body["error_code"] = fiber.StatusUnprocessableEntity, "unsupported_region"
	case errors.Is(err, service.ErrNotFound):
		status, body["error_code"] = fiber.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrOutOfStock):
		status, body["error_code"] = fiber.StatusConflict, "out_of_stock"
		body["remaining"] = 0
	case errors.Is(err, service.ErrInsufficientStock):
		status, body["error_code"] = fiber.StatusConflict, "insufficient_stock"
		if errors.As(err, &stockErr) {
			body["remaining"] = stockErr.Remaining
		}
	case errors.Is(err, service.ErrEmailTaken):
		status, body["error_code"] = fiber.StatusConflict, "email_taken"
	case errors.Is(err, service.ErrPaymentFailed):
		status, body["error_code"] = fiber.StatusPaymentRequired, "payment_failed"
		if errors.As(err, &payErr) {
			body["payment_error"] = fiber.Map{"code": payErr.Code, "message": payErr.Message}
		}
	case errors.Is(err, service.ErrForbidden):
		status, body["error_code"] = fiber.StatusForbidden, "forbidden"
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")
		body = fiber.Map{"error": "Something went wrong, please try again", "error_code": "unexpected"}
	}

	return c.Status(status).JSON(body)
}
