package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/service"
)

type CheckoutHandler struct {
	service service.CheckoutService
	cookie  *CartCookie
	log     logrus.FieldLogger
}

func NewCheckoutHandler(s service.CheckoutService, cookie *CartCookie, log logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{service: s, cookie: cookie, log: log}
}

// Checkout buys one cart line; the cart cookie is cleared only on success
// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	cart := h.cookie.Read(c)
	result, err := h.service.Checkout(c.UserContext(), getActor(c), &cart, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.cookie.Write(c, cart); err != nil {
		h.log.WithError(err).Warn("could not clear cart cookie after checkout")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
