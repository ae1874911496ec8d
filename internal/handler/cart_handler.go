package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/service"
	"go-storefront-ws/pkg/carttoken"
)

type CartHandler struct {
	carts     service.CartService
	validator service.StockValidator
	cookie    *CartCookie
	log       logrus.FieldLogger
}

func NewCartHandler(carts service.CartService, validator service.StockValidator, cookie *CartCookie, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{carts: carts, validator: validator, cookie: cookie, log: log}
}

type AddCartItemRequest struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items  []model.CartItem `json:"items"`
	Totals model.CartTotals `json:"totals"`
}

func (h *CartHandler) view(cart model.Cart) cartResponse {
	items := cart.Items
	if items == nil {
		items = []model.CartItem{}
	}
	return cartResponse{Items: items, Totals: h.carts.Totals(cart)}
}

// GetCart
// GET /api/v1/cart
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	return c.JSON(h.view(h.cookie.Read(c)))
}

// Count feeds the cart badge; an unreadable cookie counts as empty.
// GET /api/v1/cart/count
func (h *CartHandler) Count(c *fiber.Ctx) error {
	cart, err := carttoken.Decode(c.Cookies(CartCookieName))
	if err != nil {
		return c.JSON(fiber.Map{"count": 0})
	}
	return c.JSON(fiber.Map{"count": cart.Count()})
}

// Validate re-checks live stock for every line
// GET /api/v1/cart/validate
func (h *CartHandler) Validate(c *fiber.Ctx) error {
	report, err := h.validator.Validate(c.UserContext(), h.cookie.Read(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(report)
}

// AddItem
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if req.ProductID == uuid.Nil {
		return respondError(c, h.log, service.NewValidationError("", "product_id"))
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart := h.cookie.Read(c)
	line, err := h.carts.Add(c.UserContext(), &cart, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.save(c, cart); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": line, "cart": h.view(cart)})
}

// UpdateItem
// PATCH /api/v1/cart/items/:id
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var req UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	cart := h.cookie.Read(c)
	line, err := h.carts.UpdateQuantity(&cart, c.Params("id"), req.Quantity)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.save(c, cart); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"item": line, "cart": h.view(cart)})
}

// RemoveItem is a no-op for unknown lines
// DELETE /api/v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	cart := h.cookie.Read(c)
	h.carts.Remove(&cart, c.Params("id"))
	if err := h.save(c, cart); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.view(cart))
}

// Clear
// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cart := h.cookie.Read(c)
	h.carts.Clear(&cart)
	if err := h.save(c, cart); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(h.view(cart))
}

// save writes the cookie back. Only an oversized cart can fail here.
func (h *CartHandler) save(c *fiber.Ctx, cart model.Cart) error {
	err := h.cookie.Write(c, cart)
	if errors.Is(err, carttoken.ErrTooLarge) {
		return service.NewValidationError("cart is full", "cart")
	}
	return err
}
