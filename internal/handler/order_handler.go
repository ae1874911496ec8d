package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/region"
	"go-storefront-ws/internal/service"
)

const dateLayout = "2006-01-02"

type OrderHandler struct {
	service service.OrderService
	log     logrus.FieldLogger
}

func NewOrderHandler(s service.OrderService, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{service: s, log: log}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// GetMyOrders
// GET /api/v1/orders
func (h *OrderHandler) GetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetUserTransactions(c.UserContext(), getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(nonNil(orders))
}

// GetOrder backs the confirmation page
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	order, err := h.service.GetTransaction(c.UserContext(), getActor(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(order)
}

// GetAllOrders
// GET /api/v1/admin/transactions?status=&department=&date_from=&date_to=
func (h *OrderHandler) GetAllOrders(c *fiber.Ctx) error {
	var query service.TransactionQuery

	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseTransactionStatus(raw)
		if !ok {
			return respondError(c, h.log, service.NewValidationError("unknown status", "status"))
		}
		query.Status = status
	}
	if raw := c.Query("department"); raw != "" {
		department, ok := region.CanonicalDepartment(raw)
		if !ok {
			return respondError(c, h.log, service.ErrUnsupportedRegion)
		}
		query.Department = department
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return respondError(c, h.log, service.NewValidationError("date_from must be YYYY-MM-DD", "date_from"))
		}
		query.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return respondError(c, h.log, service.NewValidationError("date_to must be YYYY-MM-DD", "date_to"))
		}
		// inclusive of the whole day
		to = to.Add(24*time.Hour - time.Nanosecond)
		query.DateTo = &to
	}

	orders, err := h.service.GetAllTransactions(c.UserContext(), getActor(c), query)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(nonNil(orders))
}

// UpdateStatus
// PATCH /api/v1/orders/:id/status, PATCH /api/v1/admin/transactions/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	order, err := h.service.UpdateStatus(c.UserContext(), getActor(c), id, req.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated", "data": order})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
