package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/service"
)

type InventoryHandler struct {
	service service.InventoryService
	log     logrus.FieldLogger
}

func NewInventoryHandler(s service.InventoryService, log logrus.FieldLogger) *InventoryHandler {
	return &InventoryHandler{service: s, log: log}
}

type AdjustInventoryRequest struct {
	InventoryCount *int   `json:"inventory_count"`
	Reason         string `json:"reason"`
}

// Adjust sets an absolute count
// PUT /api/v1/admin/variants/:id/inventory
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req AdjustInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if req.InventoryCount == nil {
		return respondError(c, h.log, service.NewValidationError("", "inventory_count"))
	}

	entry, err := h.service.Adjust(c.UserContext(), getActor(c), id, *req.InventoryCount, req.Reason)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Inventory updated", "data": entry})
}

// Logs
// GET /api/v1/admin/variants/:id/logs?limit=
func (h *InventoryHandler) Logs(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	logs, err := h.service.Logs(c.UserContext(), getActor(c), id, c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(nonNil(logs))
}
