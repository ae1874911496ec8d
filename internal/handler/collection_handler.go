package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/service"
)

type CollectionHandler struct {
	service service.CollectionService
	log     logrus.FieldLogger
}

func NewCollectionHandler(s service.CollectionService, log logrus.FieldLogger) *CollectionHandler {
	return &CollectionHandler{service: s, log: log}
}

// GET /api/v1/collections
func (h *CollectionHandler) List(c *fiber.Ctx) error {
	collections, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(nonNil(collections))
}

// GET /api/v1/collections/current
func (h *CollectionHandler) Current(c *fiber.Ctx) error {
	collections, err := h.service.Current(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(nonNil(collections))
}

// GET /api/v1/collections/:slug
func (h *CollectionHandler) GetBySlug(c *fiber.Ctx) error {
	collection, err := h.service.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(collection)
}

// POST /api/v1/admin/collections
func (h *CollectionHandler) Create(c *fiber.Ctx) error {
	var req model.Collection
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if err := h.service.Create(c.UserContext(), getActor(c), &req); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Collection created", "data": req})
}

// PUT /api/v1/admin/collections/:id
func (h *CollectionHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req model.Collection
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	updated, err := h.service.Update(c.UserContext(), getActor(c), id, &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Collection updated", "data": updated})
}
