package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/service"
)

type CatalogHandler struct {
	service service.CatalogService
	log     logrus.FieldLogger
}

func NewCatalogHandler(s service.CatalogService, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{service: s, log: log}
}

// GetProducts lists available products with aggregated stock
// GET /api/v1/products?collection_id=&search=&sort_by=&order=&limit=&offset=
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	query := service.ProductQuery{
		Search:  c.Query("search"),
		SortBy:  c.Query("sort_by"),
		SortAsc: strings.EqualFold(c.Query("order"), "asc"),
		Limit:   c.QueryInt("limit"),
		Offset:  c.QueryInt("offset"),
	}
	if raw := c.Query("collection_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return respondError(c, h.log, service.NewValidationError("invalid collection_id", "collection_id"))
		}
		query.CollectionID = &id
	}

	products, err := h.service.GetProducts(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// GetProduct
// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// GetVariantStock backs the live stock indicator
// GET /api/v1/variants/:id/stock
func (h *CatalogHandler) GetVariantStock(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	stock, err := h.service.GetVariantStock(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(stock)
}

// CreateProduct
// POST /api/v1/admin/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return invalidJSON(c)
	}
	if err := h.service.CreateProduct(c.UserContext(), getActor(c), &product); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}
