package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-storefront-ws/internal/region"
)

// GetRegions lists departments and their provinces for the shipping form
// GET /api/v1/regions
func GetRegions(c *fiber.Ctx) error {
	return c.JSON(region.All())
}
