package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/service"
)

type ProfileHandler struct {
	service service.ProfileService
	log     logrus.FieldLogger
}

func NewProfileHandler(s service.ProfileService, log logrus.FieldLogger) *ProfileHandler {
	return &ProfileHandler{service: s, log: log}
}

// Update
// PUT /api/v1/profile
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req service.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	profile, err := h.service.Update(c.UserContext(), getActor(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated", "data": profile})
}

// UpdateAddress
// PUT /api/v1/profile/address
func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	var req service.AddressUpdate
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	profile, err := h.service.UpdateAddress(c.UserContext(), getActor(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Address updated", "data": profile})
}

// ChangePassword
// PUT /api/v1/profile/password
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.PasswordChange
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if err := h.service.ChangePassword(c.UserContext(), getActor(c), req); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
