package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/middleware"
	"go-storefront-ws/internal/service"
)

type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
	log           logrus.FieldLogger
}

func NewAuthHandler(authService service.AuthService, secureCookies bool, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies, log: log}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a profile and signs it in
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req service.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	session, err := h.authService.Signup(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.setSession(c, session)
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	session, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.setSession(c, session)
	return c.JSON(session)
}

// Logout revokes every token of the caller
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// Me
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	me, err := h.authService.Me(c.UserContext(), getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(me)
}

func (h *AuthHandler) setSession(c *fiber.Ctx, session *service.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
