package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/service"
)

const CartCookieName = "cart"

// CartCookie reads and writes the whole cart as one cookie. Client scripts read it, so it is not HttpOnly.
type CartCookie struct {
	carts  service.CartService
	ttl    time.Duration
	secure bool
}

func NewCartCookie(carts service.CartService, ttl time.Duration, secure bool) *CartCookie {
	return &CartCookie{carts: carts, ttl: ttl, secure: secure}
}

// Read decodes the request cart, resetting the cookie when it was malformed.
func (cc *CartCookie) Read(c *fiber.Ctx) model.Cart {
	cart, healed := cc.carts.Get(c.Cookies(CartCookieName))
	if healed {
		cc.clear(c)
	}
	return cart
}

func (cc *CartCookie) Write(c *fiber.Ctx, cart model.Cart) error {
	token, err := cc.carts.Encode(cart)
	if err != nil {
		return err
	}
	if token == "" {
		cc.clear(c)
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     CartCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cc.ttl.Seconds()),
		Expires:  time.Now().Add(cc.ttl),
		Secure:   cc.secure,
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (cc *CartCookie) clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CartCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   cc.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
