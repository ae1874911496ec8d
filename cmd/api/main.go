package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"go-storefront-ws/internal/handler"
	"go-storefront-ws/internal/middleware"
	"go-storefront-ws/internal/payment"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/internal/service"
	"go-storefront-ws/internal/ws"
	"go-storefront-ws/pkg/config"
	"go-storefront-ws/pkg/database"
	"go-storefront-ws/pkg/jwt"
	"go-storefront-ws/pkg/logger"
)

func main() {
	// 1. Load Env
	dotenvErr := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(logger.Options{Service: "storefront-api", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if dotenvErr != nil {
		log.Debug(".env file not found, using process environment")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DSN(), log, strings.EqualFold(cfg.LogLevel, "debug"))
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	if err := repository.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	if err := repository.SeedSizes(context.Background(), db); err != nil {
		log.WithError(err).Warn("could not seed sizes")
	}

	// 3. Setup WebSocket Hub
	done := make(chan struct{})
	wsHub := ws.NewHub(log)
	go wsHub.Run(done)

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	profileRepo := repository.NewProfileRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	collectionRepo := repository.NewCollectionRepo(db)

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	admins := service.NewAdminList(cfg.AdminEmails)

	authService := service.NewAuthService(profileRepo, tokens, admins, log)
	catalogService := service.NewCatalogService(productRepo)
	cartService := service.NewCartService(productRepo, cfg.ShippingFlatFee)
	stockValidator := service.NewStockValidator(productRepo)
	gateway := payment.NewMockGateway()
	checkoutService := service.NewCheckoutService(
		productRepo, txRepo, profileRepo,
		gateway, wsHub,
		service.CheckoutOptions{ShippingFee: cfg.ShippingFlatFee, Currency: cfg.Currency},
		log,
	)
	orderService := service.NewOrderService(txRepo, gateway, wsHub, log)
	inventoryService := service.NewInventoryService(productRepo, inventoryRepo, wsHub)
	profileService := service.NewProfileService(profileRepo)
	collectionService := service.NewCollectionService(collectionRepo)

	cartCookie := handler.NewCartCookie(cartService, cfg.CartTTL, cfg.SecureCookies)
	authHandler := handler.NewAuthHandler(authService, cfg.SecureCookies, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)
	cartHandler := handler.NewCartHandler(cartService, stockValidator, cartCookie, log)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, cartCookie, log)
	orderHandler := handler.NewOrderHandler(orderService, log)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, log)
	profileHandler := handler.NewProfileHandler(profileService, log)
	collectionHandler := handler.NewCollectionHandler(collectionService, log)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Storefront API v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	perMinute := func(max int) fiber.Handler {
		return limiter.New(limiter.Config{
			Max:        max,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests, slow down"})
			},
		})
	}
	requireAuth := middleware.RequireAuth(authService)

	// 6. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/signup", perMinute(10), authHandler.Signup)
	auth.Post("/login", perMinute(10), authHandler.Login)
	auth.Post("/logout", requireAuth, authHandler.Logout)
	auth.Get("/me", requireAuth, authHandler.Me)

	api.Get("/products", catalogHandler.GetProducts)
	api.Get("/products/:id", catalogHandler.GetProduct)
	api.Get("/variants/:id/stock", catalogHandler.GetVariantStock)

	api.Get("/collections", collectionHandler.List)
	api.Get("/collections/current", collectionHandler.Current)
	api.Get("/collections/:slug", collectionHandler.GetBySlug)

	api.Get("/regions", handler.GetRegions)

	cart := api.Group("/cart")
	cart.Get("/", cartHandler.GetCart)
	cart.Get("/count", cartHandler.Count)
	cart.Get("/validate", cartHandler.Validate)
	cart.Post("/items", cartHandler.AddItem)
	cart.Patch("/items/:id", cartHandler.UpdateItem)
	cart.Delete("/items/:id", cartHandler.RemoveItem)
	cart.Delete("/", cartHandler.Clear)

	// ============ SHOPPER ROUTES ============
	api.Post("/checkout", requireAuth, perMinute(cfg.CheckoutRateLimit), checkoutHandler.Checkout)

	api.Get("/orders", requireAuth, orderHandler.GetMyOrders)
	api.Get("/orders/:id", requireAuth, orderHandler.GetOrder)
	api.Patch("/orders/:id/status", requireAuth, orderHandler.UpdateStatus)

	api.Put("/profile", requireAuth, profileHandler.Update)
	api.Put("/profile/address", requireAuth, profileHandler.UpdateAddress)
	api.Put("/profile/password", requireAuth, profileHandler.ChangePassword)

	// ============ ADMIN ROUTES ============
	adminGroup := api.Group("/admin", requireAuth, middleware.RequireAdmin())
	adminGroup.Get("/transactions", orderHandler.GetAllOrders)
	adminGroup.Patch("/transactions/:id/status", orderHandler.UpdateStatus)
	adminGroup.Put("/variants/:id/inventory", inventoryHandler.Adjust)
	adminGroup.Get("/variants/:id/logs", inventoryHandler.Logs)
	adminGroup.Post("/products", catalogHandler.CreateProduct)
	adminGroup.Post("/collections", collectionHandler.Create)
	adminGroup.Put("/collections/:id", collectionHandler.Update)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Join(c) {
			return
		}
		defer wsHub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	close(done)

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server exited")
}
