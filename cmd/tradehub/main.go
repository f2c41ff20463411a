package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tradehub/internal/config"
	"tradehub/internal/domain"
	"tradehub/internal/http/handlers"
	applog "tradehub/internal/log"
	"tradehub/internal/repos"
	"tradehub/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and keep internals out of the response
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg)

	api := app.Group("/api/v1")

	// Auth (login throttled)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too_many_attempts"})
		},
	}), authH.Login)
	api.Post("/auth/logout", authH.Logout)

	// Public availability probe, throttled per IP
	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/availability", availLimiter, deps.InventoryHandler.Check)

	// Catalog
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Get("/products", handlers.RequireRole(authSvc, domain.RoleManufacturer), deps.ProductHandler.List)
	api.Post("/products", handlers.RequireRole(authSvc, domain.RoleManufacturer), deps.ProductHandler.Create)

	// Partnerships (any trading partner may request; responder checked in core)
	api.Get("/partnerships", handlers.RequireUser(authSvc), deps.PartnershipHandler.List)
	api.Post("/partnerships", handlers.RequireUser(authSvc), deps.PartnershipHandler.Request)
	api.Post("/partnerships/:id/respond", handlers.RequireUser(authSvc), deps.PartnershipHandler.Respond)

	// Allocations (manufacturer grants; distributors read their side)
	api.Get("/allocations", handlers.RequireUser(authSvc), deps.AllocationHandler.List)
	api.Post("/allocations", handlers.RequireRole(authSvc, domain.RoleManufacturer), deps.AllocationHandler.Grant)
	api.Post("/allocations/:id/revoke", handlers.RequireRole(authSvc, domain.RoleManufacturer), deps.AllocationHandler.Revoke)

	// Distributor inventory
	api.Get("/inventory", handlers.RequireRole(authSvc, domain.RoleDistributor), deps.InventoryHandler.List)
	api.Patch("/inventory/:productId", handlers.RequireRole(authSvc, domain.RoleDistributor), deps.InventoryHandler.Update)

	// Cart (retailers stage intent here)
	api.Get("/cart", handlers.RequireRole(authSvc, domain.RoleRetailer), deps.CartHandler.View)
	api.Post("/cart", handlers.RequireRole(authSvc, domain.RoleRetailer), deps.CartHandler.Add)
	api.Delete("/cart/:productId", handlers.RequireRole(authSvc, domain.RoleRetailer), deps.CartHandler.Remove)
	api.Delete("/cart", handlers.RequireRole(authSvc, domain.RoleRetailer), deps.CartHandler.Clear)

	// Orders & invoices
	api.Post("/orders", handlers.RequireRole(authSvc, domain.RoleRetailer), deps.OrderHandler.Place)
	api.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.List)
	api.Get("/orders/:id", handlers.RequireUser(authSvc), deps.OrderHandler.Get)
	api.Post("/orders/:id/status", handlers.RequireUser(authSvc), deps.OrderHandler.UpdateStatus)
	api.Post("/orders/:id/invoice", handlers.RequireUser(authSvc), deps.InvoiceHandler.Generate)
	api.Get("/invoices", handlers.RequireUser(authSvc), deps.InvoiceHandler.List)
	api.Get("/invoices/:id", handlers.RequireUser(authSvc), deps.InvoiceHandler.Get)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
