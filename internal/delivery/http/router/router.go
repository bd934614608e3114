package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"ebay-manager/internal/config"
	"ebay-manager/internal/delivery/http/handler"
)

type Router struct {
	app                 *fiber.App
	config              *config.Config
	authHandler         *handler.AuthHandler
	listingHandler      *handler.ListingHandler
	healthHandler       *handler.HealthHandler
	notificationHandler *handler.NotificationHandler
	logHandler          *handler.LogHandler
}

func NewRouter(
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	listingHandler *handler.ListingHandler,
	healthHandler *handler.HealthHandler,
	notificationHandler *handler.NotificationHandler,
	logHandler *handler.LogHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
	})

	return &Router{
		app:                 app,
		config:              cfg,
		authHandler:         authHandler,
		listingHandler:      listingHandler,
		healthHandler:       healthHandler,
		notificationHandler: notificationHandler,
		logHandler:          logHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// Health check route
	r.app.Get("/health", r.healthHandler.Health)

	// Account-deletion notification routes (root level for eBay callbacks)
	r.app.Get("/webhook/ebay", r.notificationHandler.Challenge)
	r.app.Post("/webhook/ebay", r.notificationHandler.Notify)

	// eBay API routes
	api := r.app.Group("/api/ebay")
	{
		auth := api.Group("/auth")
		{
			auth.Get("/login", r.authHandler.Login)
			auth.Get("/callback", r.authHandler.Callback)
			auth.Get("/tokens", r.authHandler.Tokens)
			auth.Get("/user", r.authHandler.User)
			auth.Post("/logout", r.authHandler.Logout)
			auth.Get("/health", r.authHandler.Health)
		}

		api.Get("/listings/:id", r.listingHandler.GetListing)
		api.Get("/logs", r.logHandler.GetLogs)
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"error": fiber.Map{
			"code":    code,
			"message": err.Error(),
		},
	})
}
