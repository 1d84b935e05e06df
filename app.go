package main

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"customerapi/internal/handlers"
	"customerapi/internal/middleware"
	"customerapi/internal/repositories"
	"customerapi/internal/services"
)

// appDeps are the collaborators NewApp wires into the router.
// Publisher and RateLimiter are optional.
type appDeps struct {
	Repo        repositories.CustomerRepository
	Ping        func(ctx context.Context) error
	Publisher   services.CustomerEventPublisher
	RateLimiter *middleware.RateLimiter
	Logger      *slog.Logger
}

// NewApp builds the Fiber app serving both customer API surfaces over one
// shared CustomerService.
func NewApp(deps appDeps) *fiber.App {
	customerService := services.NewCustomerService(deps.Repo, deps.Publisher, deps.Logger)

	v1Handler := handlers.NewCustomerV1Handler(customerService)
	v2Handler := handlers.NewCustomerV2Handler(customerService)
	healthHandler := handlers.NewHealthHandler(deps.Ping, deps.Logger)

	app := fiber.New(fiber.Config{
		AppName:               "customerapi",
		ErrorHandler:          handlers.ErrorHandler(deps.Logger),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.Metrics())
	app.Use(middleware.RequestLogger(deps.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST",
		AllowHeaders: "*",
	}))
	if deps.RateLimiter != nil {
		app.Use(deps.RateLimiter.Handler())
	}

	healthHandler.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1Handler.RegisterRoutes(app.Group("/api/v1"))
	v2Handler.RegisterRoutes(app.Group("/api/v2"))

	return app
}
