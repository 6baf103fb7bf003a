package server

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/qppgateway/api/internal/client"
	"github.com/qppgateway/api/internal/handler"
	"github.com/qppgateway/api/internal/middleware"
	"github.com/qppgateway/api/internal/service"
	ws "github.com/qppgateway/api/internal/websocket"
	"github.com/qppgateway/api/pkg/response"
)

// Dependencies are the components the HTTP layer is wired to
type Dependencies struct {
	Simulation *service.SimulationService
	Stats      *service.StatsService
	Simulator  client.SimulatorRunner
	Hub        *ws.Hub
	Auth       *middleware.AuthMiddleware
	BodyLimit  int
	AccessLog  bool
	Debug      bool // stack traces for recovered panics

	// BaseContext, when set, is the parent of every request's context.
	// Cancelling it kills running simulator processes.
	BaseContext context.Context
}

// NewApp builds the Fiber application with every route mounted
func NewApp(d *Dependencies) *fiber.App {
	validate := validator.New()

	submitHandler := handler.NewSubmitHandler(d.Simulation, validate)
	systemHandler := handler.NewSystemHandler(d.Stats, d.Simulator)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    d.BodyLimit,
	})

	// Global middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: d.Debug}))
	if d.BaseContext != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.SetUserContext(d.BaseContext)
			return c.Next()
		})
	}
	if d.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check
	app.Get("/health", systemHandler.Health)

	// Job submission
	app.Post("/submit", d.Auth.Authenticate(), submitHandler.Submit)

	// API routes
	api := app.Group("/api", d.Auth.Authenticate())
	api.Get("/stats", systemHandler.Stats)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/jobs", websocket.New(func(c *websocket.Conn) {
		d.Hub.HandleConnection(c, ws.AllJobs)
	}))
	app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
		d.Hub.HandleConnection(c, c.Params("jobId"))
	}))

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return response.Error(c, code, message, nil)
}
