// Package gateway exposes the relay over HTTP: the websocket endpoint,
// the history read API and the health check.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/music-room-relay/modules/history"
	"github.com/example/music-room-relay/modules/relay"
)

// Config holds the gateway's listen and CORS settings.
type Config struct {
	Port           string
	AllowedOrigins string
}

// Module is the HTTP transport module.
type Module struct {
	app      *fiber.App
	config   Config
	router   *relay.Router
	registry *relay.Registry
	store    *history.Store
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the gateway over the relay's router and registry and
// the history store backing the read API.
func NewModule(config Config, relayModule *relay.Module, store *history.Store, logger types.Logger) *Module {
	return &Module{
		config:   config,
		router:   relayModule.Router(),
		registry: relayModule.Registry(),
		store:    store,
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "gateway"
}

// Start initializes the Fiber HTTP server.
func (m *Module) Start(_ context.Context) error {
	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
		ReadTimeout:           30 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	m.app.Use(recover.New())
	m.app.Use(cors.New(cors.Config{
		AllowOrigins: m.config.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
	}))
	m.app.Use(m.loggerMiddleware)

	m.setupRoutes()

	// Listen blocks, so run it in a goroutine and give it a moment to
	// surface bind errors before declaring the module started.
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.app.Listen(":" + m.config.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "port", m.config.Port)
	return nil
}

// Stop shuts down the HTTP server, waiting for in-flight requests.
func (m *Module) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":        m.config.Port,
			"rooms":       m.registry.RoomCount(),
			"connections": m.registry.ConnCount(),
		},
	}
}

// errorHandler handles Fiber errors.
func (m *Module) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}

// loggerMiddleware logs requests, skipping websocket upgrades whose
// status only settles when the connection ends.
func (m *Module) loggerMiddleware(c *fiber.Ctx) error {
	if c.Get("Upgrade") == "websocket" {
		return c.Next()
	}
	err := c.Next()
	m.logger.Debug("Request handled",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode())
	return err
}
