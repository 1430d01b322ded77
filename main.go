package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/music-room-relay/modules/gateway"
	"github.com/example/music-room-relay/modules/history"
	"github.com/example/music-room-relay/modules/notifier"
	"github.com/example/music-room-relay/modules/relay"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	port := getEnv("PORT", "8080")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	roomServiceURL := getEnv("ROOM_SERVICE_URL", "http://localhost:4000")
	allowedOrigins := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}
	logger := app.Logger()

	// Create modules; the relay needs the history store at construction
	// time so frame handling never races module wiring.
	historyModule := history.NewModule(redisAddr, logger)
	relayModule := relay.NewModule(historyModule.GetStore(), logger)
	notifierModule := notifier.NewModule(roomServiceURL, logger)
	gatewayModule := gateway.NewModule(gateway.Config{
		Port:           port,
		AllowedOrigins: allowedOrigins,
	}, relayModule, historyModule.GetStore(), logger)

	// Register modules
	app.Register(historyModule)
	app.Register(relayModule)
	app.Register(notifierModule)
	app.Register(gatewayModule)

	// Start modules (this handles Init and Start)
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	logger.Info("Music room relay started",
		"port", port,
		"redis", redisAddr,
		"roomService", roomServiceURL)
	log.Println("Endpoints:")
	log.Println("  GET /health                  - Health check")
	log.Println("  GET /ws                      - WebSocket endpoint")
	log.Println("  GET /room/:roomId/messages   - Chat history")
	log.Println("  GET /room/:roomId/songs      - Song queue")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	// Setup graceful shutdown using gelmium/graceful-shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
