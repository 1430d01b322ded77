package history

import (
	"context"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Module provides the Redis-backed history store as a mono module.
type Module struct {
	store     *Store
	client    *redis.Client
	redisAddr string
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the history module. The client and store exist from
// construction so dependent modules can be wired before the app starts;
// connectivity is only probed in Init.
func NewModule(redisAddr string, logger types.Logger) *Module {
	client := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &Module{
		store:     New(client),
		client:    client,
		redisAddr: redisAddr,
		logger:    logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "history"
}

// Init probes the Redis connection. An unreachable server is not fatal:
// the relay keeps running and history writes keep failing (and getting
// logged) until connectivity returns.
func (m *Module) Init(_ mono.ServiceContainer) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.store.Ping(ctx); err != nil {
		m.logger.Warn("Redis unreachable, starting degraded", "addr", m.redisAddr, "error", err)
		return nil
	}
	m.logger.Info("Connected to Redis", "addr", m.redisAddr)
	return nil
}

// Start starts the module (no-op for this module).
func (m *Module) Start(_ context.Context) error {
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if err := m.client.Close(); err != nil {
		m.logger.Error("Error closing Redis connection", "error", err)
		return err
	}
	return nil
}

// Health verifies the Redis connection.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "redis unreachable",
			Details: map[string]any{"addr": m.redisAddr},
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"addr": m.redisAddr},
	}
}

// GetStore returns the store instance.
func (m *Module) GetStore() *Store {
	return m.store
}
