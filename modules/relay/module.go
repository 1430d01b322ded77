package relay

import (
	"context"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/music-room-relay/events"
)

// Module wires the connection registry and frame router into the
// application and publishes RoomDestroyed events for the lifecycle hook.
type Module struct {
	registry *Registry
	router   *Router
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the relay module over the given history store.
func NewModule(store HistoryStore, logger types.Logger) *Module {
	registry := NewRegistry()
	m := &Module{
		registry: registry,
		router:   NewRouter(registry, store, logger),
		logger:   logger,
	}
	m.router.OnRoomDestroyed(m.publishRoomDestroyed)
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "relay"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.RoomDestroyedV1.ToBase(),
	}
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Relay module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Relay module stopped",
		"rooms", m.registry.RoomCount(),
		"connections", m.registry.ConnCount())
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"rooms":       m.registry.RoomCount(),
			"connections": m.registry.ConnCount(),
		},
	}
}

// Router returns the frame router for the gateway.
func (m *Module) Router() *Router {
	return m.router
}

// Registry returns the connection registry.
func (m *Module) Registry() *Registry {
	return m.registry
}

// publishRoomDestroyed hands the destroyed room off to the event bus. The
// notifier consumes it off the router's critical path; a publish failure
// only costs the external notification, never the frame that caused it.
func (m *Module) publishRoomDestroyed(roomID string) {
	if m.eventBus == nil {
		return
	}
	event := events.RoomDestroyedEvent{
		RoomID:    roomID,
		Timestamp: time.Now(),
	}
	if err := events.RoomDestroyedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish RoomDestroyed event", "roomID", roomID, "error", err)
	}
}
