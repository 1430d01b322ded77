package notifier

import (
	"context"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/music-room-relay/events"
)

// Module consumes RoomDestroyed events and forwards them to the room
// service over HTTP.
type Module struct {
	notifier *Notifier
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventConsumerModule = (*Module)(nil)
)

// NewModule creates the notifier module targeting the room service at
// roomServiceURL.
func NewModule(roomServiceURL string, logger types.Logger) *Module {
	return &Module{
		notifier: New(roomServiceURL, logger),
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "notifier"
}

// RegisterEventConsumers subscribes to room lifecycle events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	return helper.RegisterTypedEventConsumer(registry, events.RoomDestroyedV1, m.handleRoomDestroyed, m)
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Notifier module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	return nil
}

// handleRoomDestroyed notifies the room service. Failures are logged and
// swallowed: the notification is fire-and-forget and must not trigger
// redelivery.
func (m *Module) handleRoomDestroyed(ctx context.Context, event events.RoomDestroyedEvent, _ *mono.Msg) error {
	if err := m.notifier.RoomDestroyed(ctx, event.RoomID); err != nil {
		m.logger.Warn("Room destruction notification failed", "roomID", event.RoomID, "error", err)
	}
	return nil
}
