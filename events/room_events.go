package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// RoomDestroyedEvent is emitted when a room's last member leaves.
type RoomDestroyedEvent struct {
	RoomID    string    `json:"room_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Event definitions for the relay domain.
var (
	RoomDestroyedV1 = helper.EventDefinition[RoomDestroyedEvent](
		"relay",
		"RoomDestroyed",
		"v1",
	)
)
