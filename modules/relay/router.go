package relay

import (
	"context"
	"encoding/json"

	"github.com/go-monolith/mono/pkg/types"
)

// historyKeep is the number of chat entries retained per room. The trim
// runs after every append as a maintenance step, not as an overflow check.
const historyKeep = 100

// HistoryStore is the durable ordered-list store the router writes chat
// and song entries to.
type HistoryStore interface {
	AppendChat(ctx context.Context, roomID string, entry json.RawMessage) error
	TrimChat(ctx context.Context, roomID string, keep int64) error
	PushSong(ctx context.Context, roomID string, entry json.RawMessage) error
}

// Router interprets inbound frames and drives the registry, the history
// store and room fan-out. Dispatch is safe for concurrent use from
// multiple connection read loops.
type Router struct {
	registry        *Registry
	store           HistoryStore
	logger          types.Logger
	onRoomDestroyed func(roomID string)
}

// NewRouter creates a router over the given registry and store.
func NewRouter(registry *Registry, store HistoryStore, logger types.Logger) *Router {
	return &Router{
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// OnRoomDestroyed registers the hook invoked after a room's last member
// leaves. Invoked at most once per destruction, outside the registry lock.
func (rt *Router) OnRoomDestroyed(fn func(roomID string)) {
	rt.onRoomDestroyed = fn
}

// Dispatch handles one inbound frame from conn. Malformed frames are
// dropped without a response; no frame is ever fatal.
func (rt *Router) Dispatch(ctx context.Context, conn Sender, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		rt.logger.Debug("Dropping malformed frame", "error", err)
		return
	}

	switch env.Type {
	case TypeJoin:
		rt.handleJoin(env.RoomID, conn)
	case TypeExit:
		rt.handleExit(env.RoomID, conn)
	case TypeChat:
		rt.handleChat(ctx, env)
	case TypeAddSong:
		rt.handleAddSong(ctx, env)
	case TypePlayNext:
		rt.relay(env)
	case TypeLikeSong, TypeUnlikeSong:
		// Song voting is not implemented. The frame is accepted and
		// produces no state change and no broadcast.
	default:
		// Unknown discriminants are ignored, not errors.
	}
}

// HandleClose removes a closed connection from its room. The transport
// calls this once the read loop ends, so no further frames are dispatched
// for the connection afterwards.
func (rt *Router) HandleClose(conn Sender) {
	roomID, destroyed := rt.registry.RemoveConn(conn)
	if destroyed {
		rt.roomDestroyed(roomID)
	}
}

func (rt *Router) handleJoin(roomID string, conn Sender) {
	count, vacated := rt.registry.Join(roomID, conn)
	if vacated != "" {
		rt.roomDestroyed(vacated)
	}
	rt.broadcast(roomID, joinNotice{Type: TypeJoin, Users: count})
}

func (rt *Router) handleExit(roomID string, conn Sender) {
	count, destroyed := rt.registry.Leave(roomID, conn)
	if destroyed {
		rt.roomDestroyed(roomID)
	}
	// Zero recipients when the room was destroyed.
	rt.broadcast(roomID, exitNotice{Type: TypeJoin, UsersCount: count})
}

func (rt *Router) handleChat(ctx context.Context, env Envelope) {
	if env.RoomID == "" {
		return
	}
	entry := normalize(env.MessageData)
	// Durability before delivery: a client that refetches history right
	// after receiving the broadcast must see the entry it was told about.
	// A failed write still broadcasts; the entry is simply not durable.
	if err := rt.store.AppendChat(ctx, env.RoomID, entry); err != nil {
		rt.logger.Error("Chat append failed", "roomID", env.RoomID, "error", err)
	} else if err := rt.store.TrimChat(ctx, env.RoomID, historyKeep); err != nil {
		rt.logger.Error("Chat trim failed", "roomID", env.RoomID, "error", err)
	}
	rt.relay(env)
}

func (rt *Router) handleAddSong(ctx context.Context, env Envelope) {
	if env.RoomID == "" {
		return
	}
	if err := rt.store.PushSong(ctx, env.RoomID, normalize(env.MessageData)); err != nil {
		rt.logger.Error("Song push failed", "roomID", env.RoomID, "error", err)
	}
	rt.relay(env)
}

// relay fans the frame's type and payload out to the room, sender included.
func (rt *Router) relay(env Envelope) {
	if env.RoomID == "" {
		return
	}
	rt.broadcast(env.RoomID, relayedFrame{Type: env.Type, MessageData: normalize(env.MessageData)})
}

// broadcast delivers one outbound frame to every member of the room as of
// this moment. A member whose connection is no longer writable is skipped;
// its own close handler cleans it up.
func (rt *Router) broadcast(roomID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		rt.logger.Error("Failed to marshal broadcast frame", "roomID", roomID, "error", err)
		return
	}
	for _, member := range rt.registry.Members(roomID) {
		if err := member.Send(data); err != nil {
			rt.logger.Debug("Skipping unwritable member", "roomID", roomID, "error", err)
		}
	}
}

func (rt *Router) roomDestroyed(roomID string) {
	if rt.onRoomDestroyed != nil {
		rt.onRoomDestroyed(roomID)
	}
}

// normalize makes an absent payload a valid JSON value so stored entries
// and outbound frames always decode.
func normalize(data json.RawMessage) json.RawMessage {
	if len(data) == 0 {
		return json.RawMessage("null")
	}
	return data
}
