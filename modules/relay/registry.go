package relay

import "sync"

// Sender is the write side of a connection. The registry references
// connections by identity only; the transport owns their lifetime and
// open/closed state.
type Sender interface {
	Send(data []byte) error
}

// Registry owns the room -> members relation. A room entry exists iff it
// has at least one member: rooms are created by the first join and deleted
// when the last member leaves. A connection belongs to at most one room;
// the conn -> room back-index makes close handling O(1) instead of a scan
// over every room.
//
// No operation fails. Absence of a room or a connection is a normal case,
// handled silently.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]map[Sender]struct{}
	byConn map[Sender]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]map[Sender]struct{}),
		byConn: make(map[Sender]string),
	}
}

// Join adds conn to roomID, creating the room entry on first join.
// Joining a room the connection is already in is a no-op. Joining a new
// room moves the connection out of its previous room; if that empties the
// previous room, its ID is returned in vacated so the caller can fire the
// destruction hook. Returns the member count after the join.
func (r *Registry) Join(roomID string, conn Sender) (count int, vacated string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.byConn[conn]; ok {
		if current == roomID {
			return len(r.rooms[roomID]), ""
		}
		if r.removeLocked(current, conn) {
			vacated = current
		}
	}

	members := r.rooms[roomID]
	if members == nil {
		members = make(map[Sender]struct{})
		r.rooms[roomID] = members
	}
	members[conn] = struct{}{}
	r.byConn[conn] = roomID
	return len(members), vacated
}

// Leave removes conn from roomID if present. When the room empties, its
// entry is deleted and destroyed is true. Returns the member count after
// the leave (0 when destroyed).
func (r *Registry) Leave(roomID string, conn Sender) (count int, destroyed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.rooms[roomID]
	if members == nil {
		return 0, false
	}
	if _, ok := members[conn]; !ok {
		return len(members), false
	}
	destroyed = r.removeLocked(roomID, conn)
	return len(r.rooms[roomID]), destroyed
}

// RemoveConn removes a closed connection from whatever room it belongs to.
// Returns the room it was removed from ("" if none) and whether that room
// was destroyed as a result.
func (r *Registry) RemoveConn(conn Sender) (roomID string, destroyed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.byConn[conn]
	if !ok {
		return "", false
	}
	return roomID, r.removeLocked(roomID, conn)
}

// removeLocked deletes conn from roomID and clears the back-index,
// deleting the room entry when it empties. Caller holds the write lock.
func (r *Registry) removeLocked(roomID string, conn Sender) (destroyed bool) {
	members := r.rooms[roomID]
	if members == nil {
		return false
	}
	delete(members, conn)
	if r.byConn[conn] == roomID {
		delete(r.byConn, conn)
	}
	if len(members) == 0 {
		delete(r.rooms, roomID)
		return true
	}
	return false
}

// Members returns a point-in-time snapshot of the room's member
// connections, empty if the room does not exist. Fan-out iterates the
// snapshot so a concurrent join or leave never mutates it mid-delivery.
func (r *Registry) Members(roomID string) []Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[roomID]
	if len(members) == 0 {
		return nil
	}
	snapshot := make([]Sender, 0, len(members))
	for conn := range members {
		snapshot = append(snapshot, conn)
	}
	return snapshot
}

// MemberCount returns the number of members in a room, 0 if absent.
func (r *Registry) MemberCount(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// RoomCount returns the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// ConnCount returns the number of connections currently in a room.
func (r *Registry) ConnCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
