package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubConn is a minimal Sender for registry tests.
type stubConn struct{ name string }

func (s *stubConn) Send(_ []byte) error { return nil }

func TestRegistry_JoinCreatesRoom(t *testing.T) {
	r := NewRegistry()
	a := &stubConn{name: "a"}

	count, vacated := r.Join("room-1", a)

	assert.Equal(t, 1, count)
	assert.Empty(t, vacated)
	assert.Equal(t, 1, r.RoomCount())
	assert.Equal(t, 1, r.MemberCount("room-1"))
}

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	a := &stubConn{name: "a"}

	r.Join("room-1", a)
	count, vacated := r.Join("room-1", a)

	assert.Equal(t, 1, count)
	assert.Empty(t, vacated)
	assert.Equal(t, 1, r.ConnCount())
}

func TestRegistry_JoinMovesConnBetweenRooms(t *testing.T) {
	r := NewRegistry()
	a := &stubConn{name: "a"}
	b := &stubConn{name: "b"}

	r.Join("room-1", a)
	r.Join("room-1", b)

	// Moving a member out of a still-populated room reports no vacated room.
	count, vacated := r.Join("room-2", a)
	assert.Equal(t, 1, count)
	assert.Empty(t, vacated)
	assert.Equal(t, 1, r.MemberCount("room-1"))

	// Moving the last member out reports the emptied room.
	count, vacated = r.Join("room-3", b)
	assert.Equal(t, 1, count)
	assert.Equal(t, "room-1", vacated)
	assert.Equal(t, 0, r.MemberCount("room-1"))
}

func TestRegistry_LeaveDestroysEmptyRoom(t *testing.T) {
	r := NewRegistry()
	a := &stubConn{name: "a"}
	b := &stubConn{name: "b"}

	r.Join("room-1", a)
	r.Join("room-1", b)

	count, destroyed := r.Leave("room-1", a)
	assert.Equal(t, 1, count)
	assert.False(t, destroyed)

	count, destroyed = r.Leave("room-1", b)
	assert.Equal(t, 0, count)
	assert.True(t, destroyed)
	assert.Equal(t, 0, r.RoomCount())
	assert.Equal(t, 0, r.ConnCount())
}

func TestRegistry_LeaveUnknownRoomOrMember(t *testing.T) {
	r := NewRegistry()
	a := &stubConn{name: "a"}
	b := &stubConn{name: "b"}

	count, destroyed := r.Leave("nope", a)
	assert.Equal(t, 0, count)
	assert.False(t, destroyed)

	r.Join("room-1", a)
	count, destroyed = r.Leave("room-1", b)
	assert.Equal(t, 1, count)
	assert.False(t, destroyed)
}

func TestRegistry_RemoveConn(t *testing.T) {
	r := NewRegistry()
	a := &stubConn{name: "a"}
	b := &stubConn{name: "b"}

	r.Join("room-1", a)
	r.Join("room-1", b)

	roomID, destroyed := r.RemoveConn(a)
	assert.Equal(t, "room-1", roomID)
	assert.False(t, destroyed)

	roomID, destroyed = r.RemoveConn(b)
	assert.Equal(t, "room-1", roomID)
	assert.True(t, destroyed)

	// A connection that never joined is a silent no-op.
	roomID, destroyed = r.RemoveConn(&stubConn{name: "c"})
	assert.Empty(t, roomID)
	assert.False(t, destroyed)
}

func TestRegistry_MembersSnapshot(t *testing.T) {
	r := NewRegistry()
	a := &stubConn{name: "a"}
	b := &stubConn{name: "b"}

	r.Join("room-1", a)
	r.Join("room-1", b)

	members := r.Members("room-1")
	assert.Len(t, members, 2)
	assert.ElementsMatch(t, []Sender{a, b}, members)

	assert.Empty(t, r.Members("nope"))
}

func TestRegistry_RoomExistsOnlyWithMembers(t *testing.T) {
	r := NewRegistry()
	a := &stubConn{name: "a"}

	assert.Equal(t, 0, r.MemberCount("room-1"))

	r.Join("room-1", a)
	assert.Equal(t, 1, r.RoomCount())

	r.Leave("room-1", a)
	assert.Equal(t, 0, r.RoomCount())
	assert.Equal(t, 0, r.MemberCount("room-1"))
}
