package relay

import "encoding/json"

// Frame type discriminants accepted on the wire.
const (
	TypeJoin       = "join"
	TypeExit       = "exit"
	TypeChat       = "chat"
	TypeAddSong    = "addSong"
	TypePlayNext   = "playNext"
	TypeLikeSong   = "likeSong"
	TypeUnlikeSong = "unLikeSong"
)

// Envelope is the wire unit in both directions. MessageData is opaque to
// the relay: it is stored and forwarded verbatim, only clients and the
// read endpoints interpret its shape.
type Envelope struct {
	Type        string          `json:"type"`
	RoomID      string          `json:"roomId"`
	MessageData json.RawMessage `json:"messageData,omitempty"`
}

// joinNotice is the presence frame broadcast after a join.
type joinNotice struct {
	Type  string `json:"type"`
	Users int    `json:"users"`
}

// exitNotice is the presence frame broadcast after an exit. The wire
// format reuses type "join" with a usersCount field; clients depend on
// that asymmetry, so it stays.
type exitNotice struct {
	Type       string `json:"type"`
	UsersCount int    `json:"usersCount"`
}

// relayedFrame is the outbound shape for chat, addSong and playNext.
type relayedFrame struct {
	Type        string          `json:"type"`
	MessageData json.RawMessage `json:"messageData"`
}
