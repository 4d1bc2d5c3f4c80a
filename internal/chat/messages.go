package chat

import "encoding/json"

// Envelope wraps every inbound WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "joinRoom"
	Body  json.RawMessage `json:"body,omitempty"` // string, bool or object depending on the event
}

// frame is the outbound counterpart of Envelope.
type frame struct {
	Event string `json:"event"`
	Body  any    `json:"body,omitempty"`
}

// Inbound event names.
const (
	evtInJoinRoom       = "joinRoom"
	evtInMessage        = "message"
	evtInTyping         = "typing"
	evtInChangeNickname = "changeNickname"
	evtInCreateRoom     = "createRoom"
	evtInDeleteRoom     = "deleteRoom"
)

// Outbound event names.
const (
	evtRoomList        = "roomList"
	evtJoinedRoom      = "joinedRoom"
	evtUsers           = "users"
	evtMessage         = "message"
	evtUserTyping      = "userTyping"
	evtNicknameUpdated = "nicknameUpdated"
	evtError           = "error"
)

// ──────────────────────────── Request / Event DTOs ───────────────────────────

// MessageBody is the body for inbound "message" events.
type MessageBody struct {
	Content string `json:"content"`
}

// MessagePayload is broadcast to a room for chat and system messages.
type MessagePayload struct {
	Sender    string `json:"sender"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"` // ISO-8601
	Room      string `json:"room"`
}

// RoomUser is one entry of a room's "users" presence list.
type RoomUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TypingPayload is relayed to a room while a participant types.
type TypingPayload struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
