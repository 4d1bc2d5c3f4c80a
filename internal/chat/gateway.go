package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"chatrelaygo/internal/services/auth"
)

// Client-facing notices sent on the "error" event.
const (
	noticeThrottled   = "Slow down! Wait a moment before sending another message."
	noticeBadNickname = "Nickname must be between 3 and 20 characters."
)

// Gateway coordinates the session registry, the room directory, the rate
// gate and the hub. Every inbound event mutates state under one coarse
// mutex, so a presence scan can never observe a half-applied transition;
// the resulting deliveries are flushed after the mutex is released.
type Gateway struct {
	mu       sync.Mutex
	registry *SessionRegistry
	rooms    *RoomDirectory
	limiter  *rateLimiter
	hub      *Hub
	now      func() time.Time
}

func NewGateway(hub *Hub, cooldown time.Duration) *Gateway {
	return &Gateway{
		registry: NewSessionRegistry(),
		rooms:    NewRoomDirectory(),
		limiter:  newRateLimiter(cooldown),
		hub:      hub,
		now:      time.Now,
	}
}

// delivery is one outbound frame addressed to one connection.
type delivery struct {
	connID string
	frame  frame
}

func (g *Gateway) flush(batch []delivery) {
	for _, d := range batch {
		g.hub.send(d.connID, d.frame)
	}
}

// Connect admits an authenticated connection: it receives the current room
// list and is placed in its default room ("Support" for admins, "Lobby"
// otherwise) through the regular join transition.
func (g *Gateway) Connect(connID string, conn Conn, who *auth.Identity) error {
	g.mu.Lock()
	sess, err := g.registry.Admit(connID, who.Username, who.Role)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	g.hub.Add(connID, conn)

	batch := []delivery{{connID, frame{evtRoomList, g.rooms.List()}}}
	room := RoomLobby
	if sess.Role == auth.RoleAdmin {
		room = RoomSupport
	}
	batch = append(batch, g.joinLocked(connID, room)...)
	g.mu.Unlock()

	g.flush(batch)
	return nil
}

// Disconnect removes the session and rebroadcasts presence for the room it
// occupied, if any.
func (g *Gateway) Disconnect(connID string) {
	g.mu.Lock()
	g.hub.Remove(connID)
	g.limiter.forget(connID)
	sess, ok := g.registry.Remove(connID)

	var batch []delivery
	if ok && sess.CurrentRoom != "" {
		batch = g.presenceLocked(sess.CurrentRoom)
	}
	g.mu.Unlock()

	g.flush(batch)
}

// JoinRoom moves the session to room. The name is deliberately not checked
// against the directory; any authenticated participant may join any name.
func (g *Gateway) JoinRoom(connID, room string) {
	g.mu.Lock()
	batch := g.joinLocked(connID, room)
	g.mu.Unlock()

	g.flush(batch)
}

func (g *Gateway) joinLocked(connID, room string) []delivery {
	sess, ok := g.registry.Lookup(connID)
	if !ok {
		return nil
	}
	old := sess.CurrentRoom
	if _, ok := g.registry.SetRoom(connID, room); !ok {
		return nil
	}

	var batch []delivery
	if old != "" {
		batch = append(batch, g.presenceLocked(old)...)
	}
	batch = append(batch, g.presenceLocked(room)...)
	batch = append(batch, delivery{connID, frame{evtJoinedRoom, room}})
	return batch
}

// presenceLocked re-derives a room's occupant list from the registry and
// addresses it to every occupant.
func (g *Gateway) presenceLocked(room string) []delivery {
	members := g.registry.InRoom(room)
	users := make([]RoomUser, 0, len(members))
	for _, m := range members {
		users = append(users, RoomUser{Username: m.DisplayName, Role: m.Role})
	}

	batch := make([]delivery, 0, len(members))
	for _, m := range members {
		batch = append(batch, delivery{m.ID, frame{evtUsers, users}})
	}
	return batch
}

func (g *Gateway) toRoomLocked(room string, f frame) []delivery {
	members := g.registry.InRoom(room)
	batch := make([]delivery, 0, len(members))
	for _, m := range members {
		batch = append(batch, delivery{m.ID, f})
	}
	return batch
}

func (g *Gateway) globalLocked(f frame) []delivery {
	sessions := g.registry.All()
	batch := make([]delivery, 0, len(sessions))
	for _, s := range sessions {
		batch = append(batch, delivery{s.ID, f})
	}
	return batch
}

// SendMessage relays a chat message to the sender's current room, sender
// included. A throttled sender gets a private notice and nothing is
// broadcast; a sender without a room is ignored.
func (g *Gateway) SendMessage(connID, content string) {
	g.mu.Lock()
	sess, ok := g.registry.Lookup(connID)
	if !ok || sess.CurrentRoom == "" {
		g.mu.Unlock()
		return
	}

	now := g.now()
	var batch []delivery
	if !g.limiter.allow(connID, now) {
		batch = []delivery{{connID, frame{evtError, noticeThrottled}}}
	} else {
		payload := MessagePayload{
			Sender:    sess.DisplayName,
			Role:      sess.Role,
			Content:   content,
			Timestamp: now.UTC().Format(time.RFC3339),
			Room:      sess.CurrentRoom,
		}
		batch = g.toRoomLocked(sess.CurrentRoom, frame{evtMessage, payload})
	}
	g.mu.Unlock()

	g.flush(batch)
}

// SetTyping forwards a typing notice to the sender's room, excluding the
// sender. No state is retained and no rate gate applies.
func (g *Gateway) SetTyping(connID string, isTyping bool) {
	g.mu.Lock()
	sess, ok := g.registry.Lookup(connID)
	if !ok || sess.CurrentRoom == "" {
		g.mu.Unlock()
		return
	}

	f := frame{evtUserTyping, TypingPayload{Username: sess.DisplayName, IsTyping: isTyping}}
	var batch []delivery
	for _, m := range g.registry.InRoom(sess.CurrentRoom) {
		if m.ID == connID {
			continue
		}
		batch = append(batch, delivery{m.ID, f})
	}
	g.mu.Unlock()

	g.flush(batch)
}

// ChangeNickname renames the session. On success the sender gets a private
// ack and, if it occupies a room, that room sees refreshed presence plus a
// system notice.
func (g *Gateway) ChangeNickname(connID, newNickname string) {
	g.mu.Lock()
	old, clean, err := g.registry.Rename(connID, newNickname)
	if err != nil {
		g.mu.Unlock()
		if err == ErrInvalidNickname {
			g.flush([]delivery{{connID, frame{evtError, noticeBadNickname}}})
		}
		return
	}

	batch := []delivery{{connID, frame{evtNicknameUpdated, clean}}}
	if sess, ok := g.registry.Lookup(connID); ok && sess.CurrentRoom != "" {
		batch = append(batch, g.presenceLocked(sess.CurrentRoom)...)
		notice := MessagePayload{
			Sender:    "System",
			Role:      "system",
			Content:   old + " is now " + clean,
			Timestamp: g.now().UTC().Format(time.RFC3339),
			Room:      sess.CurrentRoom,
		}
		batch = append(batch, g.toRoomLocked(sess.CurrentRoom, frame{evtMessage, notice})...)
	}
	g.mu.Unlock()

	g.flush(batch)
}

// CreateRoom appends a room to the directory. Non-admin callers and
// duplicate names are ignored without any reply, so the action's existence
// is not advertised to unprivileged clients.
func (g *Gateway) CreateRoom(connID, roomName string) {
	g.mu.Lock()
	sess, ok := g.registry.Lookup(connID)
	if !ok || sess.Role != auth.RoleAdmin || !g.rooms.Add(roomName) {
		g.mu.Unlock()
		return
	}
	batch := g.globalLocked(frame{evtRoomList, g.rooms.List()})
	g.mu.Unlock()

	g.flush(batch)
}

// DeleteRoom removes a room and force-moves its occupants to "Lobby" by
// direct reassignment rather than through the join transition, so a
// connection can never be left in a room the directory no longer lists.
// Non-admin callers and protected names are ignored without any reply.
func (g *Gateway) DeleteRoom(connID, roomName string) {
	g.mu.Lock()
	sess, ok := g.registry.Lookup(connID)
	if !ok || sess.Role != auth.RoleAdmin || isProtectedRoom(roomName) {
		g.mu.Unlock()
		return
	}

	if !g.rooms.Remove(roomName) {
		zap.L().Debug("room.delete_missing", zap.String("room", roomName))
	}
	displaced := g.registry.MigrateRoom(roomName, RoomLobby)

	batch := g.globalLocked(frame{evtRoomList, g.rooms.List()})
	if len(displaced) > 0 {
		batch = append(batch, g.presenceLocked(RoomLobby)...)
	}
	g.mu.Unlock()

	g.flush(batch)
}
