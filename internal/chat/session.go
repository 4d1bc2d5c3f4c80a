package chat

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	nicknameMinLen = 3
	nicknameMaxLen = 20
)

var (
	ErrAlreadyAdmitted = errors.New("connection already admitted")
	ErrUnknownSession  = errors.New("unknown session")
	ErrInvalidNickname = errors.New("nickname out of bounds")
)

// Session is the per-connection state tracked for every admitted participant.
// CurrentRoom holds a room name only; a session never owns a room.
type Session struct {
	ID          string
	DisplayName string
	Role        string
	CurrentRoom string // empty until the first join
}

// SessionRegistry maps connection IDs to live sessions. Admission order is
// preserved because presence lists are shown ordered by arrival.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Admit registers a new session. A duplicate connection ID means the
// transport handed out the same ID twice, which callers treat as fatal for
// that connection.
func (r *SessionRegistry) Admit(id, displayName, role string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; ok {
		return Session{}, ErrAlreadyAdmitted
	}
	s := &Session{ID: id, DisplayName: displayName, Role: role}
	r.sessions[id] = s
	r.order = append(r.order, id)
	return *s, nil
}

// Lookup returns a copy of the session, if admitted.
func (r *SessionRegistry) Lookup(id string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Remove drops the session and returns it so callers can react to its last
// room.
func (r *SessionRegistry) Remove(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	delete(r.sessions, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return *s, true
}

// Rename validates and applies a new display name. The name is trimmed
// before the 3–20 length check. Returns the previous and the applied name.
func (r *SessionRegistry) Rename(id, newName string) (oldName, cleanName string, err error) {
	clean := strings.TrimSpace(newName)
	if n := utf8.RuneCountInString(clean); n < nicknameMinLen || n > nicknameMaxLen {
		return "", "", ErrInvalidNickname
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return "", "", ErrUnknownSession
	}
	oldName = s.DisplayName
	s.DisplayName = clean
	return oldName, clean, nil
}

// SetRoom reassigns the session's current room and returns the updated
// session. The room name is not validated against the directory: joining a
// name the directory has never listed is allowed.
func (r *SessionRegistry) SetRoom(id, room string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	s.CurrentRoom = room
	return *s, true
}

// InRoom returns the sessions currently occupying room, in admission order.
// Membership is derived by scan on every call; no per-room list is cached.
func (r *SessionRegistry) InRoom(room string) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Session
	for _, id := range r.order {
		if s := r.sessions[id]; s.CurrentRoom == room {
			out = append(out, *s)
		}
	}
	return out
}

// All returns every admitted session in admission order.
func (r *SessionRegistry) All() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.sessions[id])
	}
	return out
}

// MigrateRoom reassigns every occupant of from to the room to, returning the
// moved sessions. Used when a room is deleted under its occupants.
func (r *SessionRegistry) MigrateRoom(from, to string) []Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var moved []Session
	for _, id := range r.order {
		if s := r.sessions[id]; s.CurrentRoom == from {
			s.CurrentRoom = to
			moved = append(moved, *s)
		}
	}
	return moved
}
