package chat

import "sync"

const (
	// RoomLobby is the default room for regular participants and the
	// fallback target when a room is deleted under its occupants.
	RoomLobby = "Lobby"
	// RoomSupport is where administrators land on connect. It is protected
	// from deletion even though it is not part of the enumerable list.
	RoomSupport = "Support"
)

func isProtectedRoom(name string) bool {
	return name == RoomLobby || name == RoomSupport
}

// RoomDirectory is the ordered set of room names shown to clients. Insertion
// order is preserved; it lives for the whole process.
type RoomDirectory struct {
	mu    sync.RWMutex
	names []string
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{
		names: []string{RoomLobby, "Privé A", "Privé B", "Privé C"},
	}
}

// List returns a copy of the directory in insertion order.
func (d *RoomDirectory) List() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Add appends name unless it is already present. Reports whether the
// directory changed.
func (d *RoomDirectory) Add(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, n := range d.names {
		if n == name {
			return false
		}
	}
	d.names = append(d.names, name)
	return true
}

// Remove deletes name from the directory. Protected names are never removed.
func (d *RoomDirectory) Remove(name string) bool {
	if isProtectedRoom(name) {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, n := range d.names {
		if n == name {
			d.names = append(d.names[:i], d.names[i+1:]...)
			return true
		}
	}
	return false
}
