package chat

import (
	"sync"

	"go.uber.org/zap"
)

// Conn is the transport side of a connection as the hub sees it. Tests
// substitute a recorder; production uses *clientConn.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Hub keeps the connection table. Room targeting is not stored here: the
// audience of a broadcast is derived from the session registry, so the hub
// can never drift from session state.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]Conn)}
}

func (h *Hub) Add(connID string, c Conn) {
	h.mu.Lock()
	h.conns[connID] = c
	h.mu.Unlock()
}

func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	delete(h.conns, connID)
	h.mu.Unlock()
}

// send delivers one frame, fire-and-forget. A connection that disappeared
// between enumeration and send is skipped; a failed write is logged and the
// recipient left for its reader to tear down.
func (h *Hub) send(connID string, v any) {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := c.WriteJSON(v); err != nil {
		zap.L().Debug("ws.send_failed", zap.String("conn_id", connID), zap.Error(err))
	}
}
