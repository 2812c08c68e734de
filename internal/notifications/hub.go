package notifications

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub tracks the websocket connections of signed-in users and pushes
// accepted notifications to them as they are created.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]map[*websocket.Conn]bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		conns: make(map[uuid.UUID]map[*websocket.Conn]bool),
	}
}

// Register adds a user's connection
func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]bool)
	}
	h.conns[userID][conn] = true
}

// Unregister removes a user's connection
func (h *Hub) Unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.conns[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
}

// Broadcast sends a payload to every connection the user has open.
// Connections that fail to write are dropped.
func (h *Hub) Broadcast(userID uuid.UUID, payload interface{}) {
	h.mu.RLock()
	var conns []*websocket.Conn
	for conn := range h.conns[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(payload); err != nil {
			log.Printf("notifications: dropping websocket for %s: %v", userID, err)
			conn.Close()
			h.Unregister(userID, conn)
		}
	}
}

// ConnectionCount reports how many connections the user has open
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}
