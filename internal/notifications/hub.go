// Package notifications provides real-time event fan-out to live connections.
package notifications

import (
	"context"
	"errors"
	"log"
	"sync"

	"parlor/internal/middleware"

	"github.com/gofiber/websocket/v2"
)

// Max total connections
const maxTotalConns = 10000

// Hub is a websocket hub holding every live connection. Connections are
// anonymous; every event is fanned out to all of them.
type Hub struct {
	mu       sync.RWMutex
	conns    map[*Client]struct{}
	shutdown chan struct{}
	done     chan struct{}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "event hub" }

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		conns:    make(map[*Client]struct{}),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Register adds a connection. Returns the Client or an error if the
// connection limit is exceeded.
func (h *Hub) Register(conn *websocket.Conn, windowMillis, maxMessages int) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.conns) >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	client := NewClient(h, conn, windowMillis, maxMessages)
	h.conns[client] = struct{}{}
	middleware.ActiveWebSockets.Inc()
	return client, nil
}

// UnregisterClient removes a connection.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.conns[client]; ok {
		delete(h.conns, client)
		middleware.ActiveWebSockets.Dec()
	}
	h.mu.Unlock()
}

// BroadcastAll sends message to every connected websocket client.
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		c.TrySend(message)
	}
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Shutdown gracefully closes all websocket connections
func (h *Hub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.mu.Lock()
	for client := range h.conns {
		if client.Conn == nil {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
			log.Printf("failed to write close message: %v", err)
		}
		if err := client.Conn.Close(); err != nil {
			log.Printf("failed to close websocket: %v", err)
		}
	}
	h.conns = make(map[*Client]struct{})
	h.mu.Unlock()

	close(h.done)
	return nil
}
