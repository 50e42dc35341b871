// Package events broadcasts pipeline milestones (wake, transcript,
// classification, reply) over websockets so a dashboard can watch the
// assistant live. Publishing never blocks the audio loop; a client that
// cannot keep up is dropped.
package events

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one pipeline milestone.
type Event struct {
	Kind string         `json:"kind"`
	Text string         `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`
	Time time.Time      `json:"time"`
}

const writeTimeout = time.Second

// Hub fans events out to connected websocket clients.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// The dashboard is a local tool; any origin may watch.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Publish sends ev to every connected client. Slow or broken clients are
// disconnected rather than awaited.
func (h *Hub) Publish(kind, text string, data map[string]any) {
	ev := Event{Kind: kind, Text: text, Data: data, Time: time.Now()}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ServeHTTP upgrades a request to a websocket subscription.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	slog.Info("dashboard client connected", "clients", n)

	// Drain (and discard) client messages so pings are answered and we
	// notice disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// Listen serves the hub on addr at /events until the listener fails.
// Intended to run in its own goroutine.
func (h *Hub) Listen(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/events", h)
	return http.ListenAndServe(addr, mux)
}

// ClientCount reports the number of connected dashboard clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
