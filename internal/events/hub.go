// Package events broadcasts enrollment lifecycle events to connected
// dashboard clients over WebSocket.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Type identifies the kind of lifecycle event.
type Type string

const (
	LearnerEnrolled    Type = "learner.enrolled"
	LearnerRemoved     Type = "learner.removed"
	LearnerTransferred Type = "learner.transferred"
	ImportCompleted    Type = "import.completed"
)

// Event is the envelope pushed to subscribers.
type Event struct {
	ID      string    `json:"id"`
	Type    Type      `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

const (
	clientBuffer = 16
	writeTimeout = 10 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans events out to all connected clients. Publishing never blocks: a
// client whose buffer is full is disconnected rather than allowed to stall
// the enrollment path.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	log     zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log.With().Str("component", "events_hub").Logger(),
	}
}

// Publish sends an event to every connected client.
func (h *Hub) Publish(t Type, payload any) {
	evt := Event{
		ID:      uuid.New().String(),
		Type:    t,
		At:      time.Now().UTC(),
		Payload: payload,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- evt:
		default:
			h.log.Warn().Msg("Dropping slow event subscriber")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ServeConn registers the connection and streams events to it until the peer
// disconnects. Blocks; call from the WebSocket handler goroutine. Closing the
// connection is the caller's responsibility.
func (h *Hub) ServeConn(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan Event, clientBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Debug().Int("subscribers", n).Msg("Event subscriber connected")

	// Reader goroutine: we never expect client messages, but reading is
	// required to notice the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[c]; ok {
			delete(h.clients, c)
			close(c.send)
		}
		h.mu.Unlock()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			if !ok {
				return // dropped by Publish
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
