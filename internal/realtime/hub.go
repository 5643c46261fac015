// Package realtime pushes order and session events to connected customers
// over websockets.
package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pizzeria/internal/metrics"
)

// Event types.
const (
	EventSignedIn      = "session.signed_in"
	EventSignedOut     = "session.signed_out"
	EventStatusChanged = "order.status_changed"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// Event is one message sent to a user's connections.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

// Publisher delivers events to a user.
type Publisher interface {
	Publish(userID string, event Event)
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan Event
}

type delivery struct {
	userID string
	event  Event
}

// Hub fans events out to every connection of a user. Run must be started
// before Serve or Publish are used.
type Hub struct {
	clients    map[string]map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan delivery
	done       chan struct{}

	mu       sync.RWMutex
	log      *zap.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

var _ Publisher = (*Hub)(nil)

// NewHub creates a hub. m may be nil.
func NewHub(log *zap.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		clients:    make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan delivery, 64),
		done:       make(chan struct{}),
		log:        log.Named("realtime"),
		metrics:    m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run processes registrations and deliveries until ctx ends, then closes
// every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]struct{})
			}
			h.clients[c.userID][c] = struct{}{}
			h.mu.Unlock()
			h.metrics.WSConnected(1)

		case c := <-h.unregister:
			h.remove(c)

		case d := <-h.broadcast:
			h.mu.RLock()
			var slow []*client
			for c := range h.clients[d.userID] {
				select {
				case c.send <- d.event:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.log.Warn("dropping slow connection", zap.String("user_id", c.userID))
				h.remove(c)
			}

		case <-ctx.Done():
			h.mu.Lock()
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[string]map[*client]struct{})
			h.mu.Unlock()
			return
		}
	}
}

// Publish queues event for every connection of userID. It never blocks;
// events are dropped when the hub is saturated.
func (h *Hub) Publish(userID string, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	select {
	case h.broadcast <- delivery{userID: userID, event: event}:
	default:
		h.log.Warn("realtime queue full, event dropped", zap.String("type", event.Type))
	}
}

// Connections returns the number of open connections of userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Serve upgrades the request and streams events for userID until the peer
// goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{userID: userID, conn: conn, send: make(chan Event, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		return conn.Close()
	}

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
	h.metrics.WSConnected(-1)
}

// readPump discards client messages and detects closed connections.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("ws read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				h.log.Debug("ws write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
