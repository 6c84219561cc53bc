package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 16
)

// EventRefresh is the listener-originated message asking for an updated
// event to be broadcast for one entity collection.
const EventRefresh = "refresh"

// message is the JSON frame exchanged with listeners.
//
//	server -> client: {"event":"channelsUpdated"}
//	client -> server: {"event":"refresh","entity":"channels"}
type message struct {
	Event  string `json:"event"`
	Entity string `json:"entity,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan Event
}

// Hub keeps the set of connected websocket listeners and broadcasts change
// events to them. It implements Notifier for single-instance deployments.
type Hub struct {
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	refresh func(context.Context, Event)
}

// NewHub returns a Hub accepting websocket connections from allowedOrigins.
// An empty list only admits same-origin browsers; "*" admits any origin.
func NewHub(log zerolog.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		log:     log,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
	h.refresh = h.Notify
	return h
}

// OnRefresh sets where listener refresh requests go. By default they are
// broadcast by this hub only; a multi-instance deployment routes them
// through the Redis relay instead.
func (h *Hub) OnRefresh(fn func(context.Context, Event)) {
	h.mu.Lock()
	h.refresh = fn
	h.mu.Unlock()
}

// Notify broadcasts ev to the listeners of this hub.
func (h *Hub) Notify(_ context.Context, ev Event) {
	h.Broadcast(ev)
}

// Broadcast queues ev for every connected listener. A listener whose queue
// is full misses the event.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			h.log.Warn().Str("client", c.id).Str("event", string(ev)).Msg("notify: listener queue full, dropping event")
		}
	}
}

// Len returns the number of connected listeners.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every listener and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeHTTP upgrades the request to a websocket and serves the listener
// until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		h.log.Debug().Err(err).Str("origin", r.Header.Get("Origin")).Msg("notify: upgrade rejected")
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan Event, sendBuffer)}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.log.Debug().Str("client", c.id).Str("remote", r.RemoteAddr).Msg("notify: listener connected")

	go c.writePump()
	h.readPump(r.Context(), c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump handles listener messages. It returns when the connection fails
// or closes.
func (h *Hub) readPump(ctx context.Context, c *client) {
	defer func() {
		h.unregister(c)
		h.log.Debug().Str("client", c.id).Msg("notify: listener disconnected")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("client", c.id).Msg("notify: read")
			}
			return
		}
		var msg message
		if err := json.Unmarshal(data, &msg); err != nil || msg.Event != EventRefresh {
			continue
		}
		ev, ok := UpdatedEvent(msg.Entity)
		if !ok {
			continue
		}
		h.mu.Lock()
		refresh := h.refresh
		h.mu.Unlock()
		refresh(context.WithoutCancel(ctx), ev)
	}
}

// writePump sends queued events and keepalive pings. It owns all writes to
// the connection and closes it when the send queue is closed.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteJSON(message{Event: string(ev)}); err != nil {
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

// originChecker builds the upgrader's origin policy. A nil func makes
// gorilla fall back to its same-origin check.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = normalizeOrigin(o)
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Not a browser; origin policy does not apply.
			return true
		}
		_, ok := set[normalizeOrigin(origin)]
		return ok
	}
}

func normalizeOrigin(o string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(o)), "/")
}
