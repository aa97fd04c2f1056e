// Package spectate streams live board snapshots to websocket viewers.
// Every game session publishes under its session id; viewers subscribe to
// one session and receive each snapshot as a JSON text message.
package spectate

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Pending publishes before new ones are dropped.
	broadcastBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the envelope sent to viewers.
type Message struct {
	SessionID string          `json:"session_id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// outbound is an encoded message bound for one session's viewers.
type outbound struct {
	sessionID string
	data      []byte
}

// Client is one websocket viewer.
type Client struct {
	id        string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub tracks viewers per session and fans published snapshots out to them.
type Hub struct {
	sessions map[string]map[*Client]bool

	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// latest holds the last encoded message per session so that new viewers
	// see the board immediately. Guarded by mu; read by HTTP handlers.
	mu     sync.RWMutex
	latest map[string][]byte

	logger *log.Logger
}

// NewHub creates a hub. A nil logger uses the default logger.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan outbound, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		latest:     make(map[string][]byte),
		logger:     logger,
	}
}

// Run starts the hub's event loop and returns when ctx is done. It must be
// called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.sessions {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case out := <-h.broadcast:
			h.broadcastMessage(out)
		}
	}
}

// Publish sends v, encoded as JSON, to every viewer of the session. It never
// blocks: when the hub falls behind the update is dropped.
func (h *Hub) Publish(sessionID string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("failed to marshal snapshot", "session", sessionID, "error", err)
		return
	}

	encoded, err := json.Marshal(Message{SessionID: sessionID, Event: "state_update", Data: data})
	if err != nil {
		h.logger.Error("failed to marshal message", "session", sessionID, "error", err)
		return
	}

	h.mu.Lock()
	h.latest[sessionID] = encoded
	h.mu.Unlock()

	h.enqueue(outbound{sessionID: sessionID, data: encoded})
}

func (h *Hub) enqueue(out outbound) {
	select {
	case h.broadcast <- out:
	default:
		h.logger.Warn("spectator update dropped", "session", out.sessionID)
	}
}

// End tells viewers the session is over and forgets its last snapshot.
func (h *Hub) End(sessionID string) {
	h.mu.Lock()
	delete(h.latest, sessionID)
	h.mu.Unlock()

	encoded, err := json.Marshal(Message{SessionID: sessionID, Event: "session_ended"})
	if err != nil {
		h.logger.Error("failed to marshal message", "session", sessionID, "error", err)
		return
	}
	h.enqueue(outbound{sessionID: sessionID, data: encoded})
}

// Sessions lists the session ids that have published at least once.
func (h *Hub) Sessions() []string {
	h.mu.RLock()
	ids := make([]string, 0, len(h.latest))
	for id := range h.latest {
		ids = append(ids, id)
	}
	h.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Handler serves the session list at /sessions and the viewer socket at
// /watch/{session}.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions", h.serveSessions)
	mux.HandleFunc("GET /watch/{session}", func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, r.PathValue("session"))
	})
	return mux
}

func (h *Hub) serveSessions(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"sessions": h.Sessions()}); err != nil {
		h.logger.Warn("failed to write session list", "error", err)
	}
}

// ServeWS upgrades the request and subscribes the viewer to sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		id:        uuid.NewString(),
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// registerClient adds a client to a session and queues the session's
// latest snapshot for it.
func (h *Hub) registerClient(client *Client) {
	h.mu.RLock()
	if last, ok := h.latest[client.sessionID]; ok {
		client.send <- last
	}
	h.mu.RUnlock()

	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.logger.Debug("viewer joined",
		"session", client.sessionID,
		"viewer", client.id,
		"viewers", len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session.
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	h.logger.Debug("viewer left",
		"session", client.sessionID,
		"viewer", client.id,
		"viewers", len(clients))
}

// broadcastMessage sends a message to all clients in a session.
func (h *Hub) broadcastMessage(out outbound) {
	for client := range h.sessions[out.sessionID] {
		select {
		case client.send <- out.data:
		default:
			h.unregisterClient(client)
		}
	}
}

// readPump keeps the connection alive and detects when the viewer leaves.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket error", "viewer", c.id, "error", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
