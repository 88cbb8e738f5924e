package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"planboard/internal/model"
)

const writeWait = 10 * time.Second

// client wraps a connection with its write lock. gorilla/websocket
// allows at most one concurrent writer per connection, and Push is
// called from request goroutines and the sweeper at once.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Hub tracks the live websocket connections per user and pushes freshly
// created notifications to them. Delivery is fire-and-forget; the row in
// the store is the source of truth, the push only saves a poll.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*websocket.Conn]*client
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*websocket.Conn]*client),
		log:     log,
	}
}

// Register adds a user's connection to the hub.
func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]*client)
	}
	h.clients[userID][conn] = &client{conn: conn}
}

// Unregister drops a user's connection from the hub.
func (h *Hub) Unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Push delivers a notification to every live connection of the user.
// Dead connections are evicted on write failure.
func (h *Hub) Push(userID uuid.UUID, n *model.Notification) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients[userID]))
	for _, c := range h.clients[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(n); err != nil {
			h.log.WithError(err).WithField("user_id", userID).
				Debug("notification push failed, dropping connection")
			h.evict(userID, c.conn)
		}
	}
}

func (h *Hub) evict(userID uuid.UUID, conn *websocket.Conn) {
	h.Unregister(userID, conn)
	conn.Close()
}
