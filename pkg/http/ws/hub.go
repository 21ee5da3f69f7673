package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Hub tracks viewer connections and their container subscriptions.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection
	filters     map[uuid.UUID]map[string]struct{} // client_id -> container ids; empty means all
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		filters:     make(map[uuid.UUID]map[string]struct{}),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds a connection and returns its client id.
func (h *Hub) Register(conn Sender) uuid.UUID {
	id := uuid.New()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[id] = &Connection{sender: conn}
	h.logger.Debug().Str("client_id", id.String()).Msg("viewer connected")
	return id
}

// Unregister removes a connection and its subscriptions.
func (h *Hub) Unregister(clientID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[clientID]; exists {
		conn.sender.Close()
		delete(h.connections, clientID)
		delete(h.filters, clientID)
		h.logger.Debug().Str("client_id", clientID.String()).Msg("viewer disconnected")
	}
}

// Subscribe limits a client to the given containers. No ids means every container.
func (h *Hub) Subscribe(clientID uuid.UUID, containerIDs []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(containerIDs) == 0 {
		delete(h.filters, clientID)
		return
	}
	set := make(map[string]struct{}, len(containerIDs))
	for _, id := range containerIDs {
		set[id] = struct{}{}
	}
	h.filters[clientID] = set
}

// Broadcast sends msg to every client watching containerID.
func (h *Hub) Broadcast(containerID string, msg Message) error {
	h.mu.RLock()
	targets := make(map[uuid.UUID]*Connection, len(h.connections))
	for id, conn := range h.connections {
		if f, ok := h.filters[id]; ok {
			if _, watching := f[containerID]; !watching {
				continue
			}
		}
		targets[id] = conn
	}
	h.mu.RUnlock()

	var firstErr error
	for id, conn := range targets {
		if err := conn.sender.Send(msg); err != nil && firstErr == nil {
			firstErr = err
			h.logger.Warn().Err(err).Str("client_id", id.String()).Msg("broadcast send failed")
		}
	}
	return firstErr
}

// SendTo delivers a message to a single client.
func (h *Hub) SendTo(clientID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[clientID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}
	return conn.sender.Send(msg)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Sender is the outbound side of a client connection.
type Sender interface {
	Send(msg Message) error
	Close()
}

// Connection is a hub entry.
type Connection struct {
	sender Sender
}

// Inbound message budget per client.
const (
	inboundRate  = rate.Limit(20)
	inboundBurst = 40
)

// Client wraps a WebSocket connection with a bounded send queue.
type Client struct {
	conn    *websocket.Conn
	sendCh  chan Message
	limiter *rate.Limiter
	mu      sync.Mutex
	closed  bool
	logger  zerolog.Logger
}

var _ Sender = (*Client)(nil)

// NewClient wraps a WebSocket connection.
func NewClient(conn *websocket.Conn, logger zerolog.Logger) *Client {
	return &Client{
		conn:    conn,
		sendCh:  make(chan Message, 64),
		limiter: rate.NewLimiter(inboundRate, inboundBurst),
		logger:  logger,
	}
}

// Send queues a message for delivery.
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump sends messages from the send queue.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump receives messages and calls the handler until the peer goes away.
func (c *Client) ReadPump(handler func(Message) error) {
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		if !c.limiter.Allow() {
			c.logger.Warn().Str("type", msg.Type).Msg("inbound rate exceeded; message dropped")
			continue
		}
		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Viewer connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
