package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 32
)

// Client is a single WebSocket connection owned by one user
type Client struct {
	ID   string
	Role string
	Send chan *Message

	hub    *Hub
	conn   *websocket.Conn
	logger *zap.Logger

	mu        sync.Mutex
	tripID    string
	closeOnce sync.Once
}

// NewClient creates a client for an upgraded connection
func NewClient(id string, conn *websocket.Conn, hub *Hub, role string, logger *zap.Logger) *Client {
	return &Client{
		ID:     id,
		Role:   role,
		Send:   make(chan *Message, sendBufferSize),
		hub:    hub,
		conn:   conn,
		logger: logger,
	}
}

func (c *Client) setTrip(tripID string) {
	c.mu.Lock()
	c.tripID = tripID
	c.mu.Unlock()
}

// GetTrip returns the trip the client is currently watching, if any
func (c *Client) GetTrip() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tripID
}

// trySend queues a message without blocking, dropping it if the buffer is full
func (c *Client) trySend(msg *Message) {
	select {
	case c.Send <- msg:
	default:
		c.logger.Warn("Dropping message for slow client", zap.String("client_id", c.ID))
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// ReadPump reads inbound messages from the connection and dispatches them
// to the hub until the connection closes
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket read error",
					zap.String("client_id", c.ID),
					zap.Error(err),
				)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Debug("Ignoring malformed message",
				zap.String("client_id", c.ID),
				zap.Error(err),
			)
			continue
		}

		c.hub.HandleMessage(c, &msg)
	}
}

// WritePump writes queued messages and pings to the connection until the
// send channel is closed
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn("WebSocket write error",
					zap.String("client_id", c.ID),
					zap.Error(err),
				)
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
