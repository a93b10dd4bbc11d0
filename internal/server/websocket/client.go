package websocket

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one live socket. ConnID is the opaque connection identity game
// seats are keyed by; it is unique per connection, not per user, so the same
// account can sit at different tables from different tabs.
type Client struct {
	ConnID   string
	UserID   string
	Username string

	conn *websocket.Conn
	send chan []byte
}

func NewClient(conn *websocket.Conn, userID, username string) *Client {
	return &Client{
		ConnID:   uuid.New().String(),
		UserID:   userID,
		Username: username,
		conn:     conn,
		send:     make(chan []byte, 256),
	}
}

// Send marshals v and queues it to this client only.
func (c *Client) Send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[WS] Failed to marshal message for client %s: %v", c.ConnID, err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Outbox exposes the send queue for tests that assert on delivered frames.
func (c *Client) Outbox() <-chan []byte {
	return c.send
}

// ReadPump reads frames and hands them to handle until the socket closes.
// It blocks and should run on the connection's goroutine; cleanup is the
// caller's responsibility so leave bookkeeping always runs.
func (c *Client) ReadPump(handle func(data []byte)) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		handle(data)
	}
}

// WritePump drains the send queue onto the socket.
func (c *Client) WritePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Close stops the write pump and closes the socket.
func (c *Client) Close() {
	close(c.send)
}
