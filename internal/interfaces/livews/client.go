package livews

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

// client is one browser subscribed to a single game.
type client struct {
	id     string
	gameID int64
	conn   *websocket.Conn
	send   chan []byte

	mu       sync.Mutex
	closed   bool
	queued   bool
	lastSent uint64
}

func newClient(id string, gameID int64, conn *websocket.Conn) *client {
	return &client{
		id:     id,
		gameID: gameID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// trySend never blocks; false means the client is too slow. Dashboards at or
// below the last queued sequence are skipped so a browser never steps back,
// and a closed client silently drops the message.
func (c *client) trySend(sequence uint64, msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	if c.queued && sequence <= c.lastSent {
		return true
	}
	select {
	case c.send <- msg:
		c.queued = true
		c.lastSent = sequence
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump only services control frames; clients never send data frames
// that matter, so anything else is discarded.
func (c *client) readPump(unregister func(*client)) {
	defer func() {
		unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
