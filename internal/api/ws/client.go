package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client adapts a WebSocket connection to paint.Conn
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(id string, conn *websocket.Conn, buffer int) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

func (c *client) ID() string {
	return c.id
}

// Send queues frame without blocking
func (c *client) Send(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Close asks the writer to shut the connection down
func (c *client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
