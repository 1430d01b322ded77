package gateway

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// client is one websocket connection as seen by the relay. The write
// mutex serializes frames from the router's fan-out with any other
// writer; fiber's websocket connection does not allow concurrent writes.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes one text frame to the connection.
func (c *client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
