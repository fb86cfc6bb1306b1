package remote

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// conn serializes writes on a websocket connection. gorilla/websocket
// allows one concurrent writer.
type conn struct {
	ws           *websocket.Conn
	mu           sync.Mutex
	writeTimeout time.Duration
}

func newConn(ws *websocket.Conn, writeTimeout time.Duration) *conn {
	return &conn{ws: ws, writeTimeout: writeTimeout}
}

func (c *conn) write(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.ws.WriteMessage(websocket.BinaryMessage, frame)
}

// close sends a close message and closes the connection.
func (c *conn) close(code int, text string) error {
	c.mu.Lock()
	c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(time.Second),
	)
	c.mu.Unlock()
	return c.ws.Close()
}
