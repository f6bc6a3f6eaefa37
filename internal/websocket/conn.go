package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	readTimeout  = 5 * time.Minute
)

// Conn wraps a gorilla connection and serializes outbound frames. The
// quiz stream has two producers writing to the same client, the read
// loop answering actions and the push loop forwarding ticks, while
// gorilla supports a single concurrent writer. All writes go through
// the connection mutex; reads stay unguarded since only the read loop
// consumes frames.
type Conn struct {
	ws *websocket.Conn

	writeMu sync.Mutex
}

// NewConn wraps an upgraded connection.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// WriteTyped sends a strongly-typed event payload as one JSON frame.
func (c *Conn) WriteTyped(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse frame.
func (c *Conn) WriteError(errMsg string) error {
	return c.WriteTyped(ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadRaw blocks for the next client frame and returns its payload. A
// read deadline bounds idle connections.
func (c *Conn) ReadRaw() ([]byte, error) {
	c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	_, raw, err := c.ws.ReadMessage()
	return raw, err
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
