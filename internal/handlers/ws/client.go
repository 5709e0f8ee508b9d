package ws

import (
	"sync"
	"time"

	"github.com/geonobo/geonobo/internal/protocol"
	"github.com/gorilla/websocket"
)

// writeTimeout bounds each outbound write so a stalled peer cannot
// block the goroutine delivering a broadcast.
const writeTimeout = 10 * time.Second

// client is one connected websocket session. Gorilla connections allow
// a single concurrent writer, so every write goes through writeMu.
type client struct {
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex
}

// send writes one event to the connection. Write failures are returned
// to the caller; the read loop owns connection teardown.
func (c *client) send(event protocol.Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(event)
}

func (c *client) close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.Close()
}
