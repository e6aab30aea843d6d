package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/kingshubham139/university-chat/internal/chat"
)

// Conn owns one websocket and its outbound event queue.
type Conn struct {
	ws  *websocket.Conn
	out chan chat.Event
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws, out: make(chan chat.Event, 256)}
}

// Deliver queues an event without blocking. A full queue drops the event;
// a client that slow catches up through the history endpoint.
func (c *Conn) Deliver(ev chat.Event) bool {
	select {
	case c.out <- ev:
		return true
	default:
		return false
	}
}

// Read blocks until it receives a text/binary message
// Returns false if connection is closed
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop encodes and sends outbound events + periodic pings.
// Exits when ctx is cancelled. Marshalling happens here, on the
// connection's own goroutine, never under a room lock.
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case ev := <-c.out:
			raw, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			_ = c.ws.Write(ctx, websocket.MessageText, raw)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close closes the WS connection normally
func (c *Conn) Close() error { return c.ws.Close(websocket.StatusNormalClosure, "bye") }
