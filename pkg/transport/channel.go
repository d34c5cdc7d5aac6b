// Package transport owns the single persistent WebSocket connection to
// the crawl worker: endpoint derivation, connect/disconnect lifecycle,
// and message framing in both directions.
package transport

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Rachel1809/gmaps-scraper/pkg/debug"
	"github.com/Rachel1809/gmaps-scraper/pkg/protocol"
)

// ErrChannelClosed is returned by Send after the connection is gone.
var ErrChannelClosed = errors.New("transport channel closed")

// Endpoint derives the worker URL from the access context: plain ws on
// the configured host and port by default, upgraded to wss on the same
// host (default port) when the host matches a recognized public-tunnel
// suffix.
func Endpoint(host string, port int, tunnelHosts []string) string {
	h := strings.TrimSpace(host)
	for _, suffix := range tunnelHosts {
		if suffix != "" && strings.HasSuffix(h, suffix) {
			return (&url.URL{Scheme: "wss", Host: h, Path: "/ws"}).String()
		}
	}
	return (&url.URL{Scheme: "ws", Host: fmt.Sprintf("%s:%d", h, port), Path: "/ws"}).String()
}

// Channel is one persistent bidirectional connection to the worker.
// Inbound frames are decoded and delivered in arrival order on
// Events(); Closed() fires exactly once when the connection is lost.
//
// Exactly one channel exists per application lifetime: Dial releases
// the previous instance's resources before connecting.
type Channel struct {
	endpoint string
	conn     *websocket.Conn

	events chan protocol.Event
	closed chan error

	writeMu   sync.Mutex
	closeOnce sync.Once
}

var (
	currentMu sync.Mutex
	current   *Channel
)

// Dial connects to the worker at the given endpoint. Any previously
// dialed channel is closed first. The returned channel emits a
// synthetic log event once the connection is open.
func Dial(endpoint string) (*Channel, error) {
	currentMu.Lock()
	if current != nil {
		current.Close()
		current = nil
	}
	currentMu.Unlock()

	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing worker at %s: %w", endpoint, err)
	}

	c := &Channel{
		endpoint: endpoint,
		conn:     conn,
		events:   make(chan protocol.Event, 64),
		closed:   make(chan error, 1),
	}

	currentMu.Lock()
	current = c
	currentMu.Unlock()

	c.events <- protocol.Event{
		Type: protocol.EventLog,
		Log:  fmt.Sprintf("> Connected to %s", endpoint),
	}
	go c.readPump()

	return c, nil
}

// Endpoint returns the URL this channel was dialed against.
func (c *Channel) Endpoint() string { return c.endpoint }

// Events returns the inbound event stream. The channel is closed after
// the connection is lost; drain Closed() for the reason.
func (c *Channel) Events() <-chan protocol.Event { return c.events }

// Closed fires exactly once when the connection is gone, carrying the
// terminating error (nil on a clean local Close).
func (c *Channel) Closed() <-chan error { return c.closed }

// Send writes one control frame. Safe for concurrent use; returns
// ErrChannelClosed once the connection is gone.
func (c *Channel) Send(cmd protocol.Command) error {
	data, err := cmd.Encode()
	if err != nil {
		return fmt.Errorf("encoding command: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("%w: %v", ErrChannelClosed, err)
	}
	debug.Log("sent %s frame (%d bytes)", cmd.Action, len(data))
	return nil
}

// Close releases the connection. Idempotent.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
}

// readPump decodes inbound text frames onto the events channel until
// the connection dies. There is no timeout here: a stalled worker is
// only detected via explicit connection closure, and reconnection is a
// user-initiated action.
func (c *Channel) readPump() {
	defer func() {
		close(c.events)
		c.Close()
	}()

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			c.closed <- err
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		ev, err := protocol.DecodeEvent(data)
		if err != nil {
			// The worker is trusted, so a malformed frame is dropped
			// with a visible trace rather than killing the connection.
			debug.Log("dropping malformed frame: %v", err)
			c.events <- protocol.Event{
				Type: protocol.EventLog,
				Log:  fmt.Sprintf("! Dropped malformed frame: %v", err),
			}
			continue
		}
		c.events <- ev
	}
}
