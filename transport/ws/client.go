package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the client.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong. Must be greater than pingPeriod.
	pongWait = 60 * time.Second

	// Ping interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size.
	maxMessageSize = 4096

	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The relay has no origin policy; browser clients connect from
	// anywhere. Tighten this when serving a fixed frontend.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client wraps one WebSocket connection. Each connection gets an opaque
// unique connection ID at upgrade time; the display name is bound only
// after the join is accepted by the ingress controller.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger

	connectionID string
	displayName  string // written by readPump only
}

func (c *Client) ConnectionID() string { return c.connectionID }

// ServeWS upgrades an HTTP request and starts the connection pumps.
func ServeWS(hub *Hub, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("WebSocket upgrade failed", "err", err)
			return
		}

		client := &Client{
			hub:          hub,
			conn:         conn,
			send:         make(chan []byte, sendBufferSize),
			log:          log,
			connectionID: uuid.NewString(),
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump pumps frames from the socket into the ingress boundary.
// It exits when the connection errors, which also detects the client
// closing the socket; the deferred unregister is what turns a closed
// connection into a session removal.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
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
				c.log.Warn("Unexpected close", "connectionID", c.connectionID, "err", err)
			}
			return
		}

		var frame InboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.Warn("Dropping malformed frame", "connectionID", c.connectionID, "err", err)
			continue
		}
		c.dispatch(frame)
	}
}

func (c *Client) dispatch(frame InboundFrame) {
	switch frame.Type {
	case FrameJoin:
		if c.displayName != "" {
			c.log.Warn("Duplicate join ignored", "connectionID", c.connectionID)
			return
		}
		name := strings.TrimSpace(frame.Sender)
		if err := c.hub.events.Join(c.connectionID, name); err != nil {
			return
		}
		c.displayName = name

	case FrameChat:
		if c.displayName == "" {
			c.log.Warn("Chat before join ignored", "connectionID", c.connectionID)
			return
		}
		c.hub.events.ChatMessage(c.connectionID, c.displayName, frame.Content)

	default:
		c.log.Warn("Unknown frame type", "type", frame.Type, "connectionID", c.connectionID)
	}
}

// writePump pumps broadcast frames from the hub to the socket and keeps
// the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel: the client was dropped.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
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
