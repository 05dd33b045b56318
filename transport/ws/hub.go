// Package ws is the WebSocket transport substrate. It supplies the two
// primitives the chat core consumes: deliver-to-all-subscribers and
// connection-closed, plus the wire frames exchanged with clients.
package ws

import (
	"chat-relay/domain"
	"context"
	"encoding/json"
	"log/slog"
)

// Events is the inbound boundary of the chat core, implemented by the
// ingress controller. The hub only reports transport facts; all
// classification and session bookkeeping happens behind this interface.
type Events interface {
	Join(connectionID, displayName string) error
	ChatMessage(connectionID, sender, content string)
	Disconnect(connectionID string)
}

// Hub owns the set of active client connections and the single
// broadcast channel. Membership is serialized on the hub goroutine via
// channels, so the clients map needs no lock.
//
// Hub implements contract.Publisher (outbound) and contract.Worker
// (it runs under the supervisor).
type Hub struct {
	log        *slog.Logger
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	events     Events
}

func NewHub(log *slog.Logger, bufferSize int) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, bufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Bind wires the inbound event boundary. The hub and the ingress
// controller reference each other, so this happens after construction.
func (h *Hub) Bind(events Events) {
	h.events = events
}

// Publish encodes a message onto the broadcast channel. Delivery is
// fire-and-forget; if the channel is full the message is dropped with
// a warning rather than blocking a core component.
func (h *Hub) Publish(msg domain.OutboundMessage) {
	h.enqueue(msg)
}

// PublishPresence broadcasts the structured USER_LIST payload.
func (h *Hub) PublishPresence(p domain.Presence) {
	h.enqueue(p)
}

func (h *Hub) enqueue(payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("Failed to encode broadcast payload", "err", err)
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		h.log.Warn("Broadcast channel full, dropping message")
	}
}

// Run pumps the hub until the context is canceled. It must be the only
// goroutine touching the clients map.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.log.Debug("Stopping hub")
			h.closeAll()
			return ctx.Err()

		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("Client registered", "connectionID", client.ConnectionID())
			h.sendWelcome(client)

		case client := <-h.unregister:
			h.drop(client)

		case raw := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- raw:
				default:
					// A full send buffer means the client is stuck or
					// gone. Dropping it keeps the hub from stalling.
					h.log.Warn("Client buffer full, forcing unregister",
						"connectionID", client.ConnectionID())
					h.drop(client)
				}
			}
		}
	}
}

// sendWelcome tells a client its own connection ID so it can apply
// target filtering. Sent point-to-point, not broadcast.
func (h *Hub) sendWelcome(client *Client) {
	raw, err := newWelcome(client.ConnectionID())
	if err != nil {
		h.log.Error("Failed to encode welcome frame", "err", err)
		return
	}
	select {
	case client.send <- raw:
	default:
		h.log.Warn("Welcome frame dropped", "connectionID", client.ConnectionID())
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.log.Info("Client unregistered", "connectionID", client.ConnectionID())
	if h.events != nil {
		h.events.Disconnect(client.ConnectionID())
	}
}

func (h *Hub) closeAll() {
	for client := range h.clients {
		h.drop(client)
	}
}
