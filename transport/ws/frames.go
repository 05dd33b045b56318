package ws

import (
	"chat-relay/domain"
	"encoding/json"
)

// Inbound frame types accepted from clients.
const (
	FrameJoin = "JOIN"
	FrameChat = "CHAT"
)

// welcomeType marks the frame carrying a client's own connection ID.
// It is sent once, directly to the new connection, never broadcast.
const welcomeType = "WELCOME"

// InboundFrame is one message read from a client socket.
type InboundFrame struct {
	Type    string `json:"type"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

type welcomeFrame struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId"`
}

func newWelcome(connectionID string) ([]byte, error) {
	return json.Marshal(welcomeFrame{Type: welcomeType, ConnectionID: connectionID})
}

// ShouldRender implements the receiver-side half of the target-filtering
// contract: every client receives every broadcast frame and must suppress
// rendering of messages addressed to a different connection. This is the
// load-bearing piece of the direct-message feature, since the relay
// itself never filters.
func ShouldRender(msg domain.OutboundMessage, ownConnectionID string) bool {
	return msg.IsBroadcast() || msg.Target == ownConnectionID
}
