// Package domain contains core concepts of the chat relay.
// This file defines the outbound message event and its kinds.
// Messages are immutable and carry no routing logic themselves.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind classifies an outbound message for receiving clients.
type MessageKind string

const (
	KindChat         MessageKind = "CHAT"
	KindBotReply     MessageKind = "BOT_REPLY"
	KindSystem       MessageKind = "SYSTEM"
	KindJoinRejected MessageKind = "JOIN_REJECTED"
)

// SenderBot labels replies produced by the command dispatcher.
const SenderBot = "Server Bot"

// SenderSystem labels presence and admin notifications.
const SenderSystem = "System"

// OutboundMessage is a single event published on the broadcast channel.
//
// Target carries a connection ID when the message is addressed to exactly
// one client. The relay still broadcasts it; every receiving client must
// suppress rendering when Target is set and differs from its own
// connection ID. An empty Target means deliver-to-all.
type OutboundMessage struct {
	ID      uuid.UUID   `json:"id"`
	Content string      `json:"content"`
	Sender  string      `json:"sender"`
	Kind    MessageKind `json:"kind"`
	Target  string      `json:"target,omitempty"`
	Lang    string      `json:"lang,omitempty"`
	At      time.Time   `json:"at"`
}

// NewMessage builds a broadcast message of the given kind.
func NewMessage(kind MessageKind, sender, content string) OutboundMessage {
	return OutboundMessage{
		ID:      uuid.New(),
		Content: content,
		Sender:  sender,
		Kind:    kind,
		At:      time.Now().UTC(),
	}
}

// NewTargetedMessage builds a message addressed to a single connection.
func NewTargetedMessage(kind MessageKind, sender, content, target string) OutboundMessage {
	msg := NewMessage(kind, sender, content)
	msg.Target = target
	return msg
}

// IsBroadcast reports whether every client should render the message.
func (m OutboundMessage) IsBroadcast() bool {
	return m.Target == ""
}
