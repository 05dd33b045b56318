// Package router owns the single outbound broadcast channel and the
// point-to-point semantics layered on top of it.
package router

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"fmt"
	"log/slog"
)

// Router publishes outbound messages. It performs no server-side
// filtering: a targeted message is still broadcast, and the receiving
// clients are trusted to honor the target. Broadcasting keeps the
// router free of per-recipient connection bookkeeping.
type Router struct {
	publisher contract.Publisher
	registry  contract.Registry
	log       *slog.Logger
}

func NewRouter(publisher contract.Publisher, registry contract.Registry, log *slog.Logger) *Router {
	return &Router{publisher: publisher, registry: registry, log: log}
}

// Publish sends a message to the broadcast channel unconditionally,
// regardless of its target. Transport delivery failures are the
// transport's concern and are not retried here.
func (r *Router) Publish(msg domain.OutboundMessage) {
	r.publisher.Publish(msg)
}

// RouteDirectMessage delivers a private message to the named recipient.
//
// Two messages are published on a hit: the recipient's copy and a
// sender-side echo, so the sender's own client can render what it sent.
// On a miss nothing is published and a user-facing status is returned.
func (r *Router) RouteDirectMessage(senderName, senderConnectionID, recipientName, content string) string {
	r.log.Info("Routing direct message", "from", senderName, "to", recipientName)

	recipientID, ok := r.registry.ResolveConnectionID(recipientName)
	if !ok {
		r.log.Warn("Direct message recipient not found", "recipient", recipientName)
		return fmt.Sprintf("User '%s' not found or offline.", recipientName)
	}

	return r.deliver(senderName, senderConnectionID, recipientName, recipientID, content)
}

// RouteAdminMessage delivers a private message to the current admin,
// resolved by connection rather than by display name.
func (r *Router) RouteAdminMessage(senderName, senderConnectionID, content string) string {
	adminID, ok := r.registry.AdminConnectionID()
	if !ok {
		r.log.Warn("Admin message dropped, no admin online", "from", senderName)
		return "No admin is currently online."
	}

	return r.deliver(senderName, senderConnectionID, r.registry.AdminDisplayName(), adminID, content)
}

func (r *Router) deliver(senderName, senderConnectionID, recipientName, recipientConnectionID, content string) string {
	r.publisher.Publish(domain.NewTargetedMessage(
		domain.KindChat, senderName, content, recipientConnectionID))

	// Echo to the sender: the router has no view into the sender's UI,
	// so the sent message is mirrored back through the same channel.
	r.publisher.Publish(domain.NewTargetedMessage(
		domain.KindChat, senderName, content, senderConnectionID))

	return fmt.Sprintf("Private message sent to %s", recipientName)
}
