// Package ingress is the boundary between the transport and the chat
// core. It validates joins, classifies inbound chat messages and routes
// them to the dispatcher, the registry or the router.
package ingress

import (
	"chat-relay/bot"
	"chat-relay/contract"
	"chat-relay/domain"
	apperrors "chat-relay/errors"
	"chat-relay/router"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"github.com/go-playground/validator/v10"
)

// adminAlias addresses the current admin without knowing their name.
const adminAlias = "@serveradmin"

type joinRequest struct {
	DisplayName string `validate:"required"`
}

// Controller receives inbound transport events. Classification of a
// chat message is prefix-based: the bot trigger routes to command
// dispatch, any other @name opens a direct message, everything else is
// a public broadcast.
type Controller struct {
	registry  contract.Registry
	router    *router.Router
	bot       *bot.Service
	publisher contract.Publisher
	validate  *validator.Validate
	log       *slog.Logger
}

func NewController(registry contract.Registry, r *router.Router, b *bot.Service,
	publisher contract.Publisher, log *slog.Logger) *Controller {
	return &Controller{
		registry:  registry,
		router:    r,
		bot:       b,
		publisher: publisher,
		validate:  validator.New(),
		log:       log,
	}
}

// Join validates a requested display name and registers the session.
// A rejected join publishes a JOIN_REJECTED message targeted at the
// requesting connection and never touches the registry.
func (c *Controller) Join(connectionID, displayName string) error {
	name := strings.TrimSpace(displayName)

	if err := c.validate.Struct(joinRequest{DisplayName: name}); err != nil {
		c.log.Warn("Rejected empty username", "connectionID", connectionID)
		c.reject(connectionID, "Username cannot be empty.")
		return apperrors.ErrEmptyUsername
	}

	if _, taken := c.registry.ResolveConnectionID(name); taken {
		c.log.Warn("Rejected duplicate username", "connectionID", connectionID, "user", name)
		c.reject(connectionID, fmt.Sprintf("Username '%s' is already taken.", name))
		return apperrors.ErrUsernameTaken
	}

	c.registry.AddSession(connectionID, name)
	c.publisher.Publish(domain.NewMessage(domain.KindSystem, domain.SenderSystem,
		fmt.Sprintf("%s has joined the chat.", name)))
	return nil
}

// ChatMessage classifies and routes one inbound message.
func (c *Controller) ChatMessage(connectionID, sender, content string) {
	trimmed := strings.TrimSpace(content)

	if c.bot.IsCommand(trimmed) {
		c.handleBotCommand(connectionID, sender, trimmed)
		return
	}

	if strings.HasPrefix(trimmed, "@") {
		c.handleDirectMessage(connectionID, sender, trimmed)
		return
	}

	msg := domain.NewMessage(domain.KindChat, sender, content)
	msg.Lang = detectLang(content)
	c.log.Debug("Broadcasting public message", "sender", sender, "lang", msg.Lang)
	c.router.Publish(msg)
}

// Disconnect removes the session bound to a closed connection.
func (c *Controller) Disconnect(connectionID string) {
	c.registry.RemoveSession(connectionID)
}

func (c *Controller) handleBotCommand(connectionID, sender, content string) {
	c.log.Info("Processing bot command", "sender", sender, "content", content)

	reply := c.bot.Process(content, domain.Caller{
		ConnectionID: connectionID,
		DisplayName:  sender,
	})
	c.router.Publish(domain.NewTargetedMessage(
		domain.KindBotReply, domain.SenderBot, reply, connectionID))
}

func (c *Controller) handleDirectMessage(connectionID, sender, content string) {
	recipientToken := content
	var body string
	if i := strings.IndexFunc(content, unicode.IsSpace); i >= 0 {
		recipientToken = content[:i]
		body = strings.TrimSpace(content[i:])
	}

	var result string
	if strings.EqualFold(recipientToken, adminAlias) {
		result = c.router.RouteAdminMessage(sender, connectionID, body)
	} else {
		recipient := strings.TrimPrefix(recipientToken, "@")
		result = c.router.RouteDirectMessage(sender, connectionID, recipient, body)
	}
	c.log.Info("Direct message handled", "sender", sender, "result", result)
}

func (c *Controller) reject(connectionID, reason string) {
	c.publisher.Publish(domain.NewTargetedMessage(
		domain.KindJoinRejected, domain.SenderSystem, reason, connectionID))
}

// detectLang tags public chat with an ISO-639-1 code for clients that
// display or filter by language. Unrecognized content yields an empty
// tag.
func detectLang(content string) string {
	info := whatlanggo.Detect(content)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
