package bot

import (
	"chat-relay/domain"
	"fmt"
)

const anonymousName = "anonym"

// InfoHandler reports the caller's connection ID and display name.
type InfoHandler struct{}

func (InfoHandler) Name() string { return "info" }

func (InfoHandler) Execute(_ []string, caller domain.Caller) (string, error) {
	connectionID := caller.ConnectionID
	if connectionID == "" {
		connectionID = "unknown"
	}
	name := caller.DisplayName
	if name == "" {
		name = anonymousName
	}
	return fmt.Sprintf("Client-ID: %s\nClient-Name: %s", connectionID, name), nil
}
