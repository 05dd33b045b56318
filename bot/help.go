package bot

import "chat-relay/domain"

const helpText = `Available Commands:
-------------------
@server help            - Show this help message
@server info            - Show your client info
@server math <expr>     - Calculate a math expression
@server server-info     - Show server statistics
@serveradmin <message>  - Send a private message to the Admin
@<username> <message>   - Send a private message to a user`

// HelpHandler returns the static command reference.
type HelpHandler struct{}

func (HelpHandler) Name() string { return "help" }

func (HelpHandler) Execute(_ []string, _ domain.Caller) (string, error) {
	return helpText, nil
}
