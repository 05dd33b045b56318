package bot

import (
	"chat-relay/domain"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// Trigger is the reserved prefix that routes a chat message to command
// dispatch instead of public display.
const Trigger = "@server"

const usageHint = "Invalid command format. Use: @server <command>"

// Service is the command dispatcher. It parses raw message text into a
// command invocation and delegates to the registry. A failing handler
// is converted to an error string; it can never crash the dispatcher
// or affect other sessions.
type Service struct {
	registry *Registry
	log      *slog.Logger
}

func NewService(registry *Registry, log *slog.Logger) *Service {
	return &Service{registry: registry, log: log}
}

// IsCommand reports whether the trimmed, case-insensitive text starts
// with the bot trigger. The trigger must be a whole token: "@serveradmin"
// is a direct-message alias, not a command.
func (s *Service) IsCommand(content string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if !strings.HasPrefix(trimmed, Trigger) {
		return false
	}
	rest := trimmed[len(Trigger):]
	return rest == "" || unicode.IsSpace(rune(rest[0]))
}

// Process parses and executes a bot command, returning the reply text.
func (s *Service) Process(content string, caller domain.Caller) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Bot command panicked", "content", content, "panic", r)
			reply = fmt.Sprintf("Error processing command: %v", r)
		}
	}()

	s.log.Info("Processing bot command", "content", content, "caller", caller.DisplayName)

	invocation := s.parse(content)
	if invocation.Name == "" {
		return usageHint
	}

	handler, ok := s.registry.Get(invocation.Name)
	if !ok {
		s.log.Warn("Unknown bot command", "name", invocation.Name)
		return fmt.Sprintf("Unknown command. Available commands: %s",
			strings.Join(s.registry.Names(), ", "))
	}

	result, err := handler.Execute(invocation.Args, caller)
	if err != nil {
		s.log.Warn("Bot command failed", "name", invocation.Name, "err", err)
		return fmt.Sprintf("Error: %s", err.Error())
	}
	return result
}

// parse strips the trigger token and splits the remainder on whitespace
// runs. The first token is the command name, the rest are arguments.
func (s *Service) parse(content string) domain.Invocation {
	trimmed := strings.TrimSpace(content)
	rest := strings.TrimSpace(trimmed[len(Trigger):])

	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return domain.Invocation{}
	}
	return domain.Invocation{Name: parts[0], Args: parts[1:]}
}
