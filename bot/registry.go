// Package bot parses the constrained @server command grammar and routes
// invocations to registered handlers.
package bot

import (
	"chat-relay/contract"
	apperrors "chat-relay/errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Registry maps lower-cased command names to their handlers. It is
// built once at startup and immutable afterward.
type Registry struct {
	commands map[string]contract.Handler
}

// NewRegistry indexes the given handlers by lower-cased name.
// Registering two handlers under the same name is a configuration
// error and fails fast instead of letting the last one silently win.
func NewRegistry(log *slog.Logger, handlers ...contract.Handler) (*Registry, error) {
	commands := make(map[string]contract.Handler, len(handlers))
	for _, h := range handlers {
		name := strings.ToLower(h.Name())
		if _, ok := commands[name]; ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateCommand, name)
		}
		commands[name] = h
		log.Info("Registered bot command", "name", name)
	}
	log.Info("Bot command registry initialized", "commands", len(commands))
	return &Registry{commands: commands}, nil
}

// Get resolves a command by name, case-insensitively.
func (r *Registry) Get(name string) (contract.Handler, bool) {
	h, ok := r.commands[strings.ToLower(name)]
	return h, ok
}

// Names returns all registered command names in lexicographic order.
func (r *Registry) Names() []string {
	names := lo.Keys(r.commands)
	sort.Strings(names)
	return names
}
