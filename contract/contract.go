//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"
	"time"
)

// Publisher is the handle onto the broadcast-only transport substrate.
// Publishing never fails from the core's point of view; delivery problems
// belong to the transport.
type Publisher interface {
	Publish(msg domain.OutboundMessage)
	PublishPresence(p domain.Presence)
}

// Registry is the session registry surface consumed by the router,
// the bot handlers and the ingress controller.
type Registry interface {
	AddSession(connectionID, displayName string)
	RemoveSession(connectionID string)
	IsAdmin(connectionID string) bool
	AdminConnectionID() (string, bool)
	AdminDisplayName() string
	ResolveConnectionID(displayName string) (string, bool)
	Count() int
	DisplayNames() []string
	Uptime() time.Duration
}

// Handler is one bot command. Execute returns the user-facing reply;
// an error is converted to an error string at the dispatcher boundary,
// never propagated further.
type Handler interface {
	Name() string
	Execute(args []string, caller domain.Caller) (string, error)
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
