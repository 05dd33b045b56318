package bot

import (
	"chat-relay/domain"
	apperrors "chat-relay/errors"
	"chat-relay/mocks"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	ctrl := gomock.NewController(t)
	registryStats := mocks.NewMockRegistry(ctrl)
	registryStats.EXPECT().Count().Return(0).AnyTimes()
	registryStats.EXPECT().Uptime().Return(time.Duration(0)).AnyTimes()
	registryStats.EXPECT().AdminDisplayName().Return(domain.NoAdmin).AnyTimes()

	registry, err := NewRegistry(log,
		HelpHandler{},
		InfoHandler{},
		MathHandler{},
		NewServerInfoHandler(registryStats),
	)
	require.NoError(t, err)
	return NewService(registry, log)
}

func TestService_IsCommand(t *testing.T) {
	req := require.New(t)
	service := newTestService(t)

	req.True(service.IsCommand("@server help"))
	req.True(service.IsCommand("  @SERVER INFO  "))
	req.True(service.IsCommand("@server"))

	req.False(service.IsCommand("hello everyone"))
	req.False(service.IsCommand("@alice hi"))
	// The admin alias is a direct message, not a command.
	req.False(service.IsCommand("@serveradmin please help"))
}

func TestService_Help_ListsAllCommands(t *testing.T) {
	req := require.New(t)
	service := newTestService(t)

	// When asking for help
	reply := service.Process("@server help", domain.Caller{})

	// Then every registered command is documented
	for _, name := range []string{"help", "info", "math", "server-info"} {
		req.Contains(reply, name)
	}
}

func TestService_UnknownCommand(t *testing.T) {
	req := require.New(t)
	service := newTestService(t)

	reply := service.Process("@server unknown", domain.Caller{})

	req.Equal("Unknown command. Available commands: help, info, math, server-info", reply)
}

func TestService_CommandNamesAreCaseInsensitive(t *testing.T) {
	req := require.New(t)
	service := newTestService(t)
	caller := domain.Caller{ConnectionID: "conn-1", DisplayName: "Alice"}

	lower := service.Process("@server info", caller)
	upper := service.Process("@SERVER INFO", caller)

	req.Equal(lower, upper)
	req.Contains(lower, "conn-1")
	req.Contains(lower, "Alice")
}

func TestService_EmptyCommandReturnsUsageHint(t *testing.T) {
	req := require.New(t)
	service := newTestService(t)

	req.Equal(usageHint, service.Process("@server", domain.Caller{}))
	req.Equal(usageHint, service.Process("@server   ", domain.Caller{}))
}

func TestService_Info_AnonymousSentinel(t *testing.T) {
	req := require.New(t)
	service := newTestService(t)

	reply := service.Process("@server info", domain.Caller{ConnectionID: "conn-1"})

	req.Contains(reply, "anonym")
}

func TestService_Math_EndToEnd(t *testing.T) {
	req := require.New(t)
	service := newTestService(t)
	caller := domain.Caller{ConnectionID: "conn-1"}

	// Split arguments are concatenated before evaluation.
	req.Equal("14", service.Process("@server math 2 + 3 * 4", caller))
	req.Equal("14", service.Process("@server math 2+3*4", caller))
	req.Equal("5", service.Process("@server math 2.5+2.5", caller))

	req.Contains(service.Process("@server math 1/0", caller), "Error: division by zero")
	req.Contains(service.Process("@server math 2++3", caller), "Error: invalid expression")
	req.Contains(service.Process("@server math", caller), "Usage: @server math")
}

func TestService_HandlerErrorIsContained(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	failing := mocks.NewMockHandler(ctrl)
	failing.EXPECT().Name().Return("boom").AnyTimes()
	failing.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return("", apperrors.ErrRecipientNotFound)

	registry, err := NewRegistry(log, failing)
	req.NoError(err)
	service := NewService(registry, log)

	reply := service.Process("@server boom", domain.Caller{})
	req.Equal("Error: recipient not found or offline", reply)
}

func TestService_HandlerPanicIsContained(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	panicking := mocks.NewMockHandler(ctrl)
	panicking.EXPECT().Name().Return("boom").AnyTimes()
	panicking.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func([]string, domain.Caller) (string, error) {
			panic("handler exploded")
		})

	registry, err := NewRegistry(log, panicking)
	req.NoError(err)
	service := NewService(registry, log)

	// A panicking handler must not crash the dispatcher.
	reply := service.Process("@server boom", domain.Caller{})
	req.Contains(reply, "Error processing command:")
	req.Contains(reply, "handler exploded")
}

func TestNewRegistry_RejectsDuplicateNames(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	// Given two handlers registered under the same name, differing
	// only in case
	first := mocks.NewMockHandler(ctrl)
	first.EXPECT().Name().Return("Info").AnyTimes()
	second := mocks.NewMockHandler(ctrl)
	second.EXPECT().Name().Return("INFO").AnyTimes()

	// When building the registry
	_, err := NewRegistry(log, first, second)

	// Then startup fails fast instead of silently shadowing
	req.ErrorIs(err, apperrors.ErrDuplicateCommand)
}
