package session

import (
	"chat-relay/domain"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures everything the registry publishes.
type recordingPublisher struct {
	mu        sync.Mutex
	messages  []domain.OutboundMessage
	presences []domain.Presence
}

func (p *recordingPublisher) Publish(msg domain.OutboundMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) PublishPresence(presence domain.Presence) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presences = append(p.presences, presence)
}

func (p *recordingPublisher) lastPresence() domain.Presence {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.presences[len(p.presences)-1]
}

func newTestRegistry() (*Registry, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewRegistry(pub, slog.New(slog.DiscardHandler)), pub
}

func TestRegistry_AddSession_FirstBecomesAdmin(t *testing.T) {
	req := require.New(t)
	registry, pub := newTestRegistry()
	connectionID := uuid.NewString()

	// Given an empty registry
	req.Equal(domain.NoAdmin, registry.AdminDisplayName())

	// When the first participant joins
	registry.AddSession(connectionID, "Alice")

	// Then they are the admin
	req.True(registry.IsAdmin(connectionID))
	req.Equal("Alice", registry.AdminDisplayName())

	adminID, ok := registry.AdminConnectionID()
	req.True(ok)
	req.Equal(connectionID, adminID)

	// And an admin-change notification was published
	req.Len(pub.messages, 1)
	req.Equal(domain.KindSystem, pub.messages[0].Kind)
	req.Contains(pub.messages[0].Content, "Alice is now the Server Admin.")

	// And a presence notification carries the user list and admin
	req.Len(pub.presences, 1)
	req.Equal(domain.PresenceType, pub.presences[0].Type)
	req.Equal([]string{"Alice"}, pub.presences[0].Users)
	req.Equal("Alice", pub.presences[0].Admin)
}

func TestRegistry_AddSession_IsIdempotent(t *testing.T) {
	req := require.New(t)
	registry, pub := newTestRegistry()
	connectionID := uuid.NewString()

	// Given a registered session
	registry.AddSession(connectionID, "Alice")
	req.Equal(1, registry.Count())

	// When the same connection joins again
	registry.AddSession(connectionID, "Alice")

	// Then nothing changed and nothing new was published
	req.Equal(1, registry.Count())
	req.Len(pub.presences, 1)
	req.Len(pub.messages, 1)
}

func TestRegistry_SecondJoinDoesNotChangeAdmin(t *testing.T) {
	req := require.New(t)
	registry, pub := newTestRegistry()
	first := uuid.NewString()
	second := uuid.NewString()

	// When two participants join in order
	registry.AddSession(first, "Alice")
	registry.AddSession(second, "Bob")

	// Then only the first is admin
	req.True(registry.IsAdmin(first))
	req.False(registry.IsAdmin(second))

	// And only one admin-change message was ever published
	req.Len(pub.messages, 1)

	// And the latest presence lists both users sorted
	req.Equal([]string{"Alice", "Bob"}, pub.lastPresence().Users)
	req.Equal("Alice", pub.lastPresence().Admin)
}

func TestRegistry_RemoveNonAdmin_KeepsAdmin(t *testing.T) {
	req := require.New(t)
	registry, pub := newTestRegistry()
	first := uuid.NewString()
	second := uuid.NewString()
	registry.AddSession(first, "Alice")
	registry.AddSession(second, "Bob")

	// When a non-admin leaves
	registry.RemoveSession(second)

	// Then the admin is unchanged and no new admin was announced
	req.True(registry.IsAdmin(first))
	req.Len(pub.messages, 1)

	// And presence reflects the removal
	req.Equal([]string{"Alice"}, pub.lastPresence().Users)
}

func TestRegistry_RemoveAdmin_PromotesNextInLine(t *testing.T) {
	req := require.New(t)
	registry, pub := newTestRegistry()
	first := uuid.NewString()
	second := uuid.NewString()
	third := uuid.NewString()
	registry.AddSession(first, "Alice")
	registry.AddSession(second, "Bob")
	registry.AddSession(third, "Carol")

	// When the admin disconnects
	registry.RemoveSession(first)

	// Then the earliest survivor is the new admin
	req.True(registry.IsAdmin(second))
	req.Equal("Bob", registry.AdminDisplayName())

	// And the promotion was announced
	last := pub.messages[len(pub.messages)-1]
	req.Contains(last.Content, "Bob is now the Server Admin.")
}

func TestRegistry_RemoveLastSession_NoAdminLeft(t *testing.T) {
	req := require.New(t)
	registry, pub := newTestRegistry()
	connectionID := uuid.NewString()
	registry.AddSession(connectionID, "Alice")

	// When the only participant leaves
	registry.RemoveSession(connectionID)

	// Then there is no admin and presence uses the sentinel
	req.Equal(0, registry.Count())
	req.Equal(domain.NoAdmin, registry.AdminDisplayName())

	_, ok := registry.AdminConnectionID()
	req.False(ok)

	req.Equal(domain.NoAdmin, pub.lastPresence().Admin)
	req.Empty(pub.lastPresence().Users)
}

func TestRegistry_RemoveUnknownSession_IsNoOp(t *testing.T) {
	req := require.New(t)
	registry, pub := newTestRegistry()
	registry.AddSession(uuid.NewString(), "Alice")

	// When removing a connection that never joined
	registry.RemoveSession(uuid.NewString())

	// Then state and notifications are untouched
	req.Equal(1, registry.Count())
	req.Len(pub.presences, 1)
}

func TestRegistry_RoundTrip(t *testing.T) {
	req := require.New(t)
	registry, _ := newTestRegistry()
	a := uuid.NewString()
	b := uuid.NewString()

	// When A joins, B joins, A leaves
	registry.AddSession(a, "Alice")
	registry.AddSession(b, "Bob")
	registry.RemoveSession(a)

	// Then only B remains and B is the admin
	req.Equal([]string{"Bob"}, registry.DisplayNames())
	req.Equal("Bob", registry.AdminDisplayName())
}

func TestRegistry_Participants_JoinOrder(t *testing.T) {
	req := require.New(t)
	registry, _ := newTestRegistry()
	first := uuid.NewString()
	second := uuid.NewString()

	// When two participants join and the first leaves
	registry.AddSession(first, "Alice")
	registry.AddSession(second, "Bob")

	participants := registry.Participants()
	req.Len(participants, 2)
	req.Equal("Alice", participants[0].DisplayName)
	req.Equal(first, participants[0].ConnectionID)
	req.False(participants[0].JoinedAt.IsZero())
	req.Equal("Bob", participants[1].DisplayName)

	registry.RemoveSession(first)

	// Then the survivor heads the join order
	participants = registry.Participants()
	req.Len(participants, 1)
	req.Equal("Bob", participants[0].DisplayName)
}

func TestRegistry_ResolveConnectionID_CaseInsensitive(t *testing.T) {
	req := require.New(t)
	registry, _ := newTestRegistry()
	connectionID := uuid.NewString()
	registry.AddSession(connectionID, "Alice")

	for _, name := range []string{"alice", "ALICE", " Alice "} {
		resolved, ok := registry.ResolveConnectionID(name)
		req.True(ok, "expected %q to resolve", name)
		req.Equal(connectionID, resolved)
	}

	_, ok := registry.ResolveConnectionID("Bob")
	req.False(ok)

	_, ok = registry.ResolveConnectionID("")
	req.False(ok)
}

func TestRegistry_OrderAndMappingNeverDrift(t *testing.T) {
	req := require.New(t)
	registry, _ := newTestRegistry()

	ids := make([]string, 20)
	for i := range ids {
		ids[i] = uuid.NewString()
	}

	check := func() {
		registry.mu.RLock()
		defer registry.mu.RUnlock()
		req.Len(registry.order, len(registry.sessions))
		for _, id := range registry.order {
			req.Contains(registry.sessions, id)
		}
	}

	// Interleave adds and removes, checking the invariant at each step.
	for i, id := range ids {
		registry.AddSession(id, uuid.NewString())
		check()
		if i%3 == 0 {
			registry.RemoveSession(ids[i/2])
			check()
		}
	}
	for _, id := range ids {
		registry.RemoveSession(id)
		check()
	}
	req.Equal(0, registry.Count())
}

func TestRegistry_ConcurrentMutations(t *testing.T) {
	req := require.New(t)
	registry, _ := newTestRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := uuid.NewString()
			registry.AddSession(id, id)
			registry.DisplayNames()
			registry.AdminDisplayName()
			registry.RemoveSession(id)
		}()
	}
	wg.Wait()

	// All sessions removed themselves: both structures must be empty.
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	req.Empty(registry.order)
	req.Empty(registry.sessions)
}

func TestFormatUptime(t *testing.T) {
	req := require.New(t)

	req.Equal("00:00:05", FormatUptime(5*time.Second))
	req.Equal("00:02:03", FormatUptime(2*time.Minute+3*time.Second))
	req.Equal("26:00:59", FormatUptime(26*time.Hour+59*time.Second))
}
