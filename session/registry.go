// Package session owns the set of connected participants, their join
// order and the derived admin identity.
package session

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Registry is the single source of truth for live sessions.
//
// It keeps two structures that must always agree: the join-order slice
// and the connectionID -> participant map. Both are guarded by one mutex
// and mutated together as a unit, so readers never observe a connection
// present in one but not the other.
//
// The admin is not stored anywhere: it is the head of the join order.
// Recomputing it on demand means admin identity self-heals on removal
// without any election protocol.
type Registry struct {
	mu        sync.RWMutex
	order     []string                      // connection IDs, insertion order
	sessions  map[string]domain.Participant // keyed by connection ID
	startTime time.Time
	publisher contract.Publisher
	log       *slog.Logger
}

func NewRegistry(publisher contract.Publisher, log *slog.Logger) *Registry {
	return &Registry{
		sessions:  make(map[string]domain.Participant),
		startTime: time.Now(),
		publisher: publisher,
		log:       log,
	}
}

// AddSession registers a new session at the tail of the join order.
// It is idempotent: a connection ID that is already present leaves the
// registry untouched, so duplicate join events are harmless.
//
// The first registered session becomes the admin; an admin-change
// notification is published for it. A presence notification is published
// after every successful add.
func (r *Registry) AddSession(connectionID, displayName string) {
	r.mu.Lock()
	if _, ok := r.sessions[connectionID]; ok {
		r.mu.Unlock()
		return
	}
	r.sessions[connectionID] = domain.Participant{
		ConnectionID: connectionID,
		DisplayName:  displayName,
		JoinedAt:     time.Now(),
	}
	r.order = append(r.order, connectionID)
	becameAdmin := r.order[0] == connectionID
	total := len(r.sessions)
	presence := r.presenceLocked()
	r.mu.Unlock()

	r.log.Info("Session added", "connectionID", connectionID,
		"user", displayName, "total", total)

	if becameAdmin {
		r.log.Info("New admin elected", "connectionID", connectionID, "user", displayName)
		r.publishAdminChange(displayName)
	}
	r.publisher.PublishPresence(presence)
}

// RemoveSession drops a session from both the order and the mapping.
// Unknown connection IDs are a no-op. If the removed session was the
// admin and participants remain, the next-earliest survivor is announced
// as the new admin. A presence notification is published afterward in
// every non-trivial case, with the "None" sentinel once the registry
// is empty.
func (r *Registry) RemoveSession(connectionID string) {
	r.mu.Lock()
	participant, ok := r.sessions[connectionID]
	if !ok {
		r.mu.Unlock()
		return
	}
	wasAdmin := len(r.order) > 0 && r.order[0] == connectionID

	delete(r.sessions, connectionID)
	for i, id := range r.order {
		if id == connectionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	var newAdminName string
	if wasAdmin && len(r.order) > 0 {
		newAdminName = r.sessions[r.order[0]].DisplayName
	}
	remaining := len(r.sessions)
	presence := r.presenceLocked()
	r.mu.Unlock()

	r.log.Info("Session removed", "connectionID", connectionID,
		"user", participant.DisplayName, "remaining", remaining)

	if wasAdmin {
		if newAdminName != "" {
			r.log.Info("Admin disconnected, promoting next in line", "user", newAdminName)
			r.publishAdminChange(newAdminName)
		} else {
			r.log.Info("All users disconnected, no admin")
		}
	}
	r.publisher.PublishPresence(presence)
}

// IsAdmin reports whether the connection currently heads the join order.
func (r *Registry) IsAdmin(connectionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order) > 0 && r.order[0] == connectionID
}

// AdminConnectionID returns the admin's connection ID, if any session
// is live.
func (r *Registry) AdminConnectionID() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return "", false
	}
	return r.order[0], true
}

// AdminDisplayName returns the admin's display name, or the "None"
// sentinel when no session is live. It never returns an empty string
// for an empty registry.
func (r *Registry) AdminDisplayName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return domain.NoAdmin
	}
	return r.sessions[r.order[0]].DisplayName
}

// ResolveConnectionID finds the connection bound to a display name.
// The match is case-insensitive and ignores surrounding whitespace.
func (r *Registry) ResolveConnectionID(displayName string) (string, bool) {
	search := strings.ToLower(strings.TrimSpace(displayName))
	if search == "" {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, p := range r.sessions {
		if strings.ToLower(p.DisplayName) == search {
			return id, true
		}
	}
	return "", false
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// DisplayNames returns all live display names in lexicographic order.
func (r *Registry) DisplayNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.displayNamesLocked()
}

func (r *Registry) displayNamesLocked() []string {
	names := lo.Map(lo.Values(r.sessions), func(p domain.Participant, _ int) string {
		return p.DisplayName
	})
	sort.Strings(names)
	return names
}

// Participants returns the live participants in join order.
func (r *Registry) Participants() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	participants := make([]domain.Participant, 0, len(r.order))
	for _, id := range r.order {
		participants = append(participants, r.sessions[id])
	}
	return participants
}

// Uptime returns the duration since the registry was created.
func (r *Registry) Uptime() time.Duration {
	return time.Since(r.startTime)
}

// FormatUptime renders a duration as HH:MM:SS for user-facing output.
func FormatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// presenceLocked snapshots the USER_LIST payload. Callers must hold mu.
func (r *Registry) presenceLocked() domain.Presence {
	admin := domain.NoAdmin
	if len(r.order) > 0 {
		admin = r.sessions[r.order[0]].DisplayName
	}
	return domain.NewPresence(r.displayNamesLocked(), admin)
}

func (r *Registry) publishAdminChange(adminName string) {
	content := fmt.Sprintf("System: %s is now the Server Admin.", adminName)
	r.publisher.Publish(domain.NewMessage(domain.KindSystem, domain.SenderSystem, content))
}
