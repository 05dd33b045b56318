// Package domain contains core concepts of the chat relay.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Participant is one connected, named client occupying exactly one
// connection slot. Display names are unique (case-insensitive) among
// live participants; uniqueness is enforced at join time.
type Participant struct {
	ConnectionID string
	DisplayName  string
	JoinedAt     time.Time
}
