package domain

// PresenceType identifies the structured presence payload on the wire.
const PresenceType = "USER_LIST"

// NoAdmin is the sentinel admin name used when the registry is empty.
const NoAdmin = "None"

// Presence is the structured payload broadcast after every session
// mutation, for clients that track presence state instead of parsing
// the prose system messages.
type Presence struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
	Admin string   `json:"admin"`
}

// NewPresence builds a USER_LIST payload. Users must already be sorted.
func NewPresence(users []string, admin string) Presence {
	return Presence{Type: PresenceType, Users: users, Admin: admin}
}
