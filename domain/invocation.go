package domain

// Caller identifies the session a bot command originates from.
// DisplayName may be empty when the connection never completed a join.
type Caller struct {
	ConnectionID string
	DisplayName  string
}

// Invocation is a parsed bot command. It is built per inbound message
// and never persisted.
type Invocation struct {
	Name string
	Args []string
}
