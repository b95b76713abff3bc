package core

import (
	"context"
	"fmt"
)

// Store is the remote custom-field store.
// Adhering to this interface keeps the board independent of the transport
// (HTTP API, local file, memory).
type Store interface {
	// ListFields returns every custom field currently held by the store.
	ListFields(ctx context.Context) ([]RawRecord, error)

	// UpsertField creates the field called name, or replaces its value if it exists.
	// It returns the record as persisted, including the id the store assigned.
	UpsertField(ctx context.Context, name, value string) (RawRecord, error)
}

// Watchable is implemented by stores that can report changes made outside this process.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// EventType represents the type of change observed in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventRemove EventType = "REMOVE"
)

// Event represents a change to a single field.
type Event struct {
	Type      EventType
	Name      string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Name)
}

type contextKey string

// TokenKey is the context key carrying the session authorization token to the store.
const TokenKey contextKey = "auth_token"

// WithToken returns a context that forwards token to store calls.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, TokenKey, token)
}

// TokenFrom extracts the authorization token set by WithToken.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}
