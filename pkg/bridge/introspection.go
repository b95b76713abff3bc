package bridge

import (
	"github.com/aretw0/introspection"
)

// State exposes persistence counters for observability.
type State struct {
	Pending   int    `json:"pending"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	StoreType string `json:"store_type"`
}

// State implements introspection.Introspectable.
func (b *Bridge) State() any {
	b.mu.Lock()
	defer b.mu.Unlock()

	storeType := "store"
	if comp, ok := b.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	return State{
		Pending:   b.pending,
		Succeeded: b.succeeded,
		Failed:    b.failed,
		StoreType: storeType,
	}
}

// ComponentType implements introspection.Component.
func (b *Bridge) ComponentType() string {
	return "bridge"
}

var _ introspection.Introspectable = (*Bridge)(nil)
var _ introspection.Component = (*Bridge)(nil)
