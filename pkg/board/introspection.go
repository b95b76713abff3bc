package board

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/fieldboard/pkg/core"
)

// State exposes board internals for observability.
type State struct {
	Activated   bool `json:"activated"`
	Items       int  `json:"items"`
	Groups      int  `json:"groups"`
	Hidden      int  `json:"hidden"`
	Users       int  `json:"users"`
	Uncommitted int  `json:"uncommitted"`
	Failed      int  `json:"failed"`
	InFlight    int  `json:"in_flight"`
	Bridge      any  `json:"bridge"`
}

// State implements introspection.Introspectable.
func (b *Board) State() any {
	b.mu.RLock()
	s := State{
		Activated: b.activated,
		Items:     len(b.items),
		Groups:    len(b.groups),
		Hidden:    len(b.hidden),
		Users:     len(b.users),
		InFlight:  b.inflight,
	}
	for _, cs := range b.commits {
		switch cs.status {
		case core.Uncommitted:
			s.Uncommitted++
		case core.Failed:
			s.Failed++
		}
	}
	b.mu.RUnlock()

	s.Bridge = b.bridge.State()
	return s
}

// ComponentType implements introspection.Component.
func (b *Board) ComponentType() string {
	return "board"
}

var _ introspection.Introspectable = (*Board)(nil)
var _ introspection.Component = (*Board)(nil)
