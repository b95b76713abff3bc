// Package lifecycle exposes store change events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/fieldboard/pkg/core"
)

type fieldSource struct {
	events <-chan core.Event
	match  func(core.Event) bool
	out    chan lifecycle.Event
}

// SourceOption configures a field event source.
type SourceOption func(*fieldSource)

// WithFilter drops events for which match returns false.
func WithFilter(match func(core.Event) bool) SourceOption {
	return func(s *fieldSource) {
		s.match = match
	}
}

// NewSource wraps a store event channel, typically from core.Watchable.Watch.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &fieldSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *fieldSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the input closes, then closes Events.
func (s *fieldSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.match != nil && !s.match(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
