package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/fieldboard/pkg/core"
)

// Watch reports field changes made to the fields file, by this process or any other.
// The returned channel is closed when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(s.path)
	if err := mkdirAll(dir); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// The file is replaced by rename, so the directory is watched rather than the file.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	last, err := s.snapshot()
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event, 16)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer s.setWatcherActive(false)
		defer watcher.Close()

		base := filepath.Base(s.path)
		for {
			select {
			case <-ctx.Done():
				return nil

			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				s.logger.Debug("fields file changed", "op", ev.Op.String())

				next, err := s.snapshot()
				if err != nil {
					s.logger.Warn("failed to reload fields file", "error", err)
					continue
				}
				for _, e := range s.diff(last, next) {
					select {
					case events <- e:
					case <-ctx.Done():
						return nil
					}
				}
				last = next

			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Error("fsnotify error", "error", wErr)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("watcher panic", "error", err)
	}))

	return events, nil
}

// snapshot returns field name to value for the current file contents.
func (s *Store) snapshot() (map[string]string, error) {
	s.mu.Lock()
	doc, err := readDocument(s.path)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	snap := make(map[string]string, len(doc.Fields))
	for _, f := range doc.Fields {
		snap[f.Name] = f.Value
	}
	return snap, nil
}

// diff returns the events turning prev into next, sorted by field name.
func (s *Store) diff(prev, next map[string]string) []core.Event {
	now := time.Now().Unix()
	var out []core.Event

	for name, value := range next {
		old, ok := prev[name]
		switch {
		case !ok:
			out = append(out, core.Event{Type: core.EventCreate, Name: name, Timestamp: now})
		case old != value:
			out = append(out, core.Event{Type: core.EventModify, Name: name, Timestamp: now})
		}
	}
	for name := range prev {
		if _, ok := next[name]; !ok {
			out = append(out, core.Event{Type: core.EventRemove, Name: name, Timestamp: now})
		}
	}

	if s.pattern != "" {
		kept := out[:0]
		for _, e := range out {
			if ok, _ := doublestar.Match(s.pattern, e.Name); ok {
				kept = append(kept, e)
			}
		}
		out = kept
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
