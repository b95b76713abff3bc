// Package fs implements core.Store on top of a single JSON file.
//
// The file holds every custom field in creation order. Writes replace the file
// atomically (temp file + rename), so readers never observe partial state.
// Concurrent writers in different processes are not coordinated.
package fs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/fieldboard/pkg/core"
)

// DefaultFileName is used when Config.Path names a directory-less base.
const DefaultFileName = "fields.json"

// Config holds the configuration of a file-backed store.
type Config struct {
	// Path is the fields file, e.g. ".fieldboard/fields.json".
	Path string
	// Pattern filters watch events by field name (doublestar syntax). Empty means all.
	Pattern string
	Logger  *slog.Logger
}

// Store is a core.Store persisted to a JSON file.
type Store struct {
	path    string
	pattern string
	logger  *slog.Logger

	mu            sync.Mutex
	watcherActive bool
}

// NewStore creates a store for cfg. The file is created on the first write.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultFileName
	}
	if cfg.Pattern != "" && !doublestar.ValidatePattern(cfg.Pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", cfg.Pattern)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{path: cfg.Path, pattern: cfg.Pattern, logger: logger}, nil
}

// Path returns the fields file location.
func (s *Store) Path() string { return s.path }

// ListFields implements core.Store.
func (s *Store) ListFields(ctx context.Context) ([]core.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := readDocument(s.path)
	if err != nil {
		return nil, err
	}
	return doc.Fields, nil
}

// UpsertField implements core.Store.
func (s *Store) UpsertField(ctx context.Context, name, value string) (core.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return core.RawRecord{}, err
	}
	if name == "" {
		return core.RawRecord{}, fmt.Errorf("field has no name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := readDocument(s.path)
	if err != nil {
		return core.RawRecord{}, err
	}

	rec := core.RawRecord{Name: name, Value: value}
	if i, ok := doc.index()[name]; ok {
		rec.ID = doc.Fields[i].ID
		doc.Fields[i] = rec
	} else {
		doc.NextID++
		rec.ID = fmt.Sprintf("fld_%d", doc.NextID)
		doc.Fields = append(doc.Fields, rec)
	}

	if err := writeDocument(s.path, doc); err != nil {
		return core.RawRecord{}, err
	}
	s.logger.Debug("field written", "field", name, "field_id", rec.ID)
	return rec, nil
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string `json:"path"`
	Pattern       string `json:"pattern,omitempty"`
	WatcherActive bool   `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StoreState{Path: s.path, Pattern: s.pattern, WatcherActive: s.watcherActive}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs"
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
