// Package memory provides an in-process core.Store, used for tests and demos.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/fieldboard/pkg/core"
)

// Hook runs before each upsert. Returning an error fails the upsert.
type Hook func(ctx context.Context, name string) error

// Store keeps custom fields in memory, in creation order.
type Store struct {
	mu      sync.Mutex
	records []core.RawRecord
	byName  map[string]int
	nextID  int
	hook    Hook
	upserts int
}

// Option configures a Store.
type Option func(*Store)

// WithRecords seeds the store with existing records.
func WithRecords(records ...core.RawRecord) Option {
	return func(s *Store) {
		for _, rec := range records {
			s.put(rec)
		}
	}
}

// WithHook installs a hook called before every upsert.
func WithHook(h Hook) Option {
	return func(s *Store) {
		s.hook = h
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{byName: make(map[string]int)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetHook replaces the upsert hook.
func (s *Store) SetHook(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = h
}

// ListFields implements core.Store.
func (s *Store) ListFields(ctx context.Context) ([]core.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.RawRecord(nil), s.records...), nil
}

// UpsertField implements core.Store.
func (s *Store) UpsertField(ctx context.Context, name, value string) (core.RawRecord, error) {
	s.mu.Lock()
	hook := s.hook
	s.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, name); err != nil {
			return core.RawRecord{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return core.RawRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	return s.put(core.RawRecord{Name: name, Value: value}), nil
}

// put stores rec, reusing the id of an existing field with the same name.
func (s *Store) put(rec core.RawRecord) core.RawRecord {
	if i, ok := s.byName[rec.Name]; ok {
		rec.ID = s.records[i].ID
		s.records[i] = rec
		return rec
	}
	if rec.ID == "" {
		s.nextID++
		rec.ID = fmt.Sprintf("fld_%d", s.nextID)
	}
	s.byName[rec.Name] = len(s.records)
	s.records = append(s.records, rec)
	return rec
}

// Field returns the record stored under name.
func (s *Store) Field(name string) (core.RawRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byName[name]
	if !ok {
		return core.RawRecord{}, false
	}
	return s.records[i], true
}

// Len returns the number of stored fields.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Upserts returns how many upserts were accepted.
func (s *Store) Upserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{"fields": len(s.records), "upserts": s.upserts}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

var _ core.Store = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
