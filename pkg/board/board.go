// Package board holds the in-memory, render-facing state of a project board.
//
// A Board is the authoritative local view of work items, groups, hidden groups
// and users for one session. Mutations apply to local state immediately and
// are persisted through the bridge in the background; the board tracks the
// commit status of every entity so callers can surface or retry failures.
package board

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"

	"github.com/aretw0/fieldboard/pkg/bridge"
	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/record"
	"github.com/aretw0/fieldboard/pkg/seed"
)

// EntityKind distinguishes items from groups in commit tracking.
type EntityKind string

const (
	EntityItem  EntityKind = "item"
	EntityGroup EntityKind = "group"
)

// Commit is the commit status of one entity.
type Commit struct {
	Kind   EntityKind
	ID     string
	Status core.CommitStatus
	Err    error
}

type commitKey struct {
	kind EntityKind
	id   string
}

type commitState struct {
	status core.CommitStatus
	seq    uint64
	err    error
}

// write is one persistence of an entity. It starts once prev is closed and
// closes done when settled, so writes of one entity reach the store in order.
type write struct {
	key  commitKey
	seq  uint64
	prev <-chan struct{}
	done chan struct{}
}

// Board is the local state cache. The zero value is not usable; call New.
type Board struct {
	store   core.Store
	bridge  *bridge.Bridge
	seeder  *seed.Seeder
	schema  record.Schema
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
	timeout time.Duration

	mu        sync.RWMutex
	session   core.Session
	items     []core.WorkItem
	groups    []core.Group
	hidden    map[string]struct{}
	users     []core.UnifiedUser
	commits   map[commitKey]*commitState
	tails     map[commitKey]chan struct{}
	seq       uint64
	activated bool

	inflight int
	drained  []chan struct{}
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger shared by the board, its bridge and its seeder.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		b.logger = logger
	}
}

// WithSchema sets the field naming convention.
func WithSchema(s record.Schema) Option {
	return func(b *Board) {
		b.schema = s
	}
}

// WithClock overrides the time source for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

// WithIDGenerator overrides how new work item ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(b *Board) {
		b.newID = fn
	}
}

// WithPersistTimeout bounds every upsert. Zero means no bound.
func WithPersistTimeout(d time.Duration) Option {
	return func(b *Board) {
		b.timeout = d
	}
}

// New creates a board backed by store. Call Activate before rendering it.
func New(store core.Store, opts ...Option) *Board {
	b := &Board{
		store:   store,
		schema:  record.DefaultSchema(),
		now:     time.Now,
		newID:   func() string { return "project_" + uuid.NewString() },
		hidden:  make(map[string]struct{}),
		commits: make(map[commitKey]*commitState),
		tails:   make(map[commitKey]chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b.bridge = bridge.New(store,
		bridge.WithSchema(b.schema),
		bridge.WithTimeout(b.timeout),
		bridge.WithLogger(b.logger),
	)
	b.seeder = seed.New(store, b.bridge,
		seed.WithLogger(b.logger),
		seed.WithClock(b.now),
	)
	return b
}

// Store returns the store the board reads from.
func (b *Board) Store() core.Store { return b.store }

// Bridge returns the persistence bridge the board writes through.
func (b *Board) Bridge() *bridge.Bridge { return b.bridge }

// withToken forwards the session token to store calls.
func (b *Board) withToken(ctx context.Context) context.Context {
	b.mu.RLock()
	token := b.session.Token
	b.mu.RUnlock()
	return core.WithToken(ctx, token)
}

// --- Reads ---

// Session returns the session the board was activated with.
func (b *Board) Session() core.Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.session
}

// Activated reports whether Activate has completed.
func (b *Board) Activated() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.activated
}

// Items returns a copy of every work item in insertion order.
func (b *Board) Items() []core.WorkItem {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.WorkItem, 0, len(b.items))
	for _, it := range b.items {
		out = append(out, it.Clone())
	}
	return out
}

// Item returns the work item with the given id.
func (b *Board) Item(id string) (core.WorkItem, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i := b.itemIndex(id); i >= 0 {
		return b.items[i].Clone(), true
	}
	return core.WorkItem{}, false
}

// ItemsInGroup returns the work items owned by groupID.
func (b *Board) ItemsInGroup(groupID string) []core.WorkItem {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []core.WorkItem
	for _, it := range b.items {
		if it.GroupID == groupID {
			out = append(out, it.Clone())
		}
	}
	return out
}

// Groups returns a copy of every group in order.
func (b *Board) Groups() []core.Group {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.Group(nil), b.groups...)
}

// Group returns the group with the given id.
func (b *Board) Group(id string) (core.Group, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i := b.groupIndex(id); i >= 0 {
		return b.groups[i], true
	}
	return core.Group{}, false
}

// Hidden returns the sorted ids of hidden groups.
func (b *Board) Hidden() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.hidden))
	for id := range b.hidden {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsHidden reports whether groupID is currently hidden.
func (b *Board) IsHidden(groupID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.hidden[groupID]
	return ok
}

// Users returns the unified user directory.
func (b *Board) Users() []core.UnifiedUser {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.UnifiedUser(nil), b.users...)
}

// ItemCommit returns the commit status of a work item.
func (b *Board) ItemCommit(id string) (Commit, bool) {
	return b.commit(commitKey{EntityItem, id})
}

// GroupCommit returns the commit status of a group.
func (b *Board) GroupCommit(id string) (Commit, bool) {
	return b.commit(commitKey{EntityGroup, id})
}

func (b *Board) commit(key commitKey) (Commit, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cs, ok := b.commits[key]
	if !ok {
		return Commit{}, false
	}
	return Commit{Kind: key.kind, ID: key.id, Status: cs.status, Err: cs.err}, true
}

// Commits returns the commit status of every tracked entity, groups first.
func (b *Board) Commits() []Commit {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Commit, 0, len(b.commits))
	for _, g := range b.groups {
		if cs, ok := b.commits[commitKey{EntityGroup, g.ID}]; ok {
			out = append(out, Commit{Kind: EntityGroup, ID: g.ID, Status: cs.status, Err: cs.err})
		}
	}
	for _, it := range b.items {
		if cs, ok := b.commits[commitKey{EntityItem, it.ID}]; ok {
			out = append(out, Commit{Kind: EntityItem, ID: it.ID, Status: cs.status, Err: cs.err})
		}
	}
	return out
}

// Failed returns the entities whose latest write failed.
func (b *Board) Failed() []Commit {
	var out []Commit
	for _, c := range b.Commits() {
		if c.Status == core.Failed {
			out = append(out, c)
		}
	}
	return out
}

func (b *Board) itemIndex(id string) int {
	for i := range b.items {
		if b.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) groupIndex(id string) int {
	for i := range b.groups {
		if b.groups[i].ID == id {
			return i
		}
	}
	return -1
}

// --- Persistence tracking ---

// nextCommit marks key uncommitted and queues a write behind the previous
// write of the same entity. Callers must hold b.mu.
func (b *Board) nextCommit(key commitKey) write {
	b.seq++
	cs, ok := b.commits[key]
	if !ok {
		cs = &commitState{}
		b.commits[key] = cs
	}
	cs.status = core.Uncommitted
	cs.err = nil
	cs.seq = b.seq

	w := write{key: key, seq: b.seq, prev: b.tails[key], done: make(chan struct{})}
	b.tails[key] = w.done
	b.inflight++
	return w
}

// track runs persist once the previous write of w.key has settled, then
// settles w. Only the latest write of an entity decides its commit status;
// the persisted-record id is taken from the first success and never replaced.
func (b *Board) track(ctx context.Context, w write, persist func(context.Context) *bridge.Task) {
	lifecycle.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		res := bridge.Result{Err: fmt.Errorf("%w: write abandoned", core.ErrPersistence)}
		defer func() { b.settle(w, res) }()

		if w.prev != nil {
			<-w.prev
		}
		task := persist(ctx)
		<-task.Done()
		res, _ = task.Result()
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		b.logger.Error("commit tracker crashed", "kind", w.key.kind, "id", w.key.id, "error", err)
	}))
}

func (b *Board) settle(w write, res bridge.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer b.release()

	close(w.done)
	if b.tails[w.key] == w.done {
		delete(b.tails, w.key)
	}

	if res.OK {
		b.assignFieldID(w.key, res.FieldID)
	}

	cs, ok := b.commits[w.key]
	if !ok || cs.seq != w.seq {
		return
	}
	if res.OK {
		cs.status = core.Committed
		cs.err = nil
	} else {
		cs.status = core.Failed
		cs.err = res.Err
	}
}

// assignFieldID sets the persisted-record id on the entity matching key, if it still exists.
// Callers must hold b.mu.
func (b *Board) assignFieldID(key commitKey, fieldID string) {
	switch key.kind {
	case EntityItem:
		if i := b.itemIndex(key.id); i >= 0 && b.items[i].FieldID == "" {
			b.items[i].FieldID = fieldID
		}
	case EntityGroup:
		if i := b.groupIndex(key.id); i >= 0 && b.groups[i].FieldID == "" {
			b.groups[i].FieldID = fieldID
		}
	}
}

// release decrements the in-flight counter. Callers must hold b.mu.
func (b *Board) release() {
	b.inflight--
	if b.inflight > 0 {
		return
	}
	for _, ch := range b.drained {
		close(ch)
	}
	b.drained = nil
}

// Wait blocks until no persistence call is in flight.
func (b *Board) Wait(ctx context.Context) error {
	b.mu.Lock()
	if b.inflight == 0 {
		b.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	b.drained = append(b.drained, ch)
	b.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
