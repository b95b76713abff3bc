// Package bridge persists work items and groups to the remote store.
//
// Every call returns a Task immediately; the upsert itself runs on a tracked
// goroutine. Failures are reported through the Task and never retried here.
package bridge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/record"
)

// Bridge translates entities into upserts against a core.Store.
type Bridge struct {
	store   core.Store
	schema  record.Schema
	timeout time.Duration
	logger  *slog.Logger

	inflight sync.WaitGroup

	mu        sync.Mutex
	pending   int
	succeeded int
	failed    int
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithSchema sets the field naming convention.
func WithSchema(s record.Schema) Option {
	return func(b *Bridge) {
		b.schema = s
	}
}

// WithTimeout bounds each upsert. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		b.timeout = d
	}
}

// WithLogger sets the logger used to report failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// New creates a Bridge writing to store.
func New(store core.Store, opts ...Option) *Bridge {
	b := &Bridge{
		store:  store,
		schema: record.DefaultSchema(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b
}

// Schema returns the naming convention in use.
func (b *Bridge) Schema() record.Schema { return b.schema }

// PersistItem upserts item asynchronously.
func (b *Bridge) PersistItem(ctx context.Context, item core.WorkItem) *Task {
	name, value, err := b.schema.EncodeItem(item)
	if err != nil {
		return b.rejected(b.schema.ItemName(item.ID), err)
	}
	return b.launch(ctx, name, value)
}

// PersistGroup upserts group asynchronously.
func (b *Bridge) PersistGroup(ctx context.Context, group core.Group) *Task {
	name, value, err := b.schema.EncodeGroup(group)
	if err != nil {
		return b.rejected(b.schema.GroupName(group.ID), err)
	}
	return b.launch(ctx, name, value)
}

// Wait blocks until every task started so far has completed.
func (b *Bridge) Wait() {
	b.inflight.Wait()
}

func (b *Bridge) rejected(name string, err error) *Task {
	t := newTask(name)
	res := Result{Name: name, Err: fmt.Errorf("%w: %v", core.ErrPersistence, err)}
	b.record(res)
	t.complete(res)
	return t
}

func (b *Bridge) launch(ctx context.Context, name, value string) *Task {
	t := newTask(name)

	// The upsert outlives the caller's request; only values such as the token carry over.
	ctx = context.WithoutCancel(ctx)

	b.mu.Lock()
	b.pending++
	b.mu.Unlock()
	b.inflight.Add(1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer b.inflight.Done()
		res := b.upsert(ctx, name, value)
		b.mu.Lock()
		b.pending--
		b.mu.Unlock()
		b.record(res)
		t.complete(res)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		b.logger.Error("persistence task crashed", "field", name, "error", err)
	}))

	return t
}

func (b *Bridge) upsert(ctx context.Context, name, value string) (res Result) {
	res.Name = name

	defer func() {
		if r := recover(); r != nil {
			res = Result{Name: name, Err: fmt.Errorf("%w: store panic: %v", core.ErrPersistence, r)}
		}
	}()

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	rec, err := b.store.UpsertField(ctx, name, value)
	if err != nil {
		res.Err = fmt.Errorf("%w: %s: %v", core.ErrPersistence, name, err)
		return res
	}
	if rec.ID == "" {
		res.Err = fmt.Errorf("%w: %s: store returned no record id", core.ErrPersistence, name)
		return res
	}

	res.OK = true
	res.FieldID = rec.ID
	return res
}

func (b *Bridge) record(res Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if res.OK {
		b.succeeded++
		b.logger.Debug("field persisted", "field", res.Name, "field_id", res.FieldID)
	} else {
		b.failed++
		b.logger.Warn("field not persisted", "field", res.Name, "error", res.Err)
	}
}
