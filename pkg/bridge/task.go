package bridge

import (
	"context"
)

// Result is the outcome of one upsert.
type Result struct {
	// Name is the field name the entity was written under.
	Name string
	// OK reports whether the store accepted the write.
	OK bool
	// FieldID is the persisted-record id assigned by the store. Empty unless OK.
	FieldID string
	// Err wraps core.ErrPersistence when OK is false.
	Err error
}

// Task is the handle of an asynchronous persistence call.
type Task struct {
	name string
	done chan struct{}
	res  Result
}

func newTask(name string) *Task {
	return &Task{name: name, done: make(chan struct{})}
}

// complete must be called exactly once.
func (t *Task) complete(res Result) {
	t.res = res
	close(t.done)
}

// Name returns the field name the task writes.
func (t *Task) Name() string { return t.name }

// Done is closed once the result is available.
func (t *Task) Done() <-chan struct{} { return t.done }

// Result returns the outcome and true, or false while the call is still in flight.
func (t *Task) Result() (Result, bool) {
	select {
	case <-t.done:
		return t.res, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the task completes or ctx is done.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
