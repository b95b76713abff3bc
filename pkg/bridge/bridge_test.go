package bridge_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fieldboard/pkg/adapters/memory"
	"github.com/aretw0/fieldboard/pkg/bridge"
	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/record"
)

func waitResult(t *testing.T, task *bridge.Task) bridge.Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := task.Wait(ctx)
	require.NoError(t, err, "task did not complete")
	return res
}

func TestBridge_PersistItem(t *testing.T) {
	store := memory.NewStore()
	b := bridge.New(store)

	item := core.WorkItem{ID: "project_1", Title: "Draft copy", Kind: core.KindTask, Status: core.StatusUpcoming}
	res := waitResult(t, b.PersistItem(context.Background(), item))

	require.True(t, res.OK, "unexpected failure: %v", res.Err)
	assert.NotEmpty(t, res.FieldID)
	assert.Equal(t, "pm_project_project_1", res.Name)

	rec, ok := store.Field("pm_project_project_1")
	require.True(t, ok)
	assert.Equal(t, res.FieldID, rec.ID)

	decoded := record.Decode([]core.RawRecord{rec})
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "Draft copy", decoded.Items[0].Title)
}

func TestBridge_PersistGroup_CustomSchema(t *testing.T) {
	store := memory.NewStore()
	b := bridge.New(store, bridge.WithSchema(record.Schema{ItemPrefix: "i_", GroupPrefix: "g_"}))

	res := waitResult(t, b.PersistGroup(context.Background(), core.Group{ID: "x", Name: "X"}))
	require.True(t, res.OK)
	_, ok := store.Field("g_x")
	assert.True(t, ok)
}

func TestBridge_FailureIsReported(t *testing.T) {
	store := memory.NewStore(memory.WithHook(func(ctx context.Context, name string) error {
		return errors.New("unauthorized")
	}))
	b := bridge.New(store)

	res := waitResult(t, b.PersistItem(context.Background(), core.WorkItem{ID: "p"}))
	assert.False(t, res.OK)
	assert.Empty(t, res.FieldID)
	assert.ErrorIs(t, res.Err, core.ErrPersistence)

	state := b.State().(bridge.State)
	assert.Equal(t, 1, state.Failed)
	assert.Equal(t, 0, state.Pending)
	assert.Equal(t, "memory", state.StoreType)
}

func TestBridge_RejectsEntityWithoutID(t *testing.T) {
	b := bridge.New(memory.NewStore())
	task := b.PersistGroup(context.Background(), core.Group{Name: "anonymous"})

	res, done := task.Result()
	require.True(t, done, "rejected tasks complete immediately")
	assert.ErrorIs(t, res.Err, core.ErrPersistence)
}

func TestBridge_ForwardsToken(t *testing.T) {
	seen := make(chan string, 1)
	store := memory.NewStore(memory.WithHook(func(ctx context.Context, name string) error {
		seen <- core.TokenFrom(ctx)
		return nil
	}))
	b := bridge.New(store)

	ctx, cancel := context.WithCancel(core.WithToken(context.Background(), "secret-token"))
	task := b.PersistItem(ctx, core.WorkItem{ID: "p"})
	cancel()
	waitResult(t, task)
	assert.Equal(t, "secret-token", <-seen)
}

func TestBridge_CallerCancellationDoesNotAbort(t *testing.T) {
	release := make(chan struct{})
	store := memory.NewStore(memory.WithHook(func(ctx context.Context, name string) error {
		<-release
		return nil
	}))
	b := bridge.New(store)

	ctx, cancel := context.WithCancel(context.Background())
	task := b.PersistItem(ctx, core.WorkItem{ID: "p"})
	cancel()
	close(release)

	res := waitResult(t, task)
	assert.True(t, res.OK, "unexpected failure: %v", res.Err)
}

func TestBridge_Timeout(t *testing.T) {
	store := memory.NewStore(memory.WithHook(func(ctx context.Context, name string) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	b := bridge.New(store, bridge.WithTimeout(20*time.Millisecond))

	res := waitResult(t, b.PersistItem(context.Background(), core.WorkItem{ID: "p"}))
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, core.ErrPersistence)
}

func TestBridge_StorePanicBecomesFailure(t *testing.T) {
	store := memory.NewStore(memory.WithHook(func(ctx context.Context, name string) error {
		panic("store exploded")
	}))
	b := bridge.New(store)

	res := waitResult(t, b.PersistItem(context.Background(), core.WorkItem{ID: "p"}))
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, core.ErrPersistence)
}

func TestBridge_WaitDrainsInflight(t *testing.T) {
	release := make(chan struct{})
	store := memory.NewStore(memory.WithHook(func(ctx context.Context, name string) error {
		<-release
		return nil
	}))
	b := bridge.New(store)

	tasks := []*bridge.Task{
		b.PersistItem(context.Background(), core.WorkItem{ID: "a"}),
		b.PersistItem(context.Background(), core.WorkItem{ID: "b"}),
	}
	for _, task := range tasks {
		_, done := task.Result()
		assert.False(t, done)
	}

	close(release)
	b.Wait()

	for _, task := range tasks {
		res, done := task.Result()
		require.True(t, done)
		assert.True(t, res.OK)
	}
	assert.Equal(t, 2, store.Len())
}
