package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fieldboard/pkg/core"
)

func newTestStore(t *testing.T, pattern string) *Store {
	t.Helper()
	s, err := NewStore(Config{Path: filepath.Join(t.TempDir(), "board", "fields.json"), Pattern: pattern})
	require.NoError(t, err)
	return s
}

func TestStore_ListMissingFile(t *testing.T) {
	s := newTestStore(t, "")

	fields, err := s.ListFields(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestStore_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	a, err := s.UpsertField(ctx, "pm_group_a", `{"id":"a"}`)
	require.NoError(t, err)
	b, err := s.UpsertField(ctx, "pm_group_b", `{"id":"b"}`)
	require.NoError(t, err)
	assert.Equal(t, "fld_1", a.ID)
	assert.Equal(t, "fld_2", b.ID)

	again, err := s.UpsertField(ctx, "pm_group_a", `{"id":"a","name":"A"}`)
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID, "upsert of an existing name keeps its id")

	fields, err := s.ListFields(ctx)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "pm_group_a", fields[0].Name)
	assert.Equal(t, `{"id":"a","name":"A"}`, fields[0].Value)
	assert.Equal(t, "pm_group_b", fields[1].Name)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fields.json")

	first, err := NewStore(Config{Path: path})
	require.NoError(t, err)
	_, err = first.UpsertField(ctx, "pm_project_1", `{"id":"1"}`)
	require.NoError(t, err)

	second, err := NewStore(Config{Path: path})
	require.NoError(t, err)
	fields, err := second.ListFields(ctx)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "fld_1", fields[0].ID)

	rec, err := second.UpsertField(ctx, "pm_project_2", `{"id":"2"}`)
	require.NoError(t, err)
	assert.Equal(t, "fld_2", rec.ID, "id counter survives reopening")
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewStore(Config{Path: filepath.Join(dir, "fields.json")})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.UpsertField(ctx, "pm_group_a", "{}")
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fields.json", entries[0].Name())
}

func TestStore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s, err := NewStore(Config{Path: path})
	require.NoError(t, err)

	_, err = s.ListFields(context.Background())
	assert.ErrorContains(t, err, "corrupted")

	_, err = s.UpsertField(context.Background(), "pm_group_a", "{}")
	assert.Error(t, err, "a corrupted file is never overwritten")
}

func TestStore_RejectsEmptyName(t *testing.T) {
	s := newTestStore(t, "")
	_, err := s.UpsertField(context.Background(), "", "{}")
	assert.Error(t, err)
}

func TestStore_CanceledContext(t *testing.T) {
	s := newTestStore(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListFields(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.UpsertField(ctx, "pm_group_a", "{}")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStore_InvalidPattern(t *testing.T) {
	_, err := NewStore(Config{Path: filepath.Join(t.TempDir(), "f.json"), Pattern: "pm_[group"})
	assert.Error(t, err)
}

func TestStore_Introspection(t *testing.T) {
	s := newTestStore(t, "pm_group_*")
	assert.Equal(t, "fs", s.ComponentType())

	state, ok := s.State().(StoreState)
	require.True(t, ok)
	assert.Equal(t, s.Path(), state.Path)
	assert.Equal(t, "pm_group_*", state.Pattern)
	assert.False(t, state.WatcherActive)
}

func nextEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "event channel closed early")
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return core.Event{}
	}
}

func TestStore_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestStore(t, "")
	events, err := s.Watch(ctx)
	require.NoError(t, err)

	_, err = s.UpsertField(ctx, "pm_group_a", `{"id":"a"}`)
	require.NoError(t, err)
	e := nextEvent(t, events)
	assert.Equal(t, core.EventCreate, e.Type)
	assert.Equal(t, "pm_group_a", e.Name)

	_, err = s.UpsertField(ctx, "pm_group_a", `{"id":"a","name":"A"}`)
	require.NoError(t, err)
	e = nextEvent(t, events)
	assert.Equal(t, core.EventModify, e.Type)
	assert.Equal(t, "pm_group_a", e.Name)

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond, "channel closes after cancel")
}

func TestStore_WatchPattern(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestStore(t, "pm_group_*")
	events, err := s.Watch(ctx)
	require.NoError(t, err)

	_, err = s.UpsertField(ctx, "pm_project_1", `{"id":"1"}`)
	require.NoError(t, err)
	_, err = s.UpsertField(ctx, "pm_group_a", `{"id":"a"}`)
	require.NoError(t, err)

	e := nextEvent(t, events)
	assert.Equal(t, "pm_group_a", e.Name, "fields outside the pattern are filtered")
}

func TestStore_Diff(t *testing.T) {
	s := newTestStore(t, "")
	prev := map[string]string{"a": "1", "b": "2", "c": "3"}
	next := map[string]string{"a": "1", "b": "changed", "d": "4"}

	got := s.diff(prev, next)
	require.Len(t, got, 3)
	assert.Equal(t, core.EventModify, got[0].Type)
	assert.Equal(t, "b", got[0].Name)
	assert.Equal(t, core.EventRemove, got[1].Type)
	assert.Equal(t, "c", got[1].Name)
	assert.Equal(t, core.EventCreate, got[2].Type)
	assert.Equal(t, "d", got[2].Name)
}
