package board

import (
	"context"
	"fmt"

	"github.com/aretw0/fieldboard/pkg/bridge"
	"github.com/aretw0/fieldboard/pkg/core"
)

// CreateItem appends a new, uncommitted work item built from draft and
// persists it in the background. Unset fields take their defaults: kind task,
// status upcoming, no assignees, and the first group when the draft names no
// existing group.
func (b *Board) CreateItem(ctx context.Context, draft core.ItemDraft) (core.WorkItem, error) {
	kind := draft.Kind.Normalize()
	if kind == "" {
		kind = core.KindTask
	}
	if !kind.Valid() {
		return core.WorkItem{}, fmt.Errorf("%w: %q", core.ErrInvalidKind, draft.Kind)
	}
	status := draft.Status
	if status == "" {
		status = core.StatusUpcoming
	}
	if !status.Valid() {
		return core.WorkItem{}, fmt.Errorf("%w: %q", core.ErrInvalidStatus, draft.Status)
	}

	item := core.WorkItem{
		ID:             b.newID(),
		Title:          draft.Title,
		Kind:           kind,
		Status:         status,
		Assignees:      core.UniqueAssignees(draft.Assignees),
		Date:           draft.Date,
		TimelineStart:  draft.TimelineStart,
		TimelineEnd:    draft.TimelineEnd,
		SocialDatetime: draft.SocialDatetime,
		Platform:       draft.Platform,
		Content:        draft.Content,
		Notes:          draft.Notes,
		CreatedAt:      b.now().UTC(),
	}

	b.mu.Lock()
	if len(b.groups) == 0 {
		b.mu.Unlock()
		return core.WorkItem{}, core.ErrNotActivated
	}
	item.GroupID = b.owningGroup(draft.GroupID)
	b.items = append(b.items, item.Clone())
	w := b.nextCommit(commitKey{EntityItem, item.ID})
	b.mu.Unlock()

	b.track(b.withToken(ctx), w, b.persistItem(item))
	return item, nil
}

// owningGroup returns groupID if it exists, otherwise the first group.
// Callers must hold b.mu and ensure b.groups is not empty.
func (b *Board) owningGroup(groupID string) string {
	if groupID != "" && b.groupIndex(groupID) >= 0 {
		return groupID
	}
	return b.groups[0].ID
}

// UpdateStatus sets the status of one work item and persists the result in
// the background. The local change is kept even if persistence fails.
func (b *Board) UpdateStatus(ctx context.Context, itemID string, status core.Status) (core.WorkItem, error) {
	if !status.Valid() {
		return core.WorkItem{}, fmt.Errorf("%w: %q", core.ErrInvalidStatus, status)
	}

	b.mu.Lock()
	i := b.itemIndex(itemID)
	if i < 0 {
		b.mu.Unlock()
		return core.WorkItem{}, fmt.Errorf("work item %s: %w", itemID, core.ErrNotFound)
	}
	b.items[i].Status = status
	item := b.items[i].Clone()
	w := b.nextCommit(commitKey{EntityItem, itemID})
	b.mu.Unlock()

	b.track(b.withToken(ctx), w, b.persistItem(item))
	return item, nil
}

// ToggleGroupVisibility hides a visible group or shows a hidden one.
// It is local to the board and never persisted. It returns whether the group is now hidden.
func (b *Board) ToggleGroupVisibility(groupID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.hidden[groupID]; ok {
		delete(b.hidden, groupID)
		return false
	}
	b.hidden[groupID] = struct{}{}
	return true
}

// Retry persists the current state of an item or group again.
// Items are looked up first; it fails with core.ErrNotFound if neither matches.
func (b *Board) Retry(ctx context.Context, id string) error {
	if err := b.retryItem(ctx, id); err == nil {
		return nil
	}
	if err := b.retryGroup(ctx, id); err == nil {
		return nil
	}
	return fmt.Errorf("entity %s: %w", id, core.ErrNotFound)
}

// RetryFailed retries every entity whose latest write failed and returns how many were retried.
func (b *Board) RetryFailed(ctx context.Context) int {
	n := 0
	for _, c := range b.Failed() {
		var err error
		switch c.Kind {
		case EntityItem:
			err = b.retryItem(ctx, c.ID)
		case EntityGroup:
			err = b.retryGroup(ctx, c.ID)
		}
		if err == nil {
			n++
		}
	}
	return n
}

func (b *Board) retryItem(ctx context.Context, id string) error {
	ctx = b.withToken(ctx)
	b.mu.Lock()
	i := b.itemIndex(id)
	if i < 0 {
		b.mu.Unlock()
		return core.ErrNotFound
	}
	item := b.items[i].Clone()
	w := b.nextCommit(commitKey{EntityItem, id})
	b.mu.Unlock()
	b.track(ctx, w, b.persistItem(item))
	return nil
}

func (b *Board) retryGroup(ctx context.Context, id string) error {
	ctx = b.withToken(ctx)
	b.mu.Lock()
	i := b.groupIndex(id)
	if i < 0 {
		b.mu.Unlock()
		return core.ErrNotFound
	}
	group := b.groups[i]
	w := b.nextCommit(commitKey{EntityGroup, id})
	b.mu.Unlock()
	b.track(ctx, w, b.persistGroup(group))
	return nil
}

func (b *Board) persistItem(item core.WorkItem) func(context.Context) *bridge.Task {
	return func(ctx context.Context) *bridge.Task { return b.bridge.PersistItem(ctx, item) }
}

func (b *Board) persistGroup(group core.Group) func(context.Context) *bridge.Task {
	return func(ctx context.Context) *bridge.Task { return b.bridge.PersistGroup(ctx, group) }
}
