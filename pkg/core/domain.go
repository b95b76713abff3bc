// Package core holds the domain model shared by every fieldboard component.
package core

import "time"

// ItemKind classifies a work item.
type ItemKind string

const (
	KindTask       ItemKind = "task"
	KindSocialPost ItemKind = "social-post"
	KindMilestone  ItemKind = "milestone"

	// kindSocialMedia is the value older payloads carry for social posts.
	kindSocialMedia ItemKind = "social-media"
)

// Valid reports whether k is one of the known kinds.
func (k ItemKind) Valid() bool {
	switch k {
	case KindTask, KindSocialPost, KindMilestone:
		return true
	}
	return false
}

// Normalize maps legacy aliases onto their current kind.
func (k ItemKind) Normalize() ItemKind {
	if k == kindSocialMedia {
		return KindSocialPost
	}
	return k
}

// Status is the progress state of a work item.
type Status string

const (
	StatusUpcoming   Status = "upcoming"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusStuck      Status = "stuck"
	StatusScheduled  Status = "scheduled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusInProgress, StatusDone, StatusStuck, StatusScheduled:
		return true
	}
	return false
}

// WorkItem is a unit of project work owned by a Group.
// FieldID is the persisted-record id; it is empty until the item is committed
// and is never part of the serialized payload.
type WorkItem struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Kind           ItemKind  `json:"type" yaml:"type"`
	Status         Status    `json:"status" yaml:"status"`
	Assignees      []string  `json:"assignees" yaml:"assignees"`
	Date           string    `json:"date,omitempty" yaml:"date,omitempty"`
	TimelineStart  string    `json:"timelineStart,omitempty" yaml:"timelineStart,omitempty"`
	TimelineEnd    string    `json:"timelineEnd,omitempty" yaml:"timelineEnd,omitempty"`
	SocialDatetime string    `json:"socialDatetime,omitempty" yaml:"socialDatetime,omitempty"`
	Platform       string    `json:"platform,omitempty" yaml:"platform,omitempty"`
	Content        string    `json:"content,omitempty" yaml:"content,omitempty"`
	Notes          string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	GroupID        string    `json:"groupId" yaml:"groupId"`
	CreatedAt      time.Time `json:"createdAt" yaml:"createdAt"`
	FieldID        string    `json:"-" yaml:"fieldId,omitempty"`
}

// Committed reports whether the item has received a persisted-record id.
func (w WorkItem) Committed() bool { return w.FieldID != "" }

// Clone returns a copy that shares no slices with w.
func (w WorkItem) Clone() WorkItem {
	if w.Assignees != nil {
		w.Assignees = append([]string(nil), w.Assignees...)
	}
	return w
}

// UniqueAssignees drops empty and repeated user ids, keeping first appearances in order.
// The result is never nil.
func UniqueAssignees(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ItemDraft carries the caller-supplied fields of a new work item.
// Zero values are replaced by defaults on creation.
type ItemDraft struct {
	Title          string
	Kind           ItemKind
	Status         Status
	Assignees      []string
	Date           string
	TimelineStart  string
	TimelineEnd    string
	SocialDatetime string
	Platform       string
	Content        string
	Notes          string
	GroupID        string
}

// Group is a named, coloured bucket of work items.
type Group struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Color     string    `json:"color" yaml:"color"`
	Collapsed bool      `json:"collapsed" yaml:"collapsed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	FieldID   string    `json:"-" yaml:"fieldId,omitempty"`
}

// Committed reports whether the group has received a persisted-record id.
func (g Group) Committed() bool { return g.FieldID != "" }

// RawRecord is a custom field as the remote store returns it.
type RawRecord struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// CommitStatus tracks whether an entity's latest state reached the store.
type CommitStatus string

const (
	Uncommitted CommitStatus = "uncommitted"
	Committed   CommitStatus = "committed"
	Failed      CommitStatus = "failed"
)
