// Package record maps work items and groups to and from remote custom fields.
//
// Every entity is stored as one field whose name is a kind prefix followed by
// the entity id, and whose value is the entity serialized as JSON.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/fieldboard/pkg/core"
)

const (
	DefaultItemPrefix  = "pm_project_"
	DefaultGroupPrefix = "pm_group_"
)

// ErrOverlappingPrefixes is returned by Schema.Validate when one prefix starts with the other.
var ErrOverlappingPrefixes = errors.New("overlapping field prefixes")

// Schema holds the naming convention for persisted entities.
type Schema struct {
	ItemPrefix  string
	GroupPrefix string
}

// DefaultSchema returns the naming convention the portal has always used.
func DefaultSchema() Schema {
	return Schema{ItemPrefix: DefaultItemPrefix, GroupPrefix: DefaultGroupPrefix}
}

// withDefaults fills empty prefixes.
func (s Schema) withDefaults() Schema {
	if s.ItemPrefix == "" {
		s.ItemPrefix = DefaultItemPrefix
	}
	if s.GroupPrefix == "" {
		s.GroupPrefix = DefaultGroupPrefix
	}
	return s
}

// Validate rejects prefixes under which a field name could belong to both kinds.
func (s Schema) Validate() error {
	s = s.withDefaults()
	if strings.HasPrefix(s.ItemPrefix, s.GroupPrefix) || strings.HasPrefix(s.GroupPrefix, s.ItemPrefix) {
		return fmt.Errorf("%w: %q and %q", ErrOverlappingPrefixes, s.ItemPrefix, s.GroupPrefix)
	}
	return nil
}

// ItemName returns the field name for the work item with the given id.
func (s Schema) ItemName(id string) string { return s.withDefaults().ItemPrefix + id }

// GroupName returns the field name for the group with the given id.
func (s Schema) GroupName(id string) string { return s.withDefaults().GroupPrefix + id }

// Classify reports which entity kind a field name belongs to.
func (s Schema) Classify(name string) ResultKind {
	s = s.withDefaults()
	switch {
	case strings.HasPrefix(name, s.ItemPrefix):
		return ResultItem
	case strings.HasPrefix(name, s.GroupPrefix):
		return ResultGroup
	}
	return ResultIgnored
}

// EncodeItem returns the field name and JSON value for item.
func (s Schema) EncodeItem(item core.WorkItem) (name, value string, err error) {
	if item.ID == "" {
		return "", "", fmt.Errorf("work item has no ID")
	}
	if item.Assignees == nil {
		item.Assignees = []string{}
	}
	data, err := json.Marshal(item)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal work item %s: %w", item.ID, err)
	}
	return s.ItemName(item.ID), string(data), nil
}

// EncodeGroup returns the field name and JSON value for group.
func (s Schema) EncodeGroup(group core.Group) (name, value string, err error) {
	if group.ID == "" {
		return "", "", fmt.Errorf("group has no ID")
	}
	data, err := json.Marshal(group)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal group %s: %w", group.ID, err)
	}
	return s.GroupName(group.ID), string(data), nil
}
