package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/fieldboard/pkg/core"
)

// ResultKind tags the outcome of decoding a single record.
type ResultKind int

const (
	ResultIgnored ResultKind = iota
	ResultItem
	ResultGroup
	ResultMalformed
)

func (k ResultKind) String() string {
	switch k {
	case ResultItem:
		return "item"
	case ResultGroup:
		return "group"
	case ResultMalformed:
		return "malformed"
	}
	return "ignored"
}

// Result is the decoded form of one record under a known prefix.
// Exactly one of Item, Group or Err is meaningful, selected by Kind.
type Result struct {
	Kind   ResultKind
	Record core.RawRecord
	Item   core.WorkItem
	Group  core.Group
	Err    error
}

// Decoded holds the outcome of decoding a batch of records.
type Decoded struct {
	Results   []Result
	Items     []core.WorkItem
	Groups    []core.Group
	Malformed []Result
}

// Decode decodes records with the default schema.
func Decode(records []core.RawRecord) Decoded {
	return DefaultSchema().Decode(records)
}

// Decode turns records into typed entities, preserving input order.
// Records under neither prefix are skipped; records whose payload fails to
// decode are reported as malformed and never abort the batch.
func (s Schema) Decode(records []core.RawRecord) Decoded {
	var out Decoded
	for _, rec := range records {
		res := s.DecodeRecord(rec)
		switch res.Kind {
		case ResultIgnored:
			continue
		case ResultItem:
			out.Items = append(out.Items, res.Item)
		case ResultGroup:
			out.Groups = append(out.Groups, res.Group)
		case ResultMalformed:
			out.Malformed = append(out.Malformed, res)
		}
		out.Results = append(out.Results, res)
	}
	return out
}

// DecodeRecord decodes a single record.
func (s Schema) DecodeRecord(rec core.RawRecord) Result {
	res := Result{Kind: s.Classify(rec.Name), Record: rec}

	var err error
	switch res.Kind {
	case ResultIgnored:
		return res
	case ResultItem:
		res.Item, err = decodeItem(rec)
	case ResultGroup:
		res.Group, err = decodeGroup(rec)
	}
	if err != nil {
		return Result{
			Kind:   ResultMalformed,
			Record: rec,
			Err:    fmt.Errorf("%w %q: %v", core.ErrMalformedField, rec.Name, err),
		}
	}
	return res
}

func decodeItem(rec core.RawRecord) (core.WorkItem, error) {
	var item core.WorkItem
	if err := unmarshalObject(rec.Value, &item); err != nil {
		return core.WorkItem{}, err
	}
	if item.ID == "" {
		return core.WorkItem{}, fmt.Errorf("missing id")
	}

	item.Kind = item.Kind.Normalize()
	if item.Kind == "" {
		item.Kind = core.KindTask
	}
	if !item.Kind.Valid() {
		return core.WorkItem{}, fmt.Errorf("unknown type %q", item.Kind)
	}
	if item.Status == "" {
		item.Status = core.StatusUpcoming
	}
	if !item.Status.Valid() {
		return core.WorkItem{}, fmt.Errorf("unknown status %q", item.Status)
	}
	item.Assignees = core.UniqueAssignees(item.Assignees)

	item.FieldID = rec.ID
	return item, nil
}

func decodeGroup(rec core.RawRecord) (core.Group, error) {
	var group core.Group
	if err := unmarshalObject(rec.Value, &group); err != nil {
		return core.Group{}, err
	}
	if group.ID == "" {
		return core.Group{}, fmt.Errorf("missing id")
	}
	if group.Name == "" {
		return core.Group{}, fmt.Errorf("missing name")
	}

	group.FieldID = rec.ID
	return group, nil
}

// unmarshalObject rejects anything but a single JSON object.
func unmarshalObject(value string, v any) error {
	trimmed := bytes.TrimSpace([]byte(value))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("payload is not a JSON object")
	}
	return json.Unmarshal(trimmed, v)
}
