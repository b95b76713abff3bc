package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/fieldboard/pkg/core"
)

// tempPrefix marks in-progress writes next to the fields file.
const tempPrefix = "fieldboard-tmp-"

// document is the on-disk layout of the fields file.
type document struct {
	Version int              `json:"version"`
	NextID  int              `json:"next_id"`
	Fields  []core.RawRecord `json:"fields"`
}

// readDocument loads the fields file. A missing file is an empty document.
func readDocument(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &document{Version: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fields file: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("fields file %s is corrupted: %w", path, err)
	}
	return doc, nil
}

// writeDocument replaces the fields file without ever exposing a partial write.
func writeDocument(path string, doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode fields file: %w", err)
	}

	dir := filepath.Dir(path)
	if err := mkdirAll(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func mkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// index maps field names to their position in doc.Fields.
func (d *document) index() map[string]int {
	idx := make(map[string]int, len(d.Fields))
	for i, f := range d.Fields {
		idx[f.Name] = i
	}
	return idx
}
