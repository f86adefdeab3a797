package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/logger"
)

// RequestsDirName holds one JSON file per saved request next to the
// collection, so single requests can be diffed and reviewed in version
// control
const RequestsDirName = "requests"

// RequestFile is the content of requests/<id>.json
type RequestFile struct {
	ID        string `json:"id"`
	ParentID  string `json:"parent_id"`
	ProjectID string `json:"project_id"`
	Item      *Item  `json:"item"`
}

// RequestsDir returns the request mirror directory for root
func RequestsDir(root string) string {
	return filepath.Join(config.StorageDir(root), RequestsDirName)
}

// writeRequestFiles mirrors every request of the collection and removes the
// files of requests that no longer exist
func (s *Store) writeRequestFiles() error {
	dir := RequestsDir(s.Root)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create request dir: %w", err)
	}

	seen := make(map[string]bool)
	var visit func(items []*Item, parentID, projectID string) error
	visit = func(items []*Item, parentID, projectID string) error {
		for _, it := range items {
			if !it.IsRequest() {
				if err := visit(it.Item, it.ID, projectID); err != nil {
					return err
				}
				continue
			}
			seen[it.ID] = true
			data, err := json.MarshalIndent(RequestFile{
				ID:        it.ID,
				ParentID:  parentID,
				ProjectID: projectID,
				Item:      it,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to serialize request file: %w", err)
			}
			if err := os.WriteFile(filepath.Join(dir, it.ID+".json"), data, config.FilePermissions); err != nil {
				return fmt.Errorf("failed to write request file: %w", err)
			}
		}
		return nil
	}
	for _, project := range s.Collection.Item {
		if err := visit(project.Item, project.ID, project.ID); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read request dir: %w", err)
	}
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || e.IsDir() || seen[id] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			logger.Warn("failed to remove stale request file", "file", e.Name(), "error", err)
		}
	}
	return nil
}
