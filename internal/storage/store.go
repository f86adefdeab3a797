// Package storage persists projects, folders, requests and environments under
// the project's .perseus directory. The collection is a Postman v2.1 file so
// it can be exchanged with other tools.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/studiowebux/perseus/internal/config"
	"github.com/studiowebux/perseus/internal/logger"
	"github.com/studiowebux/perseus/internal/types"
)

// CollectionFileName is the collection file inside the storage directory
const CollectionFileName = "collection.json"

var (
	// ErrNotFound is returned when an id does not name any item
	ErrNotFound = errors.New("item not found")
	// ErrInvalidMove is returned when an item would be moved into itself,
	// one of its descendants, or a request
	ErrInvalidMove = errors.New("invalid move")
	// ErrNotContainer is returned when adding children to a request
	ErrNotContainer = errors.New("cannot add items inside a request")
)

// ProjectInfo names a top-level project
type ProjectInfo struct {
	ID   string
	Name string
}

// Store owns the collection of one project root
type Store struct {
	Root       string
	Collection *Collection
}

// CollectionPath returns the collection file for root
func CollectionPath(root string) string {
	return filepath.Join(config.StorageDir(root), CollectionFileName)
}

// Open loads the collection under root, creating one with a single project
// named after the directory when none exists. Missing or malformed ids are
// replaced and children are sorted; the file is rewritten if anything changed.
func Open(root string) (*Store, error) {
	path := CollectionPath(root)

	var col *Collection
	created := false
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		col = &Collection{}
		if err := json.Unmarshal(data, col); err != nil {
			return nil, fmt.Errorf("failed to parse collection: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		name := filepath.Base(root)
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = "Perseus"
		}
		col = NewCollection(name)
		col.Item = append(col.Item, newFolder(name))
		created = true
	default:
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}

	changed := ensureIDs(col)
	if sortItems(col.Item) {
		changed = true
	}

	s := &Store{Root: root, Collection: col}
	if created || changed {
		if err := s.Save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Save writes the collection atomically through a temporary file, then
// refreshes the per-request mirror files
func (s *Store) Save() error {
	dir, err := config.EnsureStorageDir(s.Root)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Collection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize collection: %w", err)
	}

	tmp, err := os.CreateTemp(dir, CollectionFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write collection: %w", err)
	}
	if err := os.Chmod(tmpName, config.FilePermissions); err != nil {
		logger.Warn("chmod collection failed", "error", err)
	}
	if err := os.Rename(tmpName, CollectionPath(s.Root)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace collection: %w", err)
	}
	logger.Debug("collection saved", "path", CollectionPath(s.Root))
	return s.writeRequestFiles()
}

// Projects lists the top-level projects in sorted order
func (s *Store) Projects() []ProjectInfo {
	out := make([]ProjectInfo, 0, len(s.Collection.Item))
	for _, it := range s.Collection.Item {
		out = append(out, ProjectInfo{ID: it.ID, Name: it.Name})
	}
	return out
}

// Item returns the item with id
func (s *Store) Item(id string) (*Item, error) {
	it := findItem(s.Collection.Item, id)
	if it == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return it, nil
}

// Request returns the editable form of the request item with id
func (s *Store) Request(id string) (*types.Request, error) {
	it, err := s.Item(id)
	if err != nil {
		return nil, err
	}
	if !it.IsRequest() {
		return nil, fmt.Errorf("%w: %s is not a request", ErrNotFound, it.Name)
	}
	return it.ToRequest(), nil
}

// AddProject appends a new top-level project
func (s *Store) AddProject(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("project name cannot be empty")
	}
	p := newFolder(name)
	s.Collection.Item = append(s.Collection.Item, p)
	sortItems(s.Collection.Item)
	return p.ID, nil
}

// AddFolder creates a folder under parentID
func (s *Store) AddFolder(parentID, name string) (string, error) {
	return s.addChild(parentID, newFolder(name))
}

// AddRequest creates a request under parentID
func (s *Store) AddRequest(parentID, name string, req *types.Request) (string, error) {
	if req == nil {
		req = &types.Request{Method: types.MethodGet}
	}
	return s.addChild(parentID, &Item{Name: name, ID: NewID(), Request: FromRequest(req)})
}

func (s *Store) addChild(parentID string, child *Item) (string, error) {
	child.Name = strings.TrimSpace(child.Name)
	if child.Name == "" {
		return "", errors.New("name cannot be empty")
	}
	parent, err := s.Item(parentID)
	if err != nil {
		return "", err
	}
	if parent.IsRequest() {
		return "", ErrNotContainer
	}
	parent.Item = append(parent.Item, child)
	sortItems(s.Collection.Item)
	return child.ID, nil
}

// UpdateRequest replaces the request body of id, keeping its name unless
// req.Name is set
func (s *Store) UpdateRequest(id string, req *types.Request) error {
	it, err := s.Item(id)
	if err != nil {
		return err
	}
	if !it.IsRequest() {
		return fmt.Errorf("%w: %s is not a request", ErrNotFound, it.Name)
	}
	it.Request = FromRequest(req)
	if name := strings.TrimSpace(req.Name); name != "" && name != it.Name {
		it.Name = name
		sortItems(s.Collection.Item)
	}
	return nil
}

// Rename changes the name of id
func (s *Store) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name cannot be empty")
	}
	it, err := s.Item(id)
	if err != nil {
		return err
	}
	it.Name = name
	sortItems(s.Collection.Item)
	return nil
}

// Delete removes id and everything below it
func (s *Store) Delete(id string) error {
	items, idx := findParent(&s.Collection.Item, id)
	if items == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	*items = append((*items)[:idx], (*items)[idx+1:]...)
	return nil
}

// Duplicate copies id next to itself with fresh ids throughout
func (s *Store) Duplicate(id string) (string, error) {
	items, idx := findParent(&s.Collection.Item, id)
	if items == nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	clone := cloneWithNewIDs((*items)[idx])
	*items = append(*items, clone)
	sortItems(s.Collection.Item)
	return clone.ID, nil
}

// Move re-parents id under destID
func (s *Store) Move(id, destID string) error {
	it, err := s.Item(id)
	if err != nil {
		return err
	}
	dest, err := s.Item(destID)
	if err != nil {
		return err
	}
	if dest.IsRequest() {
		return fmt.Errorf("%w: cannot move into a request", ErrInvalidMove)
	}
	if it == dest || findItem(it.Item, destID) != nil {
		return fmt.Errorf("%w: cannot move %q into itself", ErrInvalidMove, it.Name)
	}

	items, idx := findParent(&s.Collection.Item, id)
	*items = append((*items)[:idx], (*items)[idx+1:]...)
	dest.Item = append(dest.Item, it)
	sortItems(s.Collection.Item)
	return nil
}

// Import appends every top-level item of other as a project, re-issuing ids
// that clash with existing ones. Returns the number of requests imported.
func (s *Store) Import(other *Collection) int {
	seen := make(map[string]bool)
	walk(s.Collection.Item, func(it *Item) { seen[it.ID] = true })

	count := 0
	for _, it := range other.Item {
		walk([]*Item{it}, func(n *Item) {
			if n.ID == "" || !validID(n.ID) || seen[n.ID] {
				n.ID = NewID()
			}
			seen[n.ID] = true
			if n.IsRequest() {
				count++
			}
		})
		if it.IsRequest() {
			// a loose request becomes a project of its own
			it = &Item{Name: it.Name, ID: NewID(), Item: []*Item{it}}
		}
		s.Collection.Item = append(s.Collection.Item, it)
	}
	sortItems(s.Collection.Item)
	return count
}

// ImportFile reads a Postman v2.1 collection from path and imports it
func (s *Store) ImportFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var col Collection
	if err := json.Unmarshal(data, &col); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(col.Item) == 0 {
		return 0, fmt.Errorf("no items in %s", path)
	}
	return s.Import(&col), nil
}

// FindByPath resolves a slash-separated "Project/Folder/Request" path,
// matching names case-insensitively
func (s *Store) FindByPath(path string) (string, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	items := s.Collection.Item
	var found *Item
	for _, part := range parts {
		found = nil
		for _, it := range items {
			if strings.EqualFold(it.Name, strings.TrimSpace(part)) {
				found = it
				break
			}
		}
		if found == nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		items = found.Item
	}
	return found.ID, nil
}

func ensureIDs(c *Collection) bool {
	changed := false
	if !validID(c.Info.PostmanID) {
		c.Info.PostmanID = NewID()
		changed = true
	}
	if c.Info.Schema == "" {
		c.Info.Schema = SchemaURL
		changed = true
	}
	walk(c.Item, func(it *Item) {
		if !validID(it.ID) {
			it.ID = NewID()
			changed = true
		}
	})
	return changed
}

// sortItems orders siblings by lowercased name then id, recursively, and
// reports whether any order changed
func sortItems(items []*Item) bool {
	before := make([]string, len(items))
	for i, it := range items {
		before[i] = it.ID
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
	changed := false
	for i, it := range items {
		if before[i] != it.ID {
			changed = true
		}
		if sortItems(it.Item) {
			changed = true
		}
	}
	return changed
}

func walk(items []*Item, fn func(*Item)) {
	for _, it := range items {
		fn(it)
		walk(it.Item, fn)
	}
}

func findItem(items []*Item, id string) *Item {
	for _, it := range items {
		if it.ID == id {
			return it
		}
		if found := findItem(it.Item, id); found != nil {
			return found
		}
	}
	return nil
}

// findParent returns the slice holding id and its index, or nil
func findParent(items *[]*Item, id string) (*[]*Item, int) {
	for i, it := range *items {
		if it.ID == id {
			return items, i
		}
		if p, idx := findParent(&it.Item, id); p != nil {
			return p, idx
		}
	}
	return nil, -1
}

func cloneWithNewIDs(it *Item) *Item {
	c := *it
	c.ID = NewID()
	if it.Request != nil {
		r := *it.Request
		r.Header = append([]Header(nil), it.Request.Header...)
		if it.Request.Body != nil {
			b := *it.Request.Body
			r.Body = &b
		}
		if it.Request.Auth != nil {
			a := *it.Request.Auth
			r.Auth = &a
		}
		c.Request = &r
	}
	c.Response = append([]json.RawMessage(nil), it.Response...)
	c.Item = nil
	for _, child := range it.Item {
		c.Item = append(c.Item, cloneWithNewIDs(child))
	}
	return &c
}
