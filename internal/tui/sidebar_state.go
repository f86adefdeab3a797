package tui

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/perseus/internal/storage"
)

// SidebarRow is a visible sidebar entry. Label holds the full path while a
// filter is active; Matched are the rune offsets of Label hit by the filter.
type SidebarRow struct {
	storage.Row
	Label   string
	Matched []int
}

// SidebarState is the project tree as drawn in the sidebar
type SidebarState struct {
	tree     *storage.Tree
	expanded map[string]bool
	rows     []SidebarRow

	cursor int
	offset int

	filter string
}

// NewSidebarState creates an empty sidebar with the given folders expanded
func NewSidebarState(expanded map[string]bool) *SidebarState {
	if expanded == nil {
		expanded = make(map[string]bool)
	}
	return &SidebarState{expanded: expanded}
}

// Tree returns the current tree
func (s *SidebarState) Tree() *storage.Tree {
	return s.tree
}

// SetTree replaces the tree, keeping the selection when its id survives
func (s *SidebarState) SetTree(tree *storage.Tree) {
	selected := s.SelectedID()
	s.tree = tree
	s.refresh()
	if selected != "" {
		s.selectVisible(selected)
	}
}

// Rows returns the visible rows
func (s *SidebarState) Rows() []SidebarRow {
	return s.rows
}

// Cursor returns the selected row index
func (s *SidebarState) Cursor() int {
	return s.cursor
}

// Offset returns the first drawn row
func (s *SidebarState) Offset() int {
	return s.offset
}

// Filter returns the active filter query
func (s *SidebarState) Filter() string {
	return s.filter
}

// Selected returns the row under the cursor or nil
func (s *SidebarState) Selected() *SidebarRow {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return nil
	}
	return &s.rows[s.cursor]
}

// SelectedID returns the id under the cursor or ""
func (s *SidebarState) SelectedID() string {
	if row := s.Selected(); row != nil {
		return row.ID
	}
	return ""
}

// Expanded returns the expanded folder ids, sorted
func (s *SidebarState) Expanded() []string {
	ids := make([]string, 0, len(s.expanded))
	for id, open := range s.expanded {
		if open && (s.tree == nil || s.tree.Node(id) != nil) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *SidebarState) refresh() {
	s.rows = nil
	if s.tree == nil {
		s.cursor, s.offset = 0, 0
		return
	}
	if s.filter == "" {
		for _, r := range s.tree.Rows(s.expanded) {
			s.rows = append(s.rows, SidebarRow{Row: r, Label: r.Name})
		}
	} else {
		s.rows = s.filtered()
	}
	s.clampCursor()
}

// filtered returns every node below the project whose path matches the
// filter, best match first
func (s *SidebarState) filtered() []SidebarRow {
	var nodes []*storage.Node
	var paths []string
	var visit func(id string)
	visit = func(id string) {
		n := s.tree.Node(id)
		if n == nil {
			return
		}
		if n.Kind != storage.NodeProject {
			nodes = append(nodes, n)
			paths = append(paths, strings.Join(s.tree.PathFor(id)[1:], "/"))
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(s.tree.RootID)

	matches := fuzzy.Find(s.filter, paths)
	rows := make([]SidebarRow, 0, len(matches))
	for _, match := range matches {
		n := nodes[match.Index]
		rows = append(rows, SidebarRow{
			Row:     storage.Row{Node: n},
			Label:   match.Str,
			Matched: match.MatchedIndexes,
		})
	}
	return rows
}

func (s *SidebarState) clampCursor() {
	if s.cursor >= len(s.rows) {
		s.cursor = len(s.rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *SidebarState) selectVisible(id string) bool {
	for i, r := range s.rows {
		if r.ID == id {
			s.cursor = i
			return true
		}
	}
	return false
}

// Select moves the cursor to id, expanding its ancestors. With a filter
// active the filter is cleared when id is not among the matches.
func (s *SidebarState) Select(id string) {
	if s.tree == nil || s.tree.Node(id) == nil {
		return
	}
	if s.filter != "" && s.selectVisible(id) {
		return
	}
	s.filter = ""
	for cur := s.tree.Node(id).ParentID; cur != ""; {
		n := s.tree.Node(cur)
		if n == nil {
			break
		}
		if n.Kind == storage.NodeFolder {
			s.expanded[cur] = true
		}
		cur = n.ParentID
	}
	s.refresh()
	s.selectVisible(id)
}

// SetFilter applies a fuzzy filter; an empty query restores the tree
func (s *SidebarState) SetFilter(query string) {
	selected := s.SelectedID()
	s.filter = strings.TrimSpace(query)
	s.cursor, s.offset = 0, 0
	s.refresh()
	if s.filter == "" && selected != "" {
		s.selectVisible(selected)
	}
}

// Move shifts the cursor by delta rows
func (s *SidebarState) Move(delta int) {
	s.cursor += delta
	s.clampCursor()
}

// Top selects the first row
func (s *SidebarState) Top() {
	s.cursor = 0
}

// Bottom selects the last row
func (s *SidebarState) Bottom() {
	s.cursor = len(s.rows) - 1
	s.clampCursor()
}

// Expand opens the selected container. It returns false for requests.
func (s *SidebarState) Expand() bool {
	row := s.Selected()
	if row == nil || !row.IsContainer() {
		return false
	}
	id, kind := row.ID, row.Kind
	if s.filter != "" {
		s.Select(id)
	}
	if kind == storage.NodeFolder && !s.expanded[id] {
		s.expanded[id] = true
		s.refresh()
		s.selectVisible(id)
	}
	return true
}

// Collapse closes the selected folder, or moves to the parent when the
// selection is a request or an already closed folder
func (s *SidebarState) Collapse() {
	row := s.Selected()
	if row == nil || s.filter != "" {
		return
	}
	if row.Kind == storage.NodeFolder && s.expanded[row.ID] {
		delete(s.expanded, row.ID)
		s.refresh()
		return
	}
	if row.ParentID != "" {
		s.selectVisible(row.ParentID)
	}
}

// Toggle flips the selected folder
func (s *SidebarState) Toggle() {
	row := s.Selected()
	if row == nil || row.Kind != storage.NodeFolder {
		return
	}
	if s.expanded[row.ID] {
		s.Collapse()
		return
	}
	s.Expand()
}

// EnsureVisible scrolls so the cursor lies within height rows
func (s *SidebarState) EnsureVisible(height int) {
	if height < 1 {
		height = 1
	}
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+height {
		s.offset = s.cursor - height + 1
	}
	if last := len(s.rows) - height; s.offset > last {
		s.offset = last
	}
	if s.offset < 0 {
		s.offset = 0
	}
}
