package storage

import (
	"fmt"

	"github.com/studiowebux/perseus/internal/types"
)

// NodeKind distinguishes tree nodes
type NodeKind int

const (
	NodeProject NodeKind = iota
	NodeFolder
	NodeRequest
)

func (k NodeKind) String() string {
	switch k {
	case NodeProject:
		return "project"
	case NodeFolder:
		return "folder"
	default:
		return "request"
	}
}

// Node is one entry of a project tree
type Node struct {
	ID       string
	Name     string
	Kind     NodeKind
	ParentID string
	Children []string
	Method   types.Method
}

// IsContainer reports whether the node can hold children
func (n *Node) IsContainer() bool {
	return n.Kind != NodeRequest
}

// Row is a visible sidebar entry
type Row struct {
	*Node
	Depth    int
	Expanded bool
}

// Tree is an id-indexed view of one project
type Tree struct {
	RootID string
	Nodes  map[string]*Node
}

// Tree builds the tree of projectID
func (s *Store) Tree(projectID string) (*Tree, error) {
	var project *Item
	for _, it := range s.Collection.Item {
		if it.ID == projectID {
			project = it
			break
		}
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}

	t := &Tree{RootID: projectID, Nodes: make(map[string]*Node)}
	root := &Node{ID: project.ID, Name: project.Name, Kind: NodeProject}
	for _, child := range project.Item {
		root.Children = append(root.Children, child.ID)
		t.add(child, project.ID)
	}
	t.Nodes[root.ID] = root
	return t, nil
}

func (t *Tree) add(it *Item, parentID string) {
	n := &Node{ID: it.ID, Name: it.Name, Kind: NodeFolder, ParentID: parentID}
	if it.IsRequest() {
		n.Kind = NodeRequest
		n.Method = types.ParseMethod(it.Request.Method)
	}
	for _, child := range it.Item {
		n.Children = append(n.Children, child.ID)
		t.add(child, it.ID)
	}
	t.Nodes[n.ID] = n
}

// Node returns the node with id or nil
func (t *Tree) Node(id string) *Node {
	return t.Nodes[id]
}

// IsDescendant reports whether child is ancestor or lies below it
func (t *Tree) IsDescendant(ancestor, child string) bool {
	for id := child; id != ""; {
		if id == ancestor {
			return true
		}
		n := t.Nodes[id]
		if n == nil {
			return false
		}
		id = n.ParentID
	}
	return false
}

// PathFor returns the names from the project down to id
func (t *Tree) PathFor(id string) []string {
	var segments []string
	for cur := id; cur != ""; {
		n := t.Nodes[cur]
		if n == nil {
			break
		}
		segments = append(segments, n.Name)
		cur = n.ParentID
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return segments
}

// ParentFolder returns id itself when it is a container, otherwise its parent
func (t *Tree) ParentFolder(id string) string {
	n := t.Nodes[id]
	if n == nil {
		return t.RootID
	}
	if n.IsContainer() {
		return n.ID
	}
	return n.ParentID
}

// Rows flattens the tree in display order. The project is always expanded;
// folders are expanded when present in expanded.
func (t *Tree) Rows(expanded map[string]bool) []Row {
	var rows []Row
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		n := t.Nodes[id]
		if n == nil {
			return
		}
		open := n.Kind == NodeProject || expanded[id]
		rows = append(rows, Row{Node: n, Depth: depth, Expanded: open && n.IsContainer()})
		if !open {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(t.RootID, 0)
	return rows
}

// Requests returns every request node in display order regardless of folding
func (t *Tree) Requests() []*Node {
	var out []*Node
	var visit func(id string)
	visit = func(id string) {
		n := t.Nodes[id]
		if n == nil {
			return
		}
		if n.Kind == NodeRequest {
			out = append(out, n)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(t.RootID)
	return out
}
