package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/xlab/treeprint"

	"github.com/studiowebux/perseus/internal/storage"
)

// PrintTree writes every project of the collection as an indented tree
func PrintTree(w io.Writer, store *storage.Store) error {
	for _, p := range store.Projects() {
		tree, err := store.Tree(p.ID)
		if err != nil {
			return err
		}
		fmt.Fprint(w, buildTree(tree).String())
	}
	return nil
}

// buildTree converts a project tree to a treeprint tree
func buildTree(tree *storage.Tree) treeprint.Tree {
	root := tree.Node(tree.RootID)
	out := treeprint.NewWithRoot(color.New(color.Bold).Sprint(root.Name))

	var add func(branch treeprint.Tree, id string)
	add = func(branch treeprint.Tree, id string) {
		n := tree.Node(id)
		if n == nil {
			return
		}
		if n.IsContainer() {
			sub := branch.AddBranch(n.Name + "/")
			for _, c := range n.Children {
				add(sub, c)
			}
			return
		}
		branch.AddMetaNode(methodColor(string(n.Method)), n.Name)
	}
	for _, c := range root.Children {
		add(out, c)
	}
	return out
}

func methodColor(method string) string {
	var c *color.Color
	switch method {
	case "GET":
		c = color.New(color.FgGreen)
	case "POST":
		c = color.New(color.FgYellow)
	case "PUT", "PATCH":
		c = color.New(color.FgBlue)
	case "DELETE":
		c = color.New(color.FgRed)
	default:
		c = color.New(color.FgCyan)
	}
	return c.Sprint(method)
}
