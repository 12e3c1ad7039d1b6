package fileutils

import (
	"io/fs"
	"path"
)

// FSNode represents a file or directory within an FSTree.
// Path is always slash-separated and relative to the walk root; the root node is ".".
type FSNode struct {
	Path  string
	Name  string
	IsDir bool

	Parent   *FSNode
	Children []*FSNode
}

// Child returns the direct child with the given name.
func (n *FSNode) Child(name string) (*FSNode, bool) {
	if n == nil {
		return nil, false
	}
	for _, c := range n.Children {
		if c != nil && c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// FSTree is a hierarchical representation of a directory tree.
// Children are in lexical order.
type FSTree struct {
	Root  *FSNode
	Nodes map[string]*FSNode
}

type TraverseFunc func(node *FSNode, depth int)

// Traverse walks the tree depth-first, calling enter before and leave after a node's children.
func (t *FSTree) Traverse(enter, leave TraverseFunc) {
	if t == nil || t.Root == nil {
		return
	}
	traverseNode(t.Root, enter, leave, 0)
}

func traverseNode(node *FSNode, enter, leave TraverseFunc, depth int) {
	if enter != nil {
		enter(node, depth)
	}
	for _, child := range node.Children {
		traverseNode(child, enter, leave, depth+1)
	}
	if leave != nil {
		leave(node, depth)
	}
}

// Node retrieves a node by relative path (e.g. ".", "guide", "guide/intro.md").
func (t *FSTree) Node(rel string) (*FSNode, bool) {
	if t == nil || t.Nodes == nil {
		return nil, false
	}
	n, ok := t.Nodes[path.Clean(rel)]
	return n, ok
}

// SkipFunc decides whether an entry is left out of a walk. Skipping a directory skips its contents.
type SkipFunc func(rel string, d fs.DirEntry) bool

// WalkTreeFS walks root within fsys and returns the tree below it.
// The returned tree always contains a root node with Path ".".
func WalkTreeFS(fsys fs.FS, root string, skip SkipFunc) (*FSTree, error) {
	root = path.Clean(root)

	rootNode := &FSNode{
		Path:  ".",
		Name:  path.Base(root),
		IsDir: true,
	}

	tree := &FSTree{
		Root:  rootNode,
		Nodes: map[string]*FSNode{".": rootNode},
	}

	err := fs.WalkDir(fsys, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel := relTo(root, current)
		if rel == "." {
			return nil
		}

		if skip != nil && skip(rel, d) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		// fs.WalkDir is lexical and visits parents first, so the parent is always known
		parent := tree.Nodes[path.Dir(rel)]

		n := &FSNode{
			Path:   rel,
			Name:   d.Name(),
			IsDir:  d.IsDir(),
			Parent: parent,
		}
		parent.Children = append(parent.Children, n)
		tree.Nodes[rel] = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tree, nil
}
