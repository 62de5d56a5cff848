// Package menu implements the menu tree model and its search engine:
// substring filtering, label highlighting and key-path resolution.
package menu

// Node is one entry in the menu tree.
//
// Label always holds the plain display text. Search results carry the
// decorated form in Highlight and leave Label untouched, so matching is
// never performed against highlighted text.
type Node struct {
	Key       string   `json:"key" yaml:"key"`
	Label     string   `json:"label" yaml:"label"`
	Icon      string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Children  []Node   `json:"children,omitempty" yaml:"children,omitempty"`
	Highlight Segments `json:"highlight,omitempty" yaml:"-"`
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree is an ordered list of root nodes. Keys are unique across the whole tree.
type Tree []Node

// Path is the ordered list of keys from a root to a node.
type Path []string

// Walk visits every node depth-first in document order. parents holds the
// keys strictly above n. Returning false from fn stops the walk.
func (t Tree) Walk(fn func(n *Node, parents Path) bool) {
	walk(t, nil, fn)
}

func walk(nodes []Node, parents Path, fn func(*Node, Path) bool) bool {
	for i := range nodes {
		n := &nodes[i]
		if !fn(n, parents) {
			return false
		}
		if len(n.Children) > 0 {
			if !walk(n.Children, appendPath(parents, n.Key), fn) {
				return false
			}
		}
	}
	return true
}

// Len returns the total number of nodes in t.
func (t Tree) Len() int {
	count := 0
	t.Walk(func(*Node, Path) bool {
		count++
		return true
	})
	return count
}

// Plain returns a deep copy of t with every Highlight cleared.
func (t Tree) Plain() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for i, n := range t {
		n.Highlight = nil
		n.Children = []Node(Tree(n.Children).Plain())
		out[i] = n
	}
	return out
}

// appendPath returns a new path with key appended. The result never shares
// its backing array with p, so sibling paths cannot clobber each other.
func appendPath(p Path, key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}
