package menu

import "strings"

// BreadcrumbSeparator joins labels in a breadcrumb.
const BreadcrumbSeparator = " / "

// Find returns the node with key and the keys of its ancestors.
func Find(key string, tree Tree) (*Node, Path, bool) {
	var (
		found   *Node
		parents Path
	)
	tree.Walk(func(n *Node, p Path) bool {
		if n.Key == key {
			found, parents = n, p
			return false
		}
		return true
	})
	return found, parents, found != nil
}

// LabelOf returns the plain label of the node with key, or "" when no such
// node exists. A missing key is not an error: breadcrumbs are built best-effort.
func LabelOf(key string, tree Tree) string {
	n, _, ok := Find(key, tree)
	if !ok {
		return ""
	}
	return n.Label
}

// PathOf returns the key path from a root to the node with key.
func PathOf(key string, tree Tree) (Path, bool) {
	_, parents, ok := Find(key, tree)
	if !ok {
		return nil, false
	}
	return appendPath(parents, key), true
}

// PathLabels resolves each key to its label. Unknown keys map to "".
func PathLabels(keys []string, tree Tree) []string {
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = LabelOf(k, tree)
	}
	return labels
}

// Breadcrumb renders the labels of parentKeys followed by label, e.g.
// "Navigation One / Option 1".
func Breadcrumb(parentKeys []string, label string, tree Tree) string {
	parts := append(PathLabels(parentKeys, tree), label)
	return strings.Join(parts, BreadcrumbSeparator)
}
