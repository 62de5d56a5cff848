package menu

import (
	"slices"
	"strings"
)

// Result is the outcome of one Search call.
type Result struct {
	Query string `json:"query"`
	// Tree is the filtered tree. On reset it is the source tree itself;
	// when nothing matched it is empty and NotFound is set.
	Tree Tree `json:"tree"`
	// ExpandKeys lists the keys a consumer must open to reveal every match,
	// deduplicated in first-seen order.
	ExpandKeys []string `json:"expand_keys"`
	// MatchedPaths holds one key path per matched node, in depth-first order.
	MatchedPaths []Path `json:"matched_paths"`
	// Matches counts nodes that matched directly by key or label.
	Matches  int  `json:"matches"`
	NotFound bool `json:"not_found"`

	source Tree
}

// View returns the tree a consumer should display. A query that matched
// nothing keeps the unfiltered source on screen next to a "not found" hint.
func (r Result) View() Tree {
	if r.NotFound {
		return r.source
	}
	return r.Tree
}

// IsReset reports whether r came from an empty or whitespace-only query.
func (r Result) IsReset() bool {
	return strings.TrimSpace(r.Query) == ""
}

// options control the conventions used when recording expand keys and paths.
type options struct {
	expandMatched  bool
	containerPaths bool
}

// Option configures Search.
type Option func(*options)

// WithExpandMatched adds each matched node's own key to the expand-set, in
// addition to its ancestors.
func WithExpandMatched() Option {
	return func(o *options) {
		o.expandMatched = true
	}
}

// WithContainerPaths also records the path of every kept node whose subtree
// holds a match, not only of nodes that matched directly.
func WithContainerPaths() Option {
	return func(o *options) {
		o.containerPaths = true
	}
}

// Search filters tree down to the nodes whose key or label contains query,
// plus the ancestors needed to reach them. Matching is literal and
// case-insensitive. tree is never modified; every kept node is a fresh copy.
//
// Case-insensitivity uses Unicode simple case folding rather than plain
// lowercasing: "ſ" matches "s" and the Kelvin sign matches "k". Invalid
// UTF-8 bytes in query or labels compare as U+FFFD and never cause an error.
//
// An empty or whitespace-only query returns tree unchanged with empty
// expand keys and paths.
func Search(tree Tree, query string, opts ...Option) Result {
	if strings.TrimSpace(query) == "" {
		return Result{
			Query:        query,
			Tree:         tree,
			ExpandKeys:   []string{},
			MatchedPaths: []Path{},
			source:       tree,
		}
	}

	s := &searcher{
		m:    newMatcher(query),
		seen: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}

	filtered := s.filter(tree, nil)

	res := Result{
		Query:        query,
		Tree:         filtered,
		ExpandKeys:   s.expand,
		MatchedPaths: s.paths,
		Matches:      s.matches,
		source:       tree,
	}
	if len(filtered) == 0 {
		res.Tree = Tree{}
		res.NotFound = true
	}
	if res.ExpandKeys == nil {
		res.ExpandKeys = []string{}
	}
	if res.MatchedPaths == nil {
		res.MatchedPaths = []Path{}
	}
	return res
}

// searcher accumulates the per-call expand-set and matched paths.
type searcher struct {
	m       *matcher
	opts    options
	expand  []string
	seen    map[string]struct{}
	paths   []Path
	matches int
}

func (s *searcher) filter(nodes []Node, parents Path) []Node {
	var out []Node
	for i := range nodes {
		if n, ok := s.visit(&nodes[i], parents); ok {
			out = append(out, n)
		}
	}
	return out
}

func (s *searcher) visit(n *Node, parents Path) (Node, bool) {
	keyHit := s.m.matches(n.Key)
	labelHit := s.m.matches(n.Label)
	direct := keyHit || labelHit
	path := appendPath(parents, n.Key)

	if direct {
		s.matches++
		s.addExpand(parents...)
		if s.opts.expandMatched {
			s.addExpand(n.Key)
		}
		s.paths = append(s.paths, path)
	}

	mark := len(s.paths)
	var children []Node
	if len(n.Children) > 0 {
		children = s.filter(n.Children, path)
	}

	if !direct && len(children) == 0 {
		return Node{}, false
	}
	if !direct && s.opts.containerPaths {
		s.paths = slices.Insert(s.paths, mark, path)
	}

	out := Node{
		Key:      n.Key,
		Label:    n.Label,
		Icon:     n.Icon,
		Children: children,
	}
	if labelHit {
		out.Highlight = s.m.split(n.Label)
	}
	return out, true
}

func (s *searcher) addExpand(keys ...string) {
	for _, k := range keys {
		if _, ok := s.seen[k]; ok {
			continue
		}
		s.seen[k] = struct{}{}
		s.expand = append(s.expand, k)
	}
}
