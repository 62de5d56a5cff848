package menu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func sampleTree() Tree {
	return Tree{
		{Key: "1", Label: "Navigation One", Icon: "MailOutlined", Children: []Node{
			{Key: "sub1", Label: "Option 1"},
			{Key: "sub2", Label: "Option 2"},
			{Key: "mail", Label: "Mail Settings", Children: []Node{
				{Key: "mail-in", Label: "Inbox rules"},
				{Key: "mail-out", Label: "Outgoing server"},
			}},
		}},
		{Key: "2", Label: "Navigation Two", Icon: "AppstoreOutlined", Children: []Node{
			{Key: "apps", Label: "a(b) widget"},
			{Key: "ab", Label: "ab widget"},
		}},
		{Key: "link", Label: "Ant Design", Icon: "LinkOutlined"},
	}
}

func keys(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}

func TestSearch_ResetOnEmptyQuery(t *testing.T) {
	tree := sampleTree()
	for _, q := range []string{"", " ", "\t\n  "} {
		res := Search(tree, q)
		assert.Equal(t, tree, res.Tree, "query %q", q)
		assert.Empty(t, res.ExpandKeys)
		assert.NotNil(t, res.ExpandKeys)
		assert.Empty(t, res.MatchedPaths)
		assert.False(t, res.NotFound)
		assert.True(t, res.IsReset())
		assert.Equal(t, tree, res.View())
	}
}

func TestSearch_OptionScenario(t *testing.T) {
	tree := Tree{{Key: "1", Label: "Navigation One", Children: []Node{{Key: "sub1", Label: "Option 1"}}}}

	res := Search(tree, "option")
	require.False(t, res.NotFound)
	require.Len(t, res.Tree, 1)
	assert.Equal(t, "1", res.Tree[0].Key)
	assert.Nil(t, res.Tree[0].Highlight)
	require.Len(t, res.Tree[0].Children, 1)

	child := res.Tree[0].Children[0]
	assert.Equal(t, "sub1", child.Key)
	assert.Equal(t, "Option 1", child.Label)
	assert.Equal(t, Segments{{Text: "Option", Match: true}, {Text: " 1"}}, child.Highlight)

	assert.Equal(t, []string{"1"}, res.ExpandKeys)
	assert.Equal(t, []Path{{"1", "sub1"}}, res.MatchedPaths)
	assert.Equal(t, 1, res.Matches)
}

func TestSearch_ExpandMatchedIsInclusive(t *testing.T) {
	tree := Tree{{Key: "1", Label: "Navigation One", Children: []Node{{Key: "sub1", Label: "Option 1"}}}}

	res := Search(tree, "option", WithExpandMatched())
	assert.Equal(t, []string{"1", "sub1"}, res.ExpandKeys)
	assert.Equal(t, []Path{{"1", "sub1"}}, res.MatchedPaths)
}

func TestSearch_NotFound(t *testing.T) {
	tree := Tree{{Key: "1", Label: "Navigation One", Children: []Node{{Key: "sub1", Label: "Option 1"}}}}

	res := Search(tree, "zzz")
	assert.True(t, res.NotFound)
	assert.NotNil(t, res.Tree)
	assert.Empty(t, res.Tree)
	assert.Empty(t, res.ExpandKeys)
	assert.Empty(t, res.MatchedPaths)
	assert.Equal(t, tree, res.View(), "not found keeps the source tree on display")
	assert.False(t, res.IsReset())
}

func TestSearch_CaseInsensitive(t *testing.T) {
	res := Search(sampleTree(), "MAIL")
	require.False(t, res.NotFound)

	n, _, ok := Find("mail", res.Tree)
	require.True(t, ok)
	assert.Equal(t, Segments{{Text: "Mail", Match: true}, {Text: " Settings"}}, n.Highlight)
	// Children kept through their keys only carry no highlight.
	require.Len(t, n.Children, 2)
	assert.Nil(t, n.Children[0].Highlight)
	assert.Contains(t, res.MatchedPaths, Path{"1", "mail"})
}

func TestSearch_PrunesNonMatchingChildrenOfMatch(t *testing.T) {
	res := Search(sampleTree(), "navigation two")
	require.Len(t, res.Tree, 1)
	assert.Equal(t, "2", res.Tree[0].Key)
	assert.Nil(t, res.Tree[0].Children)
	assert.Empty(t, res.ExpandKeys)
	assert.Equal(t, []Path{{"2"}}, res.MatchedPaths)
}

func TestSearch_LiteralQuery(t *testing.T) {
	res := Search(sampleTree(), "a(b")
	require.False(t, res.NotFound)
	require.Len(t, res.Tree, 1)
	assert.Equal(t, []string{"apps"}, keys(res.Tree[0].Children))
	assert.Equal(t, []Path{{"2", "apps"}}, res.MatchedPaths)

	for _, q := range []string{".", "*", "(", ")", "[", "\\", "+?", "^$", "|"} {
		assert.NotPanics(t, func() { Search(sampleTree(), q) }, "query %q", q)
	}
	assert.True(t, Search(sampleTree(), ".*").NotFound)
}

func TestSearch_KeyMatchWithoutHighlight(t *testing.T) {
	res := Search(sampleTree(), "sub2")
	require.Len(t, res.Tree, 1)
	child := res.Tree[0].Children[0]
	assert.Equal(t, "sub2", child.Key)
	assert.Nil(t, child.Highlight)
	assert.Equal(t, "Option 2", child.Label)
}

func TestSearch_PreservesOrderAndPrunes(t *testing.T) {
	res := Search(sampleTree(), "o")
	// "Ant Design" has no "o" in key or label.
	assert.Equal(t, []string{"1", "2"}, keys(res.Tree))
	assert.Equal(t, []string{"sub1", "sub2", "mail"}, keys(res.Tree[0].Children))
	assert.Equal(t, []string{"mail-in", "mail-out"}, keys(res.Tree[0].Children[2].Children))
}

func TestSearch_ParentAndChildPathsRetained(t *testing.T) {
	res := Search(sampleTree(), "mail")
	assert.Equal(t, []Path{
		{"1", "mail"},
		{"1", "mail", "mail-in"},
		{"1", "mail", "mail-out"},
	}, res.MatchedPaths)
	assert.Equal(t, []string{"1", "mail"}, res.ExpandKeys)
}

func TestSearch_ContainerPaths(t *testing.T) {
	res := Search(sampleTree(), "inbox", WithContainerPaths())
	assert.Equal(t, []Path{
		{"1"},
		{"1", "mail"},
		{"1", "mail", "mail-in"},
	}, res.MatchedPaths)

	// A container that also matches directly is recorded once.
	res = Search(sampleTree(), "mail", WithContainerPaths())
	assert.Equal(t, []Path{
		{"1"},
		{"1", "mail"},
		{"1", "mail", "mail-in"},
		{"1", "mail", "mail-out"},
	}, res.MatchedPaths)
}

func TestSearch_InvalidUTF8Query(t *testing.T) {
	tree := Tree{{Key: "1", Label: "Navigation One", Children: []Node{{Key: "bin", Label: "raw \xff byte"}}}}

	var res Result
	require.NotPanics(t, func() { res = Search(tree, "\xff") })
	require.False(t, res.NotFound)
	assert.Equal(t, []Path{{"1", "bin"}}, res.MatchedPaths)
	assert.Equal(t, "raw [\xff] byte", res.Tree[0].Children[0].Highlight.Marked("[", "]"))

	require.NotPanics(t, func() { res = Search(tree, "\xc3") })
	assert.False(t, res.NotFound, "a lone invalid byte matches any invalid byte")

	require.NotPanics(t, func() { res = Search(Tree{{Key: "1", Label: "Navigation One"}}, "\xff") })
	assert.True(t, res.NotFound)
}

func TestSearch_ArbitraryBytes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bytesGen := rapid.SliceOfN(rapid.Byte(), 0, 6)
		var tree Tree
		for i := 0; i < rapid.IntRange(0, 4).Draw(t, "roots"); i++ {
			tree = append(tree, Node{
				Key:   fmt.Sprintf("k%d", i),
				Label: string(bytesGen.Draw(t, "label")),
				Children: []Node{
					{Key: fmt.Sprintf("c%d", i), Label: string(bytesGen.Draw(t, "child"))},
				},
			})
		}
		query := string(rapid.SliceOfN(rapid.Byte(), 1, 3).Draw(t, "query"))

		res := Search(tree, query)
		if res.NotFound != (res.Matches == 0) && !res.IsReset() {
			t.Fatalf("NotFound=%v with %d matches", res.NotFound, res.Matches)
		}
		if len(res.MatchedPaths) != res.Matches {
			t.Fatalf("%d matched paths for %d matches", len(res.MatchedPaths), res.Matches)
		}
		res.Tree.Walk(func(n *Node, _ Path) bool {
			if n.Highlight != nil && n.Highlight.String() != n.Label {
				t.Fatalf("highlight of %q rebuilt %q", n.Label, n.Highlight.String())
			}
			return true
		})
	})
}

func TestSearch_DoesNotMutateSource(t *testing.T) {
	tree := sampleTree()
	before := fmt.Sprintf("%#v", tree)
	_ = Search(tree, "o")
	_ = Search(tree, "mail", WithExpandMatched(), WithContainerPaths())
	assert.Equal(t, before, fmt.Sprintf("%#v", tree))
}

func TestSearch_NeverMatchesHighlightedForm(t *testing.T) {
	first := Search(sampleTree(), "option")
	// Searching the filtered result again must behave like searching plain labels.
	second := Search(first.Tree, "option")
	assert.Equal(t, first.MatchedPaths, second.MatchedPaths)
	assert.Equal(t, first.Tree[0].Children[0].Highlight, second.Tree[0].Children[0].Highlight)
}

func TestSearch_Deterministic(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, Search(tree, "o"), Search(tree, "o"))
}

// genTree draws a tree with unique keys and labels from a small alphabet so
// that queries hit often.
func genTree(t *rapid.T) Tree {
	next := 0
	label := rapid.StringOfN(rapid.RuneFrom([]rune("abAB (.)*")), 0, 8, -1)
	var gen func(depth int) []Node
	gen = func(depth int) []Node {
		n := rapid.IntRange(0, 3).Draw(t, "width")
		nodes := make([]Node, 0, n)
		for i := 0; i < n; i++ {
			next++
			node := Node{
				Key:   fmt.Sprintf("k%d", next),
				Label: label.Draw(t, "label"),
			}
			if depth < 3 {
				node.Children = gen(depth + 1)
			}
			nodes = append(nodes, node)
		}
		return nodes
	}
	return gen(0)
}

func TestSearch_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t)
		query := rapid.StringOfN(rapid.RuneFrom([]rune("abAB (.)*k1")), 1, 3, -1).Draw(t, "query")
		res := Search(tree, query)
		if strings.TrimSpace(query) == "" {
			return
		}

		expand := make(map[string]bool)
		for _, k := range res.ExpandKeys {
			expand[k] = true
		}
		for _, p := range res.MatchedPaths {
			for _, anc := range p[:len(p)-1] {
				if !expand[anc] {
					t.Fatalf("ancestor %q of %v missing from expand keys %v", anc, p, res.ExpandKeys)
				}
			}
		}

		lower := strings.ToLower(query)
		var check func(filtered, source []Node)
		check = func(filtered, source []Node) {
			j := 0
			for _, f := range filtered {
				for j < len(source) && source[j].Key != f.Key {
					j++
				}
				if j == len(source) {
					t.Fatalf("node %q not found in source order", f.Key)
				}
				src := source[j]
				direct := strings.Contains(strings.ToLower(src.Key), lower) ||
					strings.Contains(strings.ToLower(src.Label), lower)
				if !direct && len(f.Children) == 0 {
					t.Fatalf("node %q kept without a match", f.Key)
				}
				if f.Label != src.Label {
					t.Fatalf("label of %q changed", f.Key)
				}
				check(f.Children, src.Children)
				j++
			}
		}
		check(res.Tree, tree)

		if res.NotFound != (res.Matches == 0) {
			t.Fatalf("NotFound=%v with %d matches", res.NotFound, res.Matches)
		}
		if len(res.MatchedPaths) != res.Matches {
			t.Fatalf("%d matched paths for %d matches", len(res.MatchedPaths), res.Matches)
		}
		if len(res.MatchedPaths) != res.Matches {
			t.Fatalf("%d paths for %d matches", len(res.MatchedPaths), res.Matches)
		}
	})
}
