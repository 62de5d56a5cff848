package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/starford/menutree/internal/menu"
)

const (
	markerCollapsed = "▸ "
	markerExpanded  = "▾ "
)

// Options control which parts of the tree are opened.
type Options struct {
	// ExpandKeys opens the listed submenus; other submenus are drawn collapsed.
	ExpandKeys []string
	// ExpandAll opens every submenu and ignores ExpandKeys.
	ExpandAll bool
	// ShowKeys appends each node's key after its label.
	ShowKeys bool
}

// Tree writes t as an indented tree.
func Tree(w io.Writer, t menu.Tree, th Theme, opts Options) error {
	if len(t) == 0 {
		return nil
	}
	expand := make(map[string]bool, len(opts.ExpandKeys))
	for _, k := range opts.ExpandKeys {
		expand[k] = true
	}
	root := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(th.Enumerator)
	for i := range t {
		root.Child(th.node(&t[i], expand, opts))
	}
	_, err := fmt.Fprintln(w, root.String())
	return err
}

func (th Theme) node(n *menu.Node, expand map[string]bool, opts Options) any {
	text := th.label(n, opts)
	if n.IsLeaf() {
		return text
	}
	if !opts.ExpandAll && !expand[n.Key] {
		return th.Branch.Render(markerCollapsed) + text
	}
	sub := tree.Root(th.Branch.Render(markerExpanded) + text).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(th.Enumerator)
	for i := range n.Children {
		sub.Child(th.node(&n.Children[i], expand, opts))
	}
	return sub
}

// label draws the node label, styling highlighted segments when present.
func (th Theme) label(n *menu.Node, opts Options) string {
	var sb strings.Builder
	if n.Highlight.HasMatch() {
		for _, seg := range n.Highlight {
			if seg.Match {
				sb.WriteString(th.MatchText.Render(th.MarkOpen + seg.Text + th.MarkClose))
				continue
			}
			sb.WriteString(th.Label.Render(seg.Text))
		}
	} else {
		sb.WriteString(th.Label.Render(n.Label))
	}
	if opts.ShowKeys {
		sb.WriteString(th.KeyText.Render(" (" + n.Key + ")"))
	}
	return sb.String()
}

// Result writes a search result: a header line, the tree to display and one
// breadcrumb per matched node.
func Result(w io.Writer, res menu.Result, th Theme, showKeys bool) error {
	view := res.View()
	switch {
	case res.IsReset():
		if _, err := fmt.Fprintln(w, th.Header.Render("Menu")); err != nil {
			return err
		}
	case res.NotFound:
		if _, err := fmt.Fprintln(w, th.NotFound.Render(fmt.Sprintf("No results for %q", res.Query))); err != nil {
			return err
		}
	default:
		noun := "matches"
		if res.Matches == 1 {
			noun = "match"
		}
		if _, err := fmt.Fprintln(w, th.Header.Render(fmt.Sprintf("%d %s for %q", res.Matches, noun, res.Query))); err != nil {
			return err
		}
	}

	if err := Tree(w, view, th, Options{ExpandKeys: res.ExpandKeys, ShowKeys: showKeys}); err != nil {
		return err
	}
	if res.NotFound || res.IsReset() {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, p := range res.MatchedPaths {
		crumb := menu.Breadcrumb(p[:len(p)-1], menu.LabelOf(p[len(p)-1], view), view)
		if _, err := fmt.Fprintln(w, th.KeyText.Render("  "+crumb)); err != nil {
			return err
		}
	}
	return nil
}
