package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/menutree/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(testutil.TestCatalog(t, testutil.MenuJSON), "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_menu":
		result, err = srv.searchMenu(ctx, req)
	case "get_label":
		result, err = srv.getLabel(ctx, req)
	case "get_breadcrumb":
		result, err = srv.getBreadcrumb(ctx, req)
	case "get_tree":
		result, err = srv.getTree(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchMenu(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_menu", map[string]interface{}{"query": "inbox"})
	if r.IsError {
		t.Fatalf("search error: %s", resultText(r))
	}
	var out searchOutput
	if err := json.Unmarshal([]byte(resultText(r)), &out); err != nil {
		t.Fatal(err)
	}
	if out.NotFound || out.Matches != 1 {
		t.Errorf("not_found = %v, matches = %d", out.NotFound, out.Matches)
	}
	if strings.Join(out.ExpandKeys, ",") != "1,mail" {
		t.Errorf("expand_keys = %v", out.ExpandKeys)
	}
	if len(out.Breadcrumbs) != 1 || out.Breadcrumbs[0] != "Navigation One / Mail Settings / Inbox rules" {
		t.Errorf("breadcrumbs = %v", out.Breadcrumbs)
	}
}

func TestSearchMenu_NotFound(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_menu", map[string]interface{}{"query": "zzz"})
	var out searchOutput
	if err := json.Unmarshal([]byte(resultText(r)), &out); err != nil {
		t.Fatal(err)
	}
	if !out.NotFound || len(out.Items) != 0 || len(out.Breadcrumbs) != 0 {
		t.Errorf("out = %+v", out)
	}
}

func TestSearchMenu_EmptyQueryReturnsTree(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_menu", map[string]interface{}{})
	var out searchOutput
	if err := json.Unmarshal([]byte(resultText(r)), &out); err != nil {
		t.Fatal(err)
	}
	if out.NotFound || len(out.Items) != 2 || len(out.ExpandKeys) != 0 {
		t.Errorf("out = %+v", out)
	}
}

func TestGetLabel(t *testing.T) {
	srv := testServer(t)

	if got := resultText(callTool(t, srv, "get_label", map[string]interface{}{"key": "sub2"})); got != "Option 2" {
		t.Errorf("label = %q", got)
	}
	r := callTool(t, srv, "get_label", map[string]interface{}{"key": "ghost"})
	if r.IsError || resultText(r) != "" {
		t.Errorf("unknown key: error = %v, text = %q", r.IsError, resultText(r))
	}
	if r := callTool(t, srv, "get_label", map[string]interface{}{}); !r.IsError {
		t.Error("expected error for missing key")
	}
}

func TestGetBreadcrumb(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_breadcrumb", map[string]interface{}{
		"keys": []interface{}{"1", "sub1"},
	})
	if got := resultText(r); got != "Navigation One / Option 1" {
		t.Errorf("breadcrumb = %q", got)
	}

	r = callTool(t, srv, "get_breadcrumb", map[string]interface{}{
		"keys":  []interface{}{"1"},
		"label": "New item",
	})
	if got := resultText(r); got != "Navigation One / New item" {
		t.Errorf("breadcrumb with label = %q", got)
	}

	r = callTool(t, srv, "get_breadcrumb", map[string]interface{}{"keys": []interface{}{}})
	if !r.IsError {
		t.Error("expected error for empty keys without label")
	}
}

func TestGetTree(t *testing.T) {
	srv := testServer(t)

	text := resultText(callTool(t, srv, "get_tree", nil))
	var snap struct {
		Items    []map[string]any `json:"items"`
		Checksum string           `json:"checksum"`
	}
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Items) != 2 || snap.Checksum == "" {
		t.Errorf("tree = %+v", snap)
	}
}

func TestNodeSchemaResource(t *testing.T) {
	srv := testServer(t)

	contents, err := srv.readNodeSchemaResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != nodeSchemaURI || !strings.Contains(tc.Text, "unique across the whole tree") {
		t.Errorf("resource = %+v", contents[0])
	}
}
