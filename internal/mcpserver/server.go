// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes menu search tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/menutree/internal/apperr"
	"github.com/starford/menutree/internal/catalog"
	"github.com/starford/menutree/internal/menu"
)

const nodeSchemaURI = "menutree://node-schema"

// Server wraps the MCP server with menu tools.
type Server struct {
	mcp *server.MCPServer
	svc *catalog.Service
}

// New creates a new MCP server with all menu tools registered.
func New(svc *catalog.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"menutree",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_menu",
		mcp.WithDescription("Filter the menu tree by a case-insensitive substring of node keys and labels. "+
			"Returns the pruned tree, the keys to expand and one breadcrumb per match. "+
			"An empty query returns the full tree."),
		mcp.WithString("query", mcp.Description("Literal text to look for; regex characters have no special meaning")),
	), s.searchMenu)

	s.mcp.AddTool(mcp.NewTool("get_label",
		mcp.WithDescription("Return the plain label of a menu node. Unknown keys yield an empty label."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Node key")),
	), s.getLabel)

	s.mcp.AddTool(mcp.NewTool("get_breadcrumb",
		mcp.WithDescription("Join the labels of a key path with \" / \". "+
			"The last key names the clicked node unless label is given."),
		mcp.WithArray("keys", mcp.Required(),
			mcp.Description("Key path from a root, e.g. [\"1\", \"sub1\"]"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("label", mcp.Description("Optional label of the clicked node")),
	), s.getBreadcrumb)

	s.mcp.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Return the canonical menu tree and its checksum. "+
			"Read the "+nodeSchemaURI+" resource for the node schema."),
	), s.getTree)

	// Resource: node schema.
	s.mcp.AddResource(
		mcp.NewResource(nodeSchemaURI, "Menu Node Schema",
			mcp.WithResourceDescription("Shape of the menu tree document and of search results."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNodeSchemaResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type searchOutput struct {
	Query        string      `json:"query"`
	NotFound     bool        `json:"not_found"`
	Matches      int         `json:"matches"`
	ExpandKeys   []string    `json:"expand_keys"`
	MatchedPaths []menu.Path `json:"matched_paths"`
	Breadcrumbs  []string    `json:"breadcrumbs"`
	Items        menu.Tree   `json:"items"`
}

func (s *Server) searchMenu(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	res, err := s.svc.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := searchOutput{
		Query:        res.Query,
		NotFound:     res.NotFound,
		Matches:      res.Matches,
		ExpandKeys:   res.ExpandKeys,
		MatchedPaths: res.MatchedPaths,
		Breadcrumbs:  make([]string, 0, len(res.MatchedPaths)),
		Items:        res.Tree,
	}
	for _, p := range res.MatchedPaths {
		last := len(p) - 1
		out.Breadcrumbs = append(out.Breadcrumbs, s.svc.Breadcrumb(ctx, p[:last], s.svc.LabelOf(ctx, p[last])))
	}
	return jsonResult(out)
}

func (s *Server) getLabel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.svc.LabelOf(ctx, key)), nil
}

func (s *Server) getBreadcrumb(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys, err := req.RequireStringSlice("keys")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	label := req.GetString("label", "")
	if label == "" {
		if len(keys) == 0 {
			return mcp.NewToolResultError("keys must name at least one node when label is empty"), nil
		}
		label = s.svc.LabelOf(ctx, keys[len(keys)-1])
		keys = keys[:len(keys)-1]
	}
	return mcp.NewToolResultText(s.svc.Breadcrumb(ctx, keys, label)), nil
}

func (s *Server) getTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.svc.Current()
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError("menu tree is not loaded"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(snap)
}

func (s *Server) readNodeSchemaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      nodeSchemaURI,
			MIMEType: "text/markdown",
			Text:     NodeSchema,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcpserver: encode result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}
