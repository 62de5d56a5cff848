package api

import (
	"github.com/starford/menutree/internal/catalog"
	"github.com/starford/menutree/internal/menu"
)

// TreeResponse is the canonical tree with its checksum.
type TreeResponse struct {
	Checksum string    `json:"checksum" example:"9f86d081..." validate:"required"`
	Source   string    `json:"source" example:"file" validate:"required"`
	Items    menu.Tree `json:"items" validate:"required"`
}

// ReplaceTreeRequest is the request body for replacing the source tree.
type ReplaceTreeRequest struct {
	Items menu.Tree `json:"items" validate:"required"`
}

// SearchResponse is the filtered tree plus the metadata a menu needs to
// auto-expand and highlight matches. Items is the tree to display: the full
// tree when NotFound is set.
type SearchResponse struct {
	Query        string      `json:"query" example:"option"`
	NotFound     bool        `json:"not_found"`
	Matches      int         `json:"matches" example:"2"`
	Items        menu.Tree   `json:"items" validate:"required"`
	ExpandKeys   []string    `json:"expand_keys" validate:"required"`
	MatchedPaths []menu.Path `json:"matched_paths" validate:"required"`
}

func newSearchResponse(res menu.Result) SearchResponse {
	items := res.View()
	if items == nil {
		items = menu.Tree{}
	}
	return SearchResponse{
		Query:        res.Query,
		NotFound:     res.NotFound,
		Matches:      res.Matches,
		Items:        items,
		ExpandKeys:   res.ExpandKeys,
		MatchedPaths: res.MatchedPaths,
	}
}

// LabelResponse is the plain label of a node; Label is empty for unknown keys.
type LabelResponse struct {
	Key   string `json:"key" example:"sub1" validate:"required"`
	Label string `json:"label" example:"Option 1"`
}

// NodePathResponse locates a node in the tree (aliased from the catalog).
type NodePathResponse = catalog.NodePath

// BreadcrumbRequest is the request body for building a breadcrumb.
type BreadcrumbRequest struct {
	ParentKeys []string `json:"parent_keys" example:"1,mail"`
	Label      string   `json:"label" example:"Inbox rules" validate:"required"`
}

// BreadcrumbResponse is a rendered breadcrumb.
type BreadcrumbResponse struct {
	Breadcrumb string `json:"breadcrumb" example:"Navigation One / Mail Settings / Inbox rules"`
}
