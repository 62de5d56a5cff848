// Package parser decodes menu tree documents (JSON or YAML) into menu.Tree.
package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/starford/menutree/internal/apperr"
	"github.com/starford/menutree/internal/menu"
)

// Format is a tree document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", apperr.ErrUnsupportedFormat, path)
	}
}

// Parse decodes data as a list of root nodes and validates the result.
// The document is a top-level array of nodes:
//
//	[{"key": "1", "label": "Navigation One", "icon": "MailOutlined", "children": [...]}]
func Parse(data []byte, format Format) (menu.Tree, error) {
	var tree menu.Tree
	switch format {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return menu.Tree{}, nil
		}
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", apperr.ErrInvalidTree, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", apperr.ErrInvalidTree, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnsupportedFormat, format)
	}

	if tree == nil {
		tree = menu.Tree{}
	}
	// Highlights are search output; a document must never carry them.
	clearHighlights(tree)

	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree, nil
}

// ParseFile is Parse with the format taken from path.
func ParseFile(path string, data []byte) (menu.Tree, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// Encode writes tree in the given format. Highlights are search output and
// never reach the document.
func Encode(tree menu.Tree, format Format) ([]byte, error) {
	tree = tree.Plain()
	if tree == nil {
		tree = menu.Tree{}
	}
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("parser: encode json: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		out, err := yaml.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("parser: encode yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnsupportedFormat, format)
	}
}

func clearHighlights(nodes []menu.Node) {
	for i := range nodes {
		nodes[i].Highlight = nil
		clearHighlights(nodes[i].Children)
	}
}
