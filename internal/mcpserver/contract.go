package mcpserver

// NodeSchema describes the menu tree document and the search result shape
// for LLM consumers.
const NodeSchema = `# Menu Node Schema

A menu tree is an ordered list of root nodes. Each node has:

| Field      | Type          | Notes                                            |
|------------|---------------|--------------------------------------------------|
| key        | string        | REQUIRED, unique across the whole tree           |
| label      | string        | Display text, matched by search                  |
| icon       | string        | OPTIONAL symbolic icon name, e.g. MailOutlined   |
| children   | list of nodes | OPTIONAL; a node without children is a leaf      |

Sibling order is significant and is preserved by search.

## Example

` + "```" + `json
[
  {"key": "1", "label": "Navigation One", "icon": "MailOutlined", "children": [
    {"key": "sub1", "label": "Option 1"},
    {"key": "sub2", "label": "Option 2"}
  ]},
  {"key": "link", "label": "Ant Design", "icon": "LinkOutlined"}
]
` + "```" + `

## Search results

` + "`" + `search_menu` + "`" + ` matches the query as a literal, case-insensitive substring of each
node's key or label. The result holds:

- ` + "`" + `items` + "`" + `: the pruned tree. Matching nodes plus the ancestors needed to reach
  them, in source order. A matching submenu keeps only the children that match.
- ` + "`" + `highlight` + "`" + ` on a node whose label matched: the label split into segments,
  ` + "`" + `{"text": "Option", "match": true}` + "`" + ` for every occurrence of the query.
  Nodes matched only by key carry no highlight.
- ` + "`" + `expand_keys` + "`" + `: ancestor keys to open so every match is visible.
- ` + "`" + `matched_paths` + "`" + `: one key path per matching node, e.g. ` + "`" + `["1", "sub1"]` + "`" + `.
- ` + "`" + `not_found` + "`" + `: true when nothing matched; ` + "`" + `items` + "`" + ` is then empty.

An empty or whitespace-only query returns the full tree with nothing expanded.

## Breadcrumbs

A breadcrumb joins the labels of a key path with " / ", for example
"Navigation One / Option 1". Unknown keys contribute an empty label.
`
