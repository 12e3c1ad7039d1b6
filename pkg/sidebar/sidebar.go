// Package sidebar derives navigation trees from a directory of markdown files.
package sidebar

import (
	"strings"
)

// Item is a sidebar node. Link is empty for pure groups.
type Item struct {
	Text      string `json:"text"`
	Link      string `json:"link,omitempty"`
	Collapsed bool   `json:"collapsed,omitempty"`
	Items     []Item `json:"items,omitempty"`
}

// WithPrefix returns a copy of items with every link moved under prefix: the
// link's leading "/" is dropped and prefix prepended. Nodes without a link
// keep none. A prefix of "/" returns items itself.
func WithPrefix(items []Item, prefix string) []Item {
	if prefix == "/" || items == nil {
		return items
	}

	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item
		if item.Link != "" {
			out[i].Link = prefix + strings.TrimPrefix(item.Link, "/")
		}
		if item.Items != nil {
			out[i].Items = WithPrefix(item.Items, prefix)
		}
	}
	return out
}

// Walk calls fn for every item depth-first.
func Walk(items []Item, fn func(item Item, depth int)) {
	walk(items, fn, 0)
}

func walk(items []Item, fn func(Item, int), depth int) {
	for _, item := range items {
		fn(item, depth)
		walk(item.Items, fn, depth+1)
	}
}

// Links returns every non-empty link in items, depth-first.
func Links(items []Item) []string {
	var links []string
	Walk(items, func(item Item, _ int) {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	})
	return links
}
