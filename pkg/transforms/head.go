package transforms

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is a single head tag attribute.
type Attr struct {
	Key   string
	Value string
}

// HeadTag describes an element injected into a page's <head>. Attribute
// order is kept when serialised.
type HeadTag struct {
	Tag   string
	Attrs []Attr
}

// Meta returns a <meta> tag keyed by key ("name" or "property").
func Meta(key, name, content string) HeadTag {
	return HeadTag{Tag: "meta", Attrs: []Attr{{key, name}, {"content", content}}}
}

// Link returns a <link> tag with the given rel and href, followed by extra attributes.
func Link(rel, href string, extra ...Attr) HeadTag {
	return HeadTag{Tag: "link", Attrs: append([]Attr{{"rel", rel}, {"href", href}}, extra...)}
}

// Attr returns the value of the attribute key.
func (t HeadTag) Attr(key string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// MarshalJSON encodes the tag as ["tag", {"attr": "value", ...}].
func (t HeadTag) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	// Encode appends a newline after each value; the compaction done by
	// encoding/json on Marshaler output drops it again.
	buf.WriteByte('[')
	if err := enc.Encode(t.Tag); err != nil {
		return nil, err
	}
	buf.WriteString(",{")
	for i, a := range t.Attrs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(a.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := enc.Encode(a.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}]")

	return buf.Bytes(), nil
}

func (t HeadTag) node() *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     t.Tag,
		DataAtom: atom.Lookup([]byte(t.Tag)),
		Attr:     make([]html.Attribute, len(t.Attrs)),
	}
	for i, a := range t.Attrs {
		n.Attr[i] = html.Attribute{Key: a.Key, Val: a.Value}
	}
	return n
}

// HTML renders the tag as an HTML element.
func (t HeadTag) HTML() (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, t.node()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderHead writes tags to w as HTML, one per line.
func RenderHead(w io.Writer, tags []HeadTag) error {
	for _, tag := range tags {
		if err := html.Render(w, tag.node()); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// SEO holds the site settings used for head tags. An empty URL disables
// per-page tags.
type SEO struct {
	URL      string
	Logo     string
	Keywords string
	Author   string
	Favicon  Favicon
}

type Favicon struct {
	Href string
	Type string
}

// TwitterCard is the card type announced on every page.
const TwitterCard = "summary_large_image"

// PageHead returns the canonical, Open Graph and Twitter tags for a page,
// or nil when seo has no site URL.
func PageHead(seo SEO, page PageData) []HeadTag {
	if seo.URL == "" {
		return nil
	}

	var (
		url         = seo.URL + PageURL(page.RelativePath)
		title       = firstNonzero(page.Frontmatter.Title, page.Title)
		description = firstNonzero(page.Frontmatter.Description, page.Description)
		image       = seo.URL + seo.Logo
	)

	return []HeadTag{
		Link("canonical", url),

		Meta("property", "og:url", url),
		Meta("property", "og:title", title),
		Meta("property", "og:description", description),
		Meta("property", "og:image", image),

		Meta("name", "twitter:card", TwitterCard),
		Meta("name", "twitter:title", title),
		Meta("name", "twitter:description", description),
		Meta("name", "twitter:image", image),
	}
}

// SiteHead returns the tags shared by every page. Tags whose value is empty are left out.
func SiteHead(seo SEO) []HeadTag {
	tags := make([]HeadTag, 0, 4)

	if seo.Keywords != "" {
		tags = append(tags, Meta("name", "keywords", seo.Keywords))
	}
	if seo.Author != "" {
		tags = append(tags, Meta("name", "author", seo.Author))
	}
	tags = append(tags, Meta("property", "og:type", "website"))

	if seo.Favicon.Href != "" {
		var extra []Attr
		if seo.Favicon.Type != "" {
			extra = append(extra, Attr{"type", seo.Favicon.Type})
		}
		tags = append(tags, Link("icon", seo.Favicon.Href, extra...))
	}

	return tags
}
