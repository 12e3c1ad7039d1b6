package transforms

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Frontmatter represents the per-page metadata block of a markdown document.
type Frontmatter struct {
	Title       string   `toml:"title" yaml:"title" json:"title,omitempty"`
	Description string   `toml:"description" yaml:"description" json:"description,omitempty"`
	Layout      string   `toml:"layout" yaml:"layout" json:"layout,omitempty"`
	Tags        []string `toml:"tags" yaml:"tags" json:"tags,omitempty"`

	Date        time.Time `toml:"date" yaml:"date" json:"date,omitzero"`
	LastUpdated time.Time `toml:"lastUpdated" yaml:"lastUpdated" json:"lastUpdated,omitzero"`

	Sitemap SitemapMeta `toml:"sitemap" yaml:"sitemap" json:"sitemap,omitzero"`

	Params map[string]any `toml:"params" yaml:"params" json:"params,omitempty"`

	Draft bool `toml:"draft" yaml:"draft" json:"draft,omitempty"`
}

// SitemapMeta controls how a page appears in sitemap.xml.
type SitemapMeta struct {
	Exclude    bool    `toml:"exclude" yaml:"exclude" json:"exclude,omitempty"`
	ChangeFreq string  `toml:"changefreq" yaml:"changefreq" json:"changefreq,omitempty"`
	Priority   float64 `toml:"priority" yaml:"priority" json:"priority,omitempty"`
}

var ErrFailedToParseFrontmatter = errors.New("failed to parse frontmatter")

type fence struct {
	marker []byte
	decode func([]byte, any) error
}

var fences = []fence{
	{marker: []byte("---"), decode: yaml.Unmarshal},
	{marker: []byte("+++"), decode: toml.Unmarshal},
}

// ExtractFrontmatter splits a document into its frontmatter and body.
// YAML (---) and TOML (+++) blocks are recognised; a document without a
// closed block yields an empty Frontmatter and the whole document as body.
func ExtractFrontmatter(doc []byte) (*Frontmatter, []byte, error) {
	b := trimBOM(doc)

	for _, f := range fences {
		start, end, bodyStart, ok := scanFencedBlock(b, f.marker)
		if !ok {
			continue
		}

		fm := new(Frontmatter)
		if err := f.decode(b[start:end], fm); err != nil {
			return nil, doc, fmt.Errorf("%w: %w", ErrFailedToParseFrontmatter, err)
		}
		return fm, b[bodyStart:], nil
	}

	return new(Frontmatter), b, nil
}

// scanFencedBlock finds a block opened on the first line by marker and closed
// by the next line equal to marker, returning (start, end, bodyStart, ok).
func scanFencedBlock(b, marker []byte) (int, int, int, bool) {
	openEnd := lineEnd(b, 0)
	if !bytes.Equal(bytes.TrimRight(b[:openEnd], " \t\r\n"), marker) {
		return 0, 0, 0, false
	}

	for i := openEnd; i < len(b); {
		next := lineEnd(b, i)
		if bytes.Equal(bytes.TrimRight(b[i:next], " \t\r\n"), marker) {
			return openEnd, i, next, true
		}
		i = next
	}
	return 0, 0, 0, false
}

// lineEnd returns the index just past the line starting at start
func lineEnd(b []byte, start int) int {
	if i := bytes.IndexByte(b[start:], '\n'); i >= 0 {
		return start + i + 1
	}
	return len(b)
}

// trimBOM removes a UTF-8 byte order mark
func trimBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}
