package transforms

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	gm "github.com/yuin/goldmark"
)

var ErrFailedToParsePage = errors.New("failed to parse page")

// Page is a markdown source file indexed for head and sitemap generation.
type Page struct {
	// Source is the file's path within the content source.
	Source string
	// Path is the routed path after rewrites, relative to the content root.
	Path string
	// URL is PageURL(Path).
	URL string

	Heading     string
	Frontmatter Frontmatter
}

// PageData is the per-page metadata consumed by head generation.
type PageData struct {
	RelativePath string
	Title        string
	Description  string
	Frontmatter  Frontmatter
}

// ReadPage reads the markdown file source from fsys and routes it as rel.
func ReadPage(fsys fs.FS, source, rel string, md gm.Markdown) (*Page, error) {
	doc, err := fs.ReadFile(fsys, source)
	if err != nil {
		return nil, err
	}

	fm, body, err := ExtractFrontmatter(doc)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFailedToParsePage, source, err)
	}

	return &Page{
		Source:      source,
		Path:        rel,
		URL:         PageURL(rel),
		Heading:     FirstHeading(md, body),
		Frontmatter: *fm,
	}, nil
}

// Title resolves the page title: frontmatter first, then the first heading.
func (p *Page) Title() string {
	return firstNonzero(p.Frontmatter.Title, p.Heading)
}

// Data returns the page's metadata, falling back to description when the
// page sets none of its own.
func (p *Page) Data(description string) PageData {
	return PageData{
		RelativePath: p.Path,
		Title:        p.Title(),
		Description:  firstNonzero(p.Frontmatter.Description, description),
		Frontmatter:  p.Frontmatter,
	}
}

// LastMod returns the page's last modification time, zero if unknown.
func (p *Page) LastMod() time.Time {
	return firstNonzero(p.Frontmatter.LastUpdated, p.Frontmatter.Date)
}
