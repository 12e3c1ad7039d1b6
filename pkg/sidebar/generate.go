package sidebar

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/olimci/shiori/pkg/transforms"
	"github.com/olimci/shiori/pkg/utils/fileutils"
	"github.com/olimci/shiori/pkg/utils/set"

	"github.com/bmatcuk/doublestar/v4"
	gm "github.com/yuin/goldmark"
)

const indexFile = "index.md"

var ErrNoContent = errors.New("no content directory")

// Options configures Generate.
type Options struct {
	// UseTitleFromFileHeading titles files by their first level-1 heading.
	UseTitleFromFileHeading bool
	// UseFolderTitleFromIndexFile titles folders by their index.md heading.
	UseFolderTitleFromIndexFile bool
	// UseFolderLinkFromIndexFile links folders with an index.md to "/<dir>/".
	UseFolderLinkFromIndexFile bool
	// HyphenToSpace turns hyphens in name-derived text into spaces.
	HyphenToSpace bool
	// Collapsed marks every group as collapsed.
	Collapsed bool

	// Exclude holds doublestar patterns matched against entry names and
	// paths relative to the root.
	Exclude []string
	// SkipDirs holds directories, relative to the root, left out entirely.
	SkipDirs []string
	// Priority lists names shown first, in order. Others follow lexically.
	Priority []string

	// Markdown parses headings. Defaults to goldmark.New().
	Markdown gm.Markdown

	// OnPageError receives pages whose heading could not be read. Such pages
	// are titled by their file name and generation carries on.
	OnPageError func(rel string, err error)
}

type generator struct {
	fsys fs.FS
	root string
	opts Options
	skip *set.Set[string]
}

// Generate builds the sidebar for the markdown files below root. Links are
// root-relative ("/guide/intro"); use WithPrefix to move them under a locale.
func Generate(fsys fs.FS, root string, opts Options) ([]Item, error) {
	if opts.Markdown == nil {
		opts.Markdown = gm.New()
	}

	g := &generator{
		fsys: fsys,
		root: path.Clean(root),
		opts: opts,
		skip: set.FromSlice(opts.SkipDirs),
	}

	tree, err := fileutils.WalkTreeFS(fsys, g.root, g.skipEntry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoContent, g.root)
		}
		return nil, err
	}

	return g.dir(tree.Root)
}

// Build generates the sidebar below root and moves its links under prefix.
func Build(fsys fs.FS, root, prefix string, opts Options) ([]Item, error) {
	items, err := Generate(fsys, root, opts)
	if err != nil {
		return nil, err
	}
	return WithPrefix(items, prefix), nil
}

func (g *generator) skipEntry(rel string, d fs.DirEntry) bool {
	name := d.Name()
	if strings.HasPrefix(name, ".") || name == "node_modules" {
		return true
	}
	if d.IsDir() && g.skip.Has(rel) {
		return true
	}
	if !d.IsDir() && path.Ext(name) != ".md" {
		return true
	}

	for _, pattern := range g.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (g *generator) dir(node *fileutils.FSNode) ([]Item, error) {
	items := make([]Item, 0, len(node.Children))

	for _, child := range g.ordered(node.Children) {
		if !child.IsDir {
			if child.Name == indexFile {
				continue
			}
			items = append(items, g.file(child))
			continue
		}

		item, ok, err := g.folder(child)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, item)
		}
	}

	return items, nil
}

func (g *generator) file(node *fileutils.FSNode) Item {
	text := g.displayName(strings.TrimSuffix(node.Name, ".md"))

	if g.opts.UseTitleFromFileHeading {
		text = firstNonempty(g.heading(node.Path), text)
	}

	return Item{
		Text: text,
		Link: "/" + strings.TrimSuffix(node.Path, ".md"),
	}
}

// folder returns the group for a directory; ok is false for a folder with
// nothing to show.
func (g *generator) folder(node *fileutils.FSNode) (item Item, ok bool, err error) {
	children, err := g.dir(node)
	if err != nil {
		return Item{}, false, err
	}

	item = Item{
		Text:  g.displayName(node.Name),
		Items: children,
	}

	if index, hasIndex := node.Child(indexFile); hasIndex {
		if g.opts.UseFolderTitleFromIndexFile {
			item.Text = firstNonempty(g.heading(index.Path), item.Text)
		}
		if g.opts.UseFolderLinkFromIndexFile {
			item.Link = "/" + node.Path + "/"
		}
	}

	if len(children) == 0 {
		item.Items = nil
		return item, item.Link != "", nil
	}

	item.Collapsed = g.opts.Collapsed
	return item, true, nil
}

// heading returns the first level-1 heading of rel, or "" when there is none
// or the page cannot be read.
func (g *generator) heading(rel string) string {
	doc, err := fs.ReadFile(g.fsys, path.Join(g.root, rel))
	if err != nil {
		g.pageError(rel, err)
		return ""
	}

	_, body, err := transforms.ExtractFrontmatter(doc)
	if err != nil {
		g.pageError(rel, err)
		return ""
	}

	return transforms.FirstHeading(g.opts.Markdown, body)
}

func (g *generator) pageError(rel string, err error) {
	if g.opts.OnPageError != nil {
		g.opts.OnPageError(rel, err)
	}
}

func (g *generator) displayName(name string) string {
	if g.opts.HyphenToSpace {
		return strings.ReplaceAll(name, "-", " ")
	}
	return name
}

// ordered puts priority names first, keeping lexical order for the rest.
func (g *generator) ordered(nodes []*fileutils.FSNode) []*fileutils.FSNode {
	if len(g.opts.Priority) == 0 {
		return nodes
	}

	rank := func(n *fileutils.FSNode) int {
		for i, name := range g.opts.Priority {
			if n.Name == name || strings.TrimSuffix(n.Name, ".md") == name {
				return i
			}
		}
		return len(g.opts.Priority)
	}

	out := slices.Clone(nodes)
	slices.SortStableFunc(out, func(a, b *fileutils.FSNode) int {
		return rank(a) - rank(b)
	})
	return out
}

func firstNonempty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
