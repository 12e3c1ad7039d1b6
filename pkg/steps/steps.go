package steps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/iofs"
	"github.com/olimci/shiori/pkg/manifest"
	"github.com/olimci/shiori/pkg/sidebar"
	"github.com/olimci/shiori/pkg/siteconf"
	"github.com/olimci/shiori/pkg/steps/keys"
	"github.com/olimci/shiori/pkg/transforms"
	"github.com/olimci/shiori/pkg/utils/fileutils"

	"github.com/bmatcuk/doublestar/v4"
)

var ErrDuplicateRoute = errors.New("duplicate route")

var (
	IDPagesIndex = StepID{Owner: "shiori", Name: "pages", Sub: "index"}
	IDHead       = StepID{Owner: "shiori", Name: "head"}
	IDSitemap    = StepID{Owner: "shiori", Name: "sitemap"}
	IDExport     = StepID{Owner: "shiori", Name: "export"}
	IDRobots     = StepID{Owner: "shiori", Name: "robots"}
)

// IDSidebar is the ID of the sidebar step for a locale.
func IDSidebar(locale string) StepID {
	return StepID{Owner: "shiori", Name: "sidebar"}.With(locale)
}

// Default returns the steps of a full build for cfg.
func Default(cfg *config.Config) []Step {
	out := []Step{
		StepPagesIndex(),
		StepHead(),
		StepSitemap(),
		StepRobots(),
	}

	locales := cfg.LocaleKeys()
	for _, key := range locales {
		out = append(out, StepSidebar(key))
	}
	out = append(out, StepExport(locales))

	return out
}

func contentRoot(sc StepContext, cfg *config.Config) (fs.FS, string) {
	fsys, root := sc.Source()
	return fsys, path.Join(root, cfg.Content.Source)
}

// StepPagesIndex reads every markdown page below content.source, routes it
// through the configured rewrites and stores the result sorted by URL.
// Pages that fail to parse are reported and left out.
func StepPagesIndex() Step {
	return StepFunc(IDPagesIndex, func(ctx context.Context, sc StepContext) error {
		cfg := manifest.GetAs(sc, keys.Config)
		fsys, root := contentRoot(sc, cfg)

		rewriter, err := transforms.CompileRewrites(cfg.RewriteRules())
		if err != nil {
			return err
		}
		md := cfg.Markdown.Goldmark.Build()

		files, err := fileutils.WalkFilesFS(fsys, root, excludeFunc(cfg.Content.Exclude))
		if err != nil {
			return fmt.Errorf("content source %q: %w", cfg.Content.Source, err)
		}

		pages := make([]*transforms.Page, 0, len(files))
		routes := make(map[string]string, len(files))

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			if path.Ext(file) != ".md" {
				continue
			}

			page, err := transforms.ReadPage(fsys, path.Join(root, file), rewriter.Rewrite(file), md)
			if err != nil {
				sc.Errorf(err, "page %s", file)
				continue
			}

			if prev, ok := routes[page.URL]; ok {
				sc.Errorf(fmt.Errorf("%w %s", ErrDuplicateRoute, page.URL), "page %s routes to the same URL as %s", file, prev)
				continue
			}
			routes[page.URL] = file

			pages = append(pages, page)
		}

		slices.SortFunc(pages, func(a, b *transforms.Page) int {
			return strings.Compare(a.URL, b.URL)
		})

		sc.Debugf("indexed %d pages", len(pages))
		manifest.SetAs(sc, keys.Pages, pages)
		return nil
	}).WithWrites(keys.Pages)
}

// excludeFunc skips hidden entries, node_modules and anything matching one
// of patterns.
func excludeFunc(patterns []string) fileutils.SkipFunc {
	return func(rel string, d fs.DirEntry) bool {
		name := d.Name()
		if strings.HasPrefix(name, ".") || name == "node_modules" {
			return true
		}
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return true
			}
		}
		return false
	}
}

// StepSidebar generates the sidebar of one locale. The root locale leaves out
// the directories of the other locales.
func StepSidebar(locale string) Step {
	key := keys.Sidebar(locale)

	return StepFunc(IDSidebar(locale), func(ctx context.Context, sc StepContext) error {
		cfg := manifest.GetAs(sc, keys.Config)
		fsys, root := contentRoot(sc, cfg)

		l, ok := cfg.Locales[locale]
		if !ok {
			return fmt.Errorf("unknown locale %q", locale)
		}

		items, err := sidebar.Build(fsys, path.Join(root, l.Dir), l.Prefix, sidebar.Options{
			UseTitleFromFileHeading:     cfg.Sidebar.UseTitleFromFileHeading,
			UseFolderTitleFromIndexFile: cfg.Sidebar.UseFolderTitleFromIndexFile,
			UseFolderLinkFromIndexFile:  cfg.Sidebar.UseFolderLinkFromIndexFile,
			HyphenToSpace:               cfg.Sidebar.HyphenToSpace,
			Collapsed:                   cfg.Sidebar.Collapsed,
			Exclude:                     cfg.Sidebar.Exclude,
			SkipDirs:                    nestedLocaleDirs(cfg, locale),
			Priority:                    cfg.Sidebar.Priority,
			Markdown:                    cfg.Markdown.Goldmark.Build(),
			OnPageError:                 func(rel string, err error) {
				sc.Errorf(err, "sidebar %s: %s titled by file name", locale, rel)
			},
		})
		if err != nil {
			return fmt.Errorf("locale %s: %w", locale, err)
		}

		sc.Debugf("sidebar %s: %d entries", locale, len(items))
		manifest.SetAs(sc, key, items)
		return nil
	}).WithWrites(key)
}

// nestedLocaleDirs returns the directories of other locales lying below
// locale's directory, relative to it.
func nestedLocaleDirs(cfg *config.Config, locale string) []string {
	dir := cfg.Locales[locale].Dir

	out := make([]string, 0)
	for key, other := range cfg.Locales {
		if key == locale || other.Dir == dir {
			continue
		}
		switch {
		case dir == "" || dir == ".":
			out = append(out, other.Dir)
		case strings.HasPrefix(other.Dir, dir+"/"):
			out = append(out, strings.TrimPrefix(other.Dir, dir+"/"))
		}
	}
	slices.Sort(out)
	return out
}

// localeFor returns the locale whose route prefix is the longest prefix of url.
func localeFor(cfg *config.Config, url string) *config.ConfigLocale {
	var best *config.ConfigLocale
	for _, l := range cfg.Locales {
		if !strings.HasPrefix(url, l.Prefix) {
			continue
		}
		if best == nil || len(l.Prefix) > len(best.Prefix) {
			best = l
		}
	}
	return best
}

// StepHead writes the head manifest, mapping each page URL to its head tags,
// and optionally one HTML fragment per page.
func StepHead() Step {
	return StepFunc(IDHead, func(ctx context.Context, sc StepContext) error {
		cfg := manifest.GetAs(sc, keys.Config)
		pages := manifest.GetAs(sc, keys.Pages)

		m := transforms.NewMinifier(cfg.Build.Minify)
		seo := cfg.SEO()

		heads := make(map[string][]transforms.HeadTag, len(pages))
		for _, page := range pages {
			description := cfg.Site.Description
			if l := localeFor(cfg, page.URL); l != nil {
				description = l.Description
			}

			tags := transforms.PageHead(seo, page.Data(description))
			if tags == nil {
				tags = []transforms.HeadTag{}
			}
			heads[page.URL] = tags
		}
		manifest.SetAs(sc, keys.Heads, heads)

		if cfg.Build.HeadManifest == "" {
			return nil
		}
		sc.Emit(manifest.JSONArtefact(manifest.NewClaim(IDHead.String(), cfg.Build.HeadManifest), heads).Post(m))

		if !cfg.Build.HeadFragments {
			return nil
		}

		dir := path.Join(path.Dir(cfg.Build.HeadManifest), "head")
		for _, page := range pages {
			tags := heads[page.URL]
			if len(tags) == 0 {
				continue
			}

			target := path.Join(dir, strings.TrimSuffix(page.Path, ".md")+".html")
			sc.Emit(manifest.Artefact{
				Claim: manifest.NewClaim(IDHead.String(), target).From(page.Source),
				Builder: func(w io.Writer) error {
					return transforms.RenderHead(w, tags)
				},
			}.Post(m))
		}

		return nil
	}).WithReads(keys.Pages).WithWrites(keys.Heads).WithDeps(IDPagesIndex)
}

// StepSitemap writes sitemap.xml. It is skipped without a site URL.
func StepSitemap() Step {
	return StepFunc(IDSitemap, func(ctx context.Context, sc StepContext) error {
		cfg := manifest.GetAs(sc, keys.Config)

		if !cfg.Build.Sitemap || cfg.Site.URL == "" {
			sc.Debug("sitemap skipped")
			return nil
		}

		pages := manifest.GetAs(sc, keys.Pages)
		m := transforms.NewMinifier(cfg.Build.Minify)

		data := transforms.BuildSitemap(pages, cfg.Site.URL)
		sc.Emit(manifest.TemplateArtefact(
			manifest.NewClaim(IDSitemap.String(), transforms.SitemapFile),
			transforms.SitemapTemplate(),
			data,
		).Post(m))

		sc.Debugf("sitemap: %d urls", len(data.Items))
		return nil
	}).WithReads(keys.Pages).WithDeps(IDPagesIndex)
}

// StepExport writes the assembled site configuration consumed by the host tool.
func StepExport(locales []string) Step {
	reads := make([]manifest.Key, 0, len(locales))
	deps := make([]StepID, 0, len(locales))
	for _, locale := range locales {
		reads = append(reads, keys.Sidebar(locale))
		deps = append(deps, IDSidebar(locale))
	}

	return StepFunc(IDExport, func(ctx context.Context, sc StepContext) error {
		cfg := manifest.GetAs(sc, keys.Config)

		if cfg.Build.Export == "" {
			sc.Debug("export skipped")
			return nil
		}

		sidebars := make(map[string][]sidebar.Item, len(locales))
		for _, locale := range locales {
			sidebars[locale] = manifest.GetAs(sc, keys.Sidebar(locale))
		}

		m := transforms.NewMinifier(cfg.Build.Minify)
		sc.Emit(manifest.JSONArtefact(
			manifest.NewClaim(IDExport.String(), cfg.Build.Export),
			siteconf.Assemble(cfg, sidebars),
		).Post(m))

		return nil
	}).WithReads(reads...).WithDeps(deps...)
}

// StepRobots defers writing robots.txt until every other artefact is in
// place. An existing file is overwritten.
func StepRobots() Step {
	return StepFunc(IDRobots, func(ctx context.Context, sc StepContext) error {
		cfg := manifest.GetAs(sc, keys.Config)
		robots := transforms.Robots(cfg.Site.RobotsDisallow, cfg.Site.URL)

		sc.Defer(transforms.RobotsFile, func(ctx context.Context, out iofs.Writable) error {
			return out.Write(transforms.RobotsFile, func(w io.Writer) error {
				_, err := io.WriteString(w, robots)
				return err
			})
		})

		return nil
	})
}
