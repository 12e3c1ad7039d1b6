package steps

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/events"
	"github.com/olimci/shiori/pkg/iofs"
	"github.com/olimci/shiori/pkg/manifest"
	"github.com/olimci/shiori/pkg/sidebar"
	"github.com/olimci/shiori/pkg/steps/keys"
	"github.com/olimci/shiori/pkg/transforms"
)

func testConfig(t *testing.T, edit func(cfg *config.Config)) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Build.Minify = false
	if edit != nil {
		edit(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func withChinese(cfg *config.Config) {
	cfg.Locales["zh"] = &config.ConfigLocale{Lang: "zh-CN", Description: "中文站点"}
}

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"docs/index.md":            {Data: []byte("# Home\n")},
		"docs/guide/intro.md":      {Data: []byte("---\ntitle: Introduction\n---\n# Intro\n")},
		"docs/guide/logo.png":      {Data: []byte("png")},
		"docs/node_modules/pkg.md": {Data: []byte("# Vendored\n")},
		"docs/.vitepress/theme.md": {Data: []byte("# Theme\n")},
		"docs/sub/docs/skipped.md": {Data: []byte("# Skipped\n")},
		"docs/zh/index.md":         {Data: []byte("# 首页\n")},
		"docs/zh/guide.md":         {Data: []byte("# 指南\n")},
	}
}

type harness struct {
	man       *manifest.Manifest
	hooks     *Hooks
	collector *events.Collector
	fsys      fstest.MapFS
}

func newHarness(t *testing.T, cfg *config.Config, fsys fstest.MapFS) *harness {
	t.Helper()

	h := &harness{
		man:       manifest.New(),
		hooks:     new(Hooks),
		collector: events.NewCollector(nil),
		fsys:      fsys,
	}
	manifest.SetAs(h.man, keys.Config, cfg)
	manifest.SetAs(h.man, keys.Options, config.DefaultOptions())
	return h
}

func (h *harness) run(t *testing.T, steps ...Step) {
	t.Helper()

	for _, step := range steps {
		sc := NewStepContext(h.man, h.fsys, ".", h.collector, h.hooks, step)
		if err := step.Fn(context.Background(), sc); err != nil {
			t.Fatalf("step %s error = %v", step.ID, err)
		}
	}
}

func (h *harness) targets() []string {
	var out []string
	for _, claim := range h.man.Claims() {
		out = append(out, claim.Target)
	}
	slices.Sort(out)
	return out
}

func pageURLs(pages []*transforms.Page) []string {
	out := make([]string, len(pages))
	for i, page := range pages {
		out[i] = page.URL
	}
	return out
}

func TestStepIDString(t *testing.T) {
	tests := []struct {
		id   StepID
		want string
	}{
		{IDPagesIndex, "shiori:pages:index"},
		{IDRobots, "shiori:robots"},
		{IDSidebar("zh"), "shiori:sidebar:zh"},
		{IDHead.With("fragments"), "shiori:head:fragments"},
	}

	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestStepBuildersCopy(t *testing.T) {
	base := StepFunc(IDHead, nil).WithReads(keys.Pages)
	a := base.WithReads(keys.Heads)
	b := base.WithReads(keys.Config)

	if got := keyNames(a.Reads); !slices.Equal(got, []string{"pages", "heads"}) {
		t.Errorf("a.Reads = %v", got)
	}
	if got := keyNames(b.Reads); !slices.Equal(got, []string{"pages", "config"}) {
		t.Errorf("b.Reads = %v", got)
	}
	if len(base.Reads) != 1 {
		t.Errorf("base.Reads changed to %v", keyNames(base.Reads))
	}
}

func TestPagesIndex(t *testing.T) {
	cfg := testConfig(t, nil)
	h := newHarness(t, cfg, testContent())

	h.run(t, StepPagesIndex())

	pages := manifest.GetAs(h.man, keys.Pages)
	want := []string{"/", "/guide/intro.html", "/zh/", "/zh/guide.html"}
	if got := pageURLs(pages); !slices.Equal(got, want) {
		t.Errorf("urls = %v, want %v", got, want)
	}

	if pages[1].Title() != "Introduction" {
		t.Errorf("title = %q, want frontmatter title", pages[1].Title())
	}
	if pages[1].Source != "docs/guide/intro.md" {
		t.Errorf("source = %q, want docs/guide/intro.md", pages[1].Source)
	}
}

func TestPagesIndexReportsBadPages(t *testing.T) {
	cfg := testConfig(t, nil)
	fsys := fstest.MapFS{
		"docs/index.md": {Data: []byte("# Home\n")},
		"docs/bad.md":   {Data: []byte("---\ntitle: [unclosed\n---\n# Bad\n")},
	}
	h := newHarness(t, cfg, fsys)

	h.run(t, StepPagesIndex())

	if got := pageURLs(manifest.GetAs(h.man, keys.Pages)); !slices.Equal(got, []string{"/"}) {
		t.Errorf("urls = %v, want only /", got)
	}

	errs := h.collector.AtLevel(events.Error)
	if len(errs) != 1 {
		t.Fatalf("error events = %d, want 1", len(errs))
	}
	if errs[0].Step != "shiori:pages:index" || !strings.Contains(errs[0].Message, "bad.md") {
		t.Errorf("event = %+v", errs[0])
	}
}

func TestPagesIndexRewrites(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) {
		cfg.Content.Rewrites = []config.Rewrite{{From: "en/:rest*", To: ":rest*"}}
	})
	fsys := fstest.MapFS{
		"docs/en/index.md":       {Data: []byte("# Home\n")},
		"docs/en/guide/intro.md": {Data: []byte("# Intro\n")},
		"docs/index.md":          {Data: []byte("# Clash\n")},
	}
	h := newHarness(t, cfg, fsys)

	h.run(t, StepPagesIndex())

	want := []string{"/", "/guide/intro.html"}
	if got := pageURLs(manifest.GetAs(h.man, keys.Pages)); !slices.Equal(got, want) {
		t.Errorf("urls = %v, want %v", got, want)
	}
	if len(h.collector.AtLevel(events.Error)) != 1 {
		t.Error("expected a duplicate route error event")
	}
}

func TestNestedLocaleDirs(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) {
		withChinese(cfg)
		cfg.Locales["ja"] = &config.ConfigLocale{Lang: "ja", Dir: "zh/ja", Prefix: "/ja/"}
	})

	tests := []struct {
		locale string
		want   []string
	}{
		{config.RootLocale, []string{"zh", "zh/ja"}},
		{"zh", []string{"ja"}},
		{"ja", []string{}},
	}

	for _, tt := range tests {
		if got := nestedLocaleDirs(cfg, tt.locale); !slices.Equal(got, tt.want) {
			t.Errorf("nestedLocaleDirs(%q) = %v, want %v", tt.locale, got, tt.want)
		}
	}
}

func TestSidebarPerLocale(t *testing.T) {
	cfg := testConfig(t, withChinese)
	h := newHarness(t, cfg, testContent())

	h.run(t, StepSidebar(config.RootLocale), StepSidebar("zh"))

	tests := []struct {
		locale string
		want   []string
	}{
		{config.RootLocale, []string{"/guide/intro"}},
		{"zh", []string{"/zh/guide"}},
	}

	for _, tt := range tests {
		items := manifest.GetAs(h.man, keys.Sidebar(tt.locale))
		if got := sidebar.Links(items); !slices.Equal(got, tt.want) {
			t.Errorf("%s links = %v, want %v", tt.locale, got, tt.want)
		}
	}
}

func TestSidebarMissingLocaleDir(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) {
		cfg.Locales["fr"] = &config.ConfigLocale{Lang: "fr"}
	})
	h := newHarness(t, cfg, testContent())

	step := StepSidebar("fr")
	sc := NewStepContext(h.man, h.fsys, ".", h.collector, h.hooks, step)
	if err := step.Fn(context.Background(), sc); err == nil {
		t.Error("expected error for missing locale directory")
	}
}

func TestHead(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) {
		withChinese(cfg)
		cfg.Site.URL = "https://docs.example.com"
		cfg.Site.Description = "Site description"
		cfg.Build.HeadFragments = true
	})
	h := newHarness(t, cfg, testContent())

	h.run(t, StepPagesIndex(), StepHead())

	heads := manifest.GetAs(h.man, keys.Heads)
	if len(heads) != 4 {
		t.Fatalf("heads = %d, want 4", len(heads))
	}

	tests := []struct {
		url         string
		description string
	}{
		{"/", "Site description"},
		{"/zh/", "中文站点"},
	}
	for _, tt := range tests {
		tags := heads[tt.url]
		if len(tags) != 9 {
			t.Fatalf("%s tags = %d, want 9", tt.url, len(tags))
		}
		if got, _ := tags[3].Attr("content"); got != tt.description {
			t.Errorf("%s og:description = %q, want %q", tt.url, got, tt.description)
		}
	}

	want := []string{
		"_shiori/head.json",
		"_shiori/head/guide/intro.html",
		"_shiori/head/index.html",
		"_shiori/head/zh/guide.html",
		"_shiori/head/zh/index.html",
	}
	if got := h.targets(); !slices.Equal(got, want) {
		t.Errorf("targets = %v, want %v", got, want)
	}
}

func TestHeadWithoutURL(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) {
		cfg.Build.HeadFragments = true
	})
	h := newHarness(t, cfg, testContent())

	h.run(t, StepPagesIndex(), StepHead())

	for url, tags := range manifest.GetAs(h.man, keys.Heads) {
		if len(tags) != 0 {
			t.Errorf("%s has %d tags without a site URL", url, len(tags))
		}
	}
	if got := h.targets(); !slices.Equal(got, []string{"_shiori/head.json"}) {
		t.Errorf("targets = %v, want only the head manifest", got)
	}
}

func TestSitemap(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want []string
	}{
		{"with url", "https://docs.example.com", []string{transforms.SitemapFile}},
		{"without url", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, func(cfg *config.Config) {
				cfg.Site.URL = tt.url
			})
			h := newHarness(t, cfg, testContent())

			h.run(t, StepPagesIndex(), StepSitemap())

			if got := h.targets(); !slices.Equal(got, tt.want) {
				t.Errorf("targets = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	cfg := testConfig(t, withChinese)
	h := newHarness(t, cfg, testContent())

	locales := cfg.LocaleKeys()
	h.run(t, StepSidebar(config.RootLocale), StepSidebar("zh"), StepExport(locales))

	if got := h.targets(); !slices.Equal(got, []string{"_shiori/site.json"}) {
		t.Errorf("targets = %v, want the export", got)
	}
}

func TestRobotsDeferred(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) {
		cfg.Site.URL = "https://docs.example.com"
	})
	h := newHarness(t, cfg, testContent())

	h.run(t, StepRobots())

	if len(h.man.Claims()) != 0 {
		t.Error("robots should not be emitted as an artefact")
	}
	if h.hooks.Len() != 1 {
		t.Fatalf("hooks = %d, want 1", h.hooks.Len())
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "robots.txt"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.hooks.Run(context.Background(), iofs.FromOS(dir)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "robots.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != transforms.Robots(cfg.Site.RobotsDisallow, cfg.Site.URL) {
		t.Errorf("robots.txt = %q", got)
	}
}

func TestUndeclaredAccessPanics(t *testing.T) {
	h := newHarness(t, testConfig(t, nil), testContent())
	sc := NewStepContext(h.man, h.fsys, ".", nil, h.hooks, StepFunc(IDRobots, nil))

	if _, ok := sc.Get(string(keys.Config)); !ok {
		t.Error("config should always be readable")
	}

	tests := []struct {
		name string
		fn   func()
	}{
		{"get", func() { sc.Get(string(keys.Pages)) }},
		{"set", func() { sc.Set(string(keys.Pages), nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}
