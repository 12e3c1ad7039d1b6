package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/olimci/shiori/pkg/transforms"
	"github.com/olimci/shiori/pkg/version"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// RootLocale is the key of the default locale, served without a route prefix.
const RootLocale = "root"

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrNoRootLocale  = errors.New("no root locale")
)

// Config represents the configuration of a documentation site.
type Config struct {
	Shiori   ConfigShiori             `toml:"shiori" yaml:"shiori"`
	Site     ConfigSite               `toml:"site" yaml:"site"`
	Content  ConfigContent            `toml:"content" yaml:"content"`
	Sidebar  ConfigSidebar            `toml:"sidebar" yaml:"sidebar"`
	Locales  map[string]*ConfigLocale `toml:"locales" yaml:"locales"`
	Theme    ConfigTheme              `toml:"theme" yaml:"theme"`
	Markdown ConfigMarkdown           `toml:"markdown" yaml:"markdown"`
	Server   ConfigServer             `toml:"server" yaml:"server"`
	Build    ConfigBuild              `toml:"build" yaml:"build"`
}

type ConfigShiori struct {
	Version string `toml:"version" yaml:"version"`
}

// ConfigSite holds the site-wide metadata. An empty URL disables SEO output.
type ConfigSite struct {
	Title          string        `toml:"title" yaml:"title"`
	SiteTitle      string        `toml:"site_title" yaml:"site_title"`
	Description    string        `toml:"description" yaml:"description"`
	URL            string        `toml:"url" yaml:"url"`
	Keywords       string        `toml:"keywords" yaml:"keywords"`
	Author         string        `toml:"author" yaml:"author"`
	Logo           string        `toml:"logo" yaml:"logo"`
	Favicon        ConfigFavicon `toml:"favicon" yaml:"favicon"`
	RobotsDisallow []string      `toml:"robots_disallow" yaml:"robots_disallow"`
	LastUpdated    bool          `toml:"last_updated" yaml:"last_updated"`
}

type ConfigFavicon struct {
	Href string `toml:"href" yaml:"href"`
	Type string `toml:"type" yaml:"type"`
}

type ConfigContent struct {
	Source   string    `toml:"source" yaml:"source"`
	Exclude  []string  `toml:"src_exclude" yaml:"src_exclude"`
	Rewrites []Rewrite `toml:"rewrites" yaml:"rewrites"`
}

// Rewrite maps source paths matching From onto To. See transforms.CompileRewrites.
type Rewrite struct {
	From string `toml:"from" yaml:"from"`
	To   string `toml:"to" yaml:"to"`
}

type ConfigSidebar struct {
	UseTitleFromFileHeading     bool     `toml:"use_title_from_file_heading" yaml:"use_title_from_file_heading"`
	UseFolderTitleFromIndexFile bool     `toml:"use_folder_title_from_index_file" yaml:"use_folder_title_from_index_file"`
	UseFolderLinkFromIndexFile  bool     `toml:"use_folder_link_from_index_file" yaml:"use_folder_link_from_index_file"`
	HyphenToSpace               bool     `toml:"hyphen_to_space" yaml:"hyphen_to_space"`
	Collapsed                   bool     `toml:"collapsed" yaml:"collapsed"`
	Exclude                     []string `toml:"exclude" yaml:"exclude"`
	Priority                    []string `toml:"priority" yaml:"priority"`
}

// ConfigLocale describes one supported language. Dir is the locale's content
// directory within the content source, Prefix the route it is served under.
type ConfigLocale struct {
	Label       string         `toml:"label" yaml:"label"`
	Lang        string         `toml:"lang" yaml:"lang"`
	Title       string         `toml:"title" yaml:"title"`
	Description string         `toml:"description" yaml:"description"`
	Dir         string         `toml:"dir" yaml:"dir"`
	Prefix      string         `toml:"prefix" yaml:"prefix"`
	Nav         []NavItem      `toml:"nav" yaml:"nav"`
	UI          ConfigLocaleUI `toml:"ui" yaml:"ui"`
}

type NavItem struct {
	Text  string    `toml:"text" yaml:"text" json:"text"`
	Link  string    `toml:"link" yaml:"link" json:"link,omitempty"`
	Items []NavItem `toml:"items" yaml:"items" json:"items,omitempty"`
}

// ConfigLocaleUI overrides theme UI strings for a locale.
type ConfigLocaleUI struct {
	OutlineTitle        string `toml:"outline_title" yaml:"outline_title"`
	LastUpdatedText     string `toml:"last_updated_text" yaml:"last_updated_text"`
	DarkModeSwitchLabel string `toml:"dark_mode_switch_label" yaml:"dark_mode_switch_label"`
	SidebarMenuLabel    string `toml:"sidebar_menu_label" yaml:"sidebar_menu_label"`
	ReturnToTopLabel    string `toml:"return_to_top_label" yaml:"return_to_top_label"`
	LangMenuLabel       string `toml:"lang_menu_label" yaml:"lang_menu_label"`
	DocFooterPrev       string `toml:"doc_footer_prev" yaml:"doc_footer_prev"`
	DocFooterNext       string `toml:"doc_footer_next" yaml:"doc_footer_next"`
}

type ConfigTheme struct {
	SocialLinks []SocialLink `toml:"social_links" yaml:"social_links"`
	Footer      ConfigFooter `toml:"footer" yaml:"footer"`
	Search      ConfigSearch `toml:"search" yaml:"search"`
}

// SocialLink points at an external profile. Icon names a theme icon, SVG
// supplies inline markup instead.
type SocialLink struct {
	Icon string `toml:"icon" yaml:"icon"`
	SVG  string `toml:"svg" yaml:"svg"`
	Link string `toml:"link" yaml:"link"`
}

type ConfigFooter struct {
	Message   string `toml:"message" yaml:"message"`
	Copyright string `toml:"copyright" yaml:"copyright"`
}

type ConfigSearch struct {
	Provider string                        `toml:"provider" yaml:"provider"`
	Locales  map[string]SearchTranslations `toml:"locales" yaml:"locales"`
}

// SearchTranslations overrides the search UI strings of one locale.
type SearchTranslations struct {
	ButtonText       string `toml:"button_text" yaml:"button_text"`
	ButtonAriaLabel  string `toml:"button_aria_label" yaml:"button_aria_label"`
	NoResultsText    string `toml:"no_results_text" yaml:"no_results_text"`
	ResetButtonTitle string `toml:"reset_button_title" yaml:"reset_button_title"`
	SelectText       string `toml:"select_text" yaml:"select_text"`
	NavigateText     string `toml:"navigate_text" yaml:"navigate_text"`
	CloseText        string `toml:"close_text" yaml:"close_text"`
}

// ConfigMarkdown holds markdown toggles passed through to the host tool,
// and the goldmark settings used when reading headings.
type ConfigMarkdown struct {
	Math          bool              `toml:"math" yaml:"math"`
	LineNumbers   bool              `toml:"line_numbers" yaml:"line_numbers"`
	LanguageAlias map[string]string `toml:"language_alias" yaml:"language_alias"`
	Mermaid       bool              `toml:"mermaid" yaml:"mermaid"`
	MermaidClass  string            `toml:"mermaid_class" yaml:"mermaid_class"`
	Timeline      bool              `toml:"timeline" yaml:"timeline"`
	Goldmark      ConfigGoldmark    `toml:"goldmark" yaml:"goldmark"`
}

// ConfigServer holds the host tool's development server bind settings.
type ConfigServer struct {
	Host          string   `toml:"host" yaml:"host"`
	Port          int      `toml:"port" yaml:"port"`
	StrictPort    bool     `toml:"strict_port" yaml:"strict_port"`
	AllowAllHosts bool     `toml:"allow_all_hosts" yaml:"allow_all_hosts"`
	AllowedHosts  []string `toml:"allowed_hosts" yaml:"allowed_hosts"`
}

type ConfigBuild struct {
	Output        string `toml:"output" yaml:"output"`
	Minify        bool   `toml:"minify" yaml:"minify"`
	Export        string `toml:"export" yaml:"export"`
	HeadManifest  string `toml:"head_manifest" yaml:"head_manifest"`
	HeadFragments bool   `toml:"head_fragments" yaml:"head_fragments"`
	Sitemap       bool   `toml:"sitemap" yaml:"sitemap"`
}

// DefaultConfig constructs a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Shiori: ConfigShiori{
			Version: version.String(),
		},
		Site: ConfigSite{
			Title:       "Shiori",
			Description: "Shiori documentation site",
			Logo:        "/favicon.png",
			Favicon: ConfigFavicon{
				Href: "/favicon.png",
				Type: "image/png",
			},
			RobotsDisallow: []string{
				"/*assets/",
				"/.vitepress/",
			},
			LastUpdated: true,
		},
		Content: ConfigContent{
			Source:  "docs",
			Exclude: []string{"**/docs/**"},
		},
		Sidebar: ConfigSidebar{
			UseTitleFromFileHeading:     true,
			UseFolderTitleFromIndexFile: true,
			UseFolderLinkFromIndexFile:  true,
			HyphenToSpace:               true,
			Collapsed:                   true,
			Exclude:                     []string{"public", "assets", "docs"},
		},
		Locales: map[string]*ConfigLocale{
			RootLocale: {
				Label: "English",
				Lang:  "en",
			},
		},
		Theme: ConfigTheme{
			Search: ConfigSearch{
				Provider: "local",
			},
		},
		Markdown: ConfigMarkdown{
			Math:        true,
			LineNumbers: true,
			LanguageAlias: map[string]string{
				"gitignore": "ini",
				"env":       "properties",
			},
			Mermaid:      true,
			MermaidClass: "mermaid",
			Timeline:     true,
			Goldmark:     defaultGoldmark(),
		},
		Server: ConfigServer{
			Host:          "0.0.0.0",
			Port:          5173,
			StrictPort:    false,
			AllowAllHosts: true,
		},
		Build: ConfigBuild{
			Output:       "dist",
			Minify:       true,
			Export:       "_shiori/site.json",
			HeadManifest: "_shiori/head.json",
			Sitemap:      true,
		},
	}
}

// Load loads a Config from a .toml, .yaml or .yml file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the Config to path as TOML.
func (c *Config) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return err
	}
	return file.Close()
}

// Validate validates the Config, normalising paths, prefixes and language tags in place.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if v, err := version.Parse(c.Shiori.Version); err != nil {
		fail("shiori.version: %v", err)
	} else if !version.Current().Supports(v) {
		fail("shiori.version %s is not supported by shiori %s", v, version.String())
	}

	c.Site.URL = strings.TrimSpace(c.Site.URL)
	if c.Site.URL != "" {
		if !(strings.HasPrefix(c.Site.URL, "http://") || strings.HasPrefix(c.Site.URL, "https://")) {
			fail("site.url must start with http:// or https:// (got %q)", c.Site.URL)
		} else if u, err := url.Parse(c.Site.URL); err != nil || u.Host == "" {
			fail("site.url is not a valid URL (got %q)", c.Site.URL)
		}
		c.Site.URL = strings.TrimRight(c.Site.URL, "/")
	}

	if strings.TrimSpace(c.Site.SiteTitle) == "" {
		c.Site.SiteTitle = c.Site.Title
	}
	c.Site.Logo = rootedPath(c.Site.Logo)
	c.Site.Favicon.Href = rootedPath(c.Site.Favicon.Href)

	for i, p := range c.Site.RobotsDisallow {
		p = strings.TrimSpace(p)
		if p == "" {
			fail("site.robots_disallow[%d] is empty", i)
		}
		c.Site.RobotsDisallow[i] = p
	}

	if strings.TrimSpace(c.Content.Source) == "" {
		c.Content.Source = "docs"
	}
	if src, err := CleanFSPath(c.Content.Source); err != nil {
		fail("content.source: %v", err)
	} else {
		c.Content.Source = src
	}
	for _, pattern := range c.Content.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			fail("content.src_exclude: bad pattern %q", pattern)
		}
	}
	if _, err := transforms.CompileRewrites(c.RewriteRules()); err != nil {
		fail("content.rewrites: %v", err)
	}

	for _, pattern := range c.Sidebar.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			fail("sidebar.exclude: bad pattern %q", pattern)
		}
	}

	errs = append(errs, c.validateLocales()...)

	if err := c.Markdown.Goldmark.Validate(); err != nil {
		fail("markdown.goldmark: %v", err)
	}

	if strings.TrimSpace(c.Theme.Search.Provider) == "" {
		c.Theme.Search.Provider = "local"
	}

	if strings.TrimSpace(c.Server.Host) == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		fail("server.port out of range (got %d)", c.Server.Port)
	}

	if strings.TrimSpace(c.Build.Output) == "" {
		c.Build.Output = "dist"
	}
	for name, target := range map[string]*string{
		"build.export":        &c.Build.Export,
		"build.head_manifest": &c.Build.HeadManifest,
	} {
		if strings.TrimSpace(*target) == "" {
			continue
		}
		clean, err := CleanFSPath(*target)
		if err != nil {
			fail("%s: %v", name, err)
			continue
		}
		*target = clean
	}

	return errors.Join(errs...)
}

func (c *Config) validateLocales() []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if len(c.Locales) == 0 {
		c.Locales = map[string]*ConfigLocale{RootLocale: {}}
	}
	if _, ok := c.Locales[RootLocale]; !ok {
		return []error{fmt.Errorf("%w: %w: locales must define %q", ErrInvalidConfig, ErrNoRootLocale, RootLocale)}
	}

	prefixes := make(map[string]string, len(c.Locales))
	for _, key := range c.LocaleKeys() {
		locale := c.Locales[key]
		if locale == nil {
			locale = new(ConfigLocale)
			c.Locales[key] = locale
		}

		if locale.Lang != "" {
			tag, err := language.Parse(locale.Lang)
			if err != nil {
				fail("locales.%s.lang: %q is not a valid language tag: %v", key, locale.Lang, err)
			} else {
				locale.Lang = tag.String()
				if locale.Label == "" {
					locale.Label = display.Self.Name(tag)
				}
			}
		}

		if locale.Title == "" {
			locale.Title = c.Site.Title
		}
		if locale.Description == "" {
			locale.Description = c.Site.Description
		}
		if locale.Label == "" {
			locale.Label = key
		}

		switch {
		case key == RootLocale:
			if p := strings.Trim(locale.Prefix, "/ "); p != "" {
				fail("locales.root.prefix must be \"/\" (got %q)", locale.Prefix)
			}
			locale.Prefix = "/"
		case strings.TrimSpace(locale.Prefix) == "":
			locale.Prefix = "/" + key + "/"
		default:
			locale.Prefix = routePrefix(locale.Prefix)
		}
		if prev, ok := prefixes[locale.Prefix]; ok {
			fail("locales.%s.prefix %q is already used by locales.%s", key, locale.Prefix, prev)
		}
		prefixes[locale.Prefix] = key

		if locale.Dir == "" && key != RootLocale {
			locale.Dir = key
		}
		if locale.Dir != "" {
			dir, err := CleanFSPath(locale.Dir)
			if err != nil {
				fail("locales.%s.dir: %v", key, err)
			} else {
				locale.Dir = dir
			}
		}
	}

	return errs
}

// LocaleKeys returns the locale keys with the root locale first and the rest sorted.
func (c *Config) LocaleKeys() []string {
	keys := make([]string, 0, len(c.Locales))
	for key := range c.Locales {
		if key != RootLocale {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	if _, ok := c.Locales[RootLocale]; ok {
		keys = append([]string{RootLocale}, keys...)
	}
	return keys
}

// RewriteRules returns the configured rewrites in order.
func (c *Config) RewriteRules() []transforms.RewriteRule {
	rules := make([]transforms.RewriteRule, len(c.Content.Rewrites))
	for i, r := range c.Content.Rewrites {
		rules[i] = transforms.RewriteRule{From: r.From, To: r.To}
	}
	return rules
}

// SEO returns the site settings relevant to head tag and robots generation.
func (c *Config) SEO() transforms.SEO {
	return transforms.SEO{
		URL:      c.Site.URL,
		Logo:     c.Site.Logo,
		Keywords: c.Site.Keywords,
		Author:   c.Site.Author,
		Favicon: transforms.Favicon{
			Href: c.Site.Favicon.Href,
			Type: c.Site.Favicon.Type,
		},
	}
}

// WatchedPaths returns the paths that affect a build, relative to the config file.
func (c *Config) WatchedPaths() []string {
	paths := make([]string, 0, 1)
	if c.Content.Source != "" {
		paths = append(paths, c.Content.Source)
	}
	return paths
}

// CleanFSPath cleans a slash-separated path for use with an fs.FS, rejecting
// absolute paths and paths escaping the root.
func CleanFSPath(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return ".", nil
	}
	if path.IsAbs(p) {
		return "", fmt.Errorf("path must be relative (got %q)", p)
	}

	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("path must not escape the site root (got %q)", p)
	}
	return clean, nil
}

// rootedPath gives site-relative asset paths a leading slash; absolute URLs pass through.
func rootedPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || strings.Contains(p, "://") || strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// routePrefix normalises a locale route prefix to "/segment/".
func routePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}
