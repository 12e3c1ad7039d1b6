package siteconf

import (
	"maps"

	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/sidebar"
	"github.com/olimci/shiori/pkg/transforms"
)

// Assemble builds the exported configuration from cfg and the per-locale
// sidebars, keyed by locale. Locales without a sidebar get an empty one.
func Assemble(cfg *config.Config, sidebars map[string][]sidebar.Item) *SiteConfig {
	sc := &SiteConfig{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		Head:        transforms.SiteHead(cfg.SEO()),

		SrcDir:      cfg.Content.Source,
		SrcExclude:  cfg.Content.Exclude,
		Rewrites:    Rewrites(cfg.Content.Rewrites),
		OutDir:      cfg.Build.Output,
		LastUpdated: cfg.Site.LastUpdated,

		ThemeConfig: themeConfig(cfg),
		Locales:     make(map[string]Locale, len(cfg.Locales)),
		Markdown:    markdown(cfg.Markdown),
		Server: Server{
			Host:       cfg.Server.Host,
			Port:       cfg.Server.Port,
			StrictPort: cfg.Server.StrictPort,
			AllowedHosts: AllowedHosts{
				All:   cfg.Server.AllowAllHosts,
				Hosts: cfg.Server.AllowedHosts,
			},
		},
	}

	if cfg.Site.URL != "" {
		sc.Sitemap = &Sitemap{Hostname: cfg.Site.URL}
	}

	if root, ok := cfg.Locales[config.RootLocale]; ok {
		sc.Lang = root.Lang
	}

	for _, key := range cfg.LocaleKeys() {
		sc.Locales[key] = locale(key, cfg.Locales[key], sidebars[key])
	}

	return sc
}

func themeConfig(cfg *config.Config) ThemeConfig {
	tc := ThemeConfig{
		Logo:      cfg.Site.Logo,
		SiteTitle: cfg.Site.SiteTitle,
		Search: Search{
			Provider: cfg.Theme.Search.Provider,
		},
	}

	for _, link := range cfg.Theme.SocialLinks {
		tc.SocialLinks = append(tc.SocialLinks, SocialLink{
			Icon: SocialIcon{Name: link.Icon, SVG: link.SVG},
			Link: link.Link,
		})
	}

	if footer := cfg.Theme.Footer; footer.Message != "" || footer.Copyright != "" {
		tc.Footer = &Footer{
			Message:   footer.Message,
			Copyright: footer.Copyright,
		}
	}

	if len(cfg.Theme.Search.Locales) > 0 {
		opts := &SearchOptions{Locales: make(map[string]SearchLocale, len(cfg.Theme.Search.Locales))}
		for key, tr := range cfg.Theme.Search.Locales {
			opts.Locales[key] = SearchLocale{Translations: SearchTranslations{
				Button: SearchButton{
					ButtonText:      tr.ButtonText,
					ButtonAriaLabel: tr.ButtonAriaLabel,
				},
				Modal: SearchModal{
					NoResultsText:    tr.NoResultsText,
					ResetButtonTitle: tr.ResetButtonTitle,
					Footer: SearchModalFooter{
						SelectText:   tr.SelectText,
						NavigateText: tr.NavigateText,
						CloseText:    tr.CloseText,
					},
				},
			}}
		}
		tc.Search.Options = opts
	}

	return tc
}

func locale(key string, l *config.ConfigLocale, items []sidebar.Item) Locale {
	if items == nil {
		items = []sidebar.Item{}
	}

	loc := Locale{
		Label:       l.Label,
		Lang:        l.Lang,
		Title:       l.Title,
		Description: l.Description,
		ThemeConfig: LocaleTheme{
			Nav:     l.Nav,
			Sidebar: items,

			OutlineTitle:        l.UI.OutlineTitle,
			LastUpdatedText:     l.UI.LastUpdatedText,
			DarkModeSwitchLabel: l.UI.DarkModeSwitchLabel,
			SidebarMenuLabel:    l.UI.SidebarMenuLabel,
			ReturnToTopLabel:    l.UI.ReturnToTopLabel,
			LangMenuLabel:       l.UI.LangMenuLabel,
		},
	}
	if key != config.RootLocale {
		loc.Link = l.Prefix
	}
	if l.UI.DocFooterPrev != "" || l.UI.DocFooterNext != "" {
		loc.ThemeConfig.DocFooter = &DocFooter{
			Prev: l.UI.DocFooterPrev,
			Next: l.UI.DocFooterNext,
		}
	}

	return loc
}

func markdown(md config.ConfigMarkdown) Markdown {
	out := Markdown{
		Math:          md.Math,
		LineNumbers:   md.LineNumbers,
		LanguageAlias: maps.Clone(md.LanguageAlias),
		Timeline:      md.Timeline,
	}
	if md.Mermaid {
		out.Mermaid = &Mermaid{Class: md.MermaidClass}
	}
	return out
}
