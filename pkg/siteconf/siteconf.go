// Package siteconf assembles the configuration value handed to the host
// documentation tool.
package siteconf

import (
	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/sidebar"
	"github.com/olimci/shiori/pkg/transforms"
)

// SiteConfig is the exported site configuration. Field names follow the
// host tool's configuration keys.
type SiteConfig struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Lang        string               `json:"lang,omitempty"`
	Head        []transforms.HeadTag `json:"head"`

	SrcDir      string   `json:"srcDir"`
	SrcExclude  []string `json:"srcExclude,omitempty"`
	Rewrites    Rewrites `json:"rewrites,omitempty"`
	OutDir      string   `json:"outDir"`
	LastUpdated bool     `json:"lastUpdated"`

	Sitemap *Sitemap `json:"sitemap,omitempty"`

	ThemeConfig ThemeConfig       `json:"themeConfig"`
	Locales     map[string]Locale `json:"locales"`
	Markdown    Markdown          `json:"markdown"`
	Server      Server            `json:"server"`
}

type Sitemap struct {
	Hostname string `json:"hostname"`
}

type ThemeConfig struct {
	Logo        string       `json:"logo,omitempty"`
	SiteTitle   string       `json:"siteTitle,omitempty"`
	SocialLinks []SocialLink `json:"socialLinks,omitempty"`
	Footer      *Footer      `json:"footer,omitempty"`
	Search      Search       `json:"search"`
}

type SocialLink struct {
	Icon SocialIcon `json:"icon"`
	Link string     `json:"link"`
}

type Footer struct {
	Message   string `json:"message,omitempty"`
	Copyright string `json:"copyright,omitempty"`
}

type Search struct {
	Provider string         `json:"provider"`
	Options  *SearchOptions `json:"options,omitempty"`
}

type SearchOptions struct {
	Locales map[string]SearchLocale `json:"locales"`
}

type SearchLocale struct {
	Translations SearchTranslations `json:"translations"`
}

type SearchTranslations struct {
	Button SearchButton `json:"button"`
	Modal  SearchModal  `json:"modal"`
}

type SearchButton struct {
	ButtonText      string `json:"buttonText,omitempty"`
	ButtonAriaLabel string `json:"buttonAriaLabel,omitempty"`
}

type SearchModal struct {
	NoResultsText    string            `json:"noResultsText,omitempty"`
	ResetButtonTitle string            `json:"resetButtonTitle,omitempty"`
	Footer           SearchModalFooter `json:"footer"`
}

type SearchModalFooter struct {
	SelectText   string `json:"selectText,omitempty"`
	NavigateText string `json:"navigateText,omitempty"`
	CloseText    string `json:"closeText,omitempty"`
}

// Locale is one entry of the locales map. The root locale has no Link.
type Locale struct {
	Label       string      `json:"label"`
	Lang        string      `json:"lang,omitempty"`
	Link        string      `json:"link,omitempty"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	ThemeConfig LocaleTheme `json:"themeConfig"`
}

type LocaleTheme struct {
	Nav     []config.NavItem `json:"nav,omitempty"`
	Sidebar []sidebar.Item   `json:"sidebar"`

	OutlineTitle        string     `json:"outlineTitle,omitempty"`
	LastUpdatedText     string     `json:"lastUpdatedText,omitempty"`
	DarkModeSwitchLabel string     `json:"darkModeSwitchLabel,omitempty"`
	SidebarMenuLabel    string     `json:"sidebarMenuLabel,omitempty"`
	ReturnToTopLabel    string     `json:"returnToTopLabel,omitempty"`
	LangMenuLabel       string     `json:"langMenuLabel,omitempty"`
	DocFooter           *DocFooter `json:"docFooter,omitempty"`
}

type DocFooter struct {
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

type Markdown struct {
	Math          bool              `json:"math"`
	LineNumbers   bool              `json:"lineNumbers"`
	LanguageAlias map[string]string `json:"languageAlias,omitempty"`
	Mermaid       *Mermaid          `json:"mermaid,omitempty"`
	Timeline      bool              `json:"timeline"`
}

type Mermaid struct {
	Class string `json:"class,omitempty"`
}

type Server struct {
	Host         string       `json:"host"`
	Port         int          `json:"port"`
	StrictPort   bool         `json:"strictPort"`
	AllowedHosts AllowedHosts `json:"allowedHosts"`
}
