package siteconf

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/sidebar"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Site.URL = "https://notes.example.org/"
	cfg.Site.Keywords = "notes"
	cfg.Content.Rewrites = []config.Rewrite{
		{From: "en/index.md", To: "index.md"},
		{From: "en/:dir/:rest*", To: ":dir/:rest*"},
	}
	cfg.Locales["zh"] = &config.ConfigLocale{
		Lang: "zh-Hans",
		UI: config.ConfigLocaleUI{
			OutlineTitle:  "页面导航",
			DocFooterPrev: "上一页",
			DocFooterNext: "下一页",
		},
	}
	cfg.Theme.SocialLinks = []config.SocialLink{
		{Icon: "github", Link: "https://github.com/olimci/shiori"},
		{SVG: "<svg/>", Link: "https://example.org"},
	}
	cfg.Theme.Search.Locales = map[string]config.SearchTranslations{
		"zh": {ButtonText: "搜索文档", CloseText: "关闭"},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func TestAssemble(t *testing.T) {
	cfg := testConfig(t)
	sidebars := map[string][]sidebar.Item{
		config.RootLocale: {{Text: "Guide", Link: "/guide/"}},
	}

	sc := Assemble(cfg, sidebars)

	if sc.Sitemap == nil || sc.Sitemap.Hostname != "https://notes.example.org" {
		t.Errorf("Sitemap = %+v, want hostname without trailing slash", sc.Sitemap)
	}
	if sc.Lang != "en" {
		t.Errorf("Lang = %q, want en", sc.Lang)
	}
	if len(sc.Head) != 3 {
		t.Errorf("Head has %d tags, want keywords, og:type and icon", len(sc.Head))
	}

	root := sc.Locales[config.RootLocale]
	if root.Link != "" || len(root.ThemeConfig.Sidebar) != 1 {
		t.Errorf("root locale = %+v", root)
	}

	zh := sc.Locales["zh"]
	if zh.Link != "/zh/" {
		t.Errorf("zh link = %q, want /zh/", zh.Link)
	}
	if zh.ThemeConfig.Sidebar == nil {
		t.Error("zh sidebar should be empty, not nil")
	}
	if zh.ThemeConfig.DocFooter == nil || zh.ThemeConfig.DocFooter.Prev != "上一页" {
		t.Errorf("zh doc footer = %+v", zh.ThemeConfig.DocFooter)
	}
}

func TestAssembleWithoutURL(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if sc := Assemble(cfg, nil); sc.Sitemap != nil {
		t.Errorf("Sitemap = %+v, want nil without a site URL", sc.Sitemap)
	}
}

func TestSiteConfigJSON(t *testing.T) {
	sc := Assemble(testConfig(t), nil)

	b, err := json.Marshal(sc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(b)

	for _, want := range []string{
		`"rewrites":{"en/index.md":"index.md","en/:dir/:rest*":":dir/:rest*"}`,
		`"socialLinks":[{"icon":"github","link":"https://github.com/olimci/shiori"},{"icon":{"svg":"\u003csvg/\u003e"},"link":"https://example.org"}]`,
		`"allowedHosts":true`,
		`"port":5173`,
		`"languageAlias":{"env":"properties","gitignore":"ini"}`,
		`"mermaid":{"class":"mermaid"}`,
		`"sitemap":{"hostname":"https://notes.example.org"}`,
		`"button":{"buttonText":"搜索文档"}`,
		`"footer":{"closeText":"关闭"}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s\n%s", want, out)
		}
	}

	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestAllowedHostsJSON(t *testing.T) {
	tests := []struct {
		in   AllowedHosts
		want string
	}{
		{AllowedHosts{All: true, Hosts: []string{"a"}}, `true`},
		{AllowedHosts{Hosts: []string{"a", "b"}}, `["a","b"]`},
		{AllowedHosts{}, `[]`},
	}

	for _, tt := range tests {
		got, err := json.Marshal(tt.in)
		if err != nil || string(got) != tt.want {
			t.Errorf("Marshal(%+v) = %s, %v; want %s", tt.in, got, err, tt.want)
		}
	}
}
