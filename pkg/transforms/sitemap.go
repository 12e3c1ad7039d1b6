package transforms

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"sync"
	"text/template"
	"time"
)

// SitemapFile is the name the sitemap is written to in the output directory.
const SitemapFile = "sitemap.xml"

var SitemapTemplate = sync.OnceValue(func() *template.Template {
	return template.Must(template.New("sitemap").Funcs(template.FuncMap{"xml": xmlEscape}).Parse(
		`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
{{- range .Items }}
<url>
<loc>{{ xml .Loc }}</loc>{{ if .LastMod }}
<lastmod>{{ .LastMod }}</lastmod>{{ end }}{{ if .ChangeFreq }}
<changefreq>{{ xml .ChangeFreq }}</changefreq>{{ end }}{{ if .Priority }}
<priority>{{ .Priority }}</priority>{{ end }}
</url>
{{- end }}
</urlset>
`))
})

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

type SitemapItem struct {
	Loc        string
	LastMod    string
	ChangeFreq string
	Priority   string
}

type SitemapTemplateData struct {
	Items []SitemapItem
}

// BuildSitemap lists every page not excluded by its frontmatter, sorted by location.
func BuildSitemap(pages []*Page, siteURL string) SitemapTemplateData {
	siteURL = strings.TrimRight(siteURL, "/")

	items := make([]SitemapItem, 0, len(pages))
	for _, page := range pages {
		if page.Frontmatter.Draft || page.Frontmatter.Sitemap.Exclude {
			continue
		}

		item := SitemapItem{
			Loc:        siteURL + page.URL,
			ChangeFreq: page.Frontmatter.Sitemap.ChangeFreq,
		}
		if lastMod := page.LastMod(); !lastMod.IsZero() {
			item.LastMod = lastMod.Format(time.RFC3339)
		}
		if p := page.Frontmatter.Sitemap.Priority; p > 0 {
			item.Priority = fmt.Sprintf("%.2f", p)
		}

		items = append(items, item)
	}

	slices.SortFunc(items, func(a, b SitemapItem) int {
		return strings.Compare(a.Loc, b.Loc)
	})

	return SitemapTemplateData{
		Items: items,
	}
}
