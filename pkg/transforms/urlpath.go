package transforms

import (
	"regexp"
	"strings"
)

var slashRuns = regexp.MustCompile(`/{2,}`)

// PageURL maps a content file path relative to the content root onto its
// public URL path. Either separator is accepted. The result always starts
// with a single "/" and contains no "//".
//
//	guide/index.md -> /guide/
//	index.md       -> /
//	a\b\c.md       -> /a/b/c.html
//
// The rules apply in order, so "x/index.html.md" becomes "/x/index.html.html"
// rather than collapsing to "/x/".
func PageURL(rel string) string {
	p := strings.ReplaceAll(rel, `\`, "/")

	if s, ok := strings.CutSuffix(p, ".md"); ok {
		p = s + ".html"
	}
	if s, ok := strings.CutSuffix(p, "/index.html"); ok {
		p = s + "/"
	}
	if p == "index.html" {
		p = ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return slashRuns.ReplaceAllLiteralString(p, "/")
}
