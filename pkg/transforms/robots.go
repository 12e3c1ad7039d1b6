package transforms

import "strings"

// RobotsFile is the name robots content is written to in the output directory.
const RobotsFile = "robots.txt"

// Robots builds robots.txt content: allow everything except the disallow
// patterns (one Disallow line each, in order), then a Sitemap line when
// siteURL is set.
func Robots(disallow []string, siteURL string) string {
	rules := make([]string, len(disallow))
	for i, p := range disallow {
		rules[i] = "Disallow: " + p
	}

	lines := []string{
		"User-agent: *",
		"Allow: /",
		"",
		"# Exclude resource files",
		strings.Join(rules, "\n"),
		"",
	}
	if siteURL != "" {
		lines = append(lines, "Sitemap: "+strings.TrimRight(siteURL, "/")+"/"+SitemapFile)
	}

	return strings.Join(lines, "\n")
}
