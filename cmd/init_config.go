package cmd

import (
	"strings"

	"github.com/olimci/shiori/cmd/ui/init_ui"
	"github.com/olimci/shiori/pkg/config"
)

// initPresets returns the site layouts offered by init, prefilled from params.
func initPresets(params siteParams) []*init_ui.Preset {
	fields := []init_ui.Field{
		{Key: "title", Label: "Site title", Placeholder: defaultTitle(params.Target), Value: params.Title},
		{Key: "description", Label: "Description", Placeholder: "What the site is about", Value: params.Description},
		{Key: "url", Label: "Site URL", Placeholder: "https://docs.example.com (optional)", Value: params.URL},
		{Key: "lang", Label: "Language", Placeholder: "en", Value: params.Lang, Required: true},
		{Key: "source", Label: "Content directory", Placeholder: "docs", Value: params.Source, Required: true},
	}

	locales := init_ui.Field{
		Key:         "locales",
		Label:       "Other locales",
		Placeholder: "zh, ja",
		Value:       strings.Join(params.Locales, ", "),
		Required:    true,
	}

	return []*init_ui.Preset{
		{
			Name:        "Single language",
			Description: "One locale served from the site root",
			Fields:      fields,
		},
		{
			Name:        "Multilingual",
			Description: "A root locale plus one directory per extra locale",
			Fields:      append(fields[:len(fields):len(fields)], locales),
		},
	}
}

// applyAnswers copies the form values over params.
func applyAnswers(params siteParams, result *init_ui.Result) siteParams {
	params.Target = result.Target
	params.Force = result.Force

	values := result.Values
	params.Title = values["title"]
	params.Description = values["description"]
	params.URL = values["url"]
	params.Lang = values["lang"]
	params.Source = values["source"]

	params.Locales = nil
	if v, ok := values["locales"]; ok {
		params.Locales = splitList(v)
	}
	return params
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// newSiteConfig builds and validates the config of a new site. Each extra
// locale key doubles as its language tag and content directory.
func newSiteConfig(params siteParams) (*config.Config, error) {
	cfg := config.DefaultConfig()

	cfg.Site.Title = params.Title
	cfg.Site.Description = params.Description
	cfg.Site.URL = params.URL
	if params.Source != "" {
		cfg.Content.Source = params.Source
	}

	root := cfg.Locales[config.RootLocale]
	if params.Lang != "" {
		root.Lang = params.Lang
		root.Label = ""
	}

	for _, key := range params.Locales {
		if key == config.RootLocale {
			continue
		}
		cfg.Locales[key] = &config.ConfigLocale{Lang: key}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
