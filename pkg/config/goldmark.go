package config

import (
	"fmt"
	"strings"

	gm "github.com/yuin/goldmark"
	gmext "github.com/yuin/goldmark/extension"
	gmparse "github.com/yuin/goldmark/parser"
)

// ConfigGoldmark configures the markdown parser used to read page headings.
type ConfigGoldmark struct {
	Extensions []string             `toml:"extensions" yaml:"extensions"`
	Parser     ConfigGoldmarkParser `toml:"parser" yaml:"parser"`
}

type ConfigGoldmarkParser struct {
	AutoHeadingID bool `toml:"auto_heading_id" yaml:"auto_heading_id"`
	Attribute     bool `toml:"attribute" yaml:"attribute"`
}

func defaultGoldmark() ConfigGoldmark {
	return ConfigGoldmark{
		Extensions: []string{
			"gfm",
			"footnotes",
		},
		Parser: ConfigGoldmarkParser{
			AutoHeadingID: false,
			// strips `{#custom-id}` attribute blocks from heading text
			Attribute: true,
		},
	}
}

func goldmarkExtension(name string) (gm.Extender, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gfm":
		return gmext.GFM, nil
	case "table", "tables":
		return gmext.Table, nil
	case "strikethrough":
		return gmext.Strikethrough, nil
	case "tasklist", "task-list":
		return gmext.TaskList, nil
	case "deflist", "definition-list":
		return gmext.DefinitionList, nil
	case "footnote", "footnotes":
		return gmext.Footnote, nil
	case "linkify":
		return gmext.Linkify, nil
	case "typographer", "smartypants":
		return gmext.Typographer, nil
	default:
		return nil, fmt.Errorf("unknown goldmark extension %q", name)
	}
}

// Validate reports unknown extensions.
func (cfg ConfigGoldmark) Validate() error {
	for _, name := range cfg.Extensions {
		if _, err := goldmarkExtension(name); err != nil {
			return err
		}
	}
	return nil
}

// Build constructs a goldmark.Markdown from the config. Unknown extensions are ignored.
func (cfg ConfigGoldmark) Build() gm.Markdown {
	var (
		exts       []gm.Extender
		parserOpts []gmparse.Option
	)

	for _, name := range cfg.Extensions {
		if ext, err := goldmarkExtension(name); err == nil {
			exts = append(exts, ext)
		}
	}

	if cfg.Parser.AutoHeadingID {
		parserOpts = append(parserOpts, gmparse.WithAutoHeadingID())
	}
	if cfg.Parser.Attribute {
		parserOpts = append(parserOpts, gmparse.WithAttribute())
	}

	opts := make([]gm.Option, 0, 2)
	if len(exts) > 0 {
		opts = append(opts, gm.WithExtensions(exts...))
	}
	if len(parserOpts) > 0 {
		opts = append(opts, gm.WithParserOptions(parserOpts...))
	}

	return gm.New(opts...)
}
