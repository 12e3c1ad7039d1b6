// Package scaffold writes the files of a new site: its config and a starter
// page per locale.
package scaffold

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"text/template"

	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/utils/fileutils"
)

var ErrExists = errors.New("already exists")

//go:embed starter
var starter embed.FS

var pageTemplate = sync.OnceValue(func() *template.Template {
	return template.Must(template.ParseFS(starter, "starter/index.md.tmpl"))
})

// BuildResult contains information about what was created.
type BuildResult struct {
	ConfigPath   string
	FilesCreated []string
	FilesSkipped []string
}

type pageData struct {
	Title       string
	Description string
}

// Build writes cfg into targetPath along with an index page for every locale
// whose content directory has none yet.
func Build(ctx context.Context, targetPath string, cfg *config.Config, opts ...Option) (*BuildResult, error) {
	o := defaultOptions().apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &BuildResult{
		ConfigPath:   filepath.Join(targetPath, o.configName),
		FilesCreated: make([]string, 0),
		FilesSkipped: make([]string, 0),
	}

	if !o.force {
		if _, err := os.Stat(result.ConfigPath); err == nil {
			return nil, fmt.Errorf("%s %w (use force to overwrite)", result.ConfigPath, ErrExists)
		}
	}

	if err := os.MkdirAll(targetPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating target directory: %w", err)
	}
	if err := cfg.Save(result.ConfigPath); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	result.FilesCreated = append(result.FilesCreated, o.configName)

	for _, key := range cfg.LocaleKeys() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		locale := cfg.Locales[key]
		rel := filepath.Join(filepath.FromSlash(cfg.Content.Source), filepath.FromSlash(locale.Dir), "index.md")
		dest := filepath.Join(targetPath, rel)

		if _, err := os.Stat(dest); err == nil {
			result.FilesSkipped = append(result.FilesSkipped, rel)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return result, fmt.Errorf("creating parent directory for %s: %w", rel, err)
		}

		data := pageData{Title: locale.Title, Description: locale.Description}
		err := fileutils.AtomicWrite(dest, func(w io.Writer) error {
			return pageTemplate().Execute(w, data)
		})
		if err != nil {
			return result, fmt.Errorf("writing %s: %w", rel, err)
		}
		result.FilesCreated = append(result.FilesCreated, rel)
	}

	return result, nil
}
