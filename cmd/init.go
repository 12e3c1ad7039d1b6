package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/olimci/shiori/cmd/ui/init_ui"
	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/scaffold"
	"github.com/urfave/cli/v3"
)

const (
	presetSingle       = "single"
	presetMultilingual = "multilingual"
)

// siteParams are the answers needed to write a new site.
type siteParams struct {
	Target      string
	Title       string
	Description string
	URL         string
	Lang        string
	Source      string
	Locales     []string
	Force       bool
}

func runInit(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(os.Stderr, logLevel(cmd))

	params := siteParams{
		Target:      ".",
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		URL:         cmd.String("url"),
		Lang:        cmd.String("lang"),
		Source:      cmd.String("source"),
		Locales:     cmd.StringSlice("locale"),
		Force:       cmd.Bool("force"),
	}
	if cmd.NArg() > 0 {
		params.Target = cmd.Args().First()
	}

	interactive := !cmd.Bool("no-input") && isTerminal(os.Stdin) && isTerminal(os.Stdout)

	if interactive {
		result, err := init_ui.Run(ctx, init_ui.Params{
			Presets:  initPresets(params),
			Selected: presetName(cmd.String("preset")),
			Target:   params.Target,
			Force:    params.Force,
		})
		if err != nil {
			return err
		}
		if result.Cancelled {
			logger.Info("cancelled")
			return nil
		}
		params = applyAnswers(params, result)
	} else if cmd.String("preset") == presetMultilingual && len(params.Locales) == 0 {
		return fmt.Errorf("the %s preset needs at least one --locale", presetMultilingual)
	}

	if params.Title == "" {
		params.Title = defaultTitle(params.Target)
	}

	cfg, err := newSiteConfig(params)
	if err != nil {
		return err
	}

	configPath := filepath.Join(params.Target, config.DefaultConfigPath)
	if _, err := os.Stat(configPath); err == nil && !params.Force && interactive {
		overwrite, err := confirmOverwrite(ctx, configPath)
		if err != nil {
			return err
		}
		if !overwrite {
			logger.Info("kept existing config", "path", configPath)
			return nil
		}
		params.Force = true
	}

	result, err := scaffold.Build(ctx, params.Target, cfg,
		scaffold.WithConfigName(config.DefaultConfigPath),
		scaffold.WithForce(params.Force),
	)
	if err != nil {
		return err
	}

	logCreated(logger, params.Target, result)
	return nil
}

func logCreated(logger *log.Logger, target string, result *scaffold.BuildResult) {
	for _, file := range result.FilesCreated {
		logger.Info("created", "path", filepath.Join(target, file))
	}
	for _, file := range result.FilesSkipped {
		logger.Debug("kept existing", "path", filepath.Join(target, file))
	}

	next := "shiori build"
	if target != "." {
		next = fmt.Sprintf("cd %s && %s", target, next)
	}
	logger.Info("done", "next", next)
}

func confirmOverwrite(ctx context.Context, path string) (bool, error) {
	var overwrite bool

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("%s already exists. Overwrite it?", path)).
			Affirmative("Overwrite").
			Negative("Keep").
			Value(&overwrite),
	)).WithTheme(huh.ThemeCatppuccin())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return overwrite, nil
}

func defaultTitle(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "Docs"
	}
	return filepath.Base(abs)
}

func presetName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case presetSingle:
		return "Single language"
	case presetMultilingual:
		return "Multilingual"
	default:
		return ""
	}
}
