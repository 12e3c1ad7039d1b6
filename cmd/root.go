package cmd

import (
	"context"
	"time"

	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/version"
	"github.com/urfave/cli/v3"
)

var Version = version.String()

func Execute(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:  "shiori",
		Usage: "Generate sidebars, head tags, sitemap and robots.txt for a documentation site",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug events"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log errors"},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Print the version",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "short", Usage: "Print the version number only"},
				},
				Action: runVersion,
			},
			{
				Name:      "init",
				Usage:     "Write a new shiori config",
				ArgsUsage: "[directory]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: "Site layout (single, multilingual)"},
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Site title"},
					&cli.StringFlag{Name: "description", Usage: "Site description"},
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Site base URL"},
					&cli.StringFlag{Name: "lang", Value: "en", Usage: "Root language tag"},
					&cli.StringSliceFlag{Name: "locale", Usage: "Additional locale key (repeatable)"},
					&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Value: "docs", Usage: "Content directory"},
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing config"},
					&cli.BoolFlag{Name: "no-input", Usage: "Never prompt, even on a terminal"},
				},
				Action: runInit,
			},
			{
				Name:   "build",
				Usage:  "Build the generated files into the output directory",
				Flags:  buildFlags(),
				Action: runBuild,
			},
			{
				Name:  "dev",
				Usage: "Watch the content and rebuild on changes",
				Flags: append(buildFlags(),
					&cli.DurationFlag{Name: "debounce", Value: 250 * time.Millisecond, Usage: "Debounce window for rebuilds"},
				),
				Action: runDev,
			},
		},
	}

	return app.Run(ctx, args)
}

func buildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: config.DefaultConfigPath, Usage: "config file path"},
		&cli.StringFlag{Name: "dist", Aliases: []string{"d"}, Usage: "output directory (overrides config)"},
		&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "site base URL (overrides config)"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"j"}, Usage: "maximum concurrent steps (default: number of CPUs)"},
	}
}

// buildOptions turns the shared build flags into options.
func buildOptions(ctx context.Context, cmd *cli.Command) *config.Options {
	opts := config.DefaultOptions().
		WithContext(ctx).
		WithConfig(cmd.String("config")).
		WithOutput(cmd.String("dist")).
		WithSiteURL(cmd.String("url"))

	if n := cmd.Int("workers"); n > 0 {
		opts.WithMaxWorkers(int(n))
	}
	return opts
}
