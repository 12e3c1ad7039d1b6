package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olimci/shiori/pkg/build"
	"github.com/olimci/shiori/pkg/events"
	"github.com/urfave/cli/v3"
)

// runBuild performs a single build of the site
func runBuild(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(os.Stderr, logLevel(cmd))
	collector := events.NewCollector(newEventLogger(logger))

	opts := buildOptions(ctx, cmd).WithEventHandler(collector)

	start := time.Now()
	err := build.Build(opts)
	elapsed := time.Since(start).Truncate(time.Millisecond)

	summary := formatSummary(collector.Summary())
	if err != nil {
		if summary != "" {
			logger.Error("build failed", "in", elapsed, "events", summary)
		}
		return fmt.Errorf("build failed: %w", err)
	}

	logger.Info("built", "in", elapsed, "config", opts.ConfigPath)
	return nil
}
