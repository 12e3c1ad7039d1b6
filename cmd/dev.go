package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/olimci/shiori/pkg/build"
	"github.com/olimci/shiori/pkg/events"
	"github.com/olimci/shiori/pkg/watcher"
	"github.com/urfave/cli/v3"
)

type BuildRequest struct {
	Reason string
	Paths  []string
}

type BuildResult struct {
	Duration time.Duration
	Error    error
	Reason   string
	Paths    []string
	Number   int
	Summary  string
}

// runDev builds once, then rebuilds whenever the config or content changes.
// Dev builds skip minification and keep going past page errors.
func runDev(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger := newLogger(os.Stderr, logLevel(cmd))

	w, err := watcher.New(cmd.String("config"), cmd.Duration("debounce"))
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil {
		return err
	}
	logger.Info("watching", "paths", strings.Join(w.Watched(), ", "))

	number := 0
	rebuild := func(req BuildRequest) {
		number++
		logResult(logger, devBuild(ctx, cmd, logger, req, number))
	}

	rebuild(BuildRequest{Reason: "initial"})

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-w.Events:
			req := BuildRequest{Reason: ev.Reason, Paths: ev.Paths}
			// fold in changes that queued up during the last build
			for drained := false; !drained; {
				select {
				case more := <-w.Events:
					req.Paths = append(req.Paths, more.Paths...)
					if more.Config {
						req.Reason = more.Reason
					}
				default:
					drained = true
				}
			}
			rebuild(req)

		case err := <-w.Errors:
			logger.Warn("watch error", "err", err)
		}
	}
}

func devBuild(ctx context.Context, cmd *cli.Command, logger *log.Logger, req BuildRequest, number int) BuildResult {
	collector := events.NewCollector(newEventLogger(logger))

	opts := buildOptions(ctx, cmd).WithDev().WithEventHandler(collector)

	start := time.Now()
	err := build.Build(opts)

	return BuildResult{
		Duration: time.Since(start),
		Error:    err,
		Reason:   req.Reason,
		Paths:    req.Paths,
		Number:   number,
		Summary:  formatSummary(collector.Summary()),
	}
}

func logResult(logger *log.Logger, result BuildResult) {
	keyvals := []any{
		"in", result.Duration.Truncate(time.Millisecond),
		"reason", result.Reason,
	}
	if result.Summary != "" {
		keyvals = append(keyvals, "events", result.Summary)
	}

	if result.Error != nil {
		logger.Error("build failed", append([]any{"build", result.Number, "err", result.Error}, keyvals...)...)
	} else {
		logger.Info("built", append([]any{"build", result.Number}, keyvals...)...)
	}

	if len(result.Paths) > 0 {
		logger.Debug("changes", "paths", strings.Join(result.Paths, ", "))
	}
}
