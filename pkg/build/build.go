package build

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/events"
	"github.com/olimci/shiori/pkg/iofs"
	"github.com/olimci/shiori/pkg/manifest"
	"github.com/olimci/shiori/pkg/steps"
	"github.com/olimci/shiori/pkg/steps/keys"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

var (
	ErrDuplicateStep        = fmt.Errorf("duplicate step")
	ErrSelfDependency       = fmt.Errorf("self dependency")
	ErrUnresolvedDependency = fmt.Errorf("unresolved dependency")
	ErrCircularDependency   = fmt.Errorf("circular dependency")
	ErrTaskError            = fmt.Errorf("task error")
	ErrBuildFailed          = fmt.Errorf("build failed")
)

// Build loads the config at opts.ConfigPath and builds the site next to it.
// A nil opts builds with DefaultOptions.
func Build(opts *config.Options) error {
	if opts == nil {
		opts = config.DefaultOptions()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := opts.Apply(cfg); err != nil {
		return err
	}

	siteRoot := filepath.Dir(opts.ConfigPath)

	output := filepath.FromSlash(cfg.Build.Output)
	if !filepath.IsAbs(output) {
		output = filepath.Join(siteRoot, output)
	}

	return BuildSteps(steps.Default(cfg), cfg, opts, iofs.FromOS(siteRoot), iofs.FromOS(output))
}

// BuildSteps runs steps in dependency order, writes the artefacts they emit to
// out and finally runs the build-end hooks they deferred. Error events fail the
// build once everything has been written, except in dev mode.
func BuildSteps(stepList []steps.Step, cfg *config.Config, opts *config.Options, source iofs.Readable, out iofs.Writable) error {
	if opts == nil {
		opts = config.DefaultOptions()
	}

	collector := events.NewCollector(opts.EventHandler)

	man := manifest.New()
	manifest.SetAs(man, keys.Options, opts)
	manifest.SetAs(man, keys.Config, cfg)

	sourceFS, err := source.Open(opts.Context)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	d, err := newDAG(stepList)
	if err != nil {
		return err
	}

	var ready []string
	for id, deg := range d.deg {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	if len(ready) == 0 && len(stepList) > 0 {
		return ErrCircularDependency
	}

	hooks := new(steps.Hooks)

	// Tasks schedule their dependents from inside the group, so the group
	// itself is unbounded and only step bodies hold a worker slot.
	g, ctx := errgroup.WithContext(opts.Context)
	workers := semaphore.NewWeighted(int64(max(opts.MaxWorkers, 1)))

	var (
		mu       sync.Mutex
		done     int
		schedule func(id string)
	)

	schedule = func(id string) {
		step := d.m[id]
		g.Go(func() error {
			if err := workers.Acquire(ctx, 1); err != nil {
				return err
			}

			sc := steps.NewStepContext(man, sourceFS, source.Root(), collector, hooks, step)
			err := step.Fn(ctx, sc)
			workers.Release(1)

			if err != nil {
				return fmt.Errorf("%w (%s): %w", ErrTaskError, id, err)
			}

			var ready []string
			mu.Lock()
			done++
			for _, next := range d.adj[id] {
				d.deg[next]--
				if d.deg[next] == 0 {
					ready = append(ready, next)
				}
			}
			mu.Unlock()

			for _, id := range ready {
				schedule(id)
			}

			return nil
		})
	}

	for _, id := range ready {
		schedule(id)
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	if done != len(stepList) {
		var stuck []string
		for id, deg := range d.deg {
			if deg != 0 {
				stuck = append(stuck, id)
			}
		}
		return fmt.Errorf("%w: %v", ErrCircularDependency, stuck)
	}

	manifestOpts := []manifest.Option{
		manifest.WithMaxWorkers(opts.MaxWorkers),
		manifest.WithEventHandler(collector),
	}
	if opts.Dev {
		manifestOpts = append(manifestOpts, manifest.IgnoreConflicts())
	}

	if err := man.Build(opts.Context, out, manifestOpts...); err != nil {
		return fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	if err := hooks.Run(opts.Context, out); err != nil {
		return fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	if !opts.Dev && collector.HasLevel(events.Error) {
		return fmt.Errorf("%w: %d error(s) reported during build", ErrBuildFailed, collector.Summary().ErrorCount)
	}

	return nil
}
