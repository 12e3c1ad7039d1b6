package config

import (
	"context"
	"runtime"

	"github.com/olimci/shiori/pkg/events"
)

// DefaultConfigPath is the config file looked up when none is given.
const DefaultConfigPath = "shiori.toml"

// DefaultOptions constructs an Options with default values.
func DefaultOptions() *Options {
	return &Options{
		Context:      context.Background(),
		ConfigPath:   DefaultConfigPath,
		MaxWorkers:   runtime.NumCPU(),
		Dev:          false,
		EventHandler: new(events.NoopHandler),
	}
}

// Options represents the options for building a site.
type Options struct {
	Context    context.Context
	ConfigPath string
	OutputPath string
	SiteURL    string

	MaxWorkers int
	Dev        bool

	EventHandler events.Handler
}

// WithContext sets the root context for building
func (o *Options) WithContext(ctx context.Context) *Options {
	o.Context = ctx
	return o
}

// WithConfig sets the path to the configuration file
func (o *Options) WithConfig(path string) *Options {
	o.ConfigPath = path
	return o
}

// WithOutput sets the path to the output directory, overriding config
func (o *Options) WithOutput(path string) *Options {
	o.OutputPath = path
	return o
}

// WithSiteURL sets the site base URL, overriding config.
func (o *Options) WithSiteURL(url string) *Options {
	o.SiteURL = url
	return o
}

// WithMaxWorkers sets the maximum number of steps run at once. Values below
// one are raised to one.
func (o *Options) WithMaxWorkers(n int) *Options {
	o.MaxWorkers = max(n, 1)
	return o
}

// WithDev enables development mode. Dev builds skip minification and keep going past step errors.
func (o *Options) WithDev() *Options {
	o.Dev = true
	return o
}

// WithEventHandler sets the event handler for building
func (o *Options) WithEventHandler(handler events.Handler) *Options {
	o.EventHandler = handler
	return o
}

// Apply applies the option overrides to cfg and revalidates it.
func (o *Options) Apply(cfg *Config) error {
	if o.OutputPath != "" {
		cfg.Build.Output = o.OutputPath
	}
	if o.SiteURL != "" {
		cfg.Site.URL = o.SiteURL
	}
	if o.Dev {
		cfg.Build.Minify = false
	}
	return cfg.Validate()
}
