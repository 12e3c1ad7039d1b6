package scaffold

func defaultOptions() *options {
	return &options{
		configName: "shiori.toml",
		force:      false,
	}
}

type options struct {
	configName string
	force      bool
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}

	return o
}

type Option func(o *options)

// WithConfigName sets the file name the config is written to.
func WithConfigName(name string) Option {
	return func(o *options) {
		o.configName = name
	}
}

// WithForce overwrites an existing config. Existing pages are never overwritten.
func WithForce(force bool) Option {
	return func(o *options) {
		o.force = force
	}
}
