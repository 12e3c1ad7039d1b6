package manifest

import (
	"runtime"

	"github.com/olimci/shiori/pkg/events"
)

func defaultOptions() *options {
	return &options{
		maxWorkers: runtime.NumCPU(),
		handler:    new(events.NoopHandler),
	}
}

type options struct {
	maxWorkers      int
	ignoreConflicts bool
	handler         events.Handler
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}

	return o
}

type Option func(*options)

func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// IgnoreConflicts reports conflicting claims without failing; the last emitted artefact wins.
func IgnoreConflicts() Option {
	return func(o *options) {
		o.ignoreConflicts = true
	}
}

func WithEventHandler(handler events.Handler) Option {
	return func(o *options) {
		if handler != nil {
			o.handler = handler
		}
	}
}
