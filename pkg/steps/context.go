package steps

import (
	"fmt"
	"io/fs"

	"github.com/olimci/shiori/pkg/events"
	"github.com/olimci/shiori/pkg/manifest"
	"github.com/olimci/shiori/pkg/steps/keys"
	"github.com/olimci/shiori/pkg/utils/set"
)

// StepContext is a step's view of the build: its declared registry keys, the
// source tree, artefact emission, deferred hooks and event reporting.
type StepContext interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Emit(artefact manifest.Artefact)
	Source() (fs.FS, string)
	// Defer registers a hook run once after every artefact has been written.
	Defer(name string, hook Hook)
	Debug(message string)
	Debugf(format string, args ...any)
	Info(message string)
	Infof(format string, args ...any)
	Error(err error, message string)
	Errorf(err error, format string, args ...any)
}

// NewStepContext creates the context a step runs with. Registry access is
// limited to the step's declared reads and writes, plus the config and options.
func NewStepContext(man *manifest.Manifest, sourceFS fs.FS, sourceRoot string, handler events.Handler, hooks *Hooks, step Step) StepContext {
	reads := set.FromSlice(keyNames(step.Reads))
	reads.Add(keys.Config.Key())
	reads.Add(keys.Options.Key())

	if handler == nil {
		handler = new(events.NoopHandler)
	}

	return &stepContext{
		id:           step.ID,
		manifest:     man,
		sourceFS:     sourceFS,
		sourceRoot:   sourceRoot,
		reads:        reads,
		writes:       set.FromSlice(keyNames(step.Writes)),
		hooks:        hooks,
		eventHandler: handler,
	}
}

type stepContext struct {
	id StepID

	manifest   *manifest.Manifest
	sourceFS   fs.FS
	sourceRoot string
	reads      *set.Set[string]
	writes     *set.Set[string]
	hooks      *Hooks

	eventHandler events.Handler
}

func (sc *stepContext) Get(key string) (any, bool) {
	if !sc.reads.Has(key) && !sc.writes.Has(key) {
		panic(fmt.Sprintf("step %s read registry key %q without declaring it", sc.id, key))
	}
	return sc.manifest.Get(key)
}

func (sc *stepContext) Set(key string, value any) {
	if !sc.writes.Has(key) {
		panic(fmt.Sprintf("step %s wrote registry key %q without declaring it", sc.id, key))
	}
	sc.manifest.Set(key, value)
}

func (sc *stepContext) Emit(artefact manifest.Artefact) {
	if artefact.Claim.Owner == "" {
		artefact.Claim.Owner = sc.id.String()
	}
	sc.manifest.Emit(artefact)
}

func (sc *stepContext) Source() (fs.FS, string) {
	return sc.sourceFS, sc.sourceRoot
}

func (sc *stepContext) Defer(name string, hook Hook) {
	sc.hooks.add(sc.id, name, hook)
}

func (sc *stepContext) event(level events.Level, message string, err error) {
	sc.eventHandler.Handle(events.Event{
		Level:   level,
		Step:    sc.id.String(),
		Message: message,
		Error:   err,
	})
}

func (sc *stepContext) Debug(message string) {
	sc.event(events.Debug, message, nil)
}

func (sc *stepContext) Debugf(format string, args ...any) {
	sc.event(events.Debug, fmt.Sprintf(format, args...), nil)
}

func (sc *stepContext) Info(message string) {
	sc.event(events.Info, message, nil)
}

func (sc *stepContext) Infof(format string, args ...any) {
	sc.event(events.Info, fmt.Sprintf(format, args...), nil)
}

func (sc *stepContext) Error(err error, message string) {
	sc.event(events.Error, message, err)
}

func (sc *stepContext) Errorf(err error, format string, args ...any) {
	sc.event(events.Error, fmt.Sprintf(format, args...), err)
}
