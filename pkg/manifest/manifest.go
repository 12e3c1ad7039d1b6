package manifest

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"sync"

	"github.com/olimci/shiori/pkg/events"
	"github.com/olimci/shiori/pkg/iofs"
	"golang.org/x/sync/errgroup"
)

var (
	ErrConflicts  = errors.New("conflicts")
	ErrUnsafePath = errors.New("unsafe artefact path")
)

// RegistryGetter reads values published by earlier steps.
type RegistryGetter interface {
	Get(string) (any, bool)
}

// RegistrySetter publishes values for later steps.
type RegistrySetter interface {
	Set(string, any)
}

// K is a registry key whose values have type T.
type K[T any] string

// Key returns the untyped registry key.
func (k K[T]) Key() string { return string(k) }

// Key is implemented by every K.
type Key interface {
	Key() string
}

// GetAs retrieves a value from the registry as the specified type. Missing
// keys and mismatched types yield the zero value.
func GetAs[T any](r RegistryGetter, k K[T]) T {
	if v, ok := r.Get(string(k)); ok {
		if vt, ok := v.(T); ok {
			return vt
		}
	}
	return *new(T)
}

// LookupAs is GetAs, reporting whether a value of type T was present.
func LookupAs[T any](r RegistryGetter, k K[T]) (T, bool) {
	if v, ok := r.Get(string(k)); ok {
		vt, ok := v.(T)
		return vt, ok
	}
	return *new(T), false
}

func SetAs[T any](r RegistrySetter, k K[T], v T) {
	r.Set(string(k), v)
}

// New creates a new manifest
func New() *Manifest {
	return &Manifest{
		artefacts: make([]Artefact, 0),
		registry:  make(map[string]any),
	}
}

// Manifest represents a manifest of build artefacts, and a registry of build information
type Manifest struct {
	artefacts   []Artefact
	artefactsMu sync.Mutex

	registry   map[string]any
	registryMu sync.RWMutex
}

// Set sets a value in the registry
func (m *Manifest) Set(k string, v any) {
	m.registryMu.Lock()
	defer m.registryMu.Unlock()

	m.registry[k] = v
}

// Get retrieves a value from the registry
func (m *Manifest) Get(k string) (any, bool) {
	m.registryMu.RLock()
	defer m.registryMu.RUnlock()

	v, ok := m.registry[k]
	return v, ok
}

// Emit adds an artefact to the manifest
func (m *Manifest) Emit(a Artefact) {
	m.artefactsMu.Lock()
	defer m.artefactsMu.Unlock()

	m.artefacts = append(m.artefacts, a)
}

// Claims returns the claims of every emitted artefact, sorted by target.
func (m *Manifest) Claims() []Claim {
	m.artefactsMu.Lock()
	defer m.artefactsMu.Unlock()

	claims := make([]Claim, len(m.artefacts))
	for i, a := range m.artefacts {
		claims[i] = a.Claim
	}
	slices.SortStableFunc(claims, func(a, b Claim) int {
		return compareStrings(a.Target, b.Target)
	})
	return claims
}

// Build writes every artefact into out. Files in out that no artefact
// claims are left alone.
func (m *Manifest) Build(ctx context.Context, out iofs.Writable, opts ...Option) error {
	o := defaultOptions().apply(opts...)

	m.artefactsMu.Lock()
	defer m.artefactsMu.Unlock()

	artefacts, conflicts := makeArtefacts(m.artefacts)
	for _, target := range sortedKeys(conflicts) {
		claims := conflicts[target]
		o.handler.Handle(events.Event{
			Level:   events.Error,
			Message: fmt.Sprintf("file conflict %s: %v", target, owners(claims)),
			Error:   fmt.Errorf("%w: %s", ErrConflicts, target),
		})
	}
	if !o.ignoreConflicts && len(conflicts) > 0 {
		return fmt.Errorf("%w: %v", ErrConflicts, sortedKeys(conflicts))
	}

	cleaned := make(map[string]ArtefactBuilder, len(artefacts))
	for dest, a := range artefacts {
		rel := path.Clean(dest)
		if path.IsAbs(rel) || isRel(rel) {
			return fmt.Errorf("%w: %q escapes the output directory", ErrUnsafePath, dest)
		}
		cleaned[rel] = a
	}
	artefacts = cleaned

	if err := out.EnsureRoot(); err != nil {
		return err
	}

	for _, rel := range manifestDirs(artefacts).Values() {
		if rel == "." {
			continue
		}
		if err := out.MkdirAll(rel, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", out.DisplayPath(rel), err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	if o.maxWorkers > 0 {
		g.SetLimit(o.maxWorkers)
	}

	for target, artefact := range artefacts {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err := out.Write(target, artefact); err != nil {
				return fmt.Errorf("failed to write %s: %w", out.DisplayPath(target), err)
			}

			o.handler.Handle(events.Event{
				Level:   events.Debug,
				Message: "wrote " + target,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to build: %w", err)
	}

	return nil
}
