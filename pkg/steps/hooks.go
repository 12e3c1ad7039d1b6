package steps

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/olimci/shiori/pkg/iofs"
)

// Hook runs at the end of a build, after the manifest has been written to out.
type Hook func(ctx context.Context, out iofs.Writable) error

type deferred struct {
	step StepID
	name string
	seq  int
	fn   Hook
}

// Hooks collects the build-end hooks deferred by steps.
type Hooks struct {
	mu    sync.Mutex
	hooks []deferred
}

func (h *Hooks) add(step StepID, name string, fn Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hooks = append(h.hooks, deferred{step: step, name: name, seq: len(h.hooks), fn: fn})
}

// Len returns the number of registered hooks.
func (h *Hooks) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.hooks)
}

// Run runs every hook once, sequentially, ordered by step ID and then
// registration order. The first failing hook stops the run.
func (h *Hooks) Run(ctx context.Context, out iofs.Writable) error {
	h.mu.Lock()
	hooks := slices.Clone(h.hooks)
	h.mu.Unlock()

	slices.SortFunc(hooks, func(a, b deferred) int {
		return cmp.Or(cmp.Compare(a.step.String(), b.step.String()), cmp.Compare(a.seq, b.seq))
	})

	for _, hook := range hooks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := hook.fn(ctx, out); err != nil {
			return fmt.Errorf("%s (%s): %w", hook.name, hook.step, err)
		}
	}
	return nil
}
