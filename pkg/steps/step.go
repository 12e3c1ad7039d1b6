package steps

import (
	"context"
	"strings"

	"github.com/olimci/shiori/pkg/manifest"
)

// StepID names a step as owner:name, with an optional third part for steps
// created once per locale.
type StepID struct {
	Owner string
	Name  string
	Sub   string
}

func (s StepID) String() string {
	parts := []string{s.Owner, s.Name}
	if s.Sub != "" {
		parts = append(parts, s.Sub)
	}
	return strings.Join(parts, ":")
}

// With returns a copy of s with sub as its third part.
func (s StepID) With(sub string) StepID {
	s.Sub = sub
	return s
}

// StepFn is the body of a step.
type StepFn func(context.Context, StepContext) error

// Step is a unit of build work. Reads and Writes list the registry keys the
// step may touch; Deps must finish before it starts.
type Step struct {
	ID     StepID
	Deps   []StepID
	Reads  []manifest.Key
	Writes []manifest.Key
	Fn     StepFn
}

func StepFunc(id StepID, fn StepFn) Step {
	return Step{ID: id, Fn: fn}
}

func (s Step) WithReads(reads ...manifest.Key) Step {
	s.Reads = append(s.Reads[:len(s.Reads):len(s.Reads)], reads...)
	return s
}

func (s Step) WithWrites(writes ...manifest.Key) Step {
	s.Writes = append(s.Writes[:len(s.Writes):len(s.Writes)], writes...)
	return s
}

func (s Step) WithDeps(deps ...StepID) Step {
	s.Deps = append(s.Deps[:len(s.Deps):len(s.Deps)], deps...)
	return s
}

func keyNames(ks []manifest.Key) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.Key()
	}
	return out
}
