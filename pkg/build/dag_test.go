package build

import (
	"context"
	"errors"
	"testing"

	"github.com/olimci/shiori/pkg/steps"
)

func noop(ctx context.Context, sc steps.StepContext) error { return nil }

func step(name string, deps ...string) steps.Step {
	s := steps.StepFunc(steps.StepID{Owner: "test", Name: name}, noop)
	for _, dep := range deps {
		s = s.WithDeps(steps.StepID{Owner: "test", Name: dep})
	}
	return s
}

func TestNewDAG(t *testing.T) {
	tests := []struct {
		name    string
		steps   []steps.Step
		wantErr error
	}{
		{"empty", nil, nil},
		{"chain", []steps.Step{step("a"), step("b", "a"), step("c", "b")}, nil},
		{"repeated dependency", []steps.Step{step("a"), step("b", "a", "a")}, nil},
		{"duplicate", []steps.Step{step("a"), step("a")}, ErrDuplicateStep},
		{"self", []steps.Step{step("a", "a")}, ErrSelfDependency},
		{"unresolved", []steps.Step{step("a", "missing")}, ErrUnresolvedDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newDAG(tt.steps)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("newDAG() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDAGDegrees(t *testing.T) {
	d, err := newDAG([]steps.Step{step("a"), step("b", "a", "a"), step("c", "a", "b")})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]int{"test:a": 0, "test:b": 1, "test:c": 2}
	for id, deg := range want {
		if d.deg[id] != deg {
			t.Errorf("deg[%s] = %d, want %d", id, d.deg[id], deg)
		}
	}
	if len(d.adj["test:a"]) != 2 {
		t.Errorf("adj[test:a] = %v, want two dependents", d.adj["test:a"])
	}
}
