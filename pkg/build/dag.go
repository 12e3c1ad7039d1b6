package build

import (
	"fmt"

	"github.com/olimci/shiori/pkg/steps"
	"github.com/olimci/shiori/pkg/utils/set"
)

// newDAG constructs a DAG from a slice of steps, keyed by step ID.
func newDAG(stepList []steps.Step) (*dag, error) {
	d := &dag{
		m:   make(map[string]steps.Step),
		adj: make(map[string][]string),
		deg: make(map[string]int),
	}

	for _, step := range stepList {
		id := step.ID.String()
		if _, ex := d.m[id]; ex {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStep, id)
		}
		d.m[id] = step
		d.deg[id] = 0
	}

	for _, step := range stepList {
		id := step.ID.String()
		seen := set.New[string]()
		for _, dep := range step.Deps {
			depID := dep.String()
			if id == depID {
				return nil, fmt.Errorf("%w: %s", ErrSelfDependency, id)
			}
			if _, ex := d.m[depID]; !ex {
				return nil, fmt.Errorf("%w: %s (required by %s)", ErrUnresolvedDependency, depID, id)
			}
			if seen.Has(depID) {
				continue
			}

			seen.Add(depID)
			d.deg[id]++
			d.adj[depID] = append(d.adj[depID], id)
		}
	}

	return d, nil
}

// dag is an internal struct representing a directed acyclic graph
type dag struct {
	m   map[string]steps.Step
	adj map[string][]string
	deg map[string]int
}
