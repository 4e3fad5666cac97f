package pipeline

import (
	"sort"
	"sync"

	"github.com/kbukum/onionkit/errors"
)

// Registry provides named stage lookup for label-based composition. A
// label maps to an ordered stage group (a single stage is a group of one).
// Labels are plain names; a group cannot reference another label.
type Registry struct {
	mu     sync.RWMutex
	groups map[string][]Stage
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string][]Stage)}
}

// Register binds label to the given stages, validating each against the
// stage contract. Registering an already-bound label is an error; use
// distinct labels for variants.
func (r *Registry) Register(label string, stages ...any) error {
	if label == "" {
		return errors.Validation("registry label must not be empty")
	}
	if len(stages) == 0 {
		return errors.Validation("registry group must contain at least one stage")
	}

	group := make([]Stage, 0, len(stages))
	for i, v := range stages {
		st, err := asStage(v)
		if err != nil {
			return errors.InvalidStage(i, "in group "+label).WithCause(err)
		}
		group = append(group, st)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.groups[label]; exists {
		return errors.Validation("label " + label + " already registered")
	}
	r.groups[label] = group
	return nil
}

// MustRegister is Register, panicking on error.
func (r *Registry) MustRegister(label string, stages ...any) {
	if err := r.Register(label, stages...); err != nil {
		panic(err)
	}
}

// Get retrieves the stage group bound to label. The returned slice is a
// copy; callers cannot mutate registered groups.
func (r *Registry) Get(label string) ([]Stage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	group, ok := r.groups[label]
	if !ok {
		return nil, false
	}
	out := make([]Stage, len(group))
	copy(out, group)
	return out, true
}

// List returns sorted names of all registered labels.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	labels := make([]string, 0, len(r.groups))
	for label := range r.groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Compose is Compose with label resolution: string elements are replaced
// by their registered groups, flattened in place. An unknown label aborts
// composition with a "label not available" error.
func (r *Registry) Compose(items ...any) (*Chain, error) {
	return compose(r, items)
}
