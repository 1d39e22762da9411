// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"errors"
	"iter"

	"github.com/bakehouse/bake/pkg/types"
)

type (
	// Action is a target body. It returns whether the target succeeded.
	Action func() bool

	// Target is a registered, named build step.
	Target struct {
		Name        types.TargetName
		Description types.DescriptionText
		Action      Action
	}

	// Registry holds targets in registration order. Names are unique.
	// It is populated during script initialization and read-only afterwards,
	// so it does no locking.
	Registry struct {
		targets []*Target
		index   map[types.TargetName]int
	}
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[types.TargetName]int)}
}

// Register adds t. It fails with *InvalidTargetError when the name or action
// is unusable and with *DuplicateTargetError when the name is taken; on
// failure the registry is unchanged.
func (r *Registry) Register(t Target) error {
	if ok, errs := t.Name.IsValid(); !ok {
		return &InvalidTargetError{Name: t.Name, Err: errors.Join(errs...)}
	}
	if t.Action == nil {
		return &InvalidTargetError{Name: t.Name, Reason: "action must not be nil"}
	}
	if _, exists := r.index[t.Name]; exists {
		return &DuplicateTargetError{Name: t.Name}
	}

	t.Description = types.NormalizeDescription(string(t.Description))
	r.index[t.Name] = len(r.targets)
	r.targets = append(r.targets, &t)
	return nil
}

// Lookup returns the target registered under name or *UnknownTargetError.
func (r *Registry) Lookup(name types.TargetName) (*Target, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, &UnknownTargetError{Name: name}
	}
	return r.targets[i], nil
}

// All yields every target in registration order. The sequence can be
// ranged over any number of times.
func (r *Registry) All() iter.Seq[*Target] {
	return func(yield func(*Target) bool) {
		for _, t := range r.targets {
			if !yield(t) {
				return
			}
		}
	}
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	return len(r.targets)
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []types.TargetName {
	names := make([]types.TargetName, 0, len(r.targets))
	for t := range r.All() {
		names = append(names, t.Name)
	}
	return names
}
