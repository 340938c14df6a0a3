// Package script runs per-entity behavior attached through a Component.
package script

import (
	"sort"
	"time"

	"github.com/jamgo/engine/internal/core/contract"
	"github.com/jamgo/engine/internal/scene"
)

// Script is per-entity behavior. OnStart runs once before the first OnUpdate,
// and again after the script is stopped and restarted.
type Script interface {
	OnStart(self scene.Entity)
	OnUpdate(self scene.Entity, dt time.Duration)
}

// Factory creates a script instance bound to owner.
type Factory func(owner scene.Entity) Script

type Meta struct {
	Name   string
	Create Factory
}

// Registry maps script names to factories.
type Registry struct {
	metas map[string]Meta
}

func NewRegistry() *Registry {
	return &Registry{metas: make(map[string]Meta, 16)}
}

func (r *Registry) Register(m Meta) {
	contract.Assert(m.Name != "", "script meta has no name")
	contract.Assert(m.Create != nil, "script %q has no factory", m.Name)
	_, dup := r.metas[m.Name]
	contract.Assert(!dup, "script %q is already registered", m.Name)
	r.metas[m.Name] = m
}

func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.metas[name]
	return ok
}

// Create instantiates a registered script. Unknown names and invalid owners
// are contract violations.
func (r *Registry) Create(name string, owner scene.Entity) Script {
	contract.Assert(owner.IsValid(), "script %q: owner %s is not valid", name, owner)
	m, ok := r.metas[name]
	contract.Assert(ok, "script %q is not registered", name)
	return m.Create(owner)
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.metas))
	for name := range r.metas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Len() int { return len(r.metas) }
