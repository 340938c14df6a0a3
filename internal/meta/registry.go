package meta

import (
	"encoding/json"
	"sort"

	"github.com/jamgo/engine/internal/core/contract"
	"github.com/jamgo/engine/internal/editor"
	"github.com/jamgo/engine/internal/scene"
)

// Registry is the component meta table. Populate it once at startup, then
// share it read-only.
type Registry struct {
	byName map[string]*ComponentMeta
	byHash map[uint64]*ComponentMeta
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*ComponentMeta, 16),
		byHash: make(map[uint64]*ComponentMeta, 16),
	}
}

// Register adds m. Empty names, missing core callbacks and duplicate names or
// hashes are contract violations.
func (r *Registry) Register(m ComponentMeta) {
	contract.Assert(m.Name != "", "component meta has no name")
	contract.Assert(m.Create != nil && m.Remove != nil && m.Get != nil && m.Has != nil,
		"component %q is missing create/remove/get/has callbacks", m.Name)
	_, dup := r.byName[m.Name]
	contract.Assert(!dup, "component %q is already registered", m.Name)
	prev, dup := r.byHash[m.Hash]
	contract.Assert(!dup, "component hash %#x of %q is already registered for %q", m.Hash, m.Name, nameOf(prev))

	p := &m
	r.byName[m.Name] = p
	r.byHash[m.Hash] = p
}

func nameOf(m *ComponentMeta) string {
	if m == nil {
		return ""
	}
	return m.Name
}

func (r *Registry) Len() int { return len(r.byName) }

func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.byName[name]
	return ok
}

func (r *Registry) Lookup(name string) (ComponentMeta, bool) {
	m, ok := r.byName[name]
	if !ok {
		return ComponentMeta{}, false
	}
	return *m, true
}

func (r *Registry) LookupByHash(hash uint64) (ComponentMeta, bool) {
	m, ok := r.byHash[hash]
	if !ok {
		return ComponentMeta{}, false
	}
	return *m, true
}

// NameByHash is the reverse lookup used when walking a scene's storages.
func (r *Registry) NameByHash(hash uint64) string {
	m, ok := r.byHash[hash]
	contract.Assert(ok, "component hash %#x is not registered", hash)
	return m.Name
}

// Metas returns every meta sorted by name.
func (r *Registry) Metas() []ComponentMeta {
	out := make([]ComponentMeta, 0, len(r.byName))
	for _, m := range r.byName {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) must(name string) *ComponentMeta {
	m, ok := r.byName[name]
	contract.Assert(ok, "component %q is not registered", name)
	return m
}

func (r *Registry) mustOwner(name string, owner scene.Entity) *ComponentMeta {
	m := r.must(name)
	contract.Assert(owner.IsValid(), "component %q: owner %s is not valid", name, owner)
	return m
}

func (r *Registry) CreateComponent(name string, owner scene.Entity) any {
	return r.mustOwner(name, owner).Create(owner)
}

func (r *Registry) RemoveComponent(name string, owner scene.Entity) {
	r.mustOwner(name, owner).Remove(owner)
}

func (r *Registry) GetComponentOrNull(name string, owner scene.Entity) any {
	return r.mustOwner(name, owner).Get(owner)
}

func (r *Registry) HasComponent(name string, owner scene.Entity) bool {
	return r.mustOwner(name, owner).Has(owner)
}

func (r *Registry) CanSerialize(name string) bool   { return r.must(name).Serialize != nil }
func (r *Registry) CanDeserialize(name string) bool { return r.must(name).Deserialize != nil }
func (r *Registry) CanDrawEditor(name string) bool  { return r.must(name).DrawEditor != nil }

// SerializeComponent encodes v, a pointer returned by Create or Get.
func (r *Registry) SerializeComponent(name string, v any) (json.RawMessage, error) {
	m := r.must(name)
	contract.Assert(m.Serialize != nil, "component %q cannot be serialized", name)
	contract.Assert(v != nil, "component %q: nil value", name)
	return m.Serialize(v)
}

func (r *Registry) DeserializeComponent(name string, data json.RawMessage, owner scene.Entity, v any) error {
	m := r.mustOwner(name, owner)
	contract.Assert(m.Deserialize != nil, "component %q cannot be deserialized", name)
	contract.Assert(v != nil, "component %q: nil value", name)
	return m.Deserialize(data, owner, v)
}

func (r *Registry) DrawComponentEditor(name string, ctx editor.Context, v any) bool {
	m := r.must(name)
	contract.Assert(m.DrawEditor != nil, "component %q has no editor", name)
	contract.Assert(v != nil, "component %q: nil value", name)
	return m.DrawEditor(ctx, v)
}
