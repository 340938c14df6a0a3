package ecs

import (
	"reflect"
	"sort"
)

// Registry tracks all component stores of a world and supports bulk cleanup on
// entity destroy. Stores are created lazily per component type.
type Registry struct {
	stores map[reflect.Type]Storage
	byHash map[uint64]Storage
	order  []Storage
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[reflect.Type]Storage, 16),
		byHash: make(map[uint64]Storage, 16),
		order:  make([]Storage, 0, 16),
	}
}

// Register adds a component store to the registry. A store for the same type
// registered earlier is returned instead.
func (r *Registry) Register(store Storage) Storage {
	t := store.Type()
	if s, ok := r.stores[t.Go]; ok {
		return s
	}
	r.stores[t.Go] = store
	r.byHash[t.Hash] = store
	r.order = append(r.order, store)
	return store
}

// Store returns the store for T, creating it on first use.
func Store[T any](r *Registry) *SparseSet[T] {
	if s, ok := r.stores[reflect.TypeFor[T]()]; ok {
		return s.(*SparseSet[T])
	}
	return r.Register(NewSparseSet[T]()).(*SparseSet[T])
}

// Lookup returns the store for T without creating it.
func Lookup[T any](r *Registry) (*SparseSet[T], bool) {
	s, ok := r.stores[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return s.(*SparseSet[T]), true
}

// ByHash finds a store by its type hash.
func (r *Registry) ByHash(hash uint64) (Storage, bool) {
	s, ok := r.byHash[hash]
	return s, ok
}

// Storages returns every store ordered by type name.
func (r *Registry) Storages() []Storage {
	out := make([]Storage, len(r.order))
	copy(out, r.order)
	sort.Slice(out, func(i, j int) bool { return out[i].Type().Name < out[j].Type().Name })
	return out
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.order {
		s.Remove(id)
	}
}

// Clear empties every store. The stores stay registered.
func (r *Registry) Clear() {
	for _, s := range r.order {
		s.Clear()
	}
}
