package ecs

import (
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Type identifies a component type inside a Registry. Hash is stable across
// runs for the same Go type.
type Type struct {
	Go   reflect.Type
	Name string
	Hash uint64
}

// TypeOf describes T.
func TypeOf[T any]() Type {
	t := reflect.TypeFor[T]()
	name := t.String()
	if t.Name() != "" && t.PkgPath() != "" {
		name = t.PkgPath() + "." + t.Name()
	}
	return Type{Go: t, Name: name, Hash: xxhash.Sum64String(name)}
}

// Cloner is implemented by component values that need a deep copy when an
// entity is cloned.
type Cloner[T any] interface {
	Clone() T
}

// Storage is the type-erased view of a component store, used for bulk removal,
// cloning and serialization where the concrete type is not known.
type Storage interface {
	Type() Type
	Has(id EntityID) bool
	Remove(id EntityID) bool
	Len() int
	IDs() []EntityID
	GetAny(id EntityID) (any, bool)
	// Copy duplicates src's value onto dst. Returns false when src has none.
	Copy(src, dst EntityID) bool
	Clear()
}

// SparseSet stores components of one type densely, indexed by entity slot.
// Pointers returned by Get and Set stay valid until the next Set or Remove.
type SparseSet[T any] struct {
	typ    Type
	sparse []int32 // entity index -> dense position + 1
	dense  []EntityID
	values []T
}

func NewSparseSet[T any]() *SparseSet[T] {
	return &SparseSet[T]{
		typ:    TypeOf[T](),
		dense:  make([]EntityID, 0, 64),
		values: make([]T, 0, 64),
	}
}

func (s *SparseSet[T]) Type() Type { return s.typ }

func (s *SparseSet[T]) pos(id EntityID) (int, bool) {
	idx := id.Index()
	if int(idx) >= len(s.sparse) {
		return 0, false
	}
	p := int(s.sparse[idx]) - 1
	if p < 0 || s.dense[p] != id {
		return 0, false
	}
	return p, true
}

// Set inserts or replaces id's value.
func (s *SparseSet[T]) Set(id EntityID, v T) *T {
	if p, ok := s.pos(id); ok {
		s.values[p] = v
		return &s.values[p]
	}
	idx := int(id.Index())
	if idx >= len(s.sparse) {
		s.sparse = append(s.sparse, make([]int32, idx+1-len(s.sparse))...)
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.sparse[idx] = int32(len(s.dense))
	return &s.values[len(s.values)-1]
}

func (s *SparseSet[T]) Get(id EntityID) (*T, bool) {
	p, ok := s.pos(id)
	if !ok {
		return nil, false
	}
	return &s.values[p], true
}

func (s *SparseSet[T]) GetAny(id EntityID) (any, bool) {
	p, ok := s.Get(id)
	if !ok {
		return nil, false
	}
	return p, true
}

func (s *SparseSet[T]) Has(id EntityID) bool {
	_, ok := s.pos(id)
	return ok
}

// Remove swaps the last element into id's position.
func (s *SparseSet[T]) Remove(id EntityID) bool {
	p, ok := s.pos(id)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	if p != last {
		moved := s.dense[last]
		s.dense[p] = moved
		s.values[p] = s.values[last]
		s.sparse[moved.Index()] = int32(p + 1)
	}
	var zero T
	s.values[last] = zero
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[id.Index()] = 0
	return true
}

func (s *SparseSet[T]) Copy(src, dst EntityID) bool {
	p, ok := s.pos(src)
	if !ok {
		return false
	}
	v := s.values[p]
	if c, ok := any(&v).(Cloner[T]); ok {
		v = c.Clone()
	}
	s.Set(dst, v)
	return true
}

func (s *SparseSet[T]) Len() int { return len(s.dense) }

// IDs returns a copy of the dense entity list.
func (s *SparseSet[T]) IDs() []EntityID {
	out := make([]EntityID, len(s.dense))
	copy(out, s.dense)
	return out
}

// Each visits every stored value. fn must not add or remove components of T.
func (s *SparseSet[T]) Each(fn func(EntityID, *T)) {
	for i := range s.dense {
		fn(s.dense[i], &s.values[i])
	}
}

func (s *SparseSet[T]) Clear() {
	clear(s.values)
	s.sparse = s.sparse[:0]
	s.dense = s.dense[:0]
	s.values = s.values[:0]
}
