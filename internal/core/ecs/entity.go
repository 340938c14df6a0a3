package ecs

import (
	"slices"

	"github.com/jamgo/engine/internal/core/contract"
)

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale refs.
// Generations start at 1 so the zero value never names a live entity.
type EntityID uint64

// Null is the reserved "no entity" handle.
const Null EntityID = 0

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == Null }

// MaxEntities bounds entity indices. Handles at or above it are never
// allocated or revived.
const MaxEntities = 1 << 20

// EntityPool manages entity allocation with generational indices and a free
// list. Free list entries are checked lazily: a slot revived by CreateAt stays
// listed and is skipped when popped.
type EntityPool struct {
	generations []uint32
	alive       []bool
	freeList    []uint32
	nextIndex   uint32
	count       int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 1024),
		alive:       make([]bool, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

func (p *EntityPool) Create() EntityID {
	for len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		if p.alive[idx] {
			continue
		}
		p.alive[idx] = true
		p.count++
		return NewEntityID(idx, p.generations[idx])
	}
	contract.Assert(p.nextIndex < MaxEntities, "entity pool exhausted at %d entities", MaxEntities)
	idx := p.nextIndex
	p.growTo(idx + 1)
	p.alive[idx] = true
	p.count++
	return NewEntityID(idx, p.generations[idx])
}

// CreateAt revives the exact handle hint. When the slot is already live the
// live handle is returned with created=false.
func (p *EntityPool) CreateAt(hint EntityID) (id EntityID, created bool) {
	contract.Assert(hint.Generation() != 0, "entity hint %d has no generation", uint64(hint))
	idx := hint.Index()
	contract.Assert(idx < MaxEntities, "entity hint index %d out of range", idx)
	if idx >= p.nextIndex {
		first := p.nextIndex
		p.growTo(idx + 1)
		for i := idx; i > first; i-- {
			p.freeList = append(p.freeList, i-1)
		}
	}
	if p.alive[idx] {
		return NewEntityID(idx, p.generations[idx]), false
	}
	p.generations[idx] = hint.Generation()
	p.alive[idx] = true
	p.count++
	return hint, true
}

// growTo extends the pool to n slots in one step. New slots start dead at
// generation 1.
func (p *EntityPool) growTo(n uint32) {
	if n <= p.nextIndex {
		return
	}
	if extra := int(n) - len(p.generations); extra > 0 {
		p.generations = slices.Grow(p.generations, extra)
		p.alive = slices.Grow(p.alive, extra)
		for range extra {
			p.generations = append(p.generations, 1)
		}
		p.alive = append(p.alive, make([]bool, extra)...)
	}
	p.nextIndex = n
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if id.IsZero() || idx >= p.nextIndex {
		return false
	}
	return p.alive[idx] && p.generations[idx] == id.Generation()
}

func (p *EntityPool) Destroy(id EntityID) bool {
	if !p.Alive(id) {
		return false // already destroyed (stale reference)
	}
	p.kill(id.Index())
	p.count--
	return true
}

func (p *EntityPool) kill(idx uint32) {
	p.alive[idx] = false
	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.freeList = append(p.freeList, idx)
}

// Len returns the number of live entities.
func (p *EntityPool) Len() int { return p.count }

// IDs returns every live entity in ascending index order.
func (p *EntityPool) IDs() []EntityID {
	ids := make([]EntityID, 0, p.count)
	for i := uint32(0); i < p.nextIndex; i++ {
		if p.alive[i] {
			ids = append(ids, NewEntityID(i, p.generations[i]))
		}
	}
	return ids
}

// Reset destroys every live entity. Slots keep their generations, so handles
// taken before the reset stay stale.
func (p *EntityPool) Reset() {
	p.freeList = p.freeList[:0]
	for i := p.nextIndex; i > 0; i-- {
		idx := i - 1
		if p.alive[idx] {
			p.kill(idx)
		} else {
			p.freeList = append(p.freeList, idx)
		}
	}
	p.count = 0
}
