package ecs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct{ X, Y float32 }

type tags struct{ Names []string }

func (t tags) Clone() tags {
	return tags{Names: append([]string(nil), t.Names...)}
}

func TestPoolGenerationInvalidatesStaleHandles(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	assert.False(t, a.IsZero())
	assert.Equal(t, uint32(1), a.Generation())
	require.True(t, p.Alive(a))

	require.True(t, p.Destroy(a))
	assert.False(t, p.Alive(a))
	assert.False(t, p.Destroy(a))

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index())
	assert.NotEqual(t, a, b)
	assert.True(t, p.Alive(b))
	assert.False(t, p.Alive(a))
	assert.False(t, p.Alive(Null))
}

func TestPoolCreateAt(t *testing.T) {
	p := NewEntityPool()
	hint := NewEntityID(5, 3)

	id, created := p.CreateAt(hint)
	require.True(t, created)
	assert.Equal(t, hint, id)
	assert.Equal(t, 1, p.Len())

	again, created := p.CreateAt(hint)
	assert.False(t, created)
	assert.Equal(t, hint, again)

	// skipped slots are reusable
	seen := map[uint32]bool{}
	for i := 0; i < 5; i++ {
		seen[p.Create().Index()] = true
	}
	assert.Len(t, seen, 5)
	assert.False(t, seen[5])
	assert.Equal(t, []EntityID{NewEntityID(0, 1), NewEntityID(1, 1)}, p.IDs()[:2])
}

func TestPoolCreateAtRejectsNull(t *testing.T) {
	assert.Panics(t, func() { NewEntityPool().CreateAt(Null) })
}

func TestPoolCreateAtGrowsInOneStep(t *testing.T) {
	p := NewEntityPool()
	hint := NewEntityID(MaxEntities-1, 2)
	id, created := p.CreateAt(hint)
	require.True(t, created)
	assert.Equal(t, hint, id)
	assert.Equal(t, []EntityID{hint}, p.IDs())

	// lowest skipped slot is handed out first
	assert.Equal(t, NewEntityID(0, 1), p.Create())

	assert.Panics(t, func() { p.CreateAt(NewEntityID(MaxEntities, 1)) })
	assert.Panics(t, func() { p.CreateAt(NewEntityID(math.MaxUint32, 1)) })
}

func TestPoolResetKeepsHandlesStale(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	b := p.Create()
	require.True(t, p.Destroy(b))
	p.Reset()
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Alive(a))

	c := p.Create()
	assert.Equal(t, a.Index(), c.Index())
	assert.NotEqual(t, a, c)
	assert.False(t, p.Alive(a))

	d := p.Create()
	assert.Equal(t, b.Index(), d.Index())
	assert.NotEqual(t, b, d)
	assert.Equal(t, 2, p.Len())

	// hinted slots are revived and then skipped by Create
	p.Reset()
	revived, created := p.CreateAt(c)
	require.True(t, created)
	assert.Equal(t, c, revived)
	_, created = p.CreateAt(NewEntityID(1, 9))
	require.True(t, created)
	assert.Equal(t, uint32(2), p.Create().Index())
	assert.Equal(t, 3, p.Len())
}

func TestSparseSetSwapRemove(t *testing.T) {
	s := NewSparseSet[position]()
	a, b, c := NewEntityID(0, 1), NewEntityID(1, 1), NewEntityID(2, 1)
	s.Set(a, position{1, 1})
	s.Set(b, position{2, 2})
	s.Set(c, position{3, 3})

	require.True(t, s.Remove(a))
	assert.False(t, s.Has(a))
	assert.Equal(t, 2, s.Len())
	got, ok := s.Get(c)
	require.True(t, ok)
	assert.Equal(t, position{3, 3}, *got)
	assert.False(t, s.Remove(a))

	// stale generation is not found
	assert.False(t, s.Has(NewEntityID(1, 2)))
}

func TestSparseSetCopyUsesClone(t *testing.T) {
	s := NewSparseSet[tags]()
	src, dst := NewEntityID(0, 1), NewEntityID(1, 1)
	s.Set(src, tags{Names: []string{"a"}})

	require.True(t, s.Copy(src, dst))
	v, _ := s.Get(dst)
	v.Names[0] = "b"
	orig, _ := s.Get(src)
	assert.Equal(t, "a", orig.Names[0])
	assert.False(t, s.Copy(NewEntityID(9, 1), dst))
}

func TestTypeOfIsStable(t *testing.T) {
	a, b := TypeOf[position](), TypeOf[position]()
	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, TypeOf[tags]().Hash)
	assert.Contains(t, a.Name, "ecs.position")
}

func TestWorldDestroy(t *testing.T) {
	w := NewWorld()
	pos := Store[position](w.Registry())
	e := w.CreateEntity()
	pos.Set(e, position{})

	w.MarkForDestruction(e)
	w.MarkForDestruction(e)
	assert.True(t, w.Alive(e))
	assert.Equal(t, 1, w.FlushDestroyQueue())
	assert.False(t, w.Alive(e))
	assert.Equal(t, 0, pos.Len())
	assert.Equal(t, 0, w.PendingDestruction())
}

func TestRegistryByHashAndClear(t *testing.T) {
	w := NewWorld()
	pos := Store[position](w.Registry())
	assert.Same(t, pos, Store[position](w.Registry()))
	_, ok := Lookup[tags](w.Registry())
	assert.False(t, ok)

	s, ok := w.Registry().ByHash(TypeOf[position]().Hash)
	require.True(t, ok)
	assert.Same(t, pos, s)

	pos.Set(w.CreateEntity(), position{})
	w.Clear()
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 0, pos.Len())
}

func TestEach2VisitsIntersection(t *testing.T) {
	w := NewWorld()
	pos := Store[position](w.Registry())
	tg := Store[tags](w.Registry())
	a, b, c := w.CreateEntity(), w.CreateEntity(), w.CreateEntity()
	pos.Set(a, position{})
	pos.Set(b, position{})
	pos.Set(c, position{})
	tg.Set(b, tags{})

	var got []EntityID
	Each2(pos, tg, func(id EntityID, _ *position, _ *tags) { got = append(got, id) })
	assert.Equal(t, []EntityID{b}, got)
}
