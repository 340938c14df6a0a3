package scene

import (
	"fmt"

	"github.com/jamgo/engine/internal/core/contract"
	"github.com/jamgo/engine/internal/core/ecs"
)

// Entity is a weak reference to a row of a scene. Copying an Entity copies
// the reference, not the components. Validity is derived from the scene, so
// a handle goes stale once its entity is destroyed.
type Entity struct {
	scene *Scene
	id    ecs.EntityID
}

// Null is the entity that refers to nothing.
var Null = Entity{}

func (e Entity) ID() ecs.EntityID { return e.id }
func (e Entity) Scene() *Scene    { return e.scene }

func (e Entity) IsValid() bool {
	return e.scene != nil && e.scene.world.Alive(e.id)
}

func (e Entity) Equal(o Entity) bool { return e.scene == o.scene && e.id == o.id }

func (e Entity) String() string {
	return fmt.Sprintf("entity(%d:%d)", e.id.Index(), e.id.Generation())
}

func (e Entity) Clone() Entity {
	contract.Assert(e.scene != nil, "clone of null entity")
	return e.scene.CloneEntity(e)
}

func (e Entity) Destroy() {
	contract.Assert(e.scene != nil, "destroy of null entity")
	e.scene.DestroyEntity(e)
}

func (e Entity) QueueDestroy() {
	contract.Assert(e.scene != nil, "destroy of null entity")
	e.scene.QueueDestroy(e)
}

func mustValid(e Entity) {
	if !e.IsValid() {
		contract.Failf("invalid %s", e)
	}
}

// Storage returns the component store for T in s, creating it on first use.
func Storage[T any](s *Scene) *ecs.SparseSet[T] {
	return ecs.Store[T](s.world.Registry())
}

// Add attaches v to e, replacing any existing value, and returns a pointer to
// the stored component.
func Add[T any](e Entity, v T) *T {
	mustValid(e)
	return Storage[T](e.scene).Set(e.id, v)
}

// Get returns e's component T. Missing components are a contract violation.
func Get[T any](e Entity) *T {
	mustValid(e)
	c, ok := Storage[T](e.scene).Get(e.id)
	if !ok {
		contract.Failf("%s has no %s", e, ecs.TypeOf[T]().Name)
	}
	return c
}

func TryGet[T any](e Entity) (*T, bool) {
	mustValid(e)
	st, ok := ecs.Lookup[T](e.scene.world.Registry())
	if !ok {
		return nil, false
	}
	return st.Get(e.id)
}

func Has[T any](e Entity) bool {
	_, ok := TryGet[T](e)
	return ok
}

// Remove detaches T from e. Missing components are a contract violation.
func Remove[T any](e Entity) {
	mustValid(e)
	if !Storage[T](e.scene).Remove(e.id) {
		contract.Failf("%s has no %s", e, ecs.TypeOf[T]().Name)
	}
}

// Each visits every entity of s that has T.
func Each[T any](s *Scene, fn func(Entity, *T)) {
	st, ok := ecs.Lookup[T](s.world.Registry())
	if !ok {
		return
	}
	st.Each(func(id ecs.EntityID, c *T) { fn(Entity{scene: s, id: id}, c) })
}

// Each2 visits every entity of s that has both A and B.
func Each2[A, B any](s *Scene, fn func(Entity, *A, *B)) {
	sa, ok := ecs.Lookup[A](s.world.Registry())
	if !ok {
		return
	}
	sb, ok := ecs.Lookup[B](s.world.Registry())
	if !ok {
		return
	}
	ecs.Each2(sa, sb, func(id ecs.EntityID, a *A, b *B) { fn(Entity{scene: s, id: id}, a, b) })
}

// Find returns the first entity with T for which match reports true.
func Find[T any](s *Scene, match func(*T) bool) (Entity, bool) {
	found := Null
	Each(s, func(e Entity, c *T) {
		if found.scene == nil && match(c) {
			found = e
		}
	})
	return found, found.scene != nil
}
