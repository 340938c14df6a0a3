// Package scene holds entities, their components and the assets they use.
package scene

import (
	"time"

	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/assets"
	"github.com/jamgo/engine/internal/component"
	"github.com/jamgo/engine/internal/core/contract"
	"github.com/jamgo/engine/internal/core/ecs"
	"github.com/jamgo/engine/internal/core/system"
)

// Scene owns an ECS world, a per-scene asset manager and the systems that run
// over them each frame. Not safe for concurrent use.
type Scene struct {
	name     string
	world    *ecs.World
	assets   *assets.Manager
	systems  *system.Runner
	behavior any
	log      *zap.Logger
}

// New creates an empty scene. behavior may implement any of the hook
// interfaces in this package, or be nil.
func New(name string, am *assets.Manager, behavior any, log *zap.Logger) *Scene {
	contract.Assert(name != "", "scene name is empty")
	contract.Assert(am != nil, "scene %q has no asset manager", name)
	s := &Scene{
		name:     name,
		world:    ecs.NewWorld(),
		assets:   am,
		systems:  system.NewRunner(),
		behavior: behavior,
		log:      log.With(zap.String("scene", name)),
	}
	s.systems.Register(&cleanupSystem{scene: s})
	return s
}

func (s *Scene) Name() string            { return s.name }
func (s *Scene) Assets() *assets.Manager { return s.assets }
func (s *Scene) Systems() *system.Runner { return s.systems }
func (s *Scene) Registry() *ecs.Registry { return s.world.Registry() }
func (s *Scene) Behavior() any           { return s.behavior }
func (s *Scene) Logger() *zap.Logger     { return s.log }
func (s *Scene) EntityCount() int        { return s.world.Len() }
func (s *Scene) Storages() []ecs.Storage { return s.world.Registry().Storages() }

// Alive reports whether id names a live entity of this scene.
func (s *Scene) Alive(id ecs.EntityID) bool { return s.world.Alive(id) }

// TickPhase runs the scene systems registered for phase.
func (s *Scene) TickPhase(phase system.Phase, dt time.Duration) {
	s.systems.TickPhase(phase, dt)
}

// CreateEntity allocates an entity with a default Transform.
func (s *Scene) CreateEntity() Entity {
	e := Entity{scene: s, id: s.world.CreateEntity()}
	Add(e, component.NewTransform())
	return e
}

// CreateEntityWithHint recreates a specific entity id. If the slot is already
// live the existing entity is returned unchanged.
func (s *Scene) CreateEntityWithHint(id ecs.EntityID) Entity {
	got, created := s.world.CreateEntityAt(id)
	e := Entity{scene: s, id: got}
	if created {
		Add(e, component.NewTransform())
	}
	return e
}

// GetEntity returns the entity for id, or the null entity when id is not live.
func (s *Scene) GetEntity(id ecs.EntityID) Entity {
	if !s.world.Alive(id) {
		return Entity{}
	}
	return Entity{scene: s, id: id}
}

// Entities returns every live entity in ascending id index order.
func (s *Scene) Entities() []Entity {
	ids := s.world.Entities()
	out := make([]Entity, len(ids))
	for i, id := range ids {
		out[i] = Entity{scene: s, id: id}
	}
	return out
}

// CloneEntity creates a new entity and copies every component of src onto it,
// except components the new entity already has (its default Transform).
func (s *Scene) CloneEntity(src Entity) Entity {
	s.mustOwn(src)
	dst := s.CreateEntity()
	for _, st := range s.world.Registry().Storages() {
		if !st.Has(dst.id) {
			st.Copy(src.id, dst.id)
		}
	}
	return dst
}

// DestroyEntity removes e from every storage immediately. Outstanding handles
// to e become invalid.
func (s *Scene) DestroyEntity(e Entity) {
	s.mustOwn(e)
	s.world.DestroyEntity(e.id)
}

// QueueDestroy defers destruction to the cleanup phase of the current frame.
func (s *Scene) QueueDestroy(e Entity) {
	s.mustOwn(e)
	s.world.MarkForDestruction(e.id)
}

// ClearEntities drops every entity and component.
func (s *Scene) ClearEntities() {
	s.world.Clear()
}

// Clear drops every entity, component and asset.
func (s *Scene) Clear() {
	s.ClearEntities()
	s.assets.ClearAll()
}

func (s *Scene) mustOwn(e Entity) {
	contract.Assert(e.IsValid(), "invalid entity %d", uint64(e.id))
	contract.Assert(e.scene == s, "entity %d belongs to scene %q, not %q", uint64(e.id), e.scene.name, s.name)
}

type cleanupSystem struct {
	scene *Scene
}

func (c *cleanupSystem) Phase() system.Phase { return system.PhaseCleanup }

func (c *cleanupSystem) Update(_ time.Duration) {
	if c.scene.world.PendingDestruction() == 0 {
		return
	}
	n := c.scene.world.FlushDestroyQueue()
	c.scene.log.Debug("destroyed queued entities", zap.Int("count", n))
}
