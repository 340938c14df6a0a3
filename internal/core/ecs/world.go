package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed by the cleanup phase.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

// CreateEntityAt revives a specific handle, see EntityPool.CreateAt.
func (w *World) CreateEntityAt(hint EntityID) (EntityID, bool) {
	return w.pool.CreateAt(hint)
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// DestroyEntity removes id from every store and frees its slot now.
func (w *World) DestroyEntity(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	w.registry.RemoveAll(id)
	return w.pool.Destroy(id)
}

// MarkForDestruction queues an entity for end-of-frame cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestruction reports how many entities are queued.
func (w *World) PendingDestruction() int { return len(w.destroyQueue) }

// FlushDestroyQueue destroys all queued entities and clears their components.
// Stale or duplicate entries are ignored.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if w.DestroyEntity(id) {
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

// Len returns the number of live entities.
func (w *World) Len() int { return w.pool.Len() }

// Entities returns every live entity in ascending index order.
func (w *World) Entities() []EntityID { return w.pool.IDs() }

// Clear drops every entity and component value.
func (w *World) Clear() {
	w.registry.Clear()
	w.pool.Reset()
	w.destroyQueue = w.destroyQueue[:0]
}
