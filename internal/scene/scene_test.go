package scene

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/assets"
	"github.com/jamgo/engine/internal/component"
	"github.com/jamgo/engine/internal/core/ecs"
	"github.com/jamgo/engine/internal/core/system"
)

type health struct{ HP int }

type inventory struct{ Items []string }

func (i inventory) Clone() inventory {
	return inventory{Items: append([]string(nil), i.Items...)}
}

func newScene(t *testing.T, behavior any) *Scene {
	t.Helper()
	am := assets.NewManager(t.TempDir(), assets.NewFileImporter(".jmodel"), nil, zap.NewNop())
	return New("test", am, behavior, zap.NewNop())
}

func TestCreateEntityHasDefaultTransform(t *testing.T) {
	s := newScene(t, nil)
	e := s.CreateEntity()
	require.True(t, e.IsValid())
	tr := Get[component.Transform](e)
	assert.True(t, tr.Equal(component.NewTransform()))
	assert.Equal(t, 1, s.EntityCount())
}

func TestAccessorsPanicOnInvalidEntity(t *testing.T) {
	s := newScene(t, nil)
	e := s.CreateEntity()
	s.DestroyEntity(e)

	assert.False(t, e.IsValid())
	assert.False(t, Null.IsValid())
	assert.Panics(t, func() { Get[component.Transform](e) })
	assert.Panics(t, func() { Add(e, health{}) })
	assert.Panics(t, func() { Has[health](e) })
	assert.Panics(t, func() { s.DestroyEntity(e) })
	assert.Panics(t, func() { Null.Clone() })
}

func TestGetAndRemoveMissingPanic(t *testing.T) {
	s := newScene(t, nil)
	e := s.CreateEntity()
	assert.Panics(t, func() { Get[health](e) })
	assert.Panics(t, func() { Remove[health](e) })

	_, ok := TryGet[health](e)
	assert.False(t, ok)
	Add(e, health{HP: 3})
	assert.True(t, Has[health](e))
	Remove[health](e)
	assert.False(t, Has[health](e))
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	s := newScene(t, nil)
	old := s.CreateEntity()
	old.Destroy()
	fresh := s.CreateEntity()

	assert.Equal(t, old.ID().Index(), fresh.ID().Index())
	assert.False(t, old.IsValid())
	assert.True(t, fresh.IsValid())
	assert.False(t, old.Equal(fresh))
	assert.False(t, s.GetEntity(old.ID()).IsValid())
}

func TestCloneCopiesAllButExistingComponents(t *testing.T) {
	s := newScene(t, nil)
	src := s.CreateEntity()
	Get[component.Transform](src).Position = mgl32.Vec3{4, 5, 6}
	Add(src, component.Tag{Name: "Player"})
	Add(src, health{HP: 10})
	Add(src, inventory{Items: []string{"sword"}})

	dst := src.Clone()
	require.True(t, dst.IsValid())
	assert.NotEqual(t, src.ID(), dst.ID())
	assert.Equal(t, "Player", Get[component.Tag](dst).Name)
	assert.Equal(t, 10, Get[health](dst).HP)

	// the freshly created transform is kept
	assert.True(t, Get[component.Transform](dst).Equal(component.NewTransform()))

	// Cloner values are deep copied
	Get[inventory](dst).Items[0] = "shield"
	assert.Equal(t, "sword", Get[inventory](src).Items[0])
}

func TestCreateEntityWithHint(t *testing.T) {
	s := newScene(t, nil)
	id := ecs.NewEntityID(7, 2)
	e := s.CreateEntityWithHint(id)
	assert.Equal(t, id, e.ID())
	assert.True(t, Has[component.Transform](e))

	Get[component.Transform](e).Position = mgl32.Vec3{1, 0, 0}
	again := s.CreateEntityWithHint(id)
	assert.True(t, again.Equal(e))
	assert.Equal(t, float32(1), Get[component.Transform](again).Position.X())
}

func TestQueueDestroyRunsInCleanupPhase(t *testing.T) {
	s := newScene(t, nil)
	e := s.CreateEntity()
	e.QueueDestroy()
	s.TickPhase(system.PhaseUpdate, time.Millisecond)
	assert.True(t, e.IsValid())
	s.TickPhase(system.PhaseCleanup, time.Millisecond)
	assert.False(t, e.IsValid())
}

func TestClearDropsEntitiesAndAssets(t *testing.T) {
	s := newScene(t, nil)
	s.CreateEntity()
	s.CreateEntity()
	s.Clear()
	assert.Equal(t, 0, s.EntityCount())
	assert.Empty(t, s.Entities())
	assert.Equal(t, 0, s.Assets().Total())
}

func TestHandleHeldAcrossClearIsStale(t *testing.T) {
	s := newScene(t, nil)
	old := s.CreateEntity()
	Add(old, component.Tag{Name: "old"})
	s.ClearEntities()
	assert.False(t, old.IsValid())

	fresh := s.CreateEntity()
	assert.Equal(t, old.ID().Index(), fresh.ID().Index())
	assert.False(t, fresh.Equal(old))
	assert.False(t, old.IsValid())
	assert.False(t, Has[component.Tag](fresh))

	// hinted recreation still revives the exact handle
	s.Clear()
	again := s.CreateEntityWithHint(old.ID())
	assert.Equal(t, old.ID(), again.ID())
	assert.False(t, fresh.IsValid())
}

func TestGetMissingComponentPanics(t *testing.T) {
	s := newScene(t, nil)
	e := s.CreateEntity()
	assert.Panics(t, func() { Get[component.Tag](e) })
	assert.Panics(t, func() { Remove[component.Tag](e) })
	e.Destroy()
	assert.Panics(t, func() { Add(e, component.Tag{}) })
}

func TestEachAndFind(t *testing.T) {
	s := newScene(t, nil)
	a := s.CreateEntity()
	b := s.CreateEntity()
	Add(a, component.Tag{Name: "a"})
	Add(b, component.Tag{Name: "b"})
	Add(b, health{HP: 1})

	n := 0
	Each2(s, func(e Entity, _ *component.Tag, h *health) {
		n++
		assert.True(t, e.Equal(b))
	})
	assert.Equal(t, 1, n)

	found, ok := Find(s, func(tag *component.Tag) bool { return tag.Name == "a" })
	require.True(t, ok)
	assert.True(t, found.Equal(a))
	_, ok = Find(s, func(tag *component.Tag) bool { return tag.Name == "z" })
	assert.False(t, ok)
}

type recorder struct {
	calls []string
	data  json.RawMessage
}

func (r *recorder) Enter(*Scene)                     { r.calls = append(r.calls, "enter") }
func (r *recorder) Exit(*Scene)                      { r.calls = append(r.calls, "exit") }
func (r *recorder) Update(_ *Scene, _ time.Duration) { r.calls = append(r.calls, "update") }
func (r *recorder) HandleEvent(_ *Scene, ev any)     { r.calls = append(r.calls, ev.(string)) }
func (r *recorder) MarshalUserData(*Scene) (json.RawMessage, error) {
	return json.RawMessage(`{"k":1}`), nil
}
func (r *recorder) UnmarshalUserData(_ *Scene, data json.RawMessage) error {
	r.data = data
	return nil
}

func TestBehaviorHooksAreOptional(t *testing.T) {
	r := &recorder{}
	s := newScene(t, r)
	s.Enter()
	s.Update(time.Millisecond)
	s.FinalUpdate(time.Millisecond)
	s.Render()
	s.HandleEvent("ping")
	s.Exit()
	assert.Equal(t, []string{"enter", "update", "ping", "exit"}, r.calls)

	data, err := s.MarshalUserData()
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":1}`, string(data))
	require.NoError(t, s.UnmarshalUserData(json.RawMessage(`{}`)))
	assert.Equal(t, json.RawMessage(`{}`), r.data)

	plain := newScene(t, nil)
	assert.NotPanics(t, func() { plain.Enter(); plain.Render() })
	data, err = plain.MarshalUserData()
	assert.NoError(t, err)
	assert.Nil(t, data)
}
