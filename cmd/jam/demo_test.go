package main

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/assets"
	"github.com/jamgo/engine/internal/component"
	"github.com/jamgo/engine/internal/core/event"
	"github.com/jamgo/engine/internal/scene"
	"github.com/jamgo/engine/internal/script"
)

func newTestDemo(t *testing.T) (*scene.Scene, *demo) {
	t.Helper()
	am := assets.NewManager(t.TempDir(), assets.NewFileImporter(".jmodel"), nil, zap.NewNop())
	s := newDemoScene("demo", am, script.NewRegistry(), zap.NewNop())
	d, ok := s.Behavior().(*demo)
	require.True(t, ok)
	return s, d
}

func TestDemoSeedsEmptyScene(t *testing.T) {
	s, d := newTestDemo(t)
	s.Enter()
	assert.Equal(t, 2, s.EntityCount())
	assert.Equal(t, 1, d.Visits)

	s.Exit()
	s.Enter()
	assert.Equal(t, 2, s.EntityCount())
	assert.Equal(t, 2, d.Visits)
}

func TestDemoCountsVisibleEntities(t *testing.T) {
	s, d := newTestDemo(t)
	s.Enter()

	d.FinalUpdate(s, time.Millisecond)
	assert.Equal(t, 1, d.visible)

	cube, ok := scene.Find(s, func(tag *component.Tag) bool { return tag.Name == "Cube" })
	require.True(t, ok)
	scene.Get[component.Transform](cube).Position = mgl32.Vec3{0, 0, -20}
	d.FinalUpdate(s, time.Millisecond)
	assert.Zero(t, d.visible)
}

func TestDemoResizeUpdatesAspect(t *testing.T) {
	s, d := newTestDemo(t)
	s.Enter()
	d.HandleEvent(s, event.WindowResized{Width: 200, Height: 100})

	cam, ok := scene.Find(s, func(c *component.Camera) bool { return c.Primary })
	require.True(t, ok)
	assert.Equal(t, float32(2), scene.Get[component.Camera](cam).AspectRatio)
}
