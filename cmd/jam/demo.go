package main

import (
	"encoding/json"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/assets"
	"github.com/jamgo/engine/internal/component"
	"github.com/jamgo/engine/internal/core/event"
	"github.com/jamgo/engine/internal/scene"
	"github.com/jamgo/engine/internal/script"
)

// demo seeds an empty start scene with a camera and a drifting cube, and
// keeps a visit counter in the scene's user data.
type demo struct {
	scripts *script.Registry
	visible int
	Visits  int `json:"visits"`
}

func newDemoScene(name string, am *assets.Manager, scripts *script.Registry, log *zap.Logger) *scene.Scene {
	return scene.New(name, am, &demo{scripts: scripts}, log)
}

func (d *demo) Enter(s *scene.Scene) {
	d.Visits++
	if s.EntityCount() > 0 {
		s.Logger().Info("scene entered", zap.Int("entities", s.EntityCount()), zap.Int("visits", d.Visits))
		return
	}

	cam := s.CreateEntity()
	scene.Add(cam, component.Tag{Name: "Camera"})
	c := component.NewCamera()
	c.Primary = true
	scene.Add(cam, c)
	scene.Get[component.Transform](cam).Position = mgl32.Vec3{0, 2, -8}

	cube := s.CreateEntity()
	scene.Add(cube, component.Tag{Name: "Cube"})
	if d.scripts.IsRegistered("drift") {
		scene.Add(cube, script.New("drift"))
	}
	s.Logger().Info("scene seeded", zap.Int("entities", s.EntityCount()))
}

// FinalUpdate counts the entities whose position lies inside the primary
// camera's frustum.
func (d *demo) FinalUpdate(s *scene.Scene, _ time.Duration) {
	cam, ok := scene.Find(s, func(c *component.Camera) bool { return c.Primary })
	if !ok {
		return
	}
	vp := scene.Get[component.Camera](cam).ViewProjection(*scene.Get[component.Transform](cam))
	visible := 0
	scene.Each(s, func(e scene.Entity, t *component.Transform) {
		if e.Equal(cam) {
			return
		}
		p := vp.Mul4x1(t.Position.Vec4(1))
		w := p.W()
		if w > 0 && mgl32.Abs(p.X()) <= w && mgl32.Abs(p.Y()) <= w && mgl32.Abs(p.Z()) <= w {
			visible++
		}
	})
	if visible != d.visible {
		d.visible = visible
		s.Logger().Debug("visible entities changed", zap.Int("visible", visible))
	}
}

func (d *demo) HandleEvent(s *scene.Scene, ev any) {
	switch e := ev.(type) {
	case event.WindowResized:
		for _, ent := range s.Entities() {
			if c, ok := scene.TryGet[component.Camera](ent); ok {
				c.AspectRatio = float32(e.Width) / float32(e.Height)
			}
		}
	case event.AssetLoaded:
		s.Logger().Debug("asset loaded", zap.String("kind", e.Kind), zap.String("path", e.Path))
	}
}

func (d *demo) MarshalUserData(*scene.Scene) (json.RawMessage, error) {
	return json.Marshal(d)
}

func (d *demo) UnmarshalUserData(_ *scene.Scene, data json.RawMessage) error {
	return json.Unmarshal(data, d)
}
