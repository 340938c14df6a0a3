package script

import (
	"time"

	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/core/system"
	"github.com/jamgo/engine/internal/scene"
)

// System instantiates, starts and updates the scripts of one scene.
type System struct {
	scene   *scene.Scene
	scripts *Registry
	log     *zap.Logger
}

// Attach registers a script system on s.
func Attach(s *scene.Scene, scripts *Registry, log *zap.Logger) *System {
	sys := &System{scene: s, scripts: scripts, log: log}
	s.Systems().Register(sys)
	return sys
}

func (s *System) Phase() system.Phase { return system.PhaseUpdate }

func (s *System) Update(dt time.Duration) {
	// Scripts may add or remove components, so iterate a snapshot.
	for _, id := range scene.Storage[Component](s.scene).IDs() {
		e := s.scene.GetEntity(id)
		if !e.IsValid() {
			continue
		}
		c, ok := scene.TryGet[Component](e)
		if !ok || c.stopped {
			continue
		}
		if c.Instance == nil {
			if c.Name == "" {
				continue
			}
			if !s.scripts.IsRegistered(c.Name) {
				s.log.Warn("script not registered, stopping", zap.String("script", c.Name), zap.Stringer("entity", e))
				c.Stop()
				continue
			}
			c.Instance = s.scripts.Create(c.Name, e)
		}
		if !c.started {
			c.started = true
			c.Instance.OnStart(e)
			if !e.IsValid() {
				continue
			}
			if c, ok = scene.TryGet[Component](e); !ok || c.Instance == nil || c.stopped {
				continue
			}
		}
		c.Instance.OnUpdate(e, dt)
	}
}
