package app

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/core/contract"
	"github.com/jamgo/engine/internal/core/event"
	"github.com/jamgo/engine/internal/core/system"
	"github.com/jamgo/engine/internal/scene"
	"github.com/jamgo/engine/internal/script"
	"github.com/jamgo/engine/internal/serializer"
)

const SceneLayerName = "scene"

// SceneLayer holds named scenes and runs the active one. Scene switches are
// deferred to the application command queue so the active scene never
// changes in the middle of an update or render pass.
type SceneLayer struct {
	BaseLayer
	app        *Application
	serializer *serializer.Serializer
	scripts    *script.Registry
	dir        string
	scenes     map[string]*scene.Scene
	active     *scene.Scene
	log        *zap.Logger
}

// NewSceneLayer creates a scene layer that loads scene files from dir.
// scripts may be nil when scripting is disabled.
func NewSceneLayer(z *serializer.Serializer, scripts *script.Registry, dir string, log *zap.Logger) *SceneLayer {
	return &SceneLayer{
		serializer: z,
		scripts:    scripts,
		dir:        dir,
		scenes:     make(map[string]*scene.Scene),
		log:        log,
	}
}

func (l *SceneLayer) Name() string { return SceneLayerName }

func (l *SceneLayer) Attach(a *Application) { l.app = a }

// Detach exits the active scene and detaches every scene.
func (l *SceneLayer) Detach() {
	if l.active != nil {
		l.active.Exit()
		l.active = nil
	}
	for _, name := range l.Scenes() {
		l.scenes[name].Detach()
	}
	clear(l.scenes)
	l.app = nil
}

// AddScene registers s under its name and attaches it.
func (l *SceneLayer) AddScene(s *scene.Scene) *scene.Scene {
	contract.Assert(s != nil, "nil scene added")
	_, dup := l.scenes[s.Name()]
	contract.Assert(!dup, "scene %q already exists", s.Name())
	l.scenes[s.Name()] = s
	if l.scripts != nil {
		script.Attach(s, l.scripts, l.log)
	}
	s.Attach()
	l.log.Debug("scene added", zap.String("scene", s.Name()))
	return s
}

// RemoveScene detaches and drops the named scene. Removing the active scene
// exits it first and leaves no scene active.
func (l *SceneLayer) RemoveScene(name string) {
	s := l.Scene(name)
	if s == l.active {
		s.Exit()
		l.active = nil
	}
	s.Detach()
	delete(l.scenes, name)
	l.log.Debug("scene removed", zap.String("scene", name))
}

// Scene returns the named scene, which must exist.
func (l *SceneLayer) Scene(name string) *scene.Scene {
	s, ok := l.scenes[name]
	contract.Assert(ok, "scene %q does not exist", name)
	return s
}

// Lookup returns the named scene if it exists.
func (l *SceneLayer) Lookup(name string) (*scene.Scene, bool) {
	s, ok := l.scenes[name]
	return s, ok
}

// Scenes returns every scene name, sorted.
func (l *SceneLayer) Scenes() []string {
	names := make([]string, 0, len(l.scenes))
	for name := range l.scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ActiveScene returns the running scene, which must be set.
func (l *SceneLayer) ActiveScene() *scene.Scene {
	contract.Assert(l.active != nil, "no active scene")
	return l.active
}

// HasActiveScene reports whether a scene switch has been applied.
func (l *SceneLayer) HasActiveScene() bool { return l.active != nil }

// ChangeScene requests a switch to the named scene. The switch is applied at
// the next command queue drain.
func (l *SceneLayer) ChangeScene(name string) {
	s := l.Scene(name)
	contract.Assert(l.app != nil, "scene layer is not attached")
	l.app.Submit(func() { l.apply(s) })
}

// SceneFile returns the path the named scene is loaded from and saved to.
func (l *SceneLayer) SceneFile(name string) string {
	return l.serializer.ScenePath(l.dir, name)
}

// SaveScene writes the named scene to its scene file.
func (l *SceneLayer) SaveScene(name string) error {
	return l.serializer.SaveScene(l.Scene(name), l.SceneFile(name))
}

func (l *SceneLayer) apply(s *scene.Scene) {
	if s == l.active {
		return
	}
	// The scene may have been removed after the switch was requested.
	if cur, ok := l.scenes[s.Name()]; !ok || cur != s {
		l.log.Warn("scene removed before switch", zap.String("scene", s.Name()))
		return
	}
	from := ""
	if l.active != nil {
		from = l.active.Name()
		l.active.Exit()
	}
	l.active = s
	if _, err := l.serializer.LoadScene(l.app.Context(), s, l.SceneFile(s.Name())); err != nil {
		l.log.Error("load scene", zap.String("scene", s.Name()), zap.Error(err))
	}
	s.Enter()
	event.Emit(l.app.Bus(), event.SceneChanged{From: from, To: s.Name()})
	l.log.Info("scene changed", zap.String("from", from), zap.String("to", s.Name()))
}

func (l *SceneLayer) Update(dt time.Duration) {
	if l.active == nil {
		return
	}
	l.active.TickPhase(system.PhasePreUpdate, dt)
	l.active.Update(dt)
	l.active.TickPhase(system.PhaseUpdate, dt)
}

func (l *SceneLayer) FinalUpdate(dt time.Duration) {
	if l.active == nil {
		return
	}
	l.active.FinalUpdate(dt)
	l.active.TickPhase(system.PhaseFinalUpdate, dt)
	l.active.TickPhase(system.PhaseCleanup, dt)
}

func (l *SceneLayer) BeginRender() {
	if l.active != nil {
		l.active.BeginRender()
	}
}

func (l *SceneLayer) Render() {
	if l.active != nil {
		l.active.Render()
		l.active.RenderUI()
	}
}

func (l *SceneLayer) EndRender() {
	if l.active != nil {
		l.active.EndRender()
	}
}

func (l *SceneLayer) HandleEvent(ev any) {
	if l.active != nil {
		l.active.HandleEvent(ev)
	}
}
