package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/assets"
	"github.com/jamgo/engine/internal/component"
	"github.com/jamgo/engine/internal/core/system"
	"github.com/jamgo/engine/internal/scene"
	"github.com/jamgo/engine/internal/script"
)

const mover = `
local Mover = {}

function Mover.on_start(self)
  self.ticks = 0
  jam.set_position(self.entity, 0, 1, 0)
end

function Mover.on_update(self, dt)
  self.ticks = self.ticks + 1
  jam.translate(self.entity, 2)
  if jam.tag(self.entity) == "Player" then
    jam.translate(self.entity, 0, 0, self.ticks)
  end
end

return Mover
`

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newScene(t *testing.T, scripts *script.Registry) *scene.Scene {
	t.Helper()
	am := assets.NewManager(t.TempDir(), assets.NewFileImporter(".jmodel"), nil, zap.NewNop())
	s := scene.New("lua", am, nil, zap.NewNop())
	script.Attach(s, scripts, zap.NewNop())
	return s
}

func TestLuaScriptDrivesTransform(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "mover.lua", mover)
	writeScript(t, dir, "notes.txt", "ignored")

	eng, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer eng.Close()
	assert.Equal(t, []string{"mover"}, eng.Names())

	reg := script.NewRegistry()
	eng.Register(reg)
	require.True(t, reg.IsRegistered("mover"))

	s := newScene(t, reg)
	e := s.CreateEntity()
	scene.Add(e, component.Tag{Name: "Player"})
	scene.Add(e, script.New("mover"))

	s.TickPhase(system.PhaseUpdate, 16*time.Millisecond)
	s.TickPhase(system.PhaseUpdate, 16*time.Millisecond)

	p := scene.Get[component.Transform](e).Position
	assert.InDelta(t, 4, p.X(), 1e-6)
	assert.InDelta(t, 1, p.Y(), 1e-6)
	assert.InDelta(t, 3, p.Z(), 1e-6)
}

func TestLuaErrorStopsOnlyThatScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", `
local B = {}
function B.on_update(self, dt) error("boom") end
return B
`)
	eng, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer eng.Close()
	reg := script.NewRegistry()
	eng.Register(reg)

	s := newScene(t, reg)
	e := s.CreateEntity()
	scene.Add(e, script.New("broken"))
	assert.NotPanics(t, func() {
		s.TickPhase(system.PhaseUpdate, time.Millisecond)
		s.TickPhase(system.PhaseUpdate, time.Millisecond)
	})
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", "return 42")
	_, err := NewEngine(dir, zap.NewNop())
	assert.ErrorContains(t, err, "want table")

	dir = t.TempDir()
	writeScript(t, dir, "syntax.lua", "local = ")
	_, err = NewEngine(dir, zap.NewNop())
	assert.Error(t, err)

	eng, err := NewEngine(filepath.Join(t.TempDir(), "missing"), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, eng.Names())
	eng.Close()
}
