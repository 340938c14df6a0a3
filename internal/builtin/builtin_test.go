package builtin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/assets"
	"github.com/jamgo/engine/internal/component"
	"github.com/jamgo/engine/internal/meta"
	"github.com/jamgo/engine/internal/scene"
	"github.com/jamgo/engine/internal/script"
)

// scripted reports every widget unchanged except the labels preset in floats
// and checks, which it writes through.
type scripted struct {
	labels []string
	floats map[string]float32
	checks map[string]bool
}

func (s *scripted) Header(string) bool {
	return true
}

func (s *scripted) Label(text string) {
	s.labels = append(s.labels, text)
}

func (s *scripted) Separator() {}

func (s *scripted) Button(string) bool {
	return false
}

func (s *scripted) Text(string, *string) bool {
	return false
}

func (s *scripted) Float(label string, v *float32, _ float32) bool {
	if f, ok := s.floats[label]; ok {
		*v = f
		return true
	}
	return false
}

func (s *scripted) Float3(string, *[3]float32, float32) bool {
	return false
}

func (s *scripted) Float4(string, *[4]float32, float32) bool {
	return false
}

func (s *scripted) Checkbox(label string, v *bool) bool {
	if b, ok := s.checks[label]; ok {
		*v = b
		return true
	}
	return false
}

func (s *scripted) Combo(string, *int, []string) bool {
	return false
}

func setup(t *testing.T) (*meta.Registry, *scene.Scene, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "models"), 0o755))
	am := assets.NewManager(root, assets.NewFileImporter(".jmodel"), nil, zap.NewNop())
	scripts := script.NewRegistry()
	scripts.Register(script.Meta{Name: "Spin", Create: func(scene.Entity) script.Script { return nil }})
	metas := meta.NewRegistry()
	Register(metas, scripts)
	return metas, scene.New("builtin", am, nil, zap.NewNop()), root
}

func TestRegisteredNames(t *testing.T) {
	metas, _, _ := setup(t)
	var names []string
	for _, m := range metas.Metas() {
		names = append(names, m.Name)
		assert.NotNil(t, m.Serialize, m.Name)
		assert.NotNil(t, m.Deserialize, m.Name)
		assert.NotNil(t, m.DrawEditor, m.Name)
	}
	assert.Equal(t, []string{CameraName, ModelName, ScriptName, TagName, TransformName}, names)
}

func TestTagDefaultsToUnknown(t *testing.T) {
	metas, s, _ := setup(t)
	e := s.CreateEntity()
	v := metas.CreateComponent(TagName, e)
	require.NoError(t, metas.DeserializeComponent(TagName, json.RawMessage(`{}`), e, v))
	assert.Equal(t, component.UnknownTag, scene.Get[component.Tag](e).Name)
}

func TestModelResolvesThroughSceneAssets(t *testing.T) {
	metas, s, root := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "models", "cube.jmodel"), []byte("geo"), 0o644))
	e := s.CreateEntity()
	v := metas.CreateComponent(ModelName, e)

	require.NoError(t, metas.DeserializeComponent(ModelName, json.RawMessage(`{"path":"models/cube.jmodel"}`), e, v))
	m := scene.Get[component.Model](e)
	assert.True(t, m.Loaded())
	assert.True(t, s.Assets().Contains(assets.TypeModel, "models/cube.jmodel"))

	data, err := metas.SerializeComponent(ModelName, m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"models/cube.jmodel"}`, string(data))

	err = metas.DeserializeComponent(ModelName, json.RawMessage(`{"path":"models/gone.jmodel"}`), e, v)
	assert.Error(t, err)
	assert.Equal(t, "models/gone.jmodel", m.Path)
	assert.False(t, m.Loaded())
}

func TestScriptNameMustBeRegistered(t *testing.T) {
	metas, s, _ := setup(t)
	e := s.CreateEntity()
	v := metas.CreateComponent(ScriptName, e)
	require.NoError(t, metas.DeserializeComponent(ScriptName, json.RawMessage(`{"scriptName":"Spin"}`), e, v))
	assert.Equal(t, "Spin", scene.Get[script.Component](e).Name)

	assert.Error(t, metas.DeserializeComponent(ScriptName, json.RawMessage(`{"scriptName":"Nope"}`), e, v))
	assert.Empty(t, scene.Get[script.Component](e).Name)

	data, err := metas.SerializeComponent(ScriptName, v)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestEditors(t *testing.T) {
	metas, s, _ := setup(t)
	e := s.CreateEntity()
	cam := metas.CreateComponent(CameraName, e)
	ctx := &scripted{floats: map[string]float32{"far": 10}, checks: map[string]bool{"primary": true}}
	assert.True(t, metas.DrawComponentEditor(CameraName, ctx, cam))
	c := scene.Get[component.Camera](e)
	assert.Equal(t, float32(10), c.FarZ)
	assert.True(t, c.Primary)

	scene.Add(e, script.New("Spin"))
	ctx = &scripted{checks: map[string]bool{"running": false}}
	assert.True(t, metas.DrawComponentEditor(ScriptName, ctx, scene.Get[script.Component](e)))
	assert.False(t, scene.Get[script.Component](e).Running())
	assert.Equal(t, []string{"Spin"}, ctx.labels)
}
