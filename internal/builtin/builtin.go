// Package builtin registers the engine's own component types.
package builtin

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/jamgo/engine/internal/component"
	"github.com/jamgo/engine/internal/editor"
	"github.com/jamgo/engine/internal/meta"
	"github.com/jamgo/engine/internal/scene"
	"github.com/jamgo/engine/internal/script"
)

// Component names as they appear in scene documents.
const (
	TagName       = "Tag"
	TransformName = "Transform"
	CameraName    = "Camera"
	ModelName     = "Model"
	ScriptName    = "Script"
)

// Register adds the built-in component metas. scripts resolves script names
// during deserialization.
func Register(metas *meta.Registry, scripts *script.Registry) {
	metas.Register(meta.Describe(TagName,
		meta.WithSerializer(func(t *component.Tag) (json.RawMessage, error) { return json.Marshal(t) }),
		meta.WithDeserializer(deserializeTag),
		meta.WithEditor(drawTag),
	))
	metas.Register(meta.Describe(TransformName,
		meta.WithDefault(component.NewTransform),
		meta.WithJSON[component.Transform](),
		meta.WithEditor(drawTransform),
	))
	metas.Register(meta.Describe(CameraName,
		meta.WithDefault(component.NewCamera),
		meta.WithJSON[component.Camera](),
		meta.WithEditor(drawCamera),
	))
	metas.Register(meta.Describe(ModelName,
		meta.WithSerializer(serializeModel),
		meta.WithDeserializer(deserializeModel),
		meta.WithEditor(drawModel),
	))
	metas.Register(meta.Describe(ScriptName,
		meta.WithSerializer(serializeScript),
		meta.WithDeserializer(func(data json.RawMessage, owner scene.Entity, c *script.Component) error {
			return deserializeScript(scripts, data, c)
		}),
		meta.WithEditor(drawScript),
	))
}

func deserializeTag(data json.RawMessage, _ scene.Entity, t *component.Tag) error {
	var raw struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Name = component.UnknownTag
	if raw.Name != nil {
		t.Name = *raw.Name
	}
	return nil
}

type pathJSON struct {
	Path string `json:"path,omitempty"`
}

func serializeModel(m *component.Model) (json.RawMessage, error) {
	if m.Path == "" {
		return nil, nil
	}
	return json.Marshal(pathJSON{Path: m.Path})
}

// deserializeModel resolves the model through the owner scene's asset manager.
// The path is kept even when loading fails so the reference survives a save.
func deserializeModel(data json.RawMessage, owner scene.Entity, m *component.Model) error {
	var raw pathJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Path, m.Asset = raw.Path, nil
	if raw.Path == "" {
		return nil
	}
	asset, err := owner.Scene().Assets().GetOrLoadModel(raw.Path)
	if err != nil {
		return err
	}
	m.Path = asset.AssetPath()
	m.Asset = asset
	return nil
}

type scriptJSON struct {
	Name string `json:"scriptName,omitempty"`
}

func serializeScript(c *script.Component) (json.RawMessage, error) {
	if c.Name == "" {
		return nil, nil
	}
	return json.Marshal(scriptJSON{Name: c.Name})
}

func deserializeScript(scripts *script.Registry, data json.RawMessage, c *script.Component) error {
	var raw scriptJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = script.Component{}
	if raw.Name == "" {
		return nil
	}
	if !scripts.IsRegistered(raw.Name) {
		return fmt.Errorf("script %q is not registered", raw.Name)
	}
	c.Name = raw.Name
	return nil
}

func drawTag(ctx editor.Context, t *component.Tag) bool {
	return ctx.Text("tag", &t.Name)
}

func drawTransform(ctx editor.Context, t *component.Transform) bool {
	changed := ctx.Float3("position", (*[3]float32)(&t.Position), 0.1)
	q := [4]float32{t.Rotation.V.X(), t.Rotation.V.Y(), t.Rotation.V.Z(), t.Rotation.W}
	if ctx.Float4("rotation", &q, 0.01) {
		r := mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
		if r.Len() > 0 {
			t.Rotation = r.Normalize()
			changed = true
		}
	}
	if ctx.Float3("scale", (*[3]float32)(&t.Scale), 0.1) {
		changed = true
	}
	return changed
}

func drawCamera(ctx editor.Context, c *component.Camera) bool {
	fov := mgl32.RadToDeg(c.FovY)
	changed := false
	if ctx.Float("fov (deg)", &fov, 0.5) {
		c.FovY = mgl32.DegToRad(mgl32.Clamp(fov, 1, 179))
		changed = true
	}
	changed = ctx.Float("near", &c.NearZ, 0.01) || changed
	changed = ctx.Float("far", &c.FarZ, 1) || changed
	changed = ctx.Float("aspect", &c.AspectRatio, 0.01) || changed
	proj := int(c.Projection)
	if ctx.Combo("projection", &proj, []string{component.Perspective.String(), component.Orthographic.String()}) {
		c.Projection = component.Projection(proj)
		changed = true
	}
	return ctx.Checkbox("primary", &c.Primary) || changed
}

func drawModel(ctx editor.Context, m *component.Model) bool {
	if m.Path == "" {
		ctx.Label("no model")
		return false
	}
	state := "not loaded"
	if m.Loaded() {
		state = "loaded"
	}
	ctx.Label(fmt.Sprintf("%s (%s)", m.Path, state))
	return false
}

func drawScript(ctx editor.Context, c *script.Component) bool {
	if c.Name == "" {
		ctx.Label("no script")
		return false
	}
	ctx.Label(c.Name)
	running := c.Running()
	if !ctx.Checkbox("running", &running) {
		return false
	}
	if running {
		c.Start()
	} else {
		c.Stop()
	}
	return true
}
