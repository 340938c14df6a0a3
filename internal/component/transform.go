package component

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an entity in world space. Every entity carries one.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// WorldMatrix composes scale, then rotation, then translation.
func (t Transform) WorldMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Forward is the rotated +Z axis.
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
}

func (t *Transform) Translate(d mgl32.Vec3) {
	t.Position = t.Position.Add(d)
}

// Equal compares with a small tolerance.
func (t Transform) Equal(o Transform) bool {
	return t.Position.ApproxEqual(o.Position) &&
		t.Rotation.ApproxEqual(o.Rotation) &&
		t.Scale.ApproxEqual(o.Scale)
}

type vec3JSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type quatJSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

type transformJSON struct {
	Position *vec3JSON `json:"position,omitempty"`
	Rotation *quatJSON `json:"rotation,omitempty"`
	Scale    *vec3JSON `json:"scale,omitempty"`
}

func (t Transform) MarshalJSON() ([]byte, error) {
	return json.Marshal(transformJSON{
		Position: &vec3JSON{t.Position.X(), t.Position.Y(), t.Position.Z()},
		Rotation: &quatJSON{t.Rotation.V.X(), t.Rotation.V.Y(), t.Rotation.V.Z(), t.Rotation.W},
		Scale:    &vec3JSON{t.Scale.X(), t.Scale.Y(), t.Scale.Z()},
	})
}

// UnmarshalJSON fills missing fields from NewTransform.
func (t *Transform) UnmarshalJSON(data []byte) error {
	var raw transformJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = NewTransform()
	if p := raw.Position; p != nil {
		t.Position = mgl32.Vec3{p.X, p.Y, p.Z}
	}
	if r := raw.Rotation; r != nil {
		t.Rotation = mgl32.Quat{W: r.W, V: mgl32.Vec3{r.X, r.Y, r.Z}}
	}
	if s := raw.Scale; s != nil {
		t.Scale = mgl32.Vec3{s.X, s.Y, s.Z}
	}
	return nil
}
