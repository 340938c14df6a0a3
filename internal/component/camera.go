package component

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"
)

type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	if p == Orthographic {
		return "Orthographic"
	}
	return "Perspective"
}

// Camera describes a view frustum. The transform of the owning entity
// supplies position and orientation.
type Camera struct {
	FovY        float32    `json:"fovYRad"`
	NearZ       float32    `json:"nearZ"`
	FarZ        float32    `json:"farZ"`
	AspectRatio float32    `json:"aspectRatio"`
	Projection  Projection `json:"projection"`
	Primary     bool       `json:"primary"`
}

func NewCamera() Camera {
	return Camera{
		FovY:        mgl32.DegToRad(45),
		NearZ:       0.1,
		FarZ:        1000,
		AspectRatio: 1,
		Projection:  Perspective,
	}
}

// UnmarshalJSON fills missing fields from NewCamera.
func (c *Camera) UnmarshalJSON(data []byte) error {
	type plain Camera
	v := plain(NewCamera())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Camera(v)
	return nil
}

func (c Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.Projection == Orthographic {
		h := float32(1)
		w := h * c.AspectRatio
		return mgl32.Ortho(-w, w, -h, h, c.NearZ, c.FarZ)
	}
	return mgl32.Perspective(c.FovY, c.AspectRatio, c.NearZ, c.FarZ)
}

// ViewMatrix looks from the transform's position along its forward axis.
func (c Camera) ViewMatrix(t Transform) mgl32.Mat4 {
	eye := t.Position
	return mgl32.LookAtV(eye, eye.Add(t.Forward()), t.Rotation.Rotate(mgl32.Vec3{0, 1, 0}))
}

func (c Camera) ViewProjection(t Transform) mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix(t))
}
