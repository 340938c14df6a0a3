// Package assets owns the per-scene cache of models and textures.
package assets

import (
	"fmt"
	"image"
)

// Type groups assets into containers. The string form is used as the key of
// the "assets" section of scene documents.
type Type int

const (
	TypeModel Type = iota
	TypeTexture
)

// Types lists every asset type in container order.
var Types = []Type{TypeModel, TypeTexture}

func (t Type) String() string {
	switch t {
	case TypeModel:
		return "Model"
	case TypeTexture:
		return "Texture"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) valid() bool { return t >= TypeModel && t <= TypeTexture }

// ParseType is the inverse of Type.String.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown asset type %q", s)
}

// Asset is a loaded resource. The path is the canonical key inside its manager.
type Asset interface {
	AssetPath() string
	Kind() Type
}

// Model holds imported geometry.
type Model struct {
	path string
	Raw  *RawModel
}

func (m *Model) AssetPath() string { return m.path }
func (m *Model) Kind() Type        { return TypeModel }

// Texture holds a decoded image.
type Texture struct {
	path  string
	Image image.Image
}

func (t *Texture) AssetPath() string { return t.path }
func (t *Texture) Kind() Type        { return TypeTexture }

// Size returns the pixel dimensions, or zero when nothing is loaded.
func (t *Texture) Size() (int, int) {
	if t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}
