// Package gpu is the narrow device surface the engine core renders through.
package gpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Stage selects the shader stage a resource is bound to.
type Stage int

const (
	StageVertex Stage = iota
	StagePixel
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "pixel"
}

// Texture is a device texture. Identity is the handle itself.
type Texture interface {
	Label() string
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
}

// Program is a linked vertex + pixel shader pair.
type Program interface {
	Name() string
}

// ProgramDesc names the compiled shader stages of a program.
type ProgramDesc struct {
	Name   string `yaml:"name"`
	Vertex string `yaml:"vertex"`
	Pixel  string `yaml:"pixel"`
}

// Device is implemented by a rendering backend. Bind calls are immediate
// state changes; nothing is retained across frames by the caller.
type Device interface {
	CreateTexture(desc *gputypes.TextureDescriptor) (Texture, error)
	ReleaseTexture(t Texture)
	CreateProgram(desc ProgramDesc) (Program, error)

	BindShaderResource(stage Stage, slot int, t Texture)
	UnbindShaderResources(stage Stage, slot, count int)
	BindRenderTarget(t Texture)
	UnbindRenderTargets()
	BindProgram(p Program)
	DrawFullScreenQuad()
}

// RenderTargetDesc describes a 2D texture usable both as a render target and
// as a pixel shader input.
func RenderTargetDesc(label string, width, height uint32, format gputypes.TextureFormat) *gputypes.TextureDescriptor {
	return &gputypes.TextureDescriptor{
		Label:         label,
		Size:          gputypes.NewExtent2D(width, height),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	}
}

var formats = []gputypes.TextureFormat{
	gputypes.TextureFormatRGBA8Unorm,
	gputypes.TextureFormatRGBA8UnormSrgb,
	gputypes.TextureFormatBGRA8Unorm,
	gputypes.TextureFormatBGRA8UnormSrgb,
	gputypes.TextureFormatRGB10A2Unorm,
	gputypes.TextureFormatRG11B10Ufloat,
	gputypes.TextureFormatRGBA16Float,
	gputypes.TextureFormatRGBA32Float,
	gputypes.TextureFormatDepth24PlusStencil8,
	gputypes.TextureFormatDepth32Float,
}

// ParseFormat resolves a color or depth format by name, case-insensitively
// ("rgba16float", "RGBA8Unorm").
func ParseFormat(s string) (gputypes.TextureFormat, error) {
	for _, f := range formats {
		if strings.EqualFold(f.String(), s) {
			return f, nil
		}
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("unknown texture format %q", s)
}
