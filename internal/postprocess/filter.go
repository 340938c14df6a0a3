package postprocess

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/jamgo/engine/internal/core/contract"
	"github.com/jamgo/engine/internal/gpu"
)

// Pixel shader slots used by every filter.
const (
	InputSlot = 0
	AuxSlot   = 1
)

// Filter is one full-screen pass: it reads the previous pass from InputSlot,
// an optional auxiliary texture from AuxSlot and writes its output texture.
type Filter struct {
	kind    Kind
	program gpu.Program
	output  gpu.Texture
	aux     gpu.Texture
	owned   bool
}

func newFilter(dev gpu.Device, kind Kind, program gpu.Program, label string, t target) (*Filter, error) {
	tex, err := dev.CreateTexture(gpu.RenderTargetDesc(label, t.width, t.height, t.format))
	if err != nil {
		return nil, fmt.Errorf("%s filter: %w", kind, err)
	}
	return &Filter{kind: kind, program: program, output: tex, owned: true}, nil
}

func (f *Filter) Kind() Kind           { return f.kind }
func (f *Filter) Hash() uint64         { return f.kind.Hash() }
func (f *Filter) Program() gpu.Program { return f.program }
func (f *Filter) Output() gpu.Texture  { return f.output }

// Aux is the second input: scene color for Combine, depth for Fog.
func (f *Filter) Aux() gpu.Texture { return f.aux }

// Bind makes input the pass input and the filter's output the render target.
func (f *Filter) Bind(dev gpu.Device, input gpu.Texture) {
	contract.Assert(f.output != nil && f.program != nil, "%s filter is not initialized", f.kind)
	dev.BindShaderResource(gpu.StagePixel, InputSlot, input)
	dev.BindRenderTarget(f.output)
	if f.aux != nil {
		dev.BindShaderResource(gpu.StagePixel, AuxSlot, f.aux)
	}
	dev.BindProgram(f.program)
}

// redirect replaces the output with a caller-owned texture, releasing the one
// the filter created.
func (f *Filter) redirect(dev gpu.Device, t gpu.Texture) {
	if f.owned {
		dev.ReleaseTexture(f.output)
	}
	f.output, f.owned = t, false
}

func (f *Filter) release(dev gpu.Device) {
	if f.owned && f.output != nil {
		dev.ReleaseTexture(f.output)
	}
	f.output, f.owned = nil, false
}

type target struct {
	width, height uint32
	format        gputypes.TextureFormat
}
