package postprocess

import (
	"github.com/jamgo/engine/internal/gpu"
)

// Pipeline renders its filters in order, each reading the previous output.
type Pipeline struct {
	filters []*Filter
	output  gpu.Texture
}

// Render runs every pass starting from input. The last pass writes the
// output texture given to Build.
func (p *Pipeline) Render(dev gpu.Device, input gpu.Texture) {
	for _, f := range p.filters {
		dev.UnbindRenderTargets()
		f.Bind(dev, input)
		dev.DrawFullScreenQuad()
		input = f.Output()
	}
	dev.UnbindShaderResources(gpu.StagePixel, InputSlot, 2)
}

// Filters returns the passes in render order.
func (p *Pipeline) Filters() []*Filter {
	out := make([]*Filter, len(p.filters))
	copy(out, p.filters)
	return out
}

func (p *Pipeline) Len() int            { return len(p.filters) }
func (p *Pipeline) Output() gpu.Texture { return p.output }

// Count reports how many passes are of kind k.
func (p *Pipeline) Count(k Kind) int {
	n := 0
	for _, f := range p.filters {
		if f.kind == k {
			n++
		}
	}
	return n
}

// Release frees the textures the pipeline created. The output texture and
// auxiliary inputs belong to the caller.
func (p *Pipeline) Release(dev gpu.Device) {
	for _, f := range p.filters {
		f.release(dev)
	}
	p.filters = nil
}
