package postprocess

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/jamgo/engine/internal/core/contract"
	"github.com/jamgo/engine/internal/gpu"
)

// Flags is the set of effects requested from a Builder.
type Flags uint8

const (
	FlagFXAA Flags = 1 << iota
	FlagToneMapping
	FlagBloom
	FlagFog
	FlagSampling
)

func (f Flags) Has(flag Flags) bool { return f&flag == flag }

// Builder accumulates effects and their render target parameters. Adding an
// effect twice keeps the last parameters. Build orders passes as
// Sampling, Fog, Bloom, ToneMapping, FXAA regardless of call order.
type Builder struct {
	flags Flags

	sampling target

	fog   target
	depth gpu.Texture

	bloom       target
	bloomLevels uint32

	tone        target
	toneMapping ToneMapping

	fxaa        target
	fxaaQuality FXAAQuality
}

func NewBuilder() *Builder {
	return &Builder{bloomLevels: 1, toneMapping: Linear, fxaaQuality: FXAAHigh}
}

func (b *Builder) Flags() Flags { return b.flags }

func (b *Builder) AddSampling(width, height uint32, format gputypes.TextureFormat) *Builder {
	b.flags |= FlagSampling
	b.sampling = target{width, height, format}
	return b
}

// AddFog binds depth as the auxiliary input of the fog pass.
func (b *Builder) AddFog(width, height uint32, format gputypes.TextureFormat, depth gpu.Texture) *Builder {
	contract.Assert(depth != nil, "fog filter needs a depth texture")
	b.flags |= FlagFog
	b.fog = target{width, height, format}
	b.depth = depth
	return b
}

// AddBloom requests levels blur-down passes, as many blur-up passes and a
// combine pass. The smallest level must still be at least 1x1.
func (b *Builder) AddBloom(width, height uint32, format gputypes.TextureFormat, levels uint32) *Builder {
	contract.Assert(levels > 0, "bloom level must be greater than 0")
	contract.Assert(levels <= 32 && width>>(levels-1) > 0 && height>>(levels-1) > 0,
		"bloom level %d is too deep for %dx%d", levels, width, height)
	b.flags |= FlagBloom
	b.bloom = target{width, height, format}
	b.bloomLevels = levels
	return b
}

func (b *Builder) AddToneMapping(width, height uint32, format gputypes.TextureFormat, op ToneMapping) *Builder {
	contract.Assert(op.valid(), "unknown tone mapping %d", int(op))
	b.flags |= FlagToneMapping
	b.tone = target{width, height, format}
	b.toneMapping = op
	return b
}

func (b *Builder) AddFXAA(width, height uint32, format gputypes.TextureFormat, quality FXAAQuality) *Builder {
	contract.Assert(quality.valid(), "unknown fxaa quality %d", int(quality))
	b.flags |= FlagFXAA
	b.fxaa = target{width, height, format}
	b.fxaaQuality = quality
	return b
}

// Build creates the filters on dev and points the last one at output. On
// error every texture created so far is released.
func (b *Builder) Build(dev gpu.Device, shaders *gpu.ShaderCollection, output gpu.Texture) (*Pipeline, error) {
	contract.Assert(b.flags != 0, "post process has no filters")
	contract.Assert(output != nil, "post process needs an output texture")

	p := &Pipeline{}
	add := func(kind Kind, programName, label string, t target) (*Filter, error) {
		prog, err := shaders.Lookup(programName)
		if err != nil {
			return nil, fmt.Errorf("%s filter: %w", kind, err)
		}
		f, err := newFilter(dev, kind, prog, label, t)
		if err != nil {
			return nil, err
		}
		p.filters = append(p.filters, f)
		return f, nil
	}
	fail := func(err error) (*Pipeline, error) {
		p.Release(dev)
		return nil, fmt.Errorf("build post process: %w", err)
	}

	if b.flags.Has(FlagSampling) {
		if _, err := add(KindSampling, ProgramSampling, "pp.sampling", b.sampling); err != nil {
			return fail(err)
		}
	}

	if b.flags.Has(FlagFog) {
		f, err := add(KindFog, ProgramFog, "pp.fog", b.fog)
		if err != nil {
			return fail(err)
		}
		f.aux = b.depth
	}

	if b.flags.Has(FlagBloom) {
		// Combine needs the pre-bloom image; without a predecessor a plain
		// sampling pass provides it.
		if len(p.filters) == 0 {
			if _, err := add(KindSampling, ProgramSampling, "pp.sampling", b.bloom); err != nil {
				return fail(err)
			}
		}
		scene := p.filters[len(p.filters)-1].output

		for i := uint32(0); i < b.bloomLevels; i++ {
			t := target{b.bloom.width >> i, b.bloom.height >> i, b.bloom.format}
			if _, err := add(KindBlurDown, ProgramBlurDown, fmt.Sprintf("pp.blur_down.%d", i), t); err != nil {
				return fail(err)
			}
		}
		for i := b.bloomLevels; i > 0; i-- {
			t := target{b.bloom.width >> (i - 1), b.bloom.height >> (i - 1), b.bloom.format}
			if _, err := add(KindBlurUp, ProgramBlurUp, fmt.Sprintf("pp.blur_up.%d", i-1), t); err != nil {
				return fail(err)
			}
		}
		f, err := add(KindCombine, ProgramCombine, "pp.combine", b.bloom)
		if err != nil {
			return fail(err)
		}
		f.aux = scene
	}

	if b.flags.Has(FlagToneMapping) {
		if _, err := add(KindToneMapping, b.toneMapping.Program(), "pp.tone_mapping", b.tone); err != nil {
			return fail(err)
		}
	}

	if b.flags.Has(FlagFXAA) {
		if _, err := add(KindFXAA, b.fxaaQuality.Program(), "pp.fxaa", b.fxaa); err != nil {
			return fail(err)
		}
	}

	p.filters[len(p.filters)-1].redirect(dev, output)
	p.output = output
	return p, nil
}
