package postprocess

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/jamgo/engine/internal/config"
	"github.com/jamgo/engine/internal/gpu"
)

// FromConfig prepares a builder for a width x height frame. HDR passes use
// the configured bloom format; FXAA writes ldr. depth is required when fog
// is enabled.
func FromConfig(cfg config.PostProcessConfig, width, height uint32, ldr gputypes.TextureFormat, depth gpu.Texture) (*Builder, error) {
	hdr, err := gpu.ParseFormat(cfg.BloomFormat)
	if err != nil {
		return nil, fmt.Errorf("post process: %w", err)
	}
	b := NewBuilder()
	if cfg.Sampling {
		b.AddSampling(width, height, hdr)
	}
	if cfg.Fog {
		if depth == nil {
			return nil, fmt.Errorf("post process: fog enabled without a depth texture")
		}
		b.AddFog(width, height, hdr, depth)
	}
	if cfg.BloomLevels > 0 {
		levels := uint32(cfg.BloomLevels)
		if levels > 32 || width>>(levels-1) == 0 || height>>(levels-1) == 0 {
			return nil, fmt.Errorf("post process: bloom_levels %d too deep for %dx%d", levels, width, height)
		}
		b.AddBloom(width, height, hdr, levels)
	}
	if cfg.ToneMapping != "" {
		op, err := ParseToneMapping(cfg.ToneMapping)
		if err != nil {
			return nil, fmt.Errorf("post process: %w", err)
		}
		b.AddToneMapping(width, height, hdr, op)
	}
	if cfg.FXAA != "" {
		q, err := ParseFXAAQuality(cfg.FXAA)
		if err != nil {
			return nil, fmt.Errorf("post process: %w", err)
		}
		b.AddFXAA(width, height, ldr, q)
	}
	return b, nil
}
