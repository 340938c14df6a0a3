package app

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/config"
	"github.com/jamgo/engine/internal/core/event"
	"github.com/jamgo/engine/internal/gpu"
	"github.com/jamgo/engine/internal/postprocess"
)

const PostProcessLayerName = "post_process"

// PostProcessLayer owns the frame targets and runs the post-process pipeline
// over the scene target once every earlier layer has rendered. The pipeline
// is rebuilt whenever the window size changes.
type PostProcessLayer struct {
	BaseLayer
	dev      gpu.Device
	shaders  *gpu.ShaderCollection
	cfg      config.PostProcessConfig
	ldr      gputypes.TextureFormat
	scene    gpu.Texture
	depth    gpu.Texture
	output   gpu.Texture
	pipeline *postprocess.Pipeline
	width    int
	height   int
	log      *zap.Logger
}

func NewPostProcessLayer(dev gpu.Device, shaders *gpu.ShaderCollection, cfg config.PostProcessConfig, ldr gputypes.TextureFormat, log *zap.Logger) *PostProcessLayer {
	return &PostProcessLayer{dev: dev, shaders: shaders, cfg: cfg, ldr: ldr, log: log}
}

func (l *PostProcessLayer) Name() string { return PostProcessLayerName }

// SceneTarget is the HDR texture scenes render into.
func (l *PostProcessLayer) SceneTarget() gpu.Texture { return l.scene }

// Output is the back buffer the last filter writes.
func (l *PostProcessLayer) Output() gpu.Texture { return l.output }

func (l *PostProcessLayer) Pipeline() *postprocess.Pipeline { return l.pipeline }

// Resize recreates the frame targets and the pipeline for a width x height
// back buffer. On error the layer is left without a pipeline.
func (l *PostProcessLayer) Resize(width, height int) error {
	l.release()
	l.width, l.height = width, height
	w, h := uint32(width), uint32(height)
	hdr, err := gpu.ParseFormat(l.cfg.BloomFormat)
	if err != nil {
		return fmt.Errorf("post process layer: %w", err)
	}
	if l.scene, err = l.dev.CreateTexture(gpu.RenderTargetDesc("frame.scene", w, h, hdr)); err != nil {
		return fmt.Errorf("post process layer: %w", err)
	}
	if l.depth, err = l.dev.CreateTexture(gpu.RenderTargetDesc("frame.depth", w, h, gputypes.TextureFormatDepth32Float)); err != nil {
		return fmt.Errorf("post process layer: %w", err)
	}
	if l.output, err = l.dev.CreateTexture(gpu.RenderTargetDesc("frame.output", w, h, l.ldr)); err != nil {
		return fmt.Errorf("post process layer: %w", err)
	}
	if !l.cfg.Enabled {
		return nil
	}
	b, err := postprocess.FromConfig(l.cfg, w, h, l.ldr, l.depth)
	if err != nil {
		return err
	}
	if b.Flags() == 0 {
		return nil
	}
	if l.pipeline, err = b.Build(l.dev, l.shaders, l.output); err != nil {
		return err
	}
	l.log.Info("post process pipeline built",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("filters", l.pipeline.Len()),
	)
	return nil
}

func (l *PostProcessLayer) Render() {
	if l.pipeline != nil {
		l.pipeline.Render(l.dev, l.scene)
	}
}

func (l *PostProcessLayer) HandleEvent(ev any) {
	if r, ok := ev.(event.WindowResized); ok {
		if r.Width == l.width && r.Height == l.height && l.scene != nil {
			return
		}
		if err := l.Resize(r.Width, r.Height); err != nil {
			l.log.Error("resize post process", zap.Int("width", r.Width), zap.Int("height", r.Height), zap.Error(err))
		}
	}
}

func (l *PostProcessLayer) Detach() { l.release() }

func (l *PostProcessLayer) release() {
	if l.pipeline != nil {
		l.pipeline.Release(l.dev)
		l.pipeline = nil
	}
	for _, t := range []*gpu.Texture{&l.scene, &l.depth, &l.output} {
		if *t != nil {
			l.dev.ReleaseTexture(*t)
			*t = nil
		}
	}
}
