package app

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/config"
	"github.com/jamgo/engine/internal/gpu"
	"github.com/jamgo/engine/internal/postprocess"
)

func newPostLayer(t *testing.T, cfg config.PostProcessConfig) (*PostProcessLayer, *gpu.Recorder) {
	t.Helper()
	dev := gpu.NewRecorder(zap.NewNop())
	shaders := gpu.NewShaderCollection()
	var descs []gpu.ProgramDesc
	for _, name := range postprocess.Programs() {
		descs = append(descs, gpu.ProgramDesc{Name: name, Vertex: "screen_space_effect_vs", Pixel: name + "_ps"})
	}
	require.NoError(t, shaders.Compile(dev, descs))
	return NewPostProcessLayer(dev, shaders, cfg, gputypes.TextureFormatRGBA8Unorm, zap.NewNop()), dev
}

func TestPostProcessLayerRendersPipeline(t *testing.T) {
	a := newApp(t)
	l, dev := newPostLayer(t, a.Config().PostProcess)
	require.NoError(t, l.Resize(256, 128))
	a.AttachLayer(l, false)

	p := l.Pipeline()
	require.NotNil(t, p)
	assert.Same(t, l.Output(), p.Output())
	assert.EqualValues(t, 256, l.SceneTarget().Width())

	dev.Reset()
	a.Frame(time.Millisecond)
	assert.Equal(t, p.Len(), dev.Draws())
	first := dev.CallsOf(gpu.OpBindResource)[0]
	assert.Same(t, l.SceneTarget(), first.Texture)
}

func TestPostProcessLayerRebuildsOnResize(t *testing.T) {
	a := newApp(t)
	l, dev := newPostLayer(t, a.Config().PostProcess)
	require.NoError(t, l.Resize(256, 128))
	a.AttachLayer(l, false)
	live := dev.Live()

	a.Resize(512, 256)
	a.Frame(time.Millisecond)
	assert.EqualValues(t, 512, l.Output().Width())
	assert.EqualValues(t, 256, l.Output().Height())
	assert.Equal(t, live, dev.Live())

	a.RemoveLayer(PostProcessLayerName)
	assert.Zero(t, dev.Live())
	assert.Nil(t, l.Pipeline())
}

func TestPostProcessLayerDisabled(t *testing.T) {
	cfg := config.Default().PostProcess
	cfg.Enabled = false
	l, dev := newPostLayer(t, cfg)
	require.NoError(t, l.Resize(64, 64))
	assert.Nil(t, l.Pipeline())
	assert.Equal(t, 3, dev.Live())

	dev.Reset()
	l.Render()
	assert.Empty(t, dev.Calls())
}

func TestPostProcessLayerBuildFailure(t *testing.T) {
	l, dev := newPostLayer(t, config.Default().PostProcess)
	dev.FailTexture("pp.tone_mapping", errors.New("out of memory"))
	err := l.Resize(64, 64)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
	assert.Nil(t, l.Pipeline())

	l.Detach()
	assert.Zero(t, dev.Live())
}
