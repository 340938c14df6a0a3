package gpu

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("rgba16float")
	require.NoError(t, err)
	assert.Equal(t, gputypes.TextureFormatRGBA16Float, f)

	f, err = ParseFormat("RGBA8Unorm")
	require.NoError(t, err)
	assert.Equal(t, gputypes.TextureFormatRGBA8Unorm, f)

	_, err = ParseFormat("rgba99")
	assert.Error(t, err)
}

func TestRenderTargetDesc(t *testing.T) {
	d := RenderTargetDesc("hdr", 640, 360, gputypes.TextureFormatRGBA16Float)
	assert.Equal(t, uint32(640), d.Size.Width)
	assert.Equal(t, uint32(360), d.Size.Height)
	assert.Equal(t, uint32(1), d.Size.DepthOrArrayLayers)
	assert.True(t, d.Usage.Contains(gputypes.TextureUsageRenderAttachment))
	assert.True(t, d.Usage.Contains(gputypes.TextureUsageTextureBinding))
}

func TestRecorderTextures(t *testing.T) {
	r := NewRecorder(zap.NewNop())
	tex, err := r.CreateTexture(RenderTargetDesc("a", 4, 2, gputypes.TextureFormatRGBA8Unorm))
	require.NoError(t, err)
	assert.Equal(t, "a", tex.Label())
	assert.Equal(t, uint32(4), tex.Width())
	assert.Equal(t, 1, r.Live())

	_, err = r.CreateTexture(RenderTargetDesc("zero", 0, 2, gputypes.TextureFormatRGBA8Unorm))
	assert.ErrorIs(t, err, ErrInvalidDescriptor)

	boom := errors.New("out of memory")
	r.FailTexture("b", boom)
	_, err = r.CreateTexture(RenderTargetDesc("b", 4, 4, gputypes.TextureFormatRGBA8Unorm))
	assert.ErrorIs(t, err, boom)

	r.ReleaseTexture(tex)
	assert.Zero(t, r.Live())
	assert.Panics(t, func() { r.ReleaseTexture(tex) })
}

func TestRecorderCalls(t *testing.T) {
	r := NewRecorder(zap.NewNop())
	tex, err := r.CreateTexture(RenderTargetDesc("t", 1, 1, gputypes.TextureFormatRGBA8Unorm))
	require.NoError(t, err)
	p, err := r.CreateProgram(ProgramDesc{Name: "sampling", Pixel: "sampling_ps"})
	require.NoError(t, err)
	r.Reset()

	r.BindShaderResource(StagePixel, 0, tex)
	r.BindRenderTarget(tex)
	r.BindProgram(p)
	r.DrawFullScreenQuad()
	r.UnbindRenderTargets()
	r.UnbindShaderResources(StagePixel, 0, 2)

	var got []string
	for _, c := range r.Calls() {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{
		"BindShaderResource(pixel, 0, t)",
		"BindRenderTarget(t)",
		"BindProgram(sampling)",
		"DrawFullScreenQuad()",
		"UnbindRenderTargets()",
		"UnbindShaderResources(pixel, 0, 2)",
	}, got)
	assert.Equal(t, 1, r.Draws())
	assert.Panics(t, func() { r.UnbindShaderResources(StagePixel, 0, 0) })
	assert.Panics(t, func() { r.BindProgram(nil) })
}

func TestShaderManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shaders.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
programs:
  - name: sampling
    vertex: screen_space_effect_vs
    pixel: sampling_ps
  - name: fog
    vertex: screen_space_effect_vs
    pixel: fog_ps
`), 0o644))
	descs, err := LoadShaderManifest(path)
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, ProgramDesc{Name: "fog", Vertex: "screen_space_effect_vs", Pixel: "fog_ps"}, descs[1])

	_, err = ParseShaderManifest([]byte("programs:\n  - name: a\n    pixel: x\n  - name: a\n    pixel: y\n"))
	assert.Error(t, err)
	_, err = ParseShaderManifest([]byte("programs:\n  - name: a\n"))
	assert.Error(t, err)
}

func TestShaderCollection(t *testing.T) {
	r := NewRecorder(zap.NewNop())
	boom := errors.New("syntax error")
	r.FailProgram("fog", boom)

	c := NewShaderCollection()
	err := c.Compile(r, []ProgramDesc{
		{Name: "sampling", Pixel: "sampling_ps"},
		{Name: "fog", Pixel: "fog_ps"},
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"sampling"}, c.Names())

	p, ok := c.Get("sampling")
	require.True(t, ok)
	assert.Equal(t, "sampling", p.Name())
	_, err = c.Lookup("fog")
	assert.Error(t, err)
	assert.Panics(t, func() { c.Must("fog") })
}
