package assets

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/core/event"
)

type fixture struct {
	root string
	bus  *event.Bus
	mgr  *Manager
	seen []any
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := filepath.Join(t.TempDir(), "assets")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "models"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "textures"), 0o755))
	f := &fixture{root: root, bus: event.NewBus()}
	f.bus.SubscribeAll(func(e any) { f.seen = append(f.seen, e) })
	f.mgr = NewManager(root, NewFileImporter(".jmodel"), f.bus, zap.NewNop())
	return f
}

func (f *fixture) write(t *testing.T, rel, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.root, filepath.FromSlash(rel)), []byte(body), 0o644))
}

func (f *fixture) events() []any {
	f.bus.SwapBuffers()
	f.seen = nil
	f.bus.DispatchAll()
	return f.seen
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	fh, err := os.Create(path)
	require.NoError(t, err)
	defer fh.Close()
	require.NoError(t, png.Encode(fh, img))
}

func TestLoadModelEvents(t *testing.T) {
	f := newFixture(t)
	f.write(t, "models/cube.jmodel", "v1")

	m, err := f.mgr.LoadModel("models/cube.jmodel")
	require.NoError(t, err)
	assert.Equal(t, "models/cube.jmodel", m.AssetPath())
	assert.Equal(t, "cube", m.Raw.Name)
	assert.Equal(t, []any{event.AssetLoaded{Kind: "Model", Path: "models/cube.jmodel"}}, f.events())

	// unchanged file: same asset, no event
	again, err := f.mgr.Load(TypeModel, filepath.Join(f.root, "models", "cube.jmodel"))
	require.NoError(t, err)
	assert.Same(t, m, again)
	assert.Empty(t, f.events())

	f.write(t, "models/cube.jmodel", "v2")
	_, err = f.mgr.Load(TypeModel, "models/cube.jmodel")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), m.Raw.Data)
	assert.Equal(t, []any{event.AssetModified{Kind: "Model", Path: "models/cube.jmodel"}}, f.events())

	require.NoError(t, f.mgr.Unload(TypeModel, "models/cube.jmodel"))
	assert.False(t, f.mgr.Contains(TypeModel, "models/cube.jmodel"))
	assert.Equal(t, []any{event.AssetUnloaded{Kind: "Model", Path: "models/cube.jmodel"}}, f.events())
	assert.ErrorIs(t, f.mgr.Unload(TypeModel, "models/cube.jmodel"), ErrNotLoaded)
}

func TestLoadRejectsBadPaths(t *testing.T) {
	f := newFixture(t)
	outside := filepath.Join(filepath.Dir(f.root), "evil.jmodel")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	_, err := f.mgr.Load(TypeModel, outside)
	assert.ErrorIs(t, err, ErrOutsideAssets)
	_, err = f.mgr.Load(TypeModel, "../evil.jmodel")
	assert.ErrorIs(t, err, ErrOutsideAssets)
	_, err = f.mgr.Load(TypeModel, "")
	assert.ErrorIs(t, err, ErrOutsideAssets)

	f.write(t, "models/cube.obj", "x")
	_, err = f.mgr.Load(TypeModel, "models/cube.obj")
	assert.ErrorIs(t, err, ErrExtension)

	_, err = f.mgr.Load(TypeModel, "models/missing.jmodel")
	assert.Error(t, err)
	assert.Equal(t, 0, f.mgr.Total())
}

func TestTextureAndGetOrLoad(t *testing.T) {
	f := newFixture(t)
	writePNG(t, filepath.Join(f.root, "textures", "brick.png"), 4, 2)

	tex, err := f.mgr.GetOrLoadTexture("textures/brick.png")
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)

	again, err := f.mgr.GetOrLoadTexture("textures/./brick.png")
	require.NoError(t, err)
	assert.Same(t, tex, again)
	assert.Equal(t, []string{"textures/brick.png"}, f.mgr.Paths(TypeTexture))

	f.mgr.ClearAll()
	assert.Equal(t, 0, f.mgr.Total())
}

func TestPreloadJoinsErrors(t *testing.T) {
	f := newFixture(t)
	f.write(t, "models/a.jmodel", "a")
	f.write(t, "models/b.jmodel", "b")
	writePNG(t, filepath.Join(f.root, "textures", "t.png"), 1, 1)

	err := f.mgr.Preload(context.Background(), map[Type][]string{
		TypeModel:   {"models/a.jmodel", "models/missing.jmodel", "models/b.jmodel"},
		TypeTexture: {"textures/t.png"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.jmodel")
	assert.Equal(t, []string{"models/a.jmodel", "models/b.jmodel"}, f.mgr.Paths(TypeModel))
	assert.Equal(t, 1, f.mgr.Count(TypeTexture))

	// registration follows list order
	var order []string
	for _, e := range f.events() {
		order = append(order, e.(event.AssetLoaded).Path)
	}
	assert.Equal(t, []string{"models/a.jmodel", "models/b.jmodel", "textures/t.png"}, order)
}

func TestParseType(t *testing.T) {
	for _, ty := range Types {
		got, err := ParseType(ty.String())
		require.NoError(t, err)
		assert.Equal(t, ty, got)
	}
	_, err := ParseType("Sound")
	assert.Error(t, err)
}

func TestPreloadStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.write(t, "models/a.jmodel", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.mgr.Preload(ctx, map[Type][]string{TypeModel: {"models/a.jmodel"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.mgr.Total())
}
