package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/jamgo/engine/internal/core/contract"
	"github.com/jamgo/engine/internal/core/event"
)

// ErrNotLoaded is returned by Unload for unknown paths.
var ErrNotLoaded = errors.New("asset not loaded")

type entry struct {
	asset Asset
	sum   [blake2b.Size256]byte
}

// Manager caches assets per type, keyed by canonical path relative to the
// assets directory. It is owned by a single scene and is not safe for
// concurrent use.
type Manager struct {
	root       string // absolute
	given      string // root as configured
	importer   Importer
	bus        *event.Bus
	log        *zap.Logger
	containers [2]map[string]*entry
}

// NewManager creates an empty manager. bus may be nil.
func NewManager(root string, importer Importer, bus *event.Bus, log *zap.Logger) *Manager {
	contract.Assert(importer != nil, "asset manager needs an importer")
	given := filepath.Clean(root)
	abs, err := filepath.Abs(given)
	if err != nil {
		abs = given
	}
	m := &Manager{root: abs, given: given, importer: importer, bus: bus, log: log}
	for i := range m.containers {
		m.containers[i] = make(map[string]*entry)
	}
	return m
}

// Root returns the absolute assets directory.
func (m *Manager) Root() string { return m.root }

// Canonical returns the container key for path.
func (m *Manager) Canonical(path string) (string, error) {
	key, _, err := canonical(m.root, m.given, path)
	return key, err
}

func (m *Manager) container(t Type) map[string]*entry {
	contract.Assert(t.valid(), "invalid asset type %d", int(t))
	return m.containers[t]
}

type imported struct {
	kind  Type
	key   string
	sum   [blake2b.Size256]byte
	model *RawModel
	tex   *Texture
}

func (m *Manager) importFile(t Type, path string) (*imported, error) {
	key, abs, err := canonical(m.root, m.given, path)
	if err != nil {
		return nil, err
	}
	sum, err := fingerprint(abs)
	if err != nil {
		return nil, err
	}
	im := &imported{kind: t, key: key, sum: sum}
	switch t {
	case TypeModel:
		if im.model, err = m.importer.ImportModel(abs); err != nil {
			return nil, err
		}
	case TypeTexture:
		img, err := m.importer.ImportImage(abs)
		if err != nil {
			return nil, err
		}
		im.tex = &Texture{Image: img}
	}
	return im, nil
}

// commit stores an imported asset. An asset already cached under the same key
// is updated in place so holders observe the new content.
func (m *Manager) commit(im *imported) Asset {
	c := m.container(im.kind)
	if e, ok := c[im.key]; ok {
		if e.sum == im.sum {
			return e.asset
		}
		switch a := e.asset.(type) {
		case *Model:
			a.Raw = im.model
		case *Texture:
			a.Image = im.tex.Image
		}
		e.sum = im.sum
		emit(m, event.AssetModified{Kind: im.kind.String(), Path: im.key})
		m.log.Debug("asset modified", zap.Stringer("type", im.kind), zap.String("path", im.key))
		return e.asset
	}

	var a Asset
	switch im.kind {
	case TypeModel:
		a = &Model{path: im.key, Raw: im.model}
	case TypeTexture:
		im.tex.path = im.key
		a = im.tex
	}
	c[im.key] = &entry{asset: a, sum: im.sum}
	emit(m, event.AssetLoaded{Kind: im.kind.String(), Path: im.key})
	m.log.Debug("asset loaded", zap.Stringer("type", im.kind), zap.String("path", im.key))
	return a
}

func emit[T any](m *Manager, ev T) {
	if m.bus != nil {
		event.Emit(m.bus, ev)
	}
}

// Load reads path from disk, replacing the cached content when the file changed.
func (m *Manager) Load(t Type, path string) (Asset, error) {
	im, err := m.importFile(t, path)
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", t, path, err)
	}
	return m.commit(im), nil
}

// GetOrLoad returns the cached asset, loading it on first use.
func (m *Manager) GetOrLoad(t Type, path string) (Asset, error) {
	if a, ok := m.Get(t, path); ok {
		return a, nil
	}
	return m.Load(t, path)
}

func (m *Manager) Get(t Type, path string) (Asset, bool) {
	key, err := m.Canonical(path)
	if err != nil {
		return nil, false
	}
	e, ok := m.container(t)[key]
	if !ok {
		return nil, false
	}
	return e.asset, true
}

func (m *Manager) Contains(t Type, path string) bool {
	_, ok := m.Get(t, path)
	return ok
}

func (m *Manager) Unload(t Type, path string) error {
	key, err := m.Canonical(path)
	if err != nil {
		return err
	}
	c := m.container(t)
	if _, ok := c[key]; !ok {
		return fmt.Errorf("unload %s %s: %w", t, path, ErrNotLoaded)
	}
	delete(c, key)
	emit(m, event.AssetUnloaded{Kind: t.String(), Path: key})
	return nil
}

// Clear drops every asset of type t without emitting events.
func (m *Manager) Clear(t Type) {
	clear(m.container(t))
}

func (m *Manager) ClearAll() {
	for _, t := range Types {
		m.Clear(t)
	}
}

// Paths returns the sorted keys of type t.
func (m *Manager) Paths(t Type) []string {
	c := m.container(t)
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) Count(t Type) int { return len(m.container(t)) }

func (m *Manager) Total() int {
	n := 0
	for _, t := range Types {
		n += m.Count(t)
	}
	return n
}

// Preload imports every listed file concurrently and registers the results in
// list order. Files that fail are skipped; their errors are joined. Files not
// yet started when ctx is done are skipped and ctx's error is joined once.
func (m *Manager) Preload(ctx context.Context, paths map[Type][]string) error {
	type job struct {
		t    Type
		path string
	}
	var jobs []job
	for _, t := range Types {
		for _, p := range paths[t] {
			jobs = append(jobs, job{t, p})
		}
	}
	results := make([]*imported, len(jobs))
	errs := make([]error, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			im, err := m.importFile(j.t, j.path)
			if err != nil {
				errs[i] = fmt.Errorf("preload %s %s: %w", j.t, j.path, err)
				return nil
			}
			results[i] = im
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = append(errs, fmt.Errorf("preload: %w", err))
	}

	for _, im := range results {
		if im != nil {
			m.commit(im)
		}
	}
	return errors.Join(errs...)
}

// LoadModel and friends are typed shorthands.
func (m *Manager) LoadModel(path string) (*Model, error) {
	a, err := m.Load(TypeModel, path)
	if err != nil {
		return nil, err
	}
	return a.(*Model), nil
}

func (m *Manager) GetOrLoadModel(path string) (*Model, error) {
	a, err := m.GetOrLoad(TypeModel, path)
	if err != nil {
		return nil, err
	}
	return a.(*Model), nil
}

func (m *Manager) GetOrLoadTexture(path string) (*Texture, error) {
	a, err := m.GetOrLoad(TypeTexture, path)
	if err != nil {
		return nil, err
	}
	return a.(*Texture), nil
}

func fingerprint(path string) ([blake2b.Size256]byte, error) {
	var sum [blake2b.Size256]byte
	f, err := os.Open(path)
	if err != nil {
		return sum, err
	}
	defer f.Close()
	h, err := blake2b.New256(nil)
	if err != nil {
		return sum, err
	}
	if _, err := io.Copy(h, f); err != nil {
		return sum, fmt.Errorf("hash %s: %w", path, err)
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
