package serializer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/assets"
	"github.com/jamgo/engine/internal/meta"
	"github.com/jamgo/engine/internal/scene"
)

// ErrUnknownComponent is returned in strict mode when a document names a
// component that is not registered.
var ErrUnknownComponent = errors.New("unknown component")

// Serializer walks a scene through the component meta registry.
type Serializer struct {
	metas  *meta.Registry
	log    *zap.Logger
	ext    string
	strict bool
}

type Option func(*Serializer)

// Strict makes unknown component names fail deserialization instead of being
// skipped with a warning.
func Strict() Option { return func(s *Serializer) { s.strict = true } }

// WithExtension sets the scene file extension (default ".jscene").
func WithExtension(ext string) Option { return func(s *Serializer) { s.ext = ext } }

func New(metas *meta.Registry, log *zap.Logger, opts ...Option) *Serializer {
	s := &Serializer{metas: metas, log: log, ext: ".jscene"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (z *Serializer) Extension() string { return z.ext }

// Serialize builds a document from sc. Components whose meta has no
// serializer, storages with no registered meta and components that encode
// as an empty document are left out.
func (z *Serializer) Serialize(sc *scene.Scene) (*Document, error) {
	doc := &Document{}

	for _, t := range assets.Types {
		if paths := sc.Assets().Paths(t); len(paths) > 0 {
			if doc.Assets == nil {
				doc.Assets = make(map[string][]string)
			}
			doc.Assets[t.String()] = paths
		}
	}

	for _, e := range sc.Entities() {
		doc.Entities = append(doc.Entities, formatID(e.ID()))
	}

	for _, st := range sc.Storages() {
		m, ok := z.metas.LookupByHash(st.Type().Hash)
		if !ok {
			z.log.Debug("storage has no component meta", zap.String("type", st.Type().Name))
			continue
		}
		if m.Serialize == nil {
			continue
		}
		ids := st.IDs()
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			v, _ := st.GetAny(id)
			data, err := z.metas.SerializeComponent(m.Name, v)
			if err != nil {
				return nil, fmt.Errorf("serialize %s of entity %d: %w", m.Name, uint64(id), err)
			}
			if isEmpty(data) {
				continue
			}
			if doc.Components == nil {
				doc.Components = make(map[string]map[string]json.RawMessage)
			}
			byID := doc.Components[m.Name]
			if byID == nil {
				byID = make(map[string]json.RawMessage)
				doc.Components[m.Name] = byID
			}
			byID[formatID(id)] = data
		}
	}

	user, err := sc.MarshalUserData()
	if err != nil {
		return nil, fmt.Errorf("serialize userdata of scene %q: %w", sc.Name(), err)
	}
	if len(user) > 0 && !isEmpty(user) {
		doc.UserData = user
	}
	return doc, nil
}

// Deserialize replaces the content of sc with doc. The order is fixed: clear
// the scene, load assets, recreate entities by id, create then fill each
// component, deliver userdata. Ids are validated before sc is touched.
func (z *Serializer) Deserialize(ctx context.Context, doc *Document, sc *scene.Scene) error {
	if err := doc.validate(); err != nil {
		return fmt.Errorf("deserialize scene %q: %w", sc.Name(), err)
	}
	if z.strict {
		for name := range doc.Components {
			if !z.metas.IsRegistered(name) {
				return fmt.Errorf("deserialize scene %q: %w %q", sc.Name(), ErrUnknownComponent, name)
			}
		}
	}

	sc.Clear()

	z.loadAssets(ctx, doc, sc)

	ids, _ := doc.EntityIDs()
	for _, id := range ids {
		sc.CreateEntityWithHint(id)
	}

	names := make([]string, 0, len(doc.Components))
	for name := range doc.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		z.loadComponents(name, doc.Components[name], sc)
	}

	if len(doc.UserData) > 0 {
		if err := sc.UnmarshalUserData(doc.UserData); err != nil {
			return fmt.Errorf("deserialize userdata of scene %q: %w", sc.Name(), err)
		}
	}
	return nil
}

func (z *Serializer) loadAssets(ctx context.Context, doc *Document, sc *scene.Scene) {
	if len(doc.Assets) == 0 {
		return
	}
	byType := make(map[assets.Type][]string, len(doc.Assets))
	for name, paths := range doc.Assets {
		t, err := assets.ParseType(name)
		if err != nil {
			z.log.Warn("skipping assets", zap.String("scene", sc.Name()), zap.Error(err))
			continue
		}
		byType[t] = paths
	}
	if err := sc.Assets().Preload(ctx, byType); err != nil {
		z.log.Warn("some scene assets failed to load", zap.String("scene", sc.Name()), zap.Error(err))
	}
}

func (z *Serializer) loadComponents(name string, byID map[string]json.RawMessage, sc *scene.Scene) {
	log := z.log.With(zap.String("scene", sc.Name()), zap.String("component", name))
	if !z.metas.IsRegistered(name) {
		log.Warn("component not registered, skipping")
		return
	}
	if !z.metas.CanDeserialize(name) {
		log.Warn("component cannot be deserialized, skipping")
		return
	}
	for _, key := range sortedIDs(byID) {
		id, _ := parseID(key)
		owner := sc.GetEntity(id)
		if !owner.IsValid() {
			log.Warn("component owner not in entity list", zap.String("entity", key))
			continue
		}
		v := z.metas.CreateComponent(name, owner)
		if err := z.metas.DeserializeComponent(name, byID[key], owner, v); err != nil {
			log.Warn("component data rejected", zap.String("entity", key), zap.Error(err))
		}
	}
}
