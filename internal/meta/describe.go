package meta

import (
	"encoding/json"

	"github.com/jamgo/engine/internal/core/ecs"
	"github.com/jamgo/engine/internal/editor"
	"github.com/jamgo/engine/internal/scene"
)

type descriptor[T any] struct {
	zero        func() T
	serialize   func(*T) (json.RawMessage, error)
	deserialize func(json.RawMessage, scene.Entity, *T) error
	draw        func(editor.Context, *T) bool
}

// Option configures Describe.
type Option[T any] func(*descriptor[T])

// WithDefault sets the value Create attaches.
func WithDefault[T any](fn func() T) Option[T] {
	return func(d *descriptor[T]) { d.zero = fn }
}

// WithJSON serializes the component with encoding/json.
func WithJSON[T any]() Option[T] {
	return func(d *descriptor[T]) {
		d.serialize = func(v *T) (json.RawMessage, error) { return json.Marshal(v) }
		d.deserialize = func(data json.RawMessage, _ scene.Entity, v *T) error { return json.Unmarshal(data, v) }
	}
}

func WithSerializer[T any](fn func(*T) (json.RawMessage, error)) Option[T] {
	return func(d *descriptor[T]) { d.serialize = fn }
}

func WithDeserializer[T any](fn func(json.RawMessage, scene.Entity, *T) error) Option[T] {
	return func(d *descriptor[T]) { d.deserialize = fn }
}

func WithEditor[T any](fn func(editor.Context, *T) bool) Option[T] {
	return func(d *descriptor[T]) { d.draw = fn }
}

// Describe builds the meta of component type T stored in scene storages. The
// hash is the storage type hash, so NameByHash resolves scene storages.
func Describe[T any](name string, opts ...Option[T]) ComponentMeta {
	d := &descriptor[T]{zero: func() T {
		var v T
		return v
	}}
	for _, opt := range opts {
		opt(d)
	}
	m := ComponentMeta{
		Name: name,
		Hash: ecs.TypeOf[T]().Hash,
		Create: func(owner scene.Entity) any {
			if c, ok := scene.TryGet[T](owner); ok {
				return c
			}
			return scene.Add(owner, d.zero())
		},
		Remove: func(owner scene.Entity) {
			if scene.Has[T](owner) {
				scene.Remove[T](owner)
			}
		},
		Get: func(owner scene.Entity) any {
			if c, ok := scene.TryGet[T](owner); ok {
				return c
			}
			return nil
		},
		Has: func(owner scene.Entity) bool { return scene.Has[T](owner) },
	}
	if ser := d.serialize; ser != nil {
		m.Serialize = func(v any) (json.RawMessage, error) { return ser(v.(*T)) }
	}
	if de := d.deserialize; de != nil {
		m.Deserialize = func(data json.RawMessage, owner scene.Entity, v any) error { return de(data, owner, v.(*T)) }
	}
	if draw := d.draw; draw != nil {
		m.DrawEditor = func(ctx editor.Context, v any) bool { return draw(ctx, v.(*T)) }
	}
	return m
}

// Of returns the meta registered for T.
func Of[T any](r *Registry) (ComponentMeta, bool) {
	return r.LookupByHash(ecs.TypeOf[T]().Hash)
}
