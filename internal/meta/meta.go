// Package meta maps component names and type hashes to type-erased
// operations so scenes can be built, saved and edited by name.
package meta

import (
	"encoding/json"

	"github.com/jamgo/engine/internal/editor"
	"github.com/jamgo/engine/internal/scene"
)

type (
	CreateFunc func(owner scene.Entity) any
	RemoveFunc func(owner scene.Entity)
	GetFunc    func(owner scene.Entity) any
	HasFunc    func(owner scene.Entity) bool

	SerializeFunc   func(v any) (json.RawMessage, error)
	DeserializeFunc func(data json.RawMessage, owner scene.Entity, v any) error
	DrawEditorFunc  func(ctx editor.Context, v any) bool
)

// ComponentMeta is the operation table of one component type. Create returns
// a pointer to the component, reusing an existing one. Get returns nil when
// the owner lacks the component. Serialize, Deserialize and DrawEditor are nil
// for types that opted out.
type ComponentMeta struct {
	Name string
	Hash uint64

	Create CreateFunc
	Remove RemoveFunc
	Get    GetFunc
	Has    HasFunc

	Serialize   SerializeFunc
	Deserialize DeserializeFunc
	DrawEditor  DrawEditorFunc
}
