// Package inspector draws scene entities and their components through the
// component meta registry.
package inspector

import (
	"fmt"

	"github.com/jamgo/engine/internal/component"
	"github.com/jamgo/engine/internal/core/ecs"
	"github.com/jamgo/engine/internal/editor"
	"github.com/jamgo/engine/internal/meta"
	"github.com/jamgo/engine/internal/scene"
)

// Inspector keeps the entity selection between frames.
type Inspector struct {
	metas    *meta.Registry
	selected ecs.EntityID
	adding   int
}

func New(metas *meta.Registry) *Inspector {
	return &Inspector{metas: metas}
}

func (in *Inspector) Select(e scene.Entity) { in.selected = e.ID() }

// Selected returns the selected entity of s, or the null entity when the
// selection is no longer alive.
func (in *Inspector) Selected(s *scene.Scene) scene.Entity { return s.GetEntity(in.selected) }

// Label names an entity by its tag when it has one.
func Label(e scene.Entity) string {
	if t, ok := scene.TryGet[component.Tag](e); ok && t.Name != "" {
		return fmt.Sprintf("%s #%d", t.Name, e.ID().Index())
	}
	return fmt.Sprintf("Entity #%d", e.ID().Index())
}

// DrawEntityList draws one button per entity; pressing it selects the entity.
func (in *Inspector) DrawEntityList(ctx editor.Context, s *scene.Scene) {
	if !ctx.Header(fmt.Sprintf("%s (%d entities)", s.Name(), s.EntityCount())) {
		return
	}
	for _, e := range s.Entities() {
		label := Label(e)
		if e.ID() == in.selected {
			label = "> " + label
		}
		if ctx.Button(label) {
			in.Select(e)
		}
	}
}

// DrawEntity draws the editor of every component e has, followed by a combo
// that adds a missing component. It reports whether anything changed.
func (in *Inspector) DrawEntity(ctx editor.Context, e scene.Entity) bool {
	// Every entity keeps its transform, so it is never offered for removal.
	transform, _ := meta.Of[component.Transform](in.metas)
	changed := false
	var missing []string
	for _, m := range in.metas.Metas() {
		if !in.metas.HasComponent(m.Name, e) {
			missing = append(missing, m.Name)
			continue
		}
		if m.DrawEditor == nil {
			ctx.Label(m.Name)
			continue
		}
		if !ctx.Header(m.Name) {
			continue
		}
		v := in.metas.GetComponentOrNull(m.Name, e)
		if in.metas.DrawComponentEditor(m.Name, ctx, v) {
			changed = true
		}
		if m.Name != transform.Name && ctx.Button("remove "+m.Name) {
			in.metas.RemoveComponent(m.Name, e)
			changed = true
		}
	}
	if len(missing) == 0 {
		return changed
	}
	items := append([]string{"(add component)"}, missing...)
	if in.adding >= len(items) {
		in.adding = 0
	}
	ctx.Combo("add", &in.adding, items)
	if in.adding > 0 && ctx.Button("create "+items[in.adding]) {
		in.metas.CreateComponent(items[in.adding], e)
		in.adding = 0
		changed = true
	}
	return changed
}

// Draw draws the entity list and the selected entity.
func (in *Inspector) Draw(ctx editor.Context, s *scene.Scene) bool {
	in.DrawEntityList(ctx, s)
	e := in.Selected(s)
	if !e.IsValid() {
		return false
	}
	ctx.Separator()
	ctx.Label(Label(e))
	return in.DrawEntity(ctx, e)
}
