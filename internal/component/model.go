package component

// ModelRef is the asset a Model component resolves to. Implemented by assets.Model.
type ModelRef interface {
	AssetPath() string
}

// Model attaches a model asset to an entity. Only the path is persisted.
type Model struct {
	Path  string   `json:"path,omitempty"`
	Asset ModelRef `json:"-"`
}

// Loaded reports whether the asset has been resolved.
func (m Model) Loaded() bool { return m.Asset != nil }
