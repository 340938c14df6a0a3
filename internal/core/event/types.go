package event

// AssetLoaded is emitted after an asset enters a scene's asset manager.
type AssetLoaded struct {
	Kind string
	Path string
}

// AssetModified is emitted when a loaded asset is reloaded with new content.
type AssetModified struct {
	Kind string
	Path string
}

// AssetUnloaded is emitted after an asset leaves a scene's asset manager.
type AssetUnloaded struct {
	Kind string
	Path string
}

// SceneChanged is emitted once a deferred scene switch has been applied.
type SceneChanged struct {
	From string
	To   string
}

// WindowResized carries the new back-buffer size.
type WindowResized struct {
	Width  int
	Height int
}
