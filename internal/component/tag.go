package component

// Tag is a human-readable entity name.
type Tag struct {
	Name string `json:"name"`
}

// UnknownTag is used when a document omits the name.
const UnknownTag = "unknown"
