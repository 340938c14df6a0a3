package script

// Component attaches a named script to an entity. The instance is created
// lazily by the System on the first frame it sees the component.
type Component struct {
	Name     string `json:"scriptName,omitempty"`
	Instance Script `json:"-"`

	stopped bool
	started bool
}

// New returns a component for the named script.
func New(name string) Component { return Component{Name: name} }

// Start resumes a stopped script.
func (c *Component) Start() { c.stopped = false }

// Stop pauses the script. OnStart runs again on restart.
func (c *Component) Stop() {
	c.stopped = true
	c.started = false
}

func (c *Component) Running() bool { return !c.stopped }
func (c *Component) Started() bool { return c.started }

// Clone keeps the name and run state. The clone gets its own instance.
func (c Component) Clone() Component {
	return Component{Name: c.Name, stopped: c.stopped}
}
