package app

import "time"

// Layer is one slice of the application frame. Layers are updated and
// rendered in stack order and receive every dispatched event.
type Layer interface {
	Name() string
	Attach(a *Application)
	Detach()
	Update(dt time.Duration)
	FinalUpdate(dt time.Duration)
	BeginRender()
	Render()
	EndRender()
	HandleEvent(ev any)
}

// BaseLayer implements every Layer hook except Name as a no-op.
type BaseLayer struct{}

func (BaseLayer) Attach(*Application)       {}
func (BaseLayer) Detach()                   {}
func (BaseLayer) Update(time.Duration)      {}
func (BaseLayer) FinalUpdate(time.Duration) {}
func (BaseLayer) BeginRender()              {}
func (BaseLayer) Render()                   {}
func (BaseLayer) EndRender()                {}
func (BaseLayer) HandleEvent(any)           {}
