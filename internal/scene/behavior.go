package scene

import (
	"encoding/json"
	"time"
)

// A scene's behavior is any value; the hooks below are discovered by type
// assertion so a behavior implements only what it needs.

type Attacher interface{ Attach(s *Scene) }
type Detacher interface{ Detach(s *Scene) }

type Enterer interface{ Enter(s *Scene) }
type Exiter interface{ Exit(s *Scene) }

type Updater interface {
	Update(s *Scene, dt time.Duration)
}
type FinalUpdater interface {
	FinalUpdate(s *Scene, dt time.Duration)
}

type BeginRenderer interface{ BeginRender(s *Scene) }
type Renderer interface{ Render(s *Scene) }
type UIRenderer interface{ RenderUI(s *Scene) }
type EndRenderer interface{ EndRender(s *Scene) }

type EventHandler interface {
	HandleEvent(s *Scene, ev any)
}

// UserDataCodec stores behavior-owned state in the "userdata" section of the
// scene document. A nil or empty message is omitted.
type UserDataCodec interface {
	MarshalUserData(s *Scene) (json.RawMessage, error)
	UnmarshalUserData(s *Scene, data json.RawMessage) error
}

func (s *Scene) Attach() {
	if h, ok := s.behavior.(Attacher); ok {
		h.Attach(s)
	}
}

func (s *Scene) Detach() {
	if h, ok := s.behavior.(Detacher); ok {
		h.Detach(s)
	}
}

func (s *Scene) Enter() {
	if h, ok := s.behavior.(Enterer); ok {
		h.Enter(s)
	}
}

func (s *Scene) Exit() {
	if h, ok := s.behavior.(Exiter); ok {
		h.Exit(s)
	}
}

func (s *Scene) Update(dt time.Duration) {
	if h, ok := s.behavior.(Updater); ok {
		h.Update(s, dt)
	}
}

func (s *Scene) FinalUpdate(dt time.Duration) {
	if h, ok := s.behavior.(FinalUpdater); ok {
		h.FinalUpdate(s, dt)
	}
}

func (s *Scene) BeginRender() {
	if h, ok := s.behavior.(BeginRenderer); ok {
		h.BeginRender(s)
	}
}

func (s *Scene) Render() {
	if h, ok := s.behavior.(Renderer); ok {
		h.Render(s)
	}
}

func (s *Scene) RenderUI() {
	if h, ok := s.behavior.(UIRenderer); ok {
		h.RenderUI(s)
	}
}

func (s *Scene) EndRender() {
	if h, ok := s.behavior.(EndRenderer); ok {
		h.EndRender(s)
	}
}

func (s *Scene) HandleEvent(ev any) {
	if h, ok := s.behavior.(EventHandler); ok {
		h.HandleEvent(s, ev)
	}
}

// MarshalUserData returns nil when the behavior keeps no user data.
func (s *Scene) MarshalUserData() (json.RawMessage, error) {
	if h, ok := s.behavior.(UserDataCodec); ok {
		return h.MarshalUserData(s)
	}
	return nil, nil
}

func (s *Scene) UnmarshalUserData(data json.RawMessage) error {
	if h, ok := s.behavior.(UserDataCodec); ok {
		return h.UnmarshalUserData(s, data)
	}
	return nil
}
