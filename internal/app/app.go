// Package app runs the frame loop over a stack of layers.
package app

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/config"
	"github.com/jamgo/engine/internal/core/command"
	"github.com/jamgo/engine/internal/core/contract"
	"github.com/jamgo/engine/internal/core/event"
)

// Application owns the layer stack, the event bus and the command queue.
// Layers are attached and removed between frames or through Submit.
type Application struct {
	cfg     *config.Config
	log     *zap.Logger
	bus     *event.Bus
	queue   *command.Queue
	layers  []Layer
	ctx     context.Context
	running atomic.Bool
	frames  uint64
}

// New creates the content directories named by cfg and an application with
// an empty layer stack.
func New(cfg *config.Config, log *zap.Logger) (*Application, error) {
	for _, dir := range cfg.Paths.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create content directory %s: %w", dir, err)
		}
	}
	a := &Application{
		cfg:   cfg,
		log:   log,
		bus:   event.NewBus(),
		queue: command.NewQueue(),
		ctx:   context.Background(),
	}
	a.bus.SubscribeAll(a.dispatch)
	return a, nil
}

func (a *Application) Config() *config.Config   { return a.cfg }
func (a *Application) Logger() *zap.Logger      { return a.log }
func (a *Application) Bus() *event.Bus          { return a.bus }
func (a *Application) Queue() *command.Queue    { return a.queue }
func (a *Application) Frames() uint64           { return a.frames }
func (a *Application) Running() bool            { return a.running.Load() }
func (a *Application) Context() context.Context { return a.ctx }

// AttachLayer pushes l onto the back of the stack, or the front when front
// is set, and attaches it. Layer names are unique.
func (a *Application) AttachLayer(l Layer, front bool) Layer {
	contract.Assert(l != nil, "nil layer attached")
	_, dup := a.find(l.Name())
	contract.Assert(dup < 0, "layer %q is already attached", l.Name())
	if front {
		a.layers = append([]Layer{l}, a.layers...)
	} else {
		a.layers = append(a.layers, l)
	}
	l.Attach(a)
	a.log.Debug("layer attached", zap.String("layer", l.Name()), zap.Bool("front", front))
	return l
}

// RemoveLayer detaches and removes the named layer.
func (a *Application) RemoveLayer(name string) {
	l, i := a.find(name)
	contract.Assert(i >= 0, "layer %q is not attached", name)
	a.layers = append(a.layers[:i], a.layers[i+1:]...)
	l.Detach()
	a.log.Debug("layer removed", zap.String("layer", name))
}

// Layer returns the named layer.
func (a *Application) Layer(name string) (Layer, bool) {
	l, i := a.find(name)
	return l, i >= 0
}

// Layers returns the stack in frame order.
func (a *Application) Layers() []string {
	names := make([]string, len(a.layers))
	for i, l := range a.layers {
		names[i] = l.Name()
	}
	return names
}

func (a *Application) find(name string) (Layer, int) {
	for i, l := range a.layers {
		if l.Name() == name {
			return l, i
		}
	}
	return nil, -1
}

// Submit defers fn to the next queue drain. Safe from any goroutine.
func (a *Application) Submit(fn func()) { a.queue.Submit(fn) }

// Quit stops Run after the current frame. Safe from any goroutine.
func (a *Application) Quit() { a.running.Store(false) }

// Resize announces a new back-buffer size to every layer next frame.
func (a *Application) Resize(width, height int) {
	event.Emit(a.bus, event.WindowResized{Width: width, Height: height})
}

// Frame runs one full frame: queued commands, last frame's events, update,
// final update, queued commands again, then the render hooks.
func (a *Application) Frame(dt time.Duration) {
	a.queue.Execute()

	a.bus.SwapBuffers()
	a.bus.DispatchAll()

	for _, l := range a.layers {
		l.Update(dt)
	}
	for _, l := range a.layers {
		l.FinalUpdate(dt)
	}

	// Scene switches requested during update land before rendering.
	a.queue.Execute()

	for _, l := range a.layers {
		l.BeginRender()
	}
	for _, l := range a.layers {
		l.Render()
	}
	for _, l := range a.layers {
		l.EndRender()
	}
	a.frames++
}

// Run ticks Frame at the configured rate until ctx is done, Quit is called
// or the configured frame limit is reached.
func (a *Application) Run(ctx context.Context) {
	contract.Assert(!a.running.Load(), "application is already running")
	a.ctx = ctx
	a.running.Store(true)
	defer a.running.Store(false)

	rate := a.cfg.Frame.Rate
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	a.log.Info("frame loop started", zap.Duration("rate", rate), zap.Strings("layers", a.Layers()))
	last := time.Now()
	for a.running.Load() {
		select {
		case <-ctx.Done():
			a.log.Info("frame loop cancelled", zap.Error(ctx.Err()))
			a.running.Store(false)
		case now := <-ticker.C:
			a.Frame(now.Sub(last))
			last = now
			if limit := a.cfg.Frame.MaxFrames; limit > 0 && a.frames >= uint64(limit) {
				a.running.Store(false)
			}
		}
	}
	a.log.Info("frame loop stopped", zap.Uint64("frames", a.frames))
}

func (a *Application) dispatch(ev any) {
	for _, l := range a.layers {
		l.HandleEvent(ev)
	}
}
