package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhasePreUpdate   Phase = iota // 0: react to last frame's events
	PhaseUpdate                   // 1: scene logic and scripts
	PhaseFinalUpdate              // 2: late logic after every update
	PhaseCleanup                  // 3: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhaseFinalUpdate:
		return "final-update"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every scene system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Func adapts a function to System.
type Func struct {
	P  Phase
	Fn func(dt time.Duration)
}

func (f Func) Phase() Phase            { return f.P }
func (f Func) Update(dt time.Duration) { f.Fn(dt) }
