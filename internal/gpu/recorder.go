package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/core/contract"
)

// Op names a recorded device call.
type Op string

const (
	OpCreateTexture   Op = "CreateTexture"
	OpReleaseTexture  Op = "ReleaseTexture"
	OpCreateProgram   Op = "CreateProgram"
	OpBindResource    Op = "BindShaderResource"
	OpUnbindResources Op = "UnbindShaderResources"
	OpBindTarget      Op = "BindRenderTarget"
	OpUnbindTargets   Op = "UnbindRenderTargets"
	OpBindProgram     Op = "BindProgram"
	OpDraw            Op = "DrawFullScreenQuad"
)

// Call is one recorded device call. Only the fields relevant to Op are set.
type Call struct {
	Op      Op
	Stage   Stage
	Slot    int
	Count   int
	Texture Texture
	Program Program
}

func (c Call) String() string {
	switch c.Op {
	case OpBindResource:
		return fmt.Sprintf("%s(%s, %d, %s)", c.Op, c.Stage, c.Slot, c.Texture.Label())
	case OpUnbindResources:
		return fmt.Sprintf("%s(%s, %d, %d)", c.Op, c.Stage, c.Slot, c.Count)
	case OpCreateTexture, OpReleaseTexture, OpBindTarget:
		return fmt.Sprintf("%s(%s)", c.Op, c.Texture.Label())
	case OpCreateProgram, OpBindProgram:
		return fmt.Sprintf("%s(%s)", c.Op, c.Program.Name())
	}
	return string(c.Op) + "()"
}

// ErrInvalidDescriptor is returned for zero-sized or formatless textures.
var ErrInvalidDescriptor = errors.New("invalid texture descriptor")

type texture struct {
	id   uint64
	desc gputypes.TextureDescriptor
}

func (t *texture) Label() string                  { return t.desc.Label }
func (t *texture) Width() uint32                  { return t.desc.Size.Width }
func (t *texture) Height() uint32                 { return t.desc.Size.Height }
func (t *texture) Format() gputypes.TextureFormat { return t.desc.Format }

type program struct {
	desc ProgramDesc
}

func (p *program) Name() string { return p.desc.Name }

// Recorder is a headless Device. It allocates no GPU memory and records every
// call so a frame can be inspected or replayed in tests.
type Recorder struct {
	log *zap.Logger

	calls  []Call
	nextID uint64
	live   map[*texture]struct{}

	failTextures map[string]error
	failPrograms map[string]error
}

func NewRecorder(log *zap.Logger) *Recorder {
	return &Recorder{
		log:          log,
		live:         make(map[*texture]struct{}),
		failTextures: make(map[string]error),
		failPrograms: make(map[string]error),
	}
}

// FailTexture makes CreateTexture return err for textures labelled label.
func (r *Recorder) FailTexture(label string, err error) { r.failTextures[label] = err }

// FailProgram makes CreateProgram return err for the named program.
func (r *Recorder) FailProgram(name string, err error) { r.failPrograms[name] = err }

func (r *Recorder) record(c Call) { r.calls = append(r.calls, c) }

func (r *Recorder) CreateTexture(desc *gputypes.TextureDescriptor) (Texture, error) {
	if err, ok := r.failTextures[desc.Label]; ok {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}
	if desc.Size.Width == 0 || desc.Size.Height == 0 || desc.Format == gputypes.TextureFormatUndefined {
		return nil, fmt.Errorf("create texture %q (%dx%d %s): %w",
			desc.Label, desc.Size.Width, desc.Size.Height, desc.Format, ErrInvalidDescriptor)
	}
	r.nextID++
	t := &texture{id: r.nextID, desc: *desc}
	r.live[t] = struct{}{}
	r.record(Call{Op: OpCreateTexture, Texture: t})
	r.log.Debug("texture created",
		zap.String("label", desc.Label),
		zap.Uint32("width", desc.Size.Width),
		zap.Uint32("height", desc.Size.Height),
		zap.Stringer("format", desc.Format),
	)
	return t, nil
}

func (r *Recorder) ReleaseTexture(t Texture) {
	rt, ok := t.(*texture)
	contract.Assert(ok, "texture %T was not created by this device", t)
	_, live := r.live[rt]
	contract.Assert(live, "texture %q released twice", rt.Label())
	delete(r.live, rt)
	r.record(Call{Op: OpReleaseTexture, Texture: t})
}

func (r *Recorder) CreateProgram(desc ProgramDesc) (Program, error) {
	if err, ok := r.failPrograms[desc.Name]; ok {
		return nil, fmt.Errorf("create program %q: %w", desc.Name, err)
	}
	p := &program{desc: desc}
	r.record(Call{Op: OpCreateProgram, Program: p})
	return p, nil
}

func (r *Recorder) BindShaderResource(stage Stage, slot int, t Texture) {
	contract.Assert(t != nil, "binding nil texture to %s slot %d", stage, slot)
	r.record(Call{Op: OpBindResource, Stage: stage, Slot: slot, Texture: t})
}

func (r *Recorder) UnbindShaderResources(stage Stage, slot, count int) {
	contract.Assert(count > 0, "unbinding %d %s slots", count, stage)
	r.record(Call{Op: OpUnbindResources, Stage: stage, Slot: slot, Count: count})
}

func (r *Recorder) BindRenderTarget(t Texture) {
	contract.Assert(t != nil, "binding nil render target")
	r.record(Call{Op: OpBindTarget, Texture: t})
}

func (r *Recorder) UnbindRenderTargets() { r.record(Call{Op: OpUnbindTargets}) }

func (r *Recorder) BindProgram(p Program) {
	contract.Assert(p != nil, "binding nil program")
	r.record(Call{Op: OpBindProgram, Program: p})
}

func (r *Recorder) DrawFullScreenQuad() { r.record(Call{Op: OpDraw}) }

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsOf returns the recorded calls with the given op.
func (r *Recorder) CallsOf(op Op) []Call {
	var out []Call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls. Live textures stay live.
func (r *Recorder) Reset() { r.calls = r.calls[:0] }

// Live reports how many textures have been created and not released.
func (r *Recorder) Live() int { return len(r.live) }

// Draws counts recorded full-screen draws.
func (r *Recorder) Draws() int { return len(r.CallsOf(OpDraw)) }
