package scripting

import (
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/scene"
)

// luaScript adapts a Lua table to script.Script.
type luaScript struct {
	engine *Engine
	name   string
	self   *lua.LTable
	failed bool
}

func (s *luaScript) OnStart(scene.Entity) {
	s.call("on_start")
}

func (s *luaScript) OnUpdate(_ scene.Entity, dt time.Duration) {
	s.call("on_update", lua.LNumber(dt.Seconds()))
}

// call invokes a hook if the module defines it. A script that raised an error
// is not called again.
func (s *luaScript) call(hook string, args ...lua.LValue) {
	if s.failed {
		return
	}
	vm := s.engine.vm
	fn := vm.GetField(s.self, hook)
	if fn == lua.LNil {
		return
	}
	if err := vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, append([]lua.LValue{s.self}, args...)...); err != nil {
		s.failed = true
		s.engine.log.Error("lua script failed", zap.String("script", s.name), zap.String("hook", hook), zap.Error(err))
	}
}
