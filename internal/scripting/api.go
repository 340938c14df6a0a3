package scripting

import (
	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/component"
	"github.com/jamgo/engine/internal/scene"
)

const entityTypeName = "jam.entity"

func (e *Engine) entityValue(owner scene.Entity) *lua.LUserData {
	ud := e.vm.NewUserData()
	ud.Value = owner
	e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(entityTypeName))
	return ud
}

func (e *Engine) apiTable() *lua.LTable {
	e.vm.NewTypeMetatable(entityTypeName)
	return e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"position":     e.luaPosition,
		"set_position": e.luaSetPosition,
		"translate":    e.luaTranslate,
		"tag":          e.luaTag,
		"valid":        e.luaValid,
		"log":          e.luaLog,
	})
}

func checkEntity(L *lua.LState, n int) scene.Entity {
	ud := L.CheckUserData(n)
	ent, ok := ud.Value.(scene.Entity)
	if !ok || !ent.IsValid() {
		L.ArgError(n, "live entity expected")
		return scene.Null
	}
	return ent
}

func (e *Engine) luaPosition(L *lua.LState) int {
	p := scene.Get[component.Transform](checkEntity(L, 1)).Position
	L.Push(lua.LNumber(p.X()))
	L.Push(lua.LNumber(p.Y()))
	L.Push(lua.LNumber(p.Z()))
	return 3
}

func (e *Engine) luaSetPosition(L *lua.LState) int {
	tr := scene.Get[component.Transform](checkEntity(L, 1))
	tr.Position = mgl32.Vec3{float32(L.CheckNumber(2)), float32(L.CheckNumber(3)), float32(L.CheckNumber(4))}
	return 0
}

func (e *Engine) luaTranslate(L *lua.LState) int {
	tr := scene.Get[component.Transform](checkEntity(L, 1))
	tr.Translate(mgl32.Vec3{float32(L.OptNumber(2, 0)), float32(L.OptNumber(3, 0)), float32(L.OptNumber(4, 0))})
	return 0
}

func (e *Engine) luaTag(L *lua.LState) int {
	if tag, ok := scene.TryGet[component.Tag](checkEntity(L, 1)); ok {
		L.Push(lua.LString(tag.Name))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

func (e *Engine) luaValid(L *lua.LState) int {
	ud := L.CheckUserData(1)
	ent, ok := ud.Value.(scene.Entity)
	L.Push(lua.LBool(ok && ent.IsValid()))
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
