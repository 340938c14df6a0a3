package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/script"
	"github.com/jamgo/engine/internal/scene"
)

// Engine wraps a single gopher-lua VM hosting entity scripts.
// Single-goroutine access only (frame loop).
//
// Every .lua file in the scripts directory must return a table; the file name
// without extension becomes the script name. The table may define
// on_start(self) and on_update(self, dt) where self.entity is the owner.
type Engine struct {
	vm      *lua.LState
	log     *zap.Logger
	modules map[string]*lua.LTable
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, modules: make(map[string]*lua.LTable)}
	vm.SetGlobal("jam", e.apiTable())

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) Close() { e.vm.Close() }

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		name := strings.TrimSuffix(entry.Name(), ".lua")
		mod, err := e.loadModule(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.modules[name] = mod
		e.log.Debug("loaded lua script", zap.String("file", path), zap.String("script", name))
	}
	return nil
}

func (e *Engine) loadModule(path string) (*lua.LTable, error) {
	fn, err := e.vm.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		return nil, err
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("script returned %s, want table", ret.Type())
	}
	return tbl, nil
}

// Names returns every loaded script name, sorted.
func (e *Engine) Names() []string {
	out := make([]string, 0, len(e.modules))
	for name := range e.modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Register adds one script meta per loaded module.
func (e *Engine) Register(r *script.Registry) {
	for _, name := range e.Names() {
		mod := e.modules[name]
		r.Register(script.Meta{
			Name: name,
			Create: func(owner scene.Entity) script.Script {
				return e.newInstance(name, mod, owner)
			},
		})
	}
}

func (e *Engine) newInstance(name string, mod *lua.LTable, owner scene.Entity) *luaScript {
	self := e.vm.NewTable()
	meta := e.vm.NewTable()
	meta.RawSetString("__index", mod)
	e.vm.SetMetatable(self, meta)
	self.RawSetString("entity", e.entityValue(owner))
	self.RawSetString("name", lua.LString(name))
	return &luaScript{engine: e, name: name, self: self}
}
