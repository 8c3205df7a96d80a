// Package scripting bridges gopher-lua into the scheduler: Lua predicates
// become run conditions and Lua tick handlers become systems. Go owns the
// loop and the world; Lua owns the decision logic.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/l1jgo/loopkit/ecs"
	"github.com/l1jgo/loopkit/system"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single Lua VM. Single-goroutine access only (frame loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in the given
// directory. A missing directory yields an empty but usable engine.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory, skipping it if absent.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// Expose registers a Go function as a Lua global, so scripts can query host
// state (counts, flags) without touching the world directly.
func (e *Engine) Expose(name string, fn func() int) {
	e.vm.SetGlobal(name, e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(fn()))
		return 1
	}))
}

// Condition returns a run condition backed by the named Lua predicate. The
// predicate is called with no arguments and must return a boolean. A missing
// function or a script error is logged and evaluates false: scripted gates
// fail closed rather than crashing the frame loop.
func (e *Engine) Condition(fnName string) system.Condition {
	return system.ConditionFunc(func(_ *ecs.World) bool {
		fn := e.vm.GetGlobal(fnName)
		if fn == lua.LNil {
			e.log.Error("lua condition not found", zap.String("fn", fnName))
			return false
		}
		if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
			e.log.Error("lua condition error", zap.String("fn", fnName), zap.Error(err))
			return false
		}
		ret := e.vm.Get(-1)
		e.vm.Pop(1)
		return lua.LVAsBool(ret)
	})
}

// System returns a system backed by the named Lua tick handler. The handler
// is called with the frame delta in milliseconds. Errors are logged and the
// tick becomes a no-op.
func (e *Engine) System(fnName string) system.System {
	return system.SystemFunc(func(_ *ecs.World, dt time.Duration) {
		fn := e.vm.GetGlobal(fnName)
		if fn == lua.LNil {
			e.log.Error("lua system not found", zap.String("fn", fnName))
			return
		}
		ms := lua.LNumber(float64(dt) / float64(time.Millisecond))
		if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, ms); err != nil {
			e.log.Error("lua system error", zap.String("fn", fnName), zap.Error(err))
		}
	})
}
