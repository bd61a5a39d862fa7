// Package script provides entities whose behavior is written in Lua.
//
// A script defines any of the global hook functions below; missing hooks
// are skipped. Every hook receives the entity's self table first.
//
//	function added(self) end
//	function awake(self) end
//	function removed(self) end
//	function scene_begin(self) end
//	function scene_end(self) end
//	function update(self, dt) end
//	function render(self, gfx) end
//
// The self table exposes the entity:
//
//	self:name()                 -> string
//	self:position()             -> x, y
//	self:set_position(x, y)
//	self:depth()                -> int
//	self:set_depth(d)
//	self:set_visible(bool)
//	self:set_active(bool)
//	self:time_active()          -> seconds, 0 when detached
//	self:remove()
//
// and gfx:fill_rect(x, y, w, h, r, g, b, a) draws through the active camera.
package script

import (
	"fmt"

	"github.com/phanxgames/thicket"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Entity is a thicket entity driven by its own Lua VM.
// Single-goroutine access only (game loop).
//
// The VM lives until Close. Set CloseOnRemove for entities that are never
// re-added once removed; otherwise the owner closes them, typically from
// the scene's OnEnd.
type Entity struct {
	thicket.EntityCore

	// CloseOnRemove closes the VM right after the removed hook runs.
	CloseOnRemove bool

	vm     *lua.LState
	closed bool
	log  *zap.Logger
	self *lua.LTable
	gfx  *lua.LTable
	ctx  *thicket.RenderContext
	err  error
}

// New creates an entity named name and runs source to define its hooks.
func New(name, source string, log *zap.Logger) (*Entity, error) {
	e := newEntity(name, log)
	if err := e.vm.DoString(source); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load script %s: %w", name, err)
	}
	e.log.Debug("loaded lua script", zap.String("entity", name))
	return e, nil
}

// NewFromFile creates an entity named name from the Lua file at path.
func NewFromFile(name, path string, log *zap.Logger) (*Entity, error) {
	e := newEntity(name, log)
	if err := e.vm.DoFile(path); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("entity", name), zap.String("file", path))
	return e, nil
}

func newEntity(name string, log *zap.Logger) *Entity {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Entity{
		EntityCore: thicket.NewEntityCore(0, 0),
		vm:         lua.NewState(),
		log:        log,
	}
	e.Name = name
	e.vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e.self = e.bindSelf()
	e.gfx = e.bindGfx()
	return e
}

func (e *Entity) bindSelf() *lua.LTable {
	L := e.vm
	t := L.NewTable()
	fns := map[string]lua.LGFunction{
		"name": func(L *lua.LState) int {
			L.Push(lua.LString(e.Name))
			return 1
		},
		"position": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.Position.X))
			L.Push(lua.LNumber(e.Position.Y))
			return 2
		},
		"set_position": func(L *lua.LState) int {
			e.SetPosition(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
			return 0
		},
		"depth": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.Depth()))
			return 1
		},
		"set_depth": func(L *lua.LState) int {
			e.SetDepth(L.CheckInt(2))
			return 0
		},
		"set_visible": func(L *lua.LState) int {
			e.Visible = L.CheckBool(2)
			return 0
		},
		"set_active": func(L *lua.LState) int {
			e.Active = L.CheckBool(2)
			return 0
		},
		"time_active": func(L *lua.LState) int {
			var t float64
			if s := e.Scene(); s != nil {
				t = s.TimeActive()
			}
			L.Push(lua.LNumber(t))
			return 1
		},
		"remove": func(L *lua.LState) int {
			e.RemoveSelf()
			return 0
		},
	}
	for name, fn := range fns {
		t.RawSetString(name, L.NewFunction(fn))
	}
	return t
}

func (e *Entity) bindGfx() *lua.LTable {
	L := e.vm
	t := L.NewTable()
	t.RawSetString("fill_rect", L.NewFunction(func(L *lua.LState) int {
		if e.ctx == nil {
			L.RaiseError("fill_rect called outside render")
			return 0
		}
		r := thicket.Rect{
			X:      float64(L.CheckNumber(2)),
			Y:      float64(L.CheckNumber(3)),
			Width:  float64(L.CheckNumber(4)),
			Height: float64(L.CheckNumber(5)),
		}
		c := thicket.Color{
			R: float64(L.OptNumber(6, 1)),
			G: float64(L.OptNumber(7, 1)),
			B: float64(L.OptNumber(8, 1)),
			A: float64(L.OptNumber(9, 1)),
		}
		e.ctx.FillRect(r, c)
		return 0
	}))
	return t
}

// call invokes the global hook fn if the script defines it. Errors are
// logged and kept for Err; the game loop continues.
func (e *Entity) call(fn string, args ...lua.LValue) {
	if e.closed {
		return
	}
	hook := e.vm.GetGlobal(fn)
	if hook == lua.LNil {
		return
	}
	err := e.vm.CallByParam(lua.P{
		Fn:      hook,
		NRet:    0,
		Protect: true,
	}, append([]lua.LValue{e.self}, args...)...)
	if err != nil {
		e.err = fmt.Errorf("lua %s: %w", fn, err)
		e.log.Error("lua hook error", zap.String("entity", e.Name), zap.String("hook", fn), zap.Error(err))
	}
}

// Err returns the most recent hook error, or nil.
func (e *Entity) Err() error { return e.err }

// SetGlobal exposes a value to the script before its hooks run.
func (e *Entity) SetGlobal(name string, v lua.LValue) {
	e.vm.SetGlobal(name, v)
}

// Close releases the Lua VM. Later hooks are no-ops; closing twice is safe.
func (e *Entity) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.vm.Close()
}

// Closed reports whether the VM has been released.
func (e *Entity) Closed() bool { return e.closed }

func (e *Entity) Added(s *thicket.Scene)      { e.call("added") }
func (e *Entity) Awake(s *thicket.Scene)      { e.call("awake") }
func (e *Entity) Removed(s *thicket.Scene) {
	e.call("removed")
	if e.CloseOnRemove {
		e.Close()
	}
}

func (e *Entity) SceneBegin(s *thicket.Scene) { e.call("scene_begin") }
func (e *Entity) SceneEnd(s *thicket.Scene)   { e.call("scene_end") }

func (e *Entity) Update(dt float64) {
	e.call("update", lua.LNumber(dt))
}

func (e *Entity) Render(ctx *thicket.RenderContext) {
	e.ctx = ctx
	e.call("render", e.gfx)
	e.ctx = nil
}
