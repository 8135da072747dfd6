// script_lua.go - Lua automation host for Revolution Engine

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ScriptHost embeds a Lua interpreter for automation: poking guest
// memory, reading registers and driving the pad without a window. The
// interpreter only ever runs on the machine goroutine, between
// instruction steps, so scripts always see a quiesced machine.
//
// Globals exposed to the script:
//
//	peek(addr)       read a 32-bit word from the guest bus
//	poke(addr, val)  write a 32-bit word to the guest bus
//	reg(n)           read general purpose register n
//	setreg(n, val)   write general purpose register n
//	cycles()         executed instruction count
//	buttons(mask)    hold the given pad mask, overriding the host input
//
// If the script defines on_frame() it is called once per render tick.
type ScriptHost struct {
	state   *lua.LState
	machine *Machine

	padMask    uint32
	padMaskSet bool
}

func NewScriptHost(machine *Machine) *ScriptHost {
	host := &ScriptHost{
		state:   lua.NewState(),
		machine: machine,
	}
	host.registerGlobals()
	return host
}

// Load runs the script file top to bottom. Definitions it leaves
// behind, like on_frame, persist in the interpreter state.
func (sh *ScriptHost) Load(path string) error {
	return sh.state.DoFile(path)
}

// OnFrame invokes the script's on_frame hook if one is defined.
// Script errors are reported but never stop the machine.
func (sh *ScriptHost) OnFrame() {
	fn, ok := sh.state.GetGlobal("on_frame").(*lua.LFunction)
	if !ok {
		return
	}
	if err := sh.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		fmt.Printf("Warning: script on_frame error: %v\n", err)
	}
}

// ButtonOverride reports the pad mask the script asked for, if any.
func (sh *ScriptHost) ButtonOverride() (uint32, bool) {
	return sh.padMask, sh.padMaskSet
}

func (sh *ScriptHost) Close() {
	sh.state.Close()
}

func (sh *ScriptHost) registerGlobals() {
	L := sh.state
	L.SetGlobal("peek", L.NewFunction(sh.luaPeek))
	L.SetGlobal("poke", L.NewFunction(sh.luaPoke))
	L.SetGlobal("reg", L.NewFunction(sh.luaReg))
	L.SetGlobal("setreg", L.NewFunction(sh.luaSetReg))
	L.SetGlobal("cycles", L.NewFunction(sh.luaCycles))
	L.SetGlobal("buttons", L.NewFunction(sh.luaButtons))
}

func (sh *ScriptHost) luaPeek(L *lua.LState) int {
	addr := uint32(L.CheckInt64(1))
	L.Push(lua.LNumber(sh.machine.bus.Read32(addr)))
	return 1
}

func (sh *ScriptHost) luaPoke(L *lua.LState) int {
	addr := uint32(L.CheckInt64(1))
	value := uint32(L.CheckInt64(2))
	sh.machine.bus.Write32(addr, value)
	return 0
}

func (sh *ScriptHost) luaReg(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 || n > 31 {
		L.ArgError(1, "register index out of range")
		return 0
	}
	L.Push(lua.LNumber(sh.machine.cpu.GPR[n]))
	return 1
}

func (sh *ScriptHost) luaSetReg(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 || n > 31 {
		L.ArgError(1, "register index out of range")
		return 0
	}
	sh.machine.cpu.GPR[n] = uint32(L.CheckInt64(2))
	return 0
}

func (sh *ScriptHost) luaCycles(L *lua.LState) int {
	L.Push(lua.LNumber(sh.machine.cpu.CycleCount))
	return 1
}

func (sh *ScriptHost) luaButtons(L *lua.LState) int {
	sh.padMask = uint32(L.CheckInt64(1))
	sh.padMaskSet = true
	return 0
}
