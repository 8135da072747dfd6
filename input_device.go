// input_device.go - Controller port emulation for Revolution Engine

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"sync"
)

// Pad button bits as seen by the guest at INPUT_STATE_ADDR.
const (
	BUTTON_UP    = 0x0001
	BUTTON_DOWN  = 0x0002
	BUTTON_LEFT  = 0x0004
	BUTTON_RIGHT = 0x0008
	BUTTON_A     = 0x0100
	BUTTON_B     = 0x0200
	BUTTON_X     = 0x0400
	BUTTON_Y     = 0x0800
	BUTTON_START = 0x1000
)

// InputDevice exposes the first controller port as a single read-only
// word. The host side feeds it through a provider callback so the
// device itself stays agnostic of where button state comes from
// (window keyboard, raw terminal, script).
type InputDevice struct {
	mutex    sync.RWMutex
	provider func() uint32
}

func NewInputDevice() *InputDevice {
	return &InputDevice{}
}

// SetProvider installs the callback that supplies the current button
// mask. A nil provider reads as no buttons held.
func (id *InputDevice) SetProvider(provider func() uint32) {
	id.mutex.Lock()
	id.provider = provider
	id.mutex.Unlock()
}

func (id *InputDevice) HandleRead(addr uint32) uint32 {
	id.mutex.RLock()
	provider := id.provider
	id.mutex.RUnlock()
	if provider == nil {
		return 0
	}
	return provider()
}

func (id *InputDevice) HandleWrite(addr uint32, value uint32) {
	fmt.Printf("Warning: Write to read-only input state register 0x%08X\n", addr)
}
