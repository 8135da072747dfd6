// machine.go - Machine assembly and host loop for Revolution Engine

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// activeCPU lets the window close path stop the machine without
// plumbing a handle through the video backend.
var activeCPU *CPU

// Host pacing. The interpreter runs flat out and yields to the host on
// instruction-count boundaries rather than emulated time: a frame is
// presented every FRAME_CYCLES instructions and the goroutine sleeps a
// millisecond every THROTTLE_CYCLES so the host stays responsive.
const (
	FRAME_CYCLES    = 300000
	THROTTLE_CYCLES = 1000000
)

// Machine owns every component and the wiring between them. All guest
// visible state is driven from the single goroutine that calls Run;
// the presentation backends run their own goroutines but only consume
// data through the chip APIs.
type Machine struct {
	bus     *MachineBus
	intc    *InterruptController
	cpu     *CPU
	video   *VideoChip
	audio   *AudioChip
	input   *InputDevice
	starlet *Starlet
	script  *ScriptHost

	// inputSource supplies the pad mask when no script override is
	// active: the window keyboard in windowed mode, the raw terminal
	// in console mode.
	inputSource func() uint32

	maxCycles uint64
	status    atomic.Value // string shown by the backend status bar
}

func NewMachine(video *VideoChip, audio *AudioChip) *Machine {
	bus := NewMachineBus()
	intc := NewInterruptController()
	cpu := NewCPU(bus, intc)

	m := &Machine{
		bus:   bus,
		intc:  intc,
		cpu:   cpu,
		video: video,
		audio: audio,
		input: NewInputDevice(),
	}
	m.starlet = NewStarlet(bus, cpu, audio)

	// Map I/O regions for peripherals
	bus.MapIO(STARLET_IPC_BASE, STARLET_REG_END,
		m.starlet.HandleRead,
		m.starlet.HandleWrite)

	bus.MapIO(INPUT_STATE_ADDR, INPUT_STATE_ADDR,
		m.input.HandleRead,
		m.input.HandleWrite)

	if video != nil {
		bus.MapIO(FRAMEBUFFER_BASE, FRAMEBUFFER_END,
			nil,
			video.HandleWindowWrite)
	}

	m.input.SetProvider(m.padState)
	return m
}

// LoadBootImage resets guest memory, installs the default interrupt
// handlers and copies the image to physical address zero. An image
// that covers the vector table overrides the defaults, which is how
// guests install their own handlers.
func (m *Machine) LoadBootImage(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read boot image: %w", err)
	}

	m.bus.Reset()
	m.intc.InstallDefaultHandlers(m.bus)

	memory := m.bus.GetMemory()
	if len(data) > len(memory) {
		fmt.Printf("Warning: boot image truncated from %d to %d bytes\n", len(data), len(memory))
		data = data[:len(memory)]
	}
	copy(memory, data)
	m.cpu.Reset()

	fmt.Printf("Loaded boot image: %s (%d bytes)\n", path, len(data))
	return nil
}

// AttachScript loads a Lua automation script. The script body runs
// immediately; its on_frame hook then fires once per render tick.
func (m *Machine) AttachScript(path string) error {
	host := NewScriptHost(m)
	if err := host.Load(path); err != nil {
		host.Close()
		return err
	}
	m.script = host
	return nil
}

// SetInputSource installs the host-side pad state callback.
func (m *Machine) SetInputSource(source func() uint32) {
	m.inputSource = source
}

// SetMaxCycles caps the run at n executed instructions. Zero means no
// cap.
func (m *Machine) SetMaxCycles(n uint64) {
	m.maxCycles = n
}

// Stop requests a halt from any goroutine.
func (m *Machine) Stop() {
	m.cpu.Stop()
}

func (m *Machine) padState() uint32 {
	if m.script != nil {
		if mask, ok := m.script.ButtonOverride(); ok {
			return mask
		}
	}
	if m.inputSource != nil {
		return m.inputSource()
	}
	return 0
}

// statusLine is read by the backend's render goroutine; the machine
// goroutine refreshes it every present tick.
func (m *Machine) statusLine() string {
	if s, ok := m.status.Load().(string); ok {
		return s
	}
	return ""
}

func (m *Machine) presentTick() {
	if m.video != nil {
		m.video.Present()
	}
	m.status.Store(fmt.Sprintf("PC 0x%08X  CYCLES %d", m.cpu.PC, m.cpu.CycleCount))
	if m.script != nil {
		m.script.OnFrame()
	}
}

// Run drives the machine until the core halts. Every instruction step
// is followed by one coprocessor poll, so guest and coprocessor
// interleave deterministically regardless of host timing.
func (m *Machine) Run() {
	m.bus.SealMappings()
	activeCPU = m.cpu

	for m.cpu.Running {
		m.cpu.Step()
		m.starlet.Poll()

		if m.cpu.CycleCount%FRAME_CYCLES == 0 {
			m.presentTick()
		}
		if m.cpu.CycleCount%THROTTLE_CYCLES == 0 {
			time.Sleep(time.Millisecond)
		}
		if m.maxCycles > 0 && m.cpu.CycleCount >= m.maxCycles {
			fmt.Printf("Cycle limit reached: %d instructions executed\n", m.cpu.CycleCount)
			break
		}
	}

	// Final present so short runs still deliver their last frame.
	m.presentTick()
}
