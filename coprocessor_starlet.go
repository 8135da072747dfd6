// coprocessor_starlet.go - Starlet I/O coprocessor

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

/*
coprocessor_starlet.go - Starlet I/O Coprocessor

The Starlet fronts bulk memory copies and audio staging for the main core.
The guest programs it through the IPC register block at 0xCD000000: store a
parameter block address, store a command, then wait for the completion
interrupt (or spin on STARLET_STATUS).

The machine polls the Starlet exactly once per executed instruction, after
the instruction retires. A non-zero command register is consumed and fully
serviced inside that poll: parameter fetch, transfer, response, status,
interrupt. Nothing of the guest runs in between, which stands in for what
would be an asynchronous DMA engine on real hardware. Tests that assume
overlap are testing the wrong machine.

Command summary:

    1 Init         response 0
    2 Reset        response 0
    3 Read         copy words, params: src, dst, size
    4 Write        copy words, params: src, dst, size
    5 Audio stage  copy bytes into the audio ring, params: addr, size
    other          response 0xFF

Every serviced command, the unknown ones included, sets STARLET_STATUS to
done, clears the command register to re-arm, and raises interrupt 1.
*/

package main

import "fmt"

type Starlet struct {
	/*
		Starlet holds the IPC shadow registers and the device wiring.

		All access happens on the machine goroutine: HandleRead and
		HandleWrite are called from CPU loads/stores through the bus,
		Poll from the run loop. No locking needed.
	*/

	bus   Bus32
	cpu   *CPU
	audio *AudioChip

	// MMIO shadow registers
	command    uint32
	response   uint32
	paramAddr  uint32
	resultAddr uint32
	status     uint32
}

func NewStarlet(bus Bus32, cpu *CPU, audio *AudioChip) *Starlet {
	return &Starlet{
		bus:   bus,
		cpu:   cpu,
		audio: audio,
	}
}

func (s *Starlet) readReg(regBase uint32) uint32 {
	switch regBase {
	case STARLET_CMD:
		return s.command
	case STARLET_RESPONSE:
		return s.response
	case STARLET_PARAM_ADDR:
		return s.paramAddr
	case STARLET_RESULT_ADDR:
		return s.resultAddr
	case STARLET_STATUS:
		return s.status
	default:
		return 0
	}
}

func (s *Starlet) writeReg(regBase, val uint32) {
	switch regBase {
	case STARLET_CMD:
		s.command = val
	case STARLET_RESPONSE:
		s.response = val
	case STARLET_PARAM_ADDR:
		s.paramAddr = val
	case STARLET_RESULT_ADDR:
		s.resultAddr = val
	case STARLET_STATUS:
		s.status = val
	}
}

// HandleRead reads an IPC register. The block is word-access only;
// unaligned addresses round down to the register base.
func (s *Starlet) HandleRead(addr uint32) uint32 {
	return s.readReg(addr &^ 3)
}

// HandleWrite writes an IPC register. Writing STARLET_CMD does not
// dispatch; the command is picked up by the next Poll.
func (s *Starlet) HandleWrite(addr uint32, val uint32) {
	s.writeReg(addr&^3, val)
}

// Poll services at most one pending command. Called once per interpreter
// step by the machine loop.
func (s *Starlet) Poll() {
	if s.command == 0 {
		return
	}

	fmt.Printf("Handling Starlet command: 0x%02X\n", s.command)

	switch s.command {
	case STARLET_CMD_INIT:
		fmt.Println("Starlet: Initialize Command Received")
		s.response = STARLET_RESP_OK

	case STARLET_CMD_RESET:
		fmt.Println("Starlet: Reset Command Received")
		s.response = STARLET_RESP_OK

	case STARLET_CMD_READ:
		s.cmdCopy("Read")

	case STARLET_CMD_WRITE:
		s.cmdCopy("Write")

	case STARLET_CMD_AUDIO_STAGE:
		s.cmdAudioStage()

	default:
		fmt.Printf("Starlet: Unknown Command: 0x%02X\n", s.command)
		s.response = STARLET_RESP_UNKNOWN_CMD
	}

	s.status = STARLET_STATUS_DONE
	s.command = 0
	s.cpu.RaiseInterrupt(INT_STARLET)
}

// cmdCopy performs a synchronous word-wise memory-to-memory transfer. Read
// and Write share the transfer engine; the direction only matters to the
// guest's descriptor convention.
func (s *Starlet) cmdCopy(label string) {
	src := s.bus.Read32(s.paramAddr)
	dst := s.bus.Read32(s.paramAddr + 4)
	size := s.bus.Read32(s.paramAddr + 8)

	fmt.Printf("Starlet: %s Command - Src: 0x%08X Dest: 0x%08X Size: %d\n",
		label, src, dst, size)

	for i := uint32(0); i < size; i += 4 {
		s.bus.Write32(dst+i, s.bus.Read32(src+i))
	}

	s.response = STARLET_RESP_OK
}

// cmdAudioStage copies a guest PCM buffer into the audio chip's staging
// ring. Oversized buffers are refused whole; nothing is staged.
func (s *Starlet) cmdAudioStage() {
	addr := s.bus.Read32(s.paramAddr)
	size := s.bus.Read32(s.paramAddr + 4)

	fmt.Printf("Starlet: Audio Buffer Update - Addr: 0x%08X Size: %d\n", addr, size)

	if size > uint32(s.audio.RingSize()) {
		s.response = STARLET_RESP_FAIL
		return
	}

	data := make([]byte, size)
	for i := range data {
		data[i] = s.bus.Read8(addr + uint32(i))
	}
	s.audio.Stage(data)

	s.response = STARLET_RESP_OK
}
