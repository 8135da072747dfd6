// cpu_ppc32.go - PowerPC-flavoured 32-bit CPU core

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

/*
cpu_ppc32.go - PowerPC-flavoured 32-bit CPU core

Big-endian fetch/decode/execute interpreter. The primary opcode lives in the
top 6 bits of the instruction word; one primary opcode (0x1F) selects a
secondary operation from bits 1-10. Arithmetic immediates are sign-extended
16-bit values; logical immediates (ANDI/ORI) are zero-extended. The
asymmetry is part of the instruction set and must not be "fixed".

Register file:

    GPR[32]     general purpose registers
    FPR[32][2]  paired-single floats, lane 0 is the scalar lane
    SPR[1024]   special registers; SPR[0] is the condition register
                (four 4-bit fields, field 0 in the top nibble), SPR[8]
                is the link register

Interrupts are a data-driven redirection of PC, not preemption: they only
take effect at instruction boundaries, synchronously, inside the call that
raised them. Single-level; a raise while servicing overwrites nothing
because raising is a no-op while InterruptsEnabled is false.

Unknown opcodes, primary or extended, halt the core with the offending
opcode and PC logged. Registers and PC are left untouched so the fault site
can be inspected.
*/

package main

import (
	"fmt"
	"sync/atomic"
)

const (
	WORD_SIZE = 4
)

const (
	// Primary opcodes (instruction bits 26-31)
	OP_ANDI   = 0x04
	OP_ORI    = 0x0A
	OP_SYNC   = 0x0C
	OP_BC     = 0x10
	OP_RFI    = 0x11
	OP_B      = 0x12
	OP_SC     = 0x13
	OP_ADD    = 0x18
	OP_ADDI   = 0x19
	OP_ADDIS  = 0x1C
	OP_EXT    = 0x1F
	OP_LWZ    = 0x20
	OP_STW    = 0x24
	OP_PS_ADD = 0x3C
	OP_PS_SUB = 0x3D
	OP_PS_MUL = 0x3E
	OP_HALT   = 0x3F
)

const (
	// Extended opcodes (primary 0x1F, instruction bits 1-10)
	XOP_CMP   = 0x00A
	XOP_MULLW = 0x0EB
	XOP_SUB   = 0x10A
)

const (
	// Special register indices
	SPR_CR = 0
	SPR_LR = 8
)

type CPU struct {
	/*
		CPU holds the complete guest-visible processor state.

		Field order keeps the hot path together: PC, the register
		files and the run flags are touched every instruction, the
		bus and controller pointers every fetch, everything else
		rarely.
	*/

	PC  uint32
	GPR [32]uint32
	FPR [32][2]float32
	SPR [1024]uint32

	Running           bool
	InterruptsEnabled bool
	KernelMode        bool
	CycleCount        uint64

	// Trace prints every fetch. Slow, only for debugging guest code.
	Trace bool

	bus  Bus32
	intc *InterruptController

	// Cross-goroutine stop request (window close, terminal sentinel).
	// Only Step consumes it; Running itself is owned by the machine
	// goroutine.
	stopRequested atomic.Bool
}

func NewCPU(bus Bus32, intc *InterruptController) *CPU {
	cpu := &CPU{
		PC:                ENTRY_POINT,
		Running:           true,
		InterruptsEnabled: true,
		KernelMode:        false,
		bus:               bus,
		intc:              intc,
	}
	return cpu
}

// Reset returns the core to its power-on state. Memory is not touched;
// that is the bus's job.
func (cpu *CPU) Reset() {
	cpu.PC = ENTRY_POINT
	cpu.GPR = [32]uint32{}
	cpu.FPR = [32][2]float32{}
	cpu.SPR = [1024]uint32{}
	cpu.Running = true
	cpu.InterruptsEnabled = true
	cpu.KernelMode = false
	cpu.CycleCount = 0
	cpu.stopRequested.Store(false)
}

// Stop requests termination from another goroutine. The request is folded
// into Running at the next instruction boundary.
func (cpu *CPU) Stop() {
	cpu.stopRequested.Store(true)
}

// RaiseInterrupt redirects execution to the handler for id. No-op while
// interrupts are disabled; there is no pending queue and no nesting, a
// suppressed raise is simply lost.
func (cpu *CPU) RaiseInterrupt(id int) {
	if !cpu.InterruptsEnabled {
		return
	}

	cpu.SPR[SPR_LR] = cpu.PC
	cpu.PC = cpu.intc.VectorFor(id)
	cpu.InterruptsEnabled = false
	cpu.KernelMode = true

	fmt.Printf("Interrupt triggered: %d, PC set to 0x%08X\n", id, cpu.PC)
}

// Step executes exactly one instruction.
func (cpu *CPU) Step() {
	if cpu.stopRequested.Load() {
		cpu.Running = false
		return
	}

	ins := cpu.bus.Read32(cpu.PC)
	if cpu.Trace {
		fmt.Printf("TRACE PC=0x%08X INS=0x%08X\n", cpu.PC, ins)
	}
	cpu.execute(ins)
	cpu.CycleCount++
}

// Execute runs the core until it halts. The full machine loop with
// coprocessor polling and frame pacing lives in Machine.Run; this entry
// point drives a bare core.
func (cpu *CPU) Execute() {
	for cpu.Running {
		cpu.Step()
	}
}

func (cpu *CPU) execute(ins uint32) {
	opcode := ins >> 26

	switch opcode {
	case OP_ADD:
		rA := (ins >> 21) & 0x1F
		rB := (ins >> 16) & 0x1F
		rD := (ins >> 11) & 0x1F
		cpu.GPR[rD] = cpu.GPR[rA] + cpu.GPR[rB]
		cpu.PC += WORD_SIZE

	case OP_ADDI:
		rA := (ins >> 21) & 0x1F
		rD := (ins >> 16) & 0x1F
		imm := int32(int16(ins & 0xFFFF))
		cpu.GPR[rD] = cpu.GPR[rA] + uint32(imm)
		cpu.PC += WORD_SIZE

	case OP_ADDIS:
		rA := (ins >> 21) & 0x1F
		rD := (ins >> 16) & 0x1F
		cpu.GPR[rD] = cpu.GPR[rA] + (ins&0xFFFF)<<16
		cpu.PC += WORD_SIZE

	case OP_ANDI:
		// Logical immediates zero-extend, unlike ADDI
		rA := (ins >> 21) & 0x1F
		rD := (ins >> 16) & 0x1F
		cpu.GPR[rD] = cpu.GPR[rA] & (ins & 0xFFFF)
		cpu.PC += WORD_SIZE

	case OP_ORI:
		rA := (ins >> 21) & 0x1F
		rD := (ins >> 16) & 0x1F
		cpu.GPR[rD] = cpu.GPR[rA] | (ins & 0xFFFF)
		cpu.PC += WORD_SIZE

	case OP_EXT:
		cpu.executeExtended(ins)

	case OP_B:
		// Displacement is the word-aligned signed field in bits 2-25;
		// bit 0 is link, bit 1 is absolute
		offset := int32((ins&0x03FFFFFC)<<6) >> 6
		if ins&0x1 != 0 {
			cpu.SPR[SPR_LR] = cpu.PC + 4
		}
		if ins&0x2 != 0 {
			cpu.PC = uint32(offset) & 0xFFFFFFFC
		} else {
			cpu.PC += uint32(offset)
		}

	case OP_BC:
		bo := (ins >> 21) & 0x1F
		bi := (ins >> 16) & 0x1F
		offset := int32(int16(ins & 0xFFFC))

		// Link register is written before the condition is evaluated
		if ins&0x1 != 0 {
			cpu.SPR[SPR_LR] = cpu.PC + 4
		}

		condition := cpu.SPR[SPR_CR]&(0x80000000>>bi) != 0

		var taken bool
		switch {
		case bo&0x4 != 0:
			taken = true
		case bo&0x8 != 0:
			taken = condition
		default:
			taken = !condition
		}

		if taken {
			cpu.PC += uint32(offset)
		} else {
			cpu.PC += 4
		}

	case OP_LWZ:
		rS := (ins >> 21) & 0x1F
		rA := (ins >> 16) & 0x1F
		offset := int32(int16(ins & 0xFFFF))
		// rA == 0 means literal zero, not GPR[0]
		addr := uint32(offset)
		if rA != 0 {
			addr = cpu.GPR[rA] + uint32(offset)
		}
		cpu.GPR[rS] = cpu.bus.Read32(addr)
		cpu.PC += WORD_SIZE

	case OP_STW:
		rS := (ins >> 21) & 0x1F
		rA := (ins >> 16) & 0x1F
		offset := int32(int16(ins & 0xFFFF))
		addr := uint32(offset)
		if rA != 0 {
			addr = cpu.GPR[rA] + uint32(offset)
		}
		cpu.bus.Write32(addr, cpu.GPR[rS])
		cpu.PC += WORD_SIZE

	case OP_PS_ADD:
		rA := (ins >> 21) & 0x1F
		rB := (ins >> 16) & 0x1F
		rD := (ins >> 11) & 0x1F
		cpu.FPR[rD][0] = cpu.FPR[rA][0] + cpu.FPR[rB][0]
		cpu.FPR[rD][1] = cpu.FPR[rA][1] + cpu.FPR[rB][1]
		cpu.PC += WORD_SIZE

	case OP_PS_SUB:
		rA := (ins >> 21) & 0x1F
		rB := (ins >> 16) & 0x1F
		rD := (ins >> 11) & 0x1F
		cpu.FPR[rD][0] = cpu.FPR[rA][0] - cpu.FPR[rB][0]
		cpu.FPR[rD][1] = cpu.FPR[rA][1] - cpu.FPR[rB][1]
		cpu.PC += WORD_SIZE

	case OP_PS_MUL:
		rA := (ins >> 21) & 0x1F
		rB := (ins >> 16) & 0x1F
		rD := (ins >> 11) & 0x1F
		cpu.FPR[rD][0] = cpu.FPR[rA][0] * cpu.FPR[rB][0]
		cpu.FPR[rD][1] = cpu.FPR[rA][1] * cpu.FPR[rB][1]
		cpu.PC += WORD_SIZE

	case OP_SYNC:
		cpu.PC += WORD_SIZE

	case OP_SC:
		// PC still points at the sc itself; a handler that wants to
		// resume past it must advance the link register
		cpu.RaiseInterrupt(INT_SYSCALL)

	case OP_RFI:
		cpu.PC = cpu.SPR[SPR_LR]
		cpu.InterruptsEnabled = true

	case OP_HALT:
		fmt.Printf("HALT executed at PC=%08x\n", cpu.PC)
		cpu.Running = false

	default:
		fmt.Printf("Invalid opcode: %02x at PC=%08x\n", opcode, cpu.PC)
		cpu.Running = false
	}
}

func (cpu *CPU) executeExtended(ins uint32) {
	xo := (ins >> 1) & 0x3FF

	switch xo {
	case XOP_SUB:
		rA := (ins >> 21) & 0x1F
		rB := (ins >> 16) & 0x1F
		rD := (ins >> 11) & 0x1F
		cpu.GPR[rD] = cpu.GPR[rA] - cpu.GPR[rB]
		cpu.PC += WORD_SIZE

	case XOP_MULLW:
		rA := (ins >> 21) & 0x1F
		rB := (ins >> 16) & 0x1F
		rD := (ins >> 11) & 0x1F
		cpu.GPR[rD] = cpu.GPR[rA] * cpu.GPR[rB]
		cpu.PC += WORD_SIZE

	case XOP_CMP:
		// crfD overlaps the top three bits of the rA field; that is
		// the encoding, not an accident
		rA := (ins >> 21) & 0x1F
		rB := (ins >> 16) & 0x1F
		crfD := (ins >> 23) & 0x7

		a := int32(cpu.GPR[rA])
		b := int32(cpu.GPR[rB])

		var crVal uint32
		switch {
		case a < b:
			crVal = 0x8
		case a > b:
			crVal = 0x4
		default:
			crVal = 0x2
		}

		shift := 28 - 4*crfD
		cpu.SPR[SPR_CR] = (cpu.SPR[SPR_CR] &^ (0xF << shift)) | (crVal << shift)
		cpu.PC += WORD_SIZE

	default:
		fmt.Printf("Invalid extended opcode: %03x at PC=%08x\n", xo, cpu.PC)
		cpu.Running = false
	}
}

// DumpState prints the register file, one GPR row of four per line.
func (cpu *CPU) DumpState() {
	fmt.Printf("\nPC=%08x  CR=%08x  LR=%08x  cycles=%d\n",
		cpu.PC, cpu.SPR[SPR_CR], cpu.SPR[SPR_LR], cpu.CycleCount)
	for i := 0; i < 32; i += 4 {
		fmt.Printf("r%-2d=%08x  r%-2d=%08x  r%-2d=%08x  r%-2d=%08x\n",
			i, cpu.GPR[i], i+1, cpu.GPR[i+1], i+2, cpu.GPR[i+2], i+3, cpu.GPR[i+3])
	}
	fmt.Printf("running=%v interrupts=%v kernel=%v\n",
		cpu.Running, cpu.InterruptsEnabled, cpu.KernelMode)
}
