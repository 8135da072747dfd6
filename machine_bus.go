// machine_bus.go - Machine bus for the Revolution Engine

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

/*
machine_bus.go - Machine Bus for the Revolution Engine

This module implements the memory bus that forms the backbone of the machine's
memory subsystem. It provides a unified interface for 32-bit memory operations,
including standard memory access, region-table address translation and
memory-mapped I/O. The guest sees a 32-bit big-endian address space; the host
backs it with one contiguous 88MB buffer.

Core Features:

    88MB of main memory allocated as a contiguous block (24MB + 64MB banks).
    Region-table translation: RAM, hardware register and Starlet IPC windows
    map to fixed physical bases; everything else falls through to a permissive
    mask (addr & MEM_MASK) that always lands inside the buffer.
    Support for memory-mapped I/O via an I/O region mapping table keyed by
    256-byte page number.
    Big-endian read/write operations for 32-bit data, byte granularity for
    DMA staging.
    Framebuffer window mirroring: word writes at 0x90000000 land in backing
    memory and are mirrored into the video chip's pixel store.

Technical Details:

    The MachineBus struct fulfils the Bus32 interface, encapsulating the main
    memory and a mapping of I/O regions.
    I/O regions are registered with a defined start and end guest address
    along with callback functions (onRead and onWrite) to intercept accesses.
    Device registers are word-access only; byte operations bypass I/O
    dispatch and go straight to backing memory.
    Translation never faults. Out-of-bounds accesses (fewer than 4 bytes of
    headroom after translation) log a warning and read as zero / drop the
    write.

Concurrency:

    A single goroutine owns all guest-visible bus traffic (CPU, Starlet DMA,
    loader). Presentation backends never touch the bus directly; they consume
    snapshots and rings through the chip APIs, so the hot paths here are
    lock-free by construction. The sealed flag only guards against I/O
    mapping registration after execution has started.
*/

package main

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

const (
	PAGE_SIZE = 0x100
)

type Bus32 interface {
	/*
		Bus32 defines the interface for memory operations within the
		machine. It provides methods to read and write 32-bit values
		big-endian, byte-granular access for DMA staging, and a reset
		of the memory state.

		Implementations must guarantee that no access faults: unmapped
		addresses resolve through the permissive mask fallback and
		out-of-bounds accesses degrade to warnings.
	*/

	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
	Translate(addr uint32) uint32
	Reset()
	GetMemory() []byte
}

type MachineBus struct {
	/*
		MachineBus implements the Bus32 interface and serves as the
		primary memory bus for the Revolution Engine.

		It maintains a contiguous block of main memory, the region
		translation table (fixed, first match wins) and a mapping of
		memory-mapped I/O regions keyed by guest page number.
	*/

	memory  []byte
	mapping map[uint32][]IORegion

	// Sealed state to prevent I/O mapping after execution has started
	sealed atomic.Bool
}

type IORegion struct {
	/*
		IORegion represents a memory-mapped I/O region within the
		guest address space. Each region is defined by its start and
		end addresses and includes callback functions to handle read
		and write operations.

		These callbacks are invoked when a word access falls within
		the region's boundaries. Writes are write-through: the value
		also lands in backing memory at the translated address.
	*/
	start   uint32
	end     uint32
	onRead  func(addr uint32) uint32
	onWrite func(addr uint32, value uint32)
}

func NewMachineBus() *MachineBus {
	return &MachineBus{
		memory:  make([]byte, MEMORY_SIZE),
		mapping: make(map[uint32][]IORegion),
	}
}

// Translate resolves a guest address to a physical offset in the backing
// buffer. The table is fixed and first match wins; the final arm is the
// permissive mask fallback, so translation never faults.
func (bus *MachineBus) Translate(addr uint32) uint32 {
	switch {
	case addr >= RAM_BASE && addr <= RAM_END:
		return addr - RAM_BASE
	case addr >= HW_REGS_BASE && addr <= HW_REGS_END:
		return (HW_REGS_PHYS + (addr - HW_REGS_BASE)) & MEM_MASK
	case addr >= STARLET_IPC_BASE && addr <= STARLET_IPC_END:
		return (STARLET_IPC_PHYS + (addr - STARLET_IPC_BASE)) & MEM_MASK
	default:
		return addr & MEM_MASK
	}
}

// SealMappings freezes the I/O region table. Called once by the host just
// before execution starts.
func (bus *MachineBus) SealMappings() {
	bus.sealed.Store(true)
}

func (bus *MachineBus) MapIO(start, end uint32, onRead func(addr uint32) uint32, onWrite func(addr uint32, value uint32)) {
	if bus.sealed.Load() {
		panic(fmt.Sprintf("MapIO called after execution started (mapping range 0x%08X-0x%08X)", start, end))
	}
	region := IORegion{
		start:   start,
		end:     end,
		onRead:  onRead,
		onWrite: onWrite,
	}

	firstPage := start >> 8
	lastPage := end >> 8
	for page := firstPage; page <= lastPage; page++ {
		bus.mapping[page] = append(bus.mapping[page], region)
	}
}

func (bus *MachineBus) findIORegion(addr uint32) *IORegion {
	regions, exists := bus.mapping[addr>>8]
	if !exists {
		return nil
	}
	for i := range regions {
		if addr >= regions[i].start && addr <= regions[i].end {
			return &regions[i]
		}
	}
	return nil
}

func (bus *MachineBus) Write32(addr uint32, value uint32) {
	// Fast path: the RAM region carries no I/O mappings
	if addr >= RAM_BASE && addr <= RAM_END {
		phys := addr - RAM_BASE
		binary.BigEndian.PutUint32(bus.memory[phys:phys+4], value)
		return
	}

	bus.write32Slow(addr, value)
}

func (bus *MachineBus) write32Slow(addr uint32, value uint32) {
	phys := bus.Translate(addr)
	if phys+3 >= uint32(len(bus.memory)) {
		fmt.Printf("Warning: Write32 to out-of-bounds address 0x%08X\n", addr)
		return
	}

	// Process I/O regions (write-through)
	if region := bus.findIORegion(addr); region != nil && region.onWrite != nil {
		region.onWrite(addr, value)
		binary.BigEndian.PutUint32(bus.memory[phys:phys+4], value)
		return
	}

	// Regular memory write
	binary.BigEndian.PutUint32(bus.memory[phys:phys+4], value)
}

func (bus *MachineBus) Read32(addr uint32) uint32 {
	// Fast path: the RAM region carries no I/O mappings
	if addr >= RAM_BASE && addr <= RAM_END {
		phys := addr - RAM_BASE
		return binary.BigEndian.Uint32(bus.memory[phys : phys+4])
	}

	return bus.read32Slow(addr)
}

func (bus *MachineBus) read32Slow(addr uint32) uint32 {
	phys := bus.Translate(addr)
	if phys+3 >= uint32(len(bus.memory)) {
		fmt.Printf("Warning: Read32 from out-of-bounds address 0x%08X\n", addr)
		return 0
	}

	// Check for I/O regions
	if region := bus.findIORegion(addr); region != nil && region.onRead != nil {
		return region.onRead(addr)
	}

	// Regular memory read
	return binary.BigEndian.Uint32(bus.memory[phys : phys+4])
}

// Read8 reads one byte through the translation table. Byte access bypasses
// I/O dispatch; device registers are word-access only.
func (bus *MachineBus) Read8(addr uint32) uint8 {
	phys := bus.Translate(addr)
	if phys >= uint32(len(bus.memory)) {
		fmt.Printf("Warning: Read8 from out-of-bounds address 0x%08X\n", addr)
		return 0
	}
	return bus.memory[phys]
}

// Write8 writes one byte through the translation table. Byte access bypasses
// I/O dispatch; device registers are word-access only.
func (bus *MachineBus) Write8(addr uint32, value uint8) {
	phys := bus.Translate(addr)
	if phys >= uint32(len(bus.memory)) {
		fmt.Printf("Warning: Write8 to out-of-bounds address 0x%08X\n", addr)
		return
	}
	bus.memory[phys] = value
}

func (bus *MachineBus) GetMemory() []byte {
	return bus.memory
}

func (bus *MachineBus) Reset() {
	/*
		Reset clears the entire main memory of the machine bus by
		setting every byte to zero. I/O region mappings survive a
		reset; only memory contents are cleared.
	*/

	for i := range bus.memory {
		bus.memory[i] = 0
	}
}
