package main

import (
	"encoding/binary"
	"testing"
)

func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic, got none")
		}
	}()
	fn()
}

// TestBusGetMemory verifies that MachineBus exposes its backing buffer
// via GetMemory() at the full configured size.
func TestBusGetMemory(t *testing.T) {
	bus := NewMachineBus()

	mem := bus.GetMemory()
	if mem == nil {
		t.Fatal("GetMemory() returned nil")
	}
	if len(mem) != MEMORY_SIZE {
		t.Fatalf("GetMemory() length %d, expected %d", len(mem), MEMORY_SIZE)
	}
}

// TestBusBigEndianRoundTrip verifies that words are stored big-endian:
// 0x11223344 written through the bus must appear in memory as the byte
// sequence 11 22 33 44.
func TestBusBigEndianRoundTrip(t *testing.T) {
	bus := NewMachineBus()

	bus.Write32(RAM_BASE+0x1000, 0x11223344)

	mem := bus.GetMemory()
	for i, want := range []byte{0x11, 0x22, 0x33, 0x44} {
		if mem[0x1000+i] != want {
			t.Fatalf("memory[0x%X] = 0x%02X, expected 0x%02X", 0x1000+i, mem[0x1000+i], want)
		}
	}

	if got := bus.Read32(RAM_BASE + 0x1000); got != 0x11223344 {
		t.Fatalf("Read32 returned 0x%08X, expected 0x11223344", got)
	}
}

// TestBusTranslateRegions verifies the fixed translation table: RAM to
// offset zero, hardware registers and Starlet IPC to their physical
// windows, everything else through the permissive mask.
func TestBusTranslateRegions(t *testing.T) {
	bus := NewMachineBus()

	cases := []struct {
		addr uint32
		want uint32
	}{
		{RAM_BASE, 0},
		{RAM_BASE + 0x1234, 0x1234},
		{RAM_END, RAM_END - RAM_BASE},
		{HW_REGS_BASE, HW_REGS_PHYS},
		{HW_REGS_BASE + 0x40, HW_REGS_PHYS + 0x40},
		{STARLET_IPC_BASE, STARLET_IPC_PHYS},
		{STARLET_IPC_BASE + 0x10, STARLET_IPC_PHYS + 0x10},
		{0x00001234, 0x1234},
		{0x00000000, 0},
	}
	for _, c := range cases {
		if got := bus.Translate(c.addr); got != c.want {
			t.Fatalf("Translate(0x%08X) = 0x%08X, expected 0x%08X", c.addr, got, c.want)
		}
	}

	// The fallback arm masks rather than faults, so any address lands
	// inside the buffer.
	if got := bus.Translate(0xFFFFFFFF); got >= uint32(MEMORY_SIZE) {
		t.Fatalf("Translate(0xFFFFFFFF) = 0x%08X, outside the buffer", got)
	}
}

// TestBusWrite32WriteThrough verifies that a word write inside a mapped
// I/O region both invokes the handler and lands in backing memory at
// the translated address.
func TestBusWrite32WriteThrough(t *testing.T) {
	bus := NewMachineBus()

	var gotAddr, gotValue uint32
	bus.MapIO(HW_REGS_BASE, HW_REGS_BASE+0xFF,
		nil,
		func(addr uint32, value uint32) {
			gotAddr = addr
			gotValue = value
		})

	bus.Write32(HW_REGS_BASE+0x20, 0xCAFEBABE)

	if gotAddr != HW_REGS_BASE+0x20 {
		t.Fatalf("handler addr 0x%08X, expected 0x%08X", gotAddr, HW_REGS_BASE+0x20)
	}
	if gotValue != 0xCAFEBABE {
		t.Fatalf("handler value 0x%08X, expected 0xCAFEBABE", gotValue)
	}

	phys := bus.Translate(HW_REGS_BASE + 0x20)
	if got := binary.BigEndian.Uint32(bus.GetMemory()[phys:]); got != 0xCAFEBABE {
		t.Fatalf("write-through missing: memory holds 0x%08X, expected 0xCAFEBABE", got)
	}
}

// TestBusRead32Dispatch verifies that reads inside a mapped region come
// from the handler, not from backing memory.
func TestBusRead32Dispatch(t *testing.T) {
	bus := NewMachineBus()

	bus.MapIO(HW_REGS_BASE, HW_REGS_BASE+0xFF,
		func(addr uint32) uint32 { return 0x42424242 },
		nil)

	if got := bus.Read32(HW_REGS_BASE + 4); got != 0x42424242 {
		t.Fatalf("Read32 in I/O region returned 0x%08X, expected 0x42424242", got)
	}

	// One byte past the region end falls back to plain memory.
	if got := bus.Read32(HW_REGS_BASE + 0x100); got != 0 {
		t.Fatalf("Read32 past region returned 0x%08X, expected 0x00000000", got)
	}
}

// TestBusByteAccessBypassesIO verifies that 8-bit accesses go straight
// to backing memory even inside a mapped region. Device registers are
// word-access only.
func TestBusByteAccessBypassesIO(t *testing.T) {
	bus := NewMachineBus()

	handlerFired := false
	bus.MapIO(HW_REGS_BASE, HW_REGS_BASE+0xFF,
		func(addr uint32) uint32 { handlerFired = true; return 0xFF },
		func(addr uint32, value uint32) { handlerFired = true })

	bus.Write8(HW_REGS_BASE+1, 0xAB)
	if got := bus.Read8(HW_REGS_BASE + 1); got != 0xAB {
		t.Fatalf("Read8 returned 0x%02X, expected 0xAB", got)
	}
	if handlerFired {
		t.Fatal("byte access invoked an I/O handler")
	}
}

// TestBusOutOfBoundsDegrades verifies the no-fault contract: a word
// access whose translation leaves fewer than four bytes of headroom
// reads as zero and drops the write.
func TestBusOutOfBoundsDegrades(t *testing.T) {
	bus := NewMachineBus()

	// This address is below the RAM window, so it translates through
	// the mask fallback onto the last two bytes of the buffer.
	const edge = uint32(MEMORY_SIZE - 2)

	bus.Write32(edge, 0xDEADBEEF)
	mem := bus.GetMemory()
	if mem[MEMORY_SIZE-2] != 0 || mem[MEMORY_SIZE-1] != 0 {
		t.Fatal("out-of-bounds write modified memory")
	}
	if got := bus.Read32(edge); got != 0 {
		t.Fatalf("out-of-bounds read returned 0x%08X, expected 0", got)
	}

	// Byte access at the same spot is in bounds and must work.
	bus.Write8(edge, 0x5A)
	if got := bus.Read8(edge); got != 0x5A {
		t.Fatalf("Read8 at buffer edge returned 0x%02X, expected 0x5A", got)
	}
}

// TestBusSealPanicsOnLateMapIO verifies that registering an I/O region
// after SealMappings panics instead of racing the running machine.
func TestBusSealPanicsOnLateMapIO(t *testing.T) {
	bus := NewMachineBus()
	bus.SealMappings()

	expectPanic(t, func() {
		bus.MapIO(HW_REGS_BASE, HW_REGS_BASE+0xFF, nil, nil)
	})
}

// TestBusResetClearsMemoryKeepsMappings verifies that Reset zeroes the
// backing buffer but leaves I/O regions registered.
func TestBusResetClearsMemoryKeepsMappings(t *testing.T) {
	bus := NewMachineBus()

	reads := 0
	bus.MapIO(HW_REGS_BASE, HW_REGS_BASE+0xFF,
		func(addr uint32) uint32 { reads++; return 7 },
		nil)

	bus.Write32(RAM_BASE+0x100, 0xFFFFFFFF)
	bus.Reset()

	if got := bus.Read32(RAM_BASE + 0x100); got != 0 {
		t.Fatalf("memory after Reset holds 0x%08X, expected 0", got)
	}
	if got := bus.Read32(HW_REGS_BASE); got != 7 || reads != 1 {
		t.Fatalf("I/O mapping lost after Reset (got 0x%08X, %d handler calls)", got, reads)
	}
}

// =============================================================================
// Benchmarks for memory bus operations
// =============================================================================

// BenchmarkRead32_RAM measures read performance on the RAM fast path
func BenchmarkRead32_RAM(b *testing.B) {
	bus := NewMachineBus()
	bus.Write32(RAM_BASE+0x1000, 0x12345678)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bus.Read32(RAM_BASE + 0x1000)
	}
}

// BenchmarkWrite32_RAM measures write performance on the RAM fast path
func BenchmarkWrite32_RAM(b *testing.B) {
	bus := NewMachineBus()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bus.Write32(RAM_BASE+0x1000, uint32(i))
	}
}

// BenchmarkRead32_IORegion measures read performance for I/O-mapped addresses
func BenchmarkRead32_IORegion(b *testing.B) {
	bus := NewMachineBus()
	bus.MapIO(HW_REGS_BASE, HW_REGS_BASE+0xFF, func(addr uint32) uint32 { return 0x42 }, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bus.Read32(HW_REGS_BASE)
	}
}

// BenchmarkWrite32_IORegion measures write performance for I/O-mapped addresses
func BenchmarkWrite32_IORegion(b *testing.B) {
	bus := NewMachineBus()
	bus.MapIO(HW_REGS_BASE, HW_REGS_BASE+0xFF, nil, func(addr uint32, value uint32) {})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bus.Write32(HW_REGS_BASE, uint32(i))
	}
}
