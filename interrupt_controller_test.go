package main

import "testing"

// TestVectorTableLayout verifies that every interrupt id resolves to
// its fixed slot in the vector table.
func TestVectorTableLayout(t *testing.T) {
	ic := NewInterruptController()
	for id := INT_SYSTEM_RESET; id <= INT_PERFMON; id++ {
		want := uint32(INTERRUPT_TABLE_BASE + id*INTERRUPT_VECTOR_SIZE)
		if got := ic.VectorFor(id); got != want {
			t.Fatalf("vector for id %d = 0x%08X, expected 0x%08X", id, got, want)
		}
	}
}

// TestVectorForUnknownID verifies that an id outside the table resolves
// to the table base instead of faulting.
func TestVectorForUnknownID(t *testing.T) {
	ic := NewInterruptController()
	for _, id := range []int{-1, 12, 255} {
		if got := ic.VectorFor(id); got != INTERRUPT_TABLE_BASE {
			t.Fatalf("vector for unknown id %d = 0x%08X, expected table base 0x%08X",
				id, got, uint32(INTERRUPT_TABLE_BASE))
		}
	}
}

// TestInstallDefaultHandlers verifies that every vector slot receives a
// return-from-interrupt word.
func TestInstallDefaultHandlers(t *testing.T) {
	bus := NewMachineBus()
	ic := NewInterruptController()
	ic.InstallDefaultHandlers(bus)

	for id := INT_SYSTEM_RESET; id <= INT_PERFMON; id++ {
		addr := uint32(INTERRUPT_TABLE_BASE + id*INTERRUPT_VECTOR_SIZE)
		if got := bus.Read32(addr); got != OP_RFI<<26 {
			t.Fatalf("vector slot %d at 0x%08X = 0x%08X, expected 0x%08X",
				id, addr, got, uint32(OP_RFI<<26))
		}
	}
}

// TestDefaultHandlerReturnsFromInterrupt verifies the bootstrap
// behaviour end to end: an interrupt taken with only the default
// handlers installed comes straight back to the interrupted code.
func TestDefaultHandlerReturnsFromInterrupt(t *testing.T) {
	bus := NewMachineBus()
	ic := NewInterruptController()
	cpu := NewCPU(bus, ic)
	ic.InstallDefaultHandlers(bus)

	cpu.PC = ENTRY_POINT + 0x40
	cpu.RaiseInterrupt(INT_EXTERNAL)

	if cpu.PC != INTERRUPT_TABLE_BASE+INT_EXTERNAL*INTERRUPT_VECTOR_SIZE {
		t.Fatalf("PC = 0x%08X, expected external vector", cpu.PC)
	}

	cpu.Step() // the default RFI

	if cpu.PC != ENTRY_POINT+0x40 {
		t.Fatalf("PC = 0x%08X, expected return to 0x%08X", cpu.PC, ENTRY_POINT+0x40)
	}
	if !cpu.InterruptsEnabled {
		t.Fatal("interrupts not re-enabled after default handler")
	}
}
