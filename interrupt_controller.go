// interrupt_controller.go - Interrupt vector table and kernel bootstrap

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

package main

const (
	// Interrupt ids, one vector slot each at
	// INTERRUPT_TABLE_BASE + id*INTERRUPT_VECTOR_SIZE
	INT_SYSTEM_RESET = 0
	INT_STARLET      = 1 // machine check slot, repurposed for the I/O processor
	INT_DSI          = 2
	INT_ISI          = 3
	INT_EXTERNAL     = 4
	INT_ALIGNMENT    = 5
	INT_PROGRAM      = 6
	INT_FP_UNAVAIL   = 7
	INT_DECREMENTER  = 8
	INT_SYSCALL      = 9
	INT_TRACE        = 10
	INT_PERFMON      = 11
)

type InterruptController struct {
	/*
		InterruptController owns the fixed table mapping interrupt id
		to handler address. Raising is the CPU's job (the redirect
		mutates processor state); the controller only answers "where
		does id vector to" and seeds the default handlers.
	*/

	vectors map[int]uint32
}

func NewInterruptController() *InterruptController {
	ic := &InterruptController{
		vectors: make(map[int]uint32),
	}
	for id := INT_SYSTEM_RESET; id <= INT_PERFMON; id++ {
		ic.vectors[id] = INTERRUPT_TABLE_BASE + uint32(id)*INTERRUPT_VECTOR_SIZE
	}
	return ic
}

// VectorFor returns the handler address for id. Unknown ids resolve to the
// table base rather than faulting.
func (ic *InterruptController) VectorFor(id int) uint32 {
	if addr, ok := ic.vectors[id]; ok {
		return addr
	}
	return INTERRUPT_TABLE_BASE
}

// InstallDefaultHandlers writes a return-from-interrupt word into every
// vector slot so that an interrupt taken before the guest installs real
// handlers comes straight back.
func (ic *InterruptController) InstallDefaultHandlers(bus Bus32) {
	for _, addr := range ic.vectors {
		bus.Write32(addr, OP_RFI<<26)
	}
}
