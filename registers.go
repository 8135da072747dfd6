// registers.go - Centralized guest address map for Revolution Engine

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

/*
registers.go - Master Guest Address Map

This file provides a centralized reference for the guest-visible memory map.
Individual device implementations define their own detailed register
constants in separate *_constants.go files.

MEMORY MAP OVERVIEW
===================

Guest Range              Size    Region              Physical Mapping
---------------------------------------------------------------------------
0x0D000004               4B      Input state         MMIO (input_device.go)
0x80000000-0x81FFFFFF    32MB    Main RAM            addr - 0x80000000
0x80003000-0x800030BF    192B    Interrupt vectors   (inside main RAM)
0x90000000-0x9012BFFF    1.2MB   Framebuffer window  mask fallback + mirror
0xCC000000-0xCC00FFFF    64KB    Hardware registers  0x01000000 + offset
0xCD000000-0xCD00FFFF    64KB    Starlet IPC block   0x01100000 + offset

Every other guest address falls through to the permissive mask fallback,
addr & MEM_MASK, which always lands inside the backing buffer. Translation
never faults; only accesses without 4 bytes of headroom are refused.

The backing buffer is 88MB, modelling a 24MB + 64MB bank split as one
contiguous block. 88MB is not a power of two, but x & MEM_MASK is still
always in bounds since the result can never exceed MEM_MASK.

Framebuffer words are 0x00RRGGBB; the window is write-through: words land
in backing memory via the mask fallback and are mirrored into the video
chip's pixel store.
*/

package main

// =============================================================================
// Backing store geometry
// =============================================================================

const (
	MEM1_SIZE   = 24 * 1024 * 1024
	MEM2_SIZE   = 64 * 1024 * 1024
	MEMORY_SIZE = MEM1_SIZE + MEM2_SIZE
	MEM_MASK    = MEMORY_SIZE - 1
)

// =============================================================================
// Guest region boundaries
// =============================================================================

const (
	RAM_BASE = 0x80000000
	RAM_END  = 0x81FFFFFF

	HW_REGS_BASE = 0xCC000000
	HW_REGS_END  = 0xCC00FFFF
	HW_REGS_PHYS = 0x01000000

	STARLET_IPC_PHYS = 0x01100000

	FRAMEBUFFER_BASE = 0x90000000
	FRAMEBUFFER_SIZE = SCREEN_WIDTH * SCREEN_HEIGHT * 4
	FRAMEBUFFER_END  = FRAMEBUFFER_BASE + FRAMEBUFFER_SIZE - 1

	// Input state register (pad button mask, read-only to the guest)
	INPUT_STATE_ADDR = 0x0D000004
)

// =============================================================================
// Boot and interrupt layout
// =============================================================================

const (
	ENTRY_POINT           = 0x80000000
	INTERRUPT_TABLE_BASE  = 0x80003000
	INTERRUPT_VECTOR_SIZE = 0x10
)

// =============================================================================
// Display geometry
// =============================================================================

const (
	SCREEN_WIDTH  = 640
	SCREEN_HEIGHT = 480
)

// =============================================================================
// Audio format (fixed by the platform)
// =============================================================================

const (
	AUDIO_SAMPLE_RATE = 32000 // Hz
	AUDIO_CHANNELS    = 2     // stereo
	AUDIO_SAMPLE_SIZE = 2     // bytes, signed 16-bit little-endian

	// One second of staged audio
	AUDIO_RING_SIZE = AUDIO_SAMPLE_RATE * AUDIO_CHANNELS * AUDIO_SAMPLE_SIZE
)

// IsRAMAddress reports whether addr falls in the directly mapped RAM region.
func IsRAMAddress(addr uint32) bool {
	return addr >= RAM_BASE && addr <= RAM_END
}

// IsFramebufferAddress reports whether addr falls in the framebuffer window.
func IsFramebufferAddress(addr uint32) bool {
	return addr >= FRAMEBUFFER_BASE && addr <= FRAMEBUFFER_END
}
