// video_chip.go - Framebuffer video chip for Revolution Engine

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

/*
video_chip.go - Framebuffer Video Chip

One fixed 640x480 mode. The guest draws by storing 0x00RRGGBB words into
the framebuffer window at 0x90000000; the bus mirrors each word here via
HandleWindowWrite. The machine loop calls Present at its own cadence, which
converts the pixel store to packed RGBA and hands it to the active backend.

The chip never runs a goroutine of its own. Window writes arrive on the
machine goroutine; Present runs there too. The mutex only exists because
backends may ask for frame data from their render threads.
*/

package main

import (
	"fmt"
	"sync"
)

type VideoChip struct {
	mutex sync.RWMutex

	framebuffer []uint32 // guest pixel words, 0x00RRGGBB
	rgba        []byte   // conversion scratch, handed to the backend
	dirty       bool
	primed      bool // first conversion has filled the alpha channel

	output VideoOutput
}

func NewVideoChip(backend int) (*VideoChip, error) {
	output, err := NewVideoOutput(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create video output: %w", err)
	}

	return &VideoChip{
		framebuffer: make([]uint32, SCREEN_WIDTH*SCREEN_HEIGHT),
		rgba:        make([]byte, SCREEN_WIDTH*SCREEN_HEIGHT*4),
		output:      output,
	}, nil
}

func (chip *VideoChip) Start() error {
	return chip.output.Start()
}

func (chip *VideoChip) Stop() error {
	return chip.output.Stop()
}

// HandleWindowWrite mirrors one framebuffer-window word into the pixel
// store. Registered with the bus over the whole window; addr is the guest
// address of the word.
func (chip *VideoChip) HandleWindowWrite(addr uint32, value uint32) {
	pixel := (addr - FRAMEBUFFER_BASE) / 4
	if pixel >= uint32(len(chip.framebuffer)) {
		return
	}
	chip.mutex.Lock()
	chip.framebuffer[pixel] = value
	chip.dirty = true
	chip.mutex.Unlock()
}

// Pixel returns the guest word for a pixel index. Test and debug hook.
func (chip *VideoChip) Pixel(index int) uint32 {
	chip.mutex.RLock()
	defer chip.mutex.RUnlock()
	if index < 0 || index >= len(chip.framebuffer) {
		return 0
	}
	return chip.framebuffer[index]
}

// Snapshot converts the pixel store to tightly packed RGBA. The returned
// slice is the chip's scratch buffer; it stays valid until the next call.
func (chip *VideoChip) Snapshot() []byte {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()
	chip.convertLocked()
	return chip.rgba
}

func (chip *VideoChip) convertLocked() {
	if !chip.dirty && chip.primed {
		return
	}
	for i, word := range chip.framebuffer {
		chip.rgba[i*4+0] = byte(word >> 16)
		chip.rgba[i*4+1] = byte(word >> 8)
		chip.rgba[i*4+2] = byte(word)
		chip.rgba[i*4+3] = 0xFF
	}
	chip.dirty = false
	chip.primed = true
}

// Present pushes the current frame to the backend. Called by the machine
// loop every frame interval; cheap when nothing changed.
func (chip *VideoChip) Present() {
	chip.mutex.Lock()
	chip.convertLocked()
	frame := chip.rgba
	output := chip.output
	chip.mutex.Unlock()

	if output != nil {
		// UpdateFrame copies; the scratch buffer is safe to reuse
		_ = output.UpdateFrame(frame)
	}
}
