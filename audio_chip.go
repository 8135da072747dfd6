// audio_chip.go - Audio interface emulation for Revolution Engine

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

package main

import (
	"sync"
)

// AudioChip models the machine's audio interface as a one second ring
// of interleaved stereo S16LE samples. The guest stages sample data
// into the ring through the I/O processor and the host backend streams
// the ring continuously, wrapping at the end. A guest that stages a
// buffer shorter than the ring hears it loop, which is exactly the
// behaviour the original hardware's DMA engine produced.
type AudioChip struct {
	mutex    sync.Mutex
	ring     []byte // AUDIO_RING_SIZE bytes of S16LE stereo
	position int    // Playback read cursor into ring
	enabled  bool
	output   AudioOutput
}

func NewAudioChip(backend int) (*AudioChip, error) {
	chip := &AudioChip{
		ring: make([]byte, AUDIO_RING_SIZE),
	}

	output, err := NewAudioOutput(backend, AUDIO_SAMPLE_RATE, chip)
	if err != nil {
		return nil, err
	}
	chip.output = output
	return chip, nil
}

// RingSize reports the capacity of the staging ring in bytes.
func (chip *AudioChip) RingSize() int {
	return len(chip.ring)
}

// Stage copies guest sample data into the ring starting at offset
// zero. The playback cursor is left alone so staging mid-stream does
// not click.
func (chip *AudioChip) Stage(data []byte) {
	chip.mutex.Lock()
	copy(chip.ring, data)
	chip.mutex.Unlock()
}

// ReadRing fills p with the next run of ring bytes, wrapping at the
// end of the ring. When the chip is disabled the backend gets silence.
func (chip *AudioChip) ReadRing(p []byte) {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()

	if !chip.enabled {
		for i := range p {
			p[i] = 0
		}
		return
	}
	for i := range p {
		p[i] = chip.ring[chip.position]
		chip.position++
		if chip.position >= len(chip.ring) {
			chip.position = 0
		}
	}
}

func (chip *AudioChip) Start() {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()
	chip.enabled = true
	chip.output.Start()
}

func (chip *AudioChip) Stop() {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()
	chip.enabled = false
	chip.output.Stop()
	chip.output.Close()
}
