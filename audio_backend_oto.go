//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

package main

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

type OtoPlayer struct {
	ctx     *oto.Context
	player  *oto.Player
	chip    atomic.Pointer[AudioChip] // Atomic for lock-free Read()
	started bool
	mutex   sync.Mutex // Only for setup/control operations
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: AUDIO_CHANNELS,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoPlayer{
		ctx:     ctx,
		started: false,
	}, nil
}

func (op *OtoPlayer) SetupPlayer(chip *AudioChip) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.chip.Store(chip)
	op.player = op.ctx.NewPlayer(op)
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	// Load chip pointer atomically - no lock needed for the hot path
	chip := op.chip.Load()
	if chip == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	// The ring already holds interleaved S16LE stereo, so the chip can
	// fill the oto buffer directly.
	chip.ReadRing(p)
	return len(p), nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
