// audio_interface.go - Audio output interface for Revolution Engine

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

package main

import "fmt"

// AudioError provides detailed error context for audio operations
type AudioError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *AudioError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("audio %s failed: %s", e.Operation, e.Details)
}

// AudioOutput defines the interface audio backends must implement. The
// backend pulls interleaved S16LE frames from the chip's ring at its
// own pace.
type AudioOutput interface {
	SetupPlayer(chip *AudioChip)
	Start()
	Stop()
	Close()
	IsStarted() bool
}

// Predefined audio backend types
const (
	AUDIO_BACKEND_OTO = iota // Pure Go Oto backend
)

// NewAudioOutput creates a new audio output instance using the specified backend
func NewAudioOutput(backend int, sampleRate int, chip *AudioChip) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		player, err := NewOtoPlayer(sampleRate)
		if err != nil {
			return nil, err
		}
		player.SetupPlayer(chip)
		return player, nil
	}
	return nil, &AudioError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
