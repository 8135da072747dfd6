// video_interface.go - Video output interface for Revolution Engine

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

package main

import "fmt"

// VideoError provides detailed error context for video operations
type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

// DisplayConfig contains hardware-independent configuration
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int  // Integer scaling factor for output
	RefreshRate int  // Target refresh rate in Hz
	Fullscreen  bool // Start in fullscreen
}

// VideoOutput defines the minimal interface that backends must implement.
// The machine presents tightly packed RGBA frames at its own cadence; the
// backend displays the most recent one at whatever rate suits it.
type VideoOutput interface {
	// Lifecycle management
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	// Core display operations - kept minimal
	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	UpdateFrame(buffer []byte) error // Takes raw RGBA pixels only

	GetFrameCount() uint64
}

// Optional interfaces for enhanced functionality
type InputCapable interface {
	// ButtonState returns the current pad button mask, safe to call from
	// any goroutine.
	ButtonState() uint32
}

type StatusCapable interface {
	// SetStatusSource registers a callback producing the overlay line
	// shown when the status display is toggled on.
	SetStatusSource(source func() string)
}

// Predefined video backend types
const (
	VIDEO_BACKEND_EBITEN = iota // Pure Go Ebiten backend
)

// NewVideoOutput creates a new video output instance using the specified backend
func NewVideoOutput(backend int) (VideoOutput, error) {
	switch backend {
	case VIDEO_BACKEND_EBITEN:
		return NewEbitenOutput()
	}
	return nil, &VideoError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
