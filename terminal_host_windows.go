//go:build windows

package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// keyHoldDuration is how long one key byte keeps its button bit set.
// A terminal delivers presses with auto-repeat but no release events,
// so held state is synthesized by letting each press decay.
const keyHoldDuration = 150 * time.Millisecond

// TerminalHost maps raw stdin onto the controller port for console
// mode. Start and Stop own the real terminal; key decoding and hold
// state are plain data polled through ButtonState.
type TerminalHost struct {
	mutex        sync.Mutex
	expiry       map[uint32]time.Time // button bit -> hold deadline
	escState     int                  // 0 none, 1 got ESC, 2 got ESC [
	onQuit       func()
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

// NewTerminalHost creates a host adapter that reads stdin into pad
// button state. onQuit runs when Ctrl-C arrives, since raw mode
// swallows the usual SIGINT.
func NewTerminalHost(onQuit func()) *TerminalHost {
	return &TerminalHost{
		expiry: make(map[uint32]time.Time),
		onQuit: onQuit,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// ButtonState assembles the pad mask from key presses that have not
// yet decayed.
func (h *TerminalHost) ButtonState() uint32 {
	now := time.Now()
	h.mutex.Lock()
	defer h.mutex.Unlock()
	var mask uint32
	for bit, deadline := range h.expiry {
		if now.Before(deadline) {
			mask |= bit
		}
	}
	return mask
}

func (h *TerminalHost) press(bit uint32) {
	h.mutex.Lock()
	h.expiry[bit] = time.Now().Add(keyHoldDuration)
	h.mutex.Unlock()
}

// routeKey decodes one raw stdin byte. Arrow keys arrive as ESC [ A-D
// sequences, everything else as plain bytes.
func (h *TerminalHost) routeKey(b byte) {
	switch h.escState {
	case 1:
		if b == '[' {
			h.escState = 2
		} else {
			h.escState = 0
		}
		return
	case 2:
		h.escState = 0
		switch b {
		case 'A':
			h.press(BUTTON_UP)
		case 'B':
			h.press(BUTTON_DOWN)
		case 'C':
			h.press(BUTTON_RIGHT)
		case 'D':
			h.press(BUTTON_LEFT)
		}
		return
	}

	switch b {
	case 0x1B:
		h.escState = 1
	case 0x03: // Ctrl-C
		if h.onQuit != nil {
			h.onQuit()
		}
	case 'z', 'Z':
		h.press(BUTTON_A)
	case 'x', 'X':
		h.press(BUTTON_B)
	case 'a', 'A':
		h.press(BUTTON_X)
	case 's', 'S':
		h.press(BUTTON_Y)
	case '\r', '\n':
		h.press(BUTTON_START)
	}
}

// Start sets stdin to raw mode and begins reading in a goroutine.
// Call Stop() to restore stdin.
func (h *TerminalHost) Start() {
	h.fd = int(os.Stdin.Fd())

	// Raw mode disables OS-level echo and line buffering so key
	// presses arrive immediately.
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := os.Stdin.Read(buf)
			if n > 0 {
				h.routeKey(buf[0])
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

// Stop terminates the stdin reading goroutine and restores terminal
// state.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
