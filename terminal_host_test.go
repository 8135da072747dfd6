package main

import (
	"testing"
	"time"
)

// feedKeys routes a byte sequence as if it arrived from raw stdin.
func feedKeys(h *TerminalHost, keys ...byte) {
	for _, b := range keys {
		h.routeKey(b)
	}
}

// TestTerminalKeyMapping verifies the console key layout: zxas for the
// face buttons, enter for start.
func TestTerminalKeyMapping(t *testing.T) {
	cases := []struct {
		key  byte
		want uint32
	}{
		{'z', BUTTON_A},
		{'Z', BUTTON_A},
		{'x', BUTTON_B},
		{'a', BUTTON_X},
		{'s', BUTTON_Y},
		{'\r', BUTTON_START},
		{'\n', BUTTON_START},
	}
	for _, c := range cases {
		h := NewTerminalHost(nil)
		h.routeKey(c.key)
		if got := h.ButtonState(); got != c.want {
			t.Fatalf("key %q: mask = 0x%04X, expected 0x%04X", c.key, got, c.want)
		}
	}
}

// TestTerminalArrowSequences verifies that ESC [ A-D decode to the
// directional bits.
func TestTerminalArrowSequences(t *testing.T) {
	cases := []struct {
		final byte
		want  uint32
	}{
		{'A', BUTTON_UP},
		{'B', BUTTON_DOWN},
		{'C', BUTTON_RIGHT},
		{'D', BUTTON_LEFT},
	}
	for _, c := range cases {
		h := NewTerminalHost(nil)
		feedKeys(h, 0x1B, '[', c.final)
		if got := h.ButtonState(); got != c.want {
			t.Fatalf("ESC [ %q: mask = 0x%04X, expected 0x%04X", c.final, got, c.want)
		}
	}
}

// TestTerminalBrokenEscapeSequence verifies that a byte other than [
// after ESC aborts the sequence and is itself swallowed, then decoding
// resumes normally.
func TestTerminalBrokenEscapeSequence(t *testing.T) {
	h := NewTerminalHost(nil)
	feedKeys(h, 0x1B, 'z')
	if got := h.ButtonState(); got != 0 {
		t.Fatalf("mask = 0x%04X after broken sequence, expected 0", got)
	}

	h.routeKey('z')
	if got := h.ButtonState(); got != BUTTON_A {
		t.Fatalf("mask = 0x%04X, expected 0x%04X", got, uint32(BUTTON_A))
	}
}

// TestTerminalUnknownKeysIgnored verifies that unmapped bytes press
// nothing.
func TestTerminalUnknownKeysIgnored(t *testing.T) {
	h := NewTerminalHost(nil)
	feedKeys(h, 'q', 'w', '1', ' ')
	if got := h.ButtonState(); got != 0 {
		t.Fatalf("mask = 0x%04X, expected 0", got)
	}
}

// TestTerminalHoldDecay verifies that a press reads as held until its
// deadline passes, synthesizing hold from repeat-only input.
func TestTerminalHoldDecay(t *testing.T) {
	h := NewTerminalHost(nil)
	h.routeKey('z')
	if got := h.ButtonState(); got != BUTTON_A {
		t.Fatalf("mask = 0x%04X, expected 0x%04X", got, uint32(BUTTON_A))
	}

	h.mutex.Lock()
	h.expiry[BUTTON_A] = time.Now().Add(-time.Millisecond)
	h.mutex.Unlock()

	if got := h.ButtonState(); got != 0 {
		t.Fatalf("mask = 0x%04X after decay, expected 0", got)
	}
}

// TestTerminalCombinedMask verifies that multiple live presses OR
// together.
func TestTerminalCombinedMask(t *testing.T) {
	h := NewTerminalHost(nil)
	feedKeys(h, 'z', 0x1B, '[', 'A')
	if got := h.ButtonState(); got != BUTTON_A|BUTTON_UP {
		t.Fatalf("mask = 0x%04X, expected 0x%04X", got, uint32(BUTTON_A|BUTTON_UP))
	}
}

// TestTerminalCtrlCRunsQuitCallback verifies that Ctrl-C triggers the
// quit path, since raw mode swallows SIGINT.
func TestTerminalCtrlCRunsQuitCallback(t *testing.T) {
	quit := false
	h := NewTerminalHost(func() { quit = true })
	h.routeKey(0x03)
	if !quit {
		t.Fatal("Ctrl-C did not run the quit callback")
	}
}
