package main

import "testing"

// newBareAudioChip returns a chip with no backend attached. Everything
// except Start and Stop works without one, which keeps these tests off
// the host's audio device.
func newBareAudioChip() *AudioChip {
	return &AudioChip{ring: make([]byte, AUDIO_RING_SIZE)}
}

// TestAudioChipRingGeometry verifies the ring holds exactly one second
// of interleaved stereo S16LE.
func TestAudioChipRingGeometry(t *testing.T) {
	chip := newBareAudioChip()
	want := AUDIO_SAMPLE_RATE * AUDIO_CHANNELS * AUDIO_SAMPLE_SIZE
	if got := chip.RingSize(); got != want {
		t.Fatalf("ring size = %d, expected %d", got, want)
	}
}

// TestAudioChipStage verifies that staged data lands at the start of
// the ring without disturbing the playback cursor.
func TestAudioChipStage(t *testing.T) {
	chip := newBareAudioChip()
	chip.position = 100

	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	chip.Stage(pcm)

	for i, b := range pcm {
		if chip.ring[i] != b {
			t.Fatalf("ring[%d] = 0x%02X, expected 0x%02X", i, chip.ring[i], b)
		}
	}
	if chip.position != 100 {
		t.Fatalf("position = %d, staging moved the playback cursor", chip.position)
	}
}

// TestAudioChipReadRingAdvances verifies sequential reads walk the
// ring.
func TestAudioChipReadRingAdvances(t *testing.T) {
	chip := newBareAudioChip()
	chip.enabled = true
	for i := 0; i < 8; i++ {
		chip.ring[i] = byte(i + 1)
	}

	buf := make([]byte, 4)
	chip.ReadRing(buf)
	if buf[0] != 1 || buf[3] != 4 {
		t.Fatalf("first read = % X, expected 01 02 03 04", buf)
	}
	chip.ReadRing(buf)
	if buf[0] != 5 || buf[3] != 8 {
		t.Fatalf("second read = % X, expected 05 06 07 08", buf)
	}
	if chip.position != 8 {
		t.Fatalf("position = %d, expected 8", chip.position)
	}
}

// TestAudioChipReadRingWraps verifies that playback wraps to the start
// of the ring, the looping the original DMA engine produced.
func TestAudioChipReadRingWraps(t *testing.T) {
	chip := newBareAudioChip()
	chip.enabled = true
	n := len(chip.ring)
	chip.ring[n-2] = 0xAA
	chip.ring[n-1] = 0xBB
	chip.ring[0] = 0xCC
	chip.ring[1] = 0xDD
	chip.position = n - 2

	buf := make([]byte, 4)
	chip.ReadRing(buf)

	if buf[0] != 0xAA || buf[1] != 0xBB || buf[2] != 0xCC || buf[3] != 0xDD {
		t.Fatalf("wrapped read = % X, expected AA BB CC DD", buf)
	}
	if chip.position != 2 {
		t.Fatalf("position = %d, expected 2 after wrap", chip.position)
	}
}

// TestAudioChipDisabledReadsSilence verifies that a disabled chip
// feeds the backend zeros without advancing the cursor.
func TestAudioChipDisabledReadsSilence(t *testing.T) {
	chip := newBareAudioChip()
	for i := range chip.ring {
		chip.ring[i] = 0x7F
	}
	chip.position = 16

	buf := make([]byte, 8)
	buf[0] = 0xEE
	chip.ReadRing(buf)

	for i, b := range buf {
		if b != 0 {
			t.Fatalf("buf[%d] = 0x%02X, expected silence", i, b)
		}
	}
	if chip.position != 16 {
		t.Fatalf("position = %d, disabled read moved the cursor", chip.position)
	}
}

// TestAudioChipStageOverRing verifies that Stage never writes past the
// ring even when handed more data than fits.
func TestAudioChipStageOverRing(t *testing.T) {
	chip := newBareAudioChip()
	data := make([]byte, AUDIO_RING_SIZE+64)
	for i := range data {
		data[i] = 0x42
	}

	chip.Stage(data)

	if got := len(chip.ring); got != AUDIO_RING_SIZE {
		t.Fatalf("ring length = %d, expected %d", got, AUDIO_RING_SIZE)
	}
	if chip.ring[AUDIO_RING_SIZE-1] != 0x42 {
		t.Fatalf("ring tail = 0x%02X, expected 0x42", chip.ring[AUDIO_RING_SIZE-1])
	}
}
