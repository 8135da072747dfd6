//go:build !headless

// video_backend_ebiten.go - Ebiten video backend for Revolution Engine

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

// padKeyMap binds host keys to pad button bits. Held keys are polled
// every Update tick rather than edge-triggered so the guest sees level
// state at INPUT_STATE_ADDR.
var padKeyMap = []struct {
	key ebiten.Key
	bit uint32
}{
	{ebiten.KeyArrowUp, BUTTON_UP},
	{ebiten.KeyArrowDown, BUTTON_DOWN},
	{ebiten.KeyArrowLeft, BUTTON_LEFT},
	{ebiten.KeyArrowRight, BUTTON_RIGHT},
	{ebiten.KeyZ, BUTTON_A},
	{ebiten.KeyX, BUTTON_B},
	{ebiten.KeyA, BUTTON_X},
	{ebiten.KeyS, BUTTON_Y},
	{ebiten.KeyEnter, BUTTON_START},
}

type EbitenOutput struct {
	running     bool
	window      *ebiten.Image
	width       int
	height      int
	fullscreen  bool
	scale       int
	windowedW   int
	windowedH   int
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  atomic.Uint64
	refreshRate int
	vsyncChan   chan struct{}
	done        chan struct{}

	buttons      atomic.Uint32
	statusSource func() string

	clipboardOnce sync.Once
	clipboardOK   bool
	showStatusBar bool
}

func NewEbitenOutput() (VideoOutput, error) {
	return &EbitenOutput{
		width:       SCREEN_WIDTH,
		height:      SCREEN_HEIGHT,
		scale:       1,
		windowedW:   SCREEN_WIDTH,
		windowedH:   SCREEN_HEIGHT,
		frameBuffer: make([]byte, SCREEN_WIDTH*SCREEN_HEIGHT*4),
		refreshRate: 60,
		vsyncChan:   make(chan struct{}, 1),
		done:        make(chan struct{}),
	}, nil
}

func (eo *EbitenOutput) Start() error {
	if eo.running {
		return nil
	}
	eo.bufferMutex.Lock()
	eo.done = make(chan struct{})
	eo.bufferMutex.Unlock()
	eo.running = true
	ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	ebiten.SetWindowTitle("Revolution Engine (c) 2024 - 2026 Zayn Otley")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if eo.fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		defer func() {
			eo.running = false
			eo.bufferMutex.RLock()
			done := eo.done
			eo.bufferMutex.RUnlock()
			select {
			case <-done:
			default:
				close(done)
			}
		}()
		if err := ebiten.RunGame(eo); err != nil {
			fmt.Printf("Ebiten error: %v\n", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	<-eo.vsyncChan
	return nil
}

func (eo *EbitenOutput) Stop() error {
	eo.running = false
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

func (eo *EbitenOutput) Done() <-chan struct{} {
	eo.bufferMutex.RLock()
	done := eo.done
	eo.bufferMutex.RUnlock()
	return done
}

func (eo *EbitenOutput) UpdateFrame(data []byte) error {
	eo.bufferMutex.Lock()
	copy(eo.frameBuffer, data)
	eo.bufferMutex.Unlock()
	return nil
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()

	width := config.Width
	height := config.Height
	if width <= 0 {
		width = eo.width
	}
	if height <= 0 {
		height = eo.height
	}
	eo.width = width
	eo.height = height

	scale := config.Scale
	if scale < 1 {
		scale = 1
	}
	if scale > 8 {
		scale = 8
	}
	eo.scale = scale

	newSize := eo.width * eo.height * 4
	if len(eo.frameBuffer) != newSize {
		eo.frameBuffer = make([]byte, newSize)
	}

	eo.windowedW = eo.width * eo.scale
	eo.windowedH = eo.height * eo.scale
	eo.fullscreen = config.Fullscreen
	ebiten.SetFullscreen(eo.fullscreen)
	if !eo.fullscreen {
		ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	}
	if eo.window != nil {
		eo.window.Dispose()
		eo.window = nil
	}
	return nil
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Width:       eo.width,
		Height:      eo.height,
		Scale:       eo.scale,
		RefreshRate: eo.refreshRate,
		Fullscreen:  eo.fullscreen,
	}
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	return eo.frameCount.Load()
}

func (eo *EbitenOutput) IsStarted() bool {
	return eo.running
}

// ButtonState reports the pad mask assembled from the keyboard.
func (eo *EbitenOutput) ButtonState() uint32 {
	return eo.buttons.Load()
}

func (eo *EbitenOutput) SetStatusSource(source func() string) {
	eo.bufferMutex.Lock()
	eo.statusSource = source
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) Update() error {
	// Check if the window was closed using Ebiten's built-in detection
	if ebiten.IsWindowBeingClosed() {
		if activeCPU != nil {
			activeCPU.Stop()
		}
		return ebiten.Termination
	}

	// Normal update path when window is open
	if !eo.running {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		eo.copyScreenshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.bufferMutex.Lock()
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
		}
		eo.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		eo.bufferMutex.Lock()
		eo.showStatusBar = !eo.showStatusBar
		eo.bufferMutex.Unlock()
	}

	var mask uint32
	for _, pk := range padKeyMap {
		if ebiten.IsKeyPressed(pk.key) {
			mask |= pk.bit
		}
	}
	eo.buttons.Store(mask)
	return nil
}

// copyScreenshot encodes the most recent frame as PNG and places it on
// the system clipboard.
func (eo *EbitenOutput) copyScreenshot() {
	eo.clipboardOnce.Do(func() {
		eo.clipboardOK = clipboard.Init() == nil
	})
	if !eo.clipboardOK {
		fmt.Println("Screenshot: clipboard unavailable")
		return
	}

	eo.bufferMutex.RLock()
	img := image.NewRGBA(image.Rect(0, 0, eo.width, eo.height))
	copy(img.Pix, eo.frameBuffer)
	eo.bufferMutex.RUnlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		fmt.Printf("Screenshot encode failed: %v\n", err)
		return
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	fmt.Println("Screenshot copied to clipboard")
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	if eo.window == nil {
		eo.window = ebiten.NewImage(eo.width, eo.height)
	}

	eo.bufferMutex.RLock()
	eo.window.WritePixels(eo.frameBuffer)
	showStatusBar := eo.showStatusBar
	statusSource := eo.statusSource
	eo.bufferMutex.RUnlock()
	screen.DrawImage(eo.window, nil)
	if showStatusBar {
		eo.drawStatusBar(screen, statusSource)
	}

	eo.frameCount.Add(1)
	select {
	case eo.vsyncChan <- struct{}{}:
	default:
	}
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return eo.width, eo.height
}

func (eo *EbitenOutput) drawStatusBar(screen *ebiten.Image, statusSource func() string) {
	barHeight := 16
	if barHeight >= eo.height {
		return
	}
	y := eo.height - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(eo.width), float64(barHeight), color.RGBA{0, 0, 0, 180})

	face := basicfont.Face7x13
	status := fmt.Sprintf("FPS %0.1f", ebiten.ActualFPS())
	if statusSource != nil {
		status = statusSource()
	}
	text.Draw(screen, status, face, 6, y+12, color.RGBA{190, 190, 190, 255})

	legend := "F9 Screenshot  F11 Fullscreen  F12 Status Bar"
	legendW := text.BoundString(face, legend).Dx()
	legendX := max(eo.width-legendW-6, 6)
	text.Draw(screen, legend, face, legendX, y+12, color.RGBA{160, 160, 160, 255})
}
