// main.go - Main entry point for the Revolution Engine machine emulator

/*

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/RevolutionEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func boilerPlate() {
	fmt.Println("\nA big-endian 32-bit console brought back to life in pure Go.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/RevolutionEngine")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	boilerPlate()

	var (
		scriptPath string
		console    bool
		trace      bool
		maxCycles  uint64
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&scriptPath, "script", "", "Lua automation script to run alongside the machine")
	flagSet.BoolVar(&console, "console", false, "Run without a window, pad driven by the raw terminal")
	flagSet.BoolVar(&trace, "trace", false, "Print every instruction fetch and dump registers on halt")
	flagSet.Uint64Var(&maxCycles, "maxcycles", 0, "Stop after this many instructions (0 = no limit)")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./revolution_engine [-script file.lua] [-console] [-trace] [-maxcycles N] bootimage")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	filename := flagSet.Arg(0)
	if filename == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	// Initialize sound first so a broken audio stack fails fast
	audioChip, err := NewAudioChip(AUDIO_BACKEND_OTO)
	if err != nil {
		fmt.Printf("Failed to initialize sound: %v\n", err)
		os.Exit(1)
	}

	videoChip, err := NewVideoChip(VIDEO_BACKEND_EBITEN)
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}

	machine := NewMachine(videoChip, audioChip)
	machine.cpu.Trace = trace
	machine.SetMaxCycles(maxCycles)

	if err := machine.LoadBootImage(filename); err != nil {
		fmt.Printf("Error loading boot image: %v\n", err)
		os.Exit(1)
	}

	if scriptPath != "" {
		if err := machine.AttachScript(scriptPath); err != nil {
			fmt.Printf("Error loading script: %v\n", err)
			os.Exit(1)
		}
	}

	var pad *TerminalHost
	if console {
		pad = NewTerminalHost(machine.Stop)
		pad.Start()
		machine.SetInputSource(pad.ButtonState)
	} else {
		if err := videoChip.Start(); err != nil {
			fmt.Printf("Failed to start video: %v\n", err)
			os.Exit(1)
		}
		if ic, ok := videoChip.output.(InputCapable); ok {
			machine.SetInputSource(ic.ButtonState)
		}
		if sc, ok := videoChip.output.(StatusCapable); ok {
			sc.SetStatusSource(machine.statusLine)
		}
	}

	audioChip.Start()

	machine.Run()

	audioChip.Stop()
	if console {
		pad.Stop()
	} else {
		_ = videoChip.Stop()
	}
	if trace {
		machine.cpu.DumpState()
	}
	fmt.Println("Machine halted.")
}
