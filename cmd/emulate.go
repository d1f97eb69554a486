package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/nova16/emu/internal/nova"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	emulateCycles uint64
	emulateOrigin uint16
	emulateWindow bool
)

// emulateCmd runs a program image to completion or fault (§6.4).
var emulateCmd = &cobra.Command{
	Use:   "emulate path/to/program.bin",
	Short: "run a NOVA-16 program",
	Args:  cobra.ExactArgs(1),
	Run:   runEmulate,
}

func init() {
	emulateCmd.Flags().Uint64Var(&emulateCycles, "cycles", 10_000_000, "cycle budget before forced exit")
	emulateCmd.Flags().Uint16Var(&emulateOrigin, "origin", 0x1000, "address the program image is loaded at")
	emulateCmd.Flags().BoolVar(&emulateWindow, "window", false, "open a windowed framebuffer view")
}

func runEmulate(cmd *cobra.Command, args []string) {
	prog, err := ioutil.ReadFile(args[0])
	if err != nil {
		fmt.Println(errors.Wrap(err, "loading program image"))
		os.Exit(1)
	}

	emu, err := nova.New(prog, emulateOrigin)
	if err != nil {
		fmt.Println(errors.Wrap(err, "constructing emulator"))
		os.Exit(1)
	}

	if emulateWindow {
		runWithWindow(emu)
		return
	}

	summary := emu.RunFor(emulateCycles)
	switch {
	case summary.Fault != nil:
		snap := emu.Snapshot()
		fmt.Printf("fault: %v\n", summary.Fault)
		printSnapshot(snap)
		os.Exit(1)
	case summary.Halted:
		fmt.Printf("halted after %d steps, %d cycles\n", summary.StepsExecuted, summary.CyclesConsumed)
		os.Exit(0)
	default:
		fmt.Printf("cycle budget exhausted after %d steps, %d cycles\n", summary.StepsExecuted, summary.CyclesConsumed)
		os.Exit(2)
	}
}

func printSnapshot(snap nova.RegSnapshot) {
	fmt.Printf("PC=0x%04X FLAGS=0x%02X halted=%t divideFault=%t cyclesUsed=%d\n",
		snap.PC, snap.Flags, snap.Halted, snap.DivideFault, snap.CyclesUsed)
	for i, r := range snap.R {
		fmt.Printf("R%d=0x%02X ", i, r)
	}
	fmt.Println()
	for i, p := range snap.P {
		fmt.Printf("P%d=0x%04X ", i, p)
	}
	fmt.Println()
}
