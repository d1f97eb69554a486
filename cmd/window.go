package cmd

import (
	"fmt"
	"os"

	"github.com/nova16/emu/internal/display"
	"github.com/nova16/emu/internal/nova"
)

// runWithWindow drives emu inside a pixelgl window instead of the
// headless RunFor loop, mirroring the teacher's pixelgl.Run(runMain)
// entry point.
func runWithWindow(emu *nova.Emulator) {
	if err := display.Run(emu); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
