package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/nova16/emu/internal/debugger"
	"github.com/nova16/emu/internal/nova"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var debugOrigin uint16

// debugCmd opens an interactive REPL over a loaded program image (§6.4).
var debugCmd = &cobra.Command{
	Use:   "debug path/to/program.bin",
	Short: "step a NOVA-16 program under an interactive debugger",
	Args:  cobra.ExactArgs(1),
	Run:   runDebug,
}

func init() {
	debugCmd.Flags().Uint16Var(&debugOrigin, "origin", 0x1000, "address the program image is loaded at")
}

func runDebug(cmd *cobra.Command, args []string) {
	prog, err := ioutil.ReadFile(args[0])
	if err != nil {
		fmt.Println(errors.Wrap(err, "loading program image"))
		os.Exit(1)
	}

	emu, err := nova.New(prog, debugOrigin)
	if err != nil {
		fmt.Println(errors.Wrap(err, "constructing emulator"))
		os.Exit(1)
	}

	if err := debugger.New(emu).Run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
