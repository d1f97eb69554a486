package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/nova16/emu/internal/disasm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// disasmCmd prints a static disassembly of a program image to stdout (§6.4).
var disasmCmd = &cobra.Command{
	Use:   "disasm path/to/program.bin",
	Short: "disassemble a NOVA-16 program image",
	Args:  cobra.ExactArgs(1),
	Run:   runDisasm,
}

func runDisasm(cmd *cobra.Command, args []string) {
	prog, err := ioutil.ReadFile(args[0])
	if err != nil {
		fmt.Println(errors.Wrap(err, "loading program image"))
		os.Exit(1)
	}
	fmt.Print(disasm.Format(disasm.Disassemble(prog)))
}
