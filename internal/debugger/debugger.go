// Package debugger is an interactive REPL over a running emulator,
// grounded in the teacher's preference for a small command loop over a
// VM (chippy's Run/debug printer) rather than a full TUI.
package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nova16/emu/internal/isatable"
	"github.com/nova16/emu/internal/nova"
	"github.com/pkg/errors"
)

// Debugger wraps an Emulator with breakpoints and a command loop.
type Debugger struct {
	emu    *nova.Emulator
	breaks map[uint16]bool
	out    io.Writer
}

// New returns a debugger over emu, printing to stdout.
func New(emu *nova.Emulator) *Debugger {
	return &Debugger{emu: emu, breaks: make(map[uint16]bool), out: os.Stdout}
}

// Run reads commands from stdin until "quit" or EOF (§6.4: step, run,
// break <addr>, regs, mem <addr> <len>, layer <n> <outfile>, quit).
func (d *Debugger) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(d.out, "(nova) ")
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "step":
			d.step()
		case "run":
			d.runUntilBreak()
		case "break":
			if err := d.setBreak(fields); err != nil {
				fmt.Fprintln(d.out, err)
			}
		case "regs":
			d.printRegs()
		case "mem":
			if err := d.printMem(fields); err != nil {
				fmt.Fprintln(d.out, err)
			}
		case "layer":
			if err := d.dumpLayer(fields); err != nil {
				fmt.Fprintln(d.out, err)
			}
		case "quit":
			return nil
		default:
			fmt.Fprintf(d.out, "unknown command %q\n", fields[0])
		}
	}
}

func (d *Debugger) step() {
	before := d.emu.Snapshot()
	mnemonic := "?"
	if ins, ok := isatable.Lookup(d.emu.ReadMemory(before.PC, 1)[0]); ok {
		mnemonic = ins.Mnemonic
	}

	res := d.emu.Step()
	switch {
	case res.Fault != nil:
		fmt.Fprintln(d.out, res.Fault)
	case res.Halted:
		fmt.Fprintln(d.out, "halted")
	default:
		snap := d.emu.Snapshot()
		fmt.Fprintf(d.out, "%-10s pc=0x%04X -> 0x%04X cycles=%d\n", mnemonic, before.PC, snap.PC, res.Cycles)
	}
}

// runUntilBreak single-steps so it can stop exactly at a breakpoint,
// unlike RunFor's cycle-budget loop.
func (d *Debugger) runUntilBreak() {
	for {
		snap := d.emu.Snapshot()
		if d.breaks[snap.PC] {
			fmt.Fprintf(d.out, "breakpoint at 0x%04X\n", snap.PC)
			return
		}
		res := d.emu.Step()
		if res.Fault != nil {
			fmt.Fprintln(d.out, res.Fault)
			return
		}
		if res.Halted {
			fmt.Fprintln(d.out, "halted")
			return
		}
	}
}

func (d *Debugger) setBreak(fields []string) error {
	if len(fields) != 2 {
		return errors.New("usage: break <addr>")
	}
	addr, err := parseAddr(fields[1])
	if err != nil {
		return err
	}
	d.breaks[addr] = true
	fmt.Fprintf(d.out, "breakpoint set at 0x%04X\n", addr)
	return nil
}

func (d *Debugger) printRegs() {
	snap := d.emu.Snapshot()
	fmt.Fprintf(d.out, "PC=0x%04X FLAGS=0x%02X (Z=%t S=%t C=%t V=%t I=%t) halted=%t divideFault=%t cycles=%d\n",
		snap.PC, snap.Flags,
		snap.Flags&0x01 != 0, snap.Flags&0x02 != 0, snap.Flags&0x04 != 0, snap.Flags&0x08 != 0, snap.Flags&0x10 != 0,
		snap.Halted, snap.DivideFault, snap.CyclesUsed)
	for i, r := range snap.R {
		fmt.Fprintf(d.out, "R%d=0x%02X ", i, r)
	}
	fmt.Fprintln(d.out)
	for i, p := range snap.P {
		fmt.Fprintf(d.out, "P%d=0x%04X ", i, p)
	}
	fmt.Fprintln(d.out)
}

func (d *Debugger) printMem(fields []string) error {
	if len(fields) != 3 {
		return errors.New("usage: mem <addr> <len>")
	}
	addr, err := parseAddr(fields[1])
	if err != nil {
		return err
	}
	length, err := strconv.Atoi(fields[2])
	if err != nil {
		return errors.Wrap(err, "parsing length")
	}
	for i, b := range d.emu.ReadMemory(addr, length) {
		if i%16 == 0 {
			fmt.Fprintf(d.out, "\n0x%04X  ", int(addr)+i)
		}
		fmt.Fprintf(d.out, "%02X ", b)
	}
	fmt.Fprintln(d.out)
	return nil
}

func (d *Debugger) dumpLayer(fields []string) error {
	if len(fields) != 3 {
		return errors.New("usage: layer <n> <outfile>")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return errors.Wrap(err, "parsing layer index")
	}
	layer := d.emu.Layer(n)
	f, err := os.Create(fields[2])
	if err != nil {
		return errors.Wrap(err, "creating layer dump file")
	}
	defer f.Close()
	if _, err := f.Write(layer[:]); err != nil {
		return errors.Wrap(err, "writing layer dump")
	}
	fmt.Fprintf(d.out, "wrote layer %d (%d bytes) to %s\n", n, len(layer), fields[2])
	return nil
}

func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
	if err != nil {
		return 0, errors.Wrap(err, "parsing address")
	}
	return uint16(v), nil
}
