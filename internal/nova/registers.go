package nova

// Flag bit positions within FLAGS (§3).
const (
	FlagZ uint8 = 1 << iota // Zero
	FlagS                   // Sign
	FlagC                   // Carry
	FlagV                   // Overflow
	FlagI                   // Interrupt-enable
)

// Registers is the CPU's register file: ten 8-bit R registers, ten
// 16-bit P registers (P8 aliased to SP, P9 to FP), PC and FLAGS.
type Registers struct {
	R     [10]uint8
	P     [10]uint16
	PC    uint16
	Flags uint8
}

// SP is P8 by convention (§3).
func (r *Registers) SP() uint16     { return r.P[8] }
func (r *Registers) SetSP(v uint16) { r.P[8] = v }

// FP is P9 by convention (§3).
func (r *Registers) FP() uint16     { return r.P[9] }
func (r *Registers) SetFP(v uint16) { r.P[9] = v }

func (r *Registers) flag(mask uint8) bool { return r.Flags&mask != 0 }

func (r *Registers) setFlag(mask uint8, v bool) {
	if v {
		r.Flags |= mask
	} else {
		r.Flags &^= mask
	}
}

// RegSnapshot is a point-in-time, host-facing copy of every register
// (§6.3 dump_registers), used by the debugger's regs command and the
// CLI's fault dump.
type RegSnapshot struct {
	R           [10]uint8
	P           [10]uint16
	PC          uint16
	Flags       uint8
	DivideFault bool
	Halted      bool
	CyclesUsed  uint64
}

// Snapshot returns the current register state plus CPU-level status,
// for hosts that want a consistent read without holding internals.
func (c *Emulator) Snapshot() RegSnapshot {
	return RegSnapshot{
		R:           c.regs.R,
		P:           c.regs.P,
		PC:          c.regs.PC,
		Flags:       c.regs.Flags,
		DivideFault: c.divideFault,
		Halted:      c.halted,
		CyclesUsed:  c.cyclesRun,
	}
}
