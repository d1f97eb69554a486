package nova

import "github.com/nova16/emu/internal/isatable"

// Emulator is the NOVA-16 machine: register file, memory, and the five
// peripherals the CPU addresses through hardware registers (§2). It has
// no I/O of its own — hosts drive it through Step/RunFor and read it
// back through Framebuffer/Layer/Snapshot/ReadMemory (§6.3).
type Emulator struct {
	regs  Registers
	mem   *Memory
	irq   *InterruptController
	kbd   *Keyboard
	timer *Timer
	snd   *Sound
	gfx   *Graphics

	halted      bool
	divideFault bool
	cyclesRun   uint64
}

// New loads program at origin and returns a ready-to-run Emulator: SP
// and FP at 0xFFFF, PC at origin, FLAGS.I clear until the program's own
// STI (§3 Lifecycle).
func New(program []byte, origin uint16) (*Emulator, error) {
	mem := NewMemory()
	if err := mem.LoadImage(program, origin); err != nil {
		return nil, err
	}
	irq := NewInterruptController()
	e := &Emulator{
		mem:   mem,
		irq:   irq,
		kbd:   NewKeyboard(irq),
		timer: NewTimer(irq),
		snd:   NewSound(),
	}
	e.gfx = NewGraphics(mem)
	e.regs.SetSP(0xFFFF)
	e.regs.SetFP(0xFFFF)
	e.regs.PC = origin
	return e, nil
}

// StepResult is what one Step call produced (§6.3).
type StepResult struct {
	Cycles int
	Halted bool
	Fault  *Fault
}

// RunSummary accumulates the result of repeated Step calls (§6.3 run_for).
type RunSummary struct {
	StepsExecuted  int
	CyclesConsumed uint64
	Halted         bool
	Fault          *Fault
}

// RunFor steps the machine until it halts, faults, or maxCycles have
// been consumed, whichever comes first.
func (e *Emulator) RunFor(maxCycles uint64) RunSummary {
	var summary RunSummary
	for summary.CyclesConsumed < maxCycles {
		res := e.Step()
		if res.Halted {
			// The step that executed HLT ran and consumed cycles; a Step
			// on an already-halted machine reports zero cycles.
			if res.Cycles > 0 {
				summary.StepsExecuted++
				summary.CyclesConsumed += uint64(res.Cycles)
			}
			summary.Halted = true
			break
		}
		if res.Fault != nil {
			summary.Fault = res.Fault
			break
		}
		summary.StepsExecuted++
		summary.CyclesConsumed += uint64(res.Cycles)
	}
	return summary
}

// Step executes one unit of progress: servicing a pending interrupt if
// FLAGS.I is set and one qualifies, otherwise fetching, decoding and
// executing the instruction at PC (§4.2.1, §5). A halted machine's
// further Steps are no-ops reporting Halted.
func (e *Emulator) Step() StepResult {
	if e.halted {
		return StepResult{Halted: true}
	}

	if e.regs.flag(FlagI) {
		if vector, ok := e.irq.Highest(); ok {
			if fault := e.serviceInterrupt(vector); fault != nil {
				return StepResult{Fault: fault}
			}
			e.cyclesRun += isatable.InterruptServiceCycles
			e.timer.Tick(isatable.InterruptServiceCycles)
			return StepResult{Cycles: isatable.InterruptServiceCycles}
		}
	}

	pc := e.regs.PC
	opcodeByte := e.mem.Read8(pc)
	ins, ok := isatable.Lookup(opcodeByte)
	if !ok {
		return StepResult{Fault: faultf(InvalidOpcode, pc, "opcode 0x%02X", opcodeByte)}
	}

	ops, length, fault := e.decodeOperands(ins, pc)
	if fault != nil {
		return StepResult{Fault: fault}
	}
	cursor := pc + 1 + length

	if fault := e.execute(ins.Mnemonic, ops, pc, cursor); fault != nil {
		return StepResult{Fault: fault}
	}
	if !controlTransferMnemonics[ins.Mnemonic] {
		e.regs.PC = cursor
	}

	e.cyclesRun += uint64(ins.Cycles)
	e.timer.Tick(ins.Cycles)
	return StepResult{Cycles: int(ins.Cycles), Halted: e.halted}
}

// serviceInterrupt performs the fixed entry sequence from §4.2.1 step 1:
// push PC, push FLAGS, clear FLAGS.I, jump to the vector's handler,
// clear the vector's pending bit.
func (e *Emulator) serviceInterrupt(vector int) *Fault {
	if f := e.pushWord(e.regs.PC, e.regs.PC); f != nil {
		return f
	}
	if f := e.pushByte(e.regs.Flags, e.regs.PC); f != nil {
		return f
	}
	e.regs.setFlag(FlagI, false)
	e.regs.PC = vectorHandlerAddr(e.mem, vector)
	e.irq.Clear(vector)
	return nil
}

// rawOperand is one decoded operand: for Port8/Port16 it carries the
// address mode and mode-specific payload bytes still to be resolved;
// for Addr16/Imm8/Imm16 it carries the literal value directly, since
// those kinds have no mode byte (§6.2).
type rawOperand struct {
	kind    isatable.OperandKind
	mode    isatable.AddressMode
	payload []byte
	lit     uint16
}

// decodeOperands reads an instruction's operand bytes starting right
// after its opcode at pc. Port-kind operands share one mode byte (one
// 3-bit field per Port operand, in declaration order) before their own
// mode-specific payload; Addr16/Imm8/Imm16 operands are bare literals
// with no mode byte (§6.2). It returns the decoded operands and the
// number of bytes consumed after the opcode.
func (e *Emulator) decodeOperands(ins *isatable.Instruction, pc uint16) ([]rawOperand, uint16, *Fault) {
	portOperands := 0
	for _, k := range ins.Operands {
		if k == isatable.Port8 || k == isatable.Port16 {
			portOperands++
		}
	}

	offset := pc + 1
	var modeByte byte
	if portOperands > 0 {
		modeByte = e.mem.Read8(offset)
		offset++
	}

	ops := make([]rawOperand, len(ins.Operands))
	portIndex := uint(0)
	for i, kind := range ins.Operands {
		switch kind {
		case isatable.Port8, isatable.Port16:
			mode := isatable.AddressMode((modeByte >> (portIndex * 3)) & 0x07)
			portIndex++
			n, err := isatable.PayloadLen(kind, mode)
			if err != nil {
				return nil, 0, faultf(InvalidOperandMode, pc, "%v", err)
			}
			ops[i] = rawOperand{kind: kind, mode: mode, payload: e.mem.ReadBytes(offset, n)}
			offset += uint16(n)
		case isatable.Addr16:
			ops[i] = rawOperand{kind: kind, lit: e.mem.Read16(offset)}
			offset += 2
		case isatable.Imm8:
			ops[i] = rawOperand{kind: kind, lit: uint16(e.mem.Read8(offset))}
			offset++
		case isatable.Imm16:
			ops[i] = rawOperand{kind: kind, lit: e.mem.Read16(offset)}
			offset += 2
		}
	}
	return ops, offset - (pc + 1), nil
}

func (e *Emulator) port8(op rawOperand, pc uint16, needWrite bool) (Port8, *Fault) {
	p, err := e.resolvePort8(op.mode, op.payload, pc, needWrite)
	if err != nil {
		return Port8{}, err.(*Fault)
	}
	return p, nil
}

func (e *Emulator) port16(op rawOperand, pc uint16, needWrite bool) (Port16, *Fault) {
	p, err := e.resolvePort16(op.mode, op.payload, pc, needWrite)
	if err != nil {
		return Port16{}, err.(*Fault)
	}
	return p, nil
}

// pushByte/pushWord/popByte/popWord implement the descending stack
// (§3 invariant 3, §4.2.2): SP strictly decreases on push, strictly
// increases on pop, by the exact payload size. Wrapping past either
// end of the address space surfaces as StackOverflow/StackUnderflow
// rather than silently wrapping (§4.2.5).
func (e *Emulator) pushByte(v uint8, pc uint16) *Fault {
	sp := int(e.regs.SP())
	if sp-1 < 0 {
		return faultf(StackOverflow, pc, "SP=0x%04X", sp)
	}
	sp--
	e.mem.Write8(uint16(sp), v)
	e.regs.SetSP(uint16(sp))
	return nil
}

func (e *Emulator) pushWord(v uint16, pc uint16) *Fault {
	sp := int(e.regs.SP())
	if sp-2 < 0 {
		return faultf(StackOverflow, pc, "SP=0x%04X", sp)
	}
	sp -= 2
	e.mem.Write16(uint16(sp), v)
	e.regs.SetSP(uint16(sp))
	return nil
}

func (e *Emulator) popByte(pc uint16) (uint8, *Fault) {
	sp := int(e.regs.SP())
	if sp+1 > 0xFFFF {
		return 0, faultf(StackUnderflow, pc, "SP=0x%04X", sp)
	}
	v := e.mem.Read8(uint16(sp))
	e.regs.SetSP(uint16(sp + 1))
	return v, nil
}

func (e *Emulator) popWord(pc uint16) (uint16, *Fault) {
	sp := int(e.regs.SP())
	if sp+2 > 0xFFFF {
		return 0, faultf(StackUnderflow, pc, "SP=0x%04X", sp)
	}
	v := e.mem.Read16(uint16(sp))
	e.regs.SetSP(uint16(sp + 2))
	return v, nil
}

// Framebuffer returns the composited 256x256 output buffer (§6.3).
func (e *Emulator) Framebuffer() *[layerSize]uint8 { return e.gfx.Framebuffer() }

// Layer returns one of the 8 raw (pre-composite) layer buffers (§6.3).
func (e *Emulator) Layer(i int) *[layerSize]uint8 { return e.gfx.Layer(i) }

// PressKey delivers a keypress to the keyboard buffer between Steps
// (§5 Suspension points).
func (e *Emulator) PressKey(code uint8) { e.kbd.PressKey(code) }

// ReadMemory returns a copy of length bytes starting at addr (§6.3).
func (e *Emulator) ReadMemory(addr uint16, length int) []byte { return e.mem.ReadBytes(addr, length) }

// SoundChannels returns a snapshot of the sound channel bank, for a
// host-side synthesizer to drive real audio output from (§4.4).
func (e *Emulator) SoundChannels() [SoundChannelCount]Channel { return e.snd.Channels() }
