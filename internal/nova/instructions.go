package nova

import "math/rand"

// controlTransferMnemonics names every instruction that sets PC itself.
// Step only auto-advances PC to the post-operand cursor for everything
// else (§3 invariant 4).
var controlTransferMnemonics = map[string]bool{
	"JMP": true, "JZ": true, "JNZ": true, "JC": true, "JNC": true,
	"JS": true, "JNS": true, "JO": true, "JNO": true,
	"JEQ": true, "JNE": true, "JLT": true, "JLE": true, "JGT": true, "JGE": true,
	"CALL": true, "RET": true, "IRET": true,
}

// execute runs one decoded instruction's semantics. cursor is the
// address immediately after the instruction's operand bytes — the
// fallthrough PC for non-control-transfer instructions, and the
// not-taken target for conditional jumps.
func (e *Emulator) execute(mnemonic string, ops []rawOperand, pc, cursor uint16) *Fault {
	switch mnemonic {
	case "NOP":
		return nil

	case "MOV8":
		dst, f := e.port8(ops[0], pc, true)
		if f != nil {
			return f
		}
		src, f := e.port8(ops[1], pc, false)
		if f != nil {
			return f
		}
		dst.Write(src.Read())
		return nil
	case "MOV16":
		dst, f := e.port16(ops[0], pc, true)
		if f != nil {
			return f
		}
		src, f := e.port16(ops[1], pc, false)
		if f != nil {
			return f
		}
		dst.Write(src.Read())
		return nil

	case "PUSH8":
		src, f := e.port8(ops[0], pc, false)
		if f != nil {
			return f
		}
		return e.pushByte(src.Read(), pc)
	case "PUSH16":
		src, f := e.port16(ops[0], pc, false)
		if f != nil {
			return f
		}
		return e.pushWord(src.Read(), pc)
	case "POP8":
		v, f := e.popByte(pc)
		if f != nil {
			return f
		}
		dst, f := e.port8(ops[0], pc, true)
		if f != nil {
			return f
		}
		dst.Write(v)
		return nil
	case "POP16":
		v, f := e.popWord(pc)
		if f != nil {
			return f
		}
		dst, f := e.port16(ops[0], pc, true)
		if f != nil {
			return f
		}
		dst.Write(v)
		return nil

	case "ADD8", "SUB8", "MUL8", "DIV8", "MOD8":
		return e.execArith8(mnemonic, ops, pc)
	case "ADD16", "SUB16", "MUL16", "DIV16", "MOD16":
		return e.execArith16(mnemonic, ops, pc)
	case "INC8", "DEC8", "NEG8":
		return e.execUnaryArith8(mnemonic, ops, pc)
	case "INC16", "DEC16", "NEG16":
		return e.execUnaryArith16(mnemonic, ops, pc)

	case "CMP8":
		a, f := e.port8(ops[0], pc, false)
		if f != nil {
			return f
		}
		b, f := e.port8(ops[1], pc, false)
		if f != nil {
			return f
		}
		result, carry, overflow := sub8(a.Read(), b.Read())
		e.setFlags8(result, carry, overflow)
		return nil
	case "CMP16":
		a, f := e.port16(ops[0], pc, false)
		if f != nil {
			return f
		}
		b, f := e.port16(ops[1], pc, false)
		if f != nil {
			return f
		}
		result, carry, overflow := sub16(a.Read(), b.Read())
		e.setFlags16(result, carry, overflow)
		return nil

	case "AND8", "OR8", "XOR8", "NOT8", "SHL8", "SHR8", "ROL8", "ROR8":
		return e.execLogic8(mnemonic, ops, pc)
	case "AND16", "OR16", "XOR16", "NOT16", "SHL16", "SHR16", "ROL16", "ROR16":
		return e.execLogic16(mnemonic, ops, pc)

	case "JMP", "JZ", "JNZ", "JC", "JNC", "JS", "JNS", "JO", "JNO",
		"JEQ", "JNE", "JLT", "JLE", "JGT", "JGE":
		if e.jccTaken(mnemonic) {
			e.regs.PC = ops[0].lit
		} else {
			e.regs.PC = cursor
		}
		return nil
	case "CALL":
		if f := e.pushWord(cursor, pc); f != nil {
			return f
		}
		e.regs.PC = ops[0].lit
		return nil
	case "RET":
		target, f := e.popWord(pc)
		if f != nil {
			return f
		}
		e.regs.PC = target
		return nil
	case "IRET":
		flags, f := e.popByte(pc)
		if f != nil {
			return f
		}
		target, f := e.popWord(pc)
		if f != nil {
			return f
		}
		e.regs.Flags = flags
		e.regs.setFlag(FlagI, true)
		e.regs.PC = target
		return nil
	case "HLT":
		e.halted = true
		return nil
	case "STI":
		e.regs.setFlag(FlagI, true)
		return nil
	case "CLI":
		e.regs.setFlag(FlagI, false)
		return nil

	case "KEYIN":
		dst, f := e.port8(ops[0], pc, true)
		if f != nil {
			return f
		}
		v, _ := e.kbd.In()
		dst.Write(v)
		e.regs.setFlag(FlagZ, v == 0)
		return nil
	case "KEYSTAT":
		dst, f := e.port8(ops[0], pc, true)
		if f != nil {
			return f
		}
		var v uint8
		if e.kbd.Count() > 0 {
			v = 1
		}
		dst.Write(v)
		e.regs.setFlag(FlagZ, v == 0)
		return nil
	case "KEYCOUNT":
		dst, f := e.port8(ops[0], pc, true)
		if f != nil {
			return f
		}
		v := uint8(e.kbd.Count())
		dst.Write(v)
		e.regs.setFlag(FlagZ, v == 0)
		return nil
	case "KEYCLEAR":
		e.kbd.Clear()
		return nil
	case "KEYCTRL":
		src, f := e.port8(ops[0], pc, false)
		if f != nil {
			return f
		}
		e.kbd.SetControl(src.Read())
		return nil

	case "SPLAY":
		e.snd.Play()
		return nil
	case "SSTOP":
		e.snd.Stop()
		return nil

	case "RND":
		dst, f := e.port16(ops[0], pc, true)
		if f != nil {
			return f
		}
		dst.Write(uint16(rand.Intn(1 << 16)))
		return nil
	case "RNDR8":
		dst, f := e.port8(ops[0], pc, true)
		if f != nil {
			return f
		}
		lo, hi := uint8(ops[1].lit), uint8(ops[2].lit)
		if lo > hi {
			return faultf(InvalidRange, pc, "lo=%d hi=%d", lo, hi)
		}
		dst.Write(lo + uint8(rand.Intn(int(hi-lo)+1)))
		return nil
	case "RNDR16":
		dst, f := e.port16(ops[0], pc, true)
		if f != nil {
			return f
		}
		lo, hi := ops[1].lit, ops[2].lit
		if lo > hi {
			return faultf(InvalidRange, pc, "lo=%d hi=%d", lo, hi)
		}
		dst.Write(lo + uint16(rand.Intn(int(hi-lo)+1)))
		return nil

	case "SWRITE":
		src, f := e.port8(ops[0], pc, false)
		if f != nil {
			return f
		}
		e.gfx.Write(src.Read())
		return nil
	case "SREAD":
		dst, f := e.port8(ops[0], pc, true)
		if f != nil {
			return f
		}
		dst.Write(e.gfx.Read())
		return nil
	case "SROLX":
		src, f := e.port8(ops[0], pc, false)
		if f != nil {
			return f
		}
		e.gfx.ScrollX(int8(src.Read()))
		return nil
	case "SROLY":
		src, f := e.port8(ops[0], pc, false)
		if f != nil {
			return f
		}
		e.gfx.ScrollY(int8(src.Read()))
		return nil
	case "SFLIPX":
		e.gfx.FlipX()
		return nil
	case "SFLIPY":
		e.gfx.FlipY()
		return nil
	case "SROTL":
		e.gfx.RotateCCW()
		return nil
	case "SROTR":
		e.gfx.RotateCW()
		return nil
	case "TEXT":
		addrPort, f := e.port16(ops[0], pc, false)
		if f != nil {
			return f
		}
		colorPort, f := e.port8(ops[1], pc, false)
		if f != nil {
			return f
		}
		e.gfx.DrawText(e.mem, addrPort.Read(), colorPort.Read())
		return nil

	case "SPBLIT":
		idPort, f := e.port8(ops[0], pc, false)
		if f != nil {
			return f
		}
		if err := e.gfx.Blit(idPort.Read()); err != nil {
			fault := err.(*Fault)
			fault.PC = pc
			return fault
		}
		return nil
	case "SPBLITALL":
		e.gfx.BlitAll()
		return nil
	}
	return faultf(InvalidOpcode, pc, "no handler for %s", mnemonic)
}

func (e *Emulator) execArith8(mnemonic string, ops []rawOperand, pc uint16) *Fault {
	dst, f := e.port8(ops[0], pc, true)
	if f != nil {
		return f
	}
	src, f := e.port8(ops[1], pc, false)
	if f != nil {
		return f
	}
	a, b := dst.Read(), src.Read()
	var result uint8
	var carry, overflow bool
	switch mnemonic {
	case "ADD8":
		result, carry, overflow = add8(a, b)
	case "SUB8":
		result, carry, overflow = sub8(a, b)
	case "MUL8":
		result, overflow = mul8(a, b)
	case "DIV8":
		var divByZero bool
		result, divByZero = div8(a, b)
		if divByZero {
			e.divideFault = true
		}
	case "MOD8":
		var divByZero bool
		result, divByZero = mod8(a, b)
		if divByZero {
			e.divideFault = true
		}
	}
	dst.Write(result)
	e.setFlags8(result, carry, overflow)
	return nil
}

func (e *Emulator) execArith16(mnemonic string, ops []rawOperand, pc uint16) *Fault {
	dst, f := e.port16(ops[0], pc, true)
	if f != nil {
		return f
	}
	src, f := e.port16(ops[1], pc, false)
	if f != nil {
		return f
	}
	a, b := dst.Read(), src.Read()
	var result uint16
	var carry, overflow bool
	switch mnemonic {
	case "ADD16":
		result, carry, overflow = add16(a, b)
	case "SUB16":
		result, carry, overflow = sub16(a, b)
	case "MUL16":
		result, overflow = mul16(a, b)
	case "DIV16":
		var divByZero bool
		result, divByZero = div16(a, b)
		if divByZero {
			e.divideFault = true
		}
	case "MOD16":
		var divByZero bool
		result, divByZero = mod16(a, b)
		if divByZero {
			e.divideFault = true
		}
	}
	dst.Write(result)
	e.setFlags16(result, carry, overflow)
	return nil
}

// execUnaryArith8 handles INC8/DEC8/NEG8. INC/DEC do not affect C
// (§4.2.3); NEG8 is modeled as 0-a so it gets the same C/V rules as SUB.
func (e *Emulator) execUnaryArith8(mnemonic string, ops []rawOperand, pc uint16) *Fault {
	port, f := e.port8(ops[0], pc, true)
	if f != nil {
		return f
	}
	a := port.Read()
	var result uint8
	var carry, overflow bool
	switch mnemonic {
	case "INC8":
		result, carry, overflow = add8(a, 1)
		carry = currentCarry(e)
	case "DEC8":
		result, carry, overflow = sub8(a, 1)
		carry = currentCarry(e)
	case "NEG8":
		result, carry, overflow = neg8(a)
	}
	port.Write(result)
	e.setFlags8(result, carry, overflow)
	return nil
}

func (e *Emulator) execUnaryArith16(mnemonic string, ops []rawOperand, pc uint16) *Fault {
	port, f := e.port16(ops[0], pc, true)
	if f != nil {
		return f
	}
	a := port.Read()
	var result uint16
	var carry, overflow bool
	switch mnemonic {
	case "INC16":
		result, carry, overflow = add16(a, 1)
		carry = currentCarry(e)
	case "DEC16":
		result, carry, overflow = sub16(a, 1)
		carry = currentCarry(e)
	case "NEG16":
		result, carry, overflow = neg16(a)
	}
	port.Write(result)
	e.setFlags16(result, carry, overflow)
	return nil
}

// currentCarry returns the CPU's current C flag, so INC/DEC can
// run through the same add8/sub8 helpers as ADD/SUB while leaving C
// exactly as it was (§4.2.3: "INC/DEC do not affect C").
func currentCarry(e *Emulator) bool { return e.regs.flag(FlagC) }

func (e *Emulator) execLogic8(mnemonic string, ops []rawOperand, pc uint16) *Fault {
	dst, f := e.port8(ops[0], pc, true)
	if f != nil {
		return f
	}
	if mnemonic == "NOT8" {
		result := ^dst.Read()
		dst.Write(result)
		e.setFlags8(result, false, false)
		return nil
	}
	src, f := e.port8(ops[1], pc, false)
	if f != nil {
		return f
	}
	a, b := dst.Read(), src.Read()
	var result uint8
	var carry bool
	switch mnemonic {
	case "AND8":
		result = a & b
	case "OR8":
		result = a | b
	case "XOR8":
		result = a ^ b
	case "SHL8":
		result, carry = shiftLoop8(a, b, true)
	case "SHR8":
		result, carry = shiftLoop8(a, b, false)
	case "ROL8":
		result, carry = rotateLoop8(a, b, true)
	case "ROR8":
		result, carry = rotateLoop8(a, b, false)
	}
	dst.Write(result)
	e.setFlags8(result, carry, false)
	return nil
}

func (e *Emulator) execLogic16(mnemonic string, ops []rawOperand, pc uint16) *Fault {
	dst, f := e.port16(ops[0], pc, true)
	if f != nil {
		return f
	}
	if mnemonic == "NOT16" {
		result := ^dst.Read()
		dst.Write(result)
		e.setFlags16(result, false, false)
		return nil
	}
	src, f := e.port16(ops[1], pc, false)
	if f != nil {
		return f
	}
	a, b := dst.Read(), src.Read()
	var result uint16
	var carry bool
	count := uint8(b)
	switch mnemonic {
	case "AND16":
		result = a & b
	case "OR16":
		result = a | b
	case "XOR16":
		result = a ^ b
	case "SHL16":
		result, carry = shiftLoop16(a, count, true)
	case "SHR16":
		result, carry = shiftLoop16(a, count, false)
	case "ROL16":
		result, carry = rotateLoop16(a, count, true)
	case "ROR16":
		result, carry = rotateLoop16(a, count, false)
	}
	dst.Write(result)
	e.setFlags16(result, carry, false)
	return nil
}

// jccTaken evaluates a conditional jump's flag test (§4.2.2). The
// signed comparisons follow CMP a,b computing a-b: LT is S xor V, LE
// adds Z, GT/GE are their negations.
func (e *Emulator) jccTaken(mnemonic string) bool {
	z := e.regs.flag(FlagZ)
	s := e.regs.flag(FlagS)
	c := e.regs.flag(FlagC)
	v := e.regs.flag(FlagV)
	switch mnemonic {
	case "JMP":
		return true
	case "JZ", "JEQ":
		return z
	case "JNZ", "JNE":
		return !z
	case "JC":
		return c
	case "JNC":
		return !c
	case "JS":
		return s
	case "JNS":
		return !s
	case "JO":
		return v
	case "JNO":
		return !v
	case "JLT":
		return s != v
	case "JLE":
		return (s != v) || z
	case "JGT":
		return !((s != v) || z)
	case "JGE":
		return !(s != v)
	}
	return false
}
