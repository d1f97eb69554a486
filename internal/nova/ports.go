package nova

import "github.com/nova16/emu/internal/isatable"

// Port8 is a resolved 8-bit operand: a read source, a write sink, or
// both, abstracting over register, immediate, memory and hardware-
// register operands (§9 Design Notes — "Operand ports"). Handlers
// consume Ports without caring about the concrete addressing mode that
// produced them.
type Port8 struct {
	read  func() uint8
	write func(uint8)
}

func (p Port8) Read() uint8 { return p.read() }

// Write is a no-op if the port has no write side (an immediate).
func (p Port8) Write(v uint8) {
	if p.write != nil {
		p.write(v)
	}
}

func (p Port8) writable() bool { return p.write != nil }

// Port16 is the 16-bit counterpart of Port8.
type Port16 struct {
	read  func() uint16
	write func(uint16)
}

func (p Port16) Read() uint16 { return p.read() }

func (p Port16) Write(v uint16) {
	if p.write != nil {
		p.write(v)
	}
}

func (p Port16) writable() bool { return p.write != nil }

// resolvePort8 turns an address mode plus its payload bytes into a
// Port8. needWrite rejects modes that cannot be written (ModeImm) when
// the caller's operand slot requires write access (e.g. MOV8's dst).
func (e *Emulator) resolvePort8(mode isatable.AddressMode, payload []byte, pc uint16, needWrite bool) (Port8, error) {
	switch mode {
	case isatable.ModeReg:
		id := payload[0]
		if id > 9 {
			return Port8{}, faultf(InvalidOperandMode, pc, "register id %d out of range", id)
		}
		return Port8{
			read:  func() uint8 { return e.regs.R[id] },
			write: func(v uint8) { e.regs.R[id] = v },
		}, nil
	case isatable.ModePHigh:
		id := payload[0]
		if id > 9 {
			return Port8{}, faultf(InvalidOperandMode, pc, "register id %d out of range", id)
		}
		return Port8{
			read:  func() uint8 { return uint8(e.regs.P[id] >> 8) },
			write: func(v uint8) { e.regs.P[id] = (e.regs.P[id] & 0x00FF) | uint16(v)<<8 },
		}, nil
	case isatable.ModePLow:
		id := payload[0]
		if id > 9 {
			return Port8{}, faultf(InvalidOperandMode, pc, "register id %d out of range", id)
		}
		return Port8{
			read:  func() uint8 { return uint8(e.regs.P[id]) },
			write: func(v uint8) { e.regs.P[id] = (e.regs.P[id] & 0xFF00) | uint16(v) },
		}, nil
	case isatable.ModeImm:
		if needWrite {
			return Port8{}, faultf(InvalidOperandMode, pc, "immediate operand cannot be written")
		}
		v := payload[0]
		return Port8{read: func() uint8 { return v }}, nil
	case isatable.ModeDirectMem:
		addr := beWord(payload)
		return Port8{
			read:  func() uint8 { return e.mem.Read8(addr) },
			write: func(v uint8) { e.mem.Write8(addr, v) },
		}, nil
	case isatable.ModeIndirectReg:
		id := payload[0]
		if id > 9 {
			return Port8{}, faultf(InvalidOperandMode, pc, "register id %d out of range", id)
		}
		return Port8{
			read:  func() uint8 { return e.mem.Read8(e.regs.P[id]) },
			write: func(v uint8) { e.mem.Write8(e.regs.P[id], v) },
		}, nil
	case isatable.ModeIndexedReg:
		id := payload[0]
		if id > 9 {
			return Port8{}, faultf(InvalidOperandMode, pc, "register id %d out of range", id)
		}
		offset := int8(payload[1])
		return Port8{
			read:  func() uint8 { return e.mem.Read8(e.regs.P[id] + uint16(offset)) },
			write: func(v uint8) { e.mem.Write8(e.regs.P[id]+uint16(offset), v) },
		}, nil
	case isatable.ModeHwReg:
		return e.resolveHwPort8(isatable.HwReg(payload[0]), pc)
	}
	return Port8{}, faultf(InvalidOperandMode, pc, "unknown mode %d", mode)
}

func (e *Emulator) resolvePort16(mode isatable.AddressMode, payload []byte, pc uint16, needWrite bool) (Port16, error) {
	switch mode {
	case isatable.ModeReg:
		id := payload[0]
		if id > 9 {
			return Port16{}, faultf(InvalidOperandMode, pc, "register id %d out of range", id)
		}
		return Port16{
			read:  func() uint16 { return e.regs.P[id] },
			write: func(v uint16) { e.regs.P[id] = v },
		}, nil
	case isatable.ModeImm:
		if needWrite {
			return Port16{}, faultf(InvalidOperandMode, pc, "immediate operand cannot be written")
		}
		v := beWord(payload)
		return Port16{read: func() uint16 { return v }}, nil
	case isatable.ModeDirectMem:
		addr := beWord(payload)
		return Port16{
			read:  func() uint16 { return e.mem.Read16(addr) },
			write: func(v uint16) { e.mem.Write16(addr, v) },
		}, nil
	case isatable.ModeIndirectReg:
		id := payload[0]
		if id > 9 {
			return Port16{}, faultf(InvalidOperandMode, pc, "register id %d out of range", id)
		}
		return Port16{
			read:  func() uint16 { return e.mem.Read16(e.regs.P[id]) },
			write: func(v uint16) { e.mem.Write16(e.regs.P[id], v) },
		}, nil
	case isatable.ModeIndexedReg:
		id := payload[0]
		if id > 9 {
			return Port16{}, faultf(InvalidOperandMode, pc, "register id %d out of range", id)
		}
		offset := int8(payload[1])
		return Port16{
			read:  func() uint16 { return e.mem.Read16(e.regs.P[id] + uint16(offset)) },
			write: func(v uint16) { e.mem.Write16(e.regs.P[id]+uint16(offset), v) },
		}, nil
	case isatable.ModeHwReg:
		return e.resolveHwPort16(isatable.HwReg(payload[0]), pc)
	case isatable.ModePHigh, isatable.ModePLow:
		return Port16{}, faultf(InvalidOperandMode, pc, "byte-slice mode invalid for 16-bit operand")
	}
	return Port16{}, faultf(InvalidOperandMode, pc, "unknown mode %d", mode)
}

// resolveHwPort8 maps an 8-bit hardware register id to its owning
// peripheral's field (§9 Design Notes — "Hardware registers as typed
// ports").
func (e *Emulator) resolveHwPort8(id isatable.HwReg, pc uint16) (Port8, error) {
	if !id.Valid() || id.Width() != 8 {
		return Port8{}, faultf(InvalidOperandMode, pc, "hw register %v is not 8-bit", id)
	}
	switch id {
	case isatable.HwVM:
		return Port8{read: e.gfx.VM, write: e.gfx.SetVM}, nil
	case isatable.HwVL:
		return Port8{read: e.gfx.VL, write: e.gfx.SetVL}, nil
	case isatable.HwSV:
		return Port8{read: e.snd.SV, write: e.snd.SetSV}, nil
	case isatable.HwSW:
		return Port8{read: e.snd.SW, write: e.snd.SetSW}, nil
	case isatable.HwTS:
		return Port8{read: e.timer.TS, write: e.timer.SetTS}, nil
	case isatable.HwTC:
		return Port8{read: e.timer.TC, write: e.timer.SetTC}, nil
	}
	return Port8{}, faultf(InvalidOperandMode, pc, "unhandled hw register %v", id)
}

func (e *Emulator) resolveHwPort16(id isatable.HwReg, pc uint16) (Port16, error) {
	if !id.Valid() || id.Width() != 16 {
		return Port16{}, faultf(InvalidOperandMode, pc, "hw register %v is not 16-bit", id)
	}
	switch id {
	case isatable.HwVX:
		return Port16{read: e.gfx.VX, write: e.gfx.SetVX}, nil
	case isatable.HwVY:
		return Port16{read: e.gfx.VY, write: e.gfx.SetVY}, nil
	case isatable.HwSA:
		return Port16{read: e.snd.SA, write: e.snd.SetSA}, nil
	case isatable.HwSF:
		return Port16{read: e.snd.SF, write: e.snd.SetSF}, nil
	case isatable.HwTT:
		return Port16{read: e.timer.TT, write: e.timer.SetTT}, nil
	case isatable.HwTM:
		return Port16{read: e.timer.TM, write: e.timer.SetTM}, nil
	}
	return Port16{}, faultf(InvalidOperandMode, pc, "unhandled hw register %v", id)
}

func beWord(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
