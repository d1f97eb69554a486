package nova

import "github.com/nova16/emu/internal/isatable"

// packModes combines up to 2 address modes into one mode byte, one
// 3-bit field per Port operand in declaration order, mirroring
// decodeOperands' own packing.
func packModes(modes ...isatable.AddressMode) byte {
	var b byte
	for i, m := range modes {
		b |= byte(m) << uint(i*3)
	}
	return b
}

func be16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

// asm is a tiny byte-slice builder for assembling test programs
// directly in NOVA-16 machine code, since no assembler is part of
// this module.
type asm struct{ b []byte }

func (a *asm) op(b ...byte) *asm { a.b = append(a.b, b...); return a }

func (a *asm) bytes() []byte { return a.b }

func newEmulator(t interface{ Fatalf(string, ...interface{}) }, program []byte) *Emulator {
	e, err := New(program, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}
