package nova

import (
	"testing"

	"github.com/nova16/emu/internal/isatable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteSliceAliasingPHighPLow(t *testing.T) {
	var a asm
	a.op(0x02, packModes(isatable.ModeReg, isatable.ModeImm), 0x00).op(be16(0x1234)...) // MOV16 P0, 0x1234
	a.op(0x01, packModes(isatable.ModePHigh, isatable.ModeImm), 0x00, 0xAA)             // MOV8 P0:, 0xAA

	e := newEmulator(t, a.bytes())
	require.Nil(t, e.Step().Fault)
	require.Nil(t, e.Step().Fault)
	assert.Equal(t, uint16(0xAA34), e.regs.P[0], "writing P0: must only touch the high byte")
}

func TestHwRegisterPortWritesThroughToPeripheral(t *testing.T) {
	var a asm
	// MOV16 VX, 0x0042 via hw register mode on operand 0.
	a.op(0x02, packModes(isatable.ModeHwReg, isatable.ModeImm)).op(byte(isatable.HwVX)).op(be16(0x0042)...)

	e := newEmulator(t, a.bytes())
	require.Nil(t, e.Step().Fault)
	assert.Equal(t, uint16(0x0042), e.gfx.VX())
}

func TestImmediateOperandRejectsWrite(t *testing.T) {
	// MOV8 42, R0 -- destination is an immediate, which cannot be written.
	var a asm
	a.op(0x01, packModes(isatable.ModeImm, isatable.ModeReg), 42, 0x00)
	e := newEmulator(t, a.bytes())
	res := e.Step()
	require.NotNil(t, res.Fault)
	assert.Equal(t, InvalidOperandMode, res.Fault.Kind)
}
