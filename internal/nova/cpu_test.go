package nova

import (
	"testing"

	"github.com/nova16/emu/internal/isatable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMOV8ImmToReg(t *testing.T) {
	var a asm
	a.op(0x01, packModes(isatable.ModeReg, isatable.ModeImm), 0x00, 42) // MOV8 R0, 42
	e := newEmulator(t, a.bytes())

	res := e.Step()
	require.Nil(t, res.Fault)
	assert.Equal(t, uint8(42), e.regs.R[0])
	assert.Equal(t, uint16(4), e.regs.PC)
}

func TestADD8SetsCarryAndZero(t *testing.T) {
	var a asm
	a.op(0x01, packModes(isatable.ModeReg, isatable.ModeImm), 0x00, 0xFF) // MOV8 R0, 0xFF
	a.op(0x07, packModes(isatable.ModeReg, isatable.ModeImm), 0x00, 0x01) // ADD8 R0, 1
	e := newEmulator(t, a.bytes())

	require.Nil(t, e.Step().Fault)
	require.Nil(t, e.Step().Fault)

	assert.Equal(t, uint8(0), e.regs.R[0])
	assert.True(t, e.regs.flag(FlagZ))
	assert.True(t, e.regs.flag(FlagC))
	assert.False(t, e.regs.flag(FlagS))
}

func TestINC8DoesNotTouchCarry(t *testing.T) {
	var a asm
	a.op(0x01, packModes(isatable.ModeReg, isatable.ModeImm), 0x00, 0xFF) // MOV8 R0, 0xFF
	a.op(0x07, packModes(isatable.ModeReg, isatable.ModeImm), 0x01, 0x01) // ADD8 R1, 1 -> 0+1, no carry
	a.op(0x0C, packModes(isatable.ModeReg), 0x02)                         // INC8 R2

	e := newEmulator(t, a.bytes())
	require.Nil(t, e.Step().Fault)
	require.Nil(t, e.Step().Fault)
	assert.False(t, e.regs.flag(FlagC), "R1+1 must not carry")

	// Force C set, then confirm INC8 leaves it alone.
	e.regs.setFlag(FlagC, true)
	require.Nil(t, e.Step().Fault)
	assert.True(t, e.regs.flag(FlagC), "INC8 must not clear C")
	assert.Equal(t, uint8(1), e.regs.R[2])
}

func TestDivideByZeroSetsStickyFaultAndContinues(t *testing.T) {
	var a asm
	a.op(0x01, packModes(isatable.ModeReg, isatable.ModeImm), 0x00, 10) // MOV8 R0, 10
	a.op(0x0A, packModes(isatable.ModeReg, isatable.ModeImm), 0x00, 0)  // DIV8 R0, 0
	a.op(0x72)                                                          // HLT

	e := newEmulator(t, a.bytes())
	require.Nil(t, e.Step().Fault)
	require.Nil(t, e.Step().Fault, "DIV8 by zero must not return a Fault")
	assert.True(t, e.Snapshot().DivideFault)

	res := e.Step()
	assert.True(t, res.Halted)
}

func TestStackDisciplinePushPop(t *testing.T) {
	var a asm
	a.op(0x01, packModes(isatable.ModeReg, isatable.ModeImm), 0x00, 0x55) // MOV8 R0, 0x55
	a.op(0x03, packModes(isatable.ModeReg), 0x00)                          // PUSH8 R0
	a.op(0x05, packModes(isatable.ModeReg), 0x01)                          // POP8 R1

	e := newEmulator(t, a.bytes())
	startSP := e.regs.SP()
	require.Nil(t, e.Step().Fault)
	require.Nil(t, e.Step().Fault)
	assert.Equal(t, startSP-1, e.regs.SP(), "SP must decrease by exactly the payload size")
	require.Nil(t, e.Step().Fault)
	assert.Equal(t, startSP, e.regs.SP(), "SP must return to its starting value")
	assert.Equal(t, uint8(0x55), e.regs.R[1])
}

func TestStackOverflowFault(t *testing.T) {
	var a asm
	a.op(0x03, packModes(isatable.ModeReg), 0x00) // PUSH8 R0

	e := newEmulator(t, a.bytes())
	e.regs.SetSP(0)

	res := e.Step()
	require.NotNil(t, res.Fault)
	assert.Equal(t, StackOverflow, res.Fault.Kind)
}

func TestCallAndReturnRoundTrip(t *testing.T) {
	var a asm
	a.op(0x6F).op(be16(0x0010)...) // CALL 0x0010
	a.op(0x72)                     // HLT (at 0x0003, never reached directly)
	for len(a.b) < 0x10 {
		a.op(0x00) // NOP padding
	}
	a.op(0x70) // RET, at 0x0010

	e := newEmulator(t, a.bytes())
	startSP := e.regs.SP()

	require.Nil(t, e.Step().Fault) // CALL
	assert.Equal(t, uint16(0x0010), e.regs.PC)
	assert.Equal(t, startSP-2, e.regs.SP())

	require.Nil(t, e.Step().Fault) // RET
	assert.Equal(t, uint16(0x0003), e.regs.PC, "RET must resume right after CALL's operand")
	assert.Equal(t, startSP, e.regs.SP())
}

func TestConditionalJumpNotTakenFallsThrough(t *testing.T) {
	var a asm
	a.op(0x01, packModes(isatable.ModeReg, isatable.ModeImm), 0x00, 1) // MOV8 R0, 1
	a.op(0x01, packModes(isatable.ModeReg, isatable.ModeImm), 0x01, 1) // MOV8 R1, 1
	a.op(0x17, packModes(isatable.ModeReg, isatable.ModeReg), 0x00, 0x01) // CMP8 R0, R1 -> Z
	a.op(0x62).op(be16(0xBEEF)...)                                      // JNZ 0xBEEF (not taken)

	e := newEmulator(t, a.bytes())
	require.Nil(t, e.Step().Fault)
	require.Nil(t, e.Step().Fault)
	require.Nil(t, e.Step().Fault)
	require.True(t, e.regs.flag(FlagZ))

	pcBefore := e.regs.PC
	res := e.Step()
	require.Nil(t, res.Fault)
	assert.NotEqual(t, uint16(0xBEEF), e.regs.PC)
	assert.Greater(t, e.regs.PC, pcBefore)
}

func TestInterruptEntryAndIRET(t *testing.T) {
	mem := make([]byte, 0x2000)
	// Keyboard vector (1) handler at 0x0200.
	handlerAddr := be16(0x0200)
	mem[0x0100+4] = handlerAddr[0]
	mem[0x0100+5] = handlerAddr[1]

	// Main: enable keyboard IRQ via KEYCTRL, STI, then NOP forever.
	mem[0x0000] = 0x01 // MOV8 R0, 1
	mem[0x0001] = packModes(isatable.ModeReg, isatable.ModeImm)
	mem[0x0002] = 0x00
	mem[0x0003] = 0x01
	mem[0x0004] = 0x84 // KEYCTRL R0
	mem[0x0005] = packModes(isatable.ModeReg)
	mem[0x0006] = 0x00
	mem[0x0007] = 0x73 // STI
	mem[0x0008] = 0x00 // NOP
	mem[0x0009] = 0x00 // NOP

	// Handler at 0x0200: IRET.
	mem[0x0200] = 0x71 // IRET

	e := newEmulator(t, mem)
	require.Nil(t, e.Step().Fault) // MOV8
	require.Nil(t, e.Step().Fault) // KEYCTRL
	require.Nil(t, e.Step().Fault) // STI
	assert.True(t, e.regs.flag(FlagI))

	e.PressKey(7)
	startSP := e.regs.SP()
	preInterruptFlags := e.regs.Flags
	preInterruptPC := e.regs.PC

	res := e.Step() // should service the interrupt instead of executing NOP
	require.Nil(t, res.Fault)
	assert.Equal(t, uint16(0x0200), e.regs.PC)
	assert.False(t, e.regs.flag(FlagI), "entry must clear FLAGS.I")
	assert.Equal(t, startSP-3, e.regs.SP(), "entry pushes a word (PC) then a byte (FLAGS)")

	require.Nil(t, e.Step().Fault) // IRET
	assert.Equal(t, preInterruptPC, e.regs.PC, "IRET must resume exactly where the interrupt preempted")
	assert.Equal(t, startSP, e.regs.SP())
	assert.Equal(t, preInterruptFlags|FlagI, e.regs.Flags, "IRET restores FLAGS then re-asserts I")
}

func TestUnknownOpcodeFaults(t *testing.T) {
	e := newEmulator(t, []byte{0xFF})
	res := e.Step()
	require.NotNil(t, res.Fault)
	assert.Equal(t, InvalidOpcode, res.Fault.Kind)
}

func TestHaltedMachineStepsAreNoOps(t *testing.T) {
	e := newEmulator(t, []byte{0x72}) // HLT
	require.True(t, e.Step().Halted)
	res := e.Step()
	assert.True(t, res.Halted)
	assert.Nil(t, res.Fault)
}
