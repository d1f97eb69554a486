package disasm

import (
	"testing"

	"github.com/nova16/emu/internal/isatable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleMovImmediate(t *testing.T) {
	prog := []byte{0x01, byte(isatable.ModeReg) | byte(isatable.ModeImm)<<3, 0x00, 42}
	lines := Disassemble(prog)
	require.Len(t, lines, 1)
	assert.Equal(t, "MOV8 R0/P0, 42", lines[0].Text)
	assert.Equal(t, uint16(0), lines[0].Addr)
	assert.Len(t, lines[0].Raw, 4)
}

func TestDisassembleUnknownOpcodeBecomesDB(t *testing.T) {
	prog := []byte{0xFF, 0x00}
	lines := Disassemble(prog)
	require.Len(t, lines, 2)
	assert.Equal(t, "DB 0xFF", lines[0].Text)
	assert.Equal(t, "NOP", lines[1].Text)
}

func TestDisassembleTruncatedOperandIsCommentedNotFatal(t *testing.T) {
	prog := []byte{0x01, byte(isatable.ModeReg) | byte(isatable.ModeImm)<<3, 0x00} // missing the imm byte
	lines := Disassemble(prog)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0].Text, "MOV8")
	assert.Contains(t, lines[0].Text, "truncated")
}

func TestFormatRendersOneLinePerInstruction(t *testing.T) {
	prog := []byte{0x00, 0x72} // NOP, HLT
	out := Format(Disassemble(prog))
	assert.Contains(t, out, "0x0000  NOP\n")
	assert.Contains(t, out, "0x0001  HLT\n")
}
