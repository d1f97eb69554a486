package isatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupByOpcodeAndMnemonicAgree(t *testing.T) {
	for _, ins := range All() {
		byOp, ok := Lookup(ins.Opcode)
		require.True(t, ok)
		assert.Equal(t, ins.Mnemonic, byOp.Mnemonic)

		byName, ok := LookupMnemonic(ins.Mnemonic)
		require.True(t, ok)
		assert.Equal(t, ins.Opcode, byName.Opcode)
	}
}

func TestLookupUnassignedOpcodeFails(t *testing.T) {
	_, ok := Lookup(0xFE)
	assert.False(t, ok)
}

func TestPayloadLenRejectsPHighOnPort16(t *testing.T) {
	_, err := PayloadLen(Port16, ModePHigh)
	assert.Error(t, err)
}

func TestPayloadLenKnownCombinations(t *testing.T) {
	cases := []struct {
		kind OperandKind
		mode AddressMode
		want int
	}{
		{Port8, ModeReg, 1},
		{Port8, ModeDirectMem, 2},
		{Port8, ModeIndexedReg, 2},
		{Port16, ModeReg, 1},
		{Port16, ModeImm, 2},
		{Port16, ModeDirectMem, 2},
	}
	for _, c := range cases {
		got, err := PayloadLen(c.kind, c.mode)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestNoDuplicateOpcodes(t *testing.T) {
	seen := make(map[byte]string)
	for _, ins := range All() {
		if other, ok := seen[ins.Opcode]; ok {
			t.Fatalf("opcode 0x%02X assigned to both %s and %s", ins.Opcode, other, ins.Mnemonic)
		}
		seen[ins.Opcode] = ins.Mnemonic
	}
}
