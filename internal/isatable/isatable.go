// Package isatable is the single machine-readable description of the
// NOVA-16 instruction set: opcode byte, mnemonic, operand template and
// static cycle cost. It has no dependency on the emulator or on any I/O —
// internal/nova's CPU consumes it to dispatch and execute, internal/disasm
// consumes it to decode bytes back to text, and internal/debugger consumes
// it to name the instruction it steps. Keeping it dependency-free is what
// lets all three agree by construction instead of by convention.
package isatable

import "fmt"

// OperandKind describes the shape an operand slot accepts, not its
// run-time value. The CPU's port resolver (internal/nova) turns an
// OperandKind plus the bytes that follow it into a concrete Port.
type OperandKind uint8

const (
	// None marks an instruction with no operand in this slot.
	None OperandKind = iota
	// Port8 is an addressed 8-bit operand: a 3-bit field in the
	// instruction's mode byte plus 1-2 mode-specific payload bytes
	// (see AddressMode).
	Port8
	// Port16 is the 16-bit counterpart of Port8.
	Port16
	// Addr16 is a bare absolute 16-bit address with no mode byte —
	// used only by the control-transfer instructions, whose targets
	// are always absolute per spec.
	Addr16
	// Imm8 is a bare literal byte with no mode byte, used for the
	// fixed-width lo/hi operands of RNDR8.
	Imm8
	// Imm16 is the 16-bit counterpart of Imm8, used by RNDR16.
	Imm16
)

// AddressMode selects how a Port8/Port16 operand's value or location is
// computed. An instruction has one mode byte, right after its opcode and
// before all payload bytes; each Port8/Port16 operand takes one 3-bit
// field of it, in declaration order starting at the low bits.
type AddressMode uint8

const (
	// ModeReg addresses a general register directly: R0-R9 for Port8,
	// P0-P9 for Port16. Payload: 1 byte register id.
	ModeReg AddressMode = iota
	// ModePHigh addresses the high byte of a P register (PN:). Valid
	// only for Port8. Payload: 1 byte register id (0-9).
	ModePHigh
	// ModePLow addresses the low byte of a P register (:PN). Valid
	// only for Port8. Payload: 1 byte register id (0-9).
	ModePLow
	// ModeImm is a read-only literal. Payload: 1 byte for Port8, 2
	// bytes (big-endian) for Port16.
	ModeImm
	// ModeDirectMem addresses memory at a literal 16-bit address.
	// Payload: 2 bytes (big-endian address).
	ModeDirectMem
	// ModeIndirectReg addresses memory at the address held in a P
	// register. Payload: 1 byte register id (0-9).
	ModeIndirectReg
	// ModeIndexedReg addresses memory at (PN + signed imm8 offset).
	// Payload: 1 byte register id, 1 byte offset.
	ModeIndexedReg
	// ModeHwReg addresses a named hardware register (VX, SA, TT, ...).
	// Payload: 1 byte hardware register id; its width must match the
	// operand's Port8/Port16 kind or decode fails.
	ModeHwReg
)

// PayloadLen returns the number of bytes following the mode byte for the
// given operand kind and address mode, or an error if the combination is
// not valid (e.g. ModePHigh on a Port16 operand).
func PayloadLen(kind OperandKind, mode AddressMode) (int, error) {
	switch kind {
	case Port8:
		switch mode {
		case ModeReg, ModePHigh, ModePLow, ModeImm, ModeIndirectReg, ModeHwReg:
			return 1, nil
		case ModeDirectMem:
			return 2, nil
		case ModeIndexedReg:
			return 2, nil
		}
	case Port16:
		switch mode {
		case ModeReg, ModeIndirectReg, ModeHwReg:
			return 1, nil
		case ModeImm, ModeDirectMem:
			return 2, nil
		case ModeIndexedReg:
			return 2, nil
		case ModePHigh, ModePLow:
			return 0, fmt.Errorf("isatable: mode %d invalid for 16-bit operand", mode)
		}
	}
	return 0, fmt.Errorf("isatable: unknown address mode %d for operand kind %d", mode, kind)
}

// Instruction is one row of the opcode table: the handler's identity
// (Mnemonic, which internal/nova's execute switches on), its operand
// template, and its fixed cycle cost (§5 of the spec: static per opcode,
// consumed by the Timer's tick accumulator).
type Instruction struct {
	Opcode   byte
	Mnemonic string
	Operands []OperandKind
	Cycles   uint8
}

// InterruptServiceCycles is the fixed cost of entering an interrupt
// handler (push PC, push FLAGS, clear I, jump), charged instead of any
// instruction's own cost when the CPU services a vector.
const InterruptServiceCycles = 12

var table = []Instruction{
	{0x00, "NOP", nil, 1},

	{0x01, "MOV8", []OperandKind{Port8, Port8}, 2},
	{0x02, "MOV16", []OperandKind{Port16, Port16}, 2},
	{0x03, "PUSH8", []OperandKind{Port8}, 3},
	{0x04, "PUSH16", []OperandKind{Port16}, 3},
	{0x05, "POP8", []OperandKind{Port8}, 3},
	{0x06, "POP16", []OperandKind{Port16}, 3},

	{0x07, "ADD8", []OperandKind{Port8, Port8}, 2},
	{0x08, "SUB8", []OperandKind{Port8, Port8}, 2},
	{0x09, "MUL8", []OperandKind{Port8, Port8}, 3},
	{0x0A, "DIV8", []OperandKind{Port8, Port8}, 4},
	{0x0B, "MOD8", []OperandKind{Port8, Port8}, 4},
	{0x0C, "INC8", []OperandKind{Port8}, 1},
	{0x0D, "DEC8", []OperandKind{Port8}, 1},
	{0x0E, "NEG8", []OperandKind{Port8}, 1},

	{0x0F, "ADD16", []OperandKind{Port16, Port16}, 2},
	{0x10, "SUB16", []OperandKind{Port16, Port16}, 2},
	{0x11, "MUL16", []OperandKind{Port16, Port16}, 3},
	{0x12, "DIV16", []OperandKind{Port16, Port16}, 4},
	{0x13, "MOD16", []OperandKind{Port16, Port16}, 4},
	{0x14, "INC16", []OperandKind{Port16}, 1},
	{0x15, "DEC16", []OperandKind{Port16}, 1},
	{0x16, "NEG16", []OperandKind{Port16}, 1},

	{0x17, "CMP8", []OperandKind{Port8, Port8}, 2},
	{0x18, "CMP16", []OperandKind{Port16, Port16}, 2},

	{0x40, "AND8", []OperandKind{Port8, Port8}, 2},
	{0x41, "OR8", []OperandKind{Port8, Port8}, 2},
	{0x42, "XOR8", []OperandKind{Port8, Port8}, 2},
	{0x43, "NOT8", []OperandKind{Port8}, 1},
	{0x44, "SHL8", []OperandKind{Port8, Port8}, 2},
	{0x45, "SHR8", []OperandKind{Port8, Port8}, 2},
	{0x46, "ROL8", []OperandKind{Port8, Port8}, 2},
	{0x47, "ROR8", []OperandKind{Port8, Port8}, 2},

	{0x48, "AND16", []OperandKind{Port16, Port16}, 2},
	{0x49, "OR16", []OperandKind{Port16, Port16}, 2},
	{0x4A, "XOR16", []OperandKind{Port16, Port16}, 2},
	{0x4B, "NOT16", []OperandKind{Port16}, 1},
	{0x4C, "SHL16", []OperandKind{Port16, Port16}, 2},
	{0x4D, "SHR16", []OperandKind{Port16, Port16}, 2},
	{0x4E, "ROL16", []OperandKind{Port16, Port16}, 2},
	{0x4F, "ROR16", []OperandKind{Port16, Port16}, 2},

	{0x60, "JMP", []OperandKind{Addr16}, 3},
	{0x61, "JZ", []OperandKind{Addr16}, 3},
	{0x62, "JNZ", []OperandKind{Addr16}, 3},
	{0x63, "JC", []OperandKind{Addr16}, 3},
	{0x64, "JNC", []OperandKind{Addr16}, 3},
	{0x65, "JS", []OperandKind{Addr16}, 3},
	{0x66, "JNS", []OperandKind{Addr16}, 3},
	{0x67, "JO", []OperandKind{Addr16}, 3},
	{0x68, "JNO", []OperandKind{Addr16}, 3},
	{0x69, "JEQ", []OperandKind{Addr16}, 3},
	{0x6A, "JNE", []OperandKind{Addr16}, 3},
	{0x6B, "JLT", []OperandKind{Addr16}, 3},
	{0x6C, "JLE", []OperandKind{Addr16}, 3},
	{0x6D, "JGT", []OperandKind{Addr16}, 3},
	{0x6E, "JGE", []OperandKind{Addr16}, 3},
	{0x6F, "CALL", []OperandKind{Addr16}, 5},
	{0x70, "RET", nil, 5},
	{0x71, "IRET", nil, 5},
	{0x72, "HLT", nil, 1},
	{0x73, "STI", nil, 1},
	{0x74, "CLI", nil, 1},

	{0x80, "KEYIN", []OperandKind{Port8}, 2},
	{0x81, "KEYSTAT", []OperandKind{Port8}, 2},
	{0x82, "KEYCOUNT", []OperandKind{Port8}, 2},
	{0x83, "KEYCLEAR", nil, 2},
	{0x84, "KEYCTRL", []OperandKind{Port8}, 2},

	{0x86, "SPLAY", nil, 2},
	{0x87, "SSTOP", nil, 2},
	{0x88, "RND", []OperandKind{Port16}, 2},
	{0x89, "RNDR8", []OperandKind{Port8, Imm8, Imm8}, 3},
	{0x8A, "RNDR16", []OperandKind{Port16, Imm16, Imm16}, 3},

	{0x8B, "SWRITE", []OperandKind{Port8}, 3},
	{0x8C, "SREAD", []OperandKind{Port8}, 3},
	{0x8D, "SROLX", []OperandKind{Port8}, 2},
	{0x8E, "SROLY", []OperandKind{Port8}, 2},
	{0x8F, "SFLIPX", nil, 2},
	{0x90, "SFLIPY", nil, 2},
	{0x91, "SROTL", nil, 4},
	{0x92, "SROTR", nil, 4},
	{0x93, "TEXT", []OperandKind{Port16, Port8}, 4},

	{0x94, "SPBLIT", []OperandKind{Port8}, 3},
	{0x95, "SPBLITALL", nil, 20},
}

var (
	byOpcode   [256]*Instruction
	byMnemonic = map[string]*Instruction{}
)

func init() {
	for i := range table {
		ins := &table[i]
		byOpcode[ins.Opcode] = ins
		byMnemonic[ins.Mnemonic] = ins
	}
}

// Lookup returns the Instruction for an opcode byte, or false if it is
// unassigned (InvalidOpcode territory for the caller).
func Lookup(opcode byte) (*Instruction, bool) {
	ins := byOpcode[opcode]
	return ins, ins != nil
}

// LookupMnemonic returns the Instruction for a mnemonic, or false if no
// instruction has that name.
func LookupMnemonic(mnemonic string) (*Instruction, bool) {
	ins, ok := byMnemonic[mnemonic]
	return ins, ok
}

// All returns a copy of every defined instruction, ordered by opcode, for
// code that enumerates the whole table (this package's tests do).
func All() []Instruction {
	out := make([]Instruction, len(table))
	copy(out, table)
	return out
}
