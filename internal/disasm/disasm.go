// Package disasm turns a NOVA-16 program image back into text, driven
// entirely by internal/isatable so its notion of instruction shape can
// never drift from the one internal/nova executes.
package disasm

import (
	"fmt"
	"strings"

	"github.com/nova16/emu/internal/isatable"
)

// Line is one disassembled instruction: its address, the raw bytes it
// occupied, and its rendered mnemonic/operand text.
type Line struct {
	Addr uint16
	Raw  []byte
	Text string
}

// Disassemble walks prog from address 0, decoding one instruction at a
// time until the bytes are exhausted. An unknown opcode is rendered as
// a DB (raw byte) pseudo-instruction and decoding resumes at the next
// byte, so one bad byte does not derail the rest of the listing. An
// instruction whose operands run past the end of prog becomes one line
// covering every remaining byte, with the decode error as a comment;
// any other operand decode error skips only the opcode byte.
func Disassemble(prog []byte) []Line {
	var lines []Line
	addr := 0
	for addr < len(prog) {
		opcode := prog[addr]
		ins, ok := isatable.Lookup(opcode)
		if !ok {
			lines = append(lines, Line{
				Addr: uint16(addr),
				Raw:  prog[addr : addr+1],
				Text: fmt.Sprintf("DB 0x%02X", opcode),
			})
			addr++
			continue
		}

		operandBytes, text, err := decodeOperands(prog, addr+1, ins)
		if err != nil {
			end := addr + 1
			if _, ok := err.(truncatedError); ok {
				end = len(prog)
			}
			lines = append(lines, Line{
				Addr: uint16(addr),
				Raw:  prog[addr:end],
				Text: fmt.Sprintf("%s ; %v", ins.Mnemonic, err),
			})
			addr = end
			continue
		}
		end := addr + 1 + operandBytes
		if end > len(prog) {
			end = len(prog)
		}
		lines = append(lines, Line{Addr: uint16(addr), Raw: prog[addr:end], Text: text})
		addr = end
	}
	return lines
}

// truncatedError is a decode error caused by prog ending inside an
// instruction, as opposed to an invalid operand encoding.
type truncatedError string

func (e truncatedError) Error() string { return string(e) }

// decodeOperands mirrors internal/nova's operand decode (same mode-byte
// packing, same per-kind payload widths) but renders text instead of
// resolving ports, since a disassembler has no register file to read.
func decodeOperands(prog []byte, offset int, ins *isatable.Instruction) (int, string, error) {
	portOperands := 0
	for _, k := range ins.Operands {
		if k == isatable.Port8 || k == isatable.Port16 {
			portOperands++
		}
	}

	start := offset
	var modeByte byte
	if portOperands > 0 {
		if offset >= len(prog) {
			return 0, "", truncatedError("truncated mode byte")
		}
		modeByte = prog[offset]
		offset++
	}

	var rendered []string
	portIndex := uint(0)
	for _, kind := range ins.Operands {
		switch kind {
		case isatable.Port8, isatable.Port16:
			mode := isatable.AddressMode((modeByte >> (portIndex * 3)) & 0x07)
			portIndex++
			n, err := isatable.PayloadLen(kind, mode)
			if err != nil {
				return 0, "", err
			}
			if offset+n > len(prog) {
				return 0, "", truncatedError("truncated operand")
			}
			rendered = append(rendered, renderPort(mode, prog[offset:offset+n]))
			offset += n
		case isatable.Addr16:
			if offset+2 > len(prog) {
				return 0, "", truncatedError("truncated address")
			}
			rendered = append(rendered, fmt.Sprintf("0x%04X", beWord(prog[offset:offset+2])))
			offset += 2
		case isatable.Imm8:
			if offset+1 > len(prog) {
				return 0, "", truncatedError("truncated immediate")
			}
			rendered = append(rendered, fmt.Sprintf("%d", prog[offset]))
			offset++
		case isatable.Imm16:
			if offset+2 > len(prog) {
				return 0, "", truncatedError("truncated immediate")
			}
			rendered = append(rendered, fmt.Sprintf("%d", beWord(prog[offset:offset+2])))
			offset += 2
		}
	}

	text := ins.Mnemonic
	if len(rendered) > 0 {
		text += " " + strings.Join(rendered, ", ")
	}
	return offset - start, text, nil
}

func renderPort(mode isatable.AddressMode, payload []byte) string {
	switch mode {
	case isatable.ModeReg:
		return fmt.Sprintf("R%d/P%d", payload[0], payload[0])
	case isatable.ModePHigh:
		return fmt.Sprintf("P%d:", payload[0])
	case isatable.ModePLow:
		return fmt.Sprintf(":P%d", payload[0])
	case isatable.ModeImm:
		if len(payload) == 1 {
			return fmt.Sprintf("%d", payload[0])
		}
		return fmt.Sprintf("%d", beWord(payload))
	case isatable.ModeDirectMem:
		return fmt.Sprintf("[0x%04X]", beWord(payload))
	case isatable.ModeIndirectReg:
		return fmt.Sprintf("[P%d]", payload[0])
	case isatable.ModeIndexedReg:
		return fmt.Sprintf("[P%d%+d]", payload[0], int8(payload[1]))
	case isatable.ModeHwReg:
		hw := isatable.HwReg(payload[0])
		if hw.Valid() {
			return hw.String()
		}
		return fmt.Sprintf("HW(%d)", payload[0])
	}
	return "?"
}

func beWord(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }

// Format renders every decoded line as "0x%04X  mnemonic operands".
func Format(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "0x%04X  %s\n", l.Addr, l.Text)
	}
	return b.String()
}
