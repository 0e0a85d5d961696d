// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Mode describes a memory addressing mode. The 65c816's immediate operand
// width depends on the current register width flags, so operand lengths
// are resolved against a status register.
type Mode byte

// All addressing modes used by the implemented opcode subset.
const (
	IMP Mode = iota // implied (no operand)
	IMM             // immediate, accumulator/memory width
	IMX             // immediate, index register width
	IM8             // immediate, always one byte
	ABS             // absolute (16-bit address in the data bank)
	LNG             // absolute long (24-bit address)
	LGX             // absolute long indexed by X
	REL             // PC-relative branch
)

type instfunc func(cpu *CPU) (cycles int, err error)

// An Instruction describes one CPU instruction: its mnemonic, its opcode
// value, its addressing mode, and its emulator implementation.
type Instruction struct {
	Name   string // all-caps mnemonic
	Opcode byte   // hexadecimal opcode value
	Mode   Mode   // addressing mode
	fn     instfunc
}

// OperandLength returns the instruction's operand size in bytes given the
// current status register; the full instruction occupies one further byte
// for the opcode itself.
func (i *Instruction) OperandLength(p *StatusRegister) int {
	switch i.Mode {
	case IMP:
		return 0
	case IMM:
		if p.ByteAccess() {
			return 1
		}
		return 2
	case IMX:
		if p.ByteIndex() {
			return 1
		}
		return 2
	case IM8, REL:
		return 1
	case ABS:
		return 2
	case LNG, LGX:
		return 3
	}
	return 0
}

// Valid reports whether the opcode is present in the instruction table.
// Fetching an invalid opcode is a decode fault.
func (i *Instruction) Valid() bool {
	return i.fn != nil
}

// All implemented opcodes.
var data = []Instruction{
	{"PHP", 0x08, IMP, (*CPU).php},
	{"BPL", 0x10, REL, (*CPU).bpl},
	{"CLC", 0x18, IMP, (*CPU).clc},
	{"INC", 0x1a, IMP, (*CPU).incA},
	{"TCS", 0x1b, IMP, (*CPU).tcs},
	{"JSR", 0x20, ABS, (*CPU).jsr},
	{"PLP", 0x28, IMP, (*CPU).plp},
	{"BMI", 0x30, REL, (*CPU).bmi},
	{"SEC", 0x38, IMP, (*CPU).sec},
	{"DEC", 0x3a, IMP, (*CPU).decA},
	{"PHA", 0x48, IMP, (*CPU).pha},
	{"JMP", 0x4c, ABS, (*CPU).jmpAbs},
	{"CLI", 0x58, IMP, (*CPU).cli},
	{"PHY", 0x5a, IMP, (*CPU).phy},
	{"TCD", 0x5b, IMP, (*CPU).tcd},
	{"RTS", 0x60, IMP, (*CPU).rts},
	{"PLA", 0x68, IMP, (*CPU).pla},
	{"SEI", 0x78, IMP, (*CPU).sei},
	{"PLY", 0x7a, IMP, (*CPU).ply},
	{"BRA", 0x80, REL, (*CPU).bra},
	{"DEY", 0x88, IMP, (*CPU).dey},
	{"TXA", 0x8a, IMP, (*CPU).txa},
	{"STY", 0x8c, ABS, (*CPU).styAbs},
	{"STA", 0x8d, ABS, (*CPU).staAbs},
	{"STX", 0x8e, ABS, (*CPU).stxAbs},
	{"STA", 0x8f, LNG, (*CPU).staLong},
	{"BCC", 0x90, REL, (*CPU).bcc},
	{"TYA", 0x98, IMP, (*CPU).tya},
	{"STZ", 0x9c, ABS, (*CPU).stzAbs},
	{"STA", 0x9f, LGX, (*CPU).staLongX},
	{"LDY", 0xa0, IMX, (*CPU).ldyImm},
	{"LDX", 0xa2, IMX, (*CPU).ldxImm},
	{"TAY", 0xa8, IMP, (*CPU).tay},
	{"LDA", 0xa9, IMM, (*CPU).ldaImm},
	{"TAX", 0xaa, IMP, (*CPU).tax},
	{"LDA", 0xad, ABS, (*CPU).ldaAbs},
	{"BCS", 0xb0, REL, (*CPU).bcs},
	{"CLV", 0xb8, IMP, (*CPU).clv},
	{"REP", 0xc2, IM8, (*CPU).rep},
	{"INY", 0xc8, IMP, (*CPU).iny},
	{"CMP", 0xc9, IMM, (*CPU).cmpImm},
	{"DEX", 0xca, IMP, (*CPU).dex},
	{"CMP", 0xcd, ABS, (*CPU).cmpAbs},
	{"BNE", 0xd0, REL, (*CPU).bne},
	{"CLD", 0xd8, IMP, (*CPU).cld},
	{"PHX", 0xda, IMP, (*CPU).phx},
	{"SEP", 0xe2, IM8, (*CPU).sep},
	{"INX", 0xe8, IMP, (*CPU).inx},
	{"SBC", 0xe9, IMM, (*CPU).sbcImm},
	{"NOP", 0xea, IMP, (*CPU).nop},
	{"XBA", 0xeb, IMP, (*CPU).xba},
	{"BEQ", 0xf0, REL, (*CPU).beq},
	{"SED", 0xf8, IMP, (*CPU).sed},
	{"PLX", 0xfa, IMP, (*CPU).plx},
	{"XCE", 0xfb, IMP, (*CPU).xce},
}

// An InstructionSet defines the set of all instructions that can run on
// the emulated CPU. It is immutable after construction.
type InstructionSet struct {
	instructions [256]Instruction
}

// Lookup retrieves the instruction corresponding to the requested opcode.
// Entries for unimplemented opcodes report Valid() == false.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

func newInstructionSet() *InstructionSet {
	set := &InstructionSet{}
	for _, d := range data {
		set.instructions[d.Opcode] = d
	}
	return set
}

var instructionSet *InstructionSet

// GetInstructionSet returns the 65c816 instruction set, building it on
// first use.
func GetInstructionSet() *InstructionSet {
	if instructionSet == nil {
		instructionSet = newInstructionSet()
	}
	return instructionSet
}
