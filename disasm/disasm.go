// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 65c816 single-instruction disassembler used
// by the debugger for instruction preview. Operand widths follow the
// status register handed in, since immediate operands change size with
// the register width flags.
package disasm

import (
	"fmt"
	"strings"

	"github.com/gosnes/go65816/cpu"
)

// Disassembler formatting for addressing modes.
var modeFormat = map[cpu.Mode]string{
	cpu.IMP: "%s",
	cpu.IMM: "#$%s",
	cpu.IMX: "#$%s",
	cpu.IM8: "#$%s",
	cpu.ABS: "$%s",
	cpu.LNG: "$%s",
	cpu.LGX: "$%s,X",
	cpu.REL: "$%s",
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice,
// interpreted little-endian.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the instruction at bank:addr. Returns a line representing
// the disassembled instruction and the address that starts the following
// instruction. An opcode missing from the instruction table disassembles
// as "???".
func Disassemble(m cpu.Memory, p *cpu.StatusRegister, bank byte, addr uint16) (line string, next uint16) {
	opcode := m.LoadByte(bank, addr)
	inst := cpu.GetInstructionSet().Lookup(opcode)
	if !inst.Valid() {
		return "???", addr + 1
	}

	length := inst.OperandLength(p)
	operand := make([]byte, length)
	for i := range operand {
		operand[i] = m.LoadByte(bank, addr+1+uint16(i))
	}
	next = addr + 1 + uint16(length)

	if inst.Mode == cpu.REL {
		// Convert the relative offset to the absolute branch target.
		target := next + uint16(int16(int8(operand[0])))
		operand = []byte{byte(target), byte(target >> 8)}
	}

	if len(operand) == 0 {
		return inst.Name, next
	}
	return fmt.Sprintf("%s "+modeFormat[inst.Mode], inst.Name, hexString(operand)), next
}

// RegisterString returns a single-line dump of the register file.
func RegisterString(r *cpu.Registers) string {
	return fmt.Sprintf("B,A=$%02X,$%02X X=$%04X Y=$%04X SP=$%04X DP=$%04X DBR=$%02X",
		r.B(), r.A(), r.X, r.Y, r.SP, r.DP, r.DBR)
}

// FlagString decodes the status register into the debugger's flag
// notation. Upper case means set; the width flags show their effective
// operand size, and bit positions 4 and 5 follow the emulation mode.
func FlagString(p *cpu.StatusRegister) string {
	var f [8]string

	f[0] = flag(p.Negative, "N", "n")
	f[1] = flag(p.Overflow, "V", "v")

	switch {
	case p.Emulation:
		f[2] = "-"
		f[3] = flag(p.BreakFlag, "B", "b")
	default:
		f[2] = flag(p.MemSelect, "M8", "m16")
		f[3] = flag(p.IndexSelect, "X8", "x16")
	}

	f[4] = flag(p.Decimal, "D", "d")
	f[5] = flag(p.IRQDisable, "I", "i")
	f[6] = flag(p.Zero, "Z", "z")
	f[7] = flag(p.Carry, "C", "c")

	mode := "Native"
	if p.Emulation {
		mode = "Emulation"
	}

	return fmt.Sprintf("P=$%02X [%s] %s", p.Value(), strings.Join(f[:], "|"), mode)
}

func flag(set bool, on, off string) string {
	if set {
		return on
	}
	return off
}
