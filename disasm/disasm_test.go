// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm_test

import (
	"testing"

	"github.com/gosnes/go65816/cpu"
	"github.com/gosnes/go65816/disasm"
)

// bankMemory is a single-bank test double; the bank byte is ignored.
type bankMemory struct {
	b [0x10000]byte
}

func (m *bankMemory) LoadByte(bank byte, addr uint16) byte {
	return m.b[addr]
}

func (m *bankMemory) LoadWord(bank byte, addr uint16) uint16 {
	return uint16(m.b[addr]) | uint16(m.b[addr+1])<<8
}

func (m *bankMemory) StoreByte(bank byte, addr uint16, v byte) {
	m.b[addr] = v
}

func (m *bankMemory) StoreWord(bank byte, addr uint16, v uint16) {
	m.b[addr] = byte(v)
	m.b[addr+1] = byte(v >> 8)
}

func load(code ...byte) *bankMemory {
	m := &bankMemory{}
	copy(m.b[0x8000:], code)
	return m
}

func TestDisassemble(t *testing.T) {
	var emu, native cpu.StatusRegister
	emu.Init()
	native.Emulation = false

	tests := []struct {
		name string
		p    *cpu.StatusRegister
		code []byte
		line string
		next uint16
	}{
		{"implied", &emu, []byte{0xea}, "NOP", 0x8001},
		{"immediate 8-bit", &emu, []byte{0xa9, 0x12}, "LDA #$12", 0x8002},
		{"immediate 16-bit", &native, []byte{0xa9, 0x34, 0x12}, "LDA #$1234", 0x8003},
		{"index immediate 16-bit", &native, []byte{0xa2, 0x78, 0x56}, "LDX #$5678", 0x8003},
		{"fixed immediate", &native, []byte{0xc2, 0x30}, "REP #$30", 0x8002},
		{"absolute", &emu, []byte{0x8d, 0x00, 0x21}, "STA $2100", 0x8003},
		{"long", &emu, []byte{0x8f, 0x00, 0x10, 0x7e}, "STA $7E1000", 0x8004},
		{"long indexed", &emu, []byte{0x9f, 0x00, 0x10, 0x7e}, "STA $7E1000,X", 0x8004},
		{"branch forward", &emu, []byte{0xd0, 0x02}, "BNE $8004", 0x8002},
		{"branch backward", &emu, []byte{0x80, 0xfe}, "BRA $8000", 0x8002},
		{"invalid opcode", &emu, []byte{0x00}, "???", 0x8001},
	}

	for _, tt := range tests {
		m := load(tt.code...)
		line, next := disasm.Disassemble(m, tt.p, 0x00, 0x8000)
		if line != tt.line {
			t.Errorf("%s: line = %q, exp %q", tt.name, line, tt.line)
		}
		if next != tt.next {
			t.Errorf("%s: next = $%04X, exp $%04X", tt.name, next, tt.next)
		}
	}
}

func TestRegisterString(t *testing.T) {
	r := cpu.Registers{
		C: 0x12ff, X: 0x0004, Y: 0xbeef, SP: 0x01fd, DP: 0x2100, DBR: 0x7e,
	}

	exp := "B,A=$12,$FF X=$0004 Y=$BEEF SP=$01FD DP=$2100 DBR=$7E"
	if got := disasm.RegisterString(&r); got != exp {
		t.Errorf("RegisterString = %q, exp %q", got, exp)
	}
}

func TestFlagString(t *testing.T) {
	var p cpu.StatusRegister
	p.Init()
	p.Negative = true
	p.Carry = true

	exp := "P=$A1 [N|v|-|b|d|i|z|C] Emulation"
	if got := disasm.FlagString(&p); got != exp {
		t.Errorf("FlagString = %q, exp %q", got, exp)
	}

	p = cpu.StatusRegister{MemSelect: true, Zero: true}
	exp = "P=$22 [n|v|M8|x16|d|i|Z|c] Native"
	if got := disasm.FlagString(&p); got != exp {
		t.Errorf("FlagString = %q, exp %q", got, exp)
	}
}
