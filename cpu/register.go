// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Registers contains the state of all 65c816 registers. Each 16-bit
// register is stored as a single cell; the byte-wide views below are
// shift/mask accessors over the same cell, so the byte and word views of a
// register always alias. Writing the low byte of the accumulator never
// disturbs the high byte, and reading C after writing A and B returns the
// combined value with the low byte in bits 0-7.
type Registers struct {
	C   uint16 // 16-bit accumulator (high byte B, low byte A)
	X   uint16 // X index register
	Y   uint16 // Y index register
	SP  uint16 // stack pointer
	DP  uint16 // direct page register
	PC  uint16 // program counter
	PBR byte   // program bank register
	DBR byte   // data bank register
}

func setLo(r *uint16, v byte) {
	*r = (*r & 0xff00) | uint16(v)
}

func setHi(r *uint16, v byte) {
	*r = (*r & 0x00ff) | uint16(v)<<8
}

// A returns the low byte of the accumulator.
func (r *Registers) A() byte { return byte(r.C) }

// SetA sets the low byte of the accumulator, leaving B untouched.
func (r *Registers) SetA(v byte) { setLo(&r.C, v) }

// B returns the high byte of the accumulator.
func (r *Registers) B() byte { return byte(r.C >> 8) }

// SetB sets the high byte of the accumulator, leaving A untouched.
func (r *Registers) SetB(v byte) { setHi(&r.C, v) }

// XL returns the low byte of the X register.
func (r *Registers) XL() byte { return byte(r.X) }

// SetXL sets the low byte of the X register.
func (r *Registers) SetXL(v byte) { setLo(&r.X, v) }

// XH returns the high byte of the X register.
func (r *Registers) XH() byte { return byte(r.X >> 8) }

// SetXH sets the high byte of the X register.
func (r *Registers) SetXH(v byte) { setHi(&r.X, v) }

// YL returns the low byte of the Y register.
func (r *Registers) YL() byte { return byte(r.Y) }

// SetYL sets the low byte of the Y register.
func (r *Registers) SetYL(v byte) { setLo(&r.Y, v) }

// YH returns the high byte of the Y register.
func (r *Registers) YH() byte { return byte(r.Y >> 8) }

// SetYH sets the high byte of the Y register.
func (r *Registers) SetYH(v byte) { setHi(&r.Y, v) }

// Init zeroes all registers.
func (r *Registers) Init() {
	*r = Registers{}
}
