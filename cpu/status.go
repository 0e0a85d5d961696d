// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Bits assigned to the processor status byte. Bit 4 is the break flag in
// emulation mode and the index register width select in native mode; bit 5
// is the memory width select in native mode and reads as permanently set in
// emulation mode.
const (
	CarryBit        = 1 << 0
	ZeroBit         = 1 << 1
	IRQDisableBit   = 1 << 2
	DecimalBit      = 1 << 3
	BreakBit        = 1 << 4
	IndexSelectBit  = 1 << 4
	MemorySelectBit = 1 << 5
	OverflowBit     = 1 << 6
	NegativeBit     = 1 << 7
)

// StatusRegister is the 65c816 processor status register "P" plus the
// emulation mode bit.
type StatusRegister struct {
	Carry       bool
	Zero        bool
	IRQDisable  bool
	Decimal     bool
	IndexSelect bool // X: native only, 1=8-bit 0=16-bit
	MemSelect   bool // M: native only, 1=8-bit 0=16-bit
	BreakFlag   bool // B: emulation only
	Overflow    bool
	Negative    bool

	Emulation bool // the CPU boots into emulation mode
}

// Init restores the boot state: emulation mode, all flags clear.
func (p *StatusRegister) Init() {
	*p = StatusRegister{Emulation: true}
}

// Value packs the status register into a byte. Bit placement for bits 4
// and 5 depends on the emulation mode.
func (p *StatusRegister) Value() byte {
	var v byte

	if p.Emulation {
		v |= MemorySelectBit // always set while emulated
		if p.BreakFlag {
			v |= BreakBit
		}
	} else {
		if p.IndexSelect {
			v |= IndexSelectBit
		}
		if p.MemSelect {
			v |= MemorySelectBit
		}
	}

	if p.Carry {
		v |= CarryBit
	}
	if p.Zero {
		v |= ZeroBit
	}
	if p.IRQDisable {
		v |= IRQDisableBit
	}
	if p.Decimal {
		v |= DecimalBit
	}
	if p.Overflow {
		v |= OverflowBit
	}
	if p.Negative {
		v |= NegativeBit
	}

	return v
}

// SetValue unpacks a byte into the status register. The width select bits
// are writable only in native mode; while emulated, writes to those bit
// positions are ignored.
func (p *StatusRegister) SetValue(v byte) {
	if !p.Emulation {
		p.IndexSelect = (v & IndexSelectBit) != 0
		p.MemSelect = (v & MemorySelectBit) != 0
	}

	p.Carry = (v & CarryBit) != 0
	p.Zero = (v & ZeroBit) != 0
	p.IRQDisable = (v & IRQDisableBit) != 0
	p.Decimal = (v & DecimalBit) != 0
	p.Overflow = (v & OverflowBit) != 0
	p.Negative = (v & NegativeBit) != 0
}

// ByteAccess reports whether memory/accumulator accesses are 8 bits wide.
func (p *StatusRegister) ByteAccess() bool {
	return p.Emulation || p.MemSelect
}

// WordAccess reports whether memory/accumulator accesses are 16 bits wide.
func (p *StatusRegister) WordAccess() bool {
	return !p.ByteAccess()
}

// ByteIndex reports whether the index registers are 8 bits wide.
func (p *StatusRegister) ByteIndex() bool {
	return p.Emulation || p.IndexSelect
}

// WordIndex reports whether the index registers are 16 bits wide.
func (p *StatusRegister) WordIndex() bool {
	return !p.ByteIndex()
}

// Borrow returns the borrow view of the carry flag: carry set means no
// borrow is required.
func (p *StatusRegister) Borrow() bool {
	return !p.Carry
}

// SetBorrow records whether a borrow was required (left < right in a
// subtraction), which clears or sets carry accordingly.
func (p *StatusRegister) SetBorrow(v bool) {
	p.Carry = !v
}

// SetNZ8 sets the negative and zero flags from an 8-bit result.
func (p *StatusRegister) SetNZ8(v byte) {
	p.Zero = v == 0
	p.Negative = (v & 0x80) != 0
}

// SetNZ16 sets the negative and zero flags from a 16-bit result.
func (p *StatusRegister) SetNZ16(v uint16) {
	p.Zero = v == 0
	p.Negative = (v & 0x8000) != 0
}
