// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"errors"
	"testing"

	"github.com/gosnes/go65816/cartridge"
	"github.com/gosnes/go65816/cpu"
	"github.com/gosnes/go65816/logger"
	"github.com/gosnes/go65816/mem"
)

// flatMemory is a test double exposing the full 16MB address space as a
// flat, fully writable buffer.
type flatMemory struct {
	b []byte
}

func newFlatMemory() *flatMemory {
	return &flatMemory{b: make([]byte, 1<<24)}
}

func offset(bank byte, addr uint16) int {
	return int(bank)<<16 | int(addr)
}

func (m *flatMemory) LoadByte(bank byte, addr uint16) byte {
	return m.b[offset(bank, addr)]
}

func (m *flatMemory) LoadWord(bank byte, addr uint16) uint16 {
	lo := m.b[offset(bank, addr)]
	hi := m.b[offset(bank, addr+1)]
	return uint16(lo) | uint16(hi)<<8
}

func (m *flatMemory) StoreByte(bank byte, addr uint16, v byte) {
	m.b[offset(bank, addr)] = v
}

func (m *flatMemory) StoreWord(bank byte, addr uint16, v uint16) {
	m.b[offset(bank, addr)] = byte(v)
	m.b[offset(bank, addr+1)] = byte(v >> 8)
}

const org = 0x8000

// loadCPU creates a CPU over flat memory with the machine code placed at
// 00:8000 and referenced by the reset vector.
func loadCPU(code ...byte) *cpu.CPU {
	mem := newFlatMemory()
	for i, v := range code {
		mem.StoreByte(0x00, org+uint16(i), v)
	}
	mem.StoreWord(0x00, 0xfffc, org)

	c := cpu.NewCPU(mem)
	c.Reset()
	return c
}

func stepCPU(t *testing.T, c *cpu.CPU, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func expectPC(t *testing.T, c *cpu.CPU, pc uint16) {
	t.Helper()
	if c.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, c.Reg.PC)
	}
}

func expectCycles(t *testing.T, c *cpu.CPU, cycles uint64) {
	t.Helper()
	if c.Cycles != cycles {
		t.Errorf("Cycles incorrect. exp: %d, got: %d", cycles, c.Cycles)
	}
}

func expectACC(t *testing.T, c *cpu.CPU, acc uint16) {
	t.Helper()
	if c.Reg.C != acc {
		t.Errorf("Accumulator incorrect. exp: $%04X, got: $%04X", acc, c.Reg.C)
	}
}

func expectSP(t *testing.T, c *cpu.CPU, sp uint16) {
	t.Helper()
	if c.Reg.SP != sp {
		t.Errorf("Stack pointer incorrect. exp: $%04X, got: $%04X", sp, c.Reg.SP)
	}
}

func expectMem(t *testing.T, c *cpu.CPU, bank byte, addr uint16, v byte) {
	t.Helper()
	got := c.Mem.LoadByte(bank, addr)
	if got != v {
		t.Errorf("Memory at %02X:%04X incorrect. exp: $%02X, got: $%02X", bank, addr, v, got)
	}
}

func TestBoot(t *testing.T) {
	c := loadCPU(
		0xa9, 0x12, // LDA #$12
	)

	if !c.PSR.Emulation {
		t.Error("CPU did not boot in emulation mode")
	}
	expectPC(t, c, org)
	expectSP(t, c, 0)

	stepCPU(t, c, 1)

	expectPC(t, c, org+2)
	expectACC(t, c, 0x0012)
	expectCycles(t, c, 2)
	if c.PSR.Zero || c.PSR.Negative {
		t.Error("NZ flags incorrect after LDA #$12")
	}
}

func TestNativeWidths(t *testing.T) {
	c := loadCPU(
		0x18,             // CLC
		0xfb,             // XCE
		0xc2, 0x30,       // REP #$30
		0xa9, 0x34, 0x12, // LDA #$1234
		0xa2, 0x78, 0x56, // LDX #$5678
		0xe2, 0x20,       // SEP #$20
		0xa9, 0xff,       // LDA #$FF
	)

	stepCPU(t, c, 2)
	if c.PSR.Emulation {
		t.Fatal("XCE did not switch to native mode")
	}
	if !c.PSR.Carry {
		t.Error("XCE did not move the old emulation bit into carry")
	}

	stepCPU(t, c, 1)
	if c.PSR.MemSelect || c.PSR.IndexSelect {
		t.Fatal("REP #$30 did not clear the width select flags")
	}

	stepCPU(t, c, 2)
	expectACC(t, c, 0x1234)
	if c.Reg.X != 0x5678 {
		t.Errorf("X incorrect. exp: $5678, got: $%04X", c.Reg.X)
	}

	stepCPU(t, c, 2)
	if !c.PSR.MemSelect {
		t.Fatal("SEP #$20 did not select 8-bit accumulator")
	}

	// An 8-bit load must leave the accumulator's high byte alone.
	expectACC(t, c, 0x12ff)
	if !c.PSR.Negative {
		t.Error("8-bit load did not set the negative flag from bit 7")
	}
}

func TestSepRep(t *testing.T) {
	c := loadCPU(
		0x18,       // CLC
		0xfb,       // XCE
		0xe2, 0x80, // SEP #$80
		0xc2, 0x80, // REP #$80
	)

	stepCPU(t, c, 2)
	before := c.PSR.Value()

	// SEP sets exactly the masked bits; REP clears them again, restoring
	// the untouched bits bit for bit.
	stepCPU(t, c, 1)
	if got := c.PSR.Value(); got != before|cpu.NegativeBit {
		t.Errorf("status after SEP #$80: exp $%02X, got $%02X", before|cpu.NegativeBit, got)
	}

	stepCPU(t, c, 1)
	if got := c.PSR.Value(); got != before&^byte(cpu.NegativeBit) {
		t.Errorf("status after REP #$80: exp $%02X, got $%02X", before&^byte(cpu.NegativeBit), got)
	}
}

func TestEmulationWidthWritesIgnored(t *testing.T) {
	c := loadCPU(
		0xc2, 0x30, // REP #$30
	)

	stepCPU(t, c, 1)

	// While emulated, the width select bit positions are not writable.
	if !c.PSR.Emulation || !c.PSR.ByteAccess() || !c.PSR.ByteIndex() {
		t.Error("REP #$30 changed register widths in emulation mode")
	}
}

func TestStack(t *testing.T) {
	c := loadCPU(
		0x18,             // CLC
		0xfb,             // XCE
		0xc2, 0x30,       // REP #$30
		0xa9, 0xff, 0x01, // LDA #$01FF
		0x1b,             // TCS
		0xa9, 0x11, 0x47, // LDA #$4711
		0x48,             // PHA
		0xa9, 0x00, 0x00, // LDA #$0000
		0x68,             // PLA
	)

	stepCPU(t, c, 5)
	expectSP(t, c, 0x01ff)

	stepCPU(t, c, 2)
	expectSP(t, c, 0x01fd)
	expectMem(t, c, 0x00, 0x01ff, 0x11)
	expectMem(t, c, 0x00, 0x0200, 0x47)

	stepCPU(t, c, 2)
	expectSP(t, c, 0x01ff)
	expectACC(t, c, 0x4711)
	if c.PSR.Zero {
		t.Error("PLA of a non-zero word set the zero flag")
	}
}

func TestJsrRts(t *testing.T) {
	c := loadCPU(
		0x20, 0x10, 0x80, // 8000: JSR $8010
		0xea, // 8003: NOP
	)
	c.Mem.StoreByte(0x00, 0x8010, 0x60) // RTS
	c.Reg.SP = 0x01ff

	stepCPU(t, c, 1)
	expectPC(t, c, 0x8010)
	expectSP(t, c, 0x01fd)

	// The pushed return address is the address following the operand.
	if got := c.Mem.LoadWord(0x00, 0x01ff); got != 0x8003 {
		t.Errorf("pushed return address incorrect. exp: $8003, got: $%04X", got)
	}

	stepCPU(t, c, 1)
	expectPC(t, c, 0x8003)
	expectSP(t, c, 0x01ff)
}

func TestBranches(t *testing.T) {
	c := loadCPU(
		0xa9, 0x01, // 8000: LDA #$01
		0xd0, 0x02, // 8002: BNE +2 -> 8006
		0xea,       // 8004: NOP (skipped)
		0xea,       // 8005: NOP (skipped)
		0xf0, 0x01, // 8006: BEQ +1 (not taken)
		0x80, 0xf6, // 8008: BRA -10 -> 8000
	)

	stepCPU(t, c, 2)
	expectPC(t, c, 0x8006)

	stepCPU(t, c, 1)
	expectPC(t, c, 0x8008)

	stepCPU(t, c, 1)
	expectPC(t, c, 0x8000)
}

func TestCompareFlags(t *testing.T) {
	c := loadCPU(
		0xa9, 0x10, // LDA #$10
		0xc9, 0x20, // CMP #$20
		0xc9, 0x05, // CMP #$05
	)

	stepCPU(t, c, 2)

	// Negative and zero reflect the accumulator itself, and carry clears
	// when the operand is larger.
	if c.PSR.Carry {
		t.Error("CMP with a larger operand did not record a borrow")
	}
	if c.PSR.Zero || c.PSR.Negative {
		t.Error("CMP flags do not reflect the accumulator value")
	}

	stepCPU(t, c, 1)
	if !c.PSR.Carry {
		t.Error("CMP with a smaller operand recorded a borrow")
	}
}

func TestSubtractWithBorrow(t *testing.T) {
	c := loadCPU(
		0x38,       // SEC (no borrow pending)
		0xa9, 0x10, // LDA #$10
		0xe9, 0x01, // SBC #$01
	)

	stepCPU(t, c, 3)
	expectACC(t, c, 0x000f)

	// SBC leaves the carry flag untouched.
	if !c.PSR.Carry {
		t.Error("SBC modified the carry flag")
	}
}

func TestDecimalSubtractFault(t *testing.T) {
	c := loadCPU(
		0xf8,       // 8000: SED
		0xe9, 0x01, // 8001: SBC #$01
	)

	stepCPU(t, c, 1)
	err := c.Step()

	var unsupported *cpu.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected an UnsupportedError, got %v", err)
	}
	if unsupported.Name != "SBC" {
		t.Errorf("fault names the wrong instruction: %s", unsupported.Name)
	}
	if unsupported.PBR != 0x00 || unsupported.PC != 0x8001 {
		t.Errorf("fault location incorrect. exp: 00:8001, got: %02X:%04X",
			unsupported.PBR, unsupported.PC)
	}
}

func TestDecodeFault(t *testing.T) {
	c := loadCPU(
		0x00, // BRK is not implemented
	)

	err := c.Step()

	var decode *cpu.DecodeFault
	if !errors.As(err, &decode) {
		t.Fatalf("expected a DecodeFault, got %v", err)
	}
	if decode.Opcode != 0x00 {
		t.Errorf("fault opcode incorrect. exp: $00, got: $%02X", decode.Opcode)
	}

	// The fault reports the opcode's own address, not the post-fetch PC.
	if decode.PBR != 0x00 || decode.PC != org {
		t.Errorf("fault location incorrect. exp: 00:%04X, got: %02X:%04X",
			org, decode.PBR, decode.PC)
	}
}

func TestStoreLong(t *testing.T) {
	c := loadCPU(
		0xa9, 0x5e,             // LDA #$5E
		0x8f, 0x00, 0x10, 0x7e, // STA $7E1000
		0xa2, 0x04,             // LDX #$04
		0x9f, 0x00, 0x20, 0x7e, // STA $7E2000,X
	)

	stepCPU(t, c, 4)
	expectMem(t, c, 0x7e, 0x1000, 0x5e)
	expectMem(t, c, 0x7e, 0x2004, 0x5e)
}

func TestTransfersAndCounts(t *testing.T) {
	c := loadCPU(
		0xa9, 0x42, // LDA #$42
		0xaa,       // TAX
		0xe8,       // INX
		0xa8,       // TAY
		0x88,       // DEY
		0x98,       // TYA
		0xeb,       // XBA
	)

	stepCPU(t, c, 6)
	if c.Reg.X != 0x0043 {
		t.Errorf("X incorrect. exp: $0043, got: $%04X", c.Reg.X)
	}
	if c.Reg.Y != 0x0041 {
		t.Errorf("Y incorrect. exp: $0041, got: $%04X", c.Reg.Y)
	}
	expectACC(t, c, 0x0041)

	stepCPU(t, c, 1)
	expectACC(t, c, 0x4100)
	if !c.PSR.Zero {
		t.Error("XBA did not set the zero flag from the new low byte")
	}
}

func TestBootFromCartridge(t *testing.T) {
	// Full boot path: reset vector in ROM, program fetched through the
	// LoROM decoder.
	data := make([]byte, 0x8000)
	data[0x0000] = 0xa9 // 00:8000 LDA #$05
	data[0x0001] = 0x05
	data[0x7fc0+0x15] = byte(cartridge.LoROM)
	data[0x7ffc] = 0x00
	data[0x7ffd] = 0x80

	cart, err := cartridge.New(data)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	m, err := mem.New(cart, logger.Discard())
	if err != nil {
		t.Fatalf("mem.New: %v", err)
	}

	c := cpu.NewCPU(m)
	c.Reset()
	expectPC(t, c, 0x8000)

	stepCPU(t, c, 1)
	expectPC(t, c, 0x8002)
	expectACC(t, c, 0x0005)
	if c.PSR.Zero || c.PSR.Negative {
		t.Error("NZ flags incorrect after LDA #$05")
	}
}

type testHandler struct {
	breakpoints int
	halts       int
}

func (h *testHandler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.breakpoints++
}

func (h *testHandler) OnHalt(c *cpu.CPU) {
	h.halts++
}

func TestDebugger(t *testing.T) {
	c := loadCPU(
		0xea, // 8000: NOP
		0xea, // 8001: NOP
		0xea, // 8002: NOP
	)

	h := &testHandler{}
	d := cpu.NewDebugger(h)
	c.AttachDebugger(d)

	d.AddBreakpoint(0x00, 0x8002)
	d.AddBreakpoint(0x00, 0x8002) // idempotent
	if len(d.GetBreakpoints()) != 1 {
		t.Fatal("duplicate breakpoint was added")
	}

	stepCPU(t, c, 1)
	if h.breakpoints != 0 {
		t.Error("breakpoint fired early")
	}

	stepCPU(t, c, 1)
	if h.breakpoints != 1 {
		t.Error("breakpoint did not fire at its address")
	}

	b := d.GetBreakpoint(0x00, 0x8002)
	if b == nil {
		t.Fatal("breakpoint lookup failed")
	}
	b.Disabled = true
	c.Reg.PC = 0x8001
	stepCPU(t, c, 1)
	if h.breakpoints != 1 {
		t.Error("disabled breakpoint fired")
	}

	d.RequestHalt()
	c.Reg.PC = 0x8000
	stepCPU(t, c, 1)
	if h.halts != 1 {
		t.Error("halt request was not delivered")
	}

	// A halt request is consumed by delivery.
	stepCPU(t, c, 1)
	if h.halts != 1 {
		t.Error("halt request was delivered twice")
	}
}
