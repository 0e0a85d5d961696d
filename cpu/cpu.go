// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements a 65c816 CPU instruction set and emulator.
package cpu

import (
	"fmt"

	"github.com/gosnes/go65816/logger"
)

// The Memory interface presents an interface to the CPU through which all
// memory accesses occur. Addresses are bank:address pairs; word accesses
// are little-endian.
type Memory interface {
	// LoadByte loads a single byte from the bank:address pair.
	LoadByte(bank byte, addr uint16) byte

	// LoadWord loads a little-endian word from the bank:address pair.
	LoadWord(bank byte, addr uint16) uint16

	// StoreByte stores a byte to the bank:address pair.
	StoreByte(bank byte, addr uint16, v byte)

	// StoreWord stores a little-endian word to the bank:address pair.
	StoreWord(bank byte, addr uint16, v uint16)
}

// A DecodeFault is returned by Step when the fetched opcode byte has no
// entry in the instruction table. PBR and PC identify the opcode byte
// itself, not the address following it.
type DecodeFault struct {
	Opcode byte
	PBR    byte
	PC     uint16
}

func (f *DecodeFault) Error() string {
	return fmt.Sprintf("invalid opcode 0x%02X at %02X:%04X", f.Opcode, f.PBR, f.PC)
}

// An UnsupportedError is returned by Step when an instruction is asked to
// run in a mode the emulator does not implement, such as a decimal mode
// subtract. It is distinct from a DecodeFault: the opcode is known, the
// requested behavior is not.
type UnsupportedError struct {
	Name   string
	Reason string
	PBR    byte
	PC     uint16
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s at %02X:%04X: %s", e.Name, e.PBR, e.PC, e.Reason)
}

// Reset vector location in bank 0.
const vectorReset = 0xfffc

// CPU represents a single 65c816 CPU bound to a memory map.
type CPU struct {
	Reg      Registers       // CPU registers
	PSR      StatusRegister  // processor status register
	Mem      Memory          // assigned memory
	Cycles   uint64          // total executed CPU cycles
	LastPBR  byte            // bank of the previous instruction
	LastPC   uint16          // address of the previous instruction
	InstSet  *InstructionSet // instruction set used by the CPU
	debugger *Debugger
	trace    logger.Logger
}

// NewCPU creates an emulated 65c816 CPU bound to the specified memory.
// The CPU boots in emulation mode with all registers zeroed.
func NewCPU(m Memory) *CPU {
	cpu := &CPU{
		Mem:     m,
		InstSet: GetInstructionSet(),
	}
	cpu.Reg.Init()
	cpu.PSR.Init()
	return cpu
}

// Reset initializes the program counter from the little-endian reset
// vector at bank 0, address 0xFFFC, and clears the program bank register.
func (cpu *CPU) Reset() {
	cpu.Reg.PC = cpu.Mem.LoadWord(0x00, vectorReset)
	cpu.Reg.PBR = 0
}

// AttachDebugger attaches a debugger to the CPU. The debugger is polled
// once after every completed instruction, never during one.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
}

// DetachDebugger detaches the current debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
}

// SetTrace attaches a logger that receives one line per fetched
// instruction. Pass nil to disable tracing.
func (cpu *CPU) SetTrace(l logger.Logger) {
	cpu.trace = l
}

// Step fetches, decodes, and executes the instruction at PBR:PC. It
// returns a *DecodeFault if the opcode is not in the instruction table and
// an *UnsupportedError if the instruction cannot run in the current mode;
// both are fatal to the fetch loop and leave the CPU halted on the fault.
func (cpu *CPU) Step() error {
	pbr, pc := cpu.Reg.PBR, cpu.Reg.PC

	opcode := cpu.fetchByte()

	inst := cpu.InstSet.Lookup(opcode)
	if inst.fn == nil {
		return &DecodeFault{Opcode: opcode, PBR: pbr, PC: pc}
	}

	cpu.LastPBR, cpu.LastPC = pbr, pc

	if cpu.trace != nil {
		cpu.trace.Logf("%02X:%04X  %02X %s", pbr, pc, opcode, inst.Name)
	}

	cycles, err := inst.fn(cpu)
	if err != nil {
		return err
	}
	cpu.Cycles += uint64(cycles)

	// Poll the debugger exactly once per completed instruction.
	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PBR, cpu.Reg.PC)
	}
	return nil
}

// Fetch the next byte from the instruction stream at PBR:PC and advance
// PC. PC wraps within 16 bits; the program bank never auto-increments.
func (cpu *CPU) fetchByte() byte {
	v := cpu.Mem.LoadByte(cpu.Reg.PBR, cpu.Reg.PC)
	cpu.Reg.PC++
	return v
}

// Fetch the next word from the instruction stream and advance PC by 2.
func (cpu *CPU) fetchWord() uint16 {
	v := cpu.Mem.LoadWord(cpu.Reg.PBR, cpu.Reg.PC)
	cpu.Reg.PC += 2
	return v
}

// Stack accesses always target bank 0x00; 24-bit stack addressing is not
// modeled. A byte push stores at SP and decrements; a word push stores the
// low byte at SP and the high byte at SP+1, then decrements SP by 2.
func (cpu *CPU) pushByte(v byte) {
	cpu.Mem.StoreByte(0x00, cpu.Reg.SP, v)
	cpu.Reg.SP--
}

func (cpu *CPU) pushWord(v uint16) {
	cpu.Mem.StoreWord(0x00, cpu.Reg.SP, v)
	cpu.Reg.SP -= 2
}

func (cpu *CPU) pullByte() byte {
	cpu.Reg.SP++
	return cpu.Mem.LoadByte(0x00, cpu.Reg.SP)
}

func (cpu *CPU) pullWord() uint16 {
	cpu.Reg.SP += 2
	return cpu.Mem.LoadWord(0x00, cpu.Reg.SP)
}

// Execute a branch on cond: the operand is a signed 8-bit displacement
// added to PC with 16-bit wraparound.
func (cpu *CPU) branch(cond bool) (int, error) {
	offset := cpu.fetchByte()
	if !cond {
		return 2, nil
	}
	cpu.Reg.PC += uint16(int16(int8(offset)))
	return 3, nil
}

// SEI - set the interrupt disable flag.
func (cpu *CPU) sei() (int, error) {
	cpu.PSR.IRQDisable = true
	return 2, nil
}

// CLI - clear the interrupt disable flag.
func (cpu *CPU) cli() (int, error) {
	cpu.PSR.IRQDisable = false
	return 2, nil
}

// CLC - clear the carry flag.
func (cpu *CPU) clc() (int, error) {
	cpu.PSR.Carry = false
	return 2, nil
}

// SEC - set the carry flag.
func (cpu *CPU) sec() (int, error) {
	cpu.PSR.Carry = true
	return 2, nil
}

// CLD - clear the decimal flag.
func (cpu *CPU) cld() (int, error) {
	cpu.PSR.Decimal = false
	return 2, nil
}

// SED - set the decimal flag.
func (cpu *CPU) sed() (int, error) {
	cpu.PSR.Decimal = true
	return 2, nil
}

// CLV - clear the overflow flag.
func (cpu *CPU) clv() (int, error) {
	cpu.PSR.Overflow = false
	return 2, nil
}

// REP - clear processor status bits from an immediate mask.
func (cpu *CPU) rep() (int, error) {
	v := cpu.fetchByte()
	cpu.PSR.SetValue(cpu.PSR.Value() &^ v)
	return 3, nil
}

// SEP - set processor status bits from an immediate mask.
func (cpu *CPU) sep() (int, error) {
	v := cpu.fetchByte()
	cpu.PSR.SetValue(cpu.PSR.Value() | v)
	return 3, nil
}

// XCE - exchange the carry and emulation flags.
func (cpu *CPU) xce() (int, error) {
	cpu.PSR.Emulation, cpu.PSR.Carry = cpu.PSR.Carry, cpu.PSR.Emulation
	return 2, nil
}

// LDA # - load the accumulator with an immediate.
func (cpu *CPU) ldaImm() (int, error) {
	if cpu.PSR.ByteAccess() {
		cpu.Reg.SetA(cpu.fetchByte())
		cpu.PSR.SetNZ8(cpu.Reg.A())
		return 2, nil
	}
	cpu.Reg.C = cpu.fetchWord()
	cpu.PSR.SetNZ16(cpu.Reg.C)
	return 3, nil
}

// LDA abs - load the accumulator from a data bank address.
func (cpu *CPU) ldaAbs() (int, error) {
	addr := cpu.fetchWord()
	if cpu.PSR.ByteAccess() {
		cpu.Reg.SetA(cpu.Mem.LoadByte(cpu.Reg.DBR, addr))
		cpu.PSR.SetNZ8(cpu.Reg.A())
		return 4, nil
	}
	cpu.Reg.C = cpu.Mem.LoadWord(cpu.Reg.DBR, addr)
	cpu.PSR.SetNZ16(cpu.Reg.C)
	return 5, nil
}

// LDX # - load X with an immediate.
func (cpu *CPU) ldxImm() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.Reg.SetXL(cpu.fetchByte())
		cpu.PSR.SetNZ8(cpu.Reg.XL())
		return 2, nil
	}
	cpu.Reg.X = cpu.fetchWord()
	cpu.PSR.SetNZ16(cpu.Reg.X)
	return 3, nil
}

// LDY # - load Y with an immediate.
func (cpu *CPU) ldyImm() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.Reg.SetYL(cpu.fetchByte())
		cpu.PSR.SetNZ8(cpu.Reg.YL())
		return 2, nil
	}
	cpu.Reg.Y = cpu.fetchWord()
	cpu.PSR.SetNZ16(cpu.Reg.Y)
	return 3, nil
}

// STA abs - store the accumulator at a data bank address.
func (cpu *CPU) staAbs() (int, error) {
	addr := cpu.fetchWord()
	if cpu.PSR.ByteAccess() {
		cpu.Mem.StoreByte(cpu.Reg.DBR, addr, cpu.Reg.A())
		return 4, nil
	}
	cpu.Mem.StoreWord(cpu.Reg.DBR, addr, cpu.Reg.C)
	return 5, nil
}

// STA long - store the accumulator at a 24-bit address.
func (cpu *CPU) staLong() (int, error) {
	addr := cpu.fetchWord()
	bank := cpu.fetchByte()
	if cpu.PSR.ByteAccess() {
		cpu.Mem.StoreByte(bank, addr, cpu.Reg.A())
		return 5, nil
	}
	cpu.Mem.StoreWord(bank, addr, cpu.Reg.C)
	return 6, nil
}

// STA long,X - store the accumulator at a 24-bit address indexed by X.
func (cpu *CPU) staLongX() (int, error) {
	addr := cpu.fetchWord() + cpu.Reg.X
	bank := cpu.fetchByte()
	if cpu.PSR.ByteAccess() {
		cpu.Mem.StoreByte(bank, addr, cpu.Reg.A())
		return 5, nil
	}
	cpu.Mem.StoreWord(bank, addr, cpu.Reg.C)
	return 6, nil
}

// STX abs - store X at a data bank address.
func (cpu *CPU) stxAbs() (int, error) {
	addr := cpu.fetchWord()
	if cpu.PSR.ByteIndex() {
		cpu.Mem.StoreByte(cpu.Reg.DBR, addr, cpu.Reg.XL())
		return 4, nil
	}
	cpu.Mem.StoreWord(cpu.Reg.DBR, addr, cpu.Reg.X)
	return 5, nil
}

// STY abs - store Y at a data bank address.
func (cpu *CPU) styAbs() (int, error) {
	addr := cpu.fetchWord()
	if cpu.PSR.ByteIndex() {
		cpu.Mem.StoreByte(cpu.Reg.DBR, addr, cpu.Reg.YL())
		return 4, nil
	}
	cpu.Mem.StoreWord(cpu.Reg.DBR, addr, cpu.Reg.Y)
	return 5, nil
}

// STZ abs - store zero at a data bank address.
func (cpu *CPU) stzAbs() (int, error) {
	addr := cpu.fetchWord()
	if cpu.PSR.ByteAccess() {
		cpu.Mem.StoreByte(cpu.Reg.DBR, addr, 0x00)
		return 4, nil
	}
	cpu.Mem.StoreWord(cpu.Reg.DBR, addr, 0x0000)
	return 5, nil
}

// TCD - transfer the 16-bit accumulator to the direct page register.
func (cpu *CPU) tcd() (int, error) {
	cpu.Reg.DP = cpu.Reg.C
	return 2, nil
}

// TCS - transfer the 16-bit accumulator to the stack pointer.
func (cpu *CPU) tcs() (int, error) {
	cpu.Reg.SP = cpu.Reg.C
	return 2, nil
}

// TYA - transfer Y to the accumulator.
func (cpu *CPU) tya() (int, error) {
	if cpu.PSR.ByteAccess() {
		cpu.Reg.SetA(cpu.Reg.YL())
		cpu.PSR.SetNZ8(cpu.Reg.A())
	} else {
		cpu.Reg.C = cpu.Reg.Y
		cpu.PSR.SetNZ16(cpu.Reg.C)
	}
	return 2, nil
}

// TAY - transfer the accumulator to Y.
func (cpu *CPU) tay() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.Reg.SetYL(cpu.Reg.A())
		cpu.PSR.SetNZ8(cpu.Reg.YL())
	} else {
		cpu.Reg.Y = cpu.Reg.C
		cpu.PSR.SetNZ16(cpu.Reg.Y)
	}
	return 2, nil
}

// TXA - transfer X to the accumulator.
func (cpu *CPU) txa() (int, error) {
	if cpu.PSR.ByteAccess() {
		cpu.Reg.SetA(cpu.Reg.XL())
		cpu.PSR.SetNZ8(cpu.Reg.A())
	} else {
		cpu.Reg.C = cpu.Reg.X
		cpu.PSR.SetNZ16(cpu.Reg.C)
	}
	return 2, nil
}

// TAX - transfer the accumulator to X.
func (cpu *CPU) tax() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.Reg.SetXL(cpu.Reg.A())
		cpu.PSR.SetNZ8(cpu.Reg.XL())
	} else {
		cpu.Reg.X = cpu.Reg.C
		cpu.PSR.SetNZ16(cpu.Reg.X)
	}
	return 2, nil
}

// XBA - exchange the accumulator's high and low bytes.
func (cpu *CPU) xba() (int, error) {
	cpu.Reg.C = cpu.Reg.C>>8 | cpu.Reg.C<<8
	cpu.PSR.SetNZ8(cpu.Reg.A())
	return 3, nil
}

// INC A - increment the accumulator.
func (cpu *CPU) incA() (int, error) {
	if cpu.PSR.ByteAccess() {
		cpu.Reg.SetA(cpu.Reg.A() + 1)
		cpu.PSR.SetNZ8(cpu.Reg.A())
	} else {
		cpu.Reg.C++
		cpu.PSR.SetNZ16(cpu.Reg.C)
	}
	return 2, nil
}

// DEC A - decrement the accumulator.
func (cpu *CPU) decA() (int, error) {
	if cpu.PSR.ByteAccess() {
		cpu.Reg.SetA(cpu.Reg.A() - 1)
		cpu.PSR.SetNZ8(cpu.Reg.A())
	} else {
		cpu.Reg.C--
		cpu.PSR.SetNZ16(cpu.Reg.C)
	}
	return 2, nil
}

// INX - increment X.
func (cpu *CPU) inx() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.Reg.SetXL(cpu.Reg.XL() + 1)
		cpu.PSR.SetNZ8(cpu.Reg.XL())
	} else {
		cpu.Reg.X++
		cpu.PSR.SetNZ16(cpu.Reg.X)
	}
	return 2, nil
}

// DEX - decrement X.
func (cpu *CPU) dex() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.Reg.SetXL(cpu.Reg.XL() - 1)
		cpu.PSR.SetNZ8(cpu.Reg.XL())
	} else {
		cpu.Reg.X--
		cpu.PSR.SetNZ16(cpu.Reg.X)
	}
	return 2, nil
}

// INY - increment Y.
func (cpu *CPU) iny() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.Reg.SetYL(cpu.Reg.YL() + 1)
		cpu.PSR.SetNZ8(cpu.Reg.YL())
	} else {
		cpu.Reg.Y++
		cpu.PSR.SetNZ16(cpu.Reg.Y)
	}
	return 2, nil
}

// DEY - decrement Y.
func (cpu *CPU) dey() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.Reg.SetYL(cpu.Reg.YL() - 1)
		cpu.PSR.SetNZ8(cpu.Reg.YL())
	} else {
		cpu.Reg.Y--
		cpu.PSR.SetNZ16(cpu.Reg.Y)
	}
	return 2, nil
}

// SBC # - subtract an immediate with borrow from the accumulator.
// Decimal mode is not implemented and must not be silently approximated.
func (cpu *CPU) sbcImm() (int, error) {
	if cpu.PSR.Decimal {
		return 0, &UnsupportedError{
			Name:   "SBC",
			Reason: "decimal mode subtract is not implemented",
			PBR:    cpu.LastPBR,
			PC:     cpu.LastPC,
		}
	}

	var borrow byte
	if cpu.PSR.Borrow() {
		borrow = 1
	}

	if cpu.PSR.ByteAccess() {
		v := cpu.fetchByte()
		cpu.Reg.SetA(cpu.Reg.A() - v - borrow)
		cpu.PSR.SetNZ8(cpu.Reg.A())
		return 2, nil
	}
	v := cpu.fetchWord()
	cpu.Reg.C = cpu.Reg.C - v - uint16(borrow)
	cpu.PSR.SetNZ16(cpu.Reg.C)
	return 3, nil
}

// Compare the accumulator with v. The negative and zero flags are set
// from the accumulator itself rather than the difference; borrow comes
// from an unsigned less-than test.
func (cpu *CPU) compareByte(v byte) {
	cpu.PSR.SetNZ8(cpu.Reg.A())
	cpu.PSR.SetBorrow(cpu.Reg.A() < v)
}

func (cpu *CPU) compareWord(v uint16) {
	cpu.PSR.SetNZ16(cpu.Reg.C)
	cpu.PSR.SetBorrow(cpu.Reg.C < v)
}

// CMP abs - compare the accumulator with the value at a data bank address.
func (cpu *CPU) cmpAbs() (int, error) {
	addr := cpu.fetchWord()
	if cpu.PSR.ByteAccess() {
		cpu.compareByte(cpu.Mem.LoadByte(cpu.Reg.DBR, addr))
		return 4, nil
	}
	cpu.compareWord(cpu.Mem.LoadWord(cpu.Reg.DBR, addr))
	return 5, nil
}

// CMP # - compare the accumulator with an immediate.
func (cpu *CPU) cmpImm() (int, error) {
	if cpu.PSR.ByteAccess() {
		cpu.compareByte(cpu.fetchByte())
		return 2, nil
	}
	cpu.compareWord(cpu.fetchWord())
	return 3, nil
}

// BPL - branch if plus.
func (cpu *CPU) bpl() (int, error) {
	return cpu.branch(!cpu.PSR.Negative)
}

// BMI - branch if minus.
func (cpu *CPU) bmi() (int, error) {
	return cpu.branch(cpu.PSR.Negative)
}

// BNE - branch if not equal.
func (cpu *CPU) bne() (int, error) {
	return cpu.branch(!cpu.PSR.Zero)
}

// BEQ - branch if equal.
func (cpu *CPU) beq() (int, error) {
	return cpu.branch(cpu.PSR.Zero)
}

// BCC - branch if carry clear.
func (cpu *CPU) bcc() (int, error) {
	return cpu.branch(!cpu.PSR.Carry)
}

// BCS - branch if carry set.
func (cpu *CPU) bcs() (int, error) {
	return cpu.branch(cpu.PSR.Carry)
}

// BRA - branch always.
func (cpu *CPU) bra() (int, error) {
	return cpu.branch(true)
}

// JMP abs - jump to an absolute address within the program bank.
func (cpu *CPU) jmpAbs() (int, error) {
	cpu.Reg.PC = cpu.fetchWord()
	return 3, nil
}

// JSR - jump to a subroutine, pushing the post-operand PC.
func (cpu *CPU) jsr() (int, error) {
	dest := cpu.fetchWord()
	cpu.pushWord(cpu.Reg.PC)
	cpu.Reg.PC = dest
	return 6, nil
}

// RTS - return from a subroutine. The pulled address is used verbatim,
// matching the return address JSR pushes.
func (cpu *CPU) rts() (int, error) {
	cpu.Reg.PC = cpu.pullWord()
	return 6, nil
}

// PHP - push the processor status register.
func (cpu *CPU) php() (int, error) {
	cpu.pushByte(cpu.PSR.Value())
	return 3, nil
}

// PLP - pull the processor status register.
func (cpu *CPU) plp() (int, error) {
	cpu.PSR.SetValue(cpu.pullByte())
	return 4, nil
}

// PHA - push the accumulator.
func (cpu *CPU) pha() (int, error) {
	if cpu.PSR.ByteAccess() {
		cpu.pushByte(cpu.Reg.A())
		return 3, nil
	}
	cpu.pushWord(cpu.Reg.C)
	return 4, nil
}

// PLA - pull the accumulator.
func (cpu *CPU) pla() (int, error) {
	if cpu.PSR.ByteAccess() {
		cpu.Reg.SetA(cpu.pullByte())
		cpu.PSR.SetNZ8(cpu.Reg.A())
		return 4, nil
	}
	cpu.Reg.C = cpu.pullWord()
	cpu.PSR.SetNZ16(cpu.Reg.C)
	return 5, nil
}

// PHX - push X.
func (cpu *CPU) phx() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.pushByte(cpu.Reg.XL())
		return 3, nil
	}
	cpu.pushWord(cpu.Reg.X)
	return 4, nil
}

// PLX - pull X.
func (cpu *CPU) plx() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.Reg.SetXL(cpu.pullByte())
		cpu.PSR.SetNZ8(cpu.Reg.XL())
		return 4, nil
	}
	cpu.Reg.X = cpu.pullWord()
	cpu.PSR.SetNZ16(cpu.Reg.X)
	return 5, nil
}

// PHY - push Y.
func (cpu *CPU) phy() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.pushByte(cpu.Reg.YL())
		return 3, nil
	}
	cpu.pushWord(cpu.Reg.Y)
	return 4, nil
}

// PLY - pull Y.
func (cpu *CPU) ply() (int, error) {
	if cpu.PSR.ByteIndex() {
		cpu.Reg.SetYL(cpu.pullByte())
		cpu.PSR.SetNZ8(cpu.Reg.YL())
		return 4, nil
	}
	cpu.Reg.Y = cpu.pullWord()
	cpu.PSR.SetNZ16(cpu.Reg.Y)
	return 5, nil
}

// NOP - no operation.
func (cpu *CPU) nop() (int, error) {
	return 2, nil
}
