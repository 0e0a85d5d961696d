// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"sort"
	"sync/atomic"
)

// A Debugger halts the CPU between instructions, either when the program
// counter reaches a breakpoint or when a halt has been requested. The CPU
// polls it exactly once after each completed instruction.
type Debugger struct {
	Handler     Handler
	breakpoints map[uint32]*Breakpoint
	halt        atomic.Bool
}

// The Handler interface should be implemented by any object that wishes
// to receive debugger halt and breakpoint notifications.
type Handler interface {
	OnBreakpoint(cpu *CPU, b *Breakpoint)
	OnHalt(cpu *CPU)
}

// A Breakpoint represents a bank:address pair that stops code execution
// when the program counter reaches it.
type Breakpoint struct {
	Bank     byte   // program bank of the breakpoint
	Addr     uint16 // address of the breakpoint within the bank
	Disabled bool   // this breakpoint is currently disabled
	StepOver bool   // this is a temporary step-over breakpoint
}

// NewDebugger creates a new CPU debugger.
func NewDebugger(handler Handler) *Debugger {
	return &Debugger{
		Handler:     handler,
		breakpoints: make(map[uint32]*Breakpoint),
	}
}

func bpkey(bank byte, addr uint16) uint32 {
	return uint32(bank)<<16 | uint32(addr)
}

// RequestHalt asks the CPU to stop before its next fetch. It is safe to
// call from another goroutine, such as a signal handler; the request is
// consumed by the next post-instruction poll.
func (d *Debugger) RequestHalt() {
	d.halt.Store(true)
}

// GetBreakpoint looks up a breakpoint by bank:address and returns it if
// found. Otherwise it returns nil.
func (d *Debugger) GetBreakpoint(bank byte, addr uint16) *Breakpoint {
	if b, ok := d.breakpoints[bpkey(bank, addr)]; ok {
		return b
	}
	return nil
}

// GetBreakpoints returns all breakpoints currently set in the debugger,
// ordered by bank:address.
func (d *Debugger) GetBreakpoints() []*Breakpoint {
	var breakpoints []*Breakpoint
	for _, b := range d.breakpoints {
		breakpoints = append(breakpoints, b)
	}
	sort.Slice(breakpoints, func(i, j int) bool {
		return bpkey(breakpoints[i].Bank, breakpoints[i].Addr) <
			bpkey(breakpoints[j].Bank, breakpoints[j].Addr)
	})
	return breakpoints
}

// AddBreakpoint adds a new breakpoint to the debugger. If the breakpoint
// was already set, the existing one is returned.
func (d *Debugger) AddBreakpoint(bank byte, addr uint16) *Breakpoint {
	if b, ok := d.breakpoints[bpkey(bank, addr)]; ok {
		return b
	}
	b := &Breakpoint{Bank: bank, Addr: addr}
	d.breakpoints[bpkey(bank, addr)] = b
	return b
}

// RemoveBreakpoint removes a breakpoint from the debugger.
func (d *Debugger) RemoveBreakpoint(bank byte, addr uint16) {
	delete(d.breakpoints, bpkey(bank, addr))
}

func (d *Debugger) onUpdatePC(cpu *CPU, bank byte, addr uint16) {
	if d.Handler == nil {
		return
	}
	if d.halt.Swap(false) {
		d.Handler.OnHalt(cpu)
		return
	}
	if b, ok := d.breakpoints[bpkey(bank, addr)]; ok && !b.Disabled {
		d.Handler.OnBreakpoint(cpu, b)
	}
}
