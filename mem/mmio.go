// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mem

import (
	"github.com/gosnes/go65816/apu"
	"github.com/gosnes/go65816/logger"
)

// Emulated device register addresses.
const (
	APUStatus = 0x2140 // byte
	APUData   = 0x2141 // byte
)

// ReadFunc reads one byte from a device register.
type ReadFunc func() byte

// WriteFunc writes one byte to a device register.
type WriteFunc func(v byte)

type mmioHandler struct {
	read  ReadFunc
	write WriteFunc
}

// MMIO dispatches reads and writes of fixed register addresses to device
// callbacks. Accesses to unmapped registers are not errors: reads answer 0
// and writes are discarded, with a warning on the injected logger.
type MMIO struct {
	handlers map[uint16]mmioHandler
	log      logger.Logger
}

// NewMMIO creates an MMIO dispatcher with the mock devices attached.
func NewMMIO(log logger.Logger) *MMIO {
	m := &MMIO{
		handlers: make(map[uint16]mmioHandler),
		log:      log,
	}

	a := apu.New()
	m.Map(APUStatus, a.ReadStatus, a.WriteStatus)
	m.Map(APUData, a.ReadData, a.WriteData)

	return m
}

// Map binds a register address to a read/write callback pair.
func (m *MMIO) Map(addr uint16, r ReadFunc, w WriteFunc) {
	m.handlers[addr] = mmioHandler{read: r, write: w}
}

// Read reads one byte from the register at addr.
func (m *MMIO) Read(addr uint16) byte {
	if h, ok := m.handlers[addr]; ok {
		return h.read()
	}
	m.log.Logf("unhandled MMIO read $%04X, returning 0", addr)
	return 0
}

// Write writes one byte to the register at addr.
func (m *MMIO) Write(addr uint16, v byte) {
	if h, ok := m.handlers[addr]; ok {
		h.write(v)
		return
	}
	m.log.Logf("unhandled MMIO write $%04X <- $%02X", addr, v)
}
