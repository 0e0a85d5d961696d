// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package apu provides a mock audio co-processor. It answers the four
// register-level entry points the MMIO dispatcher routes to it with fixed
// ready values, which is enough to get boot code past its APU handshake.
package apu

// An APU is a stub audio co-processor.
type APU struct {
	status byte
	data   byte
}

// New creates a mock APU.
func New() *APU {
	return &APU{}
}

// ReadStatus returns the co-processor's status byte.
func (a *APU) ReadStatus() byte {
	return 0xaa
}

// WriteStatus latches a status byte written by the CPU.
func (a *APU) WriteStatus(v byte) {
	a.status = v
}

// ReadData returns the co-processor's data port byte.
func (a *APU) ReadData() byte {
	return 0xbb
}

// WriteData latches a data byte written by the CPU.
func (a *APU) WriteData(v byte) {
	a.data = v
}
