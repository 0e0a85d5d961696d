// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mem implements the SNES LoROM memory map: a bank/address decoder
// that routes 24-bit addresses to work RAM, cartridge ROM, save RAM, or
// memory-mapped device registers.
package mem

import (
	"errors"

	"github.com/gosnes/go65816/cartridge"
	"github.com/gosnes/go65816/logger"
)

// ErrUnsupportedLayout is returned when constructing a memory map from a
// cartridge whose layout is not LoROM.
var ErrUnsupportedLayout = errors.New("mem: unsupported cartridge layout")

// Backing store sizes.
const (
	LowRAMSize  = 0x2000
	HighRAMSize = 0x6000
	ExtRAMSize  = 0x18000
	SaveRAMSize = 0x8000
)

// A Region identifies the backing store a bank:address pair decodes to.
type Region byte

// Decode targets.
const (
	RegionLowRAM Region = iota
	RegionHighRAM
	RegionExtRAM
	RegionSaveRAM
	RegionROM
	RegionMMIO
	RegionUnmapped
)

func (r Region) String() string {
	switch r {
	case RegionLowRAM:
		return "low RAM"
	case RegionHighRAM:
		return "high RAM"
	case RegionExtRAM:
		return "extended RAM"
	case RegionSaveRAM:
		return "save RAM"
	case RegionROM:
		return "ROM"
	case RegionMMIO:
		return "MMIO"
	case RegionUnmapped:
		return "unmapped"
	}
	return "invalid"
}

// LoROM is the memory bank/address decoder for LoROM cartridges. Each ROM
// bank maps a 32KB window of the image; banks 0x7E and 0x7F hold the
// 16-bit-addressable work RAM.
type LoROM struct {
	mmio    *MMIO
	rom     []byte
	lowRAM  [LowRAMSize]byte
	highRAM [HighRAMSize]byte
	extRAM  [ExtRAMSize]byte
	saveRAM [SaveRAMSize]byte
}

// New creates a memory map from a loaded cartridge. Only the LoROM layout
// is supported; any other layout is a fatal configuration error.
func New(cart *cartridge.Image, log logger.Logger) (*LoROM, error) {
	if cart.Layout != cartridge.LoROM {
		return nil, ErrUnsupportedLayout
	}
	if len(cart.Data) == 0 {
		return nil, cartridge.ErrBadImage
	}
	return &LoROM{
		mmio: NewMMIO(log),
		rom:  cart.Data,
	}, nil
}

// MMIO returns the map's MMIO dispatcher, allowing additional device
// registers to be bound.
func (m *LoROM) MMIO() *MMIO {
	return m.mmio
}

// Decode resolves a bank:address pair to a backing region, an offset into
// it, and a writability flag. It is pure and total: every pair resolves.
// ROM offsets are reduced modulo the image size, so an undersized image
// mirrors rather than faulting; save RAM mirrors every 32KB.
func (m *LoROM) Decode(bank byte, addr uint16) (r Region, offset int, writable bool) {
	masked := bank & 0x7f

	switch {
	case masked < 0x40: // 0x00-0x3F, 0x80-0xBF
		switch {
		case addr < 0x2000:
			return RegionLowRAM, int(addr), true
		case addr < 0x8000:
			return RegionMMIO, int(addr), true
		default:
			return RegionROM, m.romOffset(masked, addr), false
		}

	case masked < 0x70: // 0x40-0x6F, 0xC0-0xEF
		if addr < 0x8000 {
			return RegionUnmapped, 0, true
		}
		return RegionROM, m.romOffset(masked, addr), false

	case masked <= 0x7d: // 0x70-0x7D, 0xF0-0xFD
		if addr < 0x8000 {
			// Max 32KB, repeated in each bank.
			return RegionSaveRAM, int(addr) & (SaveRAMSize - 1), true
		}
		return RegionROM, m.romOffset(masked, addr), false

	case bank == 0x7e: // not masked
		switch {
		case addr < 0x2000:
			return RegionLowRAM, int(addr), true
		case addr < 0x8000:
			return RegionHighRAM, int(addr) - 0x2000, true
		default:
			return RegionExtRAM, int(addr) - 0x8000, true
		}

	case bank == 0x7f: // not masked
		return RegionExtRAM, int(addr) + 0x8000, true

	default: // bank 0xFE or 0xFF: same save-RAM/ROM split as 0x70-0x7D
		if addr < 0x8000 {
			return RegionSaveRAM, int(addr) & (SaveRAMSize - 1), true
		}
		return RegionROM, m.romOffset(masked, addr), false
	}
}

func (m *LoROM) romOffset(masked byte, addr uint16) int {
	return (int(masked)*0x8000 + int(addr&0x7fff)) % len(m.rom)
}

// LoadByte reads a byte from the given bank:address pair. Unmapped regions
// read as zero.
func (m *LoROM) LoadByte(bank byte, addr uint16) byte {
	region, offset, _ := m.Decode(bank, addr)
	switch region {
	case RegionLowRAM:
		return m.lowRAM[offset]
	case RegionHighRAM:
		return m.highRAM[offset]
	case RegionExtRAM:
		return m.extRAM[offset]
	case RegionSaveRAM:
		return m.saveRAM[offset]
	case RegionROM:
		return m.rom[offset]
	case RegionMMIO:
		return m.mmio.Read(addr)
	default:
		return 0
	}
}

// StoreByte writes a byte to the given bank:address pair. Writes to
// read-only or unmapped targets are silently discarded.
func (m *LoROM) StoreByte(bank byte, addr uint16, v byte) {
	region, offset, writable := m.Decode(bank, addr)
	if !writable {
		return
	}
	switch region {
	case RegionLowRAM:
		m.lowRAM[offset] = v
	case RegionHighRAM:
		m.highRAM[offset] = v
	case RegionExtRAM:
		m.extRAM[offset] = v
	case RegionSaveRAM:
		m.saveRAM[offset] = v
	case RegionMMIO:
		m.mmio.Write(addr, v)
	}
}

// LoadWord reads a little-endian word. Each byte decodes independently, so
// a word that straddles two regions is simply two byte reads; addr+1 wraps
// within the bank.
func (m *LoROM) LoadWord(bank byte, addr uint16) uint16 {
	lo := m.LoadByte(bank, addr)
	hi := m.LoadByte(bank, addr+1)
	return uint16(lo) | uint16(hi)<<8
}

// StoreWord writes a little-endian word as two independent byte writes.
func (m *LoROM) StoreWord(bank byte, addr uint16, v uint16) {
	m.StoreByte(bank, addr, byte(v))
	m.StoreByte(bank, addr+1, byte(v>>8))
}
