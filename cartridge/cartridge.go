// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cartridge loads SNES cartridge images. It strips the optional
// 512-byte copier header and determines the cartridge layout from the
// internal header, producing the flat byte buffer and layout tag consumed
// by the memory map.
package cartridge

import (
	"errors"
	"os"
)

// Errors returned while loading a cartridge image.
var (
	ErrBadImage      = errors.New("cartridge: invalid image size")
	ErrUnknownLayout = errors.New("cartridge: unable to determine layout")
)

// Layout identifies the cartridge's bank-switching scheme, as recorded in
// the internal header.
type Layout byte

// Known cartridge layouts.
const (
	LoROM     Layout = 0x20
	HiROM     Layout = 0x21
	LoROMFast Layout = 0x30
	HiROMFast Layout = 0x31
	ExLoROM   Layout = 0x32
	ExHiROM   Layout = 0x35
)

func (l Layout) valid() bool {
	switch l {
	case LoROM, HiROM, LoROMFast, HiROMFast, ExLoROM, ExHiROM:
		return true
	}
	return false
}

func (l Layout) String() string {
	switch l {
	case LoROM:
		return "LoROM"
	case HiROM:
		return "HiROM"
	case LoROMFast:
		return "LoROM/FastROM"
	case HiROMFast:
		return "HiROM/FastROM"
	case ExLoROM:
		return "ExLoROM"
	case ExHiROM:
		return "ExHiROM"
	}
	return "unknown"
}

// Internal header locations.
const (
	loROMHeader   = 0x7fc0
	hiROMHeader   = 0xffc0
	layoutOffset  = 0x15
	copierHdrSize = 512
)

// An Image is a loaded cartridge: the raw ROM bytes with any copier header
// already stripped, and the layout tag read from the internal header.
type Image struct {
	Data   []byte // ROM contents, copier header removed
	Header []byte // copier header, if one was present
	Layout Layout
}

// Load reads a cartridge image from a file.
func Load(filename string) (*Image, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return New(data)
}

// New builds a cartridge image from a raw byte buffer. The buffer may carry
// a 512-byte copier header; any other misalignment is a fatal load error.
func New(data []byte) (*Image, error) {
	img := &Image{}

	switch len(data) & 0x3ff {
	case copierHdrSize:
		img.Header = data[:copierHdrSize]
		img.Data = data[copierHdrSize:]
	case 0:
		if len(data) == 0 {
			return nil, ErrBadImage
		}
		img.Data = data
	default:
		return nil, ErrBadImage
	}

	layout, ok := img.readLayout(loROMHeader + layoutOffset)
	if !ok {
		layout, ok = img.readLayout(hiROMHeader + layoutOffset)
	}
	if !ok {
		return nil, ErrUnknownLayout
	}

	img.Layout = layout
	return img, nil
}

func (img *Image) readLayout(offset int) (Layout, bool) {
	if offset >= len(img.Data) {
		return 0, false
	}
	l := Layout(img.Data[offset])
	return l, l.valid()
}
