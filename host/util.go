// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strconv"
	"strings"
)

// parseAddr parses a 24-bit code/data address. Accepted forms are
// "bank:addr" with both parts hexadecimal, or a single hexadecimal value
// of up to six digits whose top byte is the bank. A "$" or "0x" prefix is
// allowed.
func parseAddr(s string) (bank byte, addr uint16, err error) {
	if pre, post, ok := strings.Cut(s, ":"); ok {
		b, err := parseHex(pre, 8)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid bank '%s'", pre)
		}
		a, err := parseHex(post, 16)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid address '%s'", post)
		}
		return byte(b), uint16(a), nil
	}

	v, err := parseHex(s, 24)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid address '%s'", s)
	}
	return byte(v >> 16), uint16(v), nil
}

func parseHex(s string, bits int) (uint64, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "0x")
	return strconv.ParseUint(s, 16, bits)
}

// parseCount parses a decimal repeat/size argument.
func parseCount(s string) (int, error) {
	v, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid count '%s'", s)
	}
	return int(v), nil
}

func stringToBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

func codeString(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, " ")
}

func toPrintableChar(v byte) byte {
	if v >= 32 && v < 127 {
		return v
	}
	return '.'
}

var hex = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hex[(addr>>12)&0xf]
	b[1] = hex[(addr>>8)&0xf]
	b[2] = hex[(addr>>4)&0xf]
	b[3] = hex[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hex[(v>>4)&0xf]
	b[1] = hex[v&0xf]
}
