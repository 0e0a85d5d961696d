// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/gosnes/go65816/cpu"

// The debugger handler receives notifications from the cpu debugger and
// dispatches them to the debugger host.
type handler struct {
	host *Host
}

func (h *handler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.host.onBreakpoint(c, b)
}

func (h *handler) OnHalt(c *cpu.CPU) {
	h.host.onHalt(c)
}
