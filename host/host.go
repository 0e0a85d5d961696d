// Copyright 2026 the go65816 authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that emulates the CPU and
// memory system of a Super Nintendo: a 65c816 CPU, a LoROM memory map
// with a loaded cartridge, and a built-in debugger.
//
// Within the host it is possible to run and step through machine code,
// measure the number of CPU cycles elapsed, set breakpoints, dump the
// contents of memory, disassemble the contents of memory, and manipulate
// CPU registers and debugger settings.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/cmd"

	"github.com/gosnes/go65816/cartridge"
	"github.com/gosnes/go65816/cpu"
	"github.com/gosnes/go65816/disasm"
	"github.com/gosnes/go65816/logger"
	"github.com/gosnes/go65816/mem"
)

var cmds *cmd.Tree

func init() {
	// Create a command tree, where the parameter stored with each command is
	// a host callback capable of handling the command.
	cmds = cmd.NewTree("go65816", []cmd.Command{
		{
			Name:     "help",
			Shortcut: "?",
			Data:     (*Host).cmdHelp,
		},
		{
			Name:     "breakpoint",
			Shortcut: "b",
			Brief:    "Breakpoint commands",
			Subcommands: cmd.NewTree("Breakpoint", []cmd.Command{
				{
					Name:        "list",
					Brief:       "List breakpoints",
					Description: "List all current breakpoints.",
					HelpText:    "breakpoint list",
					Data:        (*Host).cmdBreakpointList,
				},
				{
					Name:  "add",
					Brief: "Add a breakpoint",
					Description: "Add a breakpoint at the specified bank:address." +
						" The breakpoint starts enabled.",
					HelpText: "breakpoint add <address>",
					Data:     (*Host).cmdBreakpointAdd,
				},
				{
					Name:        "remove",
					Brief:       "Remove a breakpoint",
					Description: "Remove a breakpoint at the specified bank:address.",
					HelpText:    "breakpoint remove <address>",
					Data:        (*Host).cmdBreakpointRemove,
				},
				{
					Name:        "enable",
					Brief:       "Enable a breakpoint",
					Description: "Enable a previously added breakpoint.",
					HelpText:    "breakpoint enable <address>",
					Data:        (*Host).cmdBreakpointEnable,
				},
				{
					Name:  "disable",
					Brief: "Disable a breakpoint",
					Description: "Disable a previously added breakpoint. This" +
						" prevents the breakpoint from being hit when running the" +
						" CPU.",
					HelpText: "breakpoint disable <address>",
					Data:     (*Host).cmdBreakpointDisable,
				},
			}),
		},
		{
			Name:  "cartridge",
			Brief: "Display cartridge information",
			Description: "Display the loaded cartridge's layout, size, and" +
				" whether a copier header was stripped.",
			HelpText: "cartridge",
			Data:     (*Host).cmdCartridge,
		},
		{
			Name:     "disassemble",
			Shortcut: "d",
			Brief:    "Disassemble code",
			Description: "Disassemble machine code starting at the requested" +
				" bank:address. The number of instructions to disassemble may be" +
				" specified as an option.",
			HelpText: "disassemble <address> [<count>]",
			Data:     (*Host).cmdDisassemble,
		},
		{
			Name:  "memory",
			Brief: "Memory commands",
			Subcommands: cmd.NewTree("Memory", []cmd.Command{
				{
					Name:  "dump",
					Brief: "Dump memory at address",
					Description: "Dump the contents of memory starting from the" +
						" specified bank:address. The number of bytes to dump may be" +
						" specified as an option.",
					HelpText: "memory dump <address> [<bytes>]",
					Data:     (*Host).cmdMemoryDump,
				},
				{
					Name:  "region",
					Brief: "Show the region an address decodes to",
					Description: "Decode a bank:address pair and display the" +
						" memory region and offset it selects.",
					HelpText: "memory region <address>",
					Data:     (*Host).cmdMemoryRegion,
				},
			}),
		},
		{
			Name:        "quit",
			Brief:       "Quit the program",
			Description: "Quit the program.",
			HelpText:    "quit",
			Data:        (*Host).cmdQuit,
		},
		{
			Name:     "registers",
			Shortcut: "r",
			Brief:    "Display register contents",
			Description: "Display the current contents of all CPU registers, and" +
				" disassemble the instruction at the current program counter address.",
			HelpText: "registers",
			Data:     (*Host).cmdRegisters,
		},
		{
			Name:  "reset",
			Brief: "Reset the CPU",
			Description: "Clear all CPU registers, return to emulation mode, and" +
				" reload the program counter from the reset vector.",
			HelpText: "reset",
			Data:     (*Host).cmdReset,
		},
		{
			Name:  "run",
			Brief: "Run the CPU",
			Description: "Run the CPU until a breakpoint is hit, a fault occurs," +
				" or until the user types Ctrl-C. Execution may optionally start" +
				" at the specified bank:address.",
			HelpText: "run [<address>]",
			Data:     (*Host).cmdRun,
		},
		{
			Name:  "set",
			Brief: "Set a debugger variable or register",
			Description: "Set the value of a debugger variable or CPU register." +
				" Type set with no arguments to display all debugger variables.",
			HelpText: "set [<var> <value>]",
			Data:     (*Host).cmdSet,
		},
		{
			Name:  "step",
			Brief: "Step the debugger",
			Subcommands: cmd.NewTree("Step", []cmd.Command{
				{
					Name:  "in",
					Brief: "Step into next instruction",
					Description: "Step the CPU by a single instruction. The" +
						" number of steps may be specified as an option.",
					HelpText: "step in [<count>]",
					Data:     (*Host).cmdStepIn,
				},
				{
					Name:  "over",
					Brief: "Step over next instruction",
					Description: "Step the CPU by a single instruction, stepping" +
						" over subroutine calls. The number of steps may be" +
						" specified as an option.",
					HelpText: "step over [<count>]",
					Data:     (*Host).cmdStepOver,
				},
			}),
		},

		// Aliases for nested commands
		{Name: "ba", Alias: "breakpoint add"},
		{Name: "br", Alias: "breakpoint remove"},
		{Name: "bl", Alias: "breakpoint list"},
		{Name: "be", Alias: "breakpoint enable"},
		{Name: "bd", Alias: "breakpoint disable"},
		{Name: "m", Alias: "memory dump"},
		{Name: "s", Alias: "step over"},
		{Name: "si", Alias: "step in"},
	})
}

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayFlagBits
	displayCycles

	displayAll = displayRegisters | displayFlagBits | displayCycles
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateStepOverBreakpoint
)

// A codeAddr is a bank:address pair remembered between commands so that
// "$" continues a dump or disassembly where the previous one stopped.
type codeAddr struct {
	bank  byte
	addr  uint16
	valid bool
}

// A Host represents an emulated SNES CPU subsystem: a 65c816 CPU wired to
// a LoROM memory map with a loaded cartridge, plus a built-in debugger.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	logw        io.Writer
	cart        *cartridge.Image
	mem         *mem.LoROM
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	lastCmd     *cmd.Selection
	state       state
	settings    *settings
	nextDisasm  codeAddr
	nextMemDump codeAddr
}

// New creates a new host environment around the cartridge image. Warnings
// and trace output are written to logw; pass nil to discard them.
func New(cart *cartridge.Image, logw io.Writer) (*Host, error) {
	if logw == nil {
		logw = io.Discard
	}

	h := &Host{
		state:    stateProcessingCommands,
		logw:     logw,
		cart:     cart,
		settings: newSettings(),
	}

	// Create the emulated memory map and CPU.
	var err error
	h.mem, err = mem.New(cart, logger.New(logw, "mmio"))
	if err != nil {
		return nil, err
	}
	h.cpu = cpu.NewCPU(h.mem)

	// Create a CPU debugger and attach it to the CPU.
	h.debugger = cpu.NewDebugger(&handler{host: h})
	h.cpu.AttachDebugger(h.debugger)

	h.cpu.Reset()
	return h, nil
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	h.displayPC()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(func(*Host, cmd.Selection) error)
		err = handler(h, c)
		if err != nil {
			break
		}
	}

	h.flush()
}

// Break interrupts a running CPU.
func (h *Host) Break() {
	h.println()

	if h.state == stateRunning {
		h.debugger.RequestHalt()
	}
	if h.state == stateProcessingCommands {
		h.prompt()
	}
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _, _ := h.disassemble(h.cpu.Reg.PBR, h.cpu.Reg.PC, displayAll)
		h.println(d)
	}
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr    Enabled")
	h.println("------- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("%02X:%04X %v\n", b.Bank, b.Addr, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	bank, addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(bank, addr)
	h.printf("Breakpoint added at %02X:%04X.\n", bank, addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	bank, addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetBreakpoint(bank, addr) == nil {
		h.printf("No breakpoint was set on %02X:%04X.\n", bank, addr)
		return nil
	}

	h.debugger.RemoveBreakpoint(bank, addr)
	h.printf("Breakpoint at %02X:%04X removed.\n", bank, addr)
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	bank, addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(bank, addr)
	if b == nil {
		h.printf("No breakpoint was set on %02X:%04X.\n", bank, addr)
		return nil
	}

	b.Disabled = false
	h.printf("Breakpoint at %02X:%04X enabled.\n", bank, addr)
	return nil
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	bank, addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(bank, addr)
	if b == nil {
		h.printf("No breakpoint was set on %02X:%04X.\n", bank, addr)
		return nil
	}

	b.Disabled = true
	h.printf("Breakpoint at %02X:%04X disabled.\n", bank, addr)
	return nil
}

func (h *Host) cmdCartridge(c cmd.Selection) error {
	h.printf("Layout: %v\n", h.cart.Layout)
	h.printf("Size:   %dKB\n", len(h.cart.Data)/1024)
	h.printf("Copier header: %v\n", h.cart.Header != nil)
	return nil
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var bank byte
	var addr uint16
	switch c.Args[0] {
	case "$":
		if h.nextDisasm.valid {
			bank, addr = h.nextDisasm.bank, h.nextDisasm.addr
		} else {
			bank, addr = h.cpu.Reg.PBR, h.cpu.Reg.PC
		}

	case ".":
		bank, addr = h.cpu.Reg.PBR, h.cpu.Reg.PC

	default:
		var err error
		bank, addr, err = parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := parseCount(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = l
	}

	for i := 0; i < lines; i++ {
		d, _, next := h.disassemble(bank, addr, 0)
		h.println(d)
		addr = next
	}

	h.nextDisasm = codeAddr{bank: bank, addr: addr, valid: true}
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	switch {
	case len(c.Args) == 0:
		h.displayCommands(cmds)
	default:
		s, err := cmds.Lookup(strings.Join(c.Args, " "))
		if err != nil {
			h.printf("%v\n", err)
		} else {
			switch {
			case s.Command.Subcommands != nil:
				h.displayCommands(s.Command.Subcommands)
			default:
				if s.Command.HelpText != "" {
					h.printf("Syntax: %s\n\n", s.Command.HelpText)
				}
				switch {
				case s.Command.Description != "":
					h.printf("Description:\n   %s\n\n", s.Command.Description)
				case s.Command.Brief != "":
					h.printf("Description:\n   %s.\n\n", s.Command.Brief)
				}
			}
		}
	}
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var bank byte
	var addr uint16
	switch c.Args[0] {
	case "$":
		if h.nextMemDump.valid {
			bank, addr = h.nextMemDump.bank, h.nextMemDump.addr
		} else {
			bank, addr = h.cpu.Reg.PBR, h.cpu.Reg.PC
		}

	case ".":
		bank, addr = h.cpu.Reg.PBR, h.cpu.Reg.PC

	default:
		var err error
		bank, addr, err = parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	bytes := h.settings.MemDumpBytes
	if len(c.Args) >= 2 {
		var err error
		bytes, err = parseCount(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(bank, addr, bytes)

	h.nextMemDump = codeAddr{bank: bank, addr: addr + uint16(bytes), valid: true}
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemoryRegion(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	bank, addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	region, offset, writable := h.mem.Decode(bank, addr)
	access := "read-only"
	if writable {
		access = "read-write"
	}
	h.printf("%02X:%04X -> %s+$%X (%s)\n", bank, addr, region, offset, access)
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errors.New("Exiting program")
}

func (h *Host) cmdRegisters(c cmd.Selection) error {
	d, _, _ := h.disassemble(h.cpu.Reg.PBR, h.cpu.Reg.PC, displayAll)
	h.println(d)
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	h.cpu.Reg.Init()
	h.cpu.PSR.Init()
	h.cpu.Cycles = 0
	h.cpu.Reset()
	h.printf("CPU reset. Execution begins at %02X:%04X.\n", h.cpu.Reg.PBR, h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	if len(c.Args) > 0 {
		bank, addr, err := parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.cpu.Reg.PBR, h.cpu.Reg.PC = bank, addr
	}

	h.printf("Running from %02X:%04X. Press ctrl-C to break.\n",
		h.cpu.Reg.PBR, h.cpu.Reg.PC)

	h.state = stateRunning
	for h.state == stateRunning {
		if err := h.cpu.Step(); err != nil {
			h.onFault(err)
			break
		}
	}
	h.state = stateProcessingCommands

	h.nextDisasm = codeAddr{bank: h.cpu.Reg.PBR, addr: h.cpu.Reg.PC, valid: true}
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c.Command)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")

		if h.setRegister(key, value) {
			return nil
		}

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v int
			v, err = parseCount(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

// setRegister attempts to interpret a set command as a CPU register or
// status flag assignment. It returns false if the key names neither.
func (h *Host) setRegister(key, value string) bool {
	reg := &h.cpu.Reg
	p := &h.cpu.PSR

	if v, err := stringToBool(value); err == nil {
		flags := map[string]*bool{
			"carry":    &p.Carry,
			"zero":     &p.Zero,
			"negative": &p.Negative,
			"overflow": &p.Overflow,
			"decimal":  &p.Decimal,
			"irq":      &p.IRQDisable,
		}
		if f, ok := flags[key]; ok {
			*f = v
			h.printf("Flag %s set to %v.\n", strings.ToUpper(key), v)
			return true
		}
	}

	v, err := parseHex(value, 16)
	if err != nil {
		return false
	}

	switch key {
	case "a":
		reg.SetA(byte(v))
	case "b":
		reg.SetB(byte(v))
	case "c":
		reg.C = uint16(v)
	case "x":
		reg.X = uint16(v)
	case "y":
		reg.Y = uint16(v)
	case "sp":
		reg.SP = uint16(v)
	case "dp":
		reg.DP = uint16(v)
	case "pbr":
		reg.PBR = byte(v)
	case "dbr":
		reg.DBR = byte(v)
	case ".", "pc":
		reg.PC = uint16(v)
	default:
		return false
	}

	h.printf("Register %s set to $%04X.\n", strings.ToUpper(key), uint16(v))
	return true
}

func (h *Host) cmdStepIn(c cmd.Selection) error {
	count := 1
	if len(c.Args) > 0 {
		n, err := parseCount(c.Args[0])
		if err == nil {
			count = n
		}
	}

	// Step the CPU count times.
	h.state = stateRunning
	for i := count - 1; i >= 0 && h.state == stateRunning; i-- {
		if err := h.cpu.Step(); err != nil {
			h.onFault(err)
			break
		}
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands

	h.nextDisasm = codeAddr{bank: h.cpu.Reg.PBR, addr: h.cpu.Reg.PC, valid: true}
	return nil
}

func (h *Host) cmdStepOver(c cmd.Selection) error {
	count := 1
	if len(c.Args) > 0 {
		n, err := parseCount(c.Args[0])
		if err == nil {
			count = n
		}
	}

	// Step over the next instruction count times.
	h.state = stateRunning
	for i := count - 1; i >= 0 && h.state == stateRunning; i-- {
		if err := h.stepOver(); err != nil {
			h.onFault(err)
			break
		}
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands

	h.nextDisasm = codeAddr{bank: h.cpu.Reg.PBR, addr: h.cpu.Reg.PC, valid: true}
	return nil
}

func (h *Host) stepOver() error {
	// Subroutine calls need to be handled specially.
	opcode := h.cpu.Mem.LoadByte(h.cpu.Reg.PBR, h.cpu.Reg.PC)
	inst := h.cpu.InstSet.Lookup(opcode)
	if inst.Name != "JSR" {
		return h.cpu.Step()
	}

	// Place a step-over breakpoint on the instruction following the JSR.
	// Either modify an already existing breakpoint on that instruction, or
	// create a temporary one.
	bank := h.cpu.Reg.PBR
	next := h.cpu.Reg.PC + 1 + uint16(inst.OperandLength(&h.cpu.PSR))
	tmpBreakpointCreated := false
	b := h.debugger.GetBreakpoint(bank, next)
	if b == nil {
		b = h.debugger.AddBreakpoint(bank, next)
		tmpBreakpointCreated = true
	}
	b.StepOver = true

	// Run until interrupted.
	var err error
	for h.state == stateRunning {
		if err = h.cpu.Step(); err != nil {
			break
		}
	}
	b.StepOver = false

	// If we were interrupted by the temporary step-over breakpoint,
	// then continue as normal.
	if h.state == stateStepOverBreakpoint {
		h.state = stateRunning
	}

	if tmpBreakpointCreated {
		h.debugger.RemoveBreakpoint(bank, next)
	}
	return err
}

func (h *Host) onSettingsUpdate() {
	if h.settings.Trace {
		h.cpu.SetTrace(logger.New(h.logw, "trace"))
	} else {
		h.cpu.SetTrace(nil)
	}
}

// onFault reports a CPU fault, dumps the register file, and returns the
// host to command processing. A fault never exits the host.
func (h *Host) onFault(err error) {
	var decode *cpu.DecodeFault
	var unsupported *cpu.UnsupportedError
	switch {
	case errors.As(err, &decode):
		h.printf("Decode fault: %v.\n", decode)
	case errors.As(err, &unsupported):
		h.printf("Unsupported instruction: %v.\n", unsupported)
	default:
		h.printf("CPU fault: %v.\n", err)
	}

	h.println("  " + disasm.RegisterString(&h.cpu.Reg))
	h.println("  " + disasm.FlagString(&h.cpu.PSR))
	h.state = stateProcessingCommands
}

func (h *Host) disassemble(bank byte, addr uint16, flags displayFlags) (str string, line string, next uint16) {
	line, next = disasm.Disassemble(h.cpu.Mem, &h.cpu.PSR, bank, addr)

	b := make([]byte, next-addr)
	for i := range b {
		b[i] = h.cpu.Mem.LoadByte(bank, addr+uint16(i))
	}

	str = fmt.Sprintf("%02X:%04X-  %-11s  %-15s", bank, addr, codeString(b), line)

	if (flags & displayRegisters) != 0 {
		str += " " + disasm.RegisterString(&h.cpu.Reg)
	}

	if (flags & displayFlagBits) != 0 {
		str += " " + disasm.FlagString(&h.cpu.PSR)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%d", h.cpu.Cycles)
	}

	return str, line, next
}

func (h *Host) dumpMemory(bank byte, addr0 uint16, bytes int) {
	if bytes <= 0 {
		return
	}

	a1 := int(addr0) + bytes - 1
	if a1 > 0xffff {
		a1 = 0xffff
	}
	addr1 := uint16(a1)

	buf := []byte("  :    -" + strings.Repeat(" ", 35))
	buf[0] = hex[bank>>4]
	buf[1] = hex[bank&0xf]

	// Don't align the display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[3:7])
		for a, c1, c2 := addr0, 9, 35; a <= addr1; a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.cpu.Mem.LoadByte(bank, a)
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := uint16(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(a, buf[3:7])
		for c1, c2 := 9, 35; c1 < 32; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= addr0 && a <= addr1 {
				m := h.cpu.Mem.LoadByte(bank, a)
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayHelpText(c *cmd.Command) {
	if c.HelpText != "" {
		h.printf("Syntax: %s\n", c.HelpText)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(commands *cmd.Tree) {
	h.printf("%s commands:\n", commands.Title)
	for _, c := range commands.Commands {
		if c.Brief != "" {
			h.printf("    %-15s  %s\n", c.Name, c.Brief)
		}
	}
}

func (h *Host) onBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	if b.StepOver {
		h.state = stateStepOverBreakpoint
	} else {
		h.state = stateBreakpoint
		h.printf("Breakpoint hit at %02X:%04X.\n", b.Bank, b.Addr)
		h.displayPC()
	}
}

func (h *Host) onHalt(c *cpu.CPU) {
	h.state = stateBreakpoint
	h.printf("Halted at %02X:%04X.\n", c.Reg.PBR, c.Reg.PC)
	h.displayPC()
}
