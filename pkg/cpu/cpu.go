package cpu

import (
	"fmt"

	"gosap/pkg/word"
)

// Opcode is the high nibble of an instruction byte.
type Opcode uint8

const (
	OpLDA Opcode = 0x1 // A <- M[addr]
	OpADD Opcode = 0x2 // B <- M[addr]; A <- A+B
	OpSUB Opcode = 0x3 // B <- M[addr]; A <- A-B
	OpSTA Opcode = 0x4 // M[addr] <- A
	OpOUT Opcode = 0xE // OUT <- A (operand ignored)
	OpHLT Opcode = 0xF // halt (operand ignored)
)

func (op Opcode) String() string {
	switch op {
	case OpLDA:
		return "LDA"
	case OpADD:
		return "ADD"
	case OpSUB:
		return "SUB"
	case OpSTA:
		return "STA"
	case OpOUT:
		return "OUT"
	case OpHLT:
		return "HLT"
	}
	return fmt.Sprintf("Opcode(%X)", uint8(op))
}

// MemSize is the number of addressable cells. Addresses wrap modulo MemSize.
const MemSize = 16

// DefaultMaxSteps bounds Run against programs that never reach HLT.
const DefaultMaxSteps = 1000

// DecodeError reports an opcode nibble outside the instruction set.
type DecodeError struct {
	Opcode uint8 // offending high nibble
	IR     uint8 // full instruction byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown opcode %X in IR=%02X", e.Opcode, e.IR)
}

// Config selects optional trace output. Neither flag affects register state.
type Config struct {
	TraceInstructions bool // one line per executed instruction
	TraceMicrosteps   bool // one line per T-state (T0-T2) before the instruction line
}

// CPU is a SAP-1 style machine: 16 bytes of memory, an 8-bit accumulator
// datapath and a 4-bit program counter. One instance per emulated machine;
// it is mutated in place and never replaced.
type CPU struct {
	Memory [MemSize]uint8

	A   uint8 // accumulator
	B   uint8 // ALU operand register
	Out uint8 // output register
	IR  uint8 // instruction register
	PC  uint8 // program counter, 4-bit
	MAR uint8 // memory address register, 4-bit

	Halted bool
	TState int // microstep counter 0-3, trace granularity only

	cfg Config
}

// New creates a CPU with zeroed memory and registers.
func New(cfg Config) *CPU {
	return &CPU{cfg: cfg}
}

// Reset returns all registers, Halted and TState to zero. Memory is kept;
// reloading is the caller's business.
func (c *CPU) Reset() {
	c.A, c.B, c.Out, c.IR = 0, 0, 0, 0
	c.PC, c.MAR = 0, 0
	c.Halted = false
	c.TState = 0
}

// Cell is one (address, value) pair for LoadProgram.
type Cell struct {
	Addr  uint8
	Value uint8
}

// LoadProgram writes each cell's value into memory. Addresses wrap modulo
// MemSize and values modulo 256; overlapping addresses simply overwrite.
func (c *CPU) LoadProgram(cells []Cell) {
	for _, cell := range cells {
		c.Memory[word.U4(int(cell.Addr))] = word.U8(int(cell.Value))
	}
}

// Load writes code into memory starting at address 0.
func (c *CPU) Load(code []byte) {
	for i, b := range code {
		c.Memory[word.U4(i)] = word.U8(int(b))
	}
}

// fetch runs T0 and T1: latch PC into MAR, load IR, advance PC (wrapping
// 15 -> 0).
func (c *CPU) fetch(lines *[]string) {
	c.MAR = word.U4(int(c.PC))
	if c.cfg.TraceMicrosteps {
		*lines = append(*lines, fmt.Sprintf("T0: MAR <- PC = %X", c.PC))
	}
	c.TState = 1
	c.IR = word.U8(int(c.Memory[c.MAR]))
	if c.cfg.TraceMicrosteps {
		*lines = append(*lines, fmt.Sprintf("T1: IR <- M[MAR] = %02X; PC <- PC+1", c.IR))
	}
	c.PC = word.U4(int(c.PC) + 1)
	c.TState = 2
}

// decode runs T2: split IR into opcode and address nibbles.
func (c *CPU) decode(lines *[]string) (Opcode, uint8) {
	opcode := Opcode(c.IR >> 4)
	addr := c.IR & 0x0F
	if c.cfg.TraceMicrosteps {
		*lines = append(*lines, fmt.Sprintf("T2: decode -> opcode=%X addr=%X", uint8(opcode), addr))
	}
	c.TState = 3
	return opcode, addr
}

// Step executes one full fetch-decode-execute cycle. If the CPU is halted it
// does nothing and reports executed=false, which is not an error. On an
// unknown opcode it returns a *DecodeError; A, B and Out are left untouched
// (the fetch has already advanced PC and loaded IR).
//
// The returned lines are the trace output enabled by Config, in order:
// microstep lines first, then the instruction summary line.
func (c *CPU) Step() (lines []string, executed bool, err error) {
	if c.Halted {
		return nil, false, nil
	}

	c.fetch(&lines)
	opcode, addr := c.decode(&lines)

	var action string
	switch opcode {
	case OpLDA:
		c.MAR = word.U4(int(addr))
		c.A = word.U8(int(c.Memory[c.MAR]))
		action = fmt.Sprintf("LDA %X", addr)

	case OpADD:
		c.MAR = word.U4(int(addr))
		c.B = word.U8(int(c.Memory[c.MAR]))
		c.A = word.U8(int(c.A) + int(c.B))
		action = fmt.Sprintf("ADD %X", addr)

	case OpSUB:
		c.MAR = word.U4(int(addr))
		c.B = word.U8(int(c.Memory[c.MAR]))
		c.A = word.U8(int(c.A) - int(c.B))
		action = fmt.Sprintf("SUB %X", addr)

	case OpSTA:
		c.MAR = word.U4(int(addr))
		c.Memory[c.MAR] = word.U8(int(c.A))
		action = fmt.Sprintf("STA %X", addr)

	case OpOUT:
		c.Out = word.U8(int(c.A))
		action = fmt.Sprintf("OUT (A=%02X)", c.A)

	case OpHLT:
		c.Halted = true
		action = "HLT"

	default:
		return lines, true, &DecodeError{Opcode: uint8(opcode), IR: c.IR}
	}
	c.TState = 0

	if c.cfg.TraceInstructions {
		lines = append(lines, fmt.Sprintf("PC=%X IR=%02X A=%02X B=%02X OUT=%02X :: %s",
			c.PC, c.IR, c.A, c.B, c.Out, action))
	}
	return lines, true, nil
}

// Run steps until the CPU halts, an instruction fails to decode, or maxSteps
// cycles have run. maxSteps <= 0 selects DefaultMaxSteps. Exhausting the
// bound is a normal return: it exists to cut off programs with no reachable
// HLT, not to report them.
func (c *CPU) Run(maxSteps int) ([]string, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	var trace []string
	for steps := 0; !c.Halted && steps < maxSteps; steps++ {
		lines, _, err := c.Step()
		trace = append(trace, lines...)
		if err != nil {
			return trace, err
		}
	}
	return trace, nil
}
