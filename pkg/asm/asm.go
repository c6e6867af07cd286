// Package asm translates SAP-1 assembly text into machine bytes.
//
// The language is one instruction, directive or label per line. ";" starts a
// comment, "name:" declares a label (optionally followed by an instruction on
// the same line), ".BYTE n" reserves one data byte, and "#n" marks an
// immediate operand which the assembler lowers into a constant pool placed
// after the last program byte. Mnemonics are case-insensitive; labels are
// case-sensitive.
package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gosap/pkg/cpu"
	"gosap/pkg/word"
)

// addressedOps take a 4-bit address operand in the low nibble.
var addressedOps = map[string]cpu.Opcode{
	"LDA": cpu.OpLDA,
	"ADD": cpu.OpADD,
	"SUB": cpu.OpSUB,
	"STA": cpu.OpSTA,
}

// impliedOps take no operand; the low nibble is emitted as zero.
var impliedOps = map[string]cpu.Opcode{
	"OUT": cpu.OpOUT,
	"HLT": cpu.OpHLT,
}

// Error is an assembly failure tied to a source line and, when known, the
// token that caused it. Assembly of the whole program stops at the first one.
type Error struct {
	Line  int
	Token string
	Msg   string
}

func (e *Error) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Token)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type Assembler struct {
	labels map[string]uint8

	// Constant pool for #immediate operands, deduplicated by value.
	// Pool bytes are laid out after the last program slot; poolBase is
	// known once pass 1 has measured the program.
	poolValues []uint8
	poolAddr   map[uint8]uint8
}

// item is one program slot recorded during pass 1.
type item struct {
	lineNo   int
	mnemonic string // upper-cased mnemonic or ".BYTE"
	operand  string // raw operand token, may be empty
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operand  string
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels:   make(map[string]uint8),
		poolAddr: make(map[uint8]uint8),
	}
}

// Assemble is a convenience wrapper around a one-shot Assembler.
func Assemble(src string) ([]byte, map[uint8]int, error) {
	return NewAssembler().Assemble(src)
}

// Assemble translates src into machine bytes plus a source map from each
// code address to the 1-based source line it came from.
func (a *Assembler) Assemble(src string) ([]byte, map[uint8]int, error) {
	lines := strings.Split(src, "\n")

	items, err := a.pass1(lines)
	if err != nil {
		return nil, nil, err
	}
	return a.pass2(items)
}

// pass1 lays the program out: it binds labels to slot addresses, records one
// item per instruction or data directive, and assigns constant-pool
// addresses after the last program slot. Label addresses and the pool layout
// are fully known before pass 2 encodes anything, which is what makes
// forward references work.
func (a *Assembler) pass1(lines []string) ([]item, error) {
	var items []item

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}

		for _, lbl := range p.labels {
			if _, exists := a.labels[lbl]; exists {
				return nil, &Error{Line: lineNo, Token: lbl, Msg: "duplicate label"}
			}
			if len(items) >= cpu.MemSize {
				return nil, &Error{Line: lineNo, Token: lbl, Msg: "label points past addressable memory"}
			}
			a.labels[lbl] = uint8(len(items))
		}

		if p.mnemonic == "" {
			continue
		}

		switch {
		case p.mnemonic == ".BYTE":
			if p.operand == "" {
				return nil, &Error{Line: lineNo, Msg: ".BYTE expects a value"}
			}
		case p.mnemonic == "OUT" || p.mnemonic == "HLT":
			// Implied operand; any operand bits would be ignored by the
			// CPU, so reject them here where the mistake is visible.
			if p.operand != "" {
				return nil, &Error{Line: lineNo, Token: p.operand, Msg: p.mnemonic + " takes no operand"}
			}
		case p.mnemonic == "STA" && strings.HasPrefix(p.operand, "#"):
			return nil, &Error{Line: lineNo, Token: p.operand, Msg: "cannot store to an immediate"}
		default:
			if _, ok := addressedOps[p.mnemonic]; !ok {
				return nil, &Error{Line: lineNo, Token: p.mnemonic, Msg: "unknown directive or mnemonic"}
			}
		}

		if _, ok := addressedOps[p.mnemonic]; ok && strings.HasPrefix(p.operand, "#") {
			val, err := parseLiteral(p.operand[1:])
			if err != nil {
				return nil, &Error{Line: lineNo, Token: p.operand, Msg: "invalid immediate"}
			}
			if _, seen := a.poolAddr[val]; !seen {
				a.poolValues = append(a.poolValues, val)
				a.poolAddr[val] = 0 // address assigned below
			}
		}

		items = append(items, item{lineNo: lineNo, mnemonic: p.mnemonic, operand: p.operand})
		if len(items) > cpu.MemSize {
			return nil, &Error{Line: lineNo, Msg: "program too large for 16 bytes of memory"}
		}
	}

	poolBase := len(items)
	if poolBase+len(a.poolValues) > cpu.MemSize {
		return nil, &Error{Line: len(lines), Msg: "program and constant pool exceed 16 bytes of memory"}
	}
	for i, val := range a.poolValues {
		a.poolAddr[val] = uint8(poolBase + i)
	}

	return items, nil
}

// pass2 encodes every recorded item and appends the constant pool.
func (a *Assembler) pass2(items []item) ([]byte, map[uint8]int, error) {
	program := make([]byte, 0, len(items)+len(a.poolValues))
	sourceMap := make(map[uint8]int)

	for _, it := range items {
		sourceMap[uint8(len(program))] = it.lineNo

		if it.mnemonic == ".BYTE" {
			val, err := parseLiteral(it.operand)
			if err != nil {
				return nil, nil, &Error{Line: it.lineNo, Token: it.operand, Msg: "invalid .BYTE value"}
			}
			program = append(program, val)
			continue
		}

		if opcode, ok := impliedOps[it.mnemonic]; ok {
			program = append(program, byte(uint8(opcode)<<4))
			continue
		}

		opcode := addressedOps[it.mnemonic]
		addr, err := a.resolveAddress(it.operand)
		if err != nil {
			return nil, nil, &Error{Line: it.lineNo, Token: it.operand, Msg: "operand is neither a label nor an integer"}
		}
		program = append(program, byte(uint8(opcode)<<4|addr&0x0F))
	}

	// Pool bytes are synthesized, so they carry no source-map entry.
	for _, val := range a.poolValues {
		program = append(program, val)
	}

	return program, sourceMap, nil
}

// resolveAddress turns an operand token into a 4-bit address: a known label,
// a #immediate (its pool address), or an integer literal. An absent operand
// addresses cell 0.
func (a *Assembler) resolveAddress(token string) (uint8, error) {
	if token == "" {
		return 0, nil
	}
	if strings.HasPrefix(token, "#") {
		val, err := parseLiteral(token[1:])
		if err != nil {
			return 0, err
		}
		return a.poolAddr[val], nil
	}
	if addr, ok := a.labels[token]; ok {
		return addr, nil
	}
	val, err := parseLiteral(token)
	if err != nil {
		return 0, err
	}
	return word.U4(int(val)), nil
}

// parseLiteral accepts decimal, 0x/0o/0b prefixed and negative integers,
// masked to 8 bits.
func parseLiteral(token string) (uint8, error) {
	v, err := strconv.ParseInt(token, 0, 64)
	if err != nil {
		return 0, err
	}
	return word.U8(int(v)), nil
}

// parseLine splits one raw source line into labels, a mnemonic and its
// operand. Labels may share a line with an instruction ("loop: LDA x").
func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := raw
	if semi := strings.IndexByte(line, ';'); semi >= 0 {
		line = line[:semi]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			break
		}
		label := strings.TrimSpace(line[:colon])
		if label == "" || strings.ContainsAny(label, " \t") || !isIdentifier(label) {
			return p, &Error{Line: lineNo, Token: label, Msg: "invalid label"}
		}
		p.labels = append(p.labels, label)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) > 2 {
		return p, &Error{Line: lineNo, Token: fields[2], Msg: "unexpected extra operand"}
	}
	if len(fields) == 2 {
		p.operand = fields[1]
	}
	return p, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
