package compiler

import (
	"fmt"
	"strings"
)

// CodeGen walks parsed statements and emits SAP-1 assembly source text.
type CodeGen struct {
	syms *SymbolTable
	out  strings.Builder

	slots int          // instruction bytes emitted so far
	pool  map[int]bool // distinct immediate literals; each costs one pool byte
}

func newCodeGen(syms *SymbolTable) *CodeGen {
	return &CodeGen{
		syms: syms,
		pool: make(map[int]bool),
	}
}

// line appends one indented assembly line and counts its program slot.
func (cg *CodeGen) line(format string, args ...any) {
	fmt.Fprintf(&cg.out, "    "+format+"\n", args...)
	cg.slots++
}

func (cg *CodeGen) lookup(name string, lineNo int) (uint8, error) {
	addr, ok := cg.syms.Lookup(name)
	if !ok {
		return 0, &UndefinedVariableError{Name: name, Line: lineNo}
	}
	return addr, nil
}

func (cg *CodeGen) genStmt(stmt Stmt) error {
	switch s := stmt.(type) {
	case *PrintStmt:
		addr, err := cg.lookup(s.Var, s.Line)
		if err != nil {
			return err
		}
		cg.line("LDA %d", addr)
		cg.line("OUT")

	case *AssignConst:
		addr, err := cg.syms.Allocate(s.Name)
		if err != nil {
			return err
		}
		cg.pool[s.Value&0xFF] = true
		cg.line("LDA #%d", s.Value)
		cg.line("STA %d", addr)

	case *AssignAdd:
		left, err := cg.lookup(s.Left, s.Line)
		if err != nil {
			return err
		}
		right, err := cg.lookup(s.Right, s.Line)
		if err != nil {
			return err
		}
		addr, err := cg.syms.Allocate(s.Name)
		if err != nil {
			return err
		}
		cg.line("LDA %d", left)
		cg.line("ADD %d", right)
		cg.line("STA %d", addr)

	case *AssignCopy:
		// A plain copy costs nothing at run time: the new name shares the
		// source's cell.
		addr, err := cg.lookup(s.Source, s.Line)
		if err != nil {
			return err
		}
		cg.syms.Alias(s.Name, addr)

	default:
		return fmt.Errorf("unhandled statement %T", stmt)
	}
	return nil
}

// Generate emits the assembly for stmts, appending the final HLT. It fails
// with an OutOfMemoryError when the program's code and constant-pool bytes
// would overlap the lowest allocated variable cell.
func Generate(stmts []Stmt, syms *SymbolTable) (string, error) {
	cg := newCodeGen(syms)

	for _, stmt := range stmts {
		if err := cg.genStmt(stmt); err != nil {
			return "", err
		}
	}
	cg.line("HLT")

	codeBytes := cg.slots + len(cg.pool)
	if low, ok := syms.Lowest(); ok && int(low) < codeBytes {
		return "", &OutOfMemoryError{
			Msg: fmt.Sprintf("program needs %d bytes of code but variables start at address %d", codeBytes, low),
		}
	}

	return cg.out.String(), nil
}
