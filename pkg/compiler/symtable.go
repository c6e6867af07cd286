package compiler

import "fmt"

// VarBase is the first memory cell handed out to variables. Allocation works
// downward from here so program code growing up from address 0 and variables
// growing down from the top meet as late as possible.
const VarBase = 14

// UndefinedVariableError reports a read of a variable that was never
// assigned. It is fatal to compilation of the whole program.
type UndefinedVariableError struct {
	Name string
	Line int
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("line %d: undefined variable %q", e.Line, e.Name)
}

// OutOfMemoryError reports that variable allocation ran out of machine
// memory, either by walking below address 0 or by colliding with the
// program's code and constant bytes.
type OutOfMemoryError struct {
	Var string // variable being allocated; empty for the final collision check
	Msg string
}

func (e *OutOfMemoryError) Error() string {
	if e.Var != "" {
		return fmt.Sprintf("out of memory allocating %q: %s", e.Var, e.Msg)
	}
	return "out of memory: " + e.Msg
}

// SymbolTable maps toy-language variable names to memory addresses. It only
// grows; one instance lives for one compilation.
type SymbolTable struct {
	addrs map[string]uint8
	next  int // next free slot, counts down from VarBase
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		addrs: make(map[string]uint8),
		next:  VarBase,
	}
}

// Lookup returns the address bound to name.
func (s *SymbolTable) Lookup(name string) (uint8, bool) {
	addr, ok := s.addrs[name]
	return addr, ok
}

// Allocate binds name to the next free slot and returns it. Re-assignment
// reuses the address already bound to name rather than claiming a fresh
// slot, so a variable can be assigned any number of times.
func (s *SymbolTable) Allocate(name string) (uint8, error) {
	if addr, ok := s.addrs[name]; ok {
		return addr, nil
	}
	if s.next < 0 {
		return 0, &OutOfMemoryError{Var: name, Msg: "no free memory cells"}
	}
	addr := uint8(s.next)
	s.addrs[name] = addr
	s.next--
	return addr, nil
}

// Alias binds name to an address already owned by another variable.
func (s *SymbolTable) Alias(name string, addr uint8) {
	s.addrs[name] = addr
}

// Lowest returns the smallest allocated address, and false when nothing has
// been allocated. Used to detect collision with program code.
func (s *SymbolTable) Lowest() (uint8, bool) {
	if len(s.addrs) == 0 {
		return 0, false
	}
	low := uint8(VarBase)
	for _, addr := range s.addrs {
		if addr < low {
			low = addr
		}
	}
	return low, true
}
