package compiler

import (
	"errors"
	"testing"
)

func TestAllocateWalksDownFrom14(t *testing.T) {
	s := NewSymbolTable()
	names := []string{"a", "b", "c"}
	for i, name := range names {
		addr, err := s.Allocate(name)
		if err != nil {
			t.Fatalf("Allocate(%q): %v", name, err)
		}
		want := uint8(VarBase - i)
		if addr != want {
			t.Errorf("Allocate(%q) = %d; want %d", name, addr, want)
		}
	}
}

func TestAllocateReusesExistingAddress(t *testing.T) {
	s := NewSymbolTable()
	first, err := s.Allocate("x")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	second, err := s.Allocate("x")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if first != second {
		t.Errorf("re-allocation moved x: %d -> %d", first, second)
	}

	// The free pointer must not have moved either.
	next, err := s.Allocate("y")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if next != VarBase-1 {
		t.Errorf("Allocate(y) = %d; want %d", next, VarBase-1)
	}
}

func TestAllocateExhaustion(t *testing.T) {
	s := NewSymbolTable()
	for i := 0; i <= VarBase; i++ {
		if _, err := s.Allocate(string(rune('a' + i))); err != nil {
			t.Fatalf("Allocate %d: %v", i, err)
		}
	}

	_, err := s.Allocate("overflow")
	var oom *OutOfMemoryError
	if !errors.As(err, &oom) {
		t.Fatalf("expected *OutOfMemoryError, got %v", err)
	}
	if oom.Var != "overflow" {
		t.Errorf("OutOfMemoryError.Var = %q; want \"overflow\"", oom.Var)
	}
}

func TestAliasSharesAddress(t *testing.T) {
	s := NewSymbolTable()
	addr, _ := s.Allocate("w")
	s.Alias("v", addr)

	got, ok := s.Lookup("v")
	if !ok || got != addr {
		t.Errorf("Lookup(v) = (%d, %v); want (%d, true)", got, ok, addr)
	}
}

func TestLowest(t *testing.T) {
	s := NewSymbolTable()
	if _, ok := s.Lowest(); ok {
		t.Error("Lowest on an empty table reported an address")
	}
	s.Allocate("a")
	s.Allocate("b")
	low, ok := s.Lowest()
	if !ok || low != VarBase-1 {
		t.Errorf("Lowest = (%d, %v); want (%d, true)", low, ok, VarBase-1)
	}
}
