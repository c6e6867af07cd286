package compiler

import "testing"

func parse(t *testing.T, src string) []Stmt {
	t.Helper()
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	stmts, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return stmts
}

func TestParseAssignConst(t *testing.T) {
	stmts := parse(t, "a = 5;")
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	s, ok := stmts[0].(*AssignConst)
	if !ok {
		t.Fatalf("got %T, want *AssignConst", stmts[0])
	}
	if s.Name != "a" || s.Value != 5 {
		t.Errorf("AssignConst{%q, %d}; want {a, 5}", s.Name, s.Value)
	}
}

func TestParseAssignAdd(t *testing.T) {
	stmts := parse(t, "c = a + b;")
	s, ok := stmts[0].(*AssignAdd)
	if !ok {
		t.Fatalf("got %T, want *AssignAdd", stmts[0])
	}
	if s.Name != "c" || s.Left != "a" || s.Right != "b" {
		t.Errorf("AssignAdd{%q, %q, %q}; want {c, a, b}", s.Name, s.Left, s.Right)
	}
}

func TestParseAssignCopy(t *testing.T) {
	stmts := parse(t, "b = a;")
	s, ok := stmts[0].(*AssignCopy)
	if !ok {
		t.Fatalf("got %T, want *AssignCopy", stmts[0])
	}
	if s.Name != "b" || s.Source != "a" {
		t.Errorf("AssignCopy{%q, %q}; want {b, a}", s.Name, s.Source)
	}
}

func TestParsePrint(t *testing.T) {
	stmts := parse(t, "print total;")
	s, ok := stmts[0].(*PrintStmt)
	if !ok {
		t.Fatalf("got %T, want *PrintStmt", stmts[0])
	}
	if s.Var != "total" {
		t.Errorf("PrintStmt{%q}; want {total}", s.Var)
	}
}

func TestParseProgram(t *testing.T) {
	stmts := parse(t, "a=5;b=7;c=a+b;print c;")
	if len(stmts) != 4 {
		t.Fatalf("got %d statements, want 4", len(stmts))
	}
}

func TestParseToleratesEmptyStatements(t *testing.T) {
	stmts := parse(t, ";;a = 1;;")
	if len(stmts) != 1 {
		t.Errorf("got %d statements, want 1", len(stmts))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing terminator", "a = 5"},
		{"missing rhs", "a = ;"},
		{"print without variable", "print;"},
		{"dangling plus", "c = a + ;"},
		{"bare identifier", "a;"},
		{"addition of literal", "c = a + 5;"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Lex(tc.src)
			if err != nil {
				t.Fatalf("Lex: %v", err)
			}
			if _, err := Parse(tokens); err == nil {
				t.Errorf("Parse(%q) succeeded; want error", tc.src)
			}
		})
	}
}
