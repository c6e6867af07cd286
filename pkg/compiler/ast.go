package compiler

// Stmt is one toy-language statement.
type Stmt interface {
	stmtNode()
}

// PrintStmt is "print v".
type PrintStmt struct {
	Var  string
	Line int
}

// AssignConst is "v = <integer literal>".
type AssignConst struct {
	Name  string
	Value int
	Line  int
}

// AssignAdd is "v = a + b".
type AssignAdd struct {
	Name  string
	Left  string
	Right string
	Line  int
}

// AssignCopy is "v = w": v becomes an alias for w's memory cell.
type AssignCopy struct {
	Name   string
	Source string
	Line   int
}

func (*PrintStmt) stmtNode()   {}
func (*AssignConst) stmtNode() {}
func (*AssignAdd) stmtNode()   {}
func (*AssignCopy) stmtNode()  {}
