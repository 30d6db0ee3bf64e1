package ast

func (*VarDef) isStmt()       {}
func (*Assign) isStmt()       {}
func (*ExprStmt) isStmt()     {}
func (*IfElseStmt) isStmt()   {}
func (*WhileStmt) isStmt()    {}
func (*ForLoopStmt) isStmt()  {}
func (*ReturnStmt) isStmt()   {}
func (*EmitEventStmt) isStmt() {}
func (*DebugStmt) isStmt()    {}

// VarDecl is one slot of a `let (a, _, mut b) = ...` declaration: either
// Named (bound, possibly mutable) or anonymous (its value is popped and
// discarded).
type VarDecl struct {
	Named     bool
	Ident     string
	IsMutable bool
}

// VarDef declares local variables from the flattened result of Rhs. len(Decls)
// must equal len(type-of(Rhs)); anonymous slots consume their flattened
// length via pops, named slots are stored right-to-left.
type VarDef struct {
	stmtBase
	Decls []VarDecl
	Rhs   Expr
}

// Assign writes Rhs's value into each of Targets, which must each be
// mutable (a simple identifier or an array element).
type Assign struct {
	stmtBase
	Targets []Expr
	Rhs     Expr
}

// ExprStmt evaluates Expr for its side effect (an internal call, a static
// contract call, or a dynamic contract call) and pops its flattened
// result. Any other Expr variant is rejected by the checker: only the
// three call forms are meaningful as a bare statement.
type ExprStmt struct {
	stmtBase
	Expr Expr
}

// IfBranchStmt is one branch of an IfElseStmt.
type IfBranchStmt struct {
	Cond Expr
	Body []Stmt
}

// IfElseStmt is the statement form of if/else; Else is nil when absent.
type IfElseStmt struct {
	stmtBase
	Branches []IfBranchStmt
	Else     []Stmt
}

// WhileStmt loops while Cond holds.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body []Stmt
}

// ForLoopStmt is a C-style for loop: Init runs once, Cond gates each
// iteration, Update runs after Body each iteration. Init may be nil (no initializer).
type ForLoopStmt struct {
	stmtBase
	Init   Stmt
	Cond   Expr
	Update Stmt
	Body   []Stmt
}

// ReturnStmt returns zero or more values, whose flattened types must
// match the enclosing function's declared return types exactly.
type ReturnStmt struct {
	stmtBase
	Exprs []Expr
}

// EmitEventStmt emits one occurrence of the named event with Args, which
// may not themselves be array-typed.
type EmitEventStmt struct {
	stmtBase
	EventId string
	Args    []Expr
}

// DebugStmt is a developer-facing interpolated debug print; it is elided
// entirely unless the compiler state's allowDebug flag is set.
type DebugStmt struct {
	stmtBase
	Parts          []string
	Interpolations []Expr
}
