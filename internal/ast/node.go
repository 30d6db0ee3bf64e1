package ast

import "ralphc/internal/types"

// Node is the minimal interface every AST node satisfies. It intentionally
// carries nothing about typing or emission: those are computed by
// internal/checker and internal/codegen via type switches over the
// concrete node types below rather than by putting compiler logic on the
// node types themselves.
type Node interface {
	Pos() Position
}

// Expr is any node that produces a Seq of stack slots when evaluated.
type Expr interface {
	Node
	isExpr()
	// CachedType returns the memoized type-of result and whether it has
	// been computed yet. The memo is write-once: internal/checker calls
	// SetCachedType exactly once per node.
	CachedType() (types.Seq, bool)
	SetCachedType(types.Seq)
}

// Stmt is any node checked and emitted for effect only.
type Stmt interface {
	Node
	isStmt()
}

// Unit is a top-level compilation unit: TxScript, Contract, Interface or
// AssetScript.
type Unit interface {
	Node
	isUnit()
	TypeId() string
}

// exprBase is embedded by every Expr variant; it supplies position
// tracking and the write-once type memo.
type exprBase struct {
	P         Position
	cached    types.Seq
	hasCached bool
}

func (b *exprBase) Pos() Position { return b.P }

func (b *exprBase) CachedType() (types.Seq, bool) { return b.cached, b.hasCached }

func (b *exprBase) SetCachedType(s types.Seq) {
	if b.hasCached {
		panic("ast: type already memoized for this expression node")
	}
	b.cached = s
	b.hasCached = true
}

// stmtBase is embedded by every Stmt variant.
type stmtBase struct {
	P Position
}

func (b *stmtBase) Pos() Position { return b.P }
