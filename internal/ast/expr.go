package ast

import "ralphc/internal/types"

func (*Const) isExpr()                  {}
func (*Variable) isExpr()               {}
func (*EnumFieldSelector) isExpr()      {}
func (*CreateArray) isExpr()            {}
func (*ArrayElement) isExpr()           {}
func (*UnaryOp) isExpr()                {}
func (*BinOp) isExpr()                  {}
func (*ContractConv) isExpr()           {}
func (*CallExpr) isExpr()               {}
func (*ContractStaticCallExpr) isExpr() {}
func (*ContractCallExpr) isExpr()       {}
func (*IfElseExpr) isExpr()             {}
func (*ParenExpr) isExpr()              {}
func (*ALPHTokenIdExpr) isExpr()        {}

// Const is a literal constant value; its type is types.FromVal(v).
type Const struct {
	exprBase
	Value types.Val
}

// Variable is a reference to a locally-visible identifier resolved by the
// compiler state's scope stack (local, field, template or constant).
type Variable struct {
	exprBase
	Ident string
}

// EnumFieldSelector resolves EnumId::Field to the enum member's constant
// value.
type EnumFieldSelector struct {
	exprBase
	EnumId string
	Field  string
}

// CreateArray builds a fixed array literal from elems; elems must be
// non-empty, scalar-typed and share a single type.
type CreateArray struct {
	exprBase
	Elems []Expr
}

// ArrayElement indexes into Array with one index expression per nesting
// level.
type ArrayElement struct {
	exprBase
	Array   Expr
	Indexes []Expr
}

// UnaryOp applies a single-operand operator. Op names the source-level
// operator token (e.g. "!", "-"); internal/checker resolves it to a
// result type and internal/codegen resolves it to a VM opcode, both keyed
// on the operand's type.
type UnaryOp struct {
	exprBase
	Op string
	E  Expr
}

// BinOp applies a two-operand operator.
type BinOp struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

// ContractConv reinterprets a ByteVec address expression as a named
// contract type.
type ContractConv struct {
	exprBase
	TypeId  string
	Address Expr
}

// TokenAmount is one (token, amount) pair inside an approve-assets block.
type TokenAmount struct {
	Token  Expr
	Amount Expr
}

// ApproveAsset is one entry of an approve-assets block: an address plus
// the token amounts approved for it.
type ApproveAsset struct {
	Address Expr
	Tokens  []TokenAmount
}

// CallExpr is an internal (same-unit) function call, with an optional
// approve-assets block.
type CallExpr struct {
	exprBase
	FuncId  string
	Approve []ApproveAsset
	Args    []Expr
}

// ContractStaticCallExpr calls a static function of a named contract type
// without an instance.
type ContractStaticCallExpr struct {
	exprBase
	TypeId  string
	FuncId  string
	Approve []ApproveAsset
	Args    []Expr
}

// ContractCallExpr calls a non-static function on a contract instance.
type ContractCallExpr struct {
	exprBase
	Obj     Expr
	FuncId  string
	Approve []ApproveAsset
	Args    []Expr
}

// IfBranchExpr is one conditional branch of an IfElseExpr.
type IfBranchExpr struct {
	Cond Expr
	Body Expr
}

// IfElseExpr is the expression form of if/else: every branch (and the
// mandatory else) must share one result type.
type IfElseExpr struct {
	exprBase
	Branches []IfBranchExpr
	Else     Expr
}

// ParenExpr is transparent: its type and emitted code are exactly Inner's.
type ParenExpr struct {
	exprBase
	Inner Expr
}

// ALPHTokenIdExpr always evaluates to the native-token id sentinel.
type ALPHTokenIdExpr struct {
	exprBase
}
