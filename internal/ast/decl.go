package ast

import (
	"strings"

	"ralphc/internal/types"
)

// Argument is a function parameter or a unit's template variable.
type Argument struct {
	Ident     string
	Type      types.Type
	IsMutable bool
	IsUnused  bool
}

// FieldDef is a named, typed storage field or event field. IsMutable only
// has meaning for a contract's storage fields (declared with `let mut`
// versus plain `let`); event fields leave it false and it is ignored
// there.
type FieldDef struct {
	Ident     string
	Type      types.Type
	IsMutable bool
}

// FunctionDef is a function's signature plus its (possibly empty, for
// abstract functions) body.
type FunctionDef struct {
	Pos Position

	Id       string
	IsPublic bool
	IsStatic bool // callable via ContractStaticCallExpr rather than on an instance
	Variadic bool // emitter appends a U256Const(argc) before the call opcode

	Args        []Argument
	ReturnTypes []types.Type
	Body        []Stmt // nil for an abstract function

	UsePreapprovedAssets   bool
	UseAssetsInContract    bool
	UseCheckExternalCaller *bool // nil means "default true"; explicit false is an opt-out
	UseUpdateFields        bool

	IsBuiltin bool // true for built-ins named in internal/builtins, never for user code
}

// IsAbstract reports whether fn has no body.
func (fn *FunctionDef) IsAbstract() bool { return fn.Body == nil }

// ChecksExternalCaller reports the effective useCheckExternalCaller value:
// true unless explicitly set to false.
func (fn *FunctionDef) ChecksExternalCaller() bool {
	return fn.UseCheckExternalCaller == nil || *fn.UseCheckExternalCaller
}

// EventDef binds an event name to an ordered field list.
type EventDef struct {
	Pos    Position
	Id     string
	Fields []FieldDef
}

// ConstantDef binds a name to a compile-time value.
type ConstantDef struct {
	Pos   Position
	Id    string
	Value types.Val
}

// EnumMember is one named value inside an EnumDef.
type EnumMember struct {
	Name  string
	Value types.Val
}

// EnumDef binds a name to an ordered set of members sharing one type.
type EnumDef struct {
	Pos     Position
	Id      string
	Members []EnumMember
}

// EventSignature renders ev's name and ordered field type signatures for
// use in warning/diagnostic text, e.g. "Transfer(Address, U256)".
func EventSignature(ev *EventDef) string {
	sigs := make([]string, len(ev.Fields))
	for i, f := range ev.Fields {
		sigs[i] = f.Type.Signature()
	}
	return ev.Id + "(" + strings.Join(sigs, ", ") + ")"
}
