// Package errors defines the single "Compiler Error" category, plus the
// warning catalogue alongside it. Every user-facing failure from
// internal/checker, internal/codegen and internal/orchestrator is a
// *CompilerError; nothing in this core panics across a package boundary.
package errors

import (
	"fmt"
)

// Kind names one of the error families below. It is not a Go error type
// itself — CompilerError.Kind is this, CompilerError.Code is the stable
// machine-readable identifier.
type Kind string

const (
	KindType           Kind = "type"
	KindName           Kind = "name"
	KindMutability     Kind = "mutability"
	KindAssetAttribute Kind = "asset-attribute"
	KindStaticMethod   Kind = "static-method"
	KindLayout         Kind = "layout"
	KindInterfaceOnly  Kind = "interface-only"
)

// Error codes, grouped by the same family groupings as the Kind constants
// above.
const (
	CodeUndefinedIdentifier      = "C0001"
	CodeDuplicateDefinition      = "C0002"
	CodeImmutableAssignment      = "C0003"
	CodeArrayIndexOutOfRange     = "C0004"
	CodeOperatorTypeMismatch     = "C0005"
	CodeReturnTypeMismatch       = "C0006"
	CodeAssignTypeMismatch       = "C0007"
	CodeConditionNotBool         = "C0008"
	CodeArrayElementMismatch     = "C0009"
	CodeUnknownContractType      = "C0010"
	CodeNotInstantiableContract  = "C0011"
	CodeCyclicInheritance        = "C0012"
	CodeInheritanceFieldsMismatch = "C0013"
	CodeInterfaceNotChained      = "C0014"
	CodeSignatureMismatch        = "C0015"
	CodeUnimplementedMethods     = "C0016"
	CodeInvalidStdInterfaceId    = "C0017"
	CodeApprovedAssetsNotAccepted = "C0018"
	CodeMissingBracesForApproved = "C0019"
	CodeNonStaticCall            = "C0021"
	CodeStaticCallOnInstance     = "C0022"
	CodeBranchTooLong            = "C0023"
	CodeInterfaceOnlyDecl        = "C0024"
	CodeMissingReturn            = "C0025"
	CodeInvalidTxScriptMethods   = "C0026"
	CodeNonConstantArrayIndex    = "C0027"

	WarnUnusedLocalVariable      = "W0001"
	WarnUnusedField              = "W0002"
	WarnUnusedConstant           = "W0003"
	WarnUnusedPrivateFunction    = "W0004"
	WarnUnassignedMutableLocal   = "W0005"
	WarnUnassignedMutableField   = "W0006"
	WarnNoCheckExternalCaller    = "W0007"
	WarnMissingUpdateFields      = "W0008"
)

// Position is a minimal source location carried for diagnostics. The core
// never parses source itself, so Position is supplied by
// whatever AST the caller hands in and is optional (zero value is valid).
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" && p.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// CompilerError is the single user-facing failure category. A Kind+Code
// pair identifies the family; Message is always human-readable on its
// own.
type CompilerError struct {
	Kind     Kind
	Code     string
	Message  string
	Position Position
	Notes    []string
}

func (e *CompilerError) Error() string {
	if e.Position.Line == 0 && e.Position.Filename == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Position, e.Code, e.Message)
}

func New(kind Kind, code, message string, pos Position, notes ...string) *CompilerError {
	return &CompilerError{Kind: kind, Code: code, Message: message, Position: pos, Notes: notes}
}

// Constructors for the error kinds referenced throughout checker/codegen/
// orchestrator, named after what they mean rather than after their Go
// type representation.

func UndefinedIdentifier(ident string, pos Position) *CompilerError {
	return New(KindName, CodeUndefinedIdentifier, fmt.Sprintf("undefined identifier %q", ident), pos)
}

func DuplicateDefinition(name string, pos Position) *CompilerError {
	return New(KindName, CodeDuplicateDefinition, fmt.Sprintf("duplicate definition of %q", name), pos)
}

func ImmutableAssignment(name string, pos Position) *CompilerError {
	return New(KindMutability, CodeImmutableAssignment, fmt.Sprintf("cannot assign to immutable variable %q", name), pos)
}

func ArrayIndexOutOfRange(index, size int, pos Position) *CompilerError {
	return New(KindName, CodeArrayIndexOutOfRange, fmt.Sprintf("array index %d out of range for size %d", index, size), pos)
}

func OperatorTypeMismatch(op string, operands []string, pos Position) *CompilerError {
	return New(KindType, CodeOperatorTypeMismatch, fmt.Sprintf("operator %q not defined for operand types %v", op, operands), pos)
}

func ReturnTypeMismatch(want, got []string, pos Position) *CompilerError {
	return New(KindType, CodeReturnTypeMismatch, fmt.Sprintf("return type mismatch: want %v, got %v", want, got), pos)
}

func AssignTypeMismatch(want, got []string, pos Position) *CompilerError {
	return New(KindType, CodeAssignTypeMismatch, fmt.Sprintf("assignment type mismatch: target %v, value %v", want, got), pos)
}

func ConditionNotBool(got string, pos Position) *CompilerError {
	return New(KindType, CodeConditionNotBool, fmt.Sprintf("condition must be Bool, got %s", got), pos)
}

func ArrayElementMismatch(pos Position) *CompilerError {
	return New(KindType, CodeArrayElementMismatch, "array elements must share a single scalar type", pos)
}

func UnknownContractType(id string, pos Position) *CompilerError {
	return New(KindName, CodeUnknownContractType, fmt.Sprintf("unknown contract type %q", id), pos)
}

func NotInstantiableContract(id string, pos Position) *CompilerError {
	return New(KindName, CodeNotInstantiableContract, fmt.Sprintf("%q is not instantiable", id), pos)
}

func CyclicInheritance(chain []string, pos Position) *CompilerError {
	return New(KindName, CodeCyclicInheritance, fmt.Sprintf("cyclic inheritance involving %v", chain), pos)
}

func InheritanceFieldsMismatch(child, parent string, pos Position) *CompilerError {
	return New(KindName, CodeInheritanceFieldsMismatch, fmt.Sprintf("%q does not declare %q's fields in matching order", child, parent), pos)
}

func InterfaceNotChained(pos Position) *CompilerError {
	return New(KindName, CodeInterfaceNotChained, "interface parents must form a single inheritance chain", pos)
}

func SignatureMismatch(name string, pos Position) *CompilerError {
	return New(KindName, CodeSignatureMismatch, fmt.Sprintf("conflicting signatures for %q across inherited definitions", name), pos)
}

func UnimplementedMethods(names []string, pos Position) *CompilerError {
	return New(KindName, CodeUnimplementedMethods, fmt.Sprintf("unimplemented abstract functions: %v", names), pos)
}

func InvalidStdInterfaceId(pos Position, reason string) *CompilerError {
	return New(KindName, CodeInvalidStdInterfaceId, fmt.Sprintf("invalid std interface id: %s", reason), pos)
}

func ApprovedAssetsNotAccepted(callee string, pos Position) *CompilerError {
	return New(KindAssetAttribute, CodeApprovedAssetsNotAccepted, fmt.Sprintf("%q does not accept preapproved assets", callee), pos)
}

func MissingBracesForApprovedAssets(callee string, pos Position) *CompilerError {
	return New(KindAssetAttribute, CodeMissingBracesForApproved, fmt.Sprintf("%q requires an approve-assets block", callee), pos)
}

func NonStaticCall(id string, pos Position) *CompilerError {
	return New(KindStaticMethod, CodeNonStaticCall, fmt.Sprintf("%q is not a static function", id), pos)
}

func StaticCallOnInstance(id string, pos Position) *CompilerError {
	return New(KindStaticMethod, CodeStaticCallOnInstance, fmt.Sprintf("%q is static and cannot be called on an instance", id), pos)
}

func BranchTooLong(offset int, pos Position) *CompilerError {
	return New(KindLayout, CodeBranchTooLong, fmt.Sprintf("branch offset %d exceeds the maximum of 255", offset), pos)
}

func InterfaceOnlyDecl(kind string, pos Position) *CompilerError {
	return New(KindInterfaceOnly, CodeInterfaceOnlyDecl, fmt.Sprintf("interfaces may not declare %s", kind), pos)
}

func MissingReturn(fn string, pos Position) *CompilerError {
	return New(KindType, CodeMissingReturn, fmt.Sprintf("function %q does not return on all control-flow paths", fn), pos)
}

func InvalidTxScriptMethods(pos Position) *CompilerError {
	return New(KindName, CodeInvalidTxScriptMethods, "a tx script's first method must be public and all others private", pos)
}

func NonConstantArrayIndex(pos Position) *CompilerError {
	return New(KindType, CodeNonConstantArrayIndex, "array index must be a compile-time constant", pos)
}

// Warning constructs an informational (non-aborting) diagnostic.
func Warning(code, message string, pos Position) *CompilerError {
	return &CompilerError{Kind: "warning", Code: code, Message: message, Position: pos}
}

func UnusedLocalVariable(name string, pos Position) *CompilerError {
	return Warning(WarnUnusedLocalVariable, fmt.Sprintf("unused local variable %q", name), pos)
}

func UnusedField(name string, pos Position) *CompilerError {
	return Warning(WarnUnusedField, fmt.Sprintf("unused field %q", name), pos)
}

func UnusedConstant(name string, pos Position) *CompilerError {
	return Warning(WarnUnusedConstant, fmt.Sprintf("unused constant %q", name), pos)
}

func UnusedPrivateFunction(name string, pos Position) *CompilerError {
	return Warning(WarnUnusedPrivateFunction, fmt.Sprintf("unused private function %q", name), pos)
}

func UnassignedMutableLocal(name string, pos Position) *CompilerError {
	return Warning(WarnUnassignedMutableLocal, fmt.Sprintf("mutable local %q is never assigned", name), pos)
}

func UnassignedMutableField(name string, pos Position) *CompilerError {
	return Warning(WarnUnassignedMutableField, fmt.Sprintf("mutable field %q is never assigned", name), pos)
}

func NoCheckExternalCallerWarning(fn string, pos Position) *CompilerError {
	return Warning(WarnNoCheckExternalCaller, fmt.Sprintf("public function %q does not check its external caller", fn), pos)
}

func MissingUpdateFieldsWarning(fn string, pos Position) *CompilerError {
	return Warning(WarnMissingUpdateFields, fmt.Sprintf("function %q writes a field but lacks useUpdateFields", fn), pos)
}

// IsWarning reports whether e is a warning rather than an aborting error,
// using the "W"-prefixed code range as the convention.
func IsWarning(e *CompilerError) bool {
	return e.Kind == "warning" || (len(e.Code) > 0 && e.Code[0] == 'W')
}
