// Package vm names the opaque instruction alphabet the stack machine
// consumes. The core never interprets these opcodes — it only emits them —
// so this package carries no execution semantics.
package vm

import "fmt"

// Op is one opcode tag from the VM's alphabet.
type Op int

const (
	LoadLocal Op = iota
	StoreLocal
	LoadField
	StoreField
	LoadTemplate

	ConstBool
	ConstI256
	ConstU256
	ConstByteVec
	ConstAddress
	U256Const // small literal count, e.g. a variadic argc or an external call's arg/ret length

	BinaryOp // Str carries the per-type arithmetic/logical opcode name

	Pop
	Dup
	Return

	IfTrue
	IfFalse
	Jump

	CallLocal // Str carries the callee FuncId; Bool carries the variadic flag
	CallExternal

	LogN

	ApproveAlph
	ApproveToken

	TransferAlphOp
	TransferTokenOp
	AlphRemainingOp
	TokenRemainingOp
	ALPHTokenIdOp

	Debug
)

// Instr is one emitted instruction. Only the fields relevant to Op are
// populated; the rest are zero. This mirrors the VM's own opaque,
// byte-tagged instruction encoding without trying to model
// its binary layout, which is the VM's concern, not the core's.
type Instr struct {
	Op Op

	// Int is the generic integer operand: local/field/template index, a
	// relative jump offset (If/Jump), an argument count (U256Const,
	// CallExternal's arg/ret lengths stacked as two separate Instr),
	// topic count (LogN).
	Int int

	// Str carries opcode-name operands: the per-type arithmetic opcode for
	// BinaryOp, the callee FuncId for CallLocal, or the parts joined for
	// Debug.
	Str string

	// Bool carries the CallLocal variadic flag.
	Bool bool

	// TypeId/FuncId name the target of a CallExternal.
	TypeId string
	FuncId string

	// Val carries the payload for Const* instructions as its already
	// rendered literal text (the VM owns the actual binary encoding).
	Val string
}

func (i Instr) String() string {
	switch i.Op {
	case LoadLocal:
		return fmt.Sprintf("LoadLocal(%d)", i.Int)
	case StoreLocal:
		return fmt.Sprintf("StoreLocal(%d)", i.Int)
	case LoadField:
		return fmt.Sprintf("LoadField(%d)", i.Int)
	case StoreField:
		return fmt.Sprintf("StoreField(%d)", i.Int)
	case LoadTemplate:
		return fmt.Sprintf("LoadTemplate(%d)", i.Int)
	case ConstBool, ConstI256, ConstU256, ConstByteVec, ConstAddress:
		return fmt.Sprintf("Const%s(%s)", i.Val, i.Val)
	case U256Const:
		return fmt.Sprintf("U256Const(%d)", i.Int)
	case BinaryOp:
		return i.Str
	case Pop:
		return "Pop"
	case Dup:
		return "Dup"
	case Return:
		return "Return"
	case IfTrue:
		return fmt.Sprintf("IfTrue(%d)", i.Int)
	case IfFalse:
		return fmt.Sprintf("IfFalse(%d)", i.Int)
	case Jump:
		return fmt.Sprintf("Jump(%d)", i.Int)
	case CallLocal:
		return fmt.Sprintf("CallLocal(%s)", i.Str)
	case CallExternal:
		return fmt.Sprintf("CallExternal(%s,%s)", i.TypeId, i.FuncId)
	case LogN:
		return fmt.Sprintf("Log%d", i.Int)
	case ApproveAlph:
		return "ApproveAlph"
	case ApproveToken:
		return "ApproveToken"
	case TransferAlphOp:
		return "TransferAlph"
	case TransferTokenOp:
		return "TransferToken"
	case AlphRemainingOp:
		return "AlphRemaining"
	case TokenRemainingOp:
		return "TokenRemaining"
	case ALPHTokenIdOp:
		return "ALPHTokenId"
	case Debug:
		return fmt.Sprintf("DEBUG(%s)", i.Str)
	default:
		return "???"
	}
}

// Len returns the instruction count of a sequence; instructions are
// one-to-one with VM opcodes so this is just len(seq), but the helper
// keeps emitter code (which talks about "lengths" constantly) readable.
func Len(seq []Instr) int { return len(seq) }

// Method is the emitted form of a function.
type Method struct {
	IsPublic             bool
	UsePreapprovedAssets bool
	UseAssetsInContract  bool
	ArgsLength           int
	LocalsLength         int
	ReturnLength         int
	Instrs               []Instr
}
