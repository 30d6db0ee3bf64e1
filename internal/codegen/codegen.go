// Package codegen implements the code emitter: Emit dispatches on AST
// node variant and appends vm.Instr to a flat instruction vector, the
// same type-switch-over-node-kind shape internal/checker uses, so the
// two phases read the same way. The target machine is a linear,
// stack-based VM with relative jump offsets, which rules out emitting
// through an intermediate SSA/basic-block graph.
package codegen

import (
	"ralphc/internal/ast"
	"ralphc/internal/builtins"
	"ralphc/internal/errors"
	"ralphc/internal/state"
	"ralphc/internal/types"
	"ralphc/internal/vm"
)

func pos(p ast.Position) errors.Position {
	return errors.Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

// binOpcode maps a source operator, qualified by its operand type's
// signature, to the VM's per-type arithmetic/logical opcode name.
func binOpcode(op string, operand types.Type) string {
	return operand.Signature() + "_" + op
}

// Emit appends expr's code to the current method body, returning the
// updated instruction vector. Every Expr variant pushes exactly
// type-of(expr).FlattenLength() stack slots.
func Emit(expr ast.Expr, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	switch e := expr.(type) {
	case *ast.Const:
		return append(out, constInstr(e.Value)), nil
	case *ast.Variable:
		v, err := st.GetVariable(e.Ident, false, pos(e.Pos()))
		if err != nil {
			return nil, err
		}
		if v.Kind == state.KindConstant {
			return append(out, constInstr(v.ConstVal)), nil
		}
		return append(out, st.GenLoadCode(v)...), nil
	case *ast.EnumFieldSelector:
		val, _ := st.LookupEnumMember(e.EnumId, e.Field)
		return append(out, constInstr(val)), nil
	case *ast.CreateArray:
		return emitCreateArray(e, st, out)
	case *ast.ArrayElement:
		return emitArrayElement(e, st, out)
	case *ast.UnaryOp:
		return emitUnaryOp(e, st, out)
	case *ast.BinOp:
		return emitBinOp(e, st, out)
	case *ast.ContractConv:
		return Emit(e.Address, st, out)
	case *ast.CallExpr:
		return emitCallExpr(e, st, out)
	case *ast.ContractStaticCallExpr:
		return emitStaticCallExpr(e, st, out)
	case *ast.ContractCallExpr:
		return emitContractCallExpr(e, st, out)
	case *ast.IfElseExpr:
		return emitIfElseExpr(e, st, out)
	case *ast.ParenExpr:
		return Emit(e.Inner, st, out)
	case *ast.ALPHTokenIdExpr:
		return append(out, vm.Instr{Op: vm.ALPHTokenIdOp}), nil
	default:
		return nil, errors.New(errors.KindType, errors.CodeOperatorTypeMismatch, "unhandled expression node in codegen", pos(expr.Pos()))
	}
}

func constInstr(v types.Val) vm.Instr {
	switch types.FromVal(v).(type) {
	case types.Bool:
		return vm.Instr{Op: vm.ConstBool, Val: v.String()}
	case types.I256:
		return vm.Instr{Op: vm.ConstI256, Val: v.String()}
	case types.U256:
		return vm.Instr{Op: vm.ConstU256, Val: v.String()}
	case types.ByteVec:
		return vm.Instr{Op: vm.ConstByteVec, Val: v.String()}
	case types.Address:
		return vm.Instr{Op: vm.ConstAddress, Val: v.String()}
	default:
		return vm.Instr{Op: vm.ConstU256, Val: v.String()}
	}
}

func emitCreateArray(e *ast.CreateArray, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	for _, el := range e.Elems {
		var err error
		out, err = Emit(el, st, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func emitArrayElement(e *ast.ArrayElement, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	// The checker rejects any non-constant index before codegen ever runs,
	// so the addressed element's slot offset is always known here; what
	// differs is whether the array already lives in a slot of its own.
	if ident, ok := e.Array.(*ast.Variable); ok {
		v, err := st.GetVariable(ident.Ident, false, pos(e.Pos()))
		if err != nil {
			return nil, err
		}
		return loadConstantElement(v, e.Indexes, out)
	}

	// A non-identifier array base (e.g. a call result) has no slot of its
	// own: evaluate it, stage it into a generated local, then load from
	// that local like any other array variable.
	arrType, err := TypeOfCached(e.Array)
	if err != nil {
		return nil, err
	}
	out, err = Emit(e.Array, st, out)
	if err != nil {
		return nil, err
	}
	gen := st.GetOrCreateArrayRef(arrType)
	out = append(out, st.GenStoreCode(gen)...)
	return loadConstantElement(gen, e.Indexes, out)
}

// loadConstantElement emits the fixed-offset Load for the element v[indexes]
// addresses, given v's own storage slot.
func loadConstantElement(v *state.Variable, indexes []ast.Expr, out []vm.Instr) ([]vm.Instr, error) {
	offset, elemLen, err := constantOffset(v.Type, indexes)
	if err != nil {
		return nil, err
	}
	for i := 0; i < elemLen; i++ {
		switch v.Kind {
		case state.KindField:
			out = append(out, vm.Instr{Op: vm.LoadField, Int: v.Index + offset + i})
		case state.KindTemplate:
			out = append(out, vm.Instr{Op: vm.LoadTemplate, Int: v.Index + offset + i})
		default:
			out = append(out, vm.Instr{Op: vm.LoadLocal, Int: v.Index + offset + i})
		}
	}
	return out, nil
}

// constantOffset computes the flattened slot offset and element length for
// indexing arrType by a chain of constant indexes. Returns an error if any
// index is not a compile-time Const.
func constantOffset(arrType types.Type, indexes []ast.Expr) (int, int, error) {
	offset := 0
	cur := arrType
	for _, idxExpr := range indexes {
		c, ok := idxExpr.(*ast.Const)
		if !ok {
			return 0, 0, errors.New(errors.KindType, errors.CodeArrayIndexOutOfRange, "dynamic array index", errors.Position{})
		}
		arr, ok := cur.(types.FixedArray)
		if !ok {
			return 0, 0, errors.New(errors.KindType, errors.CodeArrayIndexOutOfRange, "too many indexes", errors.Position{})
		}
		idx := int(c.Value.Int().Int64())
		if idx < 0 || idx >= arr.Size {
			return 0, 0, errors.New(errors.KindType, errors.CodeArrayIndexOutOfRange, "index out of range", errors.Position{})
		}
		offset += idx * arr.Elem.FlattenLength()
		cur = arr.Elem
	}
	return offset, cur.FlattenLength(), nil
}

func emitUnaryOp(e *ast.UnaryOp, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	inner, err := TypeOfCached(e.E)
	if err != nil {
		return nil, err
	}
	out, err = Emit(e.E, st, out)
	if err != nil {
		return nil, err
	}
	return append(out, vm.Instr{Op: vm.BinaryOp, Str: "unary" + e.Op + "_" + inner.Signature()}), nil
}

func emitBinOp(e *ast.BinOp, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	var err error
	out, err = Emit(e.Left, st, out)
	if err != nil {
		return nil, err
	}
	out, err = Emit(e.Right, st, out)
	if err != nil {
		return nil, err
	}
	leftType, err := TypeOfCached(e.Left)
	if err != nil {
		return nil, err
	}
	return append(out, vm.Instr{Op: vm.BinaryOp, Str: binOpcode(e.Op, leftType)}), nil
}

// TypeOfCached reads the type an earlier checker pass already memoized on
// expr. Codegen never calls internal/checker.TypeOf itself —
// by the time Emit runs, every node's type slot has already been written.
func TypeOfCached(expr ast.Expr) (types.Type, error) {
	seq, ok := expr.CachedType()
	if !ok || len(seq) != 1 {
		return nil, errors.New(errors.KindType, errors.CodeOperatorTypeMismatch, "codegen: missing memoized type", pos(expr.Pos()))
	}
	return seq[0], nil
}

// emitApproveAssets emits one approve-assets block: the address is pushed
// once and immediately Dup'd once per token entry beyond the first, so
// every (address, amount[, tokenId]) triple an Approve* opcode consumes
// has its own copy of the address beneath the entry's operands.
func emitApproveAssets(approve []ast.ApproveAsset, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	for _, a := range approve {
		var err error
		out, err = Emit(a.Address, st, out)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(a.Tokens); i++ {
			out = append(out, vm.Instr{Op: vm.Dup})
		}
		for _, t := range a.Tokens {
			out, err = Emit(t.Amount, st, out)
			if err != nil {
				return nil, err
			}
			if _, isAlph := t.Token.(*ast.ALPHTokenIdExpr); isAlph {
				out = append(out, vm.Instr{Op: vm.ApproveAlph})
				continue
			}
			out, err = Emit(t.Token, st, out)
			if err != nil {
				return nil, err
			}
			out = append(out, vm.Instr{Op: vm.ApproveToken})
		}
	}
	return out, nil
}

func emitArgs(args []ast.Expr, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	for _, a := range args {
		var err error
		out, err = Emit(a, st, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func emitCallExpr(e *ast.CallExpr, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	var err error
	out, err = emitApproveAssets(e.Approve, st, out)
	if err != nil {
		return nil, err
	}
	if def, ok := builtins.Lookup(e.FuncId); ok {
		return emitBuiltinCall(e, def, st, out)
	}
	out, err = emitArgs(e.Args, st, out)
	if err != nil {
		return nil, err
	}
	fn, _ := st.LookupFunction(e.FuncId)
	variadic := fn != nil && fn.Variadic
	if variadic {
		out = append(out, vm.Instr{Op: vm.U256Const, Int: len(e.Args)})
	}
	return append(out, vm.Instr{Op: vm.CallLocal, Str: e.FuncId, Bool: variadic}), nil
}

func emitBuiltinCall(e *ast.CallExpr, def builtins.FuncDef, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	var err error
	switch e.FuncId {
	case "checkCaller":
		out, err = Emit(e.Args[0], st, out)
		if err != nil {
			return nil, err
		}
		out, err = Emit(e.Args[1], st, out)
		if err != nil {
			return nil, err
		}
		return out, nil
	case "panic":
		out, err = Emit(e.Args[0], st, out)
		if err != nil {
			return nil, err
		}
		return out, nil
	case "migrate":
		return emitArgs(e.Args, st, out)
	case "transferToken", "transferTokenFromSelf", "transferTokenToSelf":
		out, err = emitArgs(e.Args, st, out)
		if err != nil {
			return nil, err
		}
		tokenArgIdx := len(e.Args) - 2
		if isNativeTokenArg(e.Args[tokenArgIdx]) {
			return append(out, vm.Instr{Op: vm.TransferAlphOp}), nil
		}
		return append(out, vm.Instr{Op: vm.TransferTokenOp}), nil
	case "tokenRemaining":
		out, err = emitArgs(e.Args, st, out)
		if err != nil {
			return nil, err
		}
		if isNativeTokenArg(e.Args[len(e.Args)-1]) {
			return append(out, vm.Instr{Op: vm.AlphRemainingOp}), nil
		}
		return append(out, vm.Instr{Op: vm.TokenRemainingOp}), nil
	default:
		return emitArgs(e.Args, st, out)
	}
}

func isNativeTokenArg(e ast.Expr) bool {
	_, ok := e.(*ast.ALPHTokenIdExpr)
	return ok
}

// externalCallLengths resolves the flattened argument/return slot counts
// for a CallExternal site, which the VM needs up front (before the object
// reference) to size its cross-contract call frame.
func externalCallLengths(args []types.Type, returns []types.Type) (int, int) {
	argLen, retLen := 0, 0
	for _, t := range args {
		argLen += t.FlattenLength()
	}
	for _, t := range returns {
		retLen += t.FlattenLength()
	}
	return argLen, retLen
}

func emitStaticCallExpr(e *ast.ContractStaticCallExpr, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	var err error
	out, err = emitApproveAssets(e.Approve, st, out)
	if err != nil {
		return nil, err
	}
	out, err = emitArgs(e.Args, st, out)
	if err != nil {
		return nil, err
	}
	c, _ := st.LookupContract(e.TypeId)
	fn := c.Functions[e.FuncId]
	argLen, retLen := externalCallLengths(fn.Args, fn.Returns)
	out = append(out, vm.Instr{Op: vm.U256Const, Int: argLen}, vm.Instr{Op: vm.U256Const, Int: retLen})
	return append(out, vm.Instr{Op: vm.CallExternal, TypeId: e.TypeId, FuncId: e.FuncId}), nil
}

func emitContractCallExpr(e *ast.ContractCallExpr, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	var err error
	out, err = emitApproveAssets(e.Approve, st, out)
	if err != nil {
		return nil, err
	}
	out, err = emitArgs(e.Args, st, out)
	if err != nil {
		return nil, err
	}
	objType, err := TypeOfCached(e.Obj)
	if err != nil {
		return nil, err
	}
	contractType := objType.(types.Contract)
	c, _ := st.LookupContract(contractType.TypeId)
	fn := c.Functions[e.FuncId]
	argLen, retLen := externalCallLengths(fn.Args, fn.Returns)
	out = append(out, vm.Instr{Op: vm.U256Const, Int: argLen}, vm.Instr{Op: vm.U256Const, Int: retLen})
	out, err = Emit(e.Obj, st, out)
	if err != nil {
		return nil, err
	}
	return append(out, vm.Instr{Op: vm.CallExternal, TypeId: contractType.TypeId, FuncId: e.FuncId}), nil
}

// emitIfElseExpr lays out an if/else *expression*: every branch (and the
// mandatory else) pushes the same flattened slot count, so the shared tail
// after the chain is simply "continue with whatever follows" — the same
// last-to-first branch layout emitBranches uses for the statement form.
func emitIfElseExpr(e *ast.IfElseExpr, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	conds := make([]ast.Expr, len(e.Branches))
	bodies := make([]func([]vm.Instr) ([]vm.Instr, error), len(e.Branches))
	for i, br := range e.Branches {
		body := br.Body
		bodies[i] = func(acc []vm.Instr) ([]vm.Instr, error) { return Emit(body, st, acc) }
		conds[i] = br.Cond
	}
	elseExpr := e.Else
	elseFn := func(acc []vm.Instr) ([]vm.Instr, error) { return Emit(elseExpr, st, acc) }
	return emitBranches(conds, bodies, elseFn, st, out)
}
