// Package checker implements the semantic checker: a type-of function
// dispatching by AST node variant, plus the statement and function-level
// checks that use it. Dispatch happens by AST node kind rather than by
// attaching TypeOf methods to the node types themselves, keeping
// internal/ast a pure data model with no import back to either
// internal/checker or internal/state.
package checker

import (
	"fmt"

	"ralphc/internal/ast"
	"ralphc/internal/builtins"
	"ralphc/internal/errors"
	"ralphc/internal/state"
	"ralphc/internal/types"
)

func pos(p ast.Position) errors.Position {
	return errors.Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

// TypeOf computes expr's result Seq, memoizing it on the node the first
// time. A second call for
// the same node returns the cached value without re-dispatching.
func TypeOf(expr ast.Expr, st *state.State) (types.Seq, error) {
	if cached, ok := expr.CachedType(); ok {
		return cached, nil
	}
	seq, err := typeOfUncached(expr, st)
	if err != nil {
		return nil, err
	}
	expr.SetCachedType(seq)
	return seq, nil
}

func typeOfUncached(expr ast.Expr, st *state.State) (types.Seq, error) {
	switch e := expr.(type) {
	case *ast.Const:
		return types.Seq{types.FromVal(e.Value)}, nil
	case *ast.Variable:
		t, err := st.GetType(e.Ident, pos(e.Pos()))
		if err != nil {
			return nil, err
		}
		return types.Seq{t}, nil
	case *ast.EnumFieldSelector:
		val, ok := st.LookupEnumMember(e.EnumId, e.Field)
		if !ok {
			return nil, errors.UndefinedIdentifier(e.EnumId+"::"+e.Field, pos(e.Pos()))
		}
		return types.Seq{types.FromVal(val)}, nil
	case *ast.CreateArray:
		return typeOfCreateArray(e, st)
	case *ast.ArrayElement:
		return typeOfArrayElement(e, st)
	case *ast.UnaryOp:
		return typeOfUnaryOp(e, st)
	case *ast.BinOp:
		return typeOfBinOp(e, st)
	case *ast.ContractConv:
		return typeOfContractConv(e, st)
	case *ast.CallExpr:
		return typeOfCallExpr(e, st)
	case *ast.ContractStaticCallExpr:
		return typeOfStaticCallExpr(e, st)
	case *ast.ContractCallExpr:
		return typeOfContractCallExpr(e, st)
	case *ast.IfElseExpr:
		return typeOfIfElseExpr(e, st)
	case *ast.ParenExpr:
		return TypeOf(e.Inner, st)
	case *ast.ALPHTokenIdExpr:
		return types.Seq{builtins.ALPHTokenId}, nil
	default:
		return nil, errors.New(errors.KindType, errors.CodeOperatorTypeMismatch, fmt.Sprintf("unhandled expression node %T", expr), pos(expr.Pos()))
	}
}

func typeOfCreateArray(e *ast.CreateArray, st *state.State) (types.Seq, error) {
	if len(e.Elems) == 0 {
		return nil, errors.ArrayElementMismatch(pos(e.Pos()))
	}
	var elemType types.Type
	for _, el := range e.Elems {
		seq, err := TypeOf(el, st)
		if err != nil {
			return nil, err
		}
		if len(seq) != 1 || !types.IsScalar(seq[0]) {
			return nil, errors.ArrayElementMismatch(pos(e.Pos()))
		}
		if elemType == nil {
			elemType = seq[0]
		} else if !elemType.Equal(seq[0]) {
			return nil, errors.ArrayElementMismatch(pos(e.Pos()))
		}
	}
	return types.Seq{types.FixedArray{Elem: elemType, Size: len(e.Elems)}}, nil
}

func typeOfArrayElement(e *ast.ArrayElement, st *state.State) (types.Seq, error) {
	arrSeq, err := TypeOf(e.Array, st)
	if err != nil {
		return nil, err
	}
	if len(arrSeq) != 1 {
		return nil, errors.ArrayElementMismatch(pos(e.Pos()))
	}
	for _, idx := range e.Indexes {
		idxSeq, err := TypeOf(idx, st)
		if err != nil {
			return nil, err
		}
		if len(idxSeq) != 1 || !idxSeq[0].Equal(types.U256{}) {
			return nil, errors.OperatorTypeMismatch("[]", idxSeq.Signatures(), pos(e.Pos()))
		}
		// The VM has no indexed-load opcode: every index must resolve to a
		// slot offset at compile time, so only literal constants are
		// accepted here rather than arbitrary U256 expressions.
		if _, ok := idx.(*ast.Const); !ok {
			return nil, errors.NonConstantArrayIndex(pos(e.Pos()))
		}
	}
	elem, err := st.GetArrayElementType(arrSeq[0], len(e.Indexes), pos(e.Pos()))
	if err != nil {
		return nil, err
	}
	return types.Seq{elem}, nil
}

func typeOfUnaryOp(e *ast.UnaryOp, st *state.State) (types.Seq, error) {
	seq, err := TypeOf(e.E, st)
	if err != nil {
		return nil, err
	}
	if len(seq) != 1 {
		return nil, errors.OperatorTypeMismatch(e.Op, seq.Signatures(), pos(e.Pos()))
	}
	switch e.Op {
	case "!":
		if _, ok := seq[0].(types.Bool); !ok {
			return nil, errors.OperatorTypeMismatch(e.Op, seq.Signatures(), pos(e.Pos()))
		}
		return types.Seq{types.Bool{}}, nil
	case "-":
		switch seq[0].(type) {
		case types.I256, types.U256:
			return types.Seq{seq[0]}, nil
		}
		return nil, errors.OperatorTypeMismatch(e.Op, seq.Signatures(), pos(e.Pos()))
	default:
		return nil, errors.OperatorTypeMismatch(e.Op, seq.Signatures(), pos(e.Pos()))
	}
}

var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
var bitwiseOps = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}
var comparisonOps = map[string]bool{"<": true, ">": true, "<=": true, ">=": true}
var equalityOps = map[string]bool{"==": true, "!=": true}
var logicalOps = map[string]bool{"&&": true, "||": true}

func typeOfBinOp(e *ast.BinOp, st *state.State) (types.Seq, error) {
	leftSeq, err := TypeOf(e.Left, st)
	if err != nil {
		return nil, err
	}
	rightSeq, err := TypeOf(e.Right, st)
	if err != nil {
		return nil, err
	}
	if len(leftSeq) != 1 || len(rightSeq) != 1 {
		return nil, errors.OperatorTypeMismatch(e.Op, append(leftSeq.Signatures(), rightSeq.Signatures()...), pos(e.Pos()))
	}
	left, right := leftSeq[0], rightSeq[0]

	mismatch := func() (types.Seq, error) {
		return nil, errors.OperatorTypeMismatch(e.Op, []string{left.Signature(), right.Signature()}, pos(e.Pos()))
	}

	switch {
	case logicalOps[e.Op]:
		if _, ok := left.(types.Bool); !ok {
			return mismatch()
		}
		if !left.Equal(right) {
			return mismatch()
		}
		return types.Seq{types.Bool{}}, nil
	case equalityOps[e.Op]:
		if !left.Equal(right) {
			return mismatch()
		}
		return types.Seq{types.Bool{}}, nil
	case comparisonOps[e.Op]:
		switch left.(type) {
		case types.I256, types.U256:
		default:
			return mismatch()
		}
		if !left.Equal(right) {
			return mismatch()
		}
		return types.Seq{types.Bool{}}, nil
	case arithmeticOps[e.Op], bitwiseOps[e.Op]:
		switch left.(type) {
		case types.I256, types.U256:
		default:
			return mismatch()
		}
		if !left.Equal(right) {
			return mismatch()
		}
		return types.Seq{left}, nil
	default:
		return mismatch()
	}
}

func typeOfContractConv(e *ast.ContractConv, st *state.State) (types.Seq, error) {
	seq, err := TypeOf(e.Address, st)
	if err != nil {
		return nil, err
	}
	if len(seq) != 1 {
		return nil, errors.OperatorTypeMismatch("as", seq.Signatures(), pos(e.Pos()))
	}
	switch seq[0].(type) {
	case types.Address, types.ByteVec:
	default:
		return nil, errors.OperatorTypeMismatch("as", seq.Signatures(), pos(e.Pos()))
	}
	if _, ok := st.LookupContract(e.TypeId); !ok {
		return nil, errors.UnknownContractType(e.TypeId, pos(e.Pos()))
	}
	return types.Seq{types.Contract{TypeId: e.TypeId}}, nil
}

func checkApproveAssets(approve []ast.ApproveAsset, st *state.State) error {
	for _, a := range approve {
		if _, err := TypeOf(a.Address, st); err != nil {
			return err
		}
		for _, t := range a.Tokens {
			if _, ok := t.Token.(*ast.ALPHTokenIdExpr); !ok {
				if _, err := TypeOf(t.Token, st); err != nil {
					return err
				}
			}
			if _, err := TypeOf(t.Amount, st); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkArgsMatch(funcId string, args []ast.Expr, want []types.Type, variadic bool, st *state.State, p errors.Position) error {
	if !variadic && len(args) != len(want) {
		return errors.OperatorTypeMismatch(funcId, nil, p)
	}
	n := len(want)
	if variadic && len(args) < n {
		return errors.OperatorTypeMismatch(funcId, nil, p)
	}
	for i := 0; i < n; i++ {
		seq, err := TypeOf(args[i], st)
		if err != nil {
			return err
		}
		if len(seq) != 1 || !seq[0].Equal(want[i]) {
			return errors.AssignTypeMismatch([]string{want[i].Signature()}, seq.Signatures(), p)
		}
	}
	if variadic {
		for _, extra := range args[n:] {
			if _, err := TypeOf(extra, st); err != nil {
				return err
			}
		}
	}
	return nil
}

func typeOfCallExpr(e *ast.CallExpr, st *state.State) (types.Seq, error) {
	p := pos(e.Pos())
	if err := checkApproveAssets(e.Approve, st); err != nil {
		return nil, err
	}
	if def, ok := builtins.Lookup(e.FuncId); ok {
		want := make([]types.Type, len(def.Params))
		for i, pr := range def.Params {
			want[i] = pr.Type
		}
		if err := checkArgsMatch(e.FuncId, e.Args, want, def.Variadic, st, p); err != nil {
			return nil, err
		}
		return types.Seq(def.ReturnType), nil
	}
	fn, ok := st.LookupFunction(e.FuncId)
	if !ok {
		return nil, errors.UndefinedIdentifier(e.FuncId, p)
	}
	if len(e.Approve) > 0 && !fn.UsePreapprovedAssets {
		return nil, errors.ApprovedAssetsNotAccepted(e.FuncId, p)
	}
	if fn.UsePreapprovedAssets && len(e.Approve) == 0 {
		return nil, errors.MissingBracesForApprovedAssets(e.FuncId, p)
	}
	if err := checkArgsMatch(e.FuncId, e.Args, fn.Args, fn.Variadic, st, p); err != nil {
		return nil, err
	}
	st.AddInternalCall(st.CurrentFunctionId(), e.FuncId)
	return types.Seq(fn.Returns), nil
}

func typeOfStaticCallExpr(e *ast.ContractStaticCallExpr, st *state.State) (types.Seq, error) {
	p := pos(e.Pos())
	if err := checkApproveAssets(e.Approve, st); err != nil {
		return nil, err
	}
	c, ok := st.LookupContract(e.TypeId)
	if !ok {
		return nil, errors.UnknownContractType(e.TypeId, p)
	}
	fn, ok := c.Functions[e.FuncId]
	if !ok {
		return nil, errors.UndefinedIdentifier(e.TypeId+"."+e.FuncId, p)
	}
	if !fn.IsStatic {
		return nil, errors.NonStaticCall(e.FuncId, p)
	}
	if err := checkArgsMatch(e.FuncId, e.Args, fn.Args, fn.Variadic, st, p); err != nil {
		return nil, err
	}
	st.AddExternalCall(e.TypeId, e.FuncId)
	return types.Seq(fn.Returns), nil
}

func typeOfContractCallExpr(e *ast.ContractCallExpr, st *state.State) (types.Seq, error) {
	p := pos(e.Pos())
	if err := checkApproveAssets(e.Approve, st); err != nil {
		return nil, err
	}
	objSeq, err := TypeOf(e.Obj, st)
	if err != nil {
		return nil, err
	}
	if len(objSeq) != 1 {
		return nil, errors.OperatorTypeMismatch(".", objSeq.Signatures(), p)
	}
	contractType, ok := objSeq[0].(types.Contract)
	if !ok {
		return nil, errors.OperatorTypeMismatch(".", objSeq.Signatures(), p)
	}
	c, ok := st.LookupContract(contractType.TypeId)
	if !ok {
		return nil, errors.UnknownContractType(contractType.TypeId, p)
	}
	fn, ok := c.Functions[e.FuncId]
	if !ok {
		return nil, errors.UndefinedIdentifier(contractType.TypeId+"."+e.FuncId, p)
	}
	if fn.IsStatic {
		return nil, errors.StaticCallOnInstance(e.FuncId, p)
	}
	if err := checkArgsMatch(e.FuncId, e.Args, fn.Args, fn.Variadic, st, p); err != nil {
		return nil, err
	}
	st.AddExternalCall(contractType.TypeId, e.FuncId)
	if c.IsInterface {
		st.AddInterfaceFuncCall()
	}
	return types.Seq(fn.Returns), nil
}

func typeOfIfElseExpr(e *ast.IfElseExpr, st *state.State) (types.Seq, error) {
	p := pos(e.Pos())
	var result types.Seq
	for _, br := range e.Branches {
		condSeq, err := TypeOf(br.Cond, st)
		if err != nil {
			return nil, err
		}
		if len(condSeq) != 1 || !condSeq[0].Equal(types.Bool{}) {
			return nil, errors.ConditionNotBool(condSeq.Signatures()[0], p)
		}
		bodySeq, err := TypeOf(br.Body, st)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = bodySeq
		} else if !result.Equal(bodySeq) {
			return nil, errors.AssignTypeMismatch(result.Signatures(), bodySeq.Signatures(), p)
		}
	}
	elseSeq, err := TypeOf(e.Else, st)
	if err != nil {
		return nil, err
	}
	if result != nil && !result.Equal(elseSeq) {
		return nil, errors.AssignTypeMismatch(result.Signatures(), elseSeq.Signatures(), p)
	}
	return elseSeq, nil
}
