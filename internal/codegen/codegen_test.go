package codegen

import (
	"math/big"
	"testing"

	"ralphc/internal/ast"
	"ralphc/internal/errors"
	"ralphc/internal/state"
	"ralphc/internal/types"
	"ralphc/internal/vm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitConstAndVariable(t *testing.T) {
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)
	v, err := st.AddLocalVariable("x", types.U256{}, false, false, errors.Position{})
	require.NoError(t, err)

	out, err := Emit(&ast.Variable{Ident: "x"}, st, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, vm.LoadLocal, out[0].Op)
	assert.Equal(t, v.Index, out[0].Int)

	c := &ast.Const{Value: types.NewU256Val(big.NewInt(42))}
	out, err = Emit(c, st, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, vm.ConstU256, out[0].Op)
	assert.Equal(t, "42", out[0].Val)
}

func TestEmitBinOp(t *testing.T) {
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)

	left := &ast.Const{Value: types.NewU256Val(big.NewInt(1))}
	right := &ast.Const{Value: types.NewU256Val(big.NewInt(2))}
	left.SetCachedType(types.Seq{types.U256{}})
	right.SetCachedType(types.Seq{types.U256{}})
	bin := &ast.BinOp{Op: "+", Left: left, Right: right}

	out, err := Emit(bin, st, nil)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, vm.ConstU256, out[0].Op)
	assert.Equal(t, vm.ConstU256, out[1].Op)
	assert.Equal(t, vm.BinaryOp, out[2].Op)
	assert.Equal(t, "U256_+", out[2].Str)
}

func TestEmitIfElseStmtLayout(t *testing.T) {
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)

	cond := &ast.Const{Value: types.NewBoolVal(true)}
	thenBody := []ast.Stmt{&ast.ReturnStmt{}}
	elseBody := []ast.Stmt{&ast.ReturnStmt{}}

	n := &ast.IfElseStmt{
		Branches: []ast.IfBranchStmt{{Cond: cond, Body: thenBody}},
		Else:     elseBody,
	}

	out, err := EmitStmt(n, st, nil)
	require.NoError(t, err)

	// cond(1) + IfFalse(1) + body(1 Return) + Jump(1) + else(1 Return) == 5
	require.Len(t, out, 5)
	assert.Equal(t, vm.ConstBool, out[0].Op)
	assert.Equal(t, vm.IfFalse, out[1].Op)
	assert.Equal(t, 2, out[1].Int) // skip Return + Jump
	assert.Equal(t, vm.Return, out[2].Op)
	assert.Equal(t, vm.Jump, out[3].Op)
	assert.Equal(t, 1, out[3].Int) // skip the else's single Return
	assert.Equal(t, vm.Return, out[4].Op)
}

func TestEmitIfElseStmtNegatedConditionUsesIfTrue(t *testing.T) {
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)

	inner := &ast.Const{Value: types.NewBoolVal(true)}
	cond := &ast.UnaryOp{Op: "!", E: inner}
	n := &ast.IfElseStmt{
		Branches: []ast.IfBranchStmt{{Cond: cond, Body: []ast.Stmt{&ast.ReturnStmt{}}}},
		Else:     []ast.Stmt{&ast.ReturnStmt{}},
	}

	out, err := EmitStmt(n, st, nil)
	require.NoError(t, err)
	assert.Equal(t, vm.IfTrue, out[1].Op)
}

func makeReturnBody(n int) []ast.Stmt {
	body := make([]ast.Stmt, n)
	for i := range body {
		body[i] = &ast.ReturnStmt{}
	}
	return body
}

func TestBranchOffsetAtMaxSucceeds(t *testing.T) {
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)

	// 254 Return instructions in the body makes skipBody = 254 + 1 = 255,
	// exactly the maximum a single IfFalse/Jump offset may encode.
	n := &ast.IfElseStmt{
		Branches: []ast.IfBranchStmt{{Cond: &ast.Const{Value: types.NewBoolVal(true)}, Body: makeReturnBody(254)}},
		Else:     []ast.Stmt{&ast.ReturnStmt{}},
	}
	out, err := EmitStmt(n, st, nil)
	require.NoError(t, err)
	assert.Equal(t, 255, out[1].Int)
}

func TestBranchTooLongFails(t *testing.T) {
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)

	// 255 Return instructions makes skipBody = 256, one past the maximum.
	n := &ast.IfElseStmt{
		Branches: []ast.IfBranchStmt{{Cond: &ast.Const{Value: types.NewBoolVal(true)}, Body: makeReturnBody(255)}},
		Else:     []ast.Stmt{&ast.ReturnStmt{}},
	}
	_, err := EmitStmt(n, st, nil)
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeBranchTooLong, ce.Code)
}

func TestEmitArrayElementConstantIndex(t *testing.T) {
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)
	arr := types.FixedArray{Elem: types.U256{}, Size: 3}
	v, err := st.AddLocalVariable("a", arr, false, false, errors.Position{})
	require.NoError(t, err)

	idx := &ast.Const{Value: types.NewU256Val(big.NewInt(1))}
	elem := &ast.ArrayElement{Array: &ast.Variable{Ident: "a"}, Indexes: []ast.Expr{idx}}

	out, err := Emit(elem, st, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, vm.LoadLocal, out[0].Op)
	assert.Equal(t, v.Index+1, out[0].Int)
}

func TestEmitArrayElementNonIdentifierBaseStagesGeneratedLocal(t *testing.T) {
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)

	arrType := types.FixedArray{Elem: types.U256{}, Size: 2}
	base := &ast.ParenExpr{Inner: &ast.CreateArray{Elems: []ast.Expr{
		&ast.Const{Value: types.NewU256Val(big.NewInt(10))},
		&ast.Const{Value: types.NewU256Val(big.NewInt(20))},
	}}}
	base.SetCachedType(types.Seq{arrType})

	idx := &ast.Const{Value: types.NewU256Val(big.NewInt(1))}
	elem := &ast.ArrayElement{Array: base, Indexes: []ast.Expr{idx}}

	out, err := Emit(elem, st, nil)
	require.NoError(t, err)
	// 2 elements pushed, 2 stored into the generated local, 1 loaded back.
	require.Len(t, out, 5)
	assert.Equal(t, vm.ConstU256, out[0].Op)
	assert.Equal(t, vm.ConstU256, out[1].Op)
	assert.Equal(t, vm.StoreLocal, out[2].Op)
	assert.Equal(t, vm.StoreLocal, out[3].Op)
	assert.Equal(t, vm.LoadLocal, out[4].Op)
}

func TestEmitEventStmt(t *testing.T) {
	st := state.New(state.Options{})
	st.RegisterEvent("Transfer", []types.Type{types.U256{}})
	st.PushFunctionScope("f", nil)

	arg := &ast.Const{Value: types.NewU256Val(big.NewInt(5))}
	n := &ast.EmitEventStmt{EventId: "Transfer", Args: []ast.Expr{arg}}

	out, err := EmitStmt(n, st, nil)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, vm.ConstU256, out[0].Op)
	assert.Equal(t, "0", out[0].Val)
	assert.Equal(t, vm.ConstU256, out[1].Op)
	assert.Equal(t, vm.LogN, out[2].Op)
	assert.Equal(t, 1, out[2].Int)
}
