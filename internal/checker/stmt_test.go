package checker

import (
	"math/big"
	"testing"

	"ralphc/internal/ast"
	"ralphc/internal/errors"
	"ralphc/internal/state"
	"ralphc/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAssignLocalVariableSucceeds(t *testing.T) {
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)
	_, err := st.AddLocalVariable("x", types.U256{}, true, false, errors.Position{})
	require.NoError(t, err)

	n := &ast.Assign{
		Targets: []ast.Expr{&ast.Variable{Ident: "x"}},
		Rhs:     &ast.Const{Value: types.NewU256Val(big.NewInt(7))},
	}
	assert.NoError(t, checkAssign(n, st))
}

func TestCheckAssignImmutableLocalFails(t *testing.T) {
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)
	_, err := st.AddLocalVariable("x", types.U256{}, false, false, errors.Position{})
	require.NoError(t, err)

	n := &ast.Assign{
		Targets: []ast.Expr{&ast.Variable{Ident: "x"}},
		Rhs:     &ast.Const{Value: types.NewU256Val(big.NewInt(7))},
	}
	err = checkAssign(n, st)
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeImmutableAssignment, ce.Code)
}

func TestCheckAssignArrayElementFieldRequiresUpdateFields(t *testing.T) {
	st := state.New(state.Options{})
	arr := types.FixedArray{Elem: types.U256{}, Size: 2}
	_, err := st.AddFieldVariable("balances", arr, true, errors.Position{})
	require.NoError(t, err)
	st.PushFunctionScope("set", nil)

	idx := &ast.Const{Value: types.NewU256Val(big.NewInt(0))}
	n := &ast.Assign{
		Targets: []ast.Expr{&ast.ArrayElement{Array: &ast.Variable{Ident: "balances"}, Indexes: []ast.Expr{idx}}},
		Rhs:     &ast.Const{Value: types.NewU256Val(big.NewInt(1))},
	}

	require.NoError(t, checkAssign(n, st))
	require.Len(t, st.Warnings(), 1)
	assert.Equal(t, errors.WarnMissingUpdateFields, st.Warnings()[0].Code)

	st.SetCurrentFuncUpdateFields(true)
	require.NoError(t, checkAssign(n, st))
	assert.Len(t, st.Warnings(), 1)
}

func TestCheckEmitEventStmtArgCountMismatchMessage(t *testing.T) {
	st := state.New(state.Options{})
	st.RegisterEvent("Transfer", []types.Type{types.Address{}, types.U256{}})
	st.PushFunctionScope("f", nil)

	n := &ast.EmitEventStmt{EventId: "Transfer", Args: []ast.Expr{&ast.Const{Value: types.NewU256Val(big.NewInt(1))}}}
	err := checkEmitEventStmt(n, st)
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeAssignTypeMismatch, ce.Code)
	assert.Contains(t, ce.Message, "Transfer(Address, U256)")
}
