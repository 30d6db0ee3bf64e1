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

func arrayState(t *testing.T) *state.State {
	t.Helper()
	st := state.New(state.Options{})
	st.PushFunctionScope("f", nil)
	_, err := st.AddLocalVariable("a", types.FixedArray{Elem: types.U256{}, Size: 3}, false, false, errors.Position{})
	require.NoError(t, err)
	return st
}

func TestTypeOfArrayElementAcceptsConstantIndex(t *testing.T) {
	st := arrayState(t)
	idx := &ast.Const{Value: types.NewU256Val(big.NewInt(1))}
	elem := &ast.ArrayElement{Array: &ast.Variable{Ident: "a"}, Indexes: []ast.Expr{idx}}

	seq, err := TypeOf(elem, st)
	require.NoError(t, err)
	assert.Equal(t, types.Seq{types.U256{}}, seq)
}

func TestTypeOfArrayElementRejectsNonConstantIndex(t *testing.T) {
	st := arrayState(t)
	_, err := st.AddLocalVariable("i", types.U256{}, false, false, errors.Position{})
	require.NoError(t, err)

	idx := &ast.Variable{Ident: "i"}
	elem := &ast.ArrayElement{Array: &ast.Variable{Ident: "a"}, Indexes: []ast.Expr{idx}}

	_, err = TypeOf(elem, st)
	require.Error(t, err)
	ce, ok := err.(*errors.CompilerError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeNonConstantArrayIndex, ce.Code)
}

func TestTypeOfArrayElementRejectsNonU256Index(t *testing.T) {
	st := arrayState(t)
	idx := &ast.Const{Value: types.NewBoolVal(true)}
	elem := &ast.ArrayElement{Array: &ast.Variable{Ident: "a"}, Indexes: []ast.Expr{idx}}

	_, err := TypeOf(elem, st)
	require.Error(t, err)
	ce, ok := err.(*errors.CompilerError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeOperatorTypeMismatch, ce.Code)
}
