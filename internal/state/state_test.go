package state

import (
	"testing"

	"ralphc/internal/errors"
	"ralphc/internal/types"
	"ralphc/internal/vm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndLookupLocalVariable(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", []types.Type{types.U256{}})

	v, err := s.AddLocalVariable("x", types.U256{}, true, false, errors.Position{})
	require.NoError(t, err)
	assert.Equal(t, 0, v.Index)

	got, err := s.GetType("x", errors.Position{})
	require.NoError(t, err)
	assert.Equal(t, types.U256{}, got)
}

func TestAddLocalVariableDuplicateFails(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", nil)
	_, err := s.AddLocalVariable("x", types.Bool{}, false, false, errors.Position{})
	require.NoError(t, err)

	_, err = s.AddLocalVariable("x", types.Bool{}, false, false, errors.Position{})
	require.Error(t, err)
	ce, ok := err.(*errors.CompilerError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeDuplicateDefinition, ce.Code)
}

func TestGetVariableUndefined(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", nil)
	_, err := s.GetVariable("missing", false, errors.Position{})
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeUndefinedIdentifier, ce.Code)
}

func TestGetVariableImmutableWriteFails(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", nil)
	_, err := s.AddLocalVariable("x", types.U256{}, false, false, errors.Position{})
	require.NoError(t, err)

	_, err = s.GetVariable("x", true, errors.Position{})
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeImmutableAssignment, ce.Code)
}

func TestNestedBlockScopeSeesOuterLocals(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", nil)
	_, err := s.AddLocalVariable("x", types.U256{}, false, false, errors.Position{})
	require.NoError(t, err)

	s.PushBlockScope()
	_, err = s.GetVariable("x", false, errors.Position{})
	assert.NoError(t, err)
	s.PopBlockScope()
}

func TestLocalSlotsIncrementByFlattenLength(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", nil)
	arr := types.FixedArray{Elem: types.U256{}, Size: 3}
	a, err := s.AddLocalVariable("a", arr, false, false, errors.Position{})
	require.NoError(t, err)
	assert.Equal(t, 0, a.Index)

	b, err := s.AddLocalVariable("b", types.Bool{}, false, false, errors.Position{})
	require.NoError(t, err)
	assert.Equal(t, 3, b.Index)
}

func TestGenLoadStoreCodeForScalar(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", nil)
	v, _ := s.AddLocalVariable("x", types.U256{}, true, false, errors.Position{})

	load := s.GenLoadCode(v)
	require.Len(t, load, 1)
	assert.Equal(t, vm.LoadLocal, load[0].Op)
	assert.Equal(t, 0, load[0].Int)

	store := s.GenStoreCode(v)
	require.Len(t, store, 1)
	assert.Equal(t, vm.StoreLocal, store[0].Op)
}

func TestGenLoadStoreCodeForArrayExpandsPerSlot(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", nil)
	arr := types.FixedArray{Elem: types.U256{}, Size: 2}
	v, _ := s.AddLocalVariable("a", arr, true, false, errors.Position{})

	load := s.GenLoadCode(v)
	require.Len(t, load, 2)
	assert.Equal(t, 0, load[0].Int)
	assert.Equal(t, 1, load[1].Int)

	store := s.GenStoreCode(v)
	require.Len(t, store, 2)
	assert.Equal(t, 1, store[0].Int)
	assert.Equal(t, 0, store[1].Int)
}

func TestGenLoadCodeForField(t *testing.T) {
	s := New(Options{})
	v, err := s.AddFieldVariable("balance", types.U256{}, true, errors.Position{})
	require.NoError(t, err)
	load := s.GenLoadCode(v)
	require.Len(t, load, 1)
	assert.Equal(t, vm.LoadField, load[0].Op)
}

func TestFieldSlotsAccumulate(t *testing.T) {
	s := New(Options{})
	a, err := s.AddFieldVariable("a", types.U256{}, false, errors.Position{})
	require.NoError(t, err)
	assert.Equal(t, 0, a.Index)

	arr := types.FixedArray{Elem: types.Bool{}, Size: 2}
	b, err := s.AddFieldVariable("b", arr, false, errors.Position{})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Index)

	c, err := s.AddFieldVariable("c", types.Bool{}, false, errors.Position{})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Index)
}

func TestGetArrayElementTypeNested(t *testing.T) {
	s := New(Options{})
	matrix := types.FixedArray{Elem: types.FixedArray{Elem: types.U256{}, Size: 2}, Size: 2}

	elem, err := s.GetArrayElementType(matrix, 2, errors.Position{})
	require.NoError(t, err)
	assert.Equal(t, types.U256{}, elem)

	_, err = s.GetArrayElementType(matrix, 3, errors.Position{})
	require.Error(t, err)
}

func TestCheckReturnMismatch(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", []types.Type{types.U256{}})

	err := s.CheckReturn(types.Seq{types.Bool{}}, errors.Position{})
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeReturnTypeMismatch, ce.Code)

	assert.NoError(t, s.CheckReturn(types.Seq{types.U256{}}, errors.Position{}))
}

func TestCheckUnusedLocalVarsSkipsGeneratedAndUnused(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", nil)
	_, _ = s.AddLocalVariable("used", types.U256{}, false, false, errors.Position{})
	_, _ = s.GetVariable("used", false, errors.Position{})
	_, _ = s.AddLocalVariable("unused", types.U256{}, false, false, errors.Position{})
	_, _ = s.AddLocalVariable("_ignored", types.U256{}, false, true, errors.Position{})
	s.AddGeneratedLocal(types.U256{})

	s.CheckUnusedLocalVars(s.CurrentFuncLocals())
	require.Len(t, s.Warnings(), 1)
	assert.Equal(t, errors.WarnUnusedLocalVariable, s.Warnings()[0].Code)
}

func TestCheckUnassignedLocalMutableVars(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("f", nil)
	_, _ = s.AddLocalVariable("m", types.U256{}, true, false, errors.Position{})

	s.CheckUnassignedLocalMutableVars(s.CurrentFuncLocals())
	require.Len(t, s.Warnings(), 1)
	assert.Equal(t, errors.WarnUnassignedMutableLocal, s.Warnings()[0].Code)
}

func TestCheckUnusedAndUnassignedFields(t *testing.T) {
	s := New(Options{})
	_, _ = s.AddFieldVariable("a", types.U256{}, true, errors.Position{})
	_, _ = s.AddFieldVariable("b", types.U256{}, false, errors.Position{})
	_, err := s.GetVariable("b", false, errors.Position{})
	require.NoError(t, err)

	s.CheckUnusedFields()
	s.CheckUnassignedMutableFields()

	var codes []string
	for _, w := range s.Warnings() {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, errors.WarnUnusedField)
	assert.Contains(t, codes, errors.WarnUnassignedMutableField)
}

func TestRegisterAndLookupEvent(t *testing.T) {
	s := New(Options{})
	s.RegisterEvent("Transfer", []types.Type{types.Address{}, types.U256{}})
	s.RegisterEvent("Mint", []types.Type{types.U256{}})

	idx, ok := s.EventIndex("Transfer")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = s.EventIndex("Mint")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	fields, ok := s.EventFieldTypes("Transfer")
	require.True(t, ok)
	assert.Equal(t, []types.Type{types.Address{}, types.U256{}}, fields)
}

func TestCallGraphWrappers(t *testing.T) {
	s := New(Options{})
	s.PushFunctionScope("caller", nil)
	s.AddInternalCall("caller", "callee")
	s.AddExternalCall("Token", "transfer")
	s.AddInterfaceFuncCall()

	g := s.Graph()
	assert.True(t, g.InternalCalls["caller"]["callee"])
	assert.True(t, g.InternalCallsReversed["callee"]["caller"])
	assert.True(t, g.ExternalCalls[ExternalCallKey{TypeId: "Token", FuncId: "transfer"}])
	assert.True(t, g.InterfaceFuncCallSet["caller"])
}
