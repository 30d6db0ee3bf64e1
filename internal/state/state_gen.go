package state

import (
	"ralphc/internal/errors"
	"ralphc/internal/types"
	"ralphc/internal/vm"
)

// GenLoadCode emits the instruction(s) that push ident's value, dispatching
// on its VariableKind and expanding to one instruction per flattened slot
// for arrays.
func (s *State) GenLoadCode(v *Variable) []vm.Instr {
	n := v.Type.FlattenLength()
	out := make([]vm.Instr, 0, n)
	for i := 0; i < n; i++ {
		switch v.Kind {
		case KindLocal:
			out = append(out, vm.Instr{Op: vm.LoadLocal, Int: v.Index + i})
		case KindField:
			out = append(out, vm.Instr{Op: vm.LoadField, Int: v.Index + i})
		case KindTemplate:
			out = append(out, vm.Instr{Op: vm.LoadTemplate, Int: v.Index + i})
		case KindConstant:
			// Constants have no storage slot: the emitter reads
			// v.ConstVal and inlines a Const instruction directly rather
			// than calling GenLoadCode for a constant reference.
			panic("state: GenLoadCode called for a constant variable")
		}
	}
	return out
}

// GenStoreCode emits the instruction(s) that pop into ident's slot(s), in
// reverse slot order so a multi-slot array's elements land in the order
// they were pushed.
func (s *State) GenStoreCode(v *Variable) []vm.Instr {
	n := v.Type.FlattenLength()
	out := make([]vm.Instr, 0, n)
	for i := n - 1; i >= 0; i-- {
		switch v.Kind {
		case KindField:
			out = append(out, vm.Instr{Op: vm.StoreField, Int: v.Index + i})
		default:
			out = append(out, vm.Instr{Op: vm.StoreLocal, Int: v.Index + i})
		}
	}
	return out
}

// GetArrayElementType resolves the type produced by indexing arrayType
// numIndexes times (one index per FixedArray dimension), failing with
// ArrayIndexOutOfRange if there are more indexes than dimensions.
func (s *State) GetArrayElementType(arrayType types.Type, numIndexes int, pos errors.Position) (types.Type, error) {
	cur := arrayType
	for i := 0; i < numIndexes; i++ {
		arr, ok := cur.(types.FixedArray)
		if !ok {
			return nil, errors.ArrayIndexOutOfRange(i, 0, pos)
		}
		cur = arr.Elem
	}
	return cur, nil
}

// GetArrayRef resolves ident to a Variable that must denote an array,
// returning its element type and dimension size for bounds-checking a
// constant index.
func (s *State) GetArrayRef(ident string, pos errors.Position) (*Variable, types.FixedArray, error) {
	v, err := s.GetVariable(ident, false, pos)
	if err != nil {
		return nil, types.FixedArray{}, err
	}
	arr, ok := v.Type.(types.FixedArray)
	if !ok {
		return nil, types.FixedArray{}, errors.OperatorTypeMismatch("[]", []string{v.Type.Signature()}, pos)
	}
	return v, arr, nil
}

// GetOrCreateArrayRef resolves a non-identifier array expression (e.g. the
// result of a call or another index) by materializing it into a generated
// local first: array-element access on a non-variable expression must
// stage the array through a local before indexing, since Load/StoreLocal
// are the only addressable slots.
func (s *State) GetOrCreateArrayRef(arrayType types.Type) *Variable {
	return s.AddGeneratedLocal(arrayType)
}
