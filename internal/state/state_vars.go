package state

import (
	"ralphc/internal/errors"
	"ralphc/internal/types"
)

// PushFunctionScope starts a new function body: a fresh root scope above
// the unit frame, and a fresh access-tracking cache.
func (s *State) PushFunctionScope(funcId string, returns []types.Type) {
	s.top = newScope(s.unit, true, funcId)
	s.currentFuncId = funcId
	s.currentFuncLocals = nil
	s.currentFuncReturns = returns
}

// PopFunctionScope ends the current function body.
func (s *State) PopFunctionScope() {
	s.top = s.unit
	s.currentFuncId = ""
	s.currentFuncLocals = nil
	s.currentFuncReturns = nil
	s.currentFuncUpdateField = false
}

// PushBlockScope opens a nested scope for an if/while/for body.
func (s *State) PushBlockScope() {
	s.top = newScope(s.top, false, s.currentFuncId)
}

// PopBlockScope closes the innermost nested scope.
func (s *State) PopBlockScope() {
	if s.top.parent != nil {
		s.top = s.top.parent
	}
}

// GetType resolves ident's Type, failing with UndefinedIdentifier if it is
// not in scope.
func (s *State) GetType(ident string, pos errors.Position) (types.Type, error) {
	v := s.top.lookup(ident)
	if v == nil {
		return nil, errors.UndefinedIdentifier(ident, pos)
	}
	v.used = true
	return v.Type, nil
}

// GetVariable resolves ident to its scope entry. When isWrite is true, an
// immutable variable fails with ImmutableAssignment instead of being
// returned.
func (s *State) GetVariable(ident string, isWrite bool, pos errors.Position) (*Variable, error) {
	v := s.top.lookup(ident)
	if v == nil {
		return nil, errors.UndefinedIdentifier(ident, pos)
	}
	if isWrite {
		if !v.IsMutable {
			return nil, errors.ImmutableAssignment(ident, pos)
		}
		v.assigned = true
	} else {
		v.used = true
	}
	return v, nil
}

// MarkUsed records a read of ident without resolving a write.
func (s *State) MarkUsed(ident string) {
	if v := s.top.lookup(ident); v != nil {
		v.used = true
	}
}

func (s *State) addVariable(scopeFrame *scope, ident string, kind VariableKind, typ types.Type, mutable, unused, generated bool, index int, pos errors.Position) (*Variable, error) {
	if _, exists := scopeFrame.vars[ident]; exists {
		return nil, errors.DuplicateDefinition(ident, pos)
	}
	v := &Variable{
		Ident:       ident,
		Kind:        kind,
		Type:        typ,
		IsMutable:   mutable,
		IsUnused:    unused,
		IsGenerated: generated,
		Index:       index,
		Pos:         pos,
	}
	scopeFrame.vars[ident] = v
	return v, nil
}

// AddLocalVariable declares a local in the current scope, allocating the
// next local slot(s) in the enclosing function. Slot indices increase by the type's flattened
// length so multi-slot values (arrays) occupy a contiguous range.
func (s *State) AddLocalVariable(ident string, typ types.Type, mutable, unused bool, pos errors.Position) (*Variable, error) {
	root := s.top.funcRoot()
	index := root.nextLocal
	v, err := s.addVariable(s.top, ident, KindLocal, typ, mutable, unused, false, index, pos)
	if err != nil {
		return nil, err
	}
	root.nextLocal += typ.FlattenLength()
	s.currentFuncLocals = append(s.currentFuncLocals, v)
	return v, nil
}

// AddGeneratedLocal declares a compiler-synthesized local (e.g. to hold a
// computed array before indexing it). It is listed among the function's
// locals, so it counts toward the method's locals length, but the
// unused/unassigned scans skip it.
func (s *State) AddGeneratedLocal(typ types.Type) *Variable {
	root := s.top.funcRoot()
	index := root.nextLocal
	name := generatedName(index)
	v := &Variable{Ident: name, Kind: KindLocal, Type: typ, IsMutable: true, IsGenerated: true, Index: index}
	s.top.vars[name] = v
	root.nextLocal += typ.FlattenLength()
	s.currentFuncLocals = append(s.currentFuncLocals, v)
	return v
}

func generatedName(index int) string {
	return "$gen" + itoa(index)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// AddFieldVariable declares a storage field at the unit scope.
func (s *State) AddFieldVariable(ident string, typ types.Type, mutable bool, pos errors.Position) (*Variable, error) {
	index := s.nextFieldIndex()
	return s.addVariable(s.unit, ident, KindField, typ, mutable, false, false, index, pos)
}

func (s *State) nextFieldIndex() int {
	max := 0
	for _, v := range s.unit.vars {
		if v.Kind == KindField {
			if end := v.Index + v.Type.FlattenLength(); end > max {
				max = end
			}
		}
	}
	return max
}

// AddTemplateVariable declares a template (constructor) variable at the
// unit scope.
func (s *State) AddTemplateVariable(ident string, typ types.Type, index int, pos errors.Position) (*Variable, error) {
	return s.addVariable(s.unit, ident, KindTemplate, typ, false, false, false, index, pos)
}

// AddConstantVariable declares a named compile-time constant at the unit
// scope. Constants occupy no runtime storage slot — the emitter inlines
// ConstVal directly wherever the constant is referenced — so no slot
// index is assigned.
func (s *State) AddConstantVariable(ident string, val types.Val, pos errors.Position) (*Variable, error) {
	v, err := s.addVariable(s.unit, ident, KindConstant, types.FromVal(val), false, false, false, 0, pos)
	if err != nil {
		return nil, err
	}
	v.ConstVal = val
	return v, nil
}
