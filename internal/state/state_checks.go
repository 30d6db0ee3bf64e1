package state

import (
	"ralphc/internal/ast"
	"ralphc/internal/errors"
	"ralphc/internal/types"
)

// CheckArguments declares each function argument as a local variable in
// the (already pushed) function scope, in order, so their slots precede
// any locals the body declares.
func (s *State) CheckArguments(args []ast.Argument, pos errors.Position) error {
	for _, a := range args {
		if _, err := s.AddLocalVariable(a.Ident, a.Type, a.IsMutable, a.IsUnused, pos); err != nil {
			return err
		}
	}
	return nil
}

// CheckReturn validates that got matches the current function's declared
// return types.
func (s *State) CheckReturn(got types.Seq, pos errors.Position) error {
	want := types.Seq(s.currentFuncReturns)
	if !want.Equal(got) {
		return errors.ReturnTypeMismatch(want.Signatures(), got.Signatures(), pos)
	}
	return nil
}

// CheckUnusedLocalVars emits one UnusedLocalVariable warning per
// undeclared-unused, never-read local in locals (the current function's,
// scanned before PopFunctionScope discards them).
func (s *State) CheckUnusedLocalVars(locals []*Variable) {
	if s.opts.IgnoreUnusedVariablesWarnings {
		return
	}
	for _, v := range locals {
		if v.IsGenerated || v.IsUnused {
			continue
		}
		if !v.used {
			s.addWarning(errors.UnusedLocalVariable(v.Ident, v.Pos))
		}
	}
}

// CheckUnassignedLocalMutableVars emits one UnassignedMutableLocal warning
// per local declared mutable that was never written (SPEC_FULL.md
// supplement).
func (s *State) CheckUnassignedLocalMutableVars(locals []*Variable) {
	for _, v := range locals {
		if v.IsGenerated || !v.IsMutable {
			continue
		}
		if !v.assigned {
			s.addWarning(errors.UnassignedMutableLocal(v.Ident, v.Pos))
		}
	}
}

// CurrentFuncLocals exposes the locals declared in the function body most
// recently walked, for the checker to run the unused/unassigned scans
// against (and codegen to size the method's locals) right before
// PopFunctionScope discards them.
func (s *State) CurrentFuncLocals() []*Variable { return s.currentFuncLocals }

// CheckFieldUpdatePermission warns when v, a storage field, is written from
// inside a function that did not declare useUpdateFields = true.
func (s *State) CheckFieldUpdatePermission(v *Variable, pos errors.Position) {
	if s.opts.IgnoreUpdateFieldsCheckWarnings {
		return
	}
	if v.Kind == KindField && !s.currentFuncUpdateField {
		s.addWarning(errors.MissingUpdateFieldsWarning(s.currentFuncId, pos))
	}
}

// CheckUnusedFields emits one UnusedField warning per storage field never
// read across every function of the unit (SPEC_FULL.md supplement; run
// once per unit, after every function has been checked).
func (s *State) CheckUnusedFields() {
	if s.opts.IgnoreUnusedFieldsWarnings {
		return
	}
	for _, v := range s.unit.allVars() {
		if v.Kind != KindField {
			continue
		}
		if !v.used {
			s.addWarning(errors.UnusedField(v.Ident, v.Pos))
		}
	}
}

// CheckUnassignedMutableFields emits one UnassignedMutableField warning
// per mutable field never written across the unit (SPEC_FULL.md
// supplement).
func (s *State) CheckUnassignedMutableFields() {
	for _, v := range s.unit.allVars() {
		if v.Kind != KindField || !v.IsMutable {
			continue
		}
		if !v.assigned {
			s.addWarning(errors.UnassignedMutableField(v.Ident, v.Pos))
		}
	}
}

// CheckUnusedConstants emits one UnusedConstant warning per unit-level
// constant never read (SPEC_FULL.md supplement).
func (s *State) CheckUnusedConstants() {
	if s.opts.IgnoreUnusedConstantsWarnings {
		return
	}
	for _, v := range s.unit.allVars() {
		if v.Kind != KindConstant {
			continue
		}
		if !v.used {
			s.addWarning(errors.UnusedConstant(v.Ident, v.Pos))
		}
	}
}
