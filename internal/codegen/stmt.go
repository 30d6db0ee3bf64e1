package codegen

import (
	"ralphc/internal/ast"
	"ralphc/internal/errors"
	"ralphc/internal/state"
	"ralphc/internal/types"
	"ralphc/internal/vm"
)

// emitStmts emits a statement list inside its own nested scope, mirroring
// internal/checker.CheckStmts' scope nesting so that every name resolves
// in CodeGen as it did in the Check phase. Slot indices are allocated
// afresh here: emitBranches declares branch bodies last-to-first and
// generated locals exist only in CodeGen, so a local's slot can differ
// from the one it had during the Check phase.
func emitStmts(stmts []ast.Stmt, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	st.PushBlockScope()
	defer st.PopBlockScope()
	for _, stmt := range stmts {
		var err error
		out, err = EmitStmt(stmt, st, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EmitStmt emits one statement, dispatching by node variant.
func EmitStmt(stmt ast.Stmt, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	switch n := stmt.(type) {
	case *ast.VarDef:
		return emitVarDef(n, st, out)
	case *ast.Assign:
		return emitAssign(n, st, out)
	case *ast.ExprStmt:
		return emitExprStmt(n, st, out)
	case *ast.IfElseStmt:
		return emitIfElseStmt(n, st, out)
	case *ast.WhileStmt:
		return emitWhileStmt(n, st, out)
	case *ast.ForLoopStmt:
		return emitForLoopStmt(n, st, out)
	case *ast.ReturnStmt:
		return emitReturnStmt(n, st, out)
	case *ast.EmitEventStmt:
		return emitEmitEventStmt(n, st, out)
	case *ast.DebugStmt:
		return emitDebugStmt(n, st, out)
	default:
		return nil, errors.New(errors.KindType, errors.CodeOperatorTypeMismatch, "unhandled statement node in codegen", errors.Position{})
	}
}

func emitVarDef(n *ast.VarDef, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	rhsType, err := TypeOfCachedSeq(n.Rhs)
	if err != nil {
		return nil, err
	}
	out, err = Emit(n.Rhs, st, out)
	if err != nil {
		return nil, err
	}
	p := pos(n.Pos())
	// Named slots are stored right-to-left: the rightmost declared value
	// sits on top of the VM stack, matching the order StoreLocal pops in.
	for i := len(n.Decls) - 1; i >= 0; i-- {
		decl := n.Decls[i]
		if !decl.Named {
			for j := 0; j < rhsType[i].FlattenLength(); j++ {
				out = append(out, vm.Instr{Op: vm.Pop})
			}
			continue
		}
		v, err := st.AddLocalVariable(decl.Ident, rhsType[i], decl.IsMutable, false, p)
		if err != nil {
			return nil, err
		}
		out = append(out, st.GenStoreCode(v)...)
	}
	return out, nil
}

func emitAssign(n *ast.Assign, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	var err error
	out, err = Emit(n.Rhs, st, out)
	if err != nil {
		return nil, err
	}
	p := pos(n.Pos())
	for i := len(n.Targets) - 1; i >= 0; i-- {
		switch t := n.Targets[i].(type) {
		case *ast.Variable:
			v, err := st.GetVariable(t.Ident, true, p)
			if err != nil {
				return nil, err
			}
			out = append(out, st.GenStoreCode(v)...)
		case *ast.ArrayElement:
			out, err = emitArrayStore(t, st, out)
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func emitArrayStore(t *ast.ArrayElement, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	ident, ok := t.Array.(*ast.Variable)
	if !ok {
		return nil, errors.New(errors.KindType, errors.CodeArrayIndexOutOfRange, "array store target must be a named array", pos(t.Pos()))
	}
	v, err := st.GetVariable(ident.Ident, true, pos(t.Pos()))
	if err != nil {
		return nil, err
	}
	offset, elemLen, err := constantOffset(v.Type, t.Indexes)
	if err != nil {
		return nil, err
	}
	for i := elemLen - 1; i >= 0; i-- {
		op := vm.StoreLocal
		if v.Kind == state.KindField {
			op = vm.StoreField
		}
		out = append(out, vm.Instr{Op: op, Int: v.Index + offset + i})
	}
	return out, nil
}

func emitExprStmt(n *ast.ExprStmt, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	out, err := Emit(n.Expr, st, out)
	if err != nil {
		return nil, err
	}
	seq, err := TypeOfCachedSeq(n.Expr)
	if err != nil {
		return nil, err
	}
	for i := 0; i < seq.FlattenLength(); i++ {
		out = append(out, vm.Instr{Op: vm.Pop})
	}
	return out, nil
}

func emitReturnStmt(n *ast.ReturnStmt, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	for _, e := range n.Exprs {
		var err error
		out, err = Emit(e, st, out)
		if err != nil {
			return nil, err
		}
	}
	return append(out, vm.Instr{Op: vm.Return}), nil
}

func emitEmitEventStmt(n *ast.EmitEventStmt, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	idx, ok := st.EventIndex(n.EventId)
	if !ok {
		return nil, errors.UndefinedIdentifier(n.EventId, pos(n.Pos()))
	}
	out = append(out, vm.Instr{Op: vm.ConstU256, Val: itoaVal(idx)})
	for _, a := range n.Args {
		var err error
		out, err = Emit(a, st, out)
		if err != nil {
			return nil, err
		}
	}
	return append(out, vm.Instr{Op: vm.LogN, Int: len(n.Args)}), nil
}

func emitDebugStmt(n *ast.DebugStmt, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	if !st.AllowDebug {
		return out, nil
	}
	for _, e := range n.Interpolations {
		var err error
		out, err = Emit(e, st, out)
		if err != nil {
			return nil, err
		}
	}
	parts := ""
	for i, p := range n.Parts {
		if i > 0 {
			parts += "\x00"
		}
		parts += p
	}
	return append(out, vm.Instr{Op: vm.Debug, Str: parts, Int: len(n.Interpolations)}), nil
}

// TypeOfCachedSeq reads the full Seq an earlier checker pass memoized on
// expr.
func TypeOfCachedSeq(expr ast.Expr) (types.Seq, error) {
	s, ok := expr.CachedType()
	if !ok {
		return nil, errors.New(errors.KindType, errors.CodeOperatorTypeMismatch, "codegen: missing memoized type", pos(expr.Pos()))
	}
	return s, nil
}

func itoaVal(n int) string {
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
