package checker

import (
	"ralphc/internal/ast"
	"ralphc/internal/errors"
	"ralphc/internal/state"
	"ralphc/internal/types"
)

// CheckStmts type-checks a statement list in its own nested block scope,
// used for if/while/for bodies.
func CheckStmts(stmts []ast.Stmt, st *state.State) error {
	st.PushBlockScope()
	defer st.PopBlockScope()
	for _, stmt := range stmts {
		if err := CheckStmt(stmt, st); err != nil {
			return err
		}
	}
	return nil
}

// CheckStmt type-checks one statement, dispatching by node variant.
func CheckStmt(stmt ast.Stmt, st *state.State) error {
	switch n := stmt.(type) {
	case *ast.VarDef:
		return checkVarDef(n, st)
	case *ast.Assign:
		return checkAssign(n, st)
	case *ast.ExprStmt:
		return checkExprStmt(n, st)
	case *ast.IfElseStmt:
		return checkIfElseStmt(n, st)
	case *ast.WhileStmt:
		return checkWhileStmt(n, st)
	case *ast.ForLoopStmt:
		return checkForLoopStmt(n, st)
	case *ast.ReturnStmt:
		return checkReturnStmt(n, st)
	case *ast.EmitEventStmt:
		return checkEmitEventStmt(n, st)
	case *ast.DebugStmt:
		return checkDebugStmt(n, st)
	default:
		return errors.New(errors.KindType, errors.CodeOperatorTypeMismatch, "unhandled statement node", errors.Position{})
	}
}

func checkVarDef(n *ast.VarDef, st *state.State) error {
	p := pos(n.Pos())
	seq, err := TypeOf(n.Rhs, st)
	if err != nil {
		return err
	}
	if len(seq) != len(n.Decls) {
		return errors.AssignTypeMismatch(nil, seq.Signatures(), p)
	}
	for i, decl := range n.Decls {
		if !decl.Named {
			continue
		}
		if _, err := st.AddLocalVariable(decl.Ident, seq[i], decl.IsMutable, false, p); err != nil {
			return err
		}
	}
	return nil
}

func checkAssign(n *ast.Assign, st *state.State) error {
	p := pos(n.Pos())
	rhsSeq, err := TypeOf(n.Rhs, st)
	if err != nil {
		return err
	}
	if len(rhsSeq) != len(n.Targets) {
		return errors.AssignTypeMismatch(nil, rhsSeq.Signatures(), p)
	}
	for i, target := range n.Targets {
		targetType, err := checkAssignTarget(target, st)
		if err != nil {
			return err
		}
		if !targetType.Equal(rhsSeq[i]) {
			return errors.AssignTypeMismatch([]string{targetType.Signature()}, []string{rhsSeq[i].Signature()}, p)
		}
	}
	return nil
}

func checkAssignTarget(target ast.Expr, st *state.State) (types.Type, error) {
	p := pos(target.Pos())
	switch t := target.(type) {
	case *ast.Variable:
		v, err := st.GetVariable(t.Ident, true, p)
		if err != nil {
			return nil, err
		}
		st.CheckFieldUpdatePermission(v, p)
		return v.Type, nil
	case *ast.ArrayElement:
		seq, err := TypeOf(t, st)
		if err != nil {
			return nil, err
		}
		if vRef, ok := t.Array.(*ast.Variable); ok {
			v, err := st.GetVariable(vRef.Ident, true, p)
			if err != nil {
				return nil, err
			}
			st.CheckFieldUpdatePermission(v, p)
		}
		return seq[0], nil
	default:
		return nil, errors.OperatorTypeMismatch("=", nil, p)
	}
}

func checkExprStmt(n *ast.ExprStmt, st *state.State) error {
	switch n.Expr.(type) {
	case *ast.CallExpr, *ast.ContractStaticCallExpr, *ast.ContractCallExpr:
	default:
		return errors.OperatorTypeMismatch("expression statement", nil, pos(n.Pos()))
	}
	_, err := TypeOf(n.Expr, st)
	return err
}

func checkIfElseStmt(n *ast.IfElseStmt, st *state.State) error {
	for _, br := range n.Branches {
		condSeq, err := TypeOf(br.Cond, st)
		if err != nil {
			return err
		}
		if len(condSeq) != 1 || !condSeq[0].Equal(types.Bool{}) {
			return errors.ConditionNotBool(condSeq.Signatures()[0], pos(br.Cond.Pos()))
		}
		if err := CheckStmts(br.Body, st); err != nil {
			return err
		}
	}
	if n.Else != nil {
		if err := CheckStmts(n.Else, st); err != nil {
			return err
		}
	}
	return nil
}

func checkWhileStmt(n *ast.WhileStmt, st *state.State) error {
	condSeq, err := TypeOf(n.Cond, st)
	if err != nil {
		return err
	}
	if len(condSeq) != 1 || !condSeq[0].Equal(types.Bool{}) {
		return errors.ConditionNotBool(condSeq.Signatures()[0], pos(n.Cond.Pos()))
	}
	return CheckStmts(n.Body, st)
}

func checkForLoopStmt(n *ast.ForLoopStmt, st *state.State) error {
	st.PushBlockScope()
	defer st.PopBlockScope()

	if n.Init != nil {
		if err := CheckStmt(n.Init, st); err != nil {
			return err
		}
	}
	condSeq, err := TypeOf(n.Cond, st)
	if err != nil {
		return err
	}
	if len(condSeq) != 1 || !condSeq[0].Equal(types.Bool{}) {
		return errors.ConditionNotBool(condSeq.Signatures()[0], pos(n.Cond.Pos()))
	}
	if err := CheckStmts(n.Body, st); err != nil {
		return err
	}
	if n.Update != nil {
		if err := CheckStmt(n.Update, st); err != nil {
			return err
		}
	}
	return nil
}

func checkReturnStmt(n *ast.ReturnStmt, st *state.State) error {
	var seq types.Seq
	for _, e := range n.Exprs {
		s, err := TypeOf(e, st)
		if err != nil {
			return err
		}
		seq = append(seq, s...)
	}
	return st.CheckReturn(seq, pos(n.Pos()))
}

func checkEmitEventStmt(n *ast.EmitEventStmt, st *state.State) error {
	p := pos(n.Pos())
	want, ok := st.EventFieldTypes(n.EventId)
	if !ok {
		return errors.UndefinedIdentifier(n.EventId, p)
	}
	if len(want) != len(n.Args) {
		wantFields := make([]ast.FieldDef, len(want))
		for i, t := range want {
			wantFields[i] = ast.FieldDef{Type: t}
		}
		sig := ast.EventSignature(&ast.EventDef{Id: n.EventId, Fields: wantFields})
		return errors.AssignTypeMismatch([]string{sig}, nil, p)
	}
	for i, arg := range n.Args {
		seq, err := TypeOf(arg, st)
		if err != nil {
			return err
		}
		if len(seq) != 1 || !seq[0].Equal(want[i]) {
			return errors.AssignTypeMismatch([]string{want[i].Signature()}, seq.Signatures(), p)
		}
	}
	return nil
}

func checkDebugStmt(n *ast.DebugStmt, st *state.State) error {
	for _, e := range n.Interpolations {
		if _, err := TypeOf(e, st); err != nil {
			return err
		}
	}
	return nil
}
