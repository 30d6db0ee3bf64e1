package checker

import (
	"ralphc/internal/ast"
	"ralphc/internal/builtins"
	"ralphc/internal/errors"
	"ralphc/internal/state"
)

// CheckFunctionBody type-checks one concrete function's body: it pushes the
// function scope, declares its arguments, walks every statement, verifies
// exhaustive return coverage when the function declares return values, and
// runs the unused/unassigned-local scans before popping the scope.
func CheckFunctionBody(fn *ast.FunctionDef, st *state.State) error {
	st.PushFunctionScope(fn.Id, fn.ReturnTypes)
	defer st.PopFunctionScope()
	st.SetCurrentFuncUpdateFields(fn.UseUpdateFields)

	if err := st.CheckArguments(fn.Args, pos(fn.Pos)); err != nil {
		return err
	}

	for _, stmt := range fn.Body {
		if err := CheckStmt(stmt, st); err != nil {
			return err
		}
	}

	if len(fn.ReturnTypes) > 0 && !terminates(fn.Body) {
		return errors.MissingReturn(fn.Id, pos(fn.Pos))
	}

	locals := st.CurrentFuncLocals()
	st.CheckUnusedLocalVars(locals)
	st.CheckUnassignedLocalMutableVars(locals)
	return nil
}

// terminates reports whether stmts is guaranteed to return or panic on
// every control-flow path — the condition required before a function
// with declared return types may omit a trailing explicit return on some
// paths (e.g. an exhaustive if/else where each branch returns).
func terminates(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	last := stmts[len(stmts)-1]
	return stmtTerminates(last)
}

func stmtTerminates(stmt ast.Stmt) bool {
	switch n := stmt.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.ExprStmt:
		if call, ok := n.Expr.(*ast.CallExpr); ok {
			return isPanicCall(call.FuncId)
		}
		return false
	case *ast.IfElseStmt:
		if n.Else == nil {
			return false
		}
		for _, br := range n.Branches {
			if !terminates(br.Body) {
				return false
			}
		}
		return terminates(n.Else)
	case *ast.WhileStmt:
		return isAlwaysTrue(n.Cond)
	default:
		return false
	}
}

func isPanicCall(funcId string) bool {
	def, ok := builtins.Lookup(funcId)
	return ok && def.IsPanic
}

func isAlwaysTrue(e ast.Expr) bool {
	c, ok := e.(*ast.Const)
	if !ok {
		return false
	}
	return c.Value.Bool()
}
