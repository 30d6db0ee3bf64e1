package codegen

import (
	"ralphc/internal/ast"
	"ralphc/internal/errors"
	"ralphc/internal/state"
	"ralphc/internal/vm"
)

const maxBranchOffset = 255

// emitCondition emits the test for one if/while branch and returns the
// instructions plus which conditional-jump opcode to use against
// offset: IfFalse for a plain condition (jump to the tail when the
// condition is false), or IfTrue when cond is itself `!x` — in which case
// emitting x directly and jumping on true is equivalent and saves a
// BinaryOp negation instruction.
func emitCondition(cond ast.Expr, st *state.State) ([]vm.Instr, vm.Op, error) {
	if neg, ok := cond.(*ast.UnaryOp); ok && neg.Op == "!" {
		code, err := Emit(neg.E, st, nil)
		if err != nil {
			return nil, 0, err
		}
		return code, vm.IfTrue, nil
	}
	code, err := Emit(cond, st, nil)
	if err != nil {
		return nil, 0, err
	}
	return code, vm.IfFalse, nil
}

// emitBranches lays out an if/else chain (statement or expression form)
// last-to-first: the tail (else branch, already fully assembled) is built
// first so every jump offset earlier branches need is already known,
// rather than emitting forward and back-patching offsets.
func emitBranches(conds []ast.Expr, bodies []func([]vm.Instr) ([]vm.Instr, error), elseFn func([]vm.Instr) ([]vm.Instr, error), st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	tail, err := elseFn(nil)
	if err != nil {
		return nil, err
	}

	for i := len(conds) - 1; i >= 0; i-- {
		bodyCode, err := bodies[i](nil)
		if err != nil {
			return nil, err
		}

		jumpOverTail := len(tail)
		if jumpOverTail > maxBranchOffset {
			return nil, errors.BranchTooLong(jumpOverTail, pos(conds[i].Pos()))
		}

		condCode, branchOp, err := emitCondition(conds[i], st)
		if err != nil {
			return nil, err
		}

		skipBody := len(bodyCode) + 1 // +1 for the trailing Jump
		if skipBody > maxBranchOffset {
			return nil, errors.BranchTooLong(skipBody, pos(conds[i].Pos()))
		}

		next := make([]vm.Instr, 0, len(condCode)+1+len(bodyCode)+1+len(tail))
		next = append(next, condCode...)
		next = append(next, vm.Instr{Op: branchOp, Int: skipBody})
		next = append(next, bodyCode...)
		next = append(next, vm.Instr{Op: vm.Jump, Int: jumpOverTail})
		next = append(next, tail...)
		tail = next
	}

	return append(out, tail...), nil
}

// emitIfElseStmt lays out the statement form of if/else via emitBranches,
// with an empty else body when none is declared.
func emitIfElseStmt(n *ast.IfElseStmt, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	conds := make([]ast.Expr, len(n.Branches))
	bodies := make([]func([]vm.Instr) ([]vm.Instr, error), len(n.Branches))
	for i, br := range n.Branches {
		body := br.Body
		bodies[i] = func(acc []vm.Instr) ([]vm.Instr, error) { return emitStmts(body, st, acc) }
		conds[i] = br.Cond
	}
	elseBody := n.Else
	elseFn := func(acc []vm.Instr) ([]vm.Instr, error) { return emitStmts(elseBody, st, acc) }
	return emitBranches(conds, bodies, elseFn, st, out)
}

// emitWhileStmt lays out a while loop: test, IfFalse past the body and the
// backward jump, body, a backward Jump to re-test. The backward jump's
// magnitude is also bounded by maxBranchOffset.
func emitWhileStmt(n *ast.WhileStmt, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	condCode, branchOp, err := emitCondition(n.Cond, st)
	if err != nil {
		return nil, err
	}
	bodyCode, err := emitStmts(n.Body, st, nil)
	if err != nil {
		return nil, err
	}

	backJump := len(condCode) + 1 + len(bodyCode)
	if backJump > maxBranchOffset {
		return nil, errors.BranchTooLong(backJump, pos(n.Pos()))
	}
	skipBody := len(bodyCode) + 1
	if skipBody > maxBranchOffset {
		return nil, errors.BranchTooLong(skipBody, pos(n.Pos()))
	}

	out = append(out, condCode...)
	out = append(out, vm.Instr{Op: branchOp, Int: skipBody})
	out = append(out, bodyCode...)
	out = append(out, vm.Instr{Op: vm.Jump, Int: -backJump})
	return out, nil
}

// emitForLoopStmt desugars to init; while(cond) { body; update; },
// reusing emitWhileStmt's layout for the loop body itself.
func emitForLoopStmt(n *ast.ForLoopStmt, st *state.State, out []vm.Instr) ([]vm.Instr, error) {
	st.PushBlockScope()
	defer st.PopBlockScope()

	var err error
	if n.Init != nil {
		out, err = EmitStmt(n.Init, st, out)
		if err != nil {
			return nil, err
		}
	}
	body := append([]ast.Stmt{}, n.Body...)
	if n.Update != nil {
		body = append(body, n.Update)
	}
	return emitWhileStmt(&ast.WhileStmt{Cond: n.Cond, Body: body}, st, out)
}
