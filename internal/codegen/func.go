package codegen

import (
	"ralphc/internal/ast"
	"ralphc/internal/state"
	"ralphc/internal/vm"
)

// EmitFunctionBody assembles the vm.Method for one concrete function body:
// it pushes a fresh function scope (re-declaring arguments in the same
// order the Check phase used, so slot indices line up identically),
// emits every statement, and reports the locals/args/return slot counts
// a Method carries.
func EmitFunctionBody(fn *ast.FunctionDef, st *state.State) (*vm.Method, error) {
	st.PushFunctionScope(fn.Id, fn.ReturnTypes)
	defer st.PopFunctionScope()

	if err := st.CheckArguments(fn.Args, pos(fn.Pos)); err != nil {
		return nil, err
	}

	var body []vm.Instr
	for _, stmt := range fn.Body {
		var err error
		body, err = EmitStmt(stmt, st, body)
		if err != nil {
			return nil, err
		}
	}

	argsLength := 0
	for _, a := range fn.Args {
		argsLength += a.Type.FlattenLength()
	}
	returnLength := 0
	for _, t := range fn.ReturnTypes {
		returnLength += t.FlattenLength()
	}

	return &vm.Method{
		IsPublic:             fn.IsPublic,
		UsePreapprovedAssets: fn.UsePreapprovedAssets,
		UseAssetsInContract:  fn.UseAssetsInContract,
		ArgsLength:           argsLength,
		LocalsLength:         localsLength(st),
		ReturnLength:         returnLength,
		Instrs:               body,
	}, nil
}

// localsLength reports the number of local slots declared anywhere in the
// function body just walked.
func localsLength(st *state.State) int {
	total := 0
	for _, v := range st.CurrentFuncLocals() {
		total += v.Type.FlattenLength()
	}
	return total
}
