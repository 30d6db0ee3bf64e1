package orchestrator

import (
	"testing"

	"ralphc/internal/ast"
	"ralphc/internal/errors"
	"ralphc/internal/state"
	"ralphc/internal/vm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicFn(id string) *ast.FunctionDef {
	return &ast.FunctionDef{Id: id, IsPublic: true, Body: []ast.Stmt{&ast.ReturnStmt{}}}
}

func privateFn(id string) *ast.FunctionDef {
	return &ast.FunctionDef{Id: id, IsPublic: false, Body: []ast.Stmt{&ast.ReturnStmt{}}}
}

func TestCompileUnitTxScriptValidEntryPoint(t *testing.T) {
	script := &ast.TxScript{}
	setUnit(script, "Main", nil)
	script.Functions = []*ast.FunctionDef{publicFn("main"), privateFn("helper")}

	p, err := NewProject([]ast.Unit{script})
	require.NoError(t, err)

	cu, err := CompileUnit(p, "Main", state.Options{})
	require.NoError(t, err)
	assert.Len(t, cu.Methods, 2)
}

func TestCompileUnitTxScriptRejectsPrivateEntryPoint(t *testing.T) {
	script := &ast.TxScript{}
	setUnit(script, "Main", nil)
	script.Functions = []*ast.FunctionDef{privateFn("main")}

	p, err := NewProject([]ast.Unit{script})
	require.NoError(t, err)

	_, err = CompileUnit(p, "Main", state.Options{})
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeInvalidTxScriptMethods, ce.Code)
}

func TestCompileUnitTxScriptRejectsSecondPublicMethod(t *testing.T) {
	script := &ast.TxScript{}
	setUnit(script, "Main", nil)
	script.Functions = []*ast.FunctionDef{publicFn("main"), publicFn("other")}

	p, err := NewProject([]ast.Unit{script})
	require.NoError(t, err)

	_, err = CompileUnit(p, "Main", state.Options{})
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeInvalidTxScriptMethods, ce.Code)
}

func TestCompileUnitContractStripsDebugInReleaseTable(t *testing.T) {
	c := &ast.Contract{}
	setUnit(c, "Logger", nil)
	c.Functions = []*ast.FunctionDef{
		{Id: "run", IsPublic: true, Body: []ast.Stmt{&ast.DebugStmt{}, &ast.ReturnStmt{}}},
	}

	p, err := NewProject([]ast.Unit{c})
	require.NoError(t, err)

	cu, err := CompileUnit(p, "Logger", state.Options{})
	require.NoError(t, err)

	require.True(t, containsDebugInstr(cu.DebugMethods))
	assert.False(t, containsDebugInstr(cu.Methods))
}

func TestCompileUnitContractWithoutDebugSharesOneTable(t *testing.T) {
	c := &ast.Contract{}
	setUnit(c, "Plain", nil)
	c.Functions = []*ast.FunctionDef{publicFn("run")}

	p, err := NewProject([]ast.Unit{c})
	require.NoError(t, err)

	cu, err := CompileUnit(p, "Plain", state.Options{})
	require.NoError(t, err)
	assert.Same(t, cu.Methods["run"], cu.DebugMethods["run"])
}

func TestContainsDebugInstrDetectsOpcode(t *testing.T) {
	methods := map[string]*vm.Method{
		"f": {Instrs: []vm.Instr{{Op: vm.Debug}}},
	}
	assert.True(t, containsDebugInstr(methods))

	methods2 := map[string]*vm.Method{
		"f": {Instrs: []vm.Instr{{Op: vm.Return}}},
	}
	assert.False(t, containsDebugInstr(methods2))
}
