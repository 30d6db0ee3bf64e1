package orchestrator

import (
	"ralphc/internal/ast"
	"ralphc/internal/checker"
	"ralphc/internal/codegen"
	"ralphc/internal/errors"
	"ralphc/internal/state"
	"ralphc/internal/types"
	"ralphc/internal/vm"
)

// CompiledUnit is one unit's finished output: its merged definitions, the
// accumulated warnings, and the emitted method table(s). Contracts that
// contain a Debug statement get two method tables — one with Debug
// instructions present, one without — built by running the emitter twice
// with state.AllowDebug flipped; units with no Debug statement anywhere
// share one table for both.
type CompiledUnit struct {
	Defs *MergedDefs

	Methods      map[string]*vm.Method
	DebugMethods map[string]*vm.Method

	Warnings []*errors.CompilerError
}

// newStateForUnit builds a fresh state.State seeded with every other
// known unit's public surface (for static/dynamic external calls), the
// merged definitions' own functions (for internal calls), fields,
// template vars, constants and enum members.
func newStateForUnit(p *Project, md *MergedDefs, opts state.Options, allowDebug bool) (*state.State, error) {
	st := state.New(opts)
	st.AllowDebug = allowDebug
	st.CurrentTypeId = md.TypeId

	for _, u := range p.units {
		info, err := contractInfoOf(p, u.TypeId())
		if err != nil {
			return nil, err
		}
		st.RegisterContract(info)
	}

	for _, id := range md.FuncOrder {
		fn := md.Functions[id]
		st.RegisterFunction(&state.FunctionInfo{
			FuncId:               fn.Id,
			IsPublic:             fn.IsPublic,
			IsStatic:             fn.IsStatic,
			Args:                 argTypes(fn.Args),
			Returns:              fn.ReturnTypes,
			UsePreapprovedAssets: fn.UsePreapprovedAssets,
			Variadic:             fn.Variadic,
		})
	}

	for _, f := range md.Fields {
		if _, err := st.AddFieldVariable(f.Ident, f.Type, f.IsMutable, errors.Position{}); err != nil {
			return nil, err
		}
	}
	for i, tv := range md.TemplateVars {
		if _, err := st.AddTemplateVariable(tv.Ident, tv.Type, i, errors.Position{}); err != nil {
			return nil, err
		}
	}
	for _, c := range md.Constants {
		if _, err := st.AddConstantVariable(c.Id, c.Value, convPos(c.Pos)); err != nil {
			return nil, err
		}
	}
	for _, e := range md.Enums {
		for _, m := range e.Members {
			st.RegisterEnumMember(e.Id, m.Name, m.Value)
		}
	}
	for _, e := range md.Events {
		st.RegisterEvent(e.Id, fieldTypesOf(e.Fields))
	}

	return st, nil
}

func argTypes(args []ast.Argument) []types.Type {
	out := make([]types.Type, len(args))
	for i, a := range args {
		out[i] = a.Type
	}
	return out
}

func fieldTypesOf(fields []ast.FieldDef) []types.Type {
	out := make([]types.Type, len(fields))
	for i, f := range fields {
		out[i] = f.Type
	}
	return out
}

// contractInfoOf extracts the public call surface of typeId for other
// units' static/dynamic call resolution.
func contractInfoOf(p *Project, typeId string) (*state.ContractInfo, error) {
	md, err := ExtractDefs(p, typeId)
	if err != nil {
		return nil, err
	}
	_, isInterface := md.Unit.(*ast.Interface)
	info := &state.ContractInfo{TypeId: typeId, IsInterface: isInterface, Functions: make(map[string]*state.FunctionInfo)}
	for _, id := range md.FuncOrder {
		fn := md.Functions[id]
		info.Functions[id] = &state.FunctionInfo{
			TypeId:               typeId,
			FuncId:               fn.Id,
			IsPublic:             fn.IsPublic,
			IsStatic:             fn.IsStatic,
			Args:                 argTypes(fn.Args),
			Returns:              fn.ReturnTypes,
			UsePreapprovedAssets: fn.UsePreapprovedAssets,
			Variadic:             fn.Variadic,
		}
	}
	return info, nil
}

// checkAndEmitFunctions runs the full check-then-emit pipeline for every
// concrete function in md against one fresh state, returning the emitted
// method table and that state's accumulated warnings.
func checkAndEmitFunctions(p *Project, md *MergedDefs, opts state.Options, allowDebug bool) (map[string]*vm.Method, []*errors.CompilerError, error) {
	st, err := newStateForUnit(p, md, opts, allowDebug)
	if err != nil {
		return nil, nil, err
	}

	methods := make(map[string]*vm.Method)
	for _, id := range md.FuncOrder {
		fn := md.Functions[id]
		if fn.IsAbstract() {
			continue
		}
		if err := checker.CheckFunctionBody(fn, st); err != nil {
			return nil, nil, err
		}
	}
	if _, ok := md.Unit.(*ast.Contract); ok {
		st.CheckUnusedFields()
		st.CheckUnassignedMutableFields()
	}
	st.CheckUnusedConstants()

	for _, id := range md.FuncOrder {
		fn := md.Functions[id]
		if fn.IsAbstract() {
			continue
		}
		m, err := codegen.EmitFunctionBody(fn, st)
		if err != nil {
			return nil, nil, err
		}
		methods[id] = m
	}

	warnings := st.Warnings()
	warnings = append(warnings, unusedPrivateFunctionWarnings(md, st, opts)...)
	warnings = append(warnings, checkExternalCallerWarnings(md, st, opts)...)

	return methods, warnings, nil
}

func containsDebugInstr(methods map[string]*vm.Method) bool {
	for _, m := range methods {
		for _, instr := range m.Instrs {
			if instr.Op == vm.Debug {
				return true
			}
		}
	}
	return false
}

// CompileUnit runs the full pipeline for one unit: extract its merged
// definitions, check and emit every concrete function, and — for
// contracts only — build a second, Debug-stripped method table whenever
// the first contains any Debug instruction.
func CompileUnit(p *Project, typeId string, opts state.Options) (*CompiledUnit, error) {
	md, err := ExtractDefs(p, typeId)
	if err != nil {
		return nil, err
	}

	if _, ok := md.Unit.(*ast.TxScript); ok {
		if err := validateTxScriptMethods(md); err != nil {
			return nil, err
		}
	}

	debugMethods, warnings, err := checkAndEmitFunctions(p, md, opts, true)
	if err != nil {
		return nil, err
	}

	out := &CompiledUnit{Defs: md, DebugMethods: debugMethods, Warnings: warnings}

	if _, ok := md.Unit.(*ast.Contract); !ok {
		out.Methods = debugMethods
		return out, nil
	}

	if !containsDebugInstr(debugMethods) {
		out.Methods = debugMethods
		return out, nil
	}

	releaseMethods, _, err := checkAndEmitFunctions(p, md, opts, false)
	if err != nil {
		return nil, err
	}
	out.Methods = releaseMethods
	return out, nil
}

// validateTxScriptMethods enforces a TxScript's method shape: the first
// declared method is the public entry point, every other method is
// private (errors.InvalidTxScriptMethods otherwise).
func validateTxScriptMethods(md *MergedDefs) error {
	if len(md.FuncOrder) == 0 {
		return errors.InvalidTxScriptMethods(convPos(md.Unit.Pos()))
	}
	first := md.Functions[md.FuncOrder[0]]
	if !first.IsPublic {
		return errors.InvalidTxScriptMethods(convPos(md.Unit.Pos()))
	}
	for _, id := range md.FuncOrder[1:] {
		if md.Functions[id].IsPublic {
			return errors.InvalidTxScriptMethods(convPos(md.Unit.Pos()))
		}
	}
	return nil
}
