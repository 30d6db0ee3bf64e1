// Package ralphc is the public entry point: it ties internal/orchestrator
// together into the two output shapes a caller gets back, one per
// compiled contract and one per compiled script, split between a
// single-unit convenience path (Compile) and a whole-project build
// (CompileProject).
package ralphc

import (
	"ralphc/internal/ast"
	"ralphc/internal/errors"
	"ralphc/internal/orchestrator"
	"ralphc/internal/state"
	"ralphc/internal/types"
	"ralphc/internal/vm"
)

// Options re-exports the compiler's tunable warning suppressions.
type Options = state.Options

// StatefulContract is the deployable form of one contract's method table:
// its total field-storage width (including the synthetic std-interface-id
// field, when present) plus every concrete method, keyed by function id
// in declaration order.
type StatefulContract struct {
	FieldsLength int
	MethodOrder  []string
	Methods      map[string]*vm.Method
}

// CompiledContract is everything one compiled Contract unit produces.
// StatefulDebugContract carries Debug instructions; StatefulContract never
// does. The two point at the same method table when the contract
// contains no Debug statement anywhere.
type CompiledContract struct {
	Unit                  *ast.Contract
	StatefulContract      *StatefulContract
	StatefulDebugContract *StatefulContract
	Warnings              []*errors.CompilerError

	defs *orchestrator.MergedDefs
}

// CompiledScript is what one compiled TxScript or AssetScript produces: no
// storage, just its method table (method 0 is the public entry point).
type CompiledScript struct {
	Unit        ast.Unit
	MethodOrder []string
	Methods     map[string]*vm.Method
	Warnings    []*errors.CompilerError
}

// Program is the result of compiling a whole set of units together.
type Program struct {
	Contracts map[string]*CompiledContract
	Scripts   map[string]*CompiledScript
}

// CompileProject compiles every unit in units as one linked program:
// inheritance, interface chaining and cross-unit calls are all resolved
// against the full set before anything is emitted.
func CompileProject(units []ast.Unit, opts Options) (*Program, error) {
	p, err := orchestrator.NewProject(units)
	if err != nil {
		return nil, err
	}
	if err := orchestrator.ValidateProject(p); err != nil {
		return nil, err
	}
	compiled, err := orchestrator.CompileAll(p, opts)
	if err != nil {
		return nil, err
	}

	prog := &Program{Contracts: make(map[string]*CompiledContract), Scripts: make(map[string]*CompiledScript)}
	for id, cu := range compiled {
		switch u := cu.Defs.Unit.(type) {
		case *ast.Contract:
			prog.Contracts[id] = toCompiledContract(u, cu)
		default:
			prog.Scripts[id] = &CompiledScript{
				Unit:        cu.Defs.Unit,
				MethodOrder: cu.Defs.FuncOrder,
				Methods:     cu.Methods,
				Warnings:    cu.Warnings,
			}
		}
	}
	return prog, nil
}

// Compile compiles a single-unit project: a convenience wrapper around
// CompileProject for the common case of one contract with no siblings.
func Compile(unit ast.Unit, opts Options) (*Program, error) {
	return CompileProject([]ast.Unit{unit}, opts)
}

func hasStdIdField(defs *orchestrator.MergedDefs) bool {
	return defs.StdInterfaceId != nil && defs.StdIdEnabled
}

func fieldsLength(defs *orchestrator.MergedDefs) int {
	total := 0
	for _, f := range defs.Fields {
		total += f.Type.FlattenLength()
	}
	if hasStdIdField(defs) {
		total++
	}
	return total
}

func toCompiledContract(u *ast.Contract, cu *orchestrator.CompiledUnit) *CompiledContract {
	statefulFromMethods := func(methods map[string]*vm.Method) *StatefulContract {
		return &StatefulContract{
			FieldsLength: fieldsLength(cu.Defs),
			MethodOrder:  cu.Defs.FuncOrder,
			Methods:      methods,
		}
	}
	release := statefulFromMethods(cu.Methods)
	debug := release
	if cu.DebugMethods != nil && !sameMethodSet(cu.Methods, cu.DebugMethods) {
		debug = statefulFromMethods(cu.DebugMethods)
	}
	return &CompiledContract{
		Unit:                  u,
		StatefulContract:      release,
		StatefulDebugContract: debug,
		Warnings:              cu.Warnings,
		defs:                  cu.Defs,
	}
}

func sameMethodSet(a, b map[string]*vm.Method) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// EncodeImmFields concatenates the encoded form of cc's immutable fields,
// in field-declaration order, prefixed with the contract's
// std-interface-id bytes when one is active. values must have one entry
// per field declared directly on the contract (its own Fields list, not
// the inherited merge), in the same order.
func (cc *CompiledContract) EncodeImmFields(values []types.Val) []byte {
	var out []byte
	if hasStdIdField(cc.defs) {
		out = append(out, cc.defs.StdInterfaceId...)
	}
	for i, f := range cc.defs.Fields {
		if f.IsMutable {
			continue
		}
		out = append(out, values[i].Encode()...)
	}
	return out
}

// EncodeMutFields concatenates the encoded form of cc's mutable fields, in
// field-declaration order. Mutable storage is never prefixed with the
// std-interface-id, since that id is immutable by construction.
func (cc *CompiledContract) EncodeMutFields(values []types.Val) []byte {
	var out []byte
	for i, f := range cc.defs.Fields {
		if !f.IsMutable {
			continue
		}
		out = append(out, values[i].Encode()...)
	}
	return out
}

// EncodeFields concatenates every field's encoded form in declaration
// order (immutable and mutable alike), prefixed with the
// std-interface-id bytes when one is active.
func (cc *CompiledContract) EncodeFields(values []types.Val) []byte {
	var out []byte
	if hasStdIdField(cc.defs) {
		out = append(out, cc.defs.StdInterfaceId...)
	}
	for i := range cc.defs.Fields {
		out = append(out, values[i].Encode()...)
	}
	return out
}
