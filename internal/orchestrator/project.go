package orchestrator

import (
	"ralphc/internal/ast"
	"ralphc/internal/errors"
	"ralphc/internal/state"
)

// CompileAll runs CompileUnit over every compilable unit in the project
// (see isCompilable), in declaration order, collecting each one's output
// and stopping at the
// first error (the core has no recovery/multi-error reporting mode —
// each unit either compiles cleanly or the whole build fails).
func CompileAll(p *Project, opts state.Options) (map[string]*CompiledUnit, error) {
	out := make(map[string]*CompiledUnit, len(p.units))
	for _, u := range p.units {
		id := u.TypeId()
		if !isCompilable(u) {
			continue
		}
		cu, err := CompileUnit(p, id, opts)
		if err != nil {
			return nil, err
		}
		out[id] = cu
	}
	return out, nil
}

// isCompilable reports whether a unit produces its own method table.
// Interfaces never do — they exist purely to be inherited from and to
// contribute to a concrete contract's merged definitions and
// std-interface-id chain.
func isCompilable(u ast.Unit) bool {
	switch v := u.(type) {
	case *ast.Interface:
		return false
	case *ast.Contract:
		return !v.IsAbstract
	default:
		return true
	}
}

// ValidateProject runs the structural checks that don't require emitting
// any code: every unit's inheritance closure resolves without cycles or
// unknown parents, and every concrete contract's merged function set
// fully implements its abstract ancestors. This lets a caller surface
// inheritance-shape errors before attempting a full compile.
func ValidateProject(p *Project) error {
	for _, u := range p.units {
		if _, err := p.Closure(u.TypeId()); err != nil {
			return err
		}
	}
	for _, u := range p.units {
		if _, err := ExtractDefs(p, u.TypeId()); err != nil {
			return err
		}
	}
	return nil
}

// LookupCompiled resolves a compiled unit's finished output by type id, or
// reports an UnknownContractType error.
func LookupCompiled(units map[string]*CompiledUnit, typeId string) (*CompiledUnit, error) {
	u, ok := units[typeId]
	if !ok {
		return nil, errors.UnknownContractType(typeId, errors.Position{})
	}
	return u, nil
}
