// Package orchestrator ties multiple compilation units together:
// inheritance closure and cycle detection, definition merging across an
// inheritance chain, std-interface-id validation, and the per-unit
// check/codegen pipeline that runs internal/checker and internal/codegen
// over one internal/state.State per unit. Units compile in declaration
// order, each through its own fresh analyzer state rather than sharing
// mutable state across the whole program.
package orchestrator

import (
	"bytes"
	"fmt"
	"sort"

	"ralphc/internal/ast"
	"ralphc/internal/errors"
)

// Project is every unit submitted to one compilation, indexed by type id.
type Project struct {
	units   []ast.Unit
	byId    map[string]ast.Unit
	parents map[string][]string // type id -> immediate Inherits list, normalized
}

// NewProject registers units, rejecting duplicate type ids up front.
func NewProject(units []ast.Unit) (*Project, error) {
	p := &Project{units: units, byId: make(map[string]ast.Unit), parents: make(map[string][]string)}
	for _, u := range units {
		id := u.TypeId()
		if _, exists := p.byId[id]; exists {
			return nil, errors.DuplicateDefinition(id, convPos(u.Pos()))
		}
		p.byId[id] = u
	}
	for _, u := range units {
		p.parents[u.TypeId()] = inheritsOf(u)
	}
	return p, nil
}

func inheritsOf(u ast.Unit) []string {
	switch v := u.(type) {
	case *ast.Contract:
		return v.Inherits
	case *ast.Interface:
		return v.Inherits
	default:
		return nil
	}
}

func convPos(p ast.Position) errors.Position {
	return errors.Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

// closure computes the full transitive set of ancestor type ids for id via
// DFS, deduplicating ancestors and detecting cycles along the current
// path. Nothing is memoized; every call walks the graph again.
func (p *Project) closure(id string, path []string) ([]string, error) {
	for _, onPath := range path {
		if onPath == id {
			return nil, errors.CyclicInheritance(append(append([]string{}, path...), id), errors.Position{})
		}
	}
	path = append(path, id)

	seen := make(map[string]bool)
	var all []string
	for _, parentId := range p.parents[id] {
		parent, ok := p.byId[parentId]
		if !ok {
			return nil, errors.UnknownContractType(parentId, errors.Position{})
		}
		if !ast.Inheritable(parent) {
			return nil, errors.NotInstantiableContract(parentId, convPos(parent.Pos()))
		}
		if !seen[parentId] {
			seen[parentId] = true
			all = append(all, parentId)
		}
		grand, err := p.closure(parentId, path)
		if err != nil {
			return nil, err
		}
		for _, g := range grand {
			if !seen[g] {
				seen[g] = true
				all = append(all, g)
			}
		}
	}
	return all, nil
}

// Closure returns id's full ancestor set (direct and transitive parents).
func (p *Project) Closure(id string) ([]string, error) {
	return p.closure(id, nil)
}

// validateFieldInheritance checks that child declares every field of its
// direct parent, with matching types and in the parent's relative order,
// within its own field list.
func validateFieldInheritance(child ast.Unit, parentId string, parent ast.Unit, pos errors.Position) error {
	parentFields := fieldsOf(parent)
	if len(parentFields) == 0 {
		return nil
	}
	childFields := fieldsOf(child)
	childByName := make(map[string]int, len(childFields))
	for i, f := range childFields {
		childByName[f.Ident] = i
	}
	prev := -1
	for _, pf := range parentFields {
		idx, ok := childByName[pf.Ident]
		if !ok || idx <= prev {
			return errors.InheritanceFieldsMismatch(child.TypeId(), parentId, pos)
		}
		if !childFields[idx].Type.Equal(pf.Type) {
			return errors.InheritanceFieldsMismatch(child.TypeId(), parentId, pos)
		}
		prev = idx
	}
	return nil
}

func fieldsOf(u ast.Unit) []ast.FieldDef {
	switch v := u.(type) {
	case *ast.Contract:
		return v.Fields
	case *ast.Interface:
		return v.Fields
	default:
		return nil
	}
}

func functionsOf(u ast.Unit) []*ast.FunctionDef {
	switch v := u.(type) {
	case *ast.Contract:
		return v.Functions
	case *ast.Interface:
		return v.Functions
	case *ast.TxScript:
		return v.Functions
	case *ast.AssetScript:
		return v.Functions
	default:
		return nil
	}
}

func constantsOf(u ast.Unit) []*ast.ConstantDef {
	switch v := u.(type) {
	case *ast.Contract:
		return v.Constants
	case *ast.Interface:
		return v.Constants
	default:
		return nil
	}
}

func eventsOf(u ast.Unit) []*ast.EventDef {
	switch v := u.(type) {
	case *ast.Contract:
		return v.Events
	case *ast.Interface:
		return v.Events
	default:
		return nil
	}
}

func enumsOf(u ast.Unit) []*ast.EnumDef {
	switch v := u.(type) {
	case *ast.Contract:
		return v.Enums
	case *ast.Interface:
		return v.Enums
	default:
		return nil
	}
}

// stdInterfaceIdOf returns a unit's own declared std-interface-id, if any.
func stdInterfaceIdOf(u ast.Unit) []byte {
	switch v := u.(type) {
	case *ast.Contract:
		return v.StdInterfaceId
	case *ast.Interface:
		return v.StdInterfaceId
	default:
		return nil
	}
}

const stdInterfaceIdPrefix = "ALPH"

func validateStdInterfaceIdPrefix(id []byte, pos errors.Position) error {
	if len(id) < len(stdInterfaceIdPrefix) || string(id[:len(stdInterfaceIdPrefix)]) != stdInterfaceIdPrefix {
		return errors.InvalidStdInterfaceId(pos, fmt.Sprintf("must start with %q", stdInterfaceIdPrefix))
	}
	return nil
}

// sortByClosureSizeAscending orders interface ids by how many ancestors
// each has, the ordering extractDefs needs before validating a strict
// single chain.
func (p *Project) sortByClosureSizeAscending(ids []string) ([]string, error) {
	sizes := make(map[string]int, len(ids))
	for _, id := range ids {
		c, err := p.Closure(id)
		if err != nil {
			return nil, err
		}
		sizes[id] = len(c)
	}
	sorted := append([]string{}, ids...)
	sort.SliceStable(sorted, func(i, j int) bool { return sizes[sorted[i]] < sizes[sorted[j]] })
	return sorted, nil
}

func bytesHasPrefix(b, prefix []byte) bool {
	return bytes.HasPrefix(b, prefix)
}
