package orchestrator

import (
	"ralphc/internal/ast"
	"ralphc/internal/errors"
)

// MergedDefs is the flattened definition set a unit presents to the
// checker and emitter once inheritance has been resolved: every field,
// function, constant, event and enum the unit sees, whether declared on
// it directly or inherited from an ancestor.
type MergedDefs struct {
	Unit   ast.Unit
	TypeId string

	Fields       []ast.FieldDef
	TemplateVars []ast.Argument

	// Functions is every function visible on the unit, keyed by id, after
	// abstract declarations have been unified with their concrete
	// override (if any). FuncOrder preserves a stable emission order:
	// ancestors first (in closure order), then the unit's own functions.
	Functions map[string]*ast.FunctionDef
	FuncOrder []string

	Constants []*ast.ConstantDef
	Events    []*ast.EventDef
	Enums     []*ast.EnumDef

	StdInterfaceId []byte
	StdIdEnabled   bool
}

// ExtractDefs flattens typeId's inheritance chain into one MergedDefs,
// validating field-list compatibility, interface chaining, std-interface
// id extension, and abstract/concrete function resolution along the way.
func ExtractDefs(p *Project, typeId string) (*MergedDefs, error) {
	self, ok := p.byId[typeId]
	if !ok {
		return nil, errors.UnknownContractType(typeId, errors.Position{})
	}
	ancestors, err := p.Closure(typeId)
	if err != nil {
		return nil, err
	}

	for _, parentId := range p.parents[typeId] {
		parent := p.byId[parentId]
		if err := validateFieldInheritance(self, parentId, parent, convPos(self.Pos())); err != nil {
			return nil, err
		}
	}

	md := &MergedDefs{
		Unit:      self,
		TypeId:    typeId,
		Fields:    fieldsOf(self),
		Functions: make(map[string]*ast.FunctionDef),
	}
	switch u := self.(type) {
	case *ast.Contract:
		md.TemplateVars = u.TemplateVars
	case *ast.TxScript:
		md.TemplateVars = u.TemplateVars
	}

	stdId, stdEnabled, err := resolveStdInterfaceId(p, self, ancestors)
	if err != nil {
		return nil, err
	}
	md.StdInterfaceId = stdId
	md.StdIdEnabled = stdEnabled

	// Merge functions: ancestors first (closure order, which Closure
	// returns parent-then-grandparent), so the unit's own concrete
	// declarations can replace inherited abstract ones below.
	for _, aid := range ancestors {
		if err := mergeFunctionsFrom(md, p.byId[aid]); err != nil {
			return nil, err
		}
	}
	if err := mergeFunctionsFrom(md, self); err != nil {
		return nil, err
	}

	if err := requireFullyImplemented(md, self); err != nil {
		return nil, err
	}

	mergeConstants(md, ancestors, p, self)
	mergeEvents(md, ancestors, p, self)
	mergeEnums(md, ancestors, p, self)

	return md, nil
}

// mergeFunctionsFrom folds u's functions into md, requiring every
// re-declaration of an already-known function id to agree on signature
// (raising SignatureMismatch otherwise), letting a concrete body replace
// an earlier abstract declaration, and rejecting a second concrete body
// for the same id with DuplicateDefinition.
func mergeFunctionsFrom(md *MergedDefs, u ast.Unit) error {
	for _, fn := range functionsOf(u) {
		existing, ok := md.Functions[fn.Id]
		if !ok {
			md.FuncOrder = append(md.FuncOrder, fn.Id)
			md.Functions[fn.Id] = fn
			continue
		}
		if !sameSignature(existing, fn) {
			return errors.SignatureMismatch(fn.Id, convPos(fn.Pos))
		}
		if existing.IsAbstract() && !fn.IsAbstract() {
			md.Functions[fn.Id] = fn
		} else if !existing.IsAbstract() && !fn.IsAbstract() {
			return errors.DuplicateDefinition(fn.Id, convPos(fn.Pos))
		}
		// existing already concrete: a later abstract re-declaration from
		// a sibling ancestor doesn't displace it.
	}
	return nil
}

func sameSignature(a, b *ast.FunctionDef) bool {
	if a.IsPublic != b.IsPublic || a.IsStatic != b.IsStatic || len(a.Args) != len(b.Args) || len(a.ReturnTypes) != len(b.ReturnTypes) {
		return false
	}
	for i := range a.Args {
		if !a.Args[i].Type.Equal(b.Args[i].Type) {
			return false
		}
	}
	for i := range a.ReturnTypes {
		if !a.ReturnTypes[i].Equal(b.ReturnTypes[i]) {
			return false
		}
	}
	return true
}

// requireFullyImplemented enforces that a unit that cannot be inherited
// from (a non-abstract contract or a script) leaves no inherited abstract
// function unimplemented. Signature agreement between declarations is
// checked earlier, by mergeFunctionsFrom.
func requireFullyImplemented(md *MergedDefs, self ast.Unit) error {
	var unimplemented []string
	for _, id := range md.FuncOrder {
		fn := md.Functions[id]
		if fn.IsAbstract() {
			unimplemented = append(unimplemented, id)
		}
	}
	if len(unimplemented) == 0 {
		return nil
	}
	if ast.Inheritable(self) {
		// Interfaces and abstract contracts are allowed to leave
		// functions unimplemented.
		return nil
	}
	return errors.UnimplementedMethods(unimplemented, convPos(self.Pos()))
}

func mergeConstants(md *MergedDefs, ancestors []string, p *Project, self ast.Unit) {
	seen := make(map[string]bool)
	for _, aid := range ancestors {
		for _, c := range constantsOf(p.byId[aid]) {
			if !seen[c.Id] {
				seen[c.Id] = true
				md.Constants = append(md.Constants, c)
			}
		}
	}
	for _, c := range constantsOf(self) {
		if !seen[c.Id] {
			seen[c.Id] = true
			md.Constants = append(md.Constants, c)
		}
	}
}

func mergeEvents(md *MergedDefs, ancestors []string, p *Project, self ast.Unit) {
	seen := make(map[string]bool)
	for _, aid := range ancestors {
		for _, e := range eventsOf(p.byId[aid]) {
			if !seen[e.Id] {
				seen[e.Id] = true
				md.Events = append(md.Events, e)
			}
		}
	}
	for _, e := range eventsOf(self) {
		if !seen[e.Id] {
			seen[e.Id] = true
			md.Events = append(md.Events, e)
		}
	}
}

func mergeEnums(md *MergedDefs, ancestors []string, p *Project, self ast.Unit) {
	seen := make(map[string]bool)
	for _, aid := range ancestors {
		for _, e := range enumsOf(p.byId[aid]) {
			if !seen[e.Id] {
				seen[e.Id] = true
				md.Enums = append(md.Enums, e)
			}
		}
	}
	for _, e := range enumsOf(self) {
		if !seen[e.Id] {
			seen[e.Id] = true
			md.Enums = append(md.Enums, e)
		}
	}
}

// resolveStdInterfaceId walks the interface ancestors of self (plus self,
// if it is itself an interface) from shallowest to deepest, requiring
// each one's own std-interface id to strictly extend the previous one's
// with the "ALPH" prefix anchoring the root. stdIdEnabled is taken from
// self alone: a contract's own StdIdEnabled, or true when it has none;
// ancestors' settings are not consulted.
func resolveStdInterfaceId(p *Project, self ast.Unit, ancestors []string) ([]byte, bool, error) {
	var ifaceIds []string
	for _, aid := range ancestors {
		if _, ok := p.byId[aid].(*ast.Interface); ok {
			ifaceIds = append(ifaceIds, aid)
		}
	}
	if _, ok := self.(*ast.Interface); ok {
		ifaceIds = append(ifaceIds, self.TypeId())
	}
	if len(ifaceIds) == 0 {
		enabled := true
		if c, ok := self.(*ast.Contract); ok && c.StdIdEnabled != nil {
			enabled = *c.StdIdEnabled
		}
		if c, ok := self.(*ast.Contract); ok {
			if c.StdInterfaceId != nil {
				if err := validateStdInterfaceIdPrefix(c.StdInterfaceId, convPos(self.Pos())); err != nil {
					return nil, false, err
				}
			}
			return c.StdInterfaceId, enabled, nil
		}
		return nil, enabled, nil
	}

	sorted, err := p.sortByClosureSizeAscending(ifaceIds)
	if err != nil {
		return nil, false, err
	}
	for i := 1; i < len(sorted); i++ {
		prevClosure, err := p.Closure(sorted[i])
		if err != nil {
			return nil, false, err
		}
		if !contains(prevClosure, sorted[i-1]) {
			return nil, false, errors.InterfaceNotChained(convPos(self.Pos()))
		}
	}

	var chainId []byte
	for _, id := range sorted {
		cand := stdInterfaceIdOf(p.byId[id])
		if cand == nil {
			continue
		}
		if chainId == nil {
			if err := validateStdInterfaceIdPrefix(cand, convPos(p.byId[id].Pos())); err != nil {
				return nil, false, err
			}
		} else if !bytesHasPrefix(cand, chainId) || len(cand) == len(chainId) {
			return nil, false, errors.InvalidStdInterfaceId(convPos(p.byId[id].Pos()), "must strictly extend its parent interface's id")
		}
		chainId = cand
	}

	if c, ok := self.(*ast.Contract); ok && c.StdInterfaceId != nil {
		if chainId == nil {
			if err := validateStdInterfaceIdPrefix(c.StdInterfaceId, convPos(self.Pos())); err != nil {
				return nil, false, err
			}
		} else if !bytesHasPrefix(c.StdInterfaceId, chainId) || len(c.StdInterfaceId) == len(chainId) {
			return nil, false, errors.InvalidStdInterfaceId(convPos(self.Pos()), "must strictly extend its parent interface's id")
		}
		chainId = c.StdInterfaceId
	}

	enabled := true
	if c, ok := self.(*ast.Contract); ok && c.StdIdEnabled != nil {
		enabled = *c.StdIdEnabled
	}
	return chainId, enabled, nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
