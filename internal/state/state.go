// Package state implements the compiler state component: the per-unit
// mutable context threaded by reference through the checker and emitter
// — scopes, symbol tables, the call graph, warnings and the Check/CodeGen
// phase flag. It merges what would otherwise be a symbol table and a
// separate context registry into a single object, since this core has no
// module/import system of its own that would need them kept apart.
package state

import (
	"ralphc/internal/errors"
	"ralphc/internal/types"
)

// Phase is Check or CodeGen.
type Phase int

const (
	PhaseCheck Phase = iota
	PhaseCodeGen
)

// FunctionInfo records what the state knows about a callable function:
// its signature plus which unit (if any) it is a member of, keyed by an
// optional type id together with its func id.
type FunctionInfo struct {
	TypeId   string // empty for a script-local or same-unit function
	FuncId   string
	IsPublic bool
	IsStatic bool
	Args     []types.Type
	Returns  []types.Type
	UsePreapprovedAssets bool
	Variadic bool
}

// ContractInfo is what the state knows about another contract type for
// resolving static/dynamic calls against it.
type ContractInfo struct {
	TypeId    string
	IsInterface bool
	Functions map[string]*FunctionInfo
}

// State is the Compiler State object: one per unit compiled, discarded
// afterward.
type State struct {
	Phase      Phase
	AllowDebug bool

	// CurrentTypeId is the unit currently being checked/emitted. The State
	// only stores it; call-graph edges are keyed by the callee's own ids.
	CurrentTypeId string

	opts Options

	top  *scope // current innermost scope
	unit *scope // the bottommost, unit-level scope (fields/templates/constants)

	funcs     map[string]*FunctionInfo           // functions declared on CurrentTypeId, by FuncId
	contracts map[string]*ContractInfo           // other known contract types, by TypeId
	events    map[string]int                     // event id -> 0-based index within the unit
	eventDefs map[string]*eventRecord
	enums     map[string]map[string]types.Val // enum id -> member name -> value

	graph *CallGraph

	warnings []*errors.CompilerError

	// currentFuncId / currentFuncLocals / currentFuncReturns track the
	// function body currently being walked.
	currentFuncId          string
	currentFuncLocals      []*Variable
	currentFuncReturns     []types.Type
	currentFuncUpdateField bool
}

type eventRecord struct {
	index  int
	fields []types.Type
}

// New creates a fresh Compiler State for one unit.
func New(opts Options) *State {
	unit := newScope(nil, false, "")
	return &State{
		Phase:     PhaseCheck,
		opts:      opts,
		top:       unit,
		unit:      unit,
		funcs:     make(map[string]*FunctionInfo),
		contracts: make(map[string]*ContractInfo),
		events:    make(map[string]int),
		eventDefs: make(map[string]*eventRecord),
		enums:     make(map[string]map[string]types.Val),
		graph:     newCallGraph(),
	}
}

// CurrentFunctionId returns the function body currently being walked, or
// "" outside any function (e.g. while checking unit-level constants).
func (s *State) CurrentFunctionId() string { return s.currentFuncId }

// SetCurrentFuncUpdateFields records whether the function body currently
// being walked declared useUpdateFields = true, consulted by
// CheckFieldUpdatePermission to decide whether a field write is allowed.
func (s *State) SetCurrentFuncUpdateFields(v bool) { s.currentFuncUpdateField = v }

// Warnings returns the accumulated, filtered warning list.
func (s *State) Warnings() []*errors.CompilerError { return s.warnings }

// Graph exposes the recorded call graph for orchestrator-level analysis.
func (s *State) Graph() *CallGraph { return s.graph }

func (s *State) addWarning(w *errors.CompilerError) {
	s.warnings = append(s.warnings, w)
}

// RegisterContract makes another contract's public interface known to
// this state for static/dynamic call resolution.
func (s *State) RegisterContract(info *ContractInfo) {
	s.contracts[info.TypeId] = info
}

// LookupContract returns the previously registered ContractInfo for
// typeId.
func (s *State) LookupContract(typeId string) (*ContractInfo, bool) {
	c, ok := s.contracts[typeId]
	return c, ok
}

// RegisterFunction adds fn to the current unit's function table.
func (s *State) RegisterFunction(info *FunctionInfo) {
	s.funcs[info.FuncId] = info
}

// LookupFunction resolves an unqualified (same-unit) function by id.
func (s *State) LookupFunction(funcId string) (*FunctionInfo, bool) {
	f, ok := s.funcs[funcId]
	return f, ok
}

// RegisterEvent assigns the next 0-based event index to id.
func (s *State) RegisterEvent(id string, fieldTypes []types.Type) {
	idx := len(s.events)
	s.events[id] = idx
	s.eventDefs[id] = &eventRecord{index: idx, fields: fieldTypes}
}

// EventIndex returns the 0-based index for a registered event.
func (s *State) EventIndex(id string) (int, bool) {
	idx, ok := s.events[id]
	return idx, ok
}

// EventFieldTypes returns the declared field types for a registered
// event.
func (s *State) EventFieldTypes(id string) ([]types.Type, bool) {
	r, ok := s.eventDefs[id]
	if !ok {
		return nil, false
	}
	return r.fields, true
}

// RegisterEnumMember records one EnumId::Field -> value binding, resolved
// by the orchestrator before any function body is checked so that
// EnumFieldSelector lookups never depend on declaration order.
func (s *State) RegisterEnumMember(enumId, field string, val types.Val) {
	if s.enums[enumId] == nil {
		s.enums[enumId] = make(map[string]types.Val)
	}
	s.enums[enumId][field] = val
}

// LookupEnumMember resolves EnumId::Field to its constant value.
func (s *State) LookupEnumMember(enumId, field string) (types.Val, bool) {
	members, ok := s.enums[enumId]
	if !ok {
		return types.Val{}, false
	}
	v, ok := members[field]
	return v, ok
}
