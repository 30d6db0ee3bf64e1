package state

// AddInternalCall records caller -> callee, both funcIds local to the
// current unit.
func (s *State) AddInternalCall(caller, callee string) {
	s.graph.addInternalCall(caller, callee)
}

// AddExternalCall records a call from the unit currently being compiled to
// (typeId, funcId) on another contract.
func (s *State) AddExternalCall(typeId, funcId string) {
	s.graph.addExternalCall(typeId, funcId)
}

// AddInterfaceFuncCall marks that the function currently being checked
// performed a call through an interface-typed value, which the
// orchestrator's simple-view-function determination treats conservatively.
func (s *State) AddInterfaceFuncCall() {
	s.graph.addInterfaceFuncCall(s.currentFuncId)
}
