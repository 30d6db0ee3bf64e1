// Package builtins catalogues the functions the VM host provides that the
// checker and emitter must recognize by name: checkCaller, panic, migrate,
// the transferToken family and tokenRemaining. ALPHTokenId is not a
// registry entry; only its type is named here. Each entry carries name, parameters, return
// type, and a variadic flag, as a single flat table of VM-provided
// builtins — this core has no import/module system of its own, and
// treats the parser and its module resolution as an external
// collaborator.
package builtins

import "ralphc/internal/types"

// Param describes one built-in function parameter.
type Param struct {
	Name string
	Type types.Type
}

// FuncDef describes one built-in function's signature plus the
// cross-checks the checker needs to apply at call sites.
type FuncDef struct {
	Name       string
	Params     []Param
	ReturnType []types.Type
	Variadic   bool

	// IsCheckCaller marks the built-in that directly satisfies the
	// check-external-caller rule.
	IsCheckCaller bool
	// IsPanic marks the built-in whose call also satisfies "ends in a
	// return or a call to panic" for exhaustive-return checking.
	IsPanic bool
	// IsMigrate marks the built-in that disqualifies a function from
	// being a simple view.
	IsMigrate bool
}

// ALPHTokenId is the native-token id sentinel's type: always ByteVec.
var ALPHTokenId = types.ByteVec{}

// Registry is the flat table of VM-provided built-in functions, keyed by
// name.
var Registry = map[string]FuncDef{
	"checkCaller": {
		Name:          "checkCaller",
		Params:        []Param{{Name: "condition", Type: types.Bool{}}, {Name: "errorCode", Type: types.U256{}}},
		ReturnType:    nil,
		IsCheckCaller: true,
	},
	"panic": {
		Name:       "panic",
		Params:     []Param{{Name: "errorCode", Type: types.U256{}}},
		ReturnType: nil,
		IsPanic:    true,
	},
	"migrate": {
		Name:      "migrate",
		Params:    []Param{{Name: "newCode", Type: types.ByteVec{}}},
		IsMigrate: true,
	},
	"transferToken": {
		Name:   "transferToken",
		Params: []Param{{Name: "from", Type: types.Address{}}, {Name: "to", Type: types.Address{}}, {Name: "tokenId", Type: types.ByteVec{}}, {Name: "amount", Type: types.U256{}}},
	},
	"transferTokenFromSelf": {
		Name:   "transferTokenFromSelf",
		Params: []Param{{Name: "to", Type: types.Address{}}, {Name: "tokenId", Type: types.ByteVec{}}, {Name: "amount", Type: types.U256{}}},
	},
	"transferTokenToSelf": {
		Name:   "transferTokenToSelf",
		Params: []Param{{Name: "from", Type: types.Address{}}, {Name: "tokenId", Type: types.ByteVec{}}, {Name: "amount", Type: types.U256{}}},
	},
	"tokenRemaining": {
		Name:       "tokenRemaining",
		Params:     []Param{{Name: "address", Type: types.Address{}}, {Name: "tokenId", Type: types.ByteVec{}}},
		ReturnType: []types.Type{types.U256{}},
	},
}

// NativeTokenMarker is a name for the native ALPH token. Neither the
// checker nor the emitter reads it: the emitter picks the *Alph
// specialization over the generic token opcode from the AST node kind
// (an ALPHTokenIdExpr argument).
const NativeTokenMarker = "__alph__"

// Lookup returns the built-in definition for name, or ok=false if name is
// not a built-in.
func Lookup(name string) (FuncDef, bool) {
	d, ok := Registry[name]
	return d, ok
}
