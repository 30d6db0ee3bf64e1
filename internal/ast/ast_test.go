package ast

import (
	"testing"

	"math/big"

	"github.com/stretchr/testify/assert"
	"ralphc/internal/types"
)

func TestExprTypeMemoIsWriteOnce(t *testing.T) {
	c := &Const{Value: types.NewU256Val(big.NewInt(0))}
	_, ok := c.CachedType()
	assert.False(t, ok)

	c.SetCachedType(types.Seq{types.U256{}})
	got, ok := c.CachedType()
	assert.True(t, ok)
	assert.Equal(t, types.Seq{types.U256{}}, got)

	assert.Panics(t, func() {
		c.SetCachedType(types.Seq{types.Bool{}})
	})
}

func TestInheritable(t *testing.T) {
	iface := &Interface{unitBase: unitBase{Id: "I"}}
	abstractContract := &Contract{unitBase: unitBase{Id: "A"}, IsAbstract: true}
	concreteContract := &Contract{unitBase: unitBase{Id: "C"}, IsAbstract: false}
	script := &TxScript{unitBase: unitBase{Id: "S"}}

	assert.True(t, Inheritable(iface))
	assert.True(t, Inheritable(abstractContract))
	assert.False(t, Inheritable(concreteContract))
	assert.False(t, Inheritable(script))
}

func TestFunctionDefChecksExternalCaller(t *testing.T) {
	fn := &FunctionDef{Id: "f"}
	assert.True(t, fn.ChecksExternalCaller())

	no := false
	fn.UseCheckExternalCaller = &no
	assert.False(t, fn.ChecksExternalCaller())
}

func TestFunctionDefIsAbstract(t *testing.T) {
	abstract := &FunctionDef{Id: "f"}
	assert.True(t, abstract.IsAbstract())

	concrete := &FunctionDef{Id: "g", Body: []Stmt{}}
	assert.False(t, concrete.IsAbstract())
}
