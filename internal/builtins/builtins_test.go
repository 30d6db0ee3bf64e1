package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKnownBuiltins(t *testing.T) {
	for _, name := range []string{"checkCaller", "panic", "migrate", "transferToken", "tokenRemaining"} {
		_, ok := Lookup(name)
		assert.True(t, ok, "expected %s to be a builtin", name)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("notARealBuiltin")
	assert.False(t, ok)
}

func TestCheckCallerAndPanicFlags(t *testing.T) {
	cc, _ := Lookup("checkCaller")
	assert.True(t, cc.IsCheckCaller)

	p, _ := Lookup("panic")
	assert.True(t, p.IsPanic)

	m, _ := Lookup("migrate")
	assert.True(t, m.IsMigrate)
}
