package orchestrator

import (
	"testing"

	"ralphc/internal/ast"
	"ralphc/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectRejectsDuplicateTypeId(t *testing.T) {
	a := &ast.Contract{}
	setUnitId(a, "Token")
	b := &ast.Contract{}
	setUnitId(b, "Token")

	_, err := NewProject([]ast.Unit{a, b})
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeDuplicateDefinition, ce.Code)
}

func TestClosureDetectsCycle(t *testing.T) {
	a := &ast.Contract{IsAbstract: true}
	setUnit(a, "A", []string{"B"})
	b := &ast.Contract{IsAbstract: true}
	setUnit(b, "B", []string{"A"})

	p, err := NewProject([]ast.Unit{a, b})
	require.NoError(t, err)

	_, err = p.Closure("A")
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeCyclicInheritance, ce.Code)
}

func TestClosureResolvesTransitiveAncestors(t *testing.T) {
	grandparent := &ast.Interface{}
	setUnit(grandparent, "Base", nil)
	parent := &ast.Contract{IsAbstract: true}
	setUnit(parent, "Mid", []string{"Base"})
	child := &ast.Contract{}
	setUnit(child, "Leaf", []string{"Mid"})

	p, err := NewProject([]ast.Unit{grandparent, parent, child})
	require.NoError(t, err)

	c, err := p.Closure("Leaf")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Mid", "Base"}, c)
}

func TestClosureRejectsNonInheritableParent(t *testing.T) {
	concrete := &ast.Contract{IsAbstract: false}
	setUnit(concrete, "Concrete", nil)
	child := &ast.Contract{}
	setUnit(child, "Child", []string{"Concrete"})

	p, err := NewProject([]ast.Unit{concrete, child})
	require.NoError(t, err)

	_, err = p.Closure("Child")
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeNotInstantiableContract, ce.Code)
}

func TestClosureRejectsUnknownParent(t *testing.T) {
	child := &ast.Contract{}
	setUnit(child, "Child", []string{"Ghost"})

	p, err := NewProject([]ast.Unit{child})
	require.NoError(t, err)

	_, err = p.Closure("Child")
	require.Error(t, err)
	ce := err.(*errors.CompilerError)
	assert.Equal(t, errors.CodeUnknownContractType, ce.Code)
}

func setUnitId(u ast.Unit, id string) {
	switch v := u.(type) {
	case *ast.Contract:
		v.Id = id
	case *ast.Interface:
		v.Id = id
	case *ast.TxScript:
		v.Id = id
	case *ast.AssetScript:
		v.Id = id
	}
}

func setUnit(u ast.Unit, id string, inherits []string) {
	switch v := u.(type) {
	case *ast.Contract:
		v.Id = id
		v.Inherits = inherits
	case *ast.Interface:
		v.Id = id
		v.Inherits = inherits
	case *ast.TxScript:
		v.Id = id
	case *ast.AssetScript:
		v.Id = id
	}
}
