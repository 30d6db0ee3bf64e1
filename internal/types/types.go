// Package types implements the closed type lattice of the source language:
// Bool, I256, U256, ByteVec, Address, fixed-size arrays and contract
// references, plus the handful of operations every later phase needs from
// them (structural equality, a stable textual signature, and flattened
// stack-slot length).
package types

import "fmt"

// Type is one member of the closed type lattice. Equality between two
// Types is always structural: arrays compare on
// (elem, size), contracts compare on TypeId, everything else compares on
// its own kind.
type Type interface {
	// Signature returns the stable textual form used in error messages and
	// ABI encoding, e.g. "U256", "[Bool;3]", "MyToken".
	Signature() string
	// FlattenLength returns the number of VM stack slots a value of this
	// type occupies. Scalars occupy 1; an array occupies size * the
	// flattened length of its element type.
	FlattenLength() int
	// Equal reports structural equality with another Type.
	Equal(other Type) bool
}

// Bool is the boolean scalar type.
type Bool struct{}

// I256 is a signed 256-bit integer scalar type.
type I256 struct{}

// U256 is an unsigned 256-bit integer scalar type.
type U256 struct{}

// ByteVec is a variable-length byte string scalar type.
type ByteVec struct{}

// Address is an account/contract address scalar type.
type Address struct{}

// FixedArray is a homogeneous, fixed-size array type. Arrays may nest
// arbitrarily: FixedArray{Elem: FixedArray{...}} is a matrix.
type FixedArray struct {
	Elem Type
	Size int // invariant: Size >= 1
}

// Contract is a reference to an instantiable contract or interface named
// by TypeId; two Contract types are equal iff their TypeId strings match.
type Contract struct {
	TypeId string
}

func (Bool) Signature() string    { return "Bool" }
func (Bool) FlattenLength() int   { return 1 }
func (Bool) Equal(o Type) bool    { _, ok := o.(Bool); return ok }

func (I256) Signature() string  { return "I256" }
func (I256) FlattenLength() int { return 1 }
func (I256) Equal(o Type) bool  { _, ok := o.(I256); return ok }

func (U256) Signature() string  { return "U256" }
func (U256) FlattenLength() int { return 1 }
func (U256) Equal(o Type) bool  { _, ok := o.(U256); return ok }

func (ByteVec) Signature() string  { return "ByteVec" }
func (ByteVec) FlattenLength() int { return 1 }
func (ByteVec) Equal(o Type) bool  { _, ok := o.(ByteVec); return ok }

func (Address) Signature() string  { return "Address" }
func (Address) FlattenLength() int { return 1 }
func (Address) Equal(o Type) bool  { _, ok := o.(Address); return ok }

func (a FixedArray) Signature() string {
	return fmt.Sprintf("[%s;%d]", a.Elem.Signature(), a.Size)
}

func (a FixedArray) FlattenLength() int {
	return a.Size * a.Elem.FlattenLength()
}

func (a FixedArray) Equal(o Type) bool {
	other, ok := o.(FixedArray)
	if !ok {
		return false
	}
	return other.Size == a.Size && a.Elem.Equal(other.Elem)
}

func (c Contract) Signature() string { return c.TypeId }
func (Contract) FlattenLength() int  { return 1 }
func (c Contract) Equal(o Type) bool {
	other, ok := o.(Contract)
	return ok && other.TypeId == c.TypeId
}

// Seq is the result of evaluating an expression: a tuple of stack slots,
// in left-to-right order. Most expressions produce a one-element Seq;
// multi-return calls and tuple-valued statements produce more.
type Seq []Type

// FlattenLength sums the flattened length of every element of the tuple.
func (s Seq) FlattenLength() int {
	n := 0
	for _, t := range s {
		n += t.FlattenLength()
	}
	return n
}

// Equal reports whether two Seqs have the same element types in order.
func (s Seq) Equal(o Seq) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (s Seq) Signatures() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.Signature()
	}
	return out
}

// IsScalar reports whether t is one of the non-array scalar kinds.
func IsScalar(t Type) bool {
	switch t.(type) {
	case Bool, I256, U256, ByteVec, Address, Contract:
		return true
	default:
		return false
	}
}
