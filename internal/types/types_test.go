package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarFlattenLength(t *testing.T) {
	for _, tt := range []Type{Bool{}, I256{}, U256{}, ByteVec{}, Address{}, Contract{TypeId: "Foo"}} {
		assert.Equal(t, 1, tt.FlattenLength())
	}
}

func TestArrayFlattenLength(t *testing.T) {
	arr := FixedArray{Elem: U256{}, Size: 3}
	assert.Equal(t, 3, arr.FlattenLength())

	nested := FixedArray{Elem: arr, Size: 2}
	assert.Equal(t, 6, nested.FlattenLength())
}

func TestArrayEquality(t *testing.T) {
	a := FixedArray{Elem: U256{}, Size: 3}
	b := FixedArray{Elem: U256{}, Size: 3}
	c := FixedArray{Elem: I256{}, Size: 3}
	d := FixedArray{Elem: U256{}, Size: 4}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestContractEquality(t *testing.T) {
	assert.True(t, Contract{TypeId: "Token"}.Equal(Contract{TypeId: "Token"}))
	assert.False(t, Contract{TypeId: "Token"}.Equal(Contract{TypeId: "Other"}))
	assert.False(t, Contract{TypeId: "Token"}.Equal(Bool{}))
}

func TestSignatures(t *testing.T) {
	assert.Equal(t, "U256", U256{}.Signature())
	assert.Equal(t, "[U256;3]", FixedArray{Elem: U256{}, Size: 3}.Signature())
	assert.Equal(t, "[[U256;2];3]", FixedArray{Elem: FixedArray{Elem: U256{}, Size: 2}, Size: 3}.Signature())
	assert.Equal(t, "Token", Contract{TypeId: "Token"}.Signature())
}

func TestSeqEqualAndFlatten(t *testing.T) {
	a := Seq{U256{}, Bool{}}
	b := Seq{U256{}, Bool{}}
	c := Seq{U256{}, FixedArray{Elem: Bool{}, Size: 2}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, 3, c.FlattenLength())
}

func TestFromVal(t *testing.T) {
	v := NewU256Val(big.NewInt(42))
	require.Equal(t, U256{}, FromVal(v))
	assert.Equal(t, "42", v.String())
}

func TestIsScalar(t *testing.T) {
	assert.True(t, IsScalar(U256{}))
	assert.False(t, IsScalar(FixedArray{Elem: U256{}, Size: 1}))
}

func TestEncodeBool(t *testing.T) {
	assert.Equal(t, []byte{1}, NewBoolVal(true).Encode())
	assert.Equal(t, []byte{0}, NewBoolVal(false).Encode())
}

func TestEncodeU256(t *testing.T) {
	want := make([]byte, 32)
	want[31] = 42
	assert.Equal(t, want, NewU256Val(big.NewInt(42)).Encode())
}

func TestEncodePositiveI256(t *testing.T) {
	want := make([]byte, 32)
	want[31] = 1
	assert.Equal(t, want, NewI256Val(big.NewInt(1)).Encode())
}

func TestEncodeNegativeI256UsesTwosComplement(t *testing.T) {
	want := make([]byte, 32)
	for i := range want {
		want[i] = 0xFF
	}
	assert.Equal(t, want, NewI256Val(big.NewInt(-1)).Encode())
}

func TestEncodeNegativeI256SmallMagnitude(t *testing.T) {
	// -256 in 256-bit two's complement: 0xFF...FF00
	want := make([]byte, 32)
	for i := 0; i < 31; i++ {
		want[i] = 0xFF
	}
	want[31] = 0x00
	assert.Equal(t, want, NewI256Val(big.NewInt(-256)).Encode())
}

func TestEncodeByteVecAndAddress(t *testing.T) {
	assert.Equal(t, []byte{1, 2, 3}, NewByteVecVal([]byte{1, 2, 3}).Encode())
	assert.Equal(t, []byte{9, 9}, NewAddressVal([]byte{9, 9}).Encode())
}
