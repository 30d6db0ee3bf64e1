package types

import (
	"fmt"
	"math/big"
)

// Val is a compile-time constant literal of a non-array type, carrying its
// type tag and payload. Arrays are never constant
// values in this lattice — CreateArray is always an expression that emits
// its element code, never a Val.
type Val struct {
	typ     Type
	boolV   bool
	intV    *big.Int // I256 / U256 payload
	bytesV  []byte   // ByteVec / Address payload
}

// NewBoolVal constructs a Bool constant.
func NewBoolVal(v bool) Val { return Val{typ: Bool{}, boolV: v} }

// NewI256Val constructs a signed 256-bit constant.
func NewI256Val(v *big.Int) Val { return Val{typ: I256{}, intV: new(big.Int).Set(v)} }

// NewU256Val constructs an unsigned 256-bit constant.
func NewU256Val(v *big.Int) Val { return Val{typ: U256{}, intV: new(big.Int).Set(v)} }

// NewByteVecVal constructs a ByteVec constant from raw bytes.
func NewByteVecVal(b []byte) Val { return Val{typ: ByteVec{}, bytesV: append([]byte(nil), b...)} }

// NewAddressVal constructs an Address constant from its encoded bytes.
func NewAddressVal(b []byte) Val { return Val{typ: Address{}, bytesV: append([]byte(nil), b...)} }

// FromVal returns the Type of a constant value.
func FromVal(v Val) Type { return v.typ }

func (v Val) Bool() bool       { return v.boolV }
func (v Val) Int() *big.Int    { return v.intV }
func (v Val) Bytes() []byte    { return v.bytesV }

// Encode returns the field-encoding byte form used to serialize a
// constant field value into a deployed contract's immutable/mutable
// field blob: a single byte tag for Bool, big-endian two's-complement (32
// bytes) for I256/U256, and the raw payload for ByteVec/Address.
func (v Val) Encode() []byte {
	switch v.typ.(type) {
	case Bool:
		if v.boolV {
			return []byte{1}
		}
		return []byte{0}
	case I256, U256:
		n := v.intV
		if n.Sign() < 0 {
			n = new(big.Int).Add(n, new(big.Int).Lsh(big.NewInt(1), 256))
		}
		b := n.Bytes()
		out := make([]byte, 32)
		copy(out[32-len(b):], b)
		return out
	case ByteVec, Address:
		return append([]byte(nil), v.bytesV...)
	default:
		return nil
	}
}

func (v Val) String() string {
	switch v.typ.(type) {
	case Bool:
		return fmt.Sprintf("%t", v.boolV)
	case I256, U256:
		return v.intV.String()
	case ByteVec:
		return fmt.Sprintf("#%x", v.bytesV)
	case Address:
		return fmt.Sprintf("@%x", v.bytesV)
	default:
		return "<val>"
	}
}
