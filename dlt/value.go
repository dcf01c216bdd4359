package dlt

import (
	"fmt"
	"math/big"
)

// ValueKind is Value's discriminant.
type ValueKind uint8

const (
	ValueBool ValueKind = iota
	ValueUint
	ValueInt
	ValueUint128
	ValueInt128
	ValueFloat32
	ValueFloat64
	ValueString
	ValueRaw
)

// Value is the decoded payload of a single Argument. Only one of its
// fields is meaningful, selected by Kind. 8/16/32/64-bit integers are all
// widened into Uint/Int; 128-bit ones use Big since Go has no native
// 128-bit integer type.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Uint  uint64
	Int   int64
	Big   *big.Int
	F32   float32
	F64   float64
	Str   string
	Bytes []byte
}

func NewBoolValue(b bool) Value        { return Value{Kind: ValueBool, Bool: b} }
func NewUintValue(v uint64) Value      { return Value{Kind: ValueUint, Uint: v} }
func NewIntValue(v int64) Value        { return Value{Kind: ValueInt, Int: v} }
func NewUint128Value(v *big.Int) Value { return Value{Kind: ValueUint128, Big: v} }
func NewInt128Value(v *big.Int) Value  { return Value{Kind: ValueInt128, Big: v} }
func NewFloat32Value(v float32) Value  { return Value{Kind: ValueFloat32, F32: v} }
func NewFloat64Value(v float64) Value  { return Value{Kind: ValueFloat64, F64: v} }
func NewStringValue(s string) Value    { return Value{Kind: ValueString, Str: s} }
func NewRawValue(b []byte) Value       { return Value{Kind: ValueRaw, Bytes: b} }

// AsF64 widens any numeric Value to float64, the representation used for
// fixed-point logical-value computation and generic rendering.
func (v Value) AsF64() float64 {
	switch v.Kind {
	case ValueUint:
		return float64(v.Uint)
	case ValueInt:
		return float64(v.Int)
	case ValueUint128, ValueInt128:
		f, _ := new(big.Float).SetInt(v.Big).Float64()
		return f
	case ValueFloat32:
		return float64(v.F32)
	case ValueFloat64:
		return v.F64
	case ValueBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// String renders the raw logical value (no fixed-point scaling applied).
func (v Value) String() string {
	switch v.Kind {
	case ValueBool:
		return fmt.Sprintf("%t", v.Bool)
	case ValueUint, ValueUint128:
		if v.Kind == ValueUint128 {
			return v.Big.String()
		}
		return fmt.Sprintf("%d", v.Uint)
	case ValueInt, ValueInt128:
		if v.Kind == ValueInt128 {
			return v.Big.String()
		}
		return fmt.Sprintf("%d", v.Int)
	case ValueFloat32:
		return fmt.Sprintf("%v", v.F32)
	case ValueFloat64:
		return fmt.Sprintf("%v", v.F64)
	case ValueString:
		return v.Str
	case ValueRaw:
		return fmt.Sprintf("%x", v.Bytes)
	default:
		return ""
	}
}

// kindMatchesType reports whether v's tag is reachable from t, the
// Argument construction-time invariant: the value's kind must agree with the declared TypeInfo.
func kindMatchesType(v Value, t TypeInfo) bool {
	switch t.Kind {
	case KindBool:
		return v.Kind == ValueBool
	case KindSigned, KindSignedFixedPoint:
		if t.Length == 128 {
			return v.Kind == ValueInt128
		}
		return v.Kind == ValueInt
	case KindUnsigned, KindUnsignedFixedPoint:
		if t.Length == 128 {
			return v.Kind == ValueUint128
		}
		return v.Kind == ValueUint
	case KindFloat:
		if t.Length == 32 {
			return v.Kind == ValueFloat32
		}
		return v.Kind == ValueFloat64
	case KindStringType:
		return v.Kind == ValueString
	case KindRaw:
		return v.Kind == ValueRaw
	default:
		return false
	}
}
