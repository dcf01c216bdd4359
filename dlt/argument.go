package dlt

import (
	"encoding/binary"
	"math"
	"math/big"
)

// FixedPoint is the quantization/offset pair attached to *FixedPoint
// arguments. Logical value = raw·Quantization + Offset.
type FixedPoint struct {
	Quantization float32
	Offset64     bool // true: Offset carries an i64, false: an i32
	OffsetI32    int32
	OffsetI64    int64
}

func (fp FixedPoint) offsetAsInt64() int64 {
	if fp.Offset64 {
		return fp.OffsetI64
	}
	return int64(fp.OffsetI32)
}

func (fp FixedPoint) encode(buf []byte, bo binary.ByteOrder) []byte {
	var tmp4 [4]byte
	bo.PutUint32(tmp4[:], math.Float32bits(fp.Quantization))
	buf = append(buf, tmp4[:]...)
	if fp.Offset64 {
		var tmp8 [8]byte
		bo.PutUint64(tmp8[:], uint64(fp.OffsetI64))
		buf = append(buf, tmp8[:]...)
	} else {
		bo.PutUint32(tmp4[:], uint32(fp.OffsetI32))
		buf = append(buf, tmp4[:]...)
	}
	return buf
}

func decodeFixedPoint(buf []byte, bo binary.ByteOrder, offset64 bool) (FixedPoint, int, error) {
	need := 4
	if offset64 {
		need += 8
	} else {
		need += 4
	}
	if len(buf) < need {
		return FixedPoint{}, 0, ErrIncomplete
	}
	fp := FixedPoint{
		Quantization: math.Float32frombits(bo.Uint32(buf[0:4])),
		Offset64:     offset64,
	}
	if offset64 {
		fp.OffsetI64 = int64(bo.Uint64(buf[4:12]))
	} else {
		fp.OffsetI32 = int32(bo.Uint32(buf[4:8]))
	}
	return fp, need, nil
}

// LogicalValue computes the fixed-point physical value,
// preserving the original wrap-on-cast-to-u64 behavior for negative
// offsets (see DESIGN.md for the wraparound rationale).
func (fp FixedPoint) LogicalValue(raw Value) uint64 {
	scaled := raw.AsF64() * float64(fp.Quantization)
	return uint64(scaled) + uint64(fp.offsetAsInt64())
}

// Argument is a single self-describing verbose-payload field.
type Argument struct {
	TypeInfo   TypeInfo
	Name       *string // nil or empty: absent (encoded as a lone NUL, decoded as nil); otherwise name present
	Unit       *string
	FixedPoint *FixedPoint
	Value      Value
}

// NewArgument validates the construction invariants (fixed_point only
// with *FixedPoint kinds, name/unit only with HasVariableInfo, Value tag
// reachable from TypeInfo.Kind) at construction time rather than deferring
// rejection to encode time (see DESIGN.md for the rationale).
func NewArgument(t TypeInfo, name, unit *string, fp *FixedPoint, v Value) (Argument, error) {
	isFixedPointKind := t.Kind == KindSignedFixedPoint || t.Kind == KindUnsignedFixedPoint
	if fp != nil && !isFixedPointKind {
		return Argument{}, &ArgumentTypeMismatch{Reason: "fixed_point set on non-fixed-point kind"}
	}
	if fp == nil && isFixedPointKind {
		return Argument{}, &ArgumentTypeMismatch{Reason: "fixed-point kind missing fixed_point block"}
	}
	if (name != nil || unit != nil) && !t.HasVariableInfo {
		return Argument{}, &ArgumentTypeMismatch{Reason: "name/unit present without has_variable_info"}
	}
	if !kindMatchesType(v, t) {
		return Argument{}, &ArgumentTypeMismatch{Reason: "value tag unreachable from type_info.kind"}
	}
	return Argument{TypeInfo: t, Name: name, Unit: unit, FixedPoint: fp, Value: v}, nil
}

func encodeIDField(buf []byte, bo binary.ByteOrder, s *string) []byte {
	var tmp2 [2]byte
	if s == nil || *s == "" {
		bo.PutUint16(tmp2[:], 1)
		buf = append(buf, tmp2[:]...)
		return append(buf, 0)
	}
	bo.PutUint16(tmp2[:], uint16(len(*s)+1))
	buf = append(buf, tmp2[:]...)
	buf = append(buf, []byte(*s)...)
	return append(buf, 0)
}

func decodeIDField(buf []byte, bo binary.ByteOrder) (*string, int, error) {
	if len(buf) < 2 {
		return nil, 0, ErrIncomplete
	}
	n := int(bo.Uint16(buf[0:2]))
	if len(buf) < 2+n {
		return nil, 0, ErrIncomplete
	}
	if n <= 1 {
		return nil, 2 + n, nil
	}
	s := string(buf[2 : 2+n-1])
	return &s, 2 + n, nil
}

// Encode serializes a in message endianness bo.
func (a Argument) Encode(bo binary.ByteOrder) []byte {
	buf := a.TypeInfo.Encode(bo)

	switch a.TypeInfo.Kind {
	case KindStringType:
		body := append([]byte(a.Value.Str), 0)
		var tmp2 [2]byte
		bo.PutUint16(tmp2[:], uint16(len(body)))
		buf = append(buf, tmp2[:]...)
		if a.TypeInfo.HasVariableInfo {
			buf = encodeIDField(buf, bo, a.Name)
		}
		buf = append(buf, body...)
		return buf
	case KindRaw:
		var tmp2 [2]byte
		bo.PutUint16(tmp2[:], uint16(len(a.Value.Bytes)))
		buf = append(buf, tmp2[:]...)
		if a.TypeInfo.HasVariableInfo {
			buf = encodeIDField(buf, bo, a.Name)
		}
		buf = append(buf, a.Value.Bytes...)
		return buf
	}

	if a.TypeInfo.HasVariableInfo {
		buf = encodeIDField(buf, bo, a.Name)
		buf = encodeIDField(buf, bo, a.Unit)
	}
	if a.FixedPoint != nil {
		buf = a.FixedPoint.encode(buf, bo)
	}
	return appendValueBytes(buf, bo, a.TypeInfo, a.Value)
}

func appendValueBytes(buf []byte, bo binary.ByteOrder, t TypeInfo, v Value) []byte {
	switch t.Kind {
	case KindBool:
		if v.Bool {
			return append(buf, 1)
		}
		return append(buf, 0)
	case KindSigned, KindSignedFixedPoint:
		return appendSigned(buf, bo, t.Length, v)
	case KindUnsigned, KindUnsignedFixedPoint:
		return appendUnsigned(buf, bo, t.Length, v)
	case KindFloat:
		if t.Length == 32 {
			var tmp4 [4]byte
			bo.PutUint32(tmp4[:], math.Float32bits(v.F32))
			return append(buf, tmp4[:]...)
		}
		var tmp8 [8]byte
		bo.PutUint64(tmp8[:], math.Float64bits(v.F64))
		return append(buf, tmp8[:]...)
	}
	return buf
}

func appendUnsigned(buf []byte, bo binary.ByteOrder, bits int, v Value) []byte {
	switch bits {
	case 8:
		return append(buf, byte(v.Uint))
	case 16:
		var tmp [2]byte
		bo.PutUint16(tmp[:], uint16(v.Uint))
		return append(buf, tmp[:]...)
	case 32:
		var tmp [4]byte
		bo.PutUint32(tmp[:], uint32(v.Uint))
		return append(buf, tmp[:]...)
	case 64:
		var tmp [8]byte
		bo.PutUint64(tmp[:], v.Uint)
		return append(buf, tmp[:]...)
	case 128:
		return append128(buf, bo, v.Big)
	}
	return buf
}

func appendSigned(buf []byte, bo binary.ByteOrder, bits int, v Value) []byte {
	switch bits {
	case 8:
		return append(buf, byte(v.Int))
	case 16:
		var tmp [2]byte
		bo.PutUint16(tmp[:], uint16(v.Int))
		return append(buf, tmp[:]...)
	case 32:
		var tmp [4]byte
		bo.PutUint32(tmp[:], uint32(v.Int))
		return append(buf, tmp[:]...)
	case 64:
		var tmp [8]byte
		bo.PutUint64(tmp[:], uint64(v.Int))
		return append(buf, tmp[:]...)
	case 128:
		return append128(buf, bo, v.Big)
	}
	return buf
}

// twoToThe128 is the modulus used to fold a negative big.Int into its
// 128-bit two's-complement bit pattern.
var twoToThe128 = new(big.Int).Lsh(big.NewInt(1), 128)

// append128 writes a two's-complement 128-bit integer (signed or
// unsigned, v already carries the correct magnitude and sign) in bo's
// byte order.
func append128(buf []byte, bo binary.ByteOrder, v *big.Int) []byte {
	var be [16]byte
	if v.Sign() < 0 {
		wrapped := new(big.Int).Add(v, twoToThe128)
		wrapped.FillBytes(be[:])
	} else {
		v.FillBytes(be[:])
	}
	if bo == binary.BigEndian {
		return append(buf, be[:]...)
	}
	var le [16]byte
	for i := range be {
		le[i] = be[15-i]
	}
	return append(buf, le[:]...)
}

// DecodeArgument reads a single argument from the front of buf, in message
// endianness bo.
func DecodeArgument(buf []byte, bo binary.ByteOrder) (Argument, int, error) {
	t, n, err := DecodeTypeInfo(buf, bo)
	if err != nil {
		return Argument{}, 0, err
	}
	off := n

	if t.Kind == KindStringType || t.Kind == KindRaw {
		if len(buf) < off+2 {
			return Argument{}, 0, ErrIncomplete
		}
		length := int(bo.Uint16(buf[off : off+2]))
		off += 2
		var name *string
		if t.HasVariableInfo {
			nm, used, err := decodeIDField(buf[off:], bo)
			if err != nil {
				return Argument{}, 0, err
			}
			name = nm
			off += used
		}
		if len(buf) < off+length {
			return Argument{}, 0, &ArgumentTruncated{Reason: "value bytes"}
		}
		body := buf[off : off+length]
		off += length
		var val Value
		if t.Kind == KindStringType {
			s := body
			if length > 0 && body[length-1] == 0 {
				s = body[:length-1]
			}
			val = NewStringValue(string(s))
		} else {
			raw := make([]byte, len(body))
			copy(raw, body)
			val = NewRawValue(raw)
		}
		return Argument{TypeInfo: t, Name: name, Value: val}, off, nil
	}

	var name, unit *string
	if t.HasVariableInfo {
		nm, used, err := decodeIDField(buf[off:], bo)
		if err != nil {
			return Argument{}, 0, err
		}
		name = nm
		off += used
		un, used2, err := decodeIDField(buf[off:], bo)
		if err != nil {
			return Argument{}, 0, err
		}
		unit = un
		off += used2
	}

	var fp *FixedPoint
	if t.Kind == KindSignedFixedPoint || t.Kind == KindUnsignedFixedPoint {
		f, used, err := decodeFixedPoint(buf[off:], bo, t.Length == 64)
		if err != nil {
			return Argument{}, 0, err
		}
		fp = &f
		off += used
	}

	val, used, err := decodeValueBytes(buf[off:], bo, t)
	if err != nil {
		return Argument{}, 0, err
	}
	off += used
	return Argument{TypeInfo: t, Name: name, Unit: unit, FixedPoint: fp, Value: val}, off, nil
}

func decodeValueBytes(buf []byte, bo binary.ByteOrder, t TypeInfo) (Value, int, error) {
	switch t.Kind {
	case KindBool:
		if len(buf) < 1 {
			return Value{}, 0, ErrIncomplete
		}
		return NewBoolValue(buf[0] != 0), 1, nil
	case KindSigned, KindSignedFixedPoint:
		return decodeSigned(buf, bo, t.Length)
	case KindUnsigned, KindUnsignedFixedPoint:
		return decodeUnsigned(buf, bo, t.Length)
	case KindFloat:
		if t.Length == 32 {
			if len(buf) < 4 {
				return Value{}, 0, ErrIncomplete
			}
			return NewFloat32Value(math.Float32frombits(bo.Uint32(buf[0:4]))), 4, nil
		}
		if len(buf) < 8 {
			return Value{}, 0, ErrIncomplete
		}
		return NewFloat64Value(math.Float64frombits(bo.Uint64(buf[0:8]))), 8, nil
	default:
		return Value{}, 0, &ArgumentTypeMismatch{Reason: "unexpected kind in decodeValueBytes"}
	}
}

func decodeUnsigned(buf []byte, bo binary.ByteOrder, bits int) (Value, int, error) {
	n := bits / 8
	if len(buf) < n {
		return Value{}, 0, ErrIncomplete
	}
	switch bits {
	case 8:
		return NewUintValue(uint64(buf[0])), 1, nil
	case 16:
		return NewUintValue(uint64(bo.Uint16(buf[0:2]))), 2, nil
	case 32:
		return NewUintValue(uint64(bo.Uint32(buf[0:4]))), 4, nil
	case 64:
		return NewUintValue(bo.Uint64(buf[0:8])), 8, nil
	case 128:
		return NewUint128Value(decode128(buf[0:16], bo, false)), 16, nil
	}
	return Value{}, 0, &ArgumentTypeMismatch{Reason: "bad unsigned length"}
}

func decodeSigned(buf []byte, bo binary.ByteOrder, bits int) (Value, int, error) {
	n := bits / 8
	if len(buf) < n {
		return Value{}, 0, ErrIncomplete
	}
	switch bits {
	case 8:
		return NewIntValue(int64(int8(buf[0]))), 1, nil
	case 16:
		return NewIntValue(int64(int16(bo.Uint16(buf[0:2])))), 2, nil
	case 32:
		return NewIntValue(int64(int32(bo.Uint32(buf[0:4])))), 4, nil
	case 64:
		return NewIntValue(int64(bo.Uint64(buf[0:8]))), 8, nil
	case 128:
		return NewInt128Value(decode128(buf[0:16], bo, true)), 16, nil
	}
	return Value{}, 0, &ArgumentTypeMismatch{Reason: "bad signed length"}
}

func decode128(buf []byte, bo binary.ByteOrder, signed bool) *big.Int {
	be := make([]byte, 16)
	if bo == binary.BigEndian {
		copy(be, buf)
	} else {
		for i := 0; i < 16; i++ {
			be[i] = buf[15-i]
		}
	}
	v := new(big.Int).SetBytes(be)
	if signed && be[0]&0x80 != 0 {
		max := new(big.Int).Lsh(big.NewInt(1), 128)
		v.Sub(v, max)
	}
	return v
}
