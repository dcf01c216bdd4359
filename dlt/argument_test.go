package dlt_test

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dlt-toolkit/dlthub/dlt"
)

func strPtr(s string) *string { return &s }

func TestArgumentRoundTrip(t *testing.T) {
	t.Parallel()

	name := strPtr("count")
	unit := strPtr("ms")

	tests := []struct {
		name string
		arg  dlt.Argument
	}{
		{
			"bool named",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindBool, HasVariableInfo: true}, name, nil, nil, dlt.NewBoolValue(true)),
		},
		{
			"u32 named with unit",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindUnsigned, Length: 32, HasVariableInfo: true}, name, unit, nil, dlt.NewUintValue(42)),
		},
		{
			"i64 unnamed",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindSigned, Length: 64}, nil, nil, nil, dlt.NewIntValue(-12345)),
		},
		{
			"i128",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindSigned, Length: 128}, nil, nil, nil, dlt.NewInt128Value(big.NewInt(-99999999999))),
		},
		{
			"u128",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindUnsigned, Length: 128}, nil, nil, nil, dlt.NewUint128Value(big.NewInt(99999999999))),
		},
		{
			"float32",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindFloat, Length: 32}, nil, nil, nil, dlt.NewFloat32Value(3.5)),
		},
		{
			"float64",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindFloat, Length: 64}, nil, nil, nil, dlt.NewFloat64Value(2.71828)),
		},
		{
			"signed fixed point",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindSignedFixedPoint, Length: 32}, nil, nil,
				&dlt.FixedPoint{Quantization: 0.1, OffsetI32: -5}, dlt.NewIntValue(100)),
		},
		{
			"unsigned fixed point 64-bit offset",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindUnsignedFixedPoint, Length: 64}, nil, nil,
				&dlt.FixedPoint{Quantization: 0.5, Offset64: true, OffsetI64: 1000}, dlt.NewUintValue(7)),
		},
		{
			"string named",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindStringType, HasVariableInfo: true}, name, nil, nil, dlt.NewStringValue("hello world")),
		},
		{
			"string unnamed",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindStringType}, nil, nil, nil, dlt.NewStringValue("hello world")),
		},
		{
			"raw unnamed",
			mustArg(t, dlt.TypeInfo{Kind: dlt.KindRaw}, nil, nil, nil, dlt.NewRawValue([]byte{0xDE, 0xAD, 0xBE, 0xEF})),
		},
	}

	for _, bo := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				encoded := tt.arg.Encode(bo)
				decoded, n, err := dlt.DecodeArgument(encoded, bo)
				require.NoError(t, err)
				require.Equal(t, len(encoded), n)
				if diff := cmp.Diff(tt.arg, decoded, cmp.Comparer(bigIntEqual)); diff != "" {
					t.Errorf("round trip mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func bigIntEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

func mustArg(t *testing.T, ti dlt.TypeInfo, name, unit *string, fp *dlt.FixedPoint, v dlt.Value) dlt.Argument {
	t.Helper()
	a, err := dlt.NewArgument(ti, name, unit, fp, v)
	require.NoError(t, err)
	return a
}

func TestNewArgumentRejectsTypeMismatch(t *testing.T) {
	t.Parallel()
	_, err := dlt.NewArgument(dlt.TypeInfo{Kind: dlt.KindSigned, Length: 32}, nil, nil, nil, dlt.NewFloat32Value(1))
	require.Error(t, err)
}

func TestNewArgumentRejectsFixedPointMismatch(t *testing.T) {
	t.Parallel()
	_, err := dlt.NewArgument(dlt.TypeInfo{Kind: dlt.KindSigned, Length: 32}, nil, nil,
		&dlt.FixedPoint{Quantization: 1}, dlt.NewIntValue(1))
	require.Error(t, err)
}

func TestNewArgumentRejectsNameWithoutVariableInfo(t *testing.T) {
	t.Parallel()
	_, err := dlt.NewArgument(dlt.TypeInfo{Kind: dlt.KindBool}, strPtr("x"), nil, nil, dlt.NewBoolValue(true))
	require.Error(t, err)
}

func TestAbsentNameFieldDecodesToNil(t *testing.T) {
	t.Parallel()
	ti := dlt.TypeInfo{Kind: dlt.KindBool, HasVariableInfo: true}
	a := mustArg(t, ti, nil, nil, nil, dlt.NewBoolValue(true))
	encoded := a.Encode(binary.LittleEndian)
	decoded, _, err := dlt.DecodeArgument(encoded, binary.LittleEndian)
	require.NoError(t, err)
	require.Nil(t, decoded.Name)
	require.Nil(t, decoded.Unit)
}

func TestFixedPointLogicalValueWrapsOnCast(t *testing.T) {
	t.Parallel()
	// Negative offset: wraps on cast to uint64 rather than erroring.
	fp := dlt.FixedPoint{Quantization: 1, OffsetI32: -1}
	got := fp.LogicalValue(dlt.NewIntValue(0))
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), got)
}
