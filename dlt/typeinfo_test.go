package dlt_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlt-toolkit/dlthub/dlt"
)

func TestTypeInfoRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		t    dlt.TypeInfo
	}{
		{"bool", dlt.TypeInfo{Kind: dlt.KindBool}},
		{"u32 named", dlt.TypeInfo{Kind: dlt.KindUnsigned, Length: 32, HasVariableInfo: true}},
		{"i64", dlt.TypeInfo{Kind: dlt.KindSigned, Length: 64}},
		{"i128", dlt.TypeInfo{Kind: dlt.KindSigned, Length: 128}},
		{"float32", dlt.TypeInfo{Kind: dlt.KindFloat, Length: 32}},
		{"float64 utf8", dlt.TypeInfo{Kind: dlt.KindFloat, Length: 64, Coding: dlt.CodingUTF8}},
		{"signed fixed point 32", dlt.TypeInfo{Kind: dlt.KindSignedFixedPoint, Length: 32}},
		{"unsigned fixed point 64", dlt.TypeInfo{Kind: dlt.KindUnsignedFixedPoint, Length: 64}},
		{"string", dlt.TypeInfo{Kind: dlt.KindStringType, HasVariableInfo: true}},
		{"raw", dlt.TypeInfo{Kind: dlt.KindRaw}},
	}

	for _, bo := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				encoded := tt.t.Encode(bo)
				require.Len(t, encoded, 4)
				decoded, n, err := dlt.DecodeTypeInfo(encoded, bo)
				require.NoError(t, err)
				assert.Equal(t, 4, n)
				assert.Equal(t, tt.t, decoded)
			})
		}
	}
}

func TestTypeInfoLengthCodeZeroFails(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 1<<5) // signed bit set, length code 0
	_, _, err := dlt.DecodeTypeInfo(buf, binary.LittleEndian)
	require.Error(t, err)
	var invalid *dlt.InvalidTypeInfo
	assert.ErrorAs(t, err, &invalid)
}

func TestTypeInfoFloatRejectsBadLength(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 4)
	word := uint32(1) | (1 << 7) // length code 1 (8 bits), float bit
	binary.LittleEndian.PutUint32(buf, word)
	_, _, err := dlt.DecodeTypeInfo(buf, binary.LittleEndian)
	require.Error(t, err)
}

func TestTypeInfoUnknownCodingDecodesAsUTF8(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 4)
	word := uint32(1) | (1 << 4) | (uint32(3) << 15) // bool, coding=3 (unrecognized)
	binary.LittleEndian.PutUint32(buf, word)
	ti, _, err := dlt.DecodeTypeInfo(buf, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, dlt.CodingUTF8, ti.Coding)
}
